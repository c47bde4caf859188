package services

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/fintechbuddy/insights-api/models"
)

// SupportedExtension reports whether the filename carries an extension we
// know how to parse.
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xls", ".xlsx":
		return true
	}
	return false
}

// ReadTable parses the uploaded file into a RawTable. The first row is the
// header; column names are trimmed. Only the first sheet of a workbook is
// read.
func ReadTable(filename string, data []byte) (*models.RawTable, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = parseCSVFile(data)
	case ".xlsx":
		rows, err = parseExcelFile(data)
	case ".xls":
		rows, err = parseXLSFile(data)
	default:
		return nil, inputErrorf("unsupported file type %q, upload .csv, .xls or .xlsx", filepath.Ext(filename))
	}
	if err != nil {
		return nil, inputErrorf("failed to read file: %v", err)
	}

	return tableFromRows(rows)
}

func parseCSVFile(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

func parseExcelFile(data []byte) ([][]string, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer xl.Close()

	sheetName := xl.GetSheetName(0)
	return xl.GetRows(sheetName)
}

func parseXLSFile(data []byte) ([][]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	sheet, err := book.GetSheet(0)
	if err != nil {
		return nil, err
	}

	rows := [][]string{}
	for _, xlsRow := range sheet.GetRows() {
		rowData := []string{}
		for _, col := range xlsRow.GetCols() {
			rowData = append(rowData, col.GetString())
		}
		rows = append(rows, rowData)
	}
	return rows, nil
}

// tableFromRows turns the header + data rows into a RawTable. Rows made of
// empty cells only are dropped; short rows are padded implicitly (missing
// cells read back as "").
func tableFromRows(rows [][]string) (*models.RawTable, error) {
	if len(rows) == 0 {
		return nil, inputErrorf("uploaded file contains no data")
	}

	columns := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		columns[i] = strings.TrimSpace(name)
	}

	table := &models.RawTable{Columns: columns}
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		cells := make(map[string]string, len(columns))
		for i, name := range columns {
			if i < len(row) {
				cells[name] = row[i]
			} else {
				cells[name] = ""
			}
		}
		table.Rows = append(table.Rows, cells)
	}

	if len(table.Rows) == 0 {
		return nil, inputErrorf("uploaded file contains no data")
	}
	return table, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
