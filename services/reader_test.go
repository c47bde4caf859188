package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadTable_CSV(t *testing.T) {
	data := []byte("Narration, Amount ,Date\nSALARY CREDIT,50000,2024-01-31\nZOMATO ORDER,-450,2024-02-02\n")

	table, err := ReadTable("statement.csv", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Narration", "Amount", "Date"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "SALARY CREDIT", table.Rows[0]["Narration"])
	assert.Equal(t, "-450", table.Rows[1]["Amount"])
}

func TestReadTable_CSVSkipsBlankRows(t *testing.T) {
	data := []byte("Description,Amount\nsalary,100\n,\nrent,-50\n")

	table, err := ReadTable("file.CSV", data)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestReadTable_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Description", "Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"salary credit", 50000}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"zomato", -450}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := ReadTable("statement.xlsx", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, []string{"Description", "Amount"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "salary credit", table.Rows[0]["Description"])
	assert.Equal(t, "50000", table.Rows[0]["Amount"])
}

func TestReadTable_UnsupportedExtension(t *testing.T) {
	_, err := ReadTable("statement.pdf", []byte("whatever"))

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), ".pdf")
}

func TestReadTable_EmptyFile(t *testing.T) {
	for _, data := range [][]byte{
		[]byte(""),
		[]byte("Description,Amount\n"),
	} {
		_, err := ReadTable("empty.csv", data)
		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr, "data %q", data)
	}
}

func TestReadTable_CorruptExcel(t *testing.T) {
	_, err := ReadTable("bad.xlsx", []byte("this is not a zip archive"))

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension("a.csv"))
	assert.True(t, SupportedExtension("a.XLSX"))
	assert.True(t, SupportedExtension("bank statement.xls"))
	assert.False(t, SupportedExtension("a.pdf"))
	assert.False(t, SupportedExtension("csv"))
}
