package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/fintechbuddy/insights-api/models"
)

// Column-name vocabularies for detection. Matching is case-insensitive on
// trimmed names; the first column that matches wins.
var (
	descExactNames = []string{"description", "narration", "details", "remarks", "particulars"}
	descSubstrings = []string{"desc", "narr", "particular"}

	amountExactNames = []string{"amt", "value", "debit", "credit"}
	// NOTE: "balance" as a last-resort amount keyword can pick up a running
	// balance column; kept to match the reference behavior.
	amountSubstrings = []string{"amt", "debit", "credit", "balance"}
)

// Date layouts tried in order. DD/MM variants come before MM/DD since the
// bank exports this service targets are day-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
	"01-02-2006",
	"02/01/06",
	"02-01-06",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// detectColumns identifies which column supplies each semantic role. Empty
// string + false means no candidate.
func detectColumns(columns []string) (descCol, amtCol, dateCol string, descOK, amtOK, dateOK bool) {
	lower := make([]string, len(columns))
	for i, c := range columns {
		lower[i] = strings.ToLower(strings.TrimSpace(c))
	}

	// Description: exact vocabulary first, then substring.
	for i, c := range lower {
		if containsString(descExactNames, c) {
			descCol, descOK = columns[i], true
			break
		}
	}
	if !descOK {
		for i, c := range lower {
			if containsAny(c, descSubstrings) {
				descCol, descOK = columns[i], true
				break
			}
		}
	}

	// Amount: anything containing "amount" or an exact amt/value/debit/credit,
	// then a broader substring scan.
	for i, c := range lower {
		if strings.Contains(c, "amount") || containsString(amountExactNames, c) {
			amtCol, amtOK = columns[i], true
			break
		}
	}
	if !amtOK {
		for i, c := range lower {
			if containsAny(c, amountSubstrings) {
				amtCol, amtOK = columns[i], true
				break
			}
		}
	}

	// Date: optional, any column containing "date".
	for i, c := range lower {
		if strings.Contains(c, "date") {
			dateCol, dateOK = columns[i], true
			break
		}
	}

	return
}

// Normalize turns a raw table into canonical transactions plus their
// summary. The table is processed in one pass per concern: column
// detection, amount resolution, date/month derivation, categorization,
// then aggregation.
func Normalize(table *models.RawTable) ([]models.Transaction, models.Summary, error) {
	descCol, amtCol, dateCol, descOK, amtOK, dateOK := detectColumns(table.Columns)
	if !descOK || !amtOK {
		return nil, models.Summary{}, inputErrorf(
			"could not detect required columns, found columns: %v, need a Description-like and an Amount-like column",
			table.Columns)
	}

	amounts := resolveAmounts(table, amtCol)
	dates := resolveDates(table, dateCol, dateOK)

	txs := make([]models.Transaction, len(table.Rows))
	for i, row := range table.Rows {
		tx := models.Transaction{
			Description: strings.TrimSpace(row[descCol]),
			Amount:      amounts[i],
		}
		if dates[i] != nil {
			tx.Date = dates[i]
			tx.Month = dates[i].Format("2006-01")
		}
		tx.Category = categoryForRow(table, row, tx.Description)
		txs[i] = tx
	}

	return txs, Summarize(txs), nil
}

// resolveAmounts produces one signed amount per row. Cells that fail
// numeric coercion stay missing until the final pass, where they become 0;
// zero must not be conflated with missing before the debit/credit gate is
// evaluated.
func resolveAmounts(table *models.RawTable, amtCol string) []float64 {
	parsed := make([]*float64, len(table.Rows))
	anyParsed := false
	for i, row := range table.Rows {
		if v, ok := parseAmount(row[amtCol]); ok {
			parsed[i] = &v
			anyParsed = true
		}
	}

	debitCol, hasDebit := findExactColumn(table.Columns, "debit")
	creditCol, hasCredit := findExactColumn(table.Columns, "credit")

	// Split debit/credit layout: recompute as credit-debit when both columns
	// exist and the primary column either parsed nothing at all or is itself
	// one of the pair (no standalone amount column). A valid standalone
	// amount column is never overwritten.
	primaryIsPair := strings.EqualFold(strings.TrimSpace(amtCol), "debit") ||
		strings.EqualFold(strings.TrimSpace(amtCol), "credit")
	if hasDebit && hasCredit && (!anyParsed || primaryIsPair) {
		for i, row := range table.Rows {
			debit, _ := parseAmount(row[debitCol])
			credit, _ := parseAmount(row[creditCol])
			v := credit - debit
			parsed[i] = &v
		}
	}

	amounts := make([]float64, len(table.Rows))
	for i, v := range parsed {
		if v != nil {
			amounts[i] = *v
		}
	}
	return amounts
}

// resolveDates parses the detected date column per row. When that column
// yields no date for any row, the literal fallback names are scanned.
func resolveDates(table *models.RawTable, dateCol string, dateOK bool) []*time.Time {
	dates := make([]*time.Time, len(table.Rows))
	if dateOK {
		if parseDateColumn(table, dateCol, dates) {
			return dates
		}
	}

	for _, cand := range []string{"Date", "date", "Txn Date", "Transaction Date"} {
		if !containsString(table.Columns, cand) {
			continue
		}
		if parseDateColumn(table, cand, dates) {
			return dates
		}
	}
	return dates
}

// parseDateColumn fills dates from one column, reporting whether any row
// produced a valid date.
func parseDateColumn(table *models.RawTable, col string, dates []*time.Time) bool {
	any := false
	for i, row := range table.Rows {
		if t, ok := parseDate(row[col]); ok {
			dates[i] = &t
			any = true
		} else {
			dates[i] = nil
		}
	}
	return any
}

func categoryForRow(table *models.RawTable, row map[string]string, description string) string {
	if col, ok := findExactColumn(table.Columns, "category"); ok {
		if existing := strings.TrimSpace(row[col]); existing != "" {
			return existing
		}
	}
	return Categorize(description)
}

// Summarize computes the aggregate view. Pure function: same transactions,
// same summary.
func Summarize(txs []models.Transaction) models.Summary {
	summary := models.Summary{
		MonthlySummary:  map[string]float64{},
		CategorySummary: map[string]float64{},
		Rows:            len(txs),
	}
	for _, tx := range txs {
		if tx.Amount > 0 {
			summary.TotalIncome += tx.Amount
		} else if tx.Amount < 0 {
			summary.TotalExpense += tx.Amount
		}
		summary.NetBalance += tx.Amount
		summary.CategorySummary[tx.Category] += tx.Amount
		if tx.Month != "" {
			summary.MonthlySummary[tx.Month] += tx.Amount
		}
	}
	return summary
}

// parseAmount coerces a cell to a number, tolerating thousands separators
// and currency symbols. ok=false means the cell is missing or not numeric.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)

	// Accounting negatives: (450.00)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.Trim(s, "()")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// findExactColumn returns the column whose trimmed name equals the target
// case-insensitively.
func findExactColumn(columns []string, target string) (string, bool) {
	for _, c := range columns {
		if strings.EqualFold(strings.TrimSpace(c), target) {
			return c, true
		}
	}
	return "", false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
