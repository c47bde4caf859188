package models

import "time"

// Transaction représente une ligne canonique après normalisation.
// Amount is signed: positive = money in, negative = money out.
type Transaction struct {
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Date        *time.Time `json:"date,omitempty"`
	Month       string     `json:"month,omitempty"` // YYYY-MM, empty when no date
	Category    string     `json:"category"`
}

// Summary is the aggregate view returned after each upload.
type Summary struct {
	TotalIncome     float64            `json:"total_income"`
	TotalExpense    float64            `json:"total_expense"` // kept negative
	NetBalance      float64            `json:"net_balance"`
	MonthlySummary  map[string]float64 `json:"monthly_summary"`
	CategorySummary map[string]float64 `json:"category_summary"`
	Rows            int                `json:"rows"`
}

// Dataset is one fully processed upload. The store keeps exactly one of
// these at a time; a new upload replaces the previous dataset wholesale.
type Dataset struct {
	ID           string        `json:"id"`
	Filename     string        `json:"filename"`
	UploadedAt   time.Time     `json:"uploaded_at"`
	Transactions []Transaction `json:"transactions"`
	Summary      Summary       `json:"summary"`
}

// RawTable is a spreadsheet as read from disk, before any normalization.
// Columns keeps the original (trimmed) header order, which matters because
// column detection is first-match-wins. Cell values are always strings;
// coercion happens later.
type RawTable struct {
	Columns []string
	Rows    []map[string]string
}
