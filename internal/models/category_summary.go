package models

import "github.com/shopspring/decimal"

// CategorySummary is the summed amount of one category's transactions.
type CategorySummary struct {
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// TypeTotals holds the per-type sums for one owner. A type with no
// transactions sums to zero.
type TypeTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

func (t TypeTotals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// BalancePoint is one step of the running balance series.
type BalancePoint struct {
	Label   string          `json:"label"`
	Balance decimal.Decimal `json:"balance"`
}

// Dashboard is the derived data behind the dashboard view.
type Dashboard struct {
	Totals            TypeTotals                 `json:"totals"`
	ExpenseByCategory map[string]decimal.Decimal `json:"expense_by_category"`
	CategoryBreakdown []CategorySummary          `json:"category_breakdown"`
	RunningBalance    []BalancePoint             `json:"running_balance"`
}
