package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionForm holds the raw values posted by the add and edit forms.
// Any transaction_type in the body is ignored; the route decides it.
type TransactionForm struct {
	Date        string `form:"date" json:"date" validate:"required"`
	Category    string `form:"category" json:"category" validate:"required,uuid"`
	Amount      string `form:"amount" json:"amount" validate:"required,money"`
	Description string `form:"description" json:"description" validate:"max=2000"`
}

// TransactionDraft is a validated TransactionForm with typed values.
type TransactionDraft struct {
	Date        time.Time
	CategoryID  uuid.UUID
	Amount      decimal.Decimal
	Description *string
}

// TransactionListQuery is the query string of the transactions view.
type TransactionListQuery struct {
	Filter string `query:"filter"`
}

// SampleDataRequest tunes the development data generator.
type SampleDataRequest struct {
	Count int `query:"count" json:"count"`
	Days  int `query:"days" json:"days"`
}

// SampleDataResponse reports what the generator created.
type SampleDataResponse struct {
	Created int    `json:"created"`
	Income  int    `json:"income"`
	Expense int    `json:"expense"`
	Message string `json:"message"`
}
