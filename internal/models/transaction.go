package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"

	// DateLayout is the day-month-year format shown to users.
	DateLayout = "02-01-2006"
	// dateInputLayout reads the same format with one or two digit day and month.
	dateInputLayout = "2-1-2006"

	MaxAmountDigits        = 10
	MaxAmountDecimalPlaces = 2
	MaxDescriptionLength   = 2000
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrAmountOutOfRange       = errors.New("amount exceeds 10 digits with 2 decimal places")
	ErrTransactionDate        = errors.New("transaction date is required")
)

// Transaction is a single income or expense entry owned by a user.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Date            time.Time       `gorm:"type:date;not null;index" json:"date"`
	CategoryID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description     *string         `gorm:"type:text" json:"description,omitempty"`
	TransactionType string          `gorm:"type:varchar(10);not null;index" json:"transaction_type"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	t.Date = NormalizeDate(t.Date)

	return t.Validate()
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	t.Date = NormalizeDate(t.Date)
	return t.Validate()
}

func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("owner is required")
	}

	if t.CategoryID == uuid.Nil {
		return errors.New("category is required")
	}

	if t.Date.IsZero() {
		return ErrTransactionDate
	}

	if !IsValidEntryType(t.TransactionType) {
		return ErrInvalidTransactionType
	}

	return ValidateAmount(t.Amount)
}

// SignedAmount is the amount's effect on the balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.TransactionType == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// FormattedDate renders the date in the user-facing DD-MM-YYYY layout.
func (t *Transaction) FormattedDate() string {
	return t.Date.Format(DateLayout)
}

func (t *Transaction) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

func (t *Transaction) CategoryName() string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Name
}

func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidEntryType is shared by transactions and categories.
func IsValidEntryType(entryType string) bool {
	switch entryType {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	default:
		return false
	}
}

// ValidateAmount enforces decimal(10,2) and non-negativity.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	digits, decimals := DecimalDigits(amount)
	if decimals > MaxAmountDecimalPlaces || digits > MaxAmountDigits ||
		digits-decimals > MaxAmountDigits-MaxAmountDecimalPlaces {
		return ErrAmountOutOfRange
	}

	return nil
}

// DecimalDigits counts the significant digits and fractional digits of d as
// written, so "12.50" has 4 digits and 2 decimals.
func DecimalDigits(d decimal.Decimal) (digits, decimals int) {
	coefficient := d.Coefficient()
	coefficient.Abs(coefficient)

	exponent := int(d.Exponent())
	if coefficient.Sign() == 0 {
		digits = 0
	} else {
		digits = len(coefficient.String())
	}

	if exponent >= 0 {
		return digits + exponent, 0
	}

	decimals = -exponent
	if decimals > digits {
		digits = decimals
	}
	return digits, decimals
}

// NormalizeDate strips the clock and location so dates compare as calendar
// days in storage.
func NormalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a DD-MM-YYYY date. Leading zeros on the day and month
// are optional.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateInputLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(parsed), nil
}
