package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() Transaction {
	return Transaction{
		UserID:          uuid.New(),
		CategoryID:      uuid.New(),
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.RequireFromString("42.50"),
		TransactionType: TransactionTypeExpense,
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "zero amount allowed", mutate: func(tx *Transaction) { tx.Amount = decimal.Zero }},
		{name: "largest amount", mutate: func(tx *Transaction) { tx.Amount = decimal.RequireFromString("99999999.99") }},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount = decimal.RequireFromString("-1") }, wantErr: ErrNegativeAmount},
		{name: "too many decimals", mutate: func(tx *Transaction) { tx.Amount = decimal.RequireFromString("1.234") }, wantErr: ErrAmountOutOfRange},
		{name: "too many whole digits", mutate: func(tx *Transaction) { tx.Amount = decimal.RequireFromString("123456789") }, wantErr: ErrAmountOutOfRange},
		{name: "unknown type", mutate: func(tx *Transaction) { tx.TransactionType = "debit" }, wantErr: ErrInvalidTransactionType},
		{name: "missing date", mutate: func(tx *Transaction) { tx.Date = time.Time{} }, wantErr: ErrTransactionDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransaction_ValidateRequiresOwnerAndCategory(t *testing.T) {
	tx := validTransaction()
	tx.UserID = uuid.Nil
	assert.Error(t, tx.Validate())

	tx = validTransaction()
	tx.CategoryID = uuid.Nil
	assert.Error(t, tx.Validate())
}

func TestTransaction_SignedAmount(t *testing.T) {
	tx := validTransaction()
	assert.True(t, tx.SignedAmount().Equal(decimal.RequireFromString("-42.50")))

	tx.TransactionType = TransactionTypeIncome
	assert.True(t, tx.SignedAmount().Equal(decimal.RequireFromString("42.50")))
}

func TestTransaction_Accessors(t *testing.T) {
	tx := validTransaction()
	assert.Equal(t, "15-03-2024", tx.FormattedDate())
	assert.Equal(t, "", tx.DescriptionText())
	assert.Equal(t, "", tx.CategoryName())

	note := "groceries"
	tx.Description = &note
	tx.Category = &Category{Name: "Food"}
	assert.Equal(t, "groceries", tx.DescriptionText())
	assert.Equal(t, "Food", tx.CategoryName())
}

func TestTransaction_BeforeCreateNormalizesDate(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	tx := validTransaction()
	tx.Date = time.Date(2024, 3, 15, 23, 30, 0, 0, rome)

	require.NoError(t, tx.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), tx.Date)
}

func TestDecimalDigits(t *testing.T) {
	tests := []struct {
		value    string
		digits   int
		decimals int
	}{
		{"0", 0, 0},
		{"0.05", 2, 2},
		{"12.50", 4, 2},
		{"100", 3, 0},
		{"-3.1", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			digits, decimals := DecimalDigits(decimal.RequireFromString(tt.value))
			assert.Equal(t, tt.digits, digits)
			assert.Equal(t, tt.decimals, decimals)
		})
	}
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("29-02-2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("2024-02-29")
	assert.Error(t, err)

	_, err = ParseDate("31-02-2024")
	assert.Error(t, err)
}

func TestParseDate_OptionalLeadingZeros(t *testing.T) {
	want := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	for _, value := range []string{"1-2-2024", "01-2-2024", "1-02-2024", "01-02-2024"} {
		parsed, err := ParseDate(value)
		require.NoError(t, err, value)
		assert.Equal(t, want, parsed, value)
	}

	for _, value := range []string{"1-2-24", "001-02-2024", "1/2/2024", "32-1-2024"} {
		_, err := ParseDate(value)
		assert.Error(t, err, value)
	}
}
