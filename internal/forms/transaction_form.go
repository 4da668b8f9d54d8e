package forms

import (
	"fmt"
	"strings"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgInvalidDate   = "Enter a valid date in DD-MM-YYYY format."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// CategoryLookup lists the categories a user may pick. An empty
// categoryType means both types.
type CategoryLookup interface {
	ListVisible(userID uuid.UUID, categoryType string) ([]models.Category, error)
}

// FieldErrors maps a form field to its error message.
type FieldErrors map[string]string

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

// TransactionForm validates the add and edit transaction forms. The category
// choices are narrowed to the transaction type when one is given.
type TransactionForm struct {
	ownerID         uuid.UUID
	transactionType string
	choices         []models.Category

	Values dto.TransactionForm
	Errors FieldErrors
}

func NewTransactionForm(lookup CategoryLookup, ownerID uuid.UUID, transactionType string) (*TransactionForm, error) {
	choices, err := lookup.ListVisible(ownerID, transactionType)
	if err != nil {
		return nil, fmt.Errorf("failed to load category choices: %w", err)
	}

	return &TransactionForm{
		ownerID:         ownerID,
		transactionType: transactionType,
		choices:         choices,
		Errors:          FieldErrors{},
	}, nil
}

// Choices returns the categories offered by the form.
func (f *TransactionForm) Choices() []models.Category {
	return f.choices
}

// TransactionType is the type the choices were narrowed to, if any.
func (f *TransactionForm) TransactionType() string {
	return f.transactionType
}

// Initial fills the form from an existing transaction.
func (f *TransactionForm) Initial(tx *models.Transaction) {
	f.Values = dto.TransactionForm{
		Date:        tx.FormattedDate(),
		Category:    tx.CategoryID.String(),
		Amount:      tx.Amount.StringFixed(models.MaxAmountDecimalPlaces),
		Description: tx.DescriptionText(),
	}
}

// Validate checks raw and converts it to a draft. On failure the draft is nil
// and the returned errors hold one message per offending field.
func (f *TransactionForm) Validate(raw dto.TransactionForm) (*dto.TransactionDraft, FieldErrors) {
	raw.Date = strings.TrimSpace(raw.Date)
	raw.Category = strings.TrimSpace(raw.Category)
	raw.Amount = strings.TrimSpace(raw.Amount)
	raw.Description = strings.TrimSpace(raw.Description)

	f.Values = raw
	f.Errors = FieldErrors(validation.GetValidator().ValidateStruct(raw))
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}

	draft := &dto.TransactionDraft{}

	if !f.Errors.Has("date") {
		date, err := models.ParseDate(raw.Date)
		if err != nil {
			f.Errors["date"] = msgInvalidDate
		} else {
			draft.Date = date
		}
	}

	if f.Errors.Has("category") {
		f.Errors["category"] = msgInvalidChoice
	} else {
		category := f.choice(raw.Category)
		if category == nil {
			f.Errors["category"] = msgInvalidChoice
		} else {
			draft.CategoryID = category.ID
		}
	}

	if !f.Errors.Has("amount") {
		draft.Amount = decimal.RequireFromString(raw.Amount)
	}

	if raw.Description != "" {
		description := raw.Description
		draft.Description = &description
	}

	if len(f.Errors) > 0 {
		return nil, f.Errors
	}
	return draft, nil
}

// Category returns the chosen category of a validated form.
func (f *TransactionForm) Category(id uuid.UUID) *models.Category {
	for i := range f.choices {
		if f.choices[i].ID == id {
			return &f.choices[i]
		}
	}
	return nil
}

func (f *TransactionForm) choice(raw string) *models.Category {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}

	category := f.Category(id)
	if category == nil {
		return nil
	}
	if f.transactionType != "" && category.CategoryType != f.transactionType {
		return nil
	}
	if !category.VisibleTo(f.ownerID) {
		return nil
	}
	return category
}
