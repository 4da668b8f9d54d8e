package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/forms"
	"finance-tracker/internal/models"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	msgTransactionUpdated = "Transaction updated successfully!"
	msgTransactionDeleted = "Transaction deleted successfully!"
	msgUpdateFailed       = "Failed to update transaction. Please check your input."
)

// TransactionHandler handles a user's own income and expense entries
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
	pages              *Pages
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface, pages *Pages) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		pages:              pages,
	}
}

// AddExpense shows and processes the expense form.
// GET, POST /add_expense/
func (h *TransactionHandler) AddExpense(c echo.Context) error {
	return h.add(c, models.TransactionTypeExpense)
}

// AddIncome shows and processes the income form.
// GET, POST /add_income/
func (h *TransactionHandler) AddIncome(c echo.Context) error {
	return h.add(c, models.TransactionTypeIncome)
}

func (h *TransactionHandler) add(c echo.Context, transactionType string) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	label := strings.ToUpper(transactionType[:1]) + transactionType[1:]
	view := View{
		"Heading": "Add " + label,
		"Action":  "/add_" + transactionType + "/",
	}

	if c.Request().Method != http.MethodPost {
		form, err := h.transactionService.NewForm(userID, transactionType)
		if err != nil {
			return SendSystemError(c, err)
		}
		view["Form"] = form
		return h.pages.Render(c, http.StatusOK, "transaction_form", view)
	}

	var raw dto.TransactionForm
	if err := c.Bind(&raw); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid form data"))
	}

	_, form, err := h.transactionService.Add(userID, transactionType, raw)
	if err != nil {
		if stderrors.Is(err, services.ErrFormInvalid) {
			h.pages.Flash(c, FlashError, fmt.Sprintf("Failed to add %s. Please check your input.", transactionType))
			view["Form"] = form
			return h.pages.Render(c, http.StatusBadRequest, "transaction_form", view)
		}
		return SendSystemError(c, err)
	}

	return h.pages.Redirect(c, FlashSuccess, label+" added successfully!", "/spending/")
}

// List shows the user's transactions for the period named by ?filter=.
// Unknown filters show everything.
// GET /transactions/
func (h *TransactionHandler) List(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	var query dto.TransactionListQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}
	period := models.ParsePeriod(query.Filter)

	transactions, err := h.transactionService.List(userID, period)
	if err != nil {
		return SendSystemError(c, err)
	}

	return h.pages.Render(c, http.StatusOK, "transactions", View{
		"Transactions": transactions,
		"Filter":       period.String(),
		"Periods":      models.Periods,
	})
}

// Edit shows and processes the edit form of one transaction. The type of
// the transaction never changes.
// GET, POST /edit_transaction/:id/
func (h *TransactionHandler) Edit(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	transactionID, ok := getUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.TransactionNotFound)
	}

	view := View{
		"Heading": "Edit Transaction",
		"Action":  fmt.Sprintf("/edit_transaction/%s/", transactionID),
	}

	if c.Request().Method != http.MethodPost {
		_, form, err := h.transactionService.EditForm(userID, transactionID)
		if err != nil {
			return h.transactionError(c, err)
		}
		view["Form"] = form
		return h.pages.Render(c, http.StatusOK, "transaction_form", view)
	}

	var raw dto.TransactionForm
	if err := c.Bind(&raw); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid form data"))
	}

	_, form, err := h.transactionService.Update(userID, transactionID, raw)
	if err != nil {
		if stderrors.Is(err, services.ErrFormInvalid) {
			return h.rerender(c, form, view)
		}
		return h.transactionError(c, err)
	}

	return h.pages.Redirect(c, FlashSuccess, msgTransactionUpdated, "/transactions/")
}

func (h *TransactionHandler) rerender(c echo.Context, form *forms.TransactionForm, view View) error {
	h.pages.Flash(c, FlashError, msgUpdateFailed)
	view["Form"] = form
	return h.pages.Render(c, http.StatusBadRequest, "transaction_form", view)
}

// Delete asks for confirmation on GET and removes the transaction on POST.
// GET, POST /delete_transaction/:id/
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	transactionID, ok := getUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.TransactionNotFound)
	}

	if c.Request().Method != http.MethodPost {
		transaction, err := h.transactionService.Get(userID, transactionID)
		if err != nil {
			return h.transactionError(c, err)
		}
		return h.pages.Render(c, http.StatusOK, "delete_confirm", View{"Transaction": transaction})
	}

	if err := h.transactionService.Delete(userID, transactionID); err != nil {
		return h.transactionError(c, err)
	}

	return h.pages.Redirect(c, FlashSuccess, msgTransactionDeleted, "/transactions/")
}

func (h *TransactionHandler) transactionError(c echo.Context, err error) error {
	if stderrors.Is(err, services.ErrTransactionNotFound) {
		return SendError(c, errors.TransactionNotFound)
	}
	return SendSystemError(c, err)
}
