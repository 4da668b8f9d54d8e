package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/forms"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrFormInvalid         = errors.New("form has errors")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Clock returns the current instant. Tests pin it.
type Clock func() time.Time

type transactionService struct {
	repo       repositories.TransactionRepositoryInterface
	categories forms.CategoryLookup
	audit      AuditServiceInterface
	metrics    MetricsRecorderInterface
	now        Clock
	location   *time.Location
	logger     *slog.Logger
}

// NewTransactionService creates a TransactionServiceInterface. "Today" is
// the calendar day of now() in location.
func NewTransactionService(
	repo repositories.TransactionRepositoryInterface,
	categories forms.CategoryLookup,
	audit AuditServiceInterface,
	metrics MetricsRecorderInterface,
	now Clock,
	location *time.Location,
	logger *slog.Logger,
) TransactionServiceInterface {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}

	return &transactionService{
		repo:       repo,
		categories: categories,
		audit:      audit,
		metrics:    metrics,
		now:        now,
		location:   location,
		logger:     logger,
	}
}

func (s *transactionService) Today() time.Time {
	return models.NormalizeDate(s.now().In(s.location))
}

// NewForm builds an empty form whose choices are narrowed to transactionType
func (s *transactionService) NewForm(userID uuid.UUID, transactionType string) (*forms.TransactionForm, error) {
	if !models.IsValidEntryType(transactionType) {
		return nil, models.ErrInvalidTransactionType
	}
	return forms.NewTransactionForm(s.categories, userID, transactionType)
}

// Add validates raw and stores it as a transactionType entry owned by userID.
// The type comes from the caller, never from the posted values.
func (s *transactionService) Add(userID uuid.UUID, transactionType string, raw dto.TransactionForm) (*models.Transaction, *forms.TransactionForm, error) {
	form, err := s.NewForm(userID, transactionType)
	if err != nil {
		return nil, nil, err
	}

	draft, fieldErrors := form.Validate(raw)
	if fieldErrors != nil {
		s.metrics.IncrementCounter(MetricTransactionRejected, map[string]string{"operation": "create"})
		return nil, form, ErrFormInvalid
	}

	transaction := &models.Transaction{
		UserID:          userID,
		Date:            draft.Date,
		CategoryID:      draft.CategoryID,
		Amount:          draft.Amount,
		Description:     draft.Description,
		TransactionType: transactionType,
	}

	if err := s.repo.Create(transaction); err != nil {
		return nil, form, fmt.Errorf("failed to add transaction: %w", err)
	}
	transaction.Category = form.Category(draft.CategoryID)

	s.recordSaved("create", transaction)
	return transaction, form, nil
}

// List returns the user's transactions inside period, newest first
func (s *transactionService) List(userID uuid.UUID, period models.Period) ([]models.Transaction, error) {
	start, end := period.Bounds(s.Today())

	transactions, err := s.repo.ListByUser(models.TransactionFilters{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// Get loads a transaction of userID. Other users' transactions are reported
// as missing.
func (s *transactionService) Get(userID, transactionID uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.repo.GetByIDForUser(transactionID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

func (s *transactionService) EditForm(userID, transactionID uuid.UUID) (*models.Transaction, *forms.TransactionForm, error) {
	transaction, err := s.Get(userID, transactionID)
	if err != nil {
		return nil, nil, err
	}

	form, err := s.NewForm(userID, transaction.TransactionType)
	if err != nil {
		return nil, nil, err
	}
	form.Initial(transaction)

	return transaction, form, nil
}

// Update replaces the date, category, amount and description. The type of a
// transaction never changes.
func (s *transactionService) Update(userID, transactionID uuid.UUID, raw dto.TransactionForm) (*models.Transaction, *forms.TransactionForm, error) {
	transaction, err := s.Get(userID, transactionID)
	if err != nil {
		return nil, nil, err
	}

	form, err := s.NewForm(userID, transaction.TransactionType)
	if err != nil {
		return nil, nil, err
	}

	draft, fieldErrors := form.Validate(raw)
	if fieldErrors != nil {
		s.metrics.IncrementCounter(MetricTransactionRejected, map[string]string{"operation": "update"})
		return transaction, form, ErrFormInvalid
	}

	transaction.Date = draft.Date
	transaction.CategoryID = draft.CategoryID
	transaction.Category = form.Category(draft.CategoryID)
	transaction.Amount = draft.Amount
	transaction.Description = draft.Description

	if err := s.repo.Update(transaction); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, form, ErrTransactionNotFound
		}
		return nil, form, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.recordSaved("update", transaction)
	return transaction, form, nil
}

func (s *transactionService) Delete(userID, transactionID uuid.UUID) error {
	if err := s.repo.DeleteForUser(transactionID, userID); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.metrics.IncrementCounter(MetricTransactionDeleted, nil)
	if err := s.audit.LogResourceChange(userID, models.AuditActionDelete, models.AuditResourceTransaction,
		transactionID.String(), nil); err != nil {
		s.logger.Error("failed to create audit log", "error", err, "transaction_id", transactionID)
	}

	return nil
}

func (s *transactionService) recordSaved(operation string, transaction *models.Transaction) {
	s.metrics.IncrementCounter(MetricTransactionSaved, map[string]string{
		"operation": operation,
		"type":      transaction.TransactionType,
	})
	s.metrics.RecordGauge(MetricTransactionAmount, transaction.Amount.InexactFloat64(),
		map[string]string{"type": transaction.TransactionType})

	action := models.AuditActionCreate
	if operation == "update" {
		action = models.AuditActionUpdate
	}

	metadata := map[string]interface{}{
		"transaction_type": transaction.TransactionType,
		"amount":           transaction.Amount.StringFixed(models.MaxAmountDecimalPlaces),
		"date":             transaction.FormattedDate(),
	}
	if err := s.audit.LogResourceChange(transaction.UserID, action, models.AuditResourceTransaction,
		transaction.ID.String(), metadata); err != nil {
		s.logger.Error("failed to create audit log", "error", err, "transaction_id", transaction.ID)
	}

	s.logger.Info("transaction saved",
		"operation", operation,
		"transaction_id", transaction.ID,
		"user_id", transaction.UserID,
		"type", transaction.TransactionType)
}
