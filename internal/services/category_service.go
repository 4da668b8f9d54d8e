package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

var ErrCategoryNameMissing = errors.New("enter a name for the new income or expense category")

type categoryService struct {
	repo    repositories.CategoryRepositoryInterface
	audit   AuditServiceInterface
	metrics MetricsRecorderInterface
	logger  *slog.Logger
}

// NewCategoryService creates a new CategoryServiceInterface instance
func NewCategoryService(
	repo repositories.CategoryRepositoryInterface,
	audit AuditServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) CategoryServiceInterface {
	return &categoryService{
		repo:    repo,
		audit:   audit,
		metrics: metrics,
		logger:  logger,
	}
}

// ListVisible returns the global categories plus the user's own. An empty
// categoryType lists both types.
func (s *categoryService) ListVisible(userID uuid.UUID, categoryType string) ([]models.Category, error) {
	if categoryType != "" && !models.IsValidEntryType(categoryType) {
		return nil, models.ErrInvalidTransactionType
	}
	return s.repo.ListVisible(userID, categoryType)
}

func (s *categoryService) ListForUser(userID uuid.UUID) (*dto.CategoryListing, error) {
	categories, err := s.repo.ListVisible(userID, "")
	if err != nil {
		return nil, err
	}

	listing := &dto.CategoryListing{
		Income:  []models.Category{},
		Expense: []models.Category{},
	}
	for _, category := range categories {
		switch category.CategoryType {
		case models.TransactionTypeIncome:
			listing.Income = append(listing.Income, category)
		case models.TransactionTypeExpense:
			listing.Expense = append(listing.Expense, category)
		}
	}

	return listing, nil
}

// CreateFromForm creates one category owned by the user. The income name is
// used when filled, otherwise the expense name.
func (s *categoryService) CreateFromForm(userID uuid.UUID, form dto.CategoryForm) (*models.Category, error) {
	name, categoryType := strings.TrimSpace(form.NewIncomeCategory), models.TransactionTypeIncome
	if name == "" {
		name, categoryType = strings.TrimSpace(form.NewExpenseCategory), models.TransactionTypeExpense
	}
	if name == "" {
		return nil, ErrCategoryNameMissing
	}

	owner := userID
	category := &models.Category{
		Name:         name,
		CategoryType: categoryType,
		UserID:       &owner,
	}

	if err := s.repo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.metrics.IncrementCounter(MetricCategoryCreated, map[string]string{"type": categoryType, "source": "user"})
	if err := s.audit.LogResourceChange(userID, models.AuditActionCreate, models.AuditResourceCategory,
		category.ID.String(), map[string]interface{}{"name": name, "category_type": categoryType}); err != nil {
		s.logger.Error("failed to create audit log", "error", err, "category_id", category.ID)
	}

	return category, nil
}
