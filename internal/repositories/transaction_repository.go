package repositories

import (
	"errors"
	"fmt"
	"strings"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

const batchSize = 100

// TransactionRepository handles database operations for transactions
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}

	if err := r.db.Omit("User", "Category").Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

func (r *TransactionRepository) CreateBatch(transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	if err := r.db.Omit("User", "Category").CreateInBatches(transactions, batchSize).Error; err != nil {
		return fmt.Errorf("failed to create transactions: %w", err)
	}

	return nil
}

// GetByIDForUser loads a transaction only when it belongs to userID, so a
// foreign id is indistinguishable from a missing one.
func (r *TransactionRepository) GetByIDForUser(id, userID uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &transaction, nil
}

func (r *TransactionRepository) Update(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}

	result := r.db.Model(transaction).
		Select("date", "category_id", "amount", "description", "updated_at").
		Updates(transaction)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

func (r *TransactionRepository) DeleteForUser(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// ListByUser returns the owner's transactions, newest date first.
func (r *TransactionRepository) ListByUser(filters models.TransactionFilters) ([]models.Transaction, error) {
	var transactions []models.Transaction

	query := r.db.Preload("Category").Where("user_id = ?", filters.UserID)

	if filters.StartDate != nil {
		query = query.Where("date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("date <= ?", *filters.EndDate)
	}
	if filters.Type != "" {
		query = query.Where("transaction_type = ?", filters.Type)
	}

	if err := query.Order("date DESC").Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

type typeTotal struct {
	TransactionType string
	Total           decimal.Decimal
}

// GetTotalsByType sums the owner's amounts per type in one grouped query.
func (r *TransactionRepository) GetTotalsByType(userID uuid.UUID) (models.TypeTotals, error) {
	var rows []typeTotal

	err := r.db.Model(&models.Transaction{}).
		Select("transaction_type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID).
		Group("transaction_type").
		Scan(&rows).Error
	if err != nil {
		return models.TypeTotals{}, fmt.Errorf("failed to sum transactions: %w", err)
	}

	totals := models.TypeTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, row := range rows {
		switch row.TransactionType {
		case models.TransactionTypeIncome:
			totals.Income = row.Total
		case models.TransactionTypeExpense:
			totals.Expense = row.Total
		}
	}

	return totals, nil
}

// ListWithFilters backs the management console. Search matches the owner's
// username or the category name, case-insensitively.
func (r *TransactionRepository) ListWithFilters(filters models.AdminTransactionFilters) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := r.db.Model(&models.Transaction{}).
		Joins("JOIN users ON users.id = transactions.user_id").
		Joins("JOIN categories ON categories.id = transactions.category_id")

	if filters.UserID != nil {
		query = query.Where("transactions.user_id = ?", *filters.UserID)
	}
	if filters.Type != "" {
		query = query.Where("transactions.transaction_type = ?", filters.Type)
	}
	if filters.CategoryType != "" {
		query = query.Where("categories.category_type = ?", filters.CategoryType)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where(`(LOWER(users.username) LIKE ? ESCAPE '\' OR LOWER(categories.name) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	err := query.Select("transactions.*").
		Preload("User").
		Preload("Category").
		Order("transactions.date DESC").
		Order("transactions.created_at DESC").
		Offset(filters.Offset).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}
