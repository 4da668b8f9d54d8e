package repositories

import (
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	ExistsByUsername(username string) (bool, error)
	Update(user *models.User) error
	UpdateFailedLoginAttempts(user *models.User) error
	RecordSuccessfulLogin(userID uuid.UUID, at time.Time) error
	UnlockAccount(userID uuid.UUID) error
	Delete(userID uuid.UUID) error
	ListUsers(offset, limit int) ([]*models.User, int64, error)
}

// CategoryRepositoryInterface defines the contract for category repository operations
type CategoryRepositoryInterface interface {
	Create(category *models.Category) error
	GetByID(id uuid.UUID) (*models.Category, error)
	Update(category *models.Category) error
	ListVisible(userID uuid.UUID, categoryType string) ([]models.Category, error)
	ListWithFilters(filters models.AdminCategoryFilters) ([]models.Category, int64, error)
	EnsureGlobal(name, categoryType string) (*models.Category, error)
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	CreateBatch(transactions []models.Transaction) error
	GetByIDForUser(id, userID uuid.UUID) (*models.Transaction, error)
	Update(transaction *models.Transaction) error
	DeleteForUser(id, userID uuid.UUID) error
	ListByUser(filters models.TransactionFilters) ([]models.Transaction, error)
	GetTotalsByType(userID uuid.UUID) (models.TypeTotals, error)
	ListWithFilters(filters models.AdminTransactionFilters) ([]models.Transaction, int64, error)
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	GetByUserID(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	GetByResource(resource, resourceID string, offset, limit int) ([]*models.AuditLog, int64, error)
	DeleteOlderThan(duration time.Duration) (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token repository operations
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	DeleteExpired() (int64, error)
}
