package services

import (
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/forms"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// AuditServiceInterface defines the contract for audit logging operations
type AuditServiceInterface interface {
	CreateAuditLog(log *models.AuditLog) error
	GetUserActivity(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	GetResourceHistory(resource, resourceID string, offset, limit int) ([]*models.AuditLog, int64, error)
	LogLogin(userID uuid.UUID, ipAddress, userAgent string) error
	LogLogout(userID uuid.UUID, ipAddress, userAgent string) error
	LogRegistration(userID uuid.UUID, ipAddress, userAgent string) error
	LogFailedLogin(username, reason, ipAddress, userAgent string) error
	LogAccountLocked(userID uuid.UUID, ipAddress, userAgent string) error
	LogResourceChange(actorID uuid.UUID, action, resource, resourceID string, metadata map[string]interface{}) error
	PurgeOlderThan(age time.Duration) (int64, error)
}

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error)
	Login(req *dto.LoginRequest, ipAddress, userAgent string) (*models.User, *dto.SessionToken, error)
	Logout(sessionToken, ipAddress, userAgent string) error
	GetProfile(userID uuid.UUID) (*models.User, error)
}

type TokenServiceInterface interface {
	GenerateSessionToken(user *models.User) (*dto.SessionToken, error)
	ValidateSessionToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password, username string) error
	HashPassword(password, username string) (string, error)
	ComparePassword(password, hash string) bool
	HashPasswordWithoutValidation(password string) (string, error)
	GenerateSecurePassword() (string, error)
}

// CategoryServiceInterface covers the categories a user sees and creates
type CategoryServiceInterface interface {
	ListVisible(userID uuid.UUID, categoryType string) ([]models.Category, error)
	ListForUser(userID uuid.UUID) (*dto.CategoryListing, error)
	CreateFromForm(userID uuid.UUID, form dto.CategoryForm) (*models.Category, error)
}

// TransactionServiceInterface covers a user's own transactions. Form
// failures return ErrFormInvalid together with the form holding the errors.
type TransactionServiceInterface interface {
	NewForm(userID uuid.UUID, transactionType string) (*forms.TransactionForm, error)
	Add(userID uuid.UUID, transactionType string, raw dto.TransactionForm) (*models.Transaction, *forms.TransactionForm, error)
	List(userID uuid.UUID, period models.Period) ([]models.Transaction, error)
	Get(userID, transactionID uuid.UUID) (*models.Transaction, error)
	EditForm(userID, transactionID uuid.UUID) (*models.Transaction, *forms.TransactionForm, error)
	Update(userID, transactionID uuid.UUID, raw dto.TransactionForm) (*models.Transaction, *forms.TransactionForm, error)
	Delete(userID, transactionID uuid.UUID) error
	Today() time.Time
}

// ReportServiceInterface aggregates a user's transactions
type ReportServiceInterface interface {
	Totals(userID uuid.UUID) (models.TypeTotals, error)
	Dashboard(userID uuid.UUID) (*models.Dashboard, error)
}

// AdminServiceInterface backs the management API
type AdminServiceInterface interface {
	ListTransactions(filters models.AdminTransactionFilters) ([]models.Transaction, int64, error)
	ListCategories(filters models.AdminCategoryFilters) ([]models.Category, int64, error)
	SaveCategory(adminID uuid.UUID, categoryID *uuid.UUID, req *dto.SaveCategoryRequest) (*models.Category, error)
	ListUsers(offset, limit int) ([]*models.User, int64, error)
	UnlockUser(adminID, userID uuid.UUID) error
	DeleteUser(adminID, userID uuid.UUID) error
}

// SampleDataGeneratorInterface fills a user's history with fake entries
type SampleDataGeneratorInterface interface {
	Generate(userID uuid.UUID, count, days int) (*dto.SampleDataResponse, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
