package dto

import (
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListUsersRequest represents query parameters for listing users
type ListUsersRequest struct {
	Offset int `query:"offset" validate:"min=0"`
	Limit  int `query:"limit" validate:"min=0,max=100"`
}

// AdminTransactionQuery filters the management console transaction list.
type AdminTransactionQuery struct {
	User            string `query:"user" validate:"omitempty,uuid"`
	TransactionType string `query:"transaction_type" validate:"omitempty,entry_type"`
	CategoryType    string `query:"category_type" validate:"omitempty,entry_type"`
	Search          string `query:"q" validate:"max=150"`
	Offset          int    `query:"offset" validate:"min=0"`
	Limit           int    `query:"limit" validate:"min=0,max=100"`
}

// AdminCategoryQuery filters the management console category list.
type AdminCategoryQuery struct {
	User         string `query:"user" validate:"omitempty,uuid"`
	CategoryType string `query:"category_type" validate:"omitempty,entry_type"`
	IsGlobal     string `query:"is_global" validate:"omitempty,oneof=true false"`
	Search       string `query:"q" validate:"max=100"`
	Offset       int    `query:"offset" validate:"min=0"`
	Limit        int    `query:"limit" validate:"min=0,max=100"`
}

// SaveCategoryRequest creates or updates a category from the console.
type SaveCategoryRequest struct {
	Name         string     `json:"name" validate:"required,max=100"`
	CategoryType string     `json:"categoryType" validate:"required,entry_type"`
	IsGlobal     bool       `json:"isGlobal"`
	OwnerID      *uuid.UUID `json:"ownerId,omitempty"`
}

// UserResponse represents a user in admin API responses
type UserResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email,omitempty"`
	Role                string     `json:"role"`
	FailedLoginAttempts int        `json:"failedLoginAttempts"`
	LockedAt            *time.Time `json:"lockedAt,omitempty"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// UsersListResponse represents a paginated list of users
type UsersListResponse struct {
	Users  []UserResponse `json:"users"`
	Total  int64          `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// AdminTransactionResponse is one row of the console transaction list.
type AdminTransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	User            string          `json:"user"`
	UserID          uuid.UUID       `json:"userId"`
	Date            string          `json:"date"`
	Category        string          `json:"category"`
	CategoryType    string          `json:"categoryType"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transactionType"`
	Description     string          `json:"description,omitempty"`
}

// AdminTransactionsListResponse represents a paginated list of transactions
type AdminTransactionsListResponse struct {
	Transactions []AdminTransactionResponse `json:"transactions"`
	Total        int64                      `json:"total"`
	Offset       int                        `json:"offset"`
	Limit        int                        `json:"limit"`
}

// AdminCategoryResponse is one row of the console category list.
type AdminCategoryResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	CategoryType string     `json:"categoryType"`
	IsGlobal     bool       `json:"isGlobal"`
	OwnerID      *uuid.UUID `json:"ownerId,omitempty"`
	Owner        string     `json:"owner,omitempty"`
}

// AdminCategoriesListResponse represents a paginated list of categories
type AdminCategoriesListResponse struct {
	Categories []AdminCategoryResponse `json:"categories"`
	Total      int64                   `json:"total"`
	Offset     int                     `json:"offset"`
	Limit      int                     `json:"limit"`
}

// AuditLogQuery selects one user's audit trail
type AuditLogQuery struct {
	User   string `query:"user" validate:"required,uuid"`
	Offset int    `query:"offset" validate:"min=0"`
	Limit  int    `query:"limit" validate:"min=0,max=100"`
}

// AuditLogsListResponse is a page of audit entries
type AuditLogsListResponse struct {
	Logs   []*models.AuditLog `json:"logs"`
	Total  int64              `json:"total"`
	Offset int                `json:"offset"`
	Limit  int                `json:"limit"`
}
