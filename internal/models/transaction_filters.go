package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionFilters narrows an owner's transaction list. Nil dates leave
// that side of the range open.
type TransactionFilters struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Type      string
}

// AdminTransactionFilters backs the management console listing. Search
// matches the owner's username or the category name.
type AdminTransactionFilters struct {
	UserID       *uuid.UUID
	Type         string
	CategoryType string
	Search       string
	Offset       int
	Limit        int
}

// AdminCategoryFilters backs the management console category listing.
// Search matches the category name.
type AdminCategoryFilters struct {
	UserID       *uuid.UUID
	CategoryType string
	IsGlobal     *bool
	Search       string
	Offset       int
	Limit        int
}
