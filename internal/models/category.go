package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxCategoryNameLength = 100

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryNameTooLong  = errors.New("category name must be at most 100 characters")
	ErrGlobalCategoryOwner  = errors.New("a global category cannot have an owner")
	ErrCategoryOwnerMissing = errors.New("a non-global category must have an owner")
)

// Category groups transactions of a single type. A global category has no
// owner and is visible to every user; any other category belongs to exactly
// one user.
type Category struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name         string     `gorm:"type:varchar(100);not null;index" json:"name"`
	CategoryType string     `gorm:"type:varchar(10);not null;index" json:"category_type"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	IsGlobal     bool       `gorm:"not null;default:false;index" json:"is_global"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	return c.Validate()
}

func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return c.Validate()
}

func (c *Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrCategoryNameRequired
	}
	if len([]rune(name)) > MaxCategoryNameLength {
		return ErrCategoryNameTooLong
	}

	if !IsValidEntryType(c.CategoryType) {
		return ErrInvalidTransactionType
	}

	if c.IsGlobal && c.UserID != nil {
		return ErrGlobalCategoryOwner
	}
	if !c.IsGlobal && (c.UserID == nil || *c.UserID == uuid.Nil) {
		return ErrCategoryOwnerMissing
	}

	return nil
}

// VisibleTo reports whether the category may be used by the given user.
func (c *Category) VisibleTo(userID uuid.UUID) bool {
	return c.IsGlobal || (c.UserID != nil && *c.UserID == userID)
}

// OwnedBy reports whether the category belongs to the given user.
func (c *Category) OwnedBy(userID uuid.UUID) bool {
	return c.UserID != nil && *c.UserID == userID
}

func (c *Category) String() string {
	return c.Name
}

func (c *Category) TableName() string {
	return "categories"
}
