package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	MaxUsernameLength = 150

	DefaultMaxFailedLoginAttempts = 5
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
)

type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Username            string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email               string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	PasswordHash        string     `gorm:"type:varchar(255);not null" json:"-"`
	Role                string     `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedAt            *time.Time `gorm:"index" json:"locked_at,omitempty"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null" json:"updated_at"`

	Categories   []Category    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return u.Validate()
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	// Map-based Updates carry an empty struct, nothing to validate.
	if tx != nil && tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}

	return u.Validate()
}

func (u *User) Validate() error {
	if u.Username == "" {
		return errors.New("username is required")
	}

	if len(u.Username) > MaxUsernameLength {
		return fmt.Errorf("username must be at most %d characters", MaxUsernameLength)
	}

	if !usernameRegex.MatchString(u.Username) {
		return errors.New("username may contain only letters, digits and @/./+/-/_")
	}

	if u.Email != "" && !emailRegex.MatchString(u.Email) {
		return errors.New("invalid email format")
	}

	if u.Role != RoleUser && u.Role != RoleAdmin {
		return fmt.Errorf("invalid role: %s", u.Role)
	}

	return nil
}

func (u *User) IsLocked() bool {
	return u.LockedAt != nil
}

func (u *User) Lock() {
	now := time.Now()
	u.LockedAt = &now
}

func (u *User) Unlock() {
	u.LockedAt = nil
	u.FailedLoginAttempts = 0
}

// IncrementFailedAttempts records a bad password and locks the account once
// maxAttempts is reached. It reports whether the account is now locked.
func (u *User) IncrementFailedAttempts(maxAttempts int) bool {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxFailedLoginAttempts
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		u.Lock()
	}
	return u.IsLocked()
}

func (u *User) ResetFailedAttempts() {
	u.FailedLoginAttempts = 0
}

func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) TableName() string {
	return "users"
}
