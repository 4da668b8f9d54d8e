package repositories

import (
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/models"

	"gorm.io/gorm"
)

var ErrTokenNotFound = errors.New("token not found")

type blacklistedTokenRepository struct {
	db *gorm.DB
}

// NewBlacklistedTokenRepository creates a new blacklisted token repository
func NewBlacklistedTokenRepository(db *gorm.DB) BlacklistedTokenRepositoryInterface {
	return &blacklistedTokenRepository{db: db}
}

// Create revokes a session. Revoking the same session twice is not an error.
func (r *blacklistedTokenRepository) Create(token *models.BlacklistedToken) error {
	if token.BlacklistedAt.IsZero() {
		token.BlacklistedAt = time.Now()
	}

	if err := r.db.Create(token).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (r *blacklistedTokenRepository) GetByJTI(jti string) (*models.BlacklistedToken, error) {
	var token models.BlacklistedToken
	if err := r.db.Where("jti = ?", jti).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get blacklisted token: %w", err)
	}
	return &token, nil
}

// DeleteExpired removes tokens that would be rejected for expiry anyway.
func (r *blacklistedTokenRepository) DeleteExpired() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&models.BlacklistedToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
