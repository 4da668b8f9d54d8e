package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistedToken_Expiry(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		expired   bool
	}{
		{"session still running", time.Now().Add(time.Hour), false},
		{"session already over", time.Now().Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := BlacklistedToken{JTI: "jti", ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expired, token.IsExpired())
			assert.Equal(t, tt.expired, token.CanBeDeleted())
		})
	}
}

func TestBlacklistedToken_BeforeCreateDefaults(t *testing.T) {
	before := time.Now()
	token := BlacklistedToken{JTI: "logout-jti", UserID: uuid.New(), ExpiresAt: before.Add(time.Hour)}

	require.NoError(t, token.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, token.ID)
	assert.False(t, token.BlacklistedAt.Before(before))
	assert.False(t, token.BlacklistedAt.After(time.Now()))
}

func TestBlacklistedToken_BeforeCreateKeepsValues(t *testing.T) {
	id := uuid.New()
	revokedAt := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	token := BlacklistedToken{ID: id, JTI: "logout-jti", BlacklistedAt: revokedAt}

	require.NoError(t, token.BeforeCreate(nil))
	assert.Equal(t, id, token.ID)
	assert.Equal(t, revokedAt, token.BlacklistedAt)
}

func TestBlacklistedToken_TableName(t *testing.T) {
	assert.Equal(t, "blacklisted_tokens", (&BlacklistedToken{}).TableName())
}
