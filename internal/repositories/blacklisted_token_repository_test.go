package repositories

import (
	"testing"
	"time"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestBlacklistedTokenRepository(t *testing.T) {
	suite.Run(t, new(BlacklistedTokenRepositorySuite))
}

type BlacklistedTokenRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo BlacklistedTokenRepositoryInterface
	user *models.User
}

func (s *BlacklistedTokenRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewBlacklistedTokenRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "alice")
}

func (s *BlacklistedTokenRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *BlacklistedTokenRepositorySuite) TestCreateAndGet() {
	token := &models.BlacklistedToken{
		JTI:       "jti-1",
		UserID:    s.user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.Require().NoError(s.repo.Create(token))
	s.NotZero(token.BlacklistedAt)

	// revoking twice is harmless
	s.NoError(s.repo.Create(&models.BlacklistedToken{
		JTI:       "jti-1",
		UserID:    s.user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	found, err := s.repo.GetByJTI("jti-1")
	s.Require().NoError(err)
	s.Equal(token.ID, found.ID)

	_, err = s.repo.GetByJTI("missing")
	s.Equal(ErrTokenNotFound, err)
}

func (s *BlacklistedTokenRepositorySuite) TestDeleteExpired() {
	s.Require().NoError(s.repo.Create(&models.BlacklistedToken{
		JTI:       "old",
		UserID:    s.user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	s.Require().NoError(s.repo.Create(&models.BlacklistedToken{
		JTI:       "current",
		UserID:    s.user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	removed, err := s.repo.DeleteExpired()
	s.Require().NoError(err)
	s.Equal(int64(1), removed)

	_, err = s.repo.GetByJTI("old")
	s.Equal(ErrTokenNotFound, err)
}
