package database

import (
	"testing"
	"time"

	"finance-tracker/internal/models"

	"github.com/stretchr/testify/suite"
)

type DatabaseTestSuite struct {
	suite.Suite
	db *DB
}

func TestDatabaseTestSuite(t *testing.T) {
	suite.Run(t, new(DatabaseTestSuite))
}

func (s *DatabaseTestSuite) SetupTest() {
	s.db = SetupTestDB(s.T())
}

func (s *DatabaseTestSuite) TearDownTest() {
	CleanupTestDB(s.T(), s.db)
}

func (s *DatabaseTestSuite) TestHealthCheck() {
	s.NoError(s.db.HealthCheck())
}

func (s *DatabaseTestSuite) TestCreateIndexes() {
	s.NoError(s.db.CreateIndexes())
	// idempotent
	s.NoError(s.db.CreateIndexes())
}

func (s *DatabaseTestSuite) TestSeedGlobalCategories_Idempotent() {
	created, err := s.db.SeedGlobalCategories()
	s.Require().NoError(err)

	expected := len(DefaultGlobalCategories[models.TransactionTypeIncome]) +
		len(DefaultGlobalCategories[models.TransactionTypeExpense])
	s.Equal(expected, created)

	created, err = s.db.SeedGlobalCategories()
	s.Require().NoError(err)
	s.Equal(0, created)

	var categories []models.Category
	s.Require().NoError(s.db.Find(&categories).Error)
	s.Len(categories, expected)
	for _, category := range categories {
		s.True(category.IsGlobal)
		s.Nil(category.UserID)
	}
}

func (s *DatabaseTestSuite) TestSeedAdminUser() {
	admin, err := s.db.SeedAdminUser("admin", "admin@example.com", "hash")
	s.Require().NoError(err)
	s.True(admin.IsAdmin())

	again, err := s.db.SeedAdminUser("admin", "other@example.com", "other")
	s.Require().NoError(err)
	s.Equal(admin.ID, again.ID)
	s.Equal("admin@example.com", again.Email)
}

func (s *DatabaseTestSuite) TestCleanupExpiredTokens() {
	user := CreateTestUser(s.T(), s.db, "alice")

	s.Require().NoError(s.db.Create(&models.BlacklistedToken{
		JTI:       "expired",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}).Error)
	s.Require().NoError(s.db.Create(&models.BlacklistedToken{
		JTI:       "active",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	removed, err := s.db.CleanupExpiredTokens()
	s.Require().NoError(err)
	s.Equal(int64(1), removed)

	var remaining []models.BlacklistedToken
	s.Require().NoError(s.db.Find(&remaining).Error)
	s.Require().Len(remaining, 1)
	s.Equal("active", remaining[0].JTI)
}
