package database

import (
	"fmt"
	"testing"

	"finance-tracker/internal/config"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with the schema
// migrated. A single connection keeps every query on the same database.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			Driver:         config.DriverSQLite,
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return testDB
}

func CreateTestUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()
	return createUser(t, db, username, models.RoleUser)
}

func CreateTestAdminUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()
	return createUser(t, db, username, models.RoleAdmin)
}

func createUser(t *testing.T, db *DB, username, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed_password",
		Role:         role,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestCategory creates a global category when owner is nil and a
// private one otherwise.
func CreateTestCategory(t *testing.T, db *DB, name, categoryType string, owner *uuid.UUID) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:         name,
		CategoryType: categoryType,
		UserID:       owner,
		IsGlobal:     owner == nil,
	}

	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	return category
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	tables := []string{
		"transactions",
		"categories",
		"audit_logs",
		"blacklisted_tokens",
		"users",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
