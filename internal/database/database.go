package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultGlobalCategories are shared by every user.
var DefaultGlobalCategories = map[string][]string{
	models.TransactionTypeIncome:  {"Salary", "Bonus", "Investments", "Gifts", "Other Income"},
	models.TransactionTypeExpense: {"Food", "Rent", "Utilities", "Transport", "Health", "Entertainment", "Shopping", "Other Expenses"},
}

type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

func New(cfg *config.DatabaseConfig, logLevel logger.LogLevel) (*DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on")
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.BlacklistedToken{},
		&models.AuditLog{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateIndexes adds the composite indexes the list and report queries rely
// on. Failures are logged and skipped.
func (db *DB) CreateIndexes() error {
	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_user_type ON transactions(user_id, transaction_type)",
		"CREATE INDEX IF NOT EXISTS idx_categories_type_global ON categories(category_type, is_global)",
		"CREATE INDEX IF NOT EXISTS idx_categories_user_type ON categories(user_id, category_type)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource, resource_id)",
	}

	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			slog.Warn("failed to create index", "query", query, "error", err)
		}
	}

	return nil
}

// CleanupExpiredTokens drops revoked sessions that have expired anyway.
func (db *DB) CleanupExpiredTokens() (int64, error) {
	result := db.DB.Where("expires_at < ?", time.Now()).Delete(&models.BlacklistedToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired blacklisted tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SeedGlobalCategories creates any missing default global category.
func (db *DB) SeedGlobalCategories() (int, error) {
	created := 0
	for _, categoryType := range []string{models.TransactionTypeIncome, models.TransactionTypeExpense} {
		for _, name := range DefaultGlobalCategories[categoryType] {
			var count int64
			if err := db.DB.Model(&models.Category{}).
				Where("name = ? AND category_type = ? AND is_global = ?", name, categoryType, true).
				Count(&count).Error; err != nil {
				return created, fmt.Errorf("failed to check global category: %w", err)
			}
			if count > 0 {
				continue
			}

			category := &models.Category{Name: name, CategoryType: categoryType, IsGlobal: true}
			if err := db.DB.Create(category).Error; err != nil {
				return created, fmt.Errorf("failed to create global category %q: %w", name, err)
			}
			created++
		}
	}
	return created, nil
}

// SeedAdminUser creates the administrator unless the username is taken.
func (db *DB) SeedAdminUser(username, email, passwordHash string) (*models.User, error) {
	var existingUser models.User
	err := db.DB.Where("username = ?", username).First(&existingUser).Error
	if err == nil {
		return &existingUser, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up admin user: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}

	if err := db.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	return user, nil
}

// Initialize opens the database and brings the schema up to date. PostgreSQL
// with AUTO_MIGRATE runs the SQL migrations and falls back to gorm's
// AutoMigrate on failure; every other setup uses AutoMigrate directly.
func Initialize(cfg *config.Config) (*DB, error) {
	logLevel := logger.Warn
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}

	db, err := New(&cfg.Database, logLevel)
	if err != nil {
		return nil, err
	}

	migrated := false
	if cfg.Database.Driver == config.DriverPostgres && cfg.Database.AutoMigrate {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}

		if err := RunMigrationsIfEnabled(sqlDB, true, WithSeeds(cfg.Database.Seed)); err != nil {
			slog.Warn("migration runner failed, falling back to AutoMigrate", "error", err)
		} else {
			migrated = true
		}
	}

	if !migrated {
		if err := db.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if err := db.CreateIndexes(); err != nil {
		slog.Warn("failed to create some indexes", "error", err)
	}

	if cfg.Database.Seed {
		created, err := db.SeedGlobalCategories()
		if err != nil {
			return nil, err
		}
		slog.Info("seeded global categories", "created", created)
	}

	slog.Info("database initialized", "driver", cfg.Database.Driver)

	return db, nil
}
