package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	migrationsPath = "db/migrations"
	seedsPath      = "db/seeds"
)

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

var ErrMigrationsNotFound = errors.New("migrations directory not found")

// MigrationRunner applies the SQL migrations in db/migrations and the seed
// files in db/seeds to a PostgreSQL database.
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
	seed           bool
	logger         *slog.Logger
}

type MigrationOption func(*MigrationRunner)

// WithPaths overrides the migrations and seeds directories.
func WithPaths(migrations, seeds string) MigrationOption {
	return func(mr *MigrationRunner) {
		if migrations != "" {
			mr.migrationsPath = migrations
		}
		if seeds != "" {
			mr.seedsPath = seeds
		}
	}
}

// WithSeeds enables loading db/seeds after migrating.
func WithSeeds(enabled bool) MigrationOption {
	return func(mr *MigrationRunner) {
		mr.seed = enabled
	}
}

func WithLogger(logger *slog.Logger) MigrationOption {
	return func(mr *MigrationRunner) {
		mr.logger = logger
	}
}

// NewMigrationRunner creates a new migration runner
func NewMigrationRunner(db *sql.DB, opts ...MigrationOption) *MigrationRunner {
	mr := &MigrationRunner{
		db:             db,
		migrationsPath: migrationsPath,
		seedsPath:      seedsPath,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(mr)
	}
	return mr
}

// WaitForDatabase waits for the database to be ready
func (mr *MigrationRunner) WaitForDatabase() error {
	mr.logger.Info("waiting for database")

	for i := 0; i < maxRetries; i++ {
		err := mr.db.Ping()
		if err == nil {
			mr.logger.Info("database is ready")
			return nil
		}

		mr.logger.Warn("database not ready", "attempt", i+1, "max_attempts", maxRetries, "error", err)
		time.Sleep(retryInterval)
	}

	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

// RunMigrations executes all pending migrations. A missing migrations
// directory is not an error.
func (mr *MigrationRunner) RunMigrations() error {
	m, err := mr.newMigrate()
	if errors.Is(err, ErrMigrationsNotFound) {
		mr.logger.Warn("migrations directory not found, skipping", "path", mr.migrationsPath)
		return nil
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		mr.logger.Warn("database is dirty, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		mr.logger.Info("no new migrations to apply", "version", version)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}
	mr.logger.Info("applied migrations", "from_version", version, "to_version", newVersion)

	return nil
}

// Rollback reverts the given number of migrations.
func (mr *MigrationRunner) Rollback(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback failed: %w", err)
	}

	mr.logger.Info("rolled back migrations", "steps", steps)
	return nil
}

// LoadSeeds executes every db/seeds/*.sql file in name order. A failing
// file is logged and skipped.
func (mr *MigrationRunner) LoadSeeds() error {
	if !mr.seed {
		mr.logger.Info("seed data loading disabled")
		return nil
	}

	if _, err := os.Stat(mr.seedsPath); os.IsNotExist(err) {
		mr.logger.Warn("seeds directory not found, skipping", "path", mr.seedsPath)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to find seed files: %w", err)
	}

	if len(files) == 0 {
		mr.logger.Info("no seed files found", "path", mr.seedsPath)
		return nil
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if _, err := mr.db.Exec(string(content)); err != nil {
			mr.logger.Warn("failed to execute seed file", "file", filepath.Base(file), "error", err)
			continue
		}

		mr.logger.Info("executed seed file", "file", filepath.Base(file))
	}

	return nil
}

// GetMigrationStatus returns the current migration status
func (mr *MigrationRunner) GetMigrationStatus() (version uint, dirty bool, err error) {
	m, err := mr.newMigrate()
	if err != nil {
		return 0, false, err
	}

	return m.Version()
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		return nil, ErrMigrationsNotFound
	}

	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", absPath), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, nil
}

// RunMigrationsIfEnabled runs migrations and seeds when enabled is true.
func RunMigrationsIfEnabled(db *sql.DB, enabled bool, opts ...MigrationOption) error {
	if !enabled {
		slog.Info("auto-migration disabled")
		return nil
	}

	runner := NewMigrationRunner(db, opts...)

	if err := runner.WaitForDatabase(); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}

	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	if err := runner.LoadSeeds(); err != nil {
		runner.logger.Warn("seed data loading failed", "error", err)
	}

	return nil
}
