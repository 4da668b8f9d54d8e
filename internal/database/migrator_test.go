package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetries(t *testing.T, retries int) {
	t.Helper()

	originalRetries := maxRetries
	originalInterval := retryInterval
	maxRetries = retries
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() {
		maxRetries = originalRetries
		retryInterval = originalInterval
	})
}

func writeSeed(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNewMigrationRunner_Defaults(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db)

	assert.Equal(t, db, runner.db)
	assert.Equal(t, migrationsPath, runner.migrationsPath)
	assert.Equal(t, seedsPath, runner.seedsPath)
	assert.False(t, runner.seed)
	assert.NotNil(t, runner.logger)
}

func TestNewMigrationRunner_Options(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, WithPaths("custom/migrations", ""), WithSeeds(true))

	assert.Equal(t, "custom/migrations", runner.migrationsPath)
	assert.Equal(t, seedsPath, runner.seedsPath)
	assert.True(t, runner.seed)
}

func TestWaitForDatabase_FailureThenSuccess(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	fastRetries(t, 3)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing()

	err = NewMigrationRunner(db).WaitForDatabase()

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForDatabase_AlwaysFails(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	fastRetries(t, 2)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = NewMigrationRunner(db).WaitForDatabase()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database not ready after 2 attempts")
}

func TestRunMigrations_DirectoryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, WithPaths("/nonexistent/migrations", ""))

	assert.NoError(t, runner.RunMigrations())
}

func TestRollback_RejectsNonPositiveSteps(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewMigrationRunner(db).Rollback(0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be positive")
}

func TestRollback_DirectoryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewMigrationRunner(db, WithPaths("/nonexistent/migrations", "")).Rollback(1)

	assert.ErrorIs(t, err, ErrMigrationsNotFound)
}

func TestGetMigrationStatus_DirectoryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, _, err = NewMigrationRunner(db, WithPaths("/nonexistent/migrations", "")).GetMigrationStatus()

	assert.ErrorIs(t, err, ErrMigrationsNotFound)
}

func TestLoadSeeds_Disabled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	writeSeed(t, dir, "001_categories.sql", "INSERT INTO categories VALUES (1);")

	err = NewMigrationRunner(db, WithPaths("", dir)).LoadSeeds()

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_DirectoryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewMigrationRunner(db, WithSeeds(true), WithPaths("", "/nonexistent/seeds")).LoadSeeds()

	assert.NoError(t, err)
}

func TestLoadSeeds_NoSeedFiles(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewMigrationRunner(db, WithSeeds(true), WithPaths("", t.TempDir())).LoadSeeds()

	assert.NoError(t, err)
}

func TestLoadSeeds_ExecutesFilesInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	writeSeed(t, dir, "002_admin.sql", "INSERT INTO users VALUES ('admin');")
	writeSeed(t, dir, "001_categories.sql", "INSERT INTO categories VALUES ('Food');")

	mock.ExpectExec("INSERT INTO categories").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewMigrationRunner(db, WithSeeds(true), WithPaths("", dir)).LoadSeeds()

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_ExecutionFailureIsSkipped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	writeSeed(t, dir, "001_bad.sql", "INSERT INTO missing_table VALUES (1);")
	writeSeed(t, dir, "002_good.sql", "INSERT INTO categories VALUES ('Rent');")

	mock.ExpectExec("INSERT INTO missing_table").WillReturnError(errors.New("relation does not exist"))
	mock.ExpectExec("INSERT INTO categories").WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewMigrationRunner(db, WithSeeds(true), WithPaths("", dir)).LoadSeeds()

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_ReadFileError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "001_invalid.sql"), 0o755))

	err = NewMigrationRunner(db, WithSeeds(true), WithPaths("", dir)).LoadSeeds()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read seed file")
}

func TestRunMigrationsIfEnabled_Disabled(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, RunMigrationsIfEnabled(db, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsIfEnabled_DatabaseNotReady(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	fastRetries(t, 2)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = RunMigrationsIfEnabled(db, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database readiness check failed")
}

func TestRunMigrationsIfEnabled_MissingMigrationsStillSeeds(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	writeSeed(t, dir, "001_categories.sql", "INSERT INTO categories VALUES ('Salary');")

	mock.ExpectPing()
	mock.ExpectExec("INSERT INTO categories").WillReturnResult(sqlmock.NewResult(0, 1))

	err = RunMigrationsIfEnabled(db, true, WithSeeds(true), WithPaths("/nonexistent/migrations", dir))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
