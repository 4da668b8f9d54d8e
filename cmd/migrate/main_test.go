package main

import (
	"testing"
	"time"

	"finance-tracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	for _, name := range []string{"up", "down", "status", "seed", "cleanup", "create-admin"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestFlagDefaults(t *testing.T) {
	steps, err := downCmd().Flags().GetInt("steps")
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	retention, err := cleanupCmd().Flags().GetDuration("audit-retention")
	require.NoError(t, err)
	assert.Equal(t, 365*24*time.Hour, retention)

	username, err := createAdminCmd().Flags().GetString("username")
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestRequirePostgres(t *testing.T) {
	previous := cfg
	t.Cleanup(func() { cfg = previous })

	cfg = &config.Config{Database: config.DatabaseConfig{Driver: config.DriverSQLite}}
	assert.Error(t, requirePostgres())

	cfg = &config.Config{Database: config.DatabaseConfig{Driver: config.DriverPostgres}}
	assert.NoError(t, requirePostgres())
}
