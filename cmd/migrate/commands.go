package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/services"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"
)

const defaultAuditRetention = 365 * 24 * time.Hour

func upCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Long: `Apply every pending SQL migration from db/migrations. SQLite databases
have no SQL migrations and are brought up to date with the model schema instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, _ := cmd.Flags().GetBool("seed")

			if cfg.Database.Driver == config.DriverSQLite {
				return autoMigrate(seed)
			}

			runner, closeDB, err := openRunner(cmd, database.WithSeeds(seed))
			if err != nil {
				return err
			}
			defer closeDB()

			if err := runner.WaitForDatabase(); err != nil {
				return err
			}
			if err := runner.RunMigrations(); err != nil {
				return err
			}
			return runner.LoadSeeds()
		},
	}
	cmd.Flags().Bool("seed", false, "load db/seeds after migrating")
	return cmd
}

func downCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requirePostgres(); err != nil {
				return err
			}
			steps, _ := cmd.Flags().GetInt("steps")

			runner, closeDB, err := openRunner(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			return runner.Rollback(steps)
		},
	}
	cmd.Flags().Int("steps", 1, "number of migrations to roll back")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requirePostgres(); err != nil {
				return err
			}

			runner, closeDB, err := openRunner(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			version, dirty, err := runner.GetMigrationStatus()
			if err != nil {
				return fmt.Errorf("failed to read migration status: %w", err)
			}
			cmd.Printf("version: %d\ndirty: %t\n", version, dirty)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default global categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Database.Driver == config.DriverPostgres {
				runner, closeDB, err := openRunner(cmd, database.WithSeeds(true))
				if err != nil {
					return err
				}
				defer closeDB()
				return runner.LoadSeeds()
			}

			db, err := openGorm()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			created, err := db.SeedGlobalCategories()
			if err != nil {
				return err
			}
			cmd.Printf("created %d global categories\n", created)
			return nil
		},
	}
}

func cleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Drop expired revoked sessions and old audit entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			retention, _ := cmd.Flags().GetDuration("audit-retention")

			db, err := openGorm()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			tokens, err := db.CleanupExpiredTokens()
			if err != nil {
				return err
			}

			audit := services.NewAuditService(repositories.NewAuditLogRepository(db.DB))
			entries, err := audit.PurgeOlderThan(retention)
			if err != nil {
				return err
			}

			cmd.Printf("removed %d expired tokens and %d audit entries\n", tokens, entries)
			return nil
		},
	}
	cmd.Flags().Duration("audit-retention", defaultAuditRetention, "keep audit entries younger than this")
	return cmd
}

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator. Without --password a random one is generated
and printed once. An existing account with the same username is left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			passwords := services.NewPasswordService(cfg.Security)
			generated := password == ""
			if generated {
				var err error
				if password, err = passwords.GenerateSecurePassword(); err != nil {
					return err
				}
			}

			hash, err := passwords.HashPasswordWithoutValidation(password)
			if err != nil {
				return err
			}

			db, err := openGorm()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			admin, err := db.SeedAdminUser(username, email, hash)
			if err != nil {
				return err
			}

			cmd.Printf("administrator %s (%s)\n", admin.Username, admin.ID)
			if generated {
				cmd.Printf("password: %s\n", password)
			}
			return nil
		},
	}
	cmd.Flags().String("username", "admin", "administrator username")
	cmd.Flags().String("email", "admin@example.com", "administrator email")
	cmd.Flags().String("password", "", "administrator password (generated when empty)")
	return cmd
}

func requirePostgres() error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("%s databases have no SQL migrations", cfg.Database.Driver)
	}
	return nil
}

func openRunner(cmd *cobra.Command, opts ...database.MigrationOption) (*database.MigrationRunner, func(), error) {
	sqlDB, err := sql.Open("postgres", cfg.Database.URL())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	migrations, _ := cmd.Flags().GetString("migrations")
	seeds, _ := cmd.Flags().GetString("seeds")
	opts = append(opts, database.WithPaths(migrations, seeds), database.WithLogger(slog.Default()))

	return database.NewMigrationRunner(sqlDB, opts...), func() { _ = sqlDB.Close() }, nil
}

func openGorm() (*database.DB, error) {
	return database.New(&cfg.Database, logger.Warn)
}

func autoMigrate(seed bool) error {
	db, err := openGorm()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := db.CreateIndexes(); err != nil {
		return err
	}
	if seed {
		created, err := db.SeedGlobalCategories()
		if err != nil {
			return err
		}
		slog.Info("seeded global categories", "created", created)
	}
	return nil
}
