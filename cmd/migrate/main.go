package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"finance-tracker/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Manage the finance tracker database",
		Long: `Schema migrations, seed data, housekeeping and administrator accounts
for the finance tracker database. Settings come from the environment and an
optional .env file, exactly as for the server.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("migrations", "", "migrations directory (default db/migrations)")
	rootCmd.PersistentFlags().String("seeds", "", "seeds directory (default db/seeds)")

	rootCmd.AddCommand(upCmd())
	rootCmd.AddCommand(downCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(cleanupCmd())
	rootCmd.AddCommand(createAdminCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	var level slog.Level
	levelName, _ := cmd.Flags().GetString("log-level")
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = loaded
	return nil
}
