package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"urmoney/internal/backend"
	"urmoney/internal/cli"
	"urmoney/internal/config"
	"urmoney/internal/log"
)

var (
	cfg    *config.Config
	logger *log.Logger

	rootCmd = &cobra.Command{
		Use:   "urmoney-admin",
		Short: "Maintenance commands for the urmoney ledger",
		Long: `urmoney-admin works directly against the ledger database configured
through the environment (DB_DRIVER, SQLITE_DB_PATH, DATABASE_URL).

Writes go through the ledger, so ledger events are published when AMQP_URL is set.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides SQLITE_DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(importOFXCmd())
	rootCmd.AddCommand(auditCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()
	cfg = config.Load()

	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.SQLiteDBPath = db
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = cli.SetupLogger(cfg, log.ComponentAdmin)
	return nil
}

// openBackend opens the configured store behind a ledger. seed overrides
// SEED_DEFAULT_CATEGORIES.
func openBackend(ctx context.Context, seed bool) (*backend.BackendResult, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	backendCfg.Storage.SeedDefaults = seed

	return backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
}
