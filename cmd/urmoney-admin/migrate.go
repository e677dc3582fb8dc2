package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"urmoney/internal/log"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Create or update the ledger schema to the latest version.

Default categories are seeded into an empty database unless --seed=false.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("seed", true, "Seed default categories when none exist")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	seed, _ := cmd.Flags().GetBool("seed")

	logger.Info("Starting database migration",
		"driver", cfg.DBDriver,
		"seed", seed,
		log.FieldOperation, log.OpMigrate)

	res, err := openBackend(cmd.Context(), seed && cfg.SeedDefaultCategories)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _ = res.Cleanup() }()

	categories, err := res.Store.CountCategories(cmd.Context())
	if err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	transactions, err := res.Store.CountTransactions(cmd.Context())
	if err != nil {
		return fmt.Errorf("count transactions: %w", err)
	}

	version, dirty, err := res.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("%s schema version %d is dirty, fix it by hand before retrying", res.Store.Driver(), version)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s database at schema version %d (%d categories, %d transactions)\n",
		res.Store.Driver(), version, categories, transactions)
	return nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default categories into an empty ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := openBackend(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			defer func() { _ = res.Cleanup() }()

			n, err := res.Store.SeedDefaultCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("seed default categories: %w", err)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Categories already present, nothing seeded")
				return nil
			}

			logger.Info("Default categories seeded", "count", n, log.FieldOperation, log.OpSeed)
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d default categories\n", n)
			return nil
		},
	}
}
