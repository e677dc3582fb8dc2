package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"urmoney/internal/core"
	"urmoney/internal/log"
	"urmoney/internal/ofx"
)

// transactionCreator is the slice of the ledger an import writes to.
type transactionCreator interface {
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	CreateTransaction(ctx context.Context, in core.TransactionInput) (int64, error)
}

type importResult struct {
	Imported int
	Failed   int
}

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import bank or credit card transactions from OFX or QFX statements.

Credits are stored as income and debits as expenses.

Examples:
  # Import a single statement into category 3
  urmoney-admin import-ofx ~/Downloads/checking_jan.qfx --category 3

  # Preview every statement in a directory
  urmoney-admin import-ofx ~/Downloads/*.ofx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().Int64("category", 0, "Category ID assigned to every imported transaction")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	categoryID, _ := cmd.Flags().GetInt64("category")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	parser := ofx.NewParser()
	var entries []ofx.Entry
	for _, path := range files {
		parsed, err := parseFile(ctx, parser, path)
		if err != nil {
			return err
		}
		entries = append(entries, parsed...)
	}

	if dryRun {
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-7s  %10s  %s\n",
				e.Input.Date, e.Input.Type, e.Input.Amount, e.Input.Description)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dry run: %d transactions from %d files\n", len(entries), len(files))
		return nil
	}

	res, err := openBackend(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = res.Cleanup() }()

	result, err := importEntries(ctx, res.Ledger, entries, categoryID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions (%d failed) from %d files\n",
		result.Imported, result.Failed, len(files))
	return nil
}

func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				return nil, fmt.Errorf("no files found matching %s", pattern)
			}
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}
	return files, nil
}

func parseFile(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	entries, err := parser.Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// importEntries stores every entry, assigning categoryID when it is positive.
// Entries the ledger rejects are logged and counted, not fatal.
func importEntries(ctx context.Context, ledger transactionCreator, entries []ofx.Entry, categoryID int64) (importResult, error) {
	var category *int64
	if categoryID > 0 {
		if _, err := ledger.GetCategory(ctx, categoryID); err != nil {
			return importResult{}, fmt.Errorf("category %d: %w", categoryID, err)
		}
		category = &categoryID
	}

	var result importResult
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		in := e.Input
		in.CategoryID = category

		id, err := ledger.CreateTransaction(ctx, in)
		if err != nil {
			result.Failed++
			logger.Warn("Skipping OFX transaction",
				log.FieldError, err,
				log.FieldOperation, log.OpImport,
				"fitid", e.FITID,
				"account", e.AccountID)
			continue
		}
		result.Imported++
		logger.Debug("Imported OFX transaction",
			log.FieldEntityID, id,
			log.FieldDescription, in.Description,
			log.FieldAmountCents, in.Amount.Cents)
	}
	return result, nil
}
