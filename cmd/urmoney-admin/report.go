package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"urmoney/internal/core"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ledger totals and spending by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer func() { _ = res.Cleanup() }()

			dash, err := res.Ledger.Dashboard(cmd.Context())
			if err != nil {
				return fmt.Errorf("load dashboard: %w", err)
			}
			return printDashboard(cmd.OutOrStdout(), dash)
		},
	}
}

func printDashboard(out io.Writer, dash core.Dashboard) error {
	st := dash.Statistics
	fmt.Fprintf(out, "Income:        %s\n", st.TotalIncome)
	fmt.Fprintf(out, "Expenses:      %s\n", st.TotalExpenses)
	fmt.Fprintf(out, "Balance:       %s\n", st.Balance())
	fmt.Fprintf(out, "Transactions:  %d\n", st.TotalTransactions)

	if len(dash.SpendingByCategory) == 0 {
		fmt.Fprintln(out, "\nNo categorized expenses")
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tCOLOR\tCOUNT\tTOTAL")
	for _, s := range dash.SpendingByCategory {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.Name, s.Color, s.Count, s.Total)
	}
	return w.Flush()
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer func() { _ = res.Cleanup() }()

			cats, err := res.Ledger.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("list categories: %w", err)
			}
			return printCategories(cmd.OutOrStdout(), cats)
		},
	}
}

func printCategories(out io.Writer, cats []core.Category) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR")
	for _, c := range cats {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Color)
	}
	return w.Flush()
}

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the most recent audit log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			res, err := openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer func() { _ = res.Cleanup() }()

			entries, err := res.Store.ListAuditEntries(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list audit entries: %w", err)
			}
			return printAudit(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Number of entries to show")

	return cmd
}

func printAudit(out io.Writer, entries []core.AuditEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No audit entries")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEVENT\tENTITY\tENTITY_ID\tOCCURRED_AT\tRECORDED_AT")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			e.ID, e.EventType, e.Entity, e.EntityID,
			e.OccurredAt.Format("2006-01-02 15:04:05"),
			e.RecordedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
