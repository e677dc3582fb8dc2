package storage

import (
	"context"
	"database/sql"
	"fmt"

	"urmoney/internal/core"
)

// ComputeStatistics totals income and expenses across all transactions.
// Sums over an empty table are reported as zero.
func (s *Store) ComputeStatistics(ctx context.Context) (core.Statistics, error) {
	var income, expenses sql.NullInt64
	var count int64
	err := s.db.QueryRowContext(ctx, `
SELECT
    CAST(COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0) AS BIGINT),
    CAST(COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0) AS BIGINT),
    COUNT(*)
FROM transactions`).Scan(&income, &expenses, &count)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("compute statistics: %w", err)
	}
	return core.Statistics{
		TotalIncome:       core.Money{Cents: income.Int64},
		TotalExpenses:     core.Money{Cents: expenses.Int64},
		TotalTransactions: count,
	}, nil
}

// ComputeSpendingByCategory groups expenses by existing category, largest
// total first. Income and uncategorized or dangling transactions are excluded.
func (s *Store) ComputeSpendingByCategory(ctx context.Context) ([]core.CategorySpending, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT c.name, c.color, CAST(SUM(t.amount_cents) AS BIGINT) AS total, COUNT(t.id) AS count
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE t.type = 'expense'
GROUP BY c.id, c.name, c.color
ORDER BY total DESC, c.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("compute spending by category: %w", err)
	}
	defer rows.Close()

	out := make([]core.CategorySpending, 0)
	for rows.Next() {
		var cs core.CategorySpending
		var total sql.NullInt64
		if err := rows.Scan(&cs.Name, &cs.Color, &total, &cs.Count); err != nil {
			return nil, fmt.Errorf("scan category spending: %w", err)
		}
		cs.Total = core.Money{Cents: total.Int64}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category spending: %w", err)
	}
	return out, nil
}
