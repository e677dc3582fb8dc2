package storage

import (
	"context"
	"fmt"

	"urmoney/internal/core"
)

// DefaultCategories is the starter set inserted into an empty database.
var DefaultCategories = []core.CategoryInput{
	{Name: "Food & Dining", Color: "#EF4444"},
	{Name: "Transportation", Color: "#F59E0B"},
	{Name: "Shopping", Color: "#EC4899"},
	{Name: "Entertainment", Color: "#8B5CF6"},
	{Name: "Bills & Utilities", Color: "#3B82F6"},
	{Name: "Healthcare", Color: "#10B981"},
	{Name: "Salary", Color: "#22C55E"},
	{Name: "Other", Color: "#6B7280"},
}

// SeedDefaultCategories inserts DefaultCategories when the categories table
// is empty and returns how many rows were inserted.
func (s *Store) SeedDefaultCategories(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	n, err := s.count(ctx, tx, "categories")
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	query := s.rebind(`INSERT INTO categories (name, color) VALUES (?, ?)`)
	for _, c := range DefaultCategories {
		if _, err := tx.ExecContext(ctx, query, c.Name, c.Color); err != nil {
			return 0, fmt.Errorf("insert category %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed transaction: %w", err)
	}
	return len(DefaultCategories), nil
}
