package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"urmoney/internal/core"
)

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c         core.Category
		createdAt timestamp
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &createdAt); err != nil {
		return c, err
	}
	c.CreatedAt = createdAt.Time
	return c, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]core.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, name, color, created_at FROM categories WHERE id = ?`), id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

// CreateCategory inserts a category. A duplicate name yields core.ErrConflict.
func (s *Store) CreateCategory(ctx context.Context, in core.CategoryInput) (int64, error) {
	id, err := s.insertReturningID(ctx, s.db,
		`INSERT INTO categories (name, color) VALUES (?, ?) RETURNING id`,
		in.Name, in.ColorOrDefault())
	if err != nil {
		return 0, fmt.Errorf("create category: %w", mapWriteError(err))
	}
	return id, nil
}

// UpdateCategory renames a category. An empty color keeps the stored one.
func (s *Store) UpdateCategory(ctx context.Context, id int64, in core.CategoryInput) (int64, error) {
	n, err := s.execAffected(ctx,
		`UPDATE categories SET name = ?, color = COALESCE(NULLIF(?, ''), color) WHERE id = ?`,
		in.Name, in.Color, id)
	if err != nil {
		return 0, fmt.Errorf("update category %d: %w", id, mapWriteError(err))
	}
	return n, nil
}

// DeleteCategory removes a category. Transactions referencing it keep their
// category_id and read back with null category fields.
func (s *Store) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	n, err := s.execAffected(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete category %d: %w", id, err)
	}
	return n, nil
}

func (s *Store) CountCategories(ctx context.Context) (int64, error) {
	return s.count(ctx, s.db, "categories")
}
