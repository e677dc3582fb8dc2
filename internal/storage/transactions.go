package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"urmoney/internal/core"
)

const selectEnrichedTransactions = `
SELECT t.id, t.description, t.amount_cents, t.type, t.category_id, t.date, t.created_at,
       c.name, c.color
FROM transactions t
LEFT JOIN categories c ON c.id = t.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnrichedTransaction(row rowScanner) (core.EnrichedTransaction, error) {
	var (
		tx         core.EnrichedTransaction
		typ        string
		categoryID sql.NullInt64
		date       timestamp
		createdAt  timestamp
		catName    sql.NullString
		catColor   sql.NullString
	)
	err := row.Scan(&tx.ID, &tx.Description, &tx.Amount.Cents, &typ, &categoryID,
		&date, &createdAt, &catName, &catColor)
	if err != nil {
		return tx, err
	}
	tx.Type = core.TransactionType(typ)
	if categoryID.Valid {
		id := categoryID.Int64
		tx.CategoryID = &id
	}
	tx.Date = date.date()
	tx.CreatedAt = createdAt.Time
	if catName.Valid {
		tx.CategoryName = &catName.String
	}
	if catColor.Valid {
		tx.CategoryColor = &catColor.String
	}
	return tx, nil
}

// ListTransactions returns every transaction with its category display
// fields, newest first.
func (s *Store) ListTransactions(ctx context.Context) ([]core.EnrichedTransaction, error) {
	rows, err := s.db.QueryContext(ctx, selectEnrichedTransactions+`
ORDER BY t.date DESC, t.created_at DESC, t.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.EnrichedTransaction, 0)
	for rows.Next() {
		tx, err := scanEnrichedTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (core.EnrichedTransaction, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectEnrichedTransactions+`
WHERE t.id = ?`), id)
	tx, err := scanEnrichedTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.EnrichedTransaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.EnrichedTransaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

// CreateTransaction inserts a transaction and returns its id.
func (s *Store) CreateTransaction(ctx context.Context, in core.TransactionInput) (int64, error) {
	id, err := s.insertReturningID(ctx, s.db, `
INSERT INTO transactions (description, amount_cents, type, category_id, date)
VALUES (?, ?, ?, ?, ?)
RETURNING id`,
		in.Description, in.Amount.Cents, string(in.Type), nullableInt64(in.CategoryID), in.Date.String())
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	return id, nil
}

// UpdateTransaction replaces every mutable field and reports rows affected.
func (s *Store) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (int64, error) {
	n, err := s.execAffected(ctx, `
UPDATE transactions
SET description = ?, amount_cents = ?, type = ?, category_id = ?, date = ?
WHERE id = ?`,
		in.Description, in.Amount.Cents, string(in.Type), nullableInt64(in.CategoryID), in.Date.String(), id)
	if err != nil {
		return 0, fmt.Errorf("update transaction %d: %w", id, err)
	}
	return n, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	n, err := s.execAffected(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return n, nil
}

func (s *Store) CountTransactions(ctx context.Context) (int64, error) {
	return s.count(ctx, s.db, "transactions")
}
