// Package services holds the ledger use cases shared by the API server and
// the admin CLI.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"urmoney/internal/core"
)

// Repository is the persistence surface the ledger needs.
type Repository interface {
	ListTransactions(ctx context.Context) ([]core.EnrichedTransaction, error)
	GetTransaction(ctx context.Context, id int64) (core.EnrichedTransaction, error)
	CreateTransaction(ctx context.Context, in core.TransactionInput) (int64, error)
	UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (int64, error)
	DeleteTransaction(ctx context.Context, id int64) (int64, error)

	ListCategories(ctx context.Context) ([]core.Category, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	CreateCategory(ctx context.Context, in core.CategoryInput) (int64, error)
	UpdateCategory(ctx context.Context, id int64, in core.CategoryInput) (int64, error)
	DeleteCategory(ctx context.Context, id int64) (int64, error)

	ComputeStatistics(ctx context.Context) (core.Statistics, error)
	ComputeSpendingByCategory(ctx context.Context) ([]core.CategorySpending, error)

	Ping(ctx context.Context) error
	Close() error
}

// EventPublisher announces successful ledger writes.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev core.LedgerEvent) error
}

// Ledger orchestrates transaction and category operations across the store
// and the optional event publisher.
type Ledger struct {
	repo      Repository
	publisher EventPublisher
}

// NewLedger creates a ledger. publisher may be nil.
func NewLedger(repo Repository, publisher EventPublisher) *Ledger {
	return &Ledger{
		repo:      repo,
		publisher: publisher,
	}
}

func (l *Ledger) ListTransactions(ctx context.Context) ([]core.EnrichedTransaction, error) {
	return l.repo.ListTransactions(ctx)
}

func (l *Ledger) GetTransaction(ctx context.Context, id int64) (core.EnrichedTransaction, error) {
	return l.repo.GetTransaction(ctx, id)
}

// CreateTransaction validates and stores a transaction, returning its id.
func (l *Ledger) CreateTransaction(ctx context.Context, in core.TransactionInput) (int64, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := in.Validate(); err != nil {
		return 0, err
	}
	id, err := l.repo.CreateTransaction(ctx, in)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", id,
		"type", in.Type,
		"amount_cents", in.Amount.Cents,
		"date", in.Date.String())

	l.publish(ctx, core.EventCreated, core.EntityTransaction, id)
	return id, nil
}

func (l *Ledger) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) error {
	in.Description = strings.TrimSpace(in.Description)
	if err := in.Validate(); err != nil {
		return err
	}
	n, err := l.repo.UpdateTransaction(ctx, id, in)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	l.publish(ctx, core.EventUpdated, core.EntityTransaction, id)
	return nil
}

func (l *Ledger) DeleteTransaction(ctx context.Context, id int64) error {
	n, err := l.repo.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	l.publish(ctx, core.EventDeleted, core.EntityTransaction, id)
	return nil
}

func (l *Ledger) ListCategories(ctx context.Context) ([]core.Category, error) {
	return l.repo.ListCategories(ctx)
}

func (l *Ledger) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	return l.repo.GetCategory(ctx, id)
}

// CreateCategory stores a category and returns it with the color actually
// applied.
func (l *Ledger) CreateCategory(ctx context.Context, in core.CategoryInput) (core.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return core.Category{}, err
	}
	id, err := l.repo.CreateCategory(ctx, in)
	if err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "id", id, "name", in.Name)

	l.publish(ctx, core.EventCreated, core.EntityCategory, id)
	return core.Category{ID: id, Name: in.Name, Color: in.ColorOrDefault()}, nil
}

func (l *Ledger) UpdateCategory(ctx context.Context, id int64, in core.CategoryInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return err
	}
	n, err := l.repo.UpdateCategory(ctx, id, in)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	l.publish(ctx, core.EventUpdated, core.EntityCategory, id)
	return nil
}

// DeleteCategory removes a category without touching its transactions.
func (l *Ledger) DeleteCategory(ctx context.Context, id int64) error {
	n, err := l.repo.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	l.publish(ctx, core.EventDeleted, core.EntityCategory, id)
	return nil
}

func (l *Ledger) Statistics(ctx context.Context) (core.Statistics, error) {
	return l.repo.ComputeStatistics(ctx)
}

func (l *Ledger) SpendingByCategory(ctx context.Context) ([]core.CategorySpending, error) {
	return l.repo.ComputeSpendingByCategory(ctx)
}

// Dashboard fetches statistics and the spending breakdown concurrently.
func (l *Ledger) Dashboard(ctx context.Context) (core.Dashboard, error) {
	var d core.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := l.repo.ComputeStatistics(gctx)
		if err != nil {
			return err
		}
		d.Statistics = stats
		return nil
	})
	g.Go(func() error {
		spending, err := l.repo.ComputeSpendingByCategory(gctx)
		if err != nil {
			return err
		}
		d.SpendingByCategory = spending
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Dashboard{}, err
	}
	return d, nil
}

func (l *Ledger) Ping(ctx context.Context) error {
	return l.repo.Ping(ctx)
}

func (l *Ledger) publish(ctx context.Context, typ core.EventType, entity core.Entity, id int64) {
	if l.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping ledger event",
			"entity", entity, "id", id)
		return
	}
	ev := core.NewLedgerEvent(typ, entity, id)
	if err := l.publisher.PublishLedgerEvent(ctx, ev); err != nil {
		// The write already succeeded; the event is best effort.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"event", ev.Name(), "id", id, "error", err)
	}
}

// Close closes the store and, when it holds a connection, the publisher.
func (l *Ledger) Close() error {
	var errs []error

	if l.repo != nil {
		if err := l.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := l.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	return nil
}
