// Package worker processes ledger events delivered over AMQP.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"urmoney/internal/core"
	"urmoney/internal/sheets"
)

// Store is the slice of persistence the worker needs.
type Store interface {
	RecordAuditEntry(ctx context.Context, ev core.LedgerEvent) (int64, error)
	GetTransaction(ctx context.Context, id int64) (core.EnrichedTransaction, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
}

// EventWorker records every ledger event in the audit log and mirrors it to
// the spreadsheet journal.
type EventWorker struct {
	store    Store
	exporter sheets.JournalExporter
	now      func() time.Time
}

// NewEventWorker creates a worker. exporter may be nil to disable the journal.
func NewEventWorker(store Store, exporter sheets.JournalExporter) *EventWorker {
	return &EventWorker{
		store:    store,
		exporter: exporter,
		now:      time.Now,
	}
}

// Handle processes a single ledger event. A returned error causes the message
// to be redelivered.
func (w *EventWorker) Handle(ctx context.Context, ev core.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"event", ev.Name(),
		"id", ev.ID)

	auditID, err := w.store.RecordAuditEntry(ctx, ev)
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}

	if w.exporter == nil {
		slog.DebugContext(ctx, "No journal exporter configured, skipping export",
			"event", ev.Name(), "id", ev.ID)
		return nil
	}

	row, err := w.journalRow(ctx, ev)
	if err != nil {
		return fmt.Errorf("build journal row: %w", err)
	}

	ref, err := w.exporter.AppendJournal(ctx, row)
	if err != nil {
		return fmt.Errorf("append journal row: %w", err)
	}

	slog.InfoContext(ctx, "Ledger event exported",
		"event", ev.Name(),
		"id", ev.ID,
		"audit_id", auditID,
		"row_ref", ref)
	return nil
}

func (w *EventWorker) journalRow(ctx context.Context, ev core.LedgerEvent) (sheets.JournalRow, error) {
	row := sheets.JournalRow{
		RecordedAt: w.now(),
		Event:      ev.Name(),
		EntityID:   ev.ID,
	}
	if ev.Type == core.EventDeleted {
		return row, nil
	}

	switch ev.Entity {
	case core.EntityTransaction:
		tx, err := w.store.GetTransaction(ctx, ev.ID)
		if errors.Is(err, core.ErrNotFound) {
			// Deleted before the event was processed.
			return row, nil
		}
		if err != nil {
			return row, err
		}
		row.Date = tx.Date.String()
		row.Description = tx.Description
		row.Type = string(tx.Type)
		row.Amount = tx.Amount.String()
		if tx.CategoryName != nil {
			row.Category = *tx.CategoryName
		}
	case core.EntityCategory:
		c, err := w.store.GetCategory(ctx, ev.ID)
		if errors.Is(err, core.ErrNotFound) {
			return row, nil
		}
		if err != nil {
			return row, err
		}
		row.Category = c.Name
	}
	return row, nil
}
