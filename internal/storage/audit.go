package storage

import (
	"context"
	"fmt"
	"time"

	"urmoney/internal/core"
)

// RecordAuditEntry appends a processed ledger event to the audit log.
func (s *Store) RecordAuditEntry(ctx context.Context, ev core.LedgerEvent) (int64, error) {
	occurred := ev.Timestamp
	if occurred.IsZero() {
		occurred = time.Now()
	}
	id, err := s.insertReturningID(ctx, s.db, `
INSERT INTO audit_log (event_type, entity, entity_id, occurred_at)
VALUES (?, ?, ?, ?)
RETURNING id`,
		string(ev.Type), string(ev.Entity), ev.ID, occurred.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("record audit entry: %w", err)
	}
	return id, nil
}

// ListAuditEntries returns the most recent entries first. A limit of zero or
// less returns everything.
func (s *Store) ListAuditEntries(ctx context.Context, limit int) ([]core.AuditEntry, error) {
	query := `SELECT id, event_type, entity, entity_id, occurred_at, recorded_at FROM audit_log ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	out := make([]core.AuditEntry, 0)
	for rows.Next() {
		var (
			e                    core.AuditEntry
			entity               string
			occurred, recordedAt timestamp
		)
		if err := rows.Scan(&e.ID, &e.EventType, &entity, &e.EntityID, &occurred, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Entity = core.Entity(entity)
		e.OccurredAt = occurred.Time
		e.RecordedAt = recordedAt.Time
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return out, nil
}
