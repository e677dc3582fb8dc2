package sheets

import (
	"context"
	"time"
)

// JournalRow is one line of the spreadsheet journal. Transaction fields are
// empty for category events and for deleted transactions.
type JournalRow struct {
	RecordedAt  time.Time
	Event       string
	EntityID    int64
	Date        string
	Description string
	Type        string
	Amount      string
	Category    string
}

// Values returns the row in column order A..H.
func (r JournalRow) Values() []any {
	return []any{
		r.RecordedAt.UTC().Format(time.RFC3339),
		r.Event,
		r.EntityID,
		r.Date,
		r.Description,
		r.Type,
		r.Amount,
		r.Category,
	}
}

// Ports for outbound adapters.
type (
	JournalExporter interface {
		AppendJournal(ctx context.Context, row JournalRow) (rowRef string, err error)
	}
)
