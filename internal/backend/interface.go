package backend

import (
	"context"

	"urmoney/internal/amqp"
	"urmoney/internal/services"
	"urmoney/internal/sheets"
	"urmoney/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the ledger, the store it writes to and the cleanup
// that releases both.
type BackendResult struct {
	Ledger *services.Ledger
	Store  *storage.Store
	// Publisher is nil when AMQP is disabled or unreachable at startup.
	Publisher *amqp.Client
	Cleanup   CleanupFunc
}

// JournalType selects where the worker exports journal rows.
type JournalType string

const (
	MemoryJournal JournalType = "memory"
	GoogleJournal JournalType = "google"
)

// String returns the string representation of the journal type
func (t JournalType) String() string {
	return string(t)
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend opens the store and wraps it in a ledger.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	// CreateJournal builds the exporter the event worker appends to.
	CreateJournal(ctx context.Context, config Config) (sheets.JournalExporter, error)
}
