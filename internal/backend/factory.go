package backend

import (
	"context"
	"fmt"
	"log/slog"

	"urmoney/internal/amqp"
	"urmoney/internal/services"
	"urmoney/internal/sheets"
	gsheet "urmoney/internal/sheets/google"
	"urmoney/internal/sheets/memory"
	"urmoney/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := storage.Open(ctx, config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", config.Storage.Driver, err)
	}

	var amqpClient *amqp.Client
	if config.AMQPEnabled() {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without ledger events", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	// A nil *amqp.Client must not become a non-nil interface.
	var publisher services.EventPublisher
	if amqpClient != nil {
		publisher = amqpClient
	}
	ledger := services.NewLedger(store, publisher)

	f.logger.Info("Initialized ledger backend",
		"driver", config.Storage.Driver,
		"amqp_enabled", amqpClient != nil)

	return &BackendResult{
		Ledger:    ledger,
		Store:     store,
		Publisher: amqpClient,
		Cleanup:   ledger.Close,
	}, nil
}

// CreateJournal implements Factory.CreateJournal
func (f *DefaultFactory) CreateJournal(ctx context.Context, config Config) (sheets.JournalExporter, error) {
	switch config.Journal {
	case GoogleJournal:
		cli, err := gsheet.New(ctx, config.Google)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets journal: %w", err)
		}
		f.logger.Info("Initialized Google Sheets journal", "spreadsheet_id", config.Google.SpreadsheetID)
		return cli, nil
	case MemoryJournal, "":
		f.logger.Info("Initialized in-memory journal")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported journal type: %s", config.Journal)
	}
}
