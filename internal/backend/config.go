package backend

import (
	"fmt"

	"urmoney/internal/config"
	gsheet "urmoney/internal/sheets/google"
	"urmoney/internal/storage"
)

// Config holds configuration for backend creation
type Config struct {
	Storage storage.Options

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	Journal JournalType
	Google  gsheet.Config
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	journal := MemoryJournal
	if appConfig.GoogleSpreadsheetID != "" {
		journal = GoogleJournal
	}

	cfg := Config{
		Storage: appConfig.StorageOptions(),

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		Journal: journal,
		Google: gsheet.Config{
			SpreadsheetID:   appConfig.GoogleSpreadsheetID,
			SheetName:       appConfig.GoogleSheetName,
			CredentialsFile: appConfig.GoogleServiceAccountFile,
			CredentialsJSON: appConfig.GoogleServiceAccountJSON,
		},
	}
	return cfg, cfg.Validate()
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if c.Storage.DSN == "" {
		return fmt.Errorf("database DSN is required for %s driver", c.Storage.Driver)
	}

	switch c.Journal {
	case MemoryJournal:
	case GoogleJournal:
		if c.Google.SpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for google journal")
		}
	default:
		return fmt.Errorf("invalid journal type: %s", c.Journal)
	}

	return nil
}

// AMQPEnabled reports whether ledger events should be published.
func (c Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}
