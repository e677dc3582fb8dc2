package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// RunMigrations applies every pending up migration for the given driver.
func RunMigrations(driver Driver, dsn string) error {
	m, closeFn, err := newMigrate(driver, dsn)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// SchemaVersion reports the applied migration version and whether the
// last migration left the schema dirty. A fresh database reports 0.
func SchemaVersion(driver Driver, dsn string) (uint, bool, error) {
	m, closeFn, err := newMigrate(driver, dsn)
	if err != nil {
		return 0, false, err
	}
	defer closeFn()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

func newMigrate(driver Driver, dsn string) (*migrate.Migrate, func(), error) {
	// Create a separate connection for migrations to avoid interfering with the main connection
	migrateDB, err := sql.Open(driver.sqlName(), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open migration database: %w", err)
	}

	var dbDriver database.Driver
	switch driver {
	case Postgres:
		dbDriver, err = postgres.WithInstance(migrateDB, &postgres.Config{})
	default:
		dbDriver, err = sqlite.WithInstance(migrateDB, &sqlite.Config{})
	}
	if err != nil {
		migrateDB.Close()
		return nil, nil, fmt.Errorf("create %s driver: %w", driver, err)
	}

	d, err := iofs.New(migrationsFS, "migrations/"+string(driver))
	if err != nil {
		migrateDB.Close()
		return nil, nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, string(driver), dbDriver)
	if err != nil {
		migrateDB.Close()
		return nil, nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return m, func() {
		m.Close()
		migrateDB.Close()
	}, nil
}
