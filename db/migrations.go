package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jobly/jobly-api/log"
)

//go:embed migrations
var migrationFiles embed.FS

// NewMigrate returns a migrate instance applying the embedded migrations of the
// configured driver. It owns its own connection, released by Close.
func NewMigrate(cfg Config, logger log.Logger) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "migrations/"+cfg.DriverName)
	if err != nil {
		return nil, fmt.Errorf("no migrations for driver '%s': %w", cfg.DriverName, err)
	}

	sqldb, err := sql.Open(cfg.DriverName, cfg.DSN)
	if err != nil {
		return nil, err
	}

	var driver database.Driver
	switch cfg.DriverName {
	case DriverPostgres:
		driver, err = migratepostgres.WithInstance(sqldb, &migratepostgres.Config{})
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(sqldb, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unsupported database driver '%s'", cfg.DriverName)
	}
	if err != nil {
		_ = sqldb.Close()
		return nil, err
	}

	m, err := migrate.NewWithInstance("iofs", src, cfg.DriverName, driver)
	if err != nil {
		_ = driver.Close()
		return nil, err
	}
	m.Log = migrateLogger{logger}
	return m, nil
}

// MigrateUp applies every pending migration
func MigrateUp(cfg Config, logger log.Logger) error {
	m, err := NewMigrate(cfg, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	logger.Info("database schema up to date", "version", version, "dirty", dirty)
	return nil
}

type migrateLogger struct {
	logger log.Logger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l migrateLogger) Verbose() bool {
	return false
}
