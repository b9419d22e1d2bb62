package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jobly/jobly-api/log"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config holds the options used to open a Db
type Config struct {
	// DriverName is either "postgres" or "sqlite3"
	DriverName string
	DSN        string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// QueryTimeout is applied to statements whose context has no deadline. Zero disables it.
	QueryTimeout time.Duration

	// ConnectRetries is the number of ping attempts made before Open gives up.
	ConnectRetries int
	RetryDelay     time.Duration

	Hooks []Hook
}

// DefaultDatabaseURL is used when no database url is configured
const DefaultDatabaseURL = "postgresql:///jobly"

// ConfigFromURL selects the driver from the scheme of url. postgres:// and
// postgresql:// urls are passed to lib/pq as is, sqlite3:// urls open the file
// that follows the scheme with foreign keys enforced.
func ConfigFromURL(url string) (Config, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Config{DriverName: DriverPostgres, DSN: url}, nil
	case strings.HasPrefix(url, "sqlite3://"):
		path := strings.TrimPrefix(url, "sqlite3://")
		if path == "" {
			return Config{}, errors.New("sqlite3 url has no database file")
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return Config{DriverName: DriverSQLite, DSN: "file:" + path + sep + "_foreign_keys=on"}, nil
	}
	return Config{}, fmt.Errorf("unsupported database url '%s'", url)
}

// Querier is the statement execution surface shared by Db and its callers
type Querier interface {
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) *Row
}

// Db represents a connection pool to the jobly database
type Db struct {
	sqldb  *sql.DB
	cfg    Config
	hooks  hookChain
	logger log.Logger
}

// Open opens the database described by cfg and waits until it answers a ping
func Open(cfg Config, logger log.Logger) (*Db, error) {
	if cfg.DriverName != DriverPostgres && cfg.DriverName != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver '%s'", cfg.DriverName)
	}
	if cfg.DSN == "" {
		return nil, errors.New("database url must not be empty")
	}

	sqldb, err := sql.Open(cfg.DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	db := &Db{
		sqldb:  sqldb,
		cfg:    cfg,
		hooks:  newHookChain(cfg.Hooks, logger),
		logger: logger,
	}

	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	retry := RetryConfig{MaxAttempts: attempts, Delay: cfg.RetryDelay, RetryOn: IsConnectionFailed}
	err = WithRetry(context.Background(), retry, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mapError(sqldb.PingContext(ctx)); err != nil {
			logger.Warn("database not reachable", "driver", cfg.DriverName, "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return db, nil
}

// Close releases every pooled connection
func (db *Db) Close() error {
	return db.sqldb.Close()
}

// Ping verifies the database is reachable
func (db *Db) Ping(ctx context.Context) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	return mapError(db.sqldb.PingContext(ctx))
}

// Exec executes a statement that returns no rows
func (db *Db) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	db.hooks.Before(ctx, query, args)
	res, err := db.sqldb.ExecContext(ctx, query, args...)
	err = mapError(err)
	db.hooks.After(ctx, query, args, time.Since(start), err)
	return res, err
}

// Query executes a statement that returns rows. The caller must close the rows.
// The statement timeout is not applied here since it would cancel the context
// before the rows are read.
func (db *Db) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	db.hooks.Before(ctx, query, args)
	rows, err := db.sqldb.QueryContext(ctx, query, args...)
	err = mapError(err)
	db.hooks.After(ctx, query, args, time.Since(start), err)
	return rows, err
}

// QueryRow executes a statement expected to return at most one row. Errors,
// including ErrNotFound, are reported by Row.Scan.
func (db *Db) QueryRow(ctx context.Context, query string, args ...interface{}) *Row {
	ctx, cancel := db.withTimeout(ctx)

	start := time.Now()
	db.hooks.Before(ctx, query, args)
	raw := db.sqldb.QueryRowContext(ctx, query, args...)
	return &Row{
		raw: raw,
		done: func(err error) {
			db.hooks.After(ctx, query, args, time.Since(start), err)
			cancel()
		},
	}
}

func (db *Db) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.cfg.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, db.cfg.QueryTimeout)
}

// Row wraps *sql.Row and maps the driver errors on Scan
type Row struct {
	raw  *sql.Row
	done func(err error)
}

// Scan copies the columns of the matched row into dest. ErrNotFound is returned
// when no row matched.
func (r *Row) Scan(dest ...interface{}) error {
	err := mapError(r.raw.Scan(dest...))
	if r.done != nil {
		r.done(err)
	}
	return err
}

// RetryConfig controls WithRetry
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	// RetryOn defaults to retrying timeouts and connection failures
	RetryOn func(error) bool
}

// WithRetry calls fn until it succeeds, returns an error RetryOn rejects, or
// MaxAttempts is reached.
func WithRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	retryOn := cfg.RetryOn
	if retryOn == nil {
		retryOn = func(err error) bool {
			return IsTimeout(err) || IsConnectionFailed(err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.Delay):
			}
		}
		lastErr = fn()
		if lastErr == nil || !retryOn(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", cfg.MaxAttempts, lastErr)
}
