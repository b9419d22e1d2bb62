package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jobly/jobly-api/log"
	"github.com/jobly/jobly-api/types"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var nopLogger = log.NewZapLogger(zap.NewNop())

func newTestDb(t *testing.T, hooks ...Hook) *Db {
	t.Helper()
	cfg := Config{
		DriverName: DriverSQLite,
		DSN:        "file:" + filepath.Join(t.TempDir(), "jobly.db") + "?_foreign_keys=on",
		Hooks:      hooks,
	}
	require.NoError(t, MigrateUp(cfg, nopLogger))

	db, err := Open(cfg, nopLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// assertErrorKind checks err is a client facing *Error of kind
func assertErrorKind(t *testing.T, kind error, err error) {
	t.Helper()
	var clientErr *Error
	if assert.True(t, errors.As(err, &clientErr), "expected *Error, got %v", err) {
		assert.Equal(t, kind, clientErr.Kind)
	}
}

func assertDecimal(t *testing.T, expected string, actual types.Decimal) {
	t.Helper()
	if assert.True(t, actual.Valid(), "expected %s, got NULL", expected) {
		assert.Zero(t, actual.Dec.Cmp(types.MustDecimal(expected).Dec), "expected %s, got %s", expected, actual)
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func stringPtr(v string) *string {
	return &v
}

// seed inserts three companies, three jobs and two users
func seed(t *testing.T, db *Db) []types.Job {
	t.Helper()
	ctx := context.Background()

	companies := []types.Company{
		{Handle: "c1", Name: "C1", Description: "Desc1", NumEmployees: int64Ptr(1), LogoURL: stringPtr("http://c1.img")},
		{Handle: "c2", Name: "C2", Description: "Desc2", NumEmployees: int64Ptr(2), LogoURL: stringPtr("http://c2.img")},
		{Handle: "c3", Name: "C3", Description: "Desc3", NumEmployees: int64Ptr(3)},
	}
	for _, c := range companies {
		_, err := db.CreateCompany(ctx, c)
		require.NoError(t, err)
	}

	newJobs := []types.NewJob{
		{Title: "Job1", Salary: int64Ptr(100), Equity: types.MustDecimal("0.1"), CompanyHandle: "c1"},
		{Title: "Job2", Salary: int64Ptr(200), Equity: types.MustDecimal("0.2"), CompanyHandle: "c1"},
		{Title: "Job3", Salary: int64Ptr(300), Equity: types.MustDecimal("0"), CompanyHandle: "c1"},
	}
	jobs := make([]types.Job, 0, len(newJobs))
	for _, j := range newJobs {
		job, err := db.CreateJob(ctx, j)
		require.NoError(t, err)
		jobs = append(jobs, *job)
	}

	users := []types.NewUser{
		{Username: "u1", Password: "password1", FirstName: "U1F", LastName: "U1L", Email: "u1@email.com"},
		{Username: "u2", Password: "password2", FirstName: "U2F", LastName: "U2L", Email: "u2@email.com", IsAdmin: true},
	}
	for _, u := range users {
		_, err := db.CreateUser(ctx, u)
		require.NoError(t, err)
	}

	return jobs
}

func TestOpenValidatesConfig(t *testing.T) {
	_, err := Open(Config{DriverName: "mysql", DSN: "x"}, nopLogger)
	assert.Error(t, err)

	_, err = Open(Config{DriverName: DriverSQLite}, nopLogger)
	assert.Error(t, err)
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	cfg := Config{
		DriverName: DriverSQLite,
		DSN:        "file:" + filepath.Join(t.TempDir(), "jobly.db"),
	}
	require.NoError(t, MigrateUp(cfg, nopLogger))
	require.NoError(t, MigrateUp(cfg, nopLogger))
}

func TestWithRetry(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), RetryConfig{MaxAttempts: 3}, func() error {
		calls++
		if calls < 3 {
			return &DBError{Sentinel: ErrConnectionFailed, Cause: errors.New("refused")}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = WithRetry(context.Background(), RetryConfig{MaxAttempts: 3}, func() error {
		calls++
		return &DBError{Sentinel: ErrDuplicateKey, Cause: errors.New("dup")}
	})
	assert.True(t, IsDuplicateKey(err))
	assert.Equal(t, 1, calls)

	calls = 0
	err = WithRetry(context.Background(), RetryConfig{MaxAttempts: 2}, func() error {
		calls++
		return &DBError{Sentinel: ErrTimeout, Cause: errors.New("slow")}
	})
	assert.True(t, IsTimeout(err))
	assert.Equal(t, 2, calls)
}

func TestLogHook(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	hook := NewLogHook(log.NewZapLogger(zap.New(core)), LogHookConfig{LogArgs: true})
	db := newTestDb(t, hook)

	_, err := db.GetCompany(context.Background(), "missing")
	require.Error(t, err)

	entries := logs.FilterMessage("query executed").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "SELECT "+companyColumns+" FROM companies WHERE handle = $1", entries[0].ContextMap()["query"])
	assert.Contains(t, entries[0].ContextMap(), "args")
	assert.Empty(t, logs.FilterMessage("query failed").All(), "not found should not be logged as failure")

	_, err = db.Exec(context.Background(), "SELECT * FROM unknown_table")
	require.Error(t, err)
	assert.Len(t, logs.FilterMessage("query failed").All(), 1)
}

func TestLogHookOmitsArgs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	db := newTestDb(t, NewLogHook(log.NewZapLogger(zap.New(core)), LogHookConfig{}))

	_, err := db.Authenticate(context.Background(), "u1", "password1")
	require.Error(t, err)

	entries := logs.FilterMessage("query executed").All()
	require.NotEmpty(t, entries)
	for _, entry := range entries {
		assert.NotContains(t, entry.ContextMap(), "args")
	}
}

type panickingHook struct{}

func (panickingHook) BeforeQuery(context.Context, string, []interface{}) { panic("before") }
func (panickingHook) AfterQuery(context.Context, string, []interface{}, time.Duration, error) {
	panic("after")
}

func TestHookPanicDoesNotFailStatement(t *testing.T) {
	db := newTestDb(t, panickingHook{})
	_, err := db.FindCompanies(context.Background(), types.CompanyFilter{})
	assert.NoError(t, err)
}

func TestErrorMapping(t *testing.T) {
	db := newTestDb(t)
	seed(t, db)
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO users (username, password, first_name, last_name, email) VALUES ($1, $2, $3, $4, $5)",
		"u1", "x", "f", "l", "a@b.c")
	assert.True(t, IsDuplicateKey(err))

	_, err = db.Exec(ctx, "INSERT INTO applications (username, job_id) VALUES ($1, $2)", "nope", 1)
	assert.True(t, IsForeignKeyViolation(err))

	_, err = db.Exec(ctx, "UPDATE jobs SET salary = $1", -1)
	assert.True(t, IsCheckViolation(err))

	var dbErr *DBError
	assert.True(t, errors.As(err, &dbErr))
	assert.Error(t, errors.Unwrap(err))

	var name string
	err = db.QueryRow(ctx, "SELECT name FROM companies WHERE handle = $1", "none").Scan(&name)
	assert.True(t, IsNotFound(err))
}

func TestPostgresErrorMapping(t *testing.T) {
	items := []struct {
		code     pq.ErrorCode
		sentinel error
	}{
		{"23505", ErrDuplicateKey},
		{"23503", ErrForeignKeyViolation},
		{"23514", ErrCheckViolation},
		{"23502", ErrNotNullViolation},
		{"22003", ErrInvalidInput},
		{"22P02", ErrInvalidInput},
		{"22001", ErrInvalidInput},
		{"57014", ErrTimeout},
		{"08006", ErrConnectionFailed},
	}

	for _, item := range items {
		cause := &pq.Error{Code: item.code}
		err := mapError(cause)
		assert.True(t, errors.Is(err, item.sentinel), "code %s", item.code)
		assert.False(t, IsClientError(err), "code %s", item.code)
		assert.Equal(t, error(cause), errors.Unwrap(err))
	}

	unmapped := &pq.Error{Code: "42P01"}
	assert.Equal(t, error(unmapped), mapError(unmapped))
}

func TestClientError(t *testing.T) {
	err := newError(ErrNotFound, "No job: %d", 7)
	assert.Equal(t, "No job: 7", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsInvalidInput(err))
	assert.True(t, IsClientError(err))
	assert.True(t, IsClientError(fmt.Errorf("get job: %w", err)))
	assert.False(t, IsClientError(&DBError{Sentinel: ErrNotFound, Cause: errors.New("no rows")}))
}

func TestConfigFromURL(t *testing.T) {
	cfg, err := ConfigFromURL("postgresql:///jobly")
	require.NoError(t, err)
	assert.Equal(t, Config{DriverName: DriverPostgres, DSN: "postgresql:///jobly"}, cfg)

	cfg, err = ConfigFromURL("sqlite3:///tmp/jobly.db")
	require.NoError(t, err)
	assert.Equal(t, Config{DriverName: DriverSQLite, DSN: "file:/tmp/jobly.db?_foreign_keys=on"}, cfg)

	cfg, err = ConfigFromURL("sqlite3://jobly.db?cache=shared")
	require.NoError(t, err)
	assert.Equal(t, "file:jobly.db?cache=shared&_foreign_keys=on", cfg.DSN)

	_, err = ConfigFromURL("sqlite3://")
	assert.Error(t, err)
	_, err = ConfigFromURL("mysql://localhost/jobly")
	assert.Error(t, err)
}
