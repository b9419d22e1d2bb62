package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrCheckViolation      = errors.New("check constraint violation")
	ErrNotNullViolation    = errors.New("not null violation")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTimeout             = errors.New("query timeout")
	ErrConnectionFailed    = errors.New("connection failed")
)

func IsNotFound(err error) bool            { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool        { return errors.Is(err, ErrDuplicateKey) }
func IsForeignKeyViolation(err error) bool { return errors.Is(err, ErrForeignKeyViolation) }
func IsCheckViolation(err error) bool      { return errors.Is(err, ErrCheckViolation) }
func IsInvalidInput(err error) bool        { return errors.Is(err, ErrInvalidInput) }
func IsInvalidCredentials(err error) bool  { return errors.Is(err, ErrInvalidCredentials) }
func IsTimeout(err error) bool             { return errors.Is(err, ErrTimeout) }
func IsConnectionFailed(err error) bool    { return errors.Is(err, ErrConnectionFailed) }

// DBError pairs one of the sentinel errors with the driver error that caused it
type DBError struct {
	Sentinel error
	Cause    error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("%s (cause: %v)", e.Sentinel, e.Cause)
}

func (e *DBError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *DBError) Unwrap() error        { return e.Cause }

// Error is a failure caused by the request rather than by the database. Its
// message names the offending record or value and can be shown to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string        { return e.Message }
func (e *Error) Is(target error) bool { return errors.Is(e.Kind, target) }

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsClientError reports whether err, or an error it wraps, is an *Error
func IsClientError(err error) bool {
	var clientErr *Error
	return errors.As(err, &clientErr)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &DBError{Sentinel: ErrNotFound, Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &DBError{Sentinel: ErrTimeout, Cause: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if sentinel := pgSentinel(pqErr.Code); sentinel != nil {
			return &DBError{Sentinel: sentinel, Cause: err}
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if sentinel := sqliteSentinel(liteErr); sentinel != nil {
			return &DBError{Sentinel: sentinel, Cause: err}
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return &DBError{Sentinel: ErrConnectionFailed, Cause: err}
	}

	return err
}

// PostgreSQL SQLSTATE codes
func pgSentinel(code pq.ErrorCode) error {
	switch code {
	case "23505":
		return ErrDuplicateKey
	case "23503":
		return ErrForeignKeyViolation
	case "23514":
		return ErrCheckViolation
	case "23502":
		return ErrNotNullViolation
	case "57014":
		return ErrTimeout
	case "22003", "22P02", "22001":
		// numeric_value_out_of_range, invalid_text_representation, string_data_right_truncation
		return ErrInvalidInput
	}
	if code.Class() == "08" {
		return ErrConnectionFailed
	}
	return nil
}

func sqliteSentinel(err sqlite3.Error) error {
	switch err.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ErrDuplicateKey
	case sqlite3.ErrConstraintForeignKey:
		return ErrForeignKeyViolation
	case sqlite3.ErrConstraintCheck:
		return ErrCheckViolation
	case sqlite3.ErrConstraintNotNull:
		return ErrNotNullViolation
	}
	switch err.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return ErrTimeout
	case sqlite3.ErrCantOpen:
		return ErrConnectionFailed
	}
	return nil
}
