// Package sqlerr turns database driver errors into application errors.
//
// Both supported drivers are understood: postgres errors arrive as
// *pgconn.PgError carrying a SQLSTATE, sqlite errors as *sqlite.Error
// carrying an extended result code. Either is normalized into *Error and
// then mapped onto an errs.HTTPError by HandleError.
package sqlerr

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Code is a driver-independent error category.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	Busy                Code = "busy"
)

// Severity mirrors the postgres message severities. sqlite errors are
// always SeverityError.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized driver error.
type Error struct {
	Code     Code
	Severity Severity

	// DatabaseCode is the raw SQLSTATE or sqlite result code.
	DatabaseCode string
	Message      string

	TableName      string
	ColumnName     string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a postgres SQLSTATE onto a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "40001", "55P03":
		return Busy
	default:
		return Other
	}
}

// MapSeverity maps a postgres severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch strings.ToUpper(severity) {
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	case "NOTICE":
		return SeverityNotice
	case "DEBUG":
		return SeverityDebug
	case "INFO":
		return SeverityInfo
	case "LOG":
		return SeverityLog
	default:
		return SeverityError
	}
}

// MapSQLiteCode maps an extended sqlite result code onto a Code.
func MapSQLiteCode(code int) Code {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return NotNullViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return CheckViolation
	}

	switch code & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return Busy
	default:
		return Other
	}
}

// ConvertPgError normalizes a postgres server error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// ConvertSQLiteError normalizes a sqlite error. sqlite does not report
// the table or column involved.
func ConvertSQLiteError(src *sqlite.Error) *Error {
	code := MapSQLiteCode(src.Code())
	if code == Other && src.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(src.Error(), "FOREIGN KEY") {
		code = ForeignKeyViolation
	}

	return &Error{
		Code:         code,
		Severity:     SeverityError,
		DatabaseCode: fmt.Sprintf("%d", src.Code()),
		Message:      src.Error(),
		driverErr:    src,
	}
}
