// Package database opens the record store and exposes it to the rest of
// the application through the Conn interface.
//
// Two drivers are supported:
//   - sqlite: modernc.org/sqlite through database/sql (the default)
//   - postgres: a pgx connection pool (pgxpool) with optional query tracing
//
// Every statement runs in auto-commit mode; there are no multi-statement
// transactions at this layer.
package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/orgrecords/internal/config"
)

// Dialect names the SQL flavour spoken by a Conn.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Row is a single-row query result. Both *sql.Row and pgx.Row satisfy it.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a multi-row query result.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Conn is the store collaborator used by the repositories. Queries are
// written with `?` placeholders; implementations translate them for their
// dialect.
type Conn interface {
	Dialect() Dialect
	Exec(ctx context.Context, query string, args ...any) error
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// DatabasePingTimeout is the number of seconds to wait for the initial ping.
const DatabasePingTimeout = 10

// Database wraps whichever driver was configured together with a logger.
type Database struct {
	backend backend
	dialect Dialect
	log     *zerolog.Logger

	// slowQueryThreshold flags statements at warn level; zero disables it.
	slowQueryThreshold time.Duration
}

// backend is implemented by the sqlite and postgres drivers.
type backend interface {
	exec(ctx context.Context, query string, args ...any) error
	queryRow(ctx context.Context, query string, args ...any) Row
	query(ctx context.Context, query string, args ...any) (Rows, error)
	ping(ctx context.Context) error
	close()
}

var _ Conn = (*Database)(nil)

// New opens the store selected by cfg.Database.Driver and pings it.
func New(cfg *config.Config, logger *zerolog.Logger) (*Database, error) {
	var (
		b   backend
		d   Dialect
		err error
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		b, err = openPostgres(cfg, logger)
		d = DialectPostgres
	case config.DriverSQLite, "":
		b, err = openSQLite(cfg.Database)
		d = DialectSQLite
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	db := &Database{backend: b, dialect: d, log: logger}
	if cfg.Observability != nil {
		db.slowQueryThreshold = cfg.Observability.Logging.SlowQueryThreshold
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err := b.ping(ctx); err != nil {
		b.close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", string(d)).Msg("connected to the database")

	return db, nil
}

// OpenSQLite opens a sqlite store at path with default pool settings.
func OpenSQLite(path string, logger *zerolog.Logger) (*Database, error) {
	return New(&config.Config{
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			Path:         path,
			MaxOpenConns: 4,
			MaxIdleConns: 4,
		},
	}, logger)
}

// Dialect reports the SQL flavour of the open store.
func (db *Database) Dialect() Dialect {
	return db.dialect
}

// Exec runs a statement that returns no rows.
func (db *Database) Exec(ctx context.Context, query string, args ...any) error {
	defer db.observe(query, time.Now())
	return db.backend.exec(ctx, Rebind(db.dialect, query), args...)
}

// QueryRow runs a query expected to return at most one row. Errors are
// deferred to Scan.
func (db *Database) QueryRow(ctx context.Context, query string, args ...any) Row {
	defer db.observe(query, time.Now())
	return db.backend.queryRow(ctx, Rebind(db.dialect, query), args...)
}

// Query runs a query returning any number of rows. Callers must Close the
// result.
func (db *Database) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	defer db.observe(query, time.Now())
	return db.backend.query(ctx, Rebind(db.dialect, query), args...)
}

// Ping verifies the store is reachable.
func (db *Database) Ping(ctx context.Context) error {
	return db.backend.ping(ctx)
}

// Close releases the underlying pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.backend.close()
	return nil
}

func (db *Database) observe(query string, start time.Time) {
	elapsed := time.Since(start)

	if db.slowQueryThreshold > 0 && elapsed > db.slowQueryThreshold {
		db.log.Warn().
			Str("sql", compact(query)).
			Dur("elapsed", elapsed).
			Dur("threshold", db.slowQueryThreshold).
			Msg("slow database statement")
		return
	}

	db.log.Debug().
		Str("sql", compact(query)).
		Dur("elapsed", elapsed).
		Msg("database statement")
}

// Rebind rewrites `?` placeholders into `$1, $2, ...` for postgres.
// Queries must not contain literal question marks.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// compact collapses whitespace so multi-line SQL fits on one log line.
func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
