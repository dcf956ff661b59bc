package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/deppfellow/orgrecords/internal/config"
)

// sqliteDSN enables foreign keys on every pooled connection so the
// employees.department_id reference is enforced by the store itself.
func sqliteDSN(path string) string {
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

type sqliteBackend struct {
	db *sql.DB
}

func openSQLite(cfg config.DatabaseConfig) (*sqliteBackend, error) {
	db, err := sql.Open("sqlite", sqliteDSN(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	}

	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) exec(ctx context.Context, query string, args ...any) error {
	_, err := b.db.ExecContext(ctx, query, args...)
	return err
}

func (b *sqliteBackend) queryRow(ctx context.Context, query string, args ...any) Row {
	return b.db.QueryRowContext(ctx, query, args...)
}

func (b *sqliteBackend) query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

func (b *sqliteBackend) ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

func (b *sqliteBackend) close() {
	_ = b.db.Close()
}

// sqlRows adapts *sql.Rows to Rows, whose Close has no result.
type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() {
	_ = r.Rows.Close()
}
