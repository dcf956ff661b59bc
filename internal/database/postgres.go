package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/deppfellow/orgrecords/internal/config"
	loggerConfig "github.com/deppfellow/orgrecords/internal/logger"
)

type postgresBackend struct {
	pool *pgxpool.Pool
}

// PostgresDSN builds a postgres URL from the database config. The password
// is URL-escaped so characters like '@' or ':' do not break the URL.
func PostgresDSN(cfg config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.User,
		url.QueryEscape(cfg.Password),
		hostPort,
		cfg.Name,
		cfg.SSLMode,
	)
}

func openPostgres(cfg *config.Config, logger *zerolog.Logger) (*postgresBackend, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(PostgresDSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	if cfg.Database.MaxOpenConns > 0 {
		pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		pgxPoolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	}
	if cfg.Database.ConnMaxIdleTime > 0 {
		pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second
	}

	// SQL tracing is noisy, so only the local environment gets it.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxPoolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

func (b *postgresBackend) exec(ctx context.Context, query string, args ...any) error {
	_, err := b.pool.Exec(ctx, query, args...)
	return err
}

func (b *postgresBackend) queryRow(ctx context.Context, query string, args ...any) Row {
	return b.pool.QueryRow(ctx, query, args...)
}

func (b *postgresBackend) query(ctx context.Context, query string, args ...any) (Rows, error) {
	return b.pool.Query(ctx, query, args...)
}

func (b *postgresBackend) ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

func (b *postgresBackend) close() {
	b.pool.Close()
}
