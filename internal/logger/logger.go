// Package logger configures the application's structured logging.
//
// It uses zerolog for application logs, optionally tees them into a
// lumberjack rotating file, and adapts zerolog to pgx's tracelog for SQL
// statement logging in the local environment.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/deppfellow/orgrecords/internal/config"
)

// New builds the application logger from the observability config.
//
// Console output is used outside production or when the format is
// "console"; JSON otherwise. When Logging.FilePath is set, every line is
// also written to a size-rotated file.
func New(cfg *config.ObservabilityConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit primary writer.
func NewWithWriter(cfg *config.ObservabilityConfig, out io.Writer) zerolog.Logger {
	level := ParseLevel(cfg.GetLogLevel())

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var writer io.Writer = out
	if !cfg.IsProduction() && cfg.Logging.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
	}

	// Tee into a rotating file when one is configured. If its directory
	// cannot be created, keep logging to the primary writer only.
	var fileErr error
	if cfg.Logging.FilePath != "" {
		if fileErr = ensureLogDir(cfg.Logging.FilePath); fileErr == nil {
			writer = zerolog.MultiLevelWriter(writer, &lumberjack.Logger{
				Filename:   cfg.Logging.FilePath,
				MaxSize:    cfg.Logging.MaxSizeMB,
				MaxBackups: cfg.Logging.MaxBackups,
				MaxAge:     cfg.Logging.MaxAgeDays,
				Compress:   true,
			})
		}
	}

	log := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()

	if fileErr != nil {
		log.Warn().
			Err(fileErr).
			Str("file_path", cfg.Logging.FilePath).
			Msg("file logging disabled: cannot create log directory")
	}

	return log
}

// ParseLevel maps a config level string to a zerolog level; unknown
// values fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewPgxLogger returns the logger handed to pgx-zerolog for SQL tracing.
// It writes human-readable lines to stdout since it is only used locally.
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
		FormatFieldValue: func(i any) string {
			switch v := i.(type) {
			case string:
				if len(v) > 200 {
					return v[:200] + "..."
				}
				return v
			default:
				return fmt.Sprintf("%v", v)
			}
		},
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("component", "database").
		Logger()
}

// GetPgxTraceLogLevel maps a zerolog level onto the pgx tracelog scale.
func GetPgxTraceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
