package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/orgrecords/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, tracelog.LogLevelDebug, GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, tracelog.LogLevelInfo, GetPgxTraceLogLevel(zerolog.InfoLevel))
	assert.Equal(t, tracelog.LogLevelError, GetPgxTraceLogLevel(zerolog.ErrorLevel))
	assert.Equal(t, tracelog.LogLevelNone, GetPgxTraceLogLevel(zerolog.Disabled))
}

func TestNewWithWriterJSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	log := NewWithWriter(cfg, &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("department", "Engineering").Msg("created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "created", line["message"])
	assert.Equal(t, "Engineering", line["department"])
	assert.Equal(t, "orgrecords", line["service"])
	assert.Equal(t, "production", line["environment"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewWithWriterRotatingFile(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.FilePath = filepath.Join(t.TempDir(), "logs", "orgrecords.log")

	var buf bytes.Buffer
	log := NewWithWriter(cfg, &buf)
	log.Warn().Msg("slow database statement")

	assert.Contains(t, buf.String(), "slow database statement")
	assert.DirExists(t, filepath.Dir(cfg.Logging.FilePath))
	assert.FileExists(t, cfg.Logging.FilePath)
}

func TestNewWithWriterWarnsWhenLogDirFails(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.FilePath = filepath.Join(blocker, "logs", "orgrecords.log")

	var buf bytes.Buffer
	log := NewWithWriter(cfg, &buf)

	assert.Contains(t, buf.String(), "file logging disabled")
	assert.Contains(t, buf.String(), "blocker")
	assert.NoFileExists(t, cfg.Logging.FilePath)

	log.Info().Msg("still running")
	assert.Contains(t, buf.String(), "still running")
}
