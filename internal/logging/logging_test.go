package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))

	assert.True(t, ValidLevel("Info"))
	assert.False(t, ValidLevel("trace"))
}

func TestFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "optionsdash.log")
	logger := NewLoggerWithConfig(LogConfig{
		Level:      "info",
		File:       true,
		FilePath:   path,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
	logger.Info().Str("symbol", "AAPL").Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"symbol":"AAPL"`)
	assert.Contains(t, string(data), `"message":"hello"`)
}

func TestContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithRequestID(WithLogger(context.Background(), logger), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))

	fromCtx := FromContext(ctx)
	scoped := WithOperation(WithExpiry(WithSymbol(fromCtx, "SPY"), "2024-06-21"), "fetch_chain")
	scoped.Info().Msg("ok")

	entry := decode(t, &buf)
	assert.Equal(t, "SPY", entry["symbol"])
	assert.Equal(t, "2024-06-21", entry["expiry"])
	assert.Equal(t, "fetch_chain", entry["operation"])

	// a context without a logger yields a no-op logger
	nop := FromContext(context.Background())
	nop.Info().Msg("dropped")
}

func TestLogRequestLevels(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := []struct {
		status int
		level  string
	}{
		{200, "info"},
		{404, "warn"},
		{502, "error"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		LogRequest(zerolog.New(&buf), "GET", "/api/v1/chain", tt.status, 15*time.Millisecond)

		entry := decode(t, &buf)
		assert.Equal(t, tt.level, entry["level"])
		assert.Equal(t, "http_request", entry["event"])
		assert.Equal(t, float64(tt.status), entry["status"])
	}
}

func TestLogAPICall(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	LogAPICall(zerolog.New(&buf), "GET", "fetch_chain", time.Second, errors.New("timeout"))

	entry := decode(t, &buf)
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "timeout", entry["error"])
	assert.Equal(t, "API call failed", entry["message"])
}
