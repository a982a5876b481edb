package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.raw), "ParseLevel(%q)", tt.raw)
	}
}

func TestLoggerWritesServiceAndAction(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("api", &buf, "debug")

	log.Info("order_created", "Order created", "req-1", map[string]interface{}{"order_id": 7})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "api", record["service"])
	assert.Equal(t, "order_created", record["action"])
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "Order created", record["msg"])
	details, ok := record["details"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 7, details["order_id"])
}

func TestLoggerErrorGroup(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("api", &buf, "info")

	log.Error("db_query_failed", "query failed", "req-2", errors.New("boom"), nil)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	group, ok := record["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boom", group["msg"])
	assert.NotEmpty(t, group["stack"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("api", &buf, "info")

	log.Debug("noise", "should be dropped", "", nil)
	assert.Zero(t, buf.Len())
}

func TestGenerateRequestIDUnique(t *testing.T) {
	assert.NotEqual(t, GenerateRequestID(), GenerateRequestID())
}
