package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskValue(t *testing.T) {
	assert.Empty(t, MaskValue(""))

	masked := MaskValue("1805 Deer Drive PA")
	assert.True(t, strings.HasPrefix(masked, "h:"))
	assert.Len(t, masked, 2+maskLength)
	assert.Equal(t, masked, MaskValue("1805 Deer Drive PA"))
	assert.NotEqual(t, masked, MaskValue("1806 Deer Drive PA"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestRequestContext_LogsMaskedLocations(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug", true)

	reqCtx := NewRequestContextWithID(logger, "req-1", "/api/v1/travel/evaluate")
	reqCtx.SetLocations("Home Street 1", "Office Road 2")
	reqCtx.Info("request", slog.Int(LogFieldStatus, 200))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry[LogFieldRequestID])
	assert.Equal(t, "/api/v1/travel/evaluate", entry[LogFieldPath])
	assert.Equal(t, MaskValue("Home Street 1"), entry[LogFieldOrigin])
	assert.Equal(t, MaskValue("Office Road 2"), entry[LogFieldDestination])
	assert.EqualValues(t, 200, entry[LogFieldStatus])
	assert.NotContains(t, buf.String(), "Home Street")
}

func TestRequestContext_Error(t *testing.T) {
	var buf bytes.Buffer
	reqCtx := NewRequestContext(NewLogger(&buf, "info", false), "/healthz")

	reqCtx.Error("failed", assert.AnError)
	assert.Contains(t, buf.String(), "failed")
	assert.Contains(t, buf.String(), assert.AnError.Error())
	assert.NotEmpty(t, reqCtx.RequestID)
}

func TestRequestContext_DebugFiltered(t *testing.T) {
	var buf bytes.Buffer
	reqCtx := NewRequestContext(NewLogger(&buf, "info", false), "/")

	reqCtx.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestRequestContext_InContext(t *testing.T) {
	reqCtx := NewRequestContext(nil, "/")
	ctx := WithRequestContext(context.Background(), reqCtx)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, reqCtx, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
