package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/traveltime/plugin/travel/intent"
)

func parse(t *testing.T, raw string) Query {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return Parse(values)
}

func TestParse_Basic(t *testing.T) {
	q := parse(t, "origin=A&destination=B&mode=driving")

	assert.Equal(t, "A", q.Origin)
	assert.Equal(t, "B", q.Destination)
	assert.Equal(t, "driving", q.Mode)
	assert.Equal(t, "en", q.Language)
	assert.Empty(t, q.Warnings)
	assert.True(t, q.HasRoute())
}

func TestParse_Defaults(t *testing.T) {
	q := parse(t, "origin=A&destination=B")

	assert.Equal(t, DefaultMode, q.Mode)
	assert.Equal(t, DefaultBufferMinutes, q.BufferMinutes)
	assert.Equal(t, DefaultQRThresholdMin, q.QRThresholdMin)
	assert.Zero(t, q.RefreshSeconds)
	assert.Equal(t, intent.Intent(""), q.Intent)
}

func TestParse_InvalidModeFallsBack(t *testing.T) {
	q := parse(t, "origin=A&destination=B&mode=flying")

	assert.Equal(t, "driving", q.Mode)
	require.Len(t, q.Warnings, 1)
	assert.Contains(t, q.Warnings[0], "Invalid mode")
}

func TestParse_MissingRequired(t *testing.T) {
	q := parse(t, "origin=A")

	assert.Empty(t, q.Destination)
	assert.False(t, q.HasRoute())
	assert.Contains(t, q.Warnings, "Missing required parameter: destination")
}

func TestParse_AppointmentParams(t *testing.T) {
	q := parse(t, "origin=A&destination=B&apptTime=2030-01-01T10:00:00Z&bufferMin=25&intent=AppointmentLeaveTime")

	assert.Equal(t, "2030-01-01T10:00:00Z", q.ApptTime)
	assert.Equal(t, 25, q.BufferMinutes)
	assert.Equal(t, intent.AppointmentLeaveTime, q.Intent)
}

func TestParse_Clamps(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantBuffer  int
		wantQR      int
		wantRefresh int
		wantWarn    bool
	}{
		{"buffer above max", "bufferMin=500", 180, 10, 0, false},
		{"negative buffer", "bufferMin=-5", 0, 10, 0, false},
		{"garbage buffer", "bufferMin=abc", 0, 10, 0, false},
		{"qr threshold custom", "qrThresholdMin=5", 10, 5, 0, false},
		{"qr threshold floor", "qrThresholdMin=0", 10, 1, 0, false},
		{"refresh floor", "refreshSec=5", 10, 10, 15, false},
		{"refresh kept", "refreshSec=60", 10, 10, 60, false},
		{"refresh invalid", "refreshSec=soon", 10, 10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := parse(t, "origin=A&destination=B&"+tt.raw)
			assert.Equal(t, tt.wantBuffer, q.BufferMinutes)
			assert.Equal(t, tt.wantQR, q.QRThresholdMin)
			assert.Equal(t, tt.wantRefresh, q.RefreshSeconds)
			assert.Equal(t, tt.wantWarn, len(q.Warnings) > 0)
		})
	}
}
