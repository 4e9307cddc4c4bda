package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

const matrixOK = `{
  "status": "OK",
  "origin_addresses": ["1 Main St, Philadelphia, PA"],
  "destination_addresses": ["JFK Airport, Queens, NY"],
  "rows": [{"elements": [{
    "status": "OK",
    "duration": {"value": 6000, "text": "1 hour 40 mins"},
    "duration_in_traffic": {"value": 6600, "text": "1 hour 50 mins"},
    "distance": {"value": 150000, "text": "150 km"}
  }]}]
}`

const matrixNotFound = `{
  "status": "OK",
  "origin_addresses": [""],
  "destination_addresses": [""],
  "rows": [{"elements": [{"status": "NOT_FOUND"}]}]
}`

func newMatrixServer(t *testing.T, body string, check func(*http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewMapsEstimator_RequiresKey(t *testing.T) {
	_, err := NewMapsEstimator("")
	assert.Error(t, err)
}

func TestMapsEstimator_Driving(t *testing.T) {
	var query map[string]string
	srv := newMatrixServer(t, matrixOK, func(r *http.Request) {
		query = map[string]string{
			"path":           r.URL.Path,
			"mode":           r.URL.Query().Get("mode"),
			"departure_time": r.URL.Query().Get("departure_time"),
			"language":       r.URL.Query().Get("language"),
			"key":            r.URL.Query().Get("key"),
		}
	})

	m, err := NewMapsEstimator("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	est, err := m.Estimate(context.Background(), Request{
		Origin:      "1 Main St Philadelphia",
		Destination: "JFK",
		Mode:        "driving",
		Language:    "en",
	})
	require.NoError(t, err)

	assert.Equal(t, 6000, est.DurationSeconds)
	assert.Equal(t, 6600, est.DurationInTrafficSeconds)
	assert.Equal(t, 150000, est.DistanceMeters)
	assert.Equal(t, "1 Main St, Philadelphia, PA", est.OriginAddress)
	assert.Equal(t, "JFK Airport, Queens, NY", est.DestinationAddress)
	assert.Equal(t, "OK", est.ProviderStatus)
	assert.False(t, est.Mock)

	assert.Equal(t, "/maps/api/distancematrix/json", query["path"])
	assert.Equal(t, "driving", query["mode"])
	assert.Equal(t, "now", query["departure_time"])
	assert.Equal(t, "en", query["language"])
	assert.Equal(t, "test-key", query["key"])
}

func TestMapsEstimator_WalkingHasNoDepartureTime(t *testing.T) {
	var departure string
	srv := newMatrixServer(t, matrixOK, func(r *http.Request) {
		departure = r.URL.Query().Get("departure_time")
	})

	m, err := NewMapsEstimator("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	est, err := m.Estimate(context.Background(), Request{Origin: "A", Destination: "B", Mode: "walking"})
	require.NoError(t, err)
	assert.Equal(t, "walking", est.Mode)
	assert.Empty(t, departure)
}

func TestMapsEstimator_ElementError(t *testing.T) {
	srv := newMatrixServer(t, matrixNotFound, nil)

	m, err := NewMapsEstimator("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = m.Estimate(context.Background(), Request{Origin: "A", Destination: "Nowhere"})
	assert.ErrorIs(t, err, ErrProvider)
}

func TestMapsEstimator_RequestDenied(t *testing.T) {
	srv := newMatrixServer(t, `{"status":"REQUEST_DENIED","error_message":"bad key","rows":[]}`, nil)

	m, err := NewMapsEstimator("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = m.Estimate(context.Background(), Request{Origin: "A", Destination: "B"})
	assert.ErrorIs(t, err, ErrProvider)
}

func TestMapsEstimator_DeadlineIsNotAProviderError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	m, err := NewMapsEstimator("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = m.Estimate(ctx, Request{Origin: "A", Destination: "B"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrProvider)
}

func TestTravelMode(t *testing.T) {
	assert.Equal(t, maps.TravelModeDriving, travelMode(""))
	assert.Equal(t, maps.TravelModeDriving, travelMode("flying"))
	assert.Equal(t, maps.TravelModeTransit, travelMode("transit"))
	assert.Equal(t, maps.TravelModeBicycling, travelMode("bicycling"))
	assert.Equal(t, maps.TravelModeWalking, travelMode("walking"))
}
