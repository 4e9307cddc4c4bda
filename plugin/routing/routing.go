// Package routing estimates travel time between two free-text places.
//
// The pipeline depends only on the Estimator interface. Three implementations exist:
// MockEstimator for tests and key-less deployments, MapsEstimator backed by the
// Google Distance Matrix API, and CachingEstimator which wraps either of them.
package routing

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMissingEndpoint is returned when origin or destination is empty.
	ErrMissingEndpoint = errors.New("origin and destination are required")
	// ErrProvider marks failures reported by the routing provider.
	ErrProvider = errors.New("routing provider error")
)

// Request describes one origin/destination lookup.
type Request struct {
	Origin      string
	Destination string
	Mode        string
	Language    string
}

// Validate checks that both endpoints are present.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Origin) == "" || strings.TrimSpace(r.Destination) == "" {
		return ErrMissingEndpoint
	}
	return nil
}

// key identifies requests that share an estimate.
func (r Request) key() string {
	return strings.ToLower(strings.Join([]string{
		strings.TrimSpace(r.Origin),
		strings.TrimSpace(r.Destination),
		r.Mode,
		r.Language,
	}, "|"))
}

// Estimate is the provider's answer for a Request.
type Estimate struct {
	DurationSeconds          int    `json:"durationSec"`
	DurationInTrafficSeconds int    `json:"durationInTrafficSec,omitempty"`
	DistanceMeters           int    `json:"distanceMeters"`
	OriginAddress            string `json:"origin"`
	DestinationAddress       string `json:"destination"`
	Mode                     string `json:"mode"`
	ProviderStatus           string `json:"providerStatus"`
	Mock                     bool   `json:"mock,omitempty"`
	Cached                   bool   `json:"cached,omitempty"`
}

// EffectiveSeconds prefers the traffic-aware duration when the provider reported one.
func (e Estimate) EffectiveSeconds() int {
	if e.DurationInTrafficSeconds > 0 {
		return e.DurationInTrafficSeconds
	}
	return e.DurationSeconds
}

// Estimator looks up travel estimates.
type Estimator interface {
	Estimate(ctx context.Context, req Request) (Estimate, error)
}
