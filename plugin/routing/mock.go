package routing

import (
	"context"
	"sync/atomic"
)

// Values returned by MockEstimator.
const (
	MockDistanceMeters           = 120000
	MockDurationSeconds          = 5100
	MockDurationInTrafficSeconds = 5580
)

// MockEstimator returns a fixed estimate without network access.
type MockEstimator struct {
	// Err, when set, is returned instead of an estimate.
	Err   error
	calls atomic.Int64
}

// NewMockEstimator creates a MockEstimator.
func NewMockEstimator() *MockEstimator {
	return &MockEstimator{}
}

// Estimate implements Estimator.
func (m *MockEstimator) Estimate(ctx context.Context, req Request) (Estimate, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return Estimate{}, err
	}
	if err := req.Validate(); err != nil {
		return Estimate{}, err
	}
	if m.Err != nil {
		return Estimate{}, m.Err
	}

	mode := req.Mode
	if mode == "" {
		mode = "driving"
	}
	return Estimate{
		DurationSeconds:          MockDurationSeconds,
		DurationInTrafficSeconds: MockDurationInTrafficSeconds,
		DistanceMeters:           MockDistanceMeters,
		OriginAddress:            req.Origin + " (mock)",
		DestinationAddress:       req.Destination + " (mock)",
		Mode:                     mode,
		ProviderStatus:           "MOCK",
		Mock:                     true,
	}, nil
}

// Calls returns how many times Estimate was invoked.
func (m *MockEstimator) Calls() int64 {
	return m.calls.Load()
}

var _ Estimator = (*MockEstimator)(nil)
