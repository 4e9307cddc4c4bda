package routing

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
	"googlemaps.github.io/maps"
)

// DefaultMaxInFlight bounds concurrent Distance Matrix calls.
const DefaultMaxInFlight = 8

// MapsEstimator queries the Google Distance Matrix API.
type MapsEstimator struct {
	client   *maps.Client
	inFlight *semaphore.Weighted
}

// NewMapsEstimator creates an estimator for the given API key. Extra client
// options (base URL, HTTP client, rate limit) are passed through to the SDK.
func NewMapsEstimator(apiKey string, opts ...maps.ClientOption) (*MapsEstimator, error) {
	if apiKey == "" {
		return nil, errors.New("maps API key is required")
	}

	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create maps client")
	}

	return &MapsEstimator{
		client:   client,
		inFlight: semaphore.NewWeighted(DefaultMaxInFlight),
	}, nil
}

// Estimate implements Estimator.
func (m *MapsEstimator) Estimate(ctx context.Context, req Request) (Estimate, error) {
	if err := req.Validate(); err != nil {
		return Estimate{}, err
	}

	if err := m.inFlight.Acquire(ctx, 1); err != nil {
		return Estimate{}, err
	}
	defer m.inFlight.Release(1)

	mode := travelMode(req.Mode)
	matrixReq := &maps.DistanceMatrixRequest{
		Origins:      []string{req.Origin},
		Destinations: []string{req.Destination},
		Mode:         mode,
		Language:     req.Language,
	}
	// Traffic-aware durations are only returned for driving with a departure time.
	if mode == maps.TravelModeDriving {
		matrixReq.DepartureTime = "now"
	}

	resp, err := m.client.DistanceMatrix(ctx, matrixReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Estimate{}, errors.Wrap(ctxErr, "distance matrix")
		}
		return Estimate{}, errors.Wrapf(ErrProvider, "distance matrix: %v", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return Estimate{}, errors.Wrap(ErrProvider, "distance matrix returned no rows")
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		slog.Warn("distance matrix element not OK",
			slog.String("status", element.Status),
			slog.String("mode", string(mode)),
		)
		return Estimate{}, errors.Wrapf(ErrProvider, "element status %s", element.Status)
	}

	est := Estimate{
		DurationSeconds:          int(element.Duration.Seconds()),
		DurationInTrafficSeconds: int(element.DurationInTraffic.Seconds()),
		DistanceMeters:           element.Distance.Meters,
		OriginAddress:            req.Origin,
		DestinationAddress:       req.Destination,
		Mode:                     string(mode),
		ProviderStatus:           "OK",
	}
	if len(resp.OriginAddresses) > 0 {
		est.OriginAddress = resp.OriginAddresses[0]
	}
	if len(resp.DestinationAddresses) > 0 {
		est.DestinationAddress = resp.DestinationAddresses[0]
	}
	return est, nil
}

// travelMode maps a query mode onto the SDK's enum. Unknown modes drive.
func travelMode(mode string) maps.Mode {
	switch mode {
	case "walking":
		return maps.TravelModeWalking
	case "bicycling":
		return maps.TravelModeBicycling
	case "transit":
		return maps.TravelModeTransit
	default:
		return maps.TravelModeDriving
	}
}

var _ Estimator = (*MapsEstimator)(nil)
