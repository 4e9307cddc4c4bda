package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/traveltime/plugin/travel/apptime"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
	HasAPIKey bool    `json:"hasApiKey"`
	MockMode  bool    `json:"mockMode"`
	Version   string  `json:"version"`
	Commit    string  `json:"commitSha,omitempty"`
}

// Healthz reports liveness and build information.
// GET /healthz
func (s *APIV1Service) Healthz(c echo.Context) error {
	now := s.now()
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(s.startedAt).Seconds(),
		Timestamp: apptime.FormatISO(now),
		HasAPIKey: s.Profile.HasMapsKey(),
		MockMode:  s.Profile.MockMode,
		Version:   s.Profile.Version,
		Commit:    s.Profile.Commit,
	})
}
