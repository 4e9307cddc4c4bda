package v1

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hrygo/traveltime/internal/profile"
	"github.com/hrygo/traveltime/server/internal/observability"
	travelmiddleware "github.com/hrygo/traveltime/server/middleware"
	"github.com/hrygo/traveltime/server/service/travel"
)

type APIV1Service struct {
	Profile       *profile.Profile
	TravelService *travel.Service
	Metrics       *observability.Metrics
	// Gatherer backs /metrics; nil means the global Prometheus registry.
	Gatherer prometheus.Gatherer

	limiter   *travelmiddleware.RateLimiter
	startedAt time.Time
	now       func() time.Time
}

func NewAPIV1Service(profile *profile.Profile, travelService *travel.Service, metrics *observability.Metrics) *APIV1Service {
	return &APIV1Service{
		Profile:       profile,
		TravelService: travelService,
		Metrics:       metrics,
		limiter:       travelmiddleware.NewRateLimiter(profile.RateLimitPerMinute),
		startedAt:     time.Now(),
		now:           time.Now,
	}
}

// WithClock sets the clock handlers evaluate against.
func (s *APIV1Service) WithClock(now func() time.Time) *APIV1Service {
	if now != nil {
		s.now = now
	}
	return s
}

// RateLimiter exposes the limiter so the server can prune idle clients.
func (s *APIV1Service) RateLimiter() *travelmiddleware.RateLimiter {
	return s.limiter
}

// RegisterRoutes registers the travel API, health and metrics endpoints.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	echoServer.GET("/healthz", s.Healthz)

	gatherer := s.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	echoServer.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	travelGroup := echoServer.Group("/api/v1/travel")
	travelGroup.Use(middleware.CORS())
	travelGroup.Use(s.limiter.Middleware(func(echo.Context) {
		s.Metrics.IncRateLimited()
	}))
	travelGroup.GET("/evaluate", s.Evaluate)
	travelGroup.GET("/resolve", s.Resolve)
	travelGroup.GET("/sanitize", s.Sanitize)
	travelGroup.GET("/intent", s.Intent)
	travelGroup.GET("/plan", s.Plan)
	travelGroup.GET("/matrix", s.Matrix)
}
