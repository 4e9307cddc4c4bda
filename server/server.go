package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/traveltime/internal/profile"
	"github.com/hrygo/traveltime/plugin/routing"
	"github.com/hrygo/traveltime/plugin/travel/apptime"
	"github.com/hrygo/traveltime/server/internal/observability"
	travelmiddleware "github.com/hrygo/traveltime/server/middleware"
	apiv1 "github.com/hrygo/traveltime/server/router/api/v1"
	"github.com/hrygo/traveltime/server/runner/maintenance"
	"github.com/hrygo/traveltime/server/service/travel"
	"github.com/hrygo/traveltime/store/cache"
)

// shutdownTimeout bounds graceful shutdown when the caller's context has no deadline.
const shutdownTimeout = 10 * time.Second

type Server struct {
	Profile *profile.Profile

	echoServer  *echo.Echo
	httpServer  *http.Server
	listener    net.Listener
	apiV1       *apiv1.APIV1Service
	routeCache  *cache.FIFO[string, routing.Estimate]
	maintenance *maintenance.Runner

	runnerCancel context.CancelFunc
}

// NewServer wires the travel service, its routing backend and the HTTP API.
func NewServer(ctx context.Context, profile *profile.Profile, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Profile:    profile,
		routeCache: cache.NewFIFO[string, routing.Estimate](profile.CacheSize, profile.CacheTTL),
	}

	estimator, err := newEstimator(profile)
	if err != nil {
		return nil, err
	}

	metrics := observability.DefaultMetrics()
	travelService := travel.NewService(apptime.NewService(time.Local), routing.NewCachingEstimator(estimator, s.routeCache)).
		WithRecorder(metrics)
	s.apiV1 = apiv1.NewAPIV1Service(profile, travelService, metrics)

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.HTTPErrorHandler = apiv1.HTTPErrorHandler
	echoServer.Use(travelmiddleware.RequestLogger(logger, metrics))
	echoServer.Use(middleware.Recover())
	s.apiV1.RegisterRoutes(echoServer)
	s.echoServer = echoServer

	s.maintenance = maintenance.NewRunner(maintenance.DefaultInterval).
		Register("rate_limiter", s.apiV1.RateLimiter()).
		Register("route_cache", maintenance.PruneFunc(s.routeCache.CleanupExpired))

	logger.InfoContext(ctx, "travel server configured",
		slog.String("mode", profile.Mode),
		slog.Bool("mock", profile.MockMode),
		slog.Int("rate_limit", profile.RateLimitPerMinute),
		slog.Int("cache_size", profile.CacheSize),
	)
	return s, nil
}

func newEstimator(profile *profile.Profile) (routing.Estimator, error) {
	if profile.MockMode || !profile.HasMapsKey() {
		return routing.NewMockEstimator(), nil
	}
	estimator, err := routing.NewMapsEstimator(profile.MapsAPIKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create maps estimator")
	}
	return estimator, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	address := net.JoinHostPort(s.Profile.Addr, fmt.Sprint(s.Profile.Port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", address)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.echoServer,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to serve http", "error", err)
		}
	}()

	runnerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.runnerCancel = cancel
	go s.maintenance.Run(runnerCtx)

	slog.Info("travel server started", "address", listener.Addr().String(), "version", s.Profile.Version)
	return nil
}

// Shutdown stops background runners and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
	}

	slog.Info("server shutting down")
	if s.runnerCancel != nil {
		s.runnerCancel()
	}
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to shutdown http server")
	}
	slog.Info("server stopped properly")
	return nil
}
