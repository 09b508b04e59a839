package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/project-home/smart-home-core/internal/analytics"
	"github.com/project-home/smart-home-core/internal/device"
	"github.com/project-home/smart-home-core/internal/infrastructure/config"
	"github.com/project-home/smart-home-core/internal/infrastructure/logging"
	"github.com/project-home/smart-home-core/internal/metrics"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Commands is the slice of the command processor the handlers drive.
// Every mutation passes publish=true so broker subscribers converge.
type Commands interface {
	Create(ctx context.Context, d *device.Device, publish bool) error
	Update(ctx context.Context, id string, fields map[string]any, publish bool) error
	Action(ctx context.Context, id string, params map[string]any, publish bool) error
	Delete(ctx context.Context, id string, publish bool) error
	MarkRead(d *device.Device)
}

// Reporter answers analytics window requests. Satisfied by
// analytics.Aggregator.
type Reporter interface {
	Aggregate(ctx context.Context, from, to time.Time) (*analytics.Report, error)
}

// StoreChecker reports device store reachability for the readiness probe.
type StoreChecker interface {
	HealthCheck(ctx context.Context) error
}

// BrokerChecker reports broker connectivity for the readiness probe.
type BrokerChecker interface {
	IsConnected() bool
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	Logger     *logging.Logger
	Repo       device.Repository
	Commands   Commands
	Reporter   Reporter
	Collectors *metrics.Collectors
	Store      StoreChecker
	Broker     BrokerChecker

	// DefaultWindow is the analytics lookback applied when the request
	// names no window start.
	DefaultWindow time.Duration

	Version string
}

// Server is the HTTP API server.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg           config.APIConfig
	logger        *logging.Logger
	repo          device.Repository
	commands      Commands
	reporter      Reporter
	collectors    *metrics.Collectors
	registry      *prometheus.Registry
	store         StoreChecker
	broker        BrokerChecker
	defaultWindow time.Duration
	version       string
	server        *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, repository, commands)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Repo == nil {
		return nil, fmt.Errorf("device repository is required")
	}
	if deps.Commands == nil {
		return nil, fmt.Errorf("command processor is required")
	}
	if deps.Collectors == nil {
		return nil, fmt.Errorf("metric collectors are required")
	}

	defaultWindow := deps.DefaultWindow
	if defaultWindow <= 0 {
		defaultWindow = 7 * 24 * time.Hour
	}

	return &Server{
		cfg:           deps.Config,
		logger:        deps.Logger,
		repo:          deps.Repo,
		commands:      deps.Commands,
		reporter:      deps.Reporter,
		collectors:    deps.Collectors,
		registry:      deps.Collectors.Registry(),
		store:         deps.Store,
		broker:        deps.Broker,
		defaultWindow: defaultWindow,
		version:       deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server listening", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
