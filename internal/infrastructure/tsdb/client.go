package tsdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"github.com/project-home/smart-home-core/internal/infrastructure/config"
)

// Client queries a Prometheus server over its HTTP API.
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	api          promv1.API
	queryTimeout time.Duration

	// logger for query warnings (optional, set via SetLogger).
	logger   Logger
	loggerMu sync.RWMutex
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

// New creates a query client for the configured Prometheus address.
//
// Parameters:
//   - cfg: Prometheus configuration from config.yaml
//
// Returns:
//   - *Client: Client ready for use (no connection is held open)
//   - error: If the address cannot be parsed
func New(cfg config.PrometheusConfig) (*Client, error) {
	apiClient, err := promapi.NewClient(promapi.Config{Address: cfg.URL})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return &Client{
		api:          promv1.NewAPI(apiClient),
		queryTimeout: cfg.GetQueryTimeout(),
	}, nil
}

// SetLogger sets an optional logger for query warnings.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	defer c.loggerMu.Unlock()
	c.logger = logger
}

// Query runs an instant query evaluated at ts.
//
// Parameters:
//   - ctx: Context for cancellation; the configured query timeout is applied
//   - query: PromQL expression
//   - ts: Evaluation instant
//
// Returns:
//   - model.Vector: One sample per matching series
//   - error: ErrQueryFailed wrapping the upstream error, or for a
//     non-vector result type
func (c *Client) Query(ctx context.Context, query string, ts time.Time) (model.Vector, error) {
	qctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	value, warnings, err := c.api.Query(qctx, query, ts)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrQueryFailed, query, err)
	}
	if len(warnings) > 0 {
		c.warn("query returned warnings", "query", query, "warnings", warnings)
	}

	vector, ok := value.(model.Vector)
	if !ok {
		return nil, fmt.Errorf("%w: %q: unexpected result type %s", ErrQueryFailed, query, value.Type())
	}
	return vector, nil
}

// Increase evaluates the increase of a counter over [from, to), as an
// instant query at the window's end:
//
//	increase(<metric>[<seconds>s]) @ to
//
// Parameters:
//   - ctx: Context for cancellation
//   - metric: Counter family name, e.g. "device_usage_seconds_total"
//   - from: Window start (must precede to)
//   - to: Window end and evaluation instant
//
// Returns:
//   - model.Vector: Per-series increase over the window
//   - error: ErrInvalidRange for an empty or inverted window, else as Query
func (c *Client) Increase(ctx context.Context, metric string, from, to time.Time) (model.Vector, error) {
	window := int(to.Sub(from).Seconds())
	if window <= 0 {
		return nil, fmt.Errorf("%w: %v to %v", ErrInvalidRange, from, to)
	}
	return c.Query(ctx, fmt.Sprintf("increase(%s[%ds])", metric, window), to)
}

func (c *Client) warn(msg string, args ...any) {
	c.loggerMu.RLock()
	logger := c.logger
	c.loggerMu.RUnlock()
	if logger != nil {
		logger.Warn(msg, args...)
	}
}
