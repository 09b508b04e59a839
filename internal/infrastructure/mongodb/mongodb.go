package mongodb

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/project-home/smart-home-core/internal/infrastructure/config"
)

// Connection timing constants.
const (
	// pingTimeout bounds each individual ping attempt.
	pingTimeout = 5 * time.Second

	// healthTimeout bounds readiness pings.
	healthTimeout = 5 * time.Second
)

// DB wraps a mongo.Client scoped to the configured database.
// It provides startup verification, health checks, and lifecycle management.
type DB struct {
	client *mongo.Client
	cfg    config.MongoConfig
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

// Connect dials the device store and verifies it responds to a ping.
//
// The ping is retried up to cfg.ConnectRetries times; attempt n sleeps
// 2^n seconds plus up to one second of jitter before retrying, so a store
// that is still starting up alongside the backend gets a growing grace
// period. Exhausting the budget fails the whole startup.
//
// Parameters:
//   - ctx: Context for cancellation; aborts the retry loop when done
//   - cfg: Mongo configuration from config.yaml
//   - logger: Optional; failed attempts are logged here
//
// Returns:
//   - *DB: Verified store handle
//   - error: ErrConnectionFailed wrapping the last ping error
func Connect(ctx context.Context, cfg config.MongoConfig, logger Logger) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	db := &DB{client: client, cfg: cfg}

	var lastErr error
	for attempt := 0; attempt < cfg.ConnectRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if lastErr == nil {
			return db, nil
		}

		if logger != nil {
			logger.Warn("store ping failed, retrying",
				"attempt", attempt+1, "retries", cfg.ConnectRetries, "error", lastErr)
		}

		delay := time.Duration(1<<attempt)*time.Second +
			time.Duration(rand.Float64()*float64(time.Second))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, ctx.Err())
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrConnectionFailed, cfg.ConnectRetries, lastErr)
}

// Devices returns the device collection configured in config.yaml.
func (db *DB) Devices() *mongo.Collection {
	return db.client.Database(db.cfg.Database).Collection(db.cfg.Collection)
}

// HealthCheck verifies the store connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, the ping error otherwise
func (db *DB) HealthCheck(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := db.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb health check: %w", err)
	}
	return nil
}

// Close disconnects from the store gracefully.
//
// Returns:
//   - error: If the driver fails to disconnect cleanly
func (db *DB) Close(ctx context.Context) error {
	if db == nil || db.client == nil {
		return nil
	}
	if err := db.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("closing mongodb connection: %w", err)
	}
	return nil
}
