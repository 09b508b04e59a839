// Smart Home Core - device synchronization and usage analytics backend.
//
// The backend keeps a MongoDB device registry, mirrors every state change
// into Prometheus collectors, accepts commands over both MQTT and HTTP,
// and answers windowed usage-analytics queries against Prometheus.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/project-home/smart-home-core/internal/analytics"
	"github.com/project-home/smart-home-core/internal/api"
	"github.com/project-home/smart-home-core/internal/command"
	"github.com/project-home/smart-home-core/internal/device"
	"github.com/project-home/smart-home-core/internal/infrastructure/config"
	"github.com/project-home/smart-home-core/internal/infrastructure/logging"
	"github.com/project-home/smart-home-core/internal/infrastructure/mongodb"
	"github.com/project-home/smart-home-core/internal/infrastructure/mqtt"
	"github.com/project-home/smart-home-core/internal/infrastructure/tsdb"
	"github.com/project-home/smart-home-core/internal/ingress"
	"github.com/project-home/smart-home-core/internal/metrics"
	"github.com/project-home/smart-home-core/internal/usage"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Smart Home Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load .env if present; environment overrides come from the same
	// variables either way.
	if err := godotenv.Load(); err == nil {
		log.Info(".env file loaded")
	}

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to the device store
	db, err := mongodb.Connect(ctx, cfg.Mongo, log)
	if err != nil {
		return fmt.Errorf("connecting to MongoDB: %w", err)
	}
	defer func() {
		log.Info("closing MongoDB connection")
		if closeErr := db.Close(context.Background()); closeErr != nil {
			log.Error("error closing MongoDB", "error", closeErr)
		}
	}()
	log.Info("MongoDB connected",
		"database", cfg.Mongo.Database,
		"collection", cfg.Mongo.Collection,
	)

	deviceRepo := device.NewMongoRepository(db.Devices())

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Metric projection: one set of collectors, one writer
	collectors := metrics.NewCollectors()
	tracker := usage.NewTracker()
	projector := metrics.NewProjector(collectors, tracker, log)

	// Command funnel shared by both ingress paths
	qos := byte(cfg.MQTT.QoS)
	publisher := ingress.NewPublisher(mqttClient, qos)
	processor := command.NewProcessor(deviceRepo, projector, publisher, log)

	// Replay the persisted registry into the collectors so every known
	// device has series from the first scrape.
	devices, err := deviceRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading device registry: %w", err)
	}
	for _, d := range devices {
		processor.MarkRead(d)
	}
	log.Info("device registry replayed", "devices", len(devices))

	// Subscribe to device reports
	listener := ingress.NewListener(ctx, processor, qos, log)
	if err := listener.Start(mqttClient); err != nil {
		return fmt.Errorf("subscribing to device topics: %w", err)
	}
	log.Info("device topic subscription active")

	// Analytics query backend
	promClient, err := tsdb.New(cfg.Prometheus)
	if err != nil {
		return fmt.Errorf("creating Prometheus client: %w", err)
	}
	promClient.SetLogger(log)
	aggregator := analytics.NewAggregator(promClient, tracker)
	log.Info("analytics backend configured", "url", cfg.Prometheus.URL)

	// HTTP API
	server, err := api.New(api.Deps{
		Config:        cfg.API,
		Logger:        log,
		Repo:          deviceRepo,
		Commands:      processor,
		Reporter:      aggregator,
		Collectors:    collectors,
		Store:         db,
		Broker:        mqttClient,
		DefaultWindow: cfg.DefaultAnalyticsWindow(),
		Version:       version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. MQTT
	// 3. MongoDB

	log.Info("Smart Home Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SMARTHOME_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SMARTHOME_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Device store connection to check
//   - mqttClient: MQTT client to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *mongodb.DB, mqttClient *mqtt.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mongodb: %w", err)
	}
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	return nil
}
