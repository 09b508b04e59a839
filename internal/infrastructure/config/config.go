package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the smart-home backend.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Mongo      MongoConfig      `yaml:"mongo"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	API        APIConfig        `yaml:"api"`
	Prometheus PrometheusConfig `yaml:"prometheus"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// MongoConfig contains the device store connection settings.
type MongoConfig struct {
	// URI is the connection string. When Username is set, URI is treated as
	// a format string and %s placeholders are substituted with the
	// credentials (see Config.MongoURI).
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`

	// ConnectRetries is the number of ping attempts at startup before the
	// process gives up. Attempts back off exponentially with jitter.
	ConnectRetries int `yaml:"connect_retries"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings, in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// PrometheusConfig contains the metrics query backend settings.
type PrometheusConfig struct {
	// URL is the base URL of the Prometheus HTTP API used for analytics
	// window queries.
	URL string `yaml:"url"`

	// QueryTimeout bounds each analytics query, in seconds.
	QueryTimeout int `yaml:"query_timeout"`
}

// AnalyticsConfig contains usage-analytics settings.
type AnalyticsConfig struct {
	// DefaultWindowDays is the analytics window applied when a report
	// request carries no explicit start timestamp.
	DefaultWindowDays int `yaml:"default_window_days"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SMARTHOME_SECTION_KEY
// For example: SMARTHOME_MONGO_URI, SMARTHOME_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "smart_home",
			Collection:     "devices",
			ConnectRetries: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "smarthome-backend",
			},
			QoS: 2,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 5200,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Prometheus: PrometheusConfig{
			URL:          "http://localhost:9090",
			QueryTimeout: 5,
		},
		Analytics: AnalyticsConfig{
			DefaultWindowDays: 7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SMARTHOME_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Mongo
	if v := os.Getenv("SMARTHOME_MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("SMARTHOME_MONGO_USER"); v != "" {
		cfg.Mongo.Username = v
	}
	if v := os.Getenv("SMARTHOME_MONGO_PASS"); v != "" {
		cfg.Mongo.Password = v
	}
	if v := os.Getenv("SMARTHOME_MONGO_DATABASE"); v != "" {
		cfg.Mongo.Database = v
	}

	// MQTT
	if v := os.Getenv("SMARTHOME_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SMARTHOME_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("SMARTHOME_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SMARTHOME_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("SMARTHOME_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("SMARTHOME_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// Prometheus
	if v := os.Getenv("SMARTHOME_PROMETHEUS_URL"); v != "" {
		cfg.Prometheus.URL = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Mongo validation
	if c.Mongo.URI == "" {
		errs = append(errs, "mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		errs = append(errs, "mongo.database is required")
	}
	if c.Mongo.Collection == "" {
		errs = append(errs, "mongo.collection is required")
	}
	if c.Mongo.ConnectRetries < 1 {
		errs = append(errs, "mongo.connect_retries must be at least 1")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// Prometheus validation
	if c.Prometheus.URL == "" {
		errs = append(errs, "prometheus.url is required")
	}
	if c.Prometheus.QueryTimeout < 1 {
		errs = append(errs, "prometheus.query_timeout must be at least 1 second")
	}

	// Analytics validation
	if c.Analytics.DefaultWindowDays < 1 {
		errs = append(errs, "analytics.default_window_days must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// MongoURI returns the connection string with credentials substituted.
// When no username is configured the URI is returned unchanged.
func (c *Config) MongoURI() string {
	return c.Mongo.MongoURI()
}

// MongoURI returns the connection string with credentials substituted.
func (m MongoConfig) MongoURI() string {
	if m.Username == "" {
		return m.URI
	}
	return fmt.Sprintf(m.URI, m.Username, m.Password)
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetQueryTimeout returns the Prometheus query timeout as a Duration.
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Prometheus.GetQueryTimeout()
}

// GetQueryTimeout returns the query timeout as a Duration.
func (p PrometheusConfig) GetQueryTimeout() time.Duration {
	return time.Duration(p.QueryTimeout) * time.Second
}

// DefaultAnalyticsWindow returns the default analytics window as a Duration.
func (c *Config) DefaultAnalyticsWindow() time.Duration {
	return time.Duration(c.Analytics.DefaultWindowDays) * 24 * time.Hour
}
