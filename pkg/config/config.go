// Package config defines the application configuration, its defaults and
// validation, YAML loading with environment overrides, and hot reload of
// the tunable fields.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Providers   []ProviderConfig  `yaml:"providers"`
	Optimizer   OptimizerConfig   `yaml:"optimizer"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	ListenAddress     string        `yaml:"listen_address"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// ProviderConfig holds one adapter's settings. Providers are a list, not a
// map: candidate selection breaks token ties by configuration order, so
// order must survive loading.
type ProviderConfig struct {
	Name       string        `yaml:"name"`
	Type       string        `yaml:"type"`
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// OptimizerConfig holds the pipeline settings.
type OptimizerConfig struct {
	Policy            string           `yaml:"policy"`
	SemanticThreshold float64          `yaml:"semantic_threshold"`
	MockMode          bool             `yaml:"mock_mode"`
	Embeddings        EmbeddingsConfig `yaml:"embeddings"`
}

// EmbeddingsConfig holds the optional cosine similarity service hook.
type EmbeddingsConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// CacheConfig holds the result cache settings.
type CacheConfig struct {
	TTL      time.Duration `yaml:"ttl"`
	Capacity int           `yaml:"capacity"`
	Redis    RedisConfig   `yaml:"redis"`
}

// RedisConfig holds the optional distributed cache backend.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MetricsConfig holds the journal and exposition settings.
type MetricsConfig struct {
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	Prometheus bool   `yaml:"prometheus"`
}

// TelemetryConfig holds the observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds the structured logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MaintenanceConfig holds the background job settings.
type MaintenanceConfig struct {
	SweepSchedule string `yaml:"sweep_schedule"`
}
