package config

import "time"

// Default values applied to unset fields.
const (
	DefaultListenAddress     = "127.0.0.1:3000"
	DefaultReadTimeout       = 30 * time.Second
	DefaultWriteTimeout      = 60 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultRequestsPerMinute = 60
	DefaultProviderTimeout   = 30 * time.Second
	DefaultMaxRetries        = 3
	DefaultPolicy            = "parallel"
	DefaultSemanticThreshold = 0.7
	DefaultEmbeddingsTimeout = 5 * time.Second
	DefaultCacheTTL          = time.Hour
	DefaultCacheCapacity     = 1000
	DefaultMetricsBackend    = "file"
	DefaultMetricsPath       = "data/metrics.jsonl"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultSweepSchedule     = "@every 5m"
)

// ApplyDefaults fills in default values for any unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.RequestsPerMinute <= 0 {
		cfg.Server.RequestsPerMinute = DefaultRequestsPerMinute
	}

	for i := range cfg.Providers {
		if cfg.Providers[i].Timeout <= 0 {
			cfg.Providers[i].Timeout = DefaultProviderTimeout
		}
		if cfg.Providers[i].MaxRetries <= 0 {
			cfg.Providers[i].MaxRetries = DefaultMaxRetries
		}
	}

	if cfg.Optimizer.Policy == "" {
		cfg.Optimizer.Policy = DefaultPolicy
	}
	if cfg.Optimizer.SemanticThreshold <= 0 {
		cfg.Optimizer.SemanticThreshold = DefaultSemanticThreshold
	}
	if cfg.Optimizer.Embeddings.Timeout <= 0 {
		cfg.Optimizer.Embeddings.Timeout = DefaultEmbeddingsTimeout
	}

	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.Capacity <= 0 {
		cfg.Cache.Capacity = DefaultCacheCapacity
	}

	if cfg.Metrics.Backend == "" {
		cfg.Metrics.Backend = DefaultMetricsBackend
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}

	if cfg.Maintenance.SweepSchedule == "" {
		cfg.Maintenance.SweepSchedule = DefaultSweepSchedule
	}
}
