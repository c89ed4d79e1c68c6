package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and then
// applies environment variable overrides. Variables follow the naming
// convention PROMPTPRESS_SECTION_FIELD (e.g. PROMPTPRESS_SERVER_LISTEN_ADDRESS)
// and always take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("PROMPTPRESS_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("PROMPTPRESS_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("PROMPTPRESS_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	for i := range cfg.Providers {
		applyProviderEnvOverrides(&cfg.Providers[i])
	}

	if val := os.Getenv("PROMPTPRESS_OPTIMIZER_POLICY"); val != "" {
		cfg.Optimizer.Policy = val
	}
	if val := os.Getenv("PROMPTPRESS_OPTIMIZER_SEMANTIC_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Optimizer.SemanticThreshold = f
		}
	}
	if val := os.Getenv("PROMPTPRESS_OPTIMIZER_MOCK_MODE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Optimizer.MockMode = b
		}
	}
	if val := os.Getenv("PROMPTPRESS_OPTIMIZER_EMBEDDINGS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Optimizer.Embeddings.Enabled = b
		}
	}
	if val := os.Getenv("PROMPTPRESS_OPTIMIZER_EMBEDDINGS_ENDPOINT"); val != "" {
		cfg.Optimizer.Embeddings.Endpoint = val
	}

	if val := os.Getenv("PROMPTPRESS_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if val := os.Getenv("PROMPTPRESS_CACHE_CAPACITY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Cache.Capacity = i
		}
	}
	if val := os.Getenv("PROMPTPRESS_CACHE_REDIS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cache.Redis.Enabled = b
		}
	}
	if val := os.Getenv("PROMPTPRESS_CACHE_REDIS_ADDR"); val != "" {
		cfg.Cache.Redis.Addr = val
	}
	if val := os.Getenv("PROMPTPRESS_CACHE_REDIS_PASSWORD"); val != "" {
		cfg.Cache.Redis.Password = val
	}

	if val := os.Getenv("PROMPTPRESS_METRICS_BACKEND"); val != "" {
		cfg.Metrics.Backend = val
	}
	if val := os.Getenv("PROMPTPRESS_METRICS_PATH"); val != "" {
		cfg.Metrics.Path = val
	}
	if val := os.Getenv("PROMPTPRESS_METRICS_PROMETHEUS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Prometheus = b
		}
	}

	if val := os.Getenv("PROMPTPRESS_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PROMPTPRESS_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}

	if val := os.Getenv("PROMPTPRESS_MAINTENANCE_SWEEP_SCHEDULE"); val != "" {
		cfg.Maintenance.SweepSchedule = val
	}
}

// applyProviderEnvOverrides applies overrides for one named provider using
// the format PROMPTPRESS_PROVIDERS_<NAME>_<FIELD>.
func applyProviderEnvOverrides(p *ProviderConfig) {
	prefix := fmt.Sprintf("PROMPTPRESS_PROVIDERS_%s_", strings.ToUpper(p.Name))

	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		p.BaseURL = val
	}
	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		p.APIKey = val
	}
	if val := os.Getenv(prefix + "MODEL"); val != "" {
		p.Model = val
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			p.Timeout = d
		}
	}
	if val := os.Getenv(prefix + "MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			p.MaxRetries = i
		}
	}
}
