package config

import "fmt"

// Validate checks the configuration for invalid or inconsistent values.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}

	seen := make(map[string]bool, len(cfg.Providers))
	for i, p := range cfg.Providers {
		if p.Name == "" {
			return fmt.Errorf("providers[%d].name must not be empty", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("providers[%d]: duplicate provider name %q", i, p.Name)
		}
		seen[p.Name] = true

		switch p.Type {
		case "gemini", "openai", "ollama":
		default:
			return fmt.Errorf("provider %q: unknown type %q (must be gemini, openai, or ollama)", p.Name, p.Type)
		}
		if p.BaseURL == "" && !cfg.Optimizer.MockMode {
			return fmt.Errorf("provider %q: base_url must not be empty", p.Name)
		}
	}

	switch cfg.Optimizer.Policy {
	case "parallel", "sequential":
	default:
		return fmt.Errorf("optimizer.policy must be parallel or sequential, got %q", cfg.Optimizer.Policy)
	}
	if cfg.Optimizer.SemanticThreshold <= 0 || cfg.Optimizer.SemanticThreshold > 1 {
		return fmt.Errorf("optimizer.semantic_threshold must be in (0, 1], got %v", cfg.Optimizer.SemanticThreshold)
	}
	if cfg.Optimizer.Embeddings.Enabled && cfg.Optimizer.Embeddings.Endpoint == "" {
		return fmt.Errorf("optimizer.embeddings.endpoint must be set when embeddings are enabled")
	}

	if cfg.Cache.Redis.Enabled && cfg.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr must be set when redis is enabled")
	}

	switch cfg.Metrics.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("metrics.backend must be file or sqlite, got %q", cfg.Metrics.Backend)
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be debug, info, warn, or error, got %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be json or text, got %q", cfg.Telemetry.Logging.Format)
	}

	return nil
}
