package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/promptpress/promptpress/pkg/cache"
	"github.com/promptpress/promptpress/pkg/config"
	"github.com/promptpress/promptpress/pkg/metrics"
	"github.com/promptpress/promptpress/pkg/optimizer"
	"github.com/promptpress/promptpress/pkg/providers"
	"github.com/promptpress/promptpress/pkg/rules"
	"github.com/promptpress/promptpress/pkg/semantic"
)

// setupLogging installs the process-wide logger per the telemetry config.
func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// buildPipeline wires the full dependency graph from configuration. The
// returned pipeline owns the cache and journal; closing it releases both.
func buildPipeline(cfg *config.Config) (*optimizer.Pipeline, *metrics.Collector, *metrics.Prometheus, error) {
	gateways := make([]optimizer.GatewayCaller, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		gw, err := providers.NewGateway(providers.GatewayConfig{
			Name:       p.Name,
			Type:       p.Type,
			BaseURL:    p.BaseURL,
			APIKey:     p.APIKey,
			Model:      p.Model,
			Timeout:    p.Timeout,
			MaxRetries: p.MaxRetries,
			MockMode:   cfg.Optimizer.MockMode,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create gateway %q: %w", p.Name, err)
		}
		gateways = append(gateways, gw)
	}

	var embeddings *semantic.EmbeddingsClient
	if cfg.Optimizer.Embeddings.Enabled {
		embeddings = semantic.NewEmbeddingsClient(
			cfg.Optimizer.Embeddings.Endpoint,
			cfg.Optimizer.Embeddings.Timeout,
		)
	}
	validator := semantic.NewValidator(cfg.Optimizer.SemanticThreshold, embeddings)

	var store cache.Cache
	if cfg.Cache.Redis.Enabled {
		store = cache.NewRedisCache(cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			TTL:      cfg.Cache.TTL,
			Fallback: cache.NewMemoryCache(cfg.Cache.Capacity, cfg.Cache.TTL),
		})
	} else {
		store = cache.NewMemoryCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	}

	var journal metrics.Journal
	var err error
	if cfg.Metrics.Backend == "sqlite" {
		journal, err = metrics.NewSQLiteJournal(cfg.Metrics.Path)
	} else {
		journal, err = metrics.NewFileJournal(cfg.Metrics.Path)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open metrics journal: %w", err)
	}
	collector := metrics.NewCollector(journal)

	var prom *metrics.Prometheus
	if cfg.Metrics.Prometheus {
		prom = metrics.NewPrometheus()
	}

	pipeline, err := optimizer.NewPipeline(optimizer.Options{
		Rules:      rules.NewEngine(),
		Validator:  validator,
		Gateways:   gateways,
		Cache:      store,
		Collector:  collector,
		Prometheus: prom,
		Policy:     cfg.Optimizer.Policy,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return pipeline, collector, prom, nil
}
