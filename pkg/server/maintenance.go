package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/promptpress/promptpress/pkg/cache"
	"github.com/promptpress/promptpress/pkg/metrics"
)

// Maintenance runs the periodic background jobs: sweeping expired cache
// entries and refreshing the cache gauge.
type Maintenance struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewMaintenance schedules the jobs with the given cron spec (for example
// "@every 5m"). A nil cache or prom disables the corresponding job.
func NewMaintenance(schedule string, store cache.Cache, prom *metrics.Prometheus) (*Maintenance, error) {
	m := &Maintenance{
		cron:   cron.New(),
		logger: slog.Default().With("component", "maintenance"),
	}

	if store != nil {
		_, err := m.cron.AddFunc(schedule, func() {
			removed := store.Sweep(context.Background())
			stats := store.Stats()
			if prom != nil {
				prom.CacheEntries.Set(float64(stats.Entries))
			}
			m.logger.Debug("cache sweep completed",
				"removed", removed,
				"entries", stats.Entries,
			)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to schedule cache sweep: %w", err)
		}
	}

	return m, nil
}

// Start begins running scheduled jobs in the background.
func (m *Maintenance) Start() {
	m.cron.Start()
	m.logger.Info("maintenance scheduler started")
}

// Stop halts the scheduler and waits for running jobs to finish.
func (m *Maintenance) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("maintenance scheduler stopped")
}
