package metrics

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// Summary is the aggregate view served by the metrics endpoint.
type Summary struct {
	TotalRequests int       `json:"total_requests"`
	TotalErrors   int       `json:"total_errors"`
	LLMCalls      int       `json:"llm_calls"`
	AvgTimeMs     int64     `json:"avg_time_ms"`
	TokensSaved   float64   `json:"tokens_saved"`
	ErrorRate     float64   `json:"error_rate"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Collector records outcomes into a journal and aggregates them on demand.
// Journal write failures are logged and absorbed: metrics must never fail a
// request.
type Collector struct {
	journal Journal
	started time.Time
	logger  *slog.Logger
}

// NewCollector creates a collector over the given journal.
func NewCollector(journal Journal) *Collector {
	return &Collector{
		journal: journal,
		started: time.Now(),
		logger:  slog.Default().With("component", "metrics"),
	}
}

// LogRequest journals a completed optimization.
func (c *Collector) LogRequest(ctx context.Context, rec Record) {
	rec.Kind = KindRequest
	if err := c.journal.Append(ctx, rec); err != nil {
		c.logger.Warn("failed to journal request record", "error", err)
	}
}

// LogError journals a failed optimization.
func (c *Collector) LogError(ctx context.Context, errorType, message string) {
	rec := NewErrorRecord(errorType, message)
	if err := c.journal.Append(ctx, rec); err != nil {
		c.logger.Warn("failed to journal error record", "error", err)
	}
}

// Aggregate reads the full journal and computes the summary. An empty
// journal yields a zeroed summary, not an error.
func (c *Collector) Aggregate(ctx context.Context) (Summary, error) {
	records, err := c.journal.ReadAll(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		UptimeSeconds: int64(time.Since(c.started).Seconds()),
		LastUpdated:   time.Now().UTC(),
	}

	var totalTimeMs int64
	for _, rec := range records {
		switch rec.Kind {
		case KindRequest:
			summary.TotalRequests++
			summary.LLMCalls += rec.LLMCalls
			summary.TokensSaved += rec.TokensSavedPct
			totalTimeMs += rec.TimeMs
		case KindError:
			summary.TotalErrors++
		}
	}

	if summary.TotalRequests > 0 {
		summary.AvgTimeMs = int64(math.Round(float64(totalTimeMs) / float64(summary.TotalRequests)))
		// Percentage of errors per completed request, two decimals.
		pct := float64(summary.TotalErrors) / float64(summary.TotalRequests) * 100
		summary.ErrorRate = math.Round(pct*100) / 100
	}

	return summary, nil
}

// Close flushes and closes the underlying journal.
func (c *Collector) Close() error {
	return c.journal.Close()
}
