package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func fileCollector(t *testing.T) (*Collector, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metrics.jsonl")
	journal, err := NewFileJournal(path)
	if err != nil {
		t.Fatalf("NewFileJournal() error: %v", err)
	}
	t.Cleanup(func() { journal.Close() })
	return NewCollector(journal), path
}

func TestAggregateEmpty(t *testing.T) {
	c, _ := fileCollector(t)

	summary, err := c.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	if summary.TotalRequests != 0 || summary.TotalErrors != 0 {
		t.Errorf("empty journal should aggregate to zero: %+v", summary)
	}
	if summary.ErrorRate != 0 {
		t.Errorf("ErrorRate = %v, want 0", summary.ErrorRate)
	}
	if summary.LastUpdated.IsZero() {
		t.Errorf("LastUpdated not set")
	}
}

func TestAggregateRequestsAndErrors(t *testing.T) {
	ctx := context.Background()
	c, _ := fileCollector(t)

	first := NewRequestRecord()
	first.TimeMs = 100
	first.LLMCalls = 2
	first.TokensSavedPct = 10.5
	c.LogRequest(ctx, first)

	second := NewRequestRecord()
	second.TimeMs = 200
	second.LLMCalls = 1
	second.TokensSavedPct = 4.5
	c.LogRequest(ctx, second)

	c.LogError(ctx, "validation", "Prompt cannot be empty.")

	summary, err := c.Aggregate(ctx)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	if summary.TotalRequests != 2 {
		t.Errorf("TotalRequests = %d, want 2", summary.TotalRequests)
	}
	if summary.TotalErrors != 1 {
		t.Errorf("TotalErrors = %d, want 1", summary.TotalErrors)
	}
	if summary.LLMCalls != 3 {
		t.Errorf("LLMCalls = %d, want 3", summary.LLMCalls)
	}
	if summary.AvgTimeMs != 150 {
		t.Errorf("AvgTimeMs = %d, want 150", summary.AvgTimeMs)
	}
	if summary.TokensSaved != 15 {
		t.Errorf("TokensSaved = %v, want 15", summary.TokensSaved)
	}
	// 1 error over 2 requests is a 50% error rate.
	if summary.ErrorRate != 50 {
		t.Errorf("ErrorRate = %v, want 50", summary.ErrorRate)
	}
}

func TestAggregateErrorRate(t *testing.T) {
	ctx := context.Background()

	t.Run("equal errors and requests", func(t *testing.T) {
		c, _ := fileCollector(t)
		c.LogRequest(ctx, NewRequestRecord())
		c.LogError(ctx, "validation", "Prompt cannot be empty.")

		summary, err := c.Aggregate(ctx)
		if err != nil {
			t.Fatalf("Aggregate() error: %v", err)
		}
		if summary.ErrorRate != 100 {
			t.Errorf("ErrorRate = %v, want 100 (errors/requests*100)", summary.ErrorRate)
		}
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		c, _ := fileCollector(t)
		for i := 0; i < 3; i++ {
			c.LogRequest(ctx, NewRequestRecord())
		}
		c.LogError(ctx, "provider", "all adapters failed")

		summary, err := c.Aggregate(ctx)
		if err != nil {
			t.Fatalf("Aggregate() error: %v", err)
		}
		if summary.ErrorRate != 33.33 {
			t.Errorf("ErrorRate = %v, want 33.33", summary.ErrorRate)
		}
	})
}

func TestAggregateSkipsCorruptLines(t *testing.T) {
	ctx := context.Background()
	c, path := fileCollector(t)

	rec := NewRequestRecord()
	rec.TimeMs = 50
	c.LogRequest(ctx, rec)

	// A crash mid-append leaves a partial line behind.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	if _, err := f.WriteString("{\"id\": \"trunc\n"); err != nil {
		t.Fatalf("write corrupt line: %v", err)
	}
	f.Close()

	later := NewRequestRecord()
	later.TimeMs = 150
	c.LogRequest(ctx, later)

	summary, err := c.Aggregate(ctx)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	if summary.TotalRequests != 2 {
		t.Errorf("TotalRequests = %d, want 2 (corrupt line skipped)", summary.TotalRequests)
	}
	if summary.AvgTimeMs != 100 {
		t.Errorf("AvgTimeMs = %d, want 100", summary.AvgTimeMs)
	}
}

func TestSQLiteJournalRoundTrip(t *testing.T) {
	ctx := context.Background()
	journal, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("NewSQLiteJournal() error: %v", err)
	}
	defer journal.Close()

	rec := NewRequestRecord()
	rec.TimeMs = 42
	rec.LLMCalls = 2
	rec.ChosenSource = "groq"
	rec.SemanticScore = 0.91
	if err := journal.Append(ctx, rec); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	journal.Append(ctx, NewErrorRecord("provider", "all adapters failed"))

	records, err := journal.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ReadAll() returned %d records, want 2", len(records))
	}
	if records[0].ID != rec.ID || records[0].ChosenSource != "groq" {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].Kind != KindError || records[1].ErrorType != "provider" {
		t.Errorf("second record = %+v", records[1])
	}
}
