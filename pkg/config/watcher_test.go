package config

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Watch(ctx) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)

	updated := strings.Replace(sampleYAML, "semantic_threshold: 0.8", "semantic_threshold: 0.9", 1)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Optimizer.SemanticThreshold != 0.9 {
			t.Errorf("reloaded SemanticThreshold = %v, want 0.9", cfg.Optimizer.SemanticThreshold)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("reload callback not invoked")
	}
}

func TestWatcherRejectsInvalidReload(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Watch(ctx) }()

	time.Sleep(100 * time.Millisecond)

	broken := strings.Replace(sampleYAML, "policy: parallel", "policy: fastest", 1)
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("invalid configuration reached the callback: %+v", cfg.Optimizer)
	case <-time.After(500 * time.Millisecond):
		// Rejected as expected.
	}
}
