// Package cache provides result caching keyed by prompt fingerprints.
//
// Values are opaque byte slices so the cache has no knowledge of the result
// shape. Two stores are provided: an in-process bounded FIFO store and a
// Redis-backed store that degrades to the in-process store when Redis is
// unreachable.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long an entry stays valid.
const DefaultTTL = time.Hour

// DefaultCapacity bounds the in-process store's entry count.
const DefaultCapacity = 1000

// Cache stores serialized optimization results keyed by fingerprint.
type Cache interface {
	// Get returns the value for key, or ok=false on miss or expiry.
	Get(ctx context.Context, key string) (value []byte, ok bool)

	// Set stores value under key, evicting the oldest entry when full.
	Set(ctx context.Context, key string, value []byte)

	// Delete removes key if present.
	Delete(ctx context.Context, key string)

	// Stats returns a point-in-time snapshot of cache effectiveness.
	Stats() Stats

	// Sweep removes expired entries and returns how many were dropped.
	Sweep(ctx context.Context) int

	// Close releases any backing resources.
	Close() error
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries  int     `json:"entries"`
	Capacity int     `json:"capacity"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRate  float64 `json:"hit_rate"`
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
