// Package ratelimit implements fixed-window request counters keyed by an
// arbitrary client identifier.
//
// A window opens on the first request for a key and closes a fixed duration
// later regardless of subsequent traffic. Within a window every call
// increments the counter; a call is rejected once the incremented count
// reaches the limit, so a limit of N admits N-1 requests per window.
package ratelimit

import (
	"context"
	"time"
)

const (
	// DefaultWindow is the length of a counting window.
	DefaultWindow = time.Minute

	// DefaultCapacity bounds the number of keys tracked in memory.
	DefaultCapacity = 500

	// DefaultLimit is the per-window limit for ordinary routes.
	DefaultLimit = 100
)

// Limiter counts requests per key.
type Limiter interface {
	// Check records one request for key and reports whether it is allowed
	// under limit. An error means the backend could not be consulted.
	Check(ctx context.Context, limit int, key string) (bool, error)
}
