// Package ratelimit throttles abuse-prone endpoints with a sliding
// window per client.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one throttle check.
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter says how long until a slot frees up. Zero when the
	// request was allowed.
	RetryAfter time.Duration
}

// Store counts requests per key over a sliding window. A denied
// request is not recorded, so a client hammering a full window does
// not push its own reset further out.
type Store interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (*Decision, error)
}
