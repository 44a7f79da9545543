package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/waslahq/wasla/internal/clock"
)

// MemoryStore is the in-process Store used when no Redis address is
// configured. Suitable for a single instance deployment.
type MemoryStore struct {
	mu    sync.Mutex
	hits  map[string][]time.Time
	clock clock.Clock
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		hits:  make(map[string][]time.Time),
		clock: clk,
	}
}

func (s *MemoryStore) Hit(ctx context.Context, key string, limit int, window time.Duration) (*Decision, error) {
	now := s.clock.Now()
	cutoff := now.Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	recorded := s.hits[key]
	kept := recorded[:0]
	for _, ts := range recorded {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		retry := kept[0].Add(window).Sub(now)
		if retry < 0 {
			retry = 0
		}
		s.hits[key] = kept
		return &Decision{Allowed: false, RetryAfter: retry}, nil
	}

	kept = append(kept, now)
	s.hits[key] = kept
	return &Decision{Allowed: true, Remaining: limit - len(kept)}, nil
}

// Prune drops keys whose entries all fell out of the given window.
// Called periodically so idle clients do not accumulate.
func (s *MemoryStore) Prune(window time.Duration) {
	cutoff := s.clock.Now().Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, recorded := range s.hits {
		live := false
		for _, ts := range recorded {
			if ts.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(s.hits, key)
		}
	}
}
