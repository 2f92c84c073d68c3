// Package registry provides the processed-sessions dedup registry used by
// the abandonment endpoint, in process memory or in Redis.
package registry

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry maps session ids to the time they were first processed.
// Claim and Sweep share one lock, so a sweep never interleaves with a
// check-then-insert.
type MemoryRegistry struct {
	mu        sync.Mutex
	entries   map[string]time.Time
	retention time.Duration
}

// NewMemoryRegistry creates an empty registry. Entries older than
// retention are treated as absent by Claim.
func NewMemoryRegistry(retention time.Duration) *MemoryRegistry {
	return &MemoryRegistry{
		entries:   make(map[string]time.Time),
		retention: retention,
	}
}

func (r *MemoryRegistry) Claim(_ context.Context, sessionID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if processedAt, exists := r.entries[sessionID]; exists {
		if r.retention <= 0 || at.Sub(processedAt) < r.retention {
			return false, nil
		}
	}
	r.entries[sessionID] = at
	return true, nil
}

func (r *MemoryRegistry) Sweep(_ context.Context, olderThan time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for sessionID, processedAt := range r.entries {
		if processedAt.Before(olderThan) {
			delete(r.entries, sessionID)
			removed++
		}
	}
	return removed, nil
}

func (r *MemoryRegistry) Len(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries), nil
}
