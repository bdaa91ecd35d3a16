// Package presence records when users were last seen so the members page can
// flag who is online.
package presence

import (
	"context"
	"sync"
	"time"
)

// Tracker records activity and answers "who was seen within the window"
type Tracker interface {
	// Touch records that userID was active at the given time
	Touch(ctx context.Context, userID int64, at time.Time) error
	// Online returns the users seen within the window ending at now
	Online(ctx context.Context, now time.Time) (map[int64]bool, error)
	// Name identifies the backend in health output
	Name() string
}

// MemoryTracker keeps last-seen times in process memory
type MemoryTracker struct {
	window time.Duration

	mu       sync.RWMutex
	lastSeen map[int64]time.Time
}

// NewMemoryTracker creates a tracker for a single process
func NewMemoryTracker(window time.Duration) *MemoryTracker {
	return &MemoryTracker{
		window:   window,
		lastSeen: make(map[int64]time.Time),
	}
}

// Touch implements Tracker
func (t *MemoryTracker) Touch(_ context.Context, userID int64, at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.lastSeen[userID]; !ok || at.After(prev) {
		t.lastSeen[userID] = at
	}
	return nil
}

// Online implements Tracker. Entries older than the window are pruned.
func (t *MemoryTracker) Online(_ context.Context, now time.Time) (map[int64]bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := now.Add(-t.window)
	online := make(map[int64]bool)
	for id, seen := range t.lastSeen {
		if seen.Before(cutoff) {
			delete(t.lastSeen, id)
			continue
		}
		online[id] = true
	}
	return online, nil
}

// Name implements Tracker
func (t *MemoryTracker) Name() string {
	return "memory"
}
