package lockout

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrUnavailable indicates the lockout backend is unreachable. Only the
// Redis backend can return it; the memory backend never fails.
var ErrUnavailable = errors.New("lockout backend unavailable")

// Config holds the lockout policy shared by all backends.
type Config struct {
	MaxAttempts int
	Window      time.Duration
}

// Tracker is the failed-attempt counter consulted on every sign-in.
//
// All methods are total over the tracked set: absent identities read as
// zero failures and not locked out.
type Tracker interface {
	// IsLockedOut reports whether identity has accrued MaxAttempts or more
	// failures with the most recent one inside Window.
	IsLockedOut(ctx context.Context, identity string) (bool, error)

	// RecordFailure increments the failure count for identity and refreshes
	// its window. A failure recorded after the window elapsed starts a
	// fresh count of one.
	RecordFailure(ctx context.Context, identity string) error

	// Clear removes the record for identity. Clearing an untracked
	// identity is a no-op.
	Clear(ctx context.Context, identity string) error

	// FailureCount returns the current in-window failure count.
	FailureCount(ctx context.Context, identity string) (int, error)

	// Sweep removes records whose window has elapsed and returns how many
	// were removed. Backends with native expiry may return zero.
	Sweep(ctx context.Context) (int, error)
}

type attemptRecord struct {
	count       int
	lastFailure time.Time
}

// MemoryTracker is the in-process Tracker backend. Records expire lazily on
// read and eagerly on Sweep, against an injectable clock.
type MemoryTracker struct {
	mu      sync.Mutex
	records map[string]*attemptRecord
	config  Config
	now     func() time.Time
}

// NewMemoryTracker returns a MemoryTracker enforcing cfg. A nil now defaults
// to time.Now.
func NewMemoryTracker(cfg Config, now func() time.Time) *MemoryTracker {
	if now == nil {
		now = time.Now
	}
	return &MemoryTracker{
		records: make(map[string]*attemptRecord),
		config:  cfg,
		now:     now,
	}
}

func (t *MemoryTracker) stale(rec *attemptRecord, now time.Time) bool {
	return now.Sub(rec.lastFailure) > t.config.Window
}

// IsLockedOut implements Tracker. A stale record is deleted on read and
// treated as absent.
func (t *MemoryTracker) IsLockedOut(_ context.Context, identity string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[identity]
	if !ok {
		return false, nil
	}
	if t.stale(rec, t.now()) {
		delete(t.records, identity)
		return false, nil
	}
	return rec.count >= t.config.MaxAttempts, nil
}

// RecordFailure implements Tracker.
func (t *MemoryTracker) RecordFailure(_ context.Context, identity string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	rec, ok := t.records[identity]
	if !ok || t.stale(rec, now) {
		t.records[identity] = &attemptRecord{count: 1, lastFailure: now}
		return nil
	}
	rec.count++
	rec.lastFailure = now
	return nil
}

// Clear implements Tracker.
func (t *MemoryTracker) Clear(_ context.Context, identity string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, identity)
	return nil
}

// FailureCount implements Tracker.
func (t *MemoryTracker) FailureCount(_ context.Context, identity string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[identity]
	if !ok || t.stale(rec, t.now()) {
		return 0, nil
	}
	return rec.count, nil
}

// Sweep implements Tracker. It uses the same staleness rule as the read
// path, so it can never reclaim a record an in-flight check still counts.
func (t *MemoryTracker) Sweep(_ context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0
	for identity, rec := range t.records {
		if t.stale(rec, now) {
			delete(t.records, identity)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked identities, expired or not.
func (t *MemoryTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}
