package lockout

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newMemoryHarness() (*MemoryTracker, *fakeClock) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tracker := NewMemoryTracker(Config{MaxAttempts: 5, Window: 15 * time.Minute}, clock.Now)
	return tracker, clock
}

func TestMemoryTracker_ThresholdBoundary(t *testing.T) {
	tracker, _ := newMemoryHarness()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := tracker.RecordFailure(ctx, "a@x.com"); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
	}

	locked, err := tracker.IsLockedOut(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IsLockedOut: %v", err)
	}
	if locked {
		t.Fatal("locked out after 4 failures, want threshold of 5")
	}

	if err := tracker.RecordFailure(ctx, "a@x.com"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	locked, err = tracker.IsLockedOut(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IsLockedOut: %v", err)
	}
	if !locked {
		t.Fatal("not locked out after 5 failures")
	}
}

func TestMemoryTracker_UnknownIdentityNotLocked(t *testing.T) {
	tracker, _ := newMemoryHarness()

	locked, err := tracker.IsLockedOut(context.Background(), "nobody@x.com")
	if err != nil {
		t.Fatalf("IsLockedOut: %v", err)
	}
	if locked {
		t.Fatal("unknown identity reported locked out")
	}
}

func TestMemoryTracker_WindowExpiryUnlocks(t *testing.T) {
	tracker, clock := newMemoryHarness()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		tracker.RecordFailure(ctx, "a@x.com")
	}
	clock.Advance(15*time.Minute + time.Second)

	locked, err := tracker.IsLockedOut(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IsLockedOut: %v", err)
	}
	if locked {
		t.Fatal("still locked out after window elapsed")
	}

	// The stale record was deleted lazily.
	if tracker.Len() != 0 {
		t.Fatalf("expected 0 records after lazy expiry, got %d", tracker.Len())
	}
}

func TestMemoryTracker_FailureAfterWindowStartsFresh(t *testing.T) {
	tracker, clock := newMemoryHarness()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		tracker.RecordFailure(ctx, "a@x.com")
	}
	clock.Advance(15*time.Minute + time.Second)

	if err := tracker.RecordFailure(ctx, "a@x.com"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}

	count, err := tracker.FailureCount(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FailureCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected fresh count of 1 after window, got %d", count)
	}
}

func TestMemoryTracker_ClearAlwaysUnlocks(t *testing.T) {
	tracker, _ := newMemoryHarness()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		tracker.RecordFailure(ctx, "a@x.com")
	}
	if err := tracker.Clear(ctx, "a@x.com"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	locked, err := tracker.IsLockedOut(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IsLockedOut: %v", err)
	}
	if locked {
		t.Fatal("locked out after Clear")
	}

	// Clearing an untracked identity is a no-op.
	if err := tracker.Clear(ctx, "a@x.com"); err != nil {
		t.Fatalf("idempotent Clear: %v", err)
	}
}

func TestMemoryTracker_SweepBoundary(t *testing.T) {
	tracker, clock := newMemoryHarness()
	ctx := context.Background()

	tracker.RecordFailure(ctx, "a@x.com")

	clock.Advance(15*time.Minute - time.Second)
	removed, err := tracker.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 0 {
		t.Fatalf("sweep inside window removed %d records", removed)
	}

	clock.Advance(2 * time.Second)
	removed, err = tracker.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("sweep past window removed %d records, want 1", removed)
	}
	if tracker.Len() != 0 {
		t.Fatalf("expected empty tracker after sweep, got %d records", tracker.Len())
	}
}

func TestMemoryTracker_IdentitiesAreIndependent(t *testing.T) {
	tracker, _ := newMemoryHarness()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		tracker.RecordFailure(ctx, "a@x.com")
	}

	locked, _ := tracker.IsLockedOut(ctx, "b@x.com")
	if locked {
		t.Fatal("failures for one identity locked out another")
	}
}
