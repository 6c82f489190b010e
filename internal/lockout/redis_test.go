package lockout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisHarness(t *testing.T) (*RedisTracker, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tracker := NewRedisTracker(rdb, Config{MaxAttempts: 5, Window: 15 * time.Minute}, "")
	return tracker, mr
}

func TestRedisTracker_Threshold(t *testing.T) {
	tracker, _ := newRedisHarness(t)
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
		t.Fatal("locked out after 4 failures")
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

func TestRedisTracker_WindowExpiry(t *testing.T) {
	tracker, mr := newRedisHarness(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := tracker.RecordFailure(ctx, "a@x.com"); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
	}

	mr.FastForward(15*time.Minute + time.Second)

	locked, err := tracker.IsLockedOut(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IsLockedOut: %v", err)
	}
	if locked {
		t.Fatal("still locked out after TTL elapsed")
	}

	count, err := tracker.FailureCount(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FailureCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected expired counter, got %d", count)
	}
}

func TestRedisTracker_WindowRollsOnEachFailure(t *testing.T) {
	tracker, mr := newRedisHarness(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := tracker.RecordFailure(ctx, "a@x.com"); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
		mr.FastForward(10 * time.Minute)
	}

	// Each failure refreshed the TTL, so the counter survived 50 minutes of
	// spaced failures and the fifth one still trips the lockout.
	locked, err := tracker.IsLockedOut(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IsLockedOut: %v", err)
	}
	if !locked {
		t.Fatal("rolling window did not accumulate spaced failures")
	}
}

func TestRedisTracker_Clear(t *testing.T) {
	tracker, _ := newRedisHarness(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
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
}

func TestRedisTracker_BackendDownSurfacesUnavailable(t *testing.T) {
	tracker, mr := newRedisHarness(t)
	mr.Close()

	err := tracker.RecordFailure(context.Background(), "a@x.com")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable with backend down, got %v", err)
	}
}
