package adminguard

import (
	"context"
	"strconv"
	"time"
)

// Sweep runs one maintenance pass: attempt records past the lockout window
// and sessions idle past the session timeout are deleted. Both reclaim
// rules reuse the read paths' expiry thresholds, so a sweep can never
// invalidate a decision an in-flight sign-in is about to make. Returns the
// number of attempt records and sessions removed.
func (e *Engine) Sweep(ctx context.Context) (attemptsRemoved, sessionsRemoved int) {
	if e == nil {
		return 0, 0
	}

	attemptsRemoved, err := e.attempts.Sweep(ctx)
	if err != nil {
		attemptsRemoved = 0
	}
	sessionsRemoved = e.sessions.Sweep()

	e.metrics.Inc(MetricAttemptsSwept, uint64(attemptsRemoved))
	e.metrics.Inc(MetricSessionsSwept, uint64(sessionsRemoved))

	if attemptsRemoved > 0 || sessionsRemoved > 0 {
		e.emit(ctx, EventSweep, "", "", map[string]string{
			"attempts_removed": strconv.Itoa(attemptsRemoved),
			"sessions_removed": strconv.Itoa(sessionsRemoved),
		})
	}
	return attemptsRemoved, sessionsRemoved
}

// Sweeper runs Engine.Sweep on a fixed interval.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
}

// NewSweeper returns a Sweeper using the engine's configured maintenance
// interval.
func NewSweeper(e *Engine) *Sweeper {
	return &Sweeper{engine: e, interval: e.config.Maintenance.Interval}
}

// Run sweeps until ctx is canceled. It is intended to run in its own
// goroutine next to the engine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.engine.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}
