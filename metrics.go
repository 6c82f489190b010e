package adminguard

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint8

const (
	// MetricLoginSuccess counts successful admin sign-ins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts credential rejections.
	MetricLoginFailure
	// MetricLoginLockedOut counts sign-ins refused by the lockout gate.
	MetricLoginLockedOut
	// MetricLoginUnauthorized counts verified-but-unlisted sign-ins.
	MetricLoginUnauthorized
	// MetricSessionStarted counts registry sessions created.
	MetricSessionStarted
	// MetricSessionEnded counts explicit sign-outs.
	MetricSessionEnded
	// MetricAttemptsSwept counts attempt records reclaimed by the sweep.
	MetricAttemptsSwept
	// MetricSessionsSwept counts sessions reclaimed by the sweep.
	MetricSessionsSwept
	metricIDCount
)

var metricNames = [metricIDCount]string{
	MetricLoginSuccess:      "login_success",
	MetricLoginFailure:      "login_failure",
	MetricLoginLockedOut:    "login_locked_out",
	MetricLoginUnauthorized: "login_unauthorized",
	MetricSessionStarted:    "session_started",
	MetricSessionEnded:      "session_ended",
	MetricAttemptsSwept:     "attempts_swept",
	MetricSessionsSwept:     "sessions_swept",
}

// String returns the counter's stable name.
func (id MetricID) String() string {
	if id >= metricIDCount {
		return "unknown"
	}
	return metricNames[id]
}

const cacheLineSize = 64

type paddedCounter struct {
	value atomic.Uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed set of lock-free counters.
type Metrics struct {
	counters [metricIDCount]paddedCounter
}

// NewMetrics returns a zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Inc increments a counter by amount.
func (m *Metrics) Inc(id MetricID, amount uint64) {
	if m == nil || id >= metricIDCount {
		return
	}
	m.counters[id].value.Add(amount)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].value.Load()
	}
	return snap
}
