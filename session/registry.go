package session

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry is the in-memory table of admin sessions. It is safe for
// concurrent use; all time comparisons go through the injected clock.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	now         func() time.Time
}

// NewRegistry returns a Registry with the given idle timeout. A nil now
// defaults to time.Now.
func NewRegistry(idleTimeout time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		now:         now,
	}
}

// Start registers a new active session for identity and returns it. The id
// combines the identity, a base-36 nanosecond timestamp and a random suffix,
// and is guaranteed unique among currently registered sessions.
func (r *Registry) Start(identity string) Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	id := newSessionID(identity, now)
	for _, taken := r.sessions[id]; taken; _, taken = r.sessions[id] {
		id = newSessionID(identity, now)
	}

	s := &Session{
		ID:         id,
		Identity:   identity,
		StartedAt:  now,
		LastActive: now,
		Active:     true,
	}
	r.sessions[id] = s
	return *s
}

// Touch refreshes the activity timestamp of an active session. Touching an
// absent or ended session is a no-op.
func (r *Registry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || !s.Active {
		return
	}
	s.LastActive = r.now()
}

// End deactivates a session. The record stays in the registry for audit
// until swept. Ending an absent session is a no-op.
func (r *Registry) End(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.Active = false
	}
}

// IsValid reports whether the session exists, is active, and has been
// active within the idle timeout.
func (r *Registry) IsValid(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || !s.Active {
		return false
	}
	return s.IdleFor(r.now()) < r.idleTimeout
}

// Get returns a copy of the session with the given id.
func (r *Registry) Get(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// ListActive returns copies of all sessions still marked active, oldest
// first. Idle expiry is not applied here; callers needing liveness must use
// IsValid.
func (r *Registry) ListActive() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.Active {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Sweep hard-deletes every session, active or ended, whose idle time
// exceeds the idle timeout, and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, s := range r.sessions {
		if s.IdleFor(now) > r.idleTimeout {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of registered sessions, ended ones included.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func newSessionID(identity string, now time.Time) string {
	return identity + "." + strconv.FormatInt(now.UnixNano(), 36) + "." + uuid.NewString()[:8]
}
