package adminguard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/volunteerhub/adminguard/internal/allowlist"
	"github.com/volunteerhub/adminguard/internal/lockout"
	"github.com/volunteerhub/adminguard/session"
	"github.com/volunteerhub/adminguard/token"
)

// Engine orchestrates admin sign-in across the attempt tracker, identity
// provider, allow-list and session registry, and writes every outcome to
// the security-event sink. Construct one with New().…().Build(); an Engine
// is immutable after build and safe for concurrent use.
type Engine struct {
	config   Config
	provider IdentityProvider
	attempts lockout.Tracker
	sessions *session.Registry
	admins   *allowlist.List
	audit    *auditDispatcher
	metrics  *Metrics
	tokens   *token.Manager
	now      func() time.Time

	unsubscribe func()

	mu        sync.Mutex
	principal *Principal
	sessionID string
}

// Close unsubscribes from the provider and drains the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns how many security events were discarded because the
// audit buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// TouchSession refreshes the activity timestamp of an active session.
func (e *Engine) TouchSession(sessionID string) {
	if e == nil || e.sessions == nil {
		return
	}
	e.sessions.Touch(sessionID)
}

// IsValidSession reports whether sessionID names an active session inside
// its idle window.
func (e *Engine) IsValidSession(sessionID string) bool {
	if e == nil || e.sessions == nil {
		return false
	}
	return e.sessions.IsValid(sessionID)
}

// ActiveSessions lists sessions still marked active, oldest first. Idle
// expiry is not applied; use IsValidSession for liveness.
func (e *Engine) ActiveSessions() []session.Session {
	if e == nil || e.sessions == nil {
		return nil
	}
	return e.sessions.ListActive()
}

// VerifySessionToken checks a signed session token and confirms the session
// it references is still valid in the registry. Returns ErrSessionInvalid
// when the registry no longer honors the session.
func (e *Engine) VerifySessionToken(tokenStr string) (*token.Claims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}
	claims, err := e.tokens.Verify(tokenStr)
	if err != nil {
		return nil, err
	}
	if !e.sessions.IsValid(claims.SessionID) {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}

func (e *Engine) handleProviderChange(p *Principal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.principal = p
	if p == nil {
		e.sessionID = ""
	}
}

func (e *Engine) normalize(identity string) string {
	return normalizeWith(e.config.Identity.Normalize, identity)
}

func normalizeWith(normalize bool, identity string) string {
	identity = strings.TrimSpace(identity)
	if normalize {
		identity = strings.ToLower(identity)
	}
	return identity
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id, 1)
}

// emit builds a security event and hands it to the dispatcher. Logging is
// fire-and-forget: no failure here ever reaches the caller's result.
func (e *Engine) emit(ctx context.Context, name, identity, sessionID string, details map[string]string) {
	if e == nil || e.audit == nil {
		return
	}
	e.audit.Emit(ctx, SecurityEvent{
		Timestamp: e.now(),
		Name:      name,
		Severity:  severityFor(name),
		Identity:  identity,
		SessionID: sessionID,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Details:   details,
	})
}
