package adminguard

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

// Severity classifies a security event.
type Severity string

const (
	// SeverityInfo marks routine events (successful logins, sign-outs,
	// allow-list changes, sweeps).
	SeverityInfo Severity = "info"
	// SeverityHigh marks failure and lockout events.
	SeverityHigh Severity = "high"
)

// Security event names emitted by the Engine.
const (
	EventLoginSuccess      = "admin_login_success"
	EventLoginFailed       = "admin_login_failed"
	EventLoginLockedOut    = "admin_login_locked_out"
	EventLoginUnauthorized = "admin_login_unauthorized"
	EventLogout            = "admin_logout"
	EventAdminAdded        = "secure_admin_added"
	EventAttemptsCleared   = "admin_attempts_cleared"
	EventSweep             = "admin_security_sweep"
)

// severityFor derives severity from the event name: names denoting failure
// or lockout are HIGH, everything else INFO. "locked" is accepted as a
// lockout spelling so admin_login_locked_out classifies HIGH.
func severityFor(name string) Severity {
	if strings.Contains(name, "failed") || strings.Contains(name, "lockout") || strings.Contains(name, "locked") {
		return SeverityHigh
	}
	return SeverityInfo
}

// SecurityEvent is one append-only audit record. Events are write-once;
// sinks must not mutate them.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	Name      string            `json:"event"`
	Severity  Severity          `json:"severity"`
	Identity  string            `json:"identity,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// AuditSink receives security events. Emit must never panic or block
// indefinitely; a sink failure must not surface to the authentication flow.
type AuditSink interface {
	Emit(ctx context.Context, event SecurityEvent)
}

// NoOpSink discards all events.
type NoOpSink struct{}

// Emit implements AuditSink.
func (NoOpSink) Emit(context.Context, SecurityEvent) {}

// ChannelSink delivers events on a channel. Used mostly by tests.
type ChannelSink struct {
	events chan SecurityEvent
}

// NewChannelSink returns a ChannelSink with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan SecurityEvent, buffer)}
}

// Emit implements AuditSink.
func (s *ChannelSink) Emit(ctx context.Context, event SecurityEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the delivery channel.
func (s *ChannelSink) Events() <-chan SecurityEvent {
	return s.events
}

// JSONWriterSink writes events as line-delimited JSON.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink returns a JSONWriterSink writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

// Emit implements AuditSink. Marshal and write failures are swallowed.
func (s *JSONWriterSink) Emit(_ context.Context, event SecurityEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// SentrySink forwards events to Sentry, mapping SeverityHigh to error level
// and SeverityInfo to info level. The caller is responsible for sentry.Init
// and sentry.Flush.
type SentrySink struct {
	hub *sentry.Hub
}

// NewSentrySink returns a SentrySink. A nil hub uses sentry.CurrentHub.
func NewSentrySink(hub *sentry.Hub) *SentrySink {
	return &SentrySink{hub: hub}
}

// Emit implements AuditSink.
func (s *SentrySink) Emit(_ context.Context, event SecurityEvent) {
	hub := s.hub
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub == nil {
		return
	}

	level := sentry.LevelInfo
	if event.Severity == SeverityHigh {
		level = sentry.LevelError
	}

	extra := map[string]interface{}{
		"identity":   event.Identity,
		"session_id": event.SessionID,
		"ip":         event.IP,
	}
	for k, v := range event.Details {
		extra[k] = v
	}

	hub.CaptureEvent(&sentry.Event{
		Timestamp: event.Timestamp,
		Level:     level,
		Message:   event.Name,
		Extra:     extra,
	})
}
