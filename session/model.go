package session

import "time"

// Session is one admin interaction tracked by the Registry.
//
// Session values handed out by the Registry are copies; mutating them does
// not affect the registry's record.
type Session struct {
	ID         string    `json:"session_id"`
	Identity   string    `json:"identity"`
	StartedAt  time.Time `json:"started_at"`
	LastActive time.Time `json:"last_active"`
	Active     bool      `json:"active"`
}

// IdleFor returns how long the session has gone without activity as of now.
func (s Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActive)
}
