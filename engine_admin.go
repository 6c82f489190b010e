package adminguard

import (
	"context"
	"fmt"
)

// AddSecureAdmin grants admin capability to identity. It returns true when
// the identity was newly added, false when it was already listed, and
// ErrInvalidIdentity for malformed input.
func (e *Engine) AddSecureAdmin(ctx context.Context, identity string) (bool, error) {
	if e == nil || e.admins == nil {
		return false, ErrEngineNotReady
	}

	id := e.normalize(identity)
	added, err := e.admins.Add(id)
	if err != nil {
		return false, ErrInvalidIdentity
	}
	if added {
		e.emit(ctx, EventAdminAdded, id, "", nil)
	}
	return added, nil
}

// ListSecureAdmins returns the allow-list in insertion order.
func (e *Engine) ListSecureAdmins() []string {
	if e == nil || e.admins == nil {
		return nil
	}
	return e.admins.All()
}

// ClearFailedAttempts is an operator override that removes the failure
// record for identity, lifting any active lockout. It is not part of the
// public sign-in path.
func (e *Engine) ClearFailedAttempts(ctx context.Context, identity string) error {
	if e == nil || e.attempts == nil {
		return ErrEngineNotReady
	}

	id := e.normalize(identity)
	if err := e.attempts.Clear(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}
	e.emit(ctx, EventAttemptsCleared, id, "", nil)
	return nil
}

// FailedAttempts returns the current in-window failure count for identity,
// for operator dashboards.
func (e *Engine) FailedAttempts(ctx context.Context, identity string) (int, error) {
	if e == nil || e.attempts == nil {
		return 0, ErrEngineNotReady
	}

	count, err := e.attempts.FailureCount(ctx, e.normalize(identity))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}
	return count, nil
}
