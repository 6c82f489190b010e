package adminguard

import (
	"context"
	"fmt"
)

// SignInAsAdmin runs the admin sign-in sequence for identity/secret:
// lockout gate, credential verification, allow-list authorization, session
// start. It fails with exactly one of ErrLockedOut, ErrInvalidCredentials
// or ErrNotAuthorized; every exit, success included, is written to the
// security-event sink first.
//
// A locked-out identity never reaches the provider, which keeps the
// credential-check surface closed during an active brute-force window. A
// principal who verifies but is not on the allow-list is signed back out at
// the provider so hitting the admin entry point leaves a regular user with
// no session artifact.
func (e *Engine) SignInAsAdmin(ctx context.Context, identity, secret string) (*SignInResult, error) {
	if e == nil || e.provider == nil {
		return nil, ErrEngineNotReady
	}

	id := e.normalize(identity)
	if id == "" {
		return nil, ErrInvalidIdentity
	}

	locked, err := e.attempts.IsLockedOut(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}
	if locked {
		e.metricInc(MetricLoginLockedOut)
		e.emit(ctx, EventLoginLockedOut, id, "", nil)
		return nil, ErrLockedOut
	}

	principal, verifyErr := e.provider.VerifyCredentials(ctx, id, secret)
	if verifyErr != nil {
		_ = e.attempts.RecordFailure(ctx, id)
		e.metricInc(MetricLoginFailure)
		e.emit(ctx, EventLoginFailed, id, "", map[string]string{"reason": verifyErr.Error()})
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, verifyErr)
	}

	if !e.admins.Contains(id) {
		details := map[string]string{}
		if signOutErr := e.provider.SignOut(ctx, principal); signOutErr != nil {
			details["provider_sign_out_error"] = signOutErr.Error()
		}
		_ = e.attempts.RecordFailure(ctx, id)
		e.metricInc(MetricLoginUnauthorized)
		e.emit(ctx, EventLoginUnauthorized, id, "", details)
		return nil, ErrNotAuthorized
	}

	// Best effort: a tracker hiccup here must not block a verified,
	// authorized admin.
	_ = e.attempts.Clear(ctx, id)

	sess := e.sessions.Start(id)
	e.metricInc(MetricSessionStarted)

	result := &SignInResult{Principal: principal, SessionID: sess.ID}
	if e.tokens != nil {
		tok, tokenErr := e.tokens.Issue(id, sess.ID)
		if tokenErr != nil {
			e.sessions.End(sess.ID)
			return nil, fmt.Errorf("%w: %v", ErrTokenIssueFailed, tokenErr)
		}
		result.SessionToken = tok
	}

	e.mu.Lock()
	e.principal = principal
	e.sessionID = sess.ID
	e.mu.Unlock()

	e.metricInc(MetricLoginSuccess)
	e.emit(ctx, EventLoginSuccess, id, sess.ID, nil)
	return result, nil
}
