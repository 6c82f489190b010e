package adminguard

import "context"

// SignOutAdmin revokes the provider session of the currently signed-in
// principal and ends the matching registry session, keeping both sides
// consistent. Signing out with no current principal is a no-op.
func (e *Engine) SignOutAdmin(ctx context.Context) error {
	if e == nil || e.provider == nil {
		return ErrEngineNotReady
	}

	e.mu.Lock()
	principal := e.principal
	sessionID := e.sessionID
	e.principal = nil
	e.sessionID = ""
	e.mu.Unlock()

	if principal == nil {
		return nil
	}

	err := e.provider.SignOut(ctx, principal)

	if sessionID != "" {
		e.sessions.End(sessionID)
		e.metricInc(MetricSessionEnded)
	}

	identity := e.normalize(principal.Identity)
	e.emit(ctx, EventLogout, identity, sessionID, nil)
	return err
}

// IsAuthenticatedAdmin is a synchronous snapshot check: true iff a principal
// is currently signed in and its identity is on the allow-list.
func (e *Engine) IsAuthenticatedAdmin() bool {
	if e == nil {
		return false
	}

	e.mu.Lock()
	principal := e.principal
	e.mu.Unlock()

	return principal != nil && e.admins.Contains(e.normalize(principal.Identity))
}

// OnAuthStateChange subscribes fn to provider session changes. On every
// change fn receives the new principal (nil when signed out) and whether
// that principal is on the allow-list, recomputed at call time. The
// returned function unsubscribes; after it returns, fn is not invoked
// again.
func (e *Engine) OnAuthStateChange(fn AuthStateFunc) func() {
	if e == nil || e.provider == nil || fn == nil {
		return func() {}
	}

	return e.provider.Subscribe(func(principal *Principal) {
		isAdmin := principal != nil && e.admins.Contains(e.normalize(principal.Identity))
		fn(principal, isAdmin)
	})
}
