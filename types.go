package adminguard

import "context"

// Principal is the authenticated subject returned by the identity provider
// after credential verification.
type Principal struct {
	ID       string
	Identity string // email
	Name     string
}

// IdentityProvider is the external credential authority the Engine delegates
// to. Implementations may perform network round-trips; every call takes a
// context so callers can impose their own timeout. The Engine does not add
// one of its own.
type IdentityProvider interface {
	// VerifyCredentials checks identity/secret and returns the authenticated
	// principal, or an error on mismatch or unknown identity.
	VerifyCredentials(ctx context.Context, identity, secret string) (*Principal, error)

	// SignOut revokes the provider-side session for principal.
	SignOut(ctx context.Context, principal *Principal) error

	// Subscribe registers fn for session-change notifications (nil principal
	// means signed out) and returns an unsubscribe function. After
	// unsubscribe returns, fn is not invoked again.
	Subscribe(fn func(*Principal)) (unsubscribe func())
}

// AuthStateFunc receives provider session changes. isAdmin is recomputed
// against the allow-list on every change.
type AuthStateFunc func(principal *Principal, isAdmin bool)

// SignInResult is the successful outcome of Engine.SignInAsAdmin.
type SignInResult struct {
	Principal *Principal
	SessionID string
	// SessionToken is a signed token binding Principal's identity to
	// SessionID. Empty unless token issuing is configured.
	SessionToken string
}
