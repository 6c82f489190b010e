package adminguard

import "errors"

var (
	// ErrLockedOut is returned when an identity has exceeded the failed-attempt
	// threshold inside the lockout window. The provider is never consulted for
	// a locked-out identity.
	ErrLockedOut = errors.New("identity locked out")
	// ErrInvalidCredentials is returned when the identity provider rejects the
	// credentials. The provider's reason is carried in the wrap.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthorized is returned when credentials verify but the identity is
	// not on the admin allow-list.
	ErrNotAuthorized = errors.New("identity not authorized for admin")
	// ErrInvalidIdentity is returned for malformed (empty) identity input.
	ErrInvalidIdentity = errors.New("invalid identity")
	// ErrLockoutUnavailable is returned when the lockout backend cannot be
	// reached. Only possible with the Redis-backed tracker.
	ErrLockoutUnavailable = errors.New("lockout backend unavailable")
	// ErrTokenIssueFailed is returned when session-token signing fails after
	// an otherwise successful sign-in.
	ErrTokenIssueFailed = errors.New("session token issue failed")
	// ErrSessionInvalid is returned when a session token references a session
	// that no longer passes validity checks.
	ErrSessionInvalid = errors.New("session invalid")
	// ErrEngineNotReady is returned when an Engine method is called before
	// Build completed.
	ErrEngineNotReady = errors.New("engine not initialized")
)
