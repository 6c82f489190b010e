// Package adminguard is the admin authentication and session-security core
// of the volunteer-event platform.
//
// The Engine gates admin sign-in behind four checks, in order: failed-attempt
// lockout, credential verification against an external identity provider,
// allow-list authorization, and session registration. Every outcome is
// written to a structured security-event sink before it is surfaced, so the
// audit trail does not depend on callers handling errors correctly.
//
// # Construction
//
//	engine, err := adminguard.New().
//		WithProvider(provider).
//		WithSeedAdmins("ops@example.org").
//		WithAuditSink(adminguard.NewJSONWriterSink(os.Stdout)).
//		Build()
//
// The Engine owns its registries (attempt tracker, session registry,
// allow-list); nothing is package-global, so multiple engines can coexist in
// one process and tests get full isolation.
//
// # Failure taxonomy
//
// Sign-in fails with exactly one of ErrLockedOut, ErrInvalidCredentials or
// ErrNotAuthorized. The three are distinct on purpose: the UI renders a
// lockout countdown, a bad-password retry and an access-denied page
// differently, and conflating them leaks authorization information.
package adminguard
