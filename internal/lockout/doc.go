// Package lockout tracks failed authentication attempts per identity and
// answers whether an identity is currently locked out. Two backends are
// provided: an in-memory tracker with lazy expiry (the default) and a Redis
// tracker that uses a rolling TTL window.
package lockout
