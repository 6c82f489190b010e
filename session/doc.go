// Package session tracks active admin sessions with idle-timeout expiry.
//
// Sessions are deactivated on sign-out but kept in the registry for audit
// until the maintenance sweep reclaims them. Validity is always derived
// from the active flag plus idle time, never from physical presence alone.
package session
