package adminguard

import (
	"errors"
	"time"

	"github.com/volunteerhub/adminguard/token"
)

// Config is the complete Engine configuration. Zero values are filled with
// defaults by DefaultConfig; a Config is cloned on ingestion and treated as
// immutable after Build.
type Config struct {
	Lockout     LockoutConfig
	Session     SessionConfig
	Token       TokenConfig
	Audit       AuditConfig
	Maintenance MaintenanceConfig
	Identity    IdentityConfig
}

// LockoutConfig controls the failed-attempt tracker.
type LockoutConfig struct {
	// MaxAttempts failures inside Window lock the identity out.
	MaxAttempts int
	// Window is both the lockout duration and the failure-counting window,
	// measured from the most recent failure.
	Window time.Duration
	// RedisPrefix namespaces tracker keys when a Redis client is supplied.
	RedisPrefix string
}

// SessionConfig controls the session registry.
type SessionConfig struct {
	// IdleTimeout invalidates a session with no activity for this long.
	IdleTimeout time.Duration
}

// TokenConfig controls optional signed session tokens. Tokens are issued
// only when Enabled is true.
type TokenConfig struct {
	Enabled       bool
	TTL           time.Duration
	SigningMethod token.SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// AuditConfig controls the security-event dispatcher.
type AuditConfig struct {
	Enabled bool
	// BufferSize is the dispatcher channel capacity.
	BufferSize int
	// DropIfFull drops events when the buffer is full instead of blocking
	// the authentication flow. Dropped events are counted.
	DropIfFull bool
}

// MaintenanceConfig controls the periodic sweep.
type MaintenanceConfig struct {
	Interval time.Duration
}

// IdentityConfig controls identity string handling.
type IdentityConfig struct {
	// Normalize lowercases and trims identities at every boundary. Disable
	// only if exact-case matching is a product requirement.
	Normalize bool
}

// DefaultConfig returns the production defaults: 5 attempts / 15 minute
// lockout, 2 hour session idle timeout, 5 minute sweep interval, audit
// enabled with a 256-event drop-if-full buffer, identity normalization on.
func DefaultConfig() Config {
	return Config{
		Lockout: LockoutConfig{
			MaxAttempts: 5,
			Window:      15 * time.Minute,
		},
		Session: SessionConfig{
			IdleTimeout: 2 * time.Hour,
		},
		Token: TokenConfig{
			Enabled:       false,
			TTL:           2 * time.Hour,
			SigningMethod: token.MethodHS256,
			Issuer:        "adminguard",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Maintenance: MaintenanceConfig{
			Interval: 5 * time.Minute,
		},
		Identity: IdentityConfig{
			Normalize: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = append([]byte(nil), cfg.Token.PrivateKey...)
	out.Token.PublicKey = append([]byte(nil), cfg.Token.PublicKey...)
	return out
}

func (c Config) validate() error {
	if c.Lockout.MaxAttempts <= 0 {
		return errors.New("lockout max attempts must be positive")
	}
	if c.Lockout.Window <= 0 {
		return errors.New("lockout window must be positive")
	}
	if c.Session.IdleTimeout <= 0 {
		return errors.New("session idle timeout must be positive")
	}
	if c.Maintenance.Interval <= 0 {
		return errors.New("maintenance interval must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("audit buffer size must not be negative")
	}
	if c.Token.Enabled && c.Token.TTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	return nil
}
