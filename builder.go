package adminguard

import (
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/volunteerhub/adminguard/internal/allowlist"
	"github.com/volunteerhub/adminguard/internal/lockout"
	"github.com/volunteerhub/adminguard/session"
	"github.com/volunteerhub/adminguard/token"
)

// Builder assembles an Engine. Obtain one with New, chain the With options
// and finish with Build.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	provider   IdentityProvider
	auditSink  AuditSink
	seedAdmins []string
	now        func() time.Time

	built bool
}

// New returns a Builder preloaded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithProvider sets the identity provider. Required.
func (b *Builder) WithProvider(p IdentityProvider) *Builder {
	b.provider = p
	return b
}

// WithRedis backs the attempt tracker with Redis instead of process memory,
// making lockouts survive restarts and shard across replicas.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the security-event sink. Defaults to NoOpSink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithSeedAdmins sets the initial allow-list contents.
func (b *Builder) WithSeedAdmins(identities ...string) *Builder {
	b.seedAdmins = append(b.seedAdmins, identities...)
	return b
}

// WithClock injects the time source used for every expiry comparison and
// event timestamp. Tests use this for determinism.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration, wires the registries and returns the
// Engine. A Builder builds at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.provider == nil {
		return nil, errors.New("identity provider is required")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	trackerCfg := lockout.Config{
		MaxAttempts: cfg.Lockout.MaxAttempts,
		Window:      cfg.Lockout.Window,
	}
	var tracker lockout.Tracker
	if b.redis != nil {
		tracker = lockout.NewRedisTracker(b.redis, trackerCfg, cfg.Lockout.RedisPrefix)
	} else {
		tracker = lockout.NewMemoryTracker(trackerCfg, now)
	}

	seeds := make([]string, 0, len(b.seedAdmins))
	for _, identity := range b.seedAdmins {
		seeds = append(seeds, normalizeIdentity(cfg, identity))
	}
	admins, err := allowlist.New(seeds...)
	if err != nil {
		return nil, fmt.Errorf("%w: allow-list seed", ErrInvalidIdentity)
	}

	var tokens *token.Manager
	if cfg.Token.Enabled {
		tokens, err = token.NewManager(token.Config{
			TTL:           cfg.Token.TTL,
			SigningMethod: cfg.Token.SigningMethod,
			PrivateKey:    cfg.Token.PrivateKey,
			PublicKey:     cfg.Token.PublicKey,
			Issuer:        cfg.Token.Issuer,
			Leeway:        cfg.Token.Leeway,
			Now:           now,
		})
		if err != nil {
			return nil, err
		}
	}

	e := &Engine{
		config:   cfg,
		provider: b.provider,
		attempts: tracker,
		sessions: session.NewRegistry(cfg.Session.IdleTimeout, now),
		admins:   admins,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(),
		tokens:   tokens,
		now:      now,
	}
	e.unsubscribe = b.provider.Subscribe(e.handleProviderChange)

	b.built = true
	return e, nil
}

func normalizeIdentity(cfg Config, identity string) string {
	return normalizeWith(cfg.Identity.Normalize, identity)
}
