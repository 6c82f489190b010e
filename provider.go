package adminguard

import (
	"context"
	"errors"
	"sync"

	"github.com/volunteerhub/adminguard/internal"
	"github.com/volunteerhub/adminguard/password"
)

// ErrCredentialMismatch is returned by StaticProvider for an unknown
// identity or a wrong secret. The two cases are deliberately
// indistinguishable.
var ErrCredentialMismatch = errors.New("credential mismatch")

type staticAccount struct {
	principalID string
	name        string
	secretHash  string
}

// StaticProvider is an in-process IdentityProvider with argon2id-hashed
// secrets. It backs tests, the examples, and small single-binary
// deployments that have no external identity service.
type StaticProvider struct {
	hasher *password.Hasher

	mu       sync.Mutex
	accounts map[string]staticAccount
	current  *Principal
	subs     map[uint64]func(*Principal)
	nextSub  uint64
}

// NewStaticProvider returns an empty provider with default hashing
// parameters.
func NewStaticProvider() (*StaticProvider, error) {
	return NewStaticProviderWithHashing(password.DefaultConfig())
}

// NewStaticProviderWithHashing returns an empty provider with the given
// argon2id parameters.
func NewStaticProviderWithHashing(cfg password.Config) (*StaticProvider, error) {
	hasher, err := password.NewHasher(cfg)
	if err != nil {
		return nil, err
	}
	return &StaticProvider{
		hasher:   hasher,
		accounts: make(map[string]staticAccount),
		subs:     make(map[uint64]func(*Principal)),
	}, nil
}

// Register adds an account. The secret is hashed immediately and never
// retained in plaintext. Re-registering an identity replaces its secret.
func (p *StaticProvider) Register(identity, secret, name string) error {
	if identity == "" {
		return ErrInvalidIdentity
	}
	hash, err := p.hasher.Hash(secret)
	if err != nil {
		return err
	}
	principalID, err := internal.NewID()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[identity] = staticAccount{
		principalID: principalID,
		name:        name,
		secretHash:  hash,
	}
	return nil
}

// VerifyCredentials implements IdentityProvider. On success the provider
// records the principal as its current session and notifies subscribers.
func (p *StaticProvider) VerifyCredentials(_ context.Context, identity, secret string) (*Principal, error) {
	p.mu.Lock()
	account, ok := p.accounts[identity]
	p.mu.Unlock()
	if !ok {
		return nil, ErrCredentialMismatch
	}

	match, err := p.hasher.Verify(secret, account.secretHash)
	if err != nil || !match {
		return nil, ErrCredentialMismatch
	}

	principal := &Principal{
		ID:       account.principalID,
		Identity: identity,
		Name:     account.name,
	}

	p.mu.Lock()
	p.current = principal
	p.mu.Unlock()
	p.notify(principal)
	return principal, nil
}

// SignOut implements IdentityProvider. It clears the current session and
// notifies subscribers with nil.
func (p *StaticProvider) SignOut(context.Context, *Principal) error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	p.notify(nil)
	return nil
}

// Subscribe implements IdentityProvider.
func (p *StaticProvider) Subscribe(fn func(*Principal)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Current returns the provider-side session principal, nil when signed out.
func (p *StaticProvider) Current() *Principal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *StaticProvider) notify(principal *Principal) {
	p.mu.Lock()
	fns := make([]func(*Principal), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(principal)
	}
}
