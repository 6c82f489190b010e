package adminguard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/volunteerhub/adminguard/password"
)

type fakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// fastHashing keeps argon2 at its cost floor so tests stay quick.
func fastHashing() password.Config {
	return password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16}
}

func newTestProvider(t *testing.T) *StaticProvider {
	t.Helper()

	provider, err := NewStaticProviderWithHashing(fastHashing())
	if err != nil {
		t.Fatalf("NewStaticProviderWithHashing: %v", err)
	}
	if err := provider.Register("admin@x.com", "correct-password-123", "Site Admin"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := provider.Register("a@x.com", "correct-password-123", "Regular Volunteer"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return provider
}

// countingProvider wraps an IdentityProvider and counts credential checks,
// so tests can assert the lockout gate short-circuits the provider.
type countingProvider struct {
	IdentityProvider
	mu      sync.Mutex
	verifys int
}

func (p *countingProvider) VerifyCredentials(ctx context.Context, identity, secret string) (*Principal, error) {
	p.mu.Lock()
	p.verifys++
	p.mu.Unlock()
	return p.IdentityProvider.VerifyCredentials(ctx, identity, secret)
}

func (p *countingProvider) verifyCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.verifys
}

type testHarness struct {
	engine   *Engine
	provider *countingProvider
	clock    *fakeClock
	sink     *ChannelSink
}

func newTestEngine(t *testing.T, mutate ...func(*Config)) *testHarness {
	t.Helper()

	clock := newFakeClock()
	provider := &countingProvider{IdentityProvider: newTestProvider(t)}
	sink := NewChannelSink(64)

	cfg := DefaultConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}

	engine, err := New().
		WithConfig(cfg).
		WithProvider(provider).
		WithSeedAdmins("admin@x.com").
		WithAuditSink(sink).
		WithClock(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testHarness{engine: engine, provider: provider, clock: clock, sink: sink}
}

// waitForEvent reads events off the sink until one with the given name
// arrives. The dispatcher is asynchronous, so a timeout guards the read.
func waitForEvent(t *testing.T, sink *ChannelSink, name string) SecurityEvent {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-sink.Events():
			if event.Name == name {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", name)
		}
	}
}
