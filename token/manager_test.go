package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func hs256Manager(t *testing.T, clock *fakeClock) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		TTL:           2 * time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
		Issuer:        "adminguard-test",
		Now:           clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestIssueVerify_HS256RoundTrip(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := hs256Manager(t, clock)

	tok, err := m.Issue("admin@x.com", "sess-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Identity != "admin@x.com" || claims.SessionID != "sess-1" {
		t.Fatalf("claims = %q/%q, want admin@x.com/sess-1", claims.Identity, claims.SessionID)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := hs256Manager(t, clock)

	tok, err := m.Issue("admin@x.com", "sess-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock.current = clock.current.Add(2*time.Hour + time.Minute)
	if _, err := m.Verify(tok); err == nil {
		t.Fatal("expired token verified")
	}
}

func TestVerify_WrongKeyRejected(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := hs256Manager(t, clock)

	other, err := NewManager(Config{
		TTL:           2 * time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("ffffffffffffffffffffffffffffffff"),
		Issuer:        "adminguard-test",
		Now:           clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	tok, err := other.Issue("admin@x.com", "sess-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(tok); err == nil {
		t.Fatal("token signed with a different key verified")
	}
}

func TestIssueVerify_Ed25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	m, err := NewManager(Config{
		TTL:           time.Hour,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	tok, err := m.Issue("admin@x.com", "sess-2")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.SessionID != "sess-2" {
		t.Fatalf("SessionID = %q, want sess-2", claims.SessionID)
	}
}

func TestNewManager_RejectsBadConfig(t *testing.T) {
	if _, err := NewManager(Config{TTL: 0, SigningMethod: MethodHS256, PrivateKey: []byte("k")}); err == nil {
		t.Fatal("expected error for zero TTL")
	}
	if _, err := NewManager(Config{TTL: time.Hour, SigningMethod: MethodHS256}); err == nil {
		t.Fatal("expected error for missing hs256 key")
	}
	if _, err := NewManager(Config{TTL: time.Hour, SigningMethod: "rsa"}); err == nil {
		t.Fatal("expected error for unsupported method")
	}
}
