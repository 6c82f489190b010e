package adminguard

import (
	"testing"
	"time"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Lockout.MaxAttempts != 5 {
		t.Fatalf("MaxAttempts = %d, want 5", cfg.Lockout.MaxAttempts)
	}
	if cfg.Lockout.Window != 15*time.Minute {
		t.Fatalf("Window = %v, want 15m", cfg.Lockout.Window)
	}
	if cfg.Session.IdleTimeout != 2*time.Hour {
		t.Fatalf("IdleTimeout = %v, want 2h", cfg.Session.IdleTimeout)
	}
	if cfg.Maintenance.Interval != 5*time.Minute {
		t.Fatalf("Interval = %v, want 5m", cfg.Maintenance.Interval)
	}
	if !cfg.Audit.Enabled || !cfg.Audit.DropIfFull {
		t.Fatal("audit defaults changed")
	}
	if !cfg.Identity.Normalize {
		t.Fatal("identity normalization should default on")
	}
	if cfg.Token.Enabled {
		t.Fatal("token issuing should default off")
	}

	if err := cfg.validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.Lockout.MaxAttempts = 0 },
		func(c *Config) { c.Lockout.Window = 0 },
		func(c *Config) { c.Session.IdleTimeout = -time.Minute },
		func(c *Config) { c.Maintenance.Interval = 0 },
		func(c *Config) { c.Token.Enabled = true; c.Token.TTL = 0 },
	}
	for i, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.validate(); err == nil {
			t.Errorf("case %d: invalid config accepted", i)
		}
	}
}

func TestCloneConfig_CopiesKeyMaterial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.PrivateKey = []byte("secret-key-material")

	clone := cloneConfig(cfg)
	clone.Token.PrivateKey[0] = 'X'

	if cfg.Token.PrivateKey[0] == 'X' {
		t.Fatal("clone shares key slice with original")
	}
}
