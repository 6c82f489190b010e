package adminguard

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by the env seeding helpers.
const (
	// EnvAdmins is a comma-separated list of allow-listed identities.
	EnvAdmins = "ADMINGUARD_ADMINS"
	// EnvTokenKey is the HS256 session-token secret. Token issuing stays
	// disabled when it is unset.
	EnvTokenKey = "ADMINGUARD_TOKEN_KEY"
)

// LoadDotEnv loads .env files into the process environment, ignoring files
// that do not exist. It is a convenience for main packages; libraries
// should receive configuration explicitly.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// AdminsFromEnv parses EnvAdmins into a seed list, skipping empty entries.
func AdminsFromEnv() []string {
	raw := os.Getenv(EnvAdmins)
	if raw == "" {
		return nil
	}

	var admins []string
	for _, entry := range strings.Split(raw, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			admins = append(admins, entry)
		}
	}
	return admins
}

// TokenConfigFromEnv enables HS256 session tokens on cfg when EnvTokenKey
// is set, leaving cfg untouched otherwise.
func TokenConfigFromEnv(cfg Config) Config {
	key := os.Getenv(EnvTokenKey)
	if key == "" {
		return cfg
	}
	cfg.Token.Enabled = true
	cfg.Token.PrivateKey = []byte(key)
	return cfg
}
