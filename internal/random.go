// Package internal holds small helpers shared by the adminguard packages.
package internal

import (
	"crypto/rand"
	"encoding/base64"
)

const idSize = 16

// NewID returns a 16-byte random identifier encoded as unpadded base64url.
// It is used for principal ids in the bundled static provider.
func NewID() (string, error) {
	var raw [idSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}
