package core

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// NewShareToken generates an opaque URL-safe token for public share links.
// 32 bytes of entropy, base64url without padding.
func NewShareToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
