package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

const tokenBytes = 32

// Session tokens are 32 random bytes base64url-encoded, which comes out to
// 43 characters. The shape bounds leave headroom so that tokens issued by
// older builds keep validating, while absurd values are rejected before any
// storage lookup.
const (
	TokenMinLength = 20
	TokenMaxLength = 128
)

// IssueToken generates an opaque session token from a cryptographically
// secure source together with its expiry. Callers persist the pair; this
// function has no side effects.
func IssueToken(lifetime time.Duration) (string, time.Time, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	return token, time.Now().Add(lifetime), nil
}

// TokenShapeValid is a cheap pre-lookup check on a presented token.
func TokenShapeValid(token string) bool {
	return len(token) >= TokenMinLength && len(token) <= TokenMaxLength
}
