package auth

// API tokens identify the acting user to the catalog API. Only the
// SHA-256 digest of a token is stored; the plaintext is shown once at
// creation time.

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Token format: rc_<secret>
// Example: rc_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const tokenSecretLen = 32 // hex encoded 16 bytes

// ErrInvalidTokenFormat indicates the token format is invalid.
var ErrInvalidTokenFormat = errors.New("invalid API token format")

var tokenFormatRegex = regexp.MustCompile(`^rc_[a-f0-9]{32}$`)

// GeneratedToken contains the parts of a newly generated API token.
type GeneratedToken struct {
	Plaintext string // Full token (show once only)
	Hash      string // SHA-256 digest for storage and lookup
}

// GenerateToken creates a new API token.
func GenerateToken() (*GeneratedToken, error) {
	secretBytes := make([]byte, tokenSecretLen/2)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	plaintext := "rc_" + hex.EncodeToString(secretBytes)

	return &GeneratedToken{
		Plaintext: plaintext,
		Hash:      HashToken(plaintext),
	}, nil
}

// ValidateTokenFormat rejects tokens that cannot possibly be valid
// before any hashing or lookup happens.
func ValidateTokenFormat(token string) error {
	if !tokenFormatRegex.MatchString(token) {
		return ErrInvalidTokenFormat
	}
	return nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token.
// This is NOT for password storage, only for token lookup.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
