package oauth2

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
)

// StateBytes is the entropy of a CSRF state value.
const StateBytes = 16

var (
	ErrStateMissing  = errors.New("state not found")
	ErrStateMismatch = errors.New("state mismatch")
)

// GenerateRandomString returns n random bytes, URL-safe base64 encoded
// without padding.
func GenerateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateState returns a fresh CSRF state value.
func GenerateState() (string, error) {
	return GenerateRandomString(StateBytes)
}

// VerifyState checks the state echoed by the provider against the one stored
// when the login started.
func VerifyState(stored, supplied string) error {
	if stored == "" {
		return ErrStateMissing
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) != 1 {
		return ErrStateMismatch
	}
	return nil
}
