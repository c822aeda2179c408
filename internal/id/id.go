// Package id generates the random identifiers NoteKeeper uses outside the database:
// token ids and password reset secrets.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ResetTokenLength is the length of password reset secrets.
const ResetTokenLength = 43

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "token-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Secret returns an unprefixed URL-safe random string of the given length.
// Password reset tokens use ResetTokenLength characters, which carries the
// same entropy as 32 random bytes encoded in base64url.
func Secret(length int) (string, error) {
	s, err := gonanoid.New(length)
	if err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return s, nil
}
