// Package auth provides the one-way password hash and verify capability.
//
// Callers never see or store plaintext secrets; they hold only the
// opaque digest this package produces.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/evanshandler/jukebox/internal/shared"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", shared.ErrWeakCredentials, MinPasswordLength)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(digest), nil
}

// VerifyPassword reports whether password matches the stored digest.
//
// A mismatch is an ordinary false, not an error; errors are reserved for
// malformed digests.
func VerifyPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
