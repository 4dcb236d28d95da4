package models

import (
	"fmt"

	"github.com/evanshandler/jukebox/internal/shared"
)

// User represents a registered account.
//
// The password field holds a one-way hash; the plaintext secret is never
// stored or exposed by this type.
type User struct {
	record
	username     string
	passwordHash string
	premium      bool
}

// NewUser creates a new User with the given sequence, username, password hash and premium flag.
func NewUser(sequence int, username, passwordHash string, premium bool) *User {
	return &User{
		record:       newRecord(sequence),
		username:     username,
		passwordHash: passwordHash,
		premium:      premium,
	}
}

// Username returns the account's login name
func (u *User) Username() string { return u.username }

// PasswordHash returns the stored one-way credential hash
func (u *User) PasswordHash() string { return u.passwordHash }

// Premium reports whether the account has premium features enabled
func (u *User) Premium() bool { return u.premium }

// SetPremium toggles the premium flag
func (u *User) SetPremium(premium bool) { u.premium = premium }

// SetPasswordHash replaces the stored credential hash
func (u *User) SetPasswordHash(hash string) { u.passwordHash = hash }

// Validate checks the user's data, requiring an alphanumeric username and a non-empty hash.
func (u *User) Validate() error {
	if !shared.Alphanumeric(u.username) {
		return fmt.Errorf("%w: username must be alphanumeric", shared.ErrInvalidInput)
	}
	if u.passwordHash == "" {
		return fmt.Errorf("%w: password hash is required", shared.ErrInvalidInput)
	}
	return nil
}
