package session

import (
	"fmt"
	"time"

	"github.com/evanshandler/jukebox/internal/shared"
)

// Session is a time-boxed authorization grant for one identity.
//
// Values are immutable once created; refresh replaces the whole entry
// rather than extending an existing one.
type Session struct {
	owner     string
	expiresAt time.Time
}

// New creates a Session for owner expiring ttl from now.
func New(owner string, ttl time.Duration) (Session, error) {
	if owner == "" {
		return Session{}, fmt.Errorf("%w: session owner is required", shared.ErrInvalidArgument)
	}
	if ttl <= 0 {
		return Session{}, fmt.Errorf("%w: session ttl must be positive", shared.ErrInvalidArgument)
	}

	return Session{owner: owner, expiresAt: time.Now().Add(ttl)}, nil
}

// Owner returns the identity this session was granted to.
func (s Session) Owner() string { return s.owner }

// ExpiresAt returns the absolute instant the session stops validating.
func (s Session) ExpiresAt() time.Time { return s.expiresAt }

// Expired reports whether the session has expired; the expiry instant
// itself counts as expired.
func (s Session) Expired() bool {
	return s.expiredAt(time.Now())
}

func (s Session) expiredAt(now time.Time) bool {
	return !now.Before(s.expiresAt)
}
