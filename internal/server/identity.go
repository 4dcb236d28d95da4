package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/evanshandler/jukebox/internal/repositories"
	"github.com/evanshandler/jukebox/internal/session"
	"github.com/evanshandler/jukebox/internal/shared"
)

// Identity is the account resolved for a single request.
//
// It travels on the request context, so concurrent requests by different
// users never observe each other's identity.
type Identity struct {
	Username string
	Premium  bool
}

type contextKey int

const identityKey contextKey = iota

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity attached to ctx, reporting whether one is present.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// publicPaths are reachable without a live session. Logout is public so it
// can invalidate the exact token the browser presented, without the gate
// rotating it first.
var publicPaths = map[string]bool{
	"/login":    true,
	"/signup":   true,
	"/register": true,
	"/logout":   true,
}

// Gate is the session-validating middleware in front of every page.
//
// For each gated request it authenticates the sessionId cookie against
// the registry, rotates the token with a fresh lifetime, re-issues the
// cookie with an expiry matching the new registry entry, and attaches the
// resolved [Identity] to the request context. Requests without a live
// session are sent to the login page.
type Gate struct {
	sessions *session.Manager
	users    *repositories.UserRepository
	cfg      shared.SessionConfig
	logger   *log.Logger
}

// NewGate creates a Gate backed by the given registry and account store.
func NewGate(sessions *session.Manager, users *repositories.UserRepository, cfg shared.SessionConfig, logger *log.Logger) *Gate {
	return &Gate{sessions: sessions, users: users, cfg: cfg, logger: logger}
}

// Middleware returns the gate as a [Middleware].
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := cookieValue(r, sessionCookie)
		if !ok {
			g.reject(w, r)
			return
		}

		// Refresh re-checks liveness itself; this separate lookup is kept
		// so a dead token and a token lost to a concurrent refresh are
		// logged as different events below.
		if _, live := g.sessions.Authenticate(token); !live {
			// Unknown or expired token; any registry entry was already
			// lazily evicted by the lookup.
			clearAccountCookies(w)
			g.reject(w, r)
			return
		}

		auth, err := g.sessions.Refresh(token, g.cfg.TTL())
		if err != nil {
			if errors.Is(err, shared.ErrUnauthenticated) {
				// A concurrent request rotated or invalidated this token
				// between our lookup and the refresh. The other request
				// holds the only live token now.
				g.logger.Warn("session refresh lost race", "err", shared.ErrRegistryRace)
				clearAccountCookies(w)
				g.reject(w, r)
				return
			}

			g.logger.Error("session refresh failed", "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		user, exists, err := g.users.FindByUsername(auth.Session.Owner())
		if err != nil {
			g.logger.Error("failed to resolve session owner", "owner", auth.Session.Owner(), "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if !exists {
			// Account deleted while the session was live.
			g.sessions.Invalidate(auth.Token)
			clearAccountCookies(w)
			g.reject(w, r)
			return
		}

		setSessionToken(w, auth.Token, auth.Session.ExpiresAt(), g.cfg.SecureCookies)

		identity := Identity{Username: user.Username(), Premium: user.Premium()}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// reject sends an unauthenticated request to the login page.
func (g *Gate) reject(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
