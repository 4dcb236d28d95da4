package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evanshandler/jukebox/internal/shared"
)

// Auth is the result of validating a live token.
type Auth struct {
	Token   string
	Session Session
}

// Manager is the sole owner of the session registry.
//
// All registry operations are short critical sections under one mutex;
// nothing blocks while the lock is held.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]Session

	// current is the legacy "most recent login anywhere in the process"
	// slot. It is written for compatibility with the original single-user
	// assumption but is NOT per-request identity: concurrent logins by
	// different users overwrite each other. Request handlers resolve
	// identity from the request context instead.
	current string

	ticker *time.Ticker
	done   chan struct{}
	closed sync.Once
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]Session),
		done:     make(chan struct{}),
	}
}

// Create generates an unguessable token, registers a new session for
// owner expiring ttl from now, and returns the token.
//
// The returned token is guaranteed absent from the registry before
// insertion; on the negligible uuid collision a fresh one is drawn.
func (m *Manager) Create(owner string, ttl time.Duration) (string, error) {
	session, err := New(owner, ttl)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	token := m.newToken()
	m.sessions[token] = session
	return token, nil
}

// Authenticate looks up token in the registry.
//
// An absent token is anonymous. A present but expired token is evicted
// and treated as anonymous (lazy eviction). A live token yields an
// [Auth] carrying the session.
func (m *Manager) Authenticate(token string) (Auth, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.authenticateLocked(token)
}

// Refresh rotates a live token: the old entry is removed and a new
// token with a fresh ttl is installed for the same owner, atomically.
//
// Fails with [shared.ErrUnauthenticated] when the token is absent or
// expired, including when a concurrent refresh or logout won the race
// for the same token.
func (m *Manager) Refresh(token string, ttl time.Duration) (Auth, error) {
	if ttl <= 0 {
		return Auth{}, fmt.Errorf("%w: session ttl must be positive", shared.ErrInvalidArgument)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	auth, ok := m.authenticateLocked(token)
	if !ok {
		return Auth{}, fmt.Errorf("%w: token is not live", shared.ErrUnauthenticated)
	}

	session, err := New(auth.Session.Owner(), ttl)
	if err != nil {
		return Auth{}, err
	}

	delete(m.sessions, token)
	newToken := m.newToken()
	m.sessions[newToken] = session

	return Auth{Token: newToken, Session: session}, nil
}

// Invalidate removes the token's entry if present. Invalidating an
// unknown or already-invalidated token is not an error.
func (m *Manager) Invalidate(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
}

// SetCurrentIdentity records the most recent successful login.
//
// Deprecated: this is a process-wide slot kept for compatibility with
// the original single-user design. It is unsafe as per-request identity;
// use the identity carried on the request context instead.
func (m *Manager) SetCurrentIdentity(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = owner
}

// CurrentIdentity returns the most recent successful login.
//
// Deprecated: see [Manager.SetCurrentIdentity].
func (m *Manager) CurrentIdentity() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current
}

// Len returns the number of registry entries, live or not yet evicted.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

// Sweep evicts every expired entry and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	evicted := 0
	for token, session := range m.sessions {
		if session.expiredAt(now) {
			delete(m.sessions, token)
			evicted++
		}
	}

	return evicted
}

// StartSweep runs [Manager.Sweep] every interval until Close is called.
//
// The sweep only bounds registry growth; expired-but-unswept tokens
// already fail Authenticate, so nothing depends on it running.
func (m *Manager) StartSweep(interval time.Duration) {
	if interval <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ticker != nil {
		return
	}

	m.ticker = time.NewTicker(interval)
	go m.sweepLoop()
}

// Close stops the background sweep, if any.
func (m *Manager) Close() error {
	m.closed.Do(func() {
		m.mu.Lock()
		if m.ticker != nil {
			m.ticker.Stop()
		}
		m.mu.Unlock()
		close(m.done)
	})
	return nil
}

func (m *Manager) sweepLoop() {
	for {
		select {
		case <-m.ticker.C:
			m.Sweep()
		case <-m.done:
			return
		}
	}
}

// authenticateLocked is [Manager.Authenticate] with the lock already held.
func (m *Manager) authenticateLocked(token string) (Auth, bool) {
	session, ok := m.sessions[token]
	if !ok {
		return Auth{}, false
	}

	if session.Expired() {
		delete(m.sessions, token)
		return Auth{}, false
	}

	return Auth{Token: token, Session: session}, true
}

// newToken draws uuid tokens until one is absent from the registry.
// Caller must hold the lock.
func (m *Manager) newToken() string {
	for {
		token := uuid.NewString()
		if _, taken := m.sessions[token]; !taken {
			return token
		}
	}
}
