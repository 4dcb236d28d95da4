package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/evanshandler/jukebox/internal/shared"
)

func TestManagerCreate(t *testing.T) {
	t.Run("returns a live token", func(t *testing.T) {
		m := NewManager()

		token, err := m.Create("alice", 2*time.Minute)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if token == "" {
			t.Fatal("expected a non-empty token")
		}

		auth, ok := m.Authenticate(token)
		if !ok {
			t.Fatal("expected fresh token to authenticate")
		}
		if auth.Session.Owner() != "alice" {
			t.Errorf("expected owner alice, got %s", auth.Session.Owner())
		}
		if auth.Token != token {
			t.Errorf("expected auth to echo the presented token")
		}
	})

	t.Run("tokens are unique", func(t *testing.T) {
		m := NewManager()
		seen := make(map[string]bool)

		for range 100 {
			token, err := m.Create("alice", time.Minute)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if seen[token] {
				t.Fatalf("duplicate token issued: %s", token)
			}
			seen[token] = true
		}

		if m.Len() != 100 {
			t.Errorf("expected 100 registry entries, got %d", m.Len())
		}
	})

	t.Run("propagates invalid arguments", func(t *testing.T) {
		m := NewManager()

		if _, err := m.Create("alice", 0); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for zero ttl, got %v", err)
		}
		if _, err := m.Create("", time.Minute); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for empty owner, got %v", err)
		}
	})
}

func TestManagerAuthenticate(t *testing.T) {
	t.Run("unknown token is anonymous", func(t *testing.T) {
		m := NewManager()

		if _, ok := m.Authenticate("never-issued"); ok {
			t.Error("expected unknown token to be anonymous")
		}
	})

	t.Run("expired token is evicted lazily", func(t *testing.T) {
		m := NewManager()

		token, err := m.Create("alice", 20*time.Millisecond)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if _, ok := m.Authenticate(token); !ok {
			t.Fatal("expected token to be live before expiry")
		}
		if m.Len() != 1 {
			t.Fatalf("expected 1 entry, got %d", m.Len())
		}

		time.Sleep(30 * time.Millisecond)

		if _, ok := m.Authenticate(token); ok {
			t.Error("expected expired token to be anonymous")
		}
		if m.Len() != 0 {
			t.Errorf("expected lazy eviction to shrink registry, got %d entries", m.Len())
		}
	})

	t.Run("expiry is inferred without a sweep", func(t *testing.T) {
		m := NewManager()

		token, err := m.Create("alice", 10*time.Millisecond)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		time.Sleep(20 * time.Millisecond)

		// Entry still present until touched.
		if m.Len() != 1 {
			t.Fatalf("expected unswept dead entry to remain, got %d", m.Len())
		}
		if _, ok := m.Authenticate(token); ok {
			t.Error("expected dead entry to fail authentication anyway")
		}
	})
}

func TestManagerRefresh(t *testing.T) {
	t.Run("rotates the token", func(t *testing.T) {
		m := NewManager()

		token, err := m.Create("alice", time.Minute)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		auth, err := m.Refresh(token, time.Minute)
		if err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}

		if auth.Token == token {
			t.Error("expected refresh to issue a different token")
		}
		if auth.Session.Owner() != "alice" {
			t.Errorf("expected owner preserved, got %s", auth.Session.Owner())
		}

		if _, ok := m.Authenticate(token); ok {
			t.Error("expected old token to be dead immediately")
		}
		if _, ok := m.Authenticate(auth.Token); !ok {
			t.Error("expected new token to be live")
		}
		if m.Len() != 1 {
			t.Errorf("expected exactly one entry after rotation, got %d", m.Len())
		}
	})

	t.Run("fails on unknown token", func(t *testing.T) {
		m := NewManager()

		if _, err := m.Refresh("never-issued", time.Minute); !errors.Is(err, shared.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("fails on expired token", func(t *testing.T) {
		m := NewManager()

		token, err := m.Create("alice", 10*time.Millisecond)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		time.Sleep(20 * time.Millisecond)

		if _, err := m.Refresh(token, time.Minute); !errors.Is(err, shared.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
		if m.Len() != 0 {
			t.Errorf("expected failed refresh to evict the dead entry, got %d", m.Len())
		}
	})

	t.Run("concurrent refreshes have one winner", func(t *testing.T) {
		m := NewManager()

		token, err := m.Create("alice", time.Minute)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		const contenders = 8
		var wg sync.WaitGroup
		results := make([]error, contenders)
		tokens := make([]string, contenders)

		for i := range contenders {
			wg.Add(1)
			go func() {
				defer wg.Done()
				auth, err := m.Refresh(token, time.Minute)
				results[i] = err
				tokens[i] = auth.Token
			}()
		}
		wg.Wait()

		winners := 0
		for i := range contenders {
			if results[i] == nil {
				winners++
				if _, ok := m.Authenticate(tokens[i]); !ok {
					t.Error("expected the winning token to be live")
				}
			} else if !errors.Is(results[i], shared.ErrUnauthenticated) {
				t.Errorf("loser should observe ErrUnauthenticated, got %v", results[i])
			}
		}

		if winners != 1 {
			t.Errorf("expected exactly one refresh winner, got %d", winners)
		}
		if m.Len() != 1 {
			t.Errorf("expected exactly one live session, got %d", m.Len())
		}
	})
}

func TestManagerInvalidate(t *testing.T) {
	m := NewManager()

	token, err := m.Create("alice", time.Minute)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	m.Invalidate(token)
	if _, ok := m.Authenticate(token); ok {
		t.Error("expected invalidated token to be anonymous")
	}

	// Idempotent: repeated and unknown invalidations are no-ops.
	m.Invalidate(token)
	m.Invalidate("never-issued")

	if m.Len() != 0 {
		t.Errorf("expected empty registry, got %d entries", m.Len())
	}
}

func TestManagerCurrentIdentity(t *testing.T) {
	m := NewManager()

	if m.CurrentIdentity() != "" {
		t.Error("expected empty identity slot initially")
	}

	m.SetCurrentIdentity("alice")
	m.SetCurrentIdentity("bob")

	// Last writer wins; this is exactly why the slot is not request identity.
	if m.CurrentIdentity() != "bob" {
		t.Errorf("expected bob, got %s", m.CurrentIdentity())
	}
}

func TestManagerSweep(t *testing.T) {
	t.Run("evicts only expired entries", func(t *testing.T) {
		m := NewManager()

		if _, err := m.Create("alice", 10*time.Millisecond); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		live, err := m.Create("bob", time.Hour)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		time.Sleep(20 * time.Millisecond)

		if evicted := m.Sweep(); evicted != 1 {
			t.Errorf("expected 1 eviction, got %d", evicted)
		}
		if _, ok := m.Authenticate(live); !ok {
			t.Error("expected live session to survive the sweep")
		}
	})

	t.Run("background sweep drains dead entries", func(t *testing.T) {
		m := NewManager()
		defer m.Close()

		if _, err := m.Create("alice", 5*time.Millisecond); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		m.StartSweep(10 * time.Millisecond)

		deadline := time.After(time.Second)
		for m.Len() != 0 {
			select {
			case <-deadline:
				t.Fatal("background sweep never evicted the dead entry")
			default:
				time.Sleep(5 * time.Millisecond)
			}
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		m := NewManager()
		m.StartSweep(time.Minute)

		if err := m.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := m.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}
	})
}

func TestSessionLifecycleScenario(t *testing.T) {
	// Create for alice with a short TTL standing in for 2 minutes:
	// live mid-lifetime, anonymous after expiry, registry shrinks by one.
	m := NewManager()

	token, err := m.Create("alice", 40*time.Millisecond)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	sizeAfterLogin := m.Len()

	time.Sleep(20 * time.Millisecond)
	if _, ok := m.Authenticate(token); !ok {
		t.Fatal("expected authentication to succeed mid-lifetime")
	}

	time.Sleep(40 * time.Millisecond)
	if _, ok := m.Authenticate(token); ok {
		t.Fatal("expected authentication to fail after expiry")
	}
	if m.Len() != sizeAfterLogin-1 {
		t.Errorf("expected registry to shrink by 1, had %d now %d", sizeAfterLogin, m.Len())
	}
}
