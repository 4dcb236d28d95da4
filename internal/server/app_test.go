package server

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/evanshandler/jukebox/internal/session"
	"github.com/evanshandler/jukebox/internal/shared"
)

// testClient drives the wired application the way a browser would,
// carrying cookies between requests so the rotating session token and the
// play counters behave as they do in real use.
type testClient struct {
	t       *testing.T
	app     http.Handler
	cookies map[string]*http.Cookie
}

func setupApp(t *testing.T) (*testClient, *session.Manager) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	sessions := session.NewManager()
	t.Cleanup(func() { sessions.Close() })

	app, err := NewApp(shared.DefaultConfig(), db, sessions, shared.NewLogger(io.Discard))
	if err != nil {
		t.Fatalf("failed to wire application: %v", err)
	}

	return &testClient{t: t, app: app, cookies: map[string]*http.Cookie{}}, sessions
}

// get performs a GET request with the client's cookie jar.
func (c *testClient) get(target string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, target, nil)
}

// post submits a form with the client's cookie jar.
func (c *testClient) post(target string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, target, form)
}

func (c *testClient) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.app.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 || (cookie.Value == "" && !cookie.Expires.IsZero()) {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}

	return rec
}

// register signs up an account and follows the flow to a live session.
func (c *testClient) register(username, password string, premium bool) {
	c.t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	if premium {
		form.Set("isPremium", "on")
	}

	rec := c.post("/register", form)
	if rec.Code != http.StatusSeeOther {
		c.t.Fatalf("register returned %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if _, ok := c.cookies[sessionCookie]; !ok {
		c.t.Fatal("register did not issue a session cookie")
	}
}

// addSong creates a catalog song through the songs page.
func (c *testClient) addSong(name, artist string) {
	c.t.Helper()

	rec := c.post("/songs", url.Values{"name": {name}, "artist": {artist}})
	if rec.Code != http.StatusSeeOther {
		c.t.Fatalf("adding song %q returned %d, want %d", name, rec.Code, http.StatusSeeOther)
	}
}

func TestAccountFlow(t *testing.T) {
	t.Run("register issues session and profile cookies", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", true)

		profile, ok := client.cookies[currentUserCookie]
		if !ok {
			t.Fatal("currentUser cookie missing after registration")
		}

		decoded, err := base64.RawURLEncoding.DecodeString(profile.Value)
		if err != nil {
			t.Fatalf("currentUser cookie is not base64: %v", err)
		}
		if !strings.Contains(string(decoded), `"username":"alice"`) {
			t.Errorf("currentUser profile missing username: %s", decoded)
		}
		if strings.Contains(string(decoded), "$2a$") || strings.Contains(string(decoded), "hash") {
			t.Errorf("currentUser profile leaks credential material: %s", decoded)
		}
	})

	t.Run("register rejects short passwords", func(t *testing.T) {
		client, _ := setupApp(t)

		rec := client.post("/register", url.Values{"username": {"bob"}, "password": {"short"}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected %d for weak password, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("register rejects duplicate usernames", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)

		rec := client.post("/register", url.Values{"username": {"alice"}, "password": {"different1"}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected %d for duplicate username, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("login rejects bad credentials", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)
		client.get("/logout")

		rec := client.post("/login", url.Values{"username": {"alice"}, "password": {"wrong password"}})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected %d for wrong password, got %d", http.StatusUnauthorized, rec.Code)
		}

		rec = client.post("/login", url.Values{"username": {"nobody"}, "password": {"opensesame"}})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected %d for unknown account, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("login opens a session", func(t *testing.T) {
		client, sessions := setupApp(t)
		client.register("alice", "opensesame", false)
		client.get("/logout")

		if sessions.Len() != 0 {
			t.Fatalf("registry should be empty after logout, has %d entries", sessions.Len())
		}

		rec := client.post("/login", url.Values{"username": {"alice"}, "password": {"opensesame"}})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("login returned %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if sessions.Len() != 1 {
			t.Errorf("registry should hold one session, has %d", sessions.Len())
		}
	})

	t.Run("logout invalidates the session and clears cookies", func(t *testing.T) {
		client, sessions := setupApp(t)
		client.register("alice", "opensesame", false)

		client.get("/logout")

		if sessions.Len() != 0 {
			t.Errorf("registry should be empty after logout, has %d entries", sessions.Len())
		}
		if _, ok := client.cookies[sessionCookie]; ok {
			t.Error("session cookie survived logout")
		}

		// Replaying the logout is harmless.
		rec := client.get("/logout")
		if rec.Code != http.StatusSeeOther {
			t.Errorf("repeated logout returned %d, want %d", rec.Code, http.StatusSeeOther)
		}
	})
}

func TestGate(t *testing.T) {
	t.Run("anonymous requests are sent to login", func(t *testing.T) {
		client, _ := setupApp(t)

		rec := client.get("/songs")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected redirect, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Errorf("expected redirect to /login, got %s", loc)
		}
	})

	t.Run("each request rotates the session token", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)

		before := client.cookies[sessionCookie].Value
		if rec := client.get("/songs"); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from gated page, got %d", rec.Code)
		}
		after := client.cookies[sessionCookie].Value

		if before == after {
			t.Error("session token was not rotated")
		}
		if client.cookies[sessionCookie].Expires.IsZero() {
			t.Error("rotated session cookie carries no expiry")
		}
	})

	t.Run("a rotated-out token no longer authenticates", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)

		stale := *client.cookies[sessionCookie]
		client.get("/songs")

		client.cookies[sessionCookie] = &stale
		rec := client.get("/songs")
		if rec.Code != http.StatusSeeOther {
			t.Errorf("stale token should redirect to login, got %d", rec.Code)
		}
	})

	t.Run("an invalidated session is rejected", func(t *testing.T) {
		client, sessions := setupApp(t)
		client.register("alice", "opensesame", false)

		sessions.Invalidate(client.cookies[sessionCookie].Value)

		rec := client.get("/home")
		if rec.Code != http.StatusSeeOther {
			t.Errorf("expected redirect after invalidation, got %d", rec.Code)
		}
	})

	t.Run("login page stays reachable without a session", func(t *testing.T) {
		client, _ := setupApp(t)

		if rec := client.get("/login"); rec.Code != http.StatusOK {
			t.Errorf("login page returned %d, want %d", rec.Code, http.StatusOK)
		}
		if rec := client.get("/signup"); rec.Code != http.StatusOK {
			t.Errorf("signup page returned %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

func TestSongPages(t *testing.T) {
	t.Run("create and list", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)
		client.addSong("Jumpman", "Drake")

		rec := client.get("/songs")
		if rec.Code != http.StatusOK {
			t.Fatalf("songs page returned %d", rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, "Jumpman") || !strings.Contains(body, "Drake") {
			t.Error("songs page does not show the created song")
		}
	})

	t.Run("create requires a name and an artist", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)

		rec := client.post("/songs", url.Values{"name": {"Nameless"}, "artist": {"   "}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected %d for blank artist, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("search narrows to an exact name match", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)
		client.addSong("Jumpman", "Drake")
		client.addSong("Location", "Khalid")

		rec := client.get("/songs?searchQuery=Location")
		body := rec.Body.String()
		if !strings.Contains(body, "Khalid") {
			t.Error("search result missing the matching song")
		}
		if strings.Contains(body, "Drake") {
			t.Error("search result includes a non-matching song")
		}
	})

	t.Run("edit renames a song", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)
		client.addSong("Jumpman", "Drake")

		id := songID(t, client, "Jumpman")
		rec := client.post("/songs/edit", url.Values{"id": {id}, "newName": {"Jumpman (Remix)"}, "newArtist": {"Drake"}})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("edit returned %d", rec.Code)
		}

		if body := client.get("/songs").Body.String(); !strings.Contains(body, "Jumpman (Remix)") {
			t.Error("songs page does not show the renamed song")
		}
	})

	t.Run("delete removes a song", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)
		client.addSong("Jumpman", "Drake")

		id := songID(t, client, "Jumpman")
		if rec := client.post("/songs/delete", url.Values{"id": {id}}); rec.Code != http.StatusSeeOther {
			t.Fatalf("delete returned %d", rec.Code)
		}

		if body := client.get("/songs").Body.String(); strings.Contains(body, "Jumpman") {
			t.Error("deleted song still listed")
		}

		rec := client.post("/songs/delete", url.Values{"id": {id}})
		if rec.Code != http.StatusNotFound {
			t.Errorf("deleting twice should 404, got %d", rec.Code)
		}
	})
}

func TestPlayCounting(t *testing.T) {
	t.Run("playing a song increments its counter cookie", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)
		client.addSong("Jumpman", "Drake")

		if rec := client.post("/play", url.Values{"name": {"Jumpman"}}); rec.Code != http.StatusSeeOther {
			t.Fatalf("play returned %d", rec.Code)
		}
		if got := client.cookies["Jumpman"].Value; got != "1" {
			t.Errorf("counter after first play = %s, want 1", got)
		}

		client.post("/play", url.Values{"name": {"Jumpman"}})
		if got := client.cookies["Jumpman"].Value; got != "2" {
			t.Errorf("counter after second play = %s, want 2", got)
		}
	})

	t.Run("unknown songs cannot be played", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)

		rec := client.post("/play", url.Values{"name": {"Ghostwriter"}})
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected %d for unknown song, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("names that cannot be cookies are rejected, not dropped", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)
		client.addSong("Hey Jude", "The Beatles")

		// A name with a space is a legal song but an illegal cookie name;
		// http.SetCookie would drop the counter without a trace.
		rec := client.post("/play", url.Values{"name": {"Hey Jude"}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected %d for an uncountable name, got %d", http.StatusBadRequest, rec.Code)
		}
		if _, ok := client.cookies["Hey Jude"]; ok {
			t.Error("rejected play must not set a counter cookie")
		}
	})

	t.Run("home ranks songs by play count", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", false)
		client.addSong("Jumpman", "Drake")
		client.addSong("Location", "Khalid")

		for range 3 {
			client.post("/play", url.Values{"name": {"Location"}})
		}
		client.post("/play", url.Values{"name": {"Jumpman"}})

		body := client.get("/home").Body.String()
		locationAt := strings.Index(body, "Location")
		jumpmanAt := strings.Index(body, "Jumpman")
		if locationAt < 0 || jumpmanAt < 0 {
			t.Fatal("home page missing played songs")
		}
		if locationAt > jumpmanAt {
			t.Error("most played song is not listed first")
		}
	})
}

func TestPlaylistPages(t *testing.T) {
	t.Run("creation requires premium", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("freeloader", "opensesame", false)

		rec := client.post("/playlists", url.Values{"name": {"Mine"}})
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected %d for non-premium account, got %d", http.StatusForbidden, rec.Code)
		}
	})

	t.Run("premium accounts create playlists", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", true)

		rec := client.post("/playlists", url.Values{"name": {"Road Trip"}, "description": {"for the drive"}})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("create returned %d", rec.Code)
		}

		if body := client.get("/playlists").Body.String(); !strings.Contains(body, "Road Trip") {
			t.Error("playlists page does not show the created playlist")
		}
	})

	t.Run("two-step add-a-song flow", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", true)
		client.addSong("Jumpman", "Drake")
		client.post("/playlists", url.Values{"name": {"Road Trip"}})

		id := songID(t, client, "Jumpman")
		if rec := client.post("/playlists/select-song", url.Values{"songId": {id}}); rec.Code != http.StatusSeeOther {
			t.Fatalf("select-song returned %d", rec.Code)
		}
		if client.cookies[songToAddCookie].Value != id {
			t.Fatal("songToAddId cookie not set after selection")
		}

		// The playlist list offers the pending song.
		if body := client.get("/playlists").Body.String(); !strings.Contains(body, "Jumpman") {
			t.Error("playlists page does not show the pending song")
		}

		playlistID := playlistID(t, client, "Road Trip")
		if rec := client.post("/playlists/add-song", url.Values{"playlistId": {playlistID}}); rec.Code != http.StatusSeeOther {
			t.Fatalf("add-song returned %d", rec.Code)
		}
		if _, ok := client.cookies[songToAddCookie]; ok {
			t.Error("songToAddId cookie survived the add")
		}

		if body := client.get("/playlists/view?id=" + playlistID).Body.String(); !strings.Contains(body, "Jumpman") {
			t.Error("playlist page does not show the added song")
		}
	})

	t.Run("adding the same song twice is rejected", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", true)
		client.addSong("Jumpman", "Drake")
		client.post("/playlists", url.Values{"name": {"Road Trip"}})

		id := songID(t, client, "Jumpman")
		pid := playlistID(t, client, "Road Trip")

		client.post("/playlists/select-song", url.Values{"songId": {id}})
		client.post("/playlists/add-song", url.Values{"playlistId": {pid}})

		client.post("/playlists/select-song", url.Values{"songId": {id}})
		rec := client.post("/playlists/add-song", url.Values{"playlistId": {pid}})
		if rec.Code != http.StatusConflict {
			t.Errorf("expected %d for duplicate add, got %d", http.StatusConflict, rec.Code)
		}
	})

	t.Run("remove-song is scoped to the open playlist", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", true)
		client.addSong("Jumpman", "Drake")
		client.post("/playlists", url.Values{"name": {"Road Trip"}})

		id := songID(t, client, "Jumpman")
		pid := playlistID(t, client, "Road Trip")
		client.post("/playlists/select-song", url.Values{"songId": {id}})
		client.post("/playlists/add-song", url.Values{"playlistId": {pid}})

		// Removing without an open playlist fails.
		delete(client.cookies, currentPlaylistCookie)
		rec := client.post("/playlists/remove-song", url.Values{"songId": {id}})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected %d without an open playlist, got %d", http.StatusBadRequest, rec.Code)
		}

		// Viewing the playlist records it as current; removal then works.
		client.get("/playlists/view?id=" + pid)
		if rec := client.post("/playlists/remove-song", url.Values{"songId": {id}}); rec.Code != http.StatusSeeOther {
			t.Fatalf("remove-song returned %d", rec.Code)
		}

		if body := client.get("/playlists/view?id=" + pid).Body.String(); strings.Contains(body, "Jumpman") {
			t.Error("removed song still listed in playlist")
		}
	})

	t.Run("edit and delete", func(t *testing.T) {
		client, _ := setupApp(t)
		client.register("alice", "opensesame", true)
		client.post("/playlists", url.Values{"name": {"Road Trip"}})

		pid := playlistID(t, client, "Road Trip")
		rec := client.post("/playlists/edit", url.Values{"id": {pid}, "newName": {"Long Drive"}, "newDescription": {""}})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("edit returned %d", rec.Code)
		}
		if body := client.get("/playlists").Body.String(); !strings.Contains(body, "Long Drive") {
			t.Error("playlists page does not show the renamed playlist")
		}

		if rec := client.post("/playlists/delete", url.Values{"id": {pid}}); rec.Code != http.StatusSeeOther {
			t.Fatalf("delete returned %d", rec.Code)
		}
		if body := client.get("/playlists").Body.String(); strings.Contains(body, "Long Drive") {
			t.Error("deleted playlist still listed")
		}
	})
}

// songID scrapes a song's id off the songs page via its delete form.
func songID(t *testing.T, client *testClient, name string) string {
	t.Helper()

	body := client.get("/songs").Body.String()
	row := strings.Index(body, name)
	if row < 0 {
		t.Fatalf("song %q not on songs page", name)
	}

	id := scrapeHiddenValue(body[row:], `name="id" value="`)
	if id == "" {
		t.Fatalf("could not scrape id for song %q", name)
	}
	return id
}

// playlistID scrapes a playlist's id off the playlists page via its view link.
func playlistID(t *testing.T, client *testClient, name string) string {
	t.Helper()

	body := client.get("/playlists").Body.String()
	marker := `href="/playlists/view?id=`
	at := strings.Index(body, marker)
	for at >= 0 {
		rest := body[at+len(marker):]
		end := strings.Index(rest, `"`)
		if end < 0 {
			break
		}
		id := rest[:end]
		if strings.Contains(rest[end:min(len(rest), end+200)], name) {
			return id
		}
		next := strings.Index(rest, marker)
		if next < 0 {
			break
		}
		at += len(marker) + next
	}

	t.Fatalf("playlist %q not on playlists page", name)
	return ""
}

func scrapeHiddenValue(body, marker string) string {
	at := strings.Index(body, marker)
	if at < 0 {
		return ""
	}
	rest := body[at+len(marker):]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return ""
	}
	return rest[:end]
}
