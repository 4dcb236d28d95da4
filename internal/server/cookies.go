package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

// Application cookie names. Every other cookie name in the jar belongs to
// the play-count tracker.
const (
	sessionCookie         = "sessionId"
	usernameCookie        = "username"
	currentUserCookie     = "currentUser"
	currentPlaylistCookie = "currentPlaylistId"
	songToAddCookie       = "songToAddId"
)

// cookieValue returns the named cookie's value, reporting whether it was present.
func cookieValue(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// setCookie sets a session-scoped cookie with no explicit expiry.
func setCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  value,
		Path:   "/",
		Secure: secure,
	})
}

// setSessionToken sets the sessionId cookie. Its Expires instant matches
// the registry entry's expiry exactly, so the browser forgets the token
// at the same moment the server stops honoring it.
func setSessionToken(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
	})
}

// clearCookie expires the named cookie immediately.
func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}

// clearAccountCookies removes every cookie tied to the logged-in account.
// Play counters stay; they belong to the browser, not the account.
func clearAccountCookies(w http.ResponseWriter) {
	clearCookie(w, sessionCookie)
	clearCookie(w, usernameCookie)
	clearCookie(w, currentUserCookie)
	clearCookie(w, currentPlaylistCookie)
	clearCookie(w, songToAddCookie)
}

// currentUserValue encodes the display profile stored in the currentUser
// cookie. Only the public fields go in; the credential hash never leaves
// the server.
func currentUserValue(username string, premium bool) string {
	profile := struct {
		Username string `json:"username"`
		Premium  bool   `json:"premium"`
	}{Username: username, Premium: premium}

	data, err := json.Marshal(profile)
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(data)
}
