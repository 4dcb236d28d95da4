// Package playcount maintains per-browser song play counters encoded as
// cookies, one cookie per song name.
//
// The browser is the datastore: counters ride the cookie jar on every
// request and nothing is persisted server-side, so no locking is needed;
// each request owns its own copy of the jar. Values are user-editable
// and therefore untrusted; unparsable counts read as 0 and parsed counts
// are clamped to a sane range.
package playcount

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/evanshandler/jukebox/internal/models"
)

// MaxCount bounds a parsed counter; anything above it is abuse, not listening.
const MaxCount = 1_000_000

// reserved names carry application state and are never song counters.
var reserved = map[string]bool{
	"sessionId":         true,
	"username":          true,
	"currentUser":       true,
	"currentPlaylistId": true,
	"songToAddId":       true,
}

// Reserved reports whether name is an application cookie rather than a
// song counter.
func Reserved(name string) bool {
	return reserved[name]
}

// Countable reports whether name can carry a counter: non-empty, not
// reserved, and a legal cookie name. [http.SetCookie] silently drops a
// cookie whose name is not a valid token, so a counter for such a name
// would never reach the browser.
func Countable(name string) bool {
	if name == "" || reserved[name] {
		return false
	}
	c := http.Cookie{Name: name, Value: "0"}
	return c.Valid() == nil
}

// Ranked is a song annotated with its play count from the cookie jar.
type Ranked struct {
	Song        *models.Song
	TimesPlayed int
}

// Lookup resolves a cookie name to a catalog song. Names that resolve to
// nothing are skipped silently by [RankTop].
type Lookup func(name string) (*models.Song, bool)

// Count returns the play count recorded in jar for songName, 0 when the
// cookie is absent or holds garbage.
func Count(jar []*http.Cookie, songName string) int {
	for _, c := range jar {
		if c.Name == songName {
			return clamp(c.Value)
		}
	}
	return 0
}

// Increment returns the replacement cookie recording one more play of
// songName: the existing counter plus one, or 1 when no counter exists.
func Increment(jar []*http.Cookie, songName string) *http.Cookie {
	return &http.Cookie{
		Name:  songName,
		Value: strconv.Itoa(Count(jar, songName) + 1),
		Path:  "/",
	}
}

// RankTop resolves every counter cookie in jar to a song and returns the
// matches sorted by play count, most played first.
//
// The sort is stable: songs with equal counts keep the order their
// cookies appeared in the jar. Reserved application cookies and names
// the lookup cannot resolve are skipped without error.
func RankTop(jar []*http.Cookie, lookup Lookup) []Ranked {
	var ranked []Ranked

	for _, c := range jar {
		if reserved[c.Name] {
			continue
		}

		song, ok := lookup(c.Name)
		if !ok {
			continue
		}

		ranked = append(ranked, Ranked{Song: song, TimesPlayed: clamp(c.Value)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TimesPlayed > ranked[j].TimesPlayed
	})

	return ranked
}

// clamp parses a counter value, treating garbage as 0 and capping at [MaxCount].
func clamp(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}
