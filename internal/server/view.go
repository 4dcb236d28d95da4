package server

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/evanshandler/jukebox/internal/models"
	"github.com/evanshandler/jukebox/internal/playcount"
	"github.com/evanshandler/jukebox/internal/web"
)

// View carries everything a page template can render. Pages ignore the
// fields they don't use.
type View struct {
	Username string
	Premium  bool
	Message  string
	Error    string

	Heading     string
	SearchQuery string

	Songs         []*models.Song
	Playlists     []*models.Playlist
	Playlist      *models.Playlist
	PlaylistSongs []*models.Song
	TopSongs      []playcount.Ranked
	SongToAdd     *models.Song
}

// baseView builds a View carrying the request's identity, if any.
func baseView(r *http.Request) View {
	view := View{}
	if id, ok := IdentityFrom(r.Context()); ok {
		view.Username = id.Username
		view.Premium = id.Premium
	}
	return view
}

// renderPage writes the named page with status 200, logging render failures.
func renderPage(w http.ResponseWriter, renderer *web.Renderer, logger *log.Logger, page string, view View) {
	renderView(w, renderer, logger, page, view, http.StatusOK)
}

// renderView writes the named page with an explicit status code.
func renderView(w http.ResponseWriter, renderer *web.Renderer, logger *log.Logger, page string, view View, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := renderer.Render(w, page, view); err != nil {
		logger.Error("failed to render page", "page", page, "err", err)
	}
}

// renderError writes the error page with the given status and message.
func renderError(w http.ResponseWriter, r *http.Request, renderer *web.Renderer, logger *log.Logger, status int, message string) {
	view := baseView(r)
	view.Error = message
	renderView(w, renderer, logger, "error", view, status)
}
