package server

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/evanshandler/jukebox/internal/models"
	"github.com/evanshandler/jukebox/internal/playcount"
	"github.com/evanshandler/jukebox/internal/repositories"
	"github.com/evanshandler/jukebox/internal/web"
)

// HomeHandler serves the landing page and the play-count endpoint.
type HomeHandler struct {
	renderer *web.Renderer
	songs    *repositories.SongRepository
	logger   *log.Logger
	mux      *http.ServeMux
}

// NewHomeHandler creates a HomeHandler with the given collaborators.
func NewHomeHandler(renderer *web.Renderer, songs *repositories.SongRepository, logger *log.Logger) *HomeHandler {
	h := &HomeHandler{
		renderer: renderer,
		songs:    songs,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /{$}", h.home)
	h.mux.HandleFunc("GET /home", h.home)
	h.mux.HandleFunc("POST /play", h.play)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *HomeHandler) Routes() []string {
	return []string{"/{$}", "/home", "/play"}
}

// ServeHTTP dispatches to the home sub-routes.
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// home ranks this browser's play counters against the catalog and renders
// the most played songs first.
func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	view := baseView(r)
	view.TopSongs = playcount.RankTop(r.Cookies(), h.lookup)
	renderPage(w, h.renderer, h.logger, "home", view)
}

// play records one more play of the named song in the browser's cookie jar.
func (h *HomeHandler) play(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if !playcount.Countable(name) {
		renderError(w, r, h.renderer, h.logger, http.StatusBadRequest, "That song can't be played.")
		return
	}

	if _, exists, err := h.songs.FindByName(name); err != nil {
		h.logger.Error("play lookup failed", "song", name, "err", err)
		renderError(w, r, h.renderer, h.logger, http.StatusInternalServerError, "Something broke while playing that song.")
		return
	} else if !exists {
		renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "That song isn't in the catalog.")
		return
	}

	http.SetCookie(w, playcount.Increment(r.Cookies(), name))
	redirectBack(w, r, "/songs")
}

// lookup adapts the song store to the play-count resolver. Lookup failures
// read as absent; an unrankable song is not worth failing the page for.
func (h *HomeHandler) lookup(name string) (*models.Song, bool) {
	song, exists, err := h.songs.FindByName(name)
	if err != nil {
		h.logger.Warn("failed to resolve play counter", "name", name, "err", err)
		return nil, false
	}
	return song, exists
}

// redirectBack returns to the page the form was submitted from, or to
// fallback when the referer is absent.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := r.Referer()
	if target == "" {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
