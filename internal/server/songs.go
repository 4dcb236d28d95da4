package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/evanshandler/jukebox/internal/models"
	"github.com/evanshandler/jukebox/internal/repositories"
	"github.com/evanshandler/jukebox/internal/shared"
	"github.com/evanshandler/jukebox/internal/web"
)

// SongHandler serves the song catalog pages.
type SongHandler struct {
	renderer *web.Renderer
	songs    *repositories.SongRepository
	logger   *log.Logger
	mux      *http.ServeMux
}

// NewSongHandler creates a SongHandler with the given collaborators.
func NewSongHandler(renderer *web.Renderer, songs *repositories.SongRepository, logger *log.Logger) *SongHandler {
	h := &SongHandler{
		renderer: renderer,
		songs:    songs,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /songs", h.list)
	h.mux.HandleFunc("POST /songs", h.create)
	h.mux.HandleFunc("POST /songs/edit", h.edit)
	h.mux.HandleFunc("POST /songs/delete", h.delete)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *SongHandler) Routes() []string {
	return []string{"/songs", "/songs/edit", "/songs/delete"}
}

// ServeHTTP dispatches to the song sub-routes.
func (h *SongHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// list renders the catalog, narrowed to an exact-name match when the
// search box was used.
func (h *SongHandler) list(w http.ResponseWriter, r *http.Request) {
	view := baseView(r)
	view.SearchQuery = r.FormValue("searchQuery")

	if view.SearchQuery != "" {
		song, exists, err := h.songs.FindByName(view.SearchQuery)
		if err != nil {
			h.fail(w, r, "search failed", err)
			return
		}

		if exists {
			view.Songs = []*models.Song{song}
		}
		view.Heading = fmt.Sprintf("Results for %q", view.SearchQuery)
	} else {
		songs, err := h.songs.List(nil)
		if err != nil {
			h.fail(w, r, "failed to list songs", err)
			return
		}
		view.Songs = songs
	}

	renderPage(w, h.renderer, h.logger, "songs", view)
}

// create adds a song to the catalog.
func (h *SongHandler) create(w http.ResponseWriter, r *http.Request) {
	song := models.NewSong(0, r.FormValue("name"), r.FormValue("artist"))

	if err := h.songs.Create(song); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			renderError(w, r, h.renderer, h.logger, http.StatusBadRequest, "Songs need both a name and an artist.")
			return
		}
		h.fail(w, r, "failed to create song", err)
		return
	}

	h.logger.Info("song added", "name", song.Name(), "artist", song.Artist())
	http.Redirect(w, r, "/songs", http.StatusSeeOther)
}

// edit updates a song's name and artist.
func (h *SongHandler) edit(w http.ResponseWriter, r *http.Request) {
	song, err := h.songs.Get(r.FormValue("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "That song isn't in the catalog.")
			return
		}
		h.fail(w, r, "failed to load song", err)
		return
	}

	song.Rename(r.FormValue("newName"), r.FormValue("newArtist"))

	if err := h.songs.Update(song); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			renderError(w, r, h.renderer, h.logger, http.StatusBadRequest, "Songs need both a name and an artist.")
			return
		}
		h.fail(w, r, "failed to update song", err)
		return
	}

	http.Redirect(w, r, "/songs", http.StatusSeeOther)
}

// delete removes a song from the catalog.
func (h *SongHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.songs.Delete(r.FormValue("id")); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "That song isn't in the catalog.")
			return
		}
		h.fail(w, r, "failed to delete song", err)
		return
	}

	http.Redirect(w, r, "/songs", http.StatusSeeOther)
}

func (h *SongHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, "err", err)
	renderError(w, r, h.renderer, h.logger, http.StatusInternalServerError, "Something broke on our end.")
}
