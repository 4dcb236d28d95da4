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

// PlaylistHandler serves the playlist pages, including the two-step
// add-a-song flow.
//
// The flow leans on two cookies: picking "add to playlist" on the songs
// page stores the song id in songToAddId and lands on the playlist list,
// where choosing a playlist completes the add and clears the cookie.
// Opening a playlist stores its id in currentPlaylistId, which scopes
// later remove-song submissions.
type PlaylistHandler struct {
	renderer      *web.Renderer
	playlists     *repositories.PlaylistRepository
	playlistSongs *repositories.PlaylistSongRepository
	songs         *repositories.SongRepository
	users         *repositories.UserRepository
	cfg           shared.SessionConfig
	logger        *log.Logger
	mux           *http.ServeMux
}

// NewPlaylistHandler creates a PlaylistHandler with the given collaborators.
func NewPlaylistHandler(
	renderer *web.Renderer,
	playlists *repositories.PlaylistRepository,
	playlistSongs *repositories.PlaylistSongRepository,
	songs *repositories.SongRepository,
	users *repositories.UserRepository,
	cfg shared.SessionConfig,
	logger *log.Logger,
) *PlaylistHandler {
	h := &PlaylistHandler{
		renderer:      renderer,
		playlists:     playlists,
		playlistSongs: playlistSongs,
		songs:         songs,
		users:         users,
		cfg:           cfg,
		logger:        logger,
		mux:           http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /playlists", h.list)
	h.mux.HandleFunc("POST /playlists", h.create)
	h.mux.HandleFunc("GET /playlists/view", h.view)
	h.mux.HandleFunc("POST /playlists/edit", h.edit)
	h.mux.HandleFunc("POST /playlists/delete", h.delete)
	h.mux.HandleFunc("POST /playlists/select-song", h.selectSong)
	h.mux.HandleFunc("POST /playlists/add-song", h.addSong)
	h.mux.HandleFunc("POST /playlists/remove-song", h.removeSong)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaylistHandler) Routes() []string {
	return []string{
		"/playlists",
		"/playlists/view",
		"/playlists/edit",
		"/playlists/delete",
		"/playlists/select-song",
		"/playlists/add-song",
		"/playlists/remove-song",
	}
}

// ServeHTTP dispatches to the playlist sub-routes.
func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// list renders every playlist. A pending songToAddId cookie turns the page
// into the second step of the add-a-song flow.
func (h *PlaylistHandler) list(w http.ResponseWriter, r *http.Request) {
	view := baseView(r)

	playlists, err := h.playlists.List(nil)
	if err != nil {
		h.fail(w, r, "failed to list playlists", err)
		return
	}
	view.Playlists = playlists

	if songID, ok := cookieValue(r, songToAddCookie); ok {
		song, err := h.songs.Get(songID)
		if err == nil {
			view.SongToAdd = song
		} else {
			// The song vanished since it was picked; drop the stale cookie.
			clearCookie(w, songToAddCookie)
		}
	}

	renderPage(w, h.renderer, h.logger, "playlists", view)
}

// create adds a playlist owned by the requesting account. Creation is a
// premium feature.
func (h *PlaylistHandler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		renderError(w, r, h.renderer, h.logger, http.StatusUnauthorized, "You need to be signed in to create playlists.")
		return
	}
	if !identity.Premium {
		renderError(w, r, h.renderer, h.logger, http.StatusForbidden, "Creating playlists requires a premium account.")
		return
	}

	owner, exists, err := h.users.FindByUsername(identity.Username)
	if err != nil || !exists {
		h.fail(w, r, "failed to resolve playlist owner", err)
		return
	}

	playlist := models.NewPlaylist(0, r.FormValue("name"), r.FormValue("description"), owner.ID())
	if err := h.playlists.Create(playlist); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			renderError(w, r, h.renderer, h.logger, http.StatusBadRequest, "Playlists need a name.")
			return
		}
		h.fail(w, r, "failed to create playlist", err)
		return
	}

	h.logger.Info("playlist created", "name", playlist.Name(), "owner", identity.Username)
	http.Redirect(w, r, "/playlists", http.StatusSeeOther)
}

// view renders one playlist and remembers it as the current playlist for
// remove-song submissions.
func (h *PlaylistHandler) view(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlists.Get(r.URL.Query().Get("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "That playlist doesn't exist.")
			return
		}
		h.fail(w, r, "failed to load playlist", err)
		return
	}

	songs, err := h.playlistSongs.ListSongs(playlist.ID())
	if err != nil {
		h.fail(w, r, "failed to list playlist songs", err)
		return
	}

	setCookie(w, currentPlaylistCookie, playlist.ID(), h.cfg.SecureCookies)

	view := baseView(r)
	view.Playlist = playlist
	view.PlaylistSongs = songs
	renderPage(w, h.renderer, h.logger, "playlist", view)
}

// edit updates a playlist's name and description.
func (h *PlaylistHandler) edit(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlists.Get(r.FormValue("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "That playlist doesn't exist.")
			return
		}
		h.fail(w, r, "failed to load playlist", err)
		return
	}

	playlist.Rename(r.FormValue("newName"), r.FormValue("newDescription"))

	if err := h.playlists.Update(playlist); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			renderError(w, r, h.renderer, h.logger, http.StatusBadRequest, "Playlists need a name.")
			return
		}
		h.fail(w, r, "failed to update playlist", err)
		return
	}

	http.Redirect(w, r, "/playlists/view?id="+playlist.ID(), http.StatusSeeOther)
}

// delete removes a playlist and its membership rows.
func (h *PlaylistHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")

	if err := h.playlists.Delete(id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "That playlist doesn't exist.")
			return
		}
		h.fail(w, r, "failed to delete playlist", err)
		return
	}

	if current, ok := cookieValue(r, currentPlaylistCookie); ok && current == id {
		clearCookie(w, currentPlaylistCookie)
	}

	http.Redirect(w, r, "/playlists", http.StatusSeeOther)
}

// selectSong starts the add-a-song flow by remembering the picked song.
func (h *PlaylistHandler) selectSong(w http.ResponseWriter, r *http.Request) {
	songID := r.FormValue("songId")

	if _, err := h.songs.Get(songID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "That song isn't in the catalog.")
			return
		}
		h.fail(w, r, "failed to load song", err)
		return
	}

	setCookie(w, songToAddCookie, songID, h.cfg.SecureCookies)
	http.Redirect(w, r, "/playlists", http.StatusSeeOther)
}

// addSong completes the add-a-song flow for the picked song.
func (h *PlaylistHandler) addSong(w http.ResponseWriter, r *http.Request) {
	songID, ok := cookieValue(r, songToAddCookie)
	if !ok {
		renderError(w, r, h.renderer, h.logger, http.StatusBadRequest, "Pick a song from the catalog first.")
		return
	}

	playlistID := r.FormValue("playlistId")

	if err := h.playlistSongs.Add(playlistID, songID); err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			clearCookie(w, songToAddCookie)
			renderError(w, r, h.renderer, h.logger, http.StatusConflict, "That song is already in the playlist.")
			return
		}
		h.fail(w, r, "failed to add song to playlist", err)
		return
	}

	clearCookie(w, songToAddCookie)
	http.Redirect(w, r, fmt.Sprintf("/playlists/view?id=%s", playlistID), http.StatusSeeOther)
}

// removeSong drops a song from the playlist last opened in this browser.
func (h *PlaylistHandler) removeSong(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := cookieValue(r, currentPlaylistCookie)
	if !ok {
		renderError(w, r, h.renderer, h.logger, http.StatusBadRequest, "Open a playlist before removing songs.")
		return
	}

	songID := r.FormValue("songId")

	if err := h.playlistSongs.Remove(playlistID, songID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		h.fail(w, r, "failed to remove song from playlist", err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/playlists/view?id=%s", playlistID), http.StatusSeeOther)
}

func (h *PlaylistHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, "err", err)
	renderError(w, r, h.renderer, h.logger, http.StatusInternalServerError, "Something broke on our end.")
}
