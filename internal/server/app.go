package server

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/evanshandler/jukebox/internal/repositories"
	"github.com/evanshandler/jukebox/internal/session"
	"github.com/evanshandler/jukebox/internal/shared"
	"github.com/evanshandler/jukebox/internal/web"
)

// NewApp wires the full web application: renderer, repositories, session
// gate and page handlers, all behind one router.
func NewApp(cfg *shared.Config, db *sql.DB, sessions *session.Manager, logger *log.Logger) (http.Handler, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to build renderer: %w", err)
	}

	users := repositories.NewUserRepository(db)
	songs := repositories.NewSongRepository(db)
	playlists := repositories.NewPlaylistRepository(db)
	playlistSongs := repositories.NewPlaylistSongRepository(db)

	router := NewBasicRouter()
	router.Use(
		LogRequests(logger),
		NewGate(sessions, users, cfg.Session, logger).Middleware,
	)

	router.Handler(NewAccountHandler(renderer, users, sessions, cfg.Session, logger))
	router.Handler(NewHomeHandler(renderer, songs, logger))
	router.Handler(NewSongHandler(renderer, songs, logger))
	router.Handler(NewPlaylistHandler(renderer, playlists, playlistSongs, songs, users, cfg.Session, logger))

	return router, nil
}
