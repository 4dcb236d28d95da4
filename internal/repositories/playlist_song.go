package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/evanshandler/jukebox/internal/models"
	"github.com/evanshandler/jukebox/internal/shared"
)

// PlaylistSongRepository manages the playlist_songs junction table.
//
// Membership rows are hard-deleted; soft deletes only apply to the
// entities on either side of the junction.
type PlaylistSongRepository struct {
	db *sql.DB
}

// NewPlaylistSongRepository creates a new PlaylistSongRepository with the given database connection
func NewPlaylistSongRepository(db *sql.DB) *PlaylistSongRepository {
	return &PlaylistSongRepository{db: db}
}

// Add inserts a membership row; adding a song twice is a duplicate error.
func (r *PlaylistSongRepository) Add(playlistID, songID string) error {
	exists, err := r.Contains(playlistID, songID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: song already in playlist", shared.ErrDuplicate)
	}

	query := `
		INSERT INTO playlist_songs (playlist_id, song_id, added_at)
		VALUES (?, ?, ?)
	`

	if _, err := r.db.Exec(query, playlistID, songID, time.Now()); err != nil {
		return fmt.Errorf("failed to add song to playlist: %w", err)
	}

	return nil
}

// Remove deletes a membership row.
func (r *PlaylistSongRepository) Remove(playlistID, songID string) error {
	result, err := r.db.Exec("DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?", playlistID, songID)
	if err != nil {
		return fmt.Errorf("failed to remove song from playlist: %w", err)
	}

	return requireRows(result, songID)
}

// Contains reports whether the playlist already holds the song.
func (r *PlaylistSongRepository) Contains(playlistID, songID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM playlist_songs WHERE playlist_id = ? AND song_id = ?)",
		playlistID, songID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check playlist membership: %w", err)
	}

	return exists, nil
}

// ListSongs retrieves the songs in a playlist in the order they were added.
func (r *PlaylistSongRepository) ListSongs(playlistID string) ([]*models.Song, error) {
	query := `
		SELECT s.id, s.sequence, s.name, s.artist, s.updated_at, s.deleted_at
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = ? AND s.deleted_at IS NULL
		ORDER BY ps.added_at ASC
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		var (
			id        string
			sequence  int
			name      string
			artist    string
			updatedAt time.Time
			deletedAt sql.NullTime
		)

		if err := rows.Scan(&id, &sequence, &name, &artist, &updatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}

		song := models.NewSong(sequence, name, artist)
		song.SetID(id)
		song.SetUpdatedAt(updatedAt)
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// Count returns the number of songs currently in the playlist.
func (r *PlaylistSongRepository) Count(playlistID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM playlist_songs WHERE playlist_id = ?", playlistID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count playlist songs: %w", err)
	}

	return count, nil
}
