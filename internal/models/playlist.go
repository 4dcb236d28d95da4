package models

import (
	"fmt"
	"time"

	"github.com/evanshandler/jukebox/internal/shared"
)

// Playlist represents a named, user-owned collection of songs.
type Playlist struct {
	record
	name        string
	description string
	ownerID     string
}

// NewPlaylist creates a new Playlist with the given sequence, name, description and owner.
func NewPlaylist(sequence int, name, description, ownerID string) *Playlist {
	return &Playlist{
		record:      newRecord(sequence),
		name:        name,
		description: description,
		ownerID:     ownerID,
	}
}

// Name returns the playlist's display name
func (p *Playlist) Name() string { return p.name }

// Description returns the playlist's free-text description
func (p *Playlist) Description() string { return p.description }

// OwnerID returns the id of the owning user, empty for unowned playlists
func (p *Playlist) OwnerID() string { return p.ownerID }

// Rename updates the playlist's name and description
func (p *Playlist) Rename(name, description string) {
	p.name = name
	p.description = description
}

// Validate checks that the playlist has a usable name.
func (p *Playlist) Validate() error {
	if !shared.ValidText(p.name) {
		return fmt.Errorf("%w: playlist requires a name", shared.ErrInvalidInput)
	}
	return nil
}

// PlaylistSong is the junction record tying a song to a playlist.
type PlaylistSong struct {
	PlaylistID string
	SongID     string
	AddedAt    time.Time
}
