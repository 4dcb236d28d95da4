package models

import (
	"fmt"

	"github.com/evanshandler/jukebox/internal/shared"
)

// Song represents a single catalog entry.
type Song struct {
	record
	name   string
	artist string
}

// NewSong creates a new Song with the given sequence, name and artist.
func NewSong(sequence int, name, artist string) *Song {
	return &Song{record: newRecord(sequence), name: name, artist: artist}
}

// Name returns the song's title
func (s *Song) Name() string { return s.name }

// Artist returns the performing artist
func (s *Song) Artist() string { return s.artist }

// Rename updates the song's title and artist
func (s *Song) Rename(name, artist string) {
	s.name = name
	s.artist = artist
}

// Validate checks that both name and artist are usable text.
func (s *Song) Validate() error {
	if !shared.ValidEntry(s.name, s.artist) {
		return fmt.Errorf("%w: song requires a name and an artist", shared.ErrInvalidInput)
	}
	return nil
}
