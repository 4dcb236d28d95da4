package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/evanshandler/jukebox/internal/models"
)

var (
	_ list.Item = songItem{}
	_ list.Item = playlistItem{}
)

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song *models.Song
}

func (i songItem) FilterValue() string { return i.song.Name() }
func (i songItem) Title() string       { return i.song.Name() }
func (i songItem) Description() string { return i.song.Artist() }

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist *models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name() }
func (i playlistItem) Title() string       { return i.playlist.Name() }
func (i playlistItem) Description() string {
	if desc := i.playlist.Description(); desc != "" {
		return desc
	}
	return "no description"
}
