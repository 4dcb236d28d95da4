// Package ui implements an interactive terminal catalog browser using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the jukebox database:
//  1. [SongListView] : Browse the song catalog
//  2. [PlaylistListView] : Browse playlists
//  3. [PlaylistDetailView] : Inspect the songs inside one playlist
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Catalog data loads through tea.Cmd functions backed by the repositories, so the
// update loop never blocks on the database.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, q) with contextual
// help displayed via charmbracelet/bubbles/help.
package ui
