package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evanshandler/jukebox/internal/models"
	"github.com/evanshandler/jukebox/internal/repositories"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SongListView ViewState = iota
	PlaylistListView
	PlaylistDetailView
)

// Model represents the TUI application state.
type Model struct {
	view          ViewState
	songs         *repositories.SongRepository
	playlists     *repositories.PlaylistRepository
	playlistSongs *repositories.PlaylistSongRepository
	width         int
	height        int
	ready         bool
	songList      list.Model
	playlistList  list.Model
	detailList    list.Model
	selected      *models.Playlist
	err           error
	help          help.Model
	keys          keyMap
}

type catalogFetchedMsg struct {
	songs     []*models.Song
	playlists []*models.Playlist
	err       error
}

type playlistOpenedMsg struct {
	playlist *models.Playlist
	songs    []*models.Song
	err      error
}

// NewModel creates a new TUI model backed by the given repositories.
func NewModel(songs *repositories.SongRepository, playlists *repositories.PlaylistRepository, playlistSongs *repositories.PlaylistSongRepository) *Model {
	return &Model{
		view:          SongListView,
		songs:         songs,
		playlists:     playlists,
		playlistSongs: playlistSongs,
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init initializes the TUI by loading the catalog.
func (m *Model) Init() tea.Cmd {
	return m.fetchCatalog()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.ready {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.selected != nil {
			m.detailList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SongListView:
			return m.handleSongListKeys(msg)
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case PlaylistDetailView:
			return m.handleDetailKeys(msg)
		}

	case catalogFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}

		songItems := make([]list.Item, len(msg.songs))
		for i, song := range msg.songs {
			songItems[i] = songItem{song: song}
		}
		m.songList = list.New(songItems, list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = "Songs"
		m.songList.SetSize(m.width-4, m.height-8)

		playlistItems := make([]list.Item, len(msg.playlists))
		for i, playlist := range msg.playlists {
			playlistItems[i] = playlistItem{playlist: playlist}
		}
		m.playlistList = list.New(playlistItems, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)

		m.ready = true
		return m, nil

	case playlistOpenedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}

		m.selected = msg.playlist
		items := make([]list.Item, len(msg.songs))
		for i, song := range msg.songs {
			items[i] = songItem{song: song}
		}
		m.detailList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.detailList.Title = fmt.Sprintf("Songs in '%s'", msg.playlist.Name())
		m.detailList.SetSize(m.width-4, m.height-8)
		m.view = PlaylistDetailView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	if !m.ready {
		return styles.help.Render("Loading catalog...")
	}

	switch m.view {
	case SongListView:
		return m.renderSongList()
	case PlaylistListView:
		return m.renderPlaylistList()
	case PlaylistDetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.view = PlaylistListView
		return m, nil
	}

	if !m.ready {
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.view = SongListView
		return m, nil
	case "enter":
		if !m.ready {
			return m, nil
		}
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(playlistItem); ok {
				return m, m.openPlaylist(item.playlist)
			}
		}
	}

	if !m.ready {
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		m.selected = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.detailList, cmd = m.detailList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.ready {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.view {
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case PlaylistDetailView:
		m.detailList, cmd = m.detailList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchCatalog() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.songs.List(nil)
		if err != nil {
			return catalogFetchedMsg{err: err}
		}

		playlists, err := m.playlists.List(nil)
		if err != nil {
			return catalogFetchedMsg{err: err}
		}

		return catalogFetchedMsg{songs: songs, playlists: playlists}
	}
}

func (m *Model) openPlaylist(playlist *models.Playlist) tea.Cmd {
	return func() tea.Msg {
		songs, err := m.playlistSongs.ListSongs(playlist.ID())
		return playlistOpenedMsg{playlist: playlist, songs: songs, err: err}
	}
}

func (m *Model) renderSongList() string {
	helpKeys := []key.Binding{m.keys.tab, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.tab, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderDetail() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.detailList.View(), helpView)
}
