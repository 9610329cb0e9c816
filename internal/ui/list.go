package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/pifi/internal/models"
)

var _ list.Item = playlistItem{}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	if i.playlist.TrackCount == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", i.playlist.TrackCount)
}

func playlistItems(playlists []models.Playlist) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, pl := range playlists {
		items[i] = playlistItem{playlist: pl}
	}
	return items
}

func newPlaylistList(playlists []models.Playlist, width, height int) list.Model {
	l := list.New(playlistItems(playlists), list.NewDefaultDelegate(), width, height)
	l.Title = "Playlists"
	l.SetShowHelp(false)
	return l
}
