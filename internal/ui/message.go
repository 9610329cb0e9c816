package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/player"
	"github.com/desertthunder/pifi/internal/session"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgAuthTick MsgKind = iota
	MsgAuthChecked
	MsgConnected
	MsgSyncTick
	MsgSynced
)

// authTickMsg is the constructor for [MsgAuthTick]
func authTickMsg() Msg {
	return Msg{kind: MsgAuthTick}
}

// authCheckedMsg is the constructor for [MsgAuthChecked]
func authCheckedMsg(state session.State) Msg {
	return Msg{kind: MsgAuthChecked, data: state}
}

type connected struct {
	player    *player.Player
	playlists []models.Playlist
	err       error
}

// connectedMsg is the constructor for [MsgConnected]
func connectedMsg(p *player.Player, playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgConnected, data: connected{p, playlists, err}}
}

// syncTickMsg is the constructor for [MsgSyncTick]
func syncTickMsg() Msg {
	return Msg{kind: MsgSyncTick}
}

// syncedMsg is the constructor for [MsgSynced]
func syncedMsg(p player.Pass) Msg {
	return Msg{kind: MsgSynced, data: p}
}
