package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/player"
	"github.com/desertthunder/pifi/internal/session"
	"github.com/desertthunder/pifi/internal/shared"
	"github.com/mdp/qrterminal/v3"
	"golang.org/x/oauth2"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AuthView ViewState = iota
	PlayerView
)

// Connector builds and starts a player for an authenticated token.
type Connector func(ctx context.Context, tok *oauth2.Token) (*player.Player, error)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	gate       *session.Gate
	connect    Connector
	player     *player.Player
	volumeStep int
	logger     *log.Logger

	display   player.Display
	playlists list.Model
	progress  progress.Model
	help      help.Model
	keys      keyMap

	qr        string
	art       string
	artURL    string
	connected bool
	width     int
	height    int
	err       error
}

// NewModel creates a new TUI model. Nothing reaches the remote before the gate authenticates.
func NewModel(ctx context.Context, gate *session.Gate, connect Connector, volumeStep int, logger *log.Logger) *Model {
	return &Model{
		ctx:        ctx,
		view:       AuthView,
		gate:       gate,
		connect:    connect,
		volumeStep: volumeStep,
		logger:     shared.WithLogger(logger, "component", "ui"),
		playlists:  newPlaylistList(nil, 0, 0),
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:       help.New(),
		keys:       newKeyMap(),
		qr:         renderQR(gate.Authorization().URL()),
		art:        placeholderArtwork(artworkCells),
	}
}

// Init checks for a cached token right away.
func (m *Model) Init() tea.Cmd {
	return m.checkAuth()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlists.SetSize(max(msg.Width-4, 20), max(msg.Height-artworkCells/2-10, 5))
		m.progress.Width = max(msg.Width-artworkCells-12, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgAuthTick:
		return m, m.checkAuth()

	case MsgAuthChecked:
		if msg.data.(session.State) != session.Authenticated {
			return m, authTick()
		}
		m.view = PlayerView
		return m, m.connectPlayer()

	case MsgConnected:
		c := msg.data.(connected)
		if c.err != nil && c.player == nil {
			m.err = c.err
			return m, nil
		}
		if c.err != nil {
			m.logger.Warn("failed to list playlists", "error", c.err)
		}
		m.player = c.player
		m.connected = true
		return m, tea.Batch(m.playlists.SetItems(playlistItems(c.playlists)), m.syncNow(), syncTick())

	case MsgSyncTick:
		return m, tea.Batch(m.syncNow(), syncTick())

	case MsgSynced:
		pass := msg.data.(player.Pass)
		if m.display.Apply(pass) {
			m.refreshArtwork()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) && m.playlists.FilterState() != list.Filtering {
		return m, tea.Quit
	}
	if m.view != PlayerView || !m.connected || m.playlists.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.toggle):
		m.player.Enqueue(models.NewTogglePlay())
	case key.Matches(msg, m.keys.next):
		m.player.Enqueue(models.NewNext())
	case key.Matches(msg, m.keys.previous):
		m.player.Enqueue(models.NewPrevious())
	case key.Matches(msg, m.keys.volumeUp):
		m.player.Enqueue(models.NewVolumeDelta(m.volumeStep))
	case key.Matches(msg, m.keys.volumeDown):
		m.player.Enqueue(models.NewVolumeDelta(-m.volumeStep))
	case key.Matches(msg, m.keys.play):
		if item, ok := m.playlists.SelectedItem().(playlistItem); ok {
			m.player.Enqueue(models.NewPlayContext(item.playlist.URI))
		}
	default:
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != PlayerView {
		return m, nil
	}
	var cmd tea.Cmd
	m.playlists, cmd = m.playlists.Update(msg)
	return m, cmd
}

func (m *Model) checkAuth() tea.Cmd {
	return func() tea.Msg {
		return authCheckedMsg(m.gate.Check(m.ctx))
	}
}

func (m *Model) connectPlayer() tea.Cmd {
	tok := m.gate.Token()
	return func() tea.Msg {
		p, err := m.connect(m.ctx, tok)
		if err != nil {
			return connectedMsg(nil, nil, err)
		}
		playlists, err := p.Login(m.ctx)
		return connectedMsg(p, playlists, err)
	}
}

// syncNow starts a pass with the currently shown model. Overlapping passes come back as skipped.
func (m *Model) syncNow() tea.Cmd {
	if m.player == nil {
		return nil
	}
	p, prev := m.player, m.display.Current()
	return func() tea.Msg {
		return syncedMsg(p.Sync(m.ctx, prev))
	}
}

func authTick() tea.Cmd {
	return tea.Tick(session.PollInterval, func(time.Time) tea.Msg { return authTickMsg() })
}

func syncTick() tea.Cmd {
	return tea.Tick(player.SyncInterval, func(time.Time) tea.Msg { return syncTickMsg() })
}

func (m *Model) refreshArtwork() {
	art := m.display.Current().Artwork
	if art == nil || art.URL == m.artURL {
		return
	}
	m.artURL = art.URL
	m.art = renderArtwork(art.Image, artworkCells)
}

func renderQR(url string) string {
	var b strings.Builder
	qrterminal.GenerateHalfBlock(url, qrterminal.L, &b)
	return b.String()
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.frame.Render(styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err)))
	}

	switch m.view {
	case AuthView:
		return m.renderAuth()
	case PlayerView:
		return m.renderPlayer()
	default:
		return ""
	}
}

func (m *Model) renderAuth() string {
	title := styles.title.Render("Pi-Fi Player")
	prompt := "Scan to sign in, or open on your phone:"
	url := styles.accent.Render(m.gate.Authorization().URL())
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return styles.frame.Render(fmt.Sprintf("%s\n%s\n\n%s\n%s\n\n%s", title, prompt, m.qr, url, helpView))
}

func (m *Model) renderPlayer() string {
	if !m.connected {
		return styles.frame.Render(styles.title.Render("Pi-Fi Player") + "\nConnecting...")
	}

	np := m.display.Current()
	var info string
	if !m.display.Ready() {
		info = styles.help.Render("Nothing playing")
	} else {
		state := "⏸ paused"
		if np.Playing {
			state = "▶ playing"
		}
		info = strings.Join([]string{
			styles.track.Render(np.Title),
			np.Artists,
			"",
			m.progress.ViewAs(np.Progress()),
			fmt.Sprintf("%s / %s", formatDuration(np.Position), formatDuration(np.Duration)),
			"",
			fmt.Sprintf("%s   vol %d%%", state, np.VolumePercent),
		}, "\n")
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, m.art, "  ", info)
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return styles.frame.Render(fmt.Sprintf("%s\n\n%s\n\n%s", top, m.playlists.View(), helpView))
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
