// package models defines the data model for the pifi remote
package models

import (
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
)

// CommandKind tags the variant held by a [Command].
type CommandKind int

const (
	TogglePlay CommandKind = iota
	Next
	Previous
	VolumeDelta
	PlayContext
)

func (k CommandKind) String() string {
	switch k {
	case TogglePlay:
		return "toggle_play"
	case Next:
		return "next"
	case Previous:
		return "previous"
	case VolumeDelta:
		return "volume_delta"
	case PlayContext:
		return "play_context"
	default:
		return "unknown"
	}
}

// Command is an immutable logical command produced by the input layer or the UI.
type Command struct {
	id    string
	kind  CommandKind
	delta int
	uri   string
}

func newCommand(kind CommandKind) Command {
	return Command{id: uuid.NewString(), kind: kind}
}

// NewTogglePlay creates a play/pause toggle command.
func NewTogglePlay() Command { return newCommand(TogglePlay) }

// NewNext creates a skip-to-next command.
func NewNext() Command { return newCommand(Next) }

// NewPrevious creates a skip-to-previous command.
func NewPrevious() Command { return newCommand(Previous) }

// NewVolumeDelta creates a relative volume change in percent points.
func NewVolumeDelta(delta int) Command {
	c := newCommand(VolumeDelta)
	c.delta = delta
	return c
}

// NewPlayContext creates a command that starts playback of a context (playlist, album) URI.
func NewPlayContext(uri string) Command {
	c := newCommand(PlayContext)
	c.uri = uri
	return c
}

func (c Command) ID() string        { return c.id }
func (c Command) Kind() CommandKind { return c.kind }
func (c Command) Delta() int        { return c.delta }
func (c Command) URI() string       { return c.uri }

func (c Command) String() string {
	switch c.kind {
	case VolumeDelta:
		return fmt.Sprintf("%s(%+d)", c.kind, c.delta)
	case PlayContext:
		return fmt.Sprintf("%s(%s)", c.kind, c.uri)
	default:
		return c.kind.String()
	}
}

// Device is one entry of the remote's device listing.
type Device struct {
	ID            string
	Name          string
	Type          string
	Active        bool
	VolumePercent int
}

// DeviceHandle is the resolved target device.
type DeviceHandle struct {
	ID         string
	Name       string
	ResolvedAt time.Time
}

// Snapshot is one internally consistent read of remote playback state.
//
// A nil *Snapshot means the remote reported no active session.
type Snapshot struct {
	Playing       bool
	Title         string
	Artists       []string
	Duration      time.Duration
	Position      time.Duration
	VolumePercent int
	HasVolume     bool // false when the remote reported no device volume
	ArtworkURLs   []string
	DeviceID      string
}

// ArtworkURL returns the first artwork URL or an empty string.
func (s *Snapshot) ArtworkURL() string {
	if s == nil || len(s.ArtworkURLs) == 0 {
		return ""
	}
	return s.ArtworkURLs[0]
}

// Artwork is a fetched and scaled cover image.
type Artwork struct {
	URL   string
	Image image.Image
}

// NowPlaying is the display model. It is only ever replaced as a whole.
type NowPlaying struct {
	Title         string
	Artists       string
	Playing       bool
	Position      time.Duration
	Duration      time.Duration
	VolumePercent int
	Artwork       *Artwork
	UpdatedAt     time.Time
}

// Progress returns position/duration clamped to [0,1].
func (n NowPlaying) Progress() float64 {
	if n.Duration <= 0 {
		return 0
	}
	r := float64(n.Position) / float64(n.Duration)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}

// Playlist is a user playlist that can be started on the target device.
type Playlist struct {
	ID         string
	Name       string
	URI        string
	TrackCount int
}

// PlaylistPage is one page of the user's playlists.
type PlaylistPage struct {
	Items []Playlist
	Next  bool
}
