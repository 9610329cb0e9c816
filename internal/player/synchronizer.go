package player

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/services"
	"github.com/desertthunder/pifi/internal/shared"
)

// SyncInterval is the polling cadence.
const SyncInterval = time.Second

// Placeholder stands in for an empty title or artist list.
const Placeholder = "—"

// Outcome classifies a synchronization pass.
type Outcome int

const (
	Updated   Outcome = iota // NowPlaying holds a complete replacement
	Skipped                  // another pass was in flight
	NoSession                // the remote reported nothing playing
	Failed                   // the snapshot read failed
)

func (o Outcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case Skipped:
		return "skipped"
	case NoSession:
		return "no_session"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pass is the result of one [Synchronizer.Sync].
type Pass struct {
	Outcome    Outcome
	NowPlaying models.NowPlaying
	Err        error
}

// ArtworkFetcher loads cover art by URL.
type ArtworkFetcher interface {
	Fetch(ctx context.Context, url string) (*models.Artwork, error)
}

// Synchronizer turns remote snapshots into display models. At most one pass runs at a time.
type Synchronizer struct {
	remote  services.Remote
	artwork ArtworkFetcher
	logger  *log.Logger
	now     func() time.Time

	inFlight atomic.Bool
	// failedArt is the last artwork URL that could not be fetched. Only touched while inFlight is held.
	failedArt string
}

// NewSynchronizer creates a synchronizer. artwork may be nil to disable cover art.
func NewSynchronizer(remote services.Remote, artwork ArtworkFetcher, logger *log.Logger) *Synchronizer {
	return &Synchronizer{
		remote:  remote,
		artwork: artwork,
		logger:  shared.WithLogger(logger, "component", "sync"),
		now:     time.Now,
	}
}

// InFlight reports whether a pass is running.
func (s *Synchronizer) InFlight() bool {
	return s.inFlight.Load()
}

// Sync reads one snapshot and builds the next display model from it.
//
// prev is the model currently shown. Its artwork is carried over when the URL is unchanged, when the snapshot
// has no artwork, or when fetching the new artwork fails. A URL that failed is not fetched again until the
// snapshot moves to another URL.
func (s *Synchronizer) Sync(ctx context.Context, prev models.NowPlaying) Pass {
	if !s.inFlight.CompareAndSwap(false, true) {
		return Pass{Outcome: Skipped}
	}
	defer s.inFlight.Store(false)

	snapshot, err := s.remote.Snapshot(ctx)
	if err != nil {
		s.logger.Debug("snapshot failed", "error", err)
		return Pass{Outcome: Failed, Err: err}
	}
	if snapshot == nil {
		return Pass{Outcome: NoSession, Err: shared.ErrNoActiveSession}
	}

	next := models.NowPlaying{
		Title:         snapshot.Title,
		Artists:       JoinArtists(snapshot.Artists),
		Playing:       snapshot.Playing,
		Position:      snapshot.Position,
		Duration:      snapshot.Duration,
		VolumePercent: prev.VolumePercent,
		Artwork:       prev.Artwork,
		UpdatedAt:     s.now(),
	}
	if next.Title == "" {
		next.Title = Placeholder
	}
	if snapshot.HasVolume {
		next.VolumePercent = snapshot.VolumePercent
	}

	url := snapshot.ArtworkURL()
	if url != s.failedArt {
		s.failedArt = ""
	}
	if url != "" && url != s.failedArt && s.artwork != nil && (prev.Artwork == nil || prev.Artwork.URL != url) {
		art, err := s.artwork.Fetch(ctx, url)
		if err != nil {
			s.logger.Debug("artwork fetch failed", "url", url, "error", err)
			s.failedArt = url
		} else {
			next.Artwork = art
		}
	}

	return Pass{Outcome: Updated, NowPlaying: next}
}

// JoinArtists joins names with ", ", or returns [Placeholder] when there are none.
func JoinArtists(names []string) string {
	if len(names) == 0 {
		return Placeholder
	}
	return strings.Join(names, ", ")
}

// Display holds the model being shown. It belongs to one goroutine.
type Display struct {
	current models.NowPlaying
	set     bool
}

// Apply replaces the model with an updated pass and reports whether anything changed.
// Other outcomes leave the display untouched.
func (d *Display) Apply(p Pass) bool {
	if p.Outcome != Updated {
		return false
	}
	d.current = p.NowPlaying
	d.set = true
	return true
}

// Current returns the shown model.
func (d *Display) Current() models.NowPlaying { return d.current }

// Ready reports whether any pass was applied yet.
func (d *Display) Ready() bool { return d.set }
