package player

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/shared"
)

// Loop is the headless display owner: it ticks the synchronizer and applies passes on its own goroutine.
type Loop struct {
	player   *Player
	interval time.Duration
	logger   *log.Logger
	display  Display
	onUpdate func(models.NowPlaying)
}

// NewLoop creates a loop. onUpdate, if set, runs on the loop goroutine after each applied pass.
func NewLoop(p *Player, interval time.Duration, onUpdate func(models.NowPlaying), logger *log.Logger) *Loop {
	if interval <= 0 {
		interval = SyncInterval
	}
	return &Loop{
		player:   p,
		interval: interval,
		onUpdate: onUpdate,
		logger:   shared.WithLogger(logger, "component", "loop"),
	}
}

// Run ticks until ctx ends. Each pass runs on its own goroutine so a slow artwork fetch never delays the ticker.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	passes := make(chan Pass)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			prev := l.display.Current()
			go func() {
				p := l.player.Sync(ctx, prev)
				select {
				case passes <- p:
				case <-ctx.Done():
				}
			}()
		case p := <-passes:
			l.apply(p)
		}
	}
}

func (l *Loop) apply(p Pass) {
	before := l.display.Current()
	if !l.display.Apply(p) {
		l.logger.Debug("display kept", "outcome", p.Outcome.String(), "error", p.Err)
		return
	}
	now := l.display.Current()
	if now.Title != before.Title || now.Artists != before.Artists || now.Playing != before.Playing {
		l.logger.Info("now playing", "title", now.Title, "artists", now.Artists, "playing", now.Playing)
	}
	if l.onUpdate != nil {
		l.onUpdate(now)
	}
}

// Display returns the current model. Only call from the goroutine running [Loop.Run] or after it returned.
func (l *Loop) Display() models.NowPlaying {
	return l.display.Current()
}
