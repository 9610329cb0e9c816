package player

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/services"
	"github.com/desertthunder/pifi/internal/shared"
)

// Options configures a [Player].
type Options struct {
	DeviceName string
	QueueSize  int
	Artwork    ArtworkFetcher // nil disables cover art
	Logger     *log.Logger
}

// Player owns the queue, resolver, dispatcher and synchronizer for one authenticated remote.
type Player struct {
	remote       services.Remote
	queue        *Queue
	resolver     *Resolver
	dispatcher   *Dispatcher
	synchronizer *Synchronizer
	logger       *log.Logger
}

func New(remote services.Remote, opts Options) *Player {
	logger := shared.WithLogger(opts.Logger, "device", opts.DeviceName)
	resolver := NewResolver(remote, opts.DeviceName, logger)

	return &Player{
		remote:       remote,
		queue:        NewQueue(opts.QueueSize),
		resolver:     resolver,
		dispatcher:   NewDispatcher(remote, resolver, logger),
		synchronizer: NewSynchronizer(remote, opts.Artwork, logger),
		logger:       logger,
	}
}

// Start runs the dispatcher until ctx ends.
func (p *Player) Start(ctx context.Context) {
	go p.dispatcher.Run(ctx, p.queue)
}

// Enqueue hands cmd to the dispatcher without blocking.
func (p *Player) Enqueue(cmd models.Command) bool {
	if !p.queue.Enqueue(cmd) {
		p.logger.Warn("command queue full, dropping", "command", cmd)
		return false
	}
	p.logger.Debug("command queued", "command", cmd, "pending", p.queue.Len())
	return true
}

// Sync runs one synchronization pass.
func (p *Player) Sync(ctx context.Context, prev models.NowPlaying) Pass {
	return p.synchronizer.Sync(ctx, prev)
}

// Login performs the post-authentication setup: an initial device lookup and the full playlist listing.
func (p *Player) Login(ctx context.Context) ([]models.Playlist, error) {
	if _, ok := p.resolver.Resolve(ctx); !ok {
		p.logger.Warn("device not found yet, commands are dropped until it appears")
	}
	return AllPlaylists(ctx, p.remote)
}

func (p *Player) Resolver() *Resolver { return p.resolver }
func (p *Player) Queue() *Queue       { return p.queue }
