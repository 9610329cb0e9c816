package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/services"
	"github.com/desertthunder/pifi/internal/shared"
)

// DefaultVolume is assumed when the remote reports no device volume.
const DefaultVolume = 50

type handlerFunc func(ctx context.Context, device models.DeviceHandle, cmd models.Command) error

// Dispatcher executes commands one at a time against the resolved device.
type Dispatcher struct {
	remote   services.Remote
	resolver *Resolver
	logger   *log.Logger

	mu       sync.Mutex
	handlers map[models.CommandKind]handlerFunc
}

func NewDispatcher(remote services.Remote, resolver *Resolver, logger *log.Logger) *Dispatcher {
	d := &Dispatcher{
		remote:   remote,
		resolver: resolver,
		logger:   shared.WithLogger(logger, "component", "dispatcher"),
	}
	d.handlers = map[models.CommandKind]handlerFunc{
		models.TogglePlay:  d.togglePlay,
		models.Next:        d.next,
		models.Previous:    d.previous,
		models.VolumeDelta: d.volumeDelta,
		models.PlayContext: d.playContext,
	}
	return d
}

// Dispatch runs cmd. Calls are serialized.
//
// The device is confirmed by name before every command. Without a device it returns [shared.ErrNoDevice]
// and issues nothing; the command is not retried. A failed remote call invalidates the device handle.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd models.Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	handler, ok := d.handlers[cmd.Kind()]
	if !ok {
		return fmt.Errorf("%w: unknown command %s", shared.ErrInvalidArgument, cmd)
	}

	var device models.DeviceHandle
	if cmd.Kind() == models.PlayContext {
		device, ok = d.resolver.EnsureActive(ctx)
	} else {
		device, ok = d.resolver.Confirm(ctx)
	}
	if !ok {
		return fmt.Errorf("%w: %q", shared.ErrNoDevice, d.resolver.DeviceName())
	}

	if err := handler(ctx, device, cmd); err != nil {
		d.resolver.Invalidate()
		return fmt.Errorf("%s: %w", cmd.Kind(), err)
	}
	return nil
}

// Run dispatches queued commands until ctx ends. Failures are logged and swallowed.
func (d *Dispatcher) Run(ctx context.Context, queue *Queue) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-queue.Commands():
			if err := d.Dispatch(ctx, cmd); err != nil {
				d.logger.Debug("command dropped", "command", cmd, "id", cmd.ID(), "error", err)
				continue
			}
			d.logger.Debug("command sent", "command", cmd, "id", cmd.ID())
		}
	}
}

// togglePlay pauses when the remote reports playing and plays otherwise, including when there is no session.
func (d *Dispatcher) togglePlay(ctx context.Context, device models.DeviceHandle, _ models.Command) error {
	snapshot, err := d.remote.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snapshot != nil && snapshot.Playing {
		return d.remote.Pause(ctx, device.ID)
	}
	return d.remote.Play(ctx, device.ID)
}

func (d *Dispatcher) next(ctx context.Context, device models.DeviceHandle, _ models.Command) error {
	return d.remote.Next(ctx, device.ID)
}

func (d *Dispatcher) previous(ctx context.Context, device models.DeviceHandle, _ models.Command) error {
	return d.remote.Previous(ctx, device.ID)
}

// volumeDelta rebases on a fresh read of the device volume.
func (d *Dispatcher) volumeDelta(ctx context.Context, device models.DeviceHandle, cmd models.Command) error {
	snapshot, err := d.remote.Snapshot(ctx)
	if err != nil {
		return err
	}

	current := DefaultVolume
	if snapshot != nil && snapshot.HasVolume {
		current = snapshot.VolumePercent
	}
	return d.remote.SetVolume(ctx, device.ID, ClampVolume(current, cmd.Delta()))
}

func (d *Dispatcher) playContext(ctx context.Context, device models.DeviceHandle, cmd models.Command) error {
	return d.remote.PlayContext(ctx, device.ID, cmd.URI())
}

// ClampVolume returns current+delta limited to [0,100].
func ClampVolume(current, delta int) int {
	return max(0, min(100, current+delta))
}
