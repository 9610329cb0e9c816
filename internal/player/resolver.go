package player

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/services"
	"github.com/desertthunder/pifi/internal/shared"
)

// Resolver keeps the handle of the configured playback device.
//
// Every command confirms the handle against a fresh device listing. The cached handle only stands in
// when that listing fails; it is cleared when a listing finds no match or a command against it fails.
type Resolver struct {
	remote services.Remote
	name   string
	logger *log.Logger
	now    func() time.Time

	mu     sync.Mutex
	handle *models.DeviceHandle
}

func NewResolver(remote services.Remote, deviceName string, logger *log.Logger) *Resolver {
	return &Resolver{
		remote: remote,
		name:   deviceName,
		logger: shared.WithLogger(logger, "component", "resolver"),
		now:    time.Now,
	}
}

// DeviceName is the display name being resolved.
func (r *Resolver) DeviceName() string { return r.name }

// Resolve lists devices and caches the first whose name equals the configured name exactly.
//
// No match clears the cache. A failed listing leaves the cache alone and reports no device.
func (r *Resolver) Resolve(ctx context.Context) (models.DeviceHandle, bool) {
	h, ok, _ := r.lookup(ctx)
	return h, ok
}

// Confirm re-lists devices before a command so a restarted endpoint with a new id is picked up.
// When the listing itself fails the cached handle, if any, is used as is.
func (r *Resolver) Confirm(ctx context.Context) (models.DeviceHandle, bool) {
	h, ok, err := r.lookup(ctx)
	if err != nil {
		return r.Current()
	}
	return h, ok
}

func (r *Resolver) lookup(ctx context.Context) (models.DeviceHandle, bool, error) {
	devices, err := r.remote.Devices(ctx)
	if err != nil {
		r.logger.Debug("device listing failed", "error", err)
		return models.DeviceHandle{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range devices {
		if d.Name != r.name {
			continue
		}
		if r.handle != nil && r.handle.ID == d.ID {
			return *r.handle, true, nil
		}
		if r.handle != nil {
			r.logger.Info("device id changed", "name", d.Name, "old", r.handle.ID, "new", d.ID)
		}
		r.handle = &models.DeviceHandle{ID: d.ID, Name: d.Name, ResolvedAt: r.now()}
		r.logger.Info("device resolved", "name", d.Name, "id", d.ID)
		return *r.handle, true, nil
	}

	if r.handle != nil {
		r.logger.Info("device no longer listed", "name", r.name)
	}
	r.handle = nil
	return models.DeviceHandle{}, false, nil
}

// Current returns the cached handle without any remote call.
func (r *Resolver) Current() (models.DeviceHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle == nil {
		return models.DeviceHandle{}, false
	}
	return *r.handle, true
}

// Invalidate drops the cached handle.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handle = nil
}

// EnsureActive confirms the device and transfers playback to it, starting it.
func (r *Resolver) EnsureActive(ctx context.Context) (models.DeviceHandle, bool) {
	h, ok := r.Confirm(ctx)
	if !ok {
		return h, false
	}
	if err := r.remote.TransferPlayback(ctx, h.ID, true); err != nil {
		r.logger.Debug("transfer failed", "device", h.ID, "error", err)
		r.Invalidate()
		return models.DeviceHandle{}, false
	}
	return h, true
}
