// package services defines interface Remote for the streaming service's Web API
package services

import (
	"context"

	"github.com/desertthunder/pifi/internal/models"
)

// Remote is the remote playback authority. Every method is a single RPC and may fail with a transient or
// authorization error; callers treat any error as "no data this cycle".
type Remote interface {
	// Devices lists the devices the account can route audio to.
	Devices(ctx context.Context) ([]models.Device, error)

	// Snapshot reads the current playback state. It returns (nil, nil) when there is no active session.
	Snapshot(ctx context.Context) (*models.Snapshot, error)

	// TransferPlayback routes playback to deviceID, optionally starting it.
	TransferPlayback(ctx context.Context, deviceID string, play bool) error

	// Play resumes playback on deviceID.
	Play(ctx context.Context, deviceID string) error

	// PlayContext starts the context (playlist, album) uri on deviceID.
	PlayContext(ctx context.Context, deviceID, uri string) error

	// Pause pauses playback on deviceID.
	Pause(ctx context.Context, deviceID string) error

	// Next skips to the next track on deviceID.
	Next(ctx context.Context, deviceID string) error

	// Previous skips to the previous track on deviceID.
	Previous(ctx context.Context, deviceID string) error

	// SetVolume sets the absolute volume percent on deviceID.
	SetVolume(ctx context.Context, deviceID string, percent int) error

	// Playlists returns one page of the current user's playlists.
	Playlists(ctx context.Context, offset, limit int) (models.PlaylistPage, error)
}

// PlaylistPageSize is the largest page the playlist endpoint serves.
const PlaylistPageSize = 50
