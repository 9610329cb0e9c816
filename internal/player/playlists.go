package player

import (
	"context"

	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/services"
)

// AllPlaylists drains every page of the user's playlists, in order.
func AllPlaylists(ctx context.Context, remote services.Remote) ([]models.Playlist, error) {
	var all []models.Playlist
	for offset := 0; ; {
		page, err := remote.Playlists(ctx, offset, services.PlaylistPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if !page.Next || len(page.Items) == 0 {
			return all, nil
		}
		offset += len(page.Items)
	}
}
