package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/pifi/internal/formatter"
	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/player"
	"github.com/urfave/cli/v3"
)

type deviceOutput struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Active        bool   `json:"active"`
	VolumePercent int    `json:"volume_percent"`
	Configured    bool   `json:"configured"`
}

type playlistOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URI        string `json:"uri"`
	TrackCount int    `json:"track_count"`
}

// Devices lists playback devices and marks the one the remote would resolve to.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	remote, done, err := r.connectedRemote(ctx)
	if err != nil {
		return err
	}
	defer done()

	devices, err := remote.Devices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	resolved := false
	out := make([]deviceOutput, 0, len(devices))
	for _, d := range devices {
		configured := !resolved && d.Name == r.config.DeviceName
		resolved = resolved || configured
		out = append(out, deviceOutput{
			ID:            d.ID,
			Name:          d.Name,
			Type:          d.Type,
			Active:        d.Active,
			VolumePercent: d.VolumePercent,
			Configured:    configured,
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(out, false)
	}

	r.writePlainHeader("Devices")
	if len(out) == 0 {
		r.writePlain("No devices visible. Is the Spotify Connect client running?\n")
		return nil
	}
	for _, d := range out {
		marker := " "
		if d.Configured {
			marker = "*"
		}
		state := ""
		if d.Active {
			state = " (active)"
		}
		r.writePlain("%s %s [%s] vol %d%%%s\n", marker, d.Name, d.Type, d.VolumePercent, state)
	}
	if !resolved {
		r.writePlainln("✗ Configured device %q not found", r.config.DeviceName)
	}
	return nil
}

// Playlists lists every playlist of the user, following pagination to the end.
//
// With --format the listing is rendered by [formatter], to --output when given.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	remote, done, err := r.connectedRemote(ctx)
	if err != nil {
		return err
	}
	defer done()

	playlists, err := player.AllPlaylists(ctx, remote)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.IsSet("format") || cmd.IsSet("output") {
		return r.exportPlaylists(cmd, playlists)
	}

	if cmd.Bool("json") {
		out := make([]playlistOutput, 0, len(playlists))
		for _, p := range playlists {
			out = append(out, playlistOutput{ID: p.ID, Name: p.Name, URI: p.URI, TrackCount: p.TrackCount})
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, p := range playlists {
		r.writePlain("%s (%d tracks)\n  %s\n", p.Name, p.TrackCount, p.URI)
	}
	return nil
}

func (r *Runner) exportPlaylists(cmd *cli.Command, playlists []models.Playlist) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(format, playlists, path)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d playlists to %s\n", len(playlists), written)
		return nil
	}

	data, err := formatter.Render(format, playlists)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
