// Spotify Web API implementation of [Remote]
//
// Backed by github.com/zmb3/spotify/v2; authentication is handled by the *http.Client passed in.
package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

var _ Remote = (*SpotifyService)(nil)

// SpotifyService implements [Remote] against the Spotify Web API.
//
// All calls share one [rate.Limiter] so bursts of encoder steps cannot trip the API's rate limit.
type SpotifyService struct {
	client  *spotify.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	HTTPClient *http.Client // authenticated client, see session.NewHTTPClient
	BaseURL    string       // optional API base, must end with a slash
	RateLimit  rate.Limit   // requests per second, defaults to 10
	Burst      int          // defaults to 5
	Logger     *log.Logger
}

// NewSpotifyService creates a new Spotify remote.
func NewSpotifyService(opts SpotifyOpts) *SpotifyService {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = 10
	}
	if opts.Burst == 0 {
		opts.Burst = 5
	}

	var clientOpts []spotify.ClientOption
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(opts.BaseURL))
	}

	return &SpotifyService{
		client:  spotify.New(opts.HTTPClient, clientOpts...),
		limiter: rate.NewLimiter(opts.RateLimit, opts.Burst),
		logger:  shared.WithLogger(opts.Logger, "component", "spotify"),
	}
}

// NewOAuthConfig builds the authorization-code configuration for the Spotify accounts service.
//
// Without a client secret the client authenticates with PKCE, so credentials go in the request body.
func NewOAuthConfig(clientID, clientSecret, redirectURI string, scopes []string) *oauth2.Config {
	endpoint := oauth2.Endpoint{AuthURL: spotifyauth.AuthURL, TokenURL: spotifyauth.TokenURL}
	if clientSecret == "" {
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       scopes,
		Endpoint:     endpoint,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// do waits for the limiter and wraps failures with [shared.ErrAPIRequest].
func (s *SpotifyService) do(ctx context.Context, op string, fn func() error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
	}
	start := time.Now()
	if err := fn(); err != nil {
		s.logger.Debug("request failed", "op", op, "error", err, "elapsed", time.Since(start))
		return fmt.Errorf("%w: %s: %w", shared.ErrAPIRequest, op, err)
	}
	return nil
}

// Devices lists the account's playback devices.
func (s *SpotifyService) Devices(ctx context.Context) ([]models.Device, error) {
	var devices []spotify.PlayerDevice
	err := s.do(ctx, "devices", func() (err error) {
		devices, err = s.client.PlayerDevices(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.Device, 0, len(devices))
	for _, d := range devices {
		result = append(result, models.Device{
			ID:            string(d.ID),
			Name:          d.Name,
			Type:          d.Type,
			Active:        d.Active,
			VolumePercent: int(d.Volume),
		})
	}
	return result, nil
}

// Snapshot reads the player state. A response without a current item means no active session.
func (s *SpotifyService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	var state *spotify.PlayerState
	err := s.do(ctx, "player_state", func() (err error) {
		state, err = s.client.PlayerState(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if state == nil || state.Item == nil {
		return nil, nil
	}

	item := state.Item
	snapshot := &models.Snapshot{
		Playing:       state.Playing,
		Title:         item.Name,
		Duration:      time.Duration(int(item.Duration)) * time.Millisecond,
		Position:      time.Duration(int(state.Progress)) * time.Millisecond,
		VolumePercent: int(state.Device.Volume),
		HasVolume:     state.Device.ID != "",
		DeviceID:      string(state.Device.ID),
	}
	for _, a := range item.Artists {
		snapshot.Artists = append(snapshot.Artists, a.Name)
	}
	for _, img := range item.Album.Images {
		snapshot.ArtworkURLs = append(snapshot.ArtworkURLs, img.URL)
	}
	return snapshot, nil
}

// TransferPlayback routes playback to deviceID.
func (s *SpotifyService) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	return s.do(ctx, "transfer", func() error {
		return s.client.TransferPlayback(ctx, spotify.ID(deviceID), play)
	})
}

// Play resumes playback on deviceID.
func (s *SpotifyService) Play(ctx context.Context, deviceID string) error {
	return s.do(ctx, "play", func() error {
		return s.client.PlayOpt(ctx, playOn(deviceID))
	})
}

// PlayContext starts uri on deviceID.
func (s *SpotifyService) PlayContext(ctx context.Context, deviceID, uri string) error {
	opts := playOn(deviceID)
	contextURI := spotify.URI(uri)
	opts.PlaybackContext = &contextURI
	return s.do(ctx, "play_context", func() error {
		return s.client.PlayOpt(ctx, opts)
	})
}

// Pause pauses playback on deviceID.
func (s *SpotifyService) Pause(ctx context.Context, deviceID string) error {
	return s.do(ctx, "pause", func() error {
		return s.client.PauseOpt(ctx, playOn(deviceID))
	})
}

// Next skips forward on deviceID.
func (s *SpotifyService) Next(ctx context.Context, deviceID string) error {
	return s.do(ctx, "next", func() error {
		return s.client.NextOpt(ctx, playOn(deviceID))
	})
}

// Previous skips back on deviceID.
func (s *SpotifyService) Previous(ctx context.Context, deviceID string) error {
	return s.do(ctx, "previous", func() error {
		return s.client.PreviousOpt(ctx, playOn(deviceID))
	})
}

// SetVolume sets the volume percent on deviceID.
func (s *SpotifyService) SetVolume(ctx context.Context, deviceID string, percent int) error {
	return s.do(ctx, "volume", func() error {
		return s.client.VolumeOpt(ctx, percent, playOn(deviceID))
	})
}

// Playlists returns one page of the current user's playlists.
func (s *SpotifyService) Playlists(ctx context.Context, offset, limit int) (models.PlaylistPage, error) {
	if limit <= 0 || limit > PlaylistPageSize {
		limit = PlaylistPageSize
	}

	var page *spotify.SimplePlaylistPage
	err := s.do(ctx, "playlists", func() (err error) {
		page, err = s.client.CurrentUsersPlaylists(ctx, spotify.Limit(limit), spotify.Offset(offset))
		return err
	})
	if err != nil {
		return models.PlaylistPage{}, err
	}

	result := models.PlaylistPage{Next: page.Next != ""}
	for _, p := range page.Playlists {
		result.Items = append(result.Items, models.Playlist{
			ID:         string(p.ID),
			Name:       p.Name,
			URI:        string(p.URI),
			TrackCount: int(p.Tracks.Total),
		})
	}
	return result, nil
}

func playOn(deviceID string) *spotify.PlayOptions {
	id := spotify.ID(deviceID)
	return &spotify.PlayOptions{DeviceID: &id}
}
