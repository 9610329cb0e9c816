// Package services defines the [Remote] interface for the remote playback authority and implements it for Spotify.
//
// # Remote Interface
//
// [Remote] is the opaque RPC boundary the player talks to: device listing, playback snapshot, transfer,
// transport (play/pause/next/previous), volume, and paginated playlists. Every call may fail with a
// transient network or expired-authorization error; the player swallows these per call site.
//
// # Spotify Implementation
//
// [SpotifyService] wraps github.com/zmb3/spotify/v2. It does not authenticate by itself: it is handed an
// *http.Client whose transport refreshes and persists OAuth tokens (see the session package).
// All requests pass one [rate.Limiter].
//
// # Error Handling
//
// Failures are wrapped with [shared.ErrAPIRequest]. A player state response without an item (HTTP 204 or
// an idle account) is not an error: [SpotifyService.Snapshot] returns a nil snapshot.
package services
