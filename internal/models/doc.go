// Package models defines the value types shared by the remote, the input layer, and the player.
//
// All types here are plain values. They carry no behavior beyond small accessors and are safe to copy.
//
//   - [Command] : a logical remote-control command (toggle, next, previous, volume delta, play context)
//   - [Device] / [DeviceHandle] : a device listed by the remote / the resolved target device
//   - [Snapshot] : one complete read of remote playback state
//   - [NowPlaying] : what the display shows, replaced wholesale on every successful synchronization
//   - [Playlist] / [PlaylistPage] : user playlists as returned page by page by the remote
package models
