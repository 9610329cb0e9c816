// Package ui implements the remote's terminal display using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [AuthView] : the authorization URL as text and QR code, polled once per second until a token appears
//  2. [PlayerView] : cover art, title, artists, progress, volume and the playlist list
//
// The [Model] is the cooperative loop: a one second tick starts a synchronization pass off the loop, and the
// resulting [player.Pass] comes back as a message that replaces the shown state wholesale. Keys never touch
// playback state directly; they enqueue [models.Command] values, the same path the GPIO buttons use.
//
// Keyboard: space/p toggles play, n next, b previous, +/- volume, enter starts the selected playlist, q quits.
package ui
