// Package player reconciles the remote playback authority with the local remote control.
//
// # Command path
//
// Commands from the input pump and the UI go onto one bounded [Queue]. A single [Dispatcher] goroutine drains it
// and runs each command through a fixed handler table. Every transport command first needs a live device from the
// [Resolver]; without one the command is dropped. Replies are not trusted: the next synchronization pass is the
// source of truth.
//
// # Synchronization
//
// [Synchronizer.Sync] reads one snapshot and builds a complete [models.NowPlaying]. At most one pass is in flight;
// a pass started while another is still fetching artwork returns [Skipped] immediately. The owner of the display
// (the TUI model or the headless [Loop]) applies passes with [Display.Apply], which replaces state wholesale and
// ignores passes that carry no session.
//
// [Player] bundles these pieces around one [services.Remote].
package player
