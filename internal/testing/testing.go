// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/shared"
	"golang.org/x/oauth2"
)

// Call records one request made to a [FakeRemote].
type Call struct {
	Op       string
	DeviceID string
	Arg      any
}

// FakeRemote is a test double for [services.Remote].
//
// Fields may be changed between calls with [FakeRemote.Set]; every method records a [Call].
type FakeRemote struct {
	mu sync.Mutex

	DeviceList    []models.Device
	DevicesErr    error
	State         *models.Snapshot
	SnapshotErr   error
	SnapshotHook  func() // runs inside Snapshot before it returns
	PlaylistItems []models.Playlist
	PlaylistsErr  error
	CommandErr    error

	calls []Call
}

// Set runs fn with the fake locked so tests can swap fields while other goroutines call it.
func (f *FakeRemote) Set(fn func(f *FakeRemote)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *FakeRemote) record(op, deviceID string, arg any) {
	f.calls = append(f.calls, Call{Op: op, DeviceID: deviceID, Arg: arg})
}

// Calls returns a copy of the recorded calls.
func (f *FakeRemote) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Ops returns the recorded operation names in order.
func (f *FakeRemote) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]string, len(f.calls))
	for i, c := range f.calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many times op was called.
func (f *FakeRemote) Count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Last returns the most recent call to op.
func (f *FakeRemote) Last(op string) (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Op == op {
			return f.calls[i], true
		}
	}
	return Call{}, false
}

func (f *FakeRemote) Devices(ctx context.Context) ([]models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("devices", "", nil)
	if f.DevicesErr != nil {
		return nil, f.DevicesErr
	}
	return append([]models.Device(nil), f.DeviceList...), nil
}

func (f *FakeRemote) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	f.mu.Lock()
	f.record("snapshot", "", nil)
	hook, state, err := f.SnapshotHook, f.State, f.SnapshotErr
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, nil
	}
	s := *state
	return &s, nil
}

func (f *FakeRemote) command(op, deviceID string, arg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(op, deviceID, arg)
	return f.CommandErr
}

func (f *FakeRemote) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	return f.command("transfer", deviceID, play)
}

func (f *FakeRemote) Play(ctx context.Context, deviceID string) error {
	return f.command("play", deviceID, nil)
}

func (f *FakeRemote) PlayContext(ctx context.Context, deviceID, uri string) error {
	return f.command("play_context", deviceID, uri)
}

func (f *FakeRemote) Pause(ctx context.Context, deviceID string) error {
	return f.command("pause", deviceID, nil)
}

func (f *FakeRemote) Next(ctx context.Context, deviceID string) error {
	return f.command("next", deviceID, nil)
}

func (f *FakeRemote) Previous(ctx context.Context, deviceID string) error {
	return f.command("previous", deviceID, nil)
}

func (f *FakeRemote) SetVolume(ctx context.Context, deviceID string, percent int) error {
	return f.command("volume", deviceID, percent)
}

// Playlists serves PlaylistItems in pages.
func (f *FakeRemote) Playlists(ctx context.Context, offset, limit int) (models.PlaylistPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("playlists", "", offset)
	if f.PlaylistsErr != nil {
		return models.PlaylistPage{}, f.PlaylistsErr
	}
	if offset >= len(f.PlaylistItems) {
		return models.PlaylistPage{}, nil
	}
	end := min(offset+limit, len(f.PlaylistItems))
	return models.PlaylistPage{
		Items: append([]models.Playlist(nil), f.PlaylistItems[offset:end]...),
		Next:  end < len(f.PlaylistItems),
	}, nil
}

// FakeStore is an in-memory credential store.
type FakeStore struct {
	mu    sync.Mutex
	token *oauth2.Token
	err   error
	reads int
	saves int
}

// NewFakeStore creates a store holding tok (which may be nil).
func NewFakeStore(tok *oauth2.Token) *FakeStore {
	return &FakeStore{token: tok}
}

func (s *FakeStore) CachedToken(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	if s.token == nil {
		return nil, shared.ErrNoToken
	}
	t := *s.token
	return &t, nil
}

func (s *FakeStore) SaveToken(ctx context.Context, tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saves++
	t := *tok
	s.token = &t
	return nil
}

// Delete forgets the stored token.
func (s *FakeStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.token = nil
	return nil
}

// Put replaces the stored token without counting as a save.
func (s *FakeStore) Put(tok *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = tok
}

// Fail makes every subsequent call return err.
func (s *FakeStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *FakeStore) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *FakeStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}
