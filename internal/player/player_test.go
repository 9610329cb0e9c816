package player

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertthunder/pifi/internal/models"
	tu "github.com/desertthunder/pifi/internal/testing"
)

func playlistFixture(n int) []models.Playlist {
	items := make([]models.Playlist, n)
	for i := range items {
		items[i] = models.Playlist{ID: fmt.Sprint(i), Name: fmt.Sprintf("List %d", i), URI: fmt.Sprintf("spotify:playlist:%d", i)}
	}
	return items
}

func TestAllPlaylists(t *testing.T) {
	ctx := context.Background()

	t.Run("drains every page in order", func(t *testing.T) {
		remote := &tu.FakeRemote{PlaylistItems: playlistFixture(110)}

		all, err := AllPlaylists(ctx, remote)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(all) != 110 {
			t.Fatalf("expected 110, got %d", len(all))
		}
		for i, p := range all {
			if p.ID != fmt.Sprint(i) {
				t.Fatalf("position %d holds %s", i, p.ID)
			}
		}
		if n := remote.Count("playlists"); n != 3 {
			t.Errorf("expected 3 pages (50/50/10), got %d", n)
		}
	})

	t.Run("empty account", func(t *testing.T) {
		all, err := AllPlaylists(ctx, &tu.FakeRemote{})
		if err != nil || len(all) != 0 {
			t.Errorf("expected empty result, got %v %v", all, err)
		}
	})

	t.Run("error aborts", func(t *testing.T) {
		remote := &tu.FakeRemote{PlaylistItems: playlistFixture(10), PlaylistsErr: errors.New("boom")}
		if _, err := AllPlaylists(ctx, remote); err == nil {
			t.Error("expected error")
		}
	})
}

func TestPlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("Login resolves and lists playlists", func(t *testing.T) {
		remote := newRemote()
		remote.PlaylistItems = playlistFixture(3)
		p := New(remote, Options{DeviceName: deviceName})

		playlists, err := p.Login(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 3 {
			t.Errorf("expected 3 playlists, got %d", len(playlists))
		}
		if h, ok := p.Resolver().Current(); !ok || h.ID != "pi" {
			t.Errorf("expected resolved device, got %+v", h)
		}
	})

	t.Run("enqueued commands reach the remote", func(t *testing.T) {
		remote := newRemote()
		p := New(remote, Options{DeviceName: deviceName, QueueSize: 2})

		rctx, cancel := context.WithCancel(ctx)
		defer cancel()
		p.Start(rctx)

		if !p.Enqueue(models.NewNext()) {
			t.Fatal("expected enqueue")
		}
		deadline := time.After(2 * time.Second)
		for remote.Count("next") == 0 {
			select {
			case <-deadline:
				t.Fatal("timed out")
			case <-time.After(5 * time.Millisecond):
			}
		}
	})

	t.Run("full queue drops", func(t *testing.T) {
		p := New(newRemote(), Options{DeviceName: deviceName, QueueSize: 1})
		p.Enqueue(models.NewNext())
		if p.Enqueue(models.NewNext()) {
			t.Error("expected drop")
		}
	})
}

func TestLoop(t *testing.T) {
	remote := newRemote()
	remote.State = playing()
	p := New(remote, Options{DeviceName: deviceName})

	updates := make(chan models.NowPlaying, 8)
	loop := NewLoop(p, 5*time.Millisecond, func(np models.NowPlaying) {
		select {
		case updates <- np:
		default:
		}
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case np := <-updates:
		if np.Title != "Song" {
			t.Errorf("expected Song, got %s", np.Title)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no update applied")
	}

	remote.Set(func(f *tu.FakeRemote) { f.State = nil })
	time.Sleep(30 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected clean stop, got %v", err)
	}

	if loop.Display().Title != "Song" {
		t.Errorf("expected display kept after session ended, got %q", loop.Display().Title)
	}
}
