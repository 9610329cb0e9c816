package session

import (
	"context"
	"errors"
	"testing"
	"time"

	tu "github.com/desertthunder/pifi/internal/testing"
	"golang.org/x/oauth2"
)

func TestGate(t *testing.T) {
	ctx := context.Background()
	valid := &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Now().Add(time.Hour)}

	t.Run("starts without token", func(t *testing.T) {
		gate := NewGate(tu.NewFakeStore(nil), NewAuthorization(testConfig("http://unused")), nil)
		if gate.State() != NoToken {
			t.Errorf("expected NoToken, got %s", gate.State())
		}
		if gate.Token() != nil {
			t.Error("expected no token")
		}
	})

	t.Run("awaits user action until a token is stored", func(t *testing.T) {
		store := tu.NewFakeStore(nil)
		gate := NewGate(store, NewAuthorization(testConfig("http://unused")), nil)

		if got := gate.Check(ctx); got != AwaitingUserAction {
			t.Fatalf("expected AwaitingUserAction, got %s", got)
		}
		if got := gate.Check(ctx); got != AwaitingUserAction {
			t.Fatalf("expected AwaitingUserAction, got %s", got)
		}

		store.Put(valid)
		if got := gate.Check(ctx); got != Authenticated {
			t.Fatalf("expected Authenticated, got %s", got)
		}
		if gate.Token().AccessToken != "a" {
			t.Errorf("expected token to be kept, got %+v", gate.Token())
		}

		select {
		case <-gate.Done():
		default:
			t.Error("expected Done to be closed")
		}
	})

	t.Run("invalid token keeps waiting", func(t *testing.T) {
		expired := &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(-time.Minute)}
		gate := NewGate(tu.NewFakeStore(expired), NewAuthorization(testConfig("http://unused")), nil)
		if got := gate.Check(ctx); got != AwaitingUserAction {
			t.Errorf("expected AwaitingUserAction, got %s", got)
		}
	})

	t.Run("store errors keep waiting", func(t *testing.T) {
		store := tu.NewFakeStore(valid)
		store.Fail(errors.New("disk gone"))
		gate := NewGate(store, NewAuthorization(testConfig("http://unused")), nil)
		if got := gate.Check(ctx); got != AwaitingUserAction {
			t.Errorf("expected AwaitingUserAction, got %s", got)
		}
	})

	t.Run("never re-entered after authentication", func(t *testing.T) {
		store := tu.NewFakeStore(valid)
		gate := NewGate(store, NewAuthorization(testConfig("http://unused")), nil)
		gate.Check(ctx)
		reads := store.Reads()

		store.Put(nil)
		for range 3 {
			if got := gate.Check(ctx); got != Authenticated {
				t.Fatalf("expected Authenticated, got %s", got)
			}
		}
		if store.Reads() != reads {
			t.Errorf("expected no further store reads, got %d more", store.Reads()-reads)
		}
	})

	t.Run("Poll returns once the token appears", func(t *testing.T) {
		store := tu.NewFakeStore(nil)
		gate := NewGate(store, NewAuthorization(testConfig("http://unused")), nil)

		go func() {
			time.Sleep(30 * time.Millisecond)
			store.Put(valid)
		}()

		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		tok, err := gate.Poll(pctx, 5*time.Millisecond)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok == nil || tok.AccessToken != "a" {
			t.Errorf("unexpected token %+v", tok)
		}
		if gate.State() != Authenticated {
			t.Errorf("expected Authenticated, got %s", gate.State())
		}
	})

	t.Run("Poll stops with the context", func(t *testing.T) {
		gate := NewGate(tu.NewFakeStore(nil), NewAuthorization(testConfig("http://unused")), nil)
		pctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		if _, err := gate.Poll(pctx, 5*time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
		if gate.State() != AwaitingUserAction {
			t.Errorf("expected AwaitingUserAction, got %s", gate.State())
		}
	})
}
