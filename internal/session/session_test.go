package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/desertthunder/pifi/internal/shared"
	tu "github.com/desertthunder/pifi/internal/testing"
	"golang.org/x/oauth2"
)

// newTokenServer serves a token endpoint handing out accessToken and recording the last form.
func newTokenServer(t *testing.T, accessToken string, form *url.Values) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if form != nil {
			*form = r.PostForm
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"token_type":    "Bearer",
			"refresh_token": "refresh-2",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    "client",
		RedirectURL: "http://127.0.0.1:8080/callback",
		Scopes:      []string{"user-read-playback-state"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/authorize",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func TestValidateToken(t *testing.T) {
	tc := []struct {
		name  string
		token *oauth2.Token
		want  bool
	}{
		{"nil", nil, false},
		{"empty access token", &oauth2.Token{RefreshToken: "r"}, false},
		{"fresh", &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(time.Hour)}, true},
		{"no expiry", &oauth2.Token{AccessToken: "a"}, true},
		{"expired with refresh", &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Now().Add(-time.Hour)}, true},
		{"expired without refresh", &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(-time.Hour)}, false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateToken(tt.token); got != tt.want {
				t.Errorf("ValidateToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorization(t *testing.T) {
	t.Run("URL carries state and PKCE challenge", func(t *testing.T) {
		auth := NewAuthorization(testConfig("http://unused"))
		u, err := url.Parse(auth.URL())
		if err != nil {
			t.Fatalf("failed to parse URL: %v", err)
		}

		q := u.Query()
		if q.Get("state") != auth.State() {
			t.Errorf("expected state %s, got %s", auth.State(), q.Get("state"))
		}
		if q.Get("code_challenge") == "" {
			t.Error("expected code_challenge")
		}
		if q.Get("code_challenge_method") != "S256" {
			t.Errorf("expected S256, got %s", q.Get("code_challenge_method"))
		}
		if q.Get("client_id") != "client" {
			t.Errorf("expected client id, got %s", q.Get("client_id"))
		}
	})

	t.Run("distinct requests use distinct state", func(t *testing.T) {
		a := NewAuthorization(testConfig("http://unused"))
		b := NewAuthorization(testConfig("http://unused"))
		if a.State() == b.State() {
			t.Error("expected unique state values")
		}
	})

	t.Run("Exchange rejects mismatched state", func(t *testing.T) {
		auth := NewAuthorization(testConfig("http://unused"))
		_, err := auth.Exchange(context.Background(), "other", "code")
		if !errors.Is(err, shared.ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("Exchange rejects missing code", func(t *testing.T) {
		auth := NewAuthorization(testConfig("http://unused"))
		_, err := auth.Exchange(context.Background(), auth.State(), "")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("Exchange sends verifier", func(t *testing.T) {
		var form url.Values
		server := newTokenServer(t, "access-1", &form)
		auth := NewAuthorization(testConfig(server.URL))

		tok, err := auth.Exchange(context.Background(), auth.State(), "the-code")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok.AccessToken != "access-1" {
			t.Errorf("expected access-1, got %s", tok.AccessToken)
		}
		if form.Get("code") != "the-code" {
			t.Errorf("expected code in request, got %s", form.Get("code"))
		}
		if form.Get("code_verifier") == "" {
			t.Error("expected code_verifier in request")
		}
	})
}

func TestNewHTTPClient(t *testing.T) {
	t.Run("persists refreshed token", func(t *testing.T) {
		var form url.Values
		tokenServer := newTokenServer(t, "access-2", &form)

		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer access-2" {
				t.Errorf("expected refreshed bearer, got %q", got)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer api.Close()

		expired := &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1", Expiry: time.Now().Add(-time.Hour)}
		store := tu.NewFakeStore(expired)
		client := NewHTTPClient(context.Background(), testConfig(tokenServer.URL), store, expired, nil)

		resp, err := client.Get(api.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		resp.Body.Close()

		if form.Get("grant_type") != "refresh_token" {
			t.Errorf("expected refresh grant, got %s", form.Get("grant_type"))
		}
		if store.Saves() != 1 {
			t.Errorf("expected 1 save, got %d", store.Saves())
		}
		saved, _ := store.CachedToken(context.Background())
		if saved.AccessToken != "access-2" {
			t.Errorf("expected stored access-2, got %s", saved.AccessToken)
		}
	})

	t.Run("valid token is not re-saved", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer api.Close()

		fresh := &oauth2.Token{AccessToken: "access-1", Expiry: time.Now().Add(time.Hour)}
		store := tu.NewFakeStore(fresh)
		client := NewHTTPClient(context.Background(), testConfig("http://unused"), store, fresh, nil)

		for range 2 {
			resp, err := client.Get(api.URL)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			resp.Body.Close()
		}

		if store.Saves() != 0 {
			t.Errorf("expected no saves, got %d", store.Saves())
		}
	})
}
