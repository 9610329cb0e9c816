package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/shared"
	"golang.org/x/oauth2"
)

// CredentialStore is the delegated token cache.
type CredentialStore interface {
	CachedToken(ctx context.Context) (*oauth2.Token, error)
	SaveToken(ctx context.Context, tok *oauth2.Token) error
}

// ValidateToken reports whether tok can authorize requests, either directly or after a refresh.
func ValidateToken(tok *oauth2.Token) bool {
	if tok == nil || tok.AccessToken == "" {
		return false
	}
	return tok.Valid() || tok.RefreshToken != ""
}

// Authorization is one pending authorization-code request. It is immutable after construction.
type Authorization struct {
	config   *oauth2.Config
	state    string
	verifier string
	url      string
}

// NewAuthorization creates the request with a fresh state and PKCE verifier.
func NewAuthorization(config *oauth2.Config) *Authorization {
	state := shared.GenerateID()
	verifier := oauth2.GenerateVerifier()
	return &Authorization{
		config:   config,
		state:    state,
		verifier: verifier,
		url:      config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)),
	}
}

func (a *Authorization) State() string { return a.state }
func (a *Authorization) URL() string   { return a.url }

// Exchange trades the callback's code for a token after checking state.
func (a *Authorization) Exchange(ctx context.Context, state, code string) (*oauth2.Token, error) {
	if state != a.state {
		return nil, shared.ErrInvalidState
	}
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", shared.ErrAuthFailed)
	}

	tok, err := a.config.Exchange(ctx, code, oauth2.VerifierOption(a.verifier))
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %w", shared.ErrAuthFailed, err)
	}
	return tok, nil
}

// NewHTTPClient returns a client authorizing with tok and refreshing through config.
//
// Refreshed tokens are written back to store; a failed write is logged and the request proceeds.
func NewHTTPClient(ctx context.Context, config *oauth2.Config, store CredentialStore, tok *oauth2.Token, logger *log.Logger) *http.Client {
	src := &savingTokenSource{
		base:   config.TokenSource(ctx, tok),
		store:  store,
		last:   tok.AccessToken,
		logger: shared.WithLogger(logger, "component", "token"),
	}
	return oauth2.NewClient(ctx, src)
}

type savingTokenSource struct {
	base   oauth2.TokenSource
	store  CredentialStore
	logger *log.Logger

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrNotAuthenticated, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := s.store.SaveToken(context.Background(), tok); err != nil {
			s.logger.Warn("failed to persist refreshed token", "error", err)
		} else {
			s.logger.Debug("token refreshed", "expiry", tok.Expiry)
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
