package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/shared"
	"golang.org/x/oauth2"
)

// State is the gate's position in the login lifecycle.
type State int

const (
	NoToken State = iota
	AwaitingUserAction
	Authenticated
)

func (s State) String() string {
	switch s {
	case NoToken:
		return "no_token"
	case AwaitingUserAction:
		return "awaiting_user_action"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// PollInterval is the cadence at which the gate checks the credential store.
const PollInterval = time.Second

// Gate blocks everything downstream until the credential store holds a valid token.
type Gate struct {
	store  CredentialStore
	auth   *Authorization
	logger *log.Logger

	mu    sync.Mutex
	state State
	token *oauth2.Token
	done  chan struct{}
}

// NewGate creates a gate in the NoToken state.
func NewGate(store CredentialStore, auth *Authorization, logger *log.Logger) *Gate {
	return &Gate{
		store:  store,
		auth:   auth,
		logger: shared.WithLogger(logger, "component", "auth"),
		done:   make(chan struct{}),
	}
}

// Authorization returns the pending request whose URL should be shown to the user.
func (g *Gate) Authorization() *Authorization { return g.auth }

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Token returns the token observed on authentication, or nil before it.
func (g *Gate) Token() *oauth2.Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// Done is closed once the gate reaches Authenticated.
func (g *Gate) Done() <-chan struct{} { return g.done }

// Check performs one poll of the credential store and returns the resulting state.
//
// The first check without a valid token issues the authorization URL (AwaitingUserAction). Once Authenticated,
// Check returns immediately without touching the store.
func (g *Gate) Check(ctx context.Context) State {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Authenticated {
		return g.state
	}

	tok, err := g.store.CachedToken(ctx)
	if err != nil && !errors.Is(err, shared.ErrNoToken) {
		g.logger.Debug("credential store read failed", "error", err)
	}
	if err == nil && ValidateToken(tok) {
		g.state = Authenticated
		g.token = tok
		close(g.done)
		g.logger.Info("authenticated")
		return g.state
	}

	if g.state == NoToken {
		g.state = AwaitingUserAction
		g.logger.Info("authorization required, open on your phone", "url", g.auth.URL())
	}
	return g.state
}

// Poll checks every interval until authenticated or ctx ends. It returns the token once, then stops.
func (g *Gate) Poll(ctx context.Context, interval time.Duration) (*oauth2.Token, error) {
	if g.Check(ctx) == Authenticated {
		return g.Token(), nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if g.Check(ctx) == Authenticated {
				return g.Token(), nil
			}
		}
	}
}
