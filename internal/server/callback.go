package server

import (
	"errors"
	"net/http"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/session"
	"github.com/desertthunder/pifi/internal/shared"
)

const confirmationPage = `<!DOCTYPE html>
<html>
<head>
    <title>Pi-Fi Player</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Pi-Fi Player: Auth successful</h1>
        <p>You may close this window.</p>
    </div>
</body>
</html>
`

// CallbackHandler completes the authorization-code redirect.
type CallbackHandler struct {
	auth   *session.Authorization
	store  session.CredentialStore
	path   string
	logger *log.Logger

	mu        sync.Mutex
	completed bool
}

// NewCallbackHandler serves the path of redirectURI ("/callback" when it has none).
func NewCallbackHandler(auth *session.Authorization, store session.CredentialStore, redirectURI string, logger *log.Logger) *CallbackHandler {
	path := "/callback"
	if u, err := url.Parse(redirectURI); err == nil && u.Path != "" && u.Path != "/" {
		path = u.Path
	}
	return &CallbackHandler{
		auth:   auth,
		store:  store,
		path:   path,
		logger: shared.WithLogger(logger, "component", "callback"),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP exchanges the code and stores the token. After one success, later hits only get the page.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.completed {
		writeConfirmation(w)
		return
	}

	q := r.URL.Query()
	if errParam := q.Get("error"); errParam != "" {
		h.logger.Warn("authorization denied", "error", errParam, "description", q.Get("error_description"))
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.auth.Exchange(r.Context(), q.Get("state"), q.Get("code"))
	switch {
	case errors.Is(err, shared.ErrInvalidState), q.Get("code") == "":
		h.logger.Warn("rejected callback", "error", err)
		http.Error(w, "Invalid callback parameters", http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("token exchange failed", "error", err)
		http.Error(w, "Token exchange failed", http.StatusBadGateway)
		return
	}

	if err := h.store.SaveToken(r.Context(), token); err != nil {
		h.logger.Error("failed to store token", "error", err)
		http.Error(w, "Failed to store token", http.StatusInternalServerError)
		return
	}

	h.completed = true
	h.logger.Info("authorization completed")
	writeConfirmation(w)
}

func writeConfirmation(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(confirmationPage))
}
