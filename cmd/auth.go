package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/pifi/internal/session"
	"github.com/desertthunder/pifi/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin shows the authorization URL and QR code and waits for the redirect to deliver a token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireConfig(); err != nil {
		return err
	}

	store, closeStore, err := r.credentialStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	gate := session.NewGate(store, session.NewAuthorization(r.oauthConfig()), r.logger)
	if gate.Check(ctx) == session.Authenticated {
		r.writePlain("✓ Already authenticated\n")
		return nil
	}

	listenErr := r.startCallbackListener(ctx, gate.Authorization(), store)
	r.printAuthorization(gate.Authorization().URL())
	r.writePlain("Waiting for authorization on %s ...\n", r.config.Server.ListenAddr)

	pollCtx, stopPoll := context.WithCancel(ctx)
	defer stopPoll()
	go func() {
		select {
		case <-listenErr:
			stopPoll()
		case <-pollCtx.Done():
		}
	}()

	if _, err := gate.Poll(pollCtx, session.PollInterval); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: timed out waiting for authorization", shared.ErrAuthFailed)
		}
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlain("✓ Authentication successful\n")
	return nil
}

// AuthStatus reports whether a usable token is cached.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	store, closeStore, err := r.credentialStore()
	if err != nil {
		return err
	}
	defer closeStore()

	tok, err := store.CachedToken(ctx)
	switch {
	case errors.Is(err, shared.ErrNoToken):
		r.writePlain("✗ Not authenticated (run 'pifi auth login')\n")
		return nil
	case err != nil:
		return err
	case !session.ValidateToken(tok):
		r.writePlain("✗ Cached token is unusable (run 'pifi auth login')\n")
		return nil
	}

	r.writePlain("✓ Authenticated\n")
	if !tok.Expiry.IsZero() {
		r.writePlain("Access token expires: %s\n", tok.Expiry.Local().Format(time.RFC1123))
	}
	if tok.RefreshToken != "" {
		r.writePlain("Refresh token: present\n")
	}
	return nil
}

// AuthLogout deletes the cached token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	store, closeStore, err := r.credentialStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	r.writePlain("✓ Logged out\n")
	return nil
}
