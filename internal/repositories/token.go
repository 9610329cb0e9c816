package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/pifi/internal/shared"
	"golang.org/x/oauth2"
)

// TokenRepository persists OAuth tokens for one client id in SQLite.
//
// It is the remote's credential store: the callback listener writes it, the auth gate and the
// refreshing token source read and update it.
type TokenRepository struct {
	db       *sql.DB
	clientID string
}

// NewTokenRepository creates a new [TokenRepository] scoped to clientID.
func NewTokenRepository(db *sql.DB, clientID string) *TokenRepository {
	return &TokenRepository{db: db, clientID: clientID}
}

// CachedToken returns the stored token, or [shared.ErrNoToken] when nothing was stored yet.
func (r *TokenRepository) CachedToken(ctx context.Context) (*oauth2.Token, error) {
	query := `
		SELECT access_token, token_type, refresh_token, expiry
		FROM oauth_tokens
		WHERE client_id = ?
	`

	var (
		token  oauth2.Token
		expiry sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, r.clientID).Scan(&token.AccessToken, &token.TokenType, &token.RefreshToken, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}
	if expiry.Valid {
		token.Expiry = expiry.Time
	}

	return &token, nil
}

// SaveToken upserts token. A refreshed token without a refresh token keeps the stored one.
func (r *TokenRepository) SaveToken(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidArgument)
	}

	var expiry sql.NullTime
	if !token.Expiry.IsZero() {
		expiry = sql.NullTime{Time: token.Expiry.UTC(), Valid: true}
	}
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	scope, _ := token.Extra("scope").(string)

	query := `
		INSERT INTO oauth_tokens (client_id, access_token, token_type, refresh_token, expiry, scope, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			access_token = excluded.access_token,
			token_type = excluded.token_type,
			refresh_token = CASE WHEN excluded.refresh_token = '' THEN oauth_tokens.refresh_token ELSE excluded.refresh_token END,
			expiry = excluded.expiry,
			scope = CASE WHEN excluded.scope = '' THEN oauth_tokens.scope ELSE excluded.scope END,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, r.clientID, token.AccessToken, tokenType, token.RefreshToken, expiry, scope, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Delete removes the stored token, forcing a new authorization on next start.
func (r *TokenRepository) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM oauth_tokens WHERE client_id = ?", r.clientID); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
