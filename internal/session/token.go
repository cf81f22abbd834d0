package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/petadoption/webclient/internal/storage"
	"go.uber.org/zap"
)

// TokenResolver finds the bearer token for outgoing requests.
//
// The cookie store is consulted first, then durable storage. It implements api.TokenSource.
type TokenResolver struct {
	cookies storage.Store
	store   storage.Store
	logger  *zap.Logger
}

// NewTokenResolver creates a resolver. cookies may be nil when no cookie jar is in use.
func NewTokenResolver(cookies, store storage.Store, logger *zap.Logger) *TokenResolver {
	return &TokenResolver{
		cookies: cookies,
		store:   store,
		logger:  logger,
	}
}

// Token returns the stored bearer token, or an empty string when there is none.
// Storage errors are logged and treated as no token.
func (r *TokenResolver) Token(ctx context.Context) string {
	if r.cookies != nil {
		token, ok, err := r.cookies.Get(ctx, storage.TokenKey)
		if err != nil {
			r.logger.Warn("failed to read token cookie", zap.Error(err))
		} else if ok && token != "" {
			return token
		}
	}

	token, ok, err := r.store.Get(ctx, storage.TokenKey)
	if err != nil {
		r.logger.Warn("failed to read stored token", zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// Save persists token to durable storage
func (r *TokenResolver) Save(ctx context.Context, token string) error {
	if err := r.store.Set(ctx, storage.TokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Clear removes the token from durable storage and expires the token cookie.
// Clearing an absent token is a no-op.
func (r *TokenResolver) Clear(ctx context.Context) error {
	var errs []error
	if err := r.store.Delete(ctx, storage.TokenKey); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete stored token: %w", err))
	}
	if r.cookies != nil {
		if err := r.cookies.Delete(ctx, storage.TokenKey); err != nil {
			errs = append(errs, fmt.Errorf("failed to expire token cookie: %w", err))
		}
	}
	return errors.Join(errs...)
}
