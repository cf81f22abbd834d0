package services

import (
	"context"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/models"
	"go.uber.org/zap"
)

type authService struct {
	client Requester
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(client Requester, logger *zap.Logger) *authService {
	return &authService{
		client: client,
		logger: logger,
	}
}

// Register creates an account
func (s *authService) Register(ctx context.Context, reg models.Registration) *api.Envelope {
	return s.client.Post(ctx, "/auth/register", reg)
}

// Login submits credentials
func (s *authService) Login(ctx context.Context, creds models.Credentials) *api.Envelope {
	return s.client.Post(ctx, "/auth/login", creds)
}

// Logout ends the backend session
func (s *authService) Logout(ctx context.Context) *api.Envelope {
	return s.client.Post(ctx, "/auth/logout", nil)
}

// CurrentUser returns the user the bearer token belongs to
func (s *authService) CurrentUser(ctx context.Context) *api.Envelope {
	return s.client.Get(ctx, "/auth/me", nil)
}
