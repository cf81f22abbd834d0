package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/models"
	"go.uber.org/zap"
)

type applicationService struct {
	client Requester
	logger *zap.Logger
}

// NewApplicationService creates a new adoption application service
func NewApplicationService(client Requester, logger *zap.Logger) *applicationService {
	return &applicationService{
		client: client,
		logger: logger,
	}
}

// Create submits an adoption application
func (s *applicationService) Create(ctx context.Context, input models.ApplicationInput) *api.Envelope {
	return s.client.Post(ctx, "/adoptions", input)
}

// Mine retrieves the signed-in user's applications
func (s *applicationService) Mine(ctx context.Context) *api.Envelope {
	return s.client.Get(ctx, "/adoptions/my-applications", nil)
}

// All retrieves every application (admin only). limit <= 0 leaves the backend default.
func (s *applicationService) All(ctx context.Context, limit int) *api.Envelope {
	var params url.Values
	if limit > 0 {
		params = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	return s.client.Get(ctx, "/adoptions/admin/all", params)
}

// Get retrieves an application by its ID
func (s *applicationService) Get(ctx context.Context, id models.ID) *api.Envelope {
	return s.client.Get(ctx, "/adoptions/"+escape(id.String()), nil)
}

// UpdateStatus moves an application to status (admin only)
func (s *applicationService) UpdateStatus(ctx context.Context, id models.ID, status models.Status) *api.Envelope {
	return s.client.Put(ctx, "/adoptions/admin/"+escape(id.String())+"/status", models.StatusUpdate{Status: status})
}

// Delete withdraws an application
func (s *applicationService) Delete(ctx context.Context, id models.ID) *api.Envelope {
	return s.client.Delete(ctx, "/adoptions/"+escape(id.String()))
}
