package services

import (
	"context"

	"github.com/petadoption/webclient/internal/api"
	"go.uber.org/zap"
)

type statisticsService struct {
	client Requester
	logger *zap.Logger
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(client Requester, logger *zap.Logger) *statisticsService {
	return &statisticsService{
		client: client,
		logger: logger,
	}
}

// Dashboard retrieves the admin dashboard totals
func (s *statisticsService) Dashboard(ctx context.Context) *api.Envelope {
	return s.client.Get(ctx, "/statistics/dashboard", nil)
}

// Applications retrieves application statistics
func (s *statisticsService) Applications(ctx context.Context) *api.Envelope {
	return s.client.Get(ctx, "/statistics/applications", nil)
}

// Pets retrieves pet statistics
func (s *statisticsService) Pets(ctx context.Context) *api.Envelope {
	return s.client.Get(ctx, "/statistics/pets", nil)
}

// Users retrieves user statistics
func (s *statisticsService) Users(ctx context.Context) *api.Envelope {
	return s.client.Get(ctx, "/statistics/users", nil)
}
