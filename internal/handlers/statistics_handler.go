package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/petadoption/webclient/internal/models"
	"go.uber.org/zap"
)

// StatisticsService is the interface that wraps methods for admin statistics.
type StatisticsService interface {
	// Method Dashboard returns the platform totals in the nested {pets, applications, users} form.
	Dashboard(ctx context.Context) (models.StatsBreakdown, error)
	// Method Pets returns pet counts by species and status.
	Pets(ctx context.Context) (models.StatsBreakdown, error)
	// Method Applications returns application counts by status.
	Applications(ctx context.Context) (models.StatsBreakdown, error)
	// Method Users returns user counts by role.
	Users(ctx context.Context) (models.StatsBreakdown, error)
}

// StatisticsHandler handles HTTP requests for admin statistics
type StatisticsHandler struct {
	BaseHandler
	service StatisticsService
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(svc StatisticsService, logger *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all statistics routes behind the admin middleware
func (h *StatisticsHandler) RegisterRoutes(r chi.Router, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/statistics", func(r chi.Router) {
		r.Use(adminMiddleware)
		r.Get("/dashboard", h.serve("dashboard", h.service.Dashboard))
		r.Get("/pets", h.serve("pets", h.service.Pets))
		r.Get("/applications", h.serve("applications", h.service.Applications))
		r.Get("/users", h.serve("users", h.service.Users))
	})
}

func (h *StatisticsHandler) serve(name string, load func(context.Context) (models.StatsBreakdown, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := load(r.Context())
		if err != nil {
			h.respondServiceError(w, err, "get "+name+" statistics")
			return
		}
		h.respondJSON(w, http.StatusOK, "", stats)
	}
}
