package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/petadoption/webclient/internal/auth"
	"github.com/petadoption/webclient/internal/middleware"
	"github.com/petadoption/webclient/internal/models"
	"go.uber.org/zap"
)

// AdoptionService is the interface that wraps methods for adoption applications.
type AdoptionService interface {
	// Method Create files an application by userID.
	//
	// The pet must exist and be available, and a user may only have one open application per pet.
	Create(ctx context.Context, userID string, input models.ApplicationInput) (*models.Application, error)
	// Method ListByUser returns the applications filed by userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Application, error)
	// Method List returns one page of every application, newest first.
	List(ctx context.Context, page, limit int) (*models.Page[models.Application], error)
	// Method Get returns application id when the caller filed it or is an admin.
	Get(ctx context.Context, id string, caller *auth.Claims) (*models.Application, error)
	// Method UpdateStatus moves application id to status. Approving marks the pet adopted.
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Application, error)
	// Method Delete withdraws application id when the caller filed it or is an admin.
	Delete(ctx context.Context, id string, caller *auth.Claims) error
}

// AdoptionHandler handles HTTP requests for adoption applications
type AdoptionHandler struct {
	BaseHandler
	service AdoptionService
}

// NewAdoptionHandler creates a new adoption handler
func NewAdoptionHandler(svc AdoptionService, logger *zap.Logger) *AdoptionHandler {
	return &AdoptionHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all adoption handler routes. Every route requires a signed in user.
func (h *AdoptionHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/adoptions", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Get("/my-applications", h.Mine)
			r.Get("/{id}", h.Get)
			r.Delete("/{id}", h.Delete)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Get("/all", h.All)
			r.Put("/{id}/status", h.UpdateStatus)
		})
	})
}

// Create handles POST /adoptions
func (h *AdoptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	var input models.ApplicationInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.PetID.IsZero() {
		h.respondError(w, http.StatusBadRequest, "Pet ID is required")
		return
	}

	app, err := h.service.Create(r.Context(), claims.UserID, input)
	if err != nil {
		h.respondServiceError(w, err, "create application")
		return
	}
	h.respondJSON(w, http.StatusCreated, "Application submitted successfully", app)
}

// Mine handles GET /adoptions/my-applications
func (h *AdoptionHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	apps, err := h.service.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		h.respondServiceError(w, err, "list user applications")
		return
	}
	h.respondJSON(w, http.StatusOK, "", apps)
}

// All handles GET /adoptions/admin/all
func (h *AdoptionHandler) All(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), queryInt(q.Get("page")), queryInt(q.Get("limit")))
	if err != nil {
		h.respondServiceError(w, err, "list applications")
		return
	}

	h.respondJSON(w, http.StatusOK, "", map[string]any{
		"applications": page.Items,
		"page":         page.Page,
		"limit":        page.Limit,
		"total":        page.Total,
		"totalPages":   page.TotalPages,
	})
}

// Get handles GET /adoptions/{id}
func (h *AdoptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	app, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), claims)
	if err != nil {
		h.respondServiceError(w, err, "get application")
		return
	}
	h.respondJSON(w, http.StatusOK, "", app)
}

// UpdateStatus handles PUT /adoptions/admin/{id}/status
func (h *AdoptionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var update models.StatusUpdate
	if err := decodeJSON(r, &update); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !update.Status.OneOf(models.ApplicationStatuses...) {
		h.respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	app, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), update.Status.Normalize())
	if err != nil {
		h.respondServiceError(w, err, "update application status")
		return
	}
	h.respondJSON(w, http.StatusOK, "Application status updated", app)
}

// Delete handles DELETE /adoptions/{id}
func (h *AdoptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaims(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), claims); err != nil {
		h.respondServiceError(w, err, "delete application")
		return
	}
	h.respondJSON(w, http.StatusOK, "Application deleted successfully", nil)
}
