package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/petadoption/webclient/internal/models"
	"go.uber.org/zap"
)

// maxPhotoMemory bounds how much of a multipart upload is kept in memory
const maxPhotoMemory = 8 << 20

// PetFilter holds the pet list query parameters
type PetFilter struct {
	Search  string
	Species string
	Breed   string
	Age     string
	Status  string
	Page    int
	Limit   int
}

// PetService is the interface that wraps methods for the pet catalogue.
type PetService interface {
	// Method List returns one page of pets matching filter.
	//
	// Empty filter fields match every pet. A non-positive page or limit selects the defaults.
	List(ctx context.Context, filter PetFilter) (*models.Page[models.Pet], error)
	// Method Get returns a pet by its ID, or a 404 *Error.
	Get(ctx context.Context, id string) (*models.Pet, error)
	// Method Create adds a pet to the catalogue.
	Create(ctx context.Context, input models.PetInput) (*models.Pet, error)
	// Method Update replaces the editable fields of pet id.
	Update(ctx context.Context, id string, input models.PetInput) (*models.Pet, error)
	// Method Delete removes pet id.
	Delete(ctx context.Context, id string) error
	// Method SavePhoto stores an uploaded photo and returns the path it is served from.
	SavePhoto(ctx context.Context, filename string, content io.Reader) (string, error)
}

// PetHandler handles HTTP requests for pets
type PetHandler struct {
	BaseHandler
	service PetService
}

// NewPetHandler creates a new pet handler
func NewPetHandler(svc PetService, logger *zap.Logger) *PetHandler {
	return &PetHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all pet handler routes.
// Browsing is public, changes require the admin middleware.
func (h *PetHandler) RegisterRoutes(r chi.Router, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/pets", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles GET /pets
func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := PetFilter{
		Search:  q.Get("search"),
		Species: q.Get("species"),
		Breed:   q.Get("breed"),
		Age:     q.Get("age"),
		Status:  q.Get("status"),
		Page:    queryInt(q.Get("page")),
		Limit:   queryInt(q.Get("limit")),
	}

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, err, "list pets")
		return
	}

	h.respondJSON(w, http.StatusOK, "", map[string]any{
		"pets":       page.Items,
		"page":       page.Page,
		"limit":      page.Limit,
		"total":      page.Total,
		"totalPages": page.TotalPages,
	})
}

// Get handles GET /pets/{id}
func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	pet, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err, "get pet")
		return
	}
	h.respondJSON(w, http.StatusOK, "", pet)
}

// Create handles POST /pets with a JSON or multipart body
func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.readInput(r)
	if err != nil {
		h.respondServiceError(w, err, "read pet input")
		return
	}

	pet, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, err, "create pet")
		return
	}
	h.respondJSON(w, http.StatusCreated, "Pet created successfully", pet)
}

// Update handles PUT /pets/{id} with a JSON or multipart body
func (h *PetHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, err := h.readInput(r)
	if err != nil {
		h.respondServiceError(w, err, "read pet input")
		return
	}

	pet, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.respondServiceError(w, err, "update pet")
		return
	}
	h.respondJSON(w, http.StatusOK, "Pet updated successfully", pet)
}

// Delete handles DELETE /pets/{id}
func (h *PetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, err, "delete pet")
		return
	}
	h.respondJSON(w, http.StatusOK, "Pet deleted successfully", nil)
}

// readInput decodes a pet from JSON or from a multipart form whose "photo" file part is stored first
func (h *PetHandler) readInput(r *http.Request) (models.PetInput, error) {
	var input models.PetInput
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := decodeJSON(r, &input); err != nil {
			return input, NewError(http.StatusBadRequest, "Invalid request body")
		}
		return input, nil
	}

	if err := r.ParseMultipartForm(maxPhotoMemory); err != nil {
		return input, NewError(http.StatusBadRequest, "Invalid multipart form")
	}
	input = models.PetInput{
		Name:        r.FormValue("name"),
		Species:     r.FormValue("species"),
		Breed:       r.FormValue("breed"),
		Age:         queryInt(r.FormValue("age")),
		Gender:      r.FormValue("gender"),
		Size:        r.FormValue("size"),
		Description: r.FormValue("description"),
		Status:      models.Status(r.FormValue("status")),
		Photo:       r.FormValue("photo"),
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil
	}
	if err != nil {
		return input, NewError(http.StatusBadRequest, "Invalid photo upload")
	}
	defer file.Close()

	path, err := h.service.SavePhoto(r.Context(), header.Filename, file)
	if err != nil {
		return input, err
	}
	input.Photo = path
	return input, nil
}

// queryInt parses a positive integer parameter, returning 0 when absent or invalid
func queryInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
