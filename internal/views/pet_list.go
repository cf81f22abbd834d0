package views

import (
	"context"
	"sync"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/services"
	"go.uber.org/zap"
)

const defaultPetPageSize = 12

// PetFilters are the browse filters. Empty values are not sent.
type PetFilters struct {
	Search  string
	Species string
	Breed   string
	Age     string
	Status  string
}

// DefaultPetFilters shows available pets only
func DefaultPetFilters() PetFilters {
	return PetFilters{Status: string(models.StatusAvailable)}
}

// Pagination is the paging state of a list view
type Pagination struct {
	Page       int `json:"page" yaml:"page"`
	Limit      int `json:"limit" yaml:"limit"`
	Total      int `json:"total" yaml:"total"`
	TotalPages int `json:"totalPages" yaml:"totalPages"`
}

// PetList is the public pet browsing screen
type PetList struct {
	pets   PetAPI
	notify Notifier
	logger *zap.Logger

	mu         sync.RWMutex
	filters    PetFilters
	pagination Pagination
	items      []models.Pet
	loading    bool
}

// NewPetList creates the browse screen on page 1 with the default filters
func NewPetList(pets PetAPI, notify Notifier, logger *zap.Logger) *PetList {
	return &PetList{
		pets:       pets,
		notify:     notify,
		logger:     logger,
		filters:    DefaultPetFilters(),
		pagination: Pagination{Page: 1, Limit: defaultPetPageSize},
	}
}

// SetFilters replaces the filters and returns to page 1
func (v *PetList) SetFilters(f PetFilters) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters = f
	v.pagination.Page = 1
}

// SetPage selects the page to load. Pages below 1 select page 1.
func (v *PetList) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pagination.Page = page
}

// SetLimit sets the page size. Non-positive sizes restore the default.
func (v *PetList) SetLimit(limit int) {
	if limit <= 0 {
		limit = defaultPetPageSize
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pagination.Limit = limit
}

// Load fetches the current page
func (v *PetList) Load(ctx context.Context) {
	v.mu.Lock()
	query := services.PetQuery{
		Search:  v.filters.Search,
		Species: v.filters.Species,
		Breed:   v.filters.Breed,
		Age:     v.filters.Age,
		Status:  v.filters.Status,
		Page:    v.pagination.Page,
		Limit:   v.pagination.Limit,
	}
	v.loading = true
	v.mu.Unlock()

	env, ok := Run(ctx, func(ctx context.Context) *api.Envelope {
		return v.pets.List(ctx, query)
	})

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if !ok {
		return
	}

	if !env.Success {
		v.items = nil
		v.notify.Error(env.MessageOr("Failed to fetch pets"))
		return
	}

	page, err := services.DecodePetPage(env)
	if err != nil {
		v.logger.Warn("unexpected pet list payload", zap.Error(err))
		v.items = nil
		return
	}
	v.items = page.Items
	if page.Total > 0 && page.Limit > 0 {
		if page.Page > 0 {
			v.pagination.Page = page.Page
		}
		v.pagination.Limit = page.Limit
		v.pagination.Total = page.Total
		v.pagination.TotalPages = page.TotalPages
	}
}

// Items returns the loaded pets
func (v *PetList) Items() []models.Pet {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Pet(nil), v.items...)
}

// Filters returns the current filters
func (v *PetList) Filters() PetFilters {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filters
}

// Pagination returns the paging state
func (v *PetList) Pagination() Pagination {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pagination
}

// Loading reports whether a load is in flight
func (v *PetList) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}
