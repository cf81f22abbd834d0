package apitest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/petadoption/webclient/internal/handlers"
	"github.com/petadoption/webclient/internal/models"
)

const defaultPageSize = 10

type catalogue struct {
	store *store
}

func (c *catalogue) List(ctx context.Context, filter handlers.PetFilter) (*models.Page[models.Pet], error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	ids := make([]string, 0, len(c.store.pets))
	for id, pet := range c.store.pets {
		if matches(pet, filter) {
			ids = append(ids, id)
		}
	}
	c.store.newestFirst(ids)

	start, end, meta := paginate(len(ids), filter.Page, filter.Limit)
	items := make([]models.Pet, 0, end-start)
	for _, id := range ids[start:end] {
		items = append(items, *c.store.pets[id])
	}
	return &models.Page[models.Pet]{
		Items:      items,
		Page:       meta.Page,
		Limit:      meta.Limit,
		Total:      meta.Total,
		TotalPages: meta.TotalPages,
	}, nil
}

func matches(pet *models.Pet, f handlers.PetFilter) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(pet.Name), q) &&
			!strings.Contains(strings.ToLower(pet.Breed), q) &&
			!strings.Contains(strings.ToLower(pet.Description), q) {
			return false
		}
	}
	if f.Species != "" && !strings.EqualFold(pet.Species, f.Species) {
		return false
	}
	if f.Breed != "" && !strings.Contains(strings.ToLower(pet.Breed), strings.ToLower(f.Breed)) {
		return false
	}
	if f.Age != "" {
		if age, err := strconv.Atoi(f.Age); err == nil && pet.Age != age {
			return false
		}
	}
	if f.Status != "" && !pet.Status.Is(models.Status(f.Status)) {
		return false
	}
	return true
}

func (c *catalogue) Get(ctx context.Context, id string) (*models.Pet, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	pet, ok := c.store.pets[id]
	if !ok {
		return nil, handlers.NewError(http.StatusNotFound, "Pet not found")
	}
	p := *pet
	return &p, nil
}

func (c *catalogue) Create(ctx context.Context, input models.PetInput) (*models.Pet, error) {
	if err := checkPet(input); err != nil {
		return nil, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	pet := petFromInput(models.ID(c.store.newID()), input)
	pet.CreatedAt = now()
	c.store.pets[pet.ID.String()] = &pet
	return &pet, nil
}

func (c *catalogue) Update(ctx context.Context, id string, input models.PetInput) (*models.Pet, error) {
	if err := checkPet(input); err != nil {
		return nil, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	existing, ok := c.store.pets[id]
	if !ok {
		return nil, handlers.NewError(http.StatusNotFound, "Pet not found")
	}
	pet := petFromInput(existing.ID, input)
	pet.CreatedAt = existing.CreatedAt
	if pet.Photo == "" {
		pet.Photo = existing.Photo
	}
	*existing = pet
	return &pet, nil
}

func (c *catalogue) Delete(ctx context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if _, ok := c.store.pets[id]; !ok {
		return handlers.NewError(http.StatusNotFound, "Pet not found")
	}
	delete(c.store.pets, id)
	return nil
}

// SavePhoto keeps the upload under a fresh uuid-based name and returns the path it is served from
func (c *catalogue) SavePhoto(ctx context.Context, filename string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}

	name := uuid.New().String() + path.Ext(path.Base(filename))
	c.store.mu.Lock()
	c.store.uploads[name] = data
	c.store.mu.Unlock()

	return UploadsPath + name, nil
}

// Photo returns an uploaded file by name
func (c *catalogue) Photo(name string) ([]byte, bool) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	data, ok := c.store.uploads[name]
	return data, ok
}

func checkPet(input models.PetInput) error {
	if input.Name == "" || input.Species == "" || input.Breed == "" {
		return handlers.NewError(http.StatusBadRequest, "Please provide name, species and breed")
	}
	if input.Age <= 0 {
		return handlers.NewError(http.StatusBadRequest, "Age must be a positive number")
	}
	if input.Status != "" && !input.Status.OneOf(models.PetStatuses...) {
		return handlers.NewError(http.StatusBadRequest, "Invalid status")
	}
	return nil
}

func petFromInput(id models.ID, input models.PetInput) models.Pet {
	status := input.Status.Normalize()
	if status == "" {
		status = models.StatusAvailable
	}
	return models.Pet{
		ID:          id,
		Name:        input.Name,
		Species:     input.Species,
		Breed:       input.Breed,
		Age:         input.Age,
		Gender:      input.Gender,
		Size:        input.Size,
		Description: input.Description,
		Status:      status,
		Photo:       input.Photo,
	}
}
