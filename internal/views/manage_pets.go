package views

import (
	"context"
	"sync"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/services"
	"github.com/petadoption/webclient/internal/validation"
	"go.uber.org/zap"
)

// ManagePets is the admin pet catalogue screen
type ManagePets struct {
	pets   PetAPI
	notify Notifier
	logger *zap.Logger

	mu    sync.RWMutex
	items []models.Pet
}

// NewManagePets creates the admin pet screen
func NewManagePets(pets PetAPI, notify Notifier, logger *zap.Logger) *ManagePets {
	return &ManagePets{
		pets:   pets,
		notify: notify,
		logger: logger,
	}
}

// Load fetches every pet
func (v *ManagePets) Load(ctx context.Context) {
	env, ok := Run(ctx, func(ctx context.Context) *api.Envelope {
		return v.pets.List(ctx, services.PetQuery{Limit: manageListLimit})
	})
	if !ok {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

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
}

// Items returns the loaded pets
func (v *ManagePets) Items() []models.Pet {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Pet(nil), v.items...)
}

// Save validates the form, then creates the pet (zero id) or updates pet id, and reloads.
//
// With a photo file the pet is uploaded as multipart and the photo URL is ignored;
// otherwise a photo URL is sent as the pet's photo.
func (v *ManagePets) Save(ctx context.Context, id models.ID, form validation.PetForm, photo *services.Photo) bool {
	if errs := validation.Pet(form); len(errs) > 0 {
		v.notify.Error(errs.Error())
		return false
	}

	input := form.Input
	if photo == nil && form.PhotoURL != "" {
		input.Photo = form.PhotoURL
	}

	var (
		env     *api.Envelope
		success string
	)
	if id.IsZero() {
		env = v.pets.Create(ctx, input, photo)
		success = "Pet created successfully!"
	} else {
		env = v.pets.Update(ctx, id, input, photo)
		success = "Pet updated successfully!"
	}

	if !env.Success {
		v.notify.Error(env.MessageOr("Failed to save pet"))
		return false
	}

	v.notify.Success(env.MessageOr(success))
	v.Load(ctx)
	return true
}

// Delete removes a pet and reloads the list
func (v *ManagePets) Delete(ctx context.Context, id models.ID) bool {
	env := v.pets.Delete(ctx, id)
	if !env.Success {
		v.notify.Error(env.MessageOr("Failed to delete pet"))
		return false
	}

	v.notify.Success(env.MessageOr("Pet deleted successfully"))
	v.Load(ctx)
	return true
}
