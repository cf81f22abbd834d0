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

// PetDetails is the screen of a single pet, where signed-in users apply for adoption
type PetDetails struct {
	id      models.ID
	pets    PetAPI
	apps    ApplicationAPI
	session Session
	notify  Notifier
	logger  *zap.Logger

	mu       sync.RWMutex
	pet      *models.Pet
	notFound bool
}

// NewPetDetails creates the details screen of pet id
func NewPetDetails(id models.ID, pets PetAPI, apps ApplicationAPI, session Session, notify Notifier, logger *zap.Logger) *PetDetails {
	return &PetDetails{
		id:      id,
		pets:    pets,
		apps:    apps,
		session: session,
		notify:  notify,
		logger:  logger,
	}
}

// Load fetches the pet. A failed load marks the screen as not found.
func (v *PetDetails) Load(ctx context.Context) {
	env, ok := Run(ctx, func(ctx context.Context) *api.Envelope {
		return v.pets.Get(ctx, v.id)
	})
	if !ok {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if !env.Success {
		v.pet = nil
		v.notFound = true
		v.notify.Error(env.MessageOr("Pet not found"))
		return
	}

	pet, err := services.DecodePet(env)
	if err != nil {
		v.logger.Warn("unexpected pet payload", zap.String("pet_id", v.id.String()), zap.Error(err))
		v.pet = nil
		v.notFound = true
		v.notify.Error("Failed to load pet details")
		return
	}
	v.pet = pet
	v.notFound = false
}

// Pet returns the loaded pet, or nil
func (v *PetDetails) Pet() *models.Pet {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.pet == nil {
		return nil
	}
	p := *v.pet
	return &p
}

// NotFound reports whether the last load failed
func (v *PetDetails) NotFound() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.notFound
}

// CanApply reports whether the pet is open for applications
func (v *PetDetails) CanApply() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pet != nil && v.pet.IsAvailable()
}

// Apply submits an adoption application for the pet and reloads it on success.
//
// Anonymous users get an info notification asking them to sign in.
func (v *PetDetails) Apply(ctx context.Context, message string) bool {
	if !v.session.IsAuthenticated() {
		v.notify.Info("Please login to apply for adoption")
		return false
	}

	input := models.ApplicationInput{PetID: v.id, Message: message}
	if errs := validation.Application(input); len(errs) > 0 {
		v.notify.Error(errs.Error())
		return false
	}

	env := v.apps.Create(ctx, input)
	if !env.Success {
		v.notify.Error(env.MessageOr("Failed to submit application"))
		return false
	}

	v.notify.Success(env.MessageOr("Application submitted successfully!"))
	v.Load(ctx)
	return true
}
