// Package views holds the screen state of the client: what each screen loads,
// what it shows and the notifications it raises.
//
// Views never return transport errors. A failed request leaves the view in its
// empty state and raises an error notification.
package views

import (
	"context"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/services"
)

// Notifier is the interface that wraps user-facing notifications
type Notifier interface {
	// Method Success reports a completed action.
	Success(message string)
	// Method Error reports a failed action or load.
	Error(message string)
	// Method Info reports something the user must do first, such as signing in.
	Info(message string)
}

// Session is the interface that wraps the session reads views need
type Session interface {
	IsAuthenticated() bool
	IsAdmin() bool
	User() *models.User
}

// PetAPI is the interface that wraps the pet endpoints
type PetAPI interface {
	// Method List retrieves one page of pets matching query.
	List(ctx context.Context, query services.PetQuery) *api.Envelope
	// Method Get retrieves a pet by its ID.
	Get(ctx context.Context, id models.ID) *api.Envelope
	// Method Create creates a pet. photo may be nil.
	Create(ctx context.Context, input models.PetInput, photo *services.Photo) *api.Envelope
	// Method Update replaces a pet's editable fields. photo may be nil.
	Update(ctx context.Context, id models.ID, input models.PetInput, photo *services.Photo) *api.Envelope
	// Method Delete removes a pet.
	Delete(ctx context.Context, id models.ID) *api.Envelope
}

// ApplicationAPI is the interface that wraps the adoption application endpoints
type ApplicationAPI interface {
	Create(ctx context.Context, input models.ApplicationInput) *api.Envelope
	Mine(ctx context.Context) *api.Envelope
	All(ctx context.Context, limit int) *api.Envelope
	Get(ctx context.Context, id models.ID) *api.Envelope
	UpdateStatus(ctx context.Context, id models.ID, status models.Status) *api.Envelope
	Delete(ctx context.Context, id models.ID) *api.Envelope
}

// StatisticsAPI is the interface that wraps the statistics endpoints
type StatisticsAPI interface {
	Dashboard(ctx context.Context) *api.Envelope
	Applications(ctx context.Context) *api.Envelope
	Pets(ctx context.Context) *api.Envelope
	Users(ctx context.Context) *api.Envelope
}

// manageListLimit is the page size the admin screens request to see every record at once
const manageListLimit = 1000
