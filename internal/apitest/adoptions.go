package apitest

import (
	"context"
	"net/http"

	"github.com/petadoption/webclient/internal/auth"
	"github.com/petadoption/webclient/internal/handlers"
	"github.com/petadoption/webclient/internal/models"
)

type adoptions struct {
	store *store
}

func (a *adoptions) Create(ctx context.Context, userID string, input models.ApplicationInput) (*models.Application, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	pet, ok := a.store.pets[input.PetID.String()]
	if !ok {
		return nil, handlers.NewError(http.StatusNotFound, "Pet not found")
	}
	if !pet.IsAvailable() {
		return nil, handlers.NewError(http.StatusBadRequest, "Pet is not available for adoption")
	}
	for _, app := range a.store.apps {
		if app.UserID.String() == userID && app.PetID == pet.ID && app.Status.Is(models.StatusPending) {
			return nil, handlers.NewError(http.StatusBadRequest, "You have already applied for this pet")
		}
	}

	app := models.Application{
		ID:        models.ID(a.store.newID()),
		PetID:     pet.ID,
		UserID:    models.ID(userID),
		Message:   input.Message,
		Status:    models.StatusPending,
		CreatedAt: now(),
	}
	a.store.apps[app.ID.String()] = &app
	out := a.populate(app)
	return &out, nil
}

func (a *adoptions) ListByUser(ctx context.Context, userID string) ([]models.Application, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	var ids []string
	for id, app := range a.store.apps {
		if app.UserID.String() == userID {
			ids = append(ids, id)
		}
	}
	a.store.newestFirst(ids)

	out := make([]models.Application, 0, len(ids))
	for _, id := range ids {
		out = append(out, a.populate(*a.store.apps[id]))
	}
	return out, nil
}

func (a *adoptions) List(ctx context.Context, page, limit int) (*models.Page[models.Application], error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	ids := make([]string, 0, len(a.store.apps))
	for id := range a.store.apps {
		ids = append(ids, id)
	}
	a.store.newestFirst(ids)

	start, end, meta := paginate(len(ids), page, limit)
	items := make([]models.Application, 0, end-start)
	for _, id := range ids[start:end] {
		items = append(items, a.populate(*a.store.apps[id]))
	}
	return &models.Page[models.Application]{
		Items:      items,
		Page:       meta.Page,
		Limit:      meta.Limit,
		Total:      meta.Total,
		TotalPages: meta.TotalPages,
	}, nil
}

func (a *adoptions) Get(ctx context.Context, id string, caller *auth.Claims) (*models.Application, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	app, err := a.owned(id, caller)
	if err != nil {
		return nil, err
	}
	out := a.populate(*app)
	return &out, nil
}

func (a *adoptions) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Application, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	app, ok := a.store.apps[id]
	if !ok {
		return nil, handlers.NewError(http.StatusNotFound, "Application not found")
	}
	app.Status = status
	if pet, ok := a.store.pets[app.PetID.String()]; ok && status.Is(models.StatusApproved) {
		pet.Status = models.StatusAdopted
	}
	out := a.populate(*app)
	return &out, nil
}

func (a *adoptions) Delete(ctx context.Context, id string, caller *auth.Claims) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	if _, err := a.owned(id, caller); err != nil {
		return err
	}
	delete(a.store.apps, id)
	return nil
}

// owned returns application id when caller filed it or is an admin. Callers hold mu.
func (a *adoptions) owned(id string, caller *auth.Claims) (*models.Application, error) {
	app, ok := a.store.apps[id]
	if !ok {
		return nil, handlers.NewError(http.StatusNotFound, "Application not found")
	}
	if caller == nil || (app.UserID.String() != caller.UserID && caller.Role != models.RoleAdmin) {
		return nil, handlers.NewError(http.StatusForbidden, "Not authorized to access this application")
	}
	return app, nil
}

// populate fills the pet and applicant references the way the backend populates them. Callers hold mu.
func (a *adoptions) populate(app models.Application) models.Application {
	app.Pet = &models.Ref{ID: app.PetID}
	if pet, ok := a.store.pets[app.PetID.String()]; ok {
		app.Pet.Name = pet.Name
	}
	app.User = &models.Ref{ID: app.UserID}
	if rec, ok := a.store.users[app.UserID.String()]; ok {
		app.User.Name = rec.user.Name
	}
	return app
}
