package views

import (
	"context"
	"sync"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/services"
	"go.uber.org/zap"
)

// UserDashboard lists the signed-in user's applications
type UserDashboard struct {
	apps   ApplicationAPI
	notify Notifier
	logger *zap.Logger

	mu    sync.RWMutex
	items []models.Application
}

// NewUserDashboard creates the user's application screen
func NewUserDashboard(apps ApplicationAPI, notify Notifier, logger *zap.Logger) *UserDashboard {
	return &UserDashboard{
		apps:   apps,
		notify: notify,
		logger: logger,
	}
}

// Load fetches the user's applications
func (v *UserDashboard) Load(ctx context.Context) {
	env, ok := Run(ctx, func(ctx context.Context) *api.Envelope {
		return v.apps.Mine(ctx)
	})
	if !ok {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if !env.Success {
		v.items = nil
		v.notify.Error(env.MessageOr("Failed to fetch applications"))
		return
	}

	page, err := services.DecodeApplicationPage(env)
	if err != nil {
		v.logger.Warn("unexpected applications payload", zap.Error(err))
		v.items = nil
		return
	}
	v.items = page.Items
}

// Items returns the loaded applications
func (v *UserDashboard) Items() []models.Application {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Application(nil), v.items...)
}

// Delete withdraws an application and reloads the list on success
func (v *UserDashboard) Delete(ctx context.Context, id models.ID) bool {
	env := v.apps.Delete(ctx, id)
	if !env.Success {
		v.notify.Error(env.MessageOr("Failed to delete application"))
		return false
	}

	v.notify.Success(env.MessageOr("Application deleted successfully"))
	v.Load(ctx)
	return true
}
