package views

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/services"
	"github.com/petadoption/webclient/internal/validation"
	"go.uber.org/zap"
)

// FilterAll shows applications of every status
const FilterAll = "all"

// ApplicationFilters lists the filters ManageApplications accepts
var ApplicationFilters = []string{FilterAll, "pending", "approved", "rejected"}

// ManageApplications is the admin application review screen
type ManageApplications struct {
	apps   ApplicationAPI
	notify Notifier
	logger *zap.Logger

	mu     sync.RWMutex
	items  []models.Application
	filter string
}

// NewManageApplications creates the admin application screen showing every status
func NewManageApplications(apps ApplicationAPI, notify Notifier, logger *zap.Logger) *ManageApplications {
	return &ManageApplications{
		apps:   apps,
		notify: notify,
		logger: logger,
		filter: FilterAll,
	}
}

// Load fetches every application
func (v *ManageApplications) Load(ctx context.Context) {
	env, ok := Run(ctx, func(ctx context.Context) *api.Envelope {
		return v.apps.All(ctx, manageListLimit)
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

// SetFilter selects which statuses are shown. Matching ignores case.
func (v *ManageApplications) SetFilter(filter string) error {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		filter = FilterAll
	}
	valid := false
	for _, f := range ApplicationFilters {
		if f == filter {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown filter %q, must be one of %s", filter, strings.Join(ApplicationFilters, ", "))
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = filter
	return nil
}

// Items returns the loaded applications matching the filter
func (v *ManageApplications) Items() []models.Application {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.filter == FilterAll {
		return append([]models.Application(nil), v.items...)
	}
	var out []models.Application
	for _, a := range v.items {
		if a.Status.Is(models.Status(v.filter)) {
			out = append(out, a)
		}
	}
	return out
}

// UpdateStatus moves an application to status and reloads the list
func (v *ManageApplications) UpdateStatus(ctx context.Context, id models.ID, status models.Status) bool {
	if errs := validation.ApplicationStatus(status); len(errs) > 0 {
		v.notify.Error(errs.Error())
		return false
	}
	status = status.Normalize()

	env := v.apps.UpdateStatus(ctx, id, status)
	if !env.Success {
		v.notify.Error(env.MessageOr("Failed to update application"))
		return false
	}

	v.notify.Success(env.MessageOr(fmt.Sprintf("Application %s successfully", status)))
	v.Load(ctx)
	return true
}
