package views

import (
	"context"
	"sync"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Breakdowns are the detailed statistics shown under the dashboard totals.
// A nil entry means that request failed.
type Breakdowns struct {
	Pets         models.StatsBreakdown `json:"pets" yaml:"pets"`
	Applications models.StatsBreakdown `json:"applications" yaml:"applications"`
	Users        models.StatsBreakdown `json:"users" yaml:"users"`
}

// AdminDashboard shows platform totals and detailed statistics
type AdminDashboard struct {
	stats  StatisticsAPI
	notify Notifier
	logger *zap.Logger

	mu         sync.RWMutex
	totals     models.DashboardStats
	breakdowns Breakdowns
}

// NewAdminDashboard creates the admin dashboard screen
func NewAdminDashboard(stats StatisticsAPI, notify Notifier, logger *zap.Logger) *AdminDashboard {
	return &AdminDashboard{
		stats:  stats,
		notify: notify,
		logger: logger,
	}
}

type dashboardResult struct {
	dashboard    *api.Envelope
	pets         *api.Envelope
	applications *api.Envelope
	users        *api.Envelope
}

// Load fetches the totals, then the three detailed statistics concurrently
func (v *AdminDashboard) Load(ctx context.Context) {
	res, ok := Run(ctx, func(ctx context.Context) dashboardResult {
		r := dashboardResult{dashboard: v.stats.Dashboard(ctx)}

		// the envelopes never carry Go errors, so the group only joins the calls
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			r.pets = v.stats.Pets(gctx)
			return nil
		})
		g.Go(func() error {
			r.applications = v.stats.Applications(gctx)
			return nil
		})
		g.Go(func() error {
			r.users = v.stats.Users(gctx)
			return nil
		})
		_ = g.Wait()
		return r
	})
	if !ok {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if res.dashboard.Success {
		totals, err := services.DecodeDashboard(res.dashboard)
		if err != nil {
			v.logger.Warn("unexpected dashboard payload", zap.Error(err))
		}
		v.totals = totals
	} else {
		v.totals = models.DashboardStats{}
		v.notify.Error(res.dashboard.MessageOr("Failed to fetch dashboard statistics"))
	}

	v.breakdowns = Breakdowns{
		Pets:         v.breakdown("pets", res.pets),
		Applications: v.breakdown("applications", res.applications),
		Users:        v.breakdown("users", res.users),
	}
}

func (v *AdminDashboard) breakdown(name string, env *api.Envelope) models.StatsBreakdown {
	if !env.Success {
		v.logger.Info("statistics request failed", zap.String("stats", name), zap.String("message", env.ErrorMessage()))
		return nil
	}
	b, err := services.DecodeBreakdown(env)
	if err != nil {
		v.logger.Warn("unexpected statistics payload", zap.String("stats", name), zap.Error(err))
		return nil
	}
	return b
}

// Totals returns the dashboard totals
func (v *AdminDashboard) Totals() models.DashboardStats {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.totals
}

// Breakdowns returns the detailed statistics
func (v *AdminDashboard) Breakdowns() Breakdowns {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.breakdowns
}
