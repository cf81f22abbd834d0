// Package app wires configuration, storage, the API client, services and the
// session into one value shared by the CLI and the integration tests
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/config"
	"github.com/petadoption/webclient/internal/metrics"
	"github.com/petadoption/webclient/internal/services"
	"github.com/petadoption/webclient/internal/session"
	"github.com/petadoption/webclient/internal/storage"
	"github.com/petadoption/webclient/internal/views"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// App holds the wired components
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	Client       *api.Client
	Store        storage.Store
	Cookies      *storage.CookieStore
	Session      *session.Manager
	Pets         views.PetAPI
	Applications views.ApplicationAPI
	Statistics   views.StatisticsAPI
	Registry     *prometheus.Registry

	closers []func() error
}

// Option overrides a component before wiring
type Option func(*options)

type options struct {
	store storage.Store
}

// WithStore uses store instead of the one STORAGE_DRIVER selects
func WithStore(store storage.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// New builds the components for cfg. The session is not initialised, call Session.Init.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	store := o.store
	if store == nil {
		var err error
		store, err = a.openStore(ctx)
		if err != nil {
			return nil, err
		}
	}
	a.Store = store

	jar, err := storage.NewCookieJar()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	cookies, err := storage.NewCookieStore(jar, cfg.API.BaseURL)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Cookies = cookies

	tokens := session.NewTokenResolver(cookies, store, logger)
	a.Client = api.NewClient(cfg.API.BaseURL,
		api.WithHTTPClient(&http.Client{Jar: jar, Timeout: cfg.API.Timeout}),
		api.WithTokenSource(tokens),
		api.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		api.WithMetrics(metrics.New(a.Registry)),
		api.WithLogger(logger),
	)

	a.Session = session.NewManager(services.NewAuthService(a.Client, logger), tokens, logger)
	a.Pets = services.NewPetService(a.Client, logger)
	a.Applications = services.NewApplicationService(a.Client, logger)
	a.Statistics = services.NewStatisticsService(a.Client, logger)

	return a, nil
}

// openStore opens the durable token storage STORAGE_DRIVER selects
func (a *App) openStore(ctx context.Context) (storage.Store, error) {
	switch a.Config.Storage.Driver {
	case config.StorageDriverMemory:
		return storage.NewMemoryStore(), nil
	case config.StorageDriverSQLite:
		db, err := storage.OpenSQLite(ctx, a.Config.Storage.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return storage.NewSQLStore(db, a.Logger), nil
	case config.StorageDriverFile, "":
		return storage.NewFileStore(a.Config.Storage.Path, a.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", a.Config.Storage.Driver)
	}
}

// Close releases the storage
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
