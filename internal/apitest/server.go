package apitest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/petadoption/webclient/internal/auth"
	"github.com/petadoption/webclient/internal/handlers"
	"github.com/petadoption/webclient/internal/middleware"
	"github.com/petadoption/webclient/internal/models"
	"go.uber.org/zap"
)

// BasePath is the prefix every API route is mounted under
const BasePath = "/api"

// UploadsPath is where uploaded photos are served, outside BasePath
const UploadsPath = "/uploads/"

const (
	defaultSecret      = "apitest-secret"
	defaultTokenExpiry = time.Hour
	maxRequestSize     = 10 * 1024 * 1024 // 10MB
)

type override struct {
	status int
	body   string
}

// Server is a running in-memory backend
type Server struct {
	httpServer *httptest.Server
	store      *store
	accounts   *accounts
	catalogue  *catalogue
	tokens     *auth.TokenGenerator
	logger     *zap.Logger

	rateLimit       int
	rateLimitWindow time.Duration
	tokenExpiry     time.Duration

	mu        sync.Mutex
	overrides map[string]override
	hits      map[string]int
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRateLimit limits each client IP to requests per window
func WithRateLimit(requests int, window time.Duration) Option {
	return func(s *Server) {
		s.rateLimit = requests
		s.rateLimitWindow = window
	}
}

// WithTokenExpiry sets the lifetime of issued access tokens
func WithTokenExpiry(expiry time.Duration) Option {
	return func(s *Server) {
		s.tokenExpiry = expiry
	}
}

// NewServer starts a backend. Close it when done.
func NewServer(opts ...Option) *Server {
	s := &Server{
		store:       newStore(),
		logger:      zap.NewNop(),
		tokenExpiry: defaultTokenExpiry,
		overrides:   make(map[string]override),
		hits:        make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tokens = auth.NewTokenGenerator(defaultSecret, s.tokenExpiry)
	s.accounts = &accounts{store: s.store, tokens: s.tokens}
	s.catalogue = &catalogue{store: s.store}

	s.httpServer = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	authMiddleware := middleware.AuthMiddleware(s.tokens)
	adminMiddleware := middleware.RoleMiddleware(s.tokens, models.RoleAdmin)

	authHandler := handlers.NewAuthHandler(s.accounts, s.tokenExpiry, s.logger)
	petHandler := handlers.NewPetHandler(s.catalogue, s.logger)
	adoptionHandler := handlers.NewAdoptionHandler(&adoptions{store: s.store}, s.logger)
	statisticsHandler := handlers.NewStatisticsHandler(&statistics{store: s.store}, s.logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(s.logger))
	r.Use(middleware.RecoveryMiddleware(s.logger))
	r.Use(middleware.CORSMiddleware([]string{"*"}))
	if s.rateLimit > 0 {
		r.Use(httprate.LimitByIP(s.rateLimit, s.rateLimitWindow))
	}
	r.Use(middleware.RequestSizeLimitMiddleware(maxRequestSize))
	r.Use(s.record)

	r.Route(BasePath, func(r chi.Router) {
		authHandler.RegisterRoutes(r, authMiddleware)
		petHandler.RegisterRoutes(r, adminMiddleware)
		adoptionHandler.RegisterRoutes(r, authMiddleware, adminMiddleware)
		statisticsHandler.RegisterRoutes(r, adminMiddleware)
	})
	r.Get(UploadsPath+"{name}", s.servePhoto)
	return r
}

// servePhoto answers an uploaded photo
func (s *Server) servePhoto(w http.ResponseWriter, r *http.Request) {
	data, ok := s.catalogue.Photo(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

// record counts each request and answers it from an override when one is set
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r.Method, strings.TrimPrefix(r.URL.Path, BasePath))

		s.mu.Lock()
		s.hits[key]++
		o, ok := s.overrides[key]
		s.mu.Unlock()

		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(o.status)
			_, _ = w.Write([]byte(o.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// URL returns the API base URL clients should be configured with
func (s *Server) URL() string {
	return s.httpServer.URL + BasePath
}

// Close shuts the server down
func (s *Server) Close() {
	s.httpServer.Close()
}

// Override answers method and path (relative to BasePath, e.g. "/pets") with status and the raw body
// until ClearOverrides is called
func (s *Server) Override(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[routeKey(method, path)] = override{status: status, body: body}
}

// ClearOverrides removes every override
func (s *Server) ClearOverrides() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = make(map[string]override)
}

// Hits returns how many requests reached method and path
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[routeKey(method, path)]
}

// SeedUser registers an account with role and returns it
func (s *Server) SeedUser(name, email, password, role string) (models.User, error) {
	user, err := s.accounts.create(name, email, password, role)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to seed user %s: %w", email, err)
	}
	return user, nil
}

// SeedPet adds a pet to the catalogue and returns it
func (s *Server) SeedPet(input models.PetInput) (models.Pet, error) {
	pet, err := s.catalogue.Create(context.Background(), input)
	if err != nil {
		return models.Pet{}, fmt.Errorf("failed to seed pet %s: %w", input.Name, err)
	}
	return *pet, nil
}

// Token issues an access token for an existing user, as a login would
func (s *Server) Token(user models.User) (string, error) {
	return s.tokens.Generate(user.ID.String(), user.Role)
}

// PetStatus returns the stored status of pet id
func (s *Server) PetStatus(id models.ID) (models.Status, bool) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	pet, ok := s.store.pets[id.String()]
	if !ok {
		return "", false
	}
	return pet.Status, true
}
