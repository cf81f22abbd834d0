package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/petadoption/webclient/internal/middleware"
	"github.com/petadoption/webclient/internal/models"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for account business logic.
type AuthService interface {
	// Method Register creates an account and signs it in.
	//
	// An already registered email is rejected with a 400 *Error.
	Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error)
	// Method Login checks the credentials and issues an access token.
	//
	// Unknown emails and wrong passwords are both rejected with the same 401 *Error.
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	// Method CurrentUser returns the account of userID.
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

// AuthHandler handles HTTP requests for accounts
type AuthHandler struct {
	BaseHandler
	service     AuthService
	tokenExpiry time.Duration
}

// NewAuthHandler creates a new auth handler.
// tokenExpiry is the lifetime of the token cookie set on sign in.
func NewAuthHandler(svc AuthService, tokenExpiry time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
		tokenExpiry: tokenExpiry,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(authMiddleware).Get("/me", h.Me)
	})
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := decodeJSON(r, &reg); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Please provide name, email and password")
		return
	}

	result, err := h.service.Register(r.Context(), reg)
	if err != nil {
		h.respondServiceError(w, err, "register user")
		return
	}

	h.setTokenCookie(w, result.Token)
	h.respondJSON(w, http.StatusCreated, "User registered successfully", result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if creds.Email == "" || creds.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	result, err := h.service.Login(r.Context(), creds)
	if err != nil {
		h.respondServiceError(w, err, "login user")
		return
	}

	h.setTokenCookie(w, result.Token)
	h.respondJSON(w, http.StatusOK, "Login successful", result)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	h.respondJSON(w, http.StatusOK, "Logged out successfully", nil)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	user, err := h.service.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		h.respondServiceError(w, err, "get current user")
		return
	}

	h.respondJSON(w, http.StatusOK, "", map[string]any{"user": user})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
