// Package session holds the authentication state of the running client.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/auth"
	"github.com/petadoption/webclient/internal/models"
	"go.uber.org/zap"
)

// State is the session lifecycle state
type State int

const (
	// StateUnknown is the state before Init has finished
	StateUnknown State = iota
	// StateAnonymous means no user is signed in
	StateAnonymous
	// StateAuthenticated means a token is held and the user is resolved
	StateAuthenticated
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// AuthAPI is the interface that wraps the backend auth endpoints the session relies on
type AuthAPI interface {
	// Method Login submits credentials.
	//
	// On success the envelope data carries the token and the user, either under "user" or as the data itself.
	Login(ctx context.Context, creds models.Credentials) *api.Envelope
	// Method Register creates an account. The success envelope has the same shape as Login.
	Register(ctx context.Context, reg models.Registration) *api.Envelope
	// Method Logout ends the session on the backend.
	Logout(ctx context.Context) *api.Envelope
	// Method CurrentUser returns the user the bearer token belongs to.
	CurrentUser(ctx context.Context) *api.Envelope
}

// Manager owns the session state. It is created once and shared by the views and commands.
//
// The state is never authenticated without a user and never holds a user while anonymous.
// Network calls are made without holding the lock.
type Manager struct {
	auth   AuthAPI
	tokens *TokenResolver
	logger *zap.Logger

	mu    sync.RWMutex
	state State
	token string
	user  *models.User
}

// NewManager creates a session manager in the unknown state
func NewManager(authAPI AuthAPI, tokens *TokenResolver, logger *zap.Logger) *Manager {
	return &Manager{
		auth:   authAPI,
		tokens: tokens,
		logger: logger,
	}
}

// Init hydrates the session from the stored token. It is called once at start-up.
func (m *Manager) Init(ctx context.Context) {
	m.Refresh(ctx)
}

// Refresh re-resolves the current user from the stored token.
//
// Without a token the session becomes anonymous. When the backend rejects the
// token, or answers without a user, the stored token is removed.
func (m *Manager) Refresh(ctx context.Context) {
	token := m.tokens.Token(ctx)
	if token == "" {
		m.setAnonymous()
		return
	}

	env := m.auth.CurrentUser(ctx)
	if env.Success {
		user, err := models.DecodeUser(env.Data)
		if err == nil && user != nil {
			m.setAuthenticated(token, user)
			return
		}
		m.logger.Warn("current user response carried no user", zap.Error(err))
	} else {
		m.logger.Info("stored token rejected",
			zap.Int("status", env.StatusCode),
			zap.String("message", env.ErrorMessage()),
		)
	}

	if err := m.tokens.Clear(ctx); err != nil {
		m.logger.Error("failed to clear token", zap.Error(err))
	}
	m.setAnonymous()
}

// Login signs in with credentials and returns the signed-in user.
//
// A rejected login returns an *AuthError and leaves the session anonymous.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	return m.authenticate(ctx, "login", m.auth.Login(ctx, creds))
}

// Register creates an account and signs in with it.
//
// A rejected registration returns an *AuthError and leaves the session anonymous.
func (m *Manager) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	return m.authenticate(ctx, "registration", m.auth.Register(ctx, reg))
}

func (m *Manager) authenticate(ctx context.Context, op string, env *api.Envelope) (*models.User, error) {
	if !env.Success {
		return nil, &AuthError{Op: op, StatusCode: env.StatusCode, Message: env.ErrorMessage()}
	}

	res, err := models.DecodeAuthResult(env.Data)
	if err != nil {
		m.logger.Error("failed to decode auth response", zap.String("op", op), zap.Error(err))
		return nil, &AuthError{Op: op, StatusCode: env.StatusCode, Message: "unexpected " + op + " response"}
	}
	if res.User == nil {
		return nil, &AuthError{Op: op, StatusCode: env.StatusCode, Message: op + " response carried no user"}
	}

	token := res.Token
	if token != "" {
		if err := m.tokens.Save(ctx, token); err != nil {
			m.logger.Error("failed to persist token", zap.Error(err))
		}
	} else {
		// the backend may have set the token cookie instead
		token = m.tokens.Token(ctx)
	}
	if token == "" {
		return nil, &AuthError{Op: op, StatusCode: env.StatusCode, Message: op + " response carried no token"}
	}

	m.setAuthenticated(token, res.User)
	m.logger.Info("signed in", zap.String("op", op), zap.String("user_id", res.User.ID.String()))
	return cloneUser(res.User), nil
}

// Logout ends the session. The backend call is best effort: its failure is logged
// and the local token, token cookie and user are cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	env := m.auth.Logout(ctx)
	if !env.Success {
		m.logger.Warn("logout request failed",
			zap.Int("status", env.StatusCode),
			zap.String("message", env.ErrorMessage()),
		)
	}

	if err := m.tokens.Clear(ctx); err != nil {
		m.logger.Error("failed to clear token", zap.Error(err))
	}
	m.setAnonymous()
}

// State returns the lifecycle state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsAuthenticated reports whether a token is held and the user is resolved
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateAuthenticated
}

// IsAdmin reports whether the signed-in user's role is exactly "admin"
func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.IsAdmin()
}

// User returns a copy of the signed-in user, or nil
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneUser(m.user)
}

// Token returns the session token, or an empty string when anonymous
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// TokenExpiry returns the expiry encoded in the session token, when it is a JWT with an exp claim
func (m *Manager) TokenExpiry() (time.Time, bool) {
	token := m.Token()
	if token == "" {
		return time.Time{}, false
	}
	return auth.ExpiresAt(token)
}

// RequireAuth returns ErrNotAuthenticated unless a user is signed in
func (m *Manager) RequireAuth() error {
	if !m.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// RequireAdmin returns ErrNotAuthenticated or ErrNotAdmin unless an admin is signed in
func (m *Manager) RequireAdmin() error {
	if err := m.RequireAuth(); err != nil {
		return err
	}
	if !m.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

// IsGuardError reports whether err was returned by RequireAuth or RequireAdmin
func IsGuardError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrNotAdmin)
}

func (m *Manager) setAuthenticated(token string, user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAuthenticated
	m.token = token
	m.user = cloneUser(user)
}

func (m *Manager) setAnonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAnonymous
	m.token = ""
	m.user = nil
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
