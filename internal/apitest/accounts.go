package apitest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/petadoption/webclient/internal/auth"
	"github.com/petadoption/webclient/internal/handlers"
	"github.com/petadoption/webclient/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost keeps hashing fast in tests
const passwordCost = bcrypt.MinCost

type accounts struct {
	store  *store
	tokens *auth.TokenGenerator
}

func (a *accounts) Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error) {
	user, err := a.create(reg.Name, reg.Email, reg.Password, "user")
	if err != nil {
		return nil, err
	}
	return a.issue(user)
}

func (a *accounts) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	a.store.mu.RLock()
	rec := a.store.userByEmail(creds.Email)
	var (
		user models.User
		hash []byte
	)
	if rec != nil {
		user, hash = rec.user, rec.passwordHash
	}
	a.store.mu.RUnlock()

	if rec == nil || bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)) != nil {
		return nil, handlers.NewError(http.StatusUnauthorized, "Invalid credentials")
	}
	return a.issue(user)
}

func (a *accounts) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	rec, ok := a.store.users[userID]
	if !ok {
		return nil, handlers.NewError(http.StatusNotFound, "User not found")
	}
	user := rec.user
	return &user, nil
}

// create adds an account, rejecting an email already registered
func (a *accounts) create(name, email, password, role string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	if a.store.userByEmail(email) != nil {
		return models.User{}, handlers.NewError(http.StatusBadRequest, "User already exists")
	}
	user := models.User{
		ID:        models.ID(a.store.newID()),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now(),
	}
	a.store.users[user.ID.String()] = &userRecord{user: user, passwordHash: hash}
	return user, nil
}

func (a *accounts) issue(user models.User) (*models.AuthResult, error) {
	token, err := a.tokens.Generate(user.ID.String(), user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.AuthResult{Token: token, User: &user}, nil
}
