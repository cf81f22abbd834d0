package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/models"
)

// ErrUnsuccessful is returned by the decode helpers for envelopes that report failure
var ErrUnsuccessful = errors.New("request was not successful")

func checkSuccess(env *api.Envelope) error {
	if !env.Success {
		return fmt.Errorf("%w: %s", ErrUnsuccessful, env.ErrorMessage())
	}
	return nil
}

// DecodePetPage reads a pet list. Pets may arrive as an array, under "data" or under "pets".
func DecodePetPage(env *api.Envelope) (models.Page[models.Pet], error) {
	if err := checkSuccess(env); err != nil {
		return models.Page[models.Pet]{}, err
	}
	return models.DecodePage[models.Pet](env.Data, "pets")
}

// DecodePet reads a single pet
func DecodePet(env *api.Envelope) (*models.Pet, error) {
	if err := checkSuccess(env); err != nil {
		return nil, err
	}
	var wrapped struct {
		Pet *models.Pet `json:"pet"`
	}
	if err := json.Unmarshal(env.Data, &wrapped); err == nil && wrapped.Pet != nil {
		return wrapped.Pet, nil
	}
	var pet models.Pet
	if err := env.Decode(&pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

// DecodeApplicationPage reads an application list. Applications may arrive as an
// array, under "data" or under "applications".
func DecodeApplicationPage(env *api.Envelope) (models.Page[models.Application], error) {
	if err := checkSuccess(env); err != nil {
		return models.Page[models.Application]{}, err
	}
	return models.DecodePage[models.Application](env.Data, "applications")
}

// DecodeApplication reads a single application
func DecodeApplication(env *api.Envelope) (*models.Application, error) {
	if err := checkSuccess(env); err != nil {
		return nil, err
	}
	var app models.Application
	if err := env.Decode(&app); err != nil {
		return nil, err
	}
	return &app, nil
}

// DecodeDashboard reads the dashboard totals
func DecodeDashboard(env *api.Envelope) (models.DashboardStats, error) {
	if err := checkSuccess(env); err != nil {
		return models.DashboardStats{}, err
	}
	if !env.HasData() {
		return models.DashboardStats{}, api.ErrNoData
	}
	return models.DecodeDashboardStats(env.Data)
}

// DecodeBreakdown reads a detailed statistics payload
func DecodeBreakdown(env *api.Envelope) (models.StatsBreakdown, error) {
	if err := checkSuccess(env); err != nil {
		return nil, err
	}
	var stats models.StatsBreakdown
	if err := env.Decode(&stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// DecodeUser reads a user from "data.user" or from data itself
func DecodeUser(env *api.Envelope) (*models.User, error) {
	if err := checkSuccess(env); err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, api.ErrNoData
	}
	user, err := models.DecodeUser(env.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	if user == nil {
		return nil, api.ErrNoData
	}
	return user, nil
}
