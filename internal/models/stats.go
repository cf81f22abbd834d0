package models

import (
	"encoding/json"
	"fmt"
)

// DashboardStats are the admin dashboard totals
type DashboardStats struct {
	TotalPets           int `json:"totalPets" yaml:"totalPets"`
	AvailablePets       int `json:"availablePets" yaml:"availablePets"`
	PendingApplications int `json:"pendingApplications" yaml:"pendingApplications"`
	TotalApplications   int `json:"totalApplications" yaml:"totalApplications"`
	TotalUsers          int `json:"totalUsers" yaml:"totalUsers"`
}

// DecodeDashboardStats reads dashboard totals.
//
// Each total is taken from the flat key, or from the nested
// {pets:{total,available}, applications:{total,pending}, users:{total}} form
// when the flat key is zero or absent.
func DecodeDashboardStats(data json.RawMessage) (DashboardStats, error) {
	var raw struct {
		TotalPets           json.RawMessage `json:"totalPets"`
		AvailablePets       json.RawMessage `json:"availablePets"`
		PendingApplications json.RawMessage `json:"pendingApplications"`
		TotalApplications   json.RawMessage `json:"totalApplications"`
		TotalUsers          json.RawMessage `json:"totalUsers"`
		Pets                struct {
			Total     json.RawMessage `json:"total"`
			Available json.RawMessage `json:"available"`
		} `json:"pets"`
		Applications struct {
			Total   json.RawMessage `json:"total"`
			Pending json.RawMessage `json:"pending"`
		} `json:"applications"`
		Users struct {
			Total json.RawMessage `json:"total"`
		} `json:"users"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return DashboardStats{}, fmt.Errorf("failed to decode dashboard stats: %w", err)
	}

	return DashboardStats{
		TotalPets:           firstInt(raw.TotalPets, raw.Pets.Total),
		AvailablePets:       firstInt(raw.AvailablePets, raw.Pets.Available),
		PendingApplications: firstInt(raw.PendingApplications, raw.Applications.Pending),
		TotalApplications:   firstInt(raw.TotalApplications, raw.Applications.Total),
		TotalUsers:          firstInt(raw.TotalUsers, raw.Users.Total),
	}, nil
}

// StatsBreakdown is a detailed statistics payload, kept as sent
type StatsBreakdown map[string]any

func firstInt(values ...json.RawMessage) int {
	for _, v := range values {
		if n := lenientInt(v); n != 0 {
			return n
		}
	}
	return 0
}
