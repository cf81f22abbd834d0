package models

import "strings"

// Status is a pet or application status as sent by the backend
type Status string

// Pet statuses
const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusAdopted   Status = "adopted"
)

// Application statuses
const (
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// PetStatuses lists the statuses a pet may be saved with
var PetStatuses = []Status{StatusAvailable, StatusPending, StatusAdopted}

// ApplicationStatuses lists the statuses an application may be moved to
var ApplicationStatuses = []Status{StatusPending, StatusApproved, StatusRejected}

// Is compares two statuses ignoring case and surrounding spaces
func (s Status) Is(other Status) bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), strings.TrimSpace(string(other)))
}

// Normalize returns the lower-cased status
func (s Status) Normalize() Status {
	return Status(strings.ToLower(strings.TrimSpace(string(s))))
}

// OneOf reports whether s matches any of the given statuses
func (s Status) OneOf(statuses ...Status) bool {
	for _, other := range statuses {
		if s.Is(other) {
			return true
		}
	}
	return false
}

// Label returns the status for display, or fallback when it is empty
func (s Status) Label(fallback string) string {
	if strings.TrimSpace(string(s)) == "" {
		return fallback
	}
	return string(s)
}
