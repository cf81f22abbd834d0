package models

import (
	"bytes"
	"encoding/json"
)

// Ref is a related record that the backend sends either populated or as a bare id
type Ref struct {
	ID   ID     `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// UnmarshalJSON accepts an object with id/_id and name, or a bare id
func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] != '{' {
		return r.ID.UnmarshalJSON(b)
	}
	var aux struct {
		ID      ID     `json:"id"`
		MongoID ID     `json:"_id"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.ID = firstID(aux.ID, aux.MongoID)
	r.Name = aux.Name
	return nil
}

// Application is an adoption application
type Application struct {
	ID        ID     `json:"id" yaml:"id"`
	Pet       *Ref   `json:"pet,omitempty" yaml:"pet,omitempty"`
	PetID     ID     `json:"petId,omitempty" yaml:"petId,omitempty"`
	User      *Ref   `json:"user,omitempty" yaml:"user,omitempty"`
	UserID    ID     `json:"userId,omitempty" yaml:"userId,omitempty"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
	Status    Status `json:"status" yaml:"status"`
	CreatedAt string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// UnmarshalJSON accepts "_id" and "created_at" as alternative keys
func (a *Application) UnmarshalJSON(b []byte) error {
	type alias Application
	aux := struct {
		*alias
		MongoID        ID     `json:"_id"`
		CreatedAtSnake string `json:"created_at"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	a.ID = firstID(a.ID, aux.MongoID)
	a.CreatedAt = firstString(a.CreatedAt, aux.CreatedAtSnake)
	return nil
}

// PetRef returns the id of the pet the application is for
func (a *Application) PetRef() ID {
	if a.Pet != nil && !a.Pet.ID.IsZero() {
		return a.Pet.ID
	}
	return a.PetID
}

// PetName returns the pet name for display, "Pet" when unknown
func (a *Application) PetName() string {
	if a.Pet != nil && a.Pet.Name != "" {
		return a.Pet.Name
	}
	return "Pet"
}

// ApplicantName returns the applicant for display, "Unknown" when neither name nor id is known
func (a *Application) ApplicantName() string {
	if a.User != nil && a.User.Name != "" {
		return a.User.Name
	}
	if a.User != nil && !a.User.ID.IsZero() {
		return a.User.ID.String()
	}
	if !a.UserID.IsZero() {
		return a.UserID.String()
	}
	return "Unknown"
}

// ApplicationInput is the body of an adoption request
type ApplicationInput struct {
	PetID   ID     `json:"petId"`
	Message string `json:"message"`
}

// StatusUpdate is the body of an application status change
type StatusUpdate struct {
	Status Status `json:"status"`
}
