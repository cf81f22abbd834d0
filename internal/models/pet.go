package models

import (
	"encoding/json"
	"strconv"
)

// Pet is an adoptable animal
type Pet struct {
	ID          ID     `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Species     string `json:"species" yaml:"species"`
	Breed       string `json:"breed" yaml:"breed"`
	Age         int    `json:"age" yaml:"age"`
	Gender      string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Size        string `json:"size,omitempty" yaml:"size,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status `json:"status" yaml:"status"`
	Photo       string `json:"photo,omitempty" yaml:"photo,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// UnmarshalJSON accepts "_id", "imageURL" and string ages
func (p *Pet) UnmarshalJSON(b []byte) error {
	type alias Pet
	aux := struct {
		*alias
		Age            json.RawMessage `json:"age"`
		MongoID        ID              `json:"_id"`
		ImageURL       string          `json:"imageURL"`
		CreatedAtSnake string          `json:"created_at"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.ID = firstID(p.ID, aux.MongoID)
	p.Photo = firstString(aux.ImageURL, p.Photo)
	p.CreatedAt = firstString(p.CreatedAt, aux.CreatedAtSnake)
	p.Age = lenientInt(aux.Age)
	return nil
}

// IsAvailable reports whether applications can be submitted for the pet
func (p *Pet) IsAvailable() bool {
	return p.Status.Is(StatusAvailable)
}

// PetInput is the body of pet create and update requests
type PetInput struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Age         int    `json:"age"`
	Gender      string `json:"gender,omitempty"`
	Size        string `json:"size,omitempty"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`
	Photo       string `json:"photo,omitempty"`
}

// Fields returns the input as multipart form fields
func (in PetInput) Fields() map[string]string {
	fields := map[string]string{
		"name":    in.Name,
		"species": in.Species,
		"breed":   in.Breed,
		"age":     strconv.Itoa(in.Age),
		"status":  string(in.Status),
	}
	optional := map[string]string{
		"gender":      in.Gender,
		"size":        in.Size,
		"description": in.Description,
		"photo":       in.Photo,
	}
	for k, v := range optional {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}

// InputFromPet returns the editable fields of an existing pet
func InputFromPet(p Pet) PetInput {
	return PetInput{
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Age:         p.Age,
		Gender:      p.Gender,
		Size:        p.Size,
		Description: p.Description,
		Status:      p.Status,
		Photo:       p.Photo,
	}
}

func lenientInt(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return int(v)
		}
	}
	return 0
}
