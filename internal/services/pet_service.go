package services

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/models"
	"go.uber.org/zap"
)

// PetQuery holds the pet list filters. Empty fields are left out of the query string.
type PetQuery struct {
	Search  string
	Species string
	Breed   string
	Age     string
	Status  string
	Page    int
	Limit   int
}

// Values encodes the query, skipping empty filters and non-positive page/limit
func (q PetQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	filters := map[string]string{
		"search":  q.Search,
		"species": q.Species,
		"breed":   q.Breed,
		"age":     q.Age,
		"status":  q.Status,
	}
	for k, val := range filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Photo is an image file uploaded with a pet
type Photo struct {
	Filename string
	Content  io.Reader
}

type petService struct {
	client Requester
	logger *zap.Logger
}

// NewPetService creates a new pet service
func NewPetService(client Requester, logger *zap.Logger) *petService {
	return &petService{
		client: client,
		logger: logger,
	}
}

// List retrieves pets matching query
func (s *petService) List(ctx context.Context, query PetQuery) *api.Envelope {
	return s.client.Get(ctx, "/pets", query.Values())
}

// Get retrieves a pet by its ID
func (s *petService) Get(ctx context.Context, id models.ID) *api.Envelope {
	return s.client.Get(ctx, "/pets/"+escape(id.String()), nil)
}

// Create creates a pet.
//
// With a photo the pet is sent as a multipart form and the photo as its "photo" part;
// otherwise it is sent as JSON.
func (s *petService) Create(ctx context.Context, input models.PetInput, photo *Photo) *api.Envelope {
	if photo != nil {
		return s.client.PostForm(ctx, "/pets", petForm(input, photo))
	}
	return s.client.Post(ctx, "/pets", input)
}

// Update replaces the editable fields of a pet. See Create for how photo is sent.
func (s *petService) Update(ctx context.Context, id models.ID, input models.PetInput, photo *Photo) *api.Envelope {
	path := "/pets/" + escape(id.String())
	if photo != nil {
		return s.client.PutForm(ctx, path, petForm(input, photo))
	}
	return s.client.Put(ctx, path, input)
}

// Delete removes a pet
func (s *petService) Delete(ctx context.Context, id models.ID) *api.Envelope {
	return s.client.Delete(ctx, "/pets/"+escape(id.String()))
}

// petForm builds the multipart body. An uploaded file replaces any photo URL.
func petForm(input models.PetInput, photo *Photo) *api.Form {
	form := api.NewForm()
	fields := input.Fields()
	delete(fields, "photo")
	for _, key := range []string{"name", "species", "breed", "age", "gender", "size", "description", "status"} {
		if v, ok := fields[key]; ok {
			form.Set(key, v)
		}
	}
	return form.AddFile("photo", photo.Filename, photo.Content)
}
