// Package apitest runs an in-memory adoption backend for tests.
//
// The server speaks the same REST surface and {success, statusCode, message, data}
// envelopes as the real backend, authenticates with JWT bearer tokens or the
// token cookie, and can be told to answer any route with a canned response.
package apitest

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/petadoption/webclient/internal/models"
)

type userRecord struct {
	user         models.User
	passwordHash []byte
}

// store is the shared state behind the backend services
type store struct {
	mu    sync.RWMutex
	users map[string]*userRecord
	pets  map[string]*models.Pet
	apps  map[string]*models.Application
	// uploaded photos by file name
	uploads map[string][]byte
	// insertion sequence, used to list newest first
	seq     int
	created map[string]int
}

func newStore() *store {
	return &store{
		users:   make(map[string]*userRecord),
		pets:    make(map[string]*models.Pet),
		apps:    make(map[string]*models.Application),
		uploads: make(map[string][]byte),
		created: make(map[string]int),
	}
}

// newID returns a fresh record id and remembers its creation order. Callers hold mu.
func (s *store) newID() string {
	id := uuid.New().String()
	s.seq++
	s.created[id] = s.seq
	return id
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// userByEmail returns the account with email. Callers hold mu.
func (s *store) userByEmail(email string) *userRecord {
	for _, rec := range s.users {
		if rec.user.Email == email {
			return rec
		}
	}
	return nil
}

// newestFirst sorts ids by creation order, latest first. Callers hold mu.
func (s *store) newestFirst(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		return s.created[ids[i]] > s.created[ids[j]]
	})
}

type pageMeta struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// paginate applies page and limit to n items and returns the slice bounds and page metadata
func paginate(n, page, limit int) (start, end int, meta pageMeta) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	start = (page - 1) * limit
	if start > n {
		start = n
	}
	end = start + limit
	if end > n {
		end = n
	}
	meta = pageMeta{
		Page:       page,
		Limit:      limit,
		Total:      n,
		TotalPages: (n + limit - 1) / limit,
	}
	return start, end, meta
}
