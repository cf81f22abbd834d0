package views

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/petadoption/webclient/internal/api"
	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/services"
)

func okEnv(data string) *api.Envelope {
	env := &api.Envelope{Success: true, StatusCode: 200, Kind: api.KindWrapped}
	if data != "" {
		env.Data = json.RawMessage(data)
	}
	return env
}

func okMsg(message string) *api.Envelope {
	return &api.Envelope{Success: true, Message: message, Kind: api.KindWrapped}
}

func failEnv(status int, message string) *api.Envelope {
	return &api.Envelope{Success: false, StatusCode: status, Message: message, Kind: api.KindWrapped}
}

// mockPetAPI is a mock implementation of PetAPI
type mockPetAPI struct {
	mu sync.Mutex

	listEnv   *api.Envelope
	getEnv    *api.Envelope
	createEnv *api.Envelope
	updateEnv *api.Envelope
	deleteEnv *api.Envelope

	// block, when set, is waited on before List answers
	block chan struct{}

	lastQuery  services.PetQuery
	lastInput  models.PetInput
	lastPhoto  *services.Photo
	lastID     models.ID
	listCalls  int
	getCalls   int
	createCall int
	updateCall int
}

func (m *mockPetAPI) List(ctx context.Context, query services.PetQuery) *api.Envelope {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	m.lastQuery = query
	return m.listEnv
}

func (m *mockPetAPI) Get(ctx context.Context, id models.ID) *api.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	m.lastID = id
	return m.getEnv
}

func (m *mockPetAPI) Create(ctx context.Context, input models.PetInput, photo *services.Photo) *api.Envelope {
	m.createCall++
	m.lastInput = input
	m.lastPhoto = photo
	return m.createEnv
}

func (m *mockPetAPI) Update(ctx context.Context, id models.ID, input models.PetInput, photo *services.Photo) *api.Envelope {
	m.updateCall++
	m.lastID = id
	m.lastInput = input
	m.lastPhoto = photo
	return m.updateEnv
}

func (m *mockPetAPI) Delete(ctx context.Context, id models.ID) *api.Envelope {
	m.lastID = id
	return m.deleteEnv
}

// mockApplicationAPI is a mock implementation of ApplicationAPI
type mockApplicationAPI struct {
	createEnv *api.Envelope
	mineEnv   *api.Envelope
	allEnv    *api.Envelope
	getEnv    *api.Envelope
	statusEnv *api.Envelope
	deleteEnv *api.Envelope

	lastInput  models.ApplicationInput
	lastLimit  int
	lastStatus models.Status
	createCall int
	mineCalls  int
	allCalls   int
}

func (m *mockApplicationAPI) Create(ctx context.Context, input models.ApplicationInput) *api.Envelope {
	m.createCall++
	m.lastInput = input
	return m.createEnv
}

func (m *mockApplicationAPI) Mine(ctx context.Context) *api.Envelope {
	m.mineCalls++
	return m.mineEnv
}

func (m *mockApplicationAPI) All(ctx context.Context, limit int) *api.Envelope {
	m.allCalls++
	m.lastLimit = limit
	return m.allEnv
}

func (m *mockApplicationAPI) Get(ctx context.Context, id models.ID) *api.Envelope {
	return m.getEnv
}

func (m *mockApplicationAPI) UpdateStatus(ctx context.Context, id models.ID, status models.Status) *api.Envelope {
	m.lastStatus = status
	return m.statusEnv
}

func (m *mockApplicationAPI) Delete(ctx context.Context, id models.ID) *api.Envelope {
	return m.deleteEnv
}

// mockStatisticsAPI is a mock implementation of StatisticsAPI
type mockStatisticsAPI struct {
	dashboardEnv    *api.Envelope
	petsEnv         *api.Envelope
	applicationsEnv *api.Envelope
	usersEnv        *api.Envelope
}

func (m *mockStatisticsAPI) Dashboard(ctx context.Context) *api.Envelope    { return m.dashboardEnv }
func (m *mockStatisticsAPI) Applications(ctx context.Context) *api.Envelope { return m.applicationsEnv }
func (m *mockStatisticsAPI) Pets(ctx context.Context) *api.Envelope         { return m.petsEnv }
func (m *mockStatisticsAPI) Users(ctx context.Context) *api.Envelope        { return m.usersEnv }

// mockSession is a mock implementation of Session
type mockSession struct {
	user *models.User
}

func (m *mockSession) IsAuthenticated() bool { return m.user != nil }
func (m *mockSession) IsAdmin() bool         { return m.user.IsAdmin() }
func (m *mockSession) User() *models.User    { return m.user }
