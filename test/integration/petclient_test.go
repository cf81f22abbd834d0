package integration

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/petadoption/webclient/internal/apitest"
	"github.com/petadoption/webclient/internal/app"
	"github.com/petadoption/webclient/internal/config"
	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/services"
	"github.com/petadoption/webclient/internal/session"
	"github.com/petadoption/webclient/internal/storage"
	"github.com/petadoption/webclient/internal/validation"
	"github.com/petadoption/webclient/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin123"
	testPassword  = "secret123"
)

var (
	testConfig *config.Config
	testLogger *zap.Logger
	// testServer is nil when TEST_API_URL points at an external backend
	testServer *apitest.Server
)

func TestMain(m *testing.M) {
	var err error
	testLogger, err = zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	testConfig, err = config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}
	if testConfig.API.BaseURL == "" {
		testServer = apitest.NewServer(apitest.WithLogger(testLogger))
		seedTestData(testServer)
		testConfig.API.BaseURL = testServer.URL()
	}

	code := m.Run()

	if testServer != nil {
		testServer.Close()
	}
	os.Exit(code)
}

// seedTestData adds an admin account and a few pets to the in-memory backend
func seedTestData(srv *apitest.Server) {
	if _, err := srv.SeedUser("Admin", adminEmail, adminPassword, models.RoleAdmin); err != nil {
		panic(err)
	}
	pets := []models.PetInput{
		{Name: "Rex", Species: "dog", Breed: "Labrador", Age: 3, Status: models.StatusAvailable},
		{Name: "Tom", Species: "cat", Breed: "Siamese", Age: 2, Status: models.StatusAvailable},
		{Name: "Max", Species: "dog", Breed: "Beagle", Age: 5, Status: models.StatusAdopted},
	}
	for _, p := range pets {
		if _, err := srv.SeedPet(p); err != nil {
			panic(err)
		}
	}
}

// requireLocalBackend skips tests that seed data or inject failures
func requireLocalBackend(t *testing.T) {
	t.Helper()
	if testServer == nil {
		t.Skip("Skipping: needs the in-memory backend")
	}
}

// newApp wires a client stack against the test backend
func newApp(t *testing.T, store storage.Store) *app.App {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}
	a, err := app.New(context.Background(), testConfig, testLogger, app.WithStore(store))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func uniqueEmail() string {
	return "user-" + uuid.New().String()[:8] + "@example.com"
}

func signInAdmin(t *testing.T, a *app.App) {
	t.Helper()
	requireLocalBackend(t)
	_, err := a.Session.Login(context.Background(), models.Credentials{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	require.True(t, a.Session.IsAdmin())
}

func TestIntegration_SessionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	ctx := context.Background()
	store := storage.NewMemoryStore()
	email := uniqueEmail()

	a := newApp(t, store)
	a.Session.Init(ctx)
	assert.Equal(t, session.StateAnonymous, a.Session.State())

	user, err := a.Session.Register(ctx, models.Registration{Name: "Ann", Email: email, Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, email, user.Email)
	assert.True(t, a.Session.IsAuthenticated())
	assert.False(t, a.Session.IsAdmin())

	stored, ok, err := store.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.Session.Token(), stored)
	_, hasExpiry := a.Session.TokenExpiry()
	assert.True(t, hasExpiry)

	// a second process sharing the durable store resumes the session
	b := newApp(t, store)
	b.Session.Init(ctx)
	require.True(t, b.Session.IsAuthenticated())
	assert.Equal(t, email, b.Session.User().Email)

	b.Session.Logout(ctx)
	assert.Equal(t, session.StateAnonymous, b.Session.State())
	assert.Nil(t, b.Session.User())
	_, ok, err = store.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = b.Cookies.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = a.Session.Login(ctx, models.Credentials{Email: email, Password: "wrong-password"})
	var authErr *session.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
}

func TestIntegration_LoginSetsCookie(t *testing.T) {
	requireLocalBackend(t)
	ctx := context.Background()
	a := newApp(t, nil)

	_, err := a.Session.Login(ctx, models.Credentials{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)

	cookie, ok, err := a.Cookies.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.Session.Token(), cookie)
}

func TestIntegration_InvalidStoredToken(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.TokenKey, "not-a-token"))

	a := newApp(t, store)
	a.Session.Init(ctx)

	assert.Equal(t, session.StateAnonymous, a.Session.State())
	_, ok, err := store.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIntegration_SQLiteTokenStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	ctx := context.Background()
	db, err := storage.OpenSQLite(ctx, filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	defer db.Close()
	store := storage.NewSQLStore(db, testLogger)

	a := newApp(t, store)
	email := uniqueEmail()
	_, err = a.Session.Register(ctx, models.Registration{Name: "Sam", Email: email, Password: testPassword})
	require.NoError(t, err)

	b := newApp(t, store)
	b.Session.Init(ctx)
	require.True(t, b.Session.IsAuthenticated())
	assert.Equal(t, email, b.Session.User().Email)
}

func TestIntegration_BrowseAndApply(t *testing.T) {
	requireLocalBackend(t)
	ctx := context.Background()

	a := newApp(t, nil)
	notify := views.NewRecorder()

	list := views.NewPetList(a.Pets, notify, testLogger)
	list.Load(ctx)
	require.False(t, notify.HasErrors())
	require.NotEmpty(t, list.Items())
	for _, p := range list.Items() {
		assert.True(t, p.IsAvailable(), "default filter shows available pets only")
	}

	list.SetFilters(views.PetFilters{Species: "cat"})
	list.Load(ctx)
	require.Len(t, list.Items(), 1)
	pet := list.Items()[0]
	assert.Equal(t, "Tom", pet.Name)

	details := views.NewPetDetails(pet.ID, a.Pets, a.Applications, a.Session, notify, testLogger)
	details.Load(ctx)
	require.True(t, details.CanApply())

	assert.False(t, details.Apply(ctx, "Please"))
	last, _ := notify.Last()
	assert.Equal(t, views.LevelInfo, last.Level)

	_, err := a.Session.Register(ctx, models.Registration{Name: "Ann", Email: uniqueEmail(), Password: testPassword})
	require.NoError(t, err)
	require.True(t, details.Apply(ctx, "I have a garden"))

	dashboard := views.NewUserDashboard(a.Applications, notify, testLogger)
	dashboard.Load(ctx)
	require.Len(t, dashboard.Items(), 1)
	submitted := dashboard.Items()[0]
	assert.Equal(t, "Tom", submitted.PetName())
	assert.True(t, submitted.Status.Is(models.StatusPending))

	// the admin approves from a separate session
	admin := newApp(t, nil)
	signInAdmin(t, admin)
	adminNotify := views.NewRecorder()
	manage := views.NewManageApplications(admin.Applications, adminNotify, testLogger)
	manage.Load(ctx)
	require.NoError(t, manage.SetFilter("Pending"))
	require.NotEmpty(t, manage.Items())
	require.True(t, manage.UpdateStatus(ctx, submitted.ID, models.StatusApproved))

	details.Load(ctx)
	assert.False(t, details.CanApply())
	assert.True(t, details.Pet().Status.Is(models.StatusAdopted))

	require.True(t, dashboard.Delete(ctx, submitted.ID))
	assert.Empty(t, dashboard.Items())
}

func TestIntegration_PetListBackendFailure(t *testing.T) {
	requireLocalBackend(t)
	ctx := context.Background()
	testServer.Override(http.MethodGet, "/pets", http.StatusOK, `{"success":false,"statusCode":500,"message":"DB error"}`)
	defer testServer.ClearOverrides()

	a := newApp(t, nil)
	notify := views.NewRecorder()
	list := views.NewPetList(a.Pets, notify, testLogger)
	list.Load(ctx)

	assert.Empty(t, list.Items())
	assert.Equal(t, []views.Notification{{Level: views.LevelError, Message: "DB error"}}, notify.Notifications())

	assert.Equal(t, 1.0, requestsCounter(t, a, "GET", "backend_failure"))
}

// requestsCounter reads the request counter of a from its registry
func requestsCounter(t *testing.T, a *app.App, method, outcome string) float64 {
	t.Helper()
	families, err := a.Registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "petctl_api_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["method"] == method && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestIntegration_LogoutFailureStillClears(t *testing.T) {
	requireLocalBackend(t)
	ctx := context.Background()
	a := newApp(t, nil)
	_, err := a.Session.Register(ctx, models.Registration{Name: "Lou", Email: uniqueEmail(), Password: testPassword})
	require.NoError(t, err)

	testServer.Override(http.MethodPost, "/auth/logout", http.StatusInternalServerError, `{"success":false,"message":"down"}`)
	defer testServer.ClearOverrides()

	a.Session.Logout(ctx)

	assert.False(t, a.Session.IsAuthenticated())
	assert.Empty(t, a.Session.Token())
	_, ok, err := a.Store.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIntegration_AdminScreens(t *testing.T) {
	requireLocalBackend(t)
	ctx := context.Background()
	a := newApp(t, nil)
	signInAdmin(t, a)
	notify := views.NewRecorder()

	dash := views.NewAdminDashboard(a.Statistics, notify, testLogger)
	dash.Load(ctx)
	require.False(t, notify.HasErrors())
	assert.GreaterOrEqual(t, dash.Totals().TotalPets, 3)
	assert.GreaterOrEqual(t, dash.Totals().TotalUsers, 1)
	b := dash.Breakdowns()
	assert.NotNil(t, b.Pets)
	assert.NotNil(t, b.Applications)
	assert.NotNil(t, b.Users)

	manage := views.NewManagePets(a.Pets, notify, testLogger)
	form := validation.PetForm{Input: models.PetInput{Name: "Luna", Species: "cat", Breed: "Persian", Age: 4, Status: models.StatusAvailable}}
	photo := &services.Photo{Filename: "luna.jpg", Content: strings.NewReader("jpeg")}
	require.True(t, manage.Save(ctx, "", form, photo))

	var luna *models.Pet
	for _, p := range manage.Items() {
		if p.Name == "Luna" {
			luna = &p
		}
	}
	require.NotNil(t, luna)
	assert.True(t, strings.HasPrefix(luna.Photo, "/uploads/"))
	resp, err := http.Get(views.ImageURL(testConfig.AssetBaseURL(), luna.Photo))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	form.Input.Age = 5
	form.PhotoURL = "https://cdn.example.com/luna.jpg"
	require.True(t, manage.Save(ctx, luna.ID, form, nil))
	details := views.NewPetDetails(luna.ID, a.Pets, a.Applications, a.Session, notify, testLogger)
	details.Load(ctx)
	assert.Equal(t, 5, details.Pet().Age)
	assert.Equal(t, "https://cdn.example.com/luna.jpg", details.Pet().Photo)

	require.True(t, manage.Delete(ctx, luna.ID))

	// a regular user is refused the admin endpoints
	user := newApp(t, nil)
	_, err = user.Session.Register(ctx, models.Registration{Name: "Joe", Email: uniqueEmail(), Password: testPassword})
	require.NoError(t, err)
	assert.ErrorIs(t, user.Session.RequireAdmin(), session.ErrNotAdmin)
	userNotify := views.NewRecorder()
	views.NewAdminDashboard(user.Statistics, userNotify, testLogger).Load(ctx)
	assert.True(t, userNotify.HasErrors())
}
