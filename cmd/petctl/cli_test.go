package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petadoption/webclient/internal/apitest"
	"github.com/petadoption/webclient/internal/app"
	"github.com/petadoption/webclient/internal/config"
	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/session"
	"github.com/petadoption/webclient/internal/storage"
	"github.com/petadoption/webclient/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin123"
)

type harness struct {
	srv    *apitest.Server
	app    *app.App
	cli    *cli
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	pets   map[string]models.ID
}

func newHarness(t *testing.T, format string) *harness {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	_, err := srv.SeedUser("Admin", adminEmail, adminPassword, models.RoleAdmin)
	require.NoError(t, err)

	h := &harness{srv: srv, pets: map[string]models.ID{}, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	for _, in := range []models.PetInput{
		{Name: "Rex", Species: "dog", Breed: "Labrador", Age: 3, Status: models.StatusAvailable},
		{Name: "Tom", Species: "cat", Breed: "Siamese", Age: 2, Status: models.StatusAvailable},
		{Name: "Max", Species: "dog", Breed: "Beagle", Age: 5, Status: models.StatusAdopted},
	} {
		p, err := srv.SeedPet(in)
		require.NoError(t, err)
		h.pets[p.Name] = p.ID
	}

	cfg := &config.Config{
		API:    config.APIConfig{BaseURL: srv.URL()},
		Output: config.OutputConfig{Format: format},
	}
	h.app, err = app.New(context.Background(), cfg, zap.NewNop(), app.WithStore(storage.NewMemoryStore()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.app.Close() })

	h.cli = newCLI(h.app, strings.NewReader(""), h.stdout, h.stderr)
	return h
}

func (h *harness) run(args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()
	return h.cli.run(context.Background(), args)
}

func (h *harness) setFormat(format string) {
	h.cli.out.format = format
}

func (h *harness) loginAdmin(t *testing.T) {
	t.Helper()
	require.NoError(t, h.run("login", "-email", adminEmail, "-password", adminPassword))
}

func TestCLI_Version(t *testing.T) {
	h := newHarness(t, config.OutputJSON)

	require.NoError(t, h.run("version"))

	var info version.Info
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &info))
	assert.Equal(t, version.Get(), info)
	assert.Equal(t, 0, h.srv.Hits("GET", "/auth/me"))
}

func TestCLI_Dispatch(t *testing.T) {
	h := newHarness(t, config.OutputTable)

	assert.ErrorIs(t, h.run(), errUsage)
	assert.ErrorContains(t, h.run("adopt"), `unknown command "adopt"`)
	assert.ErrorIs(t, h.run("pets"), errUsage)
	assert.ErrorContains(t, h.run("pets", "feed"), `unknown pets command "feed"`)
	assert.ErrorContains(t, h.run("applications", "archive"), `unknown applications command "archive"`)
	assert.ErrorIs(t, h.run("logout", "now"), errUsage)
}

func TestCLI_SessionCommands(t *testing.T) {
	h := newHarness(t, config.OutputJSON)

	require.NoError(t, h.run("whoami"))
	var out whoamiOutput
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &out))
	assert.Equal(t, whoamiOutput{State: "anonymous"}, out)
	assert.ErrorIs(t, h.run("profile"), session.ErrNotAuthenticated)

	h.loginAdmin(t)
	assert.Contains(t, h.stderr.String(), "OK: Logged in as Admin")

	require.NoError(t, h.run("whoami"))
	out = whoamiOutput{}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &out))
	assert.Equal(t, "authenticated", out.State)
	assert.Equal(t, adminEmail, out.Email)
	assert.True(t, out.Admin)
	assert.NotEmpty(t, out.TokenExpiresAt)

	h.setFormat(config.OutputYAML)
	require.NoError(t, h.run("profile"))
	var profile map[string]string
	require.NoError(t, yaml.Unmarshal(h.stdout.Bytes(), &profile))
	assert.Equal(t, "Admin", profile["name"])
	assert.Equal(t, models.RoleAdmin, profile["role"])

	require.NoError(t, h.run("logout"))
	assert.False(t, h.app.Session.IsAuthenticated())
	_, ok, err := h.app.Store.Get(context.Background(), storage.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCLI_Login(t *testing.T) {
	t.Run("password from stdin", func(t *testing.T) {
		h := newHarness(t, config.OutputTable)
		h.cli.in = strings.NewReader(adminPassword + "\n")

		require.NoError(t, h.run("login", "-email", adminEmail))
		assert.True(t, h.app.Session.IsAdmin())
		assert.Contains(t, h.stderr.String(), "Password: ")
	})

	t.Run("missing password on stdin", func(t *testing.T) {
		h := newHarness(t, config.OutputTable)
		assert.ErrorContains(t, h.run("login", "-email", adminEmail), "failed to read password")
	})

	t.Run("invalid email", func(t *testing.T) {
		h := newHarness(t, config.OutputTable)
		err := h.run("login", "-email", "not-an-email", "-password", "x")
		require.Error(t, err)
		assert.Equal(t, 0, h.srv.Hits("POST", "/auth/login"))
	})

	t.Run("rejected credentials", func(t *testing.T) {
		h := newHarness(t, config.OutputTable)
		err := h.run("login", "-email", adminEmail, "-password", "wrong")
		var authErr *session.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "Invalid credentials", authErr.Error())
		assert.False(t, h.app.Session.IsAuthenticated())
	})
}

func TestCLI_Guards(t *testing.T) {
	h := newHarness(t, config.OutputTable)

	assert.ErrorIs(t, h.run("stats"), session.ErrNotAuthenticated)
	assert.ErrorIs(t, h.run("apply", "x", "-message", "hi"), session.ErrNotAuthenticated)
	assert.ErrorIs(t, h.run("applications", "mine"), session.ErrNotAuthenticated)

	require.NoError(t, h.run("register", "-name", "Ann", "-email", "ann@example.com", "-password", "secret123"))
	assert.ErrorIs(t, h.run("stats"), session.ErrNotAdmin)
	assert.ErrorIs(t, h.run("pets", "create", "-name", "Luna"), session.ErrNotAdmin)
	assert.ErrorIs(t, h.run("pets", "delete", string(h.pets["Rex"])), session.ErrNotAdmin)
	assert.ErrorIs(t, h.run("applications", "all"), session.ErrNotAdmin)
	assert.ErrorIs(t, h.run("applications", "status", "x", "approved"), session.ErrNotAdmin)
}

func TestCLI_PetsList(t *testing.T) {
	h := newHarness(t, config.OutputJSON)

	require.NoError(t, h.run("pets", "list"))
	var out petListOutput
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &out))
	assert.Len(t, out.Pets, 2)
	for _, p := range out.Pets {
		assert.True(t, p.IsAvailable())
	}

	require.NoError(t, h.run("pets", "list", "-status", "", "-species", "dog"))
	out = petListOutput{}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &out))
	assert.Len(t, out.Pets, 2)

	h.setFormat(config.OutputTable)
	require.NoError(t, h.run("pets", "list", "-search", "rex"))
	assert.Contains(t, h.stdout.String(), "Rex")
	assert.NotContains(t, h.stdout.String(), "Tom")

	require.NoError(t, h.run("pets", "list", "-species", "parrot"))
	assert.Contains(t, h.stdout.String(), "No pets found")
}

func TestCLI_PetsListBackendFailure(t *testing.T) {
	h := newHarness(t, config.OutputJSON)
	h.srv.Override("GET", "/pets", 200, `{"success":false,"message":"DB error"}`)

	assert.ErrorIs(t, h.run("pets", "list"), errReported)
	assert.Equal(t, "Error: DB error\n", h.stderr.String())
	assert.Empty(t, h.stdout.String())
}

func TestCLI_ManagePets(t *testing.T) {
	h := newHarness(t, config.OutputJSON)
	h.loginAdmin(t)

	photo := filepath.Join(t.TempDir(), "luna.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0o600))

	require.NoError(t, h.run("pets", "create", "-name", "Luna", "-species", "cat", "-breed", "Persian", "-age", "4", "-photo", photo))
	assert.Contains(t, h.stderr.String(), "OK: Pet created successfully")

	require.NoError(t, h.run("pets", "list", "-search", "Luna"))
	var list petListOutput
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &list))
	require.Len(t, list.Pets, 1)
	luna := list.Pets[0]
	assert.Equal(t, models.StatusAvailable, luna.Status)
	assert.True(t, strings.HasPrefix(luna.Photo, "/uploads/"))

	// flags after the id, untouched fields are kept
	require.NoError(t, h.run("pets", "update", string(luna.ID), "-age", "5", "-status", "pending"))
	require.NoError(t, h.run("pets", "show", string(luna.ID)))
	var shown map[string]any
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &shown))
	assert.Equal(t, "Luna", shown["name"])
	assert.Equal(t, "Persian", shown["breed"])
	assert.EqualValues(t, 5, shown["age"])
	assert.Equal(t, "pending", shown["status"])
	assert.Equal(t, false, shown["canApply"])
	assert.Equal(t, h.app.Config.AssetBaseURL()+luna.Photo, shown["photoUrl"])

	require.NoError(t, h.run("pets", "update", "-photo-url", "https://cdn.example.com/luna.jpg", string(luna.ID)))
	require.NoError(t, h.run("pets", "show", string(luna.ID)))
	shown = nil
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &shown))
	assert.Equal(t, "https://cdn.example.com/luna.jpg", shown["photoUrl"])

	assert.ErrorIs(t, h.run("pets", "create", "-name", "Nameless"), errReported)
	assert.Contains(t, h.stderr.String(), "Species is required")

	require.NoError(t, h.run("pets", "delete", string(luna.ID)))
	assert.ErrorIs(t, h.run("pets", "show", string(luna.ID)), errReported)
	assert.Contains(t, h.stderr.String(), "Error: ")

	assert.Error(t, h.run("pets", "show"))
	assert.Error(t, h.run("pets", "delete", "a", "b"))
}

func TestCLI_ApplyAndReview(t *testing.T) {
	h := newHarness(t, config.OutputJSON)
	tom := string(h.pets["Tom"])

	require.NoError(t, h.run("register", "-name", "Ann", "-email", "ann@example.com", "-password", "secret123"))

	assert.ErrorIs(t, h.run("apply", tom), errReported)
	assert.Equal(t, 0, h.srv.Hits("POST", "/adoptions"))

	require.NoError(t, h.run("apply", tom, "-message", "I have a garden"))
	assert.ErrorIs(t, h.run("apply", "-message", "Again", tom), errReported)
	assert.Contains(t, h.stderr.String(), "You have already applied for this pet")

	err := h.run("apply", string(h.pets["Max"]), "-message", "Hi")
	assert.ErrorContains(t, err, "is not available for adoption")

	require.NoError(t, h.run("applications", "mine"))
	var mine []models.Application
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Tom", mine[0].PetName())
	id := string(mine[0].ID)

	require.NoError(t, h.run("applications", "show", id))
	var shown models.Application
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &shown))
	assert.Equal(t, "I have a garden", shown.Message)

	require.NoError(t, h.run("logout"))
	h.loginAdmin(t)

	require.NoError(t, h.run("applications", "all", "-status", "PENDING"))
	var pending []models.Application
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "Ann", pending[0].ApplicantName())

	assert.Error(t, h.run("applications", "all", "-status", "archived"))
	assert.ErrorIs(t, h.run("applications", "status", id, "done"), errReported)
	require.NoError(t, h.run("applications", "status", id, "approved"))

	status, ok := h.srv.PetStatus(h.pets["Tom"])
	require.True(t, ok)
	assert.Equal(t, models.StatusAdopted, status)

	require.NoError(t, h.run("applications", "delete", id))
	require.NoError(t, h.run("applications", "all"))
	assert.JSONEq(t, "[]", h.stdout.String())
}

func TestCLI_Stats(t *testing.T) {
	h := newHarness(t, config.OutputTable)
	h.loginAdmin(t)

	require.NoError(t, h.run("stats"))
	out := h.stdout.String()
	assert.Contains(t, out, "Total pets")
	assert.Contains(t, out, "pets.")
	assert.Contains(t, out, "users.")

	// a failed breakdown is left out, the totals are still shown
	h.srv.Override("GET", "/statistics/users", 500, `{"success":false,"message":"stats down"}`)
	require.NoError(t, h.run("stats"))
	assert.Contains(t, h.stdout.String(), "Total pets")
	assert.NotContains(t, h.stdout.String(), "users.")

	h.srv.Override("GET", "/statistics/dashboard", 500, `{"success":false,"message":"stats down"}`)
	assert.ErrorIs(t, h.run("stats"), errReported)
	assert.Contains(t, h.stderr.String(), "Error: stats down")
}

func TestParseWithID(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		expectedID    models.ID
		expectedMsg   string
		expectedError bool
	}{
		{name: "id first", args: []string{"42", "-message", "hi"}, expectedID: "42", expectedMsg: "hi"},
		{name: "id last", args: []string{"-message", "hi", "42"}, expectedID: "42", expectedMsg: "hi"},
		{name: "id only", args: []string{"42"}, expectedID: "42"},
		{name: "missing id", args: []string{"-message", "hi"}, expectedError: true},
		{name: "two ids", args: []string{"1", "2"}, expectedError: true},
		{name: "unknown flag", args: []string{"1", "-color", "red"}, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cli{errOut: &bytes.Buffer{}}
			fs := c.flags("apply")
			msg := fs.String("message", "", "")

			id, err := parseWithID(fs, tt.args)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, id)
			assert.Equal(t, tt.expectedMsg, *msg)
		})
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "nil", value: nil, expected: "-"},
		{name: "empty string", value: "", expected: "-"},
		{name: "string", value: "Rex", expected: "Rex"},
		{name: "id", value: models.ID("42"), expected: "42"},
		{name: "status", value: models.StatusPending, expected: "pending"},
		{name: "empty status", value: models.Status(""), expected: "-"},
		{name: "int", value: 3, expected: "3"},
		{name: "float", value: 2.5, expected: "2.5"},
		{name: "bool", value: true, expected: "true"},
		{name: "nested", value: map[string]any{"dog": 2}, expected: `{"dog":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cell(tt.value))
		})
	}
}
