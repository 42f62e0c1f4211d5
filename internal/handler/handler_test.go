package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgiana-ojoc/UserManagementAPI/internal/middleware"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/models"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/repository"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/service"
)

// --- in-memory fakes ---

type memUserRepo struct {
	users map[string]*models.User // keyed by lowercased username
}

func (m *memUserRepo) findByEmail(email string) *models.User {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (m *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return m.findByEmail(email) != nil, nil
}

func (m *memUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := m.users[strings.ToLower(username)]
	return ok, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u := m.findByEmail(email); u != nil {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := m.users[strings.ToLower(username)]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) Save(_ context.Context, user *models.User) (*models.User, error) {
	saved := *user
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	m.users[strings.ToLower(saved.Username)] = &saved
	return &saved, nil
}

type memSessionRepo struct{}

func (memSessionRepo) Create(_ context.Context, userID uuid.UUID, expiresAt time.Time) (*models.Session, error) {
	return &models.Session{ID: uuid.New(), UserID: userID, ExpiresAt: expiresAt}, nil
}

func (memSessionRepo) Get(context.Context, uuid.UUID) (*models.Session, error) {
	return nil, repository.ErrNotFound
}

func (memSessionRepo) DeleteExpired(context.Context) (int64, error) { return 0, nil }

type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (plainHasher) Check(hash, plaintext string) bool     { return hash == "hashed:"+plaintext }

type silentNotifier struct{}

func (silentNotifier) SendWelcome(string, string) error { return nil }

// withPrincipal simulates the auth middleware for protected routes.
func withPrincipal(email string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithPrincipal(r.Context(), email)))
	})
}

func newTestRouter(t *testing.T, principal string, seed ...*models.User) (*mux.Router, *memUserRepo) {
	t.Helper()
	users := &memUserRepo{users: map[string]*models.User{}}
	for _, u := range seed {
		users.users[strings.ToLower(u.Username)] = u
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := service.NewService(users, memSessionRepo{}, plainHasher{}, silentNotifier{}, log, "test-secret", time.Hour)
	h := NewHandler(svc)

	r := mux.NewRouter()
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	auth := r.PathPrefix("/users").Subrouter()
	auth.Use(func(next http.Handler) http.Handler { return withPrincipal(principal, next) })
	auth.HandleFunc("/me", h.GetCurrentUser).Methods("GET")
	auth.HandleFunc("/{username}", h.GetProfile).Methods("GET")
	auth.HandleFunc("/{username}", h.Update).Methods("PUT")
	return r, users
}

func jane() *models.User {
	return &models.User{
		ID:        uuid.New(),
		Email:     "jane@x.com",
		Username:  "jane",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "hashed:secret1",
	}
}

func doJSON(t *testing.T, r *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	r, users := newTestRouter(t, "")

	rec := doJSON(t, r, http.MethodPost, "/register", models.RegisterOrUpdateRequest{
		Email: "jane@x.com", Username: "jane", Password: "secret1",
		FirstName: "Jane", LastName: "Doe",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "secret1")

	var response models.RegisterOrUpdateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEqual(t, uuid.Nil, response.ID)
	assert.Equal(t, "jane", response.Username)
	assert.Equal(t, "hashed:secret1", users.users["jane"].Password)
}

func TestRegisterEndpointConflict(t *testing.T) {
	r, _ := newTestRouter(t, "", jane())

	rec := doJSON(t, r, http.MethodPost, "/register", models.RegisterOrUpdateRequest{
		Email: "jane@x.com", Username: "other", Password: "secret1",
		FirstName: "Jane", LastName: "Doe",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "The email: 'jane@x.com' was already used.")
}

func TestRegisterEndpointValidation(t *testing.T) {
	r, _ := newTestRouter(t, "")

	tests := []struct {
		name    string
		request models.RegisterOrUpdateRequest
	}{
		{"missing email", models.RegisterOrUpdateRequest{Username: "jane", Password: "secret1", FirstName: "Jane", LastName: "Doe"}},
		{"invalid email", models.RegisterOrUpdateRequest{Email: "not-an-email", Username: "jane", Password: "secret1", FirstName: "Jane", LastName: "Doe"}},
		{"short password", models.RegisterOrUpdateRequest{Email: "jane@x.com", Username: "jane", Password: "abc", FirstName: "Jane", LastName: "Doe"}},
		{"missing username", models.RegisterOrUpdateRequest{Email: "jane@x.com", Password: "secret1", FirstName: "Jane", LastName: "Doe"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/register", tc.request)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, "", jane())

	rec := doJSON(t, r, http.MethodPost, "/login", models.LoginRequest{Email: "jane@x.com", Password: "secret1"})

	require.Equal(t, http.StatusOK, rec.Code)
	var response models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
}

func TestLoginEndpointUnauthorized(t *testing.T) {
	r, _ := newTestRouter(t, "", jane())

	unknown := doJSON(t, r, http.MethodPost, "/login", models.LoginRequest{Email: "ghost@x.com", Password: "secret1"})
	wrong := doJSON(t, r, http.MethodPost, "/login", models.LoginRequest{Email: "jane@x.com", Password: "nope"})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	// Identical bodies: no account enumeration through error messages.
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
}

func TestGetCurrentUserEndpoint(t *testing.T) {
	user := jane()
	r, _ := newTestRouter(t, "jane@x.com", user)

	rec := doJSON(t, r, http.MethodGet, "/users/me", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var response models.GetCurrentUserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, user.ID, response.ID)
	assert.NotContains(t, rec.Body.String(), "jane@x.com")
}

func TestGetProfileEndpointOwner(t *testing.T) {
	r, _ := newTestRouter(t, "jane@x.com", jane())

	rec := doJSON(t, r, http.MethodGet, "/users/jane", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jane@x.com")
}

func TestGetProfileEndpointOther(t *testing.T) {
	r, _ := newTestRouter(t, "viewer@x.com", jane())

	rec := doJSON(t, r, http.MethodGet, "/users/jane", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "jane@x.com")
	assert.Contains(t, rec.Body.String(), `"username":"jane"`)
}

func TestGetProfileEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(t, "viewer@x.com")

	rec := doJSON(t, r, http.MethodGet, "/users/ghost", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "The user: 'ghost' was not found.")
}

func TestUpdateEndpoint(t *testing.T) {
	r, users := newTestRouter(t, "jane@x.com", jane())

	rec := doJSON(t, r, http.MethodPut, "/users/jane", models.RegisterOrUpdateRequest{
		Email: "jane@x.com", Username: "jane", Password: "secret1",
		FirstName: "Janet", LastName: "Doe",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Janet", users.users["jane"].FirstName)
}

func TestUpdateEndpointConflict(t *testing.T) {
	other := &models.User{ID: uuid.New(), Email: "taken@x.com", Username: "other", Password: "hashed:pw"}
	r, _ := newTestRouter(t, "jane@x.com", jane(), other)

	rec := doJSON(t, r, http.MethodPut, "/users/jane", models.RegisterOrUpdateRequest{
		Email: "taken@x.com", Username: "jane", Password: "secret1",
		FirstName: "Jane", LastName: "Doe",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}
