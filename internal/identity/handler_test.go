package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo Repository, throttle LoginThrottle) chi.Router {
	h := NewHandler(NewService(repo, &mockAuthenticator{}), throttle)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, router chi.Router, path, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRegisterEndpoint_Created(t *testing.T) {
	router := newTestRouter(newMockRepository(), LoginThrottle{})

	rec := postJSON(t, router, "/users/register",
		`{"name":"Test User","email":"test@example.com","password":"password123"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "test@example.com", data["email"])
	assert.Equal(t, "user", data["role"])
}

func TestRegisterEndpoint_MissingEmail(t *testing.T) {
	router := newTestRouter(newMockRepository(), LoginThrottle{})

	rec := postJSON(t, router, "/users/register",
		`{"name":"Test User","password":"password123"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, `"email" is required`, body["error"])
}

func TestRegisterEndpoint_BadRole(t *testing.T) {
	router := newTestRouter(newMockRepository(), LoginThrottle{})

	rec := postJSON(t, router, "/users/register",
		`{"name":"Test","email":"test@example.com","password":"password123","role":"superuser"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, `"role" must be one of [root-admin, admin, user]`, body["error"])
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo, LoginThrottle{})

	rec := postJSON(t, router, "/users/register",
		`{"name":"Test","email":"test@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/users/register",
		`{"name":"Test","email":"test@example.com","password":"password123"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Email already exists", body["error"])
}

func TestLoginEndpoint_ReturnsToken(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo, LoginThrottle{})

	rec := postJSON(t, router, "/users/register",
		`{"name":"Test","email":"test@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/users/login",
		`{"email":"test@example.com","password":"password123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
}

func TestLoginEndpoint_UnknownEmail(t *testing.T) {
	router := newTestRouter(newMockRepository(), LoginThrottle{})

	rec := postJSON(t, router, "/users/login",
		`{"email":"nobody@example.com","password":"password123"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "User not found", body["error"])
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo, LoginThrottle{})

	rec := postJSON(t, router, "/users/register",
		`{"name":"Test","email":"test@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/users/login",
		`{"email":"test@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid password", body["error"])
}

func TestLoginEndpoint_Throttled(t *testing.T) {
	// Burst of 2 means the third rapid attempt from the same IP is throttled.
	router := newTestRouter(newMockRepository(), LoginThrottle{PerMinute: 1, Burst: 2})

	payload := `{"email":"nobody@example.com","password":"password123"}`
	for i := 0; i < 2; i++ {
		rec := postJSON(t, router, "/users/login", payload)
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	rec := postJSON(t, router, "/users/login", payload)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Too many login attempts, try again later", body["error"])
}
