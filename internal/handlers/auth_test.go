package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nimbusconsole/apiserver/internal/auth"
	"github.com/nimbusconsole/apiserver/internal/events"
	"github.com/nimbusconsole/apiserver/internal/services"
	"github.com/nimbusconsole/apiserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	authority := auth.NewAuthority([]byte("test-secret"), time.Hour)
	userService := services.NewUserService(store.NewMemoryUserRepository())
	bus := events.New(events.NewMemoryBackend())

	router := chi.NewRouter()
	router.Route("/api/auth", func(r chi.Router) {
		AuthRouter(r, userService, authority, bus)
	})
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeAuthResponse(t *testing.T, rec *httptest.ResponseRecorder) AuthResponse {
	t.Helper()

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	router := newAuthTestRouter(t)
	rec := postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
		"name":     "Ann",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeAuthResponse(t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Equal(t, "Ann", resp.User.Name)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_InvalidInput(t *testing.T) {
	t.Parallel()

	router := newAuthTestRouter(t)

	cases := []struct {
		name    string
		payload map[string]string
	}{
		{"malformed email", map[string]string{"email": "not-an-email", "password": "secret1", "name": "Ann"}},
		{"short password", map[string]string{"email": "a@x.com", "password": "short", "name": "Ann"}},
		{"empty name", map[string]string{"email": "a@x.com", "password": "secret1", "name": "  "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, router, "/api/auth/register", tc.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	router := newAuthTestRouter(t)
	payload := map[string]string{"email": "dup@x.com", "password": "secret1", "name": "Ann"}

	rec := postJSON(t, router, "/api/auth/register", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/api/auth/register", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestLogin(t *testing.T) {
	t.Parallel()

	router := newAuthTestRouter(t)
	rec := postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
		"name":     "Ann",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeAuthResponse(t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Ann", resp.User.Name)

	// Wrong password and unknown email must be indistinguishable.
	wrongPassword := postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	unknownEmail := postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "ghost@x.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())

	rec = postJSON(t, router, "/api/auth/login", map[string]string{"email": "", "password": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_MalformedEmail(t *testing.T) {
	t.Parallel()

	router := newAuthTestRouter(t)

	// A malformed email is rejected before any store lookup, so the
	// response is 400 invalid input rather than 401.
	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "not-an-email",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email")
}

func TestVerify(t *testing.T) {
	t.Parallel()

	router := newAuthTestRouter(t)
	rec := postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
		"name":     "Ann",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := decodeAuthResponse(t, rec).Token

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	verifyRec := httptest.NewRecorder()
	router.ServeHTTP(verifyRec, req)

	require.Equal(t, http.StatusOK, verifyRec.Code)
	var resp VerifyResponse
	require.NoError(t, json.Unmarshal(verifyRec.Body.Bytes(), &resp))
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Equal(t, "Ann", resp.User.Name)
}

func TestVerify_Unauthenticated(t *testing.T) {
	t.Parallel()

	router := newAuthTestRouter(t)

	// No Authorization header.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed by another authority.
	other := auth.NewAuthority([]byte("other-secret"), time.Hour)
	foreign, err := other.Issue("u1", "a@x.com", "Ann")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+foreign)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
