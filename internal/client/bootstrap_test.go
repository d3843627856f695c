package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/nimbusconsole/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodToken = "good-token"

var testUser = types.UserView{ID: "u1", Email: "a@x.com", Name: "Ann"}

// newFakeAuthServer serves the three auth endpoints with canned
// behavior: goodToken verifies, anything else is rejected.
func newFakeAuthServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+goodToken {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid token"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user": testUser})
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(AuthResult{Token: goodToken, User: testUser})
	})
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(AuthResult{Token: goodToken, User: testUser})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestSession(t *testing.T) (*Session, *FileTokenCache) {
	t.Helper()

	server := newFakeAuthServer(t)
	cache := NewFileTokenCache(filepath.Join(t.TempDir(), "token"))
	return NewSession(New(server.URL), cache), cache
}

func TestBootstrap_NoCachedToken(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t)
	assert.Equal(t, StateLoading, session.State())

	state := session.Bootstrap(context.Background())
	assert.Equal(t, StateUnauthenticated, state)
}

func TestBootstrap_ValidCachedToken(t *testing.T) {
	t.Parallel()

	session, cache := newTestSession(t)
	require.NoError(t, cache.Save(goodToken))

	state := session.Bootstrap(context.Background())
	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, testUser, session.User())
}

func TestBootstrap_InvalidTokenDiscarded(t *testing.T) {
	t.Parallel()

	session, cache := newTestSession(t)
	require.NoError(t, cache.Save("stale-token"))

	state := session.Bootstrap(context.Background())
	assert.Equal(t, StateUnauthenticated, state)

	// The bad token must be gone.
	token, err := cache.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLogin_CachesToken(t *testing.T) {
	t.Parallel()

	session, cache := newTestSession(t)
	user, err := session.Login(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, testUser, user)
	assert.Equal(t, StateAuthenticated, session.State())

	token, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, goodToken, token)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	session, cache := newTestSession(t)
	_, err := session.Login(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	token, err := cache.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLogout_ClearsToken(t *testing.T) {
	t.Parallel()

	session, cache := newTestSession(t)
	_, err := session.Login(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, session.Logout())
	assert.Equal(t, StateUnauthenticated, session.State())

	token, err := cache.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	// A fresh session started after logout renders the login path.
	next := NewSession(session.api, cache)
	assert.Equal(t, StateUnauthenticated, next.Bootstrap(context.Background()))
}

func TestFileTokenCache(t *testing.T) {
	t.Parallel()

	cache := NewFileTokenCache(filepath.Join(t.TempDir(), "nested", "token"))

	token, err := cache.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, cache.Save("abc"))
	token, err = cache.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, cache.Clear())
	require.NoError(t, cache.Clear()) // idempotent
	token, err = cache.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}
