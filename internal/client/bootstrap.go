package client

import (
	"context"

	"github.com/nimbusconsole/apiserver/types"
)

// State is the session state at and after startup.
type State int

const (
	// StateLoading means the cached token is still being verified.
	StateLoading State = iota
	// StateAuthenticated means a verified session is active.
	StateAuthenticated
	// StateUnauthenticated means there is no valid session.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session drives the client session lifecycle: bootstrap from the
// cached token, login/register transitions, and logout.
type Session struct {
	api   *Client
	cache TokenCache
	state State
	user  types.UserView
}

// NewSession constructs a Session in the loading state.
func NewSession(api *Client, cache TokenCache) *Session {
	return &Session{
		api:   api,
		cache: cache,
		state: StateLoading,
	}
}

// Bootstrap runs the single startup transition: no cached token goes
// straight to unauthenticated; a cached token is verified against the
// server, and any failure discards it. Bootstrap never fails — every
// outcome is a valid session state.
func (s *Session) Bootstrap(ctx context.Context) State {
	token, err := s.cache.Load()
	if err != nil || token == "" {
		s.state = StateUnauthenticated
		return s.state
	}

	user, err := s.api.Verify(ctx, token)
	if err != nil {
		_ = s.cache.Clear()
		s.state = StateUnauthenticated
		return s.state
	}

	s.user = user
	s.state = StateAuthenticated
	return s.state
}

// Login authenticates and caches the new token on success.
func (s *Session) Login(ctx context.Context, email, password string) (types.UserView, error) {
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		return types.UserView{}, err
	}
	return s.establish(result)
}

// Register creates an account and caches the new token on success.
func (s *Session) Register(ctx context.Context, email, password, name string) (types.UserView, error) {
	result, err := s.api.Register(ctx, email, password, name)
	if err != nil {
		return types.UserView{}, err
	}
	return s.establish(result)
}

// Logout clears the cached token. Client-side only; the server keeps
// no record to revoke.
func (s *Session) Logout() error {
	s.state = StateUnauthenticated
	s.user = types.UserView{}
	return s.cache.Clear()
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// User returns the current user view. Only meaningful when the state
// is StateAuthenticated.
func (s *Session) User() types.UserView {
	return s.user
}

// Token returns the cached session token, if any.
func (s *Session) Token() (string, error) {
	return s.cache.Load()
}

func (s *Session) establish(result AuthResult) (types.UserView, error) {
	if err := s.cache.Save(result.Token); err != nil {
		return types.UserView{}, err
	}
	s.user = result.User
	s.state = StateAuthenticated
	return s.user, nil
}
