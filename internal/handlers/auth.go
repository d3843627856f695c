package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nimbusconsole/apiserver/internal/auth"
	"github.com/nimbusconsole/apiserver/internal/events"
	"github.com/nimbusconsole/apiserver/internal/services"
	"github.com/nimbusconsole/apiserver/internal/store"
	"github.com/nimbusconsole/apiserver/types"
)

const minPasswordLength = 6

// AuthHandler implements the register/login/verify endpoints.
type AuthHandler struct {
	userService *services.UserService
	authority   *auth.Authority
	bus         *events.Bus
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, authority *auth.Authority, bus *events.Bus) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authority:   authority,
		bus:         bus,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, authority *auth.Authority, bus *events.Bus) {
	handler := NewAuthHandler(userService, authority, bus)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Get("/verify", handler.Verify)
}

// RequireAuth enforces a valid bearer token and injects the claims
// into the request context.
func RequireAuth(authority *auth.Authority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := authority.Verify(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), contextClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Register creates a new user account and returns a session token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	user, err := h.userService.Create(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "user already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.authority.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	h.publishActivity(r.Context(), types.ActivityEvent{
		Type:        "success",
		Title:       "New account registered",
		Description: user.Email + " joined the console",
		User:        user.Name,
		Service:     "IAM",
	})

	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user.View()})
}

// Login verifies credentials and returns a session token. Unknown
// email and wrong password fail identically.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	if !h.userService.VerifyPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.authority.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	h.publishActivity(r.Context(), types.ActivityEvent{
		Type:        "info",
		Title:       "Console sign-in",
		Description: user.Email + " signed in",
		User:        user.Name,
		Service:     "IAM",
	})

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user.View()})
}

// Verify validates the bearer token and returns the user view
// reconstructed from its claims.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	tokenString, err := bearerToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	claims, err := h.authority.Verify(tokenString)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{User: types.UserView{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
	}})
}

// publishActivity is best-effort; a broker outage must not fail auth.
func (h *AuthHandler) publishActivity(ctx context.Context, event types.ActivityEvent) {
	if h.bus == nil {
		return
	}
	_ = h.bus.PublishActivity(ctx, event)
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string         `json:"token"`
	User  types.UserView `json:"user"`
}

type VerifyResponse struct {
	User types.UserView `json:"user"`
}
