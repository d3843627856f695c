// Package client is the console's API client: it talks to the auth
// endpoints, caches the session token locally, and drives the startup
// session state machine.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nimbusconsole/apiserver/types"
)

const defaultRequestTimeout = 10 * time.Second

// ErrUnauthorized is returned when the server rejects the credentials
// or the session token.
var ErrUnauthorized = errors.New("unauthorized")

// AuthResult is a successful register/login response.
type AuthResult struct {
	Token string         `json:"token"`
	User  types.UserView `json:"user"`
}

// Client calls the auth API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Register creates an account and returns the issued session token.
func (c *Client) Register(ctx context.Context, email, password, name string) (AuthResult, error) {
	return c.postAuth(ctx, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	return c.postAuth(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Verify presents the token to the server and returns the user view
// embedded in its claims.
func (c *Client) Verify(ctx context.Context, token string) (types.UserView, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/verify", nil)
	if err != nil {
		return types.UserView{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.UserView{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.UserView{}, apiError(resp)
	}

	var body struct {
		User types.UserView `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.UserView{}, err
	}
	return body.User, nil
}

func (c *Client) postAuth(ctx context.Context, path string, payload map[string]string) (AuthResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return AuthResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return AuthResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AuthResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return AuthResult{}, apiError(resp)
	}

	var result AuthResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return AuthResult{}, err
	}
	return result, nil
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode == http.StatusUnauthorized {
		if body.Error != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, body.Error)
		}
		return ErrUnauthorized
	}
	if body.Error != "" {
		return errors.New(body.Error)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
