package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// User is the account profile returned by the backend.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// envelope is the backend's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the medvault backend. All authenticated calls go through
// the refresh-once Transport.
type Client struct {
	baseURL string
	store   TokenStore
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its transport is
// wrapped by the token-refreshing Transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, store TokenStore, onSessionExpired func(), opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Transport = &Transport{
		Base:             c.http.Transport,
		Store:            store,
		RefreshURL:       c.baseURL + "/api/v1/auth/refresh",
		OnSessionExpired: onSessionExpired,
	}
	return c
}

func (c *Client) Register(ctx context.Context, email, username, password, fullName string) (*User, error) {
	var user User
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":     email,
		"username":  username,
		"password":  password,
		"full_name": fullName,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and persists the returned token pair.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var pair TokenPair
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &pair)
	if err != nil {
		return err
	}
	return c.store.Set(pair)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes the refresh token server-side and clears local credentials.
func (c *Client) Logout(ctx context.Context) error {
	pair, ok := c.store.Get()
	if !ok {
		return nil
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/logout", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, nil)
	if clearErr := c.store.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// DocumentFile fetches the raw bytes of a stored document.
func (c *Client) DocumentFile(ctx context.Context, documentID string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/documents/"+documentID+"/file", nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", c.apiError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Message != "" {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}
