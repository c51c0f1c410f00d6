// Package client is a typed Go client for the municipalink API. It keeps the
// bearer token in an explicit Session and drops it when the server answers
// 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrNetwork is returned, wrapped in a *NetworkError, when the server could
// not be reached at all.
var ErrNetwork = errors.New("Impossible de contacter le serveur")

// NetworkError carries the transport failure behind ErrNetwork.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return ErrNetwork.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Session holds the signed-in user and its token. It is safe for concurrent
// use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *User
}

// Token returns the current bearer token, empty when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user, nil when signed out.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Set stores a fresh token and user.
func (s *Session) Set(token string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// Clear signs the session out.
func (s *Session) Clear() {
	s.Set("", nil)
}

// Client talks to the API rooted at BaseURL, e.g. "http://localhost:5000/api".
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	Session    *Session

	// OnUnauthorized runs after a 401 has cleared the session, typically to
	// send the user back to the login screen.
	OnUnauthorized func()
}

// New returns a Client for baseURL with an empty session.
func New(baseURL string) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	return &Client{
		BaseURL:    parsed,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Session:    &Session{},
	}, nil
}

// do builds, sends and decodes one request. There are no retries.
func (c *Client) do(ctx context.Context, method, reqPath string, query url.Values, body, out any) error {
	u := *c.BaseURL
	u.Path = strings.TrimRight(c.BaseURL.Path, "/") + reqPath
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Session != nil {
		if token := c.Session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleHTTPError(resp, req.Header.Get("Authorization") != "")
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleHTTPError reads the server's {"error": "..."} body. A 401 on an
// authenticated request ends the session.
func (c *Client) handleHTTPError(resp *http.Response, authenticated bool) error {
	bodyBytes, _ := io.ReadAll(resp.Body)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(bodyBytes, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(bodyBytes))
	}
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		if c.Session != nil {
			c.Session.Clear()
		}
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
	}

	return &APIError{Status: resp.StatusCode, Message: body.Error}
}

func idPath(resource string, id uint) string {
	return fmt.Sprintf("/%s/%d", resource, id)
}

func (c *Client) create(ctx context.Context, resource string, in any) (uint, error) {
	var out Created
	if err := c.do(ctx, http.MethodPost, "/"+resource, nil, in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}
