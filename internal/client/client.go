// Package client talks to the gateway on behalf of the views. Calls are
// never retried: a transport failure is reported as ErrTransport so the
// caller can decide what to show.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

var (
	// ErrTransport wraps every failure to reach the gateway or read its reply.
	ErrTransport = errors.New("gateway unreachable")
	// ErrNotLoggedIn is returned by calls on a session without a token.
	ErrNotLoggedIn = errors.New("not logged in")
)

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type errorBody struct {
	Error string `json:"error"`
}

// Client holds the HTTP connection settings shared by all sessions.
type Client struct {
	http *resty.Client
	log  *logrus.Logger
}

// New creates a client for the gateway at baseURL.
func New(baseURL string, timeout time.Duration, log *logrus.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, log: log}
}

// Session carries the bearer token of one logged-in user. It is safe for
// concurrent use.
type Session struct {
	client *Client

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// Token returns the current bearer token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ExpiresAt returns when the current token stops being accepted.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// LoggedIn reports whether the session holds an unexpired token.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && time.Now().Before(s.expiresAt)
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	BusinessName string `json:"businessName"`
	Industry     string `json:"industry"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// Login exchanges credentials for a new session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{"email": email, "password": password})
}

// Signup registers a business account and returns its first session.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/signup", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*Session, error) {
	var out tokenResponse
	if err := c.send(ctx, "", http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &Session{client: c, token: out.Token, expiresAt: out.ExpiresAt}, nil
}

// Logout revokes the token on the gateway and clears it locally. The local
// token is cleared even when the gateway cannot be reached.
func (s *Session) Logout(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return nil
	}
	err := s.client.send(ctx, token, http.MethodPost, "/api/auth/logout", nil, nil)

	s.mu.Lock()
	s.token = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	return err
}

// call performs an authenticated request, decoding a 2xx body into out.
func (s *Session) call(ctx context.Context, method, path string, body, out any) error {
	token := s.Token()
	if token == "" {
		return ErrNotLoggedIn
	}
	return s.client.send(ctx, token, method, path, body, out)
}

func (c *Client) send(ctx context.Context, token, method, path string, body, out any) error {
	var apiErr errorBody
	req := c.http.R().SetContext(ctx).SetError(&apiErr)
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).
			Warn("Gateway call failed")
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}
	return nil
}
