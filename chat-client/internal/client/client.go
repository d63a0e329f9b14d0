// Package client speaks the paper chat HTTP contract.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/domain"
	"github.com/weiawesome/paper-review-chat/pkg/log"
)

const (
	// AuthCookie carries the session token on every request.
	AuthCookie = "authToken"

	authCookieTTL = 7 * 24 * time.Hour
	maxBodyBytes  = 4 << 20
)

// ErrMissingCredentials is returned when a login answer lacks a token or user id.
var ErrMissingCredentials = errors.New("login successful but missing token or user ID in response")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// AuthError is a login or registration the backend refused in the body.
type AuthError struct {
	Code int
	Msg  string
}

func (e *AuthError) Error() string {
	return e.Msg
}

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds each request; zero leaves requests unbounded.
	Timeout   time.Duration
	Jar       http.CookieJar
	Transport http.RoundTripper
	Logger    zerolog.Logger
}

// Client issues paper chat requests. Credentials travel in the cookie jar,
// never as explicit headers.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New creates a Client for the backend at opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", opts.BaseURL)
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Jar:       opts.Jar,
			Timeout:   opts.Timeout,
			Transport: log.RoundTripper(opts.Logger, opts.Transport),
		},
	}, nil
}

// NewCookieJar returns a jar holding the auth cookie for baseURL's origin.
// An empty token yields an empty jar.
func NewCookieJar(baseURL, token string) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return jar, nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	jar.SetCookies(u, []*http.Cookie{{
		Name:    AuthCookie,
		Value:   token,
		Path:    "/",
		Expires: time.Now().Add(authCookieTTL),
	}})
	return jar, nil
}

// GetPaperChat reads the chat record of (paperID, userID).
func (c *Client) GetPaperChat(ctx context.Context, paperID, userID string) (*domain.PaperChatEnvelope, error) {
	u := c.endpoint("inf", "api", "events", "paper", paperID, "chat")
	u.RawQuery = url.Values{"userId": {userID}}.Encode()

	var env domain.PaperChatEnvelope
	if err := c.do(ctx, http.MethodGet, u, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PostMessage sends one message to the chat of paperID.
func (c *Client) PostMessage(ctx context.Context, paperID string, req domain.SendMessageRequest) (*domain.SendMessageResponse, error) {
	u := c.endpoint("inf", "api", "events", "paper", paperID, "chat", "message")

	var resp domain.SendMessageResponse
	if err := c.do(ctx, http.MethodPost, u, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges email and password for a token and user id.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	return c.authenticate(ctx, "login", req)
}

// Register creates an account and logs it in.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	return c.authenticate(ctx, "register", req)
}

func (c *Client) authenticate(ctx context.Context, action string, body interface{}) (*domain.AuthResponse, error) {
	u := c.endpoint("api", "auth", "user", action)

	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, u, body, &resp); err != nil {
		return nil, err
	}

	// The backend answers 200 and reports failures in the body.
	if resp.Code != 0 && resp.Code != http.StatusOK {
		msg := resp.Msg
		if msg == "" {
			msg = action + " failed"
		}
		return nil, &AuthError{Code: resp.Code, Msg: msg}
	}
	if resp.AccessToken == "" || resp.User == nil || resp.User.UniqueID == "" {
		return nil, ErrMissingCredentials
	}
	return &resp, nil
}

func (c *Client) endpoint(segments ...string) *url.URL {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL.JoinPath(escaped...)
}

func (c *Client) do(ctx context.Context, method string, u *url.URL, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data, resp.Status)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the human-readable reason out of an error body:
// `message`, then `error.message`, then a string `error`, then fallback.
func errorMessage(data []byte, fallback string) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return fallback
	}
	if body.Message != "" {
		return body.Message
	}
	if len(body.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if err := json.Unmarshal(body.Error, &flat); err == nil && flat != "" {
			return flat
		}
	}
	return fallback
}

// Describe returns the text a user should see for a request failure.
func Describe(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Msg
	}
	return err.Error()
}
