// Package apiclient talks to the inventory REST API. Every call is a single
// round trip; nothing is retried.
package apiclient

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

	"go.uber.org/zap"

	"github.com/1997daniela/employeeVaccineInventory/internal/dto"
)

const (
	contentTypeJSON       = "application/json"
	contentTypeMergePatch = "application/merge-patch+json"
)

// APIError is the normalized form of every failed call. Status is 0 for
// transport failures.
type APIError struct {
	Status  int
	Message string
	// Key is the alert key the server attached, e.g. "error.idexists".
	Key string
	Err error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return "request failed: " + e.Message
	}
	if e.Key != "" {
		return fmt.Sprintf("%d %s (%s)", e.Status, e.Message, e.Key)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient uses a copy of hc, so later options such as WithTimeout
// never change a client shared with other code.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.httpClient = &cp
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithClock replaces the clock used for cache-busting query values.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// cacheBuster is appended to collection reads so intermediaries never
// serve a stale list.
func (c *Client) cacheBuster() string {
	return fmt.Sprintf("%d", c.now().UnixMilli())
}

// Authenticate exchanges credentials for a token and keeps it for later
// calls.
func (c *Client) Authenticate(ctx context.Context, username, password string, rememberMe bool) (string, error) {
	var out dto.TokenResponse
	req := dto.LoginRequest{Username: username, Password: password, RememberMe: rememberMe}
	if err := c.Do(ctx, http.MethodPost, "/api/authenticate", nil, contentTypeJSON, req, &out); err != nil {
		return "", err
	}
	if out.IDToken == "" {
		return "", &APIError{Status: http.StatusOK, Message: "authenticate returned no token"}
	}
	c.SetToken(out.IDToken)
	return out.IDToken, nil
}

// Do sends body (if not nil) as JSON and decodes a 2xx response into out
// (if not nil). An empty 2xx body leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, contentType string, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("marshal request: %v", err), Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("create request: %v", err), Err: err}
	}
	req.Header.Set("Accept", contentTypeJSON)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return &APIError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err), Err: err}
	}

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalize(resp, responseBody)
	}
	if out == nil || len(bytes.TrimSpace(responseBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err), Err: err}
	}
	return nil
}

func normalize(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload dto.ErrorResponse
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	for name, values := range resp.Header {
		if strings.HasPrefix(name, "X-") && strings.HasSuffix(name, "-Error") && len(values) > 0 {
			apiErr.Key = values[0]
			break
		}
	}
	return apiErr
}
