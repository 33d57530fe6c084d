// Package screenclient is a client for the screens API of the analytics web server.
//
// All endpoints live under APIPrefix. Errors returned by the server ({"code": ..., "message": ...}) are surfaced as *APIError; a 404 additionally matches ErrNotFound with errors.Is.
package screenclient

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
	"time"

	"github.com/codalotl/screendiff/internal/logging"
	"github.com/codalotl/screendiff/internal/screenconfig"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// APIPrefix is the path prefix of every analytics web server endpoint.
const APIPrefix = "/analyticsweb"

// ErrNotFound is matched (errors.Is) by errors for a screen or screen type that does not exist.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string // ex: "NOT_FOUND", "NAME_TOO_SHORT"; empty if the body was not an error response
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("screenclient: http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("screenclient: http %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap returns ErrNotFound for 404 responses.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Client talks to one analytics web server. Its methods are safe for concurrent use.
type Client struct {
	// BaseURL is the server's scheme and host, with an optional path prefix (ex: "https://analytics.example.com"). A trailing slash is ignored.
	BaseURL string

	// Token, if non-empty, is sent as a bearer token.
	Token string

	// HTTPClient is used for requests. If nil, a client with a 30 second timeout is used.
	HTTPClient *http.Client

	// Logger receives one debug record per request. Nil disables logging.
	Logger *zap.Logger
}

// New returns a Client for baseURL.
func New(baseURL, token string) *Client {
	return &Client{BaseURL: baseURL, Token: token}
}

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return defaultHTTPClient
}

// CreateRequest is the body of CreateScreen.
type CreateRequest struct {
	Name       string                `json:"name"`
	ScreenType string                `json:"screen_type"`
	Config     screenconfig.Snapshot `json:"config"`
}

type updateRequest struct {
	Config screenconfig.Snapshot `json:"config"`
}

// Health is the server's health report.
type Health struct {
	Status             string    `json:"status"`
	Timestamp          time.Time `json:"timestamp"`
	FlightSQLConnected bool      `json:"flightsql_connected"`
}

// Health checks the server's health endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

// ListScreens returns all screens.
func (c *Client) ListScreens(ctx context.Context) ([]screenconfig.Screen, error) {
	var screens []screenconfig.Screen
	if err := c.do(ctx, http.MethodGet, "/screens", nil, &screens); err != nil {
		return nil, err
	}
	return screens, nil
}

// GetScreen returns the screen named name.
func (c *Client) GetScreen(ctx context.Context, name string) (*screenconfig.Screen, error) {
	var s screenconfig.Screen
	if err := c.do(ctx, http.MethodGet, "/screens/"+url.PathEscape(name), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateScreen creates a screen. The server normalizes and validates the name.
func (c *Client) CreateScreen(ctx context.Context, req CreateRequest) (*screenconfig.Screen, error) {
	var s screenconfig.Screen
	if err := c.do(ctx, http.MethodPost, "/screens", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateScreen replaces the configuration of the screen named name.
func (c *Client) UpdateScreen(ctx context.Context, name string, config screenconfig.Snapshot) (*screenconfig.Screen, error) {
	var s screenconfig.Screen
	if err := c.do(ctx, http.MethodPut, "/screens/"+url.PathEscape(name), updateRequest{Config: config}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteScreen deletes the screen named name.
func (c *Client) DeleteScreen(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/screens/"+url.PathEscape(name), nil, nil)
}

// ListScreenTypes returns the screen types the server supports.
func (c *Client) ListScreenTypes(ctx context.Context) ([]screenconfig.ScreenTypeInfo, error) {
	var types []screenconfig.ScreenTypeInfo
	if err := c.do(ctx, http.MethodGet, "/screen-types", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// DefaultConfig returns the server's default configuration for screenType.
func (c *Client) DefaultConfig(ctx context.Context, screenType string) (screenconfig.Snapshot, error) {
	var cfg screenconfig.Snapshot
	if err := c.do(ctx, http.MethodGet, "/screen-types/"+url.PathEscape(screenType)+"/default", nil, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// do sends a request to APIPrefix+path with body (if non-nil) encoded as JSON, and decodes a 2xx response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	lower := strings.ToLower(base)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return fmt.Errorf("screenclient: invalid base URL %q", c.BaseURL)
	}
	u := base + APIPrefix + path

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("screenclient: encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("screenclient: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := strings.TrimSpace(c.Token); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	logger := logging.OrNop(c.Logger)
	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.String("request_id", requestID), zap.Error(err))
		return fmt.Errorf("screenclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("screenclient: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("screenclient: decode response: %w", err)
	}
	return nil
}

func apiError(status int, body []byte) error {
	var er struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &er); err == nil && er.Code != "" {
		return &APIError{StatusCode: status, Code: er.Code, Message: er.Message}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
