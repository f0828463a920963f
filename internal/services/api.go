// API client for the character sheet REST server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/charsheet/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "http://127.0.0.1:3000"
	healthPath     = "/health"
)

// APIService makes JSON requests to the character sheet API.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAPIService creates a new API client for the given base URL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// WithRateLimit throttles requests to rps per second; rps <= 0 removes the limit.
func (a *APIService) WithRateLimit(rps float64) *APIService {
	if rps <= 0 {
		a.limiter = nil
		return a
	}
	a.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	return a
}

// NewHTTPClient returns an [http.Client] that sends token as a bearer token.
//
// An empty token yields a plain client. A zero timeout means no timeout.
func NewHTTPClient(ctx context.Context, token string, timeout time.Duration) *http.Client {
	client := &http.Client{}
	if token != "" {
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	}
	client.Timeout = timeout
	return client
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.send(ctx, http.MethodGet, path, nil)
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

// Health calls GET /health and reports the server status with the request id it echoed.
//
// Any status other than 200 with {"status":"ok"} is an error wrapping [shared.ErrServiceUnavailable].
func (a *APIService) Health(ctx context.Context) (*HealthStatus, error) {
	resp, err := a.Get(ctx, healthPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: health check returned status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	var health HealthStatus
	if err := json.Unmarshal(resp.Body, &health); err != nil {
		return nil, fmt.Errorf("%w: health check body: %v", shared.ErrServiceUnavailable, err)
	}
	if health.Status != "ok" {
		return nil, fmt.Errorf("%w: health status %q", shared.ErrServiceUnavailable, health.Status)
	}

	health.RequestID = resp.Headers.Get("X-Request-ID")
	return &health, nil
}

// Do sends body (JSON-encoded when non-nil) and decodes a 2xx response into result (when non-nil).
//
// Non-2xx responses are returned as errors wrapping a shared sentinel.
func (a *APIService) Do(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = data
	}

	resp, err := a.send(ctx, method, path, payload)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(method, path, resp)
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

func (a *APIService) send(ctx context.Context, method, path string, payload []byte) (*APIResponse, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}, nil
}

func statusError(method, path string, resp *APIResponse) error {
	var sentinel error
	switch resp.StatusCode {
	case http.StatusNotFound:
		sentinel = shared.ErrCharacterSheetNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = shared.ErrNotAuthenticated
	default:
		sentinel = shared.ErrAPIRequest
	}

	var detail errorResponse
	if err := json.Unmarshal(resp.Body, &detail); err == nil && detail.Detail != "" {
		return fmt.Errorf("%w: %s %s: status %d: %s", sentinel, method, path, resp.StatusCode, detail.Detail)
	}
	return fmt.Errorf("%w: %s %s: status %d", sentinel, method, path, resp.StatusCode)
}

// IsNotFound reports whether err came from a 404 response.
func IsNotFound(err error) bool {
	return errors.Is(err, shared.ErrCharacterSheetNotFound)
}
