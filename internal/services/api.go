// API client core for the HOKAGE catalog/account service
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hokage/internal/shared"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "http://localhost:5001"

// APIService is the HTTP client for the remote catalog/account service.
//
// It is stateless with respect to the credential: identity-scoped calls take the bearer token as an argument.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewAPIService creates a new API service instance for the remote service at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     shared.NewLogger(io.Discard),
	}
}

// SetLogger replaces the request logger.
func (a *APIService) SetLogger(l *log.Logger) {
	if l != nil {
		a.logger = shared.WithLogger(l, "component", "api")
	}
}

// BaseURL returns the remote service root.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path, token string) (*APIResponse, error) {
	return a.raw(ctx, http.MethodGet, path, token, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path, token string, data []byte) (*APIResponse, error) {
	return a.raw(ctx, http.MethodPost, path, token, data)
}

func (a *APIService) raw(ctx context.Context, method, path, token string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := a.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := a.client(token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrNetwork, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       payload,
	}

	var jsonData any
	if err := json.Unmarshal(payload, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// do sends body as JSON (when non-nil) and decodes a 2xx response into out (when non-nil).
//
// Non-2xx responses become an [*APIError] carrying the server's message.
func (a *APIService) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := a.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}

	a.logger.Debug("request", "method", method, "path", path, "authenticated", token != "", "request_id", req.Header.Get("X-Request-ID"))

	resp, err := a.client(token).Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: extractMessage(resp.Body)}
		a.logger.Debug("request rejected", "method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrNetwork, err)
	}
	return nil
}

func (a *APIService) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", shared.GenerateID())
	return req, nil
}

// client returns the base HTTP client, or one whose transport attaches "Authorization: Bearer <token>".
func (a *APIService) client(token string) *http.Client {
	if token == "" {
		return a.httpClient
	}

	base := a.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   base,
		},
		Timeout:       a.httpClient.Timeout,
		CheckRedirect: a.httpClient.CheckRedirect,
		Jar:           a.httpClient.Jar,
	}
}
