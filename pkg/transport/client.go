package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aretw0/intervista/pkg/domain"
	"github.com/aretw0/intervista/pkg/ports"
)

// Client is the HTTP transport towards the practice backend.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	credentials ports.CredentialProvider
	validator   ports.ResponseValidator
	logger      *slog.Logger
}

var _ ports.Transport = (*Client)(nil)

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithCredentials sets the provider consulted for a bearer token on every request.
func WithCredentials(provider ports.CredentialProvider) Option {
	return func(c *Client) {
		c.credentials = provider
	}
}

// WithValidator checks every 2xx body before it is returned.
func WithValidator(v ports.ResponseValidator) Option {
	return func(c *Client) {
		c.validator = v
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client rooted at baseURL (e.g. "http://localhost:8000/api/").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    u,
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func parseBase(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("base url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// BaseURL returns the normalized base address (always ending in "/").
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Send implements ports.Transport.
func (c *Client) Send(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	target := c.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(endpoint, "/")})

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &domain.TransportError{Endpoint: endpoint, Message: "failed to encode request", Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, &domain.TransportError{Endpoint: endpoint, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Endpoint: endpoint, Message: "network failure", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    "failed to read response",
			Err:        err,
		}
	}

	c.logger.Debug("backend response", "method", method, "endpoint", endpoint, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, respBody),
		}
	}

	if len(bytes.TrimSpace(respBody)) > 0 && !json.Valid(respBody) {
		return nil, &domain.TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
		}
	}

	if c.validator != nil {
		if err := c.validator.Validate(method, endpoint, resp.StatusCode, respBody); err != nil {
			return nil, &domain.TransportError{
				Endpoint:   endpoint,
				StatusCode: resp.StatusCode,
				Message:    "response does not match contract",
				Err:        err,
			}
		}
	}

	return respBody, nil
}

func (c *Client) token(ctx context.Context) string {
	if c.credentials == nil {
		return ""
	}
	token, err := c.credentials.Token(ctx)
	if err != nil {
		c.logger.Warn("credential lookup failed, sending unauthenticated", "error", err)
		return ""
	}
	return strings.TrimSpace(token)
}

// errorMessage extracts a readable message from an error body.
// The backend uses {"error": "..."} for its own failures and {"detail": "..."} for auth.
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Detail != "" {
			return envelope.Detail
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("unexpected status %d", status)
}
