package ports

import (
	"context"
	"encoding/json"
	"net/http"
)

// Transport performs one request/response exchange with the backend.
type Transport interface {
	// Send encodes payload as JSON (nil means no body), issues method against the
	// relative endpoint and returns the raw response body on 2xx.
	// Every failure is reported as a *domain.TransportError.
	Send(ctx context.Context, method, endpoint string, payload any) ([]byte, error)
}

// ResponseValidator checks a decoded response against an API description.
type ResponseValidator interface {
	Validate(method, endpoint string, status int, body []byte) error
}

// CredentialProvider yields the bearer token to attach to requests.
// An empty token with a nil error means "send unauthenticated".
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// CredentialProviderFunc adapts a function to CredentialProvider.
type CredentialProviderFunc func(ctx context.Context) (string, error)

// Token calls f(ctx).
func (f CredentialProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Methods used by the client.
const (
	MethodGet  = http.MethodGet
	MethodPost = http.MethodPost
)

// SessionRecorder stores a practice conversation on the backend.
type SessionRecorder interface {
	// CreateSession posts the record and returns the stored representation.
	CreateSession(ctx context.Context, record any) (json.RawMessage, error)
}

// TokenStore is a CredentialProvider that can also be written, e.g. by a login step.
type TokenStore interface {
	CredentialProvider
	// Store replaces the token. An empty token clears it.
	Store(ctx context.Context, token string) error
}
