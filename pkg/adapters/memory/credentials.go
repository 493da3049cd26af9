package memory

import (
	"context"
	"sync"

	"github.com/aretw0/intervista/pkg/ports"
)

// Credentials implements ports.TokenStore in memory.
// Safe for concurrent use.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

var _ ports.TokenStore = (*Credentials)(nil)

// NewCredentials creates a provider holding token (which may be empty).
func NewCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

// Set replaces the stored token. An empty token means "unauthenticated".
func (c *Credentials) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the stored token.
func (c *Credentials) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, nil
}

// Store implements ports.TokenStore.
func (c *Credentials) Store(ctx context.Context, token string) error {
	c.Set(token)
	return nil
}
