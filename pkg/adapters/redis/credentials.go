package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/intervista/pkg/ports"
)

// DefaultKey is where the bearer token is read from.
const DefaultKey = "intervista:auth:token"

// CredentialStore implements ports.TokenStore using Redis.
// The token is read on every request so a rotation by another process is picked up.
type CredentialStore struct {
	client *backend.Client
	key    string
}

var _ ports.TokenStore = (*CredentialStore)(nil)

type Option func(*CredentialStore)

// WithKey sets the key holding the token.
func WithKey(key string) Option {
	return func(s *CredentialStore) {
		if key != "" {
			s.key = key
		}
	}
}

// New creates a new Redis credential store with options.
func New(address, password string, db int, opts ...Option) *CredentialStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis credential store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *CredentialStore {
	store := &CredentialStore{
		client: client,
		key:    DefaultKey,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Token returns the stored token, or "" if the key does not exist.
func (s *CredentialStore) Token(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, backend.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token from redis: %w", err)
	}
	return token, nil
}

// Set stores token with an optional expiration (0 means none).
// An empty token deletes the key.
func (s *CredentialStore) Set(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		if err := s.client.Del(ctx, s.key).Err(); err != nil {
			return fmt.Errorf("failed to delete token from redis: %w", err)
		}
		return nil
	}
	if err := s.client.Set(ctx, s.key, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write token to redis: %w", err)
	}
	return nil
}

// Store sets token without expiration.
func (s *CredentialStore) Store(ctx context.Context, token string) error {
	return s.Set(ctx, token, 0)
}

// Close releases the underlying client.
func (s *CredentialStore) Close() error {
	return s.client.Close()
}
