package middleware

import "github.com/aretw0/intervista/pkg/ports"

// Middleware allows wrapping a TokenStore to add behavior.
type Middleware func(ports.TokenStore) ports.TokenStore
