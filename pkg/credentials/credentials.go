// Package credentials provides simple ports.CredentialProvider implementations
// and a chain to combine them with the storage-backed adapters.
package credentials

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/aretw0/intervista/pkg/ports"
)

// EnvToken is the environment variable read by FromEnv when no name is given.
const EnvToken = "INTERVISTA_TOKEN"

// Static always returns token.
func Static(token string) ports.CredentialProvider {
	return ports.CredentialProviderFunc(func(context.Context) (string, error) {
		return token, nil
	})
}

// FromEnv reads the token from the named environment variable on every call.
func FromEnv(name string) ports.CredentialProvider {
	if name == "" {
		name = EnvToken
	}
	return ports.CredentialProviderFunc(func(context.Context) (string, error) {
		return strings.TrimSpace(os.Getenv(name)), nil
	})
}

// None never yields a token.
func None() ports.CredentialProvider {
	return Static("")
}

// Chain returns the first non-empty token among providers.
// Failing providers are skipped; their errors are returned only if no provider yields a token.
func Chain(providers ...ports.CredentialProvider) ports.CredentialProvider {
	return ports.CredentialProviderFunc(func(ctx context.Context) (string, error) {
		var errs []error
		for _, p := range providers {
			if p == nil {
				continue
			}
			token, err := p.Token(ctx)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if token != "" {
				return token, nil
			}
		}
		return "", errors.Join(errs...)
	})
}
