package tests

import (
	"context"
	"testing"

	"github.com/aretw0/intervista/pkg/ports"
)

// CredentialProviderContractTest is a reusable test suite that verifies if an adapter complies with ports.CredentialProvider.
// set stores a token in the adapter's backing storage; an empty token must remove it.
func CredentialProviderContractTest(t *testing.T, provider ports.CredentialProvider, set func(token string)) {
	t.Helper()
	ctx := context.Background()

	// 1. Missing token is not an error
	t.Run("Token_Missing", func(t *testing.T) {
		set("")
		token, err := provider.Token(ctx)
		if err != nil {
			t.Fatalf("unexpected error for missing token: %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token, got %q", token)
		}
	})

	// 2. Stored token is returned
	t.Run("Token_Present", func(t *testing.T) {
		set("secret-token")
		token, err := provider.Token(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "secret-token" {
			t.Errorf("token mismatch. got %q, want %q", token, "secret-token")
		}
	})

	// 3. Rotation is observed on the next call
	t.Run("Token_Rotated", func(t *testing.T) {
		set("first")
		if _, err := provider.Token(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		set("second")
		token, err := provider.Token(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "second" {
			t.Errorf("expected rotated token %q, got %q", "second", token)
		}
	})
}

// TokenStoreContractTest runs the CredentialProvider suite writing through store.Store,
// then checks that clearing is idempotent.
func TokenStoreContractTest(t *testing.T, store ports.TokenStore) {
	t.Helper()
	ctx := context.Background()

	CredentialProviderContractTest(t, store, func(token string) {
		if err := store.Store(ctx, token); err != nil {
			t.Fatalf("store %q: %v", token, err)
		}
	})

	t.Run("Store_ClearTwice", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if err := store.Store(ctx, ""); err != nil {
				t.Fatalf("clear #%d: %v", i+1, err)
			}
		}
		token, err := store.Token(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "" {
			t.Errorf("expected cleared token, got %q", token)
		}
	})
}
