package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/intervista/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestStaticAndNone(t *testing.T) {
	ctx := context.Background()
	token, err := Static("abc").Token(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "abc", token)

	token, err = None().Token(ctx)
	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvToken, " from-env ")
	token, err := FromEnv("").Token(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "from-env", token)

	t.Setenv("OTHER_TOKEN", "other")
	token, _ = FromEnv("OTHER_TOKEN").Token(context.Background())
	assert.Equal(t, "other", token)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	failing := ports.CredentialProviderFunc(func(context.Context) (string, error) {
		return "", errors.New("redis down")
	})

	// 1. First non-empty wins, failures are skipped
	token, err := Chain(None(), failing, nil, Static("second"), Static("third")).Token(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "second", token)

	// 2. Nothing found: errors are reported
	_, err = Chain(None(), failing).Token(ctx)
	assert.EqualError(t, err, "redis down")

	// 3. Nothing found, nothing failed: unauthenticated
	token, err = Chain(None()).Token(ctx)
	assert.NoError(t, err)
	assert.Empty(t, token)
}
