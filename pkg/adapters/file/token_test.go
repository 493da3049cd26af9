package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/intervista/pkg/adapters/file"
	"github.com/aretw0/intervista/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFile_Contract(t *testing.T) {
	tf := file.New(filepath.Join(t.TempDir(), "nested", "token"))
	tests.TokenStoreContractTest(t, tf)
}

func TestTokenFile_TrimsAndPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  abc\n\n"), 0o644))

	tf := file.New(path)
	token, err := tf.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, tf.Store(context.Background(), "def"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTokenFile_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".intervista", "token"), file.New("").Path)
}

func TestTokenFile_Unreadable(t *testing.T) {
	dir := t.TempDir()
	tf := file.New(dir) // a directory cannot be read as a file
	_, err := tf.Token(context.Background())
	assert.Error(t, err)
}
