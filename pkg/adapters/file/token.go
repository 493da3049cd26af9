package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/intervista/pkg/ports"
)

// TokenFile implements ports.TokenStore on top of a plain text file.
// The file is read on every call, so an external login tool can rotate it.
type TokenFile struct {
	Path string
}

var _ ports.TokenStore = (*TokenFile)(nil)

// New creates a TokenFile at path.
// If path is empty, it defaults to ".intervista/token".
func New(path string) *TokenFile {
	if path == "" {
		path = filepath.Join(".intervista", "token")
	}
	return &TokenFile{Path: path}
}

// Token returns the trimmed file content. A missing file means "no token".
func (f *TokenFile) Token(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Store writes token atomically with owner-only permissions.
// An empty token removes the file.
func (f *TokenFile) Store(ctx context.Context, token string) error {
	if token == "" {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove token file: %w", err)
		}
		return nil
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to ensure token directory: %w", err)
	}

	// 1. Create Temp File on the same filesystem (required for atomic rename)
	tmpFile, err := os.CreateTemp(dir, "tmp-token-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	// 2. Write and fsync
	if _, err := tmpFile.WriteString(token + "\n"); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Chmod(0o600); err != nil {
		return fmt.Errorf("failed to restrict temp file: %w", err)
	}

	// 3. Close (cannot rename open file on Windows)
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// 4. Rename. On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(f.Path); err == nil {
		if err := os.Remove(f.Path); err != nil {
			return fmt.Errorf("failed to remove existing token file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, f.Path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
