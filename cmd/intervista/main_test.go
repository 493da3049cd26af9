package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intervista/internal/stub"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	srv := httptest.NewServer(stub.New().Handler())
	defer srv.Close()
	apiURL := srv.URL + "/api/"
	t.Setenv("INTERVISTA_TOKEN", "alice")

	t.Run("version", func(t *testing.T) {
		out, err := run(t, "", "version")
		require.NoError(t, err)
		assert.Contains(t, out, "intervista version ")
	})

	t.Run("graph", func(t *testing.T) {
		out, err := run(t, "", "graph")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "graph TD\n"))
		assert.Contains(t, out, `idle(("idle"))`)
	})

	t.Run("ping", func(t *testing.T) {
		out, err := run(t, "", "--api", apiURL, "ping")
		require.NoError(t, err)
		assert.Contains(t, out, "ok "+apiURL)
	})

	t.Run("roles", func(t *testing.T) {
		out, err := run(t, "", "--api", apiURL, "roles")
		require.NoError(t, err)
		assert.Contains(t, out, "Software Engineer")
		assert.Contains(t, out, "DevOps Engineer")
	})

	t.Run("sessions", func(t *testing.T) {
		record := filepath.Join(t.TempDir(), "record.json")
		require.NoError(t, os.WriteFile(record, []byte(`{"title":"CLI practice","conversation_history":[]}`), 0o644))

		out, err := run(t, "", "--api", apiURL, "sessions", "create", record)
		require.NoError(t, err)
		assert.Contains(t, out, `"title": "CLI practice"`)

		out, err = run(t, "", "--api", apiURL, "sessions", "ls")
		require.NoError(t, err)
		assert.Contains(t, out, "CLI practice")

		_, err = run(t, "not json", "--api", apiURL, "sessions", "create")
		assert.ErrorContains(t, err, "invalid session record")
	})

	t.Run("practice from a pipe", func(t *testing.T) {
		out, err := run(t, "/start\nMy answer\n/quit\n", "--api", apiURL, "practice", "Data Scientist")
		require.NoError(t, err)
		assert.Contains(t, out, "Role: Data Scientist")
	})

	t.Run("bad backend url", func(t *testing.T) {
		_, err := run(t, "", "--api", "ftp://example.com", "ping")
		assert.Error(t, err)
	})
}
