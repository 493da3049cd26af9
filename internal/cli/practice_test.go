package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"math/rand"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intervista/internal/config"
	"github.com/aretw0/intervista/internal/logging"
	"github.com/aretw0/intervista/internal/stub"
	"github.com/aretw0/intervista/pkg/domain"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	srv := httptest.NewServer(stub.New(stub.WithRand(rand.New(rand.NewSource(7)))).Handler())
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL + "/api/"
	cfg.API.ValidateResponses = true
	if mutate != nil {
		mutate(&cfg)
	}
	app, err := NewApp(cfg, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestRunPractice_Session(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) {
		c.Auth.Token = "alice"
		c.Practice.JobRole = "Frontend Developer"
	})
	ctrl := app.Controller(nil)
	defer ctrl.Close()

	script := strings.Join([]string{
		"an answer before any question",
		"/start",
		"The DOM is a tree of nodes.",
		"/save",
		"/bogus",
		"/quit",
		"never read",
	}, "\n")

	var out bytes.Buffer
	err := RunPractice(context.Background(), ctrl, PracticeOptions{In: strings.NewReader(script), Out: &out})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Role: Frontend Developer")
	assert.Contains(t, text, "no question yet, type /start")
	assert.Contains(t, text, "### Question")
	assert.Contains(t, text, "### Feedback")
	assert.Contains(t, text, "Session saved.")
	assert.Contains(t, text, "unknown command /bogus")

	s := ctrl.Snapshot()
	assert.Equal(t, domain.StatusFeedbackReady, s.Status)
	assert.Equal(t, "The DOM is a tree of nodes.", s.DraftAnswer)

	// Metrics observed the transitions.
	assert.Greater(t, testutil.CollectAndCount(app.Metrics.Transitions), 0)

	// The saved session is listed for the same credential.
	raw, err := app.API.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Frontend Developer practice")
}

func TestRunPractice_HintFollowsRenderedSnapshot(t *testing.T) {
	app := newTestApp(t, nil)
	ctrl := app.Controller(nil)
	defer ctrl.Close()

	var out bytes.Buffer
	script := "/start\nA closure captures its environment.\n"
	require.NoError(t, RunPractice(context.Background(), ctrl, PracticeOptions{In: strings.NewReader(script), Out: &out}))

	text := out.String()
	question := strings.Index(text, "### Question")
	feedback := strings.Index(text, "### Feedback")
	require.Greater(t, question, 0)
	require.Greater(t, feedback, question)

	// 1. A hint sits between the question and the feedback
	between := text[question:feedback]
	assert.Contains(t, between, "commands:")

	// 2. The last hint comes after the feedback it refers to
	assert.Greater(t, strings.LastIndex(text, "commands:"), feedback)
}

func TestRunPractice_RoleAndReset(t *testing.T) {
	app := newTestApp(t, nil)
	ctrl := app.Controller(nil)
	defer ctrl.Close()

	script := "/role\n/role Data Scientist\n/start\n/new\n/reset\n"
	var out bytes.Buffer
	require.NoError(t, RunPractice(context.Background(), ctrl, PracticeOptions{In: strings.NewReader(script), Out: &out}))

	assert.Contains(t, out.String(), "usage: /role <title> (current: Software Engineer)")
	assert.Contains(t, out.String(), "Role: Data Scientist")
	assert.Contains(t, out.String(), "Session reset.")

	s := ctrl.Snapshot()
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.Equal(t, "Data Scientist", s.JobRoleTitle)
}

func TestRunPractice_SaveWithoutCredential(t *testing.T) {
	t.Setenv("INTERVISTA_TOKEN", "")
	app := newTestApp(t, nil)
	ctrl := app.Controller(nil)
	defer ctrl.Close()

	var out bytes.Buffer
	require.NoError(t, RunPractice(context.Background(), ctrl, PracticeOptions{In: strings.NewReader("/start\n/save\n"), Out: &out}))
	assert.Contains(t, out.String(), "Authentication credentials were not provided.")
}

func TestRunPractice_ContextCancelled(t *testing.T) {
	app := newTestApp(t, nil)
	ctrl := app.Controller(nil)
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never yields keeps the loop waiting on ctx.
	r, w := io.Pipe()
	defer w.Close()
	err := RunPractice(ctx, ctrl, PracticeOptions{In: r, Out: &bytes.Buffer{}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = "not a url"
	_, err := NewApp(cfg, true)
	assert.Error(t, err)
}

func TestApp_EncryptedTokenFile(t *testing.T) {
	t.Setenv("INTERVISTA_TOKEN", "")
	path := filepath.Join(t.TempDir(), "token")
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	app := newTestApp(t, func(c *config.Config) {
		c.Auth.TokenFile = path
		c.Auth.TokenKey = key
	})
	ctx := context.Background()

	store, err := app.TokenStore()
	require.NoError(t, err)
	require.NoError(t, store.Store(ctx, "bob"))

	// 1. At rest the file holds ciphertext only
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "bob")

	// 2. The credential chain decrypts it for the transport
	token, err := app.Credentials.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", token)

	_, err = app.API.CreateSession(ctx, domain.SessionRecord{Title: "t", ConversationHistory: []domain.Message{}})
	require.NoError(t, err)
}

func TestApp_NoTokenStore(t *testing.T) {
	app := newTestApp(t, nil)
	_, err := app.TokenStore()
	assert.ErrorIs(t, err, ErrNoTokenStore)
}

func TestApp_BadTokenKey(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.TokenFile = filepath.Join(t.TempDir(), "token")
	cfg.Auth.TokenKey = "short"
	_, err := NewApp(cfg, false)
	assert.ErrorContains(t, err, "invalid auth.token_key")
}

func TestApp_WireFailureClosesResources(t *testing.T) {
	mr := miniredis.RunT(t)

	// Validate is bypassed so the transport is the step that fails
	cfg := config.Default()
	cfg.API.BaseURL = "ftp://nowhere"
	cfg.Auth.RedisAddr = mr.Addr()
	app := &App{Config: cfg, Logger: logging.NewNop()}

	var closed int
	app.closers = append(app.closers, func() error {
		closed++
		return nil
	})

	err := app.wire()
	require.Error(t, err)
	assert.Equal(t, 1, closed)
	require.Len(t, app.closers, 2)
	assert.Error(t, app.store.Store(context.Background(), "x"), "redis client must be closed")
}
