package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/intervista/pkg/api"
	"github.com/aretw0/intervista/pkg/domain"
	"github.com/aretw0/intervista/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend is a minimal fake of the practice API.
type backend struct {
	generate atomic.Int32
	evaluate atomic.Int32
	fail     atomic.Bool
	saved    []map[string]any
	mu       sync.Mutex
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate-question/", func(w http.ResponseWriter, r *http.Request) {
		b.generate.Add(1)
		if b.fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var req domain.QuestionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]string{"question": "Explain REST for " + req.JobRole})
	})
	mux.HandleFunc("/api/evaluate-answer/", func(w http.ResponseWriter, r *http.Request) {
		b.evaluate.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"feedback": "Good answer"})
	})
	mux.HandleFunc("/api/sessions/", func(w http.ResponseWriter, r *http.Request) {
		var rec map[string]any
		_ = json.NewDecoder(r.Body).Decode(&rec)
		b.mu.Lock()
		b.saved = append(b.saved, rec)
		b.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	})
	return mux
}

func newController(t *testing.T, b *backend, opts ...Option) *Controller {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	tc, err := transport.New(srv.URL + "/api/")
	require.NoError(t, err)
	client := api.New(tc)
	return New(client, append([]Option{WithRecorder(client)}, opts...)...)
}

func TestController_FullCycle(t *testing.T) {
	ctx := context.Background()
	b := &backend{}
	c := newController(t, b, WithRole(&domain.JobRole{ID: 1, Title: "Backend Engineer"}))

	// 1. Start
	s := c.Start(ctx)
	assert.Equal(t, domain.StatusQuestionReady, s.Status)
	assert.Equal(t, "Explain REST for Backend Engineer", s.CurrentQuestion)

	// 2. Blank submit is swallowed
	s = c.Submit(ctx, "   ")
	assert.Equal(t, domain.StatusQuestionReady, s.Status)
	assert.Zero(t, b.evaluate.Load())

	// 3. Submit
	s = c.Submit(ctx, "It transfers state via HTTP")
	assert.Equal(t, domain.StatusFeedbackReady, s.Status)
	assert.Equal(t, "Good answer", s.Feedback)

	// 4. Save
	raw, err := c.Save(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(raw))
	require.Len(t, b.saved, 1)
	assert.Equal(t, "Backend Engineer practice", b.saved[0]["title"])
	assert.Len(t, b.saved[0]["conversation_history"], 3)

	// 5. Reset
	s = c.Reset(ctx)
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.Empty(t, s.CurrentQuestion)
}

func TestController_TransportFailure(t *testing.T) {
	b := &backend{}
	b.fail.Store(true)
	c := newController(t, b)

	s := c.Start(context.Background())
	assert.Equal(t, domain.StatusError, s.Status)
	assert.Equal(t, domain.MsgGenerateFailed, s.LastError)
	assert.Equal(t, "Software Engineer", s.JobRoleTitle)
	assert.True(t, c.Enabled(IntentStart))
}

func TestController_SubscribePublishesEveryTransition(t *testing.T) {
	ctx := context.Background()
	c := newController(t, &backend{})

	updates, cancel := c.Subscribe()
	defer cancel()

	c.Start(ctx)
	c.Submit(ctx, "answer")

	var statuses []domain.Status
	for i := 0; i < 4; i++ {
		select {
		case s := <-updates:
			statuses = append(statuses, s.Status)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for update %d", i)
		}
	}
	assert.Equal(t, []domain.Status{
		domain.StatusGeneratingQuestion,
		domain.StatusQuestionReady,
		domain.StatusEvaluating,
		domain.StatusFeedbackReady,
	}, statuses)

	cancel()
	_, ok := <-updates
	assert.False(t, ok)
	cancel()
}

func TestController_Debounce(t *testing.T) {
	ctx := context.Background()
	b := &backend{}
	c := newController(t, b, WithDebounce(time.Hour))

	c.Start(ctx)
	c.Reset(ctx)
	s := c.Start(ctx)

	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.Equal(t, int32(1), b.generate.Load())
}

func TestController_Enabled(t *testing.T) {
	ctx := context.Background()
	c := newController(t, &backend{})

	assert.True(t, c.Enabled(IntentStart))
	assert.False(t, c.Enabled(IntentSubmit))
	assert.False(t, c.Enabled(IntentRegenerate))
	assert.True(t, c.Enabled(IntentReset))

	c.Start(ctx)
	assert.False(t, c.Enabled(IntentStart))
	assert.True(t, c.Enabled(IntentSubmit))
	assert.True(t, c.Enabled(IntentRegenerate))
	assert.True(t, c.Enabled(IntentDraft))
}

type blockingService struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (s *blockingService) GenerateQuestion(context.Context, domain.QuestionRequest) (string, error) {
	s.calls.Add(1)
	s.started <- struct{}{}
	<-s.release
	return "Q", nil
}

func (s *blockingService) EvaluateAnswer(context.Context, domain.EvaluationRequest) (string, error) {
	return "F", nil
}

func TestController_DisabledWhileBusy(t *testing.T) {
	ctx := context.Background()
	svc := &blockingService{started: make(chan struct{}, 1), release: make(chan struct{})}
	c := New(svc)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Start(ctx)
	}()
	<-svc.started

	assert.False(t, c.Enabled(IntentSubmit))
	assert.False(t, c.Enabled(IntentRegenerate))
	assert.False(t, c.Enabled(IntentStart))
	assert.True(t, c.Enabled(IntentReset))

	// Rapid repeated input never fires a second request
	for i := 0; i < 10; i++ {
		c.Start(ctx)
		c.Regenerate(ctx)
		c.Submit(ctx, "answer")
	}
	assert.Equal(t, int32(1), svc.calls.Load())

	close(svc.release)
	<-done
	assert.Equal(t, domain.StatusQuestionReady, c.Snapshot().Status)
}

func TestController_DisabledAfterResetUntilResolved(t *testing.T) {
	ctx := context.Background()
	svc := &blockingService{started: make(chan struct{}, 2), release: make(chan struct{})}
	c := New(svc)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Start(ctx)
	}()
	<-svc.started

	// 1. Reset does not free the session while the old request is pending
	s := c.Reset(ctx)
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.False(t, c.Enabled(IntentStart))
	assert.True(t, c.Enabled(IntentReset))
	assert.True(t, c.Enabled(IntentSelectRole))

	s = c.Start(ctx)
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.Equal(t, int32(1), svc.calls.Load())

	// 2. Resolution re-enables it
	close(svc.release)
	<-done
	assert.True(t, c.Enabled(IntentStart))
	s = c.Start(ctx)
	assert.Equal(t, domain.StatusQuestionReady, s.Status)
	assert.Equal(t, int32(2), svc.calls.Load())
}

func TestController_SaveWithoutRecorder(t *testing.T) {
	c := New(&blockingService{})
	_, err := c.Save(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoRecorder)
}

func TestController_SessionID(t *testing.T) {
	c := New(&blockingService{}, WithSessionID("fixed"))
	assert.Equal(t, "fixed", c.ID())
	assert.Equal(t, "fixed", c.Snapshot().ID)

	generated := New(&blockingService{})
	assert.Len(t, generated.ID(), 36)
}

func TestRecord(t *testing.T) {
	rec := Record(domain.Session{JobRoleTitle: "Data Scientist", Status: domain.StatusIdle})
	assert.Equal(t, "Data Scientist practice", rec.Title)
	assert.Empty(t, rec.ConversationHistory)

	rec = Record(domain.Session{
		JobRoleTitle:    "Data Scientist",
		CurrentQuestion: "Q",
		DraftAnswer:     "A",
		Status:          domain.StatusQuestionReady,
	})
	assert.Equal(t, []domain.Message{{Role: "assistant", Content: "Q"}, {Role: "user", Content: "A"}}, rec.ConversationHistory)
}
