package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aretw0/intervista/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	method, endpoint string
	payload          any
}

// fakeTransport records calls and replies with canned bodies per endpoint.
type fakeTransport struct {
	calls   []call
	replies map[string]string
	err     error
}

func (f *fakeTransport) Send(_ context.Context, method, endpoint string, payload any) ([]byte, error) {
	f.calls = append(f.calls, call{method, endpoint, payload})
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.replies[endpoint]), nil
}

func TestGenerateQuestion(t *testing.T) {
	ft := &fakeTransport{replies: map[string]string{EndpointGenerateQuestion: `{"question":"Explain REST"}`}}
	c := New(ft)

	q, err := c.GenerateQuestion(context.Background(), domain.QuestionRequest{JobRole: "Backend Engineer", ExperienceLevel: "beginner"})
	require.NoError(t, err)
	assert.Equal(t, "Explain REST", q)

	require.Len(t, ft.calls, 1)
	assert.Equal(t, http.MethodPost, ft.calls[0].method)
	assert.Equal(t, EndpointGenerateQuestion, ft.calls[0].endpoint)
}

func TestGenerateQuestion_Malformed(t *testing.T) {
	tests := map[string]string{
		"empty question": `{"question":"  "}`,
		"wrong shape":    `[1,2]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			c := New(&fakeTransport{replies: map[string]string{EndpointGenerateQuestion: body}})
			_, err := c.GenerateQuestion(context.Background(), domain.QuestionRequest{})
			var te *domain.TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, EndpointGenerateQuestion, te.Endpoint)
		})
	}
}

func TestEvaluateAnswer(t *testing.T) {
	ft := &fakeTransport{replies: map[string]string{EndpointEvaluateAnswer: `{"feedback":"Good answer"}`}}
	c := New(ft)

	req := domain.EvaluationRequest{Question: "Explain REST", Answer: "It transfers state via HTTP", JobRole: "Backend Engineer"}
	fb, err := c.EvaluateAnswer(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Good answer", fb)
	assert.Equal(t, req, ft.calls[0].payload)

	ft.replies[EndpointEvaluateAnswer] = `{"feedback":""}`
	_, err = c.EvaluateAnswer(context.Background(), req)
	assert.Error(t, err)
}

func TestTransportErrorPassesThrough(t *testing.T) {
	want := &domain.TransportError{Endpoint: EndpointJobRoles, StatusCode: 500, Message: "Internal Server Error"}
	c := New(&fakeTransport{err: want})

	_, err := c.ListJobRoles(context.Background())
	assert.Same(t, want, err)
}

func TestListJobRoles(t *testing.T) {
	c := New(&fakeTransport{replies: map[string]string{
		EndpointJobRoles: `[{"id":1,"title":"Backend Developer","description":"APIs"},{"id":2,"title":"Data Scientist"}]`,
	}})

	roles, err := c.ListJobRoles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.JobRole{
		{ID: 1, Title: "Backend Developer", Description: "APIs"},
		{ID: 2, Title: "Data Scientist"},
	}, roles)
}

func TestSessionsPassThrough(t *testing.T) {
	ft := &fakeTransport{replies: map[string]string{EndpointSessions: `{"id":7}`}}
	c := New(ft)

	raw, err := c.CreateSession(context.Background(), domain.SessionRecord{Title: "Backend Developer practice"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(raw))
	assert.Equal(t, http.MethodPost, ft.calls[0].method)

	raw, err = c.ListSessions(context.Background())
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
	assert.Equal(t, http.MethodGet, ft.calls[1].method)
}
