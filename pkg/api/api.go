// Package api is the typed view of the practice backend's HTTP contract.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aretw0/intervista/pkg/domain"
	"github.com/aretw0/intervista/pkg/ports"
)

// Endpoint paths, relative to the API root.
const (
	EndpointTest             = "test/"
	EndpointJobRoles         = "job-roles/"
	EndpointGenerateQuestion = "generate-question/"
	EndpointEvaluateAnswer   = "evaluate-answer/"
	EndpointSessions         = "sessions/"
)

// Client wraps a ports.Transport with the backend's request/response shapes.
type Client struct {
	transport ports.Transport
}

var (
	_ ports.QuestionService = (*Client)(nil)
	_ ports.SessionRecorder = (*Client)(nil)
)

// New creates an API client on top of the given transport.
func New(t ports.Transport) *Client {
	return &Client{transport: t}
}

// Ping probes connectivity. Any 2xx response is success; the body is returned as-is.
func (c *Client) Ping(ctx context.Context) (json.RawMessage, error) {
	return c.transport.Send(ctx, http.MethodGet, EndpointTest, nil)
}

// ListJobRoles fetches the selectable roles.
func (c *Client) ListJobRoles(ctx context.Context) ([]domain.JobRole, error) {
	body, err := c.transport.Send(ctx, http.MethodGet, EndpointJobRoles, nil)
	if err != nil {
		return nil, err
	}
	var roles []domain.JobRole
	if err := decode(EndpointJobRoles, body, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// GenerateQuestion implements ports.QuestionService.
func (c *Client) GenerateQuestion(ctx context.Context, req domain.QuestionRequest) (string, error) {
	body, err := c.transport.Send(ctx, http.MethodPost, EndpointGenerateQuestion, req)
	if err != nil {
		return "", err
	}
	var resp domain.QuestionResponse
	if err := decode(EndpointGenerateQuestion, body, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Question) == "" {
		return "", malformed(EndpointGenerateQuestion, "response has no question")
	}
	return resp.Question, nil
}

// EvaluateAnswer implements ports.QuestionService.
func (c *Client) EvaluateAnswer(ctx context.Context, req domain.EvaluationRequest) (string, error) {
	body, err := c.transport.Send(ctx, http.MethodPost, EndpointEvaluateAnswer, req)
	if err != nil {
		return "", err
	}
	var resp domain.EvaluationResponse
	if err := decode(EndpointEvaluateAnswer, body, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Feedback) == "" {
		return "", malformed(EndpointEvaluateAnswer, "response has no feedback")
	}
	return resp.Feedback, nil
}

// ListSessions is a pass-through of GET sessions/.
func (c *Client) ListSessions(ctx context.Context) (json.RawMessage, error) {
	return c.transport.Send(ctx, http.MethodGet, EndpointSessions, nil)
}

// CreateSession implements ports.SessionRecorder as a pass-through of POST sessions/.
func (c *Client) CreateSession(ctx context.Context, record any) (json.RawMessage, error) {
	return c.transport.Send(ctx, http.MethodPost, EndpointSessions, record)
}

func decode(endpoint string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &domain.TransportError{Endpoint: endpoint, StatusCode: http.StatusOK, Message: "malformed response body", Err: err}
	}
	return nil
}

func malformed(endpoint, msg string) error {
	return &domain.TransportError{Endpoint: endpoint, StatusCode: http.StatusOK, Message: msg}
}
