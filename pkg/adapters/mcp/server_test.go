package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intervista/pkg/controller"
	"github.com/aretw0/intervista/pkg/domain"
)

type staticService struct{}

func (staticService) GenerateQuestion(_ context.Context, req domain.QuestionRequest) (string, error) {
	return "Question for " + req.JobRole, nil
}

func (staticService) EvaluateAnswer(context.Context, domain.EvaluationRequest) (string, error) {
	return "Good answer", nil
}

func TestServer_PracticeTools(t *testing.T) {
	ctx := context.Background()
	s := NewServer(controller.New(staticService{}), nil, "test")
	var req mcp.CallToolRequest

	// 1. Select role
	resp, err := s.handleSelectRole(ctx, req, map[string]interface{}{"title": "DevOps Engineer", "id": float64(5)})
	require.NoError(t, err)
	assert.Equal(t, "DevOps Engineer", resp.Session.JobRoleTitle)
	assert.True(t, resp.Enabled["start"])

	// 2. Start
	resp, err = s.handleStart(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQuestionReady, resp.Session.Status)
	assert.Equal(t, "Question for DevOps Engineer", resp.Session.CurrentQuestion)
	assert.True(t, resp.Enabled["submit"])
	assert.False(t, resp.Enabled["start"])

	// 3. Submit
	resp, err = s.handleSubmit(ctx, req, map[string]interface{}{"answer": "Use pipelines"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFeedbackReady, resp.Session.Status)
	assert.Equal(t, "Good answer", resp.Session.Feedback)

	// 4. Status does not change anything
	status, err := s.handleStatus(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, resp.Session, status.Session)

	// 5. Reset
	resp, err = s.handleReset(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, resp.Session.Status)
}

func TestServer_SelectRoleRequiresTitle(t *testing.T) {
	s := NewServer(controller.New(staticService{}), nil, "test")
	_, err := s.handleSelectRole(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{})
	assert.Error(t, err)
}
