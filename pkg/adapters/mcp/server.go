package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/intervista/pkg/controller"
	"github.com/aretw0/intervista/pkg/domain"
)

// SessionResponse is returned by every practice tool.
type SessionResponse struct {
	Session domain.Session  `json:"session" jsonschema_description:"The practice session after the intent was applied"`
	Enabled map[string]bool `json:"enabled" jsonschema_description:"Which intents are currently accepted"`
}

// RoleLister lists the selectable job roles.
type RoleLister interface {
	ListJobRoles(ctx context.Context) ([]domain.JobRole, error)
}

// Server exposes a practice session as an MCP Server.
type Server struct {
	ctrl      *controller.Controller
	roles     RoleLister
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server driving ctrl. roles may be nil.
func NewServer(ctrl *controller.Controller, roles RoleLister, version string) *Server {
	s := &Server{
		ctrl:      ctrl,
		roles:     roles,
		mcpServer: server.NewMCPServer("intervista-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: practice_status
	s.mcpServer.AddTool(mcp.NewTool("practice_status",
		mcp.WithDescription("Return the current practice session without changing it."),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleStatus))

	// TOOL: start_practice
	s.mcpServer.AddTool(mcp.NewTool("start_practice",
		mcp.WithDescription("Generate the first interview question for the selected job role."),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	// TOOL: new_question
	s.mcpServer.AddTool(mcp.NewTool("new_question",
		mcp.WithDescription("Replace the current question with a new one."),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleRegenerate))

	// TOOL: submit_answer
	s.mcpServer.AddTool(mcp.NewTool("submit_answer",
		mcp.WithDescription("Submit an answer to the current question and receive feedback."),
		mcp.WithString("answer", mcp.Required(), mcp.Description("The answer text")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))

	// TOOL: select_role
	s.mcpServer.AddTool(mcp.NewTool("select_role",
		mcp.WithDescription("Practice for a different job role. Discards the current session if the role changes."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Job role title, e.g. Backend Developer")),
		mcp.WithNumber("id", mcp.Description("Job role id as listed by list_job_roles (optional)")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelectRole))

	// TOOL: reset_session
	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Discard the current question, answer and feedback."),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleReset))

	// TOOL: save_session
	s.mcpServer.AddTool(mcp.NewTool("save_session",
		mcp.WithDescription("Save the current question, answer and feedback to the backend."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := s.ctrl.Save(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(raw)), nil
	})

	if s.roles == nil {
		return
	}

	// TOOL: list_job_roles
	s.mcpServer.AddTool(mcp.NewTool("list_job_roles",
		mcp.WithDescription("List the job roles available for practice."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		roles, err := s.roles.ListJobRoles(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing roles failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(roles)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) respond(session domain.Session) SessionResponse {
	enabled := make(map[string]bool)
	for _, intent := range []controller.Intent{
		controller.IntentStart,
		controller.IntentRegenerate,
		controller.IntentSubmit,
		controller.IntentReset,
	} {
		enabled[string(intent)] = s.ctrl.Enabled(intent)
	}
	return SessionResponse{Session: session, Enabled: enabled}
}

// Handler methods for structured tools

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	return s.respond(s.ctrl.Snapshot()), nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	return s.respond(s.ctrl.Start(ctx)), nil
}

func (s *Server) handleRegenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	return s.respond(s.ctrl.Regenerate(ctx)), nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	answer, _ := args["answer"].(string)
	return s.respond(s.ctrl.Submit(ctx, answer)), nil
}

func (s *Server) handleSelectRole(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	title, _ := args["title"].(string)
	if title == "" {
		return SessionResponse{}, errors.New("title is required")
	}
	role := &domain.JobRole{Title: title}
	if id, ok := args["id"].(float64); ok {
		role.ID = int64(id)
	}
	return s.respond(s.ctrl.SelectRole(ctx, role)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	return s.respond(s.ctrl.Reset(ctx)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: intervista://session
	s.mcpServer.AddResource(mcp.NewResource("intervista://session", "Current Practice Session",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.respond(s.ctrl.Snapshot()))
		if err != nil {
			return nil, fmt.Errorf("failed to encode session: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "intervista://session",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
