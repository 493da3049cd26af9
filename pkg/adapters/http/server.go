package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/intervista/internal/presentation/graph"
	"github.com/aretw0/intervista/pkg/controller"
	"github.com/aretw0/intervista/pkg/domain"
	"github.com/aretw0/intervista/pkg/practice"
)

// MaxBodySize caps request bodies (answers included).
const MaxBodySize = 64 * 1024

// SessionResponse is the body returned by every endpoint that touches the session.
type SessionResponse struct {
	Session domain.Session  `json:"session"`
	Enabled map[string]bool `json:"enabled"`
}

// Server exposes one practice session over HTTP.
type Server struct {
	Controller *controller.Controller
	Logger     *slog.Logger
}

// NewHandler creates a new HTTP handler for the controller.
func NewHandler(ctrl *controller.Controller, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Controller: ctrl, Logger: logger}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/session", s.GetSession)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/graph", s.GetGraph)
	r.Post("/role", s.SelectRole)
	r.Post("/start", s.Start)
	r.Post("/regenerate", s.Regenerate)
	r.Put("/draft", s.Draft)
	r.Post("/submit", s.Submit)
	r.Post("/reset", s.Reset)
	r.Post("/save", s.Save)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetGraph handles the GET /graph request: a Mermaid diagram of the
// transitions with the current status highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	overlay := &graph.Overlay{Current: s.Controller.Snapshot().Status}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, graph.GenerateMermaid(practice.Transitions(), overlay))
}

// GetSession handles the GET /session request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, s.Controller.Snapshot())
}

// SelectRole handles the POST /role request.
func (s *Server) SelectRole(w http.ResponseWriter, r *http.Request) {
	var body domain.JobRole
	if !s.decode(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	s.writeSession(w, s.Controller.SelectRole(r.Context(), &body))
}

// Start handles the POST /start request.
func (s *Server) Start(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, s.Controller.Start(r.Context()))
}

// Regenerate handles the POST /regenerate request.
func (s *Server) Regenerate(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, s.Controller.Regenerate(r.Context()))
}

type textRequest struct {
	Text string `json:"text"`
}

// Draft handles the PUT /draft request.
func (s *Server) Draft(w http.ResponseWriter, r *http.Request) {
	var body textRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.writeSession(w, s.Controller.Draft(r.Context(), body.Text))
}

// Submit handles the POST /submit request.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Answer string `json:"answer"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	s.writeSession(w, s.Controller.Submit(r.Context(), body.Answer))
}

// Reset handles the POST /reset request.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, s.Controller.Reset(r.Context()))
}

// Save handles the POST /save request.
func (s *Server) Save(w http.ResponseWriter, r *http.Request) {
	raw, err := s.Controller.Save(r.Context())
	if err != nil {
		s.Logger.Warn("Save failed", "error", err)
		s.writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(raw)
}

// SubscribeEvents handles the GET /events request (SSE).
// Each event carries a domain.SessionDiff. The optional "watch" query parameter
// (comma separated: role, question, draft, feedback, status) filters events.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Controller.Subscribe()
	defer cancel()

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")

	// Initial full render
	last := s.Controller.Snapshot()
	s.writeDiff(w, domain.Diff(nil, &last), nil)
	flusher.Flush()

	s.Logger.Info("SSE: Subscribing to Session Updates", "session_id", last.ID)
	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected")
			return
		case next, ok := <-ch:
			if !ok {
				return
			}
			diff := domain.Diff(&last, &next)
			last = next
			if s.writeDiff(w, diff, watchList) {
				flusher.Flush()
			}
		}
	}
}

func (s *Server) writeDiff(w http.ResponseWriter, diff *domain.SessionDiff, watchList []string) bool {
	if diff == nil || !matches(diff, watchList) {
		return false
	}
	data, err := json.Marshal(diff)
	if err != nil {
		s.Logger.Error("SSE: diff encode failed", "error", err)
		return false
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	return true
}

func matches(diff *domain.SessionDiff, watchList []string) bool {
	if len(watchList) == 0 {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "role":
			if diff.JobRoleTitle != nil {
				return true
			}
		case "question":
			if diff.CurrentQuestion != nil {
				return true
			}
		case "draft":
			if diff.DraftAnswer != nil {
				return true
			}
		case "feedback":
			if diff.Feedback != nil {
				return true
			}
		case "status":
			if diff.Status != nil || diff.LastError != nil {
				return true
			}
		}
	}
	return false
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func (s *Server) writeSession(w http.ResponseWriter, session domain.Session) {
	enabled := make(map[string]bool)
	for _, intent := range []controller.Intent{
		controller.IntentStart,
		controller.IntentRegenerate,
		controller.IntentSubmit,
		controller.IntentDraft,
		controller.IntentReset,
	} {
		enabled[string(intent)] = s.Controller.Enabled(intent)
	}
	s.writeJSON(w, http.StatusOK, SessionResponse{Session: session, Enabled: enabled})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
