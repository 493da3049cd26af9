// Package stub is a development backend honoring the practice API contract.
// It answers from a fixed question bank instead of a language model.
package stub

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/intervista/pkg/adapters/memory"
	"github.com/aretw0/intervista/pkg/api"
	"github.com/aretw0/intervista/pkg/contract"
	"github.com/aretw0/intervista/pkg/domain"
)

const (
	msgAnswerRequired = "Question and answer are required"
	msgNotAuth        = "Authentication credentials were not provided."
)

// Server is the stub backend.
type Server struct {
	bank     *Bank
	sessions *memory.SessionStore
	logger   *slog.Logger
	registry *prometheus.Registry
	requests *prometheus.CounterVec

	mu  sync.Mutex
	rnd *rand.Rand

	// tokens restricts the accepted bearer tokens; empty accepts any non-empty token.
	tokens map[string]struct{}
}

// Option configures the stub.
type Option func(*Server)

// WithBank replaces the embedded question bank.
func WithBank(b *Bank) Option {
	return func(s *Server) {
		if b != nil {
			s.bank = b
		}
	}
}

// WithRand fixes the random source (for deterministic tests).
func WithRand(rnd *rand.Rand) Option {
	return func(s *Server) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTokens only accepts the given bearer tokens on the sessions endpoint.
func WithTokens(tokens ...string) Option {
	return func(s *Server) {
		for _, t := range tokens {
			if t != "" {
				s.tokens[t] = struct{}{}
			}
		}
	}
}

// New creates a stub backend.
func New(opts ...Option) *Server {
	s := &Server{
		bank:     DefaultBank(),
		sessions: memory.NewSessionStore(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		registry: prometheus.NewRegistry(),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		tokens:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intervista_stub_requests_total",
			Help: "Total number of requests served by the stub backend",
		},
		[]string{"endpoint", "code"},
	)
	s.registry.MustRegister(s.requests)
	return s
}

// Registry exposes the stub's own metrics registry so callers can add collectors.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Handler returns the HTTP routes. The API lives under /api/.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(contract.Raw())
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/"+api.EndpointTest, s.count(api.EndpointTest, s.handleTest))
		r.Get("/"+api.EndpointJobRoles, s.count(api.EndpointJobRoles, s.handleJobRoles))
		r.Post("/"+api.EndpointGenerateQuestion, s.count(api.EndpointGenerateQuestion, s.handleGenerate))
		r.Post("/"+api.EndpointEvaluateAnswer, s.count(api.EndpointEvaluateAnswer, s.handleEvaluate))
		r.Get("/"+api.EndpointSessions, s.count(api.EndpointSessions, s.authenticated(s.handleListSessions)))
		r.Post("/"+api.EndpointSessions, s.count(api.EndpointSessions, s.authenticated(s.handleCreateSession)))
	})
	return r
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the Intervista API! 🚀",
		"status":  "success",
		"endpoints": map[string]string{
			"test":              "/api/" + api.EndpointTest,
			"job_roles":         "/api/" + api.EndpointJobRoles,
			"sessions":          "/api/" + api.EndpointSessions,
			"generate_question": "/api/" + api.EndpointGenerateQuestion,
			"evaluate_answer":   "/api/" + api.EndpointEvaluateAnswer,
		},
	})
}

func (s *Server) handleJobRoles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bank.JobRoles())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req domain.QuestionRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.JobRole) == "" {
		req.JobRole = domain.DefaultJobRoleTitle
	}
	if req.ExperienceLevel == "" {
		req.ExperienceLevel = domain.ExperienceBeginner
	}

	s.mu.Lock()
	question := s.bank.Question(req.JobRole, s.rnd)
	s.mu.Unlock()

	s.logger.Debug("question generated", "job_role", req.JobRole, "experience_level", req.ExperienceLevel)
	writeJSON(w, http.StatusOK, map[string]string{
		"question":         question,
		"job_role":         req.JobRole,
		"experience_level": req.ExperienceLevel,
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req domain.EvaluationRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Question == "" || req.Answer == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgAnswerRequired})
		return
	}
	if req.JobRole == "" {
		req.JobRole = domain.DefaultJobRoleTitle
	}

	s.mu.Lock()
	feedback := s.bank.Evaluate(req.Question, req.Answer, s.rnd)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"feedback": feedback,
		"question": req.Question,
		"job_role": req.JobRole,
	})
}

type ownerKey struct{}

func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": msgNotAuth})
			return
		}
		if len(s.tokens) > 0 {
			if _, known := s.tokens[token]; !known {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
				return
			}
		}
		next(w, r.WithContext(withOwner(r.Context(), token)))
	}
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.List(owner(r.Context())))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var rec domain.SessionRecord
	if !decode(w, r, &rec) {
		return
	}
	if rec.ConversationHistory == nil {
		rec.ConversationHistory = []domain.Message{}
	}
	stored := s.sessions.Create(owner(r.Context()), rec)
	s.logger.Info("session saved", "id", stored.ID, "title", stored.Title)
	writeJSON(w, http.StatusCreated, stored)
}

// count records the response code per endpoint.
func (s *Server) count(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next(ww, r)
		s.requests.WithLabelValues(endpoint, strconv.Itoa(ww.Status())).Inc()
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
