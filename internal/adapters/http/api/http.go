// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/okian/focusfork/internal/app"
	"github.com/okian/focusfork/internal/chat"
	"github.com/okian/focusfork/internal/coach"
	"github.com/okian/focusfork/internal/domain/issue"
	"github.com/okian/focusfork/internal/domain/plan"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StartSession(ctx context.Context, req service.SessionRequest) (service.Session, error)
	ScoutOnly(ctx context.Context, q issue.Query) (*issue.SelectionResult, error)
	Query(language, skillLevel string) (issue.Query, error)
	Plan(ctx context.Context, in coach.IssueSummary) plan.Outcome
	SearchPublic(ctx context.Context, query string) ([]issue.CandidateIssue, error)
	Chat(ctx context.Context, history []chat.Message) (chat.Reply, error)
	ChatEnabled() bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	metricsHandler  http.Handler
	statsHandler    *StatsHandler
	sessionsHandler *SessionsHandler
	scoutHandler    *ScoutHandler
	plansHandler    *PlansHandler
	searchHandler   *SearchHandler
	chatHandler     *ChatHandler
}

// NewServer creates a new API server with all handlers. statsProvider may be
// nil, in which case /stats is not registered.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	s := &Server{
		healthHandler:   NewHealthHandler(),
		metricsHandler:  NewMetricsHandler(),
		sessionsHandler: NewSessionsHandler(deps),
		scoutHandler:    NewScoutHandler(deps),
		plansHandler:    NewPlansHandler(deps),
		searchHandler:   NewSearchHandler(deps),
		chatHandler:     NewChatHandler(deps),
	}
	if statsProvider != nil {
		s.statsHandler = NewStatsHandler(statsProvider)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.metricsHandler)
	if s.statsHandler != nil {
		mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	}
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleStartSession, "sessions"))
	mux.HandleFunc("/scout", MetricsMiddleware(s.scoutHandler.HandleScout, "scout"))
	mux.HandleFunc("/plans", MetricsMiddleware(s.plansHandler.HandlePlan, "plans"))
	mux.HandleFunc("/issues/search", MetricsMiddleware(s.searchHandler.HandleSearch, "issues_search"))
	mux.HandleFunc("/chat", MetricsMiddleware(s.chatHandler.HandleChat, "chat"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = publicMessage(err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a single JSON object from the request body. An empty body
// leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	if dec.More() {
		return errors.New("invalid json: trailing data")
	}
	return nil
}
