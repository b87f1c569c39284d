// Package server provides the HTTP REST API for the screening agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hr360/screening-agent/internal/analysis"
	"github.com/hr360/screening-agent/internal/db"
	"github.com/hr360/screening-agent/internal/monitor"
	"github.com/hr360/screening-agent/internal/screening"
	"github.com/hr360/screening-agent/internal/server/ratelimit"
)

// Store is the database surface the handlers use.
type Store interface {
	CreateCandidate(ctx context.Context, data db.CandidateData) (uuid.UUID, error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*db.Candidate, error)
	GetCandidateByEmail(ctx context.Context, email string) (*db.Candidate, error)
	ListCandidates(ctx context.Context, filters db.CandidateFilters) ([]db.Candidate, error)
	UpdateCandidateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateCandidateAnalysis(ctx context.Context, id uuid.UUID, score int, skills []string, experience, education string, strengths, weaknesses []string, recommendation, summary string) error

	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]db.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error)

	GetActiveEmailConfig(ctx context.Context) (*db.EmailConfig, error)
	SaveEmailConfig(ctx context.Context, cfg db.EmailConfig) (*db.EmailConfig, error)
	GetProcessingStats(ctx context.Context) (*db.ProcessingStats, error)
	ListProcessedEmails(ctx context.Context, limit int) ([]db.ProcessedEmail, error)
}

// Batcher upserts candidate batches.
type Batcher interface {
	ProcessBatch(ctx context.Context, payloads []db.CandidateData) (*screening.BatchResult, error)
}

// Analyzer re-scores a candidate on demand.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) *analysis.ResumeAnalysis
}

// Screener exposes the monitor to the processing endpoints. Nil when the
// server runs without the email monitor.
type Screener interface {
	RunCycle(ctx context.Context) (*monitor.CycleResult, error)
	State() string
}

// Deps wires the server to its collaborators.
type Deps struct {
	Store    Store
	Batcher  Batcher
	Analyzer Analyzer
	Screener Screener
}

// Config holds server configuration
type Config struct {
	Port int
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	batcher     Batcher
	analyzer    Analyzer
	screener    Screener
	rateLimiter *ratelimit.Limiter
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		store:    deps.Store,
		batcher:  deps.Batcher,
		analyzer: deps.Analyzer,
		screener: deps.Screener,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // screening triggers can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Candidate endpoints
	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("POST /candidates", s.handleCreateCandidate)
	mux.HandleFunc("POST /candidates/batch", s.handleBatchCandidates)
	mux.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("PATCH /candidates/{id}/status", s.handleUpdateCandidateStatus)
	mux.HandleFunc("POST /candidates/{id}/analyze", s.handleAnalyzeCandidate)

	// Notification endpoints
	mux.HandleFunc("GET /users/{id}/notifications", s.handleListNotifications)
	mux.HandleFunc("POST /users/{id}/notifications/read-all", s.handleReadAllNotifications)
	mux.HandleFunc("POST /notifications/{id}/read", s.handleReadNotification)

	// Email config endpoints
	mux.HandleFunc("GET /email-config", s.handleGetEmailConfig)
	mux.HandleFunc("PUT /email-config", s.handlePutEmailConfig)

	// Processing endpoints
	mux.HandleFunc("GET /processing/stats", s.handleProcessingStats)
	mux.HandleFunc("GET /processing/status", s.handleProcessingStatus)
	mux.HandleFunc("GET /processing/emails", s.handleListProcessedEmails)
	mux.HandleFunc("POST /processing/trigger", s.handleProcessingTrigger)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails. Shutdown drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":    "rate_limit_exceeded",
		"message":  "Rate limit exceeded. Please try again later.",
		"limit":    info.Limit,
		"reset_at": info.ResetTime.Format(time.RFC3339),
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
