package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hr360/screening-agent/internal/db"
	"github.com/hr360/screening-agent/internal/monitor"
)

// ---------------------------------------------------------------------
// Processing Handlers
// ---------------------------------------------------------------------

func (s *Server) handleProcessingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetProcessingStats(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleProcessingStatus(w http.ResponseWriter, r *http.Request) {
	if s.screener == nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{"monitor": "disabled"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"monitor": s.screener.State()})
}

func (s *Server) handleListProcessedEmails(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	records, err := s.store.ListProcessedEmails(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if records == nil {
		records = []db.ProcessedEmail{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"emails": records})
}

// handleProcessingTrigger runs one screening cycle synchronously. A cycle
// already in flight answers 409 rather than queueing.
func (s *Server) handleProcessingTrigger(w http.ResponseWriter, r *http.Request) {
	if s.screener == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Email monitor is not running")
		return
	}

	result, err := s.screener.RunCycle(r.Context())
	if errors.Is(err, monitor.ErrCycleRunning) {
		busy := &ErrScreeningBusy{}
		s.errorResponse(w, HTTPStatus(busy), busy.Error())
		return
	}
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Screening cycle failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}
