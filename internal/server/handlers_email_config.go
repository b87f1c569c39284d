package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hr360/screening-agent/internal/db"
)

// ---------------------------------------------------------------------
// Email Config Handlers
// ---------------------------------------------------------------------

var emailConfigValidator = validator.New()

func (s *Server) handleGetEmailConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.GetActiveEmailConfig(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if cfg == nil {
		s.errorResponse(w, http.StatusNotFound, "No email configuration stored")
		return
	}

	// Never return the mailbox password.
	s.jsonResponse(w, http.StatusOK, cfg.Masked())
}

func (s *Server) handlePutEmailConfig(w http.ResponseWriter, r *http.Request) {
	var req db.EmailConfig
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IntervalMinutes == 0 {
		req.IntervalMinutes = 5
	}

	if err := emailConfigValidator.Struct(req); err != nil {
		invalid := &ErrValidation{Field: "email_config", Message: err.Error()}
		s.errorResponse(w, HTTPStatus(invalid), invalid.Error())
		return
	}

	saved, err := s.store.SaveEmailConfig(r.Context(), req)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, saved.Masked())
}
