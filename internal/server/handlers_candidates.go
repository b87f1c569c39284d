package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/hr360/screening-agent/internal/db"
)

// ---------------------------------------------------------------------
// Candidate Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := db.CandidateFilters{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Position: q.Get("position"),
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filters.Limit = n
	}
	if offset := q.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid offset")
			return
		}
		filters.Offset = n
	}
	if filters.Status != "" && !db.ValidStatus(filters.Status) {
		err := &ErrInvalidStatus{Status: filters.Status}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	candidates, err := s.store.ListCandidates(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidates == nil {
		candidates = []db.Candidate{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"candidates": candidates})
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	candidate, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidate == nil {
		notFound := &ErrCandidateNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, candidate)
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req db.CandidateData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		s.errorResponse(w, http.StatusBadRequest, "First name, last name and email are required")
		return
	}
	if req.Status != "" && !db.ValidStatus(req.Status) {
		invalid := &ErrInvalidStatus{Status: req.Status}
		s.errorResponse(w, HTTPStatus(invalid), invalid.Error())
		return
	}

	// Manual creation does not upsert; a duplicate email is a conflict.
	existing, err := s.store.GetCandidateByEmail(r.Context(), req.Email)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if existing != nil {
		s.errorResponse(w, http.StatusConflict, "A candidate with this email already exists")
		return
	}

	id, err := s.store.CreateCandidate(r.Context(), req)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// handleBatchCandidates upserts a batch of screened applications in one
// call, the same path the email monitor uses.
func (s *Server) handleBatchCandidates(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Candidates []db.CandidateData `json:"candidates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Candidates) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "No candidates submitted")
		return
	}

	result, err := s.batcher.ProcessBatch(r.Context(), req.Candidates)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Batch processing failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleUpdateCandidateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !db.ValidStatus(req.Status) {
		invalid := &ErrInvalidStatus{Status: req.Status}
		s.errorResponse(w, HTTPStatus(invalid), invalid.Error())
		return
	}

	candidate, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidate == nil {
		notFound := &ErrCandidateNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	if err := s.store.UpdateCandidateStatus(r.Context(), id, req.Status); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"id": id.String(), "status": req.Status})
}

// handleAnalyzeCandidate re-runs the AI assessment for a stored candidate.
// The stored cover letter stands in for resume text; the position is used
// as the job description context.
func (s *Server) handleAnalyzeCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	candidate, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidate == nil {
		notFound := &ErrCandidateNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	var req struct {
		ResumeText     string `json:"resume_text"`
		JobDescription string `json:"job_description"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.ResumeText == "" {
		req.ResumeText = candidate.CoverLetter
	}
	if req.JobDescription == "" {
		req.JobDescription = candidate.Position
	}

	result := s.analyzer.Analyze(r.Context(), req.ResumeText, req.JobDescription)

	err = s.store.UpdateCandidateAnalysis(r.Context(), id, result.AIScore, result.Skills,
		result.Experience, result.Education, result.Strengths, result.Weaknesses,
		result.Recommendation, result.Summary)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}
