package db

import (
	"time"

	"github.com/google/uuid"
)

// Candidate pipeline statuses.
const (
	StatusApplied   = "applied"
	StatusScreening = "screening"
	StatusInterview = "interview"
	StatusOffered   = "offered"
	StatusHired     = "hired"
	StatusRejected  = "rejected"
)

// ValidStatus reports whether s is a known candidate status.
func ValidStatus(s string) bool {
	switch s {
	case StatusApplied, StatusScreening, StatusInterview, StatusOffered, StatusHired, StatusRejected:
		return true
	}
	return false
}

// Processed-email audit statuses.
const (
	AuditSuccess = "success"
	AuditPartial = "partial"
	AuditFailed  = "failed"
)

// StatusFromCounts derives the audit status of a message from how many of
// its candidate payloads failed.
func StatusFromCounts(total, failed int) string {
	switch {
	case failed == 0:
		return AuditSuccess
	case failed < total:
		return AuditPartial
	default:
		return AuditFailed
	}
}

// Notification types.
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

// Candidate represents an applicant record.
type Candidate struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Position       string    `json:"position"`
	ResumeURL      string    `json:"resume_url,omitempty"`
	CoverLetter    string    `json:"cover_letter,omitempty"`
	Status         string    `json:"status"`
	AIScore        *int      `json:"ai_score,omitempty"`
	Skills         []string  `json:"skills"`
	Experience     string    `json:"experience,omitempty"`
	Education      string    `json:"education,omitempty"`
	Strengths      []string  `json:"strengths"`
	Weaknesses     []string  `json:"weaknesses"`
	Recommendation string    `json:"recommendation,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	AppliedAt      time.Time `json:"applied_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CandidateData is the write shape for creating or upserting a candidate.
type CandidateData struct {
	FirstName      string   `json:"first_name" validate:"required"`
	LastName       string   `json:"last_name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone,omitempty"`
	Position       string   `json:"position" validate:"required"`
	ResumeURL      string   `json:"resume_url,omitempty"`
	CoverLetter    string   `json:"cover_letter,omitempty"`
	Status         string   `json:"status,omitempty"`
	AIScore        *int     `json:"ai_score,omitempty" validate:"omitempty,min=0,max=100"`
	Skills         []string `json:"skills,omitempty"`
	Experience     string   `json:"experience,omitempty"`
	Education      string   `json:"education,omitempty"`
	Strengths      []string `json:"strengths,omitempty"`
	Weaknesses     []string `json:"weaknesses,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Summary        string   `json:"summary,omitempty"`
}

// UpsertResult reports how an upsert-by-email resolved.
type UpsertResult struct {
	ID     uuid.UUID `json:"id"`
	Action string    `json:"action"` // "created" or "updated"
}

// CandidateFilters holds optional filters for listing candidates.
type CandidateFilters struct {
	Search   string
	Status   string
	Position string
	Limit    int
	Offset   int
}

// User represents an internal account (HR staff, admins).
type User struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"` // admin, hr, employee, candidate
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notification represents an in-app notification for a user.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ProcessedEmail is the audit record for one handled inbox message.
type ProcessedEmail struct {
	ID                   uuid.UUID `json:"id"`
	MessageID            string    `json:"message_id"`
	Subject              string    `json:"subject"`
	Sender               string    `json:"sender"`
	ProcessedAt          time.Time `json:"processed_at"`
	AttachmentsProcessed int       `json:"attachments_processed"`
	CandidatesCreated    int       `json:"candidates_created"`
	Status               string    `json:"status"` // success, partial, failed
	Error                string    `json:"error,omitempty"`
}

// EmailConfig holds the stored mailbox monitoring settings.
type EmailConfig struct {
	ID              uuid.UUID  `json:"id"`
	Host            string     `json:"host" validate:"required,hostname|ip"`
	Port            int        `json:"port" validate:"required,min=1,max=65535"`
	Username        string     `json:"username" validate:"required"`
	Password        string     `json:"password,omitempty" validate:"required"`
	UseTLS          bool       `json:"use_tls"`
	Enabled         bool       `json:"enabled"`
	IntervalMinutes int        `json:"interval_minutes" validate:"required,min=1"`
	LastChecked     *time.Time `json:"last_checked,omitempty"`
	IsActive        bool       `json:"is_active"`
}

// Masked returns a copy with the password hidden, for API responses.
func (c EmailConfig) Masked() EmailConfig {
	if c.Password != "" {
		c.Password = "********"
	}
	return c
}

// ProcessingStats aggregates processed-email audit rows.
type ProcessingStats struct {
	TotalEmails       int        `json:"total_emails"`
	TotalAttachments  int        `json:"total_attachments"`
	CandidatesCreated int        `json:"candidates_created"`
	Failed            int        `json:"failed"`
	LastProcessedAt   *time.Time `json:"last_processed_at,omitempty"`
}
