// Package screening turns analyzed applications into candidate records.
// It owns the batch upsert: one bad application never sinks its siblings,
// and the HR team gets a single notification per batch.
package screening

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hr360/screening-agent/internal/db"
)

// Store is the slice of the database the processor needs.
type Store interface {
	UpsertCandidateByEmail(ctx context.Context, data db.CandidateData) (*db.UpsertResult, error)
	FirstHRUser(ctx context.Context) (*db.User, error)
	CreateNotification(ctx context.Context, userID uuid.UUID, title, message, notifyType string) (uuid.UUID, error)
}

// BatchError records why one application in a batch failed.
type BatchError struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// BatchResult reports the outcome of one batch. Processed plus the number
// of errors always equals the number of submitted applications.
type BatchResult struct {
	Processed int               `json:"processed"`
	Created   int               `json:"created"`
	Updated   int               `json:"updated"`
	Results   []db.UpsertResult `json:"results"`
	Errors    []BatchError      `json:"errors,omitempty"`

	// Actions maps each processed email to "created" or "updated", for
	// callers that need per-item outcomes (audit rows).
	Actions map[string]string `json:"-"`
}

// Processor upserts batches of screened applications.
type Processor struct {
	store    Store
	validate *validator.Validate
}

// NewProcessor creates a Processor.
func NewProcessor(store Store) *Processor {
	return &Processor{
		store:    store,
		validate: validator.New(),
	}
}

// ProcessBatch upserts every application in payloads. Failures are isolated
// per item and collected in the result. When the batch is non-empty and an
// HR user exists, exactly one summary notification is created; its failure
// is logged, never returned.
func (p *Processor) ProcessBatch(ctx context.Context, payloads []db.CandidateData) (*BatchResult, error) {
	result := &BatchResult{Results: []db.UpsertResult{}, Actions: map[string]string{}}

	for _, payload := range payloads {
		if err := p.validate.Struct(payload); err != nil {
			result.Errors = append(result.Errors, BatchError{
				Email: payload.Email,
				Error: fmt.Sprintf("invalid candidate data: %v", err),
			})
			continue
		}

		upsert, err := p.store.UpsertCandidateByEmail(ctx, payload)
		if err != nil {
			result.Errors = append(result.Errors, BatchError{
				Email: payload.Email,
				Error: err.Error(),
			})
			continue
		}

		result.Processed++
		result.Results = append(result.Results, *upsert)
		result.Actions[payload.Email] = upsert.Action
		if upsert.Action == "created" {
			result.Created++
		} else {
			result.Updated++
		}
	}

	if len(payloads) > 0 {
		p.notifyHR(ctx, result)
	}
	return result, nil
}

// notifyHR creates the single batch summary notification for the first
// active HR user. Missing HR users and notification failures only log.
func (p *Processor) notifyHR(ctx context.Context, result *BatchResult) {
	hr, err := p.store.FirstHRUser(ctx)
	if err != nil {
		log.Printf("failed to look up HR user for batch notification: %v", err)
		return
	}
	if hr == nil {
		log.Printf("no active HR user, skipping batch notification")
		return
	}

	notifyType := db.NotifySuccess
	if len(result.Errors) > 0 {
		notifyType = db.NotifyWarning
	}

	message := fmt.Sprintf("Processed %d application(s): %d new, %d updated",
		result.Processed, result.Created, result.Updated)
	if len(result.Errors) > 0 {
		message += fmt.Sprintf(", %d failed", len(result.Errors))
	}

	if _, err := p.store.CreateNotification(ctx, hr.ID, "Resume Screening Complete", message, notifyType); err != nil {
		log.Printf("failed to create batch notification: %v", err)
	}
}
