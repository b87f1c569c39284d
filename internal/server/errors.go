package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrCandidateNotFound indicates the candidate does not exist
type ErrCandidateNotFound struct {
	ID uuid.UUID
}

func (e *ErrCandidateNotFound) Error() string {
	return fmt.Sprintf("candidate not found: %s", e.ID)
}

// ErrInvalidStatus indicates an unknown pipeline status value
type ErrInvalidStatus struct {
	Status string
}

func (e *ErrInvalidStatus) Error() string {
	return fmt.Sprintf("invalid candidate status: %s", e.Status)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrScreeningBusy indicates a screening cycle is already in flight
type ErrScreeningBusy struct{}

func (e *ErrScreeningBusy) Error() string {
	return "screening cycle already running"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrCandidateNotFound:
		return http.StatusNotFound
	case *ErrInvalidStatus, *ErrValidation:
		return http.StatusBadRequest
	case *ErrScreeningBusy:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
