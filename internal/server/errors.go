// Package server provides the HTTP API the browser extension talks to.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrInvalidPairingCode indicates a failed pairing attempt
type ErrInvalidPairingCode struct{}

func (e *ErrInvalidPairingCode) Error() string {
	return "invalid pairing code"
}

// ErrPostingNotFound indicates a saved posting was not found
type ErrPostingNotFound struct {
	ID uuid.UUID
}

func (e *ErrPostingNotFound) Error() string {
	return fmt.Sprintf("posting not found: %s", e.ID)
}

// ErrResumeNotFound indicates no usable resume is configured or stored
type ErrResumeNotFound struct{}

func (e *ErrResumeNotFound) Error() string {
	return "no master resume configured"
}

// ErrNoLLM indicates the request needs an LLM provider but none is configured
type ErrNoLLM struct{}

func (e *ErrNoLLM) Error() string {
	return "no LLM provider configured"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrInvalidPairingCode:
		return http.StatusUnauthorized
	case *ErrPostingNotFound:
		return http.StatusNotFound
	case *ErrResumeNotFound, *ErrNoLLM:
		return http.StatusPreconditionFailed
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
