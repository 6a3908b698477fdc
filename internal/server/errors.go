// Package server provides the HTTP REST API for resume editing sessions.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/careerpilot/resume-studio/internal/apiclient"
	"github.com/careerpilot/resume-studio/internal/document"
	"github.com/careerpilot/resume-studio/internal/enhance"
	"github.com/careerpilot/resume-studio/internal/types"
)

// ErrSessionNotFound indicates an unknown or foreign editing session.
type ErrSessionNotFound struct {
	SessionID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Request-body validation failures never reach it; handlers write 400
// directly after Validate().
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrSessionNotFound, *document.ErrSectionNotFound, *enhance.ErrNoSuggestion:
		return http.StatusNotFound
	case *document.ErrInvalidFormat, *types.ErrContentMismatch,
		*enhance.ErrMissingResponses:
		return http.StatusBadRequest
	case *document.ErrLoadInFlight, *document.ErrNotLoaded, *enhance.ErrNoConfirmationPending:
		return http.StatusConflict
	case *document.ErrKindMismatch, *document.ErrNoExperience, *enhance.ErrSuggestionRejected:
		return http.StatusUnprocessableEntity
	case *apiclient.Error, *enhance.SuggestError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
