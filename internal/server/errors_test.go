package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careerpilot/resume-studio/internal/apiclient"
	"github.com/careerpilot/resume-studio/internal/document"
	"github.com/careerpilot/resume-studio/internal/enhance"
	"github.com/careerpilot/resume-studio/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"session not found", &ErrSessionNotFound{}, http.StatusNotFound},
		{"section not found", &document.ErrSectionNotFound{SectionID: "s1"}, http.StatusNotFound},
		{"no suggestion", &enhance.ErrNoSuggestion{Index: 3}, http.StatusNotFound},
		{"invalid format", &document.ErrInvalidFormat{Format: "txt"}, http.StatusBadRequest},
		{"content mismatch", &types.ErrContentMismatch{SectionID: "s1"}, http.StatusBadRequest},
		{"missing responses", &enhance.ErrMissingResponses{Missing: []string{"x"}}, http.StatusBadRequest},
		{"load in flight", &document.ErrLoadInFlight{ResumeID: "r1"}, http.StatusConflict},
		{"not loaded", &document.ErrNotLoaded{}, http.StatusConflict},
		{"no confirmation pending", &enhance.ErrNoConfirmationPending{}, http.StatusConflict},
		{"kind mismatch", &document.ErrKindMismatch{SectionID: "s1", Kind: "summary"}, http.StatusUnprocessableEntity},
		{"no experience", &document.ErrNoExperience{SectionID: "s1"}, http.StatusUnprocessableEntity},
		{"rejected suggestion", &enhance.ErrSuggestionRejected{}, http.StatusUnprocessableEntity},
		{"remote service failure", &apiclient.Error{Op: "get_resume", StatusCode: 500}, http.StatusBadGateway},
		{"provider failure", &enhance.SuggestError{Message: "boom"}, http.StatusBadGateway},
		{"unknown error", errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
