package enhance

import (
	"fmt"
	"strings"
)

// SuggestError indicates a failure fetching suggestions from the provider.
type SuggestError struct {
	Message string
	Cause   error
}

func (e *SuggestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("suggestion fetch failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("suggestion fetch failed: %s", e.Message)
}

func (e *SuggestError) Unwrap() error {
	return e.Cause
}

// ErrNoSuggestion indicates an apply targeting an index outside the
// current suggestion list.
type ErrNoSuggestion struct {
	Index int
}

func (e *ErrNoSuggestion) Error() string {
	return fmt.Sprintf("no suggestion at index %d", e.Index)
}

// ErrSuggestionRejected indicates an attempt to apply a rejected
// suggestion; rejected suggestions are shown but disabled for application.
type ErrSuggestionRejected struct{}

func (e *ErrSuggestionRejected) Error() string {
	return "suggestion was rejected by verification and cannot be applied"
}

// ErrNoConfirmationPending indicates a metric confirmation with no open
// confirmation step.
type ErrNoConfirmationPending struct{}

func (e *ErrNoConfirmationPending) Error() string {
	return "no confirmation step is pending"
}

// ErrMissingResponses indicates a metric confirmation that did not answer
// every question the confirmation step raised. Partial responses block
// confirmation; the document is not mutated.
type ErrMissingResponses struct {
	Missing []string
}

func (e *ErrMissingResponses) Error() string {
	return fmt.Sprintf("missing confirmation responses for: %s", strings.Join(e.Missing, ", "))
}
