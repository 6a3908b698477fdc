package document

import "fmt"

// ErrNotLoaded indicates an operation that requires a loaded document.
type ErrNotLoaded struct{}

func (e *ErrNotLoaded) Error() string {
	return "no resume document is loaded"
}

// ErrLoadInFlight indicates a Load call while another load is still pending.
// The store does not queue or dedupe; a concurrent load is a caller error.
type ErrLoadInFlight struct {
	ResumeID string
}

func (e *ErrLoadInFlight) Error() string {
	return fmt.Sprintf("load already in flight for resume %s", e.ResumeID)
}

// ErrSectionNotFound indicates a commit targeting a section id that does not
// exist in the document.
type ErrSectionNotFound struct {
	SectionID string
}

func (e *ErrSectionNotFound) Error() string {
	return fmt.Sprintf("section not found: %s", e.SectionID)
}

// ErrInvalidFormat indicates an unsupported download format.
type ErrInvalidFormat struct {
	Format string
}

func (e *ErrInvalidFormat) Error() string {
	return fmt.Sprintf("unsupported download format: %s (want pdf or docx)", e.Format)
}

// ErrKindMismatch indicates an enhancement commit whose kind does not match
// the target section's type.
type ErrKindMismatch struct {
	SectionID string
	Kind      string
}

func (e *ErrKindMismatch) Error() string {
	return fmt.Sprintf("enhancement kind %s cannot target section %s", e.Kind, e.SectionID)
}

// ErrNoExperience indicates a bullet or description commit against an
// experience section with no experience entries.
type ErrNoExperience struct {
	SectionID string
}

func (e *ErrNoExperience) Error() string {
	return fmt.Sprintf("section %s has no experience entries", e.SectionID)
}
