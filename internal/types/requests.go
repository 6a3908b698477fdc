package types

import (
	"github.com/go-playground/validator/v10"
)

// CreateSessionRequest starts an editing session for one resume.
type CreateSessionRequest struct {
	ResumeID string `json:"resume_id" validate:"required"`
}

// ReorderRequest moves the section at ActiveID's position to OverID's position.
type ReorderRequest struct {
	ActiveID string `json:"active_id" validate:"required"`
	OverID   string `json:"over_id" validate:"required"`
}

// SectionPatch is a shallow partial update of one section. Nil fields are
// left untouched.
type SectionPatch struct {
	Title     *string         `json:"title,omitempty"`
	IsVisible *bool           `json:"is_visible,omitempty"`
	Content   *SectionContent `json:"content,omitempty"`
}

// FetchEnhancementsRequest requests suggestions for one piece of section
// text. No section id here: suggestions bind to a section at apply time.
type FetchEnhancementsRequest struct {
	Text string          `json:"text" validate:"required"`
	Kind EnhancementKind `json:"kind" validate:"required,oneof=summary bullet_point description"`
}

// ApplySuggestionRequest applies one suggestion from the open panel.
type ApplySuggestionRequest struct {
	SectionID string `json:"section_id" validate:"required"`
}

// ConfirmMetricsRequest supplies user-confirmed values for every metric the
// confirmation step raised.
type ConfirmMetricsRequest struct {
	Responses map[string]string `json:"responses" validate:"required"`
}

// Validate validates the CreateSessionRequest using the validator.
func (r *CreateSessionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ReorderRequest using the validator.
func (r *ReorderRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the FetchEnhancementsRequest using the validator.
func (r *FetchEnhancementsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ApplySuggestionRequest using the validator.
func (r *ApplySuggestionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ConfirmMetricsRequest using the validator.
func (r *ConfirmMetricsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
