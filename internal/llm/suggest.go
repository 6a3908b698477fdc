package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/careerpilot/resume-studio/internal/schemas"
	"github.com/careerpilot/resume-studio/internal/types"
)

// Suggester generates grounded enhancement suggestions with Gemini. It
// satisfies the enhance.Suggester contract.
type Suggester struct {
	client Client
}

// NewSuggester wraps an LLM client as a suggestion provider.
func NewSuggester(client Client) *Suggester {
	return &Suggester{client: client}
}

// SuggestEnhancements requests rewrite suggestions for one piece of resume
// text. The response is schema-validated before it is trusted; suggestions
// with an unknown verification status are demoted to needs_confirmation so
// unlabeled facts never skip the confirmation gate.
func (s *Suggester) SuggestEnhancements(ctx context.Context, text string, kind types.EnhancementKind) ([]types.AISuggestion, error) {
	prompt := buildSuggestionPrompt(text, kind)

	responseText, err := s.client.GenerateJSON(ctx, prompt, TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}

	return ParseSuggestions(responseText)
}

// ParseSuggestions validates and decodes a suggestion list payload.
func ParseSuggestions(payload string) ([]types.AISuggestion, error) {
	if err := schemas.ValidateSuggestions(payload); err != nil {
		return nil, fmt.Errorf("suggestion payload failed validation: %w", err)
	}

	var wrapper struct {
		Suggestions []types.AISuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggestions: %w", err)
	}

	for i := range wrapper.Suggestions {
		normalizeSuggestion(&wrapper.Suggestions[i])
	}
	return wrapper.Suggestions, nil
}

// normalizeSuggestion coerces provider output into the workflow's
// expectations: known status values pass through, anything else requires
// confirmation before it can touch the document.
func normalizeSuggestion(s *types.AISuggestion) {
	switch s.VerificationStatus {
	case types.StatusVerified, types.StatusPlausible, types.StatusNeedsConfirmation, types.StatusRejected:
	default:
		s.VerificationStatus = types.StatusNeedsConfirmation
	}
	if s.SourcePersonaFields == nil {
		s.SourcePersonaFields = []string{}
	}
	if s.InterviewTalkingPoints == nil {
		s.InterviewTalkingPoints = []string{}
	}
}

// buildSuggestionPrompt constructs the grounded rewriting prompt.
func buildSuggestionPrompt(text string, kind types.EnhancementKind) string {
	var sb strings.Builder

	sb.WriteString("You are a resume writing assistant. Rewrite the following ")
	switch kind {
	case types.KindSummary:
		sb.WriteString("professional summary")
	case types.KindBulletPoint:
		sb.WriteString("achievement bullet point")
	default:
		sb.WriteString("role description")
	}
	sb.WriteString(" to be stronger and more specific.\n\n")

	sb.WriteString("Original text:\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")

	sb.WriteString("Rules:\n")
	sb.WriteString("- Never invent specific numbers. If a rewrite would benefit from a metric the original does not state, insert a {{metric_name}} placeholder, set verification_status to \"needs_confirmation\", and ask for the value in confirmation_prompt.\n")
	sb.WriteString("- Set verification_status to \"verified\" only when every factual claim already appears in the original text.\n")
	sb.WriteString("- Set verification_status to \"plausible\" for stylistic rewrites that add no new facts.\n")
	sb.WriteString("- List which source fields each claim traces to in source_persona_fields.\n")
	sb.WriteString("- Provide two or three interview_talking_points the candidate could expand on.\n\n")

	sb.WriteString(`Respond with JSON: {"suggestions": [{"original_text", "enhanced_text", "enhancement_type", "verification_status", "confidence_score", "source_persona_fields", "defensibility_score", "interview_talking_points", "confirmation_prompt"}]}`)
	sb.WriteString("\nReturn two to three suggestions.")

	return sb.String()
}
