package types

// VerificationStatus is the trust level assigned to an AI-proposed rewrite
// based on whether its factual claims trace back to confirmed persona data.
type VerificationStatus string

// Verification status constants define the suggestion trust levels.
const (
	// StatusVerified means every factual claim traces to confirmed persona data
	StatusVerified VerificationStatus = "verified"
	// StatusPlausible means claims are consistent with persona data but not directly confirmed
	StatusPlausible VerificationStatus = "plausible"
	// StatusNeedsConfirmation means the rewrite asserts metrics the user must confirm first
	StatusNeedsConfirmation VerificationStatus = "needs_confirmation"
	// StatusRejected means the rewrite asserts facts contradicting persona data
	StatusRejected VerificationStatus = "rejected"
)

// EnhancementKind identifies which piece of section text a suggestion rewrites.
type EnhancementKind string

// Enhancement kind constants.
const (
	// KindSummary targets the summary section body
	KindSummary EnhancementKind = "summary"
	// KindBulletPoint targets the first achievement bullet of an experience
	KindBulletPoint EnhancementKind = "bullet_point"
	// KindDescription targets an experience description
	KindDescription EnhancementKind = "description"
)

// AISuggestion is one AI-proposed rewrite of a piece of section text.
// Suggestions live in a transient list scoped to the open enhancement panel
// and are discarded when the panel closes or a regenerate replaces the list.
type AISuggestion struct {
	OriginalText           string             `json:"original_text"`
	EnhancedText           string             `json:"enhanced_text"`
	EnhancementType        string             `json:"enhancement_type"`
	VerificationStatus     VerificationStatus `json:"verification_status"`
	ConfidenceScore        float64            `json:"confidence_score,omitempty"`
	SourcePersonaFields    []string           `json:"source_persona_fields"`
	DefensibilityScore     float64            `json:"defensibility_score,omitempty"`
	InterviewTalkingPoints []string           `json:"interview_talking_points"`
	ConfirmationPrompt     string             `json:"confirmation_prompt,omitempty"`
}

// Applicable reports whether the suggestion may be written into the document
// without passing through the confirmation step.
func (s *AISuggestion) Applicable() bool {
	return s.VerificationStatus == StatusVerified || s.VerificationStatus == StatusPlausible
}
