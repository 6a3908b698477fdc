package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSuggestions_ValidPayload(t *testing.T) {
	payload := `{
		"suggestions": [
			{
				"original_text": "Worked on backend",
				"enhanced_text": "Designed and shipped backend services",
				"enhancement_type": "description",
				"verification_status": "plausible",
				"confidence_score": 0.8,
				"source_persona_fields": ["experience.description"],
				"interview_talking_points": ["Service design tradeoffs"]
			}
		]
	}`
	assert.NoError(t, ValidateSuggestions(payload))
}

func TestValidateSuggestions_EmptyList(t *testing.T) {
	assert.NoError(t, ValidateSuggestions(`{"suggestions": []}`))
}

func TestValidateSuggestions_MissingSuggestionsKey(t *testing.T) {
	err := ValidateSuggestions(`{"items": []}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidateSuggestions_MissingRequiredFields(t *testing.T) {
	payload := `{"suggestions": [{"original_text": "only original"}]}`
	err := ValidateSuggestions(payload)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateSuggestions_EmptyEnhancedText(t *testing.T) {
	payload := `{
		"suggestions": [
			{"original_text": "x", "enhanced_text": "", "verification_status": "verified"}
		]
	}`
	var validationErr *ValidationError
	assert.ErrorAs(t, ValidateSuggestions(payload), &validationErr)
}

func TestValidateSuggestions_ConfidenceOutOfRange(t *testing.T) {
	payload := `{
		"suggestions": [
			{"original_text": "x", "enhanced_text": "y", "verification_status": "verified", "confidence_score": 1.5}
		]
	}`
	var validationErr *ValidationError
	assert.ErrorAs(t, ValidateSuggestions(payload), &validationErr)
}

func TestValidateSuggestions_MalformedJSON(t *testing.T) {
	err := ValidateSuggestions(`{"suggestions": [`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_MessageListsFields(t *testing.T) {
	err := ValidateSuggestions(`{"suggestions": [{"enhanced_text": "y"}]}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Error(), "validation failed")
}
