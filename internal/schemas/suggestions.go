package schemas

// suggestionsSchema is the contract an AI suggestion payload must satisfy
// before the verification workflow will hold it. Anything the provider
// returns outside this shape is discarded wholesale rather than partially
// trusted.
const suggestionsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["suggestions"],
  "properties": {
    "suggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["original_text", "enhanced_text", "verification_status"],
        "properties": {
          "original_text": {"type": "string"},
          "enhanced_text": {"type": "string", "minLength": 1},
          "enhancement_type": {"type": "string"},
          "verification_status": {"type": "string"},
          "confidence_score": {"type": "number", "minimum": 0, "maximum": 1},
          "source_persona_fields": {"type": "array", "items": {"type": "string"}},
          "defensibility_score": {"type": "number", "minimum": 0, "maximum": 1},
          "interview_talking_points": {"type": "array", "items": {"type": "string"}},
          "confirmation_prompt": {"type": "string"}
        }
      }
    }
  }
}`

// ValidateSuggestions validates an AI suggestion payload against the
// suggestion list schema.
func ValidateSuggestions(jsonContent string) error {
	return ValidateJSONString(suggestionsSchema, jsonContent)
}
