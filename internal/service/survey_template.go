package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SurveyTemplate is the ordered question list instantiated by the survey
// cascade. It can be overridden through configuration; the override is
// validated against the template schema before use.
type SurveyTemplate []string

const surveyTemplateSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["questions"],
	"properties": {
		"questions": {
			"type": "array",
			"minItems": 1,
			"maxItems": 32,
			"items": {
				"type": "string",
				"minLength": 3,
				"maxLength": 512
			}
		}
	},
	"additionalProperties": false
}`

const defaultSurveyTemplate = `{
	"questions": [
		"How would you rate the overall quality of this rotation?",
		"Was the supervision you received adequate for your level of training?",
		"Did the rotation offer enough hands-on clinical exposure?",
		"How useful was the feedback you received during the rotation?",
		"Would you recommend this rotation to other residents?",
		"What should be improved about this rotation?"
	]
}`

type surveyTemplateDocument struct {
	Questions []string `json:"questions"`
}

// LoadSurveyTemplate parses and validates a survey template document. An
// empty raw string loads the built-in default.
func LoadSurveyTemplate(raw string) (SurveyTemplate, error) {
	if strings.TrimSpace(raw) == "" {
		raw = defaultSurveyTemplate
	}

	schema, err := jsonschema.CompileString("survey_template.schema.json", surveyTemplateSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile survey template schema: %w", err)
	}

	var document interface{}
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		return nil, fmt.Errorf("invalid survey template json: %w", err)
	}

	if err := schema.Validate(document); err != nil {
		return nil, fmt.Errorf("survey template rejected by schema: %w", err)
	}

	var parsed surveyTemplateDocument
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("invalid survey template json: %w", err)
	}

	return SurveyTemplate(parsed.Questions), nil
}
