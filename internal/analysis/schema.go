package analysis

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// analysisSchema is the shape a model response must match before it is
// accepted. Anything that fails validation triggers the fallback path.
const analysisSchema = `{
  "type": "object",
  "required": ["skills", "experience", "education", "aiScore", "strengths", "weaknesses", "recommendation", "summary"],
  "properties": {
    "skills": {"type": "array", "items": {"type": "string"}},
    "experience": {"type": "string"},
    "education": {"type": "string"},
    "aiScore": {"type": "number", "minimum": 0, "maximum": 100},
    "strengths": {"type": "array", "items": {"type": "string"}},
    "weaknesses": {"type": "array", "items": {"type": "string"}},
    "recommendation": {"type": "string"},
    "summary": {"type": "string"}
  }
}`

// validateAnalysisJSON checks a raw model response against analysisSchema.
func validateAnalysisJSON(raw string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(analysisSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if !result.Valid() {
		first := ""
		if errs := result.Errors(); len(errs) > 0 {
			first = errs[0].String()
		}
		return fmt.Errorf("response does not match analysis schema: %s", first)
	}
	return nil
}
