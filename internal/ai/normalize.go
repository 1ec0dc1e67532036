package ai

import (
	"encoding/json"
	"fmt"

	"github.com/revuhq/revu/internal/models"
)

// Normalize coerces raw provider text into the fixed review schema. It is
// total over any syntactically valid JSON object: fields that are missing
// or of the wrong type fall back to their defaults, unknown fields are
// ignored. Non-object input (including valid JSON arrays or scalars) is a
// malformed response.
func Normalize(raw string) (models.ReviewOutput, error) {
	out := emptyOutput()

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	// JSON null unmarshals into a nil map without error.
	if obj == nil {
		return out, fmt.Errorf("%w: not a JSON object", ErrMalformedResponse)
	}

	out.Errors = stringList(obj["errors"])
	out.Improvements = stringList(obj["improvements"])
	out.SecurityIssues = stringList(obj["security_issues"])
	out.CleanCode = stringList(obj["clean_code"])
	out.Complexity = stringValue(obj["complexity"])
	out.RefactorCode = stringValue(obj["refactor_code"])
	out.Summary = stringValue(obj["summary"])
	return out, nil
}

func emptyOutput() models.ReviewOutput {
	return models.ReviewOutput{
		Errors:         []string{},
		Improvements:   []string{},
		SecurityIssues: []string{},
		CleanCode:      []string{},
	}
}

// stringList accepts only a list whose elements are all strings; anything
// else yields the empty default.
func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	list := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return []string{}
		}
		list = append(list, s)
	}
	return list
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
