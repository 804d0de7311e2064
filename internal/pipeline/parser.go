package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/aretw0/valet/pkg/domain"
)

// Parse extracts a candidate command from raw model output.
//
// Models rarely honor "JSON only" instructions perfectly: the object may be
// wrapped in code fences, surrounded by prose, or truncated. Parse strips
// fences at the boundaries, decodes the first '{' through the last '}', and
// requires a string "intent" field plus an optional "entities" object.
// It reports ok=false instead of returning an error; shape problems are a
// routine branch, not a fault. Schema checks belong to Validate.
func Parse(raw string) (domain.Command, bool) {
	text := stripFences(raw)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return domain.Command{}, false
	}

	var candidate struct {
		Intent   *string        `json:"intent"`
		Entities map[string]any `json:"entities"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &candidate); err != nil {
		return domain.Command{}, false
	}
	if candidate.Intent == nil {
		return domain.Command{}, false
	}

	entities := candidate.Entities
	if entities == nil {
		entities = map[string]any{}
	}
	return domain.Command{Name: *candidate.Intent, Entities: entities}, true
}

// stripFences removes markdown code-fence delimiters at the text boundaries,
// tolerating a language tag after the opening fence (```json).
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimLeft(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
