package pipeline

import (
	"fmt"
	"strings"

	"github.com/aretw0/valet/pkg/schema"
)

const promptPreamble = `Analyze the user's command and extract the primary intent and its entities.
Your response MUST be a single valid JSON object. Do not include any text before or after the JSON object. No markdown.

The JSON object has exactly two keys: "intent" and "entities".
"intent" is one of the names below, or "unknown" if the command matches none of them.
"entities" is a JSON object holding the keys listed for that intent; omit keys the user did not mention. Never invent values.
`

const promptRules = `Rules:
- Percentages for brightness map to 0-100; volume maps to 0.0-1.0 ("volume to 50%" means 0.5).
- Keep file and directory paths exactly as the user said them.
- If the meaning is unclear, use {"intent": "unknown", "entities": {}}.
`

// BuildSystemPrompt renders the instruction block sent with every completion:
// a fixed preamble, one line per schema definition, and normalization rules.
// The schema drives it entirely, so intent packs extend the prompt without
// touching dispatch logic.
func BuildSystemPrompt(s *schema.Schema) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\nIntents:\n")
	for _, def := range s.Definitions() {
		b.WriteString(describeDefinition(def))
	}
	b.WriteString("\n")
	b.WriteString(promptRules)
	return b.String()
}

func describeDefinition(def schema.Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %q", def.Name)
	if def.Description != "" {
		fmt.Fprintf(&b, ": %s", def.Description)
	}
	var keys []string
	for _, e := range def.Required {
		keys = append(keys, fmt.Sprintf("%q (%s, required)", e.Key, typeName(e)))
	}
	for _, e := range def.Optional {
		keys = append(keys, fmt.Sprintf("%q (%s, optional)", e.Key, typeName(e)))
	}
	if len(keys) > 0 {
		fmt.Fprintf(&b, " Entities: %s.", strings.Join(keys, ", "))
	}
	b.WriteString("\n")
	return b.String()
}

func typeName(e schema.Entity) string {
	if e.Type == nil {
		return "any"
	}
	return e.Type.Name()
}
