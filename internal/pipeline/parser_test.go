package pipeline

import (
	"testing"
)

func TestParse_WellFormed(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		wants string
	}{
		{"Bare JSON", `{"intent": "open_app", "entities": {"app_name": "firefox"}}`, "open_app"},
		{"Fenced", "```\n{\"intent\": \"open_app\", \"entities\": {\"app_name\": \"firefox\"}}\n```", "open_app"},
		{"Fenced With Tag", "```json\n{\"intent\": \"open_app\", \"entities\": {\"app_name\": \"firefox\"}}\n```", "open_app"},
		{"Leading Prose", "Sure! Here is the JSON:\n{\"intent\": \"open_app\", \"entities\": {\"app_name\": \"firefox\"}}", "open_app"},
		{"Trailing Prose", `{"intent": "open_app", "entities": {"app_name": "firefox"}} Hope that helps!`, "open_app"},
		{"Surrounding Whitespace", "\n\n  {\"intent\": \"open_app\", \"entities\": {\"app_name\": \"firefox\"}}  \n", "open_app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := Parse(tt.raw)
			if !ok {
				t.Fatalf("Parse(%q) reported malformed", tt.raw)
			}
			if cmd.Name != tt.wants {
				t.Errorf("Expected intent %q, got %q", tt.wants, cmd.Name)
			}
			if got := cmd.Entities["app_name"]; got != "firefox" {
				t.Errorf("Expected app_name entity, got %v", got)
			}
		})
	}
}

func TestParse_FenceStrippingIsTransparent(t *testing.T) {
	bare := `{"intent": "set_brightness", "entities": {"level": 75}}`
	fenced := "```json\n" + bare + "\n```"

	a, okA := Parse(bare)
	b, okB := Parse(fenced)
	if !okA || !okB {
		t.Fatal("both variants should parse")
	}
	if a.Name != b.Name {
		t.Errorf("fenced parse diverged: %q vs %q", a.Name, b.Name)
	}
	if a.Entities["level"] != b.Entities["level"] {
		t.Errorf("fenced entities diverged: %v vs %v", a.Entities, b.Entities)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"Empty", ""},
		{"No Braces", "not json at all"},
		{"Unbalanced", "{ this is { not json"},
		{"Reversed Braces", "} backwards {"},
		{"Invalid JSON", `{"intent": }`},
		{"Intent Missing", `{"entities": {"app_name": "firefox"}}`},
		{"Intent Null", `{"intent": null}`},
		{"Intent Not A String", `{"intent": 42}`},
		{"Entities Not An Object", `{"intent": "open_app", "entities": "firefox"}`},
		{"Array Not Object", `["open_app"]`},
		{"Truncated", `{"intent": "open_app", "entities": {"app_name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Parse(tt.raw); ok {
				t.Errorf("Parse(%q) should report malformed", tt.raw)
			}
		})
	}
}

func TestParse_EntitiesDefaultEmpty(t *testing.T) {
	for _, raw := range []string{
		`{"intent": "exit"}`,
		`{"intent": "exit", "entities": null}`,
		`{"intent": "exit", "entities": {}}`,
	} {
		cmd, ok := Parse(raw)
		if !ok {
			t.Fatalf("Parse(%q) reported malformed", raw)
		}
		if cmd.Entities == nil {
			t.Errorf("Parse(%q) returned nil entities; want empty map", raw)
		}
		if len(cmd.Entities) != 0 {
			t.Errorf("Parse(%q) returned unexpected entities %v", raw, cmd.Entities)
		}
	}
}

func TestParse_EmptyIntentPassesThrough(t *testing.T) {
	// Shape-wise valid; the validator decides what an empty name means.
	cmd, ok := Parse(`{"intent": "", "entities": {}}`)
	if !ok {
		t.Fatal("empty intent string is still a string field")
	}
	if cmd.Name != "" {
		t.Errorf("Expected empty name, got %q", cmd.Name)
	}
}

func TestParse_NestedBraces(t *testing.T) {
	raw := `The plan: {"intent": "create_file", "entities": {"filepath": "notes.txt", "content": "a {b} c"}}`
	cmd, ok := Parse(raw)
	if !ok {
		t.Fatal("nested braces inside strings should parse")
	}
	if cmd.Entities["content"] != "a {b} c" {
		t.Errorf("Expected nested content preserved, got %v", cmd.Entities["content"])
	}
}
