package pipeline

import (
	"strings"
	"testing"

	"github.com/aretw0/valet/pkg/schema"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt(schema.New(schema.Builtin()...))

	if !strings.Contains(prompt, "single valid JSON object") {
		t.Error("prompt should demand a single JSON object")
	}
	for _, name := range []string{"open_app", "set_brightness", "move_path", "general_query", "exit"} {
		if !strings.Contains(prompt, `"`+name+`"`) {
			t.Errorf("prompt should enumerate %q", name)
		}
	}
	if !strings.Contains(prompt, `"level" (percent, required)`) {
		t.Error("prompt should mark required entities with their type")
	}
	if !strings.Contains(prompt, `"summarize" (bool, optional)`) {
		t.Error("prompt should mark optional entities")
	}
}

func TestBuildSystemPrompt_IncludesCustomDefinitions(t *testing.T) {
	s := schema.New(schema.Builtin()...).With(schema.Definition{
		Name:        "water_plants",
		Description: "Water the balcony plants.",
		Required:    []schema.Entity{{Key: "zone", Type: schema.String()}},
	})

	prompt := BuildSystemPrompt(s)
	if !strings.Contains(prompt, `"water_plants"`) {
		t.Error("prompt should pick up schema extensions")
	}
	if !strings.Contains(prompt, "Water the balcony plants.") {
		t.Error("prompt should carry the definition description")
	}
}
