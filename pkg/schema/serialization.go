package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

type rawEntity struct {
	Key     string `mapstructure:"key"`
	Type    string `mapstructure:"type"`
	Default any    `mapstructure:"default"`
	Prompt  string `mapstructure:"prompt"`
}

type rawDefinition struct {
	Description string      `mapstructure:"description"`
	Required    []rawEntity `mapstructure:"required"`
	Optional    []rawEntity `mapstructure:"optional"`
}

// DefinitionFromMap builds a Definition from decoded frontmatter or JSON data.
// Entity type names go through ParseType; an empty type means "any".
// This is how intent packs declare custom intents.
func DefinitionFromMap(name string, data map[string]any) (Definition, error) {
	if name == "" {
		return Definition{}, fmt.Errorf("definition needs a name")
	}

	var raw rawDefinition
	if err := mapstructure.Decode(data, &raw); err != nil {
		return Definition{}, fmt.Errorf("definition %s: %w", name, err)
	}

	def := Definition{Name: name, Description: raw.Description}

	for _, re := range raw.Required {
		ent, err := re.toEntity()
		if err != nil {
			return Definition{}, fmt.Errorf("definition %s: %w", name, err)
		}
		def.Required = append(def.Required, ent)
	}
	for _, re := range raw.Optional {
		ent, err := re.toEntity()
		if err != nil {
			return Definition{}, fmt.Errorf("definition %s: %w", name, err)
		}
		def.Optional = append(def.Optional, ent)
	}

	return def, nil
}

func (re rawEntity) toEntity() (Entity, error) {
	if re.Key == "" {
		return Entity{}, fmt.Errorf("entity needs a key")
	}
	typ, err := ParseType(re.Type)
	if err != nil {
		return Entity{}, fmt.Errorf("entity %s: %w", re.Key, err)
	}
	return Entity{Key: re.Key, Type: typ, Default: re.Default, Prompt: re.Prompt}, nil
}
