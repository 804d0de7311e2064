package schema

import (
	"fmt"
	"strings"
)

// Entity describes one named parameter of an intent.
type Entity struct {
	// Key is the entity name as it appears in the model's JSON output.
	Key string

	// Type validates the entity value. A nil Type accepts any non-nil value.
	Type Type

	// Default fills the entity when absent. Only meaningful for optional entities.
	Default any

	// Prompt is the clarification question asked when a required entity is
	// missing. Empty prompts fall back to a generated question.
	Prompt string
}

// Definition describes one recognized intent: its name, its required entities in
// declaration order, and its optional entities with defaults.
type Definition struct {
	Name        string
	Description string
	Required    []Entity
	Optional    []Entity
}

// FirstMissing returns the first required key (in declared order) that is
// absent, null, or fails its declared type. The boolean reports whether such a
// key exists. Evaluation order makes clarification questions deterministic.
func (d Definition) FirstMissing(entities map[string]any) (string, bool) {
	for _, ent := range d.Required {
		v, ok := entities[ent.Key]
		if !ok || v == nil {
			return ent.Key, true
		}
		if ent.Type != nil {
			if err := ent.Type.Validate(v); err != nil {
				return ent.Key, true
			}
		}
	}
	return "", false
}

// Normalize returns a copy of entities with absent or unusable optional keys
// filled from their defaults and with keys the definition does not declare
// dropped. Required keys pass through untouched; callers check FirstMissing
// before relying on them.
func (d Definition) Normalize(entities map[string]any) map[string]any {
	out := make(map[string]any, len(d.Required)+len(d.Optional))
	for _, ent := range d.Required {
		if v, ok := entities[ent.Key]; ok && v != nil {
			out[ent.Key] = v
		}
	}
	for _, ent := range d.Optional {
		v, ok := entities[ent.Key]
		if !ok || v == nil {
			if ent.Default != nil {
				out[ent.Key] = ent.Default
			}
			continue
		}
		if ent.Type != nil && ent.Type.Validate(v) != nil {
			if ent.Default != nil {
				out[ent.Key] = ent.Default
			}
			continue
		}
		out[ent.Key] = v
	}
	return out
}

// EntityFor returns the declared entity for a key, required or optional.
func (d Definition) EntityFor(key string) (Entity, bool) {
	for _, ent := range d.Required {
		if ent.Key == key {
			return ent, true
		}
	}
	for _, ent := range d.Optional {
		if ent.Key == key {
			return ent, true
		}
	}
	return Entity{}, false
}

// PromptFor returns the clarification question for a required key.
func (d Definition) PromptFor(key string) string {
	for _, ent := range d.Required {
		if ent.Key == key && ent.Prompt != "" {
			return ent.Prompt
		}
	}
	return fmt.Sprintf("I need a %s for that.", strings.ReplaceAll(key, "_", " "))
}

// Keys returns every declared entity key, required first, in declaration order.
func (d Definition) Keys() []string {
	keys := make([]string, 0, len(d.Required)+len(d.Optional))
	for _, ent := range d.Required {
		keys = append(keys, ent.Key)
	}
	for _, ent := range d.Optional {
		keys = append(keys, ent.Key)
	}
	return keys
}

// Schema is the static, read-only table of intent definitions.
type Schema struct {
	defs  []Definition
	index map[string]int
}

// New builds a schema from definitions. When the same name appears twice, the
// later definition replaces the earlier one in place.
func New(defs ...Definition) *Schema {
	s := &Schema{index: make(map[string]int, len(defs))}
	for _, def := range defs {
		s.put(def)
	}
	return s
}

func (s *Schema) put(def Definition) {
	if i, ok := s.index[def.Name]; ok {
		s.defs[i] = def
		return
	}
	s.index[def.Name] = len(s.defs)
	s.defs = append(s.defs, def)
}

// IsKnown reports whether the schema defines the intent name.
func (s *Schema) IsKnown(name string) bool {
	_, ok := s.index[name]
	return ok
}

// DefinitionFor returns the definition for an intent name.
func (s *Schema) DefinitionFor(name string) (Definition, bool) {
	i, ok := s.index[name]
	if !ok {
		return Definition{}, false
	}
	return s.defs[i], true
}

// Definitions returns every definition in declaration order.
func (s *Schema) Definitions() []Definition {
	return append([]Definition(nil), s.defs...)
}

// Len returns the number of defined intents.
func (s *Schema) Len() int {
	return len(s.defs)
}

// With returns an extended copy of the schema. Definitions with names already
// present replace the originals; the receiver is left untouched.
func (s *Schema) With(defs ...Definition) *Schema {
	out := New(s.defs...)
	for _, def := range defs {
		out.put(def)
	}
	return out
}
