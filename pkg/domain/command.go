package domain

// Command represents a single structured intent extracted from one user utterance.
// Ideally compatible with the JSON shape LLMs are instructed to emit.
type Command struct {
	Name     string         `json:"intent" yaml:"intent" mapstructure:"intent"`
	Entities map[string]any `json:"entities,omitempty" yaml:"entities,omitempty" mapstructure:"entities"`
}

// Entity returns the named entity value. The boolean is false when the key is
// absent or holds an explicit null.
func (c Command) Entity(key string) (any, bool) {
	v, ok := c.Entities[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Clone returns a copy of the command with its own entity map.
func (c Command) Clone() Command {
	out := Command{Name: c.Name}
	if c.Entities != nil {
		out.Entities = make(map[string]any, len(c.Entities))
		for k, v := range c.Entities {
			out.Entities[k] = v
		}
	}
	return out
}
