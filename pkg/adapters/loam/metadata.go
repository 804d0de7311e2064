package loam

// IntentMetadata represents the frontmatter of one intent-pack document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type IntentMetadata struct {
	// Name overrides the intent name. Defaults to the document's filename
	// without extension.
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`

	Required []EntityConfig `json:"required" mapstructure:"required"`
	Optional []EntityConfig `json:"optional" mapstructure:"optional"`

	// Exec is a shell command template run when the intent dispatches.
	// {key} placeholders are substituted with the validated entity values,
	// shell-quoted. Documents without exec contribute a definition only.
	Exec string `json:"exec" mapstructure:"exec"`
}

// EntityConfig declares one entity of a pack intent.
type EntityConfig struct {
	Key string `json:"key" mapstructure:"key"`

	// Type names the value validator: string, int, float, bool, any,
	// percent, unit, or a slice like [string]. Empty accepts any value.
	Type    string `json:"type" mapstructure:"type"`
	Default any    `json:"default" mapstructure:"default"`
	Prompt  string `json:"prompt" mapstructure:"prompt"`
}
