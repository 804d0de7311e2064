package domain

// OutcomeKind discriminates the variants of a validation Outcome.
type OutcomeKind string

const (
	// OutcomeValid means the candidate passed validation; Command carries the result.
	OutcomeValid OutcomeKind = "valid"

	// OutcomeUnknownIntent means the intent name is not in the schema; RawName carries it.
	OutcomeUnknownIntent OutcomeKind = "unknown_intent"

	// OutcomeMissingEntity means a required entity is absent or unusable;
	// Intent and MissingKey identify it.
	OutcomeMissingEntity OutcomeKind = "missing_entity"

	// OutcomeMalformed means the response never yielded a candidate command;
	// RawText carries the original model output.
	OutcomeMalformed OutcomeKind = "malformed"
)

// Outcome is the tagged result of parsing and validating one candidate command.
// Exactly one variant holds; only the fields of the active variant are set.
type Outcome struct {
	Kind OutcomeKind

	// Command is populated for OutcomeValid.
	Command Command

	// RawName is populated for OutcomeUnknownIntent.
	RawName string

	// Intent and MissingKey are populated for OutcomeMissingEntity.
	Intent     string
	MissingKey string

	// RawText is populated for OutcomeMalformed.
	RawText string
}

// Valid constructs the success variant.
func Valid(cmd Command) Outcome {
	return Outcome{Kind: OutcomeValid, Command: cmd}
}

// Unknown constructs the unknown-intent variant.
func Unknown(rawName string) Outcome {
	return Outcome{Kind: OutcomeUnknownIntent, RawName: rawName}
}

// MissingEntity constructs the missing-required-entity variant.
func MissingEntity(intent, key string) Outcome {
	return Outcome{Kind: OutcomeMissingEntity, Intent: intent, MissingKey: key}
}

// Malformed constructs the malformed-response variant.
func Malformed(rawText string) Outcome {
	return Outcome{Kind: OutcomeMalformed, RawText: rawText}
}

// IsValid reports whether the outcome carries a validated command.
func (o Outcome) IsValid() bool {
	return o.Kind == OutcomeValid
}
