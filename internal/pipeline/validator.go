package pipeline

import (
	"github.com/aretw0/valet/pkg/domain"
	"github.com/aretw0/valet/pkg/schema"
)

// Validate checks a candidate command against the schema and returns the
// first applicable outcome: empty name is malformed, an undeclared name is
// unknown, the first absent or unusable required key (declared order) is a
// missing entity. Otherwise the entities are normalized (optional defaults
// filled, undeclared keys dropped) and the command is valid.
func Validate(s *schema.Schema, cmd domain.Command) domain.Outcome {
	if cmd.Name == "" {
		return domain.Malformed("")
	}
	def, ok := s.DefinitionFor(cmd.Name)
	if !ok {
		return domain.Unknown(cmd.Name)
	}
	if key, missing := def.FirstMissing(cmd.Entities); missing {
		return domain.MissingEntity(cmd.Name, key)
	}
	return domain.Valid(domain.Command{
		Name:     cmd.Name,
		Entities: def.Normalize(cmd.Entities),
	})
}
