// Package loam loads intent packs: a Loam repository of markdown documents,
// one per custom intent, each contributing a schema definition and optionally
// an exec-backed provider.
package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/valet/pkg/ports"
	"github.com/aretw0/valet/pkg/schema"
)

// Runner executes the shell command behind an exec-bearing intent.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Pack is the loaded content of an intent-pack repository.
type Pack struct {
	// Definitions extend the assistant's schema, sorted by intent name.
	Definitions []schema.Definition

	// Providers maps intent names to exec-backed providers. Definition-only
	// documents have no entry here.
	Providers map[string]ports.Provider
}

// Loader reads intent documents from a Loam repository.
type Loader struct {
	Repo   *loam.TypedRepository[IntentMetadata]
	runner Runner
}

// New creates a pack loader over an existing typed repository.
func New(repo *loam.TypedRepository[IntentMetadata], runner Runner) *Loader {
	return &Loader{
		Repo:   repo,
		runner: runner,
	}
}

// Open initializes a Loam repository at dir and returns a loader for it.
// Strict mode keeps numeric frontmatter unambiguous (json.Number), read-only
// mode avoids Loam's sandbox behavior, and packs never need version history.
func Open(dir string, runner Runner) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid pack path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
		loam.WithVersioning(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[IntentMetadata](repo), runner), nil
}

// Load reads every document and builds the pack. Malformed documents fail the
// whole load; a pack either applies completely or not at all.
func (l *Loader) Load(ctx context.Context) (*Pack, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	pack := &Pack{Providers: make(map[string]ports.Provider)}
	seen := make(map[string]string)

	for _, doc := range docs {
		meta := doc.Data

		name := meta.Name
		if name == "" {
			name = trimExtension(doc.ID)
		}
		if name == "" {
			return nil, fmt.Errorf("document '%s' yields an empty intent name", doc.ID)
		}

		// Collision Detection
		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: intent '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID

		def, err := buildDefinition(name, meta)
		if err != nil {
			return nil, fmt.Errorf("document '%s': %w", doc.ID, err)
		}
		pack.Definitions = append(pack.Definitions, def)

		if meta.Exec != "" {
			pack.Providers[name] = newExecProvider(name, meta.Exec, def.Keys(), l.runner)
		}
	}

	// List order follows the filesystem walk; sort so the system prompt and
	// tool listings stay stable across loads.
	sort.Slice(pack.Definitions, func(i, j int) bool {
		return pack.Definitions[i].Name < pack.Definitions[j].Name
	})

	return pack, nil
}

func buildDefinition(name string, meta IntentMetadata) (schema.Definition, error) {
	def := schema.Definition{
		Name:        name,
		Description: meta.Description,
	}

	for _, cfg := range meta.Required {
		ent, err := buildEntity(cfg)
		if err != nil {
			return schema.Definition{}, err
		}
		def.Required = append(def.Required, ent)
	}
	for _, cfg := range meta.Optional {
		ent, err := buildEntity(cfg)
		if err != nil {
			return schema.Definition{}, err
		}
		def.Optional = append(def.Optional, ent)
	}

	return def, nil
}

func buildEntity(cfg EntityConfig) (schema.Entity, error) {
	if cfg.Key == "" {
		return schema.Entity{}, fmt.Errorf("entity missing key")
	}

	typ, err := schema.ParseType(cfg.Type)
	if err != nil {
		return schema.Entity{}, fmt.Errorf("entity '%s': %w", cfg.Key, err)
	}

	def := normalizeValue(cfg.Default)
	if def != nil {
		if verr := typ.Validate(def); verr != nil {
			return schema.Entity{}, fmt.Errorf("entity '%s': default does not satisfy %s: %v", cfg.Key, typ.Name(), verr)
		}
	}

	return schema.Entity{
		Key:     cfg.Key,
		Type:    typ,
		Default: def,
		Prompt:  cfg.Prompt,
	}, nil
}

// normalizeValue rewrites Loam's strict-mode json.Number values into plain Go
// numbers so schema validators and providers see the usual decoded shapes.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[k] = normalizeValue(sub)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, sub := range val {
			out[i] = normalizeValue(sub)
		}
		return out
	default:
		return v
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
