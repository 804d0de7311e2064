package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/valet/internal/testutils"
)

func writePack(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestLoader_Load_BuildsDefinitions(t *testing.T) {
	dir := writePack(t, map[string]string{
		"remind.md": `---
description: Set a reminder after a delay.
required:
  - key: message
    type: string
    prompt: What should I remind you about?
optional:
  - key: minutes
    type: int
    default: 15
exec: "sleep {minutes} && notify-send {message}"
---
Schedules a desktop notification.`,
		"joke.md": `---
description: Tell a joke.
---
Definition only; a custom provider supplies the behavior.`,
	})

	loader, err := Open(dir, nil)
	require.NoError(t, err)

	pack, err := loader.Load(context.Background())
	require.NoError(t, err)

	// Sorted by intent name.
	require.Len(t, pack.Definitions, 2)
	assert.Equal(t, "joke", pack.Definitions[0].Name)
	assert.Equal(t, "remind", pack.Definitions[1].Name)

	remind := pack.Definitions[1]
	assert.Equal(t, "Set a reminder after a delay.", remind.Description)
	require.Len(t, remind.Required, 1)
	assert.Equal(t, "message", remind.Required[0].Key)
	assert.Equal(t, "string", remind.Required[0].Type.Name())
	assert.Equal(t, "What should I remind you about?", remind.Required[0].Prompt)
	require.Len(t, remind.Optional, 1)
	assert.Equal(t, "minutes", remind.Optional[0].Key)
	assert.Equal(t, "int", remind.Optional[0].Type.Name())
	// Strict-mode json.Number defaults come back as plain integers.
	assert.Equal(t, int64(15), remind.Optional[0].Default)

	// Only the exec-bearing document yields a provider.
	assert.Contains(t, pack.Providers, "remind")
	assert.NotContains(t, pack.Providers, "joke")
}

func TestLoader_Load_NameResolution(t *testing.T) {
	dir := writePack(t, map[string]string{
		"brew.md": `---
description: Start the coffee machine.
---`,
		"coffee.md": `---
name: make_coffee
description: Explicitly named intent.
---`,
	})

	loader, err := Open(dir, nil)
	require.NoError(t, err)

	pack, err := loader.Load(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(pack.Definitions))
	for _, def := range pack.Definitions {
		names = append(names, def.Name)
	}
	assert.Contains(t, names, "brew", "filename should become the intent name")
	assert.Contains(t, names, "make_coffee", "frontmatter name should override the filename")
	assert.NotContains(t, names, "coffee")
}

func TestLoader_Load_DetectsCollisions(t *testing.T) {
	dir := writePack(t, map[string]string{
		"first.md": `---
name: duplicate
description: One.
---`,
		"second.md": `---
name: duplicate
description: Two.
---`,
	})

	loader, err := Open(dir, nil)
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoader_Load_RejectsUnknownType(t *testing.T) {
	dir := writePack(t, map[string]string{
		"bad.md": `---
description: Broken.
required:
  - key: thing
    type: widget
---`,
	})

	loader, err := Open(dir, nil)
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
	assert.Contains(t, err.Error(), "bad")
}

func TestLoader_Load_RejectsMismatchedDefault(t *testing.T) {
	dir := writePack(t, map[string]string{
		"bad.md": `---
description: Broken.
optional:
  - key: minutes
    type: int
    default: soon
---`,
	})

	loader, err := Open(dir, nil)
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not satisfy")
}

func TestLoader_Load_RejectsMissingEntityKey(t *testing.T) {
	dir := writePack(t, map[string]string{
		"bad.md": `---
description: Broken.
required:
  - type: string
---`,
	})

	loader, err := Open(dir, nil)
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity missing key")
}

func TestLoader_OverTestRepo(t *testing.T) {
	// The adapter also works over an externally initialized repository.
	tmpDir, repo := testutils.SetupTestRepo(t, loam.WithStrict(true))

	content := `---
description: Ping the pack.
exec: "echo pong"
---`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ping.md"), []byte(content), 0644))

	loader := New(loam.NewTypedRepository[IntentMetadata](repo), nil)
	pack, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, pack.Definitions, 1)
	assert.Equal(t, "ping", pack.Definitions[0].Name)
	assert.Contains(t, pack.Providers, "ping")
}
