package testutils

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/valet/pkg/ports"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	tmpDir := t.TempDir()

	// Loam sometimes prefers absolute paths, though t.TempDir usually returns one.
	// Ensuring it is absolute is safe.
	absPath, err := filepath.Abs(tmpDir)
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// ScriptedCompleter plays back canned model responses in order, recording the
// prompts it was asked. Once the script runs out it keeps returning the last
// response.
type ScriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	next      int

	// Prompts holds every prompt seen, in call order.
	Prompts []ports.Prompt

	// Err, when set, is returned instead of a response.
	Err error
}

// Script creates a ScriptedCompleter for the given responses.
func Script(responses ...string) *ScriptedCompleter {
	return &ScriptedCompleter{responses: responses}
}

// Complete implements ports.Completer.
func (s *ScriptedCompleter) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Prompts = append(s.Prompts, prompt)
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.responses) == 0 {
		return "", nil
	}
	i := s.next
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	s.next++
	return s.responses[i], nil
}

// Calls reports how many completions were requested.
func (s *ScriptedCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Prompts)
}
