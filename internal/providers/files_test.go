package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/valet/pkg/domain"
)

func TestFiles_CreateFile(t *testing.T) {
	root := t.TempDir()
	files := NewFiles(root)
	ctx := context.Background()

	t.Run("Appends Default Extension", func(t *testing.T) {
		out, err := files.CreateFile(ctx, map[string]any{
			"filepath": "notes/hello",
			"content":  "hi there",
		})
		require.NoError(t, err)

		requested := filepath.Join(root, "notes", "hello")
		target := requested + ".txt"
		assert.Equal(t, fmt.Sprintf("Txt file created: %s (requested as %s)", target, requested), out)

		content, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "hi there", string(content))
	})

	t.Run("Keeps Document Extensions", func(t *testing.T) {
		out, err := files.CreateFile(ctx, map[string]any{
			"filepath":  "minutes.md",
			"content":   "# Standup",
			"file_type": "document",
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Document file created: %s", filepath.Join(root, "minutes.md")), out)
	})

	t.Run("Spreadsheet Defaults To CSV", func(t *testing.T) {
		out, err := files.CreateFile(ctx, map[string]any{
			"filepath":  "budget",
			"content":   "item,cost",
			"file_type": "spreadsheet",
		})
		require.NoError(t, err)
		assert.Contains(t, out, "budget.csv")
		assert.FileExists(t, filepath.Join(root, "budget.csv"))
	})

	t.Run("Refuses Root Level Paths", func(t *testing.T) {
		_, err := files.CreateFile(ctx, map[string]any{
			"filepath": "/stealme.txt",
			"content":  "x",
		})
		failure := asFailure(t, err)
		assert.Equal(t, domain.FailureProvider, failure.Kind)
		assert.Contains(t, failure.Message, "root directory")
		assert.NoFileExists(t, "/stealme.txt")
	})

	t.Run("Absolute Path Below Root Is Allowed", func(t *testing.T) {
		target := filepath.Join(root, "deep", "abs.txt")
		_, err := files.CreateFile(ctx, map[string]any{
			"filepath": target,
			"content":  "ok",
		})
		require.NoError(t, err)
		assert.FileExists(t, target)
	})
}

func TestFiles_ReadFile(t *testing.T) {
	root := t.TempDir()
	files := NewFiles(root)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(root, "todo.txt"), []byte("buy milk"), 0o644))

	t.Run("Returns Content", func(t *testing.T) {
		out, err := files.ReadFile(ctx, map[string]any{"filepath": "todo.txt"})
		require.NoError(t, err)
		assert.Equal(t, "buy milk", out)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := files.ReadFile(ctx, map[string]any{"filepath": "missing.txt"})
		failure := asFailure(t, err)
		assert.Equal(t, fmt.Sprintf("Error: File not found at %s", filepath.Join(root, "missing.txt")), failure.Message)
	})

	t.Run("Directory Is Not A File", func(t *testing.T) {
		_, err := files.ReadFile(ctx, map[string]any{"filepath": "~"})
		failure := asFailure(t, err)
		assert.Contains(t, failure.Message, "File not found")
	})
}

func TestFiles_CreateDirectory(t *testing.T) {
	root := t.TempDir()
	files := NewFiles(root)
	ctx := context.Background()

	target := filepath.Join(root, "projects", "valet")
	out, err := files.CreateDirectory(ctx, map[string]any{"dir_path": "projects/valet"})
	require.NoError(t, err)
	assert.Equal(t, "Directory created or already exists: "+target, out)
	assert.DirExists(t, target)

	// Repeating the call is not an error.
	_, err = files.CreateDirectory(ctx, map[string]any{"dir_path": "projects/valet"})
	assert.NoError(t, err)
}

func TestFiles_DeletePath(t *testing.T) {
	root := t.TempDir()
	files := NewFiles(root)
	ctx := context.Background()

	t.Run("Deletes File", func(t *testing.T) {
		target := filepath.Join(root, "gone.txt")
		require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

		out, err := files.DeletePath(ctx, map[string]any{"path": "gone.txt"})
		require.NoError(t, err)
		assert.Equal(t, "File deleted: "+target, out)
		assert.NoFileExists(t, target)
	})

	t.Run("Deletes Directory Recursively", func(t *testing.T) {
		target := filepath.Join(root, "old")
		require.NoError(t, os.MkdirAll(filepath.Join(target, "nested"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(target, "nested", "f.txt"), []byte("x"), 0o644))

		out, err := files.DeletePath(ctx, map[string]any{"path": "old"})
		require.NoError(t, err)
		assert.Equal(t, "Directory deleted: "+target, out)
		assert.NoDirExists(t, target)
	})

	t.Run("Missing Path", func(t *testing.T) {
		_, err := files.DeletePath(ctx, map[string]any{"path": "never-existed"})
		failure := asFailure(t, err)
		assert.Equal(t, "Path does not exist: "+filepath.Join(root, "never-existed"), failure.Message)
	})
}

func TestFiles_MovePath(t *testing.T) {
	root := t.TempDir()
	files := NewFiles(root)
	ctx := context.Background()

	t.Run("Moves File", func(t *testing.T) {
		src := filepath.Join(root, "a.txt")
		dst := filepath.Join(root, "archive", "b.txt")
		require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))

		out, err := files.MovePath(ctx, map[string]any{
			"source_path":      "a.txt",
			"destination_path": "archive/b.txt",
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Moved '%s' to '%s'", src, dst), out)
		assert.NoFileExists(t, src)
		assert.FileExists(t, dst)
	})

	t.Run("Missing Source", func(t *testing.T) {
		_, err := files.MovePath(ctx, map[string]any{
			"source_path":      "ghost.txt",
			"destination_path": "anywhere.txt",
		})
		failure := asFailure(t, err)
		assert.Contains(t, failure.Message, "Error moving")
	})
}

func TestFiles_ListDirectory(t *testing.T) {
	root := t.TempDir()
	files := NewFiles(root)
	ctx := context.Background()

	t.Run("Lists Entries Sorted", func(t *testing.T) {
		dir := filepath.Join(root, "docs")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

		out, err := files.ListDirectory(ctx, map[string]any{"dir_path": "docs"})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Contents of %s:\na.txt\nb.txt\nsub", dir), out)
	})

	t.Run("Empty Directory", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

		out, err := files.ListDirectory(ctx, map[string]any{"dir_path": "empty"})
		require.NoError(t, err)
		assert.Equal(t, "The directory is empty.", out)
	})

	t.Run("Tilde Means Root", func(t *testing.T) {
		out, err := files.ListDirectory(ctx, map[string]any{"dir_path": "~"})
		require.NoError(t, err)
		assert.Contains(t, out, "Contents of "+root)
	})

	t.Run("Missing Directory", func(t *testing.T) {
		_, err := files.ListDirectory(ctx, map[string]any{"dir_path": "nope"})
		failure := asFailure(t, err)
		assert.Equal(t, "Error: Directory not found - "+filepath.Join(root, "nope"), failure.Message)
	})
}

func TestFiles_Resolve(t *testing.T) {
	home := t.TempDir()
	files := NewFiles(home)

	assert.Equal(t, home, files.resolve(""))
	assert.Equal(t, home, files.resolve("~"))
	assert.Equal(t, filepath.Join(home, "notes", "a.txt"), files.resolve("~/notes/a.txt"))
	assert.Equal(t, filepath.Join(home, "notes", "a.txt"), files.resolve("notes/a.txt"))

	// Absolute paths pass through, cleaned.
	abs := filepath.Join(home, "x", "..", "y.txt")
	assert.Equal(t, filepath.Join(home, "y.txt"), files.resolve(abs))
}

func TestWithExtension(t *testing.T) {
	cases := []struct {
		path, fileType, want string
	}{
		{"report", "document", "report.txt"},
		{"report.md", "document", "report.md"},
		{"report.doc", "document", "report.doc.txt"},
		{"data", "spreadsheet", "data.csv"},
		{"data.tsv", "spreadsheet", "data.tsv"},
		{"plain", "txt", "plain.txt"},
		{"plain.cfg", "txt", "plain.cfg"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, withExtension(tc.path, tc.fileType), "withExtension(%q, %q)", tc.path, tc.fileType)
	}
}
