package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/valet/pkg/domain"
)

// Files executes the filesystem intents. Relative paths resolve under a
// configured root so "notes/todo.txt" lands in the user's own tree.
type Files struct {
	root string
}

// NewFiles creates the filesystem provider group. An empty root falls back to
// the user's home directory.
func NewFiles(root string) *Files {
	if root == "" {
		if home, err := os.UserHomeDir(); err == nil {
			root = home
		} else {
			root = "."
		}
	}
	return &Files{root: root}
}

// resolve maps a user-supplied path onto the filesystem. "~" means the
// configured root, relative paths live under it, absolute paths pass through.
func (f *Files) resolve(p string) string {
	switch {
	case p == "" || p == "~":
		return f.root
	case strings.HasPrefix(p, "~/"):
		return filepath.Join(f.root, p[2:])
	case filepath.IsAbs(p):
		return filepath.Clean(p)
	default:
		return filepath.Join(f.root, p)
	}
}

type createFileArgs struct {
	Filepath string `mapstructure:"filepath"`
	Content  string `mapstructure:"content"`
	FileType string `mapstructure:"file_type"`
}

// CreateFile writes a new file, creating parent directories as needed. The
// file_type steers the extension: document ends up text-based, spreadsheet
// CSV-based, and plain files get .txt when no extension was given.
func (f *Files) CreateFile(ctx context.Context, entities map[string]any) (string, error) {
	var args createFileArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}
	if args.FileType == "" {
		args.FileType = "txt"
	}

	if filepath.IsAbs(args.Filepath) && isRootLevel(args.Filepath) {
		return "", domain.Failf(domain.FailureProvider,
			"Creating files directly in a root directory like '%s' is often restricted. Please try a path in your user folders.",
			filepath.Dir(filepath.Clean(args.Filepath)))
	}

	requested := f.resolve(args.Filepath)
	target := withExtension(requested, args.FileType)

	if dir := filepath.Dir(target); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating parent directory: %w", err)
		}
	}
	if err := os.WriteFile(target, []byte(args.Content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", target, err)
	}

	msg := fmt.Sprintf("%s file created: %s", capitalize(args.FileType), target)
	if target != requested {
		msg += fmt.Sprintf(" (requested as %s)", requested)
	}
	return msg, nil
}

type readFileArgs struct {
	Filepath string `mapstructure:"filepath"`
}

// ReadFile returns the raw content of a file.
func (f *Files) ReadFile(ctx context.Context, entities map[string]any) (string, error) {
	var args readFileArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	target := f.resolve(args.Filepath)
	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return "", domain.Failf(domain.FailureProvider, "Error: File not found at %s", target)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", target, err)
	}
	return string(content), nil
}

type createDirectoryArgs struct {
	DirPath string `mapstructure:"dir_path"`
}

// CreateDirectory makes a directory, parents included. Existing directories
// are not an error.
func (f *Files) CreateDirectory(ctx context.Context, entities map[string]any) (string, error) {
	var args createDirectoryArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	target := f.resolve(args.DirPath)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", target, err)
	}
	return fmt.Sprintf("Directory created or already exists: %s", target), nil
}

type deletePathArgs struct {
	Path string `mapstructure:"path"`
}

// DeletePath removes a file, or a directory recursively.
func (f *Files) DeletePath(ctx context.Context, entities map[string]any) (string, error) {
	var args deletePathArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	target := f.resolve(args.Path)
	info, err := os.Lstat(target)
	if err != nil {
		return "", domain.Failf(domain.FailureProvider, "Path does not exist: %s", target)
	}

	if info.IsDir() {
		if err := os.RemoveAll(target); err != nil {
			return "", fmt.Errorf("deleting directory %s: %w", target, err)
		}
		return fmt.Sprintf("Directory deleted: %s", target), nil
	}
	if err := os.Remove(target); err != nil {
		return "", fmt.Errorf("deleting %s: %w", target, err)
	}
	return fmt.Sprintf("File deleted: %s", target), nil
}

type movePathArgs struct {
	SourcePath      string `mapstructure:"source_path"`
	DestinationPath string `mapstructure:"destination_path"`
}

// MovePath renames or moves a file or directory.
func (f *Files) MovePath(ctx context.Context, entities map[string]any) (string, error) {
	var args movePathArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	src := f.resolve(args.SourcePath)
	dst := f.resolve(args.DestinationPath)
	if err := os.Rename(src, dst); err != nil {
		return "", domain.Failf(domain.FailureProvider, "Error moving '%s' to '%s': %v", src, dst, err)
	}
	return fmt.Sprintf("Moved '%s' to '%s'", src, dst), nil
}

type listDirectoryArgs struct {
	DirPath string `mapstructure:"dir_path"`
}

// ListDirectory lists the entries of a directory, one per line.
func (f *Files) ListDirectory(ctx context.Context, entities map[string]any) (string, error) {
	var args listDirectoryArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	target := f.resolve(args.DirPath)
	entries, err := os.ReadDir(target)
	if err != nil {
		return "", domain.Failf(domain.FailureProvider, "Error: Directory not found - %s", target)
	}
	if len(entries) == 0 {
		return "The directory is empty.", nil
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return fmt.Sprintf("Contents of %s:\n%s", target, strings.Join(names, "\n")), nil
}

// isRootLevel reports whether p sits directly in the filesystem root.
func isRootLevel(p string) bool {
	clean := filepath.Clean(p)
	return filepath.Dir(clean) == filepath.VolumeName(clean)+string(filepath.Separator)
}

func withExtension(path, fileType string) string {
	switch fileType {
	case "document":
		switch filepath.Ext(path) {
		case ".txt", ".md", ".rtf":
			return path
		}
		return path + ".txt"
	case "spreadsheet":
		switch filepath.Ext(path) {
		case ".csv", ".tsv":
			return path
		}
		return path + ".csv"
	default:
		if !strings.Contains(filepath.Base(path), ".") {
			return path + ".txt"
		}
		return path
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
