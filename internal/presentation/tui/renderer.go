package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders assistant replies as markdown
// using glamour. Output wraps to the terminal width, capped so long replies
// stay readable on wide screens.
func NewRenderer() func(string) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		if w > 100 {
			w = 100
		}
		opts = append(opts, glamour.WithWordWrap(w))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		// Fall back to plain text rather than losing the reply.
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
