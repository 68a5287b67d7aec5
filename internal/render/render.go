package render

import (
	"strings"

	"github.com/yildizm/ResumeScreen/internal/session"
)

// Renderer turns an analysis outcome into displayable output. Rendering is
// pure: the same outcome always produces the same bytes.
type Renderer interface {
	Render(outcome session.Outcome) ([]byte, error)
}

// Options control terminal rendering
type Options struct {
	Color bool
	Emoji bool
}

// New returns the renderer for a format name. Unknown names fall back to text.
func New(format string, opts Options) Renderer {
	switch strings.ToLower(format) {
	case "json":
		return NewJSON()
	case "markdown", "md":
		return NewMarkdown()
	case "csv":
		return NewCSV()
	default:
		return NewTerminal(opts)
	}
}

// Formats lists the canonical format names
func Formats() []string {
	return []string{"text", "json", "markdown", "csv"}
}

// IsFormat reports whether name selects a renderer, aliases included
func IsFormat(name string) bool {
	switch strings.ToLower(name) {
	case "text", "json", "markdown", "md", "csv":
		return true
	}
	return false
}
