package topics

import (
	"github.com/charmbracelet/glamour"
)

// defaultWrapWidth is used when the renderer has no explicit width
const defaultWrapWidth = 80

// Renderer formats a topic's content for the terminal.
// ext is the topic file extension, such as ".md".
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer returns content unchanged
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, ext string) string {
	return content
}

// MarkdownRenderer renders markdown topics with glamour. Other topics pass
// through unchanged, as does markdown glamour fails to render.
type MarkdownRenderer struct {
	// Color selects glamour's auto-detected theme; without it the notty
	// theme keeps output free of escape sequences.
	Color bool
	Width int
}

// NewMarkdownRenderer creates a renderer whose styling follows the color decision
func NewMarkdownRenderer(color bool) *MarkdownRenderer {
	return &MarkdownRenderer{Color: color, Width: defaultWrapWidth}
}

func (r *MarkdownRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}

	width := r.Width
	if width <= 0 {
		width = defaultWrapWidth
	}

	style := glamour.WithStylePath("notty")
	if r.Color {
		style = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
