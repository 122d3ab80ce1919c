// Package markdown renders model replies for terminal display.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer wraps a glamour terminal renderer.
type Renderer struct {
	glamour *glamour.TermRenderer
	width   int
}

// NewRenderer creates a new markdown renderer for the given wrap width.
func NewRenderer(width int) (*Renderer, error) {
	gr, err := newTermRenderer(width)
	if err != nil {
		return nil, err
	}
	return &Renderer{glamour: gr, width: width}, nil
}

// SetWidth rebuilds the renderer with a new wrap width.
func (r *Renderer) SetWidth(width int) {
	if width == r.width {
		return
	}
	gr, err := newTermRenderer(width)
	if err != nil {
		return
	}
	r.glamour = gr
	r.width = width
}

// Render markdown content. Falls back to the raw text on failure, since a
// rendering hiccup should never hide a reply.
func (r *Renderer) Render(content string) string {
	rendered, err := r.glamour.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

func newTermRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
}
