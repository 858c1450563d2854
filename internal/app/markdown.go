package app

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/glamour"
)

// renderCacheKey identifies one rendered draft at one width.
type renderCacheKey struct {
	hash  uint64
	width int
}

// markdownRenderer renders editor previews through glamour, caching by
// content hash and width so toggling the preview back and forth is
// cheap. The renderer is rebuilt when the wrap width changes.
type markdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
	cache    map[renderCacheKey]string
}

func newMarkdownRenderer(style string) *markdownRenderer {
	return &markdownRenderer{
		style: style,
		cache: make(map[renderCacheKey]string),
	}
}

// Render returns content rendered as markdown at the given width,
// falling back to the raw text when glamour cannot render it.
func (r *markdownRenderer) Render(content string, width int) string {
	if width < 1 {
		width = 1
	}
	key := renderCacheKey{hash: xxhash.Sum64String(content), width: width}
	if out, ok := r.cache[key]; ok {
		return out
	}

	if r.renderer == nil || r.width != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStylePath(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		r.renderer = renderer
		r.width = width
	}

	out, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	out = strings.TrimRight(out, "\n")
	r.cache[key] = out
	return out
}
