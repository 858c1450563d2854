package app

import (
	"strings"
	"testing"
)

func TestMarkdownRenderCaches(t *testing.T) {
	r := newMarkdownRenderer("dark")

	first := r.Render("# Title\n\nsome *body* text", 60)
	if first == "" {
		t.Fatal("render returned nothing")
	}
	if len(r.cache) != 1 {
		t.Fatalf("cache has %d entries, want 1", len(r.cache))
	}

	second := r.Render("# Title\n\nsome *body* text", 60)
	if second != first {
		t.Error("cached render should be identical")
	}
	if len(r.cache) != 1 {
		t.Errorf("repeat render grew the cache to %d entries", len(r.cache))
	}

	// A width change is a different cache entry and a rebuilt renderer.
	r.Render("# Title\n\nsome *body* text", 40)
	if len(r.cache) != 2 {
		t.Errorf("cache has %d entries after width change, want 2", len(r.cache))
	}
}

func TestMarkdownRenderPlainFallbackWidth(t *testing.T) {
	r := newMarkdownRenderer("dark")
	// Degenerate width must not panic; it clamps to one cell.
	out := r.Render("text", 0)
	if out == "" {
		t.Error("render at clamped width returned nothing")
	}
}

func TestMarkdownRenderStripsTrailingNewlines(t *testing.T) {
	r := newMarkdownRenderer("dark")
	out := r.Render("plain line", 60)
	if strings.HasSuffix(out, "\n") {
		t.Error("rendered preview should not end with newlines")
	}
}
