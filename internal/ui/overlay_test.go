package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestOverlayModalCentersContent(t *testing.T) {
	background := strings.TrimSuffix(strings.Repeat("bbbbbbbbbbbbbbbbbbbb\n", 10), "\n")
	out := OverlayModal(background, "[MODAL]", 20, 10)

	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want the full height of 10", len(lines))
	}

	found := -1
	for i, line := range lines {
		if strings.Contains(line, "[MODAL]") {
			found = i
			break
		}
	}
	if found == -1 {
		t.Fatal("modal content missing from composite")
	}
	// One modal line centered in ten rows lands at row 4.
	if found != 4 {
		t.Errorf("modal on row %d, want vertically centered row 4", found)
	}

	stripped := ansi.Strip(lines[found])
	idx := strings.Index(stripped, "[MODAL]")
	if idx != 6 {
		t.Errorf("modal starts at column %d, want horizontally centered column 6", idx)
	}
}

func TestOverlayModalDimsBackground(t *testing.T) {
	out := OverlayModal("background", "[M]", 12, 3)
	if !strings.Contains(out, "\x1b[") {
		t.Error("background rows should carry the dim style")
	}
	if !strings.Contains(ansi.Strip(out), "[M]") {
		t.Error("modal content missing")
	}
}

func TestOverlayModalShortBackground(t *testing.T) {
	// Background shorter than the viewport is padded, not truncated.
	out := OverlayModal("one line", "[M]", 10, 6)
	if got := len(strings.Split(out, "\n")); got != 6 {
		t.Errorf("got %d lines, want 6", got)
	}
}

func TestOverlayModalWiderThanViewport(t *testing.T) {
	// A modal wider than the terminal clamps to column 0 without panicking.
	out := OverlayModal("bg", strings.Repeat("m", 30), 10, 3)
	if !strings.Contains(ansi.Strip(out), strings.Repeat("m", 30)) {
		t.Error("oversized modal content missing")
	}
}

func TestCompositeRowSplitsAroundModal(t *testing.T) {
	row := compositeRow("aaaaaaaaaaaaaaaaaaaa", "[MOD]", 5, 5)
	stripped := ansi.Strip(row)
	if stripped != "aaaaa[MOD]aaaaaaaaaa" {
		t.Errorf("composite = %q, want background visible on both sides", stripped)
	}
}

func TestCompositeRowPadsShortBackground(t *testing.T) {
	row := compositeRow("ab", "[MOD]", 5, 5)
	stripped := ansi.Strip(row)
	if stripped != "ab   [MOD]" {
		t.Errorf("composite = %q, want padding up to the modal column", stripped)
	}
}
