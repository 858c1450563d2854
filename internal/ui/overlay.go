// Package ui provides shared rendering helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle is applied to background content behind a modal. Existing
// ANSI codes are stripped first because SGR faint does not reliably
// combine with color codes across terminals.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// OverlayModal composites a modal centered over a dimmed background.
func OverlayModal(background, modal string, width, height int) string {
	bgLines := strings.Split(background, "\n")
	modalLines := strings.Split(modal, "\n")

	modalWidth := 0
	for _, line := range modalLines {
		if w := ansi.StringWidth(line); w > modalWidth {
			modalWidth = w
		}
	}

	startX := (width - modalWidth) / 2
	startY := (height - len(modalLines)) / 2
	if startX < 0 {
		startX = 0
	}
	if startY < 0 {
		startY = 0
	}

	rows := make([]string, 0, height)
	for y := 0; y < height; y++ {
		var bgLine string
		if y < len(bgLines) {
			bgLine = bgLines[y]
		}

		row := y - startY
		if row >= 0 && row < len(modalLines) {
			rows = append(rows, compositeRow(bgLine, modalLines[row], startX, modalWidth))
		} else {
			rows = append(rows, dimLine(bgLine))
		}
	}
	return strings.Join(rows, "\n")
}

func dimLine(s string) string {
	return DimStyle.Render(ansi.Strip(s))
}

// compositeRow splices a modal line into a background line:
// dimmed-left-segment + modal + dimmed-right-segment. Segments are cut
// by visual width so wide runes stay aligned.
func compositeRow(bgLine, modalLine string, startX, modalWidth int) string {
	stripped := ansi.Strip(bgLine)
	bgWidth := ansi.StringWidth(stripped)

	var b strings.Builder
	if startX > 0 {
		left := ansi.Truncate(stripped, startX, "")
		b.WriteString(DimStyle.Render(left))
		if w := ansi.StringWidth(left); w < startX {
			b.WriteString(strings.Repeat(" ", startX-w))
		}
	}

	b.WriteString(modalLine)

	if rightStart := startX + modalWidth; bgWidth > rightStart {
		b.WriteString(DimStyle.Render(ansi.Cut(stripped, rightStart, bgWidth)))
	}
	return b.String()
}
