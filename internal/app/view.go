package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/quicknote/internal/styles"
	"github.com/marcus/quicknote/internal/ui"
	"github.com/mattn/go-runewidth"
)

const (
	headerHeight = 2 // title line + search line
	footerHeight = 1
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	if m.cfg.UI.ShowFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	bg := b.String()
	switch {
	case m.editorOpen:
		return ui.OverlayModal(bg, m.renderEditorModal(), m.width, m.height)
	case m.confirmOpen:
		return ui.OverlayModal(bg, m.renderConfirmModal(), m.width, m.height)
	}
	return bg
}

func (m Model) renderHeader() string {
	title := styles.BarTitle.Render("quicknote")
	if m.version != "" {
		title += " " + styles.Subtle.Render(m.version)
	}

	var search string
	switch {
	case m.searchMode:
		search = m.searchInput.View()
	case m.query != "":
		search = styles.ListCursor.Render("/") + styles.Body.Render(m.query)
	default:
		search = styles.Muted.Render("/ to search")
	}
	return title + "\n" + search
}

func (m Model) renderList() string {
	height := m.listHeight()
	var lines []string

	switch {
	case m.loading && len(m.notes) == 0:
		lines = append(lines, styles.Muted.Render("Loading notes..."))
	case len(m.notes) == 0:
		if m.query != "" {
			lines = append(lines, styles.Muted.Render("No notes match "+strconv.Quote(m.query)))
		} else {
			lines = append(lines, styles.Muted.Render("No notes yet. Press a to add one."))
		}
	default:
		end := m.scrollOff + height
		if end > len(m.notes) {
			end = len(m.notes)
		}
		for i := m.scrollOff; i < end; i++ {
			lines = append(lines, m.renderRow(i))
		}
	}

	// Pad so the footer stays pinned to the bottom.
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(i int) string {
	text := rowText(m.notes[i].Text)
	if i == m.cursor {
		return styles.ListCursor.Render("> ") + styles.ListItemSelected.Render(text)
	}
	return "  " + styles.ListItemNormal.Render(text)
}

// rowText reduces note text to its single-line list form: the first
// line, truncated to rowTextWidth cells with a trailing ellipsis.
func rowText(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	if runewidth.StringWidth(line) <= rowTextWidth {
		return line
	}
	return runewidth.Truncate(line, rowTextWidth, "") + "…"
}

func (m Model) renderFooter() string {
	var counts string
	if m.query != "" {
		counts = fmt.Sprintf("%d/%d", m.matched, m.total)
	} else {
		counts = fmt.Sprintf("%d notes", m.total)
	}
	line := styles.BarChip.Render(counts)

	if m.statusMsg != "" {
		style := styles.ToastSuccess
		if m.statusIsError {
			style = styles.ToastError
		}
		line += " " + style.Render(m.statusMsg)
	} else if m.loadingMore {
		line += " " + styles.Muted.Render("Loading more...")
	}

	hints := styles.BarText.Render("a add • enter edit • d delete • y yank • / search • q quit")
	gap := m.width - lipgloss.Width(line) - lipgloss.Width(hints)
	if gap > 0 {
		line += strings.Repeat(" ", gap)
	} else {
		line += " "
	}
	return line + hints
}

func (m Model) renderEditorModal() string {
	title := "New note"
	if m.editorID != 0 {
		title = fmt.Sprintf("Edit note #%d", m.editorID)
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render(title))
	b.WriteString("\n")
	if m.preview {
		b.WriteString(m.markdown.Render(m.editor.Value(), m.editorWidth))
	} else {
		b.WriteString(m.editor.View())
	}
	b.WriteString("\n\n")
	if m.saving {
		b.WriteString(styles.Muted.Render("Saving..."))
	} else {
		b.WriteString(styles.Muted.Render("ctrl+s save • ctrl+p preview • esc discard"))
	}
	return styles.ModalBox.Render(b.String())
}

func (m Model) renderConfirmModal() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Delete note?"))
	b.WriteString("\n\n")
	b.WriteString(styles.Body.Render(rowText(m.confirmText)))
	b.WriteString("\n\n")

	deleteStyle := styles.ButtonDanger
	cancelStyle := styles.Button
	if m.confirmButton == 0 {
		deleteStyle = styles.ButtonDangerFocused
	} else {
		cancelStyle = styles.ButtonFocused
	}
	b.WriteString(deleteStyle.Render(" Delete "))
	b.WriteString("  ")
	b.WriteString(cancelStyle.Render(" Cancel "))
	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render("Tab to switch • Enter to confirm • Esc to cancel"))
	return styles.ModalBox.Render(b.String())
}
