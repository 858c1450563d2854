package app

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/quicknote/internal/msg"
)

// handleKeyMsg routes keyboard input, modals first.
func (m Model) handleKeyMsg(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.confirmOpen:
		return m.handleConfirmKey(k)
	case m.editorOpen:
		return m.handleEditorKey(k)
	case m.searchMode:
		return m.handleSearchKey(k)
	}
	return m.handleListKey(k)
}

func (m Model) handleListKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := k.String()

	// g g jumps to the top
	if m.pendingG {
		m.pendingG = false
		if key == "g" {
			m.cursor = 0
			m.scrollOff = 0
			return m, nil
		}
	}

	switch key {
	case "q", "ctrl+c":
		if m.stopWatch != nil {
			m.stopWatch()
		}
		return m, tea.Quit

	case "/":
		m.searchMode = true
		m.searchInput.SetValue(m.query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case "a":
		m.openEditor(0, "")
		return m, m.editor.Focus()

	case "enter":
		if n := m.selectedNote(); n != nil {
			m.openEditor(n.ID, n.Text)
			return m, m.editor.Focus()
		}

	case "d":
		if n := m.selectedNote(); n != nil {
			m.confirmOpen = true
			m.confirmID = n.ID
			m.confirmText = n.Text
			m.confirmButton = 0
		}

	case "y":
		if n := m.selectedNote(); n != nil {
			if err := clipboard.WriteAll(n.Text); err != nil {
				return m, msg.ShowError("Copy failed: "+err.Error(), 2*time.Second)
			}
			return m, msg.ShowToast("Copied note", 2*time.Second)
		}

	case "r":
		return m, m.reloadFromTop()

	case "j", "down":
		return m.moveCursor(1)

	case "k", "up":
		return m.moveCursor(-1)

	case "g":
		m.pendingG = true

	case "G":
		if len(m.notes) > 0 {
			m.cursor = len(m.notes) - 1
			m.ensureCursorVisible()
		}
	}
	return m, nil
}

// moveCursor shifts the selection and fetches the next page once the
// cursor reaches the last loaded row.
func (m Model) moveCursor(delta int) (tea.Model, tea.Cmd) {
	if len(m.notes) == 0 {
		return m, nil
	}
	m.cursor += delta
	m.clampCursor()
	m.ensureCursorVisible()

	if delta > 0 && m.cursor == len(m.notes)-1 && m.hasMore && !m.loadingMore {
		m.loadingMore = true
		return m, m.loadPage(m.page + 1)
	}
	return m, nil
}

func (m Model) handleSearchKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		// Clear the term and restore the unfiltered list.
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		if m.query != "" {
			m.query = ""
			m.cursor = 0
			m.scrollOff = 0
			return m, m.reloadFromTop()
		}
		return m, nil

	case "enter":
		// Leave search mode with the term applied.
		m.searchMode = false
		m.searchInput.Blur()
		if term := m.searchInput.Value(); term != m.query {
			m.query = term
			m.cursor = 0
			m.scrollOff = 0
			return m, m.reloadFromTop()
		}
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(k)
	if m.searchInput.Value() != before {
		return m, tea.Batch(cmd, m.scheduleDebounce())
	}
	return m, cmd
}

func (m Model) handleConfirmKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc", "n":
		m.confirmOpen = false
		return m, nil

	case "tab", "left", "right", "h", "l":
		m.confirmButton = 1 - m.confirmButton
		return m, nil

	case "y":
		return m.confirmDelete()

	case "enter":
		if m.confirmButton == 0 {
			return m.confirmDelete()
		}
		m.confirmOpen = false
		return m, nil
	}
	return m, nil
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	if m.deleting {
		return m, nil
	}
	m.deleting = true
	return m, m.deleteNote(m.confirmID)
}
