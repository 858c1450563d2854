package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/quicknote/internal/msg"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.resizeEditor()
		m.ensureCursorVisible()
		return m, nil

	case TickMsg:
		if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
			m.statusMsg = ""
		}
		return m, tickCmd()

	case msg.ToastMsg:
		m.statusMsg = message.Message
		m.statusIsError = message.IsError
		m.statusExpiry = time.Now().Add(message.Duration)
		return m, nil

	case NotesLoadedMsg:
		return m.handleNotesLoaded(message)

	case CountsLoadedMsg:
		if message.Gen != m.loadGen {
			return m, nil
		}
		if message.Err != nil {
			m.logger.Error("count failed", "error", message.Err)
			return m, nil
		}
		m.matched = message.Matched
		m.total = message.Total
		m.hasMore = len(m.notes) < m.matched
		return m, nil

	case NoteSavedMsg:
		return m.handleNoteSaved(message)

	case NoteDeletedMsg:
		return m.handleNoteDeleted(message)

	case SearchDebounceMsg:
		if message.Seq != m.debounceSeq {
			return m, nil
		}
		term := m.searchInput.Value()
		if term == m.query {
			return m, nil
		}
		m.query = term
		m.cursor = 0
		m.scrollOff = 0
		return m, m.reloadFromTop()

	case StoreChangedMsg:
		// Another process wrote the database; refresh in place, keeping
		// the term and (clamped) cursor.
		cmds := []tea.Cmd{m.reloadFromTop()}
		if m.watchEvents != nil {
			cmds = append(cmds, waitForChange(m.watchEvents))
		}
		return m, tea.Batch(cmds...)
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	if m.editorOpen {
		m.editor, cmd = m.editor.Update(message)
	} else if m.searchMode {
		m.searchInput, cmd = m.searchInput.Update(message)
	}
	return m, cmd
}

func (m Model) handleNotesLoaded(message NotesLoadedMsg) (tea.Model, tea.Cmd) {
	if message.Gen != m.loadGen {
		return m, nil
	}
	m.loading = false
	m.loadingMore = false
	if message.Err != nil {
		m.logger.Error("load failed", "error", message.Err)
		return m, msg.ShowError("Load failed", 5*time.Second)
	}

	if message.Page == 0 {
		m.notes = message.Notes
	} else {
		m.notes = append(m.notes, message.Notes...)
	}
	m.page = message.Page
	m.hasMore = len(message.Notes) == pageSize
	m.clampCursor()
	m.ensureCursorVisible()
	return m, nil
}

func (m Model) handleNoteSaved(message NoteSavedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if message.Err != nil {
		// The dialog stays open so the draft is not lost.
		m.logger.Error("save failed", "error", message.Err)
		return m, msg.ShowError("Save failed", 5*time.Second)
	}
	m.closeEditor()
	m.cursor = 0
	m.scrollOff = 0
	return m, tea.Batch(m.reloadFromTop(), msg.ShowToast("Saved", 2*time.Second))
}

func (m Model) handleNoteDeleted(message NoteDeletedMsg) (tea.Model, tea.Cmd) {
	m.deleting = false
	if message.Err != nil {
		m.logger.Error("delete failed", "error", message.Err)
		return m, msg.ShowError("Delete failed", 5*time.Second)
	}
	m.confirmOpen = false
	return m, tea.Batch(m.reloadFromTop(), msg.ShowToast("Deleted", 2*time.Second))
}
