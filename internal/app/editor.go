package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/quicknote/internal/styles"
)

const (
	editorWidth  = 60
	editorHeight = 12
)

// newEditorTextarea builds the draft textarea for the editor modal.
func newEditorTextarea() textarea.Model {
	ta := textarea.New()
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.Placeholder = "Write a note..."
	ta.FocusedStyle = textarea.Style{
		Base:        lipgloss.NewStyle(),
		CursorLine:  lipgloss.NewStyle(),
		EndOfBuffer: styles.Muted,
		Placeholder: styles.Muted,
		Prompt:      lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
	}
	ta.BlurredStyle = ta.FocusedStyle
	// ctrl+p toggles the markdown preview, so drop the textarea's
	// line-up alias for it.
	ta.KeyMap.LinePrevious = key.NewBinding(key.WithKeys("up"))
	ta.SetWidth(editorWidth)
	ta.SetHeight(editorHeight)
	ta.Blur()
	return ta
}

// openEditor opens the editor modal with the given draft (id 0 = new).
func (m *Model) openEditor(id int64, text string) {
	m.editorID = id
	m.editor.SetValue(text)
	m.preview = false
	m.saving = false
	m.editorOpen = true
}

// closeEditor discards the draft and closes the modal.
func (m *Model) closeEditor() {
	m.editorOpen = false
	m.preview = false
	m.editor.Reset()
	m.editor.Blur()
}

// resizeEditor keeps the modal inside small terminals.
func (m *Model) resizeEditor() {
	w, h := editorWidth, editorHeight
	if m.width > 0 && w > m.width-8 {
		w = m.width - 8
	}
	if m.height > 0 && h > m.height-8 {
		h = m.height - 8
	}
	if w < 20 {
		w = 20
	}
	if h < 3 {
		h = 3
	}
	m.editorWidth = w
	m.editor.SetWidth(w)
	m.editor.SetHeight(h)
}

func (m Model) handleEditorKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.closeEditor()
		return m, nil

	case "ctrl+s":
		return m.saveDraft()

	case "ctrl+p":
		m.preview = !m.preview
		if m.preview {
			m.editor.Blur()
			return m, nil
		}
		return m, m.editor.Focus()
	}

	if m.preview {
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(k)
	return m, cmd
}

// saveDraft persists the draft unless it is blank or a save is already
// in flight. A blank draft keeps the dialog open with no side effects.
func (m Model) saveDraft() (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	draft := m.editor.Value()
	if strings.TrimSpace(draft) == "" {
		return m, nil
	}
	m.saving = true
	return m, m.saveNote(m.editorID, draft)
}
