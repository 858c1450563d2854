package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/quicknote/internal/config"
	"github.com/marcus/quicknote/internal/store"
)

func newTestModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	cfg.Storage.Watch = false
	cfg.Search.Debounce = 0 // apply terms immediately in tests

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := New(st, cfg, logger, "test")
	m.width = 80
	m.height = 24
	m.ready = true
	// Static cursors keep component updates from emitting blink
	// commands, which drain cannot execute.
	m.searchInput.Cursor.SetMode(cursor.CursorStatic)
	m.editor.Cursor.SetMode(cursor.CursorStatic)
	return m, st
}

func asModel(t *testing.T, tm tea.Model) Model {
	t.Helper()
	m, ok := tm.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want app.Model", tm)
	}
	return m
}

// drain executes cmd and feeds every resulting message back through
// Update until no commands remain. Never pass commands that tick or
// blink; they block.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	message := cmd()
	if message == nil {
		return m
	}
	if batch, ok := message.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	next, nextCmd := m.Update(message)
	return drain(t, asModel(t, next), nextCmd)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// loaded returns the model with page 0 and counts freshly loaded.
func loaded(t *testing.T, m Model) Model {
	t.Helper()
	return drain(t, m, m.reloadFromTop())
}

func TestAddSaveCreatesNote(t *testing.T) {
	m, st := newTestModel(t)
	m = loaded(t, m)

	next, _ := m.Update(keyRune('a')) // discard focus cmd
	m = asModel(t, next)
	if !m.editorOpen || m.editorID != 0 {
		t.Fatalf("editorOpen=%v editorID=%d, want open new-note editor", m.editorOpen, m.editorID)
	}

	m.editor.SetValue("Buy milk")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = asModel(t, next)
	if !m.saving {
		t.Error("saving guard should be set while the create is in flight")
	}
	m = drain(t, m, cmd)

	if m.editorOpen {
		t.Error("editor should close after a successful save")
	}
	if len(m.notes) != 1 || m.notes[0].Text != "Buy milk" {
		t.Fatalf("got notes %v, want the one created note", m.notes)
	}
	if m.statusMsg != "Saved" || m.statusIsError {
		t.Errorf("got toast %q (error=%v), want success toast 'Saved'", m.statusMsg, m.statusIsError)
	}

	count, err := st.Count("")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("store has %d notes, want 1", count)
	}
}

func TestBlankDraftIsRejected(t *testing.T) {
	m, st := newTestModel(t)
	m = loaded(t, m)

	next, _ := m.Update(keyRune('a'))
	m = asModel(t, next)
	m.editor.SetValue("   \n\t ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = asModel(t, next)
	if cmd != nil {
		t.Error("whitespace-only draft must not issue a save command")
	}
	if !m.editorOpen {
		t.Error("dialog should stay open after a rejected save")
	}

	count, err := st.Count("")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("store has %d notes, want 0", count)
	}
}

func TestEditUpdatesExistingNote(t *testing.T) {
	m, st := newTestModel(t)
	n, err := st.Create("abc")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	m = loaded(t, m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = asModel(t, next)
	if !m.editorOpen || m.editorID != n.ID {
		t.Fatalf("editorID=%d, want editor open on note %d", m.editorID, n.ID)
	}
	if m.editor.Value() != "abc" {
		t.Errorf("draft %q, want full row text 'abc'", m.editor.Value())
	}

	m.editor.SetValue("xyz")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, asModel(t, next), cmd)

	got, err := st.Search("xyz", 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != n.ID || got[0].Text != "xyz" {
		t.Errorf("got %v, want exactly one row {%d xyz}", got, n.ID)
	}
}

func TestEscDiscardsDraft(t *testing.T) {
	m, st := newTestModel(t)
	m = loaded(t, m)

	next, _ := m.Update(keyRune('a'))
	m = asModel(t, next)
	m.editor.SetValue("never saved")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = asModel(t, next)
	if m.editorOpen {
		t.Error("esc should close the editor")
	}
	count, err := st.Count("")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("store has %d notes, want 0 after discard", count)
	}
}

func TestSaveFailureKeepsEditorOpen(t *testing.T) {
	m, _ := newTestModel(t)
	m = loaded(t, m)

	next, _ := m.Update(keyRune('a'))
	m = asModel(t, next)
	m.editor.SetValue("draft")
	m.saving = true

	next, cmd := m.Update(NoteSavedMsg{Err: errors.New("disk gone")})
	m = drain(t, asModel(t, next), cmd)

	if !m.editorOpen {
		t.Error("editor should stay open when the save fails")
	}
	if m.saving {
		t.Error("saving guard should clear on failure")
	}
	if !m.statusIsError {
		t.Errorf("got toast %q, want an error toast", m.statusMsg)
	}
}

func TestDeleteConfirmAndDecline(t *testing.T) {
	m, st := newTestModel(t)
	first, err := st.Create("keep me")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := st.Create("delete me")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	m = loaded(t, m)

	// Newest first: cursor 0 is the second note.
	next, _ := m.Update(keyRune('d'))
	m = asModel(t, next)
	if !m.confirmOpen || m.confirmID != second.ID {
		t.Fatalf("confirmID=%d, want confirmation for note %d", m.confirmID, second.ID)
	}

	// Decline: no side effects.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = asModel(t, next)
	if m.confirmOpen {
		t.Error("esc should close the confirmation")
	}
	if count, _ := st.Count(""); count != 2 {
		t.Errorf("decline deleted something: %d notes left, want 2", count)
	}

	// Confirm with y.
	next, _ = m.Update(keyRune('d'))
	m = asModel(t, next)
	next, cmd := m.Update(keyRune('y'))
	m = asModel(t, next)
	if !m.deleting {
		t.Error("deleting guard should be set while the delete is in flight")
	}
	m = drain(t, m, cmd)

	if m.confirmOpen {
		t.Error("confirmation should close after a successful delete")
	}
	if len(m.notes) != 1 || m.notes[0].ID != first.ID {
		t.Errorf("got notes %v, want only note %d left", m.notes, first.ID)
	}
}

func TestConfirmEnterOnCancelDoesNothing(t *testing.T) {
	m, st := newTestModel(t)
	if _, err := st.Create("survives"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	m = loaded(t, m)

	next, _ := m.Update(keyRune('d'))
	m = asModel(t, next)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab}) // focus Cancel
	m = asModel(t, next)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = asModel(t, next)

	if cmd != nil {
		t.Error("enter on Cancel must not issue a delete")
	}
	if m.confirmOpen {
		t.Error("enter on Cancel should close the confirmation")
	}
	if count, _ := st.Count(""); count != 1 {
		t.Errorf("%d notes left, want 1", count)
	}
}

func TestInFlightGuards(t *testing.T) {
	m, _ := newTestModel(t)
	m = loaded(t, m)

	next, _ := m.Update(keyRune('a'))
	m = asModel(t, next)
	m.editor.SetValue("once")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = asModel(t, next)
	if cmd == nil {
		t.Fatal("first save should issue a command")
	}
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = asModel(t, next)
	if cmd != nil {
		t.Error("second save while one is in flight must be a no-op")
	}

	m.editorOpen = false
	m.confirmOpen = true
	m.deleting = true
	next, cmd = m.Update(keyRune('y'))
	asModel(t, next)
	if cmd != nil {
		t.Error("confirm while a delete is in flight must be a no-op")
	}
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	m, st := newTestModel(t)
	if _, err := st.Create("current"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	m = loaded(t, m)

	stale := NotesLoadedMsg{
		Notes: []store.Note{{ID: 99, Text: "from an old term"}},
		Page:  0,
		Gen:   m.loadGen - 1,
	}
	next, _ := m.Update(stale)
	m = asModel(t, next)

	if len(m.notes) != 1 || m.notes[0].Text != "current" {
		t.Errorf("stale result was applied: %v", m.notes)
	}
}

func TestSearchFiltersAndResets(t *testing.T) {
	m, st := newTestModel(t)
	for _, text := range []string{"apple", "banana", "cherry"} {
		if _, err := st.Create(text); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	m = loaded(t, m)
	if len(m.notes) != 3 {
		t.Fatalf("loaded %d notes, want 3", len(m.notes))
	}

	next, _ := m.Update(keyRune('/'))
	m = asModel(t, next)
	if !m.searchMode {
		t.Fatal("/ should enter search mode")
	}

	for _, r := range "an" {
		next, cmd := m.Update(keyRune(r))
		m = drain(t, asModel(t, next), cmd)
	}
	if m.query != "an" {
		t.Fatalf("applied term %q, want 'an'", m.query)
	}
	if len(m.notes) != 1 || m.notes[0].Text != "banana" {
		t.Errorf("got %v, want only 'banana'", m.notes)
	}
	if m.cursor != 0 {
		t.Errorf("cursor %d, want reset to 0 on term change", m.cursor)
	}

	// Esc clears the term and restores the unfiltered list.
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = drain(t, asModel(t, next), cmd)
	if m.searchMode || m.query != "" {
		t.Errorf("searchMode=%v query=%q, want cleared search", m.searchMode, m.query)
	}
	if len(m.notes) != 3 {
		t.Errorf("got %d notes after clearing, want 3", len(m.notes))
	}
}

func TestPaginationAppendsWithoutGaps(t *testing.T) {
	m, st := newTestModel(t)
	for i := 0; i < 120; i++ {
		if _, err := st.Create(fmt.Sprintf("note %03d", i)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	m = loaded(t, m)

	if len(m.notes) != pageSize {
		t.Fatalf("page 0 loaded %d notes, want %d", len(m.notes), pageSize)
	}
	if !m.hasMore {
		t.Fatal("hasMore should be true with 120 notes and one page loaded")
	}

	// Walk the cursor to the end twice; each arrival fetches a page.
	for _, want := range []int{100, 120} {
		m.cursor = len(m.notes) - 2
		next, cmd := m.Update(keyRune('j'))
		m = asModel(t, next)
		if !m.loadingMore {
			t.Fatal("reaching the end should set the loadingMore guard")
		}
		m = drain(t, m, cmd)
		if len(m.notes) != want {
			t.Fatalf("got %d notes, want %d", len(m.notes), want)
		}
	}

	if m.hasMore {
		t.Error("hasMore should be false once all 120 notes are loaded")
	}

	// No duplicates, ids strictly descending.
	seen := make(map[int64]bool, len(m.notes))
	for i, n := range m.notes {
		if seen[n.ID] {
			t.Fatalf("duplicate id %d at index %d", n.ID, i)
		}
		seen[n.ID] = true
		if i > 0 && m.notes[i-1].ID <= n.ID {
			t.Fatalf("ids not descending at index %d: %d then %d", i, m.notes[i-1].ID, n.ID)
		}
	}

	// At the true end another append attempt is a no-op.
	m.cursor = len(m.notes) - 1
	next, cmd := m.Update(keyRune('j'))
	m = asModel(t, next)
	if cmd != nil && m.loadingMore {
		t.Error("end-of-list should not fetch a guaranteed-empty page")
	}
}

func TestTermChangeWhileDeepPagedReplacesList(t *testing.T) {
	m, st := newTestModel(t)
	for i := 0; i < 60; i++ {
		if _, err := st.Create(fmt.Sprintf("bulk %03d", i)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := st.Create("special"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	m = loaded(t, m)

	// Load page 1 as well.
	m.cursor = len(m.notes) - 2
	next, cmd := m.Update(keyRune('j'))
	m = drain(t, asModel(t, next), cmd)
	if len(m.notes) != 61 {
		t.Fatalf("got %d notes, want all 61 loaded", len(m.notes))
	}

	next, _ = m.Update(keyRune('/'))
	m = asModel(t, next)
	for _, r := range "special" {
		var c tea.Cmd
		next, c = m.Update(keyRune(r))
		m = drain(t, asModel(t, next), c)
	}

	if len(m.notes) != 1 || m.notes[0].Text != "special" {
		t.Errorf("got %v, want only the page-0 results for the new term", m.notes)
	}
	if m.page != 0 {
		t.Errorf("page %d, want 0 after term change", m.page)
	}
}

func TestStoreChangedReloadsInPlace(t *testing.T) {
	m, st := newTestModel(t)
	if _, err := st.Create("original"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	m = loaded(t, m)

	// Simulate an external write followed by the watch signal.
	if _, err := st.Create("from elsewhere"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	next, cmd := m.Update(StoreChangedMsg{})
	m = drain(t, asModel(t, next), cmd)

	if len(m.notes) != 2 {
		t.Errorf("got %d notes after external change, want 2", len(m.notes))
	}
}
