package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/quicknote/internal/store"
)

// TickMsg is sent on each clock tick, used to expire toasts.
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// NotesLoadedMsg carries one fetched page of search results.
type NotesLoadedMsg struct {
	Notes []store.Note
	Page  int
	Gen   int
	Err   error
}

// CountsLoadedMsg carries the matched and overall note counts.
type CountsLoadedMsg struct {
	Matched int
	Total   int
	Gen     int
	Err     error
}

// NoteSavedMsg reports the result of a create or update.
type NoteSavedMsg struct {
	Note store.Note
	Err  error
}

// NoteDeletedMsg reports the result of a delete.
type NoteDeletedMsg struct {
	ID  int64
	Err error
}

// SearchDebounceMsg fires when typing has paused long enough to apply
// the pending search term. Only the latest sequence number is honored.
type SearchDebounceMsg struct {
	Seq int
}

// StoreChangedMsg signals that another process wrote the database.
type StoreChangedMsg struct{}

// loadPage returns a command fetching the given page for the current
// term, stamped with the current generation.
func (m *Model) loadPage(page int) tea.Cmd {
	st := m.store
	term := m.query
	gen := m.loadGen
	return func() tea.Msg {
		notes, err := st.Search(term, pageSize, page*pageSize)
		return NotesLoadedMsg{Notes: notes, Page: page, Gen: gen, Err: err}
	}
}

// loadCounts fetches the matched count for the current term plus the
// overall total for the footer.
func (m *Model) loadCounts() tea.Cmd {
	st := m.store
	term := m.query
	gen := m.loadGen
	return func() tea.Msg {
		matched, err := st.Count(term)
		if err != nil {
			return CountsLoadedMsg{Gen: gen, Err: err}
		}
		total := matched
		if term != "" {
			if total, err = st.Count(""); err != nil {
				return CountsLoadedMsg{Gen: gen, Err: err}
			}
		}
		return CountsLoadedMsg{Matched: matched, Total: total, Gen: gen}
	}
}

// saveNote creates (id 0) or updates a note.
func (m *Model) saveNote(id int64, text string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		if id == 0 {
			n, err := st.Create(text)
			return NoteSavedMsg{Note: n, Err: err}
		}
		err := st.Update(id, text)
		return NoteSavedMsg{Note: store.Note{ID: id, Text: text}, Err: err}
	}
}

// deleteNote removes a note by id.
func (m *Model) deleteNote(id int64) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return NoteDeletedMsg{ID: id, Err: st.Delete(id)}
	}
}

// reloadFromTop invalidates all loaded pages and fetches page 0 plus
// counts for the current term. Older in-flight loads become stale.
func (m *Model) reloadFromTop() tea.Cmd {
	m.loadGen++
	m.page = 0
	m.loading = true
	m.loadingMore = false
	return tea.Batch(m.loadPage(0), m.loadCounts())
}

// scheduleDebounce arms the search debounce window for the latest edit.
func (m *Model) scheduleDebounce() tea.Cmd {
	m.debounceSeq++
	seq := m.debounceSeq
	d := m.cfg.Search.Debounce
	if d <= 0 {
		return func() tea.Msg { return SearchDebounceMsg{Seq: seq} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return SearchDebounceMsg{Seq: seq}
	})
}

// waitForChange blocks on the watch channel; the listener re-arms it
// after each delivery.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return StoreChangedMsg{}
	}
}
