// Package app implements the quicknote TUI: a searchable, paged note
// list backed by the SQLite store, with an editor modal and a delete
// confirmation modal.
package app

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/quicknote/internal/config"
	"github.com/marcus/quicknote/internal/store"
	"github.com/marcus/quicknote/internal/styles"
)

const (
	// pageSize is how many notes each Search call fetches.
	pageSize = 50

	// rowTextWidth is the list row budget for note text, in cells.
	rowTextWidth = 30
)

// Model is the root Bubble Tea model for quicknote.
type Model struct {
	store   *store.Store
	cfg     *config.Config
	logger  *slog.Logger
	version string

	// Terminal dimensions
	width, height int
	ready         bool

	// List state: the concatenation of all pages loaded so far for the
	// current search term.
	notes     []store.Note
	cursor    int
	scrollOff int
	page      int
	matched   int // rows matching the current term
	total     int // rows in the store
	hasMore   bool
	pendingG  bool // g pressed, waiting for a second g

	// Load state. loadGen is the staleness token stamped into every
	// load command; results carrying an older token are discarded.
	loading     bool
	loadingMore bool
	loadGen     int

	// Search state. query is the applied term; the input may be ahead
	// of it while the debounce window is open.
	searchMode  bool
	searchInput textinput.Model
	query       string
	debounceSeq int

	// Editor modal state
	editorOpen  bool
	editorID    int64 // 0 = new note
	editor      textarea.Model
	editorWidth int
	preview     bool
	markdown    *markdownRenderer
	saving      bool

	// Delete confirmation modal state
	confirmOpen   bool
	confirmID     int64
	confirmText   string
	confirmButton int // 0 = delete, 1 = cancel
	deleting      bool

	// Toast state
	statusMsg     string
	statusIsError bool
	statusExpiry  time.Time

	// External-change watch
	watchEvents <-chan struct{}
	stopWatch   func()
}

// New creates the application model around an opened store. The store
// lifecycle (Open/Close) belongs to the caller.
func New(st *store.Store, cfg *config.Config, logger *slog.Logger, version string) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.PromptStyle = styles.ListCursor
	ti.Placeholder = "search"

	m := Model{
		store:       st,
		cfg:         cfg,
		logger:      logger,
		version:     version,
		searchInput: ti,
		editor:      newEditorTextarea(),
		editorWidth: editorWidth,
		markdown:    newMarkdownRenderer(cfg.UI.MarkdownStyle),
		loading:     true,
	}

	if cfg.Storage.Watch {
		events, stop, err := st.Watch()
		if err != nil {
			logger.Debug("database watch unavailable", "error", err)
		} else {
			m.watchEvents = events
			m.stopWatch = stop
		}
	}
	return m
}

// Init starts the clock, the initial page load, and the watch listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
		m.loadPage(0),
		m.loadCounts(),
	}
	if m.watchEvents != nil {
		cmds = append(cmds, waitForChange(m.watchEvents))
	}
	return tea.Batch(cmds...)
}

// selectedNote returns the note under the cursor, or nil.
func (m *Model) selectedNote() *store.Note {
	if len(m.notes) == 0 || m.cursor < 0 || m.cursor >= len(m.notes) {
		return nil
	}
	return &m.notes[m.cursor]
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.notes) {
		m.cursor = len(m.notes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.scrollOff > m.cursor {
		m.scrollOff = m.cursor
	}
}

// ensureCursorVisible adjusts the scroll offset so the cursor row is
// inside the list viewport.
func (m *Model) ensureCursorVisible() {
	height := m.listHeight()
	if m.cursor < m.scrollOff {
		m.scrollOff = m.cursor
	}
	if m.cursor >= m.scrollOff+height {
		m.scrollOff = m.cursor - height + 1
	}
}

// listHeight is the number of rows available to the note list.
func (m Model) listHeight() int {
	h := m.height - headerHeight
	if m.cfg.UI.ShowFooter {
		h -= footerHeight
	}
	if h < 1 {
		h = 1
	}
	return h
}
