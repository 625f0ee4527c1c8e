package tui

import (
	"context"

	"apttool/pkg/catalog"
	"apttool/pkg/query"
)

// View represents different views in the TUI
type View int

const (
	ViewList View = iota
	ViewDetails
	ViewHelp
)

// DefaultBatchSize is how many matches one fetch pulls from the results.
const DefaultBatchSize = 50

// Opener starts a search over the catalog. The browser pulls the
// returned Results in batches as the list needs them.
type Opener func(ctx context.Context, pattern string, filter query.InstallFilter) (*query.Results, error)

type searchRequest struct {
	pattern string
	filter  query.InstallFilter
}

// Model holds the browser state. It has no bubbletea dependency so it
// can be driven directly in tests.
type Model struct {
	ready    bool
	quitting bool

	width  int
	height int

	activeView View
	prevView   View

	ctx       context.Context
	open      Opener
	batchSize int

	pattern string
	filter  query.InstallFilter

	// gen identifies the current search; messages from older ones are
	// discarded.
	gen     uint64
	results *query.Results
	records []*catalog.Record
	scanned int
	done    bool

	// busy is set while an open or fetch command is in flight. Only one
	// runs at a time because Results is not safe for concurrent use.
	busy    bool
	pending *searchRequest

	cursor int
	scroll int

	errorMsg  string
	inputMode bool

	styles *Styles
	keys   KeyMap
}

// NewModel creates a browser for pattern. Nothing is searched until the
// first command runs.
func NewModel(ctx context.Context, open Opener, pattern string, filter query.InstallFilter) *Model {
	return &Model{
		activeView: ViewList,
		ctx:        ctx,
		open:       open,
		batchSize:  DefaultBatchSize,
		pattern:    pattern,
		filter:     filter,
		styles:     DefaultStyles(),
		keys:       DefaultKeyMap(),
	}
}

// SetSize sets the terminal size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// VisibleHeight returns the number of list rows on screen.
func (m *Model) VisibleHeight() int {
	// header, status line, footer and padding
	h := m.height - 5
	if h < 1 {
		return 1
	}
	return h
}

// Records returns the matches pulled so far.
func (m *Model) Records() []*catalog.Record {
	return m.records
}

// Cursor returns the selected row.
func (m *Model) Cursor() int {
	return m.cursor
}

// Selected returns the record under the cursor.
func (m *Model) Selected() *catalog.Record {
	if m.cursor >= 0 && m.cursor < len(m.records) {
		return m.records[m.cursor]
	}
	return nil
}

// MoveCursor moves the cursor by delta, clamping to valid range
func (m *Model) MoveCursor(delta int) {
	if len(m.records) == 0 {
		return
	}

	pos := m.cursor + delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(m.records) {
		pos = len(m.records) - 1
	}
	m.cursor = pos

	visible := m.VisibleHeight()
	if pos < m.scroll {
		m.scroll = pos
	} else if pos >= m.scroll+visible {
		m.scroll = pos - visible + 1
	}
}

// GoToTop moves cursor to the top
func (m *Model) GoToTop() {
	m.cursor = 0
	m.scroll = 0
}

// GoToBottom moves the cursor to the last match pulled so far.
func (m *Model) GoToBottom() {
	m.MoveCursor(len(m.records))
}

// needMore reports whether another batch should be pulled: the cursor is
// within a screen of the last pulled match and the search is not over.
func (m *Model) needMore() bool {
	if m.done || m.busy || m.results == nil {
		return false
	}
	return m.cursor+m.VisibleHeight() >= len(m.records)
}

// reset clears the list for a new search and returns its generation.
func (m *Model) reset(req searchRequest) uint64 {
	m.gen++
	m.pattern = req.pattern
	m.filter = req.filter
	m.records = nil
	m.scanned = 0
	m.done = false
	m.errorMsg = ""
	m.cursor = 0
	m.scroll = 0
	m.activeView = ViewList
	return m.gen
}

// closeResults stops the current pass if no command is using it.
func (m *Model) closeResults() {
	if m.results != nil && !m.busy {
		m.results.Close()
		m.results = nil
	}
}

// ShowDetails switches to the detail view for the selected record.
func (m *Model) ShowDetails() {
	if m.Selected() != nil {
		m.prevView = m.activeView
		m.activeView = ViewDetails
	}
}

// ToggleHelp shows or hides the key help.
func (m *Model) ToggleHelp() {
	if m.activeView == ViewHelp {
		m.GoBack()
		return
	}
	m.prevView = m.activeView
	m.activeView = ViewHelp
}

// GoBack returns to the previous view
func (m *Model) GoBack() {
	if m.activeView != ViewList {
		m.activeView = m.prevView
		m.prevView = ViewList
	}
}

func nextFilter(f query.InstallFilter) query.InstallFilter {
	switch f {
	case query.Any:
		return query.InstalledOnly
	case query.InstalledOnly:
		return query.NotInstalledOnly
	default:
		return query.Any
	}
}
