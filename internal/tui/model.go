package tui

import (
	"strings"

	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

// View is one filtered projection of the reconciled list
type View int

const (
	ViewAll View = iota
	ViewMissing
	ViewInstalled
)

// Tab represents a navigable tab
type Tab struct {
	Name string
	View View
}

// DefaultTabs returns the default tab configuration
func DefaultTabs() []Tab {
	return []Tab{
		{Name: "All", View: ViewAll},
		{Name: "Backup only", View: ViewMissing},
		{Name: "Installed", View: ViewInstalled},
	}
}

// Model holds the selection state
type Model struct {
	// Core state
	ready     bool
	quitting  bool
	confirmed bool

	// Dimensions
	width  int
	height int

	// Navigation
	tabs      []Tab
	activeTab int
	showHelp  bool

	// Data
	title    string
	items    []snapshot.MergedItem
	selected map[string]bool

	// UI state
	loading     bool
	loadingMsg  string
	errorMsg    string
	filterText  string
	inputMode   bool
	showConfirm bool

	// Cursor and scroll offset per view
	cursors map[View]int
	scrolls map[View]int

	// Styles and keys
	styles *Styles
	keys   KeyMap
}

// NewModel creates a selection model titled after the source being reconciled
func NewModel(title string) *Model {
	return &Model{
		title:    title,
		tabs:     DefaultTabs(),
		selected: make(map[string]bool),
		cursors:  make(map[View]int),
		scrolls:  make(map[View]int),
		styles:   DefaultStyles(),
		keys:     DefaultKeyMap(),
	}
}

// SetSize sets the terminal size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetItems replaces the list. Items only present in the backup start selected.
func (m *Model) SetItems(items []snapshot.MergedItem) {
	m.items = items
	m.selected = make(map[string]bool)
	for _, it := range items {
		if !it.IsInstalled {
			m.selected[it.ID] = true
		}
	}
	m.cursors = make(map[View]int)
	m.scrolls = make(map[View]int)
}

// SetLoading shows or hides the loading indicator
func (m *Model) SetLoading(loading bool, msg string) {
	m.loading = loading
	m.loadingMsg = msg
}

// SetError shows an error message
func (m *Model) SetError(msg string) {
	m.errorMsg = msg
}

// CurrentView returns the view of the active tab
func (m *Model) CurrentView() View {
	if m.activeTab >= 0 && m.activeTab < len(m.tabs) {
		return m.tabs[m.activeTab].View
	}
	return ViewAll
}

// Cursor returns the cursor position for the current view
func (m *Model) Cursor() int {
	return m.cursors[m.CurrentView()]
}

// SetCursor sets the cursor position for the current view
func (m *Model) SetCursor(pos int) {
	m.cursors[m.CurrentView()] = pos
}

// Scroll returns the scroll offset for the current view
func (m *Model) Scroll() int {
	return m.scrolls[m.CurrentView()]
}

// SetScroll sets the scroll offset for the current view
func (m *Model) SetScroll(offset int) {
	m.scrolls[m.CurrentView()] = offset
}

// VisibleHeight returns how many rows fit between the header and footer
func (m *Model) VisibleHeight() int {
	h := m.height - 8
	if h < 1 {
		return 1
	}
	return h
}

// ListItems returns the items of the current view matching the filter
func (m *Model) ListItems() []snapshot.MergedItem {
	var out []snapshot.MergedItem
	filter := strings.ToLower(m.filterText)
	view := m.CurrentView()

	for _, it := range m.items {
		switch {
		case view == ViewMissing && it.IsInstalled:
			continue
		case view == ViewInstalled && !it.IsInstalled:
			continue
		}
		if filter != "" &&
			!strings.Contains(strings.ToLower(it.DisplayName), filter) &&
			!strings.Contains(strings.ToLower(it.ID), filter) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// CurrentItem returns the item under the cursor
func (m *Model) CurrentItem() *snapshot.MergedItem {
	items := m.ListItems()
	cursor := m.Cursor()
	if cursor >= 0 && cursor < len(items) {
		return &items[cursor]
	}
	return nil
}

// IsSelected reports whether id is marked for restore
func (m *Model) IsSelected(id string) bool {
	return m.selected[id]
}

// Toggle flips the selection of the item under the cursor
func (m *Model) Toggle() {
	if it := m.CurrentItem(); it != nil {
		m.setSelected(it.ID, !m.selected[it.ID])
	}
}

// SelectVisible marks every item of the current view
func (m *Model) SelectVisible() {
	for _, it := range m.ListItems() {
		m.setSelected(it.ID, true)
	}
}

// ClearVisible unmarks every item of the current view
func (m *Model) ClearVisible() {
	for _, it := range m.ListItems() {
		m.setSelected(it.ID, false)
	}
}

func (m *Model) setSelected(id string, on bool) {
	if on {
		m.selected[id] = true
	} else {
		delete(m.selected, id)
	}
}

// Selection returns the selected items in list order
func (m *Model) Selection() []snapshot.MergedItem {
	var out []snapshot.MergedItem
	for _, it := range m.items {
		if m.selected[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// MoveCursor moves the cursor by delta, clamping to valid range
func (m *Model) MoveCursor(delta int) {
	items := m.ListItems()
	if len(items) == 0 {
		return
	}

	newPos := m.Cursor() + delta
	if newPos < 0 {
		newPos = 0
	}
	if newPos >= len(items) {
		newPos = len(items) - 1
	}
	m.SetCursor(newPos)

	// Adjust scroll to keep cursor visible
	visibleHeight := m.VisibleHeight()
	scroll := m.Scroll()

	if newPos < scroll {
		m.SetScroll(newPos)
	} else if newPos >= scroll+visibleHeight {
		m.SetScroll(newPos - visibleHeight + 1)
	}
}

// GoToTop moves cursor to the top
func (m *Model) GoToTop() {
	m.SetCursor(0)
	m.SetScroll(0)
}

// GoToBottom moves cursor to the bottom
func (m *Model) GoToBottom() {
	items := m.ListItems()
	if len(items) == 0 {
		return
	}
	m.SetCursor(len(items) - 1)

	visibleHeight := m.VisibleHeight()
	if len(items) > visibleHeight {
		m.SetScroll(len(items) - visibleHeight)
	}
}

// NextTab switches to the next tab
func (m *Model) NextTab() {
	m.SetTab((m.activeTab + 1) % len(m.tabs))
}

// PrevTab switches to the previous tab
func (m *Model) PrevTab() {
	i := m.activeTab - 1
	if i < 0 {
		i = len(m.tabs) - 1
	}
	m.SetTab(i)
}

// SetTab switches to a specific tab by index
func (m *Model) SetTab(index int) {
	if index >= 0 && index < len(m.tabs) {
		m.activeTab = index
		m.clampCursor()
	}
}

// SetFilter applies a text filter and resets the cursor
func (m *Model) SetFilter(text string) {
	m.filterText = strings.TrimSpace(text)
	for _, t := range m.tabs {
		m.cursors[t.View] = 0
		m.scrolls[t.View] = 0
	}
}

func (m *Model) clampCursor() {
	n := len(m.ListItems())
	if m.Cursor() >= n {
		m.SetCursor(max(n-1, 0))
		m.SetScroll(0)
	}
}
