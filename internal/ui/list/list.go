// Package list provides a generic scrollable list with a cursor.
package list

import tea "github.com/charmbracelet/bubbletea"

// Action represents what happened during Update.
type Action int

const (
	ActionNone  Action = iota
	ActionEnter        // Enter key pressed
)

// Result is returned from Update to tell the parent what happened.
type Result struct {
	Action Action
	Index  int // item the action applies to, -1 if none
}

// Model is a scrollable list. It handles navigation keys and leaves
// rendering to the parent through VisibleRange.
type Model[T any] struct {
	items  []T
	pos    int
	offset int
	margin int
	height int
}

// New creates a list that keeps margin rows visible around the cursor.
func New[T any](margin int) Model[T] {
	return Model[T]{margin: margin}
}

// SetItems replaces all items and clamps the cursor.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.clamp()
}

// SetHeight sets the number of visible rows.
func (m *Model[T]) SetHeight(height int) {
	m.height = max(height, 0)
	m.ensureVisible()
}

func (m Model[T]) Items() []T { return m.items }
func (m Model[T]) Len() int   { return len(m.items) }
func (m Model[T]) Pos() int   { return m.pos }

// Selected returns the item under the cursor, or false when empty.
func (m Model[T]) Selected() (T, bool) {
	if m.pos < 0 || m.pos >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[m.pos], true
}

// Move moves the cursor by delta rows, clamped to the list.
func (m *Model[T]) Move(delta int) {
	m.Jump(m.pos + delta)
}

// Jump moves the cursor to index, clamped to the list.
func (m *Model[T]) Jump(index int) {
	if len(m.items) == 0 {
		return
	}
	m.pos = index
	m.clamp()
	m.ensureVisible()
}

// VisibleRange returns the [start, end) indices to render.
func (m Model[T]) VisibleRange() (start, end int) {
	if len(m.items) == 0 || m.height <= 0 {
		return 0, 0
	}
	return m.offset, min(m.offset+m.height, len(m.items))
}

// Update handles navigation keys and reports enter presses.
func (m *Model[T]) Update(msg tea.Msg) Result {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return Result{Index: -1}
	}
	switch key.String() {
	case "j", "down":
		m.Move(1)
	case "k", "up":
		m.Move(-1)
	case "g", "home":
		m.Jump(0)
	case "G", "end":
		m.Jump(len(m.items) - 1)
	case "pgdown", "ctrl+d":
		m.Move(max(m.height/2, 1))
	case "pgup", "ctrl+u":
		m.Move(-max(m.height/2, 1))
	case "enter":
		if len(m.items) > 0 {
			return Result{Action: ActionEnter, Index: m.pos}
		}
	}
	return Result{Index: -1}
}

func (m *Model[T]) clamp() {
	if len(m.items) == 0 {
		m.pos, m.offset = 0, 0
		return
	}
	m.pos = min(max(m.pos, 0), len(m.items)-1)
	m.ensureVisible()
}

func (m *Model[T]) ensureVisible() {
	if m.height <= 0 || len(m.items) == 0 {
		return
	}
	margin := min(m.margin, (m.height-1)/2)

	// Scroll up: cursor too close to top
	if m.pos < m.offset+margin {
		m.offset = max(m.pos-margin, 0)
	}
	// Scroll down: cursor too close to bottom
	if m.pos >= m.offset+m.height-margin {
		m.offset = m.pos - m.height + margin + 1
	}
	m.offset = min(max(m.offset, 0), max(len(m.items)-m.height, 0))
}
