// Package textinput provides a one-line prompt built on bubbles/textinput.
package textinput

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tunedeck/internal/ui/styles"
)

// ResultMsg is sent when the prompt is confirmed or canceled.
type ResultMsg struct {
	Text     string
	Canceled bool // True if user pressed Escape
}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.T().Primary)
}

func hintStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

// Model is a titled text prompt.
type Model struct {
	title  string
	input  textinput.Model
	active bool
}

// New creates an inactive prompt.
func New() Model {
	ti := textinput.New()
	ti.CharLimit = 128
	ti.Prompt = "> "
	return Model{input: ti}
}

// Start shows the prompt with an empty value.
func (m *Model) Start(title, placeholder string, width int) tea.Cmd {
	m.title = title
	m.active = true
	m.input.Placeholder = placeholder
	m.input.Width = max(width-4, 10)
	m.input.SetValue("")
	return m.input.Focus()
}

// Active reports whether the prompt is showing.
func (m Model) Active() bool {
	return m.active
}

// Value returns the current text.
func (m Model) Value() string {
	return m.input.Value()
}

// Update handles keys while the prompt is active.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type { //nolint:exhaustive // other keys go to the input
		case tea.KeyEsc:
			m.close()
			return m, func() tea.Msg { return ResultMsg{Canceled: true} }
		case tea.KeyEnter:
			text := m.input.Value()
			m.close()
			return m, func() tea.Msg { return ResultMsg{Text: text} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt, or "" when inactive.
func (m Model) View() string {
	if !m.active {
		return ""
	}
	title := titleStyle().Render(m.title)
	hint := hintStyle().Render("Enter: confirm, Esc: cancel")
	return title + "\n\n" + m.input.View() + "\n\n" + hint
}

func (m *Model) close() {
	m.active = false
	m.input.Blur()
}
