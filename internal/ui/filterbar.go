package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/bpexplorer/internal/theme"
)

// FilterBar is the field filter input above the field view.
type FilterBar struct {
	input  textinput.Model
	active bool
	width  int
}

// NewFilterBar creates a new filter bar.
func NewFilterBar() *FilterBar {
	ti := textinput.New()
	ti.Placeholder = "filter fields by path or value..."
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = 60

	return &FilterBar{
		input: ti,
	}
}

// SetWidth updates the filter bar width.
func (f *FilterBar) SetWidth(w int) {
	f.width = w
	f.input.Width = w - 8 // account for prompt and padding
}

// Focus activates the filter bar for input.
func (f *FilterBar) Focus() tea.Cmd {
	f.active = true
	f.input.CursorEnd()
	return f.input.Focus()
}

// Blur deactivates the filter bar.
func (f *FilterBar) Blur() {
	f.active = false
	f.input.Blur()
}

// IsActive reports whether the filter bar is focused.
func (f *FilterBar) IsActive() bool {
	return f.active
}

// Value returns the current input text.
func (f *FilterBar) Value() string {
	return f.input.Value()
}

// SetValue sets the filter text.
func (f *FilterBar) SetValue(s string) {
	f.input.SetValue(s)
	f.input.CursorEnd()
}

// Reset clears the filter bar.
func (f *FilterBar) Reset() {
	f.input.Reset()
}

// Update handles messages for the filter bar.
func (f *FilterBar) Update(msg tea.Msg) (*FilterBar, tea.Cmd) {
	if !f.active {
		return f, nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// View renders the filter bar.
func (f *FilterBar) View() string {
	t := theme.Current

	border := t.Border
	fg := t.TextDim
	if f.active {
		border = t.BorderFocus
		fg = t.Text
	}
	barStyle := lipgloss.NewStyle().
		Foreground(fg).
		Background(t.Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(f.width - 2)

	promptStyle := lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	content := promptStyle.Render("/") + " " + f.input.View()

	return barStyle.Render(content)
}
