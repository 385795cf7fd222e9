package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
	"github.com/vidyasagar/bpexplorer/internal/theme"
)

// ReferenceRow is one selectable blueprint in a ReferenceList.
type ReferenceRow struct {
	ID     uuid.UUID
	Name   string
	Detail string // dimmed text after the name
}

// ReferenceList displays a scrollable list of blueprints with vim navigation.
type ReferenceList struct {
	title    string
	empty    string
	rows     []ReferenceRow
	cursor   int
	offset   int // scroll offset for visible window
	width    int
	height   int
	focused  bool
	lastGKey bool // for gg detection within the list
}

// NewReferenceList creates a list with the given header title.
func NewReferenceList(title string) *ReferenceList {
	return &ReferenceList{title: title, empty: "Nothing here."}
}

// SetTitle changes the header title and the text shown with no rows.
func (rl *ReferenceList) SetTitle(title, empty string) {
	rl.title = title
	rl.empty = empty
}

// Title returns the header title.
func (rl *ReferenceList) Title() string {
	return rl.title
}

// SetRows replaces the rows and resets the cursor.
func (rl *ReferenceList) SetRows(rows []ReferenceRow) {
	rl.rows = rows
	rl.cursor = 0
	rl.offset = 0
	rl.lastGKey = false
}

// Rows returns the displayed rows.
func (rl *ReferenceList) Rows() []ReferenceRow {
	return rl.rows
}

// Len returns the number of displayed rows.
func (rl *ReferenceList) Len() int {
	return len(rl.rows)
}

// SetSize updates the list dimensions.
func (rl *ReferenceList) SetSize(w, h int) {
	rl.width = w
	rl.height = h
	rl.ensureVisible()
}

// SetFocused marks the list as receiving keys.
func (rl *ReferenceList) SetFocused(f bool) {
	rl.focused = f
	rl.lastGKey = false
}

// Focused reports whether the list receives keys.
func (rl *ReferenceList) Focused() bool {
	return rl.focused
}

// CursorUp moves the cursor up one row.
func (rl *ReferenceList) CursorUp() {
	rl.lastGKey = false
	if rl.cursor > 0 {
		rl.cursor--
		rl.ensureVisible()
	}
}

// CursorDown moves the cursor down one row.
func (rl *ReferenceList) CursorDown() {
	rl.lastGKey = false
	if rl.cursor < len(rl.rows)-1 {
		rl.cursor++
		rl.ensureVisible()
	}
}

// GotoTop moves to the first row.
func (rl *ReferenceList) GotoTop() {
	rl.lastGKey = false
	rl.cursor = 0
	rl.offset = 0
}

// GotoBottom moves to the last row.
func (rl *ReferenceList) GotoBottom() {
	rl.lastGKey = false
	if len(rl.rows) > 0 {
		rl.cursor = len(rl.rows) - 1
		rl.ensureVisible()
	}
}

// HalfPageDown moves the cursor down half a page.
func (rl *ReferenceList) HalfPageDown() {
	rl.lastGKey = false
	rl.cursor += rl.visibleCount() / 2
	if rl.cursor >= len(rl.rows) {
		rl.cursor = len(rl.rows) - 1
	}
	if rl.cursor < 0 {
		rl.cursor = 0
	}
	rl.ensureVisible()
}

// HalfPageUp moves the cursor up half a page.
func (rl *ReferenceList) HalfPageUp() {
	rl.lastGKey = false
	rl.cursor -= rl.visibleCount() / 2
	if rl.cursor < 0 {
		rl.cursor = 0
	}
	rl.ensureVisible()
}

// HandleGKey handles the "g" key for gg detection.
// Returns true if "gg" was completed (go to top).
func (rl *ReferenceList) HandleGKey() bool {
	if rl.lastGKey {
		rl.GotoTop()
		return true
	}
	rl.lastGKey = true
	return false
}

// ResetGKey resets the g key state (called on any non-g key press).
func (rl *ReferenceList) ResetGKey() {
	rl.lastGKey = false
}

// Selected returns the cursor row index, or false when the list is empty.
func (rl *ReferenceList) Selected() (int, bool) {
	if rl.cursor < 0 || rl.cursor >= len(rl.rows) {
		return 0, false
	}
	return rl.cursor, true
}

// SelectedRow returns the row at the cursor.
func (rl *ReferenceList) SelectedRow() (ReferenceRow, bool) {
	i, ok := rl.Selected()
	if !ok {
		return ReferenceRow{}, false
	}
	return rl.rows[i], true
}

// RowAt returns the row index displayed at line y of the list, or -1.
func (rl *ReferenceList) RowAt(y int) int {
	i := rl.offset + y - 2 // header + separator
	if y < 2 || i >= len(rl.rows) || i >= rl.offset+rl.visibleCount() {
		return -1
	}
	return i
}

// SetCursor moves the cursor to row i.
func (rl *ReferenceList) SetCursor(i int) bool {
	if i < 0 || i >= len(rl.rows) {
		return false
	}
	rl.cursor = i
	rl.ensureVisible()
	return true
}

// visibleCount returns how many rows fit below the header.
func (rl *ReferenceList) visibleCount() int {
	available := rl.height - 2
	if available < 1 {
		return 1
	}
	return available
}

// ensureVisible adjusts offset so the cursor is within the visible window.
func (rl *ReferenceList) ensureVisible() {
	visible := rl.visibleCount()
	if rl.cursor < rl.offset {
		rl.offset = rl.cursor
	}
	if rl.cursor >= rl.offset+visible {
		rl.offset = rl.cursor - visible + 1
	}
	if rl.offset < 0 {
		rl.offset = 0
	}
}

// View renders the list.
func (rl *ReferenceList) View() string {
	t := theme.Current

	panelStyle := lipgloss.NewStyle().
		Width(rl.width).
		Height(rl.height)

	titleColor := t.TextDim
	if rl.focused {
		titleColor = t.Primary
	}
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(titleColor).
		Background(t.Surface).
		Width(rl.width).
		Padding(0, 1)

	separatorStyle := lipgloss.NewStyle().
		Foreground(t.Border)

	selectedStyle := lipgloss.NewStyle().
		Foreground(t.CrumbActive).
		Background(t.Selection).
		Bold(true).
		Width(rl.width).
		Padding(0, 1)

	normalStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		Width(rl.width).
		Padding(0, 1)

	detailStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s (%d)", rl.title, len(rl.rows))))
	sb.WriteString("\n")

	sepWidth := rl.width - 2
	if sepWidth < 1 {
		sepWidth = 1
	}
	sb.WriteString(separatorStyle.Render(strings.Repeat("─", sepWidth)))
	sb.WriteString("\n")

	if len(rl.rows) == 0 {
		sb.WriteString(detailStyle.Italic(true).Padding(0, 1).Render(rl.empty))
		return panelStyle.Render(sb.String())
	}

	end := rl.offset + rl.visibleCount()
	if end > len(rl.rows) {
		end = len(rl.rows)
	}

	maxLen := rl.width - 4
	if maxLen < 10 {
		maxLen = 10
	}

	for i := rl.offset; i < end; i++ {
		row := rl.rows[i]
		name := ansi.Truncate(row.Name, maxLen, "…")
		var detail string
		if row.Detail != "" {
			if room := maxLen - ansi.StringWidth(name) - 2; room > 3 {
				detail = "  " + detailStyle.Render(ansi.Truncate(row.Detail, room, "…"))
			}
		}

		if i == rl.cursor && rl.focused {
			sb.WriteString(selectedStyle.Render("▸ " + name + detail))
		} else {
			sb.WriteString(normalStyle.Render("  " + name + detail))
		}
		if i < end-1 {
			sb.WriteString("\n")
		}
	}

	return panelStyle.Render(sb.String())
}
