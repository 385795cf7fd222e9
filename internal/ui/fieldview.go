package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/vidyasagar/bpexplorer/internal/render"
	"github.com/vidyasagar/bpexplorer/internal/theme"
)

// FieldView wraps bubbles/viewport to show a blueprint's header and field
// rows, keeping the cursor row on screen.
type FieldView struct {
	viewport   viewport.Model
	ready      bool
	contentSet bool
	focused    bool
	cursorLine int
}

// NewFieldView creates a new field view (dimensions set on first WindowSizeMsg).
func NewFieldView() *FieldView {
	return &FieldView{}
}

// SetSize updates the viewport dimensions.
func (fv *FieldView) SetSize(width, height int) {
	if !fv.ready {
		fv.viewport = viewport.New(width, height)
		fv.viewport.MouseWheelEnabled = true
		fv.viewport.MouseWheelDelta = 3
		fv.ready = true
	} else {
		fv.viewport.Width = width
		fv.viewport.Height = height
	}
}

// SetFocused marks the view as receiving keys.
func (fv *FieldView) SetFocused(f bool) {
	fv.focused = f
}

// Focused reports whether the view receives keys.
func (fv *FieldView) Focused() bool {
	return fv.focused
}

// Clear shows the welcome screen.
func (fv *FieldView) Clear() {
	fv.contentSet = false
}

// SetFields renders header and fields, highlighting the cursor row.
// A non-empty problem replaces the rows.
func (fv *FieldView) SetFields(header string, fields []render.Field, cursor int, problem string) {
	if !fv.ready {
		return
	}
	t := theme.Current

	pathStyle := lipgloss.NewStyle().Foreground(t.Path)
	valueStyle := lipgloss.NewStyle().Foreground(t.Value)
	linkStyle := lipgloss.NewStyle().Foreground(t.Link).Underline(true)
	indexStyle := lipgloss.NewStyle().Foreground(t.LinkIndex).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true)
	cursorStyle := lipgloss.NewStyle().Background(t.Selection)
	errorStyle := lipgloss.NewStyle().Foreground(t.Error).Bold(true)

	var sb strings.Builder
	headerLines := 0
	if header != "" {
		sb.WriteString(header)
		sb.WriteString("\n\n")
		headerLines = strings.Count(header, "\n") + 2
	}

	switch {
	case problem != "":
		sb.WriteString(errorStyle.Render("  " + problem))
	case len(fields) == 0:
		sb.WriteString(dimStyle.Render("  no fields"))
	}

	pathWidth := 0
	for _, f := range fields {
		pathWidth = max(pathWidth, ansi.StringWidth(f.Path))
	}
	width := fv.viewport.Width
	pathWidth = min(pathWidth, max(12, width*2/5))

	for i, f := range fields {
		path := ansi.Truncate(f.Path, pathWidth, "…")
		path += strings.Repeat(" ", pathWidth-ansi.StringWidth(path))

		var value string
		if f.IsLink() {
			value = indexStyle.Render(fmt.Sprintf("[%d]", f.LinkIndex)) + " " + linkStyle.Render(f.LinkName)
		} else {
			room := max(8, width-pathWidth-6)
			value = valueStyle.Render(ansi.Truncate(oneLine(f.Value), room, "…"))
		}

		marker := "  "
		if i == cursor && fv.focused {
			marker = "▸ "
		}
		line := marker + pathStyle.Render(path) + "  " + value
		if i == cursor {
			line = cursorStyle.Render(line)
		}
		sb.WriteString(line)
		if i < len(fields)-1 {
			sb.WriteString("\n")
		}
	}

	fv.viewport.SetContent(sb.String())
	fv.contentSet = true
	fv.cursorLine = headerLines + cursor
	fv.scrollToCursor(len(fields) > 0)
}

// scrollToCursor keeps the cursor line visible, preferring to show the
// header when the cursor is near the top.
func (fv *FieldView) scrollToCursor(hasRows bool) {
	if !hasRows {
		fv.viewport.GotoTop()
		return
	}
	top := fv.viewport.YOffset
	bottom := top + fv.viewport.Height - 1
	switch {
	case fv.cursorLine < fv.viewport.Height:
		fv.viewport.GotoTop()
	case fv.cursorLine < top:
		fv.viewport.SetYOffset(fv.cursorLine)
	case fv.cursorLine > bottom:
		fv.viewport.SetYOffset(fv.cursorLine - fv.viewport.Height + 1)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Update forwards messages to the viewport.
func (fv *FieldView) Update(msg tea.Msg) (*FieldView, tea.Cmd) {
	if !fv.ready {
		return fv, nil
	}
	var cmd tea.Cmd
	fv.viewport, cmd = fv.viewport.Update(msg)
	return fv, cmd
}

// View renders the viewport.
func (fv *FieldView) View() string {
	if !fv.ready {
		return "\n  Initializing..."
	}
	if !fv.contentSet {
		return fv.renderWelcome()
	}
	return fv.viewport.View()
}

// ScrollInfo returns a string like "42%" or "TOP" or "BOT".
func (fv *FieldView) ScrollInfo() string {
	if !fv.ready {
		return "TOP"
	}
	pct := fv.viewport.ScrollPercent()
	switch {
	case pct <= 0:
		return "TOP"
	case pct >= 1:
		return "BOT"
	default:
		return fmt.Sprintf("%d%%", int(pct*100))
	}
}

// Ready reports whether the viewport has been initialized.
func (fv *FieldView) Ready() bool {
	return fv.ready
}

// Width returns the viewport width.
func (fv *FieldView) Width() int {
	if !fv.ready {
		return 0
	}
	return fv.viewport.Width
}

// Height returns the viewport height.
func (fv *FieldView) Height() int {
	if !fv.ready {
		return 0
	}
	return fv.viewport.Height
}

func (fv *FieldView) renderWelcome() string {
	t := theme.Current

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	accentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Link)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Text)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("\n  bpexplorer"))
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render("  Browse blueprints and the links between them"))
	sb.WriteString("\n\n")
	sb.WriteString(accentStyle.Render("  Quick Start"))
	sb.WriteString("\n\n")

	shortcuts := []struct {
		key  string
		desc string
	}{
		{":open <name>", "Find a blueprint by name"},
		{":goto <guid>", "Open a blueprint by identifier"},
		{":recent", "List recently shown blueprints"},
		{"?", "Show all keybindings"},
		{"q", "Quit"},
	}

	for _, s := range shortcuts {
		sb.WriteString(keyStyle.Render(fmt.Sprintf("  %-16s", s.key)))
		sb.WriteString(descStyle.Render(s.desc))
		sb.WriteString("\n")
	}

	return sb.String()
}
