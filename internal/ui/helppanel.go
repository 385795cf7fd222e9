package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/bpexplorer/internal/theme"
)

// HelpBinding is a single key shortcut.
type HelpBinding struct {
	Key  string
	Desc string
}

// HelpGroup is a named group of shortcuts.
type HelpGroup struct {
	Name     string
	Bindings []HelpBinding
}

// HelpPanel renders the key binding overview as a popup.
type HelpPanel struct {
	visible bool
	width   int
	height  int
	groups  []HelpGroup
}

// NewHelpPanel creates a help panel listing groups.
func NewHelpPanel(groups []HelpGroup) *HelpPanel {
	return &HelpPanel{groups: groups}
}

// Show makes the panel visible.
func (hp *HelpPanel) Show() {
	hp.visible = true
}

// Hide closes the panel.
func (hp *HelpPanel) Hide() {
	hp.visible = false
}

// Toggle switches visibility.
func (hp *HelpPanel) Toggle() {
	hp.visible = !hp.visible
}

// IsVisible reports whether the panel is shown.
func (hp *HelpPanel) IsVisible() bool {
	return hp.visible
}

// SetSize sets the available area for rendering.
func (hp *HelpPanel) SetSize(w, h int) {
	hp.width = w
	hp.height = h
}

// View renders the help as a bordered popup.
func (hp *HelpPanel) View() string {
	if !hp.visible {
		return ""
	}

	t := theme.Current

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary)

	groupNameStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Underline(true)

	keyStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Link)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Text)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Italic(true)

	separatorStyle := lipgloss.NewStyle().
		Foreground(t.Border)

	const (
		keyWidth = 12
		colWidth = 34
	)

	maxRows := 0
	for _, g := range hp.groups {
		maxRows = max(maxRows, len(g.Bindings))
	}

	colStyle := lipgloss.NewStyle().Width(colWidth)

	var columns []string
	for i, group := range hp.groups {
		lines := []string{groupNameStyle.Render(group.Name), ""}
		for _, b := range group.Bindings {
			lines = append(lines, keyStyle.Render(fmt.Sprintf("%-*s", keyWidth, b.Key))+descStyle.Render(b.Desc))
		}
		for j := len(group.Bindings); j < maxRows; j++ {
			lines = append(lines, "")
		}
		col := colStyle.Render(strings.Join(lines, "\n"))
		columns = append(columns, col)

		if i < len(hp.groups)-1 {
			sep := strings.TrimSuffix(strings.Repeat(" │ \n", lipgloss.Height(col)), "\n")
			columns = append(columns, separatorStyle.Render(sep))
		}
	}

	// Stack columns in rows of two so the popup fits narrow terminals.
	var rows []string
	for i := 0; i < len(columns); i += 4 {
		end := min(i+3, len(columns))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, columns[i:end]...))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	bodyWidth := lipgloss.Width(body)
	rule := separatorStyle.Render(strings.Repeat("─", bodyWidth))

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Key bindings"),
		rule,
		"",
		body,
		"",
		rule,
		dimStyle.Render("press ? or Esc to dismiss"),
	)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2)

	return boxStyle.Render(content)
}
