package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/bpexplorer/internal/theme"
)

// SplitDirection defines horizontal or vertical splits.
type SplitDirection int

const (
	SplitVertical   SplitDirection = iota // side by side
	SplitHorizontal                       // top and bottom
)

// Pane identifies one side of a split.
type Pane int

const (
	PaneFields Pane = iota
	PaneReferences
)

// narrowWidth is the width below which the reference list moves under the fields.
const narrowWidth = 90

// SplitPane lays out the field view and the reference list and tracks
// which of them has focus.
type SplitPane struct {
	Direction SplitDirection
	Ratio     float64 // 0.0-1.0, proportion of the field view
	Active    Pane
	width     int
	height    int
}

// NewSplitPane creates a split with the field view focused.
func NewSplitPane() *SplitPane {
	return &SplitPane{
		Direction: SplitVertical,
		Ratio:     0.65,
		Active:    PaneFields,
	}
}

// SetSize updates the split dimensions and picks a direction that fits.
func (sp *SplitPane) SetSize(w, h int) {
	sp.width = w
	sp.height = h
	if w < narrowWidth {
		sp.Direction = SplitHorizontal
	} else {
		sp.Direction = SplitVertical
	}
}

// Toggle switches focus between the panes.
func (sp *SplitPane) Toggle() {
	if sp.Active == PaneFields {
		sp.Active = PaneReferences
	} else {
		sp.Active = PaneFields
	}
}

// FirstPaneDimensions returns the width and height for the field view.
func (sp *SplitPane) FirstPaneDimensions() (int, int) {
	switch sp.Direction {
	case SplitHorizontal:
		h := int(float64(sp.height)*sp.Ratio) - 1
		return sp.width, max(h, 1)
	default:
		w := int(float64(sp.width)*sp.Ratio) - 1 // -1 for border
		return max(w, 1), sp.height
	}
}

// SecondPaneDimensions returns the width and height for the reference list.
func (sp *SplitPane) SecondPaneDimensions() (int, int) {
	switch sp.Direction {
	case SplitHorizontal:
		_, h1 := sp.FirstPaneDimensions()
		return sp.width, max(sp.height-h1-1, 1)
	default:
		w1, _ := sp.FirstPaneDimensions()
		return max(sp.width-w1-1, 1), sp.height
	}
}

// SecondPaneOrigin returns the offset of the reference list within the split.
func (sp *SplitPane) SecondPaneOrigin() (x, y int) {
	w1, h1 := sp.FirstPaneDimensions()
	if sp.Direction == SplitHorizontal {
		return 0, h1 + 1
	}
	return w1 + 1, 0
}

// RenderSplit renders the two panes in the split layout.
func (sp *SplitPane) RenderSplit(first, second string) string {
	t := theme.Current

	borderStyle := lipgloss.NewStyle().
		Foreground(t.Border)

	w1, h1 := sp.FirstPaneDimensions()
	w2, h2 := sp.SecondPaneDimensions()

	firstStyle := lipgloss.NewStyle().
		Width(w1).
		Height(h1).
		MaxHeight(h1)

	secondStyle := lipgloss.NewStyle().
		Width(w2).
		Height(h2).
		MaxHeight(h2)

	if sp.Direction == SplitHorizontal {
		divider := borderStyle.Render(strings.Repeat("─", sp.width))
		return lipgloss.JoinVertical(
			lipgloss.Left,
			firstStyle.Render(first),
			divider,
			secondStyle.Render(second),
		)
	}

	divider := borderStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", sp.height), "\n"))
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		firstStyle.Render(first),
		divider,
		secondStyle.Render(second),
	)
}
