package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/vidyasagar/bpexplorer/internal/navigator"
	"github.com/vidyasagar/bpexplorer/internal/theme"
)

const crumbSeparator = " › "

// BreadcrumbStrip renders a navigator's history as a clickable strip.
// It satisfies navigator.Breadcrumb.
type BreadcrumbStrip struct {
	crumbs []navigator.Crumb
	width  int
}

// crumbSpan is the on-screen extent of one crumb, in cells.
type crumbSpan struct {
	crumb      navigator.Crumb
	label      string
	start, end int
}

// NewBreadcrumbStrip creates an empty strip.
func NewBreadcrumbStrip() *BreadcrumbStrip {
	return &BreadcrumbStrip{}
}

// SetCrumbs replaces the displayed elements.
func (b *BreadcrumbStrip) SetCrumbs(crumbs []navigator.Crumb) {
	b.crumbs = append(b.crumbs[:0], crumbs...)
}

// Crumbs returns the displayed elements.
func (b *BreadcrumbStrip) Crumbs() []navigator.Crumb {
	result := make([]navigator.Crumb, len(b.crumbs))
	copy(result, b.crumbs)
	return result
}

// SetWidth sets the strip width. Zero means unlimited.
func (b *BreadcrumbStrip) SetWidth(w int) {
	b.width = w
}

func (b *BreadcrumbStrip) maxLabel() int {
	if b.width <= 0 {
		return 32
	}
	return max(8, b.width/3)
}

func (b *BreadcrumbStrip) label(c navigator.Crumb) string {
	return " " + ansi.Truncate(c.Name, b.maxLabel(), "…") + " "
}

func overflowLabel(n int) string {
	return fmt.Sprintf(" +%d ", n)
}

// layout picks the visible crumbs, keeping the active one on screen, and
// returns their spans plus the hidden counts on either side.
func (b *BreadcrumbStrip) layout() (spans []crumbSpan, hiddenLeft, hiddenRight int) {
	if len(b.crumbs) == 0 {
		return nil, 0, 0
	}
	labels := make([]string, len(b.crumbs))
	active := len(b.crumbs) - 1
	for i, c := range b.crumbs {
		labels[i] = b.label(c)
		if c.Active {
			active = i
		}
	}

	sepWidth := ansi.StringWidth(crumbSeparator)
	widthOf := func(start, end int) int {
		w := 0
		if start > 0 {
			w += ansi.StringWidth(overflowLabel(start))
		}
		for i := start; i < end; i++ {
			w += ansi.StringWidth(labels[i])
			if i < end-1 {
				w += sepWidth
			}
		}
		if end < len(labels) {
			w += ansi.StringWidth(overflowLabel(len(labels) - end))
		}
		return w
	}

	start, end := 0, len(labels)
	if b.width > 0 {
		for widthOf(start, end) > b.width && start < active {
			start++
		}
		for widthOf(start, end) > b.width && end-1 > active {
			end--
		}
	}

	x := 0
	if start > 0 {
		x += ansi.StringWidth(overflowLabel(start))
	}
	for i := start; i < end; i++ {
		w := ansi.StringWidth(labels[i])
		spans = append(spans, crumbSpan{crumb: b.crumbs[i], label: labels[i], start: x, end: x + w})
		x += w + sepWidth
	}
	return spans, start, len(labels) - end
}

// IndexAt returns the history index of the crumb at column x, or -1.
func (b *BreadcrumbStrip) IndexAt(x int) int {
	spans, _, _ := b.layout()
	for _, s := range spans {
		if x >= s.start && x < s.end {
			return s.crumb.Index
		}
	}
	return -1
}

// View renders the strip. The active crumb is bold, the others italic.
func (b *BreadcrumbStrip) View() string {
	t := theme.Current

	activeStyle := lipgloss.NewStyle().
		Foreground(t.CrumbActive).
		Bold(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.CrumbInactive).
		Italic(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	spans, left, right := b.layout()

	var sb strings.Builder
	if left > 0 {
		sb.WriteString(dimStyle.Render(overflowLabel(left)))
	}
	for i, s := range spans {
		if s.crumb.Active {
			sb.WriteString(activeStyle.Render(s.label))
		} else {
			sb.WriteString(inactiveStyle.Render(s.label))
		}
		if i < len(spans)-1 {
			sb.WriteString(dimStyle.Render(crumbSeparator))
		}
	}
	if right > 0 {
		sb.WriteString(dimStyle.Render(overflowLabel(right)))
	}

	barStyle := lipgloss.NewStyle().
		Background(t.Surface)
	if b.width > 0 {
		barStyle = barStyle.Width(b.width).MaxWidth(b.width)
	}
	return barStyle.Render(sb.String())
}
