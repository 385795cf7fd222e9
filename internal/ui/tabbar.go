package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/vidyasagar/bpexplorer/internal/theme"
)

// Tab is one explorer tab. ID stays stable while tabs move.
type Tab struct {
	ID    int
	Title string
}

// TabBar manages and renders tabs.
type TabBar struct {
	tabs       []Tab
	active     int
	nextID     int
	width      int
	maxVisible int
}

// NewTabBar creates a tab bar with one initial tab.
func NewTabBar() *TabBar {
	tb := &TabBar{
		nextID:     1,
		maxVisible: 8,
	}
	tb.tabs = append(tb.tabs, Tab{ID: tb.nextID})
	return tb
}

// SetWidth sets the tab bar width.
func (tb *TabBar) SetWidth(w int) {
	tb.width = w
	// Adjust visible tabs based on width.
	tb.maxVisible = w / 20
	if tb.maxVisible < 2 {
		tb.maxVisible = 2
	}
	if tb.maxVisible > 10 {
		tb.maxVisible = 10
	}
}

// NewTab inserts a tab after the active one and switches to it.
// It returns the new tab's index and ID.
func (tb *TabBar) NewTab() (int, int) {
	tb.nextID++
	insertAt := tb.active + 1
	if insertAt > len(tb.tabs) {
		insertAt = len(tb.tabs)
	}
	tb.tabs = append(tb.tabs[:insertAt], append([]Tab{{ID: tb.nextID}}, tb.tabs[insertAt:]...)...)
	tb.active = insertAt
	return tb.active, tb.nextID
}

// CloseTab closes the tab at the given index. The last tab cannot be closed.
func (tb *TabBar) CloseTab(idx int) bool {
	if len(tb.tabs) <= 1 {
		return false
	}
	if idx < 0 || idx >= len(tb.tabs) {
		return false
	}
	tb.tabs = append(tb.tabs[:idx], tb.tabs[idx+1:]...)
	if tb.active >= len(tb.tabs) {
		tb.active = len(tb.tabs) - 1
	} else if tb.active > idx {
		tb.active--
	}
	return true
}

// NextTab switches to the next tab.
func (tb *TabBar) NextTab() {
	if len(tb.tabs) > 1 {
		tb.active = (tb.active + 1) % len(tb.tabs)
	}
}

// PrevTab switches to the previous tab.
func (tb *TabBar) PrevTab() {
	if len(tb.tabs) > 1 {
		tb.active--
		if tb.active < 0 {
			tb.active = len(tb.tabs) - 1
		}
	}
}

// Active returns the active tab index.
func (tb *TabBar) Active() int {
	return tb.active
}

// IndexOf returns the index of the tab with the given ID, or -1.
func (tb *TabBar) IndexOf(id int) int {
	for i, t := range tb.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// IDAt returns the ID of the tab at idx.
func (tb *TabBar) IDAt(idx int) int {
	if idx < 0 || idx >= len(tb.tabs) {
		return 0
	}
	return tb.tabs[idx].ID
}

// SetTitle sets the title of the tab with the given ID.
func (tb *TabBar) SetTitle(id int, title string) {
	if i := tb.IndexOf(id); i >= 0 {
		tb.tabs[i].Title = title
	}
}

// Title returns the title of the tab at idx.
func (tb *TabBar) Title(idx int) string {
	if idx < 0 || idx >= len(tb.tabs) {
		return ""
	}
	return tb.tabs[idx].Title
}

// Count returns the number of tabs.
func (tb *TabBar) Count() int {
	return len(tb.tabs)
}

// View renders the tab bar.
func (tb *TabBar) View() string {
	t := theme.Current

	activeStyle := lipgloss.NewStyle().
		Foreground(t.CrumbActive).
		Background(t.TabActive).
		Bold(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.TabInactive)

	separatorStyle := lipgloss.NewStyle().
		Foreground(t.Border)

	overflowStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	// Determine visible tab range.
	start := 0
	end := len(tb.tabs)
	if end > tb.maxVisible {
		start = tb.active - tb.maxVisible/2
		if start < 0 {
			start = 0
		}
		end = start + tb.maxVisible
		if end > len(tb.tabs) {
			end = len(tb.tabs)
			start = end - tb.maxVisible
			if start < 0 {
				start = 0
			}
		}
	}

	var sb strings.Builder

	if start > 0 {
		sb.WriteString(overflowStyle.Render(fmt.Sprintf(" +%d ", start)))
	}

	maxTitleLen := 8
	if tb.maxVisible > 0 {
		maxTitleLen = max(8, tb.width/tb.maxVisible-6)
	}

	for i := start; i < end; i++ {
		title := tb.tabs[i].Title
		if title == "" {
			title = "empty"
		}
		label := fmt.Sprintf(" %d:%s ", i+1, ansi.Truncate(title, maxTitleLen, "…"))

		if i == tb.active {
			sb.WriteString(activeStyle.Render(label))
		} else {
			sb.WriteString(inactiveStyle.Render(label))
		}

		if i < end-1 {
			sb.WriteString(separatorStyle.Render("|"))
		}
	}

	if end < len(tb.tabs) {
		sb.WriteString(overflowStyle.Render(fmt.Sprintf(" +%d ", len(tb.tabs)-end)))
	}

	barStyle := lipgloss.NewStyle().
		Background(t.Surface).
		Width(tb.width)

	return barStyle.Render(sb.String())
}
