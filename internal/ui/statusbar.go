package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/vidyasagar/bpexplorer/internal/theme"
)

// Modes shown in the status bar.
const (
	ModeNormal  = "NORMAL"
	ModeFilter  = "FILTER"
	ModeCommand = "COMMAND"
	ModeFollow  = "FOLLOW"
	ModeRefs    = "REFS"
	ModeHelp    = "HELP"
)

// StatusBar shows the current blueprint info at the bottom of the screen.
type StatusBar struct {
	path       string
	position   string
	scrollInfo string
	mode       string
	linkCount  int
	refCount   int
	width      int
	message    string // temporary status message
	isError    bool
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{
		mode: ModeNormal,
		path: "-",
	}
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// SetPath updates the hovered field path.
func (s *StatusBar) SetPath(path string) {
	s.path = path
}

// SetPosition sets the history position, e.g. "3/5".
func (s *StatusBar) SetPosition(pos string) {
	s.position = pos
}

// SetScrollInfo sets the scroll position string (e.g. "42%", "TOP", "BOT").
func (s *StatusBar) SetScrollInfo(info string) {
	s.scrollInfo = info
}

// SetMode sets the current mode indicator.
func (s *StatusBar) SetMode(mode string) {
	s.mode = mode
}

// Mode returns the current mode indicator.
func (s *StatusBar) Mode() string {
	return s.mode
}

// SetCounts sets the link and back-reference counts displayed.
func (s *StatusBar) SetCounts(links, refs int) {
	s.linkCount = links
	s.refCount = refs
}

// SetMessage sets a temporary status message.
func (s *StatusBar) SetMessage(msg string) {
	s.message = msg
	s.isError = false
}

// SetError sets a temporary error message.
func (s *StatusBar) SetError(msg string) {
	s.message = msg
	s.isError = true
}

// Message returns the temporary status message.
func (s *StatusBar) Message() string {
	return s.message
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := theme.Current

	modeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Surface).
		Padding(0, 1)

	switch s.mode {
	case ModeNormal:
		modeStyle = modeStyle.Background(t.Primary)
	case ModeFilter:
		modeStyle = modeStyle.Background(t.Success)
	case ModeCommand:
		modeStyle = modeStyle.Background(t.Accent)
	case ModeFollow:
		modeStyle = modeStyle.Background(t.Link)
	default:
		modeStyle = modeStyle.Background(t.Info)
	}

	mode := modeStyle.Render(s.mode)

	barStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface)

	// Right side: counts, history position, scroll.
	rightStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface).
		Padding(0, 1)

	right := rightStyle.Render(fmt.Sprintf("%d links  %d refs", s.linkCount, s.refCount))
	if s.position != "" {
		right += rightStyle.Render(s.position)
	}
	if s.scrollInfo != "" {
		scrollStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			Background(t.Surface).
			Padding(0, 1)
		right += scrollStyle.Render(s.scrollInfo)
	}

	// Left side: message or hovered path.
	room := s.width - lipgloss.Width(mode) - lipgloss.Width(right) - 2
	if room < 4 {
		room = 4
	}
	var left string
	switch {
	case s.message != "" && s.isError:
		left = lipgloss.NewStyle().
			Foreground(t.Error).
			Background(t.Surface).
			Bold(true).
			Padding(0, 1).
			Render(ansi.Truncate(s.message, room, "…"))
	case s.message != "":
		left = lipgloss.NewStyle().
			Foreground(t.Info).
			Background(t.Surface).
			Padding(0, 1).
			Render(ansi.Truncate(s.message, room, "…"))
	default:
		left = lipgloss.NewStyle().
			Foreground(t.Path).
			Background(t.Surface).
			Padding(0, 1).
			Render(ansi.Truncate(s.path, room, "…"))
	}

	// Calculate spacing.
	spacerWidth := s.width - lipgloss.Width(mode) - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 0 {
		spacerWidth = 0
	}

	spacerStyle := lipgloss.NewStyle().
		Background(t.Surface)
	spacer := spacerStyle.Render(fmt.Sprintf("%*s", spacerWidth, ""))

	return barStyle.Render(mode + left + spacer + right)
}
