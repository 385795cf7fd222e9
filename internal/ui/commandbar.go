package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/bpexplorer/internal/theme"
)

// CommandType identifies the kind of command bar interaction.
type CommandType int

const (
	CommandNone         CommandType = iota
	CommandEx                       // : commands
	CommandFollow                   // f link follow
	CommandFollowNewTab             // F link follow into a new tab
)

// CommandResult is emitted when a command is submitted.
type CommandResult struct {
	Type  CommandType
	Value string
}

// ExCommand describes one : command for completion.
type ExCommand struct {
	Name string
	Args string // usage hint, empty when the command takes none
}

// ExCommands lists the : commands in completion order.
var ExCommands = []ExCommand{
	{Name: "open", Args: "<name>"},
	{Name: "goto", Args: "<guid>"},
	{Name: "recent"},
	{Name: "refs"},
	{Name: "filter", Args: "[text]"},
	{Name: "tabnew", Args: "[name|guid]"},
	{Name: "tabclose"},
	{Name: "theme", Args: "[name]"},
	{Name: "help"},
	{Name: "quit"},
}

// CommandBar reads : commands, with tab completion and history, and the
// link numbers for f and F.
type CommandBar struct {
	input      textinput.Model
	active     bool
	cmdType    CommandType
	width      int
	links      int
	history    []string
	historyPos int
}

// NewCommandBar creates a new command bar.
func NewCommandBar() *CommandBar {
	ti := textinput.New()
	ti.CharLimit = 256

	return &CommandBar{
		input:      ti,
		historyPos: -1,
	}
}

// SetWidth sets the command bar width.
func (c *CommandBar) SetWidth(w int) {
	c.width = w
	c.input.Width = w - 4
}

// SetLinkCount sets the number of links f and F can choose from.
func (c *CommandBar) SetLinkCount(n int) {
	c.links = n
}

// exSuggestions completes command names, and theme names after "theme ".
func exSuggestions() []string {
	var s []string
	for _, cmd := range ExCommands {
		if cmd.Args == "" {
			s = append(s, cmd.Name)
		} else {
			s = append(s, cmd.Name+" ")
		}
	}
	for _, name := range theme.List() {
		s = append(s, "theme "+name)
	}
	return s
}

func exPlaceholder() string {
	parts := make([]string, 0, len(ExCommands))
	for _, cmd := range ExCommands {
		if cmd.Args != "" {
			parts = append(parts, cmd.Name+" "+cmd.Args)
		} else {
			parts = append(parts, cmd.Name)
		}
	}
	return strings.Join(parts, " | ")
}

func (c *CommandBar) linkPlaceholder() string {
	switch c.links {
	case 0:
		return "no links"
	case 1:
		return "link 1"
	default:
		return fmt.Sprintf("link 1-%d", c.links)
	}
}

// Open activates the bar for ct.
func (c *CommandBar) Open(ct CommandType) tea.Cmd {
	c.active = true
	c.cmdType = ct
	c.input.Reset()
	c.historyPos = -1

	switch ct {
	case CommandEx:
		c.input.Prompt = ":"
		c.input.Placeholder = exPlaceholder()
		c.input.ShowSuggestions = true
		c.input.SetSuggestions(exSuggestions())
	case CommandFollow, CommandFollowNewTab:
		c.input.Prompt = "f"
		c.input.Placeholder = c.linkPlaceholder()
		if ct == CommandFollowNewTab {
			c.input.Prompt = "F"
			c.input.Placeholder += " (new tab)"
		}
		c.input.SetSuggestions(nil)
		c.input.ShowSuggestions = false
	}

	return c.input.Focus()
}

// Close deactivates the command bar.
func (c *CommandBar) Close() {
	c.active = false
	c.cmdType = CommandNone
	c.input.Blur()
	c.input.Reset()
}

// IsActive reports whether the command bar is open.
func (c *CommandBar) IsActive() bool {
	return c.active
}

// SetValue replaces the typed text.
func (c *CommandBar) SetValue(val string) {
	c.input.SetValue(val)
	c.input.CursorEnd()
}

// Value returns the text typed so far.
func (c *CommandBar) Value() string {
	return c.input.Value()
}

// Type returns the current command type.
func (c *CommandBar) Type() CommandType {
	return c.cmdType
}

// Submit closes the bar and returns what was typed. Ex commands are kept
// in the history unless they repeat the previous one.
func (c *CommandBar) Submit() CommandResult {
	val := strings.TrimSpace(c.input.Value())
	result := CommandResult{
		Type:  c.cmdType,
		Value: val,
	}

	if val != "" && c.cmdType == CommandEx {
		if n := len(c.history); n == 0 || c.history[n-1] != val {
			c.history = append(c.history, val)
		}
	}

	c.Close()
	return result
}

// Update processes messages for the command bar.
func (c *CommandBar) Update(msg tea.Msg) (*CommandBar, tea.Cmd) {
	if !c.active {
		return c, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			c.Close()
			return c, nil
		case tea.KeyEnter:
			return c, nil
		case tea.KeyUp:
			if c.cmdType == CommandEx {
				c.recall(1)
			}
			return c, nil
		case tea.KeyDown:
			if c.cmdType == CommandEx {
				c.recall(-1)
			}
			return c, nil
		case tea.KeyRunes:
			if c.cmdType != CommandEx && !allDigits(msg.Runes) {
				return c, nil
			}
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// recall steps through the ex history; positive steps go further back.
func (c *CommandBar) recall(step int) {
	if len(c.history) == 0 {
		return
	}
	pos := min(c.historyPos+step, len(c.history)-1)
	if pos < 0 {
		c.historyPos = -1
		c.input.Reset()
		return
	}
	c.historyPos = pos
	c.SetValue(c.history[len(c.history)-1-pos])
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(rs) > 0
}

// View renders the command bar.
func (c *CommandBar) View() string {
	if !c.active {
		return ""
	}

	t := theme.Current
	c.input.PromptStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	c.input.PlaceholderStyle = lipgloss.NewStyle().Foreground(t.TextDim)
	c.input.CompletionStyle = lipgloss.NewStyle().Foreground(t.TextDim)

	barStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface).
		Width(c.width)

	return barStyle.Render(c.input.View())
}
