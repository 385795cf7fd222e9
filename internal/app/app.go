package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
	"github.com/vidyasagar/bpexplorer/internal/logging"
	"github.com/vidyasagar/bpexplorer/internal/navigator"
	"github.com/vidyasagar/bpexplorer/internal/storage"
	"github.com/vidyasagar/bpexplorer/internal/theme"
	"github.com/vidyasagar/bpexplorer/internal/ui"
)

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal  Mode = iota
	ModeFilter       // filter bar focused
	ModeCommand      // command bar active
	ModeHelp         // help panel shown
)

// Screen rows above the split.
const (
	tabBarRow     = 0
	breadcrumbRow = 1
	splitTop      = 5 // tab bar, breadcrumb, 3-line filter bar
)

// recentLimit is the number of visits :recent lists.
const recentLimit = 100

// Options configures a Model.
type Options struct {
	Catalog Catalog
	Recent  VisitLog // optional
	Config  *storage.Config
	Start   string // guid or name shown in the first tab
}

// Model is the top-level bubbletea model for bpexplorer.
type Model struct {
	ws *workspace

	// UI components
	filterBar  *ui.FilterBar
	commandBar *ui.CommandBar
	helpPanel  *ui.HelpPanel

	keys     KeyMap
	mode     Mode
	width    int
	height   int
	lastGKey bool // for "gg", "gt" and "gT"
	ready    bool
}

// New creates a new bpexplorer Model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		d := storage.DefaultConfig()
		cfg = &d
	}
	keys := DefaultKeyMap()
	m := Model{
		ws:         newWorkspace(opts.Catalog, opts.Recent, cfg),
		filterBar:  ui.NewFilterBar(),
		commandBar: ui.NewCommandBar(),
		helpPanel:  ui.NewHelpPanel(keys.HelpGroups()),
		keys:       keys,
		mode:       ModeNormal,
	}

	if opts.Start != "" {
		if h, err := m.find(opts.Start); err != nil {
			m.ws.statusBar.SetError(err.Error())
		} else {
			m.ws.active().nav.Show(h, navigator.Reroot)
		}
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case editorClosedMsg:
		os.Remove(msg.path)
		if msg.err != nil {
			logging.Error(msg.err)
			m.ws.statusBar.SetError(fmt.Sprintf("editor: %v", msg.err))
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		var next tea.Model
		next, cmd = m.handleKeyMsg(msg)
		m = next.(Model)
	}

	m.refresh()
	return m, tea.Batch(cmd, m.ws.drain())
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading bpexplorer..."
	}

	p := m.ws.active()

	// Layout:
	// [tab bar]
	// [breadcrumb strip]
	// [filter bar]
	// [fields | references]
	// [status bar]
	// [command bar] (if active)
	sections := []string{
		m.ws.tabBar.View(),
		p.strip.View(),
		m.filterBar.View(),
		m.ws.split.RenderSplit(p.fields.View(), p.refs.View()),
		m.ws.statusBar.View(),
	}
	if m.commandBar.IsActive() {
		sections = append(sections, m.commandBar.View())
	}

	result := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.helpPanel.IsVisible() {
		result = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpPanel.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(theme.Current.Surface),
		)
	}

	return result
}

// layout recalculates dimensions for all components.
func (m *Model) layout() {
	m.ws.tabBar.SetWidth(m.width)
	m.filterBar.SetWidth(m.width)
	m.ws.statusBar.SetWidth(m.width)
	m.commandBar.SetWidth(m.width)
	m.helpPanel.SetSize(m.width, m.height)

	statusBarHeight := 1
	commandBarHeight := 0
	if m.commandBar.IsActive() {
		commandBarHeight = 1
	}
	splitHeight := m.height - splitTop - statusBarHeight - commandBarHeight
	if splitHeight < 2 {
		splitHeight = 2
	}
	m.ws.resize(m.width, splitHeight)
}

// refresh pushes the active pane's state into the screen components.
func (m *Model) refresh() {
	p := m.ws.active()
	if p == nil {
		return
	}
	p.setFocus(m.ws.split.Active)
	p.render()

	sb := m.ws.statusBar
	sb.SetPath(p.nav.CurrentPath())
	sb.SetScrollInfo(p.fields.ScrollInfo())
	sb.SetCounts(len(p.view.Links()), len(p.nav.References()))
	if p.nav.Len() > 0 {
		sb.SetPosition(fmt.Sprintf("%d/%d", p.nav.ActiveIndex()+1, p.nav.Len()))
	} else {
		sb.SetPosition("")
	}

	if m.mode != ModeFilter && m.filterBar.Value() != p.nav.FilterText() {
		m.filterBar.SetValue(p.nav.FilterText())
	}

	switch m.mode {
	case ModeFilter:
		sb.SetMode(ui.ModeFilter)
	case ModeCommand:
		if m.commandBar.Type() == ui.CommandEx {
			sb.SetMode(ui.ModeCommand)
		} else {
			sb.SetMode(ui.ModeFollow)
		}
	case ModeHelp:
		sb.SetMode(ui.ModeHelp)
	default:
		if m.ws.split.Active == ui.PaneReferences {
			sb.SetMode(ui.ModeRefs)
		} else {
			sb.SetMode(ui.ModeNormal)
		}
	}
}

// handleKeyMsg processes key events based on current mode.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Always allow Ctrl+C to quit.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeFilter:
		return m.handleFilterMode(msg)
	case ModeCommand:
		return m.handleCommandMode(msg)
	case ModeHelp:
		if msg.String() == "?" || msg.Type == tea.KeyEsc || msg.String() == "q" {
			m.helpPanel.Hide()
			m.mode = ModeNormal
		}
		return m, nil
	default:
		return m.handleNormalMode(msg)
	}
}

// handleNormalMode processes keys while browsing.
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.ws.active()
	refsFocused := m.ws.split.Active == ui.PaneReferences
	m.ws.statusBar.SetMessage("")

	// g-prefixed sequences: gg, gt, gT.
	if m.lastGKey {
		m.lastGKey = false
		switch {
		case key.Matches(msg, m.keys.GotoTop):
			if refsFocused {
				p.refs.GotoTop()
			} else {
				p.view.CursorHome()
			}
			return m, nil
		case key.Matches(msg, m.keys.NextTab):
			m.ws.tabBar.NextTab()
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.ws.tabBar.PrevTab()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.GotoTop):
		m.lastGKey = true
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if refsFocused {
			p.refs.CursorDown()
		} else {
			p.view.MoveCursor(1)
		}

	case key.Matches(msg, m.keys.Up):
		if refsFocused {
			p.refs.CursorUp()
		} else {
			p.view.MoveCursor(-1)
		}

	case key.Matches(msg, m.keys.HalfPageDown):
		if refsFocused {
			p.refs.HalfPageDown()
		} else {
			p.view.MoveCursor(max(1, p.fields.Height()/2))
		}

	case key.Matches(msg, m.keys.HalfPageUp):
		if refsFocused {
			p.refs.HalfPageUp()
		} else {
			p.view.MoveCursor(-max(1, p.fields.Height()/2))
		}

	case key.Matches(msg, m.keys.GotoBottom):
		if refsFocused {
			p.refs.GotoBottom()
		} else {
			p.view.CursorEnd()
		}

	case key.Matches(msg, m.keys.Back):
		m.navigate(p, navigator.RelativeBackOne)
	case key.Matches(msg, m.keys.Forward):
		m.navigate(p, navigator.RelativeForwardOne)
	case key.Matches(msg, m.keys.First):
		m.navigate(p, navigator.AbsoluteFirst)
	case key.Matches(msg, m.keys.Last):
		m.navigate(p, navigator.AbsoluteLast)

	case key.Matches(msg, m.keys.Select):
		if refsFocused {
			if i, ok := p.refs.Selected(); ok {
				p.selectRow(i)
			}
		} else {
			p.view.FollowCursor(false)
		}

	case key.Matches(msg, m.keys.FollowLink):
		return m.openCommandBar(ui.CommandFollow)
	case key.Matches(msg, m.keys.FollowNewTab):
		return m.openCommandBar(ui.CommandFollowNewTab)
	case key.Matches(msg, m.keys.CommandMode):
		return m.openCommandBar(ui.CommandEx)

	case key.Matches(msg, m.keys.Filter):
		m.mode = ModeFilter
		return m, m.filterBar.Focus()

	case key.Matches(msg, m.keys.FilterToCursor):
		p.view.FilterToCursor()

	case key.Matches(msg, m.keys.ClearFilter):
		if p.nav.FilterText() != "" {
			p.nav.FilterChanged("")
		} else if p.listing == listRecent {
			p.showReferences()
		}

	case key.Matches(msg, m.keys.OpenExternally):
		if !p.nav.OpenExternally() {
			m.ws.statusBar.SetMessage("Nothing to open")
		}

	case key.Matches(msg, m.keys.ToggleFocus):
		m.ws.split.Toggle()

	case key.Matches(msg, m.keys.NewTab):
		m.ws.openTab(p.nav.Current())

	case key.Matches(msg, m.keys.CloseTab):
		if !p.nav.Close() {
			m.ws.statusBar.SetMessage("Cannot close the last tab")
		}

	case key.Matches(msg, m.keys.Help):
		m.helpPanel.Show()
		m.mode = ModeHelp
	}

	return m, nil
}

func (m Model) navigate(p *pane, to navigator.Direction) {
	if p.nav.NavigateRequested(to) {
		logging.Trace("history.navigate", map[string]any{
			"tab":   p.tabID,
			"to":    to.String(),
			"index": p.nav.ActiveIndex(),
		})
	}
}

func (m Model) openCommandBar(ct ui.CommandType) (tea.Model, tea.Cmd) {
	m.mode = ModeCommand
	m.commandBar.SetLinkCount(len(m.ws.active().view.Links()))
	cmd := m.commandBar.Open(ct)
	m.layout()
	return m, cmd
}

// handleFilterMode processes keys while the filter bar is focused.
// The filter applies as it is typed.
func (m Model) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.ws.active()

	switch msg.Type {
	case tea.KeyEsc:
		m.filterBar.Reset()
		p.nav.FilterChanged("")
		m.filterBar.Blur()
		m.mode = ModeNormal
		return m, nil

	case tea.KeyEnter:
		m.filterBar.Blur()
		m.mode = ModeNormal
		return m, nil
	}

	fb, cmd := m.filterBar.Update(msg)
	m.filterBar = fb
	if m.filterBar.Value() != p.nav.FilterText() {
		p.nav.FilterChanged(m.filterBar.Value())
	}
	return m, cmd
}

// handleCommandMode processes keys in command and follow modes.
func (m Model) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commandBar.Close()
		m.mode = ModeNormal
		m.layout()
		return m, nil

	case tea.KeyEnter:
		result := m.commandBar.Submit()
		m.mode = ModeNormal
		m.layout()
		return m.handleCommandResult(result)
	}

	cb, cmd := m.commandBar.Update(msg)
	m.commandBar = cb
	return m, cmd
}

// handleCommandResult processes a submitted command.
func (m Model) handleCommandResult(result ui.CommandResult) (tea.Model, tea.Cmd) {
	switch result.Type {
	case ui.CommandEx:
		return m.executeCommand(result.Value)
	case ui.CommandFollow:
		m.followLink(result.Value, false)
	case ui.CommandFollowNewTab:
		m.followLink(result.Value, true)
	}
	return m, nil
}

// followLink activates a link by its number.
func (m Model) followLink(input string, newTab bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		m.ws.statusBar.SetError(fmt.Sprintf("Not a link number: %q", input))
		return
	}
	if !m.ws.active().view.FollowLink(n, newTab) {
		m.ws.statusBar.SetError(fmt.Sprintf("No link %d", n))
	}
}

// executeCommand handles :commands.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return m, nil
	}
	arg := strings.TrimSpace(strings.TrimPrefix(cmd, parts[0]))
	p := m.ws.active()

	switch parts[0] {
	case "q", "quit":
		return m, tea.Quit

	case "o", "open":
		if arg == "" {
			m.ws.statusBar.SetMessage("Usage: :open <name>")
			break
		}
		m.reroot(p, m.search(arg))

	case "goto":
		if arg == "" {
			m.ws.statusBar.SetMessage("Usage: :goto <guid>")
			break
		}
		m.reroot(p, m.lookup(arg))

	case "tabnew":
		if arg == "" {
			m.ws.openTab(p.nav.Current())
			break
		}
		h, err := m.find(arg)
		if err != nil {
			m.ws.statusBar.SetError(err.Error())
			break
		}
		m.ws.openTab(h)

	case "tabclose":
		if !p.nav.Close() {
			m.ws.statusBar.SetMessage("Cannot close the last tab")
		}

	case "recent":
		if m.ws.recent == nil {
			m.ws.statusBar.SetMessage("Recent visits not available")
			break
		}
		visits, err := m.ws.recent.List(recentLimit)
		if err != nil {
			logging.Error(err)
			m.ws.statusBar.SetError(err.Error())
			break
		}
		p.showRecent(visits)
		m.ws.split.Active = ui.PaneReferences

	case "refs":
		p.showReferences()

	case "filter":
		p.nav.FilterChanged(arg)

	case "theme":
		if arg == "" {
			m.ws.statusBar.SetMessage(fmt.Sprintf("Current: %s | Available: %s", theme.Current.Name, strings.Join(theme.List(), ", ")))
			break
		}
		if theme.Set(arg) {
			m.ws.statusBar.SetMessage(fmt.Sprintf("Theme: %s", arg))
		} else {
			m.ws.statusBar.SetError(fmt.Sprintf("Unknown theme: %s (available: %s)", arg, strings.Join(theme.List(), ", ")))
		}

	case "help":
		m.helpPanel.Show()
		m.mode = ModeHelp

	default:
		m.ws.statusBar.SetError(fmt.Sprintf("Unknown command: %s", parts[0]))
	}

	return m, nil
}

type findResult struct {
	h   *blueprint.Handle
	err error
}

func (m Model) search(name string) findResult {
	matches, err := m.ws.catalog.Search(name, 1)
	if err != nil {
		logging.Error(err)
		return findResult{err: err}
	}
	if len(matches) == 0 {
		return findResult{err: fmt.Errorf("no blueprint matches %q", name)}
	}
	h, err := m.ws.catalog.Lookup(matches[0].ID)
	return findResult{h, err}
}

func (m Model) lookup(text string) findResult {
	id, ok := blueprint.ParseRef(text)
	if !ok {
		return findResult{err: fmt.Errorf("not a blueprint identifier: %q", text)}
	}
	h, err := m.ws.catalog.Lookup(id)
	return findResult{h, err}
}

// find resolves an identifier, falling back to a name search.
func (m Model) find(text string) (*blueprint.Handle, error) {
	if _, ok := blueprint.ParseRef(text); ok {
		r := m.lookup(text)
		return r.h, r.err
	}
	r := m.search(text)
	return r.h, r.err
}

// reroot shows the found blueprint as the start of a new history.
func (m Model) reroot(p *pane, r findResult) {
	if r.err != nil {
		m.ws.statusBar.SetError(r.err.Error())
		return
	}
	p.nav.Show(r.h, navigator.Reroot)
}

// handleMouse maps clicks to breadcrumb and reference selection, the back
// and forward buttons to history moves, and the wheel to cursor movement.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.mode != ModeNormal {
		return
	}
	p := m.ws.active()

	switch msg.Button {
	case tea.MouseButtonWheelDown:
		p.view.MoveCursor(3)
		return
	case tea.MouseButtonWheelUp:
		p.view.MoveCursor(-3)
		return
	case tea.MouseButtonBackward:
		if msg.Action == tea.MouseActionPress {
			m.navigate(p, navigator.RelativeBackOne)
		}
		return
	case tea.MouseButtonForward:
		if msg.Action == tea.MouseActionPress {
			m.navigate(p, navigator.RelativeForwardOne)
		}
		return
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	switch {
	case msg.Y == breadcrumbRow:
		if i := p.strip.IndexAt(msg.X); i >= 0 {
			if p.nav.NavigateToHistoryIndex(i) {
				logging.Trace("history.navigate", map[string]any{"tab": p.tabID, "to": "index", "index": i})
			}
		}

	case msg.Y >= splitTop:
		ox, oy := m.ws.split.SecondPaneOrigin()
		if msg.X < ox || msg.Y < splitTop+oy {
			m.ws.split.Active = ui.PaneFields
			return
		}
		m.ws.split.Active = ui.PaneReferences
		if row := p.refs.RowAt(msg.Y - splitTop - oy); row >= 0 {
			p.refs.SetCursor(row)
			p.selectRow(row)
		}
	}
}
