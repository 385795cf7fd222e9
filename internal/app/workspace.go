package app

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
	"github.com/vidyasagar/bpexplorer/internal/logging"
	"github.com/vidyasagar/bpexplorer/internal/navigator"
	"github.com/vidyasagar/bpexplorer/internal/storage"
	"github.com/vidyasagar/bpexplorer/internal/ui"
)

// Catalog is the blueprint index the explorer browses.
type Catalog interface {
	blueprint.Store
	Lookup(id uuid.UUID) (*blueprint.Handle, error)
	Search(query string, limit int) ([]storage.Match, error)
}

// VisitLog records shown blueprints.
type VisitLog interface {
	Add(id uuid.UUID, name string) error
	List(limit int) ([]storage.Visit, error)
}

// editorClosedMsg is sent when the external editor exits.
type editorClosedMsg struct {
	path string
	err  error
}

// workspace owns the tabs and reacts to navigator signals. Signal handlers
// run synchronously inside Update, so commands they produce are queued and
// drained by the model.
type workspace struct {
	catalog Catalog
	recent  VisitLog
	config  *storage.Config

	tabBar    *ui.TabBar
	statusBar *ui.StatusBar
	split     *ui.SplitPane
	panes     map[int]*pane // by tab ID

	stripWidth int
	pending    []tea.Cmd
}

func newWorkspace(catalog Catalog, recent VisitLog, cfg *storage.Config) *workspace {
	ws := &workspace{
		catalog:   catalog,
		recent:    recent,
		config:    cfg,
		tabBar:    ui.NewTabBar(),
		statusBar: ui.NewStatusBar(),
		split:     ui.NewSplitPane(),
		panes:     make(map[int]*pane),
	}
	first := ws.tabBar.IDAt(0)
	ws.panes[first] = ws.newPane(first)
	ws.updateCanClose()
	return ws
}

func (ws *workspace) newPane(tabID int) *pane {
	p := newPane(tabID, ws.catalog, ws.config.MaxHistory)
	p.unsubscribe = append(p.unsubscribe,
		p.nav.OnShown(func(h *blueprint.Handle) { ws.onShown(p, h) }),
		p.nav.OnOpenInNewTab(func(h *blueprint.Handle) { ws.openTab(h) }),
		p.nav.OnOpenExternally(ws.openExternally),
		p.nav.OnClosed(func() { ws.closeTab(p.tabID) }),
	)
	ws.sizePane(p)
	return p
}

// active returns the pane of the active tab.
func (ws *workspace) active() *pane {
	return ws.panes[ws.tabBar.IDAt(ws.tabBar.Active())]
}

// openTab adds a tab after the active one, showing h as a fresh root.
func (ws *workspace) openTab(h *blueprint.Handle) *pane {
	_, id := ws.tabBar.NewTab()
	p := ws.newPane(id)
	ws.panes[id] = p
	ws.updateCanClose()

	payload := map[string]any{"tab": id}
	if h != nil {
		payload["guid"] = h.GUIDText()
	}
	logging.Trace("tab.open", payload)

	if h != nil {
		p.nav.Show(h, navigator.Reroot)
	}
	return p
}

// closeTab removes the tab with the given ID.
func (ws *workspace) closeTab(id int) {
	if !ws.tabBar.CloseTab(ws.tabBar.IndexOf(id)) {
		return
	}
	if p, ok := ws.panes[id]; ok {
		p.close()
		delete(ws.panes, id)
	}
	ws.updateCanClose()
	logging.Trace("tab.close", map[string]any{"tab": id})
}

func (ws *workspace) updateCanClose() {
	canClose := ws.tabBar.Count() > 1
	for _, p := range ws.panes {
		p.nav.SetCanClose(canClose)
	}
}

func (ws *workspace) onShown(p *pane, h *blueprint.Handle) {
	ws.tabBar.SetTitle(p.tabID, h.Name)
	if ws.recent != nil {
		if err := ws.recent.Add(h.ID, h.Name); err != nil {
			logging.Error(err)
		}
	}
	logging.Trace("blueprint.shown", map[string]any{
		"tab":     p.tabID,
		"guid":    h.GUIDText(),
		"name":    h.Name,
		"history": p.nav.Len(),
		"active":  p.nav.ActiveIndex(),
	})
}

func (ws *workspace) openExternally(h *blueprint.Handle) {
	cmd, err := editBlueprint(ws.config.EditorCommand(), h)
	if err != nil {
		logging.Error(err)
		ws.statusBar.SetError(err.Error())
		return
	}
	ws.pending = append(ws.pending, cmd)
}

// drain returns and clears the queued commands.
func (ws *workspace) drain() tea.Cmd {
	if len(ws.pending) == 0 {
		return nil
	}
	cmds := ws.pending
	ws.pending = nil
	return tea.Batch(cmds...)
}

// resize lays out every pane for a split of w x h cells.
func (ws *workspace) resize(w, h int) {
	ws.stripWidth = w
	ws.split.SetSize(w, h)
	for _, p := range ws.panes {
		ws.sizePane(p)
	}
}

func (ws *workspace) sizePane(p *pane) {
	if ws.stripWidth == 0 {
		return
	}
	p.strip.SetWidth(ws.stripWidth)
	p.fields.SetSize(ws.split.FirstPaneDimensions())
	p.refs.SetSize(ws.split.SecondPaneDimensions())
}

// editBlueprint writes h's data to a temp file and returns a command that
// runs editor on it.
func editBlueprint(editor string, h *blueprint.Handle) (tea.Cmd, error) {
	args := strings.Fields(editor)
	if len(args) == 0 {
		return nil, fmt.Errorf("no editor configured")
	}

	f, err := os.CreateTemp("", "bpexplorer-*.json")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	if err := blueprint.Encode(f, h); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("writing %s: %w", h.Name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("writing %s: %w", h.Name, err)
	}

	path := f.Name()
	c := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorClosedMsg{path: path, err: err}
	}), nil
}
