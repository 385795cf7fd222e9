// Package navigator implements the per-pane browsing history of the
// blueprint explorer: a linear visit list with a cursor, back/forward and
// first/last movement, branch truncation and a breadcrumb projection kept
// in step with the cursor.
//
// All methods must be called from a single goroutine (the UI event loop).
package navigator

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
)

// ShowFlags select what Show records besides displaying the blueprint.
type ShowFlags struct {
	// UpdateHistory records the visit as a new history entry.
	UpdateHistory bool
	// ClearHistory drops all prior history first.
	ClearHistory bool
}

var (
	// NoFlags displays without touching history (cursor moves).
	NoFlags = ShowFlags{}
	// Visit records a normal link-following visit.
	Visit = ShowFlags{UpdateHistory: true}
	// Reroot starts a fresh history at the shown blueprint.
	Reroot = ShowFlags{UpdateHistory: true, ClearHistory: true}
)

// Direction is a history movement request.
type Direction int

// History movements accepted by Navigate.
const (
	RelativeBackOne Direction = iota
	RelativeForwardOne
	AbsoluteFirst
	AbsoluteLast
)

func (d Direction) String() string {
	switch d {
	case RelativeBackOne:
		return "back"
	case RelativeForwardOne:
		return "forward"
	case AbsoluteFirst:
		return "first"
	case AbsoluteLast:
		return "last"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Renderer displays one blueprint at a time.
type Renderer interface {
	Blueprint() *blueprint.Handle
	SetBlueprint(h *blueprint.Handle)
	SetFilter(text string)
}

// Breadcrumb receives the breadcrumb projection after every change.
type Breadcrumb interface {
	SetCrumbs(crumbs []Crumb)
}

// Reference is one row of the back-reference list.
type Reference struct {
	ID   uuid.UUID
	Name string
}

// Crumb is one breadcrumb element. Exactly one crumb is Active when the
// history is not empty.
type Crumb struct {
	Index  int
	ID     uuid.UUID
	Name   string
	Active bool
}

// Options configure a Navigator.
type Options struct {
	// MaxHistory bounds the number of entries; 0 means unbounded.
	MaxHistory int
	// Breadcrumb, when set, is pushed every rebuilt projection.
	Breadcrumb Breadcrumb
}

// Navigator owns the history of one viewer pane.
type Navigator struct {
	store      blueprint.Store
	renderer   Renderer
	breadcrumb Breadcrumb

	history history
	refs    []Reference
	crumbs  []Crumb

	currentPath string
	filterText  string
	canClose    bool

	shown          signal[*blueprint.Handle]
	openInNewTab   signal[*blueprint.Handle]
	openExternally signal[*blueprint.Handle]
	closed         signal[struct{}]
}

// New creates a navigator with an empty history.
func New(store blueprint.Store, renderer Renderer, opts Options) *Navigator {
	n := &Navigator{
		store:       store,
		renderer:    renderer,
		breadcrumb:  opts.Breadcrumb,
		history:     newHistory(opts.MaxHistory),
		currentPath: "-",
		canClose:    true,
	}
	n.invalidateHistory()
	return n
}

// Show displays h. Showing the blueprint already on screen does nothing,
// except that ClearHistory is still honoured so that a reroot always
// leaves a history of exactly [h].
//
// Show panics with *blueprint.IntegrityError when one of h's
// back-references is missing from the store.
func (n *Navigator) Show(h *blueprint.Handle, flags ShowFlags) bool {
	if h == nil {
		return false
	}
	if n.isShowing(h) {
		if !flags.ClearHistory {
			return false
		}
		n.history.clear()
		if flags.UpdateHistory {
			n.pushHistory(h)
		}
		n.invalidateHistory()
		return true
	}

	n.renderer.SetBlueprint(h)
	n.rebuildReferences(h)

	if flags.ClearHistory {
		n.history.clear()
	}
	if flags.UpdateHistory {
		n.pushHistory(h)
	}
	n.invalidateHistory()

	n.shown.emit(h)
	return true
}

func (n *Navigator) isShowing(h *blueprint.Handle) bool {
	cur := n.renderer.Blueprint()
	return cur != nil && cur.ID == h.ID
}

func (n *Navigator) rebuildReferences(h *blueprint.Handle) {
	refs := make([]Reference, 0, len(h.BackReferences))
	for _, id := range h.BackReferences {
		if id == h.ID {
			continue
		}
		ref := blueprint.MustResolve(n.store, id)
		refs = append(refs, Reference{ID: id, Name: ref.Name})
	}
	n.refs = refs
}

func (n *Navigator) pushHistory(h *blueprint.Handle) {
	n.history.push(h)
	n.invalidateHistory()
}

// Navigate moves the cursor. Targets outside the history are ignored and
// reported as false. Unknown directions panic.
func (n *Navigator) Navigate(to Direction) bool {
	var target int
	switch to {
	case RelativeBackOne:
		target = n.history.pos - 1
	case RelativeForwardOne:
		target = n.history.pos + 1
	case AbsoluteFirst:
		target = 0
	case AbsoluteLast:
		target = n.history.len() - 1
	default:
		panic(fmt.Sprintf("navigator: unknown direction %d", int(to)))
	}
	return n.NavigateToHistoryIndex(target)
}

// NavigateToHistoryIndex moves the cursor to entry i and shows it without
// recording a visit. It is what a breadcrumb click does.
func (n *Navigator) NavigateToHistoryIndex(i int) bool {
	if !n.history.inRange(i) {
		return false
	}
	n.history.pos = i
	n.Show(n.history.entries[i].Handle, NoFlags)
	n.invalidateHistory()
	return true
}

// SelectReference follows reference row row. displayedRows is the number
// of rows the caller is showing; when it disagrees with the current
// blueprint's back-reference count the selection is stale and ignored.
func (n *Navigator) SelectReference(row, displayedRows int) bool {
	h := n.renderer.Blueprint()
	if h == nil {
		return false
	}
	if len(h.BackReferences) != displayedRows {
		return false
	}
	if row < 0 || row >= len(h.BackReferences) {
		return false
	}
	return n.Show(blueprint.MustResolve(n.store, h.BackReferences[row]), Visit)
}

// invalidateHistory recomputes the breadcrumb marks from the cursor.
func (n *Navigator) invalidateHistory() {
	crumbs := make([]Crumb, n.history.len())
	for i, e := range n.history.entries {
		crumbs[i] = Crumb{
			Index:  i,
			ID:     e.ID(),
			Name:   e.Name,
			Active: i == n.history.pos,
		}
	}
	n.crumbs = crumbs
	if n.breadcrumb != nil {
		n.breadcrumb.SetCrumbs(n.Breadcrumbs())
	}
}

// Current returns the blueprint on screen, or nil.
func (n *Navigator) Current() *blueprint.Handle {
	return n.renderer.Blueprint()
}

// History returns a copy of the visit list.
func (n *Navigator) History() []Entry {
	return n.history.snapshot()
}

// ActiveIndex returns the cursor; 0 when the history is empty.
func (n *Navigator) ActiveIndex() int {
	return n.history.pos
}

// ActiveEntry returns the entry under the cursor.
func (n *Navigator) ActiveEntry() (Entry, bool) {
	return n.history.current()
}

// Len returns the number of history entries.
func (n *Navigator) Len() int {
	return n.history.len()
}

// CanGoBack reports whether a back move would succeed.
func (n *Navigator) CanGoBack() bool {
	return n.history.inRange(n.history.pos - 1)
}

// CanGoForward reports whether a forward move would succeed.
func (n *Navigator) CanGoForward() bool {
	return n.history.inRange(n.history.pos + 1)
}

// References returns the back-reference rows of the current blueprint.
func (n *Navigator) References() []Reference {
	result := make([]Reference, len(n.refs))
	copy(result, n.refs)
	return result
}

// Breadcrumbs returns the current breadcrumb projection.
func (n *Navigator) Breadcrumbs() []Crumb {
	result := make([]Crumb, len(n.crumbs))
	copy(result, n.crumbs)
	return result
}
