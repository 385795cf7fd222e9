package navigator

import (
	"github.com/google/uuid"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
)

// OnShown subscribes to every blueprint Show displays.
func (n *Navigator) OnShown(fn func(*blueprint.Handle)) (unsubscribe func()) {
	return n.shown.subscribe(fn)
}

// OnOpenInNewTab subscribes to link clicks that asked for a new tab.
func (n *Navigator) OnOpenInNewTab(fn func(*blueprint.Handle)) (unsubscribe func()) {
	return n.openInNewTab.subscribe(fn)
}

// OnOpenExternally subscribes to open-externally requests.
func (n *Navigator) OnOpenExternally(fn func(*blueprint.Handle)) (unsubscribe func()) {
	return n.openExternally.subscribe(fn)
}

// OnClosed subscribes to close requests.
func (n *Navigator) OnClosed(fn func()) (unsubscribe func()) {
	return n.closed.subscribe(func(struct{}) { fn() })
}

// LinkClicked handles a link activated in the renderer. Links come from
// free-form data, so an identifier the store does not know is ignored.
func (n *Navigator) LinkClicked(id uuid.UUID, newTab bool) bool {
	h, ok := n.store.Resolve(id)
	if !ok {
		return false
	}
	if newTab {
		n.openInNewTab.emit(h)
		return true
	}
	return n.Show(h, Visit)
}

// PathHovered records the data path under the pointer; "" clears it.
func (n *Navigator) PathHovered(path string) {
	if path == "" {
		path = "-"
	}
	n.currentPath = path
}

// CurrentPath returns the hovered data path, "-" when none.
func (n *Navigator) CurrentPath() string {
	return n.currentPath
}

// FilterChanged sets the filter text and applies it to the renderer. It is
// used both for filter edits and for filters requested by the renderer.
func (n *Navigator) FilterChanged(text string) {
	n.filterText = text
	n.renderer.SetFilter(text)
}

// FilterText returns the current filter text.
func (n *Navigator) FilterText() string {
	return n.filterText
}

// NavigateRequested handles a movement request raised by the renderer.
func (n *Navigator) NavigateRequested(to Direction) bool {
	return n.Navigate(to)
}

// OpenExternally asks listeners to open the current blueprint outside the
// explorer.
func (n *Navigator) OpenExternally() bool {
	h := n.renderer.Blueprint()
	if h == nil {
		return false
	}
	n.openExternally.emit(h)
	return true
}

// SetCanClose enables or disables Close.
func (n *Navigator) SetCanClose(v bool) {
	n.canClose = v
}

// CanClose reports whether Close is enabled.
func (n *Navigator) CanClose() bool {
	return n.canClose
}

// Close asks listeners to close this pane.
func (n *Navigator) Close() bool {
	if !n.canClose {
		return false
	}
	n.closed.emit(struct{}{})
	return true
}
