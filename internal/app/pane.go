package app

import (
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
	"github.com/vidyasagar/bpexplorer/internal/navigator"
	"github.com/vidyasagar/bpexplorer/internal/render"
	"github.com/vidyasagar/bpexplorer/internal/storage"
	"github.com/vidyasagar/bpexplorer/internal/ui"
)

// listing is what the reference area currently shows.
type listing int

const (
	listReferences listing = iota
	listRecent
)

// pane is one tab: a navigator driving a field view, a breadcrumb strip
// and a reference list.
type pane struct {
	tabID int
	store blueprint.Store

	nav    *navigator.Navigator
	view   *render.View
	strip  *ui.BreadcrumbStrip
	refs   *ui.ReferenceList
	fields *ui.FieldView

	listing     listing
	unsubscribe []func()
}

func newPane(tabID int, store blueprint.Store, maxHistory int) *pane {
	p := &pane{
		tabID:  tabID,
		store:  store,
		view:   render.NewView(store),
		strip:  ui.NewBreadcrumbStrip(),
		refs:   ui.NewReferenceList(""),
		fields: ui.NewFieldView(),
	}
	p.nav = navigator.New(store, p.view, navigator.Options{
		MaxHistory: maxHistory,
		Breadcrumb: p.strip,
	})

	p.view.OnLinkClicked = func(id uuid.UUID, newTab bool) {
		p.nav.LinkClicked(id, newTab)
	}
	p.view.OnPathHovered = p.nav.PathHovered
	p.view.OnFilterChanged = p.nav.FilterChanged

	p.unsubscribe = append(p.unsubscribe, p.nav.OnShown(func(*blueprint.Handle) {
		p.showReferences()
	}))
	p.showReferences()
	p.setFocus(ui.PaneFields)
	return p
}

// showReferences lists the shown blueprint's back-references.
func (p *pane) showReferences() {
	p.listing = listReferences
	p.refs.SetTitle("Referenced by", "No back-references.")
	refs := p.nav.References()
	rows := make([]ui.ReferenceRow, len(refs))
	for i, r := range refs {
		rows[i] = ui.ReferenceRow{ID: r.ID, Name: r.Name, Detail: shortGUID(r.ID)}
	}
	p.refs.SetRows(rows)
}

// showRecent lists recent visits for reopening.
func (p *pane) showRecent(visits []storage.Visit) {
	p.listing = listRecent
	p.refs.SetTitle("Recent", "Nothing shown yet.")
	rows := make([]ui.ReferenceRow, len(visits))
	for i, v := range visits {
		rows[i] = ui.ReferenceRow{ID: v.ID, Name: v.Name, Detail: humanize.Time(v.VisitedAt)}
	}
	p.refs.SetRows(rows)
}

// selectRow opens row i of the reference area.
func (p *pane) selectRow(i int) bool {
	if p.listing == listRecent {
		rows := p.refs.Rows()
		if i < 0 || i >= len(rows) {
			return false
		}
		h, ok := p.store.Resolve(rows[i].ID)
		if !ok {
			return false
		}
		if !p.nav.Show(h, navigator.Visit) {
			p.showReferences()
		}
		return true
	}
	return p.nav.SelectReference(i, p.refs.Len())
}

func (p *pane) setFocus(which ui.Pane) {
	p.fields.SetFocused(which == ui.PaneFields)
	p.refs.SetFocused(which == ui.PaneReferences)
}

// render pushes the view's state into the field view.
func (p *pane) render() {
	h := p.nav.Current()
	if h == nil {
		p.fields.Clear()
		return
	}
	var problem string
	if err := p.view.Err(); err != nil {
		problem = err.Error()
	}
	p.fields.SetFields(render.Header(h, p.fields.Width()), p.view.Fields(), p.view.Cursor(), problem)
}

func (p *pane) close() {
	for _, unsubscribe := range p.unsubscribe {
		unsubscribe()
	}
	p.unsubscribe = nil
}

func shortGUID(id uuid.UUID) string {
	return id.String()[:8]
}
