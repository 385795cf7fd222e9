package render

import (
	"strings"

	"github.com/google/uuid"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
)

// Field is one displayed row of blueprint data.
type Field struct {
	Path  string
	Value string

	// Link is set when Value references a known blueprint.
	Link      uuid.UUID
	LinkName  string
	LinkIndex int // 1-based; 0 when the field is not a link
}

// IsLink reports whether the field references a blueprint.
func (f Field) IsLink() bool {
	return f.LinkIndex > 0
}

// View shows one blueprint as a filterable list of fields with a cursor.
// It satisfies navigator.Renderer.
type View struct {
	store blueprint.Store

	handle  *blueprint.Handle
	fields  []Field
	links   []Field
	visible []int // indices into fields that pass the filter
	filter  string
	cursor  int // index into visible
	err     error

	// OnLinkClicked is called when a link is followed.
	OnLinkClicked func(id uuid.UUID, newTab bool)
	// OnPathHovered is called with the path under the cursor ("" for none).
	OnPathHovered func(path string)
	// OnFilterChanged is called when the view asks for a new filter.
	OnFilterChanged func(text string)
}

// NewView creates an empty view resolving links against store.
func NewView(store blueprint.Store) *View {
	return &View{store: store}
}

// Blueprint returns the displayed blueprint, or nil.
func (v *View) Blueprint() *blueprint.Handle {
	return v.handle
}

// SetBlueprint replaces the displayed blueprint and resets the cursor.
func (v *View) SetBlueprint(h *blueprint.Handle) {
	v.handle = h
	v.fields, v.links, v.err = nil, nil, nil
	if h != nil {
		v.fields, v.err = buildFields(v.store, h)
		for _, f := range v.fields {
			if f.IsLink() {
				v.links = append(v.links, f)
			}
		}
	}
	v.cursor = 0
	v.applyFilter()
	v.hover()
}

// SetFilter shows only fields whose path or value contains text,
// ignoring case. An empty filter shows everything.
func (v *View) SetFilter(text string) {
	if text == v.filter {
		return
	}
	var keep string
	if f, ok := v.CursorField(); ok {
		keep = f.Path
	}
	v.filter = text
	v.applyFilter()

	v.cursor = 0
	for i, idx := range v.visible {
		if v.fields[idx].Path == keep {
			v.cursor = i
			break
		}
	}
	v.hover()
}

// Filter returns the active filter text.
func (v *View) Filter() string {
	return v.filter
}

// Err returns the error from decoding the current blueprint's data.
func (v *View) Err() error {
	return v.err
}

func (v *View) applyFilter() {
	v.visible = v.visible[:0]
	needle := strings.ToLower(strings.TrimSpace(v.filter))
	for i, f := range v.fields {
		if needle == "" ||
			strings.Contains(strings.ToLower(f.Path), needle) ||
			strings.Contains(strings.ToLower(f.Value), needle) {
			v.visible = append(v.visible, i)
		}
	}
}

// Fields returns the fields passing the filter.
func (v *View) Fields() []Field {
	result := make([]Field, len(v.visible))
	for i, idx := range v.visible {
		result[i] = v.fields[idx]
	}
	return result
}

// Links returns every link field, regardless of the filter.
func (v *View) Links() []Field {
	result := make([]Field, len(v.links))
	copy(result, v.links)
	return result
}

// Cursor returns the index of the cursor row within Fields.
func (v *View) Cursor() int {
	return v.cursor
}

// CursorField returns the field under the cursor.
func (v *View) CursorField() (Field, bool) {
	if v.cursor < 0 || v.cursor >= len(v.visible) {
		return Field{}, false
	}
	return v.fields[v.visible[v.cursor]], true
}

// MoveCursor moves the cursor by delta rows, clamped. It reports whether
// the cursor moved.
func (v *View) MoveCursor(delta int) bool {
	if len(v.visible) == 0 {
		v.cursor = 0
		return false
	}
	old := v.cursor
	v.cursor += delta
	if v.cursor < 0 {
		v.cursor = 0
	}
	if v.cursor >= len(v.visible) {
		v.cursor = len(v.visible) - 1
	}
	if v.cursor != old {
		v.hover()
		return true
	}
	return false
}

// CursorHome moves the cursor to the first row.
func (v *View) CursorHome() bool {
	return v.MoveCursor(-len(v.visible))
}

// CursorEnd moves the cursor to the last row.
func (v *View) CursorEnd() bool {
	return v.MoveCursor(len(v.visible))
}

// FollowLink activates link number n (as shown in the view).
func (v *View) FollowLink(n int, newTab bool) bool {
	if n < 1 || n > len(v.links) {
		return false
	}
	v.emitLink(v.links[n-1].Link, newTab)
	return true
}

// FollowCursor activates the link under the cursor, if any.
func (v *View) FollowCursor(newTab bool) bool {
	f, ok := v.CursorField()
	if !ok || !f.IsLink() {
		return false
	}
	v.emitLink(f.Link, newTab)
	return true
}

// FilterToCursor asks for a filter on the path under the cursor.
func (v *View) FilterToCursor() bool {
	f, ok := v.CursorField()
	if !ok || v.OnFilterChanged == nil {
		return false
	}
	v.OnFilterChanged(f.Path)
	return true
}

func (v *View) emitLink(id uuid.UUID, newTab bool) {
	if v.OnLinkClicked != nil {
		v.OnLinkClicked(id, newTab)
	}
}

func (v *View) hover() {
	if v.OnPathHovered == nil {
		return
	}
	if f, ok := v.CursorField(); ok {
		v.OnPathHovered(f.Path)
		return
	}
	v.OnPathHovered("")
}

// buildFields flattens the blueprint data and numbers its links.
func buildFields(store blueprint.Store, h *blueprint.Handle) ([]Field, error) {
	leaves, err := blueprint.Flatten(h.Data)
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(leaves))
	linkIndex := 0
	for _, leaf := range leaves {
		f := Field{Path: leaf.Path, Value: leaf.Value}
		if leaf.String {
			if id, ok := blueprint.ParseRef(leaf.Value); ok {
				if target, ok := store.Resolve(id); ok {
					linkIndex++
					f.Link = id
					f.LinkName = target.Name
					f.LinkIndex = linkIndex
				}
			}
			if !f.IsLink() {
				f.Value = StripMarkup(f.Value)
			}
		}
		fields = append(fields, f)
	}
	return fields, nil
}
