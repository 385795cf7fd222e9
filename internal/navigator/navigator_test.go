package navigator

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
)

type fakeRenderer struct {
	current *blueprint.Handle
	filter  string
	sets    int
}

func (r *fakeRenderer) Blueprint() *blueprint.Handle     { return r.current }
func (r *fakeRenderer) SetBlueprint(h *blueprint.Handle) { r.current = h; r.sets++ }
func (r *fakeRenderer) SetFilter(text string)            { r.filter = text }

type fakeStrip struct {
	crumbs []Crumb
	calls  int
}

func (s *fakeStrip) SetCrumbs(crumbs []Crumb) { s.crumbs = crumbs; s.calls++ }

type fixture struct {
	store    *blueprint.MemStore
	renderer *fakeRenderer
	strip    *fakeStrip
	nav      *Navigator
	bp       map[string]*blueprint.Handle
}

func newFixture(t *testing.T, maxHistory int, names ...string) *fixture {
	t.Helper()
	f := &fixture{
		store:    blueprint.NewMemStore(),
		renderer: &fakeRenderer{},
		strip:    &fakeStrip{},
		bp:       make(map[string]*blueprint.Handle),
	}
	for i, name := range names {
		h := &blueprint.Handle{
			ID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d-%s", i, name))),
			Name: name,
		}
		f.bp[name] = h
		f.store.Add(h)
	}
	f.nav = New(f.store, f.renderer, Options{MaxHistory: maxHistory, Breadcrumb: f.strip})
	return f
}

func (f *fixture) visit(names ...string) {
	for _, name := range names {
		f.nav.Show(f.bp[name], Visit)
	}
}

func (f *fixture) historyNames() []string {
	var names []string
	for _, e := range f.nav.History() {
		names = append(names, e.Name)
	}
	return names
}

// requireConsistent checks that the breadcrumb, the cursor and the
// renderer agree.
func (f *fixture) requireConsistent(t *testing.T) {
	t.Helper()
	crumbs := f.nav.Breadcrumbs()
	require.Equal(t, crumbs, f.strip.crumbs, "pushed projection out of date")
	require.Len(t, crumbs, f.nav.Len())
	if f.nav.Len() == 0 {
		require.Equal(t, 0, f.nav.ActiveIndex())
		return
	}
	active := 0
	for i, c := range crumbs {
		require.Equal(t, i, c.Index)
		if c.Active {
			active++
			require.Equal(t, f.nav.ActiveIndex(), i)
		}
	}
	require.Equal(t, 1, active, "exactly one crumb must be active")
	entry, ok := f.nav.ActiveEntry()
	require.True(t, ok)
	require.Equal(t, entry.ID(), f.renderer.current.ID)
}

func TestNewNavigatorIsEmpty(t *testing.T) {
	f := newFixture(t, 0, "A")
	require.Equal(t, 0, f.nav.Len())
	require.Equal(t, 0, f.nav.ActiveIndex())
	require.Nil(t, f.nav.Current())
	require.Empty(t, f.nav.Breadcrumbs())
	require.Equal(t, "-", f.nav.CurrentPath())
	_, ok := f.nav.ActiveEntry()
	require.False(t, ok)
	f.requireConsistent(t)
}

func TestShowRecordsHistory(t *testing.T) {
	f := newFixture(t, 0, "A", "B", "C")
	f.visit("A", "B", "C")

	require.Equal(t, []string{"A", "B", "C"}, f.historyNames())
	require.Equal(t, 2, f.nav.ActiveIndex())
	require.Same(t, f.bp["C"], f.nav.Current())
	f.requireConsistent(t)
}

func TestShowSameBlueprintIsNoOp(t *testing.T) {
	f := newFixture(t, 0, "X")
	var shown int
	f.nav.OnShown(func(*blueprint.Handle) { shown++ })

	require.True(t, f.nav.Show(f.bp["X"], Visit))
	require.False(t, f.nav.Show(f.bp["X"], Visit))

	require.Equal(t, []string{"X"}, f.historyNames())
	require.Equal(t, 1, f.renderer.sets)
	require.Equal(t, 1, shown)
	f.requireConsistent(t)
}

func TestShowComparesByIdentifier(t *testing.T) {
	f := newFixture(t, 0, "X")
	f.visit("X")

	// A second handle for the same blueprint, as a cache miss would produce.
	twin := &blueprint.Handle{ID: f.bp["X"].ID, Name: "X"}
	require.False(t, f.nav.Show(twin, Visit))
	require.Equal(t, 1, f.nav.Len())
}

func TestShowWithoutUpdateLeavesHistory(t *testing.T) {
	f := newFixture(t, 0, "A", "B")
	f.visit("A")

	require.True(t, f.nav.Show(f.bp["B"], NoFlags))
	require.Equal(t, []string{"A"}, f.historyNames())
	require.Same(t, f.bp["B"], f.nav.Current())
}

func TestShowNilIsIgnored(t *testing.T) {
	f := newFixture(t, 0)
	require.False(t, f.nav.Show(nil, Visit))
	require.Equal(t, 0, f.nav.Len())
}

func TestBranchTruncation(t *testing.T) {
	f := newFixture(t, 0, "A", "B", "C", "D")
	f.visit("A", "B", "C")
	require.Equal(t, 2, f.nav.ActiveIndex())

	require.True(t, f.nav.Navigate(AbsoluteFirst))
	require.Equal(t, 0, f.nav.ActiveIndex())

	f.visit("D")
	require.Equal(t, []string{"A", "D"}, f.historyNames())
	require.Equal(t, 1, f.nav.ActiveIndex())
	f.requireConsistent(t)
}

func TestPushAlwaysEndsAtTip(t *testing.T) {
	f := newFixture(t, 0, "A", "B", "C", "D", "E")
	f.visit("A", "B", "C", "D")
	f.nav.Navigate(RelativeBackOne)
	f.nav.Navigate(RelativeBackOne)
	before := f.nav.ActiveIndex() + 1

	f.visit("E")
	require.Equal(t, before+1, f.nav.Len())
	require.Equal(t, f.nav.Len()-1, f.nav.ActiveIndex())
}

func TestNavigateIsPureCursorMove(t *testing.T) {
	f := newFixture(t, 0, "A", "B", "C")
	f.visit("A", "B", "C")

	var shown []string
	f.nav.OnShown(func(h *blueprint.Handle) { shown = append(shown, h.Name) })

	require.True(t, f.nav.Navigate(RelativeBackOne))
	require.Equal(t, 3, f.nav.Len())
	require.Equal(t, 1, f.nav.ActiveIndex())
	require.Same(t, f.bp["B"], f.nav.Current())
	f.requireConsistent(t)

	require.True(t, f.nav.Navigate(RelativeForwardOne))
	require.Equal(t, 3, f.nav.Len())
	require.Same(t, f.bp["C"], f.nav.Current())
	require.Equal(t, []string{"B", "C"}, shown)
	f.requireConsistent(t)
}

func TestNavigateBoundariesAreNoOps(t *testing.T) {
	f := newFixture(t, 0, "A", "B")
	f.visit("A", "B")

	require.False(t, f.nav.Navigate(RelativeForwardOne))
	require.Equal(t, 1, f.nav.ActiveIndex())
	require.Same(t, f.bp["B"], f.nav.Current())

	f.nav.Navigate(AbsoluteFirst)
	sets := f.renderer.sets
	require.False(t, f.nav.Navigate(RelativeBackOne))
	require.Equal(t, 0, f.nav.ActiveIndex())
	require.Same(t, f.bp["A"], f.nav.Current())
	require.Equal(t, sets, f.renderer.sets)
	require.Equal(t, []string{"A", "B"}, f.historyNames())
	f.requireConsistent(t)
}

func TestNavigateOnEmptyHistory(t *testing.T) {
	f := newFixture(t, 0)
	for _, d := range []Direction{RelativeBackOne, RelativeForwardOne, AbsoluteFirst, AbsoluteLast} {
		require.False(t, f.nav.Navigate(d), d.String())
	}
	f.requireConsistent(t)
}

func TestNavigateAbsolute(t *testing.T) {
	for start := 0; start < 4; start++ {
		t.Run(fmt.Sprintf("from %d", start), func(t *testing.T) {
			f := newFixture(t, 0, "A", "B", "C", "D")
			f.visit("A", "B", "C", "D")
			require.True(t, f.nav.NavigateToHistoryIndex(start))

			require.True(t, f.nav.Navigate(AbsoluteFirst))
			require.Equal(t, 0, f.nav.ActiveIndex())
			require.Same(t, f.bp["A"], f.nav.Current())
			f.requireConsistent(t)

			require.True(t, f.nav.NavigateToHistoryIndex(start))
			require.True(t, f.nav.Navigate(AbsoluteLast))
			require.Equal(t, 3, f.nav.ActiveIndex())
			require.Same(t, f.bp["D"], f.nav.Current())
			f.requireConsistent(t)
		})
	}
}

func TestNavigateUnknownDirectionPanics(t *testing.T) {
	f := newFixture(t, 0, "A")
	f.visit("A")
	require.Panics(t, func() { f.nav.Navigate(Direction(42)) })
}

func TestNavigateToHistoryIndex(t *testing.T) {
	f := newFixture(t, 0, "A", "B", "C")
	f.visit("A", "B", "C")

	require.True(t, f.nav.NavigateToHistoryIndex(1))
	require.Same(t, f.bp["B"], f.nav.Current())
	require.Equal(t, 3, f.nav.Len())
	f.requireConsistent(t)

	require.False(t, f.nav.NavigateToHistoryIndex(3))
	require.False(t, f.nav.NavigateToHistoryIndex(-1))
	require.Equal(t, 1, f.nav.ActiveIndex())
}

func TestNavigateOntoRepeatedVisit(t *testing.T) {
	f := newFixture(t, 0, "A", "B")
	f.visit("A", "B", "A")
	require.Equal(t, []string{"A", "B", "A"}, f.historyNames())

	// Renderer already shows A; the cursor must still move.
	require.True(t, f.nav.Navigate(AbsoluteFirst))
	require.Equal(t, 0, f.nav.ActiveIndex())
	f.requireConsistent(t)
}

func TestClearHistory(t *testing.T) {
	f := newFixture(t, 0, "A", "B", "C", "X")
	f.visit("A", "B", "C")
	f.nav.Navigate(RelativeBackOne)

	require.True(t, f.nav.Show(f.bp["X"], Reroot))
	require.Equal(t, []string{"X"}, f.historyNames())
	require.Equal(t, 0, f.nav.ActiveIndex())
	f.requireConsistent(t)
}

func TestClearHistoryOfShownBlueprint(t *testing.T) {
	f := newFixture(t, 0, "A", "X")
	f.visit("A", "X")
	sets := f.renderer.sets

	require.True(t, f.nav.Show(f.bp["X"], Reroot))
	require.Equal(t, []string{"X"}, f.historyNames())
	require.Equal(t, 0, f.nav.ActiveIndex())
	require.Equal(t, sets, f.renderer.sets, "no re-render for the same blueprint")
	f.requireConsistent(t)
}

func TestClearWithoutUpdate(t *testing.T) {
	f := newFixture(t, 0, "A", "B", "X")
	f.visit("A", "B")

	require.True(t, f.nav.Show(f.bp["X"], ShowFlags{ClearHistory: true}))
	require.Equal(t, 0, f.nav.Len())
	require.Equal(t, 0, f.nav.ActiveIndex())
	require.Same(t, f.bp["X"], f.nav.Current())
	require.Empty(t, f.strip.crumbs)
}

func TestMaxHistoryEvictsOldest(t *testing.T) {
	f := newFixture(t, 3, "A", "B", "C", "D", "E")
	f.visit("A", "B", "C", "D")
	require.Equal(t, []string{"B", "C", "D"}, f.historyNames())
	require.Equal(t, 2, f.nav.ActiveIndex())
	f.requireConsistent(t)

	f.nav.Navigate(AbsoluteFirst)
	f.visit("E")
	require.Equal(t, []string{"B", "E"}, f.historyNames())
	require.Equal(t, 1, f.nav.ActiveIndex())
	f.requireConsistent(t)
}

func TestNewHistoryClampsBound(t *testing.T) {
	tests := []struct {
		name string
		max  int
		want int
	}{
		{"negative is unbounded", -5, 0},
		{"zero is unbounded", 0, 0},
		{"custom", 50, 50},
		{"clamped", MaxHistorySize + 1, MaxHistorySize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, newHistory(tt.max).max)
		})
	}
}

func TestCanGoBackAndForward(t *testing.T) {
	f := newFixture(t, 0, "A", "B")
	require.False(t, f.nav.CanGoBack())
	require.False(t, f.nav.CanGoForward())

	f.visit("A", "B")
	require.True(t, f.nav.CanGoBack())
	require.False(t, f.nav.CanGoForward())

	f.nav.Navigate(RelativeBackOne)
	require.False(t, f.nav.CanGoBack())
	require.True(t, f.nav.CanGoForward())
}

func TestBreadcrumbConsistentAfterEveryOperation(t *testing.T) {
	f := newFixture(t, 4, "A", "B", "C", "D", "E", "F")
	ops := []func(){
		func() { f.visit("A") },
		func() { f.visit("B") },
		func() { f.visit("C") },
		func() { f.nav.Navigate(RelativeBackOne) },
		func() { f.nav.Navigate(RelativeBackOne) },
		func() { f.nav.Navigate(RelativeBackOne) },
		func() { f.visit("D") },
		func() { f.visit("E") },
		func() { f.visit("F") },
		func() { f.visit("A") },
		func() { f.nav.Navigate(AbsoluteFirst) },
		func() { f.nav.Navigate(AbsoluteLast) },
		func() { f.nav.NavigateToHistoryIndex(2) },
		func() { f.nav.Navigate(RelativeForwardOne) },
		func() { f.nav.Navigate(RelativeForwardOne) },
		func() { f.nav.Show(f.bp["C"], Reroot) },
		func() { f.visit("C") },
	}
	for i, op := range ops {
		op()
		t.Logf("after op %d: %v @%d", i, f.historyNames(), f.nav.ActiveIndex())
		f.requireConsistent(t)
	}
}

func TestReferencesSkipSelf(t *testing.T) {
	f := newFixture(t, 0, "Target", "User1", "User2")
	target := f.bp["Target"]
	target.BackReferences = []uuid.UUID{f.bp["User1"].ID, target.ID, f.bp["User2"].ID}

	f.visit("Target")
	refs := f.nav.References()
	require.Equal(t, []Reference{
		{ID: f.bp["User1"].ID, Name: "User1"},
		{ID: f.bp["User2"].ID, Name: "User2"},
	}, refs)
}

func TestReferenceToMissingBlueprintPanics(t *testing.T) {
	f := newFixture(t, 0, "Target")
	missing := uuid.NewSHA1(uuid.NameSpaceOID, []byte("gone"))
	f.bp["Target"].BackReferences = []uuid.UUID{missing}

	require.PanicsWithError(t, (&blueprint.IntegrityError{ID: missing}).Error(), func() {
		f.visit("Target")
	})
}

func TestSelectReference(t *testing.T) {
	f := newFixture(t, 0, "Target", "User1", "User2")
	f.bp["Target"].BackReferences = []uuid.UUID{f.bp["User1"].ID, f.bp["User2"].ID}
	f.visit("Target")

	require.True(t, f.nav.SelectReference(1, 2))
	require.Same(t, f.bp["User2"], f.nav.Current())
	require.Equal(t, []string{"Target", "User2"}, f.historyNames())
	f.requireConsistent(t)
}

func TestSelectReferenceGuards(t *testing.T) {
	f := newFixture(t, 0, "Target", "User1")
	require.False(t, f.nav.SelectReference(0, 0), "nothing shown")

	f.bp["Target"].BackReferences = []uuid.UUID{f.bp["User1"].ID}
	f.visit("Target")

	require.False(t, f.nav.SelectReference(0, 3), "stale row count")
	require.False(t, f.nav.SelectReference(1, 1), "row out of range")
	require.False(t, f.nav.SelectReference(-1, 1), "negative row")
	require.Same(t, f.bp["Target"], f.nav.Current())
	require.Equal(t, 1, f.nav.Len())
}

func TestSelectReferenceDisabledBySelfReference(t *testing.T) {
	f := newFixture(t, 0, "Target", "User1")
	target := f.bp["Target"]
	target.BackReferences = []uuid.UUID{target.ID, f.bp["User1"].ID}
	f.visit("Target")

	rows := len(f.nav.References())
	require.Equal(t, 1, rows)
	require.False(t, f.nav.SelectReference(0, rows))
}

func TestSignalsUnsubscribe(t *testing.T) {
	f := newFixture(t, 0, "A", "B")
	var got []string
	unsubscribe := f.nav.OnShown(func(h *blueprint.Handle) { got = append(got, h.Name) })

	f.visit("A")
	unsubscribe()
	f.visit("B")
	require.Equal(t, []string{"A"}, got)
}

func TestSignalsUnsubscribeDuringEmit(t *testing.T) {
	f := newFixture(t, 0, "A", "B")
	var calls []string
	var first func()
	first = f.nav.OnShown(func(*blueprint.Handle) {
		calls = append(calls, "first")
		first()
	})
	f.nav.OnShown(func(*blueprint.Handle) { calls = append(calls, "second") })

	f.visit("A", "B")
	assert.Equal(t, []string{"first", "second", "second"}, calls)
}
