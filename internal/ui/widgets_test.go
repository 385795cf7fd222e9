package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceListCursor(t *testing.T) {
	rl := NewReferenceList("Referenced by")
	rl.SetSize(30, 5) // three visible rows
	_, ok := rl.Selected()
	require.False(t, ok)

	rl.SetRows([]ReferenceRow{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"}})
	rl.CursorUp()
	i, ok := rl.Selected()
	require.True(t, ok)
	require.Equal(t, 0, i)

	rl.GotoBottom()
	i, _ = rl.Selected()
	require.Equal(t, 4, i)
	require.Equal(t, 2, rl.offset)
	require.Equal(t, 4, rl.RowAt(4))
	require.Equal(t, -1, rl.RowAt(1), "header line")
	require.Equal(t, -1, rl.RowAt(5))

	require.False(t, rl.HandleGKey())
	require.True(t, rl.HandleGKey())
	i, _ = rl.Selected()
	require.Equal(t, 0, i)

	require.True(t, rl.SetCursor(3))
	require.False(t, rl.SetCursor(5))
	row, ok := rl.SelectedRow()
	require.True(t, ok)
	require.Equal(t, "d", row.Name)
}

func TestReferenceListView(t *testing.T) {
	rl := NewReferenceList("Referenced by")
	rl.SetSize(40, 6)
	rl.SetTitle("Referenced by", "No back-references.")
	assert.Contains(t, ansi.Strip(rl.View()), "No back-references.")

	rl.SetRows([]ReferenceRow{{Name: "Longsword", Detail: "Weapon"}})
	rl.SetFocused(true)
	out := ansi.Strip(rl.View())
	assert.Contains(t, out, "Referenced by (1)")
	assert.Contains(t, out, "▸ Longsword  Weapon")
}

func TestTabBar(t *testing.T) {
	tb := NewTabBar()
	firstID := tb.IDAt(0)
	require.False(t, tb.CloseTab(0), "last tab stays open")

	idx, id := tb.NewTab()
	require.Equal(t, 1, idx)
	require.Equal(t, 1, tb.Active())
	tb.SetTitle(id, "Longsword")
	require.Equal(t, "Longsword", tb.Title(1))

	tb.NextTab()
	require.Equal(t, 0, tb.Active())
	tb.PrevTab()
	require.Equal(t, 1, tb.Active())

	require.True(t, tb.CloseTab(0))
	require.Equal(t, 0, tb.Active())
	require.Equal(t, -1, tb.IndexOf(firstID))
	require.Equal(t, 0, tb.IndexOf(id))
}

func TestCommandBarHistory(t *testing.T) {
	c := NewCommandBar()
	c.Open(CommandEx)
	c.SetValue("open sword")
	res := c.Submit()
	require.Equal(t, CommandResult{Type: CommandEx, Value: "open sword"}, res)
	require.False(t, c.IsActive())

	c.Open(CommandEx)
	c.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "open sword", c.Value())
	c.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "", c.Value())

	c.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, c.IsActive())

	c.Open(CommandFollow)
	c.SetValue("2")
	require.Equal(t, CommandResult{Type: CommandFollow, Value: "2"}, c.Submit())
}

func TestCommandBarHistorySkipsRepeats(t *testing.T) {
	c := NewCommandBar()
	for _, cmd := range []string{"recent", "recent", "refs"} {
		c.Open(CommandEx)
		c.SetValue(cmd)
		c.Submit()
	}

	c.Open(CommandEx)
	c.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "refs", c.Value())
	c.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "recent", c.Value())
	c.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "recent", c.Value(), "oldest entry stays")
}

func TestCommandBarCompletesCommands(t *testing.T) {
	c := NewCommandBar()
	c.Open(CommandEx)
	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("th")})
	c.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "theme ", c.Value())

	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("no")})
	c.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "theme nord", c.Value())
}

func TestCommandBarFollowAcceptsDigitsOnly(t *testing.T) {
	c := NewCommandBar()
	c.Open(CommandEx)
	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("go")})
	c.Close()

	c.SetLinkCount(3)
	c.Open(CommandFollowNewTab)
	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	c.Update(tea.KeyMsg{Type: tea.KeyTab})
	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("12")})
	require.Equal(t, "12", c.Value())
	require.Equal(t, CommandResult{Type: CommandFollowNewTab, Value: "12"}, c.Submit())
}

func TestSplitPane(t *testing.T) {
	sp := NewSplitPane()
	sp.SetSize(100, 20)
	require.Equal(t, SplitVertical, sp.Direction)
	w1, h1 := sp.FirstPaneDimensions()
	w2, _ := sp.SecondPaneDimensions()
	require.Equal(t, 20, h1)
	require.Equal(t, 100, w1+w2+1)
	x, y := sp.SecondPaneOrigin()
	require.Equal(t, w1+1, x)
	require.Zero(t, y)

	sp.SetSize(60, 20)
	require.Equal(t, SplitHorizontal, sp.Direction)
	_, h1 = sp.FirstPaneDimensions()
	_, h2 := sp.SecondPaneDimensions()
	require.Equal(t, 20, h1+h2+1)

	require.Equal(t, PaneFields, sp.Active)
	sp.Toggle()
	require.Equal(t, PaneReferences, sp.Active)
}
