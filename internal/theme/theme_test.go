package theme

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	t.Cleanup(func() { Current = Default })

	require.True(t, Set("nord"))
	require.Equal(t, "nord", Current.Name)

	require.False(t, Set("solarized"))
	require.Equal(t, "nord", Current.Name, "unknown names keep the current theme")
}

func TestList(t *testing.T) {
	require.Equal(t, []string{"default", "dracula", "gruvbox", "light", "nord"}, List())
	for _, name := range List() {
		require.Equal(t, name, themes[name].Name)
		require.NotEmpty(t, themes[name].CrumbActive)
	}
}
