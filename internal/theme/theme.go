package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name string

	// Core colors
	Primary lipgloss.Color
	Accent  lipgloss.Color

	// Text colors
	Text    lipgloss.Color
	TextDim lipgloss.Color

	// UI element colors
	Surface     lipgloss.Color
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color

	// Field rows
	Path      lipgloss.Color
	Value     lipgloss.Color
	Link      lipgloss.Color
	LinkIndex lipgloss.Color

	// Status colors
	Error   lipgloss.Color
	Success lipgloss.Color
	Info    lipgloss.Color

	// Breadcrumb strip and tab bar
	CrumbActive   lipgloss.Color
	CrumbInactive lipgloss.Color
	TabActive     lipgloss.Color
	TabInactive   lipgloss.Color
}

var themes = map[string]Theme{
	"default": Default,
	"gruvbox": Gruvbox,
	"nord":    Nord,
	"dracula": Dracula,
	"light":   Light,
}

var Default = Theme{
	Name:          "default",
	Primary:       lipgloss.Color("#7C3AED"),
	Accent:        lipgloss.Color("#F59E0B"),
	Text:          lipgloss.Color("#E2E8F0"),
	TextDim:       lipgloss.Color("#64748B"),
	Surface:       lipgloss.Color("#1E293B"),
	Border:        lipgloss.Color("#334155"),
	BorderFocus:   lipgloss.Color("#7C3AED"),
	Selection:     lipgloss.Color("#312E81"),
	Path:          lipgloss.Color("#A78BFA"),
	Value:         lipgloss.Color("#E2E8F0"),
	Link:          lipgloss.Color("#38BDF8"),
	LinkIndex:     lipgloss.Color("#F59E0B"),
	Error:         lipgloss.Color("#EF4444"),
	Success:       lipgloss.Color("#22C55E"),
	Info:          lipgloss.Color("#3B82F6"),
	CrumbActive:   lipgloss.Color("#F8FAFC"),
	CrumbInactive: lipgloss.Color("#94A3B8"),
	TabActive:     lipgloss.Color("#7C3AED"),
	TabInactive:   lipgloss.Color("#475569"),
}

var Gruvbox = Theme{
	Name:          "gruvbox",
	Primary:       lipgloss.Color("#D65D0E"),
	Accent:        lipgloss.Color("#D79921"),
	Text:          lipgloss.Color("#EBDBB2"),
	TextDim:       lipgloss.Color("#928374"),
	Surface:       lipgloss.Color("#3C3836"),
	Border:        lipgloss.Color("#504945"),
	BorderFocus:   lipgloss.Color("#D65D0E"),
	Selection:     lipgloss.Color("#504945"),
	Path:          lipgloss.Color("#8EC07C"),
	Value:         lipgloss.Color("#EBDBB2"),
	Link:          lipgloss.Color("#83A598"),
	LinkIndex:     lipgloss.Color("#FABD2F"),
	Error:         lipgloss.Color("#FB4934"),
	Success:       lipgloss.Color("#B8BB26"),
	Info:          lipgloss.Color("#83A598"),
	CrumbActive:   lipgloss.Color("#FBF1C7"),
	CrumbInactive: lipgloss.Color("#A89984"),
	TabActive:     lipgloss.Color("#D65D0E"),
	TabInactive:   lipgloss.Color("#504945"),
}

var Nord = Theme{
	Name:          "nord",
	Primary:       lipgloss.Color("#88C0D0"),
	Accent:        lipgloss.Color("#EBCB8B"),
	Text:          lipgloss.Color("#D8DEE9"),
	TextDim:       lipgloss.Color("#4C566A"),
	Surface:       lipgloss.Color("#3B4252"),
	Border:        lipgloss.Color("#434C5E"),
	BorderFocus:   lipgloss.Color("#88C0D0"),
	Selection:     lipgloss.Color("#434C5E"),
	Path:          lipgloss.Color("#81A1C1"),
	Value:         lipgloss.Color("#D8DEE9"),
	Link:          lipgloss.Color("#8FBCBB"),
	LinkIndex:     lipgloss.Color("#EBCB8B"),
	Error:         lipgloss.Color("#BF616A"),
	Success:       lipgloss.Color("#A3BE8C"),
	Info:          lipgloss.Color("#5E81AC"),
	CrumbActive:   lipgloss.Color("#ECEFF4"),
	CrumbInactive: lipgloss.Color("#7B88A1"),
	TabActive:     lipgloss.Color("#88C0D0"),
	TabInactive:   lipgloss.Color("#4C566A"),
}

var Dracula = Theme{
	Name:          "dracula",
	Primary:       lipgloss.Color("#BD93F9"),
	Accent:        lipgloss.Color("#FFB86C"),
	Text:          lipgloss.Color("#F8F8F2"),
	TextDim:       lipgloss.Color("#6272A4"),
	Surface:       lipgloss.Color("#44475A"),
	Border:        lipgloss.Color("#44475A"),
	BorderFocus:   lipgloss.Color("#BD93F9"),
	Selection:     lipgloss.Color("#44475A"),
	Path:          lipgloss.Color("#FF79C6"),
	Value:         lipgloss.Color("#F8F8F2"),
	Link:          lipgloss.Color("#8BE9FD"),
	LinkIndex:     lipgloss.Color("#FFB86C"),
	Error:         lipgloss.Color("#FF5555"),
	Success:       lipgloss.Color("#50FA7B"),
	Info:          lipgloss.Color("#8BE9FD"),
	CrumbActive:   lipgloss.Color("#F8F8F2"),
	CrumbInactive: lipgloss.Color("#6272A4"),
	TabActive:     lipgloss.Color("#BD93F9"),
	TabInactive:   lipgloss.Color("#44475A"),
}

var Light = Theme{
	Name:          "light",
	Primary:       lipgloss.Color("#2563EB"),
	Accent:        lipgloss.Color("#B45309"),
	Text:          lipgloss.Color("#1F2937"),
	TextDim:       lipgloss.Color("#6B7280"),
	Surface:       lipgloss.Color("#E5E7EB"),
	Border:        lipgloss.Color("#D1D5DB"),
	BorderFocus:   lipgloss.Color("#2563EB"),
	Selection:     lipgloss.Color("#DBEAFE"),
	Path:          lipgloss.Color("#7C3AED"),
	Value:         lipgloss.Color("#1F2937"),
	Link:          lipgloss.Color("#0369A1"),
	LinkIndex:     lipgloss.Color("#B45309"),
	Error:         lipgloss.Color("#DC2626"),
	Success:       lipgloss.Color("#15803D"),
	Info:          lipgloss.Color("#1D4ED8"),
	CrumbActive:   lipgloss.Color("#111827"),
	CrumbInactive: lipgloss.Color("#6B7280"),
	TabActive:     lipgloss.Color("#2563EB"),
	TabInactive:   lipgloss.Color("#9CA3AF"),
}

// Current is the active theme.
var Current = Default

// Set changes the active theme by name.
func Set(name string) bool {
	if t, ok := themes[name]; ok {
		Current = t
		return true
	}
	return false
}

// List returns all available theme names, sorted.
func List() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
