package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
)

// Cached glamour renderer to avoid recreation on every render call.
var (
	cachedRenderer      *glamour.TermRenderer
	cachedRendererWidth int
	rendererMu          sync.Mutex
)

// Header renders the summary card shown above a blueprint's fields.
func Header(h *blueprint.Handle, width int) string {
	if h == nil {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	var md strings.Builder
	md.WriteString("## " + escapeMarkdown(h.Name) + "\n\n")
	typ := h.Type
	if typ == "" {
		typ = "Blueprint"
	}
	md.WriteString(fmt.Sprintf("**%s** · `%s` · %s\n",
		escapeMarkdown(typ), h.GUIDText(), plural(len(h.BackReferences), "back-reference")))

	rendered, err := renderWithGlamour(md.String(), width)
	if err != nil {
		return md.String()
	}
	return strings.Trim(rendered, "\n")
}

// renderWithGlamour renders markdown with a renderer cached per width.
func renderWithGlamour(markdown string, width int) (string, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	if cachedRenderer == nil || cachedRendererWidth != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		cachedRenderer = renderer
		cachedRendererWidth = width
	}

	return cachedRenderer.Render(markdown)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`, "[", `\[`, "]", `\]`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
