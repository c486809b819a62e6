package export

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	rendererMu sync.Mutex
	// Renderers keyed by style and wrap width.
	renderers = map[string]*glamour.TermRenderer{}
)

// Preview renders Markdown for the terminal using the named glamour style
// ("dark", "light", "notty", ...).
func Preview(md, style string, width int) (string, error) {
	md = strings.TrimSpace(md)
	if md == "" {
		return "", nil
	}
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = "dark"
	}

	key := fmt.Sprintf("%s:%d", style, width)

	rendererMu.Lock()
	defer rendererMu.Unlock()

	r := renderers[key]
	if r == nil {
		// WithAutoStyle queries the terminal and can block, so styles are fixed.
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", fmt.Errorf("creating markdown renderer: %w", err)
		}
		renderers[key] = rr
		r = rr
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
