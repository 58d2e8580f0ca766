package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// descriptionRenderer keeps the last glamour renderer. The overlay width only
// changes on resize, so one cached renderer is enough. WithAutoStyle can block
// on terminal queries; the style is picked from the detected background.
type descriptionRenderer struct {
	mu    sync.Mutex
	dark  bool
	width int
	r     *glamour.TermRenderer
}

var descriptions descriptionRenderer

func (d *descriptionRenderer) get(width int) (*glamour.TermRenderer, error) {
	dark := lipgloss.HasDarkBackground()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.r != nil && d.width == width && d.dark == dark {
		return d.r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(compactStyle(dark)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	d.r, d.width, d.dark = r, width, dark
	return r, nil
}

func compactStyle(dark bool) ansi.StyleConfig {
	cfg := styles.LightStyleConfig
	if dark {
		cfg = styles.DarkStyleConfig
	}
	var none uint
	cfg.Document.Margin = &none
	cfg.Paragraph.Margin = &none
	return cfg
}

// renderDescription renders a film description as markdown wrapped to width.
// Plain text is returned when rendering fails.
func renderDescription(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	r, err := descriptions.get(max(width, 10))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
