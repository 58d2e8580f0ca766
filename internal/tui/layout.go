package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// clampLine cuts s to width columns (ANSI-aware), ending in "…" when cut.
func clampLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

// normalizePane forces s to exactly width columns and height lines so the
// frame does not jitter as content changes.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	height = max(height, 0)

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		ln = clampLine(ln, width)
		if w := xansi.StringWidth(ln); w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// visibleWindow returns the [from,to) range of n rows of heights h that keeps
// row sel on screen within budget lines, starting at from when possible.
func visibleWindow(heights []int, sel, from, budget int) (int, int) {
	n := len(heights)
	if n == 0 {
		return 0, 0
	}
	sel = min(max(sel, 0), n-1)
	from = min(max(from, 0), sel)
	for {
		used, to := 0, from
		for to < n && used+heights[to] <= budget {
			used += heights[to]
			to++
		}
		if to == from {
			to = from + 1
		}
		if sel < to {
			return from, to
		}
		from++
	}
}
