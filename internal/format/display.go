package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	releaseLayout = "2 January 2006"
	commentLayout = "2006/01/2 15:04"

	// DescriptionLimit is how many characters a card shows of a description.
	DescriptionLimit = 140
)

// Runtime renders minutes as "1h 36m", or "45m" under an hour.
func Runtime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func Year(t *time.Time) string {
	if t == nil {
		return ""
	}
	return strconv.Itoa(t.Year())
}

func ReleaseDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(releaseLayout)
}

func CommentDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(commentLayout)
}

// Rating renders a rating with one decimal, or "–" when unknown.
func Rating(r *float64) string {
	if r == nil {
		return "–"
	}
	return strconv.FormatFloat(*r, 'f', 1, 64)
}

// Truncate cuts s to at most limit runes, ending in an ellipsis when cut.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return strings.TrimRight(string(r[:limit-1]), " ") + "…"
}

// Plural picks one or many by n: Plural(1, "comment", "comments").
func Plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func Join(xs []string) string { return strings.Join(xs, ", ") }
