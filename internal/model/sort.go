package model

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

type SortType string

const (
	SortDefault SortType = "default"
	SortDate    SortType = "date"
	SortRating  SortType = "rating"
)

func SortTypes() []SortType { return []SortType{SortDefault, SortDate, SortRating} }

func ParseSortType(s string) (SortType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range SortTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

func (t SortType) Label() string {
	switch t {
	case SortDate:
		return "Sort by date"
	case SortRating:
		return "Sort by rating"
	default:
		return "Sort by default"
	}
}

// nullWeight orders nil operands after non-nil ones in either direction.
// ok is false when both operands are present and must be compared by value.
func nullWeight(aNil, bNil bool) (w int, ok bool) {
	switch {
	case aNil && bNil:
		return 0, true
	case aNil:
		return 1, true
	case bNil:
		return -1, true
	}
	return 0, false
}

// CompareDateDown orders newer releases first; missing dates last.
func CompareDateDown(a, b Item) int {
	if w, ok := nullWeight(a.Info.ReleaseDate == nil, b.Info.ReleaseDate == nil); ok {
		return w
	}
	return compareTimeDesc(*a.Info.ReleaseDate, *b.Info.ReleaseDate)
}

// CompareRatingDown orders higher ratings first; missing ratings last.
func CompareRatingDown(a, b Item) int {
	if w, ok := nullWeight(a.Info.Rating == nil, b.Info.Rating == nil); ok {
		return w
	}
	return cmp.Compare(*b.Info.Rating, *a.Info.Rating)
}

func compareTimeDesc(a, b time.Time) int {
	return b.Compare(a)
}

// Sort returns a sorted copy. Equal elements keep their input order.
func (t SortType) Sort(items []Item) []Item {
	out := slices.Clone(items)
	switch t {
	case SortDate:
		slices.SortStableFunc(out, CompareDateDown)
	case SortRating:
		slices.SortStableFunc(out, CompareRatingDown)
	}
	return out
}
