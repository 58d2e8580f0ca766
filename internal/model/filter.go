package model

import "strings"

type FilterType string

const (
	FilterAll       FilterType = "all"
	FilterWatchlist FilterType = "watchlist"
	FilterHistory   FilterType = "history"
	FilterFavorites FilterType = "favorites"
)

// FilterTypes lists filters in display order.
func FilterTypes() []FilterType {
	return []FilterType{FilterAll, FilterWatchlist, FilterHistory, FilterFavorites}
}

func ParseFilterType(s string) (FilterType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range FilterTypes() {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

func (f FilterType) Label() string {
	switch f {
	case FilterAll:
		return "All movies"
	case FilterWatchlist:
		return "Watchlist"
	case FilterHistory:
		return "History"
	case FilterFavorites:
		return "Favorites"
	default:
		return string(f)
	}
}

// Match reports whether it belongs under filter f. Unknown filters match nothing.
func (f FilterType) Match(it Item) bool {
	switch f {
	case FilterAll:
		return true
	case FilterWatchlist:
		return it.Flags.Watchlist
	case FilterHistory:
		return it.Flags.Watched
	case FilterFavorites:
		return it.Flags.Favorite
	default:
		return false
	}
}

func (f FilterType) Apply(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// FilterCount is derived on demand and never stored.
type FilterCount struct {
	Type  FilterType `json:"name"`
	Count int        `json:"count"`
}

func CountFilters(items []Item) []FilterCount {
	out := make([]FilterCount, 0, 4)
	for _, f := range FilterTypes() {
		n := 0
		for _, it := range items {
			if f.Match(it) {
				n++
			}
		}
		out = append(out, FilterCount{Type: f, Count: n})
	}
	return out
}

// ProfileRank derives the user's title from the number of watched films.
func ProfileRank(watched int) string {
	switch {
	case watched <= 0:
		return ""
	case watched <= 10:
		return "Novice"
	case watched <= 20:
		return "Fan"
	default:
		return "Movie Buff"
	}
}
