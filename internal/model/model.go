package model

import (
	"slices"
	"time"
)

// Item is one catalog entry. Records are treated as immutable snapshots:
// every change produces a new Item via the With*/Without* helpers.
type Item struct {
	ID         string    `json:"id"`
	Info       Info      `json:"info"`
	Flags      UserFlags `json:"userFlags"`
	CommentIDs []string  `json:"commentIds"`
}

type Info struct {
	Title            string     `json:"title"`
	AlternativeTitle string     `json:"alternativeTitle,omitempty"`
	Rating           *float64   `json:"rating,omitempty"`
	Poster           string     `json:"poster,omitempty"`
	AgeRating        int        `json:"ageRating"`
	Director         string     `json:"director,omitempty"`
	Writers          []string   `json:"writers,omitempty"`
	Actors           []string   `json:"actors,omitempty"`
	ReleaseDate      *time.Time `json:"releaseDate,omitempty"`
	ReleaseCountry   string     `json:"releaseCountry,omitempty"`
	RuntimeMinutes   int        `json:"runtimeMinutes"`
	Genres           []string   `json:"genres"`
	Description      string     `json:"description,omitempty"`
}

type UserFlags struct {
	Watchlist    bool       `json:"watchlist"`
	Watched      bool       `json:"watched"`
	WatchingDate *time.Time `json:"watchingDate,omitempty"`
	Favorite     bool       `json:"favorite"`
}

type Flag string

const (
	FlagWatchlist Flag = "watchlist"
	FlagWatched   Flag = "watched"
	FlagFavorite  Flag = "favorite"
)

func Flags() []Flag { return []Flag{FlagWatchlist, FlagWatched, FlagFavorite} }

func ParseFlag(s string) (Flag, bool) {
	for _, f := range Flags() {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

func (u UserFlags) Get(f Flag) bool {
	switch f {
	case FlagWatchlist:
		return u.Watchlist
	case FlagWatched:
		return u.Watched
	case FlagFavorite:
		return u.Favorite
	}
	return false
}

func (u UserFlags) With(f Flag, v bool) UserFlags {
	switch f {
	case FlagWatchlist:
		u.Watchlist = v
	case FlagWatched:
		u.Watched = v
	case FlagFavorite:
		u.Favorite = v
	}
	return u
}

// Clone returns a deep copy; slices and pointers are not shared with it.
func (it Item) Clone() Item {
	out := it
	out.Info.Writers = slices.Clone(it.Info.Writers)
	out.Info.Actors = slices.Clone(it.Info.Actors)
	out.Info.Genres = slices.Clone(it.Info.Genres)
	out.Info.Rating = clonePtr(it.Info.Rating)
	out.Info.ReleaseDate = clonePtr(it.Info.ReleaseDate)
	out.Flags.WatchingDate = clonePtr(it.Flags.WatchingDate)
	out.CommentIDs = slices.Clone(it.CommentIDs)
	return out
}

func (it Item) WithFlag(f Flag, v bool) Item {
	out := it.Clone()
	out.Flags = out.Flags.With(f, v)
	return out
}

func (it Item) WithComment(id string) Item {
	out := it.Clone()
	if !slices.Contains(out.CommentIDs, id) {
		out.CommentIDs = append(out.CommentIDs, id)
	}
	return out
}

func (it Item) WithoutComment(id string) Item {
	out := it.Clone()
	out.CommentIDs = slices.DeleteFunc(out.CommentIDs, func(c string) bool { return c == id })
	return out
}

func (it Item) HasComment(id string) bool {
	return slices.Contains(it.CommentIDs, id)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

type Emotion string

const (
	EmotionSmile    Emotion = "smile"
	EmotionSleeping Emotion = "sleeping"
	EmotionPuke     Emotion = "puke"
	EmotionAngry    Emotion = "angry"
)

func Emotions() []Emotion {
	return []Emotion{EmotionSmile, EmotionSleeping, EmotionPuke, EmotionAngry}
}

func (e Emotion) Valid() bool {
	return slices.Contains(Emotions(), e)
}

type Comment struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Date    time.Time `json:"date"`
	Emotion Emotion   `json:"emotion"`
}

// CommentDraft is what the user submits; the server assigns id, author and date.
type CommentDraft struct {
	Text    string  `json:"text"`
	Emotion Emotion `json:"emotion"`
}
