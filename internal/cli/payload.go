package cli

import (
	"strconv"
	"strings"

	"reelbox/internal/format"
	"reelbox/internal/gateway"
	"reelbox/internal/model"
)

// Scriptable output keeps the remote wire shape so it can be piped back
// into other tools that speak it.

type filmsPayload struct {
	Data []gateway.FilmJSON `json:"data"`
	Meta filmsMeta          `json:"meta"`
}

type filmsMeta struct {
	Filter  model.FilterType    `json:"filter"`
	Sort    model.SortType      `json:"sort"`
	Total   int                 `json:"total"`
	Shown   int                 `json:"shown"`
	Counts  []model.FilterCount `json:"counts"`
	Profile string              `json:"profile,omitempty"`
}

func (p filmsPayload) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(p.Data))
	for _, f := range p.Data {
		it, err := f.ToModel()
		if err != nil {
			continue
		}
		rows = append(rows, []string{
			it.ID,
			it.Info.Title,
			format.Rating(it.Info.Rating),
			format.Year(it.Info.ReleaseDate),
			format.Runtime(it.Info.RuntimeMinutes),
			flagMarks(it.Flags),
			strconv.Itoa(len(it.CommentIDs)),
		})
	}
	return []string{"id", "title", "rating", "year", "runtime", "flags", "comments"}, rows
}

func flagMarks(f model.UserFlags) string {
	marks := []string{}
	if f.Watchlist {
		marks = append(marks, "watchlist")
	}
	if f.Watched {
		marks = append(marks, "watched")
	}
	if f.Favorite {
		marks = append(marks, "favorite")
	}
	return strings.Join(marks, ",")
}

type filmPayload struct {
	Data     gateway.FilmJSON      `json:"data"`
	Comments []gateway.CommentJSON `json:"comments,omitempty"`
}

func (p filmPayload) Table() ([]string, [][]string) {
	return filmsPayload{Data: []gateway.FilmJSON{p.Data}}.Table()
}

type commentsPayload struct {
	Data []gateway.CommentJSON `json:"data"`
}

func (p commentsPayload) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(p.Data))
	for _, c := range p.Data {
		rows = append(rows, []string{c.ID, c.Author, c.Emotion, c.Date, format.Truncate(c.Comment, 60)})
	}
	return []string{"id", "author", "emotion", "date", "comment"}, rows
}

func filmsToWire(items []model.Item) []gateway.FilmJSON {
	out := make([]gateway.FilmJSON, 0, len(items))
	for _, it := range items {
		out = append(out, gateway.FilmToWire(it))
	}
	return out
}

func commentsToWire(cs []model.Comment) []gateway.CommentJSON {
	out := make([]gateway.CommentJSON, 0, len(cs))
	for _, c := range cs {
		out = append(out, gateway.CommentToWire(c))
	}
	return out
}
