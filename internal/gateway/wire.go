package gateway

import (
	"fmt"
	"strings"
	"time"

	"reelbox/internal/model"

	"github.com/go-playground/validator/v10"
)

// The remote service speaks snake_case with nested release/user blocks. The
// *JSON types mirror that shape; ToModel validates and converts.

type FilmJSON struct {
	ID          string          `json:"id" validate:"required"`
	Comments    []string        `json:"comments" validate:"dive,required"`
	FilmInfo    FilmInfoJSON    `json:"film_info"`
	UserDetails UserDetailsJSON `json:"user_details"`
}

type FilmInfoJSON struct {
	Title            string      `json:"title" validate:"required"`
	AlternativeTitle string      `json:"alternative_title"`
	TotalRating      *float64    `json:"total_rating" validate:"omitempty,gte=0,lte=10"`
	Poster           string      `json:"poster"`
	AgeRating        int         `json:"age_rating" validate:"gte=0"`
	Director         string      `json:"director"`
	Writers          []string    `json:"writers"`
	Actors           []string    `json:"actors"`
	Release          ReleaseJSON `json:"release"`
	Duration         int         `json:"duration" validate:"gte=0"`
	Genre            []string    `json:"genre"`
	Description      string      `json:"description"`
}

type ReleaseJSON struct {
	Date           *string `json:"date"`
	ReleaseCountry string  `json:"release_country"`
}

type UserDetailsJSON struct {
	Watchlist      bool    `json:"watchlist"`
	AlreadyWatched bool    `json:"already_watched"`
	WatchingDate   *string `json:"watching_date"`
	Favorite       bool    `json:"favorite"`
}

type CommentJSON struct {
	ID      string `json:"id" validate:"required"`
	Author  string `json:"author"`
	Comment string `json:"comment"`
	Date    string `json:"date" validate:"required"`
	Emotion string `json:"emotion" validate:"required,oneof=smile sleeping puke angry"`
}

type CommentDraftJSON struct {
	Comment string `json:"comment"`
	Emotion string `json:"emotion"`
}

type CommentResultJSON struct {
	Movie    FilmJSON      `json:"movie" validate:"required"`
	Comments []CommentJSON `json:"comments" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func parseWireTime(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func formatWireTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return &s
}

func (w FilmJSON) ToModel() (model.Item, error) {
	if err := validate.Struct(w); err != nil {
		return model.Item{}, err
	}
	release, err := parseWireTime(w.FilmInfo.Release.Date)
	if err != nil {
		return model.Item{}, fmt.Errorf("film %s release date: %w", w.ID, err)
	}
	watching, err := parseWireTime(w.UserDetails.WatchingDate)
	if err != nil {
		return model.Item{}, fmt.Errorf("film %s watching date: %w", w.ID, err)
	}
	commentIDs := w.Comments
	if commentIDs == nil {
		commentIDs = []string{}
	}
	return model.Item{
		ID: w.ID,
		Info: model.Info{
			Title:            w.FilmInfo.Title,
			AlternativeTitle: w.FilmInfo.AlternativeTitle,
			Rating:           w.FilmInfo.TotalRating,
			Poster:           w.FilmInfo.Poster,
			AgeRating:        w.FilmInfo.AgeRating,
			Director:         w.FilmInfo.Director,
			Writers:          w.FilmInfo.Writers,
			Actors:           w.FilmInfo.Actors,
			ReleaseDate:      release,
			ReleaseCountry:   w.FilmInfo.Release.ReleaseCountry,
			RuntimeMinutes:   w.FilmInfo.Duration,
			Genres:           w.FilmInfo.Genre,
			Description:      w.FilmInfo.Description,
		},
		Flags: model.UserFlags{
			Watchlist:    w.UserDetails.Watchlist,
			Watched:      w.UserDetails.AlreadyWatched,
			WatchingDate: watching,
			Favorite:     w.UserDetails.Favorite,
		},
		CommentIDs: commentIDs,
	}, nil
}

func FilmToWire(it model.Item) FilmJSON {
	comments := it.CommentIDs
	if comments == nil {
		comments = []string{}
	}
	return FilmJSON{
		ID:       it.ID,
		Comments: comments,
		FilmInfo: FilmInfoJSON{
			Title:            it.Info.Title,
			AlternativeTitle: it.Info.AlternativeTitle,
			TotalRating:      it.Info.Rating,
			Poster:           it.Info.Poster,
			AgeRating:        it.Info.AgeRating,
			Director:         it.Info.Director,
			Writers:          it.Info.Writers,
			Actors:           it.Info.Actors,
			Release: ReleaseJSON{
				Date:           formatWireTime(it.Info.ReleaseDate),
				ReleaseCountry: it.Info.ReleaseCountry,
			},
			Duration:    it.Info.RuntimeMinutes,
			Genre:       it.Info.Genres,
			Description: it.Info.Description,
		},
		UserDetails: UserDetailsJSON{
			Watchlist:      it.Flags.Watchlist,
			AlreadyWatched: it.Flags.Watched,
			WatchingDate:   formatWireTime(it.Flags.WatchingDate),
			Favorite:       it.Flags.Favorite,
		},
	}
}

func (w CommentJSON) ToModel() (model.Comment, error) {
	if err := validate.Struct(w); err != nil {
		return model.Comment{}, err
	}
	d, err := parseWireTime(&w.Date)
	if err != nil {
		return model.Comment{}, fmt.Errorf("comment %s date: %w", w.ID, err)
	}
	c := model.Comment{
		ID:      w.ID,
		Author:  w.Author,
		Text:    w.Comment,
		Emotion: model.Emotion(w.Emotion),
	}
	if d != nil {
		c.Date = *d
	}
	return c, nil
}

func CommentToWire(c model.Comment) CommentJSON {
	return CommentJSON{
		ID:      c.ID,
		Author:  c.Author,
		Comment: c.Text,
		Date:    *formatWireTime(&c.Date),
		Emotion: string(c.Emotion),
	}
}

func filmsToModel(ws []FilmJSON) ([]model.Item, error) {
	out := make([]model.Item, 0, len(ws))
	for _, w := range ws {
		it, err := w.ToModel()
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func commentsToModel(ws []CommentJSON) ([]model.Comment, error) {
	out := make([]model.Comment, 0, len(ws))
	for _, w := range ws {
		c, err := w.ToModel()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
