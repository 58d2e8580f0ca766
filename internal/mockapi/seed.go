package mockapi

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"reelbox/internal/gateway"
	"reelbox/internal/model"
)

var (
	seedTitles = []string{
		"The Dance of Life", "Sagebrush Trail", "The Man with the Golden Arm",
		"Santa Claus Conquers the Martians", "Popeye the Sailor Meets Sindbad",
		"The Great Flamarion", "Made for Each Other", "A Shadow of the Past",
		"Night Train to Lisbon", "The Last Lighthouse", "Paper Moons", "Quiet Harbour",
	}
	seedPeople = []string{
		"Anthony Mann", "Anne Wigton", "Heinz Herald", "Richard Weil",
		"Erich von Stroheim", "Mary Beth Hughes", "Dan Duryea", "Takeshi Kitano",
		"Morgan Freeman", "Ingrid Bergman", "Toshiro Mifune", "Liv Ullmann",
	}
	seedGenres    = []string{"Drama", "Film-Noir", "Mystery", "Comedy", "Western", "Musical", "Cartoon"}
	seedCountries = []string{"USA", "Finland", "Italy", "Japan", "France"}
	seedAuthors   = []string{"Ilya O'Reilly", "Tim Macoveev", "John Doe", "Mia Rossi"}
	seedComments  = []string{
		"a film that changed my life, a true masterpiece",
		"Interesting setting and a good cast",
		"Booooooooooring",
		"Very very old. Meh",
		"Almost two hours? Seriously?",
	}
)

// Seed fills an empty store with n generated films. The same seed always
// yields the same catalog.
func Seed(ctx context.Context, s *Store, n int, seed uint64) error {
	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		f, cs := seedFilm(rng, i, base)
		if err := s.InsertFilm(ctx, f, cs); err != nil {
			return fmt.Errorf("seed film %d: %w", i, err)
		}
	}
	return nil
}

func pick[T any](rng *rand.Rand, xs []T) T { return xs[rng.IntN(len(xs))] }

func pickN[T any](rng *rand.Rand, xs []T, n int) []T {
	out := make([]T, 0, n)
	for _, i := range rng.Perm(len(xs))[:n] {
		out = append(out, xs[i])
	}
	return out
}

func seedFilm(rng *rand.Rand, i int, base time.Time) (gateway.FilmJSON, []gateway.CommentJSON) {
	id := fmt.Sprintf("%d", i)
	title := pick(rng, seedTitles)

	var rating *float64
	if rng.IntN(8) != 0 {
		r := float64(rng.IntN(100)) / 10
		rating = &r
	}
	var release *string
	if rng.IntN(10) != 0 {
		d := time.Date(1930+rng.IntN(70), time.Month(1+rng.IntN(12)), 1+rng.IntN(28), 0, 0, 0, 0, time.UTC).Format(wireTime)
		release = &d
	}
	watched := rng.IntN(3) == 0
	var watchingDate *string
	if watched {
		d := base.Add(-time.Duration(rng.IntN(365*24)) * time.Hour).Format(wireTime)
		watchingDate = &d
	}

	f := gateway.FilmJSON{
		ID: id,
		FilmInfo: gateway.FilmInfoJSON{
			Title:            title,
			AlternativeTitle: title + " (original)",
			TotalRating:      rating,
			Poster:           fmt.Sprintf("images/posters/poster-%d.jpg", 1+rng.IntN(7)),
			AgeRating:        []int{0, 6, 12, 16, 18}[rng.IntN(5)],
			Director:         pick(rng, seedPeople),
			Writers:          pickN(rng, seedPeople, 1+rng.IntN(2)),
			Actors:           pickN(rng, seedPeople, 2+rng.IntN(3)),
			Release:          gateway.ReleaseJSON{Date: release, ReleaseCountry: pick(rng, seedCountries)},
			Duration:         45 + rng.IntN(120),
			Genre:            pickN(rng, seedGenres, 1+rng.IntN(3)),
			Description:      "Oscar-winning film, a war drama about two young people, from the creators of timeless classic.",
		},
		UserDetails: gateway.UserDetailsJSON{
			Watchlist:      rng.IntN(3) == 0,
			AlreadyWatched: watched,
			WatchingDate:   watchingDate,
			Favorite:       watched && rng.IntN(2) == 0,
		},
	}

	emotions := model.Emotions()
	n := rng.IntN(5)
	cs := make([]gateway.CommentJSON, 0, n)
	for j := 0; j < n; j++ {
		cs = append(cs, gateway.CommentJSON{
			ID:      fmt.Sprintf("%s-%d", id, j),
			Author:  pick(rng, seedAuthors),
			Comment: pick(rng, seedComments),
			Date:    base.Add(-time.Duration(rng.IntN(365*24*5)) * time.Hour).Format(wireTime),
			Emotion: string(pick(rng, emotions)),
		})
	}
	return f, cs
}
