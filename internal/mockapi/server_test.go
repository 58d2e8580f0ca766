package mockapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reelbox/internal/gateway"
	"reelbox/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

func newTestStore(t *testing.T, films int) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := OpenStore(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	if err := Seed(ctx, s, films, 7); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *gateway.Client) {
	t.Helper()
	if opts.Store == nil {
		opts.Store = newTestStore(t, 6)
	}
	srv := httptest.NewServer(NewHandler(opts))
	t.Cleanup(srv.Close)
	token := opts.Token
	if token == "" {
		token = "anon"
	}
	c, err := gateway.New(gateway.Options{
		Endpoint:   srv.URL,
		Token:      token,
		Timeout:    2 * time.Second,
		Registerer: prometheus.NewRegistry(),
		Breaker:    gateway.BreakerSettings{MaxFailures: 100},
	})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return srv, c
}

func TestSeedIsDeterministicAndIdempotent(t *testing.T) {
	ctx := context.Background()
	a := newTestStore(t, 5)
	b := newTestStore(t, 5)
	fa, _ := a.Films(ctx)
	fb, _ := b.Films(ctx)
	if len(fa) != 5 || len(fb) != 5 {
		t.Fatalf("expected 5 films each; got %d and %d", len(fa), len(fb))
	}
	for i := range fa {
		if fa[i].FilmInfo.Title != fb[i].FilmInfo.Title || len(fa[i].Comments) != len(fb[i].Comments) {
			t.Fatalf("expected same catalog for same seed at %d", i)
		}
	}
	if err := Seed(ctx, a, 5, 99); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if n, _ := a.Count(ctx); n != 5 {
		t.Fatalf("expected seeding a full store to be a no-op; got %d", n)
	}
}

func TestClientRoundTripAgainstServer(t *testing.T) {
	ctx := context.Background()
	_, c := newTestServer(t, Options{Token: "secret"})

	items, err := c.FetchItems(ctx)
	if err != nil {
		t.Fatalf("fetch items: %v", err)
	}
	if len(items) != 6 {
		t.Fatalf("expected 6 films; got %d", len(items))
	}

	it := items[0]
	next := it.WithFlag(model.FlagWatched, true).WithFlag(model.FlagFavorite, !it.Flags.Favorite)
	got, err := c.UpdateItem(ctx, next)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.Flags.Watched || got.Flags.WatchingDate == nil || got.Flags.Favorite != next.Flags.Favorite {
		t.Fatalf("expected server-confirmed flags; got %+v", got.Flags)
	}

	film, comments, err := c.AddComment(ctx, it.ID, model.CommentDraft{Text: "  great  ", Emotion: model.EmotionSmile})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if len(film.CommentIDs) != len(it.CommentIDs)+1 || len(comments) != len(film.CommentIDs) {
		t.Fatalf("expected one more comment; ids=%v comments=%d", film.CommentIDs, len(comments))
	}
	added := comments[len(comments)-1]
	if added.Text != "great" || added.Author != "Guest" {
		t.Fatalf("unexpected new comment %+v", added)
	}

	if err := c.DeleteComment(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	cs, err := c.FetchComments(ctx, it.ID)
	if err != nil {
		t.Fatalf("fetch comments: %v", err)
	}
	if len(cs) != len(it.CommentIDs) {
		t.Fatalf("expected comment removed; got %d", len(cs))
	}

	if err := c.DeleteComment(ctx, added.ID); !gateway.IsNotFound(err) {
		t.Fatalf("expected not found on second delete; got %v", err)
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t, Options{Token: "secret"})
	for _, auth := range []string{"", "Basic wrong"} {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/movies", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %q; got %d", auth, resp.StatusCode)
		}
	}
}

func TestInjectedFailuresOnlyHitMutations(t *testing.T) {
	ctx := context.Background()
	_, c := newTestServer(t, Options{FailRate: 1, Token: "t"})
	items, err := c.FetchItems(ctx)
	if err != nil {
		t.Fatalf("reads should not fail: %v", err)
	}
	_, err = c.UpdateItem(ctx, items[0].WithFlag(model.FlagWatchlist, true))
	if !gateway.IsNetwork(err) {
		t.Fatalf("expected network error; got %v", err)
	}
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, Options{Rate: rate.Every(time.Hour), Burst: 1})
	get := func() int {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/movies", nil)
		req.Header.Set("Authorization", "Basic any")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	if code := get(); code != http.StatusOK {
		t.Fatalf("expected first request ok; got %d", code)
	}
	if code := get(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429; got %d", code)
	}
}

func TestBadCommentRejected(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/comments/0", strings.NewReader(`{"comment":"x","emotion":"happy"}`))
	req.Header.Set("Authorization", "Basic any")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400; got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, c := newTestServer(t, Options{})
	if _, err := c.FetchItems(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), `reelbox_mockapi_requests_total{code="200",method="GET",route="/movies"} 1`) {
		t.Fatalf("expected request counter; got %s", b)
	}
}
