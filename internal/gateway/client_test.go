package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"reelbox/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const filmFixture = `{
  "id": "0",
  "comments": ["42", "43"],
  "film_info": {
    "title": "A Little Pony Without The Carpet",
    "alternative_title": "Laziness Who Sold Themselves",
    "total_rating": 5.3,
    "poster": "images/posters/blue-blazes.jpg",
    "age_rating": 0,
    "director": "Tom Ford",
    "writers": ["Takeshi Kitano"],
    "actors": ["Morgan Freeman"],
    "release": {"date": "2019-05-11T00:00:00.000Z", "release_country": "Finland"},
    "duration": 77,
    "genre": ["Comedy"],
    "description": "Oscar-winning film."
  },
  "user_details": {
    "watchlist": false,
    "already_watched": true,
    "watching_date": "2019-04-12T16:12:32.554Z",
    "favorite": false
  }
}`

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{
		Endpoint:   srv.URL + "/cinemaddict/",
		Token:      "secret",
		Timeout:    2 * time.Second,
		Registerer: prometheus.NewRegistry(),
		Breaker:    BreakerSettings{MaxFailures: 2, Cooldown: time.Minute},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestFetchItems_MapsWireShapeAndSendsAuth(t *testing.T) {
	var gotAuth string
	r := chi.NewRouter()
	r.Get("/cinemaddict/movies", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("[" + filmFixture + "]"))
	})
	c := newTestClient(t, r)

	items, err := c.FetchItems(context.Background())
	if err != nil {
		t.Fatalf("FetchItems: %v", err)
	}
	if gotAuth != "Basic secret" {
		t.Fatalf("expected auth header %q; got %q", "Basic secret", gotAuth)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item; got %d", len(items))
	}
	it := items[0]
	if it.ID != "0" || it.Info.Title != "A Little Pony Without The Carpet" {
		t.Fatalf("unexpected item: %+v", it)
	}
	if it.Info.Rating == nil || *it.Info.Rating != 5.3 {
		t.Fatalf("expected rating 5.3; got %v", it.Info.Rating)
	}
	if it.Info.ReleaseDate == nil || it.Info.ReleaseDate.Year() != 2019 {
		t.Fatalf("expected 2019 release; got %v", it.Info.ReleaseDate)
	}
	if !it.Flags.Watched || it.Flags.Watchlist {
		t.Fatalf("unexpected flags: %+v", it.Flags)
	}
	if len(it.CommentIDs) != 2 || it.CommentIDs[1] != "43" {
		t.Fatalf("unexpected comment ids: %v", it.CommentIDs)
	}
	if it.Info.RuntimeMinutes != 77 {
		t.Fatalf("expected runtime 77; got %d", it.Info.RuntimeMinutes)
	}
}

func TestUpdateItem_RoundTripsBody(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/cinemaddict/movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in FilmJSON
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if chi.URLParam(r, "id") != in.ID {
			http.Error(w, "id mismatch", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(in)
	})
	c := newTestClient(t, r)

	var fixture FilmJSON
	if err := json.Unmarshal([]byte(filmFixture), &fixture); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	it, err := fixture.ToModel()
	if err != nil {
		t.Fatalf("fixture ToModel: %v", err)
	}
	it = it.WithFlag(model.FlagFavorite, true)

	got, err := c.UpdateItem(context.Background(), it)
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if !got.Flags.Favorite {
		t.Fatalf("expected favorite to survive the round trip")
	}
	if got.Info.ReleaseDate == nil || !got.Info.ReleaseDate.Equal(*it.Info.ReleaseDate) {
		t.Fatalf("expected release date preserved; got %v", got.Info.ReleaseDate)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/cinemaddict/comments/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "id") {
		case "gone":
			http.NotFound(w, r)
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusOK)
		}
	})
	r.Get("/cinemaddict/comments/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "id") {
		case "garbled":
			_, _ = w.Write([]byte("{not json"))
		default:
			_, _ = w.Write([]byte(`[{"id":"1","author":"A","comment":"x","date":"2020-01-01T00:00:00.000Z","emotion":"grumpy"}]`))
		}
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	if err := c.DeleteComment(ctx, "ok"); err != nil {
		t.Fatalf("expected success; got %v", err)
	}
	err := c.DeleteComment(ctx, "gone")
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != "gone" {
		t.Fatalf("expected NotFoundError for gone; got %v", err)
	}
	if err := c.DeleteComment(ctx, "boom"); !IsNetwork(err) {
		t.Fatalf("expected NetworkError for 500; got %v", err)
	}
	if _, err := c.FetchComments(ctx, "garbled"); !IsReconciliation(err) {
		t.Fatalf("expected ReconciliationError for bad json; got %v", err)
	}
	if _, err := c.FetchComments(ctx, "f1"); !IsReconciliation(err) {
		t.Fatalf("expected ReconciliationError for unknown emotion; got %v", err)
	}
}

func TestBreakerOpensAfterConsecutiveNetworkFailures(t *testing.T) {
	var hits atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	c := newTestClient(t, h)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.FetchItems(ctx); !IsNetwork(err) {
			t.Fatalf("call %d: expected NetworkError; got %v", i, err)
		}
	}
	_, err := c.FetchItems(ctx)
	if !IsNetwork(err) {
		t.Fatalf("expected NetworkError from open breaker; got %v", err)
	}
	if !strings.Contains(err.Error(), "open") {
		t.Fatalf("expected open-state error; got %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected breaker to stop the third request; server saw %d", hits.Load())
	}
}

func TestNew_RejectsNonHTTPEndpoint(t *testing.T) {
	if _, err := New(Options{Endpoint: "ftp://example.com"}); err == nil {
		t.Fatalf("expected error for ftp endpoint")
	}
}
