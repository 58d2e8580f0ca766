// Package mockapi serves the film catalog HTTP API from a local SQLite
// database. It speaks the same wire format as the remote service so the
// client can be exercised offline, including injected failures.
package mockapi

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"

	"reelbox/internal/gateway"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Options struct {
	Store *Store
	// Token, when set, must match the Basic authorization value exactly.
	// Otherwise any Basic value is accepted.
	Token string
	// Author is stamped on new comments.
	Author string
	Rate   rate.Limit
	Burst  int
	// FailRate is the probability (0..1) that a mutating request fails
	// with 503 before touching the store.
	FailRate float64
	// Rand returns values in [0,1); defaults to math/rand/v2.
	Rand     func() float64
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

type server struct {
	store    *Store
	author   string
	failRate float64
	rand     func() float64
	logger   *zap.Logger
	metrics  *serverMetrics
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type commentRequest struct {
	Comment string `json:"comment" validate:"required"`
	Emotion string `json:"emotion" validate:"required,oneof=smile sleeping puke angry"`
}

// NewHandler builds the router:
//
//	GET    /movies
//	PUT    /movies/{id}
//	GET    /comments/{id}
//	POST   /comments/{id}
//	DELETE /comments/{id}
//	GET    /metrics, /healthz (no auth)
func NewHandler(opts Options) http.Handler {
	s := &server{
		store:    opts.Store,
		author:   opts.Author,
		failRate: opts.FailRate,
		rand:     opts.Rand,
		logger:   opts.Logger,
	}
	if s.author == "" {
		s.author = "Guest"
	}
	if s.rand == nil {
		s.rand = rand.Float64
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s.metrics = newServerMetrics(reg)

	limit, burst := opts.Rate, opts.Burst
	if limit <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(limit, burst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5, "application/json"))
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(requireAuth(opts.Token))
		r.Use(rateLimit(limiter))
		r.Use(s.injectFailures)

		r.Get("/movies", s.listFilms)
		r.Put("/movies/{id}", s.updateFilm)
		r.Get("/comments/{id}", s.listComments)
		r.Post("/comments/{id}", s.addComment)
		r.Delete("/comments/{id}", s.deleteComment)
	})
	return r
}

func (s *server) listFilms(w http.ResponseWriter, r *http.Request) {
	films, err := s.store.Films(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, films)
}

func (s *server) updateFilm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body gateway.FilmJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed film")
		return
	}
	if body.ID != "" && body.ID != id {
		writeError(w, http.StatusBadRequest, "id mismatch")
		return
	}
	f, err := s.store.UpdateUserDetails(r.Context(), id, body.UserDetails)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *server) listComments(w http.ResponseWriter, r *http.Request) {
	cs, err := s.store.Comments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (s *server) addComment(w http.ResponseWriter, r *http.Request) {
	var body commentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed comment")
		return
	}
	body.Comment = strings.TrimSpace(body.Comment)
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.store.AddComment(r.Context(), chi.URLParam(r, "id"), s.author,
		gateway.CommentDraftJSON{Comment: body.Comment, Emotion: body.Emotion})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) deleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteComment(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
