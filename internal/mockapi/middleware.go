package mockapi

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const basicPrefix = "Basic "

func requireAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, basicPrefix) || strings.TrimSpace(h[len(basicPrefix):]) == "" {
				writeError(w, http.StatusUnauthorized, "authorization required")
				return
			}
			if token != "" && strings.TrimSpace(h[len(basicPrefix):]) != token {
				writeError(w, http.StatusUnauthorized, "bad token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				retry := 1
				if lim := l.Limit(); lim > 0 && lim != rate.Inf {
					retry = max(1, int(math.Ceil(1/float64(lim))))
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && s.failRate > 0 && s.rand() < s.failRate {
			s.logger.Info("injected failure", zap.String("method", r.Method), zap.String("path", r.URL.Path))
			writeError(w, http.StatusServiceUnavailable, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type serverMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelbox_mockapi_requests_total",
			Help: "Requests served by the mock API.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reelbox_mockapi_request_duration_seconds",
			Help:    "Mock API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		s.metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(code)).Inc()
		s.metrics.duration.WithLabelValues(r.Method, route).Observe(time.Since(started).Seconds())
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", code),
			zap.Duration("took", time.Since(started)),
		)
	})
}
