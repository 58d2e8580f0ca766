// Package gateway is the HTTP client for the remote film service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reelbox/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://19.ecmascript.pages.academy/cinemaddict/"
	DefaultTimeout  = 10 * time.Second
)

type BreakerSettings struct {
	// MaxFailures is the number of consecutive network failures that opens the breaker.
	MaxFailures uint32
	// Cooldown is how long the breaker stays open before letting a probe through.
	Cooldown time.Duration
}

type Options struct {
	Endpoint   string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Registerer prometheus.Registerer
	Breaker    BreakerSettings
}

// Client talks to the remote service. It never retries; a failed call is
// reported once and the caller decides what to do.
type Client struct {
	base    *url.URL
	token   string
	timeout time.Duration
	http    *http.Client
	logger  *zap.Logger
	breaker *gobreaker.CircuitBreaker
	metrics *clientMetrics
}

func New(opts Options) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("endpoint must be http(s): %s", endpoint)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxFailures := opts.Breaker.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	cooldown := opts.Breaker.Cooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	c := &Client{
		base:    base,
		token:   opts.Token,
		timeout: timeout,
		http:    hc,
		logger:  logger.With(zap.String("component", "gateway")),
		metrics: newClientMetrics(opts.Registerer),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "remote-films",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// Only transport-level trouble should trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || !IsNetwork(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c, nil
}

func (c *Client) FetchItems(ctx context.Context) ([]model.Item, error) {
	const op = "fetch films"
	var ws []FilmJSON
	if err := c.do(ctx, op, "films", http.MethodGet, []string{"movies"}, nil, &ws); err != nil {
		return nil, err
	}
	items, err := filmsToModel(ws)
	if err != nil {
		return nil, c.invalid(op, "films", err)
	}
	return items, nil
}

func (c *Client) FetchComments(ctx context.Context, itemID string) ([]model.Comment, error) {
	const op = "fetch comments"
	var ws []CommentJSON
	if err := c.do(ctx, op, "film", http.MethodGet, []string{"comments", itemID}, nil, &ws); err != nil {
		return nil, err
	}
	comments, err := commentsToModel(ws)
	if err != nil {
		return nil, c.invalid(op, "comments", err)
	}
	return comments, nil
}

func (c *Client) UpdateItem(ctx context.Context, it model.Item) (model.Item, error) {
	const op = "update film"
	var w FilmJSON
	if err := c.do(ctx, op, "film", http.MethodPut, []string{"movies", it.ID}, FilmToWire(it), &w); err != nil {
		return model.Item{}, err
	}
	out, err := w.ToModel()
	if err != nil {
		return model.Item{}, c.invalid(op, "film", err)
	}
	if out.ID != it.ID {
		return model.Item{}, c.invalid(op, "film", fmt.Errorf("expected id %s; got %s", it.ID, out.ID))
	}
	return out, nil
}

func (c *Client) AddComment(ctx context.Context, itemID string, d model.CommentDraft) (model.Item, []model.Comment, error) {
	const op = "add comment"
	body := CommentDraftJSON{Comment: d.Text, Emotion: string(d.Emotion)}
	var res CommentResultJSON
	if err := c.do(ctx, op, "film", http.MethodPost, []string{"comments", itemID}, body, &res); err != nil {
		return model.Item{}, nil, err
	}
	it, err := res.Movie.ToModel()
	if err != nil {
		return model.Item{}, nil, c.invalid(op, "film", err)
	}
	comments, err := commentsToModel(res.Comments)
	if err != nil {
		return model.Item{}, nil, c.invalid(op, "comments", err)
	}
	return it, comments, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, "delete comment", "comment", http.MethodDelete, []string{"comments", commentID}, nil, nil)
}

func (c *Client) invalid(op, kind string, err error) error {
	c.logger.Warn("response failed validation", zap.String("op", op), zap.String("kind", kind), zap.Error(err))
	return &ReconciliationError{Op: op, Err: err}
}

// do runs one request through the breaker. kind names the resource for
// NotFoundError; the last path segment is used as its id.
func (c *Client) do(ctx context.Context, op, kind, method string, segs []string, in, out any) error {
	route := segs[0]
	started := time.Now()
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.roundTrip(ctx, op, kind, method, segs, in, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &NetworkError{Op: op, Err: err}
	}
	c.metrics.observe(method, route, err, time.Since(started))
	if err != nil && !IsNotFound(err) {
		c.logger.Warn("remote call failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("route", route),
			zap.Error(err),
		)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, op, kind, method string, segs []string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	escaped := make([]string, len(segs))
	for i, s := range segs {
		escaped[i] = url.PathEscape(s)
	}
	u := c.base.JoinPath(escaped...)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Basic "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{Kind: kind, ID: segs[len(segs)-1]}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &NetworkError{Op: op, Status: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return &NetworkError{Op: op, Err: err}
		}
		return &ReconciliationError{Op: op, Err: err}
	}
	return nil
}
