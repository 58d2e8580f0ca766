// Package catalogtest provides an in-memory remote service for tests.
package catalogtest

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"reelbox/internal/gateway"
	"reelbox/internal/model"
)

// Gateway behaves like the remote service: it keeps films and comments,
// assigns comment ids, and can be told to fail specific calls.
type Gateway struct {
	mu       sync.Mutex
	order    []string
	films    map[string]model.Item
	comments map[string]model.Comment
	nextID   int
	failures map[string][]error
	Calls    []string
	// Updates records every UpdateItem body as sent.
	Updates []model.Item
	Now     time.Time
}

const (
	OpFetchItems    = "FetchItems"
	OpFetchComments = "FetchComments"
	OpUpdateItem    = "UpdateItem"
	OpAddComment    = "AddComment"
	OpDeleteComment = "DeleteComment"
)

func NewGateway(items []model.Item, comments []model.Comment) *Gateway {
	g := &Gateway{
		films:    map[string]model.Item{},
		comments: map[string]model.Comment{},
		failures: map[string][]error{},
		nextID:   1000,
		Now:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, it := range items {
		g.order = append(g.order, it.ID)
		g.films[it.ID] = it.Clone()
	}
	for _, c := range comments {
		g.comments[c.ID] = c
	}
	return g
}

// FailNext makes the next call of op return err. Calls queue up.
func (g *Gateway) FailNext(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[op] = append(g.failures[op], err)
}

func (g *Gateway) takeFailure(op string) error {
	g.Calls = append(g.Calls, op)
	q := g.failures[op]
	if len(q) == 0 {
		return nil
	}
	g.failures[op] = q[1:]
	return q[0]
}

func (g *Gateway) Film(id string) (model.Item, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	it, ok := g.films[id]
	return it, ok
}

func (g *Gateway) CallCount(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (g *Gateway) FetchItems(ctx context.Context) ([]model.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure(OpFetchItems); err != nil {
		return nil, err
	}
	out := make([]model.Item, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.films[id].Clone())
	}
	return out, nil
}

func (g *Gateway) FetchComments(ctx context.Context, itemID string) ([]model.Comment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure(OpFetchComments); err != nil {
		return nil, err
	}
	it, ok := g.films[itemID]
	if !ok {
		return nil, &gateway.NotFoundError{Kind: "film", ID: itemID}
	}
	return g.commentsFor(it), nil
}

func (g *Gateway) commentsFor(it model.Item) []model.Comment {
	out := make([]model.Comment, 0, len(it.CommentIDs))
	for _, id := range it.CommentIDs {
		if c, ok := g.comments[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (g *Gateway) UpdateItem(ctx context.Context, it model.Item) (model.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Updates = append(g.Updates, it.Clone())
	if err := g.takeFailure(OpUpdateItem); err != nil {
		return model.Item{}, err
	}
	prev, ok := g.films[it.ID]
	if !ok {
		return model.Item{}, &gateway.NotFoundError{Kind: "film", ID: it.ID}
	}
	// The server owns comments and rating; only user flags are taken from the body.
	next := prev.Clone()
	next.Flags = it.Flags
	if next.Flags.Watched && next.Flags.WatchingDate == nil {
		d := g.Now
		next.Flags.WatchingDate = &d
	}
	g.films[it.ID] = next
	return next.Clone(), nil
}

func (g *Gateway) AddComment(ctx context.Context, itemID string, d model.CommentDraft) (model.Item, []model.Comment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure(OpAddComment); err != nil {
		return model.Item{}, nil, err
	}
	it, ok := g.films[itemID]
	if !ok {
		return model.Item{}, nil, &gateway.NotFoundError{Kind: "film", ID: itemID}
	}
	g.nextID++
	c := model.Comment{
		ID:      fmt.Sprintf("%d", g.nextID),
		Author:  "Tester",
		Text:    d.Text,
		Emotion: d.Emotion,
		Date:    g.Now,
	}
	g.comments[c.ID] = c
	it = it.WithComment(c.ID)
	g.films[itemID] = it
	return it.Clone(), g.commentsFor(it), nil
}

func (g *Gateway) DeleteComment(ctx context.Context, commentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure(OpDeleteComment); err != nil {
		return err
	}
	if _, ok := g.comments[commentID]; !ok {
		return &gateway.NotFoundError{Kind: "comment", ID: commentID}
	}
	delete(g.comments, commentID)
	for id, it := range g.films {
		if slices.Contains(it.CommentIDs, commentID) {
			g.films[id] = it.WithoutComment(commentID)
		}
	}
	return nil
}

// Films builds n films "f1".."fn" with ascending ratings and release years.
func Films(n int) []model.Item {
	out := make([]model.Item, 0, n)
	for i := 1; i <= n; i++ {
		rating := float64(i)
		release := time.Date(1990+i, 1, 1, 0, 0, 0, 0, time.UTC)
		out = append(out, model.Item{
			ID: fmt.Sprintf("f%d", i),
			Info: model.Info{
				Title:          fmt.Sprintf("Film %d", i),
				Rating:         &rating,
				ReleaseDate:    &release,
				RuntimeMinutes: 90 + i,
				Genres:         []string{"Drama"},
			},
			CommentIDs: []string{},
		})
	}
	return out
}
