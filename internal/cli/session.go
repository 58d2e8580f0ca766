package cli

import (
	"context"

	"reelbox/internal/catalog"
	"reelbox/internal/gateway"
	"reelbox/internal/model"
)

// session runs the same stores the TUI uses, with every remote call
// completing inline.
type session struct {
	items    *catalog.ItemsStore
	comments *catalog.CommentsStore
	lastErr  error
}

func (app *App) openSession(ctx context.Context) (*session, error) {
	c, err := app.client()
	if err != nil {
		return nil, err
	}
	sched := catalog.ImmediateScheduler{Ctx: ctx}
	comments := catalog.NewCommentsStore(c, sched, app.logger)
	items := catalog.NewItemsStore(c, sched, comments, app.logger)
	s := &session{items: items, comments: comments}

	record := func(_ model.ChangeKind, ev catalog.Event) {
		if ev.Err != nil {
			s.lastErr = ev.Err
		}
	}
	items.Subscribe(record)
	comments.Subscribe(record)

	items.Load()
	if items.State() != catalog.LoadReady {
		return nil, items.LoadErr()
	}
	return s, nil
}

// do runs fn and returns either its local error or the remote failure it
// produced.
func (s *session) do(fn func() error) error {
	s.lastErr = nil
	if err := fn(); err != nil {
		return err
	}
	return s.lastErr
}

func (s *session) item(id string) (model.Item, error) {
	it, ok := s.items.Item(id)
	if !ok {
		return model.Item{}, &gateway.NotFoundError{Kind: "film", ID: id}
	}
	return it, nil
}

func (s *session) loadComments(id string) ([]model.Comment, error) {
	if _, err := s.item(id); err != nil {
		return nil, err
	}
	if err := s.do(func() error { s.comments.Ensure(id); return nil }); err != nil {
		return nil, err
	}
	cs, _ := s.comments.Comments(id)
	return cs, nil
}
