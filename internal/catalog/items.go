// Package catalog holds the canonical in-memory film catalog and its comment
// cache, applies user actions optimistically, reconciles them with the remote
// service, and tells subscribers how much of the UI each change affects.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"reelbox/internal/bus"
	"reelbox/internal/gateway"
	"reelbox/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotLoaded      = errors.New("catalog not loaded")
	ErrUnknownItem    = errors.New("unknown film")
	ErrUnknownComment = errors.New("unknown comment")
	ErrInvalidDraft   = errors.New("invalid comment draft")
	ErrUnknownAction  = errors.New("unknown action")
)

// PendingCommentPrefix marks ids of comments that exist only locally while
// their ADD_COMMENT call is in flight.
const PendingCommentPrefix = "pending-"

type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadReady
	LoadFailed
)

// Request carries the proposed change for UpdateItem. Only the fields the
// action needs are read.
type Request struct {
	ItemID string
	// Kind is the granularity for flag updates: PATCH when no overlay is
	// open, MINOR when one is. Comment actions are always MAJOR.
	Kind      model.ChangeKind
	Flag      model.Flag
	Value     bool
	Draft     model.CommentDraft
	CommentID string
}

type pendingOp struct {
	seq      int
	change   change
	snapshot model.Item
	// commentEpoch is the item's comment epoch when the op was issued.
	commentEpoch int
}

// ItemsStore is the single source of truth for films. It is not safe for
// concurrent use: call it only from the event loop, and let its Scheduler
// move remote calls elsewhere.
type ItemsStore struct {
	gw       Gateway
	sched    Scheduler
	logger   *zap.Logger
	comments *CommentsStore
	bus      bus.Bus[Event]
	now      func() time.Time

	state   LoadState
	loadErr error

	order     []string
	confirmed map[string]model.Item
	current   map[string]model.Item
	pending   map[string][]*pendingOp
	seq       int
	// commentEpoch counts confirmed comment changes per item.
	commentEpoch map[string]int
}

func NewItemsStore(gw Gateway, sched Scheduler, comments *CommentsStore, logger *zap.Logger) *ItemsStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemsStore{
		gw:        gw,
		sched:     sched,
		logger:    logger.With(zap.String("store", "items")),
		comments:  comments,
		now:       time.Now,
		confirmed: map[string]model.Item{},
		current:   map[string]model.Item{},
		pending:   map[string][]*pendingOp{},

		commentEpoch: map[string]int{},
	}
}

func (s *ItemsStore) Subscribe(h bus.Handler[Event]) func() { return s.bus.Subscribe(h) }

func (s *ItemsStore) Comments() *CommentsStore { return s.comments }

func (s *ItemsStore) State() LoadState { return s.state }

func (s *ItemsStore) LoadErr() error { return s.loadErr }

// Items returns the current records in server order.
func (s *ItemsStore) Items() []model.Item {
	out := make([]model.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.current[id])
	}
	return out
}

func (s *ItemsStore) Item(id string) (model.Item, bool) {
	it, ok := s.current[id]
	return it, ok
}

// InFlight reports how many actions on id are awaiting the server.
func (s *ItemsStore) InFlight(id string) int { return len(s.pending[id]) }

// Load fetches the catalog once and announces it with INIT. A failure is
// announced as INIT with Err set.
func (s *ItemsStore) Load() {
	if s.state == LoadLoading || s.state == LoadReady {
		return
	}
	s.state = LoadLoading
	s.sched.Schedule(func(ctx context.Context) func() {
		items, err := s.gw.FetchItems(ctx)
		return func() { s.settleLoad(items, err) }
	})
}

func (s *ItemsStore) settleLoad(items []model.Item, err error) {
	if err != nil {
		s.state = LoadFailed
		s.loadErr = err
		s.logger.Error("load catalog failed", zap.Error(err))
		s.bus.Notify(model.ChangeInit, Event{Err: err})
		return
	}
	s.order = s.order[:0]
	for _, it := range items {
		if _, dup := s.confirmed[it.ID]; dup {
			s.logger.Warn("duplicate film id in catalog", zap.String("item", it.ID))
			continue
		}
		s.order = append(s.order, it.ID)
		s.confirmed[it.ID] = it
		s.current[it.ID] = it
	}
	s.state = LoadReady
	s.loadErr = nil
	s.logger.Info("catalog loaded", zap.Int("films", len(s.order)))
	s.bus.Notify(model.ChangeInit, Event{})
}

// SetFlag is UpdateItem(UPDATE_FLAGS, ...).
func (s *ItemsStore) SetFlag(itemID string, f model.Flag, v bool, kind model.ChangeKind) error {
	return s.UpdateItem(model.ActionUpdateFlags, Request{ItemID: itemID, Flag: f, Value: v, Kind: kind})
}

// ToggleFlag flips f relative to the record currently in memory.
func (s *ItemsStore) ToggleFlag(itemID string, f model.Flag, kind model.ChangeKind) error {
	it, ok := s.current[itemID]
	if !ok {
		return s.unknownItem(itemID)
	}
	return s.SetFlag(itemID, f, !it.Flags.Get(f), kind)
}

func (s *ItemsStore) AddComment(itemID string, d model.CommentDraft) error {
	return s.UpdateItem(model.ActionAddComment, Request{ItemID: itemID, Draft: d})
}

func (s *ItemsStore) DeleteComment(itemID, commentID string) error {
	return s.UpdateItem(model.ActionDeleteComment, Request{ItemID: itemID, CommentID: commentID})
}

// UpdateItem applies the proposed change optimistically, notifies, and
// schedules the remote call. The returned error covers only local
// preconditions; remote failures arrive later as an error notification.
func (s *ItemsStore) UpdateItem(action model.Action, req Request) error {
	if s.state != LoadReady {
		return ErrNotLoaded
	}
	cur, ok := s.current[req.ItemID]
	if !ok {
		return s.unknownItem(req.ItemID)
	}

	var (
		c    change
		kind model.ChangeKind
	)
	switch action {
	case model.ActionUpdateFlags:
		if !slices.Contains(model.Flags(), req.Flag) {
			return fmt.Errorf("unknown flag %q", req.Flag)
		}
		c = flagChange{flag: req.Flag, value: req.Value}
		kind = model.ChangePatch
		if req.Kind == model.ChangeMinor {
			kind = model.ChangeMinor
		}
	case model.ActionAddComment:
		d := model.CommentDraft{Text: strings.TrimSpace(req.Draft.Text), Emotion: req.Draft.Emotion}
		if d.Text == "" || !d.Emotion.Valid() {
			return ErrInvalidDraft
		}
		c = addCommentChange{tempID: PendingCommentPrefix + uuid.NewString(), draft: d}
		kind = model.ChangeMajor
	case model.ActionDeleteComment:
		if !cur.HasComment(req.CommentID) || strings.HasPrefix(req.CommentID, PendingCommentPrefix) {
			return fmt.Errorf("%w: %s", ErrUnknownComment, req.CommentID)
		}
		c = deleteCommentChange{commentID: req.CommentID}
		kind = model.ChangeMajor
	default:
		return fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}

	s.seq++
	op := &pendingOp{seq: s.seq, change: c, snapshot: cur, commentEpoch: s.commentEpoch[req.ItemID]}
	next := c.apply(cur)
	s.current[req.ItemID] = next
	s.pending[req.ItemID] = append(s.pending[req.ItemID], op)

	switch ch := c.(type) {
	case addCommentChange:
		s.comments.addLocal(req.ItemID, op.seq, model.Comment{
			ID:      ch.tempID,
			Text:    ch.draft.Text,
			Emotion: ch.draft.Emotion,
			Date:    s.now().UTC(),
		})
	case deleteCommentChange:
		s.comments.removeLocal(req.ItemID, op.seq, ch.commentID)
	}

	s.bus.Notify(kind, Event{
		Action:      action,
		ItemID:      req.ItemID,
		Item:        next,
		CommentID:   req.CommentID,
		Provisional: true,
	})

	s.sched.Schedule(s.remote(req.ItemID, op, next, kind))
	return nil
}

// remote builds the network half of op. next is the optimistic record at
// the time the action was taken.
func (s *ItemsStore) remote(itemID string, op *pendingOp, next model.Item, kind model.ChangeKind) Task {
	switch c := op.change.(type) {
	case flagChange:
		// The server only learns comment ids it assigned itself.
		body := next.Clone()
		body.CommentIDs = slices.Clone(s.confirmed[itemID].CommentIDs)
		return func(ctx context.Context) func() {
			confirmed, err := s.gw.UpdateItem(ctx, body)
			return func() {
				if err != nil {
					s.fail(itemID, op, kind, err)
					return
				}
				if s.commentsMovedSince(itemID, op) {
					confirmed.CommentIDs = slices.Clone(s.confirmed[itemID].CommentIDs)
				}
				s.settle(itemID, op, kind, confirmed)
			}
		}
	case addCommentChange:
		return func(ctx context.Context) func() {
			confirmed, list, err := s.gw.AddComment(ctx, itemID, c.draft)
			return func() {
				if err == nil && confirmed.ID != itemID {
					err = &gateway.ReconciliationError{Op: "add comment", Err: fmt.Errorf("expected film %s; got %s", itemID, confirmed.ID)}
				}
				if err != nil {
					s.comments.dropEdit(itemID, op.seq)
					s.fail(itemID, op, kind, err)
					return
				}
				s.comments.confirmAdd(itemID, op.seq, list)
				s.commentEpoch[itemID]++
				// Flags in the reply may predate a flag change confirmed since.
				next := s.confirmed[itemID].Clone()
				next.CommentIDs = slices.DeleteFunc(slices.Clone(confirmed.CommentIDs), func(id string) bool {
					return s.comments.deleted(itemID, id)
				})
				s.settle(itemID, op, kind, next)
			}
		}
	case deleteCommentChange:
		return func(ctx context.Context) func() {
			err := s.gw.DeleteComment(ctx, c.commentID)
			return func() {
				if err != nil {
					s.comments.dropEdit(itemID, op.seq)
					s.fail(itemID, op, kind, err)
					return
				}
				s.comments.confirmDelete(itemID, op.seq, c.commentID)
				s.commentEpoch[itemID]++
				s.settle(itemID, op, kind, s.confirmed[itemID].WithoutComment(c.commentID))
			}
		}
	}
	return func(context.Context) func() { return nil }
}

// commentsMovedSince reports whether the comment ids in a flag reply may be
// stale: a comment change on the item was confirmed after op was issued, or
// one is still in flight and will bring its own confirmed ids.
func (s *ItemsStore) commentsMovedSince(itemID string, op *pendingOp) bool {
	if s.commentEpoch[itemID] != op.commentEpoch {
		return true
	}
	return slices.ContainsFunc(s.pending[itemID], func(p *pendingOp) bool {
		_, isFlag := p.change.(flagChange)
		return !isFlag
	})
}

func (s *ItemsStore) removePending(itemID string, op *pendingOp) {
	ops := slices.DeleteFunc(s.pending[itemID], func(p *pendingOp) bool { return p == op })
	if len(ops) == 0 {
		delete(s.pending, itemID)
		return
	}
	s.pending[itemID] = ops
}

// settle installs the server-confirmed record and re-applies whatever other
// actions on the same item are still in flight.
func (s *ItemsStore) settle(itemID string, op *pendingOp, kind model.ChangeKind, confirmed model.Item) {
	s.removePending(itemID, op)
	s.confirmed[itemID] = confirmed
	cur := confirmed
	for _, p := range s.pending[itemID] {
		cur = p.change.apply(cur)
	}
	s.current[itemID] = cur
	s.bus.Notify(kind, Event{
		Action:    op.change.action(),
		ItemID:    itemID,
		Item:      cur,
		CommentID: commentIDOf(op.change),
	})
}

// fail reverts the fields op touched, using op's own snapshot, and emits the
// single error notification for it.
func (s *ItemsStore) fail(itemID string, op *pendingOp, kind model.ChangeKind, err error) {
	s.removePending(itemID, op)
	cur := op.change.revert(s.current[itemID], op.snapshot)
	s.current[itemID] = cur

	fields := []zap.Field{
		zap.String("action", op.change.action().String()),
		zap.String("item", itemID),
		zap.Error(err),
	}
	if gateway.IsNotFound(err) {
		s.logger.Info("target gone on server; change reverted, no retry", fields...)
	} else {
		s.logger.Warn("change reverted", fields...)
	}

	s.bus.Notify(kind, Event{
		Action:    op.change.action(),
		ItemID:    itemID,
		Item:      cur,
		CommentID: commentIDOf(op.change),
		Err:       err,
	})
}

func commentIDOf(c change) string {
	switch c := c.(type) {
	case addCommentChange:
		return c.tempID
	case deleteCommentChange:
		return c.commentID
	}
	return ""
}

func (s *ItemsStore) unknownItem(id string) error {
	return fmt.Errorf("%w: %s", ErrUnknownItem, id)
}
