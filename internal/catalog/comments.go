package catalog

import (
	"context"
	"slices"

	"reelbox/internal/bus"
	"reelbox/internal/model"

	"go.uber.org/zap"
)

// thread is the cached comment state for one item: the last server-known
// list plus the optimistic edits of actions still in flight.
type thread struct {
	loaded  bool
	loading bool
	base    []model.Comment
	// epoch bumps whenever a confirmed mutation rewrites base, so a fetch that
	// was issued earlier can tell its result is stale.
	epoch      int
	added      []pendingComment
	removed    map[string]int
	tombstones map[string]bool
}

type pendingComment struct {
	seq     int
	comment model.Comment
}

// CommentsStore caches comments per item. It is filled lazily with Ensure
// and mutated only by ItemsStore's comment actions.
type CommentsStore struct {
	gw      Gateway
	sched   Scheduler
	logger  *zap.Logger
	bus     bus.Bus[Event]
	threads map[string]*thread
}

func NewCommentsStore(gw Gateway, sched Scheduler, logger *zap.Logger) *CommentsStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentsStore{
		gw:      gw,
		sched:   sched,
		logger:  logger.With(zap.String("store", "comments")),
		threads: map[string]*thread{},
	}
}

// Subscribe is notified (MINOR) when a lazy load settles.
func (s *CommentsStore) Subscribe(h bus.Handler[Event]) func() { return s.bus.Subscribe(h) }

func (s *CommentsStore) thread(itemID string) *thread {
	t := s.threads[itemID]
	if t == nil {
		t = &thread{removed: map[string]int{}, tombstones: map[string]bool{}}
		s.threads[itemID] = t
	}
	return t
}

// Comments returns the visible comments for itemID and whether the server
// list has been loaded. Pending additions are included either way.
func (s *CommentsStore) Comments(itemID string) ([]model.Comment, bool) {
	t := s.threads[itemID]
	if t == nil {
		return nil, false
	}
	out := make([]model.Comment, 0, len(t.base)+len(t.added))
	for _, c := range t.base {
		if _, gone := t.removed[c.ID]; gone {
			continue
		}
		out = append(out, c)
	}
	for _, p := range t.added {
		out = append(out, p.comment)
	}
	return out, t.loaded
}

func (s *CommentsStore) Loaded(itemID string) bool {
	t := s.threads[itemID]
	return t != nil && t.loaded
}

func (s *CommentsStore) Loading(itemID string) bool {
	t := s.threads[itemID]
	return t != nil && t.loading
}

func (s *CommentsStore) Get(itemID, commentID string) (model.Comment, bool) {
	cs, _ := s.Comments(itemID)
	for _, c := range cs {
		if c.ID == commentID {
			return c, true
		}
	}
	return model.Comment{}, false
}

// IDs returns the visible comment ids for itemID in display order.
func (s *CommentsStore) IDs(itemID string) []string {
	cs, _ := s.Comments(itemID)
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

// Ensure starts loading itemID's comments unless they are cached or a load
// is already in flight.
func (s *CommentsStore) Ensure(itemID string) {
	t := s.thread(itemID)
	if t.loaded || t.loading {
		return
	}
	t.loading = true
	epoch := t.epoch
	s.sched.Schedule(func(ctx context.Context) func() {
		cs, err := s.gw.FetchComments(ctx, itemID)
		return func() { s.settleLoad(itemID, epoch, cs, err) }
	})
}

func (s *CommentsStore) settleLoad(itemID string, epoch int, cs []model.Comment, err error) {
	t := s.thread(itemID)
	t.loading = false
	if err != nil {
		s.logger.Warn("load comments failed", zap.String("item", itemID), zap.Error(err))
		s.bus.Notify(model.ChangeMinor, Event{ItemID: itemID, Err: err})
		return
	}
	if t.epoch != epoch {
		// A confirmed mutation already installed a newer list.
		return
	}
	t.base = slices.DeleteFunc(slices.Clone(cs), func(c model.Comment) bool { return t.tombstones[c.ID] })
	t.loaded = true
	s.bus.Notify(model.ChangeMinor, Event{ItemID: itemID})
}

func (s *CommentsStore) addLocal(itemID string, seq int, c model.Comment) {
	t := s.thread(itemID)
	t.added = append(t.added, pendingComment{seq: seq, comment: c})
}

func (s *CommentsStore) removeLocal(itemID string, seq int, commentID string) {
	s.thread(itemID).removed[commentID] = seq
}

// dropEdit forgets the optimistic edit made by action seq. For a removal
// this brings the comment back from the server-known list.
func (s *CommentsStore) dropEdit(itemID string, seq int) {
	t := s.thread(itemID)
	t.added = slices.DeleteFunc(t.added, func(p pendingComment) bool { return p.seq == seq })
	for id, q := range t.removed {
		if q == seq {
			delete(t.removed, id)
		}
	}
}

func (s *CommentsStore) confirmAdd(itemID string, seq int, serverList []model.Comment) {
	t := s.thread(itemID)
	s.dropEdit(itemID, seq)
	t.base = slices.DeleteFunc(slices.Clone(serverList), func(c model.Comment) bool { return t.tombstones[c.ID] })
	t.loaded = true
	t.epoch++
}

// deleted reports whether the server confirmed deleting commentID. Server
// lists produced before that confirmation may still carry it.
func (s *CommentsStore) deleted(itemID, commentID string) bool {
	t := s.threads[itemID]
	return t != nil && t.tombstones[commentID]
}

func (s *CommentsStore) confirmDelete(itemID string, seq int, commentID string) {
	t := s.thread(itemID)
	s.dropEdit(itemID, seq)
	t.tombstones[commentID] = true
	if !t.loaded {
		return
	}
	t.base = slices.DeleteFunc(slices.Clone(t.base), func(c model.Comment) bool { return c.ID == commentID })
	t.epoch++
}
