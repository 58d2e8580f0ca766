// Package bus is the synchronous observer registry that stores use to tell
// presenters what changed.
package bus

import (
	"slices"

	"reelbox/internal/model"
)

type Handler[P any] func(kind model.ChangeKind, payload P)

type subscription[P any] struct {
	fn      Handler[P]
	removed bool
}

// Bus fans notifications out to every subscriber, in subscription order, on
// the calling goroutine. Each store owns its own Bus; there is no global one.
//
// A Bus is not safe for concurrent use. Handlers must not call Notify on the
// bus that is dispatching to them; schedule follow-up work instead.
type Bus[P any] struct {
	subs        []*subscription[P]
	dispatching bool
}

// Subscribe registers fn and returns a function that removes it again.
// Subscriptions added during a dispatch take effect from the next Notify;
// one removed during a dispatch is not called again, even by that dispatch.
func (b *Bus[P]) Subscribe(fn Handler[P]) (unsubscribe func()) {
	sub := &subscription[P]{fn: fn}
	b.subs = append(b.subs, sub)
	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		b.subs = slices.DeleteFunc(slices.Clone(b.subs), func(s *subscription[P]) bool { return s == sub })
	}
}

// Notify calls every subscriber once with (kind, payload). It panics when
// called from inside one of its own handlers.
func (b *Bus[P]) Notify(kind model.ChangeKind, payload P) {
	if b.dispatching {
		panic("bus: Notify called from inside a handler")
	}
	b.dispatching = true
	defer func() { b.dispatching = false }()

	for _, s := range b.subs {
		if !s.removed {
			s.fn(kind, payload)
		}
	}
}

func (b *Bus[P]) Len() int { return len(b.subs) }
