package catalog

import (
	"context"
	"sync"
)

// Task is the remote half of a store operation. It runs off the event loop
// (it may block on the network) and must not touch store state; it returns
// the completion that applies the outcome, which the scheduler runs back on
// the event loop.
type Task func(ctx context.Context) (complete func())

// Scheduler moves Tasks off the event loop and their completions back on.
type Scheduler interface {
	Schedule(Task)
}

// ImmediateScheduler runs each task and its completion inline. It suits
// scripted commands where nothing else competes for the event loop.
type ImmediateScheduler struct {
	Ctx context.Context
}

func (s ImmediateScheduler) Schedule(t Task) {
	ctx := s.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if done := t(ctx); done != nil {
		done()
	}
}

// ManualScheduler queues tasks until the caller decides to run them, which
// makes interleavings of in-flight calls reproducible.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []Task
}

func (s *ManualScheduler) Schedule(t Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, t)
}

func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Start runs the remote half of the i-th queued task (oldest first) and
// returns its completion without applying it.
func (s *ManualScheduler) Start(i int) func() {
	s.mu.Lock()
	t := s.queue[i]
	s.queue = append(s.queue[:i:i], s.queue[i+1:]...)
	s.mu.Unlock()
	done := t(context.Background())
	if done == nil {
		return func() {}
	}
	return done
}

// RunNext runs the oldest queued task to completion.
func (s *ManualScheduler) RunNext() {
	s.Start(0)()
}

// RunAll drains the queue, including tasks scheduled by completions.
func (s *ManualScheduler) RunAll() {
	for s.Pending() > 0 {
		s.RunNext()
	}
}
