package tui

import (
	"context"
	"sync"

	"reelbox/internal/catalog"

	tea "github.com/charmbracelet/bubbletea"
)

// taskDoneMsg carries a finished task's completion back to Update, so store
// state is only touched on the event loop.
type taskDoneMsg struct {
	complete func()
}

// teaScheduler queues store tasks until Update hands them to Bubble Tea as
// commands. The network half runs off the loop; the completion does not.
type teaScheduler struct {
	ctx context.Context

	mu      sync.Mutex
	pending []catalog.Task
}

func newTeaScheduler(ctx context.Context) *teaScheduler {
	return &teaScheduler{ctx: ctx}
}

func (s *teaScheduler) Schedule(t catalog.Task) {
	s.mu.Lock()
	s.pending = append(s.pending, t)
	s.mu.Unlock()
}

// Drain turns everything scheduled so far into one batched command.
func (s *teaScheduler) Drain() tea.Cmd {
	s.mu.Lock()
	tasks := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(tasks) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(tasks))
	for _, t := range tasks {
		cmds = append(cmds, func() tea.Msg {
			return taskDoneMsg{complete: t(s.ctx)}
		})
	}
	return tea.Batch(cmds...)
}
