// Package tui is the interactive film browser: a card list with filters,
// sorting and paging, and a detail overlay with comments.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m := newAppModel(ctx, opts)
	defer m.close()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m *appModel) close() {
	m.stats.Close()
	m.filterBar.Close()
	m.board.Close()
}
