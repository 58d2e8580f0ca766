package tui

import (
	"context"
	"strings"

	"reelbox/internal/board"
	"reelbox/internal/catalog"
	"reelbox/internal/model"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type Options struct {
	Gateway  catalog.Gateway
	Logger   *zap.Logger
	PageSize int
	// Theme is light, dark or auto.
	Theme string
}

type appModel struct {
	keys   keyMap
	help   help.Model
	logger *zap.Logger

	sched     *teaScheduler
	items     *catalog.ItemsStore
	filters   *catalog.FilterStore
	factory   *Factory
	board     *board.Board
	filterBar *board.FilterCoordinator
	stats     *board.StatsCoordinator

	width  int
	height int

	selected int
	top      int
	cursor   int

	composing bool
	draft     textarea.Model
	emotion   int

	flash string
}

func newAppModel(ctx context.Context, opts Options) *appModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sched := newTeaScheduler(ctx)
	comments := catalog.NewCommentsStore(opts.Gateway, sched, logger)
	items := catalog.NewItemsStore(opts.Gateway, sched, comments, logger)
	filters := catalog.NewFilterStore(items)
	f := NewFactory()

	m := &appModel{
		keys:    defaultKeyMap(),
		help:    help.New(),
		logger:  logger.With(zap.String("component", "tui")),
		sched:   sched,
		items:   items,
		filters: filters,
		factory: f,
		cursor:  -1,
	}
	m.board = board.New(board.Options{
		Items:    items,
		Filters:  filters,
		Factory:  f,
		PageSize: opts.PageSize,
		Logger:   logger,
	})
	m.filterBar = board.NewFilterCoordinator(items, filters, f)
	m.stats = board.NewStatsCoordinator(items, f)

	m.draft = textarea.New()
	m.draft.Placeholder = "Select reaction (ctrl+e) and write comment here"
	m.draft.ShowLineNumbers = false
	m.draft.CharLimit = 0
	m.draft.SetHeight(3)
	m.draft.SetWidth(60)
	return m
}

func (m *appModel) Init() tea.Cmd {
	m.items.Load()
	return m.sched.Drain()
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.factory.SetSize(msg.Width, msg.Height)
		m.draft.SetWidth(max(msg.Width-8, 20))
		if p := m.board.Editing(); p != nil {
			p.Init(p.Item())
		}

	case taskDoneMsg:
		if msg.complete != nil {
			msg.complete()
		}

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	m.clampSelection()
	m.syncOverlay()
	cmds = append(cmds, m.sched.Drain())
	return m, tea.Batch(cmds...)
}

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.flash = ""
	if m.composing {
		return m.handleComposeKey(msg)
	}
	if p := m.board.Editing(); p != nil {
		return m.handleOverlayKey(p, msg)
	}
	return m.handleListKey(msg)
}

func (m *appModel) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.selected--
	case key.Matches(msg, m.keys.Down):
		m.selected++
	case key.Matches(msg, m.keys.Open):
		if p, ok := m.board.PresenterAt(m.selected); ok {
			m.cursor = -1
			p.Open()
		}
	case key.Matches(msg, m.keys.Watchlist, m.keys.Watched, m.keys.Favorite):
		if p, ok := m.board.PresenterAt(m.selected); ok {
			m.report(toggleFor(p, m.keys, msg))
		}
	case key.Matches(msg, m.keys.NextFilter):
		m.report(m.filterBar.Cycle(1))
		m.selected, m.top = 0, 0
	case key.Matches(msg, m.keys.PrevFilter):
		m.report(m.filterBar.Cycle(-1))
		m.selected, m.top = 0, 0
	case key.Matches(msg, m.keys.Sort):
		m.board.SetSort(nextSort(m.board.Sort()))
		m.selected, m.top = 0, 0
	case key.Matches(msg, m.keys.ShowMore):
		m.board.ShowMore()
	}
	return nil
}

func (m *appModel) handleOverlayKey(p *board.ItemPresenter, msg tea.KeyMsg) tea.Cmd {
	ov, _ := p.Overlay().(*overlayView)
	switch {
	case msg.String() == "ctrl+c":
		return tea.Quit
	case key.Matches(msg, m.keys.Close):
		m.board.Keys().Dispatch(board.CancelKey)
		m.cursor = -1
	case key.Matches(msg, m.keys.Up):
		if ov != nil && len(ov.Comments()) > 0 && m.cursor >= 0 {
			m.cursor--
		} else if ov != nil {
			ov.ScrollBy(-1)
		}
	case key.Matches(msg, m.keys.Down):
		if ov != nil && m.cursor < len(ov.Comments())-1 {
			m.cursor++
		} else if ov != nil {
			ov.ScrollBy(1)
		}
	case key.Matches(msg, m.keys.PageUp):
		if ov != nil {
			ov.ScrollBy(-max(m.height/2, 1))
		}
	case key.Matches(msg, m.keys.PageDown):
		if ov != nil {
			ov.ScrollBy(max(m.height/2, 1))
		}
	case key.Matches(msg, m.keys.Watchlist, m.keys.Watched, m.keys.Favorite):
		m.report(toggleFor(p, m.keys, msg))
	case key.Matches(msg, m.keys.Compose):
		m.composing = true
		return m.draft.Focus()
	case key.Matches(msg, m.keys.Delete):
		if ov != nil && m.cursor >= 0 && m.cursor < len(ov.Comments()) {
			m.report(p.DeleteComment(ov.Comments()[m.cursor].ID))
		}
	}
	return nil
}

func (m *appModel) handleComposeKey(msg tea.KeyMsg) tea.Cmd {
	p := m.board.Editing()
	switch {
	case p == nil:
		m.stopComposing(false)
		return nil
	case key.Matches(msg, m.keys.Close):
		m.stopComposing(false)
		return nil
	case key.Matches(msg, m.keys.Emotion):
		m.emotion = (m.emotion + 1) % len(model.Emotions())
		return nil
	case key.Matches(msg, m.keys.Submit):
		d := model.CommentDraft{Text: m.draft.Value(), Emotion: model.Emotions()[m.emotion]}
		if err := p.SubmitComment(d); err != nil {
			m.report(err)
			return nil
		}
		m.stopComposing(true)
		return nil
	}
	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(msg)
	return cmd
}

func (m *appModel) stopComposing(clear bool) {
	m.composing = false
	m.draft.Blur()
	if clear {
		m.draft.Reset()
		m.emotion = 0
	}
}

func toggleFor(p *board.ItemPresenter, k keyMap, msg tea.KeyMsg) error {
	switch {
	case key.Matches(msg, k.Watchlist):
		return p.ToggleWatchlist()
	case key.Matches(msg, k.Watched):
		return p.ToggleWatched()
	default:
		return p.ToggleFavorite()
	}
}

func nextSort(t model.SortType) model.SortType {
	types := model.SortTypes()
	for i, x := range types {
		if x == t {
			return types[(i+1)%len(types)]
		}
	}
	return model.SortDefault
}

// report shows a local precondition failure in the footer. Remote failures
// reach the affected card through the board instead.
func (m *appModel) report(err error) {
	if err == nil {
		return
	}
	m.logger.Debug("action rejected", zap.Error(err))
	m.flash = err.Error()
}

func (m *appModel) clampSelection() {
	n := len(m.board.Rendered())
	m.selected = min(max(m.selected, 0), max(n-1, 0))
	if p := m.board.Editing(); p == nil {
		m.cursor = -1
		if m.composing {
			m.stopComposing(false)
		}
	}
}

func (m *appModel) syncOverlay() {
	p := m.board.Editing()
	if p == nil {
		return
	}
	ov, ok := p.Overlay().(*overlayView)
	if !ok {
		return
	}
	m.cursor = min(m.cursor, len(ov.Comments())-1)
	ov.SetCursor(m.cursor)
}

func (m *appModel) View() string {
	if m.width == 0 {
		return ""
	}
	if p := m.board.Editing(); p != nil {
		return m.overlayView(p)
	}
	return m.listView()
}

func (m *appModel) listView() string {
	header := styleTitle().Render("reelbox")
	if prof := m.stats.Profile().View(); prof != "" {
		gap := max(1, m.width-lipgloss.Width(header)-lipgloss.Width(prof))
		header += strings.Repeat(" ", gap) + prof
	}
	top := []string{header, m.filterBar.View().View(), m.board.SortView().View(), ""}

	footer := []string{}
	if more := m.board.ShowMoreView(); more != nil {
		footer = append(footer, more.View())
	}
	if m.flash != "" {
		footer = append(footer, styleError().Render(m.flash))
	}
	footer = append(footer,
		m.stats.Stats().View(),
		m.help.ShortHelpView(m.keys.listHelp()),
	)

	budget := m.height - len(top) - len(footer)
	var body string
	if st := m.board.Status(); st != nil {
		body = st.View()
	} else {
		body = m.cardsView(budget)
	}
	out := append(top, normalizePane(body, m.width, max(budget, 0)))
	out = append(out, footer...)
	return strings.Join(out, "\n")
}

func (m *appModel) cardsView(budget int) string {
	cards := m.board.List().Children()
	if len(cards) == 0 {
		return ""
	}
	rendered := make([]string, len(cards))
	heights := make([]int, len(cards))
	for i, c := range cards {
		rendered[i] = styleCard(i == m.selected, m.width).Render(c.View())
		heights[i] = lipgloss.Height(rendered[i])
	}
	from, to := visibleWindow(heights, m.selected, m.top, max(budget, 1))
	m.top = from
	return strings.Join(rendered[from:to], "\n")
}

func (m *appModel) overlayView(p *board.ItemPresenter) string {
	ov := p.Overlay()
	parts := []string{ov.View()}
	if m.composing {
		emo := model.Emotions()[m.emotion]
		parts = append(parts,
			styleMuted().Render("Reaction: ")+styleActive().Render(emotionGlyphs[emo]+" "+string(emo)),
			m.draft.View(),
			m.help.ShortHelpView(m.keys.composeHelp()),
		)
	} else {
		parts = append(parts, m.help.ShortHelpView(m.keys.overlayHelp()))
	}
	if m.flash != "" {
		parts = append(parts, styleError().Render(m.flash))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Padding(0, 1).
		Render(strings.Join(parts, "\n"))
	return normalizePane(box, m.width, m.height)
}
