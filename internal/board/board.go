// Package board turns store notifications into view updates: which films
// are visible, which presenter owns the overlay, and how much to re-render.
package board

import (
	"slices"

	"reelbox/internal/catalog"
	"reelbox/internal/model"
	"reelbox/internal/view"

	"go.uber.org/zap"
)

const DefaultPageSize = 5

type Options struct {
	Items    *catalog.ItemsStore
	Filters  *catalog.FilterStore
	Factory  view.Factory
	Keys     *view.KeyListeners
	PageSize int
	Logger   *zap.Logger
}

// Board is the coordinator for the film list. It holds the edit token: only
// the presenter it last granted may have its overlay mounted.
type Board struct {
	items    *catalog.ItemsStore
	comments *catalog.CommentsStore
	filters  *catalog.FilterStore
	factory  view.Factory
	keys     *view.KeyListeners
	logger   *zap.Logger

	list  view.Container
	mount view.Mount

	sort     model.SortType
	pageSize int
	rendered int

	// visible is sort(filter(all)); only visible[:rendered] have presenters.
	visible    []model.Item
	presenters map[string]*ItemPresenter
	editing    *ItemPresenter

	status   view.Component
	sortView view.Component
	more     view.Component

	rebuilds int
	unsub    []func()
}

func New(opts Options) *Board {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	keys := opts.Keys
	if keys == nil {
		keys = &view.KeyListeners{}
	}
	b := &Board{
		items:      opts.Items,
		comments:   opts.Items.Comments(),
		filters:    opts.Filters,
		factory:    opts.Factory,
		keys:       keys,
		logger:     logger.With(zap.String("component", "board")),
		sort:       model.SortDefault,
		pageSize:   pageSize,
		presenters: map[string]*ItemPresenter{},
	}
	b.sortView = b.factory.Sort(b.sort)
	b.unsub = append(b.unsub,
		b.items.Subscribe(b.onItems),
		b.filters.Subscribe(b.onFilter),
		b.comments.Subscribe(b.onComments),
	)
	b.renderStatus()
	return b
}

// Close detaches the board from the stores.
func (b *Board) Close() {
	for _, u := range b.unsub {
		u()
	}
	b.unsub = nil
}

func (b *Board) List() *view.Container    { return &b.list }
func (b *Board) Mount() *view.Mount       { return &b.mount }
func (b *Board) Keys() *view.KeyListeners { return b.keys }
func (b *Board) Status() view.Component   { return b.status }
func (b *Board) SortView() view.Component { return b.sortView }
func (b *Board) ShowMoreView() view.Component {
	return b.more
}
func (b *Board) Sort() model.SortType { return b.sort }

// Rebuilds counts full list recomputations; useful for checking granularity.
func (b *Board) Rebuilds() int { return b.rebuilds }

// Rendered returns the films that currently have presenters, in order.
func (b *Board) Rendered() []model.Item {
	return slices.Clone(b.visible[:b.rendered])
}

// Total is the number of films passing the active filter.
func (b *Board) Total() int { return len(b.visible) }

func (b *Board) Presenter(id string) (*ItemPresenter, bool) {
	p, ok := b.presenters[id]
	return p, ok
}

// PresenterAt returns the presenter of the i-th rendered film.
func (b *Board) PresenterAt(i int) (*ItemPresenter, bool) {
	if i < 0 || i >= b.rendered {
		return nil, false
	}
	return b.Presenter(b.visible[i].ID)
}

func (b *Board) Editing() *ItemPresenter { return b.editing }

// EditingCount counts presenters in EDITING; it never exceeds one.
func (b *Board) EditingCount() int {
	n := 0
	for _, p := range b.presenters {
		if p.Mode() == ModeEditing {
			n++
		}
	}
	return n
}

func (b *Board) grant(p *ItemPresenter) {
	if prev := b.editing; prev != nil && prev != p {
		prev.ResetView()
	}
	b.editing = p
}

func (b *Board) release(p *ItemPresenter) {
	if b.editing == p {
		b.editing = nil
	}
}

// SetSort re-orders the list locally. Filters are untouched.
func (b *Board) SetSort(t model.SortType) {
	if t == b.sort {
		return
	}
	b.sort = t
	b.sortView = b.factory.Sort(t)
	b.rebuild(true)
}

// ShowMore renders the next page of films.
func (b *Board) ShowMore() {
	if b.rendered >= len(b.visible) {
		return
	}
	from := b.rendered
	b.rendered = min(b.rendered+b.pageSize, len(b.visible))
	for _, it := range b.visible[from:b.rendered] {
		b.newPresenter(it)
	}
	b.renderMore()
}

func (b *Board) onItems(kind model.ChangeKind, ev catalog.Event) {
	switch kind {
	case model.ChangeInit:
		if ev.Err != nil {
			b.destroyAll()
			b.visible = nil
			b.rendered = 0
			b.renderStatus()
			return
		}
		b.rebuild(true)
	case model.ChangePatch, model.ChangeMinor:
		b.patch(ev)
	case model.ChangeMajor:
		b.rebuild(false)
		b.surfaceError(ev)
	}
}

// patch updates one film in place unless the change moves it in or out of
// the active filter, in which case the list is recomputed.
func (b *Board) patch(ev catalog.Event) {
	idx := slices.IndexFunc(b.visible, func(it model.Item) bool { return it.ID == ev.ItemID })
	passes := b.filters.Active().Match(ev.Item)
	if (idx >= 0) != passes {
		b.rebuild(false)
		b.surfaceError(ev)
		return
	}
	if idx < 0 {
		return
	}
	b.visible[idx] = ev.Item
	if p, ok := b.presenters[ev.ItemID]; ok {
		p.Init(ev.Item)
	}
	b.surfaceError(ev)
}

func (b *Board) surfaceError(ev catalog.Event) {
	if ev.Err == nil {
		return
	}
	if p, ok := b.presenters[ev.ItemID]; ok {
		p.ShowError(ev.Err)
	}
}

func (b *Board) onFilter(_ model.ChangeKind, _ catalog.FilterEvent) {
	b.sort = model.SortDefault
	b.sortView = b.factory.Sort(b.sort)
	b.rebuild(true)
}

func (b *Board) onComments(_ model.ChangeKind, ev catalog.Event) {
	p, ok := b.presenters[ev.ItemID]
	if !ok || p.Mode() != ModeEditing {
		return
	}
	p.commentsErr = ev.Err
	if it, ok := b.items.Item(ev.ItemID); ok {
		p.Init(it)
	}
}

// rebuild recomputes sort(filter(all)), drops presenters that fell out,
// creates the ones that came in, and re-renders the whole list container.
// resetPage goes back to the first page; otherwise the rendered count is kept.
func (b *Board) rebuild(resetPage bool) {
	b.rebuilds++
	filter := b.filters.Active()
	b.visible = b.sort.Sort(filter.Apply(b.items.Items()))

	if resetPage {
		b.rendered = min(b.pageSize, len(b.visible))
	} else {
		b.rendered = min(max(b.rendered, b.pageSize), len(b.visible))
	}

	keep := make(map[string]bool, b.rendered)
	for _, it := range b.visible[:b.rendered] {
		keep[it.ID] = true
	}
	for id, p := range b.presenters {
		if !keep[id] {
			p.Destroy()
			delete(b.presenters, id)
		}
	}

	b.list.Clear()
	for _, it := range b.visible[:b.rendered] {
		if p, ok := b.presenters[it.ID]; ok {
			p.Init(it)
			continue
		}
		b.newPresenter(it)
	}
	b.renderStatus()
	b.renderMore()
}

func (b *Board) newPresenter(it model.Item) *ItemPresenter {
	p := &ItemPresenter{
		items:    b.items,
		comments: b.comments,
		factory:  b.factory,
		list:     &b.list,
		mount:    &b.mount,
		keys:     b.keys,
		board:    b,
	}
	b.presenters[it.ID] = p
	p.Init(it)
	return p
}

func (b *Board) destroyAll() {
	for id, p := range b.presenters {
		p.Destroy()
		delete(b.presenters, id)
	}
	b.list.Clear()
}

func (b *Board) renderStatus() {
	switch b.items.State() {
	case catalog.LoadIdle, catalog.LoadLoading:
		b.status = b.factory.Loading()
	case catalog.LoadFailed:
		b.status = b.factory.Unavailable(b.items.LoadErr())
	default:
		b.status = nil
		if len(b.visible) == 0 {
			b.status = b.factory.Empty(b.filters.Active())
		}
	}
}

func (b *Board) renderMore() {
	b.more = nil
	if rest := len(b.visible) - b.rendered; rest > 0 {
		b.more = b.factory.ShowMore(rest)
	}
}
