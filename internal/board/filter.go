package board

import (
	"reelbox/internal/catalog"
	"reelbox/internal/model"
	"reelbox/internal/view"
)

// FilterCoordinator renders the filter menu and forwards selections to the
// filter store. Counts are recomputed on every items or filter change.
type FilterCoordinator struct {
	items   *catalog.ItemsStore
	filters *catalog.FilterStore
	factory view.Factory
	view    view.Component
	unsub   []func()
}

func NewFilterCoordinator(items *catalog.ItemsStore, filters *catalog.FilterStore, f view.Factory) *FilterCoordinator {
	c := &FilterCoordinator{items: items, filters: filters, factory: f}
	c.unsub = append(c.unsub,
		items.Subscribe(func(model.ChangeKind, catalog.Event) { c.render() }),
		filters.Subscribe(func(model.ChangeKind, catalog.FilterEvent) { c.render() }),
	)
	c.render()
	return c
}

func (c *FilterCoordinator) render() {
	c.view = c.factory.Filters(c.filters.Counts(), c.filters.Active())
}

func (c *FilterCoordinator) View() view.Component { return c.view }

func (c *FilterCoordinator) Select(t model.FilterType) error {
	return c.filters.SetActive(t)
}

// Cycle selects the next (delta>0) or previous filter in menu order.
func (c *FilterCoordinator) Cycle(delta int) error {
	types := model.FilterTypes()
	i := 0
	for j, t := range types {
		if t == c.filters.Active() {
			i = j
		}
	}
	n := len(types)
	return c.Select(types[((i+delta)%n+n)%n])
}

func (c *FilterCoordinator) Close() {
	for _, u := range c.unsub {
		u()
	}
	c.unsub = nil
}

// StatsCoordinator renders the profile rank and the catalog size.
type StatsCoordinator struct {
	items   *catalog.ItemsStore
	factory view.Factory
	profile view.Component
	stats   view.Component
	unsub   func()
}

func NewStatsCoordinator(items *catalog.ItemsStore, f view.Factory) *StatsCoordinator {
	c := &StatsCoordinator{items: items, factory: f}
	c.unsub = items.Subscribe(func(model.ChangeKind, catalog.Event) { c.render() })
	c.render()
	return c
}

func (c *StatsCoordinator) render() {
	all := c.items.Items()
	c.profile = c.factory.Profile(model.ProfileRank(len(model.FilterHistory.Apply(all))))
	c.stats = c.factory.Stats(len(all))
}

func (c *StatsCoordinator) Profile() view.Component { return c.profile }
func (c *StatsCoordinator) Stats() view.Component   { return c.stats }

func (c *StatsCoordinator) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}
