package catalog

import (
	"fmt"

	"reelbox/internal/bus"
	"reelbox/internal/model"
)

// FilterStore holds the active filter. Counts are derived from the items
// store on every call so they always include in-flight optimistic changes.
type FilterStore struct {
	items  *ItemsStore
	active model.FilterType
	bus    bus.Bus[FilterEvent]
}

func NewFilterStore(items *ItemsStore) *FilterStore {
	return &FilterStore{items: items, active: model.FilterAll}
}

func (f *FilterStore) Subscribe(h bus.Handler[FilterEvent]) func() { return f.bus.Subscribe(h) }

func (f *FilterStore) Active() model.FilterType { return f.active }

// SetActive switches the filter and emits MAJOR. Re-selecting the active
// filter is a no-op.
func (f *FilterStore) SetActive(t model.FilterType) error {
	if _, ok := model.ParseFilterType(string(t)); !ok {
		return fmt.Errorf("unknown filter %q", t)
	}
	if t == f.active {
		return nil
	}
	prev := f.active
	f.active = t
	f.bus.Notify(model.ChangeMajor, FilterEvent{Previous: prev, Active: t})
	return nil
}

func (f *FilterStore) Counts() []model.FilterCount {
	return model.CountFilters(f.items.Items())
}

func (f *FilterStore) Count(t model.FilterType) int {
	for _, c := range f.Counts() {
		if c.Type == t {
			return c.Count
		}
	}
	return 0
}
