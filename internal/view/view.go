// Package view is the small component layer the presenters render into.
// Markup lives behind Factory; this package only tracks what is mounted where.
package view

import (
	"errors"
	"slices"

	"reelbox/internal/model"
)

type Component interface {
	View() string
}

// Overlay is a detail view that keeps its own scroll position.
type Overlay interface {
	Component
	ScrollOffset() int
	SetScrollOffset(y int)
}

// Shaker is implemented by components that can show a transient failure.
type Shaker interface {
	Shake(err error)
}

type CardState struct {
	Err error
}

type OverlayState struct {
	CommentsLoading bool
	CommentsErr     error
	Err             error
}

// Factory builds components for the presenters. Implementations must be
// pure: the same inputs yield an equivalent component.
type Factory interface {
	Card(it model.Item, st CardState) Component
	Overlay(it model.Item, comments []model.Comment, st OverlayState) Overlay
	Filters(counts []model.FilterCount, active model.FilterType) Component
	Sort(active model.SortType) Component
	Profile(rank string) Component
	Stats(total int) Component
	ShowMore(remaining int) Component
	Loading() Component
	Empty(active model.FilterType) Component
	Unavailable(err error) Component
}

// Container is an ordered list of mounted components.
type Container struct {
	children []Component
}

func (c *Container) Append(x Component) {
	c.children = append(c.children, x)
}

// Replace swaps old for next in place. It reports false when old is not mounted.
func (c *Container) Replace(next, old Component) bool {
	i := c.Index(old)
	if i < 0 {
		return false
	}
	c.children[i] = next
	return true
}

func (c *Container) Remove(x Component) bool {
	i := c.Index(x)
	if i < 0 {
		return false
	}
	c.children = slices.Delete(c.children, i, i+1)
	return true
}

func (c *Container) Index(x Component) int {
	if x == nil {
		return -1
	}
	for i, ch := range c.children {
		if ch == x {
			return i
		}
	}
	return -1
}

func (c *Container) Contains(x Component) bool { return c.Index(x) >= 0 }

func (c *Container) Clear() { c.children = nil }

func (c *Container) Len() int { return len(c.children) }

func (c *Container) Children() []Component { return slices.Clone(c.children) }

var ErrMountBusy = errors.New("overlay mount already holds another component")

// Mount is the single shared slot overlays are attached to. While something
// is attached the page behind it does not scroll.
type Mount struct {
	current Component
}

func (m *Mount) Attach(x Component) error {
	if m.current != nil && m.current != x {
		return ErrMountBusy
	}
	m.current = x
	return nil
}

// Detach empties the slot if x is what it holds.
func (m *Mount) Detach(x Component) bool {
	if m.current == nil || m.current != x {
		return false
	}
	m.current = nil
	return true
}

func (m *Mount) Replace(next, old Component) bool {
	if m.current == nil || m.current != old {
		return false
	}
	m.current = next
	return true
}

func (m *Mount) Current() Component { return m.current }

func (m *Mount) ScrollLocked() bool { return m.current != nil }
