package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	Close      key.Binding
	Watchlist  key.Binding
	Watched    key.Binding
	Favorite   key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Sort       key.Binding
	ShowMore   key.Binding
	Compose    key.Binding
	Submit     key.Binding
	Emotion    key.Binding
	Delete     key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Watchlist:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watchlist")),
		Watched:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "watched")),
		Favorite:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		NextFilter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		PrevFilter: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev filter")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		ShowMore:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "show more")),
		Compose:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		Submit:     key.NewBinding(key.WithKeys("ctrl+s", "ctrl+enter"), key.WithHelp("ctrl+s", "send")),
		Emotion:    key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "emotion")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete comment")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "scroll down")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Watchlist, k.Watched, k.Favorite, k.NextFilter, k.Sort, k.ShowMore, k.Quit}
}

func (k keyMap) overlayHelp() []key.Binding {
	return []key.Binding{k.Close, k.Up, k.Down, k.Watchlist, k.Watched, k.Favorite, k.Compose, k.Delete}
}

func (k keyMap) composeHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Emotion, k.Close}
}
