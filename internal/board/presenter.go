package board

import (
	"errors"

	"reelbox/internal/catalog"
	"reelbox/internal/model"
	"reelbox/internal/view"
)

type Mode int

const (
	ModeDefault Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "EDITING"
	}
	return "DEFAULT"
}

// CancelKey closes the open overlay.
const CancelKey = "esc"

var ErrNotEditing = errors.New("overlay is not open")

// editGrant is how a presenter asks the board for the single edit slot.
type editGrant interface {
	grant(p *ItemPresenter)
	release(p *ItemPresenter)
}

// ItemPresenter owns one visible film's card and, lazily, its overlay.
type ItemPresenter struct {
	items    *catalog.ItemsStore
	comments *catalog.CommentsStore
	factory  view.Factory
	list     *view.Container
	mount    *view.Mount
	keys     *view.KeyListeners
	board    editGrant

	item      model.Item
	card      view.Component
	overlay   view.Overlay
	mode      Mode
	removeKey func()
	destroyed bool

	commentsErr error
}

func (p *ItemPresenter) Item() model.Item      { return p.item }
func (p *ItemPresenter) Mode() Mode            { return p.mode }
func (p *ItemPresenter) Card() view.Component  { return p.card }
func (p *ItemPresenter) Overlay() view.Overlay { return p.overlay }
func (p *ItemPresenter) ID() string            { return p.item.ID }
func (p *ItemPresenter) Destroyed() bool       { return p.destroyed }

// Init renders it. The first call mounts the card; later calls replace the
// card in place and, while editing, the overlay too, keeping its scroll offset.
func (p *ItemPresenter) Init(it model.Item) {
	p.item = it
	prevCard := p.card
	p.card = p.factory.Card(it, view.CardState{})

	if prevCard == nil || !p.list.Replace(p.card, prevCard) {
		p.list.Append(p.card)
	}

	if p.mode != ModeEditing || p.overlay == nil {
		return
	}
	prevOverlay := p.overlay
	y := prevOverlay.ScrollOffset()
	p.overlay = p.buildOverlay(view.OverlayState{})
	p.mount.Replace(p.overlay, prevOverlay)
	p.overlay.SetScrollOffset(y)
}

func (p *ItemPresenter) buildOverlay(st view.OverlayState) view.Overlay {
	cs, loaded := p.comments.Comments(p.item.ID)
	st.CommentsLoading = !loaded && p.comments.Loading(p.item.ID)
	st.CommentsErr = p.commentsErr
	return p.factory.Overlay(p.item, cs, st)
}

// Open is the card-activated transition DEFAULT -> EDITING.
func (p *ItemPresenter) Open() {
	if p.destroyed || p.mode == ModeEditing {
		return
	}
	p.commentsErr = nil
	p.comments.Ensure(p.item.ID)
	// The board revokes the previous holder before this overlay goes up.
	p.board.grant(p)

	p.overlay = p.buildOverlay(view.OverlayState{})
	if err := p.mount.Attach(p.overlay); err != nil {
		p.board.release(p)
		p.overlay = nil
		return
	}
	p.removeKey = p.keys.Add(p.handleKey)
	p.mode = ModeEditing
}

// Close is EDITING -> DEFAULT from the close control or the cancel key.
func (p *ItemPresenter) Close() {
	if p.mode != ModeEditing {
		return
	}
	p.mount.Detach(p.overlay)
	if p.removeKey != nil {
		p.removeKey()
		p.removeKey = nil
	}
	p.mode = ModeDefault
	p.board.release(p)
}

// ResetView closes the overlay on behalf of someone else.
func (p *ItemPresenter) ResetView() { p.Close() }

func (p *ItemPresenter) handleKey(key string) bool {
	if key != CancelKey || p.mode != ModeEditing {
		return false
	}
	p.Close()
	return true
}

// Destroy unmounts everything the presenter owns.
func (p *ItemPresenter) Destroy() {
	p.Close()
	p.list.Remove(p.card)
	p.destroyed = true
}

// actionKind is the granularity a flag change made from this presenter has.
func (p *ItemPresenter) actionKind() model.ChangeKind {
	if p.mode == ModeEditing {
		return model.ChangeMinor
	}
	return model.ChangePatch
}

func (p *ItemPresenter) ToggleWatchlist() error { return p.ToggleFlag(model.FlagWatchlist) }
func (p *ItemPresenter) ToggleWatched() error   { return p.ToggleFlag(model.FlagWatched) }
func (p *ItemPresenter) ToggleFavorite() error  { return p.ToggleFlag(model.FlagFavorite) }

func (p *ItemPresenter) ToggleFlag(f model.Flag) error {
	return p.items.SetFlag(p.item.ID, f, !p.item.Flags.Get(f), p.actionKind())
}

// DeleteComment is only actionable while the overlay is open.
func (p *ItemPresenter) DeleteComment(commentID string) error {
	if p.mode != ModeEditing {
		return ErrNotEditing
	}
	return p.items.DeleteComment(p.item.ID, commentID)
}

func (p *ItemPresenter) SubmitComment(d model.CommentDraft) error {
	if p.mode != ModeEditing {
		return ErrNotEditing
	}
	return p.items.AddComment(p.item.ID, d)
}

// ShowError surfaces a failed action on this presenter's views only.
func (p *ItemPresenter) ShowError(err error) {
	if s, ok := p.card.(view.Shaker); ok {
		s.Shake(err)
	}
	if p.mode == ModeEditing {
		if s, ok := p.overlay.(view.Shaker); ok {
			s.Shake(err)
		}
	}
}
