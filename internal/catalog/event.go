package catalog

import (
	"context"

	"reelbox/internal/model"
)

// Gateway is the remote data service as the stores see it.
type Gateway interface {
	FetchItems(ctx context.Context) ([]model.Item, error)
	FetchComments(ctx context.Context, itemID string) ([]model.Comment, error)
	UpdateItem(ctx context.Context, it model.Item) (model.Item, error)
	AddComment(ctx context.Context, itemID string, d model.CommentDraft) (model.Item, []model.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

// Event is the payload of every items/comments notification.
//
// Provisional events carry the optimistic record before the remote call has
// been issued. An event with Err set is the single error notification for a
// failed action; by the time it fires the record has already been reverted.
// An INIT event with Err set means the catalog could not be loaded.
type Event struct {
	Action      model.Action
	ItemID      string
	Item        model.Item
	CommentID   string
	Provisional bool
	Err         error
}

func (e Event) Failed() bool { return e.Err != nil }

// FilterEvent is the payload of filter store notifications.
type FilterEvent struct {
	Previous model.FilterType
	Active   model.FilterType
}
