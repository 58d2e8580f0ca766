package catalog

import (
	"slices"

	"reelbox/internal/model"
)

// change is the pure part of an action: how it rewrites a record and how to
// take back exactly the fields it touched.
type change interface {
	action() model.Action
	apply(it model.Item) model.Item
	revert(cur, snapshot model.Item) model.Item
}

type flagChange struct {
	flag  model.Flag
	value bool
}

func (c flagChange) action() model.Action { return model.ActionUpdateFlags }

func (c flagChange) apply(it model.Item) model.Item { return it.WithFlag(c.flag, c.value) }

func (c flagChange) revert(cur, snapshot model.Item) model.Item {
	return cur.WithFlag(c.flag, snapshot.Flags.Get(c.flag))
}

type addCommentChange struct {
	tempID string
	draft  model.CommentDraft
}

func (c addCommentChange) action() model.Action { return model.ActionAddComment }

func (c addCommentChange) apply(it model.Item) model.Item { return it.WithComment(c.tempID) }

func (c addCommentChange) revert(cur, snapshot model.Item) model.Item {
	return restoreCommentOrder(cur.WithoutComment(c.tempID), snapshot)
}

type deleteCommentChange struct {
	commentID string
}

func (c deleteCommentChange) action() model.Action { return model.ActionDeleteComment }

func (c deleteCommentChange) apply(it model.Item) model.Item { return it.WithoutComment(c.commentID) }

func (c deleteCommentChange) revert(cur, snapshot model.Item) model.Item {
	idx := slices.Index(snapshot.CommentIDs, c.commentID)
	if idx < 0 || cur.HasComment(c.commentID) {
		return cur
	}
	out := cur.Clone()
	if idx > len(out.CommentIDs) {
		idx = len(out.CommentIDs)
	}
	out.CommentIDs = slices.Insert(out.CommentIDs, idx, c.commentID)
	return restoreCommentOrder(out, snapshot)
}

// restoreCommentOrder reuses the snapshot's slice when the membership is back
// to what it was, so a lone failed action leaves the record exactly as before.
func restoreCommentOrder(it, snapshot model.Item) model.Item {
	if len(it.CommentIDs) != len(snapshot.CommentIDs) {
		return it
	}
	for _, id := range it.CommentIDs {
		if !snapshot.HasComment(id) {
			return it
		}
	}
	it.CommentIDs = slices.Clone(snapshot.CommentIDs)
	return it
}
