package cli

import (
	"fmt"
	"strings"

	"reelbox/internal/model"

	"github.com/spf13/cobra"
)

func newCommentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Comment commands",
	}
	cmd.AddCommand(newCommentsListCmd(app))
	cmd.AddCommand(newCommentsAddCmd(app))
	cmd.AddCommand(newCommentsDeleteCmd(app))
	return cmd
}

func newCommentsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <film-id>",
		Short: "List comments for a film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmdContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			cs, err := s.loadComments(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, commentsPayload{Data: commentsToWire(cs)})
		},
	}
}

func newCommentsAddCmd(app *App) *cobra.Command {
	var (
		body    string
		emotion string
	)

	cmd := &cobra.Command{
		Use:   "add <film-id>",
		Short: "Add a comment to a film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emo := model.Emotion(strings.ToLower(strings.TrimSpace(emotion)))
			if !emo.Valid() {
				return writeErr(cmd, fmt.Errorf("unknown emotion %q (want smile|sleeping|puke|angry)", emotion))
			}
			s, err := app.openSession(cmdContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			if _, err := s.loadComments(id); err != nil {
				return writeErr(cmd, err)
			}
			err = s.do(func() error {
				return s.items.AddComment(id, model.CommentDraft{Text: body, Emotion: emo})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			it, _ := s.item(id)
			cs, _ := s.comments.Comments(id)
			return writeOut(cmd, app, filmPayload{
				Data:     filmsToWire([]model.Item{it})[0],
				Comments: commentsToWire(cs),
			})
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "Comment text")
	cmd.Flags().StringVar(&emotion, "emotion", string(model.EmotionSmile), "Reaction (smile|sleeping|puke|angry)")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newCommentsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <film-id> <comment-id>",
		Short: "Delete a comment from a film",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmdContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			filmID, commentID := args[0], args[1]
			if _, err := s.item(filmID); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.do(func() error { return s.items.DeleteComment(filmID, commentID) }); err != nil {
				return writeErr(cmd, err)
			}
			it, _ := s.item(filmID)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": commentID, "film": it.ID, "comments": it.CommentIDs},
			})
		},
	}
}
