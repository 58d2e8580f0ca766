package cli

import (
	"fmt"
	"strings"

	"reelbox/internal/model"

	"github.com/spf13/cobra"
)

func newFilmsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "films",
		Aliases: []string{"film", "movies"},
		Short:   "Film commands",
	}
	cmd.AddCommand(newFilmsListCmd(app))
	cmd.AddCommand(newFilmsShowCmd(app))
	cmd.AddCommand(newFilmsToggleCmd(app))
	return cmd
}

func newFilmsListCmd(app *App) *cobra.Command {
	var (
		filter string
		sortBy string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List films (filtered, sorted, paginated)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, ok := model.ParseFilterType(filter)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown filter %q (want %s)", filter, joinFilterTypes()))
			}
			st, ok := model.ParseSortType(sortBy)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown sort %q (want default|date|rating)", sortBy))
			}
			s, err := app.openSession(cmdContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			all := s.items.Items()
			visible := st.Sort(ft.Apply(all))

			total := len(visible)
			if offset > 0 {
				visible = visible[min(offset, len(visible)):]
			}
			if limit > 0 && len(visible) > limit {
				visible = visible[:limit]
			}
			return writeOut(cmd, app, filmsPayload{
				Data: filmsToWire(visible),
				Meta: filmsMeta{
					Filter:  ft,
					Sort:    st,
					Total:   total,
					Shown:   len(visible),
					Counts:  model.CountFilters(all),
					Profile: model.ProfileRank(len(model.FilterHistory.Apply(all))),
				},
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", string(model.FilterAll), "Filter ("+joinFilterTypes()+")")
	cmd.Flags().StringVar(&sortBy, "sort", string(model.SortDefault), "Sort (default|date|rating)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max films to print (0 = all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Skip this many films")
	return cmd
}

func joinFilterTypes() string {
	parts := []string{}
	for _, t := range model.FilterTypes() {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, "|")
}

func newFilmsShowCmd(app *App) *cobra.Command {
	var withComments bool

	cmd := &cobra.Command{
		Use:   "show <film-id>",
		Short: "Show one film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmdContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := s.item(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			out := filmPayload{Data: filmsToWire([]model.Item{it})[0]}
			if withComments {
				cs, err := s.loadComments(it.ID)
				if err != nil {
					return writeErr(cmd, err)
				}
				out.Comments = commentsToWire(cs)
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().BoolVar(&withComments, "comments", true, "Include comments")
	return cmd
}

func newFilmsToggleCmd(app *App) *cobra.Command {
	var (
		flag string
		on   bool
		off  bool
	)

	cmd := &cobra.Command{
		Use:   "toggle <film-id>",
		Short: "Flip (or set with --on/--off) a user flag on a film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := model.ParseFlag(flag)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown flag %q (want watchlist|watched|favorite)", flag))
			}
			if on && off {
				return writeErr(cmd, fmt.Errorf("--on and --off are mutually exclusive"))
			}
			s, err := app.openSession(cmdContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			if _, err := s.item(id); err != nil {
				return writeErr(cmd, err)
			}
			err = s.do(func() error {
				switch {
				case on:
					return s.items.SetFlag(id, f, true, model.ChangePatch)
				case off:
					return s.items.SetFlag(id, f, false, model.ChangePatch)
				default:
					return s.items.ToggleFlag(id, f, model.ChangePatch)
				}
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			it, _ := s.item(id)
			return writeOut(cmd, app, filmPayload{Data: filmsToWire([]model.Item{it})[0]})
		},
	}

	cmd.Flags().StringVar(&flag, "flag", "", "Flag to change (watchlist|watched|favorite)")
	cmd.Flags().BoolVar(&on, "on", false, "Set the flag")
	cmd.Flags().BoolVar(&off, "off", false, "Clear the flag")
	_ = cmd.MarkFlagRequired("flag")
	return cmd
}
