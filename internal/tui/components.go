package tui

import (
	"fmt"
	"strings"

	"reelbox/internal/catalog"
	"reelbox/internal/format"
	"reelbox/internal/model"
	"reelbox/internal/view"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// text is a pre-rendered, immutable component.
type text string

func (t text) View() string { return string(t) }

// Factory renders presenter state with Lip Gloss. Width and height track
// the terminal so new components fit the current frame.
type Factory struct {
	width  int
	height int
}

func NewFactory() *Factory { return &Factory{width: 80, height: 24} }

func (f *Factory) SetSize(w, h int) {
	f.width = max(w, 20)
	f.height = max(h, 8)
}

func (f *Factory) contentWidth() int { return max(f.width-4, 16) }

var emptyMessages = map[model.FilterType]string{
	model.FilterAll:       "There are no movies in our database",
	model.FilterWatchlist: "There are no movies to watch now",
	model.FilterHistory:   "There are no watched movies now",
	model.FilterFavorites: "There are no favorite movies now",
}

type cardView struct {
	body string
	err  error
}

func (c *cardView) View() string {
	if c.err == nil {
		return c.body
	}
	return c.body + "\n" + styleError().Render("! "+c.err.Error())
}

func (c *cardView) Shake(err error) { c.err = err }

func flagControl(label, key string, on bool) string {
	if on {
		return styleActive().Render(key + " " + label)
	}
	return styleInactive().Render(key + " " + label)
}

func flagControls(fl model.UserFlags) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		flagControl("Watchlist", "w", fl.Watchlist),
		flagControl("Watched", "h", fl.Watched),
		flagControl("Favorite", "f", fl.Favorite),
	)
}

func (f *Factory) Card(it model.Item, _ view.CardState) view.Component {
	w := f.contentWidth() - 4
	title := styleTitle().Render(it.Info.Title)
	rating := lipgloss.NewStyle().Foreground(colorRating).Bold(true).Render(format.Rating(it.Info.Rating))
	gap := max(1, w-lipgloss.Width(title)-lipgloss.Width(rating))
	head := title + strings.Repeat(" ", gap) + rating

	meta := []string{}
	for _, s := range []string{format.Year(it.Info.ReleaseDate), format.Runtime(it.Info.RuntimeMinutes)} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if len(it.Info.Genres) > 0 {
		meta = append(meta, it.Info.Genres[0])
	}

	lines := []string{
		clampLine(head, w),
		styleMuted().Render(clampLine(strings.Join(meta, " · "), w)),
	}
	if d := format.Truncate(it.Info.Description, format.DescriptionLimit); d != "" {
		lines = append(lines, lipgloss.NewStyle().Width(w).Render(d))
	}
	lines = append(lines,
		styleMuted().Render(format.Plural(len(it.CommentIDs), "comment", "comments")),
		flagControls(it.Flags),
	)
	return &cardView{body: strings.Join(lines, "\n")}
}

// overlayView is the film detail popup. Its body scrolls in a viewport; the
// comment cursor and draft are drawn by the app around it.
type overlayView struct {
	item     model.Item
	comments []model.Comment
	state    view.OverlayState
	width    int
	cursor   int
	err      error
	vp       viewport.Model
}

func (o *overlayView) ScrollOffset() int     { return o.vp.YOffset }
func (o *overlayView) SetScrollOffset(y int) { o.vp.SetYOffset(y) }
func (o *overlayView) Shake(err error)       { o.err = err }

func (o *overlayView) ScrollBy(n int) {
	if n > 0 {
		o.vp.LineDown(n)
	} else if n < 0 {
		o.vp.LineUp(-n)
	}
}

// SetCursor selects a comment for deletion; -1 selects none.
func (o *overlayView) SetCursor(i int) {
	if i == o.cursor {
		return
	}
	o.cursor = i
	y := o.vp.YOffset
	o.vp.SetContent(o.body())
	o.vp.SetYOffset(y)
}

func (o *overlayView) Comments() []model.Comment { return o.comments }

func (o *overlayView) View() string {
	header := styleTitle().Render(clampLine(o.item.Info.Title, o.width-12)) +
		styleMuted().Render("  esc close")
	out := []string{header, o.vp.View()}
	if o.err != nil {
		out = append(out, styleError().Render("! "+o.err.Error()))
	}
	return strings.Join(out, "\n")
}

func (o *overlayView) body() string {
	it := o.item
	w := o.width
	label := styleMuted().Width(14)
	row := func(k, v string) string {
		if v == "" {
			return ""
		}
		return label.Render(k) + lipgloss.NewStyle().Width(max(w-14, 10)).Render(v)
	}

	var b []string
	if it.Info.AlternativeTitle != "" {
		b = append(b, styleMuted().Render("Original: "+it.Info.AlternativeTitle))
	}
	b = append(b, fmt.Sprintf("Rating %s   Age %d+", format.Rating(it.Info.Rating), it.Info.AgeRating), "")
	for _, r := range []string{
		row("Director", it.Info.Director),
		row("Writers", format.Join(it.Info.Writers)),
		row("Actors", format.Join(it.Info.Actors)),
		row("Release Date", format.ReleaseDate(it.Info.ReleaseDate)),
		row("Runtime", format.Runtime(it.Info.RuntimeMinutes)),
		row("Country", it.Info.ReleaseCountry),
		row(genreLabel(it.Info.Genres), format.Join(it.Info.Genres)),
	} {
		if r != "" {
			b = append(b, r)
		}
	}
	if d := renderDescription(it.Info.Description, w); d != "" {
		b = append(b, "", d)
	}
	b = append(b, "", flagControls(it.Flags), "")

	switch {
	case o.state.CommentsErr != nil:
		b = append(b, styleError().Render("Comments unavailable: "+o.state.CommentsErr.Error()))
	case o.state.CommentsLoading:
		b = append(b, styleMuted().Render("Loading comments…"))
	default:
		b = append(b, styleTitle().Render(fmt.Sprintf("Comments %d", len(o.comments))))
		for i, c := range o.comments {
			b = append(b, o.commentLines(i, c)...)
		}
	}
	return strings.Join(b, "\n")
}

func genreLabel(gs []string) string {
	if len(gs) == 1 {
		return "Genre"
	}
	return "Genres"
}

var emotionGlyphs = map[model.Emotion]string{
	model.EmotionSmile:    ":)",
	model.EmotionSleeping: "zz",
	model.EmotionPuke:     ":P",
	model.EmotionAngry:    ">(",
}

func (o *overlayView) commentLines(i int, c model.Comment) []string {
	marker := "  "
	if i == o.cursor {
		marker = lipgloss.NewStyle().Foreground(colorAccent).Render("▸ ")
	}
	meta := styleMuted().Render(fmt.Sprintf("%s  %s", c.Author, format.CommentDate(c.Date)))
	if strings.HasPrefix(c.ID, catalog.PendingCommentPrefix) {
		meta = styleMuted().Render("sending…")
	}
	return []string{
		marker + emotionGlyphs[c.Emotion] + " " + lipgloss.NewStyle().Width(max(o.width-6, 10)).Render(c.Text),
		"     " + meta,
	}
}

func (f *Factory) Overlay(it model.Item, comments []model.Comment, st view.OverlayState) view.Overlay {
	o := &overlayView{
		item:     it,
		comments: comments,
		state:    st,
		width:    f.contentWidth(),
		cursor:   -1,
		err:      st.Err,
	}
	o.vp = viewport.New(f.contentWidth(), max(f.height-6, 3))
	o.vp.SetContent(o.body())
	return o
}

func (f *Factory) Filters(counts []model.FilterCount, active model.FilterType) view.Component {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		label := c.Type.Label()
		if c.Type != model.FilterAll {
			label = fmt.Sprintf("%s %d", label, c.Count)
		}
		if c.Type == active {
			parts = append(parts, styleActive().Render(label))
		} else {
			parts = append(parts, styleInactive().Render(label))
		}
	}
	return text(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func (f *Factory) Sort(active model.SortType) view.Component {
	parts := []string{}
	for _, t := range model.SortTypes() {
		if t == active {
			parts = append(parts, styleActive().Render(t.Label()))
		} else {
			parts = append(parts, styleInactive().Render(t.Label()))
		}
	}
	return text(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func (f *Factory) Profile(rank string) view.Component {
	if rank == "" {
		return text("")
	}
	return text(styleMuted().Render("Profile: ") + styleTitle().Render(rank))
}

func (f *Factory) Stats(total int) view.Component {
	return text(styleMuted().Render(fmt.Sprintf("%d movies inside", total)))
}

func (f *Factory) ShowMore(remaining int) view.Component {
	return text(styleInactive().Render(fmt.Sprintf("m  Show more (%d left)", remaining)))
}

func (f *Factory) Loading() view.Component {
	return text(styleMuted().Render("Loading..."))
}

func (f *Factory) Empty(active model.FilterType) view.Component {
	msg, ok := emptyMessages[active]
	if !ok {
		msg = emptyMessages[model.FilterAll]
	}
	return text(styleMuted().Render(msg))
}

func (f *Factory) Unavailable(err error) view.Component {
	msg := "The catalog is unavailable"
	if err != nil {
		msg += ": " + err.Error()
	}
	return text(styleError().Render(msg))
}
