package mockapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reelbox/internal/gateway"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

const wireTime = "2006-01-02T15:04:05.000Z"

// Store keeps the served catalog in SQLite. Films carry their info block as
// JSON; user details and comments are columns so updates stay narrow.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore opens (and migrates) the database at path. ":memory:" is fine
// for tests.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and writes serial.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS films (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			info TEXT NOT NULL,
			watchlist INTEGER NOT NULL DEFAULT 0,
			already_watched INTEGER NOT NULL DEFAULT 0,
			watching_date TEXT,
			favorite INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS comments (
			id TEXT PRIMARY KEY,
			film_id TEXT NOT NULL REFERENCES films(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			author TEXT NOT NULL,
			comment TEXT NOT NULL,
			date TEXT NOT NULL,
			emotion TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS comments_by_film ON comments(film_id, position);`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM films`).Scan(&n)
	return n, err
}

// InsertFilm appends f and its comments to the catalog.
func (s *Store) InsertFilm(ctx context.Context, f gateway.FilmJSON, comments []gateway.CommentJSON) error {
	info, err := json.Marshal(f.FilmInfo)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var pos int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM films`).Scan(&pos); err != nil {
		return err
	}
	u := f.UserDetails
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO films (id, position, info, watchlist, already_watched, watching_date, favorite) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, pos, string(info), u.Watchlist, u.AlreadyWatched, u.WatchingDate, u.Favorite,
	); err != nil {
		return err
	}
	for i, c := range comments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comments (id, film_id, position, author, comment, date, emotion) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, f.ID, i+1, c.Author, c.Comment, c.Date, c.Emotion,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFilm(r rowScanner) (gateway.FilmJSON, error) {
	var (
		f    gateway.FilmJSON
		info string
		wd   sql.NullString
	)
	if err := r.Scan(&f.ID, &info, &f.UserDetails.Watchlist, &f.UserDetails.AlreadyWatched, &wd, &f.UserDetails.Favorite); err != nil {
		return f, err
	}
	if err := json.Unmarshal([]byte(info), &f.FilmInfo); err != nil {
		return f, fmt.Errorf("film %s: %w", f.ID, err)
	}
	if wd.Valid {
		f.UserDetails.WatchingDate = &wd.String
	}
	return f, nil
}

const filmColumns = `id, info, watchlist, already_watched, watching_date, favorite`

func (s *Store) Films(ctx context.Context) ([]gateway.FilmJSON, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+filmColumns+` FROM films ORDER BY position`)
	if err != nil {
		return nil, err
	}
	out := []gateway.FilmJSON{}
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Comments, err = s.commentIDs(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) Film(ctx context.Context, id string) (gateway.FilmJSON, error) {
	f, err := scanFilm(s.db.QueryRowContext(ctx, `SELECT `+filmColumns+` FROM films WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return f, ErrNotFound
	}
	if err != nil {
		return f, err
	}
	f.Comments, err = s.commentIDs(ctx, id)
	return f, err
}

func (s *Store) commentIDs(ctx context.Context, filmID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM comments WHERE film_id = ? ORDER BY position`, filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateUserDetails replaces the user block of film id. Marking a film
// watched without a date stamps it with the current time.
func (s *Store) UpdateUserDetails(ctx context.Context, id string, u gateway.UserDetailsJSON) (gateway.FilmJSON, error) {
	if u.AlreadyWatched && u.WatchingDate == nil {
		d := s.now().UTC().Format(wireTime)
		u.WatchingDate = &d
	}
	if !u.AlreadyWatched {
		u.WatchingDate = nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE films SET watchlist = ?, already_watched = ?, watching_date = ?, favorite = ? WHERE id = ?`,
		u.Watchlist, u.AlreadyWatched, u.WatchingDate, u.Favorite, id,
	)
	if err != nil {
		return gateway.FilmJSON{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.FilmJSON{}, ErrNotFound
	}
	return s.Film(ctx, id)
}

func (s *Store) Comments(ctx context.Context, filmID string) ([]gateway.CommentJSON, error) {
	if _, err := s.Film(ctx, filmID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, author, comment, date, emotion FROM comments WHERE film_id = ? ORDER BY position`, filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []gateway.CommentJSON{}
	for rows.Next() {
		var c gateway.CommentJSON
		if err := rows.Scan(&c.ID, &c.Author, &c.Comment, &c.Date, &c.Emotion); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddComment appends a comment with a fresh id and returns the updated film
// together with its full comment list.
func (s *Store) AddComment(ctx context.Context, filmID, author string, d gateway.CommentDraftJSON) (gateway.CommentResultJSON, error) {
	if _, err := s.Film(ctx, filmID); err != nil {
		return gateway.CommentResultJSON{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (id, film_id, position, author, comment, date, emotion)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM comments WHERE film_id = ?), ?, ?, ?, ?)`,
		uuid.NewString(), filmID, filmID, author, d.Comment, s.now().UTC().Format(wireTime), d.Emotion,
	); err != nil {
		return gateway.CommentResultJSON{}, err
	}
	f, err := s.Film(ctx, filmID)
	if err != nil {
		return gateway.CommentResultJSON{}, err
	}
	cs, err := s.Comments(ctx, filmID)
	if err != nil {
		return gateway.CommentResultJSON{}, err
	}
	return gateway.CommentResultJSON{Movie: f, Comments: cs}, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
