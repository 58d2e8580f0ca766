package format

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestRuntime(t *testing.T) {
	cases := map[int]string{0: "", 45: "45m", 60: "1h 0m", 96: "1h 36m"}
	for in, want := range cases {
		if got := Runtime(in); got != want {
			t.Fatalf("Runtime(%d): expected %q; got %q", in, want, got)
		}
	}
}

func TestDates(t *testing.T) {
	d := time.Date(1945, 4, 5, 16, 12, 0, 0, time.UTC)
	if got := ReleaseDate(&d); got != "5 April 1945" {
		t.Fatalf("expected release date; got %q", got)
	}
	if got := Year(&d); got != "1945" {
		t.Fatalf("expected year; got %q", got)
	}
	if got := CommentDate(d); got != "1945/04/5 16:12" {
		t.Fatalf("expected comment date; got %q", got)
	}
	if Year(nil) != "" || ReleaseDate(nil) != "" {
		t.Fatalf("expected empty for nil dates")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("expected untouched; got %q", got)
	}
	got := Truncate(strings.Repeat("ab ", 100), 10)
	if !strings.HasSuffix(got, "…") || len([]rune(got)) > 10 {
		t.Fatalf("expected ellipsis within limit; got %q", got)
	}
}

func TestRatingAndPlural(t *testing.T) {
	r := 8.25
	if Rating(&r) != "8.2" && Rating(&r) != "8.3" {
		t.Fatalf("unexpected rating %q", Rating(&r))
	}
	if Rating(nil) != "–" {
		t.Fatalf("expected dash for nil rating")
	}
	if Plural(1, "comment", "comments") != "1 comment" || Plural(0, "comment", "comments") != "0 comments" {
		t.Fatalf("unexpected plural")
	}
}

type rowsPayload struct{ ID string }

func (p rowsPayload) Table() ([]string, [][]string) {
	return []string{"id"}, [][]string{{p.ID}}
}

func TestWriteFormats(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"total_rating": 5}, "edn", false); err != nil {
		t.Fatalf("edn: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "{:total-rating 5}" {
		t.Fatalf("unexpected edn %q", got)
	}

	buf.Reset()
	if err := Write(&buf, rowsPayload{ID: "f1"}, "table", false); err != nil {
		t.Fatalf("table: %v", err)
	}
	if !strings.Contains(buf.String(), "f1") || !strings.Contains(buf.String(), "id") {
		t.Fatalf("expected table output; got %q", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, map[string]int{"a": 1}, "table", false); err != nil {
		t.Fatalf("table fallback: %v", err)
	}
	if strings.TrimSpace(buf.String()) != `{"a":1}` {
		t.Fatalf("expected json fallback; got %q", buf.String())
	}

	if err := Write(&buf, 1, "xml", false); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
