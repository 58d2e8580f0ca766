package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	got := Topics()
	want := []string{"config", "filters", "keys", "mockapi"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics() = %v, want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" Keys ")
	if !ok {
		t.Fatalf("expected keys topic")
	}
	if !strings.HasPrefix(body, "# Keys") {
		t.Fatalf("unexpected body: %q", body[:20])
	}
	for _, bad := range []string{"", "nope", "../docs", "keys.md"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("Get(%q): expected miss", bad)
		}
	}
}
