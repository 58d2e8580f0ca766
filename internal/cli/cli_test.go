package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelbox/internal/mockapi"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// newCatalog serves a seeded catalog and isolates the config dir.
func newCatalog(t *testing.T, films int) string {
	t.Helper()
	t.Setenv("REELBOX_CONFIG_DIR", t.TempDir())
	st, err := mockapi.OpenStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if err := mockapi.Seed(context.Background(), st, films, 3); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(mockapi.NewHandler(mockapi.Options{Store: st}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: reelbox %v\nerr: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected data key; got %v", env)
	}
	return env
}

func TestFilmsListAndShow(t *testing.T) {
	url := newCatalog(t, 6)
	env := mustRun(t, "--endpoint", url, "--token", "t", "films", "list", "--sort", "rating", "--limit", "4")
	data := env["data"].([]any)
	if len(data) != 4 {
		t.Fatalf("expected 4 films; got %d", len(data))
	}
	meta := env["meta"].(map[string]any)
	if meta["total"].(float64) != 6 || meta["sort"] != "rating" {
		t.Fatalf("unexpected meta %v", meta)
	}
	prev := 11.0
	for _, f := range data {
		info := f.(map[string]any)["film_info"].(map[string]any)
		r, ok := info["total_rating"].(float64)
		if !ok {
			r = -1
		}
		if r > prev {
			t.Fatalf("expected ratings descending; %v after %v", r, prev)
		}
		prev = r
	}

	id := data[0].(map[string]any)["id"].(string)
	show := mustRun(t, "--endpoint", url, "--token", "t", "films", "show", id)
	if show["data"].(map[string]any)["id"] != id {
		t.Fatalf("expected film %s; got %v", id, show["data"])
	}
}

func TestFilmsToggleRoundTrip(t *testing.T) {
	url := newCatalog(t, 3)
	env := mustRun(t, "--endpoint", url, "--token", "t", "films", "toggle", "0", "--flag", "favorite", "--on")
	ud := env["data"].(map[string]any)["user_details"].(map[string]any)
	if ud["favorite"] != true {
		t.Fatalf("expected favorite on; got %v", ud)
	}
	list := mustRun(t, "--endpoint", url, "--token", "t", "films", "list", "--filter", "favorites")
	found := false
	for _, f := range list["data"].([]any) {
		if f.(map[string]any)["id"] == "0" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected film 0 in favorites")
	}
}

func TestCommentsAddListDelete(t *testing.T) {
	url := newCatalog(t, 2)
	before := mustRun(t, "--endpoint", url, "--token", "t", "comments", "list", "1")
	n := len(before["data"].([]any))

	added := mustRun(t, "--endpoint", url, "--token", "t", "comments", "add", "1", "--body", "hello", "--emotion", "puke")
	cs := added["comments"].([]any)
	if len(cs) != n+1 {
		t.Fatalf("expected %d comments; got %d", n+1, len(cs))
	}
	last := cs[len(cs)-1].(map[string]any)
	if last["comment"] != "hello" || last["emotion"] != "puke" {
		t.Fatalf("unexpected comment %v", last)
	}

	mustRun(t, "--endpoint", url, "--token", "t", "comments", "delete", "1", last["id"].(string))
	after := mustRun(t, "--endpoint", url, "--token", "t", "comments", "list", "1")
	if len(after["data"].([]any)) != n {
		t.Fatalf("expected comment removed")
	}
}

func TestUnknownFilmAndBadFlags(t *testing.T) {
	url := newCatalog(t, 1)
	if _, stderr, err := runCLI(t, []string{"--endpoint", url, "--token", "t", "films", "show", "nope"}); err == nil || !strings.Contains(string(stderr), "film not found: nope") {
		t.Fatalf("expected not found; err=%v stderr=%s", err, stderr)
	}
	if _, _, err := runCLI(t, []string{"--endpoint", url, "films", "toggle", "0", "--flag", "liked"}); err == nil {
		t.Fatalf("expected unknown flag error")
	}
	if _, _, err := runCLI(t, []string{"--endpoint", url, "films", "list", "--filter", "mine"}); err == nil {
		t.Fatalf("expected unknown filter error")
	}
}

func TestUnreachableCatalog(t *testing.T) {
	t.Setenv("REELBOX_CONFIG_DIR", t.TempDir())
	if _, _, err := runCLI(t, []string{"--endpoint", "http://127.0.0.1:1", "--timeout", "200ms", "films", "list"}); err == nil {
		t.Fatalf("expected network error")
	}
}

func TestTableFormat(t *testing.T) {
	url := newCatalog(t, 2)
	stdout, _, err := runCLI(t, []string{"--endpoint", url, "--token", "t", "--format", "table", "films", "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(string(stdout), "title") || !strings.Contains(string(stdout), "rating") {
		t.Fatalf("expected table headers; got %s", stdout)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("REELBOX_CONFIG_DIR", dir)
	mustRun(t, "--token", "secret", "--endpoint", "http://example.test/api", "config", "init")
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "init"}); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	env := mustRun(t, "config", "show")
	data := env["data"].(map[string]any)
	if data["endpoint"] != "http://example.test/api" || data["token"] != "****" {
		t.Fatalf("expected saved endpoint and masked token; got %v", data)
	}
}

func TestDocs(t *testing.T) {
	t.Setenv("REELBOX_CONFIG_DIR", t.TempDir())
	env := mustRun(t, "docs")
	topics, _ := env["data"].(map[string]any)["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected topics; got %v", env)
	}
	stdout, _, err := runCLI(t, []string{"docs", "filters", "--raw"})
	if err != nil || !strings.HasPrefix(string(stdout), "# Filters") {
		t.Fatalf("raw docs: err=%v out=%s", err, stdout)
	}
	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}
