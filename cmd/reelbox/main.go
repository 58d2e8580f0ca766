package main

import (
	"os"
	"strings"

	"reelbox/internal/cli"
)

// isFilmID reports whether s looks like a catalog film id (all digits).
func isFilmID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// rewriteDirectFilmLookupArgs makes `reelbox <film-id>` behave like
// `reelbox films show <film-id>`. Cobra treats the first positional token as
// a subcommand, so argv is rewritten before parsing. Persistent flags may
// come first, so the first positional token is searched for.
func rewriteDirectFilmLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":    true,
		"--endpoint":  true,
		"--token":     true,
		"--timeout":   true,
		"--format":    true,
		"--log-level": true,
		"--log-file":  true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "films", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isFilmID(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			// Unknown flags are skipped without consuming a value so an id
			// right after them is still found.
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isFilmID(a) {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectFilmLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
