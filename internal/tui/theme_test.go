package tui

import (
	"testing"

	"github.com/muesli/termenv"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDarkBackground(t *testing.T) {
	cases := []struct {
		theme     string
		colorfgbg string
		dark      bool
		known     bool
	}{
		{theme: "light", colorfgbg: "0;0", dark: false, known: true},
		{theme: " Dark ", dark: true, known: true},
		{theme: "auto", colorfgbg: "15;0", dark: true, known: true},
		{theme: "auto", colorfgbg: "0;default;15", dark: false, known: true},
		{theme: "auto", colorfgbg: "7;8", dark: true, known: true},
		{theme: "auto", colorfgbg: "", dark: false, known: false},
		{theme: "", colorfgbg: "garbage", dark: false, known: false},
	}
	for _, tc := range cases {
		dark, known := darkBackground(tc.theme, envOf(map[string]string{"COLORFGBG": tc.colorfgbg}))
		if dark != tc.dark || known != tc.known {
			t.Fatalf("darkBackground(%q, COLORFGBG=%q) = (%v, %v), want (%v, %v)", tc.theme, tc.colorfgbg, dark, known, tc.dark, tc.known)
		}
	}
}

func TestColorProfile(t *testing.T) {
	if got := colorProfile(envOf(map[string]string{"NO_COLOR": "1", "COLORTERM": "truecolor"}), termenv.TrueColor); got != termenv.Ascii {
		t.Fatalf("NO_COLOR: got %v", got)
	}
	if got := colorProfile(envOf(map[string]string{"COLORTERM": "truecolor"}), termenv.ANSI256); got != termenv.TrueColor {
		t.Fatalf("COLORTERM=truecolor: got %v", got)
	}
	if got := colorProfile(envOf(map[string]string{"COLORTERM": "truecolor"}), termenv.Ascii); got != termenv.Ascii {
		t.Fatalf("no tty must stay ascii: got %v", got)
	}
	if got := colorProfile(envOf(map[string]string{"TERM": "xterm-256color"}), termenv.ANSI); got != termenv.ANSI256 {
		t.Fatalf("TERM=xterm-256color: got %v", got)
	}
}
