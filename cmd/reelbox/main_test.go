package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectFilmLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"reelbox"},
			want: []string{"reelbox"},
		},
		{
			name: "direct film id first token",
			in:   []string{"reelbox", "12"},
			want: []string{"reelbox", "films", "show", "12"},
		},
		{
			name: "direct film id after value flag",
			in:   []string{"reelbox", "--endpoint", "http://localhost:8080", "3"},
			want: []string{"reelbox", "--endpoint", "http://localhost:8080", "films", "show", "3"},
		},
		{
			name: "direct film id after equals flag",
			in:   []string{"reelbox", "--format=edn", "3"},
			want: []string{"reelbox", "--format=edn", "films", "show", "3"},
		},
		{
			name: "direct film id after bool flag",
			in:   []string{"reelbox", "--pretty", "3"},
			want: []string{"reelbox", "--pretty", "films", "show", "3"},
		},
		{
			name: "direct film id after double dash",
			in:   []string{"reelbox", "--", "3"},
			want: []string{"reelbox", "--", "films", "show", "3"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"reelbox", "films", "show", "3"},
			want: []string{"reelbox", "films", "show", "3"},
		},
		{
			name: "numeric flag value not mistaken for id",
			in:   []string{"reelbox", "--timeout", "5", "serve"},
			want: []string{"reelbox", "--timeout", "5", "serve"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectFilmLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectFilmLookupArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
