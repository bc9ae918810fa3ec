package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectNodeLookupArgs(t *testing.T) {
	t.Parallel()

	const id = "0b8f5a52-3c1e-4f0e-9a55-6f1f7c1f9c11"

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"notepad"},
			want: []string{"notepad"},
		},
		{
			name: "direct node id first token",
			in:   []string{"notepad", id},
			want: []string{"notepad", "nodes", "show", id},
		},
		{
			name: "direct node id after value flag",
			in:   []string{"notepad", "--dir", "./tmp-pad", id},
			want: []string{"notepad", "--dir", "./tmp-pad", "nodes", "show", id},
		},
		{
			name: "direct node id after equals flag",
			in:   []string{"notepad", "--dir=./tmp-pad", id},
			want: []string{"notepad", "--dir=./tmp-pad", "nodes", "show", id},
		},
		{
			name: "direct node id after bool flag",
			in:   []string{"notepad", "--pretty", id},
			want: []string{"notepad", "--pretty", "nodes", "show", id},
		},
		{
			name: "direct node id after double dash",
			in:   []string{"notepad", "--lang", "ru", "--", id},
			want: []string{"notepad", "--lang", "ru", "--", "nodes", "show", id},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"notepad", "nodes", "show", id},
			want: []string{"notepad", "nodes", "show", id},
		},
		{
			name: "non-uuid token not rewritten",
			in:   []string{"notepad", "wat"},
			want: []string{"notepad", "wat"},
		},
		{
			name: "direct node id after log level",
			in:   []string{"notepad", "--log-level", "debug", id},
			want: []string{"notepad", "--log-level", "debug", "nodes", "show", id},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectNodeLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectNodeLookupArgs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
