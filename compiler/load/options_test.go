package load

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Options
	}{
		{
			name:  "empty",
			input: "",
			want:  Options{},
		},
		{
			name:  "link",
			input: `link = "example.com/tools/cmd/marco"`,
			want:  Options{Link: "example.com/tools/cmd/marco"},
		},
		{
			name:  "exclude strings",
			input: `exclude = ["Getter", "Setter"]`,
			want:  Options{Exclude: []string{"Getter", "Setter"}},
		},
		{
			name:  "exclude identifiers",
			input: `exclude = [Wither]`,
			want:  Options{Exclude: []string{"Wither"}},
		},
		{
			name:  "both in any order",
			input: `exclude=["Builder"], link="x/y"`,
			want:  Options{Link: "x/y", Exclude: []string{"Builder"}},
		},
		{
			name:  "repeated exclude accumulates",
			input: `exclude = ["Getter"] exclude = ["Setter"]`,
			want:  Options{Exclude: []string{"Getter", "Setter"}},
		},
		{
			name:  "unknown assignments are skipped",
			input: `mode = "fast", exclude = ["Getter"]`,
			want:  Options{Exclude: []string{"Getter"}},
		},
		{
			name:  "non-string link is ignored",
			input: `link = 42`,
			want:  Options{},
		},
		{
			name:  "empty link is ignored",
			input: `link = ""`,
			want:  Options{},
		},
		{
			name:  "garbage",
			input: `) ] = "`,
			want:  Options{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOptions(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseOptions(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestOptionsExcluded(t *testing.T) {
	opts := Options{Exclude: []string{"Getter", "wither"}}

	assert.True(t, opts.Excluded("Getter"))
	assert.False(t, opts.Excluded("Wither"), "matching is exact")
	assert.False(t, opts.Excluded("Setter"))
}
