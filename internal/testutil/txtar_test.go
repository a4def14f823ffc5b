package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

const archive = `Builder only.

Flags: type=Book, gen=Builder

-- input.go --
package library
-- want/book_marco.go --
package library
`

func TestParseCase(t *testing.T) {
	c, err := ParseCase("book", txtar.Parse([]byte(archive)))
	require.NoError(t, err)
	assert.Equal(t, "book", c.Name)
	assert.Equal(t, []string{"type=Book", "gen=Builder"}, c.Flags)
	assert.Equal(t, "package library\n", string(c.Input))
	assert.Contains(t, c.Want, "book_marco.go")
}

func TestParseCaseErrors(t *testing.T) {
	tests := []struct {
		name    string
		archive string
		want    string
	}{
		{"missing input", "-- want/a.go --\nx\n", "missing input.go"},
		{"missing want", "-- input.go --\nx\n", "missing want/*"},
		{"unexpected file", "-- input.go --\nx\n-- other.go --\ny\n", "unexpected file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCase(tt.name, txtar.Parse([]byte(tt.archive)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNormalizeContent(t *testing.T) {
	a := "type T struct {\n\tname  string\n\tid    int\n}\n\n"
	b := "type T struct {\n    name string\n    id int\n}"
	assert.Equal(t, normalizeContent([]byte(a)), normalizeContent([]byte(b)))
	assert.NotEqual(t, normalizeContent([]byte("a b")), normalizeContent([]byte("ab")))
}

func TestUpdateArchive(t *testing.T) {
	ar := txtar.Parse([]byte(archive))
	got := UpdateArchive(ar, map[string][]byte{
		"z_marco.go": []byte("package z"),
		"a_marco.go": []byte("package a\n"),
	})
	require.Len(t, got.Files, 3)
	assert.Equal(t, "input.go", got.Files[0].Name)
	assert.Equal(t, "want/a_marco.go", got.Files[1].Name)
	assert.Equal(t, "want/z_marco.go", got.Files[2].Name)
	assert.Equal(t, "package z\n", string(got.Files[2].Data))
	assert.Equal(t, ar.Comment, got.Comment)
}
