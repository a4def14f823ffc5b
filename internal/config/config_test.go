package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/marco/compiler/gen"
)

func TestDecode(t *testing.T) {
	t.Run("decodes all keys", func(t *testing.T) {
		f, err := Decode(strings.NewReader(`
tag: gen
header: "Code generated by tools. DO NOT EDIT."
suffix: _gen.go
link: example.com/tools/cmd/marco
generators: [Getter, Builder]
workers: 2
`))
		require.NoError(t, err)
		require.NotNil(t, f.Tag)
		assert.Equal(t, "gen", *f.Tag)
		require.NotNil(t, f.Header)
		assert.Equal(t, "Code generated by tools. DO NOT EDIT.", *f.Header)
		assert.Equal(t, "_gen.go", f.Suffix)
		assert.Equal(t, "example.com/tools/cmd/marco", f.Link)
		assert.Equal(t, []string{"Getter", "Builder"}, f.Generators)
		assert.Equal(t, 2, f.Workers)
	})

	t.Run("accepts an empty document", func(t *testing.T) {
		f, err := Decode(strings.NewReader(""))
		require.NoError(t, err)
		assert.Nil(t, f.Tag)
		assert.Empty(t, f.Options())
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		_, err := Decode(strings.NewReader("tags: marco\n"))
		require.Error(t, err)
	})

	t.Run("keeps an explicit empty tag", func(t *testing.T) {
		f, err := Decode(strings.NewReader(`tag: ""`))
		require.NoError(t, err)
		require.NotNil(t, f.Tag)

		cfg, err := gen.NewConfig(f.Options()...)
		require.NoError(t, err)
		assert.Equal(t, "", cfg.TagKey)
	})
}

func TestOptions(t *testing.T) {
	t.Run("overrides generator defaults", func(t *testing.T) {
		f := &File{Suffix: "_gen.go", Generators: []string{"Wither"}, Workers: 3}

		cfg, err := gen.NewConfig(f.Options()...)
		require.NoError(t, err)
		assert.Equal(t, "_gen.go", cfg.Suffix)
		assert.Equal(t, []string{"Wither"}, cfg.Generators)
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, gen.DefaultHeader, cfg.Header)
	})

	t.Run("surfaces invalid values as config errors", func(t *testing.T) {
		f := &File{Generators: []string{"Cloner"}}

		_, err := gen.NewConfig(f.Options()...)
		require.Error(t, err)
		assert.True(t, gen.IsConfigError(err))
	})
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/m\n"), 0o644))
	pkg := filepath.Join(root, "internal", "books")
	require.NoError(t, os.MkdirAll(pkg, 0o755))

	t.Run("stops at the module root", func(t *testing.T) {
		path, err := Find(pkg)
		require.NoError(t, err)
		assert.Empty(t, path)

		f, err := Discover(pkg)
		require.NoError(t, err)
		assert.Empty(t, f.Path)
	})

	t.Run("finds the file in a parent directory", func(t *testing.T) {
		want := filepath.Join(root, FileName)
		require.NoError(t, os.WriteFile(want, []byte("suffix: _gen.go\n"), 0o644))
		t.Cleanup(func() { _ = os.Remove(want) })

		path, err := Find(pkg)
		require.NoError(t, err)
		assert.Equal(t, want, path)

		f, err := Discover(pkg)
		require.NoError(t, err)
		assert.Equal(t, want, f.Path)
		assert.Equal(t, "_gen.go", f.Suffix)
	})

	t.Run("reports decode errors with the path", func(t *testing.T) {
		bad := filepath.Join(pkg, FileName)
		require.NoError(t, os.WriteFile(bad, []byte("workers: many\n"), 0o644))
		t.Cleanup(func() { _ = os.Remove(bad) })

		_, err := Discover(pkg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), bad)
	})
}
