package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/marco"
	"github.com/syssam/marco/compiler/load"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Code generated by tools. DO NOT EDIT.")(c)

		require.NoError(t, err)
		assert.Equal(t, "Code generated by tools. DO NOT EDIT.", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithTagKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"simple", "gen", false},
		{"empty disables tags", "", false},
		{"space", "my key", true},
		{"colon", "a:b", true},
		{"quote", `a"b`, true},
		{"backquote", "a`b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{TagKey: "marco"}
			err := WithTagKey(tt.key)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				assert.Equal(t, "marco", c.TagKey)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.key, c.TagKey)
			}
		})
	}
}

func TestWithSuffix(t *testing.T) {
	tests := []struct {
		name    string
		suffix  string
		wantErr bool
	}{
		{"default", "_marco.go", false},
		{"custom", ".gen.go", false},
		{"no go extension", "_marco.txt", true},
		{"test file", "_marco_test.go", true},
		{"path", "gen/_marco.go", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithSuffix(tt.suffix)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.suffix, c.Suffix)
			}
		})
	}
}

func TestWithLink(t *testing.T) {
	t.Run("sets link", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithLink("example.com/tools/cmd/marco")(c))
		assert.Equal(t, "example.com/tools/cmd/marco", c.Link)
	})

	t.Run("empty link returns error", func(t *testing.T) {
		err := WithLink("")(&Config{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithGenerators(t *testing.T) {
	t.Run("sets generators", func(t *testing.T) {
		c := &Config{}
		names := []string{marco.Builder, marco.Getter}
		require.NoError(t, WithGenerators(names...)(c))
		assert.Equal(t, names, c.Generators)

		names[0] = marco.Wither
		assert.Equal(t, marco.Builder, c.Generators[0], "option must copy its input")
	})

	t.Run("unknown generator returns error", func(t *testing.T) {
		err := WithGenerators(marco.Getter, "getter")(&Config{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.Contains(t, err.Error(), "getter")
	})

	t.Run("empty list returns error", func(t *testing.T) {
		err := WithGenerators()(&Config{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithWorkers(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithWorkers(4)(c))
	assert.Equal(t, 4, c.Workers)

	for _, n := range []int{0, -1} {
		err := WithWorkers(n)(c)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	}
	assert.Equal(t, 4, c.Workers)
}

func TestWithOutputDir(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithOutputDir("out")(c))
	assert.Equal(t, "out", c.OutputDir)

	err := WithOutputDir("")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, load.DefaultTagKey, c.TagKey)
		assert.Equal(t, DefaultHeader, c.Header)
		assert.Equal(t, DefaultSuffix, c.Suffix)
		assert.Equal(t, marco.DefaultLink, c.Link)
		assert.Equal(t, marco.Generators(), c.Generators)
		assert.Positive(t, c.Workers)
		assert.Empty(t, c.OutputDir)
	})

	t.Run("options override defaults", func(t *testing.T) {
		c, err := NewConfig(WithTagKey("gen"), WithGenerators(marco.Getter))
		require.NoError(t, err)
		assert.Equal(t, "gen", c.TagKey)
		assert.Equal(t, []string{marco.Getter}, c.Generators)
	})

	t.Run("first error is returned", func(t *testing.T) {
		_, err := NewConfig(WithWorkers(0), WithLink(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Workers")
	})

	t.Run("MustNewConfig panics on error", func(t *testing.T) {
		assert.Panics(t, func() { MustNewConfig(WithSuffix("x")) })
		assert.NotPanics(t, func() { MustNewConfig(WithSuffix("_gen.go")) })
	})
}

func TestApplyAll(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithWorkers(0), WithLink(""), WithHeader("h"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Workers")
	assert.Contains(t, err.Error(), "Link")
	assert.Equal(t, "h", c.Header)
}

func TestConfigFileName(t *testing.T) {
	c := MustNewConfig()
	assert.Equal(t, "book_marco.go", c.FileName("Book"))
	assert.Equal(t, "http_client_marco.go", c.FileName("HTTPClient"))
	assert.Equal(t, "user_info_marco.go", c.FileName("userInfo"))

	c = MustNewConfig(WithSuffix(".gen.go"))
	assert.Equal(t, "book.gen.go", c.FileName("Book"))
}
