package gen

import (
	"errors"
	"slices"
	"strings"

	"github.com/syssam/marco"
)

// Option configures code generation.
type Option func(*Config) error

// WithTagKey sets the struct tag key that holds field annotations.
// An empty key disables struct tag annotations; comment directives still
// apply.
func WithTagKey(key string) Option {
	return func(c *Config) error {
		if strings.ContainsAny(key, " :\"`") {
			return NewConfigError("TagKey", key, "tag key cannot contain spaces, colons or quotes")
		}
		c.TagKey = key
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithSuffix sets the suffix of generated file names, for example
// "_marco.go".
func WithSuffix(suffix string) Option {
	return func(c *Config) error {
		if !strings.HasSuffix(suffix, ".go") || strings.HasSuffix(suffix, "_test.go") {
			return NewConfigError("Suffix", suffix, "suffix must end in .go and not in _test.go")
		}
		if strings.ContainsRune(suffix, '/') {
			return NewConfigError("Suffix", suffix, "suffix cannot contain a path separator")
		}
		c.Suffix = suffix
		return nil
	}
}

// WithLink sets the module path of the marco command written into
// go:generate directives by the composition generator.
func WithLink(link string) Option {
	return func(c *Config) error {
		if link == "" {
			return NewConfigError("Link", nil, "link cannot be empty")
		}
		c.Link = link
		return nil
	}
}

// WithGenerators sets the generators run for types that do not request
// their own list. Names are validated against the known generators.
func WithGenerators(names ...string) Option {
	return func(c *Config) error {
		if len(names) == 0 {
			return NewConfigError("Generators", nil, "at least one generator is required")
		}
		for _, n := range names {
			if !marco.IsGenerator(n) {
				return NewConfigError("Generators", n, "unknown generator; use "+strings.Join(marco.Generators(), ", "))
			}
		}
		c.Generators = slices.Clone(names)
		return nil
	}
}

// WithWorkers sets the number of files generated in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithOutputDir sets the directory generated files are written to.
func WithOutputDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("OutputDir", nil, "output directory cannot be empty")
		}
		c.OutputDir = dir
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := defaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
