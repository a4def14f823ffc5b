// Package config loads the optional .marco.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/syssam/marco/compiler/gen"
)

// FileName is the name of the project configuration file.
const FileName = ".marco.yaml"

// File is the content of a .marco.yaml file. Unset keys keep the generator
// defaults.
type File struct {
	Tag        *string  `yaml:"tag"`
	Header     *string  `yaml:"header"`
	Suffix     string   `yaml:"suffix"`
	Link       string   `yaml:"link"`
	Generators []string `yaml:"generators"`
	Workers    int      `yaml:"workers"`

	// Path is the file the configuration was read from.
	Path string `yaml:"-"`
}

// Find looks for FileName in dir and its parents, stopping after the
// directory holding go.mod. It returns an empty path when no file exists.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads and decodes the configuration file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Decode decodes a configuration document. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	f := &File{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return f, nil
}

// Discover finds and loads the configuration for sources in dir. A missing
// file yields an empty configuration.
func Discover(dir string) (*File, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &File{}, nil
	}
	return Load(path)
}

// Options converts the file into generator options.
func (f *File) Options() []gen.Option {
	var opts []gen.Option
	if f.Tag != nil {
		opts = append(opts, gen.WithTagKey(*f.Tag))
	}
	if f.Header != nil {
		opts = append(opts, gen.WithHeader(*f.Header))
	}
	if f.Suffix != "" {
		opts = append(opts, gen.WithSuffix(f.Suffix))
	}
	if f.Link != "" {
		opts = append(opts, gen.WithLink(f.Link))
	}
	if len(f.Generators) > 0 {
		opts = append(opts, gen.WithGenerators(f.Generators...))
	}
	if f.Workers != 0 {
		opts = append(opts, gen.WithWorkers(f.Workers))
	}
	return opts
}
