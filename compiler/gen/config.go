package gen

import (
	"runtime"

	"github.com/syssam/marco"
	"github.com/syssam/marco/compiler/load"
)

// Defaults used by NewConfig.
const (
	DefaultHeader = "Code generated by marco. DO NOT EDIT."
	DefaultSuffix = "_marco.go"
)

// Config holds the code generation settings shared by all generators.
type Config struct {
	// TagKey is the struct tag key holding field annotations.
	TagKey string
	// Header is the comment written at the top of each generated file.
	Header string
	// Suffix is appended to the snake-cased type name to form the output
	// file name.
	Suffix string
	// Link is the module path of the marco command, used by the composition
	// generator.
	Link string
	// Generators is the default list of generators to run when a type does
	// not request any.
	Generators []string
	// Workers limits the number of files generated in parallel.
	Workers int
	// OutputDir is the directory files are written to. Empty means the
	// directory of the source file.
	OutputDir string
}

// defaultConfig returns the configuration used when no option is given.
func defaultConfig() *Config {
	return &Config{
		TagKey:     load.DefaultTagKey,
		Header:     DefaultHeader,
		Suffix:     DefaultSuffix,
		Link:       marco.DefaultLink,
		Generators: marco.Generators(),
		Workers:    runtime.GOMAXPROCS(0),
	}
}

// FileName returns the name of the file generated for typeName.
func (c *Config) FileName(typeName string) string {
	return snake(typeName) + c.Suffix
}
