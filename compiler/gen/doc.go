// Package gen generates accessor, mutator, functional-update and builder
// methods for Go struct types.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Source file (*.go)
//	        ↓
//	   load.ParseFile + load.Extract (struct context)
//	        ↓
//	   load.Resolve (field annotations: exclude, rename)
//	        ↓
//	   Generator (Getter, Setter, Wither, Builder)
//	        ↓
//	   Writer (jennifer render, goimports, parallel writes)
//	        ↓
//	   <type>_marco.go
//
// # Generators
//
// Each generator implements the Generator interface and emits declarations
// into the file generated for one struct:
//
//   - Getter: func (b *Book) GetTitle() string
//   - Setter: func (b *Book) SetTitle(title string)
//   - Wither: func (b Book) WithTitle(fn func(string) string) Book
//   - Builder: type BookBuilder, NewBookBuilder, one setter per field,
//     Build and Book.Builder
//
// Generators run in that order whatever order they are requested in. The
// method names emitted for one struct must be unique and must not clash with
// its field names.
//
// # Composition
//
// A //marco:data directive is shorthand for the full set of generators.
// Compose and ComposeSource rewrite it into a go:generate directive and a
// //marco:derive directive, honoring its exclude list.
//
// # Error Handling
//
// The package uses structured errors for better debugging:
//
//   - ConfigError: invalid configuration options
//   - GenerationError: generation or write failures
//
// Shape and annotation errors come from the marco package. Use errors.Is
// with the sentinel errors (ErrMissingConfig, ErrGenerationFailed) to check
// error categories.
package gen
