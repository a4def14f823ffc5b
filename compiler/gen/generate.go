package gen

import (
	"context"
	"fmt"
	"go/ast"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/marco"
	"github.com/syssam/marco/compiler/load"
	"github.com/syssam/marco/internal/logger"
)

// Generator emits the members of one marco generator for a struct. The
// returned declarations are added to the struct's generated file in order.
type Generator interface {
	Name() string
	Generate(*Context) ([]jen.Code, error)
}

var generators = map[string]Generator{
	marco.Getter:  getter{},
	marco.Setter:  setter{},
	marco.Wither:  wither{},
	marco.Builder: builder{},
}

// Lookup returns the generator registered under name.
func Lookup(name string) (Generator, error) {
	g, ok := generators[name]
	if !ok {
		return nil, NewConfigError("Generators", name, "unknown generator; use "+strings.Join(marco.Generators(), ", "))
	}
	return g, nil
}

// Request asks for a set of generators to run on one struct type.
type Request struct {
	Type       string
	Generators []string
}

// FileGenerator generates the marco files of the structs declared in one
// source file.
type FileGenerator struct {
	file *load.File
	cfg  *Config
}

// NewGenerator creates a generator for the given source file. A nil config
// means the defaults of NewConfig.
func NewGenerator(file *load.File, cfg *Config) *FileGenerator {
	if cfg == nil {
		cfg = defaultConfig()
	}
	return &FileGenerator{file: file, cfg: cfg}
}

// Config returns the generator configuration.
func (g *FileGenerator) Config() *Config {
	return g.cfg
}

// Plan resolves which types and generators to run, the way the generate
// command does:
//
//   - typeName set: that type, with gens, or its //marco:derive list, or the
//     configured generators;
//   - line set: the first struct declared after that line (the line of the
//     go:generate directive), with the same generator resolution;
//   - otherwise: every struct with a //marco:derive or //marco:data directive.
//     A //marco:data directive on a non-struct type is skipped.
func (g *FileGenerator) Plan(typeName string, gens []string, line int) ([]Request, error) {
	if typeName == "" && line > 0 {
		if name, err := g.file.TypeAfterLine(line); err == nil {
			typeName = name
		}
	}
	if typeName != "" {
		d, err := g.file.Lookup(typeName)
		if err != nil {
			return nil, err
		}
		return []Request{{Type: typeName, Generators: g.requested(d, gens)}}, nil
	}
	var reqs []Request
	for _, d := range g.file.Decls() {
		_, derive := load.Directive(d.Doc(), load.DirectiveDerive)
		_, data := load.Directive(d.Doc(), load.DirectiveData)
		if !derive && !data {
			continue
		}
		if !derive && !isStructSpec(d.Spec) {
			logger.GetDefault().Debug("Skipping non-struct", "type", d.Name(), "path", g.file.Path)
			continue
		}
		reqs = append(reqs, Request{Type: d.Name(), Generators: g.requested(d, gens)})
	}
	if len(reqs) == 0 {
		return nil, NewConfigError("Type", nil, fmt.Sprintf("no type to generate in %s: use --type or a //marco:derive directive", g.file.Path))
	}
	return reqs, nil
}

func isStructSpec(spec *ast.TypeSpec) bool {
	_, ok := spec.Type.(*ast.StructType)
	return ok && !spec.Assign.IsValid()
}

// requested returns the generators requested for d: the explicit list,
// the //marco:derive list, the //marco:data policy or the configured
// default, in that order.
func (g *FileGenerator) requested(d load.Decl, gens []string) []string {
	if len(gens) > 0 {
		return gens
	}
	if args, ok := load.Directive(d.Doc(), load.DirectiveDerive); ok {
		if list := load.SplitList(args); len(list) > 0 {
			return list
		}
	}
	if args, ok := load.Directive(d.Doc(), load.DirectiveData); ok {
		return requestedBy(load.ParseOptions(args))
	}
	return g.cfg.Generators
}

// Render builds the generated file of one struct. Generators run in their
// canonical order regardless of the order they are requested in.
func (g *FileGenerator) Render(req Request) (*jen.File, error) {
	sc, err := g.file.Struct(req.Type)
	if err != nil {
		return nil, err
	}
	names, err := canonical(req.Generators)
	if err != nil {
		return nil, err
	}
	c := NewContext(sc, g.file.Imports, g.cfg)
	f := g.newFile()
	c.types.register(f)
	for _, name := range names {
		gen, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		code, err := gen.Generate(c)
		if err != nil {
			if ge, ok := err.(*GenerationError); ok && ge.File == "" {
				ge.File = g.cfg.FileName(req.Type)
			}
			return nil, err
		}
		for _, decl := range code {
			f.Add(decl)
			f.Line()
		}
	}
	return f, nil
}

// Generate renders and writes the files of all requests in parallel and
// returns the paths written.
func (g *FileGenerator) Generate(ctx context.Context, reqs ...Request) ([]string, error) {
	tasks := make([]fileTask, 0, len(reqs))
	for _, req := range reqs {
		if len(req.Generators) == 0 {
			continue
		}
		f, err := g.Render(req)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, fileTask{name: g.cfg.FileName(req.Type), typ: req.Type, file: f})
	}
	w := NewWriter(g.OutputDir()).WithWorkers(g.cfg.Workers)
	if err := w.WriteAll(ctx, tasks); err != nil {
		return nil, err
	}
	paths := make([]string, len(tasks))
	for i, t := range tasks {
		paths[i] = filepath.Join(w.outDir, t.name)
	}
	return paths, nil
}

// OutputDir returns the directory generated files are written to.
func (g *FileGenerator) OutputDir() string {
	if g.cfg.OutputDir != "" {
		return g.cfg.OutputDir
	}
	return filepath.Dir(g.file.Path)
}

// newFile creates a new Jennifer file with the header comment.
func (g *FileGenerator) newFile() *jen.File {
	f := jen.NewFile(g.file.Package())
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}
	return f
}

// canonical validates names and returns them deduplicated in the order of
// marco.Generators.
func canonical(names []string) ([]string, error) {
	for _, n := range names {
		if !marco.IsGenerator(n) {
			return nil, NewConfigError("Generators", n, "unknown generator; use "+strings.Join(marco.Generators(), ", "))
		}
	}
	var out []string
	for _, n := range marco.Generators() {
		if slices.Contains(names, n) {
			out = append(out, n)
		}
	}
	return out, nil
}
