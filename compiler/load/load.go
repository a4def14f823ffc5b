// Package load parses Go source files into the struct views and field
// policies consumed by the marco generators.
package load

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/syssam/marco"
)

// Type-level directive names.
const (
	// DirectiveDerive lists the generators requested for a struct:
	//	//marco:derive Getter,Setter
	DirectiveDerive = "derive"
	// DirectiveData requests all generators through the composition policy:
	//	//marco:data exclude=["Wither"]
	DirectiveData = "data"
)

// File is a parsed Go source file.
type File struct {
	Path    string
	Fset    *token.FileSet
	AST     *ast.File
	Src     []byte
	Imports []Import
}

// Import is an import of the file together with the name the file refers to
// it by.
type Import struct {
	Path string
	Name string
	// Explicit reports whether Name was written as an alias.
	Explicit bool
}

// Decl is a type declaration found in a file.
type Decl struct {
	Gen  *ast.GenDecl
	Spec *ast.TypeSpec
}

// Name returns the declared type name.
func (d Decl) Name() string {
	return d.Spec.Name.Name
}

// Doc returns the comment group documenting the declaration: the TypeSpec's own
// doc inside a grouped declaration, the GenDecl's doc otherwise.
func (d Decl) Doc() *ast.CommentGroup {
	if d.Spec.Doc != nil {
		return d.Spec.Doc
	}
	if len(d.Gen.Specs) == 1 {
		return d.Gen.Doc
	}
	return nil
}

// ParseFile parses the Go file at filename. If src is nil the file is read
// from disk.
func ParseFile(filename string, src []byte) (*File, error) {
	if src == nil {
		b, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		src = b
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}
	return &File{
		Path:    filename,
		Fset:    fset,
		AST:     f,
		Src:     src,
		Imports: collectImports(f),
	}, nil
}

// Package returns the package name of the file.
func (f *File) Package() string {
	return f.AST.Name.Name
}

// Position returns the file:line:column of pos.
func (f *File) Position(pos token.Pos) string {
	return f.Fset.Position(pos).String()
}

// Decls returns all type declarations of the file in source order.
func (f *File) Decls() []Decl {
	var decls []Decl
	for _, d := range f.AST.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, s := range gd.Specs {
			if spec, ok := s.(*ast.TypeSpec); ok {
				decls = append(decls, Decl{Gen: gd, Spec: spec})
			}
		}
	}
	return decls
}

// Lookup returns the declaration of the named type.
func (f *File) Lookup(typeName string) (Decl, error) {
	for _, d := range f.Decls() {
		if d.Name() == typeName {
			return d, nil
		}
	}
	return Decl{}, marco.NewShapeError(typeName, marco.KindNotFound)
}

// Struct looks up the named type and extracts its struct context.
func (f *File) Struct(typeName string) (*StructContext, error) {
	d, err := f.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	sc, err := Extract(d.Spec)
	if err != nil {
		if se, ok := err.(*marco.ShapeError); ok {
			se.Pos = f.Position(d.Spec.Pos())
		}
		return nil, err
	}
	return sc, nil
}

// TypeAfterLine returns the first struct type declared after line, which is
// how a go:generate directive placed above a type names it.
func (f *File) TypeAfterLine(line int) (string, error) {
	for _, d := range f.Decls() {
		if f.Fset.Position(d.Spec.Pos()).Line <= line {
			continue
		}
		if _, ok := d.Spec.Type.(*ast.StructType); ok {
			return d.Name(), nil
		}
	}
	return "", fmt.Errorf("no struct type found after line %d", line)
}

// Derived returns the declarations carrying a //marco:derive directive,
// together with the generator names they request.
func (f *File) Derived() ([]Decl, [][]string) {
	var (
		decls []Decl
		gens  [][]string
	)
	for _, d := range f.Decls() {
		args, ok := Directive(d.Doc(), DirectiveDerive)
		if !ok {
			continue
		}
		decls = append(decls, d)
		gens = append(gens, SplitList(args))
	}
	return decls, gens
}

// Directive finds the //marco:<name> line in cg and returns the text after
// the directive name.
func Directive(cg *ast.CommentGroup, name string) (string, bool) {
	c := DirectiveComment(cg, name)
	if c == nil {
		return "", false
	}
	args := strings.TrimPrefix(c.Text, marco.DirectivePrefix+name)
	return strings.TrimSpace(args), true
}

// DirectiveComment returns the comment holding the //marco:<name> directive.
func DirectiveComment(cg *ast.CommentGroup, name string) *ast.Comment {
	if cg == nil {
		return nil
	}
	prefix := marco.DirectivePrefix + name
	for _, c := range cg.List {
		rest, ok := strings.CutPrefix(c.Text, prefix)
		if ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			return c
		}
	}
	return nil
}

// SplitList splits a comma or space separated list of names.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

func collectImports(f *ast.File) []Import {
	imports := make([]Import, 0, len(f.Imports))
	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		i := Import{Path: p, Name: AssumedName(p)}
		if imp.Name != nil {
			i.Name, i.Explicit = imp.Name.Name, true
		}
		imports = append(imports, i)
	}
	return imports
}

// AssumedName returns the package name an import path is conventionally
// referred to by: the last element without a major version suffix or a
// "go-" prefix.
func AssumedName(importPath string) string {
	base := path.Base(importPath)
	if strings.HasPrefix(base, "v") {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			dir := path.Dir(importPath)
			if dir != "." {
				base = path.Base(dir)
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexAny(base, ".-"); i >= 0 {
		base = base[:i]
	}
	return base
}
