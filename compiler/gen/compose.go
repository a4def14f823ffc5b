package gen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"slices"
	"strings"

	"github.com/syssam/marco"
	"github.com/syssam/marco/compiler/load"
)

// Composition is the result of expanding a //marco:data directive.
type Composition struct {
	// Decl is the declaration with its //marco:data line replaced by the
	// directives of the composition, or the input unchanged for a
	// passthrough.
	Decl ast.Decl
	// Options is the parsed directive policy.
	Options load.Options
	// Link is the module path written into the go:generate directive: the
	// link of the directive, else the fallback link.
	Link string
	// Imports lists the generators the go:generate directive requests.
	Imports []string
	// Derives lists the generators of the //marco:derive directive.
	Derives []string

	passthrough bool
}

// Compose expands the //marco:data directive attr on decl. Declarations
// other than a single struct type are passed through unchanged. A directive
// without a link uses marco.DefaultLink.
func Compose(attr string, decl ast.Decl) *Composition {
	return compose(attr, decl, marco.DefaultLink)
}

func compose(attr string, decl ast.Decl, fallback string) *Composition {
	if !load.IsStruct(decl) {
		return &Composition{Decl: decl, passthrough: true}
	}
	opts := load.ParseOptions(attr)
	link := opts.Link
	if link == "" {
		link = fallback
	}
	c := &Composition{
		Options: opts,
		Link:    link,
		Imports: requestedBy(opts),
		Derives: marco.Generators(),
	}
	gd := decl.(*ast.GenDecl)
	spec := gd.Specs[0].(*ast.TypeSpec)
	clone := *gd
	clone.Doc = c.replaceDoc(gd.Doc, spec.Name.Name, gd.Pos())
	c.Decl = &clone
	return c
}

// Passthrough reports whether the declaration was left unchanged.
func (c *Composition) Passthrough() bool {
	return c.passthrough
}

// Directives returns the comment lines that replace the //marco:data line
// of typeName.
func (c *Composition) Directives(typeName string) []string {
	if c.passthrough {
		return nil
	}
	var lines []string
	if len(c.Imports) > 0 {
		lines = append(lines, fmt.Sprintf("//go:generate go run %s generate --type=%s --gen=%s",
			c.Link, typeName, strings.Join(c.Imports, ",")))
	}
	return append(lines, marco.DirectivePrefix+load.DirectiveDerive+" "+strings.Join(c.Derives, ","))
}

// replaceDoc returns a copy of doc with the directive line replaced. Without
// a directive line the directives are appended.
func (c *Composition) replaceDoc(doc *ast.CommentGroup, typeName string, pos token.Pos) *ast.CommentGroup {
	lines := c.Directives(typeName)
	out := &ast.CommentGroup{}
	directive := load.DirectiveComment(doc, load.DirectiveData)
	if doc != nil {
		for _, cm := range doc.List {
			if cm != directive {
				out.List = append(out.List, cm)
				continue
			}
			for _, l := range lines {
				out.List = append(out.List, &ast.Comment{Slash: cm.Slash, Text: l})
			}
		}
	}
	if directive == nil {
		slash := pos - 1
		for _, l := range lines {
			out.List = append(out.List, &ast.Comment{Slash: slash, Text: l})
		}
	}
	return out
}

// requestedBy returns the generators a data policy requests: all of them in
// canonical order, minus the excluded names.
func requestedBy(opts load.Options) []string {
	var out []string
	for _, name := range marco.Generators() {
		if !opts.Excluded(name) {
			out = append(out, name)
		}
	}
	return out
}

// ComposeSource rewrites every //marco:data directive on a struct type of
// the given file and returns the formatted source. The second result
// reports whether anything changed. Directives without a link use the
// link of cfg; a nil cfg means the defaults.
func ComposeSource(filename string, src []byte, cfg *Config) ([]byte, bool, error) {
	if cfg == nil {
		cfg = defaultConfig()
	}
	f, err := load.ParseFile(filename, src)
	if err != nil {
		return nil, false, err
	}
	type edit struct {
		start, end int
		text       string
	}
	var edits []edit
	for _, d := range f.Decls() {
		cm := load.DirectiveComment(d.Doc(), load.DirectiveData)
		if cm == nil {
			continue
		}
		args, _ := load.Directive(d.Doc(), load.DirectiveData)
		single := &ast.GenDecl{Tok: token.TYPE, Specs: []ast.Spec{d.Spec}, Doc: d.Doc()}
		link := cfg.Link
		if link == "" {
			link = marco.DefaultLink
		}
		c := compose(args, single, link)
		if c.Passthrough() {
			continue
		}
		edits = append(edits, edit{
			start: f.Fset.Position(cm.Pos()).Offset,
			end:   f.Fset.Position(cm.End()).Offset,
			text:  strings.Join(c.Directives(d.Name()), "\n"),
		})
	}
	if len(edits) == 0 {
		return f.Src, false, nil
	}
	slices.SortFunc(edits, func(a, b edit) int { return a.start - b.start })
	var buf bytes.Buffer
	last := 0
	for _, e := range edits {
		buf.Write(f.Src[last:e.start])
		buf.WriteString(e.text)
		last = e.end
	}
	buf.Write(f.Src[last:])
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, false, NewGenerationError("compose", "", "formatting composed source", err)
	}
	return out, true, nil
}
