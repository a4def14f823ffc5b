package load

import (
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/syssam/marco"
)

// Field annotation markers.
const (
	// MarkerExclude removes a field from the accessor, mutator and
	// functional-update generators.
	MarkerExclude = "exclude"
	// MarkerName overrides the name used in generated method identifiers.
	MarkerName = "name"
)

// Annotation is one marker attached to a field: a bare marker such as
// exclude, or a call-like marker such as name(cost).
type Annotation struct {
	Name  string  // marker identifier
	Paren bool    // written with parentheses, even if empty
	Args  []Token // tokens between the parentheses
	Text  string  // source text, used in error messages
}

// ParseAnnotations parses a sequence of markers. Markers may be separated by
// spaces, commas or semicolons:
//
//	exclude
//	name(cost)
//	name("cost") exclude
func ParseAnnotations(src string) ([]Annotation, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, &marco.AnnotationError{Annotation: src, Message: err.Error()}
	}
	var (
		anns []Annotation
		s    = &stream{toks: toks}
	)
	for t := s.next(); t != nil; t = s.next() {
		if PunctEq(t, ",") || PunctEq(t, ";") {
			continue
		}
		if t.Tok != token.IDENT {
			return nil, &marco.AnnotationError{
				Annotation: src,
				Message:    fmt.Sprintf("unexpected %s, expecting marker name", t.Text()),
			}
		}
		a := Annotation{Name: t.Lit}
		start, end := t.Off, t.End()
		if PunctEq(s.peek(), "(") {
			s.next()
			a.Paren = true
			depth := 1
			for depth > 0 {
				arg := s.next()
				if arg == nil {
					return nil, &marco.AnnotationError{Annotation: src, Message: "unterminated marker " + a.Name}
				}
				switch {
				case PunctEq(arg, "("), PunctEq(arg, "["), PunctEq(arg, "{"):
					depth++
				case PunctEq(arg, ")"), PunctEq(arg, "]"), PunctEq(arg, "}"):
					depth--
				}
				if depth == 0 {
					end = arg.End()
					break
				}
				a.Args = append(a.Args, *arg)
			}
		}
		a.Text = src[start:end]
		anns = append(anns, a)
	}
	return anns, nil
}

// Rename returns the effective name carried by a name(...) marker.
// It fails when the marker has no argument or more than one argument.
func (a Annotation) Rename() (string, error) {
	if len(a.Args) == 0 {
		return "", fmt.Errorf("name is empty")
	}
	for _, t := range a.Args {
		if t.Tok == token.COMMA {
			return "", fmt.Errorf("only one value is required for the name on property")
		}
	}
	if len(a.Args) != 1 {
		return "", fmt.Errorf("name must be a single identifier or string")
	}
	arg := a.Args[0]
	var name string
	switch {
	case arg.Tok == token.IDENT || arg.Tok.IsKeyword():
		name = arg.Lit
	case arg.Tok == token.STRING:
		v, err := strconv.Unquote(arg.Lit)
		if err != nil {
			return "", fmt.Errorf("invalid string %s: %w", arg.Lit, err)
		}
		name = strings.TrimSpace(v)
	default:
		return "", fmt.Errorf("name must be a single identifier or string, got %s", arg.Text())
	}
	if strings.Contains(name, ",") {
		return "", fmt.Errorf("only one value is required for the name on property")
	}
	if name == "" {
		return "", fmt.Errorf("name is empty")
	}
	if !isIdent(name) {
		return "", fmt.Errorf("name %q is not a valid identifier", name)
	}
	return name, nil
}

// FieldAnnotations collects the markers attached to a struct field, first
// from its comment directives (//marco:...) and then from the struct tag
// under tagKey.
func FieldAnnotations(f *ast.Field, tagKey string) ([]Annotation, error) {
	var anns []Annotation
	for _, cg := range []*ast.CommentGroup{f.Doc, f.Comment} {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			text, ok := strings.CutPrefix(c.Text, marco.DirectivePrefix)
			if !ok {
				continue
			}
			parsed, err := ParseAnnotations(text)
			if err != nil {
				return nil, err
			}
			anns = append(anns, parsed...)
		}
	}
	if f.Tag == nil || tagKey == "" {
		return anns, nil
	}
	tag, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		return nil, &marco.AnnotationError{Annotation: f.Tag.Value, Message: "invalid struct tag"}
	}
	value, ok := reflect.StructTag(tag).Lookup(tagKey)
	if !ok {
		return anns, nil
	}
	parsed, err := ParseAnnotations(value)
	if err != nil {
		return nil, err
	}
	return append(anns, parsed...), nil
}

// isIdent reports whether s is spelled like a Go identifier. Keywords are
// accepted since names are only used as suffixes of generated identifiers.
func isIdent(s string) bool {
	return token.IsIdentifier(s) || token.IsKeyword(s)
}
