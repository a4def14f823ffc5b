package load

import (
	"go/ast"
	"go/scanner"
	"go/token"
)

// Token is one lexical token of an annotation or directive.
type Token struct {
	Tok token.Token
	Lit string // source text for identifiers, keywords and literals
	Off int    // byte offset in the scanned text
}

// Text returns the source text of the token.
func (t Token) Text() string {
	if t.Lit != "" {
		return t.Lit
	}
	return t.Tok.String()
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Off + len(t.Text())
}

// Tokenize splits src into Go tokens, dropping automatically inserted
// semicolons. Scanning continues past lexical errors: the tokens read so far
// are always returned together with the first error, so that permissive
// callers can ignore it.
func Tokenize(src string) ([]Token, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))
	var (
		errs scanner.ErrorList
		s    scanner.Scanner
		toks []Token
	)
	s.Init(file, []byte(src), func(pos token.Position, msg string) { errs.Add(pos, msg) }, 0)
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		toks = append(toks, Token{Tok: tok, Lit: lit, Off: file.Offset(pos)})
	}
	if len(errs) > 0 {
		return toks, errs[0]
	}
	return toks, nil
}

// PunctEq reports whether t is the operator or delimiter op, for example "="
// or "(". A nil token never matches.
func PunctEq(t *Token, op string) bool {
	if t == nil || !t.Tok.IsOperator() {
		return false
	}
	return t.Tok.String() == op
}

// IsStruct reports whether decl is a single, non-alias type declaration of a
// struct type.
func IsStruct(decl ast.Decl) bool {
	gd, ok := decl.(*ast.GenDecl)
	if !ok || gd.Tok != token.TYPE || len(gd.Specs) != 1 {
		return false
	}
	spec, ok := gd.Specs[0].(*ast.TypeSpec)
	if !ok || spec.Assign.IsValid() {
		return false
	}
	_, ok = spec.Type.(*ast.StructType)
	return ok
}

// stream is a forward cursor over a token slice.
type stream struct {
	toks []Token
	pos  int
}

// next returns the next token and advances, or nil at the end.
func (s *stream) next() *Token {
	if s.pos >= len(s.toks) {
		return nil
	}
	t := &s.toks[s.pos]
	s.pos++
	return t
}

// peek returns the next token without advancing, or nil at the end.
func (s *stream) peek() *Token {
	if s.pos >= len(s.toks) {
		return nil
	}
	return &s.toks[s.pos]
}
