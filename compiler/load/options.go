package load

import (
	"go/token"
	"strconv"
)

// Options is the policy of a //marco:data directive.
type Options struct {
	// Link is the module path of the marco command used in the emitted
	// go:generate directive. It is empty when the directive has no link.
	Link string
	// Exclude lists generator names that are not requested.
	Exclude []string
}

// Excluded reports whether the generator name is in the exclude list.
// Matching is exact.
func (o Options) Excluded(name string) bool {
	for _, e := range o.Exclude {
		if e == name {
			return true
		}
	}
	return false
}

// ParseOptions reads the assignments of a //marco:data directive, scanning
// left to right:
//
//	link = "github.com/acme/tools/cmd/marco"
//	exclude = ["Getter", Setter]
//
// Anything else, including lexical errors, is skipped.
func ParseOptions(src string) Options {
	toks, _ := Tokenize(src)
	var opts Options
	s := &stream{toks: toks}
	for s.peek() != nil {
		t := s.next()
		if t.Tok != token.IDENT || !PunctEq(s.peek(), "=") {
			continue
		}
		switch t.Lit {
		case "link":
			s.next()
			if v := s.peek(); v != nil && v.Tok == token.STRING {
				s.next()
				if link, err := strconv.Unquote(v.Lit); err == nil && link != "" {
					opts.Link = link
				}
			}
		case "exclude":
			s.next()
			if PunctEq(s.peek(), "[") {
				s.next()
				opts.Exclude = append(opts.Exclude, names(s)...)
			}
		}
	}
	return opts
}

// names collects the identifiers and string literals up to the closing
// bracket of an exclude list.
func names(s *stream) []string {
	var out []string
	for t := s.next(); t != nil && !PunctEq(t, "]"); t = s.next() {
		switch t.Tok {
		case token.IDENT:
			out = append(out, t.Lit)
		case token.STRING:
			if v, err := strconv.Unquote(t.Lit); err == nil {
				out = append(out, v)
			}
		}
	}
	return out
}
