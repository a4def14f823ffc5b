// Package marco generates accessor, mutator, functional-update and staged
// builder methods for Go struct types.
//
// A struct opts in with a go:generate directive and, optionally, per-field
// annotations:
//
//	//go:generate go run github.com/syssam/marco/cmd/marco generate --gen=Getter,Setter,Builder
//	type Book struct {
//		title  string
//		price  int32  `marco:"name(cost)"`
//		author string `marco:"exclude"`
//	}
//
// which produces GetTitle, GetCost, SetTitle, SetCost, a BookBuilder type and
// Book.Builder in book_marco.go. Field annotations may also be written as
// comment directives (//marco:exclude, //marco:name(cost)) above the field.
//
// The //marco:data directive requests all four generators at once:
//
//	//marco:data link="github.com/syssam/marco/cmd/marco" exclude=["Wither"]
//	type Book struct { ... }
//
// and is expanded in place by `marco compose`.
package marco

// Generator names, as written in --gen flags, derive lists and exclude lists.
const (
	Getter  = "Getter"
	Setter  = "Setter"
	Wither  = "Wither"
	Builder = "Builder"
)

// DefaultLink is the module path of the marco command, used in go:generate
// directives written by the composition generator.
const DefaultLink = "github.com/syssam/marco/cmd/marco"

// DirectivePrefix starts every marco comment directive.
const DirectivePrefix = "//marco:"

// Generators returns the names of all member generators in their canonical
// order.
func Generators() []string {
	return []string{Getter, Setter, Wither, Builder}
}

// IsGenerator reports whether name is one of the member generators.
func IsGenerator(name string) bool {
	switch name {
	case Getter, Setter, Wither, Builder:
		return true
	}
	return false
}
