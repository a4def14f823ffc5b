package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/marco"
	"github.com/syssam/marco/compiler/load"
)

// wither emits one functional update per included field. The receiver is a
// copy; fn is called exactly once with the current value and the copy holding
// its result is returned:
//
//	func (b Book) WithTitle(fn func(string) string) Book {
//		b.title = fn(b.title)
//		return b
//	}
type wither struct{}

func (wither) Name() string { return marco.Wither }

func (wither) Generate(c *Context) ([]jen.Code, error) {
	fn := escape("fn", append(c.sig.Names(), c.recv)...)
	return c.perField(marco.Wither, "With", func(f load.ResolvedField, name string, typ jen.Code) *jen.Statement {
		field := jen.Id(c.recv).Dot(f.Ident.Name)
		return jen.Commentf("%s returns a copy with the %s field replaced by the result of %s.", name, f.Ident.Name, fn).Line().
			Func().Params(c.receiverDecl(false)).Id(name).
			Params(jen.Id(fn).Func().Params(typ).Add(typ)).
			Add(instance(c.Struct.Name, c.sig)).
			Block(
				jen.Add(field).Op("=").Id(fn).Call(jen.Id(c.recv).Dot(f.Ident.Name)),
				jen.Return(jen.Id(c.recv)),
			)
	})
}
