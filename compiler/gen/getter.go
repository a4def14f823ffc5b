package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/marco"
	"github.com/syssam/marco/compiler/load"
)

// getter emits one accessor per included field:
//
//	func (b *Book) GetTitle() string { return b.title }
type getter struct{}

func (getter) Name() string { return marco.Getter }

func (getter) Generate(c *Context) ([]jen.Code, error) {
	return c.perField(marco.Getter, "Get", func(f load.ResolvedField, name string, typ jen.Code) *jen.Statement {
		return jen.Commentf("%s returns the value of the %s field.", name, f.Ident.Name).Line().
			Func().Params(c.receiverDecl(true)).Id(name).Params().Add(typ).Block(
			jen.Return(jen.Id(c.recv).Dot(f.Ident.Name)),
		)
	})
}
