package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/marco"
	"github.com/syssam/marco/compiler/load"
)

// setter emits one in-place mutator per included field:
//
//	func (b *Book) SetTitle(title string) { b.title = title }
type setter struct{}

func (setter) Name() string { return marco.Setter }

func (setter) Generate(c *Context) ([]jen.Code, error) {
	return c.perField(marco.Setter, "Set", func(f load.ResolvedField, name string, typ jen.Code) *jen.Statement {
		p := c.param(f.Name)
		return jen.Commentf("%s sets the %s field.", name, f.Ident.Name).Line().
			Func().Params(c.receiverDecl(true)).Id(name).Params(jen.Id(p).Add(typ)).Block(
			jen.Id(c.recv).Dot(f.Ident.Name).Op("=").Id(p),
		)
	})
}
