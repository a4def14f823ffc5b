package gen

import (
	"fmt"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/marco"
	"github.com/syssam/marco/compiler/load"
)

// builder emits a staged construction helper over all declared fields.
// Annotations do not apply: every field must be set before Build.
//
//	type BookBuilder struct {
//		title *string
//		...
//	}
//
//	func NewBookBuilder() BookBuilder
//	func (bb BookBuilder) Title(title string) BookBuilder
//	func (bb BookBuilder) Build() Book
//	func (Book) Builder() BookBuilder
type builder struct{}

func (builder) Name() string { return marco.Builder }

// builderField is one slot of the builder type.
type builderField struct {
	field  load.Field
	slot   string // unexported pointer slot
	setter string // setter method name
	param  string
}

func (builder) Generate(c *Context) ([]jen.Code, error) {
	var (
		sc      = c.Struct
		name    = builderName(sc)
		ctor    = builderCtor(sc)
		self    = instance(name, c.sig)
		recv    = escape(receiver(name), c.reserved()...)
		members = map[string]bool{"Build": true}
		fields  = make([]builderField, 0, len(sc.Fields))
	)
	if err := c.claim(marco.Builder, "Builder"); err != nil {
		return nil, err
	}
	for _, f := range sc.Fields {
		setter := pascal(f.Name())
		if setter == "Build" || setter == "" || !unicode.IsUpper([]rune(setter)[0]) {
			setter = "Set" + setter
		}
		if members[setter] {
			return nil, &GenerationError{
				Phase:   marco.Builder,
				Type:    sc.Name,
				Message: fmt.Sprintf("duplicate builder method %s (field %s)", setter, f.Name()),
			}
		}
		members[setter] = true
		fields = append(fields, builderField{field: f, setter: setter})
	}
	for i := range fields {
		fields[i].slot = slotName(fields[i].field.Name(), members)
		members[fields[i].slot] = true
	}
	taken := append(c.sig.Names(), recv)
	for i := range fields {
		fields[i].param = escape(paramName(fields[i].field.Name()), taken...)
	}

	var (
		slots  = make([]jen.Code, len(fields))
		checks = make([]jen.Code, 0, len(fields)+1)
		values = make([]jen.Code, 0, len(fields)+1)
	)
	for i, bf := range fields {
		typ := c.types.expr(bf.field.Type)
		slots[i] = jen.Id(bf.slot).Op("*").Add(typ)
		checks = append(checks, jen.If(jen.Id(recv).Dot(bf.slot).Op("==").Nil()).Block(
			jen.Panic(jen.Lit(fmt.Sprintf("%s field is not set in %s struct", bf.field.Name(), sc.Name))),
		))
		values = append(values, jen.Line().Id(bf.field.Name()).Op(":").Op("*").Id(recv).Dot(bf.slot))
	}
	if len(values) > 0 {
		values = append(values, jen.Line())
	}
	checks = append(checks, jen.Return(instance(sc.Name, c.sig).Values(values...)))

	code := []jen.Code{
		jen.Commentf("%s builds %s values. Every field must be set before Build is called.", name, sc.Name).Line().
			Type().Add(c.types.declare(name, c.sig)).Struct(slots...),
		jen.Commentf("%s returns an empty %s.", ctor, name).Line().
			Func().Add(c.types.declare(ctor, c.sig)).Params().Add(self).Block(
			jen.Return(instance(name, c.sig).Values()),
		),
	}
	for _, bf := range fields {
		typ := c.types.expr(bf.field.Type)
		code = append(code, jen.Commentf("%s sets the %s field.", bf.setter, bf.field.Name()).Line().
			Func().Params(jen.Id(recv).Add(instance(name, c.sig))).Id(bf.setter).Params(jen.Id(bf.param).Add(typ)).Add(instance(name, c.sig)).Block(
			jen.Id(recv).Dot(bf.slot).Op("=").Op("&").Id(bf.param),
			jen.Return(jen.Id(recv)),
		))
	}
	code = append(code,
		jen.Commentf("Build returns the %s value. It panics if a field was not set.", sc.Name).Line().
			Func().Params(jen.Id(recv).Add(instance(name, c.sig))).Id("Build").Params().Add(instance(sc.Name, c.sig)).Block(checks...),
		jen.Commentf("Builder returns an empty %s.", name).Line().
			Func().Params(instance(sc.Name, c.sig)).Id("Builder").Params().Add(instance(name, c.sig)).Block(
			jen.Return(ctorCall(ctor, c.sig)),
		),
	)
	return code, nil
}

// builderName returns the builder type name. It is exported if and only if
// the source type is.
func builderName(sc *load.StructContext) string {
	return sc.Name + "Builder"
}

// builderCtor returns the name of the builder constructor: NewBookBuilder
// for Book, newBookBuilder for book.
func builderCtor(sc *load.StructContext) string {
	if sc.Exported {
		return "New" + sc.Name + "Builder"
	}
	return "new" + rules.Capitalize(sc.Name) + "Builder"
}

func ctorCall(ctor string, sig load.Signature) *jen.Statement {
	s := jen.Id(ctor)
	if sig.Generic() {
		s.Types(typeArgs(sig)...)
	}
	return s.Call()
}

// slotName returns the unexported slot holding a field value in the builder.
// Exported field names are prefixed with an underscore, as are names already
// used by a builder member.
func slotName(field string, members map[string]bool) string {
	slot := field
	if unicode.IsUpper([]rune(slot)[0]) {
		slot = "_" + slot
	}
	for members[slot] {
		slot = "_" + slot
	}
	return slot
}

// paramName returns the setter parameter name of a builder field.
func paramName(field string) string {
	p := camel(field)
	if p == "" {
		return "v"
	}
	if !unicode.IsLetter([]rune(p)[0]) {
		p = "_" + p
	}
	return p
}
