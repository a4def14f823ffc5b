package gen

import (
	"fmt"
	"go/token"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/marco/compiler/load"
)

// Context is the input shared by the generators run for one struct. It
// tracks the method names emitted on the struct type so that generators
// cannot produce clashing members.
type Context struct {
	Struct *load.StructContext
	Config *Config

	sig     load.Signature
	types   *typeConv
	recv    string
	fields  map[string]bool
	methods map[string]string // method name -> generator
}

// NewContext returns the generation context of sc. Imports are the imports
// of the source file declaring sc.
func NewContext(sc *load.StructContext, imports []load.Import, cfg *Config) *Context {
	if cfg == nil {
		cfg = defaultConfig()
	}
	c := &Context{
		Struct:  sc,
		Config:  cfg,
		sig:     sc.Signature(),
		types:   newTypeConv(imports),
		fields:  make(map[string]bool, len(sc.Fields)),
		methods: make(map[string]string),
	}
	for _, f := range sc.Fields {
		c.fields[f.Name()] = true
	}
	c.recv = escape(receiver(sc.Name), c.reserved()...)
	return c
}

// reserved returns the identifiers that generated parameters and receivers
// must not use: type parameter and import names.
func (c *Context) reserved() []string {
	names := c.sig.Names()
	for name := range c.types.imports {
		names = append(names, name)
	}
	return names
}

// Receiver returns the receiver name used for methods on the struct.
func (c *Context) Receiver() string {
	return c.recv
}

// Methods returns the method names generated so far, mapped to the
// generator that emitted them.
func (c *Context) Methods() map[string]string {
	return c.methods
}

// receiverDecl returns the receiver of a method on the struct type, with or
// without pointer indirection.
func (c *Context) receiverDecl(pointer bool) *jen.Statement {
	s := jen.Id(c.recv)
	if pointer {
		s.Op("*")
	}
	return s.Add(instance(c.Struct.Name, c.sig))
}

// claim registers a method name on the struct type for generator gen.
func (c *Context) claim(gen, name string) error {
	if c.fields[name] {
		return &GenerationError{
			Phase:   gen,
			Type:    c.Struct.Name,
			Message: fmt.Sprintf("method %s clashes with field %s", name, name),
		}
	}
	if prev, ok := c.methods[name]; ok {
		msg := fmt.Sprintf("duplicate method %s", name)
		if prev != gen {
			msg = fmt.Sprintf("method %s is also generated by %s", name, prev)
		}
		return &GenerationError{Phase: gen, Type: c.Struct.Name, Message: msg}
	}
	c.methods[name] = gen
	return nil
}

// fieldEmitter returns the declaration of one per-field method named name.
type fieldEmitter func(f load.ResolvedField, name string, typ jen.Code) *jen.Statement

// perField runs emit for every field that survives the annotation policy.
// The method name is prefix followed by the PascalCase effective name.
func (c *Context) perField(gen, prefix string, emit fieldEmitter) ([]jen.Code, error) {
	fields, err := load.Resolve(c.Struct, c.Config.TagKey)
	if err != nil {
		return nil, err
	}
	out := make([]jen.Code, 0, len(fields))
	for _, f := range fields {
		suffix := pascal(f.Name)
		if suffix == "" {
			return nil, &GenerationError{
				Phase:   gen,
				Type:    c.Struct.Name,
				Message: fmt.Sprintf("cannot derive a method name from %q", f.Name),
			}
		}
		name := prefix + suffix
		if err := c.claim(gen, name); err != nil {
			return nil, err
		}
		out = append(out, emit(f, name, c.types.expr(f.Type)))
	}
	return out, nil
}

// param returns a parameter name derived from name that is neither a
// keyword nor one of the receiver and type parameter names.
func (c *Context) param(name string) string {
	p := camel(name)
	if !token.IsIdentifier(p) {
		// Leading digit: _1st.
		p = "_" + p
	}
	return escape(p, append(c.sig.Names(), c.recv)...)
}
