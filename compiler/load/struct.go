package load

import (
	"go/ast"

	"github.com/syssam/marco"
)

// StructContext is the view of a struct declaration shared by all
// generators. It refers into the parsed AST; nothing is copied.
type StructContext struct {
	Spec     *ast.TypeSpec
	Name     string
	Exported bool
	Fields   []Field
}

// Field is one named field of a struct. A field line declaring several
// names (a, b int) yields one Field per name.
type Field struct {
	Ident *ast.Ident
	Type  ast.Expr
	Decl  *ast.Field
}

// Name returns the field identifier.
func (f Field) Name() string {
	return f.Ident.Name
}

// TypeParam is one type parameter of a generic declaration together with its
// constraint.
type TypeParam struct {
	Name       string
	Constraint ast.Expr
}

// Signature is the generic header needed to attach methods or companion
// types to a declaration: Params is used where type parameters are declared
// ([K comparable, V any]), their names where they are applied ([K, V]).
type Signature struct {
	Type   string
	Params []TypeParam
}

// Generic reports whether the declaration has type parameters.
func (s Signature) Generic() bool {
	return len(s.Params) > 0
}

// Names returns the type parameter names in declaration order.
func (s Signature) Names() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// Extract builds the StructContext of a type declaration. It fails with a
// marco.ShapeError when the type is not a struct, is an alias, or has an
// embedded field.
func Extract(spec *ast.TypeSpec) (*StructContext, error) {
	st, ok := spec.Type.(*ast.StructType)
	if !ok || spec.Assign.IsValid() {
		return nil, marco.NewShapeError(spec.Name.Name, marco.KindNotStruct)
	}
	sc := &StructContext{
		Spec:     spec,
		Name:     spec.Name.Name,
		Exported: spec.Name.IsExported(),
	}
	if st.Fields == nil {
		return sc, nil
	}
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			return nil, marco.NewShapeError(sc.Name, marco.KindUnnamedField)
		}
		for _, name := range f.Names {
			// Blank fields cannot be referenced.
			if name.Name == "_" {
				continue
			}
			sc.Fields = append(sc.Fields, Field{Ident: name, Type: f.Type, Decl: f})
		}
	}
	return sc, nil
}

// Signature returns the generic header of the declaration.
func (sc *StructContext) Signature() Signature {
	sig := Signature{Type: sc.Name}
	if sc.Spec.TypeParams == nil {
		return sig
	}
	for _, f := range sc.Spec.TypeParams.List {
		for _, name := range f.Names {
			sig.Params = append(sig.Params, TypeParam{Name: name.Name, Constraint: f.Type})
		}
	}
	return sig
}

// FieldNames returns the identifiers of all fields in declaration order.
func (sc *StructContext) FieldNames() []string {
	names := make([]string, len(sc.Fields))
	for i, f := range sc.Fields {
		names[i] = f.Ident.Name
	}
	return names
}
