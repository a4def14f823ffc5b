package gen

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/marco/compiler/load"
)

// typeConv converts field and constraint expressions of a source file into
// jennifer code. Package-qualified names are emitted with jen.Qual so that
// the generated file imports exactly what it uses.
type typeConv struct {
	imports map[string]load.Import // by the name the source file uses
}

func newTypeConv(imports []load.Import) *typeConv {
	tc := &typeConv{imports: make(map[string]load.Import, len(imports))}
	for _, imp := range imports {
		switch imp.Name {
		case "_", ".":
			continue
		}
		tc.imports[imp.Name] = imp
	}
	return tc
}

// register tells f how each import of the source file is named, so that
// qualified identifiers render with the same package names.
func (tc *typeConv) register(f *jen.File) {
	for _, imp := range tc.imports {
		if imp.Explicit {
			f.ImportAlias(imp.Path, imp.Name)
		} else {
			f.ImportName(imp.Path, imp.Name)
		}
	}
}

// expr returns the jennifer code of the type expression e.
func (tc *typeConv) expr(e ast.Expr) jen.Code {
	switch e := e.(type) {
	case *ast.Ident:
		return jen.Id(e.Name)
	case *ast.SelectorExpr:
		if x, ok := e.X.(*ast.Ident); ok {
			if imp, ok := tc.imports[x.Name]; ok {
				return jen.Qual(imp.Path, e.Sel.Name)
			}
		}
		return jen.Add(tc.expr(e.X)).Dot(e.Sel.Name)
	case *ast.ParenExpr:
		return jen.Parens(tc.expr(e.X))
	case *ast.StarExpr:
		return jen.Op("*").Add(tc.expr(e.X))
	case *ast.ArrayType:
		if e.Len == nil {
			return jen.Index().Add(tc.expr(e.Elt))
		}
		if _, ok := e.Len.(*ast.Ellipsis); ok {
			return jen.Index(jen.Op("...")).Add(tc.expr(e.Elt))
		}
		return jen.Index(tc.expr(e.Len)).Add(tc.expr(e.Elt))
	case *ast.MapType:
		return jen.Map(tc.expr(e.Key)).Add(tc.expr(e.Value))
	case *ast.ChanType:
		switch e.Dir {
		case ast.SEND:
			return jen.Chan().Op("<-").Add(tc.expr(e.Value))
		case ast.RECV:
			return jen.Op("<-").Chan().Add(tc.expr(e.Value))
		default:
			return jen.Chan().Add(tc.expr(e.Value))
		}
	case *ast.FuncType:
		s := jen.Func().Params(tc.fields(e.Params)...)
		if e.Results != nil {
			results := tc.fields(e.Results)
			if len(e.Results.List) == 1 && len(e.Results.List[0].Names) == 0 {
				return s.Add(results...)
			}
			return s.Params(results...)
		}
		return s
	case *ast.Ellipsis:
		return jen.Op("...").Add(tc.expr(e.Elt))
	case *ast.IndexExpr:
		return jen.Add(tc.expr(e.X)).Types(tc.expr(e.Index))
	case *ast.IndexListExpr:
		args := make([]jen.Code, len(e.Indices))
		for i, idx := range e.Indices {
			args[i] = tc.expr(idx)
		}
		return jen.Add(tc.expr(e.X)).Types(args...)
	case *ast.UnaryExpr:
		if e.Op == token.TILDE {
			return jen.Op("~").Add(tc.expr(e.X))
		}
	case *ast.BinaryExpr:
		if e.Op == token.OR {
			return jen.Union(tc.union(e)...)
		}
	case *ast.BasicLit:
		return jen.Op(e.Value)
	case *ast.StructType:
		return jen.Struct(tc.fields(e.Fields)...)
	case *ast.InterfaceType:
		return jen.Interface(tc.methods(e.Methods)...)
	}
	// Any other expression is printed verbatim; the generated file is
	// import-fixed after rendering.
	return jen.Op(types.ExprString(e))
}

// union flattens a ~A | ~B | C constraint.
func (tc *typeConv) union(e *ast.BinaryExpr) []jen.Code {
	var terms []jen.Code
	if left, ok := e.X.(*ast.BinaryExpr); ok && left.Op == token.OR {
		terms = append(terms, tc.union(left)...)
	} else {
		terms = append(terms, tc.expr(e.X))
	}
	return append(terms, tc.expr(e.Y))
}

// fields converts parameter, result or struct field lists.
func (tc *typeConv) fields(fl *ast.FieldList) []jen.Code {
	if fl == nil {
		return nil
	}
	var out []jen.Code
	for _, f := range fl.List {
		typ := tc.expr(f.Type)
		if len(f.Names) == 0 {
			if f.Tag != nil {
				typ = jen.Add(typ).Op(f.Tag.Value)
			}
			out = append(out, typ)
			continue
		}
		// a, b int is emitted as a int, b int; struct fields need the
		// type on every name.
		for _, n := range f.Names {
			s := jen.Id(n.Name).Add(typ)
			if f.Tag != nil {
				s.Op(f.Tag.Value)
			}
			out = append(out, s)
		}
	}
	return out
}

// methods converts the method and embedded element list of an interface.
func (tc *typeConv) methods(fl *ast.FieldList) []jen.Code {
	if fl == nil {
		return nil
	}
	var out []jen.Code
	for _, f := range fl.List {
		if len(f.Names) == 0 {
			out = append(out, tc.expr(f.Type))
			continue
		}
		ft, ok := f.Type.(*ast.FuncType)
		if !ok {
			continue
		}
		for _, n := range f.Names {
			s := jen.Id(n.Name).Params(tc.fields(ft.Params)...)
			if ft.Results != nil {
				results := tc.fields(ft.Results)
				if len(ft.Results.List) == 1 && len(ft.Results.List[0].Names) == 0 {
					s.Add(results...)
				} else {
					s.Params(results...)
				}
			}
			out = append(out, s)
		}
	}
	return out
}

// typeParams returns the declaration form of a type parameter list:
// [K comparable, V any].
func (tc *typeConv) typeParams(sig load.Signature) []jen.Code {
	out := make([]jen.Code, len(sig.Params))
	for i, p := range sig.Params {
		out[i] = jen.Id(p.Name).Add(tc.expr(p.Constraint))
	}
	return out
}

// declare returns the declared name followed by the type parameter list
// when the signature is generic.
func (tc *typeConv) declare(name string, sig load.Signature) *jen.Statement {
	s := jen.Id(name)
	if sig.Generic() {
		s.Types(tc.typeParams(sig)...)
	}
	return s
}

// typeArgs returns the instantiation form of a type parameter list: [K, V].
func typeArgs(sig load.Signature) []jen.Code {
	out := make([]jen.Code, len(sig.Params))
	for i, p := range sig.Params {
		out[i] = jen.Id(p.Name)
	}
	return out
}

// instance returns the instantiated type name: T or T[K, V].
func instance(name string, sig load.Signature) *jen.Statement {
	s := jen.Id(name)
	if sig.Generic() {
		s.Types(typeArgs(sig)...)
	}
	return s
}
