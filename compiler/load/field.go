package load

import (
	"go/ast"

	"github.com/syssam/marco"
)

// DefaultTagKey is the struct tag key holding field annotations.
const DefaultTagKey = "marco"

// ResolvedField is a field that survived exclusion, paired with the name used
// in generated method identifiers.
type ResolvedField struct {
	Type  ast.Expr
	Ident *ast.Ident
	Name  string
}

// Renamed reports whether a name(...) marker changed the field's effective name.
func (f ResolvedField) Renamed() bool {
	return f.Name != f.Ident.Name
}

// Resolve applies the exclusion and rename markers to the fields of sc, in
// declaration order. An excluded field is dropped before its other markers
// are looked at, so a malformed rename on an excluded field is not an error.
func Resolve(sc *StructContext, tagKey string) ([]ResolvedField, error) {
	resolved := make([]ResolvedField, 0, len(sc.Fields))
	for _, f := range sc.Fields {
		anns, err := FieldAnnotations(f.Decl, tagKey)
		if err != nil {
			return nil, locate(err, sc.Name, f.Name())
		}
		if excluded(anns) {
			continue
		}
		name, err := effectiveName(sc.Name, f, anns)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, ResolvedField{Type: f.Type, Ident: f.Ident, Name: name})
	}
	return resolved, nil
}

func excluded(anns []Annotation) bool {
	for _, a := range anns {
		if a.Name == MarkerExclude {
			return true
		}
	}
	return false
}

// effectiveName returns the rename of the first name(...) marker, or the
// field identifier. Markers after the first rename are not examined.
func effectiveName(typeName string, f Field, anns []Annotation) (string, error) {
	for _, a := range anns {
		if a.Name != MarkerName && a.Name != MarkerExclude {
			return "", marco.NewAnnotationError(typeName, f.Name(), a.Text, "unknown marker "+a.Name)
		}
	}
	for _, a := range anns {
		if a.Name != MarkerName {
			continue
		}
		name, err := a.Rename()
		if err != nil {
			return "", marco.NewAnnotationError(typeName, f.Name(), a.Text, err.Error())
		}
		return name, nil
	}
	return f.Name(), nil
}

// locate fills in the type and field of an AnnotationError raised while
// parsing, when they are missing.
func locate(err error, typeName, field string) error {
	if ae, ok := err.(*marco.AnnotationError); ok && ae.Type == "" {
		ae.Type, ae.Field = typeName, field
	}
	return err
}
