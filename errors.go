package marco

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the declaration-level failure classes.
var (
	// ErrInvalidShape is returned when a declaration is not a struct with
	// exclusively named fields.
	ErrInvalidShape = errors.New("marco: invalid declaration shape")

	// ErrInvalidAnnotation is returned when a field annotation is malformed.
	ErrInvalidAnnotation = errors.New("marco: invalid annotation")
)

// ShapeKind classifies a ShapeError.
type ShapeKind string

// Shape error kinds.
const (
	// KindNotStruct means the declared type is not a struct.
	KindNotStruct ShapeKind = "not-struct"
	// KindUnnamedField means the struct has an embedded (unnamed) field.
	KindUnnamedField ShapeKind = "unnamed-field"
	// KindNotFound means no type with the requested name was declared.
	KindNotFound ShapeKind = "not-found"
)

// ShapeError reports a declaration that the generators cannot process.
type ShapeError struct {
	Type string    // Declared type name
	Kind ShapeKind // What is wrong with it
	Pos  string    // Source position, if known
}

// Error returns the error string.
func (e *ShapeError) Error() string {
	var b strings.Builder
	b.WriteString("marco: ")
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	switch e.Kind {
	case KindNotStruct:
		fmt.Fprintf(&b, "type %s is not a struct", e.Type)
	case KindUnnamedField:
		fmt.Fprintf(&b, "type %s is not a named struct: embedded fields are not supported", e.Type)
	case KindNotFound:
		fmt.Fprintf(&b, "type %s not found", e.Type)
	default:
		fmt.Fprintf(&b, "type %s: invalid shape", e.Type)
	}
	return b.String()
}

// Is reports whether the target error matches ShapeError.
// This allows errors.Is(shapeErr, ErrInvalidShape) to return true.
func (e *ShapeError) Is(err error) bool {
	return err == ErrInvalidShape
}

// NewShapeError returns a new ShapeError.
func NewShapeError(typeName string, kind ShapeKind) *ShapeError {
	return &ShapeError{Type: typeName, Kind: kind}
}

// IsShapeError returns true if the error is a ShapeError.
func IsShapeError(err error) bool {
	if err == nil {
		return false
	}
	var e *ShapeError
	return errors.As(err, &e)
}

// AnnotationError reports a malformed per-field annotation.
type AnnotationError struct {
	Type       string // Declared type name
	Field      string // Field identifier
	Annotation string // Annotation source text, e.g. name(a, b)
	Message    string
}

// Error returns the error string.
func (e *AnnotationError) Error() string {
	var b strings.Builder
	b.WriteString("marco: ")
	if e.Type != "" {
		b.WriteString(e.Type)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
		b.WriteString(": ")
	}
	if e.Annotation != "" {
		fmt.Fprintf(&b, "annotation %q: ", e.Annotation)
	}
	b.WriteString(e.Message)
	return b.String()
}

// Is reports whether the target error matches AnnotationError.
func (e *AnnotationError) Is(err error) bool {
	return err == ErrInvalidAnnotation
}

// NewAnnotationError returns a new AnnotationError.
func NewAnnotationError(typeName, field, annotation, message string) *AnnotationError {
	return &AnnotationError{
		Type:       typeName,
		Field:      field,
		Annotation: annotation,
		Message:    message,
	}
}

// IsAnnotationError returns true if the error is an AnnotationError.
func IsAnnotationError(err error) bool {
	if err == nil {
		return false
	}
	var e *AnnotationError
	return errors.As(err, &e)
}
