package generic

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ElementType names a program location an annotation type may be applied to.
type ElementType uint8

const (
	ElementTypeType ElementType = iota
	ElementTypeField
	ElementTypeMethod
	ElementTypeParameter
	ElementTypeConstructor
	ElementTypeLocalVariable
	ElementTypeAnnotationType
	ElementTypePackage
	ElementTypeTypeParameter
	ElementTypeTypeUse
)

var elementTypeNames = [...]string{
	ElementTypeType:           "TYPE",
	ElementTypeField:          "FIELD",
	ElementTypeMethod:         "METHOD",
	ElementTypeParameter:      "PARAMETER",
	ElementTypeConstructor:    "CONSTRUCTOR",
	ElementTypeLocalVariable:  "LOCAL_VARIABLE",
	ElementTypeAnnotationType: "ANNOTATION_TYPE",
	ElementTypePackage:        "PACKAGE",
	ElementTypeTypeParameter:  "TYPE_PARAMETER",
	ElementTypeTypeUse:        "TYPE_USE",
}

func (e ElementType) String() string {
	if int(e) < len(elementTypeNames) {
		return elementTypeNames[e]
	}
	return "ElementType(" + strconv.Itoa(int(e)) + ")"
}

// ParseElementType parses the upper snake case name of an element type.
func ParseElementType(name string) (ElementType, error) {
	for i, n := range elementTypeNames {
		if n == name {
			return ElementType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element type: %q", name)
}

// Annotation is an annotation instance found on a declaration or a type use.
type Annotation struct {
	Type   *Type
	Values map[string]any
}

// Of creates an annotation of the given annotation type.
func Of(t *Type, values map[string]any) Annotation {
	return Annotation{Type: t, Values: values}
}

func (a Annotation) String() string {
	var b strings.Builder
	b.WriteString("@")
	b.WriteString(a.Type.Name())
	if len(a.Values) > 0 {
		b.WriteString("(")
		for i, k := range slices.Sorted(maps.Keys(a.Values)) {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, a.Values[k])
		}
		b.WriteString(")")
	}
	return b.String()
}

// Annotations is an ordered list of annotations at one position.
type Annotations []Annotation

// Types returns the annotation types in declaration order.
func (as Annotations) Types() []*Type {
	types := make([]*Type, len(as))
	for i, a := range as {
		types[i] = a.Type
	}
	return types
}

func (as Annotations) IsPresent(t *Type) bool {
	for _, a := range as {
		if a.Type.Equal(t) {
			return true
		}
	}
	return false
}

func (as Annotations) prefix() string {
	if len(as) == 0 {
		return ""
	}
	var b strings.Builder
	for _, a := range as {
		b.WriteString(a.String())
		b.WriteString(" ")
	}
	return b.String()
}

// AnnotationReader answers which annotations are present on one exact type
// use, and navigates to the type uses nested inside it.
type AnnotationReader interface {
	Annotations() Annotations
	OfTypeArgument(index int) AnnotationReader
	OfOwnerType() AnnotationReader
	OfComponentType() AnnotationReader
	OfWildcardUpperBound(index int) AnnotationReader
	OfWildcardLowerBound(index int) AnnotationReader
	OfTypeVariableBound(index int) AnnotationReader
}

// NoAnnotations is a reader for positions that carry no type annotations.
type NoAnnotations struct{}

var _ AnnotationReader = NoAnnotations{}

func (NoAnnotations) Annotations() Annotations                  { return nil }
func (NoAnnotations) OfTypeArgument(int) AnnotationReader       { return NoAnnotations{} }
func (NoAnnotations) OfOwnerType() AnnotationReader             { return NoAnnotations{} }
func (NoAnnotations) OfComponentType() AnnotationReader         { return NoAnnotations{} }
func (NoAnnotations) OfWildcardUpperBound(int) AnnotationReader { return NoAnnotations{} }
func (NoAnnotations) OfWildcardLowerBound(int) AnnotationReader { return NoAnnotations{} }
func (NoAnnotations) OfTypeVariableBound(int) AnnotationReader  { return NoAnnotations{} }

// PathAnnotations reads annotations from a table keyed by type path. A path
// is a sequence of steps: "N;" for the N-th type argument, "[" for an array
// component, "." for the owner type, "*N;" and "-N;" for the upper and lower
// bounds of a wildcard, and ":N;" for the N-th bound of a type variable.
type PathAnnotations struct {
	paths map[string]Annotations
	path  string
}

var _ AnnotationReader = PathAnnotations{}

func NewPathAnnotations(paths map[string]Annotations) PathAnnotations {
	return PathAnnotations{paths: paths}
}

func (r PathAnnotations) at(step string) AnnotationReader {
	return PathAnnotations{paths: r.paths, path: r.path + step}
}

func (r PathAnnotations) Annotations() Annotations {
	return r.paths[r.path]
}

func (r PathAnnotations) OfTypeArgument(index int) AnnotationReader {
	return r.at(strconv.Itoa(index) + ";")
}

func (r PathAnnotations) OfOwnerType() AnnotationReader {
	return r.at(".")
}

func (r PathAnnotations) OfComponentType() AnnotationReader {
	return r.at("[")
}

func (r PathAnnotations) OfWildcardUpperBound(index int) AnnotationReader {
	return r.at("*" + strconv.Itoa(index) + ";")
}

func (r PathAnnotations) OfWildcardLowerBound(index int) AnnotationReader {
	return r.at("-" + strconv.Itoa(index) + ";")
}

func (r PathAnnotations) OfTypeVariableBound(index int) AnnotationReader {
	return r.at(":" + strconv.Itoa(index) + ";")
}
