package generic

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-set/v3"
)

// ValidateTypeAnnotations reports whether every type annotation in n is
// applicable to type uses and no annotation type repeats at one position.
func ValidateTypeAnnotations(n Node) bool {
	ok, err := Accept[bool](n, typeAnnotations{})
	return err == nil && ok
}

// ValidateTypeVariable reports whether the declaration annotations of the
// declared variable v are applicable to type parameters, and whether the
// type annotations of its bounds are valid.
func ValidateTypeVariable(v Node) bool {
	if v.failure() != nil || v.Sort() != Variable {
		return false
	}
	if !validAnnotations(v.Annotations(), ElementTypeTypeParameter) {
		return false
	}
	for _, b := range v.UpperBounds() {
		if !ValidateTypeAnnotations(b) {
			return false
		}
	}
	return true
}

func validAnnotations(as Annotations, target ElementType) bool {
	seen := set.New[string](len(as))
	for _, a := range as {
		if !seen.Insert(a.Type.name) {
			return false
		}
		if !a.Type.IsAnnotation() || !a.Type.Targets().Contains(target) {
			return false
		}
	}
	return true
}

type typeAnnotations struct{}

func (v typeAnnotations) all(ns []Node) (bool, error) {
	for _, n := range ns {
		ok, err := Accept[bool](n, v)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (v typeAnnotations) optional(n Node) (bool, error) {
	if n == nil {
		return true, nil
	}
	return Accept[bool](n, v)
}

func (v typeAnnotations) OnNonGeneric(n Node) (bool, error) {
	if !validAnnotations(n.Annotations(), ElementTypeTypeUse) {
		return false, nil
	}
	if ok, err := v.optional(n.ComponentType()); err != nil || !ok {
		return false, err
	}
	return v.optional(n.OwnerType())
}

func (v typeAnnotations) OnParameterized(n Node) (bool, error) {
	if !validAnnotations(n.Annotations(), ElementTypeTypeUse) {
		return false, nil
	}
	if ok, err := v.optional(n.OwnerType()); err != nil || !ok {
		return false, err
	}
	return v.all(n.TypeArguments())
}

func (v typeAnnotations) OnGenericArray(n Node) (bool, error) {
	if !validAnnotations(n.Annotations(), ElementTypeTypeUse) {
		return false, nil
	}
	return Accept[bool](n.ComponentType(), v)
}

func (v typeAnnotations) OnWildcard(n Node) (bool, error) {
	if !validAnnotations(n.Annotations(), ElementTypeTypeUse) {
		return false, nil
	}
	if ok, err := v.all(n.UpperBounds()); err != nil || !ok {
		return false, err
	}
	return v.all(n.LowerBounds())
}

func (v typeAnnotations) OnTypeVariable(n Node) (bool, error) {
	return validAnnotations(n.Annotations(), ElementTypeTypeUse), nil
}

// Validator checks the shape of a type used at one kind of declaration
// site.
type Validator struct {
	name             string
	acceptsArray     bool
	acceptsPrimitive bool
	acceptsVariable  bool
	acceptsVoid      bool
	rawOnly          bool
	erasure          func(*Type) bool
}

var (
	SuperClassValidator = Validator{
		name:    "super class",
		erasure: func(t *Type) bool { return !t.IsInterface() },
	}
	InterfaceValidator = Validator{
		name:    "interface",
		erasure: (*Type).IsInterface,
	}
	TypeVariableBoundValidator = Validator{
		name:            "type variable bound",
		acceptsVariable: true,
	}
	FieldValidator = Validator{
		name:             "field",
		acceptsArray:     true,
		acceptsPrimitive: true,
		acceptsVariable:  true,
	}
	MethodReturnValidator = Validator{
		name:             "method return",
		acceptsArray:     true,
		acceptsPrimitive: true,
		acceptsVariable:  true,
		acceptsVoid:      true,
	}
	MethodParameterValidator = Validator{
		name:             "method parameter",
		acceptsArray:     true,
		acceptsPrimitive: true,
		acceptsVariable:  true,
	}
	ExceptionValidator = Validator{
		name:            "exception",
		acceptsVariable: true,
		rawOnly:         true,
		erasure:         func(t *Type) bool { return t.IsAssignableTo(Throwable) },
	}
)

var _ Visitor[bool] = Validator{}

func (v Validator) String() string { return v.name }

// Validate reports whether n is a legal type at this site.
func (v Validator) Validate(n Node) bool {
	ok, err := Accept[bool](n, v)
	return err == nil && ok
}

func (v Validator) OnNonGeneric(n Node) (bool, error) {
	e := n.Erasure()
	switch {
	case e.Equal(Void):
		return v.acceptsVoid, nil
	case e.IsPrimitive():
		return v.acceptsPrimitive, nil
	case e.IsArray():
		return v.acceptsArray && !e.component.Equal(Void), nil
	case v.erasure != nil:
		return v.erasure(e), nil
	}
	return true, nil
}

func (v Validator) OnParameterized(n Node) (bool, error) {
	if v.rawOnly {
		return false, nil
	}
	if v.erasure != nil && !v.erasure(n.Erasure()) {
		return false, nil
	}
	for _, a := range n.TypeArguments() {
		ok, err := Accept[bool](a, typeArgument{})
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (v Validator) OnGenericArray(n Node) (bool, error) {
	if !v.acceptsArray {
		return false, nil
	}
	return Accept[bool](n.ComponentType(), typeArgument{})
}

func (v Validator) OnTypeVariable(Node) (bool, error) {
	return v.acceptsVariable, nil
}

func (v Validator) OnWildcard(Node) (bool, error) {
	return false, nil
}

// typeArgument accepts any reference type, including wildcards with
// reference bounds.
type typeArgument struct{}

func (a typeArgument) OnNonGeneric(n Node) (bool, error) {
	return !n.Erasure().IsPrimitive(), nil
}

func (a typeArgument) OnParameterized(n Node) (bool, error) {
	for _, arg := range n.TypeArguments() {
		ok, err := Accept[bool](arg, a)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (a typeArgument) OnGenericArray(n Node) (bool, error) {
	return Accept[bool](n.ComponentType(), a)
}

func (a typeArgument) OnTypeVariable(Node) (bool, error) {
	return true, nil
}

func (a typeArgument) OnWildcard(n Node) (bool, error) {
	for _, b := range append(n.UpperBounds(), n.LowerBounds()...) {
		if b.Sort() == Wildcard {
			return false, nil
		}
		ok, err := Accept[bool](b, a)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// DeclarationError describes an invalid generic declaration.
type DeclarationError struct {
	Declaration string
	Msg         string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Declaration, e.Msg)
}

// Validate checks the generic declarations of t: the shapes and type
// annotations of its super types, type variables, fields and methods, and
// that no type variable is bounded by a cycle of variables. Malformed
// signatures are reported as well. All problems are joined.
func (t *Type) Validate() error {
	var errs []error
	report := func(decl string, format string, args ...any) {
		errs = append(errs, &DeclarationError{Declaration: decl, Msg: fmt.Sprintf(format, args...)})
	}
	check := func(decl string, token Node, attachment Visitor[Node], v Validator) {
		if err := token.failure(); err != nil {
			errs = append(errs, err)
			return
		}
		n, err := Accept(token, attachment)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", decl, err))
			return
		}
		if !v.Validate(n) {
			report(decl, "illegal %s: %s", v, n)
		}
		if !ValidateTypeAnnotations(n) {
			report(decl, "illegal type annotations on %s", n)
		}
	}

	if !t.IsAnnotation() && !validAnnotations(t.annotations, ElementTypeType) {
		report(t.name, "illegal declaration annotations")
	}
	if t.superClass != nil {
		check(t.name+" super class", t.superClass, AttachTo(t), SuperClassValidator)
	}
	for _, i := range t.interfaces {
		check(t.name+" interface", i, AttachTo(t), InterfaceValidator)
	}
	validateVariables(t.name, t.variables, AttachTo(t), check, report)
	for _, f := range t.fields {
		check(f.String(), f.typ, AttachToField(f), FieldValidator)
	}
	for _, m := range t.methods {
		attachment := AttachToMethod(m)
		validateVariables(m.String(), m.variables, attachment, check, report)
		check(m.String()+" return", m.returnType, attachment, MethodReturnValidator)
		for _, p := range m.parameters {
			check(m.String()+" parameter", p, attachment, MethodParameterValidator)
		}
		for _, e := range m.exceptions {
			check(m.String()+" exception", e, attachment, ExceptionValidator)
		}
	}
	return errors.Join(errs...)
}

func validateVariables(
	decl string,
	tokens []TypeVariableToken,
	attachment Visitor[Node],
	check func(string, Node, Visitor[Node], Validator),
	report func(string, string, ...any),
) {
	for _, v := range tokens {
		if !validAnnotations(v.Annotations, ElementTypeTypeParameter) {
			report(decl, "illegal annotations on type variable %s", v.Symbol)
		}
		for _, b := range v.Bounds {
			check(decl+" bound of "+v.Symbol, b, attachment, TypeVariableBoundValidator)
		}
		if cyclicBound(tokens, v.Symbol) {
			report(decl, "type variable %s is bounded by a cycle", v.Symbol)
		}
	}
}

// cyclicBound follows first bounds among the variables of one source.
func cyclicBound(tokens []TypeVariableToken, symbol string) bool {
	seen := set.New[string](len(tokens))
	for {
		if !seen.Insert(symbol) {
			return true
		}
		v := variableToken(tokens, symbol)
		if v == nil || len(v.Bounds) == 0 {
			return false
		}
		b := v.Bounds[0]
		if b.failure() != nil || !b.Sort().IsTypeVariable() {
			return false
		}
		symbol = b.Symbol()
	}
}
