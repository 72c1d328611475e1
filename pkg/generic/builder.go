package generic

import "slices"

func newNonGeneric(erasure *Type, owner, component Node, as Annotations) *nonGeneric {
	return &nonGeneric{
		invalid:     invalid{sort: NonGeneric},
		erasure:     erasure,
		owner:       owner,
		component:   component,
		annotations: as,
	}
}

func newParameterized(erasure *Type, owner Node, args []Node, as Annotations) *parameterized {
	return &parameterized{
		invalid:     invalid{sort: Parameterized},
		erasure:     erasure,
		owner:       owner,
		args:        args,
		annotations: as,
	}
}

func newGenericArray(component Node, as Annotations) *genericArray {
	return &genericArray{invalid: invalid{sort: GenericArray}, component: component, annotations: as}
}

func newWildcard(upper, lower []Node, as Annotations) *wildcard {
	return &wildcard{invalid: invalid{sort: Wildcard}, upper: upper, lower: lower, annotations: as}
}

func newVariable(symbol string, source sourceRef, as Annotations) *typeVariable {
	return &typeVariable{invalid: invalid{sort: Variable}, symbol: symbol, source: source, annotations: as}
}

func newSymbolic(symbol string, as Annotations) *symbolic {
	return &symbolic{invalid: invalid{sort: VariableSymbolic}, symbol: symbol, annotations: as}
}

// ownerOf returns the type a nested type is a member of. Local types have
// no owner.
func ownerOf(t *Type) *Type {
	if t.enclosing != nil {
		return nil
	}
	return t.declaring
}

// Describe returns the non-generic node of a raw type.
func Describe(t *Type) Node {
	return describe(t, nil)
}

func describe(t *Type, as Annotations) *nonGeneric {
	switch {
	case t.component != nil:
		return newNonGeneric(t, nil, Describe(t.component), as)
	case ownerOf(t) != nil:
		return newNonGeneric(t, Describe(ownerOf(t)), nil, as)
	default:
		return newNonGeneric(t, nil, nil, as)
	}
}

// SelfType returns t as seen from inside its own declaration: parameterized
// by its own type variables when t is generified, non-generic otherwise.
func SelfType(t *Type) Node {
	if !t.IsGenerified() {
		return Describe(t)
	}
	var owner Node
	if d := ownerOf(t); d != nil {
		if t.IsStatic() {
			owner = Describe(d)
		} else {
			owner = SelfType(d)
		}
	}
	return newParameterized(t, owner, t.TypeVariables(), nil)
}

// Parameterize builds raw<args...>. The owner must be given for an inner
// type of a generified type; otherwise it defaults to the raw declaring
// type.
func Parameterize(raw *Type, owner Node, args ...Node) (Node, error) {
	if raw.IsPrimitive() || raw.IsArray() {
		return nil, illegalArgument("cannot parameterize %s", raw)
	}
	if len(args) != len(raw.variables) {
		return nil, &ArityError{Type: raw.name, Expected: len(raw.variables), Actual: len(args)}
	}
	for _, a := range args {
		if a.failure() == nil && a.Sort() == NonGeneric && a.Erasure().IsPrimitive() {
			return nil, illegalArgument("primitive type argument %s for %s", a, raw)
		}
	}
	declaring := ownerOf(raw)
	switch {
	case owner == nil && declaring != nil:
		if !raw.IsStatic() && declaring.IsGenerified() {
			return nil, illegalArgument("%s requires an owner type", raw)
		}
		owner = Describe(declaring)
	case owner != nil && declaring == nil:
		return nil, illegalArgument("%s has no owner type", raw)
	case owner != nil && !owner.Erasure().Equal(declaring):
		return nil, illegalArgument("%s is not the owner of %s", owner, raw)
	}
	return newParameterized(raw, owner, slices.Clone(args), nil), nil
}

// MustParameterize is like Parameterize but panics on error.
func MustParameterize(raw *Type, owner Node, args ...Node) Node {
	return Must(Parameterize(raw, owner, args...))
}

// ArrayOf wraps component in arity array dimensions. Non-generic components
// give non-generic arrays.
func ArrayOf(component Node, arity int) (Node, error) {
	if arity < 0 {
		return nil, illegalArgument("negative array arity: %d", arity)
	}
	for range arity {
		component = arrayNode(component, nil)
	}
	return component, nil
}

func arrayNode(component Node, as Annotations) Node {
	if err := component.failure(); err != nil {
		return &malformed{erasure: ArrayType(component.Erasure()), err: err.(*MalformedSignatureError)}
	}
	if component.Sort() == NonGeneric {
		return newNonGeneric(ArrayType(component.Erasure()), nil, component, as)
	}
	return newGenericArray(component, as)
}

// Unbounded returns the wildcard "?".
func Unbounded() Node {
	return newWildcard([]Node{Describe(Object)}, nil, nil)
}

func UpperBounded(bounds ...Node) Node {
	if len(bounds) == 0 {
		return Unbounded()
	}
	return newWildcard(slices.Clone(bounds), nil, nil)
}

func LowerBounded(bound Node) Node {
	return newWildcard([]Node{Describe(Object)}, []Node{bound}, nil)
}

// Symbol returns a detached reference to the type variable named s.
func Symbol(s string) Node {
	return newSymbolic(s, nil)
}

// Annotate returns n with additional type annotations.
func Annotate(n Node, as ...Annotation) Node {
	if len(as) == 0 || n.failure() != nil {
		return n
	}
	return n.withAnnotations(append(slices.Clone(n.Annotations()), as...))
}

// Malformed returns a node for a declaration whose generic signature could
// not be read. Its erasure stays usable.
func Malformed(erasure *Type, err error) Node {
	return &malformed{erasure: erasure, err: &MalformedSignatureError{Erasure: erasure.name, Err: err}}
}

// Must panics if err is non-nil.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Builder assembles a node step by step. The first error sticks.
type Builder struct {
	node Node
	err  error
}

func NewBuilder(raw *Type) Builder {
	return Builder{node: Describe(raw)}
}

func NewParameterizedBuilder(raw *Type, owner Node, args ...Node) Builder {
	n, err := Parameterize(raw, owner, args...)
	return Builder{node: n, err: err}
}

func NewVariableBuilder(symbol string) Builder {
	return Builder{node: Symbol(symbol)}
}

func BuilderOf(n Node) Builder {
	return Builder{node: n}
}

func (b Builder) AsArray() Builder {
	return b.AsArrayOf(1)
}

func (b Builder) AsArrayOf(arity int) Builder {
	if b.err != nil {
		return b
	}
	b.node, b.err = ArrayOf(b.node, arity)
	return b
}

func (b Builder) Annotate(as ...Annotation) Builder {
	if b.err != nil {
		return b
	}
	b.node = Annotate(b.node, as...)
	return b
}

func (b Builder) Build() (Node, error) {
	return b.node, b.err
}

func (b Builder) MustBuild() Node {
	return Must(b.Build())
}
