package generic

import (
	"slices"
	"strings"
)

// Node is a generic type expression: one of the shapes named by Sort.
//
// Nodes are immutable and may be shared freely. Asking a node for something
// its sort does not carry panics with a *StateError.
type Node interface {
	Sort() Sort
	// Erasure returns the raw type this node reduces to.
	Erasure() *Type
	TypeArguments() []Node
	// OwnerType returns the enclosing type of a nested type, or nil.
	OwnerType() Node
	ComponentType() Node
	UpperBounds() []Node
	LowerBounds() []Node
	Symbol() string
	VariableSource() TypeVariableSource
	// Annotations returns the type annotations of this use of the type.
	Annotations() Annotations
	String() string

	failure() error
	withAnnotations(Annotations) Node
}

// invalid supplies the accessors a sort does not carry.
type invalid struct {
	sort Sort
}

func (i invalid) TypeArguments() []Node              { panic(invalidFor("TypeArguments", i.sort)) }
func (i invalid) OwnerType() Node                    { panic(invalidFor("OwnerType", i.sort)) }
func (i invalid) ComponentType() Node                { panic(invalidFor("ComponentType", i.sort)) }
func (i invalid) UpperBounds() []Node                { panic(invalidFor("UpperBounds", i.sort)) }
func (i invalid) LowerBounds() []Node                { panic(invalidFor("LowerBounds", i.sort)) }
func (i invalid) Symbol() string                     { panic(invalidFor("Symbol", i.sort)) }
func (i invalid) VariableSource() TypeVariableSource { panic(invalidFor("VariableSource", i.sort)) }
func (i invalid) failure() error                     { return nil }

type nonGeneric struct {
	invalid
	erasure     *Type
	owner       Node
	component   Node
	annotations Annotations
}

var _ Node = (*nonGeneric)(nil)

func (n *nonGeneric) Sort() Sort               { return NonGeneric }
func (n *nonGeneric) Erasure() *Type           { return n.erasure }
func (n *nonGeneric) OwnerType() Node          { return n.owner }
func (n *nonGeneric) ComponentType() Node      { return n.component }
func (n *nonGeneric) Annotations() Annotations { return n.annotations }

func (n *nonGeneric) withAnnotations(as Annotations) Node {
	c := *n
	c.annotations = as
	return &c
}

func (n *nonGeneric) String() string {
	if n.component != nil {
		return n.annotations.prefix() + n.component.String() + "[]"
	}
	return n.annotations.prefix() + n.erasure.name
}

type parameterized struct {
	invalid
	erasure     *Type
	owner       Node
	args        []Node
	annotations Annotations
}

var _ Node = (*parameterized)(nil)

func (p *parameterized) Sort() Sort               { return Parameterized }
func (p *parameterized) Erasure() *Type           { return p.erasure }
func (p *parameterized) TypeArguments() []Node    { return slices.Clone(p.args) }
func (p *parameterized) OwnerType() Node          { return p.owner }
func (p *parameterized) Annotations() Annotations { return p.annotations }

func (p *parameterized) withAnnotations(as Annotations) Node {
	c := *p
	c.annotations = as
	return &c
}

func (p *parameterized) String() string {
	var b strings.Builder
	b.WriteString(p.annotations.prefix())
	if p.owner != nil {
		b.WriteString(p.owner.String())
		b.WriteString("$")
		b.WriteString(p.erasure.SimpleName())
	} else {
		b.WriteString(p.erasure.name)
	}
	if len(p.args) > 0 {
		b.WriteString("<")
		b.WriteString(joinNodes(p.args, ", "))
		b.WriteString(">")
	}
	return b.String()
}

type genericArray struct {
	invalid
	component   Node
	annotations Annotations
}

var _ Node = (*genericArray)(nil)

func (a *genericArray) Sort() Sort               { return GenericArray }
func (a *genericArray) Erasure() *Type           { return ArrayType(a.component.Erasure()) }
func (a *genericArray) ComponentType() Node      { return a.component }
func (a *genericArray) Annotations() Annotations { return a.annotations }

func (a *genericArray) withAnnotations(as Annotations) Node {
	c := *a
	c.annotations = as
	return &c
}

func (a *genericArray) String() string {
	return a.annotations.prefix() + a.component.String() + "[]"
}

type wildcard struct {
	invalid
	upper       []Node
	lower       []Node
	annotations Annotations
}

var _ Node = (*wildcard)(nil)

func (w *wildcard) Sort() Sort               { return Wildcard }
func (w *wildcard) Erasure() *Type           { return w.upper[0].Erasure() }
func (w *wildcard) UpperBounds() []Node      { return slices.Clone(w.upper) }
func (w *wildcard) LowerBounds() []Node      { return slices.Clone(w.lower) }
func (w *wildcard) Annotations() Annotations { return w.annotations }

func (w *wildcard) withAnnotations(as Annotations) Node {
	c := *w
	c.annotations = as
	return &c
}

func (w *wildcard) String() string {
	s := w.annotations.prefix() + "?"
	switch {
	case len(w.lower) > 0:
		return s + " super " + joinNodes(w.lower, " & ")
	case len(w.upper) == 1 && isObject(w.upper[0]):
		return s
	default:
		return s + " extends " + joinNodes(w.upper, " & ")
	}
}

// typeVariable is a variable attached to its declaring source. A variable
// retained while binding the type variables of an enclosing type carries
// the binding so that its bounds are seen through it.
type typeVariable struct {
	invalid
	symbol      string
	source      sourceRef
	annotations Annotations
	bounder     Visitor[Node]
}

var _ Node = (*typeVariable)(nil)

func (v *typeVariable) Sort() Sort               { return Variable }
func (v *typeVariable) Symbol() string           { return v.symbol }
func (v *typeVariable) Annotations() Annotations { return v.annotations }

func (v *typeVariable) withAnnotations(as Annotations) Node {
	c := *v
	c.annotations = as
	return &c
}

func (v *typeVariable) String() string {
	return v.annotations.prefix() + v.symbol
}

func (v *typeVariable) VariableSource() TypeVariableSource {
	s := v.source.resolve()
	if s == nil {
		panic(&StateError{Op: "VariableSource", Sort: Variable, Msg: "declaring source of " + v.symbol + " was reclaimed"})
	}
	return s
}

// UpperBounds looks the bounds up in the declaring source.
func (v *typeVariable) UpperBounds() []Node {
	bounds, err := v.VariableSource().boundsOf(v.symbol)
	if err != nil {
		panic(err)
	}
	if v.bounder == nil {
		return bounds
	}
	for i, b := range bounds {
		if b.failure() != nil {
			continue
		}
		if bounds[i], err = Accept(b, v.bounder); err != nil {
			panic(err)
		}
	}
	return bounds
}

// Erasure follows first bounds until it reaches a type. A cycle of variable
// bounds erases to Object.
func (v *typeVariable) Erasure() *Type {
	seen := map[variableKey]bool{}
	var n Node = v
	for {
		tv, ok := n.(*typeVariable)
		if !ok {
			return n.Erasure()
		}
		if seen[tv.key()] {
			return Object
		}
		seen[tv.key()] = true
		n = tv.UpperBounds()[0]
	}
}

// variableKey identifies a declared variable.
type variableKey struct {
	symbol string
	source sourceRef
}

func (v *typeVariable) key() variableKey {
	return variableKey{symbol: v.symbol, source: v.source}
}

// symbolic is a detached variable: only its symbol is known.
type symbolic struct {
	invalid
	symbol      string
	annotations Annotations
}

var _ Node = (*symbolic)(nil)

func (s *symbolic) Sort() Sort               { return VariableSymbolic }
func (s *symbolic) Symbol() string           { return s.symbol }
func (s *symbolic) Annotations() Annotations { return s.annotations }
func (s *symbolic) String() string           { return s.annotations.prefix() + s.symbol }

func (s *symbolic) withAnnotations(as Annotations) Node {
	c := *s
	c.annotations = as
	return &c
}

func (s *symbolic) Erasure() *Type {
	panic(&StateError{Op: "Erasure", Sort: VariableSymbolic, Msg: "detached variable " + s.symbol + " has no erasure"})
}

func (s *symbolic) UpperBounds() []Node {
	panic(&StateError{Op: "UpperBounds", Sort: VariableSymbolic, Msg: "detached variable " + s.symbol + " has no bounds"})
}

func (s *symbolic) VariableSource() TypeVariableSource {
	panic(&StateError{Op: "VariableSource", Sort: VariableSymbolic, Msg: "detached variable " + s.symbol + " has no source"})
}

// malformed stands in for a declaration whose generic signature could not
// be read. Only its erasure is usable.
type malformed struct {
	erasure *Type
	err     *MalformedSignatureError
}

var _ Node = (*malformed)(nil)

func (m *malformed) Erasure() *Type                     { return m.erasure }
func (m *malformed) String() string                     { return m.erasure.name }
func (m *malformed) failure() error                     { return m.err }
func (m *malformed) withAnnotations(Annotations) Node   { return m }
func (m *malformed) Sort() Sort                         { panic(m.err) }
func (m *malformed) Annotations() Annotations           { panic(m.err) }
func (m *malformed) TypeArguments() []Node              { panic(m.err) }
func (m *malformed) OwnerType() Node                    { panic(m.err) }
func (m *malformed) ComponentType() Node                { panic(m.err) }
func (m *malformed) UpperBounds() []Node                { panic(m.err) }
func (m *malformed) LowerBounds() []Node                { panic(m.err) }
func (m *malformed) Symbol() string                     { panic(m.err) }
func (m *malformed) VariableSource() TypeVariableSource { panic(m.err) }

// Failure returns the deferred error of a malformed node, or nil.
func Failure(n Node) error {
	return n.failure()
}

// Equal reports whether two nodes describe the same type, ignoring type
// annotations. Variables compare by symbol and declaring source, detached
// variables by symbol alone. Malformed nodes are never equal.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.failure() != nil || b.failure() != nil {
		return false
	}
	if a.Sort() != b.Sort() {
		return false
	}
	switch a.Sort() {
	case NonGeneric:
		return a.Erasure().Equal(b.Erasure())
	case Parameterized:
		return a.Erasure().Equal(b.Erasure()) &&
			Equal(a.OwnerType(), b.OwnerType()) &&
			equalAll(a.TypeArguments(), b.TypeArguments())
	case GenericArray:
		return Equal(a.ComponentType(), b.ComponentType())
	case Wildcard:
		return equalAll(a.UpperBounds(), b.UpperBounds()) &&
			equalAll(a.LowerBounds(), b.LowerBounds())
	case Variable:
		return a.(*typeVariable).key() == b.(*typeVariable).key()
	case VariableSymbolic:
		return a.Symbol() == b.Symbol()
	}
	return false
}

func equalAll(as, bs []Node) bool {
	return slices.EqualFunc(as, bs, Equal)
}

func joinNodes(ns []Node, sep string) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func isObject(n Node) bool {
	return n.failure() == nil && n.Sort() == NonGeneric && n.Erasure().Equal(Object)
}
