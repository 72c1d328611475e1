package generic

import "github.com/hashicorp/go-set/v3"

// ResolvedField is a field declared by the erasure of a node, with its type
// as seen from that node.
type ResolvedField struct {
	Field *Field
	Type  Node
}

// ResolvedMethod is a method declared by the erasure of a node, with its
// signature as seen from that node. Type variables of a method reached
// through a raw reference are erased and not listed.
type ResolvedMethod struct {
	Method        *Method
	TypeVariables []Node
	ReturnType    Node
	Parameters    []Node
	Exceptions    []Node
}

// project applies v to a declared node. Malformed declarations pass through
// so that their erasure stays reachable.
func project(declared Node, v Visitor[Node]) (Node, error) {
	if declared == nil || declared.failure() != nil {
		return declared, nil
	}
	return Accept(declared, v)
}

func projectAll(declared []Node, v Visitor[Node]) ([]Node, error) {
	nodes := make([]Node, len(declared))
	for i, d := range declared {
		n, err := project(d, v)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

// projection returns the visitor resolving the declarations of the erasure
// of n as seen from n: bound for parameterized types, raw for raw uses of
// generified types, and as declared for reified erasures.
func projection(n Node) (Visitor[Node], error) {
	if err := n.failure(); err != nil {
		return nil, err
	}
	if _, ok := n.(*reifiedErasure); ok {
		return NoOp{}, nil
	}
	switch n.Sort() {
	case NonGeneric:
		return ForRawType{Declaring: n.Erasure()}, nil
	case Parameterized:
		return Bind(n), nil
	case GenericArray:
		return NoOp{}, nil
	default:
		return nil, invalidFor("projection", n.Sort())
	}
}

// SuperClass returns the super class of n with the variables of its erasure
// substituted as seen from n. Once a generified type is used raw, its
// ancestors are raw as well.
func SuperClass(n Node) (Node, error) {
	if err := n.failure(); err != nil {
		return nil, err
	}
	if n.Sort() == GenericArray || n.Sort() == NonGeneric && n.Erasure().IsArray() {
		return Describe(Object), nil
	}
	v, err := projection(n)
	if err != nil {
		return nil, err
	}
	super, err := project(n.Erasure().SuperClass(), v)
	if err != nil || super == nil {
		return super, err
	}
	if isReified(n) {
		return project(super, Inheriting)
	}
	return super, nil
}

// Interfaces returns the interfaces of n as seen from n.
func Interfaces(n Node) ([]Node, error) {
	if err := n.failure(); err != nil {
		return nil, err
	}
	if n.Sort() == GenericArray || n.Sort() == NonGeneric && n.Erasure().IsArray() {
		return []Node{Describe(Cloneable), Describe(Serializable)}, nil
	}
	v, err := projection(n)
	if err != nil {
		return nil, err
	}
	interfaces, err := projectAll(n.Erasure().Interfaces(), v)
	if err != nil {
		return nil, err
	}
	if isReified(n) {
		return projectAll(interfaces, Inheriting)
	}
	return interfaces, nil
}

// Fields returns the fields declared by the erasure of n.
func Fields(n Node) ([]ResolvedField, error) {
	v, err := projection(n)
	if err != nil {
		return nil, err
	}
	var fields []ResolvedField
	for _, f := range n.Erasure().fields {
		t, err := project(f.Type(), v)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ResolvedField{Field: f, Type: t})
	}
	return fields, nil
}

// Methods returns the methods declared by the erasure of n.
func Methods(n Node) ([]ResolvedMethod, error) {
	v, err := projection(n)
	if err != nil {
		return nil, err
	}
	var methods []ResolvedMethod
	for _, m := range n.Erasure().methods {
		r, err := resolveMethod(m, v)
		if err != nil {
			return nil, err
		}
		methods = append(methods, r)
	}
	return methods, nil
}

func resolveMethod(m *Method, v Visitor[Node]) (ResolvedMethod, error) {
	r := ResolvedMethod{Method: m}
	for _, tv := range m.TypeVariables() {
		p, err := Accept(tv, v)
		if err != nil {
			return r, err
		}
		if p.Sort() == Variable {
			r.TypeVariables = append(r.TypeVariables, p)
		}
	}
	var err error
	if r.ReturnType, err = project(m.ReturnType(), v); err != nil {
		return r, err
	}
	if r.Parameters, err = projectAll(m.ParameterTypes(), v); err != nil {
		return r, err
	}
	if r.Exceptions, err = projectAll(m.ExceptionTypes(), v); err != nil {
		return r, err
	}
	return r, nil
}

// Hierarchy returns n followed by its ancestors in breadth-first order,
// each resolved as seen from n. Every erasure is listed once. The walk
// continues raw past a malformed ancestor.
func Hierarchy(n Node) ([]Node, error) {
	var ancestors []Node
	seen := set.New[string](8)
	queue := []Node{n}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if !seen.Insert(current.Erasure().name) {
			continue
		}
		ancestors = append(ancestors, current)
		if current.failure() != nil {
			current = Describe(current.Erasure())
		}
		super, err := SuperClass(current)
		if err != nil {
			return nil, err
		}
		if super != nil {
			queue = append(queue, super)
		}
		interfaces, err := Interfaces(current)
		if err != nil {
			return nil, err
		}
		queue = append(queue, interfaces...)
	}
	return ancestors, nil
}

// FindSuperType returns the ancestor of n with the given erasure, or nil.
func FindSuperType(n Node, erasure *Type) (Node, error) {
	if !n.Erasure().IsAssignableTo(erasure) {
		return nil, nil
	}
	ancestors, err := Hierarchy(n)
	if err != nil {
		return nil, err
	}
	for _, a := range ancestors {
		if a.Erasure().Equal(erasure) {
			return a, nil
		}
	}
	return nil, nil
}
