package generic

// Erasing reduces every node to the non-generic node of its erasure,
// keeping the type annotations of the node itself.
type Erasing struct{}

var _ Visitor[Node] = Erasing{}

func (Erasing) OnNonGeneric(n Node) (Node, error) { return n, nil }

func (Erasing) OnParameterized(n Node) (Node, error) {
	return describe(n.Erasure(), n.Annotations()), nil
}

func (Erasing) OnGenericArray(n Node) (Node, error) {
	return describe(n.Erasure(), n.Annotations()), nil
}

func (Erasing) OnTypeVariable(n Node) (Node, error) {
	if n.Sort() == VariableSymbolic {
		return nil, unsupported("Erasing", n)
	}
	return describe(n.Erasure(), n.Annotations()), nil
}

func (Erasing) OnWildcard(n Node) (Node, error) {
	return describe(n.Erasure(), n.Annotations()), nil
}

// Erase returns the erasure of n as a node.
func Erase(n Node) (Node, error) {
	return Accept[Node](n, Erasing{})
}

// Generalizing collapses generic shapes to Object, keeping the array arity
// of generic arrays. Wildcards cannot be generalized.
type Generalizing struct{}

var _ Visitor[Node] = Generalizing{}

func (Generalizing) OnNonGeneric(n Node) (Node, error) { return n, nil }

func (Generalizing) OnParameterized(Node) (Node, error) { return Describe(Object), nil }

func (Generalizing) OnTypeVariable(Node) (Node, error) { return Describe(Object), nil }

func (Generalizing) OnGenericArray(n Node) (Node, error) {
	return Describe(arrayTypeOf(Object, arity(n.Erasure()))), nil
}

func (Generalizing) OnWildcard(n Node) (Node, error) {
	return nil, unsupported("Generalizing", n)
}

func arity(t *Type) int {
	a := 0
	for ; t.IsArray(); t = t.component {
		a++
	}
	return a
}

// TypeVariableErasing replaces every node that mentions a type variable
// with its raw erasure. Wildcard bounds are erased individually.
type TypeVariableErasing struct{}

var _ Visitor[Node] = TypeVariableErasing{}

func (TypeVariableErasing) OnNonGeneric(n Node) (Node, error) { return n, nil }

func (TypeVariableErasing) OnParameterized(n Node) (Node, error) {
	if !mentionsVariable(n) {
		return n, nil
	}
	return describe(n.Erasure(), n.Annotations()), nil
}

func (TypeVariableErasing) OnGenericArray(n Node) (Node, error) {
	if !mentionsVariable(n) {
		return n, nil
	}
	return describe(n.Erasure(), n.Annotations()), nil
}

func (TypeVariableErasing) OnTypeVariable(n Node) (Node, error) {
	if n.Sort() == VariableSymbolic {
		return nil, unsupported("TypeVariableErasing", n)
	}
	return describe(n.Erasure(), n.Annotations()), nil
}

func (v TypeVariableErasing) OnWildcard(n Node) (Node, error) {
	upper, err := AcceptAll[Node](n.UpperBounds(), v)
	if err != nil {
		return nil, err
	}
	lower, err := AcceptAll[Node](n.LowerBounds(), v)
	if err != nil {
		return nil, err
	}
	if equalRefs(upper, n.UpperBounds()) && equalRefs(lower, n.LowerBounds()) {
		return n, nil
	}
	return newWildcard(upper, lower, n.Annotations()), nil
}

func mentionsVariable(n Node) bool {
	if n.failure() != nil {
		return false
	}
	switch n.Sort() {
	case Variable, VariableSymbolic:
		return true
	case Parameterized:
		if owner := n.OwnerType(); owner != nil && mentionsVariable(owner) {
			return true
		}
		return anyNode(n.TypeArguments(), mentionsVariable)
	case GenericArray:
		return mentionsVariable(n.ComponentType())
	case Wildcard:
		return anyNode(n.UpperBounds(), mentionsVariable) || anyNode(n.LowerBounds(), mentionsVariable)
	}
	return false
}

func anyNode(ns []Node, pred func(Node) bool) bool {
	for _, n := range ns {
		if pred(n) {
			return true
		}
	}
	return false
}

// ForRawType erases generic shapes found in the declarations of a
// generified type reached through a raw reference. Declarations of
// non-generified types are kept as they are.
type ForRawType struct {
	Declaring *Type
}

var _ Visitor[Node] = ForRawType{}

func (v ForRawType) raw(n Node) (Node, error) {
	if !v.Declaring.IsGenerified() {
		return n, nil
	}
	return describe(n.Erasure(), n.Annotations()), nil
}

func (ForRawType) OnNonGeneric(n Node) (Node, error)      { return n, nil }
func (v ForRawType) OnParameterized(n Node) (Node, error) { return v.raw(n) }
func (v ForRawType) OnGenericArray(n Node) (Node, error)  { return v.raw(n) }
func (v ForRawType) OnTypeVariable(n Node) (Node, error)  { return v.raw(n) }

func (ForRawType) OnWildcard(n Node) (Node, error) {
	return nil, unsupported("ForRawType", n)
}
