package generic

// reifiedErasure is a raw use of a generified type whose declarations are
// exposed as declared instead of raw.
type reifiedErasure struct {
	*nonGeneric
}

func (r *reifiedErasure) withAnnotations(as Annotations) Node {
	return &reifiedErasure{nonGeneric: r.nonGeneric.withAnnotations(as).(*nonGeneric)}
}

// reifiedParameterized is a parameterized type reached while walking up a
// hierarchy; its own ancestors are reified in turn.
type reifiedParameterized struct {
	*parameterized
}

func (r *reifiedParameterized) withAnnotations(as Annotations) Node {
	return &reifiedParameterized{parameterized: r.parameterized.withAnnotations(as).(*parameterized)}
}

func isReified(n Node) bool {
	switch n.(type) {
	case *reifiedErasure, *reifiedParameterized:
		return true
	}
	return false
}

// Reifying prepares a node to be the root of a hierarchy walk.
type Reifying uint8

const (
	// Initiating keeps parameterized types as they are.
	Initiating Reifying = iota
	// Inheriting reifies parameterized types reached from a reified type.
	Inheriting
)

var _ Visitor[Node] = Initiating

func (r Reifying) String() string {
	if r == Initiating {
		return "Initiating"
	}
	return "Inheriting"
}

func (r Reifying) OnNonGeneric(n Node) (Node, error) {
	if isReified(n) || !n.Erasure().IsGenerified() {
		return n, nil
	}
	ng, ok := n.(*nonGeneric)
	if !ok {
		ng = describe(n.Erasure(), n.Annotations())
	}
	return &reifiedErasure{nonGeneric: ng}, nil
}

func (r Reifying) OnParameterized(n Node) (Node, error) {
	if r == Initiating || isReified(n) {
		return n, nil
	}
	p, ok := n.(*parameterized)
	if !ok {
		p = newParameterized(n.Erasure(), n.OwnerType(), n.TypeArguments(), n.Annotations())
	}
	return &reifiedParameterized{parameterized: p}, nil
}

func (r Reifying) OnGenericArray(n Node) (Node, error) {
	return nil, illegalArgument("cannot reify a generic array: %s", n)
}

func (r Reifying) OnTypeVariable(n Node) (Node, error) {
	return nil, illegalArgument("cannot reify a type variable: %s", n)
}

func (r Reifying) OnWildcard(n Node) (Node, error) {
	return nil, illegalArgument("cannot reify a wildcard: %s", n)
}

// Reify prepares n as the root of a hierarchy walk.
func Reify(n Node) (Node, error) {
	return Accept[Node](n, Initiating)
}

// Reducing reduces a token to its erasure within a declaring type and the
// type variables of a method, which shadow those of the type.
type Reducing struct {
	Declaring *Type
	Variables []TypeVariableToken
}

var _ Visitor[*Type] = Reducing{}

func (r Reducing) OnNonGeneric(n Node) (*Type, error) {
	return resolveTarget(n.Erasure(), r.Declaring), nil
}

func (r Reducing) OnParameterized(n Node) (*Type, error) {
	return resolveTarget(n.Erasure(), r.Declaring), nil
}

func (r Reducing) OnGenericArray(n Node) (*Type, error) {
	component, err := Accept[*Type](n.ComponentType(), r)
	if err != nil {
		return nil, err
	}
	return ArrayType(component), nil
}

func (r Reducing) OnWildcard(n Node) (*Type, error) {
	return nil, unsupported("Reducing", n)
}

// OnTypeVariable follows first bounds through the method scope. A cycle of
// bounds reduces to Object.
func (r Reducing) OnTypeVariable(n Node) (*Type, error) {
	seen := map[string]bool{}
	symbol := n.Symbol()
	for {
		v := variableToken(r.Variables, symbol)
		if v == nil {
			declared := r.Declaring.FindVariable(symbol)
			if declared == nil {
				return nil, &UnknownVariableError{Symbol: symbol, Source: r.Declaring.name}
			}
			return declared.Erasure(), nil
		}
		if seen[symbol] || len(v.Bounds) == 0 {
			return Object, nil
		}
		seen[symbol] = true
		bound := v.Bounds[0]
		if bound.failure() != nil {
			return bound.Erasure(), nil
		}
		if !bound.Sort().IsTypeVariable() {
			return Accept[*Type](bound, r)
		}
		symbol = bound.Symbol()
	}
}
