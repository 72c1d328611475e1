package generic

// Visitor is a transformation or query over nodes with one operation per
// family of sorts. Both variable sorts are dispatched to OnTypeVariable.
type Visitor[R any] interface {
	OnNonGeneric(n Node) (R, error)
	OnParameterized(n Node) (R, error)
	OnGenericArray(n Node) (R, error)
	OnTypeVariable(n Node) (R, error)
	OnWildcard(n Node) (R, error)
}

// Accept dispatches n to the operation of v matching its sort. A malformed
// node yields its deferred error.
func Accept[R any](n Node, v Visitor[R]) (R, error) {
	if err := n.failure(); err != nil {
		var zero R
		return zero, err
	}
	switch n.Sort() {
	case NonGeneric:
		return v.OnNonGeneric(n)
	case Parameterized:
		return v.OnParameterized(n)
	case GenericArray:
		return v.OnGenericArray(n)
	case Wildcard:
		return v.OnWildcard(n)
	default:
		return v.OnTypeVariable(n)
	}
}

// AcceptAll applies v to each node in order, stopping at the first error.
func AcceptAll[R any](ns []Node, v Visitor[R]) ([]R, error) {
	rs := make([]R, len(ns))
	for i, n := range ns {
		r, err := Accept(n, v)
		if err != nil {
			return nil, err
		}
		rs[i] = r
	}
	return rs, nil
}

// NoOp returns every node unchanged.
type NoOp struct{}

var _ Visitor[Node] = NoOp{}

func (NoOp) OnNonGeneric(n Node) (Node, error)    { return n, nil }
func (NoOp) OnParameterized(n Node) (Node, error) { return n, nil }
func (NoOp) OnGenericArray(n Node) (Node, error)  { return n, nil }
func (NoOp) OnTypeVariable(n Node) (Node, error)  { return n, nil }
func (NoOp) OnWildcard(n Node) (Node, error)      { return n, nil }

// chain applies first and then second.
type chain struct {
	first, second Visitor[Node]
}

func compose(first, second Visitor[Node]) Visitor[Node] {
	if first == nil {
		return second
	}
	return chain{first: first, second: second}
}

func (c chain) apply(n Node) (Node, error) {
	n, err := Accept(n, c.first)
	if err != nil {
		return nil, err
	}
	return Accept(n, c.second)
}

func (c chain) OnNonGeneric(n Node) (Node, error)    { return c.apply(n) }
func (c chain) OnParameterized(n Node) (Node, error) { return c.apply(n) }
func (c chain) OnGenericArray(n Node) (Node, error)  { return c.apply(n) }
func (c chain) OnTypeVariable(n Node) (Node, error)  { return c.apply(n) }
func (c chain) OnWildcard(n Node) (Node, error)      { return c.apply(n) }
