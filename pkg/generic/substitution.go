package generic

// substitution decides how erasures and type variables are rewritten; the
// substitutor copies the structure around them.
type substitution interface {
	onErasure(e *Type) (*Type, error)
	onTypeVariable(n Node) (Node, error)
}

// substitutor rewrites a node structurally. A node none of whose parts
// change is returned as is.
type substitutor struct {
	name string
	sub  substitution
}

var _ Visitor[Node] = (*substitutor)(nil)

func (s *substitutor) String() string { return s.name }

func (s *substitutor) OnNonGeneric(n Node) (Node, error) {
	if component := n.ComponentType(); component != nil {
		c, err := Accept[Node](component, s)
		if err != nil {
			return nil, err
		}
		if c == component {
			return n, nil
		}
		return arrayNode(c, n.Annotations()), nil
	}
	e, err := s.sub.onErasure(n.Erasure())
	if err != nil {
		return nil, err
	}
	if e == n.Erasure() {
		return n, nil
	}
	return describe(e, n.Annotations()), nil
}

func (s *substitutor) OnParameterized(n Node) (Node, error) {
	e, err := s.sub.onErasure(n.Erasure())
	if err != nil {
		return nil, err
	}
	owner := n.OwnerType()
	if owner != nil {
		if owner, err = Accept[Node](owner, s); err != nil {
			return nil, err
		}
		if ownerOf(e) == nil && !e.Equal(TargetType) {
			return nil, illegalArgument("%s has no owner type", e)
		}
	}
	args := n.TypeArguments()
	changed := false
	for i, a := range args {
		sa, err := Accept[Node](a, s)
		if err != nil {
			return nil, err
		}
		changed = changed || sa != a
		args[i] = sa
	}
	if !changed && e == n.Erasure() && owner == n.OwnerType() {
		return n, nil
	}
	return newParameterized(e, owner, args, n.Annotations()), nil
}

func (s *substitutor) OnGenericArray(n Node) (Node, error) {
	component := n.ComponentType()
	c, err := Accept[Node](component, s)
	if err != nil {
		return nil, err
	}
	if c == component {
		return n, nil
	}
	return arrayNode(c, n.Annotations()), nil
}

func (s *substitutor) OnWildcard(n Node) (Node, error) {
	upper, err := AcceptAll[Node](n.UpperBounds(), s)
	if err != nil {
		return nil, err
	}
	lower, err := AcceptAll[Node](n.LowerBounds(), s)
	if err != nil {
		return nil, err
	}
	if equalRefs(upper, n.UpperBounds()) && equalRefs(lower, n.LowerBounds()) {
		return n, nil
	}
	return newWildcard(upper, lower, n.Annotations()), nil
}

func (s *substitutor) OnTypeVariable(n Node) (Node, error) {
	return s.sub.onTypeVariable(n)
}

func equalRefs(as, bs []Node) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// attachment binds detached variables to the variables visible from a
// declaration and replaces TargetType with the declaring type.
type attachment struct {
	declaring *Type
	source    TypeVariableSource
}

func (a attachment) onErasure(e *Type) (*Type, error) {
	return resolveTarget(e, a.declaring), nil
}

func (a attachment) onTypeVariable(n Node) (Node, error) {
	v := a.source.FindVariable(n.Symbol())
	if v == nil {
		return nil, illegalArgument("cannot attach undefined variable %s to %s", n.Symbol(), a.source)
	}
	return v.withAnnotations(n.Annotations()), nil
}

// ForAttachment returns the visitor attaching tokens to the variable scope
// of source. TargetType resolves to declaring.
func ForAttachment(declaring *Type, source TypeVariableSource) Visitor[Node] {
	return &substitutor{name: "ForAttachment", sub: attachment{declaring: declaring, source: source}}
}

func AttachTo(t *Type) Visitor[Node] {
	return ForAttachment(t, t)
}

func AttachToMethod(m *Method) Visitor[Node] {
	return ForAttachment(m.declaring, m)
}

func AttachToField(f *Field) Visitor[Node] {
	return ForAttachment(f.declaring, f.declaring)
}

// AttachToVariable attaches tokens to the scope declaring the variable v,
// as needed for its bounds.
func AttachToVariable(v Node) Visitor[Node] {
	source := v.VariableSource()
	return ForAttachment(source.attachTarget(), source)
}

// detachment replaces matching types with TargetType and matching variables
// with their symbols.
type detachment struct {
	matchType   func(*Type) bool
	matchSource func(TypeVariableSource) bool
}

func (d detachment) onErasure(e *Type) (*Type, error) {
	if d.matchType(e) {
		return TargetType, nil
	}
	return e, nil
}

func (d detachment) onTypeVariable(n Node) (Node, error) {
	if n.Sort() == VariableSymbolic {
		return n, nil
	}
	if d.matchSource != nil && !d.matchSource(n.VariableSource()) {
		return n, nil
	}
	return newSymbolic(n.Symbol(), n.Annotations()), nil
}

// ForDetachment returns the visitor turning a live node into a token. A nil
// matchSource detaches every variable.
func ForDetachment(matchType func(*Type) bool, matchSource func(TypeVariableSource) bool) Visitor[Node] {
	return &substitutor{name: "ForDetachment", sub: detachment{matchType: matchType, matchSource: matchSource}}
}

// Detach turns n, as seen from inside t, into a token.
func Detach(n Node, t *Type) (Node, error) {
	return Accept(n, ForDetachment(t.Equal, nil))
}

func DetachMatching(n Node, matchType func(*Type) bool, matchSource func(TypeVariableSource) bool) (Node, error) {
	return Accept(n, ForDetachment(matchType, matchSource))
}

// Attach resolves the token n inside t.
func Attach(n Node, t *Type) (Node, error) {
	return Accept(n, AttachTo(t))
}

type replacement struct {
	from, to *Type
}

func (r replacement) onErasure(e *Type) (*Type, error) {
	if e.Equal(r.from) {
		return r.to, nil
	}
	return e, nil
}

func (replacement) onTypeVariable(n Node) (Node, error) { return n, nil }

// ForReplacement replaces every use of the erasure from with to.
func ForReplacement(from, to *Type) Visitor[Node] {
	return &substitutor{name: "ForReplacement", sub: replacement{from: from, to: to}}
}

func Replace(n Node, from, to *Type) (Node, error) {
	return Accept(n, ForReplacement(from, to))
}

// binding substitutes type variables with actual arguments. Variables of
// methods are retained: their bounds are seen through the binding.
type binding struct {
	bindings map[variableKey]Node
	self     Visitor[Node]
}

func (b binding) onErasure(e *Type) (*Type, error) { return e, nil }

func (b binding) onTypeVariable(n Node) (Node, error) {
	v, ok := n.(*typeVariable)
	if !ok {
		return nil, &UnknownVariableError{Symbol: n.Symbol()}
	}
	if target, ok := b.bindings[v.key()]; ok {
		return overlay(target, n.Annotations()), nil
	}
	source := v.VariableSource()
	if _, ok := source.(*Method); ok {
		retained := *v
		retained.bounder = compose(v.bounder, b.self)
		return &retained, nil
	}
	return nil, &UnknownVariableError{Symbol: v.symbol, Source: source.String()}
}

// overlay adds the annotations of a variable use to its substitute.
func overlay(n Node, as Annotations) Node {
	if len(as) == 0 {
		return n
	}
	return Annotate(n, as...)
}

// ForTypeVariableBinding binds each variable to the argument at the same
// position.
func ForTypeVariableBinding(variables, arguments []Node) (Visitor[Node], error) {
	if len(variables) != len(arguments) {
		return nil, illegalArgument("cannot bind %d variables to %d arguments", len(variables), len(arguments))
	}
	m := make(map[variableKey]Node, len(variables))
	for i, v := range variables {
		tv, ok := v.(*typeVariable)
		if !ok {
			return nil, illegalArgument("cannot bind %s", v)
		}
		m[tv.key()] = arguments[i]
	}
	return newBinding(m), nil
}

func newBinding(m map[variableKey]Node) Visitor[Node] {
	s := &substitutor{name: "ForTypeVariableBinding"}
	s.sub = binding{bindings: m, self: s}
	return s
}

// Bind returns the visitor resolving declarations of the erasure of n as
// seen from n. The variables of n and of its parameterized owners are bound
// to their arguments. When n is used raw, or the arguments do not match the
// declared variables, every variable is erased instead.
func Bind(n Node) Visitor[Node] {
	if n.Sort() == NonGeneric && n.Erasure().IsGenerified() {
		return TypeVariableErasing{}
	}
	m := map[variableKey]Node{}
	for n != nil && n.Sort() == Parameterized {
		variables := n.Erasure().TypeVariables()
		arguments := n.TypeArguments()
		if len(variables) != len(arguments) {
			return TypeVariableErasing{}
		}
		for i, v := range variables {
			m[v.(*typeVariable).key()] = arguments[i]
		}
		inner := n.Erasure()
		n = n.OwnerType()
		if n != nil && n.Sort() == NonGeneric && !inner.IsStatic() && n.Erasure().IsGenerified() {
			return TypeVariableErasing{}
		}
	}
	return newBinding(m)
}

// ForTokenNormalization turns a node resolved inside t back into a token.
func ForTokenNormalization(t *Type) Visitor[Node] {
	return &substitutor{name: "ForTokenNormalization", sub: detachment{matchType: t.Equal}}
}

func Normalize(n Node, t *Type) (Node, error) {
	return Accept(n, ForTokenNormalization(t))
}
