package generic

// AnnotationStripper removes the type annotations of every node it reaches.
type AnnotationStripper struct{}

var _ Visitor[Node] = AnnotationStripper{}

// StripAnnotations returns n without any type annotations.
func StripAnnotations(n Node) (Node, error) {
	return Accept[Node](n, AnnotationStripper{})
}

func (s AnnotationStripper) optional(n Node) (Node, error) {
	if n == nil {
		return nil, nil
	}
	return Accept[Node](n, s)
}

func (s AnnotationStripper) OnNonGeneric(n Node) (Node, error) {
	if component := n.ComponentType(); component != nil {
		c, err := Accept[Node](component, s)
		if err != nil {
			return nil, err
		}
		return arrayNode(c, nil), nil
	}
	return describe(n.Erasure(), nil), nil
}

func (s AnnotationStripper) OnParameterized(n Node) (Node, error) {
	owner, err := s.optional(n.OwnerType())
	if err != nil {
		return nil, err
	}
	args, err := AcceptAll[Node](n.TypeArguments(), s)
	if err != nil {
		return nil, err
	}
	return newParameterized(n.Erasure(), owner, args, nil), nil
}

func (s AnnotationStripper) OnGenericArray(n Node) (Node, error) {
	c, err := Accept[Node](n.ComponentType(), s)
	if err != nil {
		return nil, err
	}
	return newGenericArray(c, nil), nil
}

func (s AnnotationStripper) OnTypeVariable(n Node) (Node, error) {
	return n.withAnnotations(nil), nil
}

func (s AnnotationStripper) OnWildcard(n Node) (Node, error) {
	upper, err := AcceptAll[Node](n.UpperBounds(), s)
	if err != nil {
		return nil, err
	}
	lower, err := AcceptAll[Node](n.LowerBounds(), s)
	if err != nil {
		return nil, err
	}
	return newWildcard(upper, lower, nil), nil
}
