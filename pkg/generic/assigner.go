package generic

// IsAssignable reports whether a value of type source can be assigned to a
// variable of type target. Wildcards and detached variables are not types
// of values and cannot be either endpoint.
func IsAssignable(target, source Node) (bool, error) {
	for _, n := range []Node{target, source} {
		if err := n.failure(); err != nil {
			return false, err
		}
		switch n.Sort() {
		case Wildcard:
			return false, illegalArgument("wildcard cannot be an assignment endpoint: %s", n)
		case VariableSymbolic:
			return false, illegalArgument("detached variable cannot be an assignment endpoint: %s", n)
		}
	}
	return Accept[bool](target, Assigner{Source: source})
}

// Assigner checks whether Source is assignable to the visited target.
type Assigner struct {
	Source Node

	// variables whose bounds are being checked; guards cyclic bounds
	seen map[variableKey]bool
}

var _ Visitor[bool] = Assigner{}

func (a Assigner) check(target, source Node) (bool, error) {
	if err := source.failure(); err != nil {
		return false, err
	}
	if source.Sort() == Wildcard {
		return false, unsupported("Assigner", source)
	}
	return Accept[bool](target, Assigner{Source: source, seen: a.seen})
}

// fromBounds reports whether any bound of a variable source is assignable
// to target.
func (a Assigner) fromBounds(target Node) (bool, error) {
	v := a.Source.(*typeVariable)
	if a.seen[v.key()] {
		return false, nil
	}
	seen := map[variableKey]bool{v.key(): true}
	for k := range a.seen {
		seen[k] = true
	}
	for _, b := range v.UpperBounds() {
		if b.failure() != nil {
			continue
		}
		ok, err := Accept[bool](target, Assigner{Source: b, seen: seen})
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func (a Assigner) OnNonGeneric(target Node) (bool, error) {
	switch a.Source.Sort() {
	case Wildcard:
		return false, unsupported("Assigner", a.Source)
	case Variable:
		return a.fromBounds(target)
	}
	return a.Source.Erasure().IsAssignableTo(target.Erasure()), nil
}

func (a Assigner) OnParameterized(target Node) (bool, error) {
	switch a.Source.Sort() {
	case Wildcard:
		return false, unsupported("Assigner", a.Source)
	case Variable:
		return a.fromBounds(target)
	case GenericArray:
		return false, nil
	}
	if !a.Source.Erasure().IsAssignableTo(target.Erasure()) {
		return false, nil
	}
	super, err := FindSuperType(a.Source, target.Erasure())
	if err != nil || super == nil {
		return false, err
	}
	if super.failure() != nil || super.Sort() == NonGeneric {
		// unchecked conversion from a raw type
		return true, nil
	}
	return a.contains(target, super)
}

// contains compares the arguments and owners of two parameterized types of
// the same erasure.
func (a Assigner) contains(target, source Node) (bool, error) {
	targetArgs, sourceArgs := target.TypeArguments(), source.TypeArguments()
	if len(targetArgs) != len(sourceArgs) {
		return false, nil
	}
	for i := range targetArgs {
		ok, err := a.containsArgument(targetArgs[i], sourceArgs[i])
		if err != nil || !ok {
			return ok, err
		}
	}
	targetOwner, sourceOwner := target.OwnerType(), source.OwnerType()
	if targetOwner != nil && sourceOwner != nil &&
		targetOwner.Sort() == Parameterized && sourceOwner.Sort() == Parameterized {
		return a.check(targetOwner, sourceOwner)
	}
	return true, nil
}

// containsArgument applies wildcard containment: a concrete target argument
// requires an equal source argument, a wildcard target requires the source
// to fall within its bounds.
func (a Assigner) containsArgument(target, source Node) (bool, error) {
	if target.Sort() != Wildcard {
		return Equal(target, source), nil
	}
	if source.Sort() == Wildcard {
		for _, tu := range target.UpperBounds() {
			ok, err := a.anyAssignable(tu, source.UpperBounds())
			if err != nil || !ok {
				return ok, err
			}
		}
		targetLower := target.LowerBounds()
		if len(targetLower) == 0 {
			return true, nil
		}
		sourceLower := source.LowerBounds()
		if len(sourceLower) == 0 {
			return false, nil
		}
		for _, tl := range targetLower {
			for _, sl := range sourceLower {
				ok, err := a.check(sl, tl)
				if err != nil || !ok {
					return ok, err
				}
			}
		}
		return true, nil
	}
	for _, tu := range target.UpperBounds() {
		ok, err := a.check(tu, source)
		if err != nil || !ok {
			return ok, err
		}
	}
	for _, tl := range target.LowerBounds() {
		ok, err := a.check(source, tl)
		if err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

func (a Assigner) anyAssignable(target Node, sources []Node) (bool, error) {
	for _, s := range sources {
		ok, err := a.check(target, s)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func (a Assigner) OnGenericArray(target Node) (bool, error) {
	switch a.Source.Sort() {
	case Wildcard:
		return false, unsupported("Assigner", a.Source)
	case Variable:
		return a.fromBounds(target)
	case GenericArray:
		return a.check(target.ComponentType(), a.Source.ComponentType())
	case NonGeneric:
		component := a.Source.ComponentType()
		if component == nil || component.Erasure().IsPrimitive() {
			return false, nil
		}
		return a.check(target.ComponentType(), component)
	}
	return false, nil
}

func (a Assigner) OnTypeVariable(target Node) (bool, error) {
	if target.Sort() == VariableSymbolic {
		return false, unsupported("Assigner", target)
	}
	switch a.Source.Sort() {
	case Wildcard:
		return false, unsupported("Assigner", a.Source)
	case Variable:
		if Equal(target, a.Source) {
			return true, nil
		}
		return a.fromBounds(target)
	}
	return false, nil
}

func (a Assigner) OnWildcard(target Node) (bool, error) {
	return false, unsupported("Assigner", target)
}
