package signature

import (
	"github.com/pkg/errors"

	"github.com/vito/generics/pkg/generic"
)

// builder turns parsed syntax into detached nodes.
type builder struct {
	sig     string
	resolve Resolver
}

func (b builder) typeVariables(params []paramSig) ([]generic.TypeVariableToken, error) {
	tokens := make([]generic.TypeVariableToken, 0, len(params))
	for _, param := range params {
		bounds, err := b.buildAll(param.bounds)
		if err != nil {
			return nil, errors.Wrapf(err, "bound of %s", param.symbol)
		}
		tokens = append(tokens, generic.TypeVariableToken{Symbol: param.symbol, Bounds: bounds})
	}
	return tokens, nil
}

func (b builder) buildAll(sigs []typeSig) ([]generic.Node, error) {
	nodes := make([]generic.Node, len(sigs))
	for i, s := range sigs {
		n, err := b.build(s, nil)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

func (b builder) build(s typeSig, r generic.AnnotationReader) (generic.Node, error) {
	if r == nil {
		r = generic.NoAnnotations{}
	}
	var n generic.Node
	switch s := s.(type) {
	case baseSig:
		n = generic.Describe(s.t)
	case varSig:
		n = generic.Symbol(s.symbol)
	case arraySig:
		component, err := b.build(s.component, r.OfComponentType())
		if err != nil {
			return nil, err
		}
		if n, err = generic.ArrayOf(component, 1); err != nil {
			return nil, err
		}
	case classSig:
		return b.class(s, r)
	default:
		return nil, errors.Errorf("unexpected syntax %T", s)
	}
	return generic.Annotate(n, r.Annotations()...), nil
}

// class builds the owner chain of a class type from the outside in. The
// annotations of the innermost segment are at r; each step outwards is an
// owner type.
func (b builder) class(s classSig, r generic.AnnotationReader) (generic.Node, error) {
	readers := make([]generic.AnnotationReader, len(s.segments))
	for i := len(s.segments) - 1; i >= 0; i-- {
		readers[i] = r
		r = r.OfOwnerType()
	}

	var node generic.Node
	var name string
	for i, segment := range s.segments {
		if i == 0 {
			name = segment.name
		} else {
			name += "$" + segment.name
		}
		raw, ok := b.resolve(name)
		if !ok {
			return nil, errors.Wrapf(UnresolvedTypeError{Name: name}, "at offset %d in %q", s.offset(), b.sig)
		}
		args, err := b.arguments(segment.args, readers[i])
		if err != nil {
			return nil, err
		}
		if node, err = member(raw, node, args); err != nil {
			return nil, errors.Wrapf(err, "at offset %d in %q", s.offset(), b.sig)
		}
		node = generic.Annotate(node, readers[i].Annotations()...)
	}
	return node, nil
}

// member builds raw<args> as a member of owner, which is nil for the
// outermost segment.
func member(raw *generic.Type, owner generic.Node, args []generic.Node) (generic.Node, error) {
	switch {
	case len(args) == 0 && (owner == nil || owner.Sort() == generic.NonGeneric || raw.IsStatic()):
		return generic.Describe(raw), nil
	case owner == nil || raw.IsStatic():
		return generic.Parameterize(raw, nil, args...)
	default:
		return generic.Parameterize(raw, owner, args...)
	}
}

func (b builder) arguments(args []argSig, r generic.AnnotationReader) ([]generic.Node, error) {
	nodes := make([]generic.Node, len(args))
	for i, a := range args {
		ar := r.OfTypeArgument(i)
		var n generic.Node
		switch a.wildcard {
		case '*':
			n = generic.Unbounded()
		case '+':
			bound, err := b.build(a.bound, ar.OfWildcardUpperBound(0))
			if err != nil {
				return nil, err
			}
			n = generic.UpperBounded(bound)
		case '-':
			bound, err := b.build(a.bound, ar.OfWildcardLowerBound(0))
			if err != nil {
				return nil, err
			}
			n = generic.LowerBounded(bound)
		default:
			bound, err := b.build(a.bound, ar)
			if err != nil {
				return nil, err
			}
			nodes[i] = bound
			continue
		}
		nodes[i] = generic.Annotate(n, ar.Annotations()...)
	}
	return nodes, nil
}
