package generic

import (
	"math/rand"
	"testing"

	"github.com/kr/pretty"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// randomNode builds a type expression as written inside u.Site. Wildcards
// only appear as type arguments.
func randomNode(r *rand.Rand, u *universe, depth int) Node {
	var n Node
	leaves := []func() Node{
		func() Node { return Describe(u.String) },
		func() Node { return Describe(u.Integer) },
		func() Node { return Describe(ArrayType(u.Number)) },
		func() Node { return Describe(u.Site) },
		func() Node { return u.Site.TypeVariables()[0] },
		func() Node { return u.Site.TypeVariables()[1] },
	}
	if depth <= 0 || r.Intn(3) == 0 {
		n = leaves[r.Intn(len(leaves))]()
	} else {
		switch r.Intn(5) {
		case 0:
			n = u.listOf(randomArgument(r, u, depth-1))
		case 1:
			n = MustParameterize(u.Map, nil, randomArgument(r, u, depth-1), randomArgument(r, u, depth-1))
		case 2:
			n = Must(ArrayOf(randomNode(r, u, depth-1), 1+r.Intn(2)))
		case 3:
			n = MustParameterize(u.Comparable, nil, randomArgument(r, u, depth-1))
		default:
			n = SelfType(u.Site)
		}
	}
	if r.Intn(4) == 0 {
		n = Annotate(n, Of(u.NonNull, nil))
	}
	return n
}

func randomArgument(r *rand.Rand, u *universe, depth int) Node {
	switch r.Intn(6) {
	case 0:
		return Unbounded()
	case 1:
		return UpperBounded(randomNode(r, u, depth))
	case 2:
		return LowerBounded(randomNode(r, u, depth))
	default:
		return randomNode(r, u, depth)
	}
}

func nodeProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func TestNodeProperties(t *testing.T) {
	u := newUniverse()
	node := func(seed int64) Node {
		return randomNode(rand.New(rand.NewSource(seed)), u, 4)
	}

	properties := nodeProperties()

	properties.Property("NoOp is the identity", prop.ForAll(
		func(seed int64) bool {
			n := node(seed)
			out, err := Accept[Node](n, NoOp{})
			return err == nil && Equal(n, out)
		},
		gen.Int64(),
	))

	properties.Property("erasing a parameterized node yields its erasure", prop.ForAll(
		func(seed int64) bool {
			n := node(seed)
			if n.Sort() != Parameterized {
				return true
			}
			erased, err := Erase(n)
			return err == nil && erased.Sort() == NonGeneric && erased.Erasure() == n.Erasure()
		},
		gen.Int64(),
	))

	properties.Property("detach then attach round-trips", prop.ForAll(
		func(seed int64) bool {
			n := node(seed)
			token, err := Detach(n, u.Site)
			if err != nil {
				t.Log(err)
				return false
			}
			back, err := Attach(token, u.Site)
			if err != nil || !Equal(n, back) {
				t.Logf("%s became %s: %v\n%# v", n, back, err, pretty.Formatter(token))
				return false
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("assignability is reflexive", prop.ForAll(
		func(seed int64) bool {
			n := node(seed)
			ok, err := IsAssignable(n, n)
			if err != nil || !ok {
				t.Logf("%s is not assignable to itself: %v", n, err)
				return false
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("wildcards are never endpoints", prop.ForAll(
		func(seed int64) bool {
			w := UpperBounded(node(seed))
			_, errTarget := IsAssignable(w, w)
			_, errSource := IsAssignable(Describe(Object), w)
			return errTarget != nil && errSource != nil
		},
		gen.Int64(),
	))

	properties.Property("stripping annotations keeps structure", prop.ForAll(
		func(seed int64) bool {
			n := node(seed)
			stripped, err := StripAnnotations(n)
			return err == nil && Equal(n, stripped) && ValidateTypeAnnotations(stripped)
		},
		gen.Int64(),
	))

	properties.Property("replacing an absent erasure returns the same node", prop.ForAll(
		func(seed int64) bool {
			n := node(seed)
			out, err := Replace(n, u.Box, u.String)
			return err == nil && out == n
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
