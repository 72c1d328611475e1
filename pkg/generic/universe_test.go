package generic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// universe is a small set of declarations shared by the tests. Each test
// builds its own so that declarations are never shared between tests.
type universe struct {
	Number, Integer, String, Exception *Type

	Comparable, Collection, List, ArrayList, Map, Enum *Type

	Box, IntBox, NumBox *Type
	A, B, C             *Type
	Pair, Holder        *Type
	Outer, Inner        *Type
	Ref, Cyclic, Site   *Type
	Broken              *Type

	NonNull, FieldOnly, TypeParam *Type
}

func newUniverse() *universe {
	u := &universe{}

	u.Comparable = NewInterface("java.lang.Comparable").WithTypeVariables("T")
	u.Number = NewClass("java.lang.Number").Implements(Describe(Serializable))
	u.Integer = NewClass("java.lang.Integer").Extends(Describe(u.Number))
	u.Integer.Implements(MustParameterize(u.Comparable, nil, Describe(u.Integer)))
	u.String = NewClass("java.lang.String").Implements(Describe(Serializable))
	u.String.Implements(MustParameterize(u.Comparable, nil, Describe(u.String)))
	u.Exception = NewClass("java.lang.Exception").Extends(Describe(Throwable))

	u.Collection = NewInterface("java.util.Collection").WithTypeVariables("E")
	u.List = NewInterface("java.util.List").WithTypeVariables("E")
	u.List.Implements(MustParameterize(u.Collection, nil, Symbol("E")))
	u.ArrayList = NewClass("java.util.ArrayList").WithTypeVariables("E")
	u.ArrayList.Implements(MustParameterize(u.List, nil, Symbol("E")))
	u.Map = NewInterface("java.util.Map").WithTypeVariables("K", "V")

	u.Enum = NewClass("java.lang.Enum").WithTypeVariables("E")
	u.Enum.Bound("E", MustParameterize(u.Enum, nil, Symbol("E")))
	u.Enum.Implements(MustParameterize(u.Comparable, nil, Symbol("E")))

	u.Box = NewClass("demo.Box").WithTypeVariables("T")
	u.Box.DeclareField("value", Symbol("T"))
	u.Box.DeclareMethod("get").Returns(Symbol("T"))
	u.Box.DeclareMethod("shadow").
		WithTypeVariables("T").
		Returns(Symbol("T")).
		Parameters(Symbol("T"))
	u.IntBox = NewClass("demo.IntBox").Extends(MustParameterize(u.Box, nil, Describe(u.Integer)))

	u.NumBox = NewClass("demo.NumBox").WithTypeVariables("T").Bound("T", Describe(u.Number))
	u.NumBox.DeclareMethod("get").Returns(Symbol("T"))
	u.NumBox.DeclareMethod("compare").
		WithTypeVariables("T").
		Bound("T", MustParameterize(u.Comparable, nil, Symbol("T"))).
		Returns(Symbol("T")).
		Parameters(Symbol("T"))

	u.A = NewClass("demo.A").WithTypeVariables("T")
	u.A.DeclareField("value", Symbol("T"))
	u.B = NewClass("demo.B").WithTypeVariables("U")
	u.B.Extends(MustParameterize(u.A, nil, Symbol("U")))
	u.C = NewClass("demo.C").Extends(Describe(u.B))

	u.Pair = NewClass("demo.Pair").WithTypeVariables("A", "B")
	u.Pair.DeclareMethod("swap").Returns(MustParameterize(u.Pair, nil, Symbol("B"), Symbol("A")))
	u.Holder = NewClass("demo.Holder").WithTypeVariables("X", "Y")
	u.Holder.DeclareField("pair", MustParameterize(u.Pair, nil, Symbol("X"), Symbol("Y")))

	u.Outer = NewClass("demo.Outer").WithTypeVariables("T")
	u.Inner = NewMemberType(u.Outer, "Inner", KindClass, false).WithTypeVariables("U")
	u.Inner.DeclareField("outer", Symbol("T"))
	u.Inner.DeclareField("inner", Symbol("U"))

	u.Ref = NewClass("demo.Ref").
		WithTypeVariables("A", "B").
		Bound("A", Symbol("B")).
		Bound("B", Describe(u.Number))
	u.Cyclic = NewClass("demo.Cyclic").
		WithTypeVariables("A", "B").
		Bound("A", Symbol("B")).
		Bound("B", Symbol("A"))
	u.Site = NewClass("demo.Site").
		WithTypeVariables("K", "V").
		Bound("V", Describe(u.Number))
	u.Broken = NewClass("demo.Broken").
		Extends(Malformed(u.Number, errors.New("unexpected end of signature")))

	u.NonNull = NewAnnotationType("demo.NonNull", ElementTypeTypeUse)
	u.FieldOnly = NewAnnotationType("demo.FieldOnly", ElementTypeField)
	u.TypeParam = NewAnnotationType("demo.TypeParam", ElementTypeTypeParameter)

	return u
}

func (u *universe) listOf(arg Node) Node {
	return MustParameterize(u.List, nil, arg)
}

func (u *universe) arrayListOf(arg Node) Node {
	return MustParameterize(u.ArrayList, nil, arg)
}

// requirePanics runs f and requires it to panic with an error of type E.
func requirePanics[E error](t *testing.T, f func()) E {
	t.Helper()
	var target E
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a panic")
			err, ok := r.(error)
			require.True(t, ok, "panic value %v is not an error", r)
			require.ErrorAs(t, err, &target)
		}()
		f()
	}()
	return target
}
