package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/generics/pkg/generic"
)

type fixture struct {
	Comparable, List, Map, Entry, Outer, Inner, Exception, NonNull *generic.Type

	types map[string]*generic.Type
}

func newFixture() *fixture {
	f := &fixture{types: map[string]*generic.Type{}}
	for _, t := range generic.Builtins() {
		f.add(t)
	}
	f.Comparable = f.add(generic.NewInterface("java.lang.Comparable").WithTypeVariables("T"))
	f.List = f.add(generic.NewInterface("java.util.List").WithTypeVariables("E"))
	f.Map = f.add(generic.NewInterface("java.util.Map").WithTypeVariables("K", "V"))
	f.Entry = f.add(generic.NewMemberType(f.Map, "Entry", generic.KindInterface, true).WithTypeVariables("K", "V"))
	f.Outer = f.add(generic.NewClass("demo.Outer").WithTypeVariables("T"))
	f.Inner = f.add(generic.NewMemberType(f.Outer, "Inner", generic.KindClass, false).WithTypeVariables("U"))
	f.Exception = f.add(generic.NewClass("java.lang.Exception").Extends(generic.Describe(generic.Throwable)))
	f.NonNull = f.add(generic.NewAnnotationType("demo.NonNull", generic.ElementTypeTypeUse))
	f.add(generic.NewClass("java.lang.String"))
	return f
}

func (f *fixture) add(t *generic.Type) *generic.Type {
	f.types[t.Name()] = t
	return t
}

func (f *fixture) resolve(name string) (*generic.Type, bool) {
	t, ok := f.types[name]
	return t, ok
}

func TestParseType(t *testing.T) {
	f := newFixture()

	for _, tc := range []struct {
		sig  string
		want string
		sort generic.Sort
	}{
		{"I", "int", generic.NonGeneric},
		{"[[J", "long[][]", generic.NonGeneric},
		{"Ljava/lang/String;", "java.lang.String", generic.NonGeneric},
		{"TT;", "T", generic.VariableSymbolic},
		{"[TT;", "T[]", generic.GenericArray},
		{"Ljava/util/List<Ljava/lang/String;>;", "java.util.List<java.lang.String>", generic.Parameterized},
		{"Ljava/util/List<*>;", "java.util.List<?>", generic.Parameterized},
		{"Ljava/util/List<+TT;>;", "java.util.List<? extends T>", generic.Parameterized},
		{"Ljava/util/List<-Ljava/lang/String;>;", "java.util.List<? super java.lang.String>", generic.Parameterized},
		{"Ljava/util/Map<TK;[TV;>;", "java.util.Map<K, V[]>", generic.Parameterized},
		{"Ljava/util/List;", "java.util.List", generic.NonGeneric},
		{"Ljava/util/Map$Entry<TK;TV;>;", "java.util.Map$Entry<K, V>", generic.Parameterized},
		{"Ldemo/Outer<TT;>.Inner<TU;>;", "demo.Outer<T>$Inner<U>", generic.Parameterized},
		{"Ldemo/Outer.Inner<TU;>;", "demo.Outer$Inner<U>", generic.Parameterized},
	} {
		t.Run(tc.sig, func(t *testing.T) {
			n, err := ParseType(tc.sig, f.resolve, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.sort, n.Sort())
			assert.Equal(t, tc.want, n.String())
		})
	}
}

func TestParseTypeOwners(t *testing.T) {
	f := newFixture()

	n, err := ParseType("Ldemo/Outer<Ljava/lang/String;>.Inner<TU;>;", f.resolve, nil)
	require.NoError(t, err)
	require.Equal(t, generic.Parameterized, n.OwnerType().Sort())
	assert.Equal(t, f.Outer, n.OwnerType().Erasure())

	raw, err := ParseType("Ldemo/Outer.Inner<TU;>;", f.resolve, nil)
	require.NoError(t, err)
	assert.Equal(t, generic.NonGeneric, raw.OwnerType().Sort())

	entry, err := ParseType("Ljava/util/Map<TK;TV;>.Entry<TK;TV;>;", f.resolve, nil)
	require.NoError(t, err)
	assert.Equal(t, generic.NonGeneric, entry.OwnerType().Sort(), "static member types keep a raw owner")
}

func TestParseTypeAnnotations(t *testing.T) {
	f := newFixture()
	nonNull := generic.Annotations{generic.Of(f.NonNull, nil)}
	reader := generic.NewPathAnnotations(map[string]generic.Annotations{
		"":      nonNull,
		"0;":    nonNull,
		"1;*0;": nonNull,
		".":     nonNull,
	})

	n, err := ParseType("Ljava/util/Map<Ljava/lang/String;+[I>;", f.resolve, reader)
	require.NoError(t, err)
	assert.Equal(t,
		"@demo.NonNull java.util.Map<@demo.NonNull java.lang.String, ? extends @demo.NonNull int[]>",
		n.String())
	assert.True(t, generic.ValidateTypeAnnotations(n))

	inner, err := ParseType("Ldemo/Outer<TT;>.Inner<TU;>;", f.resolve, reader)
	require.NoError(t, err)
	assert.True(t, inner.Annotations().IsPresent(f.NonNull))
	assert.True(t, inner.OwnerType().Annotations().IsPresent(f.NonNull))
	assert.True(t, inner.TypeArguments()[0].Annotations().IsPresent(f.NonNull))
}

func TestParseClass(t *testing.T) {
	f := newFixture()

	class, err := ParseClass(
		"<K::Ljava/lang/Comparable<TK;>;V:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Map<TK;TV;>;",
		f.resolve,
	)
	require.NoError(t, err)
	require.Len(t, class.TypeVariables, 2)
	assert.Equal(t, "K", class.TypeVariables[0].Symbol)
	require.Len(t, class.TypeVariables[0].Bounds, 1)
	assert.Equal(t, "java.lang.Comparable<K>", class.TypeVariables[0].Bounds[0].String())
	assert.Equal(t, "java.lang.Object", class.SuperClass.String())
	require.Len(t, class.Interfaces, 1)
	assert.Equal(t, "java.util.Map<K, V>", class.Interfaces[0].String())

	t.Run("attached to a declaration", func(t *testing.T) {
		sorted := generic.NewClass("demo.Sorted")
		for _, v := range class.TypeVariables {
			sorted.WithTypeVariables(v.Symbol)
		}
		for _, v := range class.TypeVariables {
			sorted.Bound(v.Symbol, v.Bounds...)
		}
		sorted.Extends(class.SuperClass).Implements(class.Interfaces...)
		require.NoError(t, sorted.Validate())

		k := sorted.TypeVariables()[0]
		assert.Same(t, sorted, k.UpperBounds()[0].TypeArguments()[0].VariableSource())
		assert.Same(t, sorted, sorted.Interfaces()[0].TypeArguments()[1].VariableSource())
	})
}

func TestParseMethod(t *testing.T) {
	f := newFixture()

	m, err := ParseMethod("sort", "<T::Ljava/lang/Comparable<-TT;>;>(Ljava/util/List<TT;>;I)[TT;^Ljava/lang/Exception;^TX;", f.resolve)
	require.NoError(t, err)
	assert.Equal(t, "sort", m.Name)
	require.Len(t, m.TypeVariables, 1)
	assert.Equal(t, "java.lang.Comparable<? super T>", m.TypeVariables[0].Bounds[0].String())
	require.Len(t, m.Parameters, 2)
	assert.Equal(t, "java.util.List<T>", m.Parameters[0].String())
	assert.Equal(t, "int", m.Parameters[1].String())
	assert.Equal(t, "T[]", m.Return.String())
	require.Len(t, m.Exceptions, 2)
	assert.Equal(t, "java.lang.Exception", m.Exceptions[0].String())
	assert.Equal(t, generic.VariableSymbolic, m.Exceptions[1].Sort())

	void, err := ParseMethod("run", "()V", f.resolve)
	require.NoError(t, err)
	assert.Equal(t, generic.Void, void.Return.Erasure())
	assert.Empty(t, void.Parameters)

	sig, err := m.Signature(generic.NewClass("demo.Sorter"))
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Comparable[] sort(java.util.List, int)", sig.String())
}

func TestTypeVariableSymbols(t *testing.T) {
	symbols, err := TypeVariableSymbols("<A:TB;B:Ldemo/Unknown;>Ljava/lang/Object;")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, symbols)

	symbols, err = TypeVariableSymbols("Ljava/lang/Object;")
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

func TestParseErrors(t *testing.T) {
	f := newFixture()

	for _, tc := range []struct {
		sig    string
		offset int
	}{
		{"", 0},
		{"Ljava/lang/String", 17},
		{"Ljava/util/List<>;", 16},
		{"Ljava/util/List<I>;", 16},
		{"TT", 2},
		{"Q", 0},
		{"II", 1},
		{"L;", 1},
	} {
		t.Run(tc.sig, func(t *testing.T) {
			_, err := ParseType(tc.sig, f.resolve, nil)
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tc.offset, syntaxErr.Offset)
			assert.Equal(t, tc.sig, syntaxErr.Signature)
			assert.True(t, IsSyntaxError(err))
		})
	}

	t.Run("void field", func(t *testing.T) {
		_, err := ParseField("V", f.resolve, nil)
		assert.True(t, IsSyntaxError(err))
	})

	t.Run("unresolved", func(t *testing.T) {
		_, err := ParseType("Ldemo/Missing<TT;>;", f.resolve, nil)
		var unresolved UnresolvedTypeError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "demo.Missing", unresolved.Name)
		assert.False(t, IsSyntaxError(err))
	})

	t.Run("arity", func(t *testing.T) {
		_, err := ParseType("Ljava/util/Map<TK;>;", f.resolve, nil)
		var arity *generic.ArityError
		require.ErrorAs(t, err, &arity)
		assert.Equal(t, 2, arity.Expected)
	})

	t.Run("trailing method input", func(t *testing.T) {
		_, err := ParseMethod("m", "()VX", f.resolve)
		assert.True(t, IsSyntaxError(err))
	})

	t.Run("missing method parameters", func(t *testing.T) {
		_, err := ParseMethod("m", "V", f.resolve)
		var syntaxErr *SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
		assert.Equal(t, 0, syntaxErr.Offset)
	})

	t.Run("class without super class", func(t *testing.T) {
		_, err := ParseClass("<T:Ljava/lang/Object;>", f.resolve)
		assert.True(t, IsSyntaxError(err))
	})
}
