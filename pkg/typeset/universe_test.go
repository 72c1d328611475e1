package typeset

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/generics/pkg/generic"
	"github.com/vito/generics/pkg/ioctx"
)

func load(t *testing.T) *Universe {
	t.Helper()
	u, err := Load(context.Background(), filepath.Join("testdata", "generics.toml"))
	require.NoError(t, err)
	return u
}

func lookup(t *testing.T, u *Universe, name string) *generic.Type {
	t.Helper()
	ty, ok := u.Lookup(name)
	require.True(t, ok, "missing %s", name)
	return ty
}

func TestLoad(t *testing.T) {
	u := load(t)

	var names []string
	for _, ty := range u.Types() {
		names = append(names, ty.Name())
	}
	assert.Equal(t, []string{
		"java.lang.Comparable",
		"java.lang.Number",
		"java.lang.Integer",
		"java.lang.String",
		"java.lang.Exception",
		"java.util.Collection",
		"java.util.List",
		"java.util.ArrayList",
		"java.util.Map",
		"demo.NonNull",
		"demo.TypeParam",
		"demo.Box",
		"demo.IntBox",
		"demo.Sorted",
		"demo.Outer",
		"demo.Broken",
		"demo.Cyclic",
		"java.util.Map$Entry",
		"demo.Outer$Inner",
	}, names)

	assert.Same(t, generic.Object, lookup(t, u, "java.lang.Object"))
	assert.Same(t, generic.Int, lookup(t, u, "int"))
	assert.Equal(t, "java.lang.String[][]", lookup(t, u, "java.lang.String[][]").Name())
	_, ok := u.Lookup("demo.Missing[]")
	assert.False(t, ok)

	assert.Equal(t, generic.KindInterface, lookup(t, u, "java.util.List").Kind())
	assert.True(t, lookup(t, u, "demo.TypeParam").Targets().Contains(generic.ElementTypeTypeParameter))
	assert.True(t, lookup(t, u, "demo.NonNull").Targets().Contains(generic.ElementTypeTypeUse))
}

func TestLoadedHierarchy(t *testing.T) {
	u := load(t)
	intBox := lookup(t, u, "demo.IntBox")

	super, err := generic.SuperClass(generic.Describe(intBox))
	require.NoError(t, err)
	assert.Equal(t, "demo.Box<java.lang.Integer>", super.String())

	fields, err := generic.Fields(super)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "@demo.NonNull java.lang.Integer", fields[0].Type.String())

	list := generic.MustParameterize(lookup(t, u, "java.util.List"), nil, generic.Describe(lookup(t, u, "java.lang.Integer")))
	arrayList := generic.MustParameterize(lookup(t, u, "java.util.ArrayList"), nil, generic.Describe(lookup(t, u, "java.lang.Integer")))
	ok, err := generic.IsAssignable(list, arrayList)
	require.NoError(t, err)
	assert.True(t, ok)

	comparable := generic.MustParameterize(lookup(t, u, "java.lang.Comparable"), nil, generic.Describe(lookup(t, u, "java.lang.Integer")))
	ok, err = generic.IsAssignable(comparable, generic.Describe(lookup(t, u, "java.lang.Integer")))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoadedMembers(t *testing.T) {
	u := load(t)

	t.Run("member types", func(t *testing.T) {
		outer, inner := lookup(t, u, "demo.Outer"), lookup(t, u, "demo.Outer$Inner")
		assert.Same(t, outer, inner.DeclaringType())
		assert.False(t, inner.IsStatic())

		pair := inner.Field("pair").Type()
		assert.Equal(t, "java.util.Map<T, U>", pair.String())
		assert.Same(t, outer, pair.TypeArguments()[0].VariableSource())
		assert.Same(t, inner, pair.TypeArguments()[1].VariableSource())

		entry := lookup(t, u, "java.util.Map$Entry")
		assert.True(t, entry.IsStatic())
		ret := lookup(t, u, "java.util.Map").Method("entries").ReturnType()
		assert.Equal(t, "java.util.List<java.util.Map$Entry<K, V>>", ret.String())
	})

	t.Run("method variables", func(t *testing.T) {
		sorted := lookup(t, u, "demo.Sorted")
		max := sorted.Method("max")
		s := max.TypeVariables()[0]
		assert.Same(t, max, s.VariableSource())
		assert.Same(t, sorted, s.UpperBounds()[0].VariableSource())
		assert.Equal(t, "java.lang.Comparable", s.Erasure().Name())

		assert.True(t, generic.ValidateTypeVariable(sorted.TypeVariables()[0]))
		assert.True(t, sorted.TypeVariables()[0].Annotations().IsPresent(lookup(t, u, "demo.TypeParam")))
	})

	t.Run("parse with site", func(t *testing.T) {
		n, err := u.ParseType("Ljava/util/List<TT;>;", "demo.Box")
		require.NoError(t, err)
		assert.Same(t, lookup(t, u, "demo.Box"), n.TypeArguments()[0].VariableSource())

		detached, err := u.ParseType("Ljava/util/List<TT;>;", "")
		require.NoError(t, err)
		assert.Equal(t, generic.VariableSymbolic, detached.TypeArguments()[0].Sort())

		_, err = u.ParseType("Ljava/util/List<TT;>;", "demo.Nowhere")
		assert.ErrorContains(t, err, "unknown type demo.Nowhere")
	})
}

func TestMalformedSignatures(t *testing.T) {
	u := load(t)
	broken := lookup(t, u, "demo.Broken")

	super := broken.SuperClass()
	var malformedErr *generic.MalformedSignatureError
	require.ErrorAs(t, generic.Failure(super), &malformedErr)
	assert.Equal(t, "java.lang.Number", malformedErr.Erasure)
	assert.Contains(t, malformedErr.Error(), "demo.Missing")
	require.Len(t, broken.TypeVariables(), 1, "symbols are declared even when the signature fails")

	ancestors, err := generic.Hierarchy(generic.Describe(broken))
	require.NoError(t, err)
	require.Len(t, ancestors, 4)
	assert.Equal(t, "java.lang.Number", ancestors[1].Erasure().Name())

	bad := broken.Field("bad").Type()
	require.Error(t, generic.Failure(bad))
	assert.Equal(t, "java.util.List", bad.Erasure().Name())

	fine := broken.Method("fine").ReturnType()
	assert.NoError(t, generic.Failure(fine))
}

func TestValidateAll(t *testing.T) {
	u := load(t)

	results, err := u.ValidateAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, len(u.Types()))

	invalid := map[string]error{}
	for i, r := range results {
		assert.Same(t, u.Types()[i], r.Type)
		if r.Err != nil {
			invalid[r.Type.Name()] = r.Err
		}
	}
	require.Len(t, invalid, 2, "%v", invalid)
	assert.ErrorContains(t, invalid["demo.Cyclic"], "bounded by a cycle")
	var malformedErr *generic.MalformedSignatureError
	assert.ErrorAs(t, invalid["demo.Broken"], &malformedErr)

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := u.ValidateAll(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		toml string
		err  string
	}{
		{"unnamed", `[[types]]`, "without a name"},
		{"duplicate", "[[types]]\nname = \"a.A\"\n[[types]]\nname = \"a.A\"", "a.A: declared twice"},
		{"unknown kind", "[[types]]\nname = \"a.A\"\nkind = \"enum\"", `unknown kind "enum"`},
		{"unknown declaring", "[[types]]\nname = \"a.A$B\"\ndeclaring = \"a.A\"", "unknown declaring type a.A"},
		{"member name", "[[types]]\nname = \"a.A\"\n[[types]]\nname = \"a.B\"\ndeclaring = \"a.A\"", "member types are named a.A$Name"},
		{"unknown target", "[[types]]\nname = \"a.A\"\nkind = \"annotation\"\ntargets = [\"nowhere\"]", "unknown element type"},
		{"targets on class", "[[types]]\nname = \"a.A\"\ntargets = [\"type\"]", "only annotation types have targets"},
		{"unknown annotation", "[[types]]\nname = \"a.A\"\nannotations = [\"a.Missing\"]", "unknown annotation type a.Missing"},
		{"not an annotation", "[[types]]\nname = \"a.A\"\nannotations = [\"java.lang.Object\"]", "java.lang.Object is not an annotation type"},
		{"unknown super", "[[types]]\nname = \"a.A\"\nsuper = \"a.Missing\"", "unknown super class a.Missing"},
		{"unknown raw field type", "[[types]]\nname = \"a.A\"\n[[types.fields]]\nname = \"f\"\nsignature = \"L;\"\ntype = \"a.Missing\"", "a.A.f: unknown type a.Missing"},
		{
			"undeclared variable annotations",
			"[[types]]\nname = \"a.P\"\nkind = \"annotation\"\ntargets = [\"type-parameter\"]\n[[types]]\nname = \"a.A\"\nvariable_annotations = { T = [\"a.P\"] }",
			"annotations for undeclared type variable T",
		},
		{"syntax", "[[types]\n", "parsing universe"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(context.Background(), tc.toml)
			assert.ErrorContains(t, err, tc.err)
		})
	}
}

func TestDecodeLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ioctx.LoggerToContext(context.Background(), logger)

	u, err := Decode(ctx, "[[types]]\nname = \"a.A\"\nsignature = \"<T>\"\ncolour = \"red\"")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "unknown key")
	assert.Contains(t, buf.String(), "malformed class signature")
	assert.Contains(t, buf.String(), "loaded universe")

	a := lookup(t, u, "a.A")
	require.Error(t, generic.Failure(a.SuperClass()))
	assert.Same(t, generic.Object, a.SuperClass().Erasure())
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Empty(t, path)

	config := filepath.Join(root, ConfigName)
	require.NoError(t, os.WriteFile(config, []byte("types = []\n"), 0o644))
	path, err = FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, config, path)

	require.NoError(t, os.Mkdir(filepath.Join(root, "a", ".git"), 0o755))
	path, err = FindConfig(nested)
	require.NoError(t, err)
	assert.Empty(t, path, "search stops at the repository root")
}
