// Package typeset loads a universe of type declarations from a TOML file.
package typeset

import (
	"context"
	"log/slog"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"

	"github.com/vito/generics/pkg/generic"
	"github.com/vito/generics/pkg/ioctx"
	"github.com/vito/generics/pkg/signature"
)

// Universe is a closed set of declared types, including the builtins.
type Universe struct {
	types    map[string]*generic.Type
	declared []*generic.Type
}

// New returns a universe holding only the builtin types.
func New() *Universe {
	u := &Universe{types: map[string]*generic.Type{}}
	for _, t := range generic.Builtins() {
		u.types[t.Name()] = t
	}
	return u
}

// Lookup finds a type by name. Array types are named by their component
// followed by "[]".
func (u *Universe) Lookup(name string) (*generic.Type, bool) {
	if component, ok := strings.CutSuffix(name, "[]"); ok {
		c, ok := u.Lookup(component)
		if !ok {
			return nil, false
		}
		return generic.ArrayType(c), true
	}
	t, ok := u.types[name]
	return t, ok
}

// Types returns the declared types in declaration order, without builtins.
func (u *Universe) Types() []*generic.Type {
	return append([]*generic.Type(nil), u.declared...)
}

// ParseType reads a type signature such as "Ljava/util/List<TT;>;". When
// site is not empty the result is attached to the type named site;
// otherwise type variables stay detached.
func (u *Universe) ParseType(sig, site string) (generic.Node, error) {
	n, err := signature.ParseType(sig, u.Lookup, nil)
	if err != nil {
		return nil, err
	}
	if site == "" {
		return n, nil
	}
	t, ok := u.Lookup(site)
	if !ok {
		return nil, errors.Errorf("unknown type %s", site)
	}
	return generic.Attach(n, t)
}

// Build declares every type of file. Declarations are read in passes so
// that any declaration may refer to any other: types are created first,
// then their type variables, then super types and bounds, then members.
//
// A signature that cannot be read does not fail the build: the affected
// declaration gets a malformed node that keeps its raw type.
func Build(ctx context.Context, file File) (*Universe, error) {
	u := New()
	l := loader{
		universe: u,
		logger:   ioctx.LoggerFromContext(ctx),
		decls:    map[*generic.Type]TypeDecl{},
	}
	if err := l.declareTypes(file.Types); err != nil {
		return nil, err
	}
	for _, t := range u.declared {
		l.declareVariables(t)
	}
	for _, t := range u.declared {
		if err := l.declareSupers(t); err != nil {
			return nil, err
		}
	}
	for _, t := range u.declared {
		if err := l.declareMembers(t); err != nil {
			return nil, err
		}
	}
	l.logger.Debug("loaded universe", "types", len(u.declared))
	return u, nil
}

type loader struct {
	universe *Universe
	logger   *slog.Logger
	decls    map[*generic.Type]TypeDecl
}

// declareTypes creates the raw types. Member types wait for their
// declaring type.
func (l *loader) declareTypes(decls []TypeDecl) error {
	pending := decls
	for len(pending) > 0 {
		var next []TypeDecl
		for _, d := range pending {
			if d.Declaring != "" {
				if _, ok := l.universe.types[d.Declaring]; !ok {
					next = append(next, d)
					continue
				}
			}
			if err := l.declareType(d); err != nil {
				return err
			}
		}
		if len(next) == len(pending) {
			return errors.Errorf("%s: unknown declaring type %s", next[0].Name, next[0].Declaring)
		}
		pending = next
	}
	return nil
}

func (l *loader) declareType(d TypeDecl) error {
	if d.Name == "" {
		return errors.New("type declaration without a name")
	}
	if _, ok := l.universe.types[d.Name]; ok {
		return errors.Errorf("%s: declared twice", d.Name)
	}
	kind, err := parseKind(d.Kind)
	if err != nil {
		return errors.Wrap(err, d.Name)
	}
	var targets []generic.ElementType
	for _, name := range d.Targets {
		target, err := generic.ParseElementType(strcase.ToScreamingSnake(name))
		if err != nil {
			return errors.Wrap(err, d.Name)
		}
		targets = append(targets, target)
	}
	if len(targets) > 0 && kind != generic.KindAnnotation {
		return errors.Errorf("%s: only annotation types have targets", d.Name)
	}

	var t *generic.Type
	if d.Declaring != "" {
		outer := l.universe.types[d.Declaring]
		simple, ok := strings.CutPrefix(d.Name, outer.Name()+"$")
		if !ok {
			return errors.Errorf("%s: member types are named %s$Name", d.Name, outer.Name())
		}
		t = generic.NewMemberType(outer, simple, kind, d.Static)
	} else {
		switch kind {
		case generic.KindInterface:
			t = generic.NewInterface(d.Name)
		case generic.KindAnnotation:
			t = generic.NewAnnotationType(d.Name)
		default:
			t = generic.NewClass(d.Name)
		}
	}
	if kind == generic.KindAnnotation {
		t.WithTargets(targets...)
	}

	l.universe.types[d.Name] = t
	l.universe.declared = append(l.universe.declared, t)
	l.decls[t] = d
	l.logger.Debug("declared type", "name", d.Name, "kind", d.Kind)
	return nil
}

func parseKind(kind string) (generic.Kind, error) {
	switch strcase.ToKebab(kind) {
	case "", "class":
		return generic.KindClass, nil
	case "interface":
		return generic.KindInterface, nil
	case "annotation", "annotation-type":
		return generic.KindAnnotation, nil
	}
	return 0, errors.Errorf("unknown kind %q", kind)
}

// declareVariables registers the type variable symbols only, so bounds
// may refer to variables declared later and to other types' variables.
func (l *loader) declareVariables(t *generic.Type) {
	d := l.decls[t]
	if d.Signature == "" {
		return
	}
	symbols, err := signature.TypeVariableSymbols(d.Signature)
	if err != nil {
		// reported when the full signature is read
		return
	}
	t.WithTypeVariables(symbols...)
}

func (l *loader) declareSupers(t *generic.Type) error {
	d := l.decls[t]
	for _, name := range d.Annotations {
		a, err := l.annotation(name)
		if err != nil {
			return errors.Wrap(err, d.Name)
		}
		t.Annotate(a)
	}

	if d.Signature == "" {
		return l.declareRawSupers(t, nil)
	}
	class, err := signature.ParseClass(d.Signature, l.universe.Lookup)
	if err != nil {
		l.logger.Debug("malformed class signature", "type", d.Name, "error", err)
		return l.declareRawSupers(t, err)
	}
	for _, v := range class.TypeVariables {
		if len(v.Bounds) > 0 {
			t.Bound(v.Symbol, v.Bounds...)
		}
	}
	if t.Kind() == generic.KindClass {
		t.Extends(class.SuperClass)
	}
	t.Implements(class.Interfaces...)
	return l.annotateVariables(t)
}

// declareRawSupers declares the raw super types of d. When cause is set the
// signature could not be read and the super class becomes malformed.
func (l *loader) declareRawSupers(t *generic.Type, cause error) error {
	d := l.decls[t]
	super := generic.Object
	if d.Super != "" {
		s, ok := l.universe.Lookup(d.Super)
		if !ok {
			return errors.Errorf("%s: unknown super class %s", d.Name, d.Super)
		}
		super = s
	}
	switch {
	case cause != nil:
		t.Extends(generic.Malformed(super, cause))
	case d.Super != "":
		t.Extends(generic.Describe(super))
	}
	for _, name := range d.Interfaces {
		i, ok := l.universe.Lookup(name)
		if !ok {
			return errors.Errorf("%s: unknown interface %s", d.Name, name)
		}
		t.Implements(generic.Describe(i))
	}
	if cause == nil {
		return l.annotateVariables(t)
	}
	return nil
}

func (l *loader) annotateVariables(t *generic.Type) error {
	d := l.decls[t]
	for symbol, names := range d.VariableAnnotations {
		if t.FindVariable(symbol) == nil || t.FindVariable(symbol).VariableSource() != t {
			return errors.Errorf("%s: annotations for undeclared type variable %s", d.Name, symbol)
		}
		as, err := l.annotations(names)
		if err != nil {
			return errors.Wrap(err, d.Name)
		}
		t.AnnotateVariable(symbol, as...)
	}
	return nil
}

func (l *loader) declareMembers(t *generic.Type) error {
	d := l.decls[t]
	for _, f := range d.Fields {
		reader, err := l.typeAnnotations(f.TypeAnnotations)
		if err != nil {
			return errors.Wrapf(err, "%s.%s", d.Name, f.Name)
		}
		typ, err := signature.ParseField(f.Signature, l.universe.Lookup, reader)
		if err != nil {
			l.logger.Debug("malformed field signature", "field", d.Name+"."+f.Name, "error", err)
			raw, lookupErr := l.rawType(f.Type)
			if lookupErr != nil {
				return errors.Wrapf(lookupErr, "%s.%s", d.Name, f.Name)
			}
			typ = generic.Malformed(raw, err)
		}
		t.DeclareFieldFromToken(generic.FieldToken{Name: f.Name, Type: typ})
	}
	for _, m := range d.Methods {
		token, err := signature.ParseMethod(m.Name, m.Signature, l.universe.Lookup)
		if err != nil {
			l.logger.Debug("malformed method signature", "method", d.Name+"."+m.Name, "error", err)
			raw, lookupErr := l.rawType(m.Returns)
			if lookupErr != nil {
				return errors.Wrapf(lookupErr, "%s.%s", d.Name, m.Name)
			}
			token = generic.MethodToken{Name: m.Name, Return: generic.Malformed(raw, err)}
		}
		t.DeclareMethodFromToken(token)
	}
	return nil
}

// rawType looks up the raw fallback of a malformed member, Object by
// default.
func (l *loader) rawType(name string) (*generic.Type, error) {
	if name == "" {
		return generic.Object, nil
	}
	t, ok := l.universe.Lookup(name)
	if !ok {
		return nil, errors.Errorf("unknown type %s", name)
	}
	return t, nil
}

func (l *loader) annotation(name string) (generic.Annotation, error) {
	t, ok := l.universe.Lookup(name)
	if !ok {
		return generic.Annotation{}, errors.Errorf("unknown annotation type %s", name)
	}
	if !t.IsAnnotation() {
		return generic.Annotation{}, errors.Errorf("%s is not an annotation type", name)
	}
	return generic.Of(t, nil), nil
}

func (l *loader) annotations(names []string) (generic.Annotations, error) {
	var as generic.Annotations
	for _, name := range names {
		a, err := l.annotation(name)
		if err != nil {
			return nil, err
		}
		as = append(as, a)
	}
	return as, nil
}

func (l *loader) typeAnnotations(paths map[string][]string) (generic.AnnotationReader, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	table := make(map[string]generic.Annotations, len(paths))
	for path, names := range paths {
		as, err := l.annotations(names)
		if err != nil {
			return nil, err
		}
		table[path] = as
	}
	return generic.NewPathAnnotations(table), nil
}
