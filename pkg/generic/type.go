package generic

import (
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Kind is the erasure-level category of a declared type.
type Kind uint8

const (
	KindClass Kind = iota
	KindInterface
	KindAnnotation
	KindPrimitive
	KindArray
)

// TypeVariableToken is a type variable declaration whose bounds are detached
// tokens.
type TypeVariableToken struct {
	Symbol      string
	Bounds      []Node
	Annotations Annotations
}

// Type is the erasure-level description of a declared type: the raw type
// system the generic model is layered on.
//
// Generic information is stored as detached tokens and attached to the
// declaration whenever it is read, so a bound may mention the type being
// declared, or a variable declared later in the same list, without any
// placeholder. A Type is assembled with its builder methods before it is
// shared; it must not be modified afterwards.
type Type struct {
	name        string
	kind        Kind
	component   *Type
	declaring   *Type
	enclosing   *Method
	static      bool
	superClass  Node
	interfaces  []Node
	variables   []TypeVariableToken
	fields      []*Field
	methods     []*Method
	annotations Annotations
	targets     *set.Set[ElementType]
}

var _ TypeVariableSource = (*Type)(nil)

var (
	Object       = NewClass("java.lang.Object")
	Cloneable    = NewInterface("java.lang.Cloneable")
	Serializable = NewInterface("java.io.Serializable")
	Throwable    = NewClass("java.lang.Throwable")

	Boolean = primitive("boolean")
	Byte    = primitive("byte")
	Short   = primitive("short")
	Char    = primitive("char")
	Int     = primitive("int")
	Long    = primitive("long")
	Float   = primitive("float")
	Double  = primitive("double")
	Void    = primitive("void")

	// TargetType stands in for the declaring type inside a detached token.
	TargetType = NewClass("generic.TargetType")
)

func init() {
	Throwable.Implements(Describe(Serializable))
}

// Primitives lists the primitive types, including void.
func Primitives() []*Type {
	return []*Type{Boolean, Byte, Short, Char, Int, Long, Float, Double, Void}
}

// Builtins lists the predefined types every universe starts with.
func Builtins() []*Type {
	return append([]*Type{Object, Cloneable, Serializable, Throwable}, Primitives()...)
}

func primitive(name string) *Type {
	return &Type{name: name, kind: KindPrimitive}
}

func NewClass(name string) *Type {
	return &Type{name: name, kind: KindClass}
}

func NewInterface(name string) *Type {
	return &Type{name: name, kind: KindInterface}
}

// NewAnnotationType declares an annotation type applicable to the given
// locations.
func NewAnnotationType(name string, targets ...ElementType) *Type {
	return &Type{name: name, kind: KindAnnotation, targets: set.From(targets)}
}

// NewMemberType declares a type nested in outer. Interfaces and annotation
// types are always static.
func NewMemberType(outer *Type, simpleName string, kind Kind, static bool) *Type {
	return &Type{
		name:      outer.name + "$" + simpleName,
		kind:      kind,
		declaring: outer,
		static:    static || kind != KindClass,
	}
}

// NewLocalClass declares a class inside the body of m.
func NewLocalClass(m *Method, simpleName string) *Type {
	return &Type{
		name:      m.declaring.name + "$1" + simpleName,
		kind:      KindClass,
		declaring: m.declaring,
		enclosing: m,
	}
}

// ArrayType returns the array type with the given component.
func ArrayType(component *Type) *Type {
	return &Type{name: component.name + "[]", kind: KindArray, component: component}
}

func arrayTypeOf(component *Type, arity int) *Type {
	for range arity {
		component = ArrayType(component)
	}
	return component
}

// Extends sets the super class. Live variables and references to t are
// detached before they are stored.
func (t *Type) Extends(super Node) *Type {
	t.superClass = t.detach(super)
	return t
}

func (t *Type) Implements(interfaces ...Node) *Type {
	for _, i := range interfaces {
		t.interfaces = append(t.interfaces, t.detach(i))
	}
	return t
}

// WithTypeVariables declares type variables with the default bound. Bounds
// are set afterwards with Bound so that they may refer to any of the
// declared symbols.
func (t *Type) WithTypeVariables(symbols ...string) *Type {
	for _, s := range symbols {
		t.variables = append(t.variables, TypeVariableToken{Symbol: s})
	}
	return t
}

// Bound sets the bounds of a declared type variable.
func (t *Type) Bound(symbol string, bounds ...Node) *Type {
	v := variableToken(t.variables, symbol)
	if v == nil {
		panic(illegalArgument("%s does not declare %s", t, symbol))
	}
	v.Bounds = nil
	for _, b := range bounds {
		v.Bounds = append(v.Bounds, t.detach(b))
	}
	return t
}

// AnnotateVariable adds annotations to the declaration of a type variable.
func (t *Type) AnnotateVariable(symbol string, annotations ...Annotation) *Type {
	v := variableToken(t.variables, symbol)
	if v == nil {
		panic(illegalArgument("%s does not declare %s", t, symbol))
	}
	v.Annotations = append(v.Annotations, annotations...)
	return t
}

// Annotate adds declaration annotations to t.
func (t *Type) Annotate(annotations ...Annotation) *Type {
	t.annotations = append(t.annotations, annotations...)
	return t
}

func (t *Type) DeclareField(name string, typ Node) *Field {
	f := &Field{name: name, declaring: t, typ: t.detach(typ)}
	t.fields = append(t.fields, f)
	return f
}

func (t *Type) DeclareMethod(name string) *Method {
	m := &Method{name: name, declaring: t, returnType: Describe(Void)}
	t.methods = append(t.methods, m)
	return m
}

func (t *Type) detach(n Node) Node {
	return detachFrom(t, n)
}

func detachFrom(t *Type, n Node) Node {
	if n == nil || n.failure() != nil {
		return n
	}
	detached, err := Accept(n, ForDetachment(t.Equal, nil))
	if err != nil {
		panic(err)
	}
	return detached
}

func variableToken(tokens []TypeVariableToken, symbol string) *TypeVariableToken {
	for i := range tokens {
		if tokens[i].Symbol == symbol {
			return &tokens[i]
		}
	}
	return nil
}

func (t *Type) Name() string { return t.name }

// SimpleName returns the name without package or enclosing type.
func (t *Type) SimpleName() string {
	if t.component != nil {
		return t.component.SimpleName() + "[]"
	}
	name := t.name
	if i := strings.LastIndexByte(name, '$'); i >= 0 {
		return name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (t *Type) String() string { return t.name }

func (t *Type) Kind() Kind               { return t.kind }
func (t *Type) IsArray() bool            { return t.kind == KindArray }
func (t *Type) IsPrimitive() bool        { return t.kind == KindPrimitive }
func (t *Type) IsInterface() bool        { return t.kind == KindInterface || t.kind == KindAnnotation }
func (t *Type) IsAnnotation() bool       { return t.kind == KindAnnotation }
func (t *Type) ComponentType() *Type     { return t.component }
func (t *Type) DeclaringType() *Type     { return t.declaring }
func (t *Type) EnclosingMethod() *Method { return t.enclosing }

// IsStatic reports whether a member type is independent from instances of
// its declaring type.
func (t *Type) IsStatic() bool {
	return t.declaring == nil || t.static
}

func (t *Type) Annotations() Annotations {
	return slices.Clone(t.annotations)
}

// Targets returns the locations an annotation type may be applied to.
func (t *Type) Targets() *set.Set[ElementType] {
	if t.targets == nil {
		return set.New[ElementType](0)
	}
	return t.targets.Copy()
}

// WithTargets replaces the applicable locations of an annotation type.
func (t *Type) WithTargets(targets ...ElementType) *Type {
	t.targets = set.From(targets)
	return t
}

// Equal compares types by name.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t == o || t.name == o.name
}

// SuperClass returns the generic super class as seen from the declaration
// itself, or nil for Object, interfaces, primitives and arrays. A malformed
// signature yields a node that only answers Erasure.
func (t *Type) SuperClass() Node {
	token := t.superClassToken()
	if token == nil || token.failure() != nil {
		return token
	}
	return mustAttach(token, AttachTo(t))
}

func (t *Type) superClassToken() Node {
	if t.superClass != nil {
		return t.superClass
	}
	if t.kind == KindClass && !t.Equal(Object) {
		return Describe(Object)
	}
	return nil
}

// Interfaces returns the generic interfaces as seen from the declaration.
func (t *Type) Interfaces() []Node {
	interfaces := make([]Node, len(t.interfaces))
	for i, token := range t.interfaces {
		if token.failure() != nil {
			interfaces[i] = token
			continue
		}
		interfaces[i] = mustAttach(token, AttachTo(t))
	}
	return interfaces
}

func (t *Type) TypeVariables() []Node {
	return variablesOf(t, t.variables)
}

func (t *Type) TypeVariableTokens() []TypeVariableToken {
	return slices.Clone(t.variables)
}

func (t *Type) DeclaredFields() []*Field   { return slices.Clone(t.fields) }
func (t *Type) DeclaredMethods() []*Method { return slices.Clone(t.methods) }

func (t *Type) Field(name string) *Field {
	for _, f := range t.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

func (t *Type) Method(name string) *Method {
	for _, m := range t.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

// FindVariable returns the nearest declaration of symbol visible from t.
func (t *Type) FindVariable(symbol string) Node {
	return findVariable(t, symbol)
}

// EnclosingSource returns the method of a local class, the declaring type of
// an inner class, or nil for top-level and static member types.
func (t *Type) EnclosingSource() TypeVariableSource {
	if t.enclosing != nil {
		return t.enclosing
	}
	if t.declaring != nil && !t.static {
		return t.declaring
	}
	return nil
}

// IsGenerified reports whether t declares type variables or is an inner
// type of a generified source.
func (t *Type) IsGenerified() bool {
	if len(t.variables) > 0 {
		return true
	}
	if s := t.EnclosingSource(); s != nil {
		return s.IsGenerified()
	}
	return false
}

func (t *Type) declares(symbol string) bool {
	return variableToken(t.variables, symbol) != nil
}

func (t *Type) boundsOf(symbol string) ([]Node, error) {
	return boundsOf(t, t.variables, symbol, AttachTo(t))
}

func (t *Type) variableAnnotations(symbol string) Annotations {
	if v := variableToken(t.variables, symbol); v != nil {
		return v.Annotations
	}
	return nil
}

func (t *Type) attachTarget() *Type { return t }

// IsAssignableTo reports whether a value of the erasure t can be assigned to
// a variable of the erasure o.
func (t *Type) IsAssignableTo(o *Type) bool {
	if t.Equal(o) {
		return true
	}
	if t.IsPrimitive() || o.IsPrimitive() {
		return false
	}
	if o.Equal(Object) {
		return true
	}
	if t.IsArray() {
		if o.IsArray() {
			return t.component.IsAssignableTo(o.component)
		}
		return o.Equal(Cloneable) || o.Equal(Serializable)
	}
	if o.IsArray() {
		return false
	}
	return t.isSubtypeOf(o, set.New[string](8))
}

func (t *Type) IsAssignableFrom(o *Type) bool {
	return o.IsAssignableTo(t)
}

func (t *Type) isSubtypeOf(o *Type, seen *set.Set[string]) bool {
	if !seen.Insert(t.name) {
		return false
	}
	for _, s := range t.rawSupers() {
		if s.Equal(o) || s.isSubtypeOf(o, seen) {
			return true
		}
	}
	return false
}

// rawSupers returns the erasures of the direct super types. Erasures stay
// available even when the generic signature is malformed.
func (t *Type) rawSupers() []*Type {
	var supers []*Type
	if token := t.superClassToken(); token != nil {
		supers = append(supers, resolveTarget(token.Erasure(), t))
	}
	for _, token := range t.interfaces {
		supers = append(supers, resolveTarget(token.Erasure(), t))
	}
	return supers
}

// resolveTarget replaces TargetType, also as an array component, with t.
func resolveTarget(e *Type, t *Type) *Type {
	if e.IsArray() {
		component := resolveTarget(e.component, t)
		if component == e.component {
			return e
		}
		return ArrayType(component)
	}
	if e.Equal(TargetType) {
		return t
	}
	return e
}
