package generic

import (
	"fmt"
	"slices"
	"weak"
)

// TypeVariableSource is a declaration that can declare type variables: a
// type or a method.
type TypeVariableSource interface {
	TypeVariables() []Node
	FindVariable(symbol string) Node
	EnclosingSource() TypeVariableSource
	IsGenerified() bool
	fmt.Stringer

	declares(symbol string) bool
	boundsOf(symbol string) ([]Node, error)
	variableAnnotations(symbol string) Annotations
	attachTarget() *Type
}

// Field is a field declaration. Its type is stored as a detached token.
type Field struct {
	name      string
	declaring *Type
	typ       Node
}

func (f *Field) Name() string         { return f.name }
func (f *Field) DeclaringType() *Type { return f.declaring }
func (f *Field) String() string       { return f.declaring.name + "." + f.name }

// Type returns the field type as seen from its declaring type.
func (f *Field) Type() Node {
	if f.typ.failure() != nil {
		return f.typ
	}
	return mustAttach(f.typ, AttachToField(f))
}

// Method is a method declaration, which may declare its own type variables.
type Method struct {
	name       string
	declaring  *Type
	variables  []TypeVariableToken
	returnType Node
	parameters []Node
	exceptions []Node
}

var _ TypeVariableSource = (*Method)(nil)

func (m *Method) Name() string         { return m.name }
func (m *Method) DeclaringType() *Type { return m.declaring }
func (m *Method) String() string       { return m.declaring.name + "." + m.name + "()" }

// WithTypeVariables declares method type variables with the default bound.
func (m *Method) WithTypeVariables(symbols ...string) *Method {
	for _, s := range symbols {
		m.variables = append(m.variables, TypeVariableToken{Symbol: s})
	}
	return m
}

func (m *Method) Bound(symbol string, bounds ...Node) *Method {
	v := variableToken(m.variables, symbol)
	if v == nil {
		panic(illegalArgument("%s does not declare %s", m, symbol))
	}
	v.Bounds = nil
	for _, b := range bounds {
		v.Bounds = append(v.Bounds, detachFrom(m.declaring, b))
	}
	return m
}

func (m *Method) AnnotateVariable(symbol string, annotations ...Annotation) *Method {
	v := variableToken(m.variables, symbol)
	if v == nil {
		panic(illegalArgument("%s does not declare %s", m, symbol))
	}
	v.Annotations = append(v.Annotations, annotations...)
	return m
}

func (m *Method) Returns(n Node) *Method {
	m.returnType = detachFrom(m.declaring, n)
	return m
}

func (m *Method) Parameters(ns ...Node) *Method {
	for _, n := range ns {
		m.parameters = append(m.parameters, detachFrom(m.declaring, n))
	}
	return m
}

func (m *Method) Throws(ns ...Node) *Method {
	for _, n := range ns {
		m.exceptions = append(m.exceptions, detachFrom(m.declaring, n))
	}
	return m
}

func (m *Method) attach(token Node) Node {
	if token.failure() != nil {
		return token
	}
	return mustAttach(token, AttachToMethod(m))
}

func (m *Method) attachAll(tokens []Node) []Node {
	nodes := make([]Node, len(tokens))
	for i, token := range tokens {
		nodes[i] = m.attach(token)
	}
	return nodes
}

// ReturnType returns the return type as seen from the method.
func (m *Method) ReturnType() Node { return m.attach(m.returnType) }

func (m *Method) ParameterTypes() []Node { return m.attachAll(m.parameters) }

func (m *Method) ExceptionTypes() []Node { return m.attachAll(m.exceptions) }

func (m *Method) TypeVariables() []Node {
	return variablesOf(m, m.variables)
}

func (m *Method) TypeVariableTokens() []TypeVariableToken {
	return slices.Clone(m.variables)
}

// FindVariable returns the nearest declaration of symbol: the method's own
// variables shadow those of the declaring type.
func (m *Method) FindVariable(symbol string) Node {
	return findVariable(m, symbol)
}

func (m *Method) EnclosingSource() TypeVariableSource {
	return m.declaring
}

func (m *Method) IsGenerified() bool {
	return len(m.variables) > 0 || m.declaring.IsGenerified()
}

func (m *Method) declares(symbol string) bool {
	return variableToken(m.variables, symbol) != nil
}

func (m *Method) boundsOf(symbol string) ([]Node, error) {
	return boundsOf(m, m.variables, symbol, AttachToMethod(m))
}

func (m *Method) variableAnnotations(symbol string) Annotations {
	if v := variableToken(m.variables, symbol); v != nil {
		return v.Annotations
	}
	return nil
}

func (m *Method) attachTarget() *Type { return m.declaring }

// sourceRef identifies the declaring source of a variable without keeping
// it alive.
type sourceRef struct {
	typ    weak.Pointer[Type]
	method weak.Pointer[Method]
}

func refOf(s TypeVariableSource) sourceRef {
	switch s := s.(type) {
	case *Type:
		return sourceRef{typ: weak.Make(s)}
	case *Method:
		return sourceRef{method: weak.Make(s)}
	}
	return sourceRef{}
}

func (r sourceRef) resolve() TypeVariableSource {
	if t := r.typ.Value(); t != nil {
		return t
	}
	if m := r.method.Value(); m != nil {
		return m
	}
	return nil
}

func variablesOf(s TypeVariableSource, tokens []TypeVariableToken) []Node {
	ref := refOf(s)
	vars := make([]Node, len(tokens))
	for i, v := range tokens {
		vars[i] = newVariable(v.Symbol, ref, v.Annotations)
	}
	return vars
}

func findVariable(s TypeVariableSource, symbol string) Node {
	for ; s != nil; s = s.EnclosingSource() {
		if s.declares(symbol) {
			return newVariable(symbol, refOf(s), s.variableAnnotations(symbol))
		}
	}
	return nil
}

func boundsOf(s TypeVariableSource, tokens []TypeVariableToken, symbol string, attachment Visitor[Node]) ([]Node, error) {
	v := variableToken(tokens, symbol)
	if v == nil {
		return nil, &UnknownVariableError{Symbol: symbol, Source: s.String()}
	}
	if len(v.Bounds) == 0 {
		return []Node{Describe(Object)}, nil
	}
	bounds := make([]Node, len(v.Bounds))
	for i, token := range v.Bounds {
		if token.failure() != nil {
			bounds[i] = token
			continue
		}
		b, err := Accept(token, attachment)
		if err != nil {
			return nil, err
		}
		bounds[i] = b
	}
	return bounds, nil
}

func mustAttach(token Node, attachment Visitor[Node]) Node {
	n, err := Accept(token, attachment)
	if err != nil {
		panic(err)
	}
	return n
}
