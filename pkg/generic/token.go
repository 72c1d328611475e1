package generic

import "strings"

// FieldToken is a field declaration independent of any declaring type.
type FieldToken struct {
	Name string
	Type Node
}

// MethodToken is a method declaration independent of any declaring type.
type MethodToken struct {
	Name          string
	TypeVariables []TypeVariableToken
	Return        Node
	Parameters    []Node
	Exceptions    []Node
}

// AsToken detaches the field type. Types accepted by matchType become
// TargetType.
func (f *Field) AsToken(matchType func(*Type) bool) (FieldToken, error) {
	t, err := detachToken(f.Type(), matchType)
	if err != nil {
		return FieldToken{}, err
	}
	return FieldToken{Name: f.name, Type: t}, nil
}

// AsToken detaches the signature of m. Types accepted by matchType become
// TargetType.
func (m *Method) AsToken(matchType func(*Type) bool) (MethodToken, error) {
	token := MethodToken{Name: m.name}
	for _, v := range m.TypeVariables() {
		bounds, err := m.boundsOf(v.Symbol())
		if err != nil {
			return token, err
		}
		detached, err := detachTokens(bounds, matchType)
		if err != nil {
			return token, err
		}
		token.TypeVariables = append(token.TypeVariables, TypeVariableToken{
			Symbol:      v.Symbol(),
			Bounds:      detached,
			Annotations: v.Annotations(),
		})
	}
	var err error
	if token.Return, err = detachToken(m.ReturnType(), matchType); err != nil {
		return token, err
	}
	if token.Parameters, err = detachTokens(m.ParameterTypes(), matchType); err != nil {
		return token, err
	}
	if token.Exceptions, err = detachTokens(m.ExceptionTypes(), matchType); err != nil {
		return token, err
	}
	return token, nil
}

func detachToken(n Node, matchType func(*Type) bool) (Node, error) {
	if n.failure() != nil {
		return n, nil
	}
	return Accept(n, ForDetachment(matchType, nil))
}

func detachTokens(ns []Node, matchType func(*Type) bool) ([]Node, error) {
	tokens := make([]Node, len(ns))
	for i, n := range ns {
		t, err := detachToken(n, matchType)
		if err != nil {
			return nil, err
		}
		tokens[i] = t
	}
	return tokens, nil
}

// DeclareFieldFromToken declares a field of t from a token. TargetType
// in the token refers to t.
func (t *Type) DeclareFieldFromToken(token FieldToken) *Field {
	f := &Field{name: token.Name, declaring: t, typ: token.Type}
	t.fields = append(t.fields, f)
	return f
}

// DeclareMethodFromToken declares a method of t from a token.
func (t *Type) DeclareMethodFromToken(token MethodToken) *Method {
	m := &Method{
		name:       token.Name,
		declaring:  t,
		variables:  token.TypeVariables,
		returnType: token.Return,
		parameters: token.Parameters,
		exceptions: token.Exceptions,
	}
	if m.returnType == nil {
		m.returnType = Describe(Void)
	}
	t.methods = append(t.methods, m)
	return m
}

// SignatureToken is the erased signature of a method.
type SignatureToken struct {
	Name       string
	Return     *Type
	Parameters []*Type
}

func (s SignatureToken) String() string {
	params := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		params[i] = p.name
	}
	return s.Return.name + " " + s.Name + "(" + strings.Join(params, ", ") + ")"
}

// Signature reduces the token to its erased signature when declared by
// declaring.
func (token MethodToken) Signature(declaring *Type) (SignatureToken, error) {
	r := Reducing{Declaring: declaring, Variables: token.TypeVariables}
	sig := SignatureToken{Name: token.Name, Return: Void}
	if token.Return != nil {
		ret, err := reduce(token.Return, r)
		if err != nil {
			return sig, err
		}
		sig.Return = ret
	}
	for _, p := range token.Parameters {
		t, err := reduce(p, r)
		if err != nil {
			return sig, err
		}
		sig.Parameters = append(sig.Parameters, t)
	}
	return sig, nil
}

func reduce(n Node, r Reducing) (*Type, error) {
	if n.failure() != nil {
		return n.Erasure(), nil
	}
	return Accept[*Type](n, r)
}
