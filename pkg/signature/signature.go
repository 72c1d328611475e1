// Package signature reads stored generic signatures, in the grammar class
// files use, into detached tokens of the generic type model.
//
// A signature names classes by their binary names ("java/util/Map$Entry" or
// "java/util/Map<TK;TV;>.Entry"); a Resolver maps the dotted form
// ("java.util.Map$Entry") to a declared type. Type variables become
// detached symbols, so the results can be stored on a declaration and
// attached later.
package signature

import (
	"github.com/pkg/errors"

	"github.com/vito/generics/pkg/generic"
)

// Resolver looks up a declared type by its dotted binary name.
type Resolver func(name string) (*generic.Type, bool)

// Class is the generic part of a class declaration.
type Class struct {
	TypeVariables []generic.TypeVariableToken
	SuperClass    generic.Node
	Interfaces    []generic.Node
}

// ParseClass reads a class signature:
//
//	<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Comparable<TT;>;
func ParseClass(sig string, resolve Resolver) (*Class, error) {
	p := &parser{sig: sig}
	params, err := p.typeParameters()
	if err != nil {
		return nil, errors.Wrap(err, "class signature")
	}
	super, err := p.classType()
	if err != nil {
		return nil, errors.Wrap(err, "class signature")
	}
	var interfaces []typeSig
	for !p.eof() {
		i, err := p.classType()
		if err != nil {
			return nil, errors.Wrap(err, "class signature")
		}
		interfaces = append(interfaces, i)
	}

	b := builder{sig: sig, resolve: resolve}
	class := &Class{}
	if class.TypeVariables, err = b.typeVariables(params); err != nil {
		return nil, errors.Wrap(err, "class signature")
	}
	if class.SuperClass, err = b.build(super, nil); err != nil {
		return nil, errors.Wrap(err, "super class")
	}
	for i, s := range interfaces {
		n, err := b.build(s, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "interface %d", i)
		}
		class.Interfaces = append(class.Interfaces, n)
	}
	return class, nil
}

// ParseMethod reads a method signature into a token named name:
//
//	<T:Ljava/lang/Object;>(TT;I)Ljava/util/List<TT;>;^Ljava/io/IOException;
func ParseMethod(name, sig string, resolve Resolver) (generic.MethodToken, error) {
	token := generic.MethodToken{Name: name}
	p := &parser{sig: sig}
	params, err := p.typeParameters()
	if err != nil {
		return token, errors.Wrapf(err, "method %s", name)
	}
	if err := p.expect('('); err != nil {
		return token, errors.Wrapf(err, "method %s", name)
	}
	var parameters []typeSig
	for p.peek() != ')' {
		param, err := p.javaType()
		if err != nil {
			return token, errors.Wrapf(err, "method %s", name)
		}
		parameters = append(parameters, param)
	}
	p.pos++
	var result typeSig
	if p.peek() == 'V' {
		result = baseSig{at: p.pos, t: generic.Void}
		p.pos++
	} else if result, err = p.javaType(); err != nil {
		return token, errors.Wrapf(err, "method %s", name)
	}
	var exceptions []typeSig
	for p.peek() == '^' {
		p.pos++
		var exception typeSig
		if p.peek() == 'T' {
			exception, err = p.typeVariable()
		} else {
			exception, err = p.classType()
		}
		if err != nil {
			return token, errors.Wrapf(err, "method %s", name)
		}
		exceptions = append(exceptions, exception)
	}
	if err := p.done(); err != nil {
		return token, errors.Wrapf(err, "method %s", name)
	}

	b := builder{sig: sig, resolve: resolve}
	if token.TypeVariables, err = b.typeVariables(params); err != nil {
		return token, errors.Wrapf(err, "method %s", name)
	}
	if token.Parameters, err = b.buildAll(parameters); err != nil {
		return token, errors.Wrapf(err, "method %s", name)
	}
	if token.Return, err = b.build(result, nil); err != nil {
		return token, errors.Wrapf(err, "method %s", name)
	}
	if token.Exceptions, err = b.buildAll(exceptions); err != nil {
		return token, errors.Wrapf(err, "method %s", name)
	}
	return token, nil
}

// ParseField reads the signature of a field type. Type annotations are
// taken from annotations, which may be nil.
func ParseField(sig string, resolve Resolver, annotations generic.AnnotationReader) (generic.Node, error) {
	n, err := ParseType(sig, resolve, annotations)
	if err != nil {
		return nil, errors.Wrap(err, "field signature")
	}
	return n, nil
}

// ParseType reads a single type signature, including primitive types.
func ParseType(sig string, resolve Resolver, annotations generic.AnnotationReader) (generic.Node, error) {
	p := &parser{sig: sig}
	s, err := p.javaType()
	if err != nil {
		return nil, err
	}
	if err := p.done(); err != nil {
		return nil, err
	}
	b := builder{sig: sig, resolve: resolve}
	return b.build(s, annotations)
}

// TypeVariableSymbols returns the symbols a class or method signature
// declares, without resolving any names. Declarations that refer to each
// other are registered with their symbols before any bound is parsed.
func TypeVariableSymbols(sig string) ([]string, error) {
	p := &parser{sig: sig}
	params, err := p.typeParameters()
	if err != nil {
		return nil, errors.Wrap(err, "type parameters")
	}
	symbols := make([]string, len(params))
	for i, param := range params {
		symbols[i] = param.symbol
	}
	return symbols, nil
}

// IsSyntaxError reports whether err is caused by a signature that does not
// follow the grammar, as opposed to one naming unknown types.
func IsSyntaxError(err error) bool {
	var syntaxErr *SyntaxError
	return errors.As(err, &syntaxErr)
}
