package signature

import (
	"fmt"
	"strings"

	"github.com/vito/generics/pkg/generic"
)

// SyntaxError reports a signature that does not follow the grammar.
type SyntaxError struct {
	Signature string
	Offset    int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d in %q", e.Msg, e.Offset, e.Signature)
}

// UnresolvedTypeError reports a class name the resolver does not know.
type UnresolvedTypeError struct {
	Name string
}

func (e UnresolvedTypeError) Error() string {
	return fmt.Sprintf("unresolved type: %s", e.Name)
}

// The parser first reads a signature into the syntax below; names are only
// resolved afterwards, once the owner chain of every class type is known.

type typeSig interface {
	offset() int
}

type baseSig struct {
	at int
	t  *generic.Type
}

type varSig struct {
	at     int
	symbol string
}

type arraySig struct {
	at        int
	component typeSig
}

type classSig struct {
	at       int
	segments []segmentSig
}

type segmentSig struct {
	name string
	args []argSig
}

// argSig is a type argument. wildcard is 0 for a plain argument, or one of
// '*', '+' and '-'.
type argSig struct {
	wildcard byte
	bound    typeSig
}

type paramSig struct {
	symbol string
	bounds []typeSig
}

func (s baseSig) offset() int  { return s.at }
func (s varSig) offset() int   { return s.at }
func (s arraySig) offset() int { return s.at }
func (s classSig) offset() int { return s.at }

var baseTypes = map[byte]*generic.Type{
	'B': generic.Byte,
	'C': generic.Char,
	'D': generic.Double,
	'F': generic.Float,
	'I': generic.Int,
	'J': generic.Long,
	'S': generic.Short,
	'Z': generic.Boolean,
}

type parser struct {
	sig string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.sig) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.sig[p.pos]
}

func (p *parser) failf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Signature: p.sig, Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		if p.eof() {
			return p.failf("expected %q, found end of signature", c)
		}
		return p.failf("expected %q, found %q", c, p.peek())
	}
	p.pos++
	return nil
}

func (p *parser) done() error {
	if !p.eof() {
		return p.failf("unexpected %q", p.peek())
	}
	return nil
}

func (p *parser) identifier() (string, error) {
	start := p.pos
	for !p.eof() && !strings.ContainsRune(";<>.:/[", rune(p.peek())) {
		p.pos++
	}
	if p.pos == start {
		return "", p.failf("expected identifier")
	}
	return p.sig[start:p.pos], nil
}

// typeParameters reads an optional "<T:bound:bound...>" list.
func (p *parser) typeParameters() ([]paramSig, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var params []paramSig
	for p.peek() != '>' {
		symbol, err := p.identifier()
		if err != nil {
			return nil, err
		}
		param := paramSig{symbol: symbol}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		// the class bound may be omitted when only interface bounds follow
		if c := p.peek(); c != ':' && c != '>' {
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			param.bounds = append(param.bounds, bound)
		}
		for p.peek() == ':' {
			p.pos++
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			param.bounds = append(param.bounds, bound)
		}
		params = append(params, param)
	}
	if len(params) == 0 {
		return nil, p.failf("empty type parameter list")
	}
	p.pos++
	return params, nil
}

func (p *parser) javaType() (typeSig, error) {
	if t, ok := baseTypes[p.peek()]; ok {
		s := baseSig{at: p.pos, t: t}
		p.pos++
		return s, nil
	}
	return p.referenceType()
}

func (p *parser) referenceType() (typeSig, error) {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		return p.typeVariable()
	case '[':
		at := p.pos
		p.pos++
		component, err := p.javaType()
		if err != nil {
			return nil, err
		}
		return arraySig{at: at, component: component}, nil
	case 0:
		return nil, p.failf("unexpected end of signature")
	}
	return nil, p.failf("expected reference type, found %q", p.peek())
}

func (p *parser) typeVariable() (typeSig, error) {
	at := p.pos
	if err := p.expect('T'); err != nil {
		return nil, err
	}
	symbol, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}
	return varSig{at: at, symbol: symbol}, nil
}

func (p *parser) classType() (typeSig, error) {
	s := classSig{at: p.pos}
	if err := p.expect('L'); err != nil {
		return nil, err
	}
	var name strings.Builder
	for {
		id, err := p.identifier()
		if err != nil {
			return nil, err
		}
		name.WriteString(id)
		if p.peek() != '/' {
			break
		}
		p.pos++
		name.WriteByte('.')
	}
	segment := segmentSig{name: name.String()}
	for {
		args, err := p.typeArguments()
		if err != nil {
			return nil, err
		}
		segment.args = args
		s.segments = append(s.segments, segment)
		if p.peek() != '.' {
			break
		}
		p.pos++
		id, err := p.identifier()
		if err != nil {
			return nil, err
		}
		segment = segmentSig{name: id}
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) typeArguments() ([]argSig, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var args []argSig
	for p.peek() != '>' {
		switch c := p.peek(); c {
		case '*':
			p.pos++
			args = append(args, argSig{wildcard: c})
		case '+', '-':
			p.pos++
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			args = append(args, argSig{wildcard: c, bound: bound})
		default:
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			args = append(args, argSig{bound: bound})
		}
	}
	if len(args) == 0 {
		return nil, p.failf("empty type argument list")
	}
	p.pos++
	return args, nil
}
