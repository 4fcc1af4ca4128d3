package schema

import (
	"github.com/rowlift/rowlift/errors"
)

// Parse builds a type descriptor from its compact signature syntax:
//
//	bool  i64  f64  str  null  pyobj  dict
//	(T1,T2,...)   tuple        ()   empty tuple
//	[T]           list         []   empty list
//	{K:V}         typed dict   {}   empty dict
//	opt(T)        optional
//
// Whitespace is not permitted. The syntax round-trips with Type.String.
func Parse(sig string) (*Type, error) {
	p := &sigParser{src: sig}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, errors.Parse("trailing input", p.pos)
	}
	return t, nil
}

type sigParser struct {
	src string
	pos int
}

func (p *sigParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *sigParser) expect(c byte) error {
	if p.peek() != c {
		return errors.Parse("expected '"+string(c)+"'", p.pos)
	}
	p.pos++
	return nil
}

func (p *sigParser) parseType() (*Type, error) {
	switch p.peek() {
	case '(':
		return p.parseTuple()
	case '[':
		return p.parseList()
	case '{':
		return p.parseDict()
	case 0:
		return nil, errors.Parse("unexpected end of signature", p.pos)
	default:
		return p.parseWord()
	}
}

func (p *sigParser) parseTuple() (*Type, error) {
	p.pos++ // '('
	if p.peek() == ')' {
		p.pos++
		return EmptyTuple, nil
	}
	var params []*Type
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, t)
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return TupleOf(params...), nil
}

func (p *sigParser) parseList() (*Type, error) {
	p.pos++ // '['
	if p.peek() == ']' {
		p.pos++
		return EmptyList, nil
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return ListOf(elem), nil
}

func (p *sigParser) parseDict() (*Type, error) {
	p.pos++ // '{'
	if p.peek() == '}' {
		p.pos++
		return EmptyDict, nil
	}
	key, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(':'); err != nil {
		return nil, err
	}
	val, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return DictOf(key, val), nil
}

func (p *sigParser) parseWord() (*Type, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	word := p.src[start:p.pos]
	switch word {
	case "bool":
		return Bool, nil
	case "i64":
		return I64, nil
	case "f64":
		return F64, nil
	case "str":
		return String, nil
	case "null":
		return Null, nil
	case "dict":
		return GenericDict, nil
	case "pyobj":
		return PyObject, nil
	case "opt":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return OptionOf(inner), nil
	default:
		return nil, errors.Parse("unknown type name '"+word+"'", start)
	}
}
