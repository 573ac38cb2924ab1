package symbol

import (
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidType is returned by ParseType for malformed type expressions.
var ErrInvalidType = errors.Base("invalid type expression")

// ParseType parses a type expression.
//
// The syntax is namespace-qualified with '+' separating nested types:
//
//	Acme.Api.Widget              plain type
//	Acme.Api.Repository`1        open generic definition of arity 1
//	Acme.Api.Repository<Acme.Api.Widget>
//	Acme.Api.Outer+Inner         nested type
//	System.Int32[]               array
//	System.Int32&                by-ref parameter
//	!0  !!0                      type and method generic parameters
func ParseType(expr string) (*Type, error) {
	p := &typeParser{src: strings.ReplaceAll(expr, " ", "")}
	t, err := p.parseType()
	if err != nil {
		return nil, errors.Errorf("%w %q: %s", ErrInvalidType, expr, err.Error())
	}
	if p.pos != len(p.src) {
		return nil, errors.Errorf("%w %q: unexpected %q at offset %d", ErrInvalidType, expr, p.src[p.pos:], p.pos)
	}
	return t, nil
}

// MustParseType is like ParseType but panics on error. It is meant for
// tests and static tables.
func MustParseType(expr string) *Type {
	t, err := ParseType(expr)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) peek(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *typeParser) parseType() (*Type, error) {
	var t *Type
	var err error
	if p.peek("!") {
		t, err = p.parseGenericParam()
	} else {
		t, err = p.parseNamed()
	}
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.peek("[]"):
			p.pos += 2
			t = &Type{Kind: Array, Elem: t}
		case p.peek("&"):
			p.pos++
			t = &Type{Kind: ByRef, Elem: t}
		default:
			return t, nil
		}
	}
}

func (p *typeParser) parseGenericParam() (*Type, error) {
	p.pos++
	t := &Type{Kind: GenericParam}
	if p.peek("!") {
		p.pos++
		t.MethodParam = true
	}
	n, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	t.Position = n
	return t, nil
}

func (p *typeParser) parseNamed() (*Type, error) {
	var outer *Type
	for {
		ident := p.parseIdent()
		if ident == "" {
			return nil, errors.New("expected type name")
		}

		t := &Type{Kind: Named, Name: ident, DeclaringType: outer}
		if outer == nil {
			if dot := strings.LastIndexByte(ident, '.'); dot >= 0 {
				t.Namespace, t.Name = ident[:dot], ident[dot+1:]
			}
		} else if strings.Contains(ident, ".") {
			return nil, errors.Errorf("nested type name %q must not be qualified", ident)
		}

		switch {
		case p.peek("`"):
			p.pos++
			n, err := p.parseInt()
			if err != nil {
				return nil, err
			}
			t.Arity = n
		case p.peek("<"):
			p.pos++
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			t.Args = args
			t.Arity = len(args)
		}

		if !p.peek("+") {
			return t, nil
		}
		p.pos++
		outer = t
	}
}

func (p *typeParser) parseArgs() ([]*Type, error) {
	var args []*Type
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch {
		case p.peek(","):
			p.pos++
		case p.peek(">"):
			p.pos++
			return args, nil
		default:
			return nil, errors.New("expected ',' or '>' in type arguments")
		}
	}
}

func (p *typeParser) parseIdent() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			p.pos++
			continue
		}
		break
	}
	return strings.Trim(p.src[start:p.pos], ".")
}

func (p *typeParser) parseInt() (int, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, errors.New("expected number")
	}
	return strconv.Atoi(p.src[start:p.pos])
}
