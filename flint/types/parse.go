package types

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse reads the spelling produced by RawType.Name back into a type:
//
//	Int  Address  Counter  [Int]  Int[4]  [Address: Int]  inout T  Range<Int>
func Parse(s string) (RawType, error) {
	p := &typeParser{src: s}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("unexpected %q at offset %d in type %q", p.src[p.pos:], p.pos, s)
	}
	return t, nil
}

// MustParse is Parse for literals known to be well formed.
func MustParse(s string) RawType {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) expect(ch byte) error {
	if p.peek() != ch {
		return fmt.Errorf("expected %q at offset %d in type %q", ch, p.pos, p.src)
	}
	p.pos++
	return nil
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$') {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parseType() (RawType, error) {
	var base RawType
	switch p.peek() {
	case 0:
		return nil, fmt.Errorf("empty type in %q", p.src)
	case '[':
		p.pos++
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.peek() == ':' {
			p.pos++
			val, err := p.parseType()
			if err != nil {
				return nil, err
			}
			base = Dictionary{Key: key, Value: val}
		} else {
			base = Array{Elem: key}
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
	default:
		name := p.ident()
		if name == "" {
			return nil, fmt.Errorf("expected type name at offset %d in %q", p.pos, p.src)
		}
		switch name {
		case "inout":
			elem, err := p.parseType()
			if err != nil {
				return nil, err
			}
			return Inout{Elem: elem}, nil
		case "Range":
			if err := p.expect('<'); err != nil {
				return nil, err
			}
			elem, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if err := p.expect('>'); err != nil {
				return nil, err
			}
			base = Range{Elem: elem}
		default:
			base = FromName(name)
		}
	}
	// Fixed-size suffixes bind left to right: Int[2][3] is an array of three Int[2].
	for p.peek() == '[' {
		save := p.pos
		p.pos++
		p.skipSpace()
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		digits := strings.TrimSpace(p.src[start:p.pos])
		if digits == "" {
			p.pos = save
			break
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return nil, err
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		base = FixedSizeArray{Elem: base, Size: n}
	}
	return base, nil
}
