package pathmatch

import (
	"errors"
	"fmt"
	"strings"
)

// Syntax errors wrapped by *SyntaxError.
var (
	ErrEmptyPattern      = errors.New("empty pattern")
	ErrMissingLeadingSep = errors.New("pattern must start with / or {")
	ErrUnbalancedGroup   = errors.New("unbalanced group braces")
	ErrMissingName       = errors.New("parameter without a name")
	ErrDuplicateName     = errors.New("duplicate parameter name")
	ErrReservedChar      = errors.New("reserved character")
	ErrUnknownType       = errors.New("unknown parameter type")
	ErrTrailingEscape    = errors.New("trailing escape character")
	ErrEmptyGroup        = errors.New("empty optional group")
)

// SyntaxError describes where a pattern failed to compile.
type SyntaxError struct {
	Pattern string
	Offset  int
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pathmatch: %v at offset %d in %q", e.Err, e.Offset, e.Pattern)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

type tokenKind uint8

const (
	tokText tokenKind = iota
	tokParam
	tokWildcard
	tokGroup
)

type token struct {
	kind     tokenKind
	text     string
	name     string
	typ      string
	children []token
}

type parser struct {
	pattern string
	pos     int
}

func (p *parser) fail(err error) error {
	return &SyntaxError{Pattern: p.pattern, Offset: p.pos, Err: err}
}

// parse reads tokens until the end of input, or until a closing brace when
// inside a group.
func (p *parser) parse(depth int) ([]token, error) {
	var tokens []token
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, token{kind: tokText, text: text.String()})
			text.Reset()
		}
	}

	for p.pos < len(p.pattern) {
		c := p.pattern[p.pos]
		switch c {
		case '\\':
			if p.pos+1 >= len(p.pattern) {
				return nil, p.fail(ErrTrailingEscape)
			}
			text.WriteByte(p.pattern[p.pos+1])
			p.pos += 2

		case '{':
			flush()
			start := p.pos
			p.pos++
			children, err := p.parse(depth + 1)
			if err != nil {
				return nil, err
			}
			if len(children) == 0 {
				p.pos = start
				return nil, p.fail(ErrEmptyGroup)
			}
			tokens = append(tokens, token{kind: tokGroup, children: children})

		case '}':
			if depth == 0 {
				return nil, p.fail(ErrUnbalancedGroup)
			}
			flush()
			p.pos++
			return tokens, nil

		case ':':
			flush()
			tok, optional, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			if optional {
				tokens = wrapOptional(tokens, tok)
			} else {
				tokens = append(tokens, tok)
			}

		case '*':
			flush()
			p.pos++
			name := p.readName()
			if name == "" {
				return nil, p.fail(ErrMissingName)
			}
			tokens = append(tokens, token{kind: tokWildcard, name: name})

		case '(', ')', '[', ']', '+', '?':
			return nil, p.fail(fmt.Errorf("%w %q", ErrReservedChar, c))

		default:
			text.WriteByte(c)
			p.pos++
		}
	}

	if depth > 0 {
		return nil, p.fail(ErrUnbalancedGroup)
	}
	flush()
	return tokens, nil
}

// parseParam reads ":name", ":name:type" and the legacy ":name?" suffix.
func (p *parser) parseParam() (token, bool, error) {
	p.pos++
	name := p.readName()
	if name == "" {
		return token{}, false, p.fail(ErrMissingName)
	}
	tok := token{kind: tokParam, name: name}

	if p.pos < len(p.pattern) && p.pattern[p.pos] == ':' {
		p.pos++
		typ := p.readName()
		if !validType(typ) {
			return token{}, false, p.fail(fmt.Errorf("%w %q", ErrUnknownType, typ))
		}
		tok.typ = typ
	}

	if p.pos < len(p.pattern) && p.pattern[p.pos] == '?' {
		p.pos++
		return tok, true, nil
	}
	return tok, false, nil
}

func (p *parser) readName() string {
	start := p.pos
	for p.pos < len(p.pattern) && isNameChar(p.pattern[p.pos]) {
		p.pos++
	}
	return p.pattern[start:p.pos]
}

func isNameChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// wrapOptional turns a trailing "/" plus param into an optional group so
// "/products/:id?" also matches "/products".
func wrapOptional(tokens []token, param token) []token {
	group := token{kind: tokGroup}
	if n := len(tokens); n > 0 && tokens[n-1].kind == tokText && strings.HasSuffix(tokens[n-1].text, "/") {
		last := tokens[n-1]
		rest := strings.TrimSuffix(last.text, "/")
		tokens = tokens[:n-1]
		if rest != "" {
			tokens = append(tokens, token{kind: tokText, text: rest})
		}
		group.children = append(group.children, token{kind: tokText, text: "/"})
	}
	group.children = append(group.children, param)
	return append(tokens, group)
}
