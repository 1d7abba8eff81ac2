package pathmatch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vango-dev/adminkit/pkg/routepath"
)

// Parameter types accepted after a second colon, e.g. ":id:int".
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeUint   = "uint"
	TypeUUID   = "uuid"
)

func validType(typ string) bool {
	switch typ {
	case TypeString, TypeInt, TypeUint, TypeUUID:
		return true
	}
	return false
}

// Key describes one parameter declared by a pattern.
type Key struct {
	Name     string
	Type     string
	Wildcard bool
	Optional bool
}

// Option configures Compile.
type Option func(*options)

type options struct {
	caseSensitive bool
	strict        bool
}

// CaseSensitive makes static text match case-sensitively.
func CaseSensitive() Option {
	return func(o *options) { o.caseSensitive = true }
}

// Strict disables the tolerated trailing slash.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// Matcher is a compiled route pattern.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
	keys    []Key
}

// Compile parses pattern and returns a reusable matcher.
func Compile(pattern string, opts ...Option) (*Matcher, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p := &parser{pattern: pattern}
	if pattern == "" {
		return nil, p.fail(ErrEmptyPattern)
	}
	if pattern[0] != '/' && pattern[0] != '{' {
		return nil, p.fail(ErrMissingLeadingSep)
	}

	// Request paths reach the matcher without a trailing slash, so outside
	// strict mode "/products/" means the same as "/products".
	if !o.strict && len(pattern) > 1 && strings.HasSuffix(pattern, "/") && !strings.HasSuffix(pattern, `\/`) {
		p.pattern = strings.TrimRight(pattern, "/")
		if p.pattern == "" {
			p.pattern = "/"
		}
	}

	tokens, err := p.parse(0)
	if err != nil {
		return nil, err
	}

	m := &Matcher{pattern: pattern}
	var b strings.Builder
	if !o.caseSensitive {
		b.WriteString("(?i)")
	}
	b.WriteString("^")
	seen := make(map[string]bool)
	if err := m.emit(&b, tokens, false, seen); err != nil {
		return nil, err
	}
	if !o.strict && !strings.HasSuffix(p.pattern, "/") {
		b.WriteString("/?")
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, &SyntaxError{Pattern: pattern, Err: err}
	}
	m.re = re
	return m, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level patterns known to be valid.
func MustCompile(pattern string, opts ...Option) *Matcher {
	m, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Matcher) emit(b *strings.Builder, tokens []token, optional bool, seen map[string]bool) error {
	for _, tok := range tokens {
		switch tok.kind {
		case tokText:
			b.WriteString(regexp.QuoteMeta(tok.text))
		case tokParam, tokWildcard:
			if seen[tok.name] {
				return &SyntaxError{Pattern: m.pattern, Err: ErrDuplicateName}
			}
			seen[tok.name] = true
			key := Key{Name: tok.name, Type: tok.typ, Wildcard: tok.kind == tokWildcard, Optional: optional}
			m.keys = append(m.keys, key)
			if key.Wildcard {
				b.WriteString("(.+?)")
			} else {
				b.WriteString("([^/]+?)")
			}
		case tokGroup:
			b.WriteString("(?:")
			if err := m.emit(b, tok.children, true, seen); err != nil {
				return err
			}
			b.WriteString(")?")
		}
	}
	return nil
}

// Pattern returns the source pattern.
func (m *Matcher) Pattern() string { return m.pattern }

// Keys returns the declared parameters in pattern order.
func (m *Matcher) Keys() []Key {
	out := make([]Key, len(m.keys))
	copy(out, m.keys)
	return out
}

// String implements fmt.Stringer.
func (m *Matcher) String() string { return m.pattern }

// Match reports whether pathname matches and returns the decoded params.
// Optional params that did not participate are absent from the result.
func (m *Matcher) Match(pathname string) (Params, bool) {
	idx := m.re.FindStringSubmatchIndex(pathname)
	if idx == nil {
		return nil, false
	}

	params := make(Params, len(m.keys))
	for i, key := range m.keys {
		start, end := idx[2*(i+1)], idx[2*(i+1)+1]
		if start < 0 {
			continue
		}
		value, err := routepath.DecodeSegment(pathname[start:end], key.Wildcard)
		if err != nil {
			return nil, false
		}
		if !validValue(value, key.Type) {
			return nil, false
		}
		params[key.Name] = value
	}
	return params, true
}

// MatchString reports whether pathname matches, without building params.
func (m *Matcher) MatchString(pathname string) bool {
	_, ok := m.Match(pathname)
	return ok
}

func validValue(value, typ string) bool {
	switch typ {
	case TypeInt:
		_, err := strconv.ParseInt(value, 10, 64)
		return err == nil
	case TypeUint:
		_, err := strconv.ParseUint(value, 10, 64)
		return err == nil
	case TypeUUID:
		return uuid.Validate(value) == nil
	}
	return true
}
