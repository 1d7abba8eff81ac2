package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var (
	// ErrUnknownOperator is returned for operators without an evaluator.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrOperatorNotAllowed is returned when the schema does not permit the operator.
	ErrOperatorNotAllowed = errors.New("operator not allowed by schema")
	// ErrInvalidValue is returned when a value does not fit the operator.
	ErrInvalidValue = errors.New("invalid filter value")
	// ErrUnknownFilter is returned when a value's key path matches no schema.
	ErrUnknownFilter = errors.New("unknown filter")
)

// CompileError describes a filter value that could not be compiled.
type CompileError struct {
	Key      string
	Operator Operator
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("filter %q (%s): %v", e.Key, e.Operator, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Predicate reports whether a JSON record satisfies a set of filters.
type Predicate func(doc gjson.Result) bool

// MatchJSON evaluates p against raw JSON.
func (p Predicate) MatchJSON(data []byte) bool {
	return p(gjson.ParseBytes(data))
}

// MatchValue marshals v to JSON and evaluates p against it.
func (p Predicate) MatchValue(v any) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	return p.MatchJSON(data), nil
}

// All is the predicate that matches every record.
func All(gjson.Result) bool { return true }

type evalFunc func(field gjson.Result, v any, typ Type) bool

var evaluators = map[Operator]evalFunc{
	Eq:       func(f gjson.Result, v any, t Type) bool { return anyOf(f, func(r gjson.Result) bool { return equal(r, v) }) },
	NotEq:    func(f gjson.Result, v any, t Type) bool { return !anyOf(f, func(r gjson.Result) bool { return equal(r, v) }) },
	Gt:       ordered(func(c int) bool { return c > 0 }),
	Gte:      ordered(func(c int) bool { return c >= 0 }),
	Lt:       ordered(func(c int) bool { return c < 0 }),
	Lte:      ordered(func(c int) bool { return c <= 0 }),
	In:       evalIn,
	NotIn:    func(f gjson.Result, v any, t Type) bool { return !evalIn(f, v, t) },
	Like:     contains(false),
	NotLike:  negate(contains(false)),
	ILike:    contains(true),
	NotILike: negate(contains(true)),
	Is:       evalIs,
	IsNot:    func(f gjson.Result, v any, t Type) bool { return !evalIs(f, v, t) },
	Between:  evalBetween,
}

// Compile builds a predicate from values. Every value must resolve to a
// schema, use an operator the schema allows and carry a value of the
// right shape. The resulting predicate joins the values with logic.
func Compile(schemas []Schema, values []Value, logic Logic) (Predicate, error) {
	if len(values) == 0 {
		return All, nil
	}
	preds := make([]Predicate, 0, len(values))
	for _, v := range values {
		p, err := compileOne(schemas, v)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if logic == Or {
		return func(doc gjson.Result) bool {
			for _, p := range preds {
				if p(doc) {
					return true
				}
			}
			return false
		}, nil
	}
	return func(doc gjson.Result) bool {
		for _, p := range preds {
			if !p(doc) {
				return false
			}
		}
		return true
	}, nil
}

func compileOne(schemas []Schema, v Value) (Predicate, error) {
	key := strings.Join(v.KeyPath, ".")
	fail := func(err error) error { return &CompileError{Key: key, Operator: v.Operator, Err: err} }

	s, ok := Find(v.KeyPath, schemas)
	if !ok {
		return nil, fail(ErrUnknownFilter)
	}
	eval, ok := evaluators[v.Operator]
	if !ok {
		return nil, fail(ErrUnknownOperator)
	}
	if !s.Allows(v.Operator) {
		return nil, fail(ErrOperatorNotAllowed)
	}
	if err := checkValue(v.Operator, v.Value); err != nil {
		return nil, fail(err)
	}
	path := v.PayloadKey
	if path == "" {
		path = s.PayloadKey
	}
	if path == "" {
		path = s.Key
	}
	typ := v.Type
	if typ == "" {
		typ = s.Type
	}
	val := v.Value
	return func(doc gjson.Result) bool {
		return eval(lookup(doc, path), val, typ)
	}, nil
}

func checkValue(op Operator, v any) error {
	switch {
	case IsMultiple(op):
		if _, ok := toList(v); !ok {
			return fmt.Errorf("%w: %s needs a list", ErrInvalidValue, op)
		}
	case IsRange(op):
		r, ok := toList(v)
		if !ok || len(r) != 2 {
			return fmt.Errorf("%w: %s needs a [from, to] pair", ErrInvalidValue, op)
		}
		if r[0] == nil && r[1] == nil {
			return fmt.Errorf("%w: %s needs at least one bound", ErrInvalidValue, op)
		}
	case op == Like || op == NotLike || op == ILike || op == NotILike:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%w: %s needs a string", ErrInvalidValue, op)
		}
	case op == Gt || op == Gte || op == Lt || op == Lte:
		if _, ok := toFloat(v); !ok {
			if _, ok := v.(string); !ok {
				return fmt.Errorf("%w: %s needs a number or date", ErrInvalidValue, op)
			}
		}
	case op == Is || op == IsNot:
		switch v.(type) {
		case nil, bool:
		case string:
			if v != NotNull {
				return fmt.Errorf("%w: %s accepts true, false, null or %s", ErrInvalidValue, op, NotNull)
			}
		default:
			return fmt.Errorf("%w: %s accepts true, false, null or %s", ErrInvalidValue, op, NotNull)
		}
	}
	return nil
}

// lookup resolves a dotted key, mapping over arrays along the way so
// "variants.sku" yields every variant's sku.
func lookup(doc gjson.Result, key string) gjson.Result {
	cur := doc
	for _, seg := range strings.Split(key, ".") {
		seg = escapePathKey(seg)
		if cur.IsArray() {
			cur = cur.Get("#." + seg)
		} else {
			cur = cur.Get(seg)
		}
		if !cur.Exists() {
			return cur
		}
	}
	return cur
}

// escapePathKey backslash-escapes gjson path syntax in a single key.
func escapePathKey(key string) string {
	var b strings.Builder
	for _, c := range key {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' || c > 0x7f) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func anyOf(field gjson.Result, fn func(gjson.Result) bool) bool {
	if field.IsArray() {
		for _, r := range field.Array() {
			if fn(r) {
				return true
			}
		}
		return false
	}
	return fn(field)
}

func equal(r gjson.Result, v any) bool {
	switch want := v.(type) {
	case nil:
		return !r.Exists() || r.Type == gjson.Null
	case bool:
		return (r.Type == gjson.True || r.Type == gjson.False) && r.Bool() == want
	case string:
		return r.Exists() && r.Type != gjson.Null && r.String() == want
	}
	if f, ok := toFloat(v); ok {
		return r.Type == gjson.Number && r.Num == f
	}
	return false
}

func evalIn(field gjson.Result, v any, _ Type) bool {
	list, _ := toList(v)
	return anyOf(field, func(r gjson.Result) bool {
		for _, want := range list {
			if equal(r, want) {
				return true
			}
		}
		return false
	})
}

func evalIs(field gjson.Result, v any, _ Type) bool {
	if v == NotNull {
		return field.Exists() && field.Type != gjson.Null
	}
	return anyOf(field, func(r gjson.Result) bool { return equal(r, v) })
}

func contains(fold bool) evalFunc {
	return func(field gjson.Result, v any, _ Type) bool {
		needle, _ := v.(string)
		needle = strings.Trim(needle, "%")
		if fold {
			needle = strings.ToLower(needle)
		}
		return anyOf(field, func(r gjson.Result) bool {
			if !r.Exists() || r.Type == gjson.Null {
				return false
			}
			s := r.String()
			if fold {
				s = strings.ToLower(s)
			}
			return strings.Contains(s, needle)
		})
	}
}

func negate(fn evalFunc) evalFunc {
	return func(field gjson.Result, v any, t Type) bool { return !fn(field, v, t) }
}

func ordered(ok func(int) bool) evalFunc {
	return func(field gjson.Result, v any, t Type) bool {
		return anyOf(field, func(r gjson.Result) bool {
			c, valid := compare(r, v, t)
			return valid && ok(c)
		})
	}
}

func evalBetween(field gjson.Result, v any, t Type) bool {
	bounds, _ := toList(v)
	return anyOf(field, func(r gjson.Result) bool {
		if bounds[0] != nil {
			c, ok := compare(r, bounds[0], t)
			if !ok || c < 0 {
				return false
			}
		}
		if bounds[1] != nil {
			c, ok := compare(r, bounds[1], t)
			if !ok || c > 0 {
				return false
			}
		}
		return true
	})
}

// compare orders the field against v. Date filters compare as times;
// everything else compares numerically.
func compare(r gjson.Result, v any, t Type) (int, bool) {
	if !r.Exists() || r.Type == gjson.Null {
		return 0, false
	}
	if t == TypeDate || t == TypeDateRange {
		s, ok := v.(string)
		if !ok {
			return 0, false
		}
		want, err := parseTime(s)
		if err != nil {
			return 0, false
		}
		got, err := parseTime(r.String())
		if err != nil {
			return 0, false
		}
		return got.Compare(want), true
	}
	want, ok := toFloat(v)
	if !ok || r.Type != gjson.Number {
		return 0, false
	}
	switch {
	case r.Num < want:
		return -1, true
	case r.Num > want:
		return 1, true
	}
	return 0, true
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
