package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// QueryParam is the query parameter carrying active filters.
const QueryParam = "filter"

// ParseQuery decodes filters from a query string. Each "filter" parameter
// has the form key:Operator:value where key is a dotted key path. Lists
// separate items with "|" and ranges separate bounds with "..", an empty
// bound leaving that side open.
//
//	?filter=price:Gte:10&filter=status:In:draft|published&filter=created:Between:2024-01-01..
func ParseQuery(schemas []Schema, q url.Values) ([]Value, error) {
	raw := q[QueryParam]
	values := make([]Value, 0, len(raw))
	for _, item := range raw {
		parts := strings.SplitN(item, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: %q is not key:operator:value", ErrInvalidValue, item)
		}
		keyPath := strings.Split(parts[0], ".")
		s, ok := Find(keyPath, schemas)
		if !ok {
			return nil, &CompileError{Key: parts[0], Operator: Operator(parts[1]), Err: ErrUnknownFilter}
		}
		op := Operator(parts[1])
		if _, ok := Meta(op); !ok {
			return nil, &CompileError{Key: parts[0], Operator: op, Err: ErrUnknownOperator}
		}
		v, err := parseQueryValue(s.Type, op, parts[2])
		if err != nil {
			return nil, &CompileError{Key: parts[0], Operator: op, Err: err}
		}
		values = append(values, NewValue(*s, keyPath, op, v))
	}
	return values, nil
}

// EncodeQuery is the inverse of ParseQuery.
func EncodeQuery(values []Value) url.Values {
	q := url.Values{}
	for _, v := range values {
		var enc string
		switch {
		case IsMultiple(v.Operator):
			list, _ := toList(v.Value)
			parts := make([]string, len(list))
			for i, item := range list {
				parts[i] = encodeScalar(item)
			}
			enc = strings.Join(parts, "|")
		case IsRange(v.Operator):
			bounds, _ := toList(v.Value)
			if len(bounds) == 2 {
				enc = encodeBound(bounds[0]) + ".." + encodeBound(bounds[1])
			}
		default:
			enc = encodeScalar(v.Value)
		}
		q.Add(QueryParam, strings.Join(v.KeyPath, ".")+":"+string(v.Operator)+":"+enc)
	}
	return q
}

func parseQueryValue(t Type, op Operator, s string) (any, error) {
	switch {
	case IsMultiple(op):
		items := strings.Split(s, "|")
		out := make([]any, len(items))
		for i, item := range items {
			v, err := parseScalar(t, item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case IsRange(op):
		lo, hi, ok := strings.Cut(s, "..")
		if !ok {
			return nil, fmt.Errorf("%w: range %q has no \"..\"", ErrInvalidValue, s)
		}
		bounds := []any{nil, nil}
		for i, b := range []string{lo, hi} {
			if b == "" {
				continue
			}
			v, err := parseScalar(t, b)
			if err != nil {
				return nil, err
			}
			bounds[i] = v
		}
		return bounds, nil
	case op == Is || op == IsNot:
		switch s {
		case "null":
			return nil, nil
		case NotNull:
			return NotNull, nil
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	return parseScalar(t, s)
}

func parseScalar(t Type, s string) (any, error) {
	switch t {
	case TypeNumber, TypeInteger, TypePrice, TypeWeight:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, s)
		}
		return f, nil
	case TypeBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, s)
		}
		return b, nil
	}
	return s, nil
}

func encodeScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func encodeBound(v any) string {
	if v == nil {
		return ""
	}
	return encodeScalar(v)
}
