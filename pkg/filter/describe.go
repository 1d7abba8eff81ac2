package filter

import (
	"fmt"
	"strings"
)

// Describe renders v as a short chip label, e.g. "Price >= 10" or
// "Status in (draft, published)". Option labels replace raw values when the
// schema declares them.
func Describe(v Value, s *Schema) string {
	label := v.Label
	if label == "" && s != nil {
		label = s.Label
	}
	literal := string(v.Operator)
	if m, ok := Meta(v.Operator); ok {
		literal = m.Literal
	}

	switch {
	case IsMultiple(v.Operator):
		list, _ := toList(v.Value)
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = display(item, s)
		}
		return fmt.Sprintf("%s %s (%s)", label, literal, strings.Join(parts, ", "))
	case IsRange(v.Operator):
		bounds, ok := toList(v.Value)
		if !ok || len(bounds) != 2 {
			return label
		}
		switch {
		case bounds[0] == nil:
			return fmt.Sprintf("%s <= %s", label, display(bounds[1], s))
		case bounds[1] == nil:
			return fmt.Sprintf("%s >= %s", label, display(bounds[0], s))
		}
		return fmt.Sprintf("%s %s %s - %s", label, literal, display(bounds[0], s), display(bounds[1], s))
	}
	return fmt.Sprintf("%s %s %s", label, literal, display(v.Value, s))
}

func display(v any, s *Schema) string {
	if s != nil && scalar(v) {
		for _, o := range s.Options {
			if o.Value == v {
				return o.Label
			}
		}
	}
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		if x == NotNull {
			return "not null"
		}
		return x
	}
	return fmt.Sprint(v)
}

func scalar(v any) bool {
	switch v.(type) {
	case nil, bool, string, int, int64, float64, uint:
		return true
	}
	return false
}
