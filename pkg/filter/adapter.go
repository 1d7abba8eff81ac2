package filter

import "strings"

// Logic joins converted filters.
type Logic string

const (
	And Logic = "AND"
	Or  Logic = "OR"
)

// Adapter turns filter values into a backend payload.
//
// Convert returns false to skip a value the backend cannot express.
// Combine joins the converted values and Build wraps the result in the
// final payload shape.
type Adapter[T any] interface {
	Name() string
	Convert(v Value, s *Schema) (T, bool)
	Combine(items []T, logic Logic) T
	Build(combined T) any
}

// Build converts values with a, joins them with AND and returns the payload.
// Values whose schema is unknown are skipped. It returns nil when nothing
// remains.
func Build[T any](a Adapter[T], schemas []Schema, values []Value) any {
	items := make([]T, 0, len(values))
	for _, v := range values {
		s, ok := Find(v.KeyPath, schemas)
		if !ok {
			continue
		}
		item, ok := a.Convert(v, s)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil
	}
	return a.Build(a.Combine(items, And))
}

// WhereAdapter produces nested "where" documents of the shape
//
//	{"AND": [{"price": {"gte": 10}}, {"variants": {"sku": {"ilike": "ab"}}}]}
//
// Dotted payload keys become nested objects.
type WhereAdapter struct{}

// Name implements Adapter.
func (WhereAdapter) Name() string { return "where" }

// Convert implements Adapter.
func (WhereAdapter) Convert(v Value, s *Schema) (map[string]any, bool) {
	if v.Operator == "" || !s.Allows(v.Operator) {
		return nil, false
	}
	key := v.PayloadKey
	if key == "" {
		key = s.PayloadKey
	}
	if key == "" {
		return nil, false
	}
	var node any = map[string]any{strings.ToLower(string(v.Operator)): v.Value}
	parts := strings.Split(key, ".")
	for i := len(parts) - 1; i >= 0; i-- {
		node = map[string]any{parts[i]: node}
	}
	return node.(map[string]any), true
}

// Combine implements Adapter.
func (WhereAdapter) Combine(items []map[string]any, logic Logic) map[string]any {
	if len(items) == 1 {
		return items[0]
	}
	list := make([]any, len(items))
	for i, it := range items {
		list[i] = it
	}
	return map[string]any{string(logic): list}
}

// Build implements Adapter.
func (WhereAdapter) Build(combined map[string]any) any { return combined }
