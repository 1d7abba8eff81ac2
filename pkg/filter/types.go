// Package filter describes list filters and turns active filter values into
// backend-specific payloads or in-memory predicates.
//
// A Schema declares which filters an entity offers; a Value is one filter
// the user picked. Adapters convert values into whatever the backend wants;
// Compile builds a Predicate that evaluates values against JSON records.
package filter

// Type is the data type of a filter.
type Type string

const (
	TypeString       Type = "String"
	TypeNumber       Type = "Number"
	TypeDate         Type = "Date"
	TypeDateRange    Type = "DateRange"
	TypeBoolean      Type = "Boolean"
	TypeEnum         Type = "Enum"
	TypeRelation     Type = "Relation"
	TypePrice        Type = "Price"
	TypeWeight       Type = "Weight"
	TypeInteger      Type = "Integer"
	TypeTranslatable Type = "Translatable"
	TypeLocale       Type = "Locale"
)

// Operator compares a field with a filter value.
type Operator string

const (
	Eq       Operator = "Eq"
	NotEq    Operator = "NotEq"
	Gt       Operator = "Gt"
	Gte      Operator = "Gte"
	Lt       Operator = "Lt"
	Lte      Operator = "Lte"
	In       Operator = "In"
	NotIn    Operator = "NotIn"
	Like     Operator = "Like"
	NotLike  Operator = "NotLike"
	ILike    Operator = "ILike"
	NotILike Operator = "NotILike"
	Is       Operator = "Is"
	IsNot    Operator = "IsNot"
	Between  Operator = "Between"
)

// NotNull is the option value matching any present, non-null field.
const NotNull = "NOT_NULL"

// Option is a selectable value of an enum-like filter.
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Schema declares one available filter.
type Schema struct {
	Key         string     `json:"key"`
	Label       string     `json:"label"`
	Type        Type       `json:"type"`
	Operators   []Operator `json:"operators"`
	PayloadKey  string     `json:"payloadKey"`
	Description string     `json:"description,omitempty"`
	Entity      string     `json:"entity,omitempty"`
	Options     []Option   `json:"options,omitempty"`
	Children    []Schema   `json:"children,omitempty"`
	Fixed       bool       `json:"fixed,omitempty"`
}

// Allows reports whether op is permitted. A schema without operators
// permits every operator.
func (s *Schema) Allows(op Operator) bool {
	if len(s.Operators) == 0 {
		return true
	}
	for _, o := range s.Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Value is an active filter.
type Value struct {
	SchemaKey  string   `json:"schemaKey"`
	Label      string   `json:"label"`
	Type       Type     `json:"type"`
	Operator   Operator `json:"operator"`
	Value      any      `json:"value"`
	KeyPath    []string `json:"keyPath"`
	PayloadKey string   `json:"payloadKey"`
	Entity     string   `json:"entity,omitempty"`
	Fixed      bool     `json:"fixed,omitempty"`
}

// NewValue builds a Value for schema s reached through keyPath.
func NewValue(s Schema, keyPath []string, op Operator, v any) Value {
	return Value{
		SchemaKey:  s.Key,
		Label:      s.Label,
		Type:       s.Type,
		Operator:   op,
		Value:      v,
		KeyPath:    append([]string(nil), keyPath...),
		PayloadKey: s.PayloadKey,
		Entity:     s.Entity,
		Fixed:      s.Fixed,
	}
}
