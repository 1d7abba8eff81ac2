package filter

// OperatorMeta describes an operator for display.
type OperatorMeta struct {
	Value   Operator `json:"value"`
	Literal string   `json:"literal"`
	Label   string   `json:"label"`
}

var operatorsMeta = map[Operator]OperatorMeta{
	Eq:       {Eq, "=", "Is equal to"},
	NotEq:    {NotEq, "!=", "Is not equal to"},
	Gt:       {Gt, ">", "Is greater than"},
	Gte:      {Gte, ">=", "Is greater than or equal to"},
	Lt:       {Lt, "<", "Is less than"},
	Lte:      {Lte, "<=", "Is less than or equal to"},
	In:       {In, "in", "Is one of"},
	NotIn:    {NotIn, "not in", "Is not one of"},
	Like:     {Like, "matches", "Contains"},
	NotLike:  {NotLike, "not matches", "Does not contain"},
	ILike:    {ILike, "matches", "Contains (case-insensitive)"},
	NotILike: {NotILike, "not matches", "Does not contain (case-insensitive)"},
	Is:       {Is, "is", "Is"},
	IsNot:    {IsNot, "is not", "Is not"},
	Between:  {Between, "<>", "Is between"},
}

// Meta returns display metadata for op.
func Meta(op Operator) (OperatorMeta, bool) {
	m, ok := operatorsMeta[op]
	return m, ok
}

// IsMultiple reports whether op takes a list of values.
func IsMultiple(op Operator) bool {
	return op == In || op == NotIn
}

// IsRange reports whether op takes a [from, to] pair.
func IsRange(op Operator) bool {
	return op == Between
}

// Operator presets per filter type.
var (
	NumberOperators       = []Operator{Eq, Gt, Gte, Lt, Lte}
	StringOperators       = []Operator{ILike}
	DateOperators         = []Operator{Between}
	EnumOperators         = []Operator{In}
	BooleanOperators      = []Operator{Is, IsNot}
	RelationOperators     = []Operator{In}
	PriceOperators        = NumberOperators
	TranslatableOperators = StringOperators
	LocaleOperators       = []Operator{Is}
)

// Option presets.
var (
	BooleanOptions = []Option{{Label: "True", Value: true}, {Label: "False", Value: false}}
	NullOptions    = []Option{{Label: "Null", Value: nil}, {Label: "Not Null", Value: NotNull}}
)

// DefaultOperators returns the preset for t.
func DefaultOperators(t Type) []Operator {
	switch t {
	case TypeNumber, TypeInteger, TypeWeight:
		return NumberOperators
	case TypePrice:
		return PriceOperators
	case TypeString:
		return StringOperators
	case TypeTranslatable:
		return TranslatableOperators
	case TypeDate, TypeDateRange:
		return DateOperators
	case TypeEnum:
		return EnumOperators
	case TypeBoolean:
		return BooleanOperators
	case TypeRelation:
		return RelationOperators
	case TypeLocale:
		return LocaleOperators
	}
	return nil
}
