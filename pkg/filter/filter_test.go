package filter

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var productSchemas = []Schema{
	{Key: "title", Label: "Title", Type: TypeString, Operators: StringOperators, PayloadKey: "title"},
	{Key: "price", Label: "Price", Type: TypePrice, Operators: PriceOperators, PayloadKey: "price"},
	{Key: "status", Label: "Status", Type: TypeEnum, Operators: EnumOperators, PayloadKey: "status",
		Options: []Option{{Label: "Draft", Value: "draft"}, {Label: "Published", Value: "published"}}},
	{Key: "active", Label: "Active", Type: TypeBoolean, Operators: BooleanOperators, PayloadKey: "active", Options: BooleanOptions},
	{Key: "created", Label: "Created", Type: TypeDate, Operators: DateOperators, PayloadKey: "created_at"},
	{Key: "archived", Label: "Archived", Type: TypeDate, Operators: BooleanOperators, PayloadKey: "archived_at", Options: NullOptions},
	{Key: "variants", Label: "Variants", Type: TypeRelation, PayloadKey: "variants", Children: []Schema{
		{Key: "sku", Label: "SKU", Type: TypeString, Operators: StringOperators, PayloadKey: "variants.sku"},
		{Key: "stock", Label: "Stock", Type: TypeInteger, Operators: NumberOperators, PayloadKey: "variants.stock"},
	}},
}

const lamp = `{
	"title": "Desk Lamp",
	"price": 49.5,
	"status": "published",
	"active": true,
	"created_at": "2024-03-10T09:00:00Z",
	"archived_at": null,
	"variants": [{"sku": "LAMP-BLK", "stock": 0}, {"sku": "LAMP-WHT", "stock": 12}]
}`

func val(keyPath []string, op Operator, v any) Value {
	s, ok := Find(keyPath, productSchemas)
	if !ok {
		return Value{KeyPath: keyPath, Operator: op, Value: v}
	}
	return NewValue(*s, keyPath, op, v)
}

func TestFind(t *testing.T) {
	s, ok := Find([]string{"variants", "sku"}, productSchemas)
	if !ok || s.PayloadKey != "variants.sku" {
		t.Fatalf("Find(variants.sku) = %+v, %v", s, ok)
	}
	if _, ok := Find([]string{"variants", "nope"}, productSchemas); ok {
		t.Error("Find should miss unknown child")
	}
	if _, ok := Find(nil, productSchemas); ok {
		t.Error("Find(nil) should miss")
	}
	if s, ok := FindByPayloadKey("variants.stock", productSchemas); !ok || s.Key != "stock" {
		t.Errorf("FindByPayloadKey = %+v, %v", s, ok)
	}
}

func TestOperatorMeta(t *testing.T) {
	m, ok := Meta(ILike)
	if !ok || m.Literal != "matches" || m.Label != "Contains (case-insensitive)" {
		t.Errorf("Meta(ILike) = %+v", m)
	}
	if !IsMultiple(In) || !IsMultiple(NotIn) || IsMultiple(Eq) {
		t.Error("IsMultiple mismatch")
	}
	if !IsRange(Between) || IsRange(In) {
		t.Error("IsRange mismatch")
	}
	if diff := cmp.Diff(NumberOperators, DefaultOperators(TypePrice)); diff != "" {
		t.Errorf("price preset (-want +got):\n%s", diff)
	}
	if DefaultOperators("Custom") != nil {
		t.Error("unknown type should have no preset")
	}
}

func TestPredicate(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  bool
	}{
		{"ilike hit", val([]string{"title"}, ILike, "desk"), true},
		{"ilike miss", val([]string{"title"}, ILike, "chair"), false},
		{"ilike strips wildcards", val([]string{"title"}, ILike, "%LAMP%"), true},
		{"gte", val([]string{"price"}, Gte, 49.5), true},
		{"gt", val([]string{"price"}, Gt, 49.5), false},
		{"lt int", val([]string{"price"}, Lt, 50), true},
		{"eq", val([]string{"price"}, Eq, 49.5), true},
		{"in", val([]string{"status"}, In, []any{"draft", "published"}), true},
		{"in miss", val([]string{"status"}, In, []string{"draft"}), false},
		{"is true", val([]string{"active"}, Is, true), true},
		{"is not true", val([]string{"active"}, IsNot, true), false},
		{"between dates", val([]string{"created"}, Between, []any{"2024-03-01", "2024-03-31"}), true},
		{"between open upper", val([]string{"created"}, Between, []any{"2024-04-01", nil}), false},
		{"is null", val([]string{"archived"}, Is, nil), true},
		{"is not null", val([]string{"archived"}, Is, NotNull), false},
		{"nested any element", val([]string{"variants", "sku"}, ILike, "wht"), true},
		{"nested number", val([]string{"variants", "stock"}, Gt, 10), true},
		{"nested number miss", val([]string{"variants", "stock"}, Gt, 20), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(productSchemas, []Value{tt.value}, And)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if got := p.MatchJSON([]byte(lamp)); got != tt.want {
				t.Errorf("match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompileLogic(t *testing.T) {
	values := []Value{
		val([]string{"title"}, ILike, "chair"),
		val([]string{"price"}, Lt, 100),
	}
	and, err := Compile(productSchemas, values, And)
	if err != nil {
		t.Fatal(err)
	}
	or, err := Compile(productSchemas, values, Or)
	if err != nil {
		t.Fatal(err)
	}
	if and.MatchJSON([]byte(lamp)) {
		t.Error("AND should fail when one filter misses")
	}
	if !or.MatchJSON([]byte(lamp)) {
		t.Error("OR should pass when one filter hits")
	}

	all, err := Compile(productSchemas, nil, And)
	if err != nil || !all.MatchJSON([]byte(`{}`)) {
		t.Error("empty filter set should match everything")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  error
	}{
		{"unknown key", Value{KeyPath: []string{"nope"}, Operator: Eq}, ErrUnknownFilter},
		{"unknown operator", val([]string{"price"}, "Near", 1), ErrUnknownOperator},
		{"not allowed", val([]string{"title"}, Gt, 1), ErrOperatorNotAllowed},
		{"in needs list", val([]string{"status"}, In, "draft"), ErrInvalidValue},
		{"between needs pair", val([]string{"created"}, Between, []any{"2024-01-01"}), ErrInvalidValue},
		{"between needs a bound", val([]string{"created"}, Between, []any{nil, nil}), ErrInvalidValue},
		{"ilike needs string", val([]string{"title"}, ILike, 3), ErrInvalidValue},
		{"is rejects strings", val([]string{"active"}, Is, "yes"), ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(productSchemas, []Value{tt.value}, And)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("err is not a *CompileError: %T", err)
			}
		})
	}
}

func TestMatchValue(t *testing.T) {
	p, err := Compile(productSchemas, []Value{val([]string{"price"}, Lte, 10)}, And)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := p.MatchValue(map[string]any{"price": 9})
	if err != nil || !ok {
		t.Errorf("MatchValue = %v, %v", ok, err)
	}
	if _, err := p.MatchValue(func() {}); err == nil {
		t.Error("MatchValue should fail on unmarshalable input")
	}
}

func TestWhereAdapter(t *testing.T) {
	values := []Value{
		val([]string{"price"}, Gte, 10.0),
		val([]string{"variants", "sku"}, ILike, "ab"),
		val([]string{"title"}, Gt, 1.0), // not allowed, skipped
		{KeyPath: []string{"missing"}, Operator: Eq},
	}
	got := Build[map[string]any](WhereAdapter{}, productSchemas, values)
	want := map[string]any{"AND": []any{
		map[string]any{"price": map[string]any{"gte": 10.0}},
		map[string]any{"variants": map[string]any{"sku": map[string]any{"ilike": "ab"}}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build (-want +got):\n%s", diff)
	}

	single := Build[map[string]any](WhereAdapter{}, productSchemas, values[:1])
	if diff := cmp.Diff(map[string]any{"price": map[string]any{"gte": 10.0}}, single); diff != "" {
		t.Errorf("single filter should not be wrapped (-want +got):\n%s", diff)
	}

	if Build[map[string]any](WhereAdapter{}, productSchemas, nil) != nil {
		t.Error("no values should build nil")
	}
}

func TestDescribe(t *testing.T) {
	status, _ := Find([]string{"status"}, productSchemas)
	archived, _ := Find([]string{"archived"}, productSchemas)
	tests := []struct {
		name   string
		value  Value
		schema *Schema
		want   string
	}{
		{"scalar", val([]string{"price"}, Gte, 10), nil, "Price >= 10"},
		{"list uses option labels", val([]string{"status"}, In, []any{"draft", "published"}), status, "Status in (Draft, Published)"},
		{"range", val([]string{"created"}, Between, []any{"2024-01-01", "2024-02-01"}), nil, "Created <> 2024-01-01 - 2024-02-01"},
		{"open range", val([]string{"created"}, Between, []any{"2024-01-01", nil}), nil, "Created >= 2024-01-01"},
		{"null option", val([]string{"archived"}, Is, nil), archived, "Archived is Null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.value, tt.schema); got != tt.want {
				t.Errorf("Describe = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestState(t *testing.T) {
	fixed := val([]string{"status"}, In, []any{"published"})
	fixed.Fixed = true

	var changes [][]Value
	s := NewState(productSchemas, []Value{fixed}, func(v []Value) { changes = append(changes, v) })

	s.Add(val([]string{"price"}, Gte, 10))
	s.Add(val([]string{"title"}, ILike, "lamp"))
	if got := len(s.Values()); got != 3 {
		t.Fatalf("len = %d, want 3", got)
	}

	s.Remove(0) // fixed
	s.Remove(9) // out of range
	if got := len(s.Values()); got != 3 {
		t.Fatalf("fixed or invalid remove changed state: len = %d", got)
	}
	if len(changes) != 2 {
		t.Fatalf("no-op removes fired onChange: %d changes", len(changes))
	}

	s.Update(1, func(v *Value) { v.Value = 20 })
	if got := s.Values()[1].Value; got != 20 {
		t.Errorf("updated value = %v", got)
	}

	s.Remove(2)
	if got := len(s.Values()); got != 2 {
		t.Errorf("len after remove = %d", got)
	}

	p, err := s.Predicate()
	if err != nil {
		t.Fatal(err)
	}
	if !p.MatchJSON([]byte(lamp)) {
		t.Error("published lamp priced 49.5 should match status in (published) and price >= 20")
	}

	s.Reset()
	if diff := cmp.Diff([]Value{fixed}, s.Values()); diff != "" {
		t.Errorf("Reset (-want +got):\n%s", diff)
	}

	s.Set(nil)
	if len(s.Values()) != 0 {
		t.Error("Set(nil) should clear")
	}
	if last := changes[len(changes)-1]; len(last) != 0 {
		t.Errorf("last change = %v", last)
	}
}

func TestQueryRoundTrip(t *testing.T) {
	q := url.Values{QueryParam: {
		"price:Gte:10",
		"status:In:draft|published",
		"created:Between:2024-01-01..",
		"archived:Is:NOT_NULL",
		"variants.sku:ILike:ab:c",
	}}
	values, err := ParseQuery(productSchemas, q)
	if err != nil {
		t.Fatal(err)
	}
	if got := values[0].Value; got != 10.0 {
		t.Errorf("price value = %#v", got)
	}
	if diff := cmp.Diff([]any{"2024-01-01", nil}, values[2].Value); diff != "" {
		t.Errorf("range (-want +got):\n%s", diff)
	}
	if got := values[4].Value; got != "ab:c" {
		t.Errorf("value with colon = %q", got)
	}
	if diff := cmp.Diff(q, EncodeQuery(values)); diff != "" {
		t.Errorf("EncodeQuery (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"price", "nope:Eq:1", "price:Near:1", "price:Gte:cheap", "created:Between:2024"} {
		if _, err := ParseQuery(productSchemas, url.Values{QueryParam: {bad}}); err == nil {
			t.Errorf("ParseQuery(%q) should fail", bad)
		}
	}
}
