package pathmatch

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		opts     []Option
		path     string
		wantOK   bool
		wantVals Params
	}{
		{name: "named param", pattern: "/products/:id", path: "/products/42", wantOK: true, wantVals: Params{"id": "42"}},
		{name: "trailing slash tolerated", pattern: "/products/:id", path: "/products/42/", wantOK: true, wantVals: Params{"id": "42"}},
		{name: "pattern trailing slash matches canonical path", pattern: "/products/", path: "/products", wantOK: true, wantVals: Params{}},
		{name: "pattern trailing slash after param", pattern: "/products/:id/", path: "/products/42", wantOK: true, wantVals: Params{"id": "42"}},
		{name: "strict keeps pattern trailing slash", pattern: "/products/", opts: []Option{Strict()}, path: "/products"},
		{name: "strict rejects trailing slash", pattern: "/products/:id", opts: []Option{Strict()}, path: "/products/42/"},
		{name: "case insensitive by default", pattern: "/products/:id", path: "/PRODUCTS/42", wantOK: true, wantVals: Params{"id": "42"}},
		{name: "case sensitive option", pattern: "/products/:id", opts: []Option{CaseSensitive()}, path: "/PRODUCTS/42"},
		{name: "missing segment", pattern: "/products/:id", path: "/products"},
		{name: "extra segment", pattern: "/products/:id", path: "/products/42/edit"},
		{name: "percent decoded", pattern: "/tags/:tag", path: "/tags/caf%C3%A9%20bar", wantOK: true, wantVals: Params{"tag": "café bar"}},
		{name: "encoded slash rejected", pattern: "/tags/:tag", path: "/tags/a%2Fb"},
		{name: "static only", pattern: "/products/new", path: "/products/new", wantOK: true, wantVals: Params{}},
		{name: "root", pattern: "/", path: "/", wantOK: true, wantVals: Params{}},
		{name: "root does not match child", pattern: "/", path: "/x"},
		{name: "wildcard", pattern: "/files/*path", path: "/files/a/b%20c/d", wantOK: true, wantVals: Params{"path": "a/b c/d"}},
		{name: "wildcard needs a segment", pattern: "/files/*path", path: "/files"},
		{name: "optional group absent", pattern: "/products{/:id}", path: "/products", wantOK: true, wantVals: Params{}},
		{name: "optional group present", pattern: "/products{/:id}", path: "/products/7", wantOK: true, wantVals: Params{"id": "7"}},
		{name: "nested groups", pattern: "/r{/:a{/:b}}", path: "/r/1/2", wantOK: true, wantVals: Params{"a": "1", "b": "2"}},
		{name: "legacy optional absent", pattern: "/products/:id?", path: "/products", wantOK: true, wantVals: Params{}},
		{name: "legacy optional present", pattern: "/products/:id?", path: "/products/9", wantOK: true, wantVals: Params{"id": "9"}},
		{name: "typed int ok", pattern: "/products/:id:int", path: "/products/12", wantOK: true, wantVals: Params{"id": "12"}},
		{name: "typed int rejects text", pattern: "/products/:id:int", path: "/products/new"},
		{name: "typed uint rejects negative", pattern: "/p/:n:uint", path: "/p/-1"},
		{name: "typed uuid", pattern: "/u/:id:uuid", path: "/u/0b5e5f1c-8f5e-4a44-9a4c-2f8a2b1b0c11", wantOK: true, wantVals: Params{"id": "0b5e5f1c-8f5e-4a44-9a4c-2f8a2b1b0c11"}},
		{name: "typed uuid rejects text", pattern: "/u/:id:uuid", path: "/u/nope"},
		{name: "escaped braces", pattern: `/a\{b\}`, path: "/a{b}", wantOK: true, wantVals: Params{}},
		{name: "two params", pattern: "/categories/:cat/products/:id", path: "/categories/tools/products/3", wantOK: true, wantVals: Params{"cat": "tools", "id": "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.pattern, tt.opts...)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.pattern, err)
			}
			got, ok := m.Match(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.wantVals, got); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatchDeterministic(t *testing.T) {
	m := MustCompile("/products/:id{/*rest}")
	first, ok1 := m.Match("/products/1/a/b")
	second, ok2 := m.Match("/products/1/a/b")
	if ok1 != ok2 {
		t.Fatal("match result changed between calls")
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("params changed between calls:\n%s", diff)
	}

	first["id"] = "mutated"
	third, _ := m.Match("/products/1/a/b")
	if third.Get("id") != "1" {
		t.Error("mutating returned params leaked into the matcher")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		pattern string
		want    error
	}{
		{"", ErrEmptyPattern},
		{"products", ErrMissingLeadingSep},
		{"/a{/b", ErrUnbalancedGroup},
		{"/a}/b", ErrUnbalancedGroup},
		{"/a/:", ErrMissingName},
		{"/a/:/b", ErrMissingName},
		{"/a/*", ErrMissingName},
		{"/a/:id/:id", ErrDuplicateName},
		{"/a/:id/*id", ErrDuplicateName},
		{"/a/(x)", ErrReservedChar},
		{"/a/[x]", ErrReservedChar},
		{"/a+", ErrReservedChar},
		{"/a?", ErrReservedChar},
		{"/a/:id:float", ErrUnknownType},
		{`/a\`, ErrTrailingEscape},
		{"/a{}", ErrEmptyGroup},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Compile(tt.pattern)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Compile(%q) err = %v, want %v", tt.pattern, err, tt.want)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not *SyntaxError", err)
			}
			if se.Pattern != tt.pattern {
				t.Errorf("SyntaxError.Pattern = %q, want %q", se.Pattern, tt.pattern)
			}
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic on a malformed pattern")
		}
	}()
	MustCompile("/a/:")
}

func TestKeys(t *testing.T) {
	m := MustCompile("/p/:id:int{/*rest}")
	want := []Key{
		{Name: "id", Type: TypeInt},
		{Name: "rest", Wildcard: true, Optional: true},
	}
	if diff := cmp.Diff(want, m.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	if m.Pattern() != "/p/:id:int{/*rest}" {
		t.Errorf("Pattern() = %q", m.Pattern())
	}
}

func TestParamsDecode(t *testing.T) {
	m := MustCompile("/p/:id/:active{/*rest}")
	params, ok := m.Match("/p/42/true/a/b")
	if !ok {
		t.Fatal("expected match")
	}

	var target struct {
		ID     int      `param:"id"`
		Active bool     `param:"active"`
		Rest   []string `param:"rest"`
		Other  string   `param:"other"`
	}
	if err := params.Decode(&target); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if target.ID != 42 || !target.Active {
		t.Errorf("decoded %+v", target)
	}
	if diff := cmp.Diff([]string{"a", "b"}, target.Rest); diff != "" {
		t.Errorf("Rest mismatch:\n%s", diff)
	}

	var bad struct {
		ID int `param:"id"`
	}
	if err := (Params{"id": "x"}).Decode(&bad); err == nil {
		t.Error("Decode should fail on a non-integer value")
	}
	if err := params.Decode(target); err == nil {
		t.Error("Decode should reject a non-pointer target")
	}
}

func TestParamsHelpers(t *testing.T) {
	p := Params{"id": "7", "path": "a/b"}
	if n, err := p.Int("id"); err != nil || n != 7 {
		t.Errorf("Int = %d, %v", n, err)
	}
	if _, err := p.Int("missing"); err == nil {
		t.Error("Int on a missing param should fail")
	}
	if diff := cmp.Diff([]string{"a", "b"}, p.Segments("path")); diff != "" {
		t.Errorf("Segments mismatch:\n%s", diff)
	}
	if p.Segments("missing") != nil {
		t.Error("Segments on missing param should be nil")
	}
	c := p.Clone()
	c["id"] = "8"
	if p.Get("id") != "7" {
		t.Error("Clone shares storage with the original")
	}
}
