package routepath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantPathname string
		wantSegments []string
		wantQuery    string
		wantChanged  bool
		wantErr      error
	}{
		{name: "root", input: "/", wantPathname: "/"},
		{name: "empty", input: "", wantPathname: "/"},
		{name: "simple", input: "/products/42", wantPathname: "/products/42", wantSegments: []string{"products", "42"}},
		{name: "no leading slash", input: "products", wantPathname: "/products", wantSegments: []string{"products"}, wantChanged: true},
		{name: "trailing slash", input: "/products/", wantPathname: "/products", wantSegments: []string{"products"}, wantChanged: true},
		{name: "collapse slashes", input: "//inventory//products", wantPathname: "/inventory/products", wantSegments: []string{"inventory", "products"}, wantChanged: true},
		{name: "dot segments", input: "/a/./b/../c", wantPathname: "/a/c", wantSegments: []string{"a", "c"}, wantChanged: true},
		{name: "query split", input: "/products?page=2", wantPathname: "/products", wantSegments: []string{"products"}, wantQuery: "page=2"},
		{name: "escapes kept", input: "/tags/a%20b", wantPathname: "/tags/a%20b", wantSegments: []string{"tags", "a%20b"}},
		{name: "backslash", input: `/a\b`, wantErr: ErrBackslash},
		{name: "nul", input: "/a%00", wantErr: ErrNullByte},
		{name: "bad escape", input: "/a%G1", wantErr: ErrInvalidPercentEscape},
		{name: "short escape", input: "/a%2", wantErr: ErrInvalidPercentEscape},
		{name: "escape root", input: "/../etc", wantErr: ErrEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Pathname != tt.wantPathname {
				t.Errorf("Pathname = %q, want %q", got.Pathname, tt.wantPathname)
			}
			if diff := cmp.Diff(tt.wantSegments, got.Segments); diff != "" {
				t.Errorf("Segments mismatch (-want +got):\n%s", diff)
			}
			if got.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", got.Query, tt.wantQuery)
			}
			if got.Changed != tt.wantChanged {
				t.Errorf("Changed = %v, want %v", got.Changed, tt.wantChanged)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	if got := Join(nil); got != "/" {
		t.Errorf("Join(nil) = %q, want /", got)
	}
	if got := Join([]string{"products", "42"}); got != "/products/42" {
		t.Errorf("Join = %q", got)
	}
}

func TestDecodeSegment(t *testing.T) {
	tests := []struct {
		value   string
		multi   bool
		want    string
		wantErr error
	}{
		{value: "42", want: "42"},
		{value: "caf%C3%A9", want: "café"},
		{value: "a%20b", want: "a b"},
		{value: "a%2Fb", wantErr: ErrEncodedSlashInSegment},
		{value: "a%2Fb", multi: true, want: "a/b"},
		{value: "docs/a%20b", multi: true, want: "docs/a b"},
		{value: "%zz", wantErr: ErrInvalidPercentEscape},
	}

	for _, tt := range tests {
		got, err := DecodeSegment(tt.value, tt.multi)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeSegment(%q, %v) err = %v, want %v", tt.value, tt.multi, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("DecodeSegment(%q, %v) = %q, %v; want %q", tt.value, tt.multi, got, err, tt.want)
		}
	}
}
