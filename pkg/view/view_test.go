package view

import (
	"strings"
	"testing"
)

func TestRenderElement(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{
			name: "attributes sorted",
			node: Div(ID("x"), Class("a"), Data("level", 2), "hi"),
			want: `<div class="a" data-level="2" id="x">hi</div>`,
		},
		{
			name: "class merged",
			node: Span(Class("a"), Class("b", "c")),
			want: `<span class="a b c"></span>`,
		},
		{
			name: "text escaped",
			node: P("<script>&"),
			want: `<p>&lt;script&gt;&amp;</p>`,
		},
		{
			name: "attr escaped",
			node: Link(Href(`/x?a="1"&b`)),
			want: `<a href="/x?a=&quot;1&quot;&amp;b"></a>`,
		},
		{
			name: "boolean attrs",
			node: Button(A("disabled", true), Hidden(false), "ok"),
			want: `<button disabled>ok</button>`,
		},
		{
			name: "void element",
			node: El("br"),
			want: `<br>`,
		},
		{
			name: "fragment and raw",
			node: Fragment(Raw("<b>x</b>"), Text("y"), nil),
			want: `<b>x</b>y`,
		},
		{
			name: "if and range",
			node: Ul(If(false, Li("no")), Range([]string{"a", "b"}, func(i int, s string) *Node {
				return Li(s)
			})),
			want: `<ul><li>a</li><li>b</li></ul>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.node); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderPretty(t *testing.T) {
	r := &Renderer{Pretty: true}
	got := r.String(Div(Ul(Li("a"))))
	want := "<div>\n  <ul>\n    <li>a</li>\n  </ul>\n</div>\n"
	if got != want {
		t.Errorf("pretty = %q, want %q", got, want)
	}
}

func TestMarkdownSanitized(t *testing.T) {
	n, err := Markdown("**Stock** levels <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Markdown error: %v", err)
	}
	out := String(n)
	if !strings.Contains(out, "<strong>Stock</strong>") {
		t.Errorf("markdown not rendered: %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("script survived sanitization: %q", out)
	}

	if n, _ := Markdown(""); n != nil {
		t.Error("empty source should render nothing")
	}
}

func TestKindString(t *testing.T) {
	if KindRaw.String() != "Raw" || Kind(42).String() != "Unknown" {
		t.Error("unexpected Kind.String output")
	}
}
