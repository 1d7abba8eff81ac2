package view

func Div(args ...any) *Node     { return El("div", args...) }
func Span(args ...any) *Node    { return El("span", args...) }
func P(args ...any) *Node       { return El("p", args...) }
func H1(args ...any) *Node      { return El("h1", args...) }
func H2(args ...any) *Node      { return El("h2", args...) }
func Nav(args ...any) *Node     { return El("nav", args...) }
func Ul(args ...any) *Node      { return El("ul", args...) }
func Li(args ...any) *Node      { return El("li", args...) }
func Link(args ...any) *Node    { return El("a", args...) }
func Aside(args ...any) *Node   { return El("aside", args...) }
func Header(args ...any) *Node  { return El("header", args...) }
func Main(args ...any) *Node    { return El("main", args...) }
func Section(args ...any) *Node { return El("section", args...) }
func Button(args ...any) *Node  { return El("button", args...) }
func Dl(args ...any) *Node      { return El("dl", args...) }
func Dt(args ...any) *Node      { return El("dt", args...) }
func Dd(args ...any) *Node      { return El("dd", args...) }

// voidElements have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// inlineElements stay on one line in pretty output.
var inlineElements = map[string]bool{
	"a":      true,
	"b":      true,
	"code":   true,
	"em":     true,
	"i":      true,
	"small":  true,
	"span":   true,
	"strong": true,
	"button": true,
	"dt":     true,
	"dd":     true,
	"h1":     true,
	"h2":     true,
	"p":      true,
}

// booleanAttrs render as a bare name when true and are omitted when false.
var booleanAttrs = map[string]bool{
	"async":    true,
	"checked":  true,
	"defer":    true,
	"disabled": true,
	"hidden":   true,
	"open":     true,
	"readonly": true,
	"required": true,
	"selected": true,
}
