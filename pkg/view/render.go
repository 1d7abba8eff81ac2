package view

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
)

// Renderer writes node trees as HTML.
type Renderer struct {
	// Pretty indents block elements, for development only.
	Pretty bool

	// Indent is the per-level indentation in pretty mode; defaults to two
	// spaces.
	Indent string
}

// Render writes n to w with a default Renderer.
func Render(w io.Writer, n *Node) error {
	return (&Renderer{}).Render(w, n)
}

// String renders n to a string with a default Renderer.
func String(n *Node) string {
	var b strings.Builder
	_ = Render(&b, n)
	return b.String()
}

// Render writes n to w.
func (r *Renderer) Render(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	if err := r.node(bw, n, 0); err != nil {
		return err
	}
	return bw.Flush()
}

// String renders n to a string.
func (r *Renderer) String(n *Node) string {
	var b strings.Builder
	_ = r.Render(&b, n)
	return b.String()
}

func (r *Renderer) node(w *bufio.Writer, n *Node, depth int) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindElement:
		return r.element(w, n, depth)
	case KindText:
		_, err := w.WriteString(html.EscapeString(n.Text))
		return err
	case KindRaw:
		_, err := w.WriteString(n.Text)
		return err
	case KindFragment:
		for _, c := range n.Children {
			if err := r.node(w, c, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("view: unknown node kind %d", n.Kind)
	}
}

func (r *Renderer) element(w *bufio.Writer, n *Node, depth int) error {
	if r.Pretty && depth > 0 {
		r.indent(w, depth)
	}
	w.WriteByte('<')
	w.WriteString(n.Tag)
	r.attrs(w, n.Attrs)
	w.WriteByte('>')

	if voidElements[n.Tag] {
		if r.Pretty {
			w.WriteByte('\n')
		}
		return nil
	}

	block := r.Pretty && len(n.Children) > 0 && !inlineElements[n.Tag]
	if block {
		w.WriteByte('\n')
	}
	for _, c := range n.Children {
		if err := r.node(w, c, depth+1); err != nil {
			return err
		}
	}
	if block {
		r.indent(w, depth)
	}

	w.WriteString("</")
	w.WriteString(n.Tag)
	_, err := w.WriteString(">")
	if r.Pretty {
		w.WriteByte('\n')
	}
	return err
}

func (r *Renderer) attrs(w *bufio.Writer, attrs map[string]any) {
	if len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := attrs[k]
		if b, ok := v.(bool); ok && booleanAttrs[k] {
			if b {
				w.WriteByte(' ')
				w.WriteString(k)
			}
			continue
		}
		s := attrString(v)
		if s == "" {
			continue
		}
		fmt.Fprintf(w, ` %s="%s"`, k, attrEscaper.Replace(s))
	}
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

func attrString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}

func (r *Renderer) indent(w *bufio.Writer, depth int) {
	ind := r.Indent
	if ind == "" {
		ind = "  "
	}
	for i := 0; i < depth; i++ {
		w.WriteString(ind)
	}
}
