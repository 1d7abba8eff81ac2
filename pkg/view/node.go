// Package view is a small server-side node tree for admin pages and drawer
// panels, plus an HTML writer.
//
// Components build trees with El and the attribute helpers; Render writes
// them out with attributes sorted for deterministic output.
package view

import (
	"fmt"
	"strings"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <aside>, etc.
	KindText                 // escaped text
	KindFragment             // children without a wrapper
	KindRaw                  // trusted HTML
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Node is one node of a rendered tree.
type Node struct {
	Kind     Kind
	Tag      string
	Attrs    map[string]any
	Children []*Node
	Text     string
}

// Attr is a single element attribute.
type Attr struct {
	Key   string
	Value any
}

// El creates an element. Arguments may be Attr, []Attr, *Node, []*Node or
// string (as text); nil values are skipped.
func El(tag string, args ...any) *Node {
	n := &Node{Kind: KindElement, Tag: tag}
	n.add(args)
	return n
}

// Fragment groups children without a wrapper element.
func Fragment(args ...any) *Node {
	n := &Node{Kind: KindFragment}
	n.add(args)
	return n
}

func (n *Node) add(args []any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case Attr:
			n.setAttr(v)
		case []Attr:
			for _, a := range v {
				n.setAttr(a)
			}
		case *Node:
			if v != nil {
				n.Children = append(n.Children, v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					n.Children = append(n.Children, c)
				}
			}
		case string:
			n.Children = append(n.Children, Text(v))
		default:
			n.Children = append(n.Children, Text(fmt.Sprint(v)))
		}
	}
}

func (n *Node) setAttr(a Attr) {
	if a.Key == "" || n.Kind != KindElement {
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	if a.Key == "class" {
		if prev, ok := n.Attrs["class"].(string); ok && prev != "" {
			a.Value = prev + " " + fmt.Sprint(a.Value)
		}
	}
	n.Attrs[a.Key] = a.Value
}

// Text creates a text node.
func Text(content string) *Node {
	return &Node{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node. The caller vouches for the content.
func Raw(html string) *Node {
	return &Node{Kind: KindRaw, Text: html}
}

// If returns node when cond is true.
func If(cond bool, node *Node) *Node {
	if cond {
		return node
	}
	return nil
}

// Range maps items to nodes, skipping nil results.
func Range[T any](items []T, fn func(int, T) *Node) []*Node {
	out := make([]*Node, 0, len(items))
	for i, item := range items {
		if n := fn(i, item); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// A creates an arbitrary attribute.
func A(key string, value any) Attr { return Attr{Key: key, Value: value} }

// ID sets the id attribute.
func ID(id string) Attr { return A("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return A("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute.
func Data(key string, value any) Attr { return A("data-"+key, value) }

// Href sets the href attribute.
func Href(url string) Attr { return A("href", url) }

// Role sets the role attribute.
func Role(role string) Attr { return A("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return A("aria-label", label) }

// AriaCurrent sets the aria-current attribute.
func AriaCurrent(value string) Attr { return A("aria-current", value) }

// AriaBusy sets the aria-busy attribute.
func AriaBusy(busy bool) Attr { return A("aria-busy", busy) }

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return A("style", style) }

// Hidden sets the boolean hidden attribute.
func Hidden(hidden bool) Attr { return A("hidden", hidden) }
