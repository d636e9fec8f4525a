// Package element models message content as a tree of typed nodes with attributes
// and converts it to and from its markup form.
//
// Text is held by nodes of type "text" in the "content" attribute:
//
//	hello <image url="https://example.com/a.png"/> world
//
// parses into a text node, an image node and another text node.
package element

import (
	"sort"
	"strings"
)

const (
	TypeText  = "text"
	TypeImage = "image"
)

type Element struct {
	Type     string            `json:"type"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*Element        `json:"children,omitempty"`
}

// New returns an element of the given type. attrs may be nil.
func New(typ string, attrs map[string]string, children ...*Element) *Element {
	return &Element{Type: typ, Attrs: attrs, Children: children}
}

// Text returns a text node.
func Text(content string) *Element {
	return &Element{Type: TypeText, Attrs: map[string]string{"content": content}}
}

// Image returns an image node pointing at url.
func Image(url string) *Element {
	return &Element{Type: TypeImage, Attrs: map[string]string{"url": url}}
}

// Attr returns the attribute value or an empty string.
func (e *Element) Attr(key string) string {
	if e == nil || e.Attrs == nil {
		return ""
	}
	return e.Attrs[key]
}

// Content returns the text of a text node.
func (e *Element) Content() string {
	return e.Attr("content")
}

// Clone returns a deep copy of e.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}

	c := &Element{Type: e.Type}
	if e.Attrs != nil {
		c.Attrs = make(map[string]string, len(e.Attrs))
		for k, v := range e.Attrs {
			c.Attrs[k] = v
		}
	}
	c.Children = CloneAll(e.Children)

	return c
}

// CloneAll deep copies a list of nodes.
func CloneAll(els []*Element) []*Element {
	if els == nil {
		return nil
	}
	out := make([]*Element, 0, len(els))
	for _, el := range els {
		if el != nil {
			out = append(out, el.Clone())
		}
	}
	return out
}

// PlainText concatenates the content of every text node in document order.
func PlainText(els []*Element) string {
	var sb strings.Builder
	var walk func([]*Element)
	walk = func(nodes []*Element) {
		for _, el := range nodes {
			if el.Type == TypeText {
				sb.WriteString(el.Content())
				continue
			}
			walk(el.Children)
		}
	}
	walk(els)
	return sb.String()
}

func (e *Element) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

// String serializes nodes into markup. Attributes are written in key order.
func String(els []*Element) string {
	var sb strings.Builder
	for _, el := range els {
		el.write(&sb)
	}
	return sb.String()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func (e *Element) write(sb *strings.Builder) {
	if e == nil {
		return
	}
	if e.Type == TypeText {
		textEscaper.WriteString(sb, e.Content())
		return
	}

	sb.WriteByte('<')
	sb.WriteString(e.Type)

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		attrEscaper.WriteString(sb, e.Attrs[k])
		sb.WriteByte('"')
	}

	if len(e.Children) == 0 {
		sb.WriteString("/>")
		return
	}

	sb.WriteByte('>')
	for _, c := range e.Children {
		c.write(sb)
	}
	sb.WriteString("</")
	sb.WriteString(e.Type)
	sb.WriteByte('>')
}
