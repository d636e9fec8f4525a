package element

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse converts markup into a list of nodes. Text keeps its line endings and tag names
// keep their case; entities in text and attribute values are decoded and attribute names
// are lowercased. Every tag may hold child tags, including the ones HTML treats as raw
// text. Self-closing tags become leaves, end tags without a matching open tag are ignored
// and open tags are closed at the end of input.
func Parse(s string) ([]*Element, error) {
	root := &Element{}
	stack := []*Element{root}
	z := html.NewTokenizer(strings.NewReader(s))

	for {
		tt := z.Next()
		top := stack[len(stack)-1]

		// TagName and TagAttr lowercase the buffer in place, so take the raw form first.
		raw := string(z.Raw())

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return root.Children, nil
			}
			return nil, fmt.Errorf("parse content: %w", z.Err())

		case html.TextToken:
			top.Children = append(top.Children, Text(html.UnescapeString(raw)))

		case html.StartTagToken, html.SelfClosingTagToken:
			z.NextIsNotRawText()

			el := &Element{Type: tagName(raw)}
			for {
				key, val, more := z.TagAttr()
				if len(key) > 0 {
					if el.Attrs == nil {
						el.Attrs = make(map[string]string)
					}
					el.Attrs[string(key)] = string(val)
				}
				if !more {
					break
				}
			}
			top.Children = append(top.Children, el)
			if tt == html.StartTagToken {
				stack = append(stack, el)
			}

		case html.EndTagToken:
			name := tagName(raw)
			for i := len(stack) - 1; i > 0; i-- {
				if strings.EqualFold(stack[i].Type, name) {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// tagName slices the name out of a raw start or end tag such as `<At id="1"/>` or `</At>`.
func tagName(raw string) string {
	raw = strings.TrimPrefix(raw, "<")
	raw = strings.TrimPrefix(raw, "/")
	if i := strings.IndexAny(raw, " \t\n\r\f/>"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
