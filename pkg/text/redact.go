package text

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Mode selects how a matched span is rewritten.
type Mode int

const (
	// Mask replaces every rune of a span with the mask character.
	Mask Mode = iota
	// Delete removes the span entirely.
	Delete
)

func (m Mode) String() string {
	switch m {
	case Mask:
		return "mask"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

const DefaultMaskChar = '*'

// Policy is the redaction policy applied to merged spans.
type Policy struct {
	Mode     Mode
	MaskChar rune
}

func (p Policy) maskChar() rune {
	if p.MaskChar == 0 {
		return DefaultMaskChar
	}
	return p.MaskChar
}

// Redact rewrites the merged spans of text according to p. Spans are processed from the
// last to the first so that offsets of the remaining spans stay valid. Only indices are
// used; existing mask characters in the text are left alone.
func Redact(text string, spans []Span, p Policy) string {
	if len(spans) == 0 {
		return text
	}

	buf := []byte(text)
	mask := string(p.maskChar())
	removed := false
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		if s.Start < 0 || s.End > len(text) || s.Start >= s.End {
			continue
		}

		switch p.Mode {
		case Delete:
			buf = slices.Delete(buf, s.Start, s.End)
			removed = true
		default:
			n := utf8.RuneCountInString(text[s.Start:s.End])
			buf = slices.Replace(buf, s.Start, s.End, []byte(strings.Repeat(mask, n))...)
		}
	}

	if removed {
		return strings.TrimSpace(string(buf))
	}
	return string(buf)
}
