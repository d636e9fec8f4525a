package text

import (
	"reflect"
	"testing"
)

func TestCompilePatterns(t *testing.T) {
	rs := CompilePatterns([]string{`\d+`, "", `(unclosed`, `a.b`})

	if rs.Len() != 2 {
		t.Fatalf("want 2 usable patterns, got %d", rs.Len())
	}

	diags := rs.Diagnostics()
	if len(diags) != 3 {
		t.Fatalf("want 3 diagnostics, got %d", len(diags))
	}
	if !diags[0].OK() || diags[1].OK() || !diags[2].OK() {
		t.Errorf("unexpected diagnostics %+v", diags)
	}
	if diags[1].Pattern != "(unclosed" {
		t.Errorf("want failing pattern %q, got %q", "(unclosed", diags[1].Pattern)
	}
}

func TestRegexSet_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		text     string
		want     []Span
	}{
		{"digits", []string{`\d+`}, "call 555 or 12", []Span{{5, 8}, {12, 14}}},
		{"dot matches newline", []string{`a.b`}, "a\nb", []Span{{0, 3}}},
		{"empty matches skipped", []string{`x*`}, "abc", nil},
		{"several patterns", []string{`foo`, `o+`}, "foo", []Span{{0, 3}, {1, 3}}},
		{"no patterns", nil, "foo", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompilePatterns(tt.patterns).Match(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("want %v, got %v", tt.want, got)
			}
		})
	}
}
