package text

import "testing"

func TestRedact(t *testing.T) {
	mask := Policy{Mode: Mask}
	del := Policy{Mode: Delete}

	tests := []struct {
		name   string
		text   string
		spans  []Span
		policy Policy
		want   string
	}{
		{"no spans", "hello world", nil, mask, "hello world"},
		{"no spans keeps spaces", "  hello  ", nil, del, "  hello  "},
		{"mask", "hello world", []Span{{6, 11}}, mask, "hello *****"},
		{"custom mask", "hello world", []Span{{6, 11}}, Policy{Mode: Mask, MaskChar: '#'}, "hello #####"},
		{"delete", "hello world", []Span{{6, 11}}, del, "hello"},
		{"delete middle", "a bad b", []Span{{2, 5}}, del, "a  b"},
		{"multiple", "foo and bar", []Span{{0, 3}, {8, 11}}, mask, "*** and ***"},
		{"multibyte mask", "привет мир", []Span{{13, 19}}, mask, "привет ***"},
		{"multi-rune mask char", "ab", []Span{{0, 2}}, Policy{Mode: Mask, MaskChar: '█'}, "██"},
		{"mask char in text", "** secret", []Span{{3, 9}}, mask, "** ******"},
		{"out of range ignored", "abc", []Span{{1, 10}}, mask, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Redact(tt.text, tt.spans, tt.policy); got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRedact_OverlappingMatchers(t *testing.T) {
	text := "hello world"
	dict := NewDictionary(CaseNone, "hello")
	re := CompilePatterns([]string{`lo wo`})

	spans := Merge(append(dict.Match(text), re.Match(text)...))
	if got := Redact(text, spans, Policy{Mode: Mask}); got != "********rld" {
		t.Errorf("want %q, got %q", "********rld", got)
	}
}

func TestRedact_Idempotent(t *testing.T) {
	s := NewSnapshot(Options{Contents: []string{"secret"}, Patterns: []string{`\d{4}`}})

	once, err := s.Apply("my secret pin is 1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := s.Apply(once)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if once != twice {
		t.Errorf("want %q after second pass, got %q", once, twice)
	}
	if once != "my ****** pin is ****" {
		t.Errorf("want %q, got %q", "my ****** pin is ****", once)
	}
}

func TestMode_String(t *testing.T) {
	if Mask.String() != "mask" || Delete.String() != "delete" {
		t.Errorf("unexpected mode names %q, %q", Mask, Delete)
	}
}

func TestRedact_DeleteNothingRemoved(t *testing.T) {
	got := Redact("  abc  ", []Span{{5, 20}}, Policy{Mode: Delete})
	if got != "  abc  " {
		t.Errorf("want input unchanged, got %q", got)
	}
}
