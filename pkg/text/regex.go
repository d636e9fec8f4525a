package text

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternDiagnostic is the compile outcome of one configured pattern.
type PatternDiagnostic struct {
	Pattern string
	Err     error
}

// OK reports whether the pattern compiled and takes part in matching.
func (d PatternDiagnostic) OK() bool {
	return d.Err == nil
}

// RegexSet is an ordered list of compiled patterns. Order only affects diagnostics.
type RegexSet struct {
	patterns    []*regexp.Regexp
	diagnostics []PatternDiagnostic
}

// CompilePatterns compiles every pattern with dot-matches-newline enabled.
// Patterns that fail to compile are excluded and reported through Diagnostics.
func CompilePatterns(patterns []string) *RegexSet {
	rs := &RegexSet{
		patterns:    make([]*regexp.Regexp, 0, len(patterns)),
		diagnostics: make([]PatternDiagnostic, 0, len(patterns)),
	}

	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		re, err := regexp.Compile("(?s)" + p)
		if err != nil {
			rs.diagnostics = append(rs.diagnostics, PatternDiagnostic{
				Pattern: p,
				Err:     fmt.Errorf("compile pattern %q: %w", p, err),
			})
			continue
		}
		rs.patterns = append(rs.patterns, re)
		rs.diagnostics = append(rs.diagnostics, PatternDiagnostic{Pattern: p})
	}

	return rs
}

// Len returns the number of patterns taking part in matching.
func (rs *RegexSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.patterns)
}

// Diagnostics returns one entry per non-blank configured pattern, in configuration order.
func (rs *RegexSet) Diagnostics() []PatternDiagnostic {
	if rs == nil {
		return nil
	}
	return append([]PatternDiagnostic(nil), rs.diagnostics...)
}

// Match collects all non-overlapping matches of every pattern over the same text.
func (rs *RegexSet) Match(text string) []Span {
	if rs.Len() == 0 || text == "" {
		return nil
	}

	var spans []Span
	for _, re := range rs.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if loc[0] < loc[1] {
				spans = append(spans, Span{Start: loc[0], End: loc[1]})
			}
		}
	}
	return spans
}
