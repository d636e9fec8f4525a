package text

import "sort"

// Span is a half-open [Start, End) byte range of a matched region in the original text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Merge sorts spans reported by any number of matchers and coalesces overlapping
// and touching ones. The result is ascending and disjoint. The input is not modified.
func Merge(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < s.End {
			sorted = append(sorted, s)
		}
	}
	if len(sorted) == 0 {
		return nil
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	merged := make([]Span, 0, len(sorted))
	cur := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= cur.End {
			if next.End > cur.End {
				cur.End = next.End
			}
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	merged = append(merged, cur)

	return merged
}
