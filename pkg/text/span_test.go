package text

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		spans []Span
		want  []Span
	}{
		{"empty", nil, nil},
		{"single", []Span{{2, 5}}, []Span{{2, 5}}},
		{"disjoint unsorted", []Span{{6, 8}, {0, 2}}, []Span{{0, 2}, {6, 8}}},
		{"overlapping", []Span{{0, 3}, {1, 5}}, []Span{{0, 5}}},
		{"touching", []Span{{0, 3}, {3, 5}}, []Span{{0, 5}}},
		{"contained", []Span{{0, 10}, {2, 4}, {5, 6}}, []Span{{0, 10}}},
		{"duplicates", []Span{{1, 4}, {1, 4}}, []Span{{1, 4}}},
		{"empty spans dropped", []Span{{3, 3}, {5, 2}}, nil},
		{"chain", []Span{{8, 12}, {0, 4}, {3, 9}, {14, 15}}, []Span{{0, 12}, {14, 15}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.spans)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMerge_InputUntouched(t *testing.T) {
	in := []Span{{5, 7}, {0, 6}}
	Merge(in)
	if !reflect.DeepEqual(in, []Span{{5, 7}, {0, 6}}) {
		t.Errorf("input modified: %v", in)
	}
}

func TestMerge_Disjoint(t *testing.T) {
	got := Merge([]Span{{9, 11}, {0, 1}, {4, 6}, {2, 3}, {5, 9}, {1, 2}})
	for i := 1; i < len(got); i++ {
		if got[i].Start <= got[i-1].End {
			t.Fatalf("spans %v and %v are not disjoint and separated", got[i-1], got[i])
		}
	}
}
