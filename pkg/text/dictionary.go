package text

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CaseMode controls how dictionary words and scanned text are normalized before matching.
type CaseMode int

const (
	CaseNone CaseMode = iota
	CaseLower
	CaseCapital
)

func (m CaseMode) String() string {
	switch m {
	case CaseNone:
		return "none"
	case CaseLower:
		return "lower"
	case CaseCapital:
		return "capital"
	default:
		return "unknown"
	}
}

// ParseCaseMode converts a configuration value into a CaseMode. An empty string means CaseNone.
func ParseCaseMode(s string) (CaseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CaseNone, nil
	case "lower":
		return CaseLower, nil
	case "capital", "upper":
		return CaseCapital, nil
	default:
		return CaseNone, fmt.Errorf("unknown case mode %q (want none, lower or capital)", s)
	}
}

// fold maps a single rune, so normalized text keeps the rune layout of the original.
func (m CaseMode) fold(r rune) rune {
	switch m {
	case CaseLower:
		return unicode.ToLower(r)
	case CaseCapital:
		return unicode.ToUpper(r)
	default:
		return r
	}
}

// ParseWords extracts dictionary words from the content of a word list source.
// Blank lines and lines starting with "//" or "#" are skipped.
func ParseWords(content string) []string {
	var words []string
	for _, line := range strings.Split(content, "\n") {
		word := strings.TrimSpace(line)
		if word == "" || strings.HasPrefix(word, "//") || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	return words
}

// Dictionary is an immutable set of trigger words with a multi-pattern matcher built over it.
type Dictionary struct {
	mode  CaseMode
	words []string
	ac    *automaton
}

// NewDictionary unions the words of every source content, normalizes them with mode and
// builds the matcher once.
func NewDictionary(mode CaseMode, contents ...string) *Dictionary {
	set := make(map[string]struct{})
	for _, content := range contents {
		for _, w := range ParseWords(content) {
			set[strings.Map(mode.fold, w)] = struct{}{}
		}
	}

	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)

	return &Dictionary{
		mode:  mode,
		words: words,
		ac:    buildAutomaton(words),
	}
}

// Len returns the number of distinct words loaded.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

// Mode returns the case handling mode the dictionary was built with.
func (d *Dictionary) Mode() CaseMode {
	return d.mode
}

// Words returns a sorted copy of the normalized words.
func (d *Dictionary) Words() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.words...)
}

// Match reports every occurrence of every word in text, overlapping ones included.
// Spans are byte offsets into the original text.
func (d *Dictionary) Match(text string) []Span {
	if d.Len() == 0 || text == "" {
		return nil
	}

	var spans []Span
	d.ac.scan(text, d.mode.fold, func(start, end int) {
		spans = append(spans, Span{Start: start, End: end})
	})
	return spans
}

// acNode is a state of the Aho-Corasick automaton.
type acNode struct {
	next map[rune]int32
	fail int32
	// out is the length in runes of the word ending in this state, 0 if none.
	out int32
	// dict is the nearest state on the fail chain with out > 0, -1 if none.
	dict int32
}

type automaton struct {
	nodes []acNode
}

func newNode() acNode {
	return acNode{next: make(map[rune]int32), dict: -1}
}

func buildAutomaton(words []string) *automaton {
	a := &automaton{nodes: []acNode{newNode()}}

	for _, w := range words {
		var cur int32
		var n int32
		for _, r := range w {
			nx, ok := a.nodes[cur].next[r]
			if !ok {
				nx = int32(len(a.nodes))
				a.nodes = append(a.nodes, newNode())
				a.nodes[cur].next[r] = nx
			}
			cur = nx
			n++
		}
		if n > 0 {
			a.nodes[cur].out = n
		}
	}

	queue := make([]int32, 0, len(a.nodes))
	for _, child := range a.nodes[0].next {
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for r, v := range a.nodes[u].next {
			queue = append(queue, v)

			f := a.nodes[u].fail
			for f != 0 {
				if _, ok := a.nodes[f].next[r]; ok {
					break
				}
				f = a.nodes[f].fail
			}
			if t, ok := a.nodes[f].next[r]; ok && t != v {
				a.nodes[v].fail = t
			}

			fl := a.nodes[v].fail
			if a.nodes[fl].out > 0 {
				a.nodes[v].dict = fl
			} else {
				a.nodes[v].dict = a.nodes[fl].dict
			}
		}
	}

	return a
}

// scan walks text once and calls emit with the byte range of each word occurrence.
func (a *automaton) scan(text string, fold func(rune) rune, emit func(start, end int)) {
	starts := make([]int, 0, len(text))
	var state int32

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		starts = append(starts, i)
		end := i + size
		c := fold(r)

		for state != 0 {
			if _, ok := a.nodes[state].next[c]; ok {
				break
			}
			state = a.nodes[state].fail
		}
		if t, ok := a.nodes[state].next[c]; ok {
			state = t
		}

		for n := state; n > 0; n = a.nodes[n].dict {
			if out := a.nodes[n].out; out > 0 {
				emit(starts[len(starts)-int(out)], end)
			}
		}

		i = end
	}
}
