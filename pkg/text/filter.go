// Package text redacts sensitive words and patterns from message text.
//
// A dictionary matcher and a set of regular expressions both scan the untouched
// original text; their spans are merged and the text is rewritten once.
package text

import (
	"context"
	"errors"
	"sync/atomic"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"censorship/pkg/censor"
	"censorship/pkg/element"
)

// ErrUnprocessable is returned for text the matchers cannot give a definitive result for.
var ErrUnprocessable = errors.New("text cannot be processed")

// Options configures a filter snapshot. Contents are already resolved word list sources.
type Options struct {
	Contents []string
	CaseMode CaseMode
	Patterns []string
	Policy   Policy
	// CacheSize bounds the result cache, zero or less disables it.
	CacheSize int
}

// Snapshot is an immutable dictionary, pattern set and policy.
type Snapshot struct {
	Dictionary *Dictionary
	Regex      *RegexSet
	Policy     Policy

	cache *resultCache
}

// NewSnapshot builds the matchers for opts. Invalid patterns are excluded and
// reported through Regex.Diagnostics.
func NewSnapshot(opts Options) *Snapshot {
	return &Snapshot{
		Dictionary: NewDictionary(opts.CaseMode, opts.Contents...),
		Regex:      CompilePatterns(opts.Patterns),
		Policy:     opts.Policy,
		cache:      newResultCache(opts.CacheSize),
	}
}

// Spans returns the merged spans of every matcher over text.
func (s *Snapshot) Spans(text string) []Span {
	spans := s.Dictionary.Match(text)
	spans = append(spans, s.Regex.Match(text)...)
	return Merge(spans)
}

// Apply redacts text. With no words and no patterns the text is returned unchanged.
func (s *Snapshot) Apply(text string) (string, error) {
	if !utf8.ValidString(text) {
		return "", ErrUnprocessable
	}
	if s.Dictionary.Len() == 0 && s.Regex.Len() == 0 {
		return text, nil
	}
	if out, ok := s.cache.get(text); ok {
		return out, nil
	}

	out := Redact(text, s.Spans(text), s.Policy)
	s.cache.put(text, out)

	return out, nil
}

// Stats describes the loaded sources of a snapshot.
type Stats struct {
	Words    int
	Patterns []PatternDiagnostic
	Cached   int
}

func (s *Snapshot) Stats() Stats {
	return Stats{
		Words:    s.Dictionary.Len(),
		Patterns: s.Regex.Diagnostics(),
		Cached:   s.cache.len(),
	}
}

// Filter serves redaction from the current snapshot. Reload swaps the snapshot
// atomically; calls in flight finish on the snapshot they started with.
type Filter struct {
	snap atomic.Pointer[Snapshot]
}

func NewFilter(opts Options) *Filter {
	f := &Filter{}
	f.Reload(opts)
	return f
}

// Reload builds a new snapshot from opts and makes it current.
func (f *Filter) Reload(opts Options) *Snapshot {
	s := NewSnapshot(opts)
	for _, d := range s.Regex.Diagnostics() {
		if !d.OK() {
			log.Warnf("[text] invalid regex pattern excluded: %v", d.Err)
		}
	}
	f.snap.Store(s)
	log.Infof("[text] filter loaded: %d words, %d patterns, mode %s", s.Dictionary.Len(), s.Regex.Len(), s.Policy.Mode)
	return s
}

// Snapshot returns the current snapshot.
func (f *Filter) Snapshot() *Snapshot {
	return f.snap.Load()
}

func (f *Filter) Apply(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.snap.Load().Apply(text)
}

// Rules returns the interceptor rules handling text nodes.
func (f *Filter) Rules() censor.Rules {
	return censor.Rules{element.TypeText: f.censorText}
}

func (f *Filter) censorText(ctx context.Context, el *element.Element, _ *censor.Session) ([]*element.Element, error) {
	out, err := f.Apply(ctx, el.Content())
	if errors.Is(err, ErrUnprocessable) {
		log.Debugf("[text] dropping unprocessable text node")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return []*element.Element{element.Text(out)}, nil
}
