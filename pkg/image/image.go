// Package image blocks outbound images whose URL matches a deny list.
package image

import (
	"context"

	log "github.com/sirupsen/logrus"

	"censorship/pkg/censor"
	"censorship/pkg/element"
	"censorship/pkg/text"
)

const DefaultReplacement = "detected_unsafe_images"

type Options struct {
	// Deny holds URL patterns. Invalid ones are excluded and reported by Diagnostics.
	Deny []string
	// Replacement is the text sent instead of a denied image. Empty drops the image.
	Replacement string
}

type Filter struct {
	deny        *text.RegexSet
	replacement string
}

func NewFilter(opts Options) *Filter {
	f := &Filter{
		deny:        text.CompilePatterns(opts.Deny),
		replacement: opts.Replacement,
	}
	for _, d := range f.deny.Diagnostics() {
		if !d.OK() {
			log.Warnf("[image] invalid deny pattern excluded: %v", d.Err)
		}
	}
	return f
}

// Diagnostics returns the compile outcome of each deny pattern.
func (f *Filter) Diagnostics() []text.PatternDiagnostic {
	return f.deny.Diagnostics()
}

// Denied reports whether url matches a deny pattern.
func (f *Filter) Denied(url string) bool {
	return url != "" && len(f.deny.Match(url)) > 0
}

// Rules returns the interceptor rules handling image nodes.
func (f *Filter) Rules() censor.Rules {
	return censor.Rules{element.TypeImage: f.censorImage}
}

func (f *Filter) censorImage(ctx context.Context, el *element.Element, _ *censor.Session) ([]*element.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	url := el.Attr("url")
	if !f.Denied(url) {
		return []*element.Element{el}, nil
	}

	log.Debugf("[image] blocked image %s", url)
	if f.replacement == "" {
		return nil, nil
	}
	return []*element.Element{element.Text(f.replacement)}, nil
}
