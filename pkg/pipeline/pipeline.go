// Package pipeline assembles the configured interceptors into a censor.
package pipeline

import (
	"context"
	"errors"
	"maps"

	log "github.com/sirupsen/logrus"

	"censorship/pkg/censor"
	"censorship/pkg/config"
	"censorship/pkg/image"
	"censorship/pkg/storage"
	"censorship/pkg/storage/memdb"
	"censorship/pkg/text"
	"censorship/pkg/wordlist"
)

var ErrTextDisabled = errors.New("text censor is disabled")

// inlineStore names the memory store holding the words listed in the text section.
const inlineStore = "inline"

type Pipeline struct {
	Censor *censor.Censor
	// Text is nil when the text censor is disabled.
	Text *text.Filter
	// Image is nil when no deny patterns are configured.
	Image *image.Filter

	loader *wordlist.Loader
}

// New loads the word lists and registers the text censor followed by the image censor.
// Sources that fail to load are logged and left out; the returned error joins them.
func New(ctx context.Context, cfg *config.Config, loader *wordlist.Loader, opts ...censor.Option) (*Pipeline, error) {
	p := &Pipeline{
		Censor: censor.New(opts...),
		loader: loader,
	}

	var err error
	if !cfg.Text.Disabled {
		var contents []string
		contents, err = p.loadWords(ctx, cfg.Text)
		p.Text = text.NewFilter(cfg.Text.Options(contents))
		p.Censor.Intercept("text", p.Text.Rules(), cfg.Text.Scope.Scope())
	} else {
		log.Infof("[pipeline] text censor disabled")
	}

	if len(cfg.Image.Deny) > 0 {
		p.Image = image.NewFilter(cfg.Image.Options())
		p.Censor.Intercept("image", p.Image.Rules(), cfg.Image.Scope.Scope())
	}

	return p, err
}

// Reload re-reads the word lists of cfg and swaps the text filter snapshot. Interceptor
// scopes are fixed at construction.
func (p *Pipeline) Reload(ctx context.Context, cfg *config.Config) error {
	if p.Text == nil {
		return ErrTextDisabled
	}

	contents, err := p.loadWords(ctx, cfg.Text)
	p.Text.Reload(cfg.Text.Options(contents))
	return err
}

// loadWords resolves the configured sources. Inline words are served from a memory store
// registered on a copy of the loader, after the other sources.
func (p *Pipeline) loadWords(ctx context.Context, cfg config.Text) ([]string, error) {
	loader := p.loader
	sources := cfg.TextDatabase

	if len(cfg.Words) > 0 {
		l := *p.loader
		l.Stores = maps.Clone(p.loader.Stores)
		if l.Stores == nil {
			l.Stores = make(map[string]storage.WordStore, 1)
		}
		l.Stores[inlineStore] = memdb.New(cfg.Words...)
		loader = &l

		sources = append(sources[:len(sources):len(sources)], "memory:"+inlineStore)
		log.Debugf("[pipeline] %d inline words configured", len(cfg.Words))
	}

	contents, errs := loader.Load(ctx, sources)
	return contents, errors.Join(errs...)
}
