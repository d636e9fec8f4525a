// Package censor runs registered interceptors over outbound message content.
//
// An interceptor is a set of components keyed by node type ("text", "image", ...)
// together with a scope. Transform applies every active interceptor whose scope
// accepts the session, in registration order, each one working on the output of
// the previous one.
package censor

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"censorship/pkg/element"
)

// Component rewrites a single node. The returned nodes replace it; an empty result drops it.
type Component func(ctx context.Context, el *element.Element, sess *Session) ([]*element.Element, error)

// Rules maps a node type to the component handling it.
type Rules map[string]Component

// Event summarizes what one interceptor did during one Transform call.
type Event struct {
	Entry    string
	Nodes    int
	Replaced int
	Dropped  int
	Failed   int
	Duration time.Duration
}

type Option func(*Censor)

// WithObserver registers fn to be called after every interceptor applied by Transform.
func WithObserver(fn func(ctx context.Context, ev Event)) Option {
	return func(c *Censor) {
		c.observer = fn
	}
}

type entry struct {
	id       uint64
	name     string
	rules    Rules
	scope    Scope
	disposed atomic.Bool
}

type Censor struct {
	mu      sync.Mutex
	entries []*entry
	nextID  uint64

	observer func(ctx context.Context, ev Event)
}

// New returns a Censor without interceptors.
func New(opts ...Option) *Censor {
	c := &Censor{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Intercept registers rules under scope and returns a function that removes exactly
// this registration. Calling it more than once has no further effect.
func (c *Censor) Intercept(name string, rules Rules, scope Scope) (dispose func()) {
	e := &entry{name: name, rules: rules, scope: scope}

	c.mu.Lock()
	c.nextID++
	e.id = c.nextID
	c.entries = append(c.entries, e)
	c.mu.Unlock()

	log.Debugf("[censor] interceptor %s registered (#%d)", name, e.id)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.remove(e)
		})
	}
}

func (c *Censor) remove(e *entry) {
	e.disposed.Store(true)

	c.mu.Lock()
	c.entries = slices.DeleteFunc(c.entries, func(x *entry) bool { return x == e })
	c.mu.Unlock()

	log.Debugf("[censor] interceptor %s disposed (#%d)", e.name, e.id)
}

// Len returns the number of active interceptors.
func (c *Censor) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Censor) snapshot() []*entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

// Transform applies the interceptors to a copy of nodes. The input is never modified.
// A failing component drops the node it was given and a failing scope skips its
// interceptor; in both cases the chain continues.
func (c *Censor) Transform(ctx context.Context, nodes []*element.Element, sess *Session) ([]*element.Element, error) {
	out := element.CloneAll(nodes)

	for _, e := range c.snapshot() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.disposed.Load() {
			continue
		}

		start := time.Now()
		ev := Event{Entry: e.name}

		ok, err := inScope(e.scope, sess)
		if err != nil {
			log.Warnf("[censor] interceptor %s scope check failed, skipping it: %v", e.name, err)
			ev.Failed++
			ev.Duration = time.Since(start)
			if c.observer != nil {
				c.observer(ctx, ev)
			}
			continue
		}
		if !ok {
			continue
		}

		out, err = e.apply(ctx, out, sess, &ev)
		if err != nil {
			return nil, err
		}

		ev.Duration = time.Since(start)
		if c.observer != nil {
			c.observer(ctx, ev)
		}
	}

	return out, nil
}

// TransformString parses content, transforms it and serializes the result.
func (c *Censor) TransformString(ctx context.Context, content string, sess *Session) (string, error) {
	nodes, err := element.Parse(content)
	if err != nil {
		return "", err
	}

	nodes, err = c.Transform(ctx, nodes, sess)
	if err != nil {
		return "", err
	}

	return element.String(nodes), nil
}

func (e *entry) apply(ctx context.Context, nodes []*element.Element, sess *Session, ev *Event) ([]*element.Element, error) {
	out := make([]*element.Element, 0, len(nodes))

	for _, el := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if el == nil {
			continue
		}

		fn, ok := e.rules[el.Type]
		if !ok {
			if len(el.Children) > 0 {
				children, err := e.apply(ctx, el.Children, sess, ev)
				if err != nil {
					return nil, err
				}
				el.Children = children
			}
			out = append(out, el)
			continue
		}

		ev.Nodes++
		repl, err := call(ctx, fn, el, sess)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			ev.Failed++
			log.Warnf("[censor] interceptor %s failed on %s node, dropping it: %v", e.name, el.Type, err)
			continue
		}

		// Replacements are copied so that nil children are pruned and a node returned
		// twice, or kept by the component, is never shared.
		n := len(out)
		out = append(out, element.CloneAll(repl)...)
		if len(out) == n {
			ev.Dropped++
		} else {
			ev.Replaced++
		}
	}

	return out, nil
}

func call(ctx context.Context, fn Component, el *element.Element, sess *Session) (repl []*element.Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, el, sess)
}

func inScope(s Scope, sess *Session) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.accepts(sess), nil
}
