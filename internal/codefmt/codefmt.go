// Package codefmt pretty-prints code snippets destined for code blocks. A
// best-effort rich engine may be consulted first; the light formatter is the
// guaranteed fallback, so formatting as a whole never fails.
package codefmt

import (
	"context"
)

// Kind selects the formatting dialect.
type Kind string

const (
	KindHTML Kind = "html"
	KindCSS  Kind = "css"
)

// Engine formats a snippet of the given kind. Engines may fail; the Formatter
// absorbs their failures.
type Engine interface {
	Format(ctx context.Context, kind Kind, source string) (string, error)
}

// Formatter applies the rich engine when one is configured and working, and
// otherwise the light formatter. Callers cannot tell which path ran; they only
// see the text.
type Formatter struct {
	rich     Engine
	fallback func(kind Kind)
}

// Option customizes a Formatter.
type Option func(*Formatter)

// WithRichEngine replaces the default rich engine. Passing nil disables the
// rich path entirely.
func WithRichEngine(e Engine) Option {
	return func(f *Formatter) { f.rich = e }
}

// WithFallbackHook registers a callback invoked whenever the rich path fails
// and the light formatter takes over (used for metrics).
func WithFallbackHook(hook func(kind Kind)) Option {
	return func(f *Formatter) { f.fallback = hook }
}

// New builds a Formatter backed by the external formatter when it is
// installed.
func New(opts ...Option) *Formatter {
	f := &Formatter{rich: newPrettierEngine()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewLight builds a Formatter that only ever runs the light path.
func NewLight() *Formatter {
	return &Formatter{}
}

// Format pretty-prints source. It never fails: any rich engine error falls
// back to the light formatter.
func (f *Formatter) Format(ctx context.Context, kind Kind, source string) string {
	if f.rich != nil {
		if out, err := f.rich.Format(ctx, kind, source); err == nil {
			return out
		}
		if f.fallback != nil {
			f.fallback(kind)
		}
	}
	return LightFormat(kind, source)
}
