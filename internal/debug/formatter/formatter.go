// Package formatter is the entry point the host debugger calls for each
// displayed value. It classifies the value's type, unwraps enums down to the
// active variant, and routes to a summary or a child provider.
package formatter

import (
	"github.com/dshills/rsinspect/internal/debug/provider"
	"github.com/dshills/rsinspect/internal/debug/shape"
	"github.com/dshills/rsinspect/internal/debug/summary"
	"github.com/dshills/rsinspect/internal/debug/value"
	"github.com/dshills/rsinspect/internal/logging"
)

// DefaultMaxUnwrap is the default budget of enum layers unwrapped per value.
const DefaultMaxUnwrap = 64

// Options configures a Formatter.
type Options struct {
	// Patterns selects the collection naming patterns. Zero value uses defaults.
	Patterns shape.Patterns
	// MaxUnwrap bounds how many enum layers are unwrapped. Zero uses DefaultMaxUnwrap.
	MaxUnwrap int
	// Logger receives diagnostics. Nil discards them.
	Logger *logging.Logger
}

// Formatter resolves summaries and child providers.
type Formatter struct {
	classifier *shape.Classifier
	maxUnwrap  int
	log        *logging.Logger
}

// New creates a formatter.
func New(opts Options) *Formatter {
	if opts.MaxUnwrap <= 0 {
		opts.MaxUnwrap = DefaultMaxUnwrap
	}
	if opts.Logger == nil {
		opts.Logger = logging.Null()
	}
	return &Formatter{
		classifier: shape.NewClassifier(opts.Patterns),
		maxUnwrap:  opts.MaxUnwrap,
		log:        opts.Logger.WithComponent("formatter"),
	}
}

// Classify returns the shape of t.
func (f *Formatter) Classify(t *value.Type) shape.Tag {
	return f.classifier.Classify(t)
}

// Summary returns the one-line summary for v. An empty result means the
// host should use its structural default.
func (f *Formatter) Summary(v value.Value) string {
	target, tag := f.Unwrap(v)

	switch tag {
	case shape.Vector:
		return summary.Size(target, f.log)
	case shape.Text:
		return summary.Text(target, f.log)
	case shape.TextSlice:
		return summary.TextSlice(target, f.log)
	default:
		return ""
	}
}

// Provider returns the child provider for v. It never fails: shapes without
// a dedicated provider get the native passthrough. A c-style variant holds
// nothing but its discriminant, so it has no children.
func (f *Formatter) Provider(v value.Value) provider.Provider {
	target, tag := f.Unwrap(v)

	switch tag {
	case shape.Vector:
		return provider.NewVector(target, f.log)
	case shape.Struct:
		return provider.NewStruct(target, false, f.log)
	case shape.StructVariant:
		return provider.NewStruct(target, true, f.log)
	case shape.Tuple:
		return provider.NewTuple(target, false, f.log)
	case shape.TupleVariant:
		return provider.NewTuple(target, true, f.log)
	case shape.Empty, shape.CStyleVariant:
		return provider.NewEmpty(target, f.log)
	default:
		return provider.NewDefault(target, f.log)
	}
}
