// Package provider implements synthetic child providers: lazily computed,
// navigable views of a value's children that replace the backend's native
// structure for recognized shapes.
//
// A provider is created per displayed value and owns a small cache of decoded
// layout. The host calls Refresh whenever the target stops again; providers
// then recompute everything from the live value.
package provider

import (
	"github.com/dshills/rsinspect/internal/debug/value"
	"github.com/dshills/rsinspect/internal/logging"
)

// NotFound is returned by ChildIndex for names a provider does not expose.
const NotFound = -1

// Provider exposes the synthetic children of one value.
type Provider interface {
	// NumChildren returns the number of synthetic children.
	NumChildren() int
	// ChildIndex returns the index of the named child, or NotFound.
	ChildIndex(name string) int
	// ChildAtIndex returns the child at index i, or nil if out of range.
	ChildAtIndex(i int) value.Value
	// Refresh recomputes cached state from the live value.
	Refresh()
	// HasChildren reports whether the value should be expandable.
	HasChildren() bool
}

// Default passes through to the backend's native children.
type Default struct {
	v value.Value
}

// NewDefault creates a passthrough provider.
func NewDefault(v value.Value, log *logging.Logger) *Default {
	log.Debug("[DefaultProvider] for %s", v.Name())
	return &Default{v: v}
}

// NumChildren returns the native child count.
func (p *Default) NumChildren() int { return p.v.NumChildren() }

// ChildIndex looks the name up among the native children.
func (p *Default) ChildIndex(name string) int { return p.v.IndexOfChild(name) }

// ChildAtIndex returns the native child at i.
func (p *Default) ChildAtIndex(i int) value.Value { return p.v.ChildAtIndex(i) }

// Refresh is a no-op; native children are always live.
func (p *Default) Refresh() {}

// HasChildren defers to the backend.
func (p *Default) HasChildren() bool { return p.v.MightHaveChildren() }

// Empty never has children.
type Empty struct{}

// NewEmpty creates a provider without children.
func NewEmpty(v value.Value, log *logging.Logger) *Empty {
	log.Debug("[EmptyProvider] for %s", v.Name())
	return &Empty{}
}

// NumChildren always returns 0.
func (Empty) NumChildren() int { return 0 }

// ChildIndex always returns NotFound.
func (Empty) ChildIndex(string) int { return NotFound }

// ChildAtIndex always returns nil.
func (Empty) ChildAtIndex(int) value.Value { return nil }

// Refresh is a no-op.
func (Empty) Refresh() {}

// HasChildren always returns false.
func (Empty) HasChildren() bool { return false }
