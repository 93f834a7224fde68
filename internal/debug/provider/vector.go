package provider

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/rsinspect/internal/debug/value"
	"github.com/dshills/rsinspect/internal/logging"
)

// maxPointerDepth bounds the descent from a vector's buffer to its data
// pointer through wrapper structs.
const maxPointerDepth = 8

// Vector exposes the elements of a growable vector:
//
//	struct Vec<T>    { buf: RawVec<T>, len: usize }
//	struct RawVec<T> { ptr: Unique<T>, cap: usize }
//	struct Unique<T> { pointer: NonZero<*const T> }
//	struct NonZero<T>(T)
//
// Elements are named "[i]" and located at base + i*size.
type Vector struct {
	v   value.Value
	log *logging.Logger

	length   uint64
	capacity uint64
	base     uint64
	dataPtr  value.Value
	elemType *value.Type
	elemSize uint64
	err      error
}

// NewVector creates a vector provider and decodes its header.
func NewVector(v value.Value, log *logging.Logger) *Vector {
	log.Debug("[VectorProvider] for %s", v.Name())
	p := &Vector{v: v, log: log}
	p.Refresh()
	return p
}

// Refresh re-reads length, capacity and the data pointer. A header that
// cannot be decoded leaves the vector empty and is reported by Err.
func (p *Vector) Refresh() {
	p.length, p.capacity, p.base = 0, 0, 0
	p.dataPtr, p.elemType, p.elemSize = nil, nil, 0
	p.err = nil

	lenField := p.v.ChildByName("len")
	buf := p.v.ChildByName("buf")
	if lenField == nil || buf == nil {
		p.fail(fmt.Errorf("%w: %s is missing len or buf", ErrMalformedVector, p.v.Name()))
		return
	}

	ptr := dataPointer(buf)
	if ptr == nil {
		p.fail(fmt.Errorf("%w: %s has no data pointer under buf", ErrMalformedVector, p.v.Name()))
		return
	}
	base, err := ptr.Unsigned()
	if err != nil {
		p.fail(fmt.Errorf("vector %s: reading data pointer: %w", p.v.Name(), err))
		return
	}
	length, err := lenField.Unsigned()
	if err != nil {
		p.fail(fmt.Errorf("vector %s: reading length: %w", p.v.Name(), err))
		return
	}
	if length > math.MaxInt {
		p.fail(fmt.Errorf("%w: %s length %d out of range", ErrMalformedVector, p.v.Name(), length))
		return
	}

	var capacity uint64
	if c := buf.ChildByName("cap"); c != nil {
		capacity, err = c.Unsigned()
		switch {
		case err != nil:
			p.log.Warn("vector %s: reading capacity: %v", p.v.Name(), err)
		case length > capacity:
			p.fail(fmt.Errorf("%w: %s length %d exceeds capacity %d", ErrMalformedVector, p.v.Name(), length, capacity))
			return
		}
	}

	p.dataPtr = ptr
	p.base = base
	p.length = length
	p.capacity = capacity
	p.elemType = ptr.Type().Pointee
	p.elemSize = p.elemType.Size
}

func (p *Vector) fail(err error) {
	p.err = err
	p.log.Warn("%v", err)
}

// dataPointer follows first children from buf down to the first
// pointer-typed value.
func dataPointer(buf value.Value) value.Value {
	cur := buf
	for i := 0; i < maxPointerDepth && cur != nil; i++ {
		cur = cur.ChildAtIndex(0)
		if cur != nil && cur.Type().IsPointer() {
			return cur
		}
	}
	return nil
}

// Len returns the decoded element count.
func (p *Vector) Len() uint64 { return p.length }

// Capacity returns the decoded capacity.
func (p *Vector) Capacity() uint64 { return p.capacity }

// Base returns the address of the first element.
func (p *Vector) Base() uint64 { return p.base }

// ElemType returns the element type, or nil if the header was unreadable.
func (p *Vector) ElemType() *value.Type { return p.elemType }

// Err returns why the last Refresh could not decode the header, or nil.
func (p *Vector) Err() error { return p.err }

// NumChildren returns the element count.
func (p *Vector) NumChildren() int {
	return int(p.length)
}

// ChildIndex parses names of the form "[i]".
func (p *Vector) ChildIndex(name string) int {
	inner, ok := strings.CutPrefix(name, "[")
	if !ok {
		return NotFound
	}
	inner, ok = strings.CutSuffix(inner, "]")
	if !ok {
		return NotFound
	}
	i, err := strconv.ParseUint(inner, 10, 63)
	if err != nil || i >= p.length {
		return NotFound
	}
	return int(i)
}

// ChildAtIndex returns element i, addressed from the data pointer.
func (p *Vector) ChildAtIndex(i int) value.Value {
	if i < 0 || uint64(i) >= p.length || p.dataPtr == nil {
		return nil
	}
	addr := p.base + uint64(i)*p.elemSize
	return p.dataPtr.FromAddress(fmt.Sprintf("[%d]", i), addr, p.elemType)
}

// HasChildren is always true so an empty vector can still be expanded.
func (p *Vector) HasChildren() bool { return true }
