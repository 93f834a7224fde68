package provider

import (
	"strconv"

	"github.com/dshills/rsinspect/internal/debug/value"
	"github.com/dshills/rsinspect/internal/logging"
)

// fieldView maps external child indices onto declared fields. For enum
// variants the leading discriminant field is hidden, so external index i
// is declaration position i+1.
type fieldView struct {
	v      value.Value
	offset int
	fields []value.Field
}

func (f *fieldView) load(v value.Value, variant bool) {
	f.v = v
	f.offset = 0
	if variant {
		f.offset = 1
	}
	f.fields = nil
	if all := v.Type().Fields; len(all) > f.offset {
		f.fields = all[f.offset:]
	}
}

func (f *fieldView) count() int { return len(f.fields) }

func (f *fieldView) child(i int) value.Value {
	if i < 0 || i >= len(f.fields) {
		return nil
	}
	return f.v.ChildAtIndex(i + f.offset)
}

// Struct exposes declared fields by name in declaration order.
type Struct struct {
	view    fieldView
	variant bool
	index   map[string]int
}

// NewStruct creates a provider for a struct, or for a struct variant
// when variant is set.
func NewStruct(v value.Value, variant bool, log *logging.Logger) *Struct {
	if variant {
		log.Debug("[StructVariantProvider] for %s", v.Name())
	} else {
		log.Debug("[StructProvider] for %s", v.Name())
	}
	p := &Struct{variant: variant}
	p.view.load(v, variant)
	p.buildIndex()
	return p
}

func (p *Struct) buildIndex() {
	p.index = make(map[string]int, len(p.view.fields))
	for i, f := range p.view.fields {
		p.index[f.Name] = i
	}
}

// Refresh re-reads the field list from the value's type.
func (p *Struct) Refresh() {
	p.view.load(p.view.v, p.variant)
	p.buildIndex()
}

// NumChildren returns the number of visible fields.
func (p *Struct) NumChildren() int { return p.view.count() }

// ChildIndex returns the position of the named field, or NotFound. The
// discriminant of a variant is not visible.
func (p *Struct) ChildIndex(name string) int {
	if i, ok := p.index[name]; ok {
		return i
	}
	return NotFound
}

// ChildAtIndex returns the i-th visible field under its declared name.
func (p *Struct) ChildAtIndex(i int) value.Value { return p.view.child(i) }

// HasChildren is always true.
func (p *Struct) HasChildren() bool { return true }

// Tuple exposes positional fields renamed "0", "1", ...
type Tuple struct {
	view    fieldView
	variant bool
}

// NewTuple creates a provider for a tuple, or for a tuple variant when
// variant is set.
func NewTuple(v value.Value, variant bool, log *logging.Logger) *Tuple {
	if variant {
		log.Debug("[TupleVariantProvider] for %s", v.Name())
	} else {
		log.Debug("[TupleProvider] for %s", v.Name())
	}
	p := &Tuple{variant: variant}
	p.view.load(v, variant)
	return p
}

// Refresh re-reads the field list from the value's type.
func (p *Tuple) Refresh() { p.view.load(p.view.v, p.variant) }

// NumChildren returns the number of visible positions.
func (p *Tuple) NumChildren() int { return p.view.count() }

// ChildIndex accepts plain decimal positions.
func (p *Tuple) ChildIndex(name string) int {
	if name == "" || name[0] == '+' || name[0] == '-' {
		return NotFound
	}
	i, err := strconv.Atoi(name)
	if err != nil || i >= p.view.count() {
		return NotFound
	}
	return i
}

// ChildAtIndex returns position i renamed to its decimal index.
func (p *Tuple) ChildAtIndex(i int) value.Value {
	c := p.view.child(i)
	if c == nil {
		return nil
	}
	return c.Renamed(strconv.Itoa(i))
}

// HasChildren is always true.
func (p *Tuple) HasChildren() bool { return true }
