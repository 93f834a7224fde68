package formatter

import (
	"github.com/dshills/rsinspect/internal/debug/shape"
	"github.com/dshills/rsinspect/internal/debug/value"
)

// Unwrap follows enum layers down to the value that should be displayed.
// A regular enum resolves to the variant selected by its stored
// discriminant, a singleton enum to its lone variant. Unwrapping stops at
// the first non-enum shape.
//
// At most maxUnwrap enum layers are removed. If a discriminant cannot be
// read or selects no variant, or a further enum layer remains once the
// budget is spent, the current value is returned as Other so it falls back
// to the native view.
func (f *Formatter) Unwrap(v value.Value) (value.Value, shape.Tag) {
	cur := v
	for layers := 0; ; layers++ {
		tag := f.classifier.Classify(cur.Type())

		switch tag {
		case shape.RegularEnum, shape.SingletonEnum:
		case shape.CompressedEnum:
			if err := shape.Check(cur.Type()); err != nil {
				f.log.Warn("%s: %v", cur.Name(), err)
			}
			return cur, tag
		default:
			return cur, tag
		}

		if layers == f.maxUnwrap {
			f.log.Warn("%s: enum nesting exceeds %d layers", v.Name(), f.maxUnwrap)
			return cur, shape.Other
		}

		var next value.Value
		if tag == shape.RegularEnum {
			next = f.activeVariant(cur)
		} else {
			next = cur.ChildAtIndex(0)
		}
		if next == nil {
			return cur, shape.Other
		}
		cur = next
	}
}

// activeVariant reads the discriminant stored in the first field of the
// first variant and returns the variant it selects.
func (f *Formatter) activeVariant(enum value.Value) value.Value {
	first := enum.ChildAtIndex(0)
	if first == nil {
		return nil
	}
	marker := first.ChildAtIndex(0)
	if marker == nil {
		f.log.Warn("%s: first variant has no discriminant", enum.Name())
		return nil
	}

	d, err := marker.Unsigned()
	if err != nil {
		f.log.Warn("%s: reading discriminant: %v", enum.Name(), err)
		return nil
	}
	if d >= uint64(enum.NumChildren()) {
		f.log.Warn("%s: discriminant %d selects none of %d variants", enum.Name(), d, enum.NumChildren())
		return nil
	}
	return enum.ChildAtIndex(int(d))
}
