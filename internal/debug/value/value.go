// Package value defines the capability surface the formatters need from a
// debugger backend: type metadata, child access, scalar reads and raw memory.
//
// A backend (LLDB bridge, DAP adapter, or the in-memory snapshot backend)
// implements Value and Process. The formatters only borrow access through
// these interfaces and never own target memory.
package value

// Kind is the coarse meta-kind of a type as reported by the backend.
type Kind int

const (
	// KindOther covers scalars, pointers, arrays and anything else.
	KindOther Kind = iota
	// KindStruct is a struct-like aggregate.
	KindStruct
	// KindUnion is a union-like aggregate.
	KindUnion
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	default:
		return "other"
	}
}

// Field describes one declared field of an aggregate type.
type Field struct {
	// Name is the declared name. Unnamed fields have an empty name.
	Name string
	// Type is the declared type of the field.
	Type *Type
	// Offset is the byte offset of the field from the start of its parent.
	Offset uint64
}

// Type is an immutable snapshot of a type's metadata.
// Callers must not modify a Type obtained from a backend.
type Type struct {
	Name string
	Kind Kind
	// Size is the byte size of a value of this type.
	Size uint64
	// Fields lists declared fields in declaration order.
	Fields []Field
	// Pointee is set for pointer types.
	Pointee *Type
	// Elem and Len are set for fixed-size array types.
	Elem *Type
	Len  uint64
}

// NumFields returns the number of declared fields.
func (t *Type) NumFields() int {
	if t == nil {
		return 0
	}
	return len(t.Fields)
}

// FieldAt returns the field at position i.
func (t *Type) FieldAt(i int) (Field, bool) {
	if t == nil || i < 0 || i >= len(t.Fields) {
		return Field{}, false
	}
	return t.Fields[i], true
}

// IsPointer reports whether t is a pointer type.
func (t *Type) IsPointer() bool {
	return t != nil && t.Pointee != nil
}

// Process reads raw memory from the inspected target.
type Process interface {
	// ReadMemory reads size bytes at addr. A failed read returns an error
	// describing the backend's failure detail; no partial data is returned.
	ReadMemory(addr, size uint64) ([]byte, error)
}

// Value is a borrowed reference to a live value in the target.
type Value interface {
	// Name is the display name of the value.
	Name() string
	// Type returns the value's type metadata.
	Type() *Type
	// Address is the load address of the value.
	Address() uint64

	// NumChildren returns the backend's native child count.
	NumChildren() int
	// ChildAtIndex returns the native child at index i, or nil.
	ChildAtIndex(i int) Value
	// ChildByName returns the native child with the given name, or nil.
	ChildByName(name string) Value
	// IndexOfChild returns the native index of the named child, or -1.
	IndexOfChild(name string) int
	// MightHaveChildren reports whether the native view may expand.
	MightHaveChildren() bool

	// Unsigned reads the value as an unsigned integer. Pointer values
	// yield the address they point to.
	Unsigned() (uint64, error)

	// Process gives access to raw target memory.
	Process() Process
	// FromAddress creates a value of type t located at addr.
	FromAddress(name string, addr uint64, t *Type) Value
	// Renamed returns a view of the same storage under another name.
	Renamed(name string) Value
}
