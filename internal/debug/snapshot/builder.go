package snapshot

import "github.com/dshills/rsinspect/internal/debug/value"

// PointerSize is the byte size of pointer and usize types in built images.
const PointerSize = 8

// Member names a field for Builder.Struct and Builder.Union.
type Member struct {
	Name string
	Type *value.Type
}

// M is shorthand for a Member.
func M(name string, t *value.Type) Member {
	return Member{Name: name, Type: t}
}

// Builder assembles an Image in code. Types must be declared before they
// are referenced.
type Builder struct {
	img *Image
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{img: newImage()}
}

// Scalar declares a scalar type of the given byte size.
func (b *Builder) Scalar(name string, size uint64) *value.Type {
	t := &value.Type{Name: name, Kind: value.KindOther, Size: size}
	b.img.addType(t)
	return t
}

// Pointer declares a pointer type to pointee.
func (b *Builder) Pointer(name string, pointee *value.Type) *value.Type {
	t := &value.Type{Name: name, Kind: value.KindOther, Size: PointerSize, Pointee: pointee}
	b.img.addType(t)
	return t
}

// Array declares a fixed-size array of n elements.
func (b *Builder) Array(name string, elem *value.Type, n uint64) *value.Type {
	t := &value.Type{Name: name, Kind: value.KindOther, Size: elem.Size * n, Elem: elem, Len: n}
	b.img.addType(t)
	return t
}

// Struct declares a struct whose fields are packed sequentially.
func (b *Builder) Struct(name string, members ...Member) *value.Type {
	t := &value.Type{Name: name, Kind: value.KindStruct}
	var off uint64
	for _, m := range members {
		t.Fields = append(t.Fields, value.Field{Name: m.Name, Type: m.Type, Offset: off})
		off += m.Type.Size
	}
	t.Size = off
	b.img.addType(t)
	return t
}

// Union declares a union whose fields all start at offset zero.
func (b *Builder) Union(name string, members ...Member) *value.Type {
	t := &value.Type{Name: name, Kind: value.KindUnion}
	for _, m := range members {
		t.Fields = append(t.Fields, value.Field{Name: m.Name, Type: m.Type})
		t.Size = max(t.Size, m.Type.Size)
	}
	b.img.addType(t)
	return t
}

// Map maps data at addr.
func (b *Builder) Map(addr uint64, data []byte) *Builder {
	b.img.mem.write(addr, data)
	return b
}

// PutUint writes v as a little-endian integer of size bytes at addr.
func (b *Builder) PutUint(addr uint64, size int, v uint64) *Builder {
	return b.Map(addr, encodeUint(size, v))
}

// Root adds a named root value.
func (b *Builder) Root(name string, t *value.Type, addr uint64) *Builder {
	b.img.roots = append(b.img.roots, Root{Name: name, Type: t, Address: addr})
	return b
}

// Image returns the assembled image. The builder must not be used afterwards.
func (b *Builder) Image() *Image {
	img := b.img
	b.img = nil
	return img
}
