package snapshot

import "github.com/dshills/rsinspect/internal/debug/value"

// Standard library layouts as emitted in debug info:
//
//	struct Vec<T>    { buf: RawVec<T>, len: usize }
//	struct RawVec<T> { ptr: Unique<T>, cap: usize }
//	struct Unique<T> { pointer: NonZero<*const T> }
//	struct NonZero<T>(T)
//	struct String    { vec: Vec<u8> }
//	struct &str      { data_ptr: *const u8, length: usize }

func (b *Builder) named(name string, declare func() *value.Type) *value.Type {
	if t, ok := b.img.Type(name); ok {
		return t
	}
	return declare()
}

// Usize returns the usize type, declaring it on first use.
func (b *Builder) Usize() *value.Type {
	return b.named("usize", func() *value.Type { return b.Scalar("usize", PointerSize) })
}

// U8 returns the u8 type, declaring it on first use.
func (b *Builder) U8() *value.Type {
	return b.named("u8", func() *value.Type { return b.Scalar("u8", 1) })
}

// Vec declares alloc::vec::Vec<elem> and its backing types.
// Vec values are 24 bytes: data pointer, capacity, length.
func (b *Builder) Vec(elem *value.Type) *value.Type {
	name := "alloc::vec::Vec<" + elem.Name + ">"
	return b.named(name, func() *value.Type {
		ptr := b.named("*const "+elem.Name, func() *value.Type { return b.Pointer("*const "+elem.Name, elem) })
		nonZero := b.Struct("core::nonzero::NonZero<*const "+elem.Name+">", M("__0", ptr))
		unique := b.Struct("core::ptr::Unique<"+elem.Name+">", M("pointer", nonZero))
		rawVec := b.Struct("alloc::raw_vec::RawVec<"+elem.Name+">", M("ptr", unique), M("cap", b.Usize()))
		return b.Struct(name, M("buf", rawVec), M("len", b.Usize()))
	})
}

// PutVec writes a Vec header at addr.
func (b *Builder) PutVec(addr, data, capacity, length uint64) *Builder {
	return b.PutUint(addr, PointerSize, data).
		PutUint(addr+PointerSize, PointerSize, capacity).
		PutUint(addr+2*PointerSize, PointerSize, length)
}

// Text declares alloc::string::String.
func (b *Builder) Text() *value.Type {
	return b.named("alloc::string::String", func() *value.Type {
		return b.Struct("alloc::string::String", M("vec", b.Vec(b.U8())))
	})
}

// TextSlice declares &str.
func (b *Builder) TextSlice() *value.Type {
	return b.named("&str", func() *value.Type {
		ptr := b.named("*const u8", func() *value.Type { return b.Pointer("*const u8", b.U8()) })
		return b.Struct("&str", M("data_ptr", ptr), M("length", b.Usize()))
	})
}

// PutTextSlice writes a &str header at addr.
func (b *Builder) PutTextSlice(addr, data, length uint64) *Builder {
	return b.PutUint(addr, PointerSize, data).PutUint(addr+PointerSize, PointerSize, length)
}
