package provider

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rsinspect/internal/debug/snapshot"
	"github.com/dshills/rsinspect/internal/debug/value"
	"github.com/dshills/rsinspect/internal/logging"
)

const disr = "RUST$ENUM$DISR"

// vecImage lays out a Vec<i32> header at 0x100 whose elements start at 0x1000.
func vecImage(t *testing.T, elems ...uint32) (*snapshot.Image, value.Value) {
	t.Helper()
	b := snapshot.NewBuilder()
	i32 := b.Scalar("i32", 4)
	vec := b.Vec(i32)
	b.PutVec(0x100, 0x1000, uint64(len(elems))+2, uint64(len(elems)))
	for i, e := range elems {
		b.PutUint(0x1000+uint64(i)*4, 4, uint64(e))
	}
	img := b.Image()
	return img, img.Value("v", vec, 0x100)
}

func TestVector_Children(t *testing.T) {
	_, v := vecImage(t, 10, 20, 30)
	p := NewVector(v, nil)

	require.Equal(t, 3, p.NumChildren())
	assert.Equal(t, uint64(5), p.Capacity())
	assert.Equal(t, uint64(0x1000), p.Base())
	assert.True(t, p.HasChildren())

	for i := 0; i < 3; i++ {
		c := p.ChildAtIndex(i)
		require.NotNil(t, c)
		assert.Equal(t, uint64(0x1000+i*4), c.Address())
		assert.Equal(t, "i32", c.Type().Name)
		n, err := c.Unsigned()
		require.NoError(t, err)
		assert.Equal(t, uint64((i+1)*10), n)
	}
	assert.Equal(t, "[2]", p.ChildAtIndex(2).Name())
	assert.Nil(t, p.ChildAtIndex(3))
	assert.Nil(t, p.ChildAtIndex(-1))
}

func TestVector_ChildIndex(t *testing.T) {
	_, v := vecImage(t, 1, 2, 3)
	p := NewVector(v, nil)

	tests := []struct {
		name     string
		expected int
	}{
		{"[0]", 0},
		{"[2]", 2},
		{"[3]", NotFound},
		{"2", NotFound},
		{"[x]", NotFound},
		{"[-1]", NotFound},
		{"[+1]", NotFound},
		{"[]", NotFound},
		{"[1", NotFound},
		{"", NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.ChildIndex(tt.name))
		})
	}
}

func TestVector_Refresh(t *testing.T) {
	img, v := vecImage(t, 1, 2)
	p := NewVector(v, nil)
	require.Equal(t, 2, p.NumChildren())

	// The target pushed an element and reallocated.
	img.PutUint(0x2000, 4, 7)
	img.PutUint(0x2004, 4, 8)
	img.PutUint(0x2008, 4, 9)
	img.PutUint(0x100, 8, 0x2000)
	img.PutUint(0x110, 8, 3)

	assert.Equal(t, 2, p.NumChildren(), "stale until refreshed")
	p.Refresh()
	require.Equal(t, 3, p.NumChildren())
	assert.Equal(t, uint64(0x2008), p.ChildAtIndex(2).Address())
}

func TestVector_UnreadableHeader(t *testing.T) {
	b := snapshot.NewBuilder()
	vec := b.Vec(b.Scalar("i32", 4))
	img := b.Image()

	p := NewVector(img.Value("v", vec, 0xdead0000), nil)
	assert.Error(t, p.Err())
	assert.Equal(t, 0, p.NumChildren())
	assert.Nil(t, p.ChildAtIndex(0))
	assert.Equal(t, NotFound, p.ChildIndex("[0]"))
}

func TestVector_ImplausibleLength(t *testing.T) {
	tests := []struct {
		name     string
		capacity uint64
		length   uint64
	}{
		{"high bit set", 0, 1 << 63},
		{"all ones", ^uint64(0), ^uint64(0)},
		{"beyond capacity", 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := snapshot.NewBuilder()
			vec := b.Vec(b.Scalar("i32", 4))
			b.PutVec(0x100, 0x1000, tt.capacity, tt.length)
			img := b.Image()

			p := NewVector(img.Value("v", vec, 0x100), nil)
			assert.ErrorIs(t, p.Err(), ErrMalformedVector)
			assert.Equal(t, 0, p.NumChildren())
			assert.Nil(t, p.ChildAtIndex(0))
			assert.Equal(t, NotFound, p.ChildIndex("[0]"))
		})
	}
}

func TestVector_UnreadableCapacity(t *testing.T) {
	var logs bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelWarn, Output: &logs})

	b := snapshot.NewBuilder()
	vec := b.Vec(b.Scalar("i32", 4))
	// Pointer and length are mapped, the capacity word between them is not.
	b.PutUint(0x100, 8, 0x1000).PutUint(0x110, 8, 2)
	img := b.Image()

	p := NewVector(img.Value("v", vec, 0x100), log)
	assert.NoError(t, p.Err())
	assert.Equal(t, 2, p.NumChildren())
	assert.Equal(t, uint64(0), p.Capacity())
	assert.Contains(t, logs.String(), "vector v: reading capacity")
}

func TestVector_MissingFields(t *testing.T) {
	b := snapshot.NewBuilder()
	odd := b.Struct("alloc::vec::Vec<u8>", snapshot.M("len", b.Usize()))
	b.PutUint(0, 8, 4)
	img := b.Image()

	p := NewVector(img.Value("v", odd, 0), nil)
	assert.ErrorIs(t, p.Err(), ErrMalformedVector)
	assert.Equal(t, 0, p.NumChildren())
}

func TestStruct_Plain(t *testing.T) {
	b := snapshot.NewBuilder()
	i32 := b.Scalar("i32", 4)
	point := b.Struct("Point", snapshot.M("x", i32), snapshot.M("y", i32))
	b.PutUint(0x10, 4, 1).PutUint(0x14, 4, 2)
	v := b.Image().Value("p", point, 0x10)

	p := NewStruct(v, false, nil)
	require.Equal(t, 2, p.NumChildren())
	assert.Equal(t, 1, p.ChildIndex("y"))
	assert.Equal(t, NotFound, p.ChildIndex("z"))

	for _, name := range []string{"x", "y"} {
		byIndex := p.ChildAtIndex(p.ChildIndex(name))
		require.NotNil(t, byIndex)
		byName := v.ChildByName(name)
		assert.Equal(t, byName.Address(), byIndex.Address())
		assert.Equal(t, name, byIndex.Name())
	}
	assert.Nil(t, p.ChildAtIndex(2))
}

func TestStruct_VariantHidesMarker(t *testing.T) {
	b := snapshot.NewBuilder()
	u8 := b.U8()
	i32 := b.Scalar("i32", 4)
	variant := b.Struct("Shape::Circle", snapshot.M(disr, u8), snapshot.M("radius", i32))
	v := b.Image().Value("s", variant, 0)

	p := NewStruct(v, true, nil)
	require.Equal(t, 1, p.NumChildren())
	assert.Equal(t, NotFound, p.ChildIndex(disr))
	assert.Equal(t, 0, p.ChildIndex("radius"))
	c := p.ChildAtIndex(0)
	require.NotNil(t, c)
	assert.Equal(t, "radius", c.Name())
	assert.Equal(t, uint64(1), c.Address())
}

func TestTuple_VariantRelabelsPositions(t *testing.T) {
	b := snapshot.NewBuilder()
	u8 := b.U8()
	i32 := b.Scalar("i32", 4)
	variant := b.Struct("E::Pair", snapshot.M(disr, u8), snapshot.M("__0", i32), snapshot.M("__1", i32))
	v := b.Image().Value("e", variant, 0x40)

	p := NewTuple(v, true, nil)
	require.Equal(t, 2, p.NumChildren())

	first, second := p.ChildAtIndex(0), p.ChildAtIndex(1)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, "0", first.Name())
	assert.Equal(t, "1", second.Name())
	assert.Equal(t, uint64(0x41), first.Address())
	assert.Equal(t, uint64(0x45), second.Address())
	assert.Nil(t, p.ChildAtIndex(2))

	assert.Equal(t, 1, p.ChildIndex("1"))
	assert.Equal(t, NotFound, p.ChildIndex("2"))
	assert.Equal(t, NotFound, p.ChildIndex("__0"))
	assert.Equal(t, NotFound, p.ChildIndex("-1"))
	assert.Equal(t, NotFound, p.ChildIndex(""))
}

func TestTuple_NameAndIndexAgree(t *testing.T) {
	b := snapshot.NewBuilder()
	i32 := b.Scalar("i32", 4)
	tuple := b.Struct("(i32, i32, i32)", snapshot.M("__0", i32), snapshot.M("__1", i32), snapshot.M("__2", i32))
	v := b.Image().Value("t", tuple, 0x80)

	p := NewTuple(v, false, nil)
	for i := 0; i < p.NumChildren(); i++ {
		name := p.ChildAtIndex(i).Name()
		assert.Equal(t, p.ChildAtIndex(i).Address(), p.ChildAtIndex(p.ChildIndex(name)).Address())
	}
}

func TestDefault_Passthrough(t *testing.T) {
	b := snapshot.NewBuilder()
	arr := b.Array("[u8; 2]", b.U8(), 2)
	v := b.Image().Value("a", arr, 0)

	p := NewDefault(v, nil)
	assert.Equal(t, 2, p.NumChildren())
	assert.Equal(t, 1, p.ChildIndex("[1]"))
	assert.True(t, p.HasChildren())
	assert.Equal(t, "[0]", p.ChildAtIndex(0).Name())
	p.Refresh()
}

func TestEmpty(t *testing.T) {
	b := snapshot.NewBuilder()
	unit := b.Struct("Unit")
	p := NewEmpty(b.Image().Value("u", unit, 0), nil)

	assert.Equal(t, 0, p.NumChildren())
	assert.Equal(t, NotFound, p.ChildIndex("anything"))
	assert.Nil(t, p.ChildAtIndex(0))
	assert.False(t, p.HasChildren())
}

func TestProviders_SatisfyInterface(t *testing.T) {
	var _ Provider = (*Default)(nil)
	var _ Provider = Empty{}
	var _ Provider = (*Vector)(nil)
	var _ Provider = (*Struct)(nil)
	var _ Provider = (*Tuple)(nil)
}
