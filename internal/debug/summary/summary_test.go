package summary

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rsinspect/internal/debug/snapshot"
	"github.com/dshills/rsinspect/internal/logging"
)

func TestSize(t *testing.T) {
	b := snapshot.NewBuilder()
	vec := b.Vec(b.Scalar("i32", 4))
	// Elements are left unmapped: the summary must not touch them.
	b.PutVec(0x100, 0xdead0000, 8, 5)
	img := b.Image()

	assert.Equal(t, "size=5", Size(img.Value("v", vec, 0x100), nil))
}

func TestSize_MalformedHeader(t *testing.T) {
	tests := []struct {
		name     string
		capacity uint64
		length   uint64
	}{
		{"length beyond int", 0, 1 << 63},
		{"length beyond capacity", 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := snapshot.NewBuilder()
			vec := b.Vec(b.Scalar("i32", 4))
			b.PutVec(0x100, 0x1000, tt.capacity, tt.length)
			img := b.Image()

			got := Size(img.Value("v", vec, 0x100), nil)
			assert.True(t, strings.HasPrefix(got, "<error: malformed vector header"), got)
		})
	}
}

func TestText(t *testing.T) {
	b := snapshot.NewBuilder()
	text := b.Text()
	b.PutVec(0x100, 0x2000, 2, 2).Map(0x2000, []byte("hi"))
	img := b.Image()

	assert.Equal(t, `"hi"`, Text(img.Value("s", text, 0x100), nil))
}

func TestText_Empty(t *testing.T) {
	b := snapshot.NewBuilder()
	text := b.Text()
	b.PutVec(0x100, 0x1, 0, 0)
	img := b.Image()

	assert.Equal(t, `""`, Text(img.Value("s", text, 0x100), nil))
}

func TestText_OneBytePerCharacter(t *testing.T) {
	b := snapshot.NewBuilder()
	text := b.Text()
	// "é" in UTF-8 is two bytes; each renders as its own character.
	b.PutVec(0x100, 0x2000, 2, 2).Map(0x2000, []byte{0xc3, 0xa9})
	img := b.Image()

	assert.Equal(t, "\"Ã©\"", Text(img.Value("s", text, 0x100), nil))
}

func TestText_UnreadableElement(t *testing.T) {
	b := snapshot.NewBuilder()
	text := b.Text()
	b.PutVec(0x100, 0x2000, 4, 4).Map(0x2000, []byte("ab"))
	img := b.Image()

	got := Text(img.Value("s", text, 0x100), nil)
	assert.True(t, strings.HasPrefix(got, "<error: "), got)
}

func TestText_UninitializedHeader(t *testing.T) {
	tests := []struct {
		name     string
		capacity uint64
		length   uint64
	}{
		{"high bit set", 0, 1 << 63},
		{"all ones", ^uint64(0), ^uint64(0)},
		{"length beyond capacity", 2, 1 << 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			log := logging.New(logging.Config{Level: logging.LevelWarn, Output: &logs})

			b := snapshot.NewBuilder()
			text := b.Text()
			b.PutVec(0x100, 0x1000, tt.capacity, tt.length)
			img := b.Image()

			var got string
			require.NotPanics(t, func() { got = Text(img.Value("s", text, 0x100), log) })
			assert.True(t, strings.HasPrefix(got, "<error: "), got)
			assert.Contains(t, logs.String(), "malformed vector header")
		})
	}
}

func TestTextSlice(t *testing.T) {
	b := snapshot.NewBuilder()
	str := b.TextSlice()
	b.PutTextSlice(0x100, 0x3000, 5).Map(0x3000, []byte("hello, world"))
	img := b.Image()

	assert.Equal(t, `"hello"`, TextSlice(img.Value("s", str, 0x100), nil))
}

func TestTextSlice_ReadFailure(t *testing.T) {
	var logs bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelWarn, Output: &logs})

	b := snapshot.NewBuilder()
	str := b.TextSlice()
	b.PutTextSlice(0x100, 0xbad000, 3)
	img := b.Image()

	got := TextSlice(img.Value("s", str, 0x100), log)
	assert.Equal(t, "<error: read 3 bytes at 0xbad000: memory is not mapped>", got)
	assert.Contains(t, logs.String(), "text slice s")
}

func TestTextSlice_ProcessRunning(t *testing.T) {
	b := snapshot.NewBuilder()
	str := b.TextSlice()
	b.PutTextSlice(0x100, 0x3000, 1).Map(0x3000, []byte("x"))
	img := b.Image()
	img.Resume()

	got := TextSlice(img.Value("s", str, 0x100), nil)
	require.True(t, strings.HasPrefix(got, "<error: "))
	assert.Contains(t, got, "process is not running")
}

func TestTextSlice_MissingFields(t *testing.T) {
	b := snapshot.NewBuilder()
	odd := b.Struct("&str", snapshot.M("length", b.Usize()))
	img := b.Image()

	got := TextSlice(img.Value("s", odd, 0), nil)
	assert.Equal(t, "<error: s is missing length or data_ptr>", got)
}
