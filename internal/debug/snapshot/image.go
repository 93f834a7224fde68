package snapshot

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/dshills/rsinspect/internal/debug/value"
)

// Root is a named top-level value of an image.
type Root struct {
	Name    string
	Type    *value.Type
	Address uint64
}

// Image is a captured target: types, mapped memory and root values.
type Image struct {
	mu      sync.RWMutex
	mem     memory
	running bool

	types map[string]*value.Type
	order []*value.Type
	roots []Root
}

func newImage() *Image {
	return &Image{types: make(map[string]*value.Type)}
}

func (img *Image) addType(t *value.Type) {
	if _, ok := img.types[t.Name]; !ok {
		img.order = append(img.order, t)
	}
	img.types[t.Name] = t
}

// Type looks up a type by name.
func (img *Image) Type(name string) (*value.Type, bool) {
	t, ok := img.types[name]
	return t, ok
}

// Types returns all types in declaration order.
func (img *Image) Types() []*value.Type {
	out := make([]*value.Type, len(img.order))
	copy(out, img.order)
	return out
}

// Roots returns handles for the image's root values.
func (img *Image) Roots() []value.Value {
	out := make([]value.Value, len(img.roots))
	for i, r := range img.roots {
		out[i] = img.Value(r.Name, r.Type, r.Address)
	}
	return out
}

// Value returns a handle for a value of type t at addr.
func (img *Image) Value(name string, t *value.Type, addr uint64) value.Value {
	return &node{img: img, name: name, typ: t, addr: addr}
}

// Write maps data at addr, replacing any bytes already there.
// It models the target's memory changing between stops.
func (img *Image) Write(addr uint64, data []byte) {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.mem.write(addr, data)
}

// PutUint writes v as a little-endian integer of size bytes at addr.
func (img *Image) PutUint(addr uint64, size int, v uint64) {
	img.Write(addr, encodeUint(size, v))
}

// Resume marks the target as running. Reads fail until Stop is called.
func (img *Image) Resume() {
	img.mu.Lock()
	img.running = true
	img.mu.Unlock()
}

// Stop marks the target as stopped so memory can be read again.
func (img *Image) Stop() {
	img.mu.Lock()
	img.running = false
	img.mu.Unlock()
}

// ReadMemory implements value.Process.
func (img *Image) ReadMemory(addr, size uint64) ([]byte, error) {
	img.mu.RLock()
	defer img.mu.RUnlock()
	if img.running {
		return nil, fmt.Errorf("read %d bytes at %#x: %w", size, addr, value.ErrProcessNotRunning)
	}
	return img.mem.read(addr, size)
}

func encodeUint(size int, v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	if size < 8 {
		return buf[:size]
	}
	out := make([]byte, size)
	copy(out, buf)
	return out
}

// node is a value.Value located in an Image.
type node struct {
	img  *Image
	name string
	typ  *value.Type
	addr uint64
}

func (n *node) Name() string           { return n.name }
func (n *node) Type() *value.Type      { return n.typ }
func (n *node) Address() uint64        { return n.addr }
func (n *node) Process() value.Process { return n.img }

func (n *node) NumChildren() int {
	if n.typ == nil {
		return 0
	}
	switch n.typ.Kind {
	case value.KindStruct, value.KindUnion:
		return len(n.typ.Fields)
	}
	if n.typ.Elem != nil {
		return int(n.typ.Len)
	}
	return 0
}

func (n *node) ChildAtIndex(i int) value.Value {
	if i < 0 || i >= n.NumChildren() {
		return nil
	}
	if n.typ.Kind == value.KindOther {
		elem := n.typ.Elem
		return n.img.Value(fmt.Sprintf("[%d]", i), elem, n.addr+uint64(i)*elem.Size)
	}
	f := n.typ.Fields[i]
	return n.img.Value(f.Name, f.Type, n.addr+f.Offset)
}

func (n *node) ChildByName(name string) value.Value {
	i := n.IndexOfChild(name)
	if i < 0 {
		return nil
	}
	return n.ChildAtIndex(i)
}

func (n *node) IndexOfChild(name string) int {
	if n.typ == nil {
		return -1
	}
	if n.typ.Kind == value.KindOther {
		var i int
		if _, err := fmt.Sscanf(name, "[%d]", &i); err == nil && i >= 0 && i < n.NumChildren() {
			return i
		}
		return -1
	}
	for i, f := range n.typ.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (n *node) MightHaveChildren() bool {
	return n.NumChildren() > 0
}

func (n *node) Unsigned() (uint64, error) {
	if n.typ == nil || n.typ.Kind != value.KindOther || n.typ.Elem != nil {
		return 0, fmt.Errorf("%s: %w", n.name, value.ErrNotScalar)
	}
	size := n.typ.Size
	switch size {
	case 1, 2, 4, 8:
	default:
		return 0, fmt.Errorf("%s: %d-byte %s: %w", n.name, size, n.typ.Name, value.ErrNotScalar)
	}

	data, err := n.img.ReadMemory(n.addr, size)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, 8)
	copy(buf, data)
	return binary.LittleEndian.Uint64(buf), nil
}

func (n *node) FromAddress(name string, addr uint64, t *value.Type) value.Value {
	return n.img.Value(name, t, addr)
}

func (n *node) Renamed(name string) value.Value {
	cp := *n
	cp.name = name
	return &cp
}
