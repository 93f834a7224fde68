package snapshot

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dshills/rsinspect/internal/debug/value"
)

// File is the serialized form of an Image.
type File struct {
	Types   []TypeSpec   `toml:"types" msgpack:"types"`
	Regions []RegionSpec `toml:"regions" msgpack:"regions"`
	Values  []RootSpec   `toml:"values" msgpack:"values"`
}

// TypeSpec describes one type. Kind is one of struct, union, scalar,
// pointer or array.
type TypeSpec struct {
	Name    string      `toml:"name" msgpack:"name"`
	Kind    string      `toml:"kind" msgpack:"kind"`
	Size    uint64      `toml:"size,omitempty" msgpack:"size,omitempty"`
	Pointee string      `toml:"pointee,omitempty" msgpack:"pointee,omitempty"`
	Elem    string      `toml:"elem,omitempty" msgpack:"elem,omitempty"`
	Len     uint64      `toml:"len,omitempty" msgpack:"len,omitempty"`
	Fields  []FieldSpec `toml:"fields,omitempty" msgpack:"fields,omitempty"`
}

// FieldSpec describes one field. A nil Offset selects the default layout.
type FieldSpec struct {
	Name   string  `toml:"name" msgpack:"name"`
	Type   string  `toml:"type" msgpack:"type"`
	Offset *uint64 `toml:"offset,omitempty" msgpack:"offset,omitempty"`
}

// RegionSpec maps hex-encoded bytes at an address.
type RegionSpec struct {
	Address uint64 `toml:"address" msgpack:"address"`
	Bytes   string `toml:"bytes" msgpack:"bytes"`
}

// RootSpec names a top-level value.
type RootSpec struct {
	Name    string `toml:"name" msgpack:"name"`
	Type    string `toml:"type" msgpack:"type"`
	Address uint64 `toml:"address" msgpack:"address"`
}

// DecodeTOML reads a TOML snapshot file.
func DecodeTOML(r io.Reader) (*File, error) {
	var f File
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return &f, nil
}

// EncodeTOML writes f as TOML.
func EncodeTOML(w io.Writer, f *File) error {
	return toml.NewEncoder(w).Encode(f)
}

// DecodeMsgpack reads a msgpack snapshot file.
func DecodeMsgpack(r io.Reader) (*File, error) {
	var f File
	if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return &f, nil
}

// EncodeMsgpack writes f as msgpack.
func EncodeMsgpack(w io.Writer, f *File) error {
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)

	var buf bytes.Buffer
	enc.Reset(&buf)
	if err := enc.Encode(f); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ReadFile decodes a snapshot file, choosing the codec by extension.
// Files ending in .msgpack or .mpk are msgpack; everything else is TOML.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var f *File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		f, err = DecodeMsgpack(bytes.NewReader(data))
	default:
		f, err = DecodeTOML(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Load reads and builds the image stored at path.
func Load(path string) (*Image, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Build resolves type references, computes layouts and maps memory.
func (f *File) Build() (*Image, error) {
	img := newImage()
	specs := make(map[string]*TypeSpec, len(f.Types))

	for i := range f.Types {
		spec := &f.Types[i]
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: type %d has no name", ErrFormat, i)
		}
		if _, dup := specs[spec.Name]; dup {
			return nil, fmt.Errorf("%w: type %s declared twice", ErrFormat, spec.Name)
		}
		kind, err := parseKind(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", spec.Name, err)
		}
		specs[spec.Name] = spec
		img.addType(&value.Type{Name: spec.Name, Kind: kind})
	}

	l := &layout{img: img, specs: specs, state: make(map[string]int)}
	for _, t := range img.order {
		if err := l.resolve(t.Name); err != nil {
			return nil, err
		}
	}

	for i, r := range f.Regions {
		data, err := hex.DecodeString(strings.Join(strings.Fields(r.Bytes), ""))
		if err != nil {
			return nil, fmt.Errorf("%w: region %d: %w", ErrFormat, i, err)
		}
		img.mem.write(r.Address, data)
	}

	for _, v := range f.Values {
		t, ok := img.Type(v.Type)
		if !ok {
			return nil, fmt.Errorf("value %s: %w %q", v.Name, ErrUnknownType, v.Type)
		}
		img.roots = append(img.roots, Root{Name: v.Name, Type: t, Address: v.Address})
	}

	return img, nil
}

func parseKind(s string) (value.Kind, error) {
	switch s {
	case "struct":
		return value.KindStruct, nil
	case "union":
		return value.KindUnion, nil
	case "scalar", "pointer", "array":
		return value.KindOther, nil
	default:
		return value.KindOther, fmt.Errorf("%w %q", ErrUnknownKind, s)
	}
}

const (
	unresolved = iota
	resolving
	resolved
)

// layout fills in type shells from their specs. Sizes of by-value
// members are resolved first; pointers only need their pointee's shell.
type layout struct {
	img   *Image
	specs map[string]*TypeSpec
	state map[string]int
}

func (l *layout) lookup(owner, name string) (*value.Type, error) {
	t, ok := l.img.Type(name)
	if !ok {
		return nil, fmt.Errorf("type %s: %w %q", owner, ErrUnknownType, name)
	}
	return t, nil
}

func (l *layout) resolve(name string) error {
	switch l.state[name] {
	case resolved:
		return nil
	case resolving:
		return fmt.Errorf("type %s: %w", name, ErrRecursiveType)
	}
	l.state[name] = resolving

	spec := l.specs[name]
	t, _ := l.img.Type(name)

	switch spec.Kind {
	case "scalar":
		if spec.Size == 0 {
			return fmt.Errorf("%w: scalar %s has no size", ErrFormat, name)
		}
		t.Size = spec.Size
	case "pointer":
		pointee, err := l.lookup(name, spec.Pointee)
		if err != nil {
			return err
		}
		t.Pointee = pointee
		t.Size = PointerSize
		if spec.Size != 0 {
			t.Size = spec.Size
		}
	case "array":
		elem, err := l.member(name, spec.Elem)
		if err != nil {
			return err
		}
		t.Elem, t.Len = elem, spec.Len
		t.Size = elem.Size * spec.Len
	default:
		if err := l.aggregate(t, spec); err != nil {
			return err
		}
	}

	l.state[name] = resolved
	return nil
}

func (l *layout) member(owner, name string) (*value.Type, error) {
	t, err := l.lookup(owner, name)
	if err != nil {
		return nil, err
	}
	if err := l.resolve(name); err != nil {
		return nil, err
	}
	return t, nil
}

func (l *layout) aggregate(t *value.Type, spec *TypeSpec) error {
	var next uint64
	for _, fs := range spec.Fields {
		ft, err := l.member(spec.Name, fs.Type)
		if err != nil {
			return err
		}

		var off uint64
		switch {
		case fs.Offset != nil:
			off = *fs.Offset
		case t.Kind == value.KindStruct:
			off = next
		}

		t.Fields = append(t.Fields, value.Field{Name: fs.Name, Type: ft, Offset: off})
		next = off + ft.Size
		t.Size = max(t.Size, next)
	}
	if spec.Size != 0 {
		t.Size = spec.Size
	}
	return nil
}
