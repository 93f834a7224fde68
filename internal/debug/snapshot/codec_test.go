package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rsinspect/internal/debug/value"
)

func TestLoad_TOML(t *testing.T) {
	img, err := Load(filepath.Join("testdata", "point.toml"))
	require.NoError(t, err)

	point, ok := img.Type("Point")
	require.True(t, ok)
	assert.Equal(t, value.KindStruct, point.Kind)
	assert.Equal(t, uint64(8), point.Size)
	assert.Equal(t, uint64(4), point.Fields[1].Offset)

	node, ok := img.Type("Node")
	require.True(t, ok)
	assert.Equal(t, uint64(8), node.Fields[1].Offset)
	assert.Equal(t, uint64(16), node.Size)
	assert.Same(t, node, node.Fields[1].Type.Pointee)

	shape, ok := img.Type("Shape")
	require.True(t, ok)
	assert.Equal(t, value.KindUnion, shape.Kind)
	assert.Equal(t, "", shape.Fields[0].Name)

	roots := img.Roots()
	require.Len(t, roots, 2)
	y := roots[0].ChildByName("y")
	require.NotNil(t, y)
	n, err := y.Unsigned()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), n)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "unknown kind",
			doc:  "[[types]]\nname = \"x\"\nkind = \"enum\"\n",
			want: ErrUnknownKind,
		},
		{
			name: "unknown field type",
			doc:  "[[types]]\nname = \"S\"\nkind = \"struct\"\nfields = [{ name = \"a\", type = \"missing\" }]\n",
			want: ErrUnknownType,
		},
		{
			name: "recursive by value",
			doc:  "[[types]]\nname = \"S\"\nkind = \"struct\"\nfields = [{ name = \"a\", type = \"S\" }]\n",
			want: ErrRecursiveType,
		},
		{
			name: "scalar without size",
			doc:  "[[types]]\nname = \"u8\"\nkind = \"scalar\"\n",
			want: ErrFormat,
		},
		{
			name: "duplicate type",
			doc:  "[[types]]\nname = \"u8\"\nkind = \"scalar\"\nsize = 1\n[[types]]\nname = \"u8\"\nkind = \"scalar\"\nsize = 1\n",
			want: ErrFormat,
		},
		{
			name: "bad hex",
			doc:  "[[regions]]\naddress = 0\nbytes = \"zz\"\n",
			want: ErrFormat,
		},
		{
			name: "unknown root type",
			doc:  "[[values]]\nname = \"v\"\ntype = \"T\"\naddress = 0\n",
			want: ErrUnknownType,
		},
		{
			name: "unknown key",
			doc:  "bogus = 1\n",
			want: ErrFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := DecodeTOML(strings.NewReader(tt.doc))
			if err == nil {
				_, err = f.Build()
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMsgpack_PreservesImage(t *testing.T) {
	f, err := ReadFile(filepath.Join("testdata", "point.toml"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "point.msgpack")
	var buf bytes.Buffer
	require.NoError(t, EncodeMsgpack(&buf, f))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	img, err := Load(path)
	require.NoError(t, err)

	node, ok := img.Type("Node")
	require.True(t, ok)
	assert.Equal(t, uint64(8), node.Fields[1].Offset)

	data, err := img.ReadMemory(0x1000, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 0, 0, 0, 4, 0, 0, 0}, data)
}

func TestEncodeTOML(t *testing.T) {
	f := &File{Types: []TypeSpec{{Name: "u8", Kind: "scalar", Size: 1}}}
	var buf bytes.Buffer
	require.NoError(t, EncodeTOML(&buf, f))

	back, err := DecodeTOML(&buf)
	require.NoError(t, err)
	assert.Equal(t, f.Types, back.Types)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
