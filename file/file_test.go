package file

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int
}

func init() {
	Register(point{})
}

func TestMarshal_KeepsConcreteType(t *testing.T) {
	b, err := Marshal([]interface{}{1, "a", point{1, 2}})
	require.NoError(t, err)
	v, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, "a", point{1, 2}}, v)

	b, err = Marshal(nil)
	require.NoError(t, err)
	v, err = Unmarshal(b)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestFrame_DetectsCorruption(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteFrame(buf, []byte("payload")))
	body, err := ReadFrame(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))

	flipped := append([]byte(nil), buf.Bytes()...)
	flipped[len(flipped)-1] ^= 0xff
	_, err = ReadFrame(bytes.NewReader(flipped))
	assert.True(t, errors.Is(err, ErrCorruptFrame))

	_, err = ReadFrame(bytes.NewReader(buf.Bytes()[:buf.Len()-2]))
	assert.True(t, errors.Is(err, ErrCorruptFrame))

	_, err = ReadFrame(strings.NewReader("nope, not a frame at all......"))
	assert.True(t, errors.Is(err, ErrCorruptFrame))

	for _, size := range []uint64{1 << 62, 1<<64 - 1, 8} {
		bad := append([]byte(nil), buf.Bytes()...)
		binary.BigEndian.PutUint64(bad[5:13], size)
		assert.NotPanics(t, func() {
			_, err = ReadFrame(bytes.NewReader(bad))
		})
		assert.True(t, errors.Is(err, ErrCorruptFrame), "length %d", size)
	}
}

func TestReadValue_CorruptLength(t *testing.T) {
	fs := &LocalFileSystem{}
	name := TempName(t.TempDir(), PrefixOutput)
	require.NoError(t, WriteValue(fs, name, []float64{1, 2, 3}))
	b, err := os.ReadFile(name)
	require.NoError(t, err)
	binary.BigEndian.PutUint64(b[5:13], 1<<62)
	require.NoError(t, os.WriteFile(name, b, 0600))

	_, err = ReadValue(fs, name)
	assert.True(t, errors.Is(err, ErrCorruptFrame))
}

func TestValueFile_RoundTripAndRemove(t *testing.T) {
	fs := &LocalFileSystem{}
	dir := t.TempDir()
	name := TempName(dir, PrefixInput)
	assert.True(t, strings.HasPrefix(filepath.Base(name), PrefixInput))

	require.NoError(t, WriteValue(fs, name, []float64{1.5, 2.5}))
	v, err := ReadValue(fs, name)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5}, v)

	// a second handle must never reuse the path
	assert.Error(t, WriteValue(fs, name, 1))

	require.NoError(t, fs.Remove(name))
	require.NoError(t, fs.Remove(name))
	ok, err := fs.Exists(name)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckDir(t *testing.T) {
	fs := &LocalFileSystem{}
	dir := t.TempDir()
	require.NoError(t, CheckDir(fs, dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Error(t, CheckDir(fs, filepath.Join(dir, "missing")))

	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(plain, nil, 0600))
	assert.Error(t, CheckDir(fs, plain))
}

func TestReadFloatColumn(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(name, []byte("id,value\n1,0.5\n2,\n3,2\n"), 0600))
	values, err := ReadFloatColumn(ColumnDescriptor{
		FileStore: &LocalFileSystem{},
		FileName:  name,
		Header:    true,
		Column:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 2}, values)

	_, err = ReadFloatColumn(ColumnDescriptor{FileStore: &LocalFileSystem{}, FileName: name, Header: true, Column: 5})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "line 2 ")

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("value\n1\nx\n"), 0600))
	_, err = ReadFloatColumn(ColumnDescriptor{FileStore: &LocalFileSystem{}, FileName: bad, Header: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")

	_, err = ReadFloatColumn(ColumnDescriptor{FileStore: &LocalFileSystem{}, FileName: bad, Header: false})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}
