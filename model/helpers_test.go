package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/endian"
	"github.com/arloliu/relo/format"
	"github.com/arloliu/relo/section"
)

// newRootedCursor returns a cursor over a fresh buffer with the header area
// reserved and the root fixed at the default address.
func newRootedCursor(t *testing.T, engine endian.EndianEngine) (*cursor.Cursor, *cursor.Buffer) {
	t.Helper()

	buf := cursor.NewBuffer()
	t.Cleanup(buf.Release)

	c := cursor.New(buf, engine)
	require.NoError(t, c.WriteZeros(section.DefaultRootAddress))
	require.NoError(t, c.SetRoot(section.DefaultRootAddress))

	return c, buf
}

func saveModel(t *testing.T, m *Model, opts WriteOptions, engine endian.EndianEngine) []byte {
	t.Helper()

	c, buf := newRootedCursor(t, engine)

	addr, err := m.Write(c, opts)
	require.NoError(t, err)
	require.Equal(t, cursor.Address(section.DefaultRootAddress), addr)

	_, err = c.Finalize(format.NodeModel, cursor.FinalizeOptions{})
	require.NoError(t, err)

	return append([]byte(nil), buf.Bytes()...)
}

func loadModel(t *testing.T, data []byte, engine endian.EndianEngine) (*Model, *cursor.Cursor, section.FileHeader) {
	t.Helper()

	c := cursor.New(cursor.NewBufferFrom(data), engine)
	header, err := c.ReadHeader()
	require.NoError(t, err)
	require.Equal(t, format.NodeModel, header.RootType)

	m, err := ReadModel(c)
	require.NoError(t, err)

	return m, c, header
}
