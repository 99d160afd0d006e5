package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngines(t *testing.T) {
	le, be := GetLittleEndianEngine(), GetBigEndianEngine()

	require.Equal(t, binary.LittleEndian, le)
	require.Equal(t, binary.BigEndian, be)
	require.True(t, IsBigEndian(be))
	require.False(t, IsBigEndian(le))
	require.Equal(t, "big-endian", Name(be))
	require.Equal(t, "little-endian", Name(le))

	// a header's file size field
	require.Equal(t, []byte{0x40, 0x01, 0x00, 0x00}, le.AppendUint32(nil, 0x140))
	require.Equal(t, []byte{0x00, 0x00, 0x01, 0x40}, be.AppendUint32(nil, 0x140))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		size   uint32
		want   EndianEngine
		wantOK bool
	}{
		{"Little-endian", []byte{0x40, 0x01, 0x00, 0x00, 0x01}, 0x140, binary.LittleEndian, true},
		{"Big-endian", []byte{0x00, 0x00, 0x01, 0x40, 0x00}, 0x140, binary.BigEndian, true},
		{"Palindrome", []byte{0x01, 0x00, 0x00, 0x01}, 0x01000001, binary.LittleEndian, true},
		{"Mismatch", []byte{0x40, 0x01, 0x00, 0x00}, 0x144, nil, false},
		{"Short", []byte{0x40, 0x01}, 0x140, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Detect(tt.data, tt.size)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSwap(t *testing.T) {
	t.Run("Swap16", func(t *testing.T) {
		require.Equal(t, uint16(0x0201), Swap16(0x0102))
		require.Equal(t, uint16(0xFFFF), Swap16(0xFFFF))
		require.Equal(t, uint16(0x1234), Swap16(Swap16(0x1234)))
	})

	t.Run("Swap32", func(t *testing.T) {
		require.Equal(t, uint32(0x04030201), Swap32(0x01020304))
		require.Equal(t, uint32(0x00000018), Swap32(0x18000000))
	})

	t.Run("Swap matches cross-engine read", func(t *testing.T) {
		buf := GetLittleEndianEngine().AppendUint32(nil, 0xCAFEBABE)
		require.Equal(t, Swap32(0xCAFEBABE), GetBigEndianEngine().Uint32(buf))
	})
}
