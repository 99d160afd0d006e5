package section

import (
	"testing"

	"github.com/arloliu/relo/endian"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/format"
	"github.com/stretchr/testify/require"
)

func validHeader() FileHeader {
	return FileHeader{
		FileSize:      0x200,
		RootType:      format.NodeModel,
		RelocTableRel: 0x100,
		RootAddress:   DefaultRootAddress,
		RelocTableAbs: 0x100 + DefaultRootAddress,
		FooterSize:    0,
	}
}

func TestFileHeader_Parse(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		original := validHeader()
		data := original.Bytes(engine)
		require.Len(t, data, HeaderSize)

		parsed := FileHeader{}
		require.NoError(t, parsed.Parse(data, engine))
		require.Equal(t, original, parsed)
	}

	t.Run("Invalid size", func(t *testing.T) {
		h := &FileHeader{}
		err := h.Parse([]byte{1, 2, 3}, endian.GetLittleEndianEngine())
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})
}

func TestFileHeader_FieldOffsets(t *testing.T) {
	h := validHeader()
	data := h.Bytes(endian.GetLittleEndianEngine())
	engine := endian.GetLittleEndianEngine()

	require.Equal(t, uint32(0x200), engine.Uint32(data[FileSizeOffset:]))
	require.Equal(t, uint32(format.NodeModel), engine.Uint32(data[RootTypeOffset:]))
	require.Equal(t, uint32(0x100), engine.Uint32(data[RelocRelOffset:]))
	require.Equal(t, uint32(DefaultRootAddress), engine.Uint32(data[RootAddressOffset:]))
	require.Equal(t, uint32(0x120), engine.Uint32(data[RelocAbsOffset:]))
}

func TestFileHeader_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		h := validHeader()
		require.NoError(t, h.Validate(0x200))
		require.NoError(t, h.Validate(-1))
	})

	tests := []struct {
		name   string
		mutate func(h *FileHeader)
		size   int64
	}{
		{"root inside header", func(h *FileHeader) { h.RootAddress = 8; h.RelocTableAbs = h.RelocTableRel + 8 }, -1},
		{"table addresses disagree", func(h *FileHeader) { h.RelocTableAbs++ }, -1},
		{"table offset wraps", func(h *FileHeader) { h.RelocTableRel = 0xFFFFFFF0; h.RelocTableAbs = h.RelocTableRel + h.RootAddress }, -1},
		{"bad footer", func(h *FileHeader) { h.FooterSize = 7 }, -1},
		{"table past end", func(h *FileHeader) { h.FileSize = 0x110 }, -1},
		{"size mismatch", func(h *FileHeader) {}, 0x1FC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHeader()
			tt.mutate(&h)
			err := h.Validate(tt.size)
			require.ErrorIs(t, err, errs.ErrInconsistentHeader)
			require.ErrorIs(t, err, errs.ErrMalformedFormat)
		})
	}
}

func TestParseFileHeader(t *testing.T) {
	h := validHeader()
	data := append(h.Bytes(endian.GetBigEndianEngine()), 0xAA, 0xBB)

	parsed, err := ParseFileHeader(data, endian.GetBigEndianEngine())
	require.NoError(t, err)
	require.Equal(t, h, parsed)

	_, err = ParseFileHeader(data[:10], endian.GetBigEndianEngine())
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}
