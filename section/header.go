package section

import (
	"fmt"

	"github.com/arloliu/relo/endian"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/format"
)

// FileHeader is the fixed-size header at offset 0 of every pointer-graph file.
type FileHeader struct {
	FileSize      uint32          // byte offset 0-3
	RootType      format.NodeType // byte offset 4-7
	RelocTableRel uint32          // byte offset 8-11
	RootAddress   uint32          // byte offset 12-15
	RelocTableAbs uint32          // byte offset 16-19
	FooterSize    uint32          // byte offset 20-23
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 24 bytes)
//   - engine: Byte order of the file variant
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 24 bytes
func (h *FileHeader) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.FileSize = engine.Uint32(data[FileSizeOffset:])
	h.RootType = format.NodeType(engine.Uint32(data[RootTypeOffset:]))
	h.RelocTableRel = engine.Uint32(data[RelocRelOffset:])
	h.RootAddress = engine.Uint32(data[RootAddressOffset:])
	h.RelocTableAbs = engine.Uint32(data[RelocAbsOffset:])
	h.FooterSize = engine.Uint32(data[FooterSizeOffset:])

	return nil
}

// Bytes serializes the header.
func (h *FileHeader) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, 0, HeaderSize)
	b = engine.AppendUint32(b, h.FileSize)
	b = engine.AppendUint32(b, uint32(h.RootType))
	b = engine.AppendUint32(b, h.RelocTableRel)
	b = engine.AppendUint32(b, h.RootAddress)
	b = engine.AppendUint32(b, h.RelocTableAbs)
	b = engine.AppendUint32(b, h.FooterSize)

	return b
}

// Validate checks the header against itself and, when actualSize is not
// negative, against the real size of the file.
func (h *FileHeader) Validate(actualSize int64) error {
	if h.RootAddress < HeaderSize {
		return fmt.Errorf("%w: root address 0x%x inside header", errs.ErrInconsistentHeader, h.RootAddress)
	}

	if h.RootAddress > h.RelocTableAbs || uint64(h.RelocTableRel)+uint64(h.RootAddress) != uint64(h.RelocTableAbs) {
		return fmt.Errorf("%w: relocation table 0x%x+0x%x != 0x%x",
			errs.ErrInconsistentHeader, h.RelocTableRel, h.RootAddress, h.RelocTableAbs)
	}

	if h.FooterSize != 0 && h.FooterSize != FooterSize {
		return fmt.Errorf("%w: footer size %d", errs.ErrInconsistentHeader, h.FooterSize)
	}

	if uint64(h.RelocTableAbs)+4+uint64(h.FooterSize) > uint64(h.FileSize) {
		return fmt.Errorf("%w: relocation table 0x%x beyond file size %d",
			errs.ErrInconsistentHeader, h.RelocTableAbs, h.FileSize)
	}

	if actualSize >= 0 && int64(h.FileSize) != actualSize {
		return fmt.Errorf("%w: header size %d, file size %d", errs.ErrInconsistentHeader, h.FileSize, actualSize)
	}

	return nil
}

// ParseFileHeader parses a FileHeader from the start of data.
//
// Returns:
//   - FileHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize if data is shorter than 24 bytes
func ParseFileHeader(data []byte, engine endian.EndianEngine) (FileHeader, error) {
	if len(data) < HeaderSize {
		return FileHeader{}, errs.ErrInvalidHeaderSize
	}

	h := FileHeader{}
	if err := h.Parse(data[:HeaderSize], engine); err != nil {
		return FileHeader{}, err
	}

	return h, nil
}
