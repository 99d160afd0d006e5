package cursor

import (
	"fmt"
	"slices"

	"github.com/arloliu/relo/bbin"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/format"
	"github.com/arloliu/relo/section"
)

// FinalizeOptions selects how Finalize lays out the file trailer.
type FinalizeOptions struct {
	// Relocations selects the relocation table encoding. Zero means plain.
	Relocations format.RelocationFormat
	// Footer appends a 4-byte footer holding file size − 4.
	Footer bool
}

// ReadHeader reads and validates the file header, fixes the root node
// address and leaves the cursor at the root.
func (c *Cursor) ReadHeader() (section.FileHeader, error) {
	if err := c.Seek(0); err != nil {
		return section.FileHeader{}, err
	}

	marker, err := c.ReadU8()
	if err != nil {
		return section.FileHeader{}, err
	}

	if marker == section.UnsupportedMarker {
		return section.FileHeader{}, fmt.Errorf("%w: 0x%02x at offset 0", errs.ErrBadMarker, marker)
	}

	if err := c.Seek(0); err != nil {
		return section.FileHeader{}, err
	}

	raw, err := c.ReadBytes(section.HeaderSize)
	if err != nil {
		return section.FileHeader{}, err
	}

	header, err := section.ParseFileHeader(raw, c.engine)
	if err != nil {
		return section.FileHeader{}, err
	}

	size, err := c.Size()
	if err != nil {
		return section.FileHeader{}, err
	}

	if err := header.Validate(size); err != nil {
		return section.FileHeader{}, err
	}

	if header.FooterSize == section.FooterSize {
		if err := c.checkFooter(header); err != nil {
			return section.FileHeader{}, err
		}
	}

	if err := c.SetRoot(Address(header.RootAddress)); err != nil {
		return section.FileHeader{}, err
	}

	if err := c.Seek(Address(header.RootAddress)); err != nil {
		return section.FileHeader{}, err
	}

	return header, nil
}

func (c *Cursor) checkFooter(header section.FileHeader) error {
	if err := c.Seek(Address(header.FileSize - section.FooterSize)); err != nil {
		return err
	}

	v, err := c.ReadU32()
	if err != nil {
		return err
	}

	if v != header.FileSize-section.FooterSize {
		return fmt.Errorf("%w: footer 0x%x, file size %d", errs.ErrInconsistentHeader, v, header.FileSize)
	}

	return nil
}

// Finalize appends the relocation table and optional footer, then writes the
// header at offset 0 and leaves the cursor at the end of the file.
//
// The header area must already have been reserved and the root set.
func (c *Cursor) Finalize(rootType format.NodeType, opts FinalizeOptions) (section.FileHeader, error) {
	if err := c.requireRoot(); err != nil {
		return section.FileHeader{}, err
	}

	relocFormat := opts.Relocations
	if relocFormat == 0 {
		relocFormat = format.RelocationPlain
	}

	if _, err := c.SeekEnd(); err != nil {
		return section.FileHeader{}, err
	}

	if _, err := c.PadTo(section.RelocationAlignment); err != nil {
		return section.FileHeader{}, err
	}

	tableAbs, err := c.Tell()
	if err != nil {
		return section.FileHeader{}, err
	}

	entries := slices.Clone(c.relocs)
	slices.Sort(entries)

	if err := c.WriteU32(uint32(len(entries))); err != nil {
		return section.FileHeader{}, err
	}

	switch relocFormat {
	case format.RelocationPlain:
		for _, e := range entries {
			if err := c.WriteU32(e); err != nil {
				return section.FileHeader{}, err
			}
		}
	case format.RelocationBBIN:
		abs := make([]uint32, len(entries))
		for i, e := range entries {
			abs[i] = e + uint32(c.root)
		}

		data, err := bbin.Encode(abs, uint32(c.root))
		if err != nil {
			return section.FileHeader{}, err
		}

		if err := c.WriteBytes(data); err != nil {
			return section.FileHeader{}, err
		}
	default:
		return section.FileHeader{}, fmt.Errorf("%w: %d", errs.ErrInvalidRelocFormat, relocFormat)
	}

	if _, err := c.PadTo(section.RelocationAlignment); err != nil {
		return section.FileHeader{}, err
	}

	var footerSize uint32
	if opts.Footer {
		pos, err := c.Tell()
		if err != nil {
			return section.FileHeader{}, err
		}

		// footer value = file size − 4 = its own position
		if err := c.WriteU32(uint32(pos)); err != nil {
			return section.FileHeader{}, err
		}
		footerSize = section.FooterSize
	}

	end, err := c.Tell()
	if err != nil {
		return section.FileHeader{}, err
	}

	header := section.FileHeader{
		FileSize:      uint32(end),
		RootType:      rootType,
		RelocTableRel: uint32(tableAbs - c.root),
		RootAddress:   uint32(c.root),
		RelocTableAbs: uint32(tableAbs),
		FooterSize:    footerSize,
	}

	if err := c.Seek(0); err != nil {
		return section.FileHeader{}, err
	}

	if err := c.WriteBytes(header.Bytes(c.engine)); err != nil {
		return section.FileHeader{}, err
	}

	if _, err := c.SeekEnd(); err != nil {
		return section.FileHeader{}, err
	}

	return header, nil
}

// ReadRelocations reads the relocation table described by header and returns
// its root-relative entries in ascending order.
func (c *Cursor) ReadRelocations(header section.FileHeader, relocFormat format.RelocationFormat) ([]uint32, error) {
	if err := c.requireRoot(); err != nil {
		return nil, err
	}

	if relocFormat == 0 {
		relocFormat = format.RelocationPlain
	}

	if err := c.Seek(Address(header.RelocTableAbs)); err != nil {
		return nil, err
	}

	count, err := c.ReadU32()
	if err != nil {
		return nil, err
	}

	end := header.FileSize - header.FooterSize
	avail := end - header.RelocTableAbs - 4

	var entries []uint32
	switch relocFormat {
	case format.RelocationPlain:
		if uint64(count)*4 > uint64(avail) {
			return nil, fmt.Errorf("%w: %d entries in %d bytes", errs.ErrRelocationCount, count, avail)
		}

		entries = make([]uint32, count)
		for i := range entries {
			if entries[i], err = c.ReadU32(); err != nil {
				return nil, err
			}
		}
	case format.RelocationBBIN:
		data, err := c.ReadBytes(int(avail))
		if err != nil {
			return nil, err
		}

		entries, err = bbin.Decode(data, uint32(c.root), uint32(c.root))
		if err != nil {
			return nil, err
		}

		if uint32(len(entries)) != count {
			return nil, fmt.Errorf("%w: header %d, decoded %d", errs.ErrRelocationCount, count, len(entries))
		}
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidRelocFormat, relocFormat)
	}

	for _, e := range entries {
		if uint64(e)+4 > uint64(header.RelocTableRel) {
			return nil, fmt.Errorf("%w: relocation 0x%x past table 0x%x", errs.ErrAddressOutOfRange, e, header.RelocTableRel)
		}
	}

	return entries, nil
}
