package record

import (
	"github.com/arloliu/relo/cursor"
)

// Alignment of every reserved header and table.
const Alignment = 4

// Patcher writes fields into a header reserved by Reserve.
type Patcher struct {
	c    *cursor.Cursor
	base cursor.Address
}

// Reserve pads the end of the file to Alignment and writes size zero bytes
// there. The cursor is left after the reserved area.
func Reserve(c *cursor.Cursor, size int) (Patcher, error) {
	if _, err := c.SeekEnd(); err != nil {
		return Patcher{}, err
	}

	if _, err := c.PadTo(Alignment); err != nil {
		return Patcher{}, err
	}

	base, err := c.Tell()
	if err != nil {
		return Patcher{}, err
	}

	if err := c.WriteZeros(size); err != nil {
		return Patcher{}, err
	}

	return Patcher{c: c, base: base}, nil
}

// Base returns the address of the reserved header.
func (p Patcher) Base() cursor.Address {
	return p.base
}

func (p Patcher) at(off int) error {
	return p.c.Seek(p.base + cursor.Address(off))
}

// U8 patches a byte at off.
func (p Patcher) U8(off int, v uint8) error {
	if err := p.at(off); err != nil {
		return err
	}

	return p.c.WriteU8(v)
}

// U16 patches an unsigned 16-bit field at off.
func (p Patcher) U16(off int, v uint16) error {
	if err := p.at(off); err != nil {
		return err
	}

	return p.c.WriteU16(v)
}

// I16 patches a signed 16-bit field at off.
func (p Patcher) I16(off int, v int16) error {
	if err := p.at(off); err != nil {
		return err
	}

	return p.c.WriteI16(v)
}

// U32 patches an unsigned 32-bit field at off.
func (p Patcher) U32(off int, v uint32) error {
	if err := p.at(off); err != nil {
		return err
	}

	return p.c.WriteU32(v)
}

// F32 patches a float field at off.
func (p Patcher) F32(off int, v float32) error {
	if err := p.at(off); err != nil {
		return err
	}

	return p.c.WriteF32(v)
}

// F32s patches consecutive float fields starting at off.
func (p Patcher) F32s(off int, vs []float32) error {
	if err := p.at(off); err != nil {
		return err
	}

	for _, v := range vs {
		if err := p.c.WriteF32(v); err != nil {
			return err
		}
	}

	return nil
}

// Address patches an address field at off and adds it to the relocation
// table. A zero target leaves the field null.
func (p Patcher) Address(off int, target cursor.Address) error {
	if err := p.at(off); err != nil {
		return err
	}

	if target == 0 {
		return p.c.WriteNullAddress()
	}

	return p.c.WriteAddress(target, true)
}

// Done moves the cursor back to the end of the file.
func (p Patcher) Done() error {
	_, err := p.c.SeekEnd()
	return err
}
