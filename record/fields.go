package record

import (
	"github.com/arloliu/relo/cursor"
)

// Fields reads consecutive header fields and keeps the first error.
//
//	f := record.NewFields(c)
//	name := f.Address()
//	count := f.U32()
//	if err := f.Err(); err != nil {
//	    return err
//	}
type Fields struct {
	c   *cursor.Cursor
	err error
}

// NewFields returns a field reader positioned at the cursor's current address.
func NewFields(c *cursor.Cursor) *Fields {
	return &Fields{c: c}
}

// Err returns the first error encountered.
func (f *Fields) Err() error {
	return f.err
}

func keep[T any](f *Fields, read func() (T, error)) T {
	var zero T
	if f.err != nil {
		return zero
	}

	v, err := read()
	if err != nil {
		f.err = err
		return zero
	}

	return v
}

// U8 reads a byte.
func (f *Fields) U8() uint8 { return keep(f, f.c.ReadU8) }

// U16 reads an unsigned 16-bit field.
func (f *Fields) U16() uint16 { return keep(f, f.c.ReadU16) }

// I16 reads a signed 16-bit field.
func (f *Fields) I16() int16 { return keep(f, f.c.ReadI16) }

// U32 reads an unsigned 32-bit field.
func (f *Fields) U32() uint32 { return keep(f, f.c.ReadU32) }

// F32 reads a float field.
func (f *Fields) F32() float32 { return keep(f, f.c.ReadF32) }

// F16 reads a half precision float field.
func (f *Fields) F16() float32 { return keep(f, f.c.ReadF16) }

// F32s reads n consecutive float fields into dst.
func (f *Fields) F32s(dst []float32) {
	for i := range dst {
		dst[i] = f.F32()
	}
}

// Address reads an address field. A null address reads as 0.
func (f *Fields) Address() cursor.Address {
	return keep(f, func() (cursor.Address, error) {
		addr, _, err := f.c.ReadOptionalAddress()
		return addr, err
	})
}
