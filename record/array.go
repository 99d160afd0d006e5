package record

import (
	"github.com/arloliu/relo/cursor"
)

// WriteString writes s NUL-terminated at the end of the file. An empty
// string writes nothing and returns 0.
func WriteString(c *cursor.Cursor, s string) (cursor.Address, error) {
	if s == "" {
		return 0, nil
	}

	if _, err := c.SeekEnd(); err != nil {
		return 0, err
	}

	addr, err := c.Tell()
	if err != nil {
		return 0, err
	}

	return addr, c.WriteCString(s)
}

// ReadStringAt reads a NUL-terminated string at addr. Address 0 reads as "".
func ReadStringAt(c *cursor.Cursor, addr cursor.Address) (string, error) {
	if addr == 0 {
		return "", nil
	}

	if err := c.Seek(addr); err != nil {
		return "", err
	}

	return c.ReadCString()
}

func writeArray[T any](c *cursor.Cursor, vs []T, put func(T) error) (cursor.Address, error) {
	if len(vs) == 0 {
		return 0, nil
	}

	if _, err := c.SeekEnd(); err != nil {
		return 0, err
	}

	if _, err := c.PadTo(Alignment); err != nil {
		return 0, err
	}

	addr, err := c.Tell()
	if err != nil {
		return 0, err
	}

	for _, v := range vs {
		if err := put(v); err != nil {
			return 0, err
		}
	}

	return addr, nil
}

func readArray[T any](c *cursor.Cursor, addr cursor.Address, count uint32, width uint64, get func() (T, error)) ([]T, error) {
	if count == 0 {
		return nil, nil
	}

	if err := CheckSpan(c, addr, uint64(count)*width); err != nil {
		return nil, err
	}

	if err := c.Seek(addr); err != nil {
		return nil, err
	}

	out := make([]T, count)
	for i := range out {
		v, err := get()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// WriteU16s writes vs at the end of the file and returns its address, or 0 when empty.
func WriteU16s(c *cursor.Cursor, vs []uint16) (cursor.Address, error) {
	return writeArray(c, vs, c.WriteU16)
}

// ReadU16s reads count u16 values at addr.
func ReadU16s(c *cursor.Cursor, addr cursor.Address, count uint32) ([]uint16, error) {
	return readArray(c, addr, count, 2, c.ReadU16)
}

// WriteU32s writes vs at the end of the file and returns its address, or 0 when empty.
func WriteU32s(c *cursor.Cursor, vs []uint32) (cursor.Address, error) {
	return writeArray(c, vs, c.WriteU32)
}

// ReadU32s reads count u32 values at addr.
func ReadU32s(c *cursor.Cursor, addr cursor.Address, count uint32) ([]uint32, error) {
	return readArray(c, addr, count, 4, c.ReadU32)
}

// WriteF32s writes vs at the end of the file and returns its address, or 0 when empty.
func WriteF32s(c *cursor.Cursor, vs []float32) (cursor.Address, error) {
	return writeArray(c, vs, c.WriteF32)
}

// ReadF32s reads count float values at addr.
func ReadF32s(c *cursor.Cursor, addr cursor.Address, count uint32) ([]float32, error) {
	return readArray(c, addr, count, 4, c.ReadF32)
}
