package record

import (
	"fmt"

	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/errs"
)

// WriteTable writes len(items) address placeholders at the end of the file,
// then each item through write, patching its address into the table. write
// must return the address of the item it emitted; method expressions such as
// (*Bone).Write fit directly.
//
// An empty slice writes nothing and returns 0.
func WriteTable[T any](c *cursor.Cursor, items []T, write func(T, *cursor.Cursor) (cursor.Address, error)) (cursor.Address, error) {
	if len(items) == 0 {
		return 0, nil
	}

	table, err := Reserve(c, 4*len(items))
	if err != nil {
		return 0, err
	}

	for i, item := range items {
		addr, err := write(item, c)
		if err != nil {
			return 0, err
		}

		if err := table.Address(4*i, addr); err != nil {
			return 0, err
		}

		if err := table.Done(); err != nil {
			return 0, err
		}
	}

	return table.Base(), nil
}

// ReadTable reads count items through a table of addresses at table.
func ReadTable[T any](c *cursor.Cursor, table cursor.Address, count uint32, read func(*cursor.Cursor) (T, error)) ([]T, error) {
	if count == 0 {
		return nil, nil
	}

	if err := CheckSpan(c, table, uint64(count)*4); err != nil {
		return nil, err
	}

	items := make([]T, 0, count)
	for i := range count {
		if err := c.Seek(table + cursor.Address(4*i)); err != nil {
			return nil, err
		}

		addr, ok, err := c.ReadOptionalAddress()
		if err != nil {
			return nil, err
		}

		if !ok {
			return nil, fmt.Errorf("%w: null entry %d in table 0x%x", errs.ErrMalformedFormat, i, table)
		}

		if err := c.Seek(addr); err != nil {
			return nil, err
		}

		item, err := read(c)
		if err != nil {
			return nil, fmt.Errorf("table 0x%x entry %d: %w", table, i, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// CheckSpan fails with ErrTruncated when n bytes at addr extend past the end
// of the file, or when a count is given without an address.
func CheckSpan(c *cursor.Cursor, addr cursor.Address, n uint64) error {
	if n == 0 {
		return nil
	}

	if addr == 0 {
		return fmt.Errorf("%w: %d bytes at null address", errs.ErrMalformedFormat, n)
	}

	size, err := c.Size()
	if err != nil {
		return err
	}

	if uint64(addr)+n > uint64(size) {
		return fmt.Errorf("%w: %d bytes at 0x%x, file size %d", errs.ErrTruncated, n, addr, size)
	}

	return nil
}
