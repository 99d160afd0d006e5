// Package cursor provides the positioned, endian-aware binary cursor that
// every pointer-graph codec reads and writes through.
//
// # Addressing
//
// Records refer to each other by Address, an absolute byte offset. On disk an
// address field stores target − root, where root is the root node address
// fixed once per file. ReadAddress adds the root back; WriteAddress subtracts
// it and, when asked, records the field position in the pending relocation
// list so Finalize can emit the relocation table.
//
// A stored value of 0 is a null address. Null fields are written with
// WriteNullAddress and are never relocated.
//
// # Lifecycle
//
//	c, err := cursor.Create(path, endian.GetLittleEndianEngine())
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	_ = c.WriteZeros(section.HeaderSize)
//	_, _ = c.PadTo(16)
//	_ = c.SetRoot(section.DefaultRootAddress)
//	// write records ...
//	_, err = c.Finalize(format.NodeModel, cursor.FinalizeOptions{})
//
// Every operation returns an error; a closed cursor fails with
// errs.ErrClosedCursor instead of returning zero values.
//
// A Cursor is not safe for concurrent use.
package cursor
