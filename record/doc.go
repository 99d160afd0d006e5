// Package record holds the reserve, emit and backpatch helpers shared by the
// pointer-graph record codecs.
//
// Writing a record always follows the same steps:
//
//	p, err := record.Reserve(c, headerSize) // zeroed header at end of file
//	nameAddr, err := record.WriteString(c, r.Name)
//	tableAddr, err := record.WriteTable(c, r.Children, writeChild)
//	_ = p.Address(0, nameAddr)               // seek back and patch
//	_ = p.U32(4, uint32(len(r.Children)))
//	_ = p.Address(8, tableAddr)
//	return p.Done()                          // seek to end of file
//
// Tables are laid out as N address placeholders followed by the N payloads.
// A zero Address means "no child" and is written as a null address.
package record
