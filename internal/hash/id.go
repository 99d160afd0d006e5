package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Index is an immutable name → position lookup over a fixed string table.
//
// Lookups are exact and case-sensitive: a hash hit is confirmed against the
// table entry before it is reported.
type Index struct {
	table []string
	byID  map[uint64][]int
}

// NewIndex builds an Index over table. The table slice is retained, not copied.
func NewIndex(table []string) Index {
	byID := make(map[uint64][]int, len(table))
	for i, name := range table {
		id := ID(name)
		byID[id] = append(byID[id], i)
	}

	return Index{table: table, byID: byID}
}

// Lookup returns the position of name in the table.
func (x Index) Lookup(name string) (int, bool) {
	for _, i := range x.byID[ID(name)] {
		if x.table[i] == name {
			return i, true
		}
	}

	return 0, false
}

// Len returns the number of table entries.
func (x Index) Len() int {
	return len(x.table)
}
