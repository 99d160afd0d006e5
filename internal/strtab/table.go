// Package strtab implements the deduplicated, insertion-ordered string tables
// used by the BIXF codec.
package strtab

import (
	"fmt"

	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/internal/hash"
)

// Table interns strings. Each distinct string is stored once and keeps the
// index of its first insertion.
type Table struct {
	byID         map[uint64][]int // hash → indexes sharing that hash
	names        []string         // insertion order
	limit        int              // maximum entries, 0 = unlimited
	hasCollision bool
}

// New creates a table holding at most limit strings (0 for no limit).
func New(limit int) *Table {
	return &Table{
		byID:  make(map[uint64][]int),
		names: make([]string, 0),
		limit: limit,
	}
}

// FromStrings builds a table from decoded entries, rejecting duplicates.
func FromStrings(names []string, limit int) (*Table, error) {
	t := New(limit)
	for _, name := range names {
		if _, ok := t.Lookup(name); ok {
			return nil, fmt.Errorf("%w: duplicate string table entry %q", errs.ErrMalformedFormat, name)
		}
		if _, err := t.Intern(name); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Intern returns the index of s, appending it when it is not yet present.
//
// Returns:
//   - int: Index of s in insertion order
//   - error: ErrStringTableFull when s is new and the table is at its limit
func (t *Table) Intern(s string) (int, error) {
	if i, ok := t.Lookup(s); ok {
		return i, nil
	}

	if t.limit > 0 && len(t.names) >= t.limit {
		return 0, fmt.Errorf("%w: %d entries", errs.ErrStringTableFull, t.limit)
	}

	id := hash.ID(s)
	if len(t.byID[id]) > 0 {
		// different string, same hash
		t.hasCollision = true
	}

	i := len(t.names)
	t.byID[id] = append(t.byID[id], i)
	t.names = append(t.names, s)

	return i, nil
}

// Lookup returns the index of s without inserting it.
func (t *Table) Lookup(s string) (int, bool) {
	for _, i := range t.byID[hash.ID(s)] {
		if t.names[i] == s {
			return i, true
		}
	}

	return 0, false
}

// At returns the string at index i.
func (t *Table) At(i int) (string, bool) {
	if i < 0 || i >= len(t.names) {
		return "", false
	}

	return t.names[i], true
}

// Strings returns the entries in insertion order.
func (t *Table) Strings() []string {
	return t.names
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.names)
}

// HasCollision reports whether two distinct entries share a hash.
func (t *Table) HasCollision() bool {
	return t.hasCollision
}

// Reset clears the table, keeping its limit.
func (t *Table) Reset() {
	for k := range t.byID {
		delete(t.byID, k)
	}
	t.names = t.names[:0]
	t.hasCollision = false
}
