// Package errs defines the sentinel errors returned by relo packages.
//
// Every specific error wraps exactly one of three categories, so callers can
// classify any failure with errors.Is:
//
//	if errors.Is(err, errs.ErrMalformedFormat) {
//	    // the file is corrupt or not the expected variant
//	}
package errs

import (
	"errors"
	"fmt"
)

// Categories.
var (
	// ErrIO reports an open, read, write or seek failure of the underlying stream.
	ErrIO = errors.New("relo: I/O error")
	// ErrMalformedFormat reports bytes that violate the file format.
	ErrMalformedFormat = errors.New("relo: malformed format")
	// ErrUnsupportedVariant reports a well-formed file using a variant this module does not handle.
	ErrUnsupportedVariant = errors.New("relo: unsupported variant")
)

// Cursor and file header errors.
var (
	ErrClosedCursor       = fmt.Errorf("%w: cursor is closed", ErrIO)
	ErrTruncated          = fmt.Errorf("%w: unexpected end of data", ErrMalformedFormat)
	ErrBadMarker          = fmt.Errorf("%w: unsupported format marker", ErrUnsupportedVariant)
	ErrInvalidHeaderSize  = fmt.Errorf("%w: invalid header size", ErrMalformedFormat)
	ErrInconsistentHeader = fmt.Errorf("%w: inconsistent file header", ErrMalformedFormat)
	ErrRootAlreadySet     = errors.New("relo: root node address already fixed")
	ErrRootNotSet         = errors.New("relo: root node address not set")
	ErrAddressOutOfRange  = fmt.Errorf("%w: address out of range", ErrMalformedFormat)
	ErrUnalignedAddress   = fmt.Errorf("%w: address is not 4-byte aligned", ErrMalformedFormat)
	ErrUnsortedAddresses  = fmt.Errorf("%w: addresses below relocation base", ErrMalformedFormat)
	ErrRelocationCount    = fmt.Errorf("%w: relocation count mismatch", ErrMalformedFormat)
	ErrInvalidRelocFormat = fmt.Errorf("%w: unknown relocation table format", ErrUnsupportedVariant)
)

// BIXF errors.
var (
	ErrBadMagic         = fmt.Errorf("%w: bad magic", ErrMalformedFormat)
	ErrBadVersion       = fmt.Errorf("%w: unknown version", ErrUnsupportedVariant)
	ErrUnknownOpcode    = fmt.Errorf("%w: unknown opcode", ErrMalformedFormat)
	ErrTableIndex       = fmt.Errorf("%w: table index out of range", ErrMalformedFormat)
	ErrNoCurrentElement = fmt.Errorf("%w: no current element", ErrMalformedFormat)
	ErrNoPendingAttr    = fmt.Errorf("%w: value without pending attribute", ErrMalformedFormat)
	ErrStringTableFull  = errors.New("relo: dynamic string table is full")
	ErrEmptyName        = errors.New("relo: empty node or attribute name")
)

// Record errors.
var (
	ErrMissingSentinel     = fmt.Errorf("%w: missing sentinel", ErrMalformedFormat)
	ErrUnsupportedNodeType = fmt.Errorf("%w: unknown root node type", ErrUnsupportedVariant)
	ErrUnsupportedElement  = fmt.Errorf("%w: unrecognized vertex element", ErrUnsupportedVariant)
	ErrInvalidStride       = fmt.Errorf("%w: vertex stride too small for format", ErrMalformedFormat)
	ErrIndexOverflow       = errors.New("relo: index does not fit in 16 bits")
	ErrInvalidStrip        = errors.New("relo: stripper returned an invalid strip")
	ErrUnknownReference    = fmt.Errorf("%w: unknown cross-reference id", ErrMalformedFormat)
	ErrDuplicateID         = fmt.Errorf("%w: duplicate id", ErrMalformedFormat)
	ErrAlreadyResolved     = errors.New("relo: cross references already resolved")
	ErrNotResolved         = errors.New("relo: cross references not resolved")
	ErrUnexpectedNode      = fmt.Errorf("%w: unexpected tree node", ErrMalformedFormat)
)

// Container errors.
var (
	ErrInvalidCompression = fmt.Errorf("%w: invalid compression type", ErrUnsupportedVariant)
	ErrEnvelopeSize       = fmt.Errorf("%w: envelope size mismatch", ErrMalformedFormat)
	ErrUnsupportedRecord  = errors.New("relo: unsupported record type")
)
