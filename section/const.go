package section

// Offsets and sizes of the fixed file header.
const (
	HeaderSize = 24 // fixed header size in bytes

	FileSizeOffset      = 0  // u32 total file size
	RootTypeOffset      = 4  // u32 root node type id
	RelocRelOffset      = 8  // u32 relocation table address, root-relative
	RootAddressOffset   = 12 // u32 root node address, absolute
	RelocAbsOffset      = 16 // u32 relocation table address, absolute
	FooterSizeOffset    = 20 // u32 footer size or 0
	DefaultRootAddress  = 0x20
	RelocationAlignment = 4
	FooterSize          = 4
)

// UnsupportedMarker is the first byte of a tagged "BIXF" stream. A valid
// pointer-graph file never starts with it: offset 0 holds a 4-byte aligned
// little-endian size, or the high byte of a big-endian size.
const UnsupportedMarker = 'B'
