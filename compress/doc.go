// Package compress provides the payload codecs (None, Zstd, S2, LZ4) and the
// envelope that wraps a compressed asset file.
//
// An envelope is a 12-byte header followed by the codec payload:
//
//	offset 0  "RLZ1"
//	offset 4  u8 compression type
//	offset 5  3 zero bytes
//	offset 8  u32 raw size, little-endian
//	offset 12 payload
//
// The raw bytes inside an envelope are an ordinary asset file, so an envelope
// never changes the addresses or relocation table of the asset it carries.
//
// Example:
//
//	sealed, err := compress.Seal(format.CompressionZstd, raw)
//	...
//	raw, err = compress.Open(sealed)
package compress
