// Package endian provides byte order utilities for relocatable asset files.
//
// Asset files come in little-endian (PC) and big-endian (console) variants
// that share one layout. Codecs never hard-code a byte order; they carry an
// EndianEngine chosen when the cursor is opened:
//
//	c, err := cursor.Open(path, endian.GetBigEndianEngine())
//
// When the variant is unknown, Detect probes the leading file size field.
//
// All functions are safe for concurrent use. Engines are immutable.
package endian

import (
	"encoding/binary"
	"math/bits"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// Name returns "little-endian" or "big-endian".
func Name(engine EndianEngine) string {
	if IsBigEndian(engine) {
		return "big-endian"
	}

	return "little-endian"
}

// Detect returns the engine under which the first four bytes of data read as
// size, the length of the whole file. ok is false when neither order
// matches or data is shorter than four bytes. A size that reads the same in
// both orders is reported as little-endian.
func Detect(data []byte, size uint32) (engine EndianEngine, ok bool) {
	if len(data) < 4 {
		return nil, false
	}

	v := binary.LittleEndian.Uint32(data)
	switch size {
	case v:
		return binary.LittleEndian, true
	case Swap32(v):
		return binary.BigEndian, true
	default:
		return nil, false
	}
}

// Swap16 reverses the byte order of v.
func Swap16(v uint16) uint16 {
	return bits.ReverseBytes16(v)
}

// Swap32 reverses the byte order of v.
func Swap32(v uint32) uint32 {
	return bits.ReverseBytes32(v)
}
