// Package bbin implements BBIN, the variable-width delta encoding used for
// compact relocation tables.
//
// Addresses are sorted, then each one is stored as the distance from its
// predecessor (the first from a caller-supplied base). Distances are always
// multiples of four, so the two low bits are dropped and replaced by a width
// tag in the two high bits of the first byte:
//
//	Tag | Width   | Magnitude bits | Max distance
//	----|---------|----------------|-------------
//	01  | 1 byte  | 6              | 0xFC
//	10  | 2 bytes | 14             | 0xFFFC
//	11  | 4 bytes | 30             | 0xFFFFFFFC
//
// Multi-byte groups are stored most significant byte first so the tag always
// leads. A zero byte never starts a group; it is trailing padding.
package bbin

import (
	"fmt"
	"slices"

	"github.com/arloliu/relo/errs"
)

const (
	tagMask  = 0xC0
	tagByte  = 0x40
	tagShort = 0x80
	tagWord  = 0xC0

	maxByteDelta  = 0xFC
	maxShortDelta = 0xFFFC
)

// Encode sorts addresses ascending and encodes them as BBIN deltas starting
// from base.
//
// Returns:
//   - []byte: Encoded table bytes, without count or padding
//   - error: ErrUnsortedAddresses if an address is below base,
//     ErrUnalignedAddress if a delta is not a multiple of four
func Encode(addresses []uint32, base uint32) ([]byte, error) {
	sorted := slices.Clone(addresses)
	slices.Sort(sorted)

	buf := make([]byte, 0, EncodedSizeHint(len(sorted)))
	current := base

	for _, addr := range sorted {
		if addr < current {
			return nil, fmt.Errorf("%w: 0x%x < base 0x%x", errs.ErrUnsortedAddresses, addr, base)
		}

		delta := addr - current
		if delta&3 != 0 {
			return nil, fmt.Errorf("%w: delta 0x%x at 0x%x", errs.ErrUnalignedAddress, delta, addr)
		}

		buf = appendDelta(buf, delta)
		current += delta
	}

	return buf, nil
}

func appendDelta(buf []byte, delta uint32) []byte {
	v := delta >> 2

	switch {
	case delta > maxShortDelta:
		v |= uint32(tagWord) << 24
		return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	case delta > maxByteDelta:
		v |= uint32(tagShort) << 8
		return append(buf, byte(v>>8), byte(v))
	default:
		return append(buf, tagByte|byte(v))
	}
}

// Decode decodes BBIN bytes, accumulating deltas from base, and returns each
// decoded address minus root.
//
// Decoding stops at the first zero byte; every byte after it must also be zero.
//
// Returns:
//   - []uint32: Decoded addresses relative to root
//   - error: ErrTruncated for a cut multi-byte group, ErrMalformedFormat for a
//     byte with an unknown tag
func Decode(data []byte, base, root uint32) ([]uint32, error) {
	out := make([]uint32, 0, len(data))
	current := base

	for i := 0; i < len(data); {
		b := data[i]

		var delta uint32
		switch b & tagMask {
		case 0:
			if b != 0 {
				return nil, fmt.Errorf("%w: bbin byte 0x%02x at %d", errs.ErrMalformedFormat, b, i)
			}
			for j := i; j < len(data); j++ {
				if data[j] != 0 {
					return nil, fmt.Errorf("%w: bbin data after padding at %d", errs.ErrMalformedFormat, j)
				}
			}

			return out, nil
		case tagByte:
			delta = uint32(b&^tagMask) << 2
			i++
		case tagShort:
			if i+2 > len(data) {
				return nil, fmt.Errorf("%w: bbin 2-byte group at %d", errs.ErrTruncated, i)
			}
			delta = (uint32(b&^tagMask)<<8 | uint32(data[i+1])) << 2
			i += 2
		default:
			if i+4 > len(data) {
				return nil, fmt.Errorf("%w: bbin 4-byte group at %d", errs.ErrTruncated, i)
			}
			delta = (uint32(b&^tagMask)<<24 | uint32(data[i+1])<<16 | uint32(data[i+2])<<8 | uint32(data[i+3])) << 2
			i += 4
		}

		current += delta
		out = append(out, current-root)
	}

	return out, nil
}

// EncodedSizeHint returns a capacity guess for n entries.
func EncodedSizeHint(n int) int {
	return n * 2
}
