package compress

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/format"
)

const (
	// EnvelopeMagic opens every compressed asset.
	EnvelopeMagic = "RLZ1"
	// EnvelopeHeaderSize is the size of the envelope header before the payload.
	EnvelopeHeaderSize = 12
	// MaxRawSize bounds the raw size an envelope may declare.
	MaxRawSize = 1 << 30
)

// IsEnvelope reports whether data starts with the envelope magic.
func IsEnvelope(data []byte) bool {
	return len(data) >= EnvelopeHeaderSize && bytes.Equal(data[:4], []byte(EnvelopeMagic))
}

// Seal compresses raw with the codec for compressionType and prepends the
// envelope header. CompressionNone is valid and stores raw unchanged.
func Seal(compressionType format.CompressionType, raw []byte) ([]byte, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	if len(raw) > MaxRawSize {
		return nil, fmt.Errorf("%w: %d raw bytes", errs.ErrEnvelopeSize, len(raw))
	}

	payload, err := codec.Compress(raw)
	if err != nil {
		return nil, err
	}

	out := make([]byte, EnvelopeHeaderSize, EnvelopeHeaderSize+len(payload))
	copy(out, EnvelopeMagic)
	out[4] = uint8(compressionType)
	binary.LittleEndian.PutUint32(out[8:], uint32(len(raw)))

	return append(out, payload...), nil
}

// Open validates the envelope header of data and returns the raw bytes.
func Open(data []byte) ([]byte, error) {
	raw, _, err := OpenStats(data)
	return raw, err
}

// OpenStats is Open that also reports the compression stats of the envelope.
func OpenStats(data []byte) ([]byte, CompressionStats, error) {
	var stats CompressionStats

	if !IsEnvelope(data) {
		return nil, stats, fmt.Errorf("%w: not a compressed envelope", errs.ErrBadMagic)
	}

	if data[5] != 0 || data[6] != 0 || data[7] != 0 {
		return nil, stats, fmt.Errorf("%w: reserved envelope bytes are not zero", errs.ErrMalformedFormat)
	}

	stats.Algorithm = format.CompressionType(data[4])
	codec, err := GetCodec(stats.Algorithm)
	if err != nil {
		return nil, stats, err
	}

	size := int(binary.LittleEndian.Uint32(data[8:]))
	if size > MaxRawSize {
		return nil, stats, fmt.Errorf("%w: declared raw size %d", errs.ErrEnvelopeSize, size)
	}
	payload := data[EnvelopeHeaderSize:]
	stats.OriginalSize = int64(size)
	stats.CompressedSize = int64(len(payload))

	var raw []byte
	if sized, ok := codec.(SizedDecompressor); ok {
		raw, err = sized.DecompressSize(payload, size)
	} else {
		raw, err = codec.Decompress(payload)
	}

	if err != nil {
		return nil, stats, err
	}

	if len(raw) != size {
		return nil, stats, fmt.Errorf("%w: header says %d bytes, payload holds %d", errs.ErrEnvelopeSize, size, len(raw))
	}

	return raw, stats, nil
}
