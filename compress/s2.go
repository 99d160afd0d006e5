package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/relo/errs"
)

// S2Compressor is the S2 block codec, a faster Snappy extension.
type S2Compressor struct{}

var (
	_ Codec             = (*S2Compressor)(nil)
	_ SizedDecompressor = (*S2Compressor)(nil)
)

func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, data), nil
}

func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: s2: %w", errs.ErrMalformedFormat, err)
	}

	return out, nil
}

// DecompressSize decodes a block whose raw size is exactly size. The length
// in the block header is checked before any output is allocated.
func (c S2Compressor) DecompressSize(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		if size != 0 {
			return nil, fmt.Errorf("%w: s2: empty block, want %d bytes", errs.ErrEnvelopeSize, size)
		}

		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("%w: s2: %w", errs.ErrMalformedFormat, err)
	}

	if n != size {
		return nil, fmt.Errorf("%w: s2 block declares %d bytes, want %d", errs.ErrEnvelopeSize, n, size)
	}

	return c.Decompress(data)
}
