package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/relo/errs"
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// maxLZ4Size bounds the buffer growth of Decompress when the raw size is unknown.
const maxLZ4Size = 128 * 1024 * 1024

// LZ4Compressor is the LZ4 block codec. Blocks carry no raw size, so callers
// that know it should use DecompressSize.
type LZ4Compressor struct{}

var (
	_ Codec             = (*LZ4Compressor)(nil)
	_ SizedDecompressor = (*LZ4Compressor)(nil)
)

func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress grows its output buffer until the block fits.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	for bufSize := len(data) * 4; bufSize <= maxLZ4Size; bufSize *= 2 {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", errs.ErrMalformedFormat, err)
		}

		return buf[:n], nil
	}

	return nil, fmt.Errorf("%w: lz4: %w", errs.ErrMalformedFormat, lz4.ErrInvalidSourceShortBuffer)
}

// DecompressSize decodes a block whose raw size is exactly size.
func (c LZ4Compressor) DecompressSize(data []byte, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %w", errs.ErrMalformedFormat, err)
	}

	return buf[:n], nil
}
