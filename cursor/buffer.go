package cursor

import (
	"errors"
	"io"

	"github.com/arloliu/relo/internal/pool"
)

var errNegativePosition = errors.New("cursor: negative buffer position")

// Buffer is an in-memory io.ReadWriteSeeker backed by a pooled byte buffer.
//
// Writing past the end zero-fills the gap, matching file semantics.
type Buffer struct {
	bb  *pool.ByteBuffer
	pos int64
}

var _ io.ReadWriteSeeker = (*Buffer)(nil)

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{bb: pool.GetAssetBuffer()}
}

// NewBufferFrom returns a Buffer holding a copy of data, positioned at 0.
func NewBufferFrom(data []byte) *Buffer {
	b := NewBuffer()
	_, _ = b.bb.Write(data)

	return b
}

func (b *Buffer) Read(p []byte) (int, error) {
	n, err := b.bb.ReadAt(p, b.pos)
	b.pos += int64(n)
	if n > 0 && errors.Is(err, io.EOF) {
		return n, nil
	}

	return n, err
}

func (b *Buffer) Write(p []byte) (int, error) {
	n, err := b.bb.WriteAt(p, b.pos)
	b.pos += int64(n)

	return n, err
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = b.pos + offset
	case io.SeekEnd:
		next = int64(b.bb.Len()) + offset
	default:
		return 0, errors.New("cursor: invalid whence")
	}

	if next < 0 {
		return 0, errNegativePosition
	}
	b.pos = next

	return next, nil
}

// Bytes returns the buffer contents. The slice is only valid until Release.
func (b *Buffer) Bytes() []byte {
	return b.bb.Bytes()
}

// Len returns the buffer size in bytes.
func (b *Buffer) Len() int {
	return b.bb.Len()
}

// Release returns the backing memory to the pool. The Buffer must not be used afterwards.
func (b *Buffer) Release() {
	if b.bb != nil {
		pool.PutAssetBuffer(b.bb)
		b.bb = nil
	}
}
