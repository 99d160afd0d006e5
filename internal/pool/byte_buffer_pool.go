package pool

import (
	"io"
	"sync"
)

// Default sizes of pooled buffers.
const (
	AssetBufferDefaultSize  = 1024 * 64       // 64KiB
	AssetBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB
)

// ByteBuffer is a growable byte slice that supports positional writes.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without reallocating.
//
// Small buffers grow by AssetBufferDefaultSize; larger ones grow by 25% of
// their capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := AssetBufferDefaultSize
	if cap(bb.B) > 4*AssetBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteAt copies data into the buffer at off, zero-extending the buffer when
// off lies past the current end.
func (bb *ByteBuffer) WriteAt(data []byte, off int64) (int, error) {
	end := int(off) + len(data)
	if end > len(bb.B) {
		bb.Grow(end - len(bb.B))
		old := len(bb.B)
		bb.B = bb.B[:end]
		clear(bb.B[old:end])
	}

	return copy(bb.B[off:], data), nil
}

// ReadAt copies bytes starting at off into p.
func (bb *ByteBuffer) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(bb.B)) {
		return 0, io.EOF
	}

	n := copy(p, bb.B[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// Buffers that grew beyond maxThreshold are dropped instead of pooled.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var assetDefaultPool = NewByteBufferPool(AssetBufferDefaultSize, AssetBufferMaxThreshold)

// GetAssetBuffer retrieves a ByteBuffer from the default asset pool.
func GetAssetBuffer() *ByteBuffer {
	return assetDefaultPool.Get()
}

// PutAssetBuffer returns a ByteBuffer to the default asset pool.
func PutAssetBuffer(bb *ByteBuffer) {
	assetDefaultPool.Put(bb)
}
