package cursor

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/x448/float16"

	"github.com/arloliu/relo/endian"
	"github.com/arloliu/relo/errs"
)

// Address is an absolute byte offset inside a pointer-graph file.
type Address uint32

// maxCStringLen bounds ReadCString so a missing terminator cannot consume the file.
const maxCStringLen = 1 << 16

// Cursor is a positioned binary reader and writer with root-relative addressing.
type Cursor struct {
	rws     io.ReadWriteSeeker
	closer  io.Closer
	engine  endian.EndianEngine
	pos     int64
	root    Address
	rootSet bool
	relocs  []uint32
	scratch [8]byte
	closed  bool
}

// Open opens an existing file for reading.
func Open(path string, engine endian.EndianEngine) (*Cursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	c := New(f, engine)
	c.closer = f

	return c, nil
}

// Create creates or truncates a file for writing. The cursor can read back
// what it wrote.
func Create(path string, engine endian.EndianEngine) (*Cursor, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	c := New(f, engine)
	c.closer = f

	return c, nil
}

// New returns a cursor over rws positioned at offset 0. The caller keeps
// ownership of rws; Close does not close it.
func New(rws io.ReadWriteSeeker, engine endian.EndianEngine) *Cursor {
	return &Cursor{rws: rws, engine: engine}
}

// Engine returns the byte order the cursor reads and writes with.
func (c *Cursor) Engine() endian.EndianEngine {
	return c.engine
}

// Close releases the underlying file. Calling Close again is a no-op.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.relocs = nil

	if c.closer != nil {
		if err := c.closer.Close(); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrIO, err)
		}
	}

	return nil
}

// Closed reports whether Close has been called.
func (c *Cursor) Closed() bool {
	return c.closed
}

// SetRoot fixes the root node address. It may be set only once; setting the
// same value again is accepted.
func (c *Cursor) SetRoot(root Address) error {
	if c.closed {
		return errs.ErrClosedCursor
	}

	if c.rootSet {
		if c.root == root {
			return nil
		}

		return fmt.Errorf("%w: 0x%x, requested 0x%x", errs.ErrRootAlreadySet, c.root, root)
	}

	c.root = root
	c.rootSet = true

	return nil
}

// Root returns the root node address and whether it has been set.
func (c *Cursor) Root() (Address, bool) {
	return c.root, c.rootSet
}

// Seek moves to an absolute address.
func (c *Cursor) Seek(addr Address) error {
	return c.seek(int64(addr), io.SeekStart)
}

// SeekRelative moves to root + rel.
func (c *Cursor) SeekRelative(rel uint32) error {
	if err := c.requireRoot(); err != nil {
		return err
	}

	return c.seek(int64(c.root)+int64(rel), io.SeekStart)
}

// SeekEnd moves to the end of the stream and returns that address.
func (c *Cursor) SeekEnd() (Address, error) {
	if err := c.seek(0, io.SeekEnd); err != nil {
		return 0, err
	}

	return c.Tell()
}

// Tell returns the current absolute position.
func (c *Cursor) Tell() (Address, error) {
	if c.closed {
		return 0, errs.ErrClosedCursor
	}

	if c.pos > math.MaxUint32 {
		return 0, fmt.Errorf("%w: position %d", errs.ErrAddressOutOfRange, c.pos)
	}

	return Address(c.pos), nil
}

// TellRelative returns the current position relative to the root.
func (c *Cursor) TellRelative() (uint32, error) {
	if err := c.requireRoot(); err != nil {
		return 0, err
	}

	pos, err := c.Tell()
	if err != nil {
		return 0, err
	}

	if pos < c.root {
		return 0, fmt.Errorf("%w: position 0x%x before root 0x%x", errs.ErrAddressOutOfRange, pos, c.root)
	}

	return uint32(pos - c.root), nil
}

// Size returns the current stream size without moving the cursor.
func (c *Cursor) Size() (int64, error) {
	if c.closed {
		return 0, errs.ErrClosedCursor
	}

	end, err := c.rws.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("%w: seek end: %w", errs.ErrIO, err)
	}

	if _, err := c.rws.Seek(c.pos, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: seek 0x%x: %w", errs.ErrIO, c.pos, err)
	}

	return end, nil
}

func (c *Cursor) seek(offset int64, whence int) error {
	if c.closed {
		return errs.ErrClosedCursor
	}

	pos, err := c.rws.Seek(offset, whence)
	if err != nil {
		return fmt.Errorf("%w: seek 0x%x: %w", errs.ErrIO, offset, err)
	}
	c.pos = pos

	return nil
}

func (c *Cursor) requireRoot() error {
	if c.closed {
		return errs.ErrClosedCursor
	}

	if !c.rootSet {
		return errs.ErrRootNotSet
	}

	return nil
}

// read fills buf completely or fails.
func (c *Cursor) read(buf []byte) error {
	if c.closed {
		return errs.ErrClosedCursor
	}

	n, err := io.ReadFull(c.rws, buf)
	start := c.pos
	c.pos += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: want %d bytes at 0x%x, got %d", errs.ErrTruncated, len(buf), start, n)
		}

		return fmt.Errorf("%w: read at 0x%x: %w", errs.ErrIO, start, err)
	}

	return nil
}

func (c *Cursor) write(buf []byte) error {
	if c.closed {
		return errs.ErrClosedCursor
	}

	n, err := c.rws.Write(buf)
	start := c.pos
	c.pos += int64(n)
	if err != nil {
		return fmt.Errorf("%w: write at 0x%x: %w", errs.ErrIO, start, err)
	}

	if n != len(buf) {
		return fmt.Errorf("%w: short write at 0x%x", errs.ErrIO, start)
	}

	return nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b := c.scratch[:1]
	if err := c.read(b); err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadU16 reads an unsigned 16-bit integer.
func (c *Cursor) ReadU16() (uint16, error) {
	b := c.scratch[:2]
	if err := c.read(b); err != nil {
		return 0, err
	}

	return c.engine.Uint16(b), nil
}

// ReadU32 reads an unsigned 32-bit integer.
func (c *Cursor) ReadU32() (uint32, error) {
	b := c.scratch[:4]
	if err := c.read(b); err != nil {
		return 0, err
	}

	return c.engine.Uint32(b), nil
}

// ReadI16 reads a signed 16-bit integer.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

// ReadI32 reads a signed 32-bit integer.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadF32 reads an IEEE-754 single precision float.
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF16 reads an IEEE-754 half precision float widened to float32.
func (c *Cursor) ReadF16() (float32, error) {
	v, err := c.ReadU16()
	return float16.Frombits(v).Float32(), err
}

// ReadBytes reads exactly n bytes into a new slice.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", errs.ErrMalformedFormat, n)
	}

	buf := make([]byte, n)
	if err := c.read(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadString reads a fixed n-byte field and returns the text before the first NUL.
func (c *Cursor) ReadString(n int) (string, error) {
	buf, err := c.ReadBytes(n)
	if err != nil {
		return "", err
	}

	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), nil
		}
	}

	return string(buf), nil
}

// ReadCString reads a NUL-terminated string and consumes the terminator.
func (c *Cursor) ReadCString() (string, error) {
	var buf []byte
	for len(buf) < maxCStringLen {
		b, err := c.ReadU8()
		if err != nil {
			return "", err
		}

		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, b)
	}

	return "", fmt.Errorf("%w: string longer than %d bytes", errs.ErrMalformedFormat, maxCStringLen)
}

// WriteU8 writes one byte.
func (c *Cursor) WriteU8(v uint8) error {
	c.scratch[0] = v
	return c.write(c.scratch[:1])
}

// WriteU16 writes an unsigned 16-bit integer.
func (c *Cursor) WriteU16(v uint16) error {
	return c.write(c.engine.AppendUint16(c.scratch[:0], v))
}

// WriteU32 writes an unsigned 32-bit integer.
func (c *Cursor) WriteU32(v uint32) error {
	return c.write(c.engine.AppendUint32(c.scratch[:0], v))
}

// WriteI16 writes a signed 16-bit integer.
func (c *Cursor) WriteI16(v int16) error {
	return c.WriteU16(uint16(v))
}

// WriteI32 writes a signed 32-bit integer.
func (c *Cursor) WriteI32(v int32) error {
	return c.WriteU32(uint32(v))
}

// WriteF32 writes an IEEE-754 single precision float.
func (c *Cursor) WriteF32(v float32) error {
	return c.WriteU32(math.Float32bits(v))
}

// WriteF16 writes v rounded to IEEE-754 half precision.
func (c *Cursor) WriteF16(v float32) error {
	return c.WriteU16(float16.Fromfloat32(v).Bits())
}

// WriteBytes writes b verbatim.
func (c *Cursor) WriteBytes(b []byte) error {
	return c.write(b)
}

// WriteString writes s into a fixed n-byte field, truncating or zero-padding it.
func (c *Cursor) WriteString(s string, n int) error {
	buf := make([]byte, n)
	copy(buf, s)

	return c.write(buf)
}

// WriteCString writes s followed by a NUL terminator.
func (c *Cursor) WriteCString(s string) error {
	buf := make([]byte, len(s)+1)
	copy(buf, s)

	return c.write(buf)
}

// WriteZeros writes n zero bytes.
func (c *Cursor) WriteZeros(n int) error {
	if n <= 0 {
		return nil
	}

	return c.write(make([]byte, n))
}

// PadTo writes zero bytes until the position is a multiple of n and returns
// the number of bytes written.
func (c *Cursor) PadTo(n int) (int, error) {
	if c.closed {
		return 0, errs.ErrClosedCursor
	}

	if n <= 1 {
		return 0, nil
	}

	pad := int((int64(n) - c.pos%int64(n)) % int64(n))

	return pad, c.WriteZeros(pad)
}

// ReadAddress reads a stored root-relative address and returns it absolute.
func (c *Cursor) ReadAddress() (Address, error) {
	if err := c.requireRoot(); err != nil {
		return 0, err
	}

	raw, err := c.ReadU32()
	if err != nil {
		return 0, err
	}

	abs := uint64(raw) + uint64(c.root)
	if abs > math.MaxUint32 {
		return 0, fmt.Errorf("%w: 0x%x + root 0x%x", errs.ErrAddressOutOfRange, raw, c.root)
	}

	return Address(abs), nil
}

// ReadOptionalAddress reads an address field that may be null. ok is false
// when the stored value is 0.
func (c *Cursor) ReadOptionalAddress() (addr Address, ok bool, err error) {
	if err := c.requireRoot(); err != nil {
		return 0, false, err
	}

	pos := c.pos
	raw, err := c.ReadU32()
	if err != nil {
		return 0, false, err
	}

	if raw == 0 {
		return 0, false, nil
	}

	abs := uint64(raw) + uint64(c.root)
	if abs > math.MaxUint32 {
		return 0, false, fmt.Errorf("%w: 0x%x + root 0x%x at 0x%x", errs.ErrAddressOutOfRange, raw, c.root, pos)
	}

	return Address(abs), true, nil
}

// WriteAddress stores abs − root at the current position. When addToTable is
// true the field position is recorded for the relocation table.
func (c *Cursor) WriteAddress(abs Address, addToTable bool) error {
	if err := c.requireRoot(); err != nil {
		return err
	}

	if abs < c.root {
		return fmt.Errorf("%w: 0x%x before root 0x%x", errs.ErrAddressOutOfRange, abs, c.root)
	}

	if addToTable {
		rel, err := c.TellRelative()
		if err != nil {
			return err
		}
		c.relocs = append(c.relocs, rel)
	}

	return c.WriteU32(uint32(abs - c.root))
}

// WriteNullAddress writes a null address field. Null fields are never relocated.
func (c *Cursor) WriteNullAddress() error {
	return c.WriteU32(0)
}

// Relocations returns a copy of the pending relocation list in write order.
func (c *Cursor) Relocations() []uint32 {
	out := make([]uint32, len(c.relocs))
	copy(out, c.relocs)

	return out
}
