package model

import (
	"fmt"

	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/record"
)

const (
	elementSize = 12
	// maxElements bounds a descriptor read that never meets its terminator.
	maxElements = 256
	// maxElementOffset is the largest offset of a real element; anything
	// above it terminates the list.
	maxElementOffset = 1000
	terminatorOffset = 0xFFFFFFFF
)

// Element describes one vertex attribute inside a vertex.
type Element struct {
	Offset   uint32
	Kind     DataKind
	Semantic Semantic
	Channel  uint8
}

// End returns the offset just past the element.
func (e Element) End() uint32 {
	return e.Offset + e.Kind.Size()
}

// VertexFormat is the ordered element list of a vertex buffer.
type VertexFormat []Element

// Validate checks every element's semantic, kind and offset.
func (f VertexFormat) Validate() error {
	if len(f) >= maxElements {
		return fmt.Errorf("%w: %d elements", errs.ErrUnsupportedElement, len(f))
	}

	for i, e := range f {
		if err := checkElement(e); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}

		if e.Offset > maxElementOffset {
			return fmt.Errorf("%w: element %d offset %d", errs.ErrUnsupportedElement, i, e.Offset)
		}
	}

	return nil
}

// Extent returns the number of bytes the elements span.
func (f VertexFormat) Extent() uint32 {
	var end uint32
	for _, e := range f {
		end = max(end, e.End())
	}

	return end
}

// Stride returns Extent rounded up to a multiple of 4.
func (f VertexFormat) Stride() uint32 {
	return (f.Extent() + 3) &^ 3
}

// Find returns the element with the given semantic and channel.
func (f VertexFormat) Find(s Semantic, channel uint8) (Element, bool) {
	for _, e := range f {
		if e.Semantic == s && e.Channel == channel {
			return e, true
		}
	}

	return Element{}, false
}

// FixForPC returns a copy of f with every packed element widened to its
// full-size float kind. Each widening shifts all later elements by the
// number of bytes it added.
func (f VertexFormat) FixForPC() VertexFormat {
	out := make(VertexFormat, len(f))

	var shift uint32
	for i, e := range f {
		e.Offset += shift
		if wide, ok := e.Kind.Widened(); ok {
			shift += wide.Size() - e.Kind.Size()
			e.Kind = wide
		}
		out[i] = e
	}

	return out
}

// ReadVertexFormat reads elements at the cursor until the terminator entry.
func ReadVertexFormat(c *cursor.Cursor) (VertexFormat, error) {
	var out VertexFormat

	f := record.NewFields(c)
	for range maxElements {
		e := Element{
			Offset:   f.U32(),
			Kind:     DataKind(f.U32()),
			Semantic: Semantic(f.U16()),
			Channel:  f.U8(),
		}
		_ = f.U8()

		if err := f.Err(); err != nil {
			return nil, err
		}

		if e.Offset > maxElementOffset {
			return out, nil
		}

		if err := checkElement(e); err != nil {
			return nil, fmt.Errorf("element %d: %w", len(out), err)
		}
		out = append(out, e)
	}

	return nil, fmt.Errorf("%w: vertex format has no terminator in %d entries", errs.ErrMissingSentinel, maxElements)
}

// Write appends the elements and a terminator entry at the end of the file.
func (f VertexFormat) Write(c *cursor.Cursor) (cursor.Address, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	p, err := record.Reserve(c, elementSize*(len(f)+1))
	if err != nil {
		return 0, err
	}

	for i, e := range f {
		off := i * elementSize
		if err := p.U32(off, e.Offset); err != nil {
			return 0, err
		}

		if err := p.U32(off+4, uint32(e.Kind)); err != nil {
			return 0, err
		}

		if err := p.U16(off+8, uint16(e.Semantic)); err != nil {
			return 0, err
		}

		if err := p.U8(off+10, e.Channel); err != nil {
			return 0, err
		}
	}

	if err := p.U32(len(f)*elementSize, terminatorOffset); err != nil {
		return 0, err
	}

	return p.Base(), p.Done()
}
