package model

import (
	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/record"
	"github.com/arloliu/relo/strip"
)

// SubmeshSize is the on-disk size of a submesh record.
const SubmeshSize = 20

// Submesh is a run of triangles drawn with one material and bone palette.
type Submesh struct {
	MaterialIndex uint32
	Triangles     []strip.Triangle
	// BonePalette maps the vertex blend indices of this submesh to model bones.
	BonePalette []uint16
}

// ReadSubmesh reads a submesh and decodes its face stream.
func ReadSubmesh(c *cursor.Cursor) (*Submesh, error) {
	s := &Submesh{}

	f := record.NewFields(c)
	s.MaterialIndex = f.U32()
	indexCount := f.U32()
	facesAddr := f.Address()
	paletteCount := f.U32()
	paletteAddr := f.Address()
	if err := f.Err(); err != nil {
		return nil, err
	}

	stream, err := record.ReadU16s(c, facesAddr, indexCount)
	if err != nil {
		return nil, err
	}
	if len(stream) > 0 {
		s.Triangles = strip.Decode(stream)
	}

	if s.BonePalette, err = record.ReadU16s(c, paletteAddr, paletteCount); err != nil {
		return nil, err
	}

	return s, nil
}

// Write encodes the triangles with opts.Stripper and appends the submesh.
func (s *Submesh) Write(c *cursor.Cursor, opts WriteOptions) (cursor.Address, error) {
	stream, err := strip.Encode(s.Triangles, opts.Stripper)
	if err != nil {
		return 0, err
	}

	p, err := record.Reserve(c, SubmeshSize)
	if err != nil {
		return 0, err
	}

	faces, err := record.WriteU16s(c, stream)
	if err != nil {
		return 0, err
	}

	palette, err := record.WriteU16s(c, s.BonePalette)
	if err != nil {
		return 0, err
	}

	if err := p.U32(0, s.MaterialIndex); err != nil {
		return 0, err
	}

	if err := p.U32(4, uint32(len(stream))); err != nil {
		return 0, err
	}

	if err := p.Address(8, faces); err != nil {
		return 0, err
	}

	if err := p.U32(12, uint32(len(s.BonePalette))); err != nil {
		return 0, err
	}

	if err := p.Address(16, palette); err != nil {
		return 0, err
	}

	return p.Base(), p.Done()
}
