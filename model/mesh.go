package model

import (
	"fmt"

	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/record"
)

// MeshSize is the on-disk size of a mesh record.
const MeshSize = 28

// Mesh is a vertex buffer with its format and the submeshes drawing from it.
type Mesh struct {
	Name      string
	Format    VertexFormat
	Vertices  []Vertex
	Submeshes []*Submesh
}

// ReadMesh reads a mesh with its vertex format, vertex buffer and submeshes.
func ReadMesh(c *cursor.Cursor) (*Mesh, error) {
	m := &Mesh{}

	f := record.NewFields(c)
	nameAddr := f.Address()
	vertexCount := f.U32()
	stride := f.U32()
	formatAddr := f.Address()
	bufferAddr := f.Address()
	submeshCount := f.U32()
	submeshTable := f.Address()
	if err := f.Err(); err != nil {
		return nil, err
	}

	var err error
	if m.Name, err = record.ReadStringAt(c, nameAddr); err != nil {
		return nil, err
	}

	if formatAddr != 0 {
		if err := c.Seek(formatAddr); err != nil {
			return nil, err
		}

		if m.Format, err = ReadVertexFormat(c); err != nil {
			return nil, err
		}
	}

	if vertexCount > 0 {
		if len(m.Format) == 0 {
			return nil, fmt.Errorf("%w: %d vertices without a vertex format", errs.ErrInvalidStride, vertexCount)
		}

		if stride < m.Format.Extent() || stride == 0 {
			return nil, fmt.Errorf("%w: stride %d, format needs %d", errs.ErrInvalidStride, stride, m.Format.Extent())
		}

		if err := record.CheckSpan(c, bufferAddr, uint64(vertexCount)*uint64(stride)); err != nil {
			return nil, err
		}

		m.Vertices = make([]Vertex, vertexCount)
		for i := range m.Vertices {
			base := bufferAddr + cursor.Address(uint32(i)*stride)
			if m.Vertices[i], err = ReadVertex(c, base, m.Format); err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
		}
	}

	if m.Submeshes, err = record.ReadTable(c, submeshTable, submeshCount, ReadSubmesh); err != nil {
		return nil, err
	}

	for i, s := range m.Submeshes {
		for _, tri := range s.Triangles {
			for _, idx := range tri {
				if uint32(idx) >= vertexCount {
					return nil, fmt.Errorf("%w: submesh %d index %d, %d vertices", errs.ErrMalformedFormat, i, idx, vertexCount)
				}
			}
		}
	}

	return m, nil
}

// Write appends the mesh. With opts.FixForPC the vertex format is widened
// first, so the stored stride matches the widened layout.
func (m *Mesh) Write(c *cursor.Cursor, opts WriteOptions) (cursor.Address, error) {
	format := m.Format
	if opts.FixForPC {
		format = format.FixForPC()
	}

	if err := format.Validate(); err != nil {
		return 0, err
	}
	stride := format.Stride()

	if len(m.Vertices) > 0 && stride == 0 {
		return 0, fmt.Errorf("%w: %d vertices without a vertex format", errs.ErrInvalidStride, len(m.Vertices))
	}

	p, err := record.Reserve(c, MeshSize)
	if err != nil {
		return 0, err
	}

	name, err := record.WriteString(c, m.Name)
	if err != nil {
		return 0, err
	}

	var formatAddr cursor.Address
	if len(format) > 0 {
		if formatAddr, err = format.Write(c); err != nil {
			return 0, err
		}
	}

	var bufferAddr cursor.Address
	for i := range m.Vertices {
		addr, err := WriteVertex(c, &m.Vertices[i], format, stride)
		if err != nil {
			return 0, fmt.Errorf("vertex %d: %w", i, err)
		}

		if i == 0 {
			bufferAddr = addr
		}
	}

	submeshes, err := record.WriteTable(c, m.Submeshes, func(s *Submesh, c *cursor.Cursor) (cursor.Address, error) {
		return s.Write(c, opts)
	})
	if err != nil {
		return 0, err
	}

	if err := p.Address(0, name); err != nil {
		return 0, err
	}

	if err := p.U32(4, uint32(len(m.Vertices))); err != nil {
		return 0, err
	}

	if err := p.U32(8, stride); err != nil {
		return 0, err
	}

	if err := p.Address(12, formatAddr); err != nil {
		return 0, err
	}

	if err := p.Address(16, bufferAddr); err != nil {
		return 0, err
	}

	if err := p.U32(20, uint32(len(m.Submeshes))); err != nil {
		return 0, err
	}

	if err := p.Address(24, submeshes); err != nil {
		return 0, err
	}

	return p.Base(), p.Done()
}
