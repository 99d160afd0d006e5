package model

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/record"
)

// Vertex is the canonical in-memory vertex. Fields without a matching element
// in the vertex format are left zero on read and ignored on write.
type Vertex struct {
	Position     mgl32.Vec3
	Normal       mgl32.Vec3
	Tangent      mgl32.Vec4
	Color        mgl32.Vec4
	UV           [MaxTexCoords]mgl32.Vec2
	BlendIndices [4]uint8
	BlendWeights mgl32.Vec4
}

// components returns the element's value as up to four floats.
func (v *Vertex) components(e Element) [4]float32 {
	switch e.Semantic {
	case SemanticPosition:
		return [4]float32{v.Position[0], v.Position[1], v.Position[2], 1}
	case SemanticNormal:
		return [4]float32{v.Normal[0], v.Normal[1], v.Normal[2], 0}
	case SemanticTangent:
		return v.Tangent
	case SemanticColor:
		return v.Color
	case SemanticTexCoord:
		uv := v.UV[e.Channel]
		return [4]float32{uv[0], uv[1], 0, 0}
	case SemanticBlendIndices:
		b := v.BlendIndices
		return [4]float32{float32(b[0]), float32(b[1]), float32(b[2]), float32(b[3])}
	case SemanticBlendWeights:
		return v.BlendWeights
	default:
		return [4]float32{}
	}
}

func (v *Vertex) setComponents(e Element, x [4]float32) {
	switch e.Semantic {
	case SemanticPosition:
		v.Position = mgl32.Vec3{x[0], x[1], x[2]}
	case SemanticNormal:
		v.Normal = mgl32.Vec3{x[0], x[1], x[2]}
	case SemanticTangent:
		v.Tangent = x
	case SemanticColor:
		v.Color = x
	case SemanticTexCoord:
		v.UV[e.Channel] = mgl32.Vec2{x[0], x[1]}
	case SemanticBlendIndices:
		v.BlendIndices = [4]uint8{uint8(x[0]), uint8(x[1]), uint8(x[2]), uint8(x[3])}
	case SemanticBlendWeights:
		v.BlendWeights = x
	}
}

func readComponents(c *cursor.Cursor, kind DataKind) ([4]float32, error) {
	var x [4]float32

	switch kind {
	case KindFloat1, KindFloat2, KindFloat3, KindFloat4:
		f := record.NewFields(c)
		f.F32s(x[:kind-KindFloat1+1])
		return x, f.Err()
	case KindHalf2, KindHalf4:
		n := 2
		if kind == KindHalf4 {
			n = 4
		}

		f := record.NewFields(c)
		for i := range n {
			x[i] = f.F16()
		}

		return x, f.Err()
	case KindUByte4, KindUByte4N:
		b, err := c.ReadBytes(4)
		if err != nil {
			return x, err
		}

		for i := range x {
			x[i] = float32(b[i])
			if kind == KindUByte4N {
				x[i] /= 255
			}
		}

		return x, nil
	case KindDec3N:
		packed, err := c.ReadU32()
		if err != nil {
			return x, err
		}

		for i := range 3 {
			x[i] = unpackSNorm10(packed >> (10 * i))
		}

		return x, nil
	default:
		return x, fmt.Errorf("%w: %s", errs.ErrUnsupportedElement, kind)
	}
}

func writeComponents(c *cursor.Cursor, kind DataKind, x [4]float32) error {
	switch kind {
	case KindFloat1, KindFloat2, KindFloat3, KindFloat4:
		for _, v := range x[:kind-KindFloat1+1] {
			if err := c.WriteF32(v); err != nil {
				return err
			}
		}

		return nil
	case KindHalf2, KindHalf4:
		n := 2
		if kind == KindHalf4 {
			n = 4
		}

		for _, v := range x[:n] {
			if err := c.WriteF16(v); err != nil {
				return err
			}
		}

		return nil
	case KindUByte4:
		return c.WriteBytes([]byte{clampByte(x[0]), clampByte(x[1]), clampByte(x[2]), clampByte(x[3])})
	case KindUByte4N:
		return c.WriteBytes([]byte{
			clampByte(x[0] * 255), clampByte(x[1] * 255), clampByte(x[2] * 255), clampByte(x[3] * 255),
		})
	case KindDec3N:
		var packed uint32
		for i := range 3 {
			packed |= packSNorm10(x[i]) << (10 * i)
		}

		return c.WriteU32(packed)
	default:
		return fmt.Errorf("%w: %s", errs.ErrUnsupportedElement, kind)
	}
}

func clampByte(v float32) uint8 {
	return uint8(math.Round(float64(mgl32.Clamp(v, 0, 255))))
}

func packSNorm10(v float32) uint32 {
	q := int32(math.Round(float64(mgl32.Clamp(v, -1, 1) * 511)))
	return uint32(q) & 0x3FF
}

func unpackSNorm10(bits uint32) float32 {
	q := int32(bits&0x3FF) << 22 >> 22
	return max(float32(q)/511, -1)
}

// ReadVertex decodes one vertex whose first byte is at base.
func ReadVertex(c *cursor.Cursor, base cursor.Address, format VertexFormat) (Vertex, error) {
	var v Vertex
	for _, e := range format {
		if err := c.Seek(base + cursor.Address(e.Offset)); err != nil {
			return Vertex{}, err
		}

		x, err := readComponents(c, e.Kind)
		if err != nil {
			return Vertex{}, err
		}
		v.setComponents(e, x)
	}

	return v, nil
}

// WriteVertex reserves stride zero bytes at the end of the file and patches
// each element of v into place.
func WriteVertex(c *cursor.Cursor, v *Vertex, format VertexFormat, stride uint32) (cursor.Address, error) {
	if stride < format.Extent() {
		return 0, fmt.Errorf("%w: stride %d, format needs %d", errs.ErrInvalidStride, stride, format.Extent())
	}

	p, err := record.Reserve(c, int(stride))
	if err != nil {
		return 0, err
	}

	for _, e := range format {
		if err := c.Seek(p.Base() + cursor.Address(e.Offset)); err != nil {
			return 0, err
		}

		if err := writeComponents(c, e.Kind, v.components(e)); err != nil {
			return 0, err
		}
	}

	return p.Base(), p.Done()
}
