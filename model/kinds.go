package model

import (
	"fmt"
	"slices"

	"github.com/arloliu/relo/errs"
)

// DataKind is the on-disk encoding of one vertex element.
type DataKind uint32

const (
	KindFloat1  DataKind = 0
	KindFloat2  DataKind = 1
	KindFloat3  DataKind = 2
	KindFloat4  DataKind = 3
	KindHalf2   DataKind = 4
	KindHalf4   DataKind = 5
	KindUByte4  DataKind = 6
	KindUByte4N DataKind = 7 // unsigned normalized, 8 bits per component
	KindDec3N   DataKind = 8 // signed normalized 10:10:10, 2 bits unused
)

var kindSizes = [...]uint32{
	KindFloat1:  4,
	KindFloat2:  8,
	KindFloat3:  12,
	KindFloat4:  16,
	KindHalf2:   4,
	KindHalf4:   8,
	KindUByte4:  4,
	KindUByte4N: 4,
	KindDec3N:   4,
}

var kindNames = [...]string{
	KindFloat1:  "float1",
	KindFloat2:  "float2",
	KindFloat3:  "float3",
	KindFloat4:  "float4",
	KindHalf2:   "half2",
	KindHalf4:   "half4",
	KindUByte4:  "ubyte4",
	KindUByte4N: "ubyte4n",
	KindDec3N:   "dec3n",
}

// Size returns the encoded size in bytes, or 0 for an unknown kind.
func (k DataKind) Size() uint32 {
	if int(k) >= len(kindSizes) {
		return 0
	}

	return kindSizes[k]
}

func (k DataKind) String() string {
	if int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", uint32(k))
	}

	return kindNames[k]
}

// Widened returns the full-size float kind a packed kind expands to on PC,
// and whether k is packed.
func (k DataKind) Widened() (DataKind, bool) {
	switch k {
	case KindHalf2:
		return KindFloat2, true
	case KindHalf4, KindUByte4N:
		return KindFloat4, true
	case KindDec3N:
		return KindFloat3, true
	default:
		return k, false
	}
}

// Semantic identifies what a vertex element holds.
type Semantic uint16

const (
	SemanticPosition     Semantic = 0
	SemanticNormal       Semantic = 1
	SemanticTangent      Semantic = 2
	SemanticColor        Semantic = 3
	SemanticTexCoord     Semantic = 4
	SemanticBlendIndices Semantic = 5
	SemanticBlendWeights Semantic = 6
)

var semanticNames = [...]string{
	SemanticPosition:     "position",
	SemanticNormal:       "normal",
	SemanticTangent:      "tangent",
	SemanticColor:        "color",
	SemanticTexCoord:     "texcoord",
	SemanticBlendIndices: "blendindices",
	SemanticBlendWeights: "blendweights",
}

func (s Semantic) String() string {
	if int(s) >= len(semanticNames) {
		return fmt.Sprintf("semantic(%d)", uint16(s))
	}

	return semanticNames[s]
}

// MaxTexCoords is the number of UV channels a vertex carries.
const MaxTexCoords = 4

// allowedKinds lists the encodings accepted for each semantic.
var allowedKinds = [...][]DataKind{
	SemanticPosition:     {KindFloat3, KindFloat4, KindHalf4},
	SemanticNormal:       {KindFloat3, KindFloat4, KindHalf4, KindUByte4N, KindDec3N},
	SemanticTangent:      {KindFloat3, KindFloat4, KindHalf4, KindUByte4N, KindDec3N},
	SemanticColor:        {KindFloat4, KindHalf4, KindUByte4N},
	SemanticTexCoord:     {KindFloat2, KindHalf2},
	SemanticBlendIndices: {KindUByte4},
	SemanticBlendWeights: {KindFloat4, KindHalf4, KindUByte4N},
}

func checkElement(e Element) error {
	if int(e.Semantic) >= len(allowedKinds) {
		return fmt.Errorf("%w: %s", errs.ErrUnsupportedElement, e.Semantic)
	}

	if !slices.Contains(allowedKinds[e.Semantic], e.Kind) {
		return fmt.Errorf("%w: %s as %s", errs.ErrUnsupportedElement, e.Semantic, e.Kind)
	}

	if e.Semantic == SemanticTexCoord {
		if e.Channel >= MaxTexCoords {
			return fmt.Errorf("%w: texcoord channel %d", errs.ErrUnsupportedElement, e.Channel)
		}
	} else if e.Channel != 0 {
		return fmt.Errorf("%w: %s channel %d", errs.ErrUnsupportedElement, e.Semantic, e.Channel)
	}

	return nil
}
