package bixf

import (
	"github.com/arloliu/relo/internal/hash"
)

// Fixed table sizes. Indexes are stored in one byte.
const (
	NodeTableSize  = 104
	ValueTableSize = 81
)

// nodeNames is the fixed Node-ID table of element and attribute names.
var nodeNames = [NodeTableSize]string{
	"effect", "effects", "emitter", "emitters", "particle", "particles", "material", "materials",
	"shader", "pass", "technique", "parameter", "parameters", "texture", "textures", "sampler",
	"name", "id", "type", "value", "values", "file", "path", "unit", "count", "rate", "lifetime",
	"life", "duration", "delay", "loop", "speed", "velocity", "acceleration", "gravity", "drag",
	"size", "scale", "rotation", "spin", "position", "offset", "direction", "spread", "angle",
	"radius", "width", "height", "depth", "color", "colorStart", "colorEnd", "alpha", "alphaStart",
	"alphaEnd", "blend", "blendMode", "srcBlend", "dstBlend", "cull", "depthTest", "depthWrite",
	"zbias", "wrapU", "wrapV", "minFilter", "magFilter", "mipFilter", "anisotropy", "children",
	"child", "childEmitter", "spawn", "burst", "max", "min", "random", "seed", "key", "keys",
	"keyframe", "time", "curve", "interpolation", "shape", "box", "sphere", "cone", "ring", "point",
	"mesh", "bone", "attach", "world", "local", "space", "trail", "segments", "light", "intensity",
	"range", "enabled", "visible", "priority",
}

// valueNames is the fixed Value-ID table of enumerant attribute values.
var valueNames = [ValueTableSize]string{
	"none", "zero", "one", "add", "subtract", "multiply", "alpha", "additive", "opaque",
	"translucent", "premultiplied", "modulate", "srcColor", "invSrcColor", "srcAlpha", "invSrcAlpha",
	"dstColor", "invDstColor", "dstAlpha", "invDstAlpha", "front", "back", "both", "never", "less",
	"equal", "lessEqual", "greater", "notEqual", "greaterEqual", "always", "repeat", "clamp",
	"mirror", "border", "point", "linear", "anisotropic", "nearest", "box", "sphere", "cone", "ring",
	"disc", "line", "mesh", "billboard", "axis", "velocity", "world", "local", "screen", "camera",
	"constant", "step", "smooth", "hermite", "bezier", "random", "sequential", "loop", "once",
	"pingpong", "diffuse", "specular", "normal", "emissive", "environment", "lightmap", "detail",
	"mask", "red", "green", "blue", "white", "black", "low", "medium", "high", "default", "auto",
}

var (
	nodeIndex  = hash.NewIndex(nodeNames[:])
	valueIndex = hash.NewIndex(valueNames[:])
)

// NodeName returns entry i of the fixed Node-ID table.
func NodeName(i int) (string, bool) {
	if i < 0 || i >= NodeTableSize {
		return "", false
	}

	return nodeNames[i], true
}

// ValueName returns entry i of the fixed Value-ID table.
func ValueName(i int) (string, bool) {
	if i < 0 || i >= ValueTableSize {
		return "", false
	}

	return valueNames[i], true
}

// LookupNode returns the Node-ID table index of an exact, case-sensitive match.
func LookupNode(name string) (int, bool) {
	return nodeIndex.Lookup(name)
}

// LookupValue returns the Value-ID table index of an exact, case-sensitive match.
func LookupValue(value string) (int, bool) {
	return valueIndex.Lookup(value)
}
