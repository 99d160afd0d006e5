package format

type (
	NodeType         uint32
	RelocationFormat uint8
	CompressionType  uint8
)

// Root node type ids stored at header offset 4.
const (
	NodeModel  NodeType = 0x1 // NodeModel is a model file (bones, meshes, materials, animations).
	NodeEffect NodeType = 0x2 // NodeEffect is a particle effect file (emitters and particles).
)

const (
	RelocationPlain RelocationFormat = 0x1 // RelocationPlain stores the table as a u32 array.
	RelocationBBIN  RelocationFormat = 0x2 // RelocationBBIN stores the table in BBIN delta form.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (n NodeType) String() string {
	switch n {
	case NodeModel:
		return "Model"
	case NodeEffect:
		return "Effect"
	default:
		return "Unknown"
	}
}

// IsValid reports whether n is a root node type this module can read.
func (n NodeType) IsValid() bool {
	return n == NodeModel || n == NodeEffect
}

func (r RelocationFormat) String() string {
	switch r {
	case RelocationPlain:
		return "Plain"
	case RelocationBBIN:
		return "BBIN"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a lower-case name ("none", "zstd", "s2", "lz4") to a CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

// ParseRelocationFormat maps "plain" or "bbin" to a RelocationFormat.
func ParseRelocationFormat(name string) (RelocationFormat, bool) {
	switch name {
	case "plain", "":
		return RelocationPlain, true
	case "bbin":
		return RelocationBBIN, true
	default:
		return 0, false
	}
}
