package bixf

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/relo/errs"
)

func sampleDocument() *Document {
	emitter := NewNode("emitter").
		SetAttr("name", "sparks").
		SetAttr("rate", "12.5").
		SetAttr("blendMode", "additive").
		SetAttr("loop", "true").
		SetAttr("customFlag", "false")
	emitter.AddChild(NewNode("particle").SetAttr("lifetime", "0.75").SetAttr("Shape", "Cone"))
	emitter.AddChild(NewNode("trailData"))

	effect := NewNode("effect").SetAttr("id", "7")
	effect.AddChild(emitter)

	return &Document{Nodes: []*Node{effect, NewNode("material").SetAttr("shader", "")}}
}

// opcodes returns the opcode stream of an encoded document.
func opcodes(t *testing.T, data []byte) []byte {
	t.Helper()

	n := engine.Uint32(data[streamLenOffset:])
	return data[HeaderSize : HeaderSize+n]
}

func TestTables(t *testing.T) {
	require.Len(t, nodeNames, 104)
	require.Len(t, valueNames, 81)

	for _, table := range [][]string{nodeNames[:], valueNames[:]} {
		seen := make(map[string]bool)
		for _, name := range table {
			require.NotEmpty(t, name)
			require.False(t, seen[name], "duplicate %q", name)
			seen[name] = true
		}
	}

	// booleans must reach the boolean opcode
	_, ok := LookupValue("true")
	require.False(t, ok)
	_, ok = LookupValue("false")
	require.False(t, ok)

	for i, name := range nodeNames {
		got, ok := LookupNode(name)
		require.True(t, ok)
		require.Equal(t, i, got)
	}

	_, ok = NodeName(NodeTableSize)
	require.False(t, ok)
	_, ok = ValueName(-1)
	require.False(t, ok)
}

func TestEncode_RoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := Encode(doc)
	require.NoError(t, err)
	require.Equal(t, []byte(Magic), data[:4])
	require.Equal(t, byte(Version), data[4])

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, doc, got)

	// encoding is deterministic
	again, err := Encode(got)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestEncode_TableFidelity(t *testing.T) {
	doc := &Document{Nodes: []*Node{
		NewNode("emitter").SetAttr("rate", "linear"),
		NewNode("Emitter").SetAttr("Rate", "Linear"),
	}}

	data, err := Encode(doc)
	require.NoError(t, err)

	emitter, _ := LookupNode("emitter")
	rate, _ := LookupNode("rate")
	linear, _ := LookupValue("linear")

	want := []byte{
		byte(OpNewNodeTable), byte(emitter),
		byte(OpNewParameterTable), byte(rate),
		byte(OpNewValueTable), byte(linear),
		byte(OpGotoParent),
		// exact, case-sensitive matching: capitalized names are dynamic
		byte(OpNewNode), 0,
		byte(OpNewParameter), 1,
		byte(OpNewValue), 2,
		byte(OpGotoParent),
	}
	require.Equal(t, want, opcodes(t, data))
	require.Equal(t, uint32(3), engine.Uint32(data[stringCountOffset:]))
}

func TestEncode_NoNumericOpcodes(t *testing.T) {
	doc := &Document{Nodes: []*Node{
		NewNode("value").SetAttr("count", "42").SetAttr("rate", "-1.5").SetAttr("seed", "4294967295"),
	}}

	data, err := Encode(doc)
	require.NoError(t, err)

	ops := opcodes(t, data)
	for i := 0; i < len(ops); {
		op := Opcode(ops[i])
		require.NotContains(t, []Opcode{OpNewValueInt, OpNewValueUint, OpNewValueFloat}, op)
		i += 1 + op.payloadSize()
	}
}

func TestEncode_StringDedup(t *testing.T) {
	doc := &Document{}
	for range 3 {
		doc.Nodes = append(doc.Nodes, NewNode("custom").SetAttr("label", "custom"))
	}

	data, err := Encode(doc)
	require.NoError(t, err)
	require.Equal(t, uint32(2), engine.Uint32(data[stringCountOffset:]))
	require.Equal(t, uint32(len("custom\x00label\x00")), engine.Uint32(data[stringLenOffset:]))
}

func TestEncode_Errors(t *testing.T) {
	t.Run("String table full", func(t *testing.T) {
		n := NewNode("effect")
		for i := range MaxDynamicStrings + 1 {
			n.Attrs = append(n.Attrs, Attr{Name: "name", Value: fmt.Sprintf("v%d", i)})
		}

		_, err := Encode(&Document{Nodes: []*Node{n}})
		require.ErrorIs(t, err, errs.ErrStringTableFull)
	})

	t.Run("Empty node name", func(t *testing.T) {
		_, err := Encode(&Document{Nodes: []*Node{{}}})
		require.ErrorIs(t, err, errs.ErrEmptyName)
	})

	t.Run("Empty attribute name", func(t *testing.T) {
		_, err := Encode(&Document{Nodes: []*Node{{Name: "effect", Attrs: []Attr{{Value: "x"}}}}})
		require.ErrorIs(t, err, errs.ErrEmptyName)
	})

	t.Run("NUL in value", func(t *testing.T) {
		_, err := Encode(&Document{Nodes: []*Node{NewNode("effect").SetAttr("name", "a\x00b")}})
		require.ErrorIs(t, err, errs.ErrMalformedFormat)
	})
}

// build assembles a BIXF stream from raw opcodes and dynamic strings.
func build(ops []byte, strs ...string) []byte {
	var table []byte
	for _, s := range strs {
		table = append(table, s...)
		table = append(table, 0)
	}

	out := make([]byte, HeaderSize)
	copy(out, Magic)
	out[versionOffset] = Version
	engine.PutUint32(out[streamLenOffset:], uint32(len(ops)))
	engine.PutUint32(out[stringCountOffset:], uint32(len(strs)))
	engine.PutUint32(out[stringLenOffset:], uint32(len(table)))
	out = append(out, ops...)
	out = append(out, 0, 0, 0)

	return append(out, table...)
}

func le32(v uint32) []byte {
	return engine.AppendUint32(nil, v)
}

func TestDecode_NumericValues(t *testing.T) {
	count, _ := LookupNode("count")
	rate, _ := LookupNode("rate")
	seed, _ := LookupNode("seed")
	enabled, _ := LookupNode("enabled")

	ops := []byte{byte(OpNewNode), 0}
	ops = append(ops, byte(OpNewParameterTable), byte(count), byte(OpNewValueInt))
	ops = append(ops, le32(uint32(0xFFFFFFFE))...)
	ops = append(ops, byte(OpNewParameterTable), byte(seed), byte(OpNewValueUint))
	ops = append(ops, le32(4000000000)...)
	ops = append(ops, byte(OpNewParameterTable), byte(rate), byte(OpNewValueFloat))
	ops = append(ops, le32(math.Float32bits(0.1))...)
	ops = append(ops, byte(OpNewParameterTable), byte(enabled), byte(OpNewValueBool), 2)
	ops = append(ops, byte(OpGotoParent))

	doc, err := Decode(build(ops, "numbers"))
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)

	n := doc.Nodes[0]
	require.Equal(t, "numbers", n.Name)
	require.Equal(t, []Attr{
		{Name: "count", Value: "-2"},
		{Name: "seed", Value: "4000000000"},
		{Name: "rate", Value: "0.1"},
		{Name: "enabled", Value: "true"},
	}, n.Attrs)
}

func TestDecode_Errors(t *testing.T) {
	valid := build([]byte{byte(OpNewNode), 0, byte(OpGotoParent)}, "x")

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"Short header", []byte("BIXF"), errs.ErrTruncated},
		{"Bad magic", append([]byte("XFIB"), valid[4:]...), errs.ErrBadMagic},
		{"Length mismatch", append(append([]byte(nil), valid...), 0), errs.ErrMalformedFormat},
		{"Unknown opcode", build([]byte{0x0C}), errs.ErrUnknownOpcode},
		{"Zero opcode", build([]byte{0x00}), errs.ErrUnknownOpcode},
		{"Truncated payload", build([]byte{byte(OpNewValueFloat), 1, 2}), errs.ErrTruncated},
		{"GOTO_PARENT at document level", build([]byte{byte(OpGotoParent)}), errs.ErrNoCurrentElement},
		{"Unbalanced GOTO_PARENT", build([]byte{byte(OpNewNodeTable), 0, byte(OpGotoParent), byte(OpGotoParent)}), errs.ErrNoCurrentElement},
		{"Attribute without element", build([]byte{byte(OpNewParameterTable), 0}), errs.ErrNoCurrentElement},
		{"Value without attribute", build([]byte{byte(OpNewNodeTable), 0, byte(OpNewValueBool), 1}), errs.ErrNoPendingAttr},
		{"Value twice", build([]byte{byte(OpNewNodeTable), 0, byte(OpNewParameterTable), 1, byte(OpNewValueBool), 1, byte(OpNewValueBool), 0}), errs.ErrNoPendingAttr},
		{"Dynamic index out of range", build([]byte{byte(OpNewNode), 1}, "x"), errs.ErrTableIndex},
		{"Node table index out of range", build([]byte{byte(OpNewNodeTable), NodeTableSize}), errs.ErrTableIndex},
		{"Value table index out of range", build([]byte{byte(OpNewNodeTable), 0, byte(OpNewParameterTable), 0, byte(OpNewValueTable), ValueTableSize}), errs.ErrTableIndex},
		{"Duplicate dynamic strings", build([]byte{byte(OpNewNode), 0}, "a", "a"), errs.ErrMalformedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.ErrorIs(t, err, tt.err)
			require.ErrorIs(t, err, errs.ErrMalformedFormat)
		})
	}

	t.Run("Bad version", func(t *testing.T) {
		d := append([]byte(nil), valid...)
		d[versionOffset] = 2
		_, err := Decode(d)
		require.ErrorIs(t, err, errs.ErrBadVersion)
		require.ErrorIs(t, err, errs.ErrUnsupportedVariant)
	})

	t.Run("String count mismatch", func(t *testing.T) {
		d := append([]byte(nil), valid...)
		engine.PutUint32(d[stringCountOffset:], 2)
		_, err := Decode(d)
		require.ErrorIs(t, err, errs.ErrMalformedFormat)
	})
}

func TestDecode_UnclosedNodes(t *testing.T) {
	doc, err := Decode(build([]byte{byte(OpNewNodeTable), 0, byte(OpNewNodeTable), 2}))
	require.NoError(t, err)
	require.Equal(t, "effect", doc.Nodes[0].Name)
	require.Equal(t, "emitter", doc.Nodes[0].Children[0].Name)
}

func TestOpcode_String(t *testing.T) {
	require.Equal(t, "GOTO_PARENT", OpGotoParent.String())
	require.Equal(t, "NEW_VALUE_FLOAT", OpNewValueFloat.String())
	require.Equal(t, "OP_0x7F", Opcode(0x7F).String())
}
