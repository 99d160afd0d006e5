package bixf

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/relo/endian"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/internal/strtab"
)

const (
	// Magic opens every BIXF stream.
	Magic = "BIXF"
	// Version is the only supported format version.
	Version = 0x01
	// HeaderSize is the padded header length.
	HeaderSize = 24
	// MaxDynamicStrings is the dynamic string table capacity (1-byte index).
	MaxDynamicStrings = 256

	versionOffset     = 4
	streamLenOffset   = 8
	stringCountOffset = 12
	stringLenOffset   = 16
	separatorSize     = 3
)

var engine = endian.GetLittleEndianEngine()

// Encode serializes doc.
//
// Returns:
//   - []byte: The encoded stream
//   - error: ErrEmptyName for an unnamed node or attribute,
//     ErrStringTableFull when more than 256 distinct dynamic strings are needed
func Encode(doc *Document) ([]byte, error) {
	e := &encoder{strings: strtab.New(MaxDynamicStrings)}

	for _, n := range doc.Nodes {
		if err := e.node(n); err != nil {
			return nil, err
		}
	}

	var table bytes.Buffer
	for _, s := range e.strings.Strings() {
		table.WriteString(s)
		table.WriteByte(0)
	}

	out := make([]byte, HeaderSize, HeaderSize+len(e.ops)+separatorSize+table.Len())
	copy(out, Magic)
	out[versionOffset] = Version
	engine.PutUint32(out[streamLenOffset:], uint32(len(e.ops)))
	engine.PutUint32(out[stringCountOffset:], uint32(e.strings.Len()))
	engine.PutUint32(out[stringLenOffset:], uint32(table.Len()))

	out = append(out, e.ops...)
	out = append(out, 0, 0, 0)
	out = append(out, table.Bytes()...)

	return out, nil
}

type encoder struct {
	ops     []byte
	strings *strtab.Table
}

func (e *encoder) emit(op Opcode, index int) {
	e.ops = append(e.ops, byte(op), byte(index))
}

func (e *encoder) intern(s string) (int, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return 0, fmt.Errorf("%w: NUL byte in %q", errs.ErrMalformedFormat, s)
	}

	return e.strings.Intern(s)
}

// name emits a node or attribute name, preferring the Node-ID table.
func (e *encoder) name(name string, tableOp, dynOp Opcode) error {
	if name == "" {
		return errs.ErrEmptyName
	}

	if i, ok := LookupNode(name); ok {
		e.emit(tableOp, i)
		return nil
	}

	i, err := e.intern(name)
	if err != nil {
		return err
	}
	e.emit(dynOp, i)

	return nil
}

func (e *encoder) value(v string) error {
	if i, ok := LookupValue(v); ok {
		e.emit(OpNewValueTable, i)
		return nil
	}

	switch v {
	case "true":
		e.emit(OpNewValueBool, 1)
		return nil
	case "false":
		e.emit(OpNewValueBool, 0)
		return nil
	}

	i, err := e.intern(v)
	if err != nil {
		return err
	}
	e.emit(OpNewValue, i)

	return nil
}

func (e *encoder) node(n *Node) error {
	if err := e.name(n.Name, OpNewNodeTable, OpNewNode); err != nil {
		return fmt.Errorf("node: %w", err)
	}

	for _, a := range n.Attrs {
		if err := e.name(a.Name, OpNewParameterTable, OpNewParameter); err != nil {
			return fmt.Errorf("node %q attribute: %w", n.Name, err)
		}

		if err := e.value(a.Value); err != nil {
			return fmt.Errorf("node %q attribute %q: %w", n.Name, a.Name, err)
		}
	}

	for _, c := range n.Children {
		if err := e.node(c); err != nil {
			return err
		}
	}

	e.ops = append(e.ops, byte(OpGotoParent))

	return nil
}

// Decode parses a BIXF stream.
func Decode(data []byte) (*Document, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d byte header", errs.ErrTruncated, len(data))
	}

	if string(data[:len(Magic)]) != Magic {
		return nil, fmt.Errorf("%w: %q", errs.ErrBadMagic, data[:len(Magic)])
	}

	if data[versionOffset] != Version {
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrBadVersion, data[versionOffset])
	}

	streamLen := uint64(engine.Uint32(data[streamLenOffset:]))
	stringCount := engine.Uint32(data[stringCountOffset:])
	stringLen := uint64(engine.Uint32(data[stringLenOffset:]))

	want := HeaderSize + streamLen + separatorSize + stringLen
	if uint64(len(data)) != want {
		return nil, fmt.Errorf("%w: lengths need %d bytes, have %d", errs.ErrMalformedFormat, want, len(data))
	}

	ops := data[HeaderSize : HeaderSize+streamLen]
	sep := data[HeaderSize+streamLen : HeaderSize+streamLen+separatorSize]
	if !bytes.Equal(sep, []byte{0, 0, 0}) {
		return nil, fmt.Errorf("%w: nonzero separator", errs.ErrMalformedFormat)
	}

	table, err := parseStrings(data[HeaderSize+streamLen+separatorSize:], stringCount)
	if err != nil {
		return nil, err
	}

	d := &decoder{doc: &Document{}, strings: table, pending: -1}
	if err := d.run(ops); err != nil {
		return nil, err
	}

	return d.doc, nil
}

func parseStrings(data []byte, count uint32) (*strtab.Table, error) {
	if count > MaxDynamicStrings {
		return nil, fmt.Errorf("%w: %d dynamic strings", errs.ErrMalformedFormat, count)
	}

	names := make([]string, 0, count)
	for len(data) > 0 {
		end := bytes.IndexByte(data, 0)
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated dynamic string", errs.ErrTruncated)
		}
		names = append(names, string(data[:end]))
		data = data[end+1:]
	}

	if uint32(len(names)) != count {
		return nil, fmt.Errorf("%w: header says %d strings, table has %d", errs.ErrMalformedFormat, count, len(names))
	}

	return strtab.FromStrings(names, MaxDynamicStrings)
}

type decoder struct {
	doc     *Document
	strings *strtab.Table
	stack   []*Node
	pending int // index into the current node's Attrs, -1 when none
}

func (d *decoder) current() *Node {
	if len(d.stack) == 0 {
		return nil
	}

	return d.stack[len(d.stack)-1]
}

func (d *decoder) dynamic(i int, at int) (string, error) {
	s, ok := d.strings.At(i)
	if !ok {
		return "", fmt.Errorf("%w: dynamic string %d of %d at %d", errs.ErrTableIndex, i, d.strings.Len(), at)
	}

	return s, nil
}

func (d *decoder) run(ops []byte) error {
	for pos := 0; pos < len(ops); {
		op := Opcode(ops[pos])
		size := op.payloadSize()
		if size < 0 {
			return fmt.Errorf("%w: 0x%02x at %d", errs.ErrUnknownOpcode, uint8(op), pos)
		}

		if pos+1+size > len(ops) {
			return fmt.Errorf("%w: %s payload at %d", errs.ErrTruncated, op, pos)
		}
		payload := ops[pos+1 : pos+1+size]

		if err := d.apply(op, payload, pos); err != nil {
			return err
		}
		pos += 1 + size
	}

	return nil
}

func (d *decoder) apply(op Opcode, payload []byte, at int) error {
	switch op {
	case OpGotoParent:
		if len(d.stack) == 0 {
			return fmt.Errorf("%w: %s at document level, offset %d", errs.ErrNoCurrentElement, op, at)
		}
		d.stack = d.stack[:len(d.stack)-1]
		d.pending = -1

		return nil

	case OpNewNode, OpNewNodeTable:
		name, err := d.lookupName(op == OpNewNodeTable, int(payload[0]), at)
		if err != nil {
			return err
		}

		n := NewNode(name)
		if parent := d.current(); parent != nil {
			parent.Children = append(parent.Children, n)
		} else {
			d.doc.Nodes = append(d.doc.Nodes, n)
		}
		d.stack = append(d.stack, n)
		d.pending = -1

		return nil

	case OpNewParameter, OpNewParameterTable:
		cur := d.current()
		if cur == nil {
			return fmt.Errorf("%w: %s at offset %d", errs.ErrNoCurrentElement, op, at)
		}

		name, err := d.lookupName(op == OpNewParameterTable, int(payload[0]), at)
		if err != nil {
			return err
		}
		cur.Attrs = append(cur.Attrs, Attr{Name: name})
		d.pending = len(cur.Attrs) - 1

		return nil
	}

	cur := d.current()
	if cur == nil || d.pending < 0 {
		return fmt.Errorf("%w: %s at offset %d", errs.ErrNoPendingAttr, op, at)
	}

	value, err := d.decodeValue(op, payload, at)
	if err != nil {
		return err
	}
	cur.Attrs[d.pending].Value = value
	d.pending = -1

	return nil
}

func (d *decoder) lookupName(fixed bool, i int, at int) (string, error) {
	if !fixed {
		return d.dynamic(i, at)
	}

	name, ok := NodeName(i)
	if !ok {
		return "", fmt.Errorf("%w: node table index %d at %d", errs.ErrTableIndex, i, at)
	}

	return name, nil
}

func (d *decoder) decodeValue(op Opcode, payload []byte, at int) (string, error) {
	switch op {
	case OpNewValue:
		return d.dynamic(int(payload[0]), at)
	case OpNewValueTable:
		v, ok := ValueName(int(payload[0]))
		if !ok {
			return "", fmt.Errorf("%w: value table index %d at %d", errs.ErrTableIndex, payload[0], at)
		}

		return v, nil
	case OpNewValueBool:
		return strconv.FormatBool(payload[0] != 0), nil
	case OpNewValueInt:
		return strconv.FormatInt(int64(int32(engine.Uint32(payload))), 10), nil
	case OpNewValueUint:
		return strconv.FormatUint(uint64(engine.Uint32(payload)), 10), nil
	case OpNewValueFloat:
		f := math.Float32frombits(engine.Uint32(payload))
		return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
	default:
		return "", fmt.Errorf("%w: 0x%02x at %d", errs.ErrUnknownOpcode, uint8(op), at)
	}
}
