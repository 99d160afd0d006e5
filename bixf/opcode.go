package bixf

import "fmt"

// Opcode is a BIXF stream instruction.
type Opcode uint8

const (
	OpNewNode           Opcode = 0x01 // 1-byte dynamic string index
	OpNewNodeTable      Opcode = 0x02 // 1-byte Node-ID table index
	OpNewParameter      Opcode = 0x03 // 1-byte dynamic string index
	OpNewParameterTable Opcode = 0x04 // 1-byte Node-ID table index
	OpNewValue          Opcode = 0x05 // 1-byte dynamic string index
	OpNewValueTable     Opcode = 0x06 // 1-byte Value-ID table index
	OpNewValueBool      Opcode = 0x07 // 1 byte, nonzero = true
	OpNewValueInt       Opcode = 0x08 // 4-byte little-endian int32
	OpNewValueUint      Opcode = 0x09 // 4-byte little-endian uint32
	OpNewValueFloat     Opcode = 0x0A // 4-byte little-endian float32
	OpGotoParent        Opcode = 0x0B
)

var opcodeNames = map[Opcode]string{
	OpNewNode:           "NEW_NODE",
	OpNewNodeTable:      "NEW_NODE_TABLE",
	OpNewParameter:      "NEW_PARAMETER",
	OpNewParameterTable: "NEW_PARAMETER_TABLE",
	OpNewValue:          "NEW_VALUE",
	OpNewValueTable:     "NEW_VALUE_TABLE",
	OpNewValueBool:      "NEW_VALUE_BOOL",
	OpNewValueInt:       "NEW_VALUE_INT",
	OpNewValueUint:      "NEW_VALUE_UINT",
	OpNewValueFloat:     "NEW_VALUE_FLOAT",
	OpGotoParent:        "GOTO_PARENT",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}

	return fmt.Sprintf("OP_0x%02X", uint8(o))
}

// payloadSize returns the payload length of o, or -1 for an unknown opcode.
func (o Opcode) payloadSize() int {
	switch o {
	case OpGotoParent:
		return 0
	case OpNewNode, OpNewNodeTable, OpNewParameter, OpNewParameterTable,
		OpNewValue, OpNewValueTable, OpNewValueBool:
		return 1
	case OpNewValueInt, OpNewValueUint, OpNewValueFloat:
		return 4
	default:
		return -1
	}
}
