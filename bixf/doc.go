// Package bixf encodes attributed trees in BIXF, a compact opcode stream used
// for effect and material descriptions.
//
// # Layout
//
//	Offset | Size | Field
//	-------|------|-----------------------------------
//	0      | 4    | magic "BIXF"
//	4      | 1    | version (0x01)
//	8      | 4    | opcode stream length (u32 LE)
//	12     | 4    | dynamic string count (u32 LE)
//	16     | 4    | dynamic string table length (u32 LE)
//	24     | n    | opcode stream
//	24+n   | 3    | zero bytes
//	27+n   | m    | NUL-terminated dynamic strings
//
// Unused header bytes are zero.
//
// # Opcodes
//
// Every opcode is one byte followed by its payload. Names and values are
// either an index into one of two fixed tables (NodeName, ValueName) or an
// index into the per-file dynamic string table. The dynamic table holds at
// most 256 strings.
//
// The encoder prefers the fixed tables on an exact, case-sensitive match,
// stores "true" and "false" as boolean opcodes and interns everything else.
// It never emits the numeric value opcodes; the decoder accepts them and
// renders the number as decimal text.
//
// A value opcode fills the attribute declared immediately before it and
// consumes it. A value opcode with no attribute awaiting a value, including a
// second value for the same attribute, fails with ErrNoPendingAttr.
package bixf
