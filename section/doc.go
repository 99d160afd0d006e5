// Package section defines the fixed file header shared by every relocatable
// pointer-graph asset.
//
// # File Layout
//
//	┌─────────────────────────────────────────────┐
//	│ Header (24 bytes, fixed)                    │
//	├─────────────────────────────────────────────┤
//	│ Padding up to the root node address         │
//	├─────────────────────────────────────────────┤
//	│ Root record and every child record          │
//	│  - address fields hold target − root        │
//	├─────────────────────────────────────────────┤
//	│ Relocation table (4-byte aligned)           │
//	│  - u32 count                                │
//	│  - u32 entries, or BBIN delta bytes         │
//	├─────────────────────────────────────────────┤
//	│ Footer (optional, 4 bytes)                  │
//	└─────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes  | Field                       | Type
//	-------|-----------------------------|-------
//	0-3    | FileSize                    | uint32
//	4-7    | RootType                    | uint32
//	8-11   | RelocTableRel (root-rel.)   | uint32
//	12-15  | RootAddress (absolute)      | uint32
//	16-19  | RelocTableAbs (absolute)    | uint32
//	20-23  | FooterSize or 0             | uint32
//
// All fields use the byte order of the file variant. The relocation table is
// described twice; a reader rejects a header where the two disagree.
package section
