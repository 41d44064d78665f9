package store

// Address is an index into a Store's value list. Addresses are monotonically
// assigned and, outside of Compact, never renumbered (spec §3.2).
type Address uint32

const (
	// Fixed low addresses for the three singletons (spec §3.1).
	AddrUnit  Address = 0
	AddrTrue  Address = 1
	AddrFalse Address = 2
)

// Value is the tagged union backing every Store slot. Only the fields
// relevant to Kind are meaningful; accessors enforce that via TypeMismatch.
type Value struct {
	Kind Kind

	Number Number
	Symbol uint64
	Text   string

	// Pair / Range / Concatenation / Partial: two child addresses.
	Left  Address
	Right Address

	// List: elements in order, plus the subset of them that are
	// Pair-with-Symbol-left associations (by address, a subset of Elements).
	Elements     []Address
	Associations []Address

	// Expression: index of its first instruction.
	InstructionIndex int

	// External: host-defined opaque identifier.
	ExternalID uint64
}
