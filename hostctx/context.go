// Package hostctx implements the Context capability of spec §4.5 (C5): the
// two hooks the runtime consults for Resolve (unresolved symbol lookup) and
// Apply (external-value application), modeled after the teacher's
// HardwareDevice capability (vm/devices.go) — a capability passed by
// reference into each step that might need it, never globally installed.
package hostctx

import "github.com/evlang/evlang/store"

// Context is consulted by the runtime's Resolve and Apply opcode handlers.
// A Context may read and mutate the Data Store but must not alter the
// instruction cursor or jump-return stack (spec §4.5).
type Context interface {
	// Resolve looks up symbolHash. On true, it must have pushed the
	// resolved address onto s's register stack; on false, the runtime
	// pushes Unit.
	Resolve(s *store.Store, symbolHash uint64) (bool, error)

	// Apply invokes the host behavior behind externalID with argument addr.
	// On true, it must have pushed the result onto s's register stack; on
	// false, the runtime pushes Unit, matching Resolve's discipline.
	Apply(s *store.Store, externalID uint64, argument store.Address) (bool, error)
}

// Empty always declines both hooks (spec §4.5's EmptyContext).
type Empty struct{}

func (Empty) Resolve(*store.Store, uint64) (bool, error)               { return false, nil }
func (Empty) Apply(*store.Store, uint64, store.Address) (bool, error) { return false, nil }
