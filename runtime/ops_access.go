package runtime

import (
	"github.com/evlang/evlang/store"
)

// opAccess implements the generic Access opcode resolved in SPEC_FULL §4:
// container List + Symbol key -> association lookup; List + integer key ->
// positional index; Pair/Range + integer 0/1 -> left/right; anything else
// yields Unit rather than an error, consistent with MakeRange's "wrong
// types -> Unit" precedent (spec §8).
func (vm *VM) opAccess(idx int) error {
	key, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	container, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}

	result, err := vm.access(container, key)
	if err != nil {
		return atInstruction(idx, err)
	}
	vm.store.PushRegister(result)
	return nil
}

func (vm *VM) access(container, key store.Address) (store.Address, error) {
	containerKind, err := vm.store.GetDataType(container)
	if err != nil {
		return 0, err
	}

	switch containerKind {
	case store.KindList:
		elements, associations, err := vm.store.GetList(container)
		if err != nil {
			return 0, err
		}
		if keyKind, _ := vm.store.GetDataType(key); keyKind == store.KindSymbol {
			keyHash, err := vm.store.GetSymbol(key)
			if err != nil {
				return 0, err
			}
			for _, assoc := range associations {
				assocKeyAddr, assocValue, err := vm.store.GetPair(assoc)
				if err != nil {
					return 0, err
				}
				assocKeyHash, err := vm.store.GetSymbol(assocKeyAddr)
				if err != nil {
					return 0, err
				}
				if assocKeyHash == keyHash {
					return assocValue, nil
				}
			}
			return store.AddrUnit, nil
		}
		if n, err := vm.store.GetNumber(key); err == nil && !n.IsFloat {
			if int(n.Int) >= 0 && int(n.Int) < len(elements) {
				return elements[n.Int], nil
			}
		}
		return store.AddrUnit, nil

	case store.KindPair, store.KindRange:
		n, err := vm.store.GetNumber(key)
		if err != nil || n.IsFloat {
			return store.AddrUnit, nil
		}
		var left, right store.Address
		if containerKind == store.KindPair {
			left, right, err = vm.store.GetPair(container)
		} else {
			left, right, err = vm.store.GetRange(container)
		}
		if err != nil {
			return 0, err
		}
		switch n.Int {
		case 0:
			return left, nil
		case 1:
			return right, nil
		default:
			return store.AddrUnit, nil
		}

	default:
		return store.AddrUnit, nil
	}
}

// opAccessSide pops one register and pushes Left (wantLeft) or Right of a
// Pair/Range/Partial/Concatenation, or Unit for any other kind (a List
// included).
func (vm *VM) opAccessSide(idx int, wantLeft bool) error {
	addr, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}

	kind, err := vm.store.GetDataType(addr)
	if err != nil {
		return atInstruction(idx, err)
	}

	var left, right store.Address
	switch kind {
	case store.KindPair:
		left, right, err = vm.store.GetPair(addr)
	case store.KindRange:
		left, right, err = vm.store.GetRange(addr)
	case store.KindPartial:
		left, right, err = vm.store.GetPartial(addr)
	case store.KindConcatenation:
		left, right, err = vm.store.GetConcatenation(addr)
	default:
		vm.store.PushRegister(store.AddrUnit)
		return nil
	}
	if err != nil {
		return atInstruction(idx, err)
	}

	if wantLeft {
		vm.store.PushRegister(left)
	} else {
		vm.store.PushRegister(right)
	}
	return nil
}

// opAccessLength pops one register and pushes a Number holding a List's
// element count, or Unit for any other kind.
func (vm *VM) opAccessLength(idx int) error {
	addr, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}

	elements, _, err := vm.store.GetList(addr)
	if err != nil {
		vm.store.PushRegister(store.AddrUnit)
		return nil
	}

	lengthAddr, err := vm.store.AddNumber(store.Int32(int32(len(elements))))
	if err != nil {
		return atInstruction(idx, err)
	}
	vm.store.PushRegister(lengthAddr)
	return nil
}
