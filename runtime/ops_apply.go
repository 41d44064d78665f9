package runtime

import (
	"github.com/evlang/evlang/store"
)

// opApply implements Apply/EmptyApply (spec §4.2). EmptyApply behaves as
// Apply with a Unit argument and pops only the callable.
func (vm *VM) opApply(idx int, isEmpty bool) error {
	argument := store.AddrUnit
	if !isEmpty {
		a, err := vm.store.PopRegister()
		if err != nil {
			return atInstruction(idx, err)
		}
		argument = a
	}

	callable, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}

	return vm.applyValue(idx, callable, argument)
}

// applyValue dispatches on callable's kind per spec §4.2's Apply row,
// resolved for Partial/fallback cases in SPEC_FULL §4:
//   - Expression: push a return address, push argument as the callee's
//     current value, jump into the expression's body.
//   - Partial: accumulate [partial.right, argument] into a new List and
//     re-apply it against partial.left.
//   - External: defer to Context.Apply.
//   - List: index by the argument (association key or position).
//   - CharList/Concatenation: build a new lazy Concatenation.
//   - anything else: UnsupportedOpTypes.
func (vm *VM) applyValue(idx int, callable, argument store.Address) error {
	kind, err := vm.store.GetDataType(callable)
	if err != nil {
		return atInstruction(idx, err)
	}

	switch kind {
	case store.KindExpression:
		entry, err := vm.store.GetExpression(callable)
		if err != nil {
			return atInstruction(idx, err)
		}
		vm.store.PushJumpPath(vm.cursor)
		vm.store.PushValueStack(argument)
		vm.cursor = entry
		return nil

	case store.KindPartial:
		left, right, err := vm.store.GetPartial(callable)
		if err != nil {
			return atInstruction(idx, err)
		}
		accumulated, err := vm.store.AddList([]store.Address{right, argument})
		if err != nil {
			return atInstruction(idx, err)
		}
		return vm.applyValue(idx, left, accumulated)

	case store.KindExternal:
		externalID, err := vm.store.GetExternal(callable)
		if err != nil {
			return atInstruction(idx, err)
		}
		handled, err := vm.ctx.Apply(vm.store, externalID, argument)
		if err != nil {
			return atInstruction(idx, err)
		}
		if !handled {
			vm.store.PushRegister(store.AddrUnit)
		}
		return nil

	case store.KindList:
		result, err := vm.access(callable, argument)
		if err != nil {
			return atInstruction(idx, err)
		}
		vm.store.PushRegister(result)
		return nil

	case store.KindCharList, store.KindConcatenation:
		addr, err := vm.store.AddConcatenation(callable, argument)
		if err != nil {
			return atInstruction(idx, err)
		}
		vm.store.PushRegister(addr)
		return nil

	default:
		return atInstruction(idx, store.NewErrorf(store.CategoryUnsupportedOpTypes, "cannot apply value of kind %s", kind))
	}
}

// opReapply implements Reapply (spec §4.2): replace the current value with
// the register top and jump, without pushing a return address (spec §8:
// "Reapply leaves the jump-return stack length unchanged").
func (vm *VM) opReapply(idx int, target int) error {
	addr, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	vm.store.PopValueStack()
	vm.store.PushValueStack(addr)
	vm.cursor = target
	return nil
}

// opResolve implements Resolve (spec §4.2): look up symbolAddr in the
// current value's associations (when the current value is a List), then in
// the instruction stream's named-expression bindings, falling back to
// Context.Resolve; push the result or Unit.
func (vm *VM) opResolve(idx int, symbolAddr store.Address) error {
	symbolHash, err := vm.store.GetSymbol(symbolAddr)
	if err != nil {
		return atInstruction(idx, err)
	}

	if current, ok := vm.store.GetCurrentValue(); ok {
		if kind, _ := vm.store.GetDataType(current); kind == store.KindList {
			_, associations, err := vm.store.GetList(current)
			if err != nil {
				return atInstruction(idx, err)
			}
			for _, assoc := range associations {
				keyAddr, valueAddr, err := vm.store.GetPair(assoc)
				if err != nil {
					return atInstruction(idx, err)
				}
				keyHash, err := vm.store.GetSymbol(keyAddr)
				if err != nil {
					return atInstruction(idx, err)
				}
				if keyHash == symbolHash {
					vm.store.PushRegister(valueAddr)
					return nil
				}
			}
		}
	}

	if exprAddr, ok := vm.stream.LookupExpressionValue(symbolHash); ok {
		vm.store.PushRegister(exprAddr)
		return nil
	}

	handled, err := vm.ctx.Resolve(vm.store, symbolHash)
	if err != nil {
		return atInstruction(idx, err)
	}
	if !handled {
		vm.store.PushRegister(store.AddrUnit)
	}
	return nil
}

// opEndExpression implements EndExpression (spec §4.2): pop the
// jump-return stack; an empty stack ends execution, otherwise resume at the
// popped address after popping the value-stack frame the matching Apply
// pushed (SPEC_FULL §4's EndExpression/Apply symmetry).
func (vm *VM) opEndExpression(idx int) error {
	returnIdx, ok := vm.store.PopJumpPath()
	if !ok {
		vm.state = End
		return nil
	}
	vm.store.PopValueStack()
	vm.cursor = returnIdx
	return nil
}
