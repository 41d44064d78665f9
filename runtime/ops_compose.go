package runtime

import (
	"github.com/evlang/evlang/store"
)

// opMakePair pops two registers (right then left) and pushes Pair(l,r)
// (spec §4.2's MakePair row).
func (vm *VM) opMakePair(idx int) error {
	right, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	left, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	addr, err := vm.store.AddPair(left, right)
	if err != nil {
		return atInstruction(idx, err)
	}
	vm.store.PushRegister(addr)
	return nil
}

// opMakeList pops n registers and pushes a List preserving source order
// (spec §4.2's MakeList row, §8's "consumes exactly n addresses" property).
func (vm *VM) opMakeList(idx int, n int) error {
	elems := make([]store.Address, n)
	for i := n - 1; i >= 0; i-- {
		addr, err := vm.store.PopRegister()
		if err != nil {
			return atInstruction(idx, err)
		}
		elems[i] = addr
	}
	addr, err := vm.store.AddList(elems)
	if err != nil {
		return atInstruction(idx, err)
	}
	vm.store.PushRegister(addr)
	return nil
}

// opMakeRange pops two registers and pushes a Range with exclusivity
// adjustment (start-excl +1, end-excl -1), or Unit if either operand is not
// a Number (spec §3.1, §8's "MakeRange with non-numeric operands yields
// Unit, not an error").
func (vm *VM) opMakeRange(idx int, startExclusive, endExclusive bool) error {
	right, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	left, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}

	startNum, errL := vm.store.GetNumber(left)
	endNum, errR := vm.store.GetNumber(right)
	if errL != nil || errR != nil {
		vm.store.PushRegister(store.AddrUnit)
		return nil
	}

	if startExclusive {
		startNum = startNum.Increment()
	}
	if endExclusive {
		endNum = endNum.Decrement()
	}

	startAddr, err := vm.store.AddNumber(startNum)
	if err != nil {
		return atInstruction(idx, err)
	}
	endAddr, err := vm.store.AddNumber(endNum)
	if err != nil {
		return atInstruction(idx, err)
	}

	addr, err := vm.store.AddRange(startAddr, endAddr)
	if err != nil {
		return atInstruction(idx, err)
	}
	vm.store.PushRegister(addr)
	return nil
}

// opMakePartial pops two registers (right then left) and pushes
// Partial(l,r): left applied to right, deferred (spec §3.1/§3.4, grounded on
// original_source/runtime/src/runtime/partial.rs's partial_apply, which
// pops the same (right, left) pair before calling add_partial).
func (vm *VM) opMakePartial(idx int) error {
	right, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	left, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	addr, err := vm.store.AddPartial(left, right)
	if err != nil {
		return atInstruction(idx, err)
	}
	vm.store.PushRegister(addr)
	return nil
}

// opConcat pops two registers (right then left) and pushes a lazy
// Concatenation (spec §3.1/§4.2).
func (vm *VM) opConcat(idx int) error {
	right, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	left, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	addr, err := vm.store.AddConcatenation(left, right)
	if err != nil {
		return atInstruction(idx, err)
	}
	vm.store.PushRegister(addr)
	return nil
}

// opArith pops two numbers (right then left), applies op with numeric
// widening, and pushes the interned result (spec §4.2's arithmetic rows).
func (vm *VM) opArith(idx int, op store.ArithOp) error {
	right, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	left, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}

	leftNum, err := vm.store.GetNumber(left)
	if err != nil {
		return atInstruction(idx, err)
	}
	rightNum, err := vm.store.GetNumber(right)
	if err != nil {
		return atInstruction(idx, err)
	}

	result, err := store.Arith(op, leftNum, rightNum)
	if err != nil {
		return atInstruction(idx, err)
	}

	addr, err := vm.store.AddNumber(result)
	if err != nil {
		return atInstruction(idx, err)
	}
	vm.store.PushRegister(addr)
	return nil
}

// opEqualityComparison pops two registers and pushes True/False by
// structural equality (spec §4.2/§3.4).
func (vm *VM) opEqualityComparison(idx int) error {
	right, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	left, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	eq, err := vm.store.Equal(left, right)
	if err != nil {
		return atInstruction(idx, err)
	}
	vm.store.PushRegister(store.BoolAddr(eq))
	return nil
}
