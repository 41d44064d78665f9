// Package runtime implements the stack-based VM Runtime (spec §4.4,
// component C4): per-opcode semantics over a store.Store and instr.Stream,
// a tight switch-dispatch step loop with no virtual dispatch, grounded on
// the teacher's execNextInstruction loop (vm/exec.go) and RunProgram driver
// (vm/run.go).
package runtime

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/evlang/evlang/hostctx"
	"github.com/evlang/evlang/instr"
	"github.com/evlang/evlang/store"
)

// State is the VM's coarse execution state (spec §4.2).
type State uint8

const (
	Running State = iota
	End
)

// VM executes an instr.Stream over a store.Store (spec §4.4).
type VM struct {
	store  *store.Store
	stream *instr.Stream
	ctx    hostctx.Context
	log    *logrus.Logger

	cursor int
	state  State
	stop   atomic.Bool
}

// New builds a VM over store/stream. The Context defaults to
// hostctx.Empty{} (spec §4.5's EmptyContext) unless overridden via
// WithContext.
func New(st *store.Store, stream *instr.Stream, opts ...Option) *VM {
	vm := &VM{
		store:  st,
		stream: stream,
		ctx:    hostctx.Empty{},
		log:    logrus.New(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// RequestStop asks the VM to halt between instructions (spec §5's
// cancellation contract), generalized from the teacher's breakpoint loop
// (vm/run.go's RunProgramDebugMode) from "pause on breakpoint" to "stop on
// host request". Safe to call from another goroutine.
func (vm *VM) RequestStop() { vm.stop.Store(true) }

// Execute runs entry's expression to completion (spec §4.4/§6). The result
// is the register stack's top at termination, or Unit if empty.
func (vm *VM) Execute(entry string) (store.Address, error) {
	start, ok := vm.stream.Lookup(entry)
	if !ok {
		return 0, store.NewErrorf(store.CategoryBuildError, "undefined expression %q", entry)
	}

	vm.cursor = start
	vm.state = Running

	for vm.state == Running {
		if vm.stop.Load() {
			break
		}
		if vm.cursor < 0 || vm.cursor >= vm.stream.Len() {
			vm.state = End
			break
		}
		if err := vm.step(); err != nil {
			return 0, err
		}
	}

	return vm.result(), nil
}

func (vm *VM) result() store.Address {
	if addr, err := vm.store.PeekRegister(); err == nil {
		return addr
	}
	return store.AddrUnit
}

// step executes the instruction at vm.cursor, advancing the cursor by one
// before dispatch so jump handlers can overwrite it unconditionally
// (mirrors the teacher's "pc += 1 before decode" convention in
// vm/exec.go's execNextInstruction).
func (vm *VM) step() error {
	idx := vm.cursor
	i := vm.stream.Instructions[idx]
	vm.cursor++

	vm.log.WithFields(logrus.Fields{"instr": idx, "op": i.Op}).Trace("step")

	switch i.Op {
	case instr.Nop:
		return nil

	case instr.Put:
		vm.store.PushRegister(store.Address(i.Arg))
		return nil

	case instr.PutValue:
		addr, ok := vm.store.GetCurrentValue()
		if !ok {
			return atInstruction(idx, store.NewError(store.CategoryStateError, "PutValue: value stack empty"))
		}
		vm.store.PushRegister(addr)
		return nil

	case instr.PushValue:
		addr, err := vm.store.PopRegister()
		if err != nil {
			return atInstruction(idx, err)
		}
		vm.store.PushValueStack(addr)
		return nil

	case instr.UpdateValue:
		addr, err := vm.store.PopRegister()
		if err != nil {
			return atInstruction(idx, err)
		}
		if _, ok := vm.store.PopValueStack(); !ok {
			return atInstruction(idx, store.NewError(store.CategoryStateError, "UpdateValue: value stack empty"))
		}
		vm.store.PushValueStack(addr)
		return nil

	case instr.StartSideEffect:
		current, ok := vm.store.GetCurrentValue()
		if !ok {
			current = store.AddrUnit
		}
		vm.store.PushValueStack(current)
		return nil

	case instr.EndSideEffect:
		if _, ok := vm.store.PopValueStack(); !ok {
			return atInstruction(idx, store.NewError(store.CategoryStateError, "EndSideEffect: value stack empty"))
		}
		return nil

	case instr.MakePair:
		return vm.opMakePair(idx)

	case instr.MakeList:
		return vm.opMakeList(idx, i.Arg)

	case instr.MakeRange:
		return vm.opMakeRange(idx, false, false)
	case instr.MakeStartExclusiveRange:
		return vm.opMakeRange(idx, true, false)
	case instr.MakeEndExclusiveRange:
		return vm.opMakeRange(idx, false, true)
	case instr.MakeExclusiveRange:
		return vm.opMakeRange(idx, true, true)

	case instr.MakePartial:
		return vm.opMakePartial(idx)

	case instr.Concat:
		return vm.opConcat(idx)

	case instr.PerformAddition:
		return vm.opArith(idx, store.OpAdd)
	case instr.PerformSubtraction:
		return vm.opArith(idx, store.OpSub)
	case instr.PerformMultiplication:
		return vm.opArith(idx, store.OpMul)
	case instr.PerformDivision:
		return vm.opArith(idx, store.OpDiv)

	case instr.EqualityComparison:
		return vm.opEqualityComparison(idx)

	case instr.Access:
		return vm.opAccess(idx)
	case instr.AccessLeftInternal:
		return vm.opAccessSide(idx, true)
	case instr.AccessRightInternal:
		return vm.opAccessSide(idx, false)
	case instr.AccessLengthInternal:
		return vm.opAccessLength(idx)

	case instr.Apply:
		return vm.opApply(idx, false)
	case instr.EmptyApply:
		return vm.opApply(idx, true)
	case instr.Reapply:
		return vm.opReapply(idx, i.Arg)
	case instr.Resolve:
		return vm.opResolve(idx, store.Address(i.Arg))

	case instr.JumpTo:
		vm.cursor = i.Arg
		return nil
	case instr.JumpIfTrue:
		return vm.opJumpIf(idx, i.Arg, store.AddrTrue)
	case instr.JumpIfFalse:
		return vm.opJumpIf(idx, i.Arg, store.AddrFalse)

	case instr.EndExpression:
		return vm.opEndExpression(idx)
	case instr.EndExecution:
		vm.state = End
		return nil

	default:
		return atInstruction(idx, store.NewErrorf(store.CategoryStateError, "unhandled opcode %s", i.Op))
	}
}

func (vm *VM) opJumpIf(idx, target int, want store.Address) error {
	addr, err := vm.store.PopRegister()
	if err != nil {
		return atInstruction(idx, err)
	}
	if addr == want {
		vm.cursor = target
	}
	return nil
}
