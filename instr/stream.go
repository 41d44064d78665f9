package instr

import "github.com/evlang/evlang/store"

// Instruction is (opcode, optional argument) per spec §4.2. The argument,
// when present, is either a data-store address or an instruction-stream
// index, depending on Op.
type Instruction struct {
	Op  Opcode
	Arg int
	// HasArg distinguishes "no argument" from "argument 0".
	HasArg bool
}

// NewInstruction builds an instruction with no argument.
func NewInstruction(op Opcode) Instruction { return Instruction{Op: op} }

// NewInstructionArg builds an instruction carrying arg.
func NewInstructionArg(op Opcode, arg int) Instruction {
	return Instruction{Op: op, Arg: arg, HasArg: true}
}

func (i Instruction) String() string {
	if i.HasArg {
		return i.Op.String() + " " + itoa(i.Arg)
	}
	return i.Op.String()
}

func itoa(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	buf := [20]byte{}
	pos := len(buf)
	if n == 0 {
		pos--
		buf[pos] = '0'
	}
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// Stream is an ordered instruction sequence plus per-instruction diagnostic
// metadata and the expression jump table (spec §4.2/§6).
type Stream struct {
	Instructions []Instruction

	// ParseNodeIndex[i], when present, is the parse-node index that emitted
	// Instructions[i] (spec §4.3's optional diagnostics metadata).
	ParseNodeIndex map[int]int

	// jumpTable maps expression name -> first instruction index (spec §6).
	jumpTable map[string]int

	// expressionValues maps a symbol hash to the store.Address of the
	// KindExpression value standing for that named expression, so Resolve
	// can hand a caller the expression as a value (spec §4.5's Resolve
	// lookup), not just let Execute jump to it by name.
	expressionValues map[uint64]store.Address
}

// NewStream builds an empty instruction stream.
func NewStream() *Stream {
	return &Stream{
		ParseNodeIndex:   make(map[int]int),
		jumpTable:        make(map[string]int),
		expressionValues: make(map[uint64]store.Address),
	}
}

// Emit appends instr and returns its index.
func (s *Stream) Emit(instr Instruction) int {
	idx := len(s.Instructions)
	s.Instructions = append(s.Instructions, instr)
	return idx
}

// EmitWithNode is Emit plus recording which parse node produced it.
func (s *Stream) EmitWithNode(instr Instruction, parseNodeIndex int) int {
	idx := s.Emit(instr)
	s.ParseNodeIndex[idx] = parseNodeIndex
	return idx
}

// Patch overwrites the argument of an already-emitted instruction (used to
// back-patch forward jump targets once the target address is known).
func (s *Stream) Patch(idx int, arg int) {
	s.Instructions[idx].Arg = arg
	s.Instructions[idx].HasArg = true
}

// Len returns the number of emitted instructions.
func (s *Stream) Len() int { return len(s.Instructions) }

// DefineExpression registers name -> firstInstr in the jump table. A second
// definition of the same name fails with DuplicateExpression (spec §6).
func (s *Stream) DefineExpression(name string, firstInstr int) error {
	if _, exists := s.jumpTable[name]; exists {
		return store.NewErrorf(store.CategoryDuplicateExpression, "duplicate expression definition: %s", name)
	}
	s.jumpTable[name] = firstInstr
	return nil
}

// Lookup returns the first-instruction index for a defined expression name.
func (s *Stream) Lookup(name string) (int, bool) {
	idx, ok := s.jumpTable[name]
	return idx, ok
}

// BindExpressionValue records that symbolHash resolves to the KindExpression
// value at addr.
func (s *Stream) BindExpressionValue(symbolHash uint64, addr store.Address) {
	s.expressionValues[symbolHash] = addr
}

// LookupExpressionValue returns the KindExpression address bound to
// symbolHash, if any.
func (s *Stream) LookupExpressionValue(symbolHash uint64) (store.Address, bool) {
	addr, ok := s.expressionValues[symbolHash]
	return addr, ok
}
