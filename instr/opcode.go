package instr

// Opcode is the full operational surface of spec §4.2.
type Opcode uint8

const (
	Nop Opcode = iota
	Put
	PutValue
	PushValue
	UpdateValue
	StartSideEffect
	EndSideEffect
	MakePair
	MakeList
	MakeRange
	MakeStartExclusiveRange
	MakeEndExclusiveRange
	MakeExclusiveRange
	MakePartial
	Concat
	PerformAddition
	PerformSubtraction
	PerformMultiplication
	PerformDivision
	EqualityComparison
	Access
	AccessLeftInternal
	AccessRightInternal
	AccessLengthInternal
	Apply
	EmptyApply
	Reapply
	Resolve
	JumpTo
	JumpIfTrue
	JumpIfFalse
	EndExpression
	EndExecution
)

var opcodeNames = map[Opcode]string{
	Nop:                     "Nop",
	Put:                     "Put",
	PutValue:                "PutValue",
	PushValue:               "PushValue",
	UpdateValue:             "UpdateValue",
	StartSideEffect:         "StartSideEffect",
	EndSideEffect:           "EndSideEffect",
	MakePair:                "MakePair",
	MakeList:                "MakeList",
	MakeRange:               "MakeRange",
	MakeStartExclusiveRange: "MakeStartExclusiveRange",
	MakeEndExclusiveRange:   "MakeEndExclusiveRange",
	MakeExclusiveRange:      "MakeExclusiveRange",
	MakePartial:             "MakePartial",
	Concat:                  "Concat",
	PerformAddition:         "PerformAddition",
	PerformSubtraction:      "PerformSubtraction",
	PerformMultiplication:   "PerformMultiplication",
	PerformDivision:         "PerformDivision",
	EqualityComparison:      "EqualityComparison",
	Access:                  "Access",
	AccessLeftInternal:      "AccessLeftInternal",
	AccessRightInternal:     "AccessRightInternal",
	AccessLengthInternal:    "AccessLengthInternal",
	Apply:                   "Apply",
	EmptyApply:              "EmptyApply",
	Reapply:                 "Reapply",
	Resolve:                 "Resolve",
	JumpTo:                  "JumpTo",
	JumpIfTrue:              "JumpIfTrue",
	JumpIfFalse:             "JumpIfFalse",
	EndExpression:           "EndExpression",
	EndExecution:            "EndExecution",
}

// opcodeStrToEnum mirrors the teacher's strToInstrMap/instrToStrMap pair in
// vm/bytecode.go: built once at init time from the canonical name map.
var opcodeStrToEnum map[string]Opcode

func init() {
	opcodeStrToEnum = make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		opcodeStrToEnum[name] = op
	}
}

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return "?unknown?"
}

// HasArg reports whether op carries a meaningful Instruction.Arg.
func (op Opcode) HasArg() bool {
	switch op {
	case Put, MakeList, Reapply, Resolve, JumpTo, JumpIfTrue, JumpIfFalse:
		return true
	default:
		return false
	}
}
