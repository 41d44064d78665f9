package store

// Kind is the closed set of tagged value kinds a Store can hold (spec §3.1).
type Kind uint8

const (
	KindUnit Kind = iota
	KindTrue
	KindFalse
	KindNumber
	KindSymbol
	KindCharList
	KindPair
	KindList
	KindRange
	KindConcatenation
	KindExpression
	KindExternal
	KindPartial
)

var kindNames = map[Kind]string{
	KindUnit:          "Unit",
	KindTrue:          "True",
	KindFalse:         "False",
	KindNumber:        "Number",
	KindSymbol:        "Symbol",
	KindCharList:      "CharList",
	KindPair:          "Pair",
	KindList:          "List",
	KindRange:         "Range",
	KindConcatenation: "Concatenation",
	KindExpression:    "Expression",
	KindExternal:      "External",
	KindPartial:       "Partial",
}

// kindStrToEnum is built once from kindNames so the two stay in sync, the
// same init-time reverse-map idiom the teacher uses for Bytecode.String().
var kindStrToEnum map[string]Kind

func init() {
	kindStrToEnum = make(map[string]Kind, len(kindNames))
	for k, s := range kindNames {
		kindStrToEnum[s] = k
	}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "?unknown?"
}
