package store

import (
	"hash/fnv"
)

// Store is the append-mostly, tagged-value data store from spec §3/§4.1: a
// flat slice of Values addressed by index, plus the three auxiliary stacks
// (register, value, jump-return) and literal interning.
type Store struct {
	values   []Value
	settings StorageSettings

	numberIndex   map[numberKey]Address
	symbolIndex   map[uint64]Address
	charListIndex map[string]Address

	registerStack []Address
	valueStack    []Address
	jumpStack     []int

	endOfConstants int
}

type numberKey struct {
	isFloat bool
	i       int32
	f       float64
}

func keyOf(n Number) numberKey { return numberKey{n.IsFloat, n.Int, n.Float} }

// New builds a Store with the three fixed singletons pre-populated at
// addresses 0, 1, 2 (spec §3.1/§3.2).
func New(opts ...Option) *Store {
	settings := DefaultStorageSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	s := &Store{
		settings:      settings,
		numberIndex:   make(map[numberKey]Address),
		symbolIndex:   make(map[uint64]Address),
		charListIndex: make(map[string]Address),
	}
	s.values = make([]Value, 0, settings.InitialSize)

	s.values = append(s.values, Value{Kind: KindUnit})
	s.values = append(s.values, Value{Kind: KindTrue})
	s.values = append(s.values, Value{Kind: KindFalse})
	return s
}

func (s *Store) alloc(v Value) (Address, error) {
	if len(s.values) >= s.settings.MaxItems {
		return 0, NewErrorf(CategoryCapacityExceeded, "store exceeded max_items=%d", s.settings.MaxItems)
	}
	if cap(s.values) == len(s.values) {
		next := s.settings.ReallocationStrategy.nextCapacity(cap(s.values))
		if next <= len(s.values) {
			next = len(s.values) + 1
		}
		grown := make([]Value, len(s.values), next)
		copy(grown, s.values)
		s.values = grown
	}
	addr := Address(len(s.values))
	s.values = append(s.values, v)
	return addr, nil
}

// AddUnit, AddTrue, AddFalse return the fixed singleton addresses.
func (s *Store) AddUnit() Address  { return AddrUnit }
func (s *Store) AddTrue() Address  { return AddrTrue }
func (s *Store) AddFalse() Address { return AddrFalse }

// BoolAddr returns AddrTrue or AddrFalse for b.
func BoolAddr(b bool) Address {
	if b {
		return AddrTrue
	}
	return AddrFalse
}

// AddNumber interns n, returning the existing address if an equal Number was
// already inserted (spec §4.1's interning policy; §8's round-trip property).
func (s *Store) AddNumber(n Number) (Address, error) {
	key := keyOf(n)
	if addr, ok := s.numberIndex[key]; ok {
		return addr, nil
	}
	addr, err := s.alloc(Value{Kind: KindNumber, Number: n})
	if err != nil {
		return 0, err
	}
	s.numberIndex[key] = addr
	return addr, nil
}

// HashSymbol computes the 64-bit FNV-1a hash of name (spec §4.1: "a
// FNV-1a-64 or equivalent"), so identical source strings hash identically
// across compilations.
func HashSymbol(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}

// AddSymbol interns name's hash, returning the existing address on repeat
// insertion of an equal hash.
func (s *Store) AddSymbol(name string) (Address, error) {
	hash := HashSymbol(name)
	return s.AddSymbolHash(hash)
}

// AddSymbolHash interns a precomputed hash directly.
func (s *Store) AddSymbolHash(hash uint64) (Address, error) {
	if addr, ok := s.symbolIndex[hash]; ok {
		return addr, nil
	}
	addr, err := s.alloc(Value{Kind: KindSymbol, Symbol: hash})
	if err != nil {
		return 0, err
	}
	s.symbolIndex[hash] = addr
	return addr, nil
}

// AddCharList interns an immutable character sequence.
func (s *Store) AddCharList(text string) (Address, error) {
	if addr, ok := s.charListIndex[text]; ok {
		return addr, nil
	}
	addr, err := s.alloc(Value{Kind: KindCharList, Text: text})
	if err != nil {
		return 0, err
	}
	s.charListIndex[text] = addr
	return addr, nil
}

// AddPair is never interned (composite values are not interned, spec §4.1).
func (s *Store) AddPair(left, right Address) (Address, error) {
	return s.alloc(Value{Kind: KindPair, Left: left, Right: right})
}

// AddList builds a List from elems in order, selecting associations: the
// subset of elems that are Pair-typed with a Symbol left (spec §3.1/§4.2).
// Duplicate keys resolve last-wins (see DESIGN.md).
func (s *Store) AddList(elems []Address) (Address, error) {
	assocOf := make(map[uint64]Address)
	var assocOrder []uint64
	for _, e := range elems {
		v, err := s.at(e)
		if err != nil {
			return 0, err
		}
		if v.Kind != KindPair {
			continue
		}
		lv, err := s.at(v.Left)
		if err != nil {
			return 0, err
		}
		if lv.Kind != KindSymbol {
			continue
		}
		if _, seen := assocOf[lv.Symbol]; !seen {
			assocOrder = append(assocOrder, lv.Symbol)
		}
		assocOf[lv.Symbol] = e
	}

	assocs := make([]Address, 0, len(assocOrder))
	for _, sym := range assocOrder {
		assocs = append(assocs, assocOf[sym])
	}

	return s.alloc(Value{Kind: KindList, Elements: append([]Address(nil), elems...), Associations: assocs})
}

// AddRange stores a Range whose endpoints are already resolved numeric
// addresses, after exclusivity adjustment by the caller (spec §3.1/§4.2).
func (s *Store) AddRange(left, right Address) (Address, error) {
	return s.alloc(Value{Kind: KindRange, Left: left, Right: right})
}

// AddConcatenation builds a lazy concatenation; it is materialized only on
// access (spec §3.1).
func (s *Store) AddConcatenation(left, right Address) (Address, error) {
	return s.alloc(Value{Kind: KindConcatenation, Left: left, Right: right})
}

// AddPartial builds an unapplied application: left applied to right.
func (s *Store) AddPartial(left, right Address) (Address, error) {
	return s.alloc(Value{Kind: KindPartial, Left: left, Right: right})
}

// AddExpression stores a callable pointer into the instruction stream.
func (s *Store) AddExpression(instructionIndex int) (Address, error) {
	return s.alloc(Value{Kind: KindExpression, InstructionIndex: instructionIndex})
}

// AddExternal stores a host-provided opaque identifier.
func (s *Store) AddExternal(id uint64) (Address, error) {
	return s.alloc(Value{Kind: KindExternal, ExternalID: id})
}

func (s *Store) at(addr Address) (Value, error) {
	if int(addr) < 0 || int(addr) >= len(s.values) {
		return Value{}, NewErrorf(CategoryUnknown, "address %d out of range", addr)
	}
	return s.values[addr], nil
}

// GetDataType returns the tag stored at addr; it is stable for the life of
// the address (spec §8 data-tag discipline).
func (s *Store) GetDataType(addr Address) (Kind, error) {
	v, err := s.at(addr)
	if err != nil {
		return 0, err
	}
	return v.Kind, nil
}

func (s *Store) expect(addr Address, kind Kind) (Value, error) {
	v, err := s.at(addr)
	if err != nil {
		return Value{}, err
	}
	if v.Kind != kind {
		return Value{}, NewErrorf(CategoryTypeMismatch, "address %d: expected %s, got %s", addr, kind, v.Kind)
	}
	return v, nil
}

// GetNumber returns the Number at addr, failing TypeMismatch if addr is not
// a Number.
func (s *Store) GetNumber(addr Address) (Number, error) {
	v, err := s.expect(addr, KindNumber)
	if err != nil {
		return Number{}, err
	}
	return v.Number, nil
}

// GetSymbol returns the interned hash at addr.
func (s *Store) GetSymbol(addr Address) (uint64, error) {
	v, err := s.expect(addr, KindSymbol)
	if err != nil {
		return 0, err
	}
	return v.Symbol, nil
}

// GetCharList returns the string at addr.
func (s *Store) GetCharList(addr Address) (string, error) {
	v, err := s.expect(addr, KindCharList)
	if err != nil {
		return "", err
	}
	return v.Text, nil
}

// GetPair returns the (left, right) children at addr.
func (s *Store) GetPair(addr Address) (Address, Address, error) {
	v, err := s.expect(addr, KindPair)
	if err != nil {
		return 0, 0, err
	}
	return v.Left, v.Right, nil
}

// GetList returns the elements and associations at addr.
func (s *Store) GetList(addr Address) ([]Address, []Address, error) {
	v, err := s.expect(addr, KindList)
	if err != nil {
		return nil, nil, err
	}
	return v.Elements, v.Associations, nil
}

// GetRange returns the (start, end) endpoint addresses at addr.
func (s *Store) GetRange(addr Address) (Address, Address, error) {
	v, err := s.expect(addr, KindRange)
	if err != nil {
		return 0, 0, err
	}
	return v.Left, v.Right, nil
}

// GetConcatenation returns the (left, right) operand addresses at addr.
func (s *Store) GetConcatenation(addr Address) (Address, Address, error) {
	v, err := s.expect(addr, KindConcatenation)
	if err != nil {
		return 0, 0, err
	}
	return v.Left, v.Right, nil
}

// GetPartial returns the (left, right) operand addresses at addr.
func (s *Store) GetPartial(addr Address) (Address, Address, error) {
	v, err := s.expect(addr, KindPartial)
	if err != nil {
		return 0, 0, err
	}
	return v.Left, v.Right, nil
}

// GetExpression returns the first-instruction index at addr.
func (s *Store) GetExpression(addr Address) (int, error) {
	v, err := s.expect(addr, KindExpression)
	if err != nil {
		return 0, err
	}
	return v.InstructionIndex, nil
}

// GetExternal returns the opaque host identifier at addr.
func (s *Store) GetExternal(addr Address) (uint64, error) {
	v, err := s.expect(addr, KindExternal)
	if err != nil {
		return 0, err
	}
	return v.ExternalID, nil
}

// MaterializeCharacters resolves addr (CharList or lazily-nested
// Concatenation) to its flattened string (spec §3.1: "materialized only on
// access").
func (s *Store) MaterializeCharacters(addr Address) (string, error) {
	v, err := s.at(addr)
	if err != nil {
		return "", err
	}
	switch v.Kind {
	case KindCharList:
		return v.Text, nil
	case KindConcatenation:
		left, err := s.MaterializeCharacters(v.Left)
		if err != nil {
			return "", err
		}
		right, err := s.MaterializeCharacters(v.Right)
		if err != nil {
			return "", err
		}
		return left + right, nil
	default:
		return "", NewErrorf(CategoryTypeMismatch, "address %d: cannot materialize characters from %s", addr, v.Kind)
	}
}

// SetEndOfConstant marks the boundary between literal constants and
// runtime-produced values (spec §4.1); Compact preserves everything below it
// unconditionally.
func (s *Store) SetEndOfConstant(n int) { s.endOfConstants = n }

// EndOfConstant returns the current boundary set by SetEndOfConstant.
func (s *Store) EndOfConstant() int { return s.endOfConstants }

// Len returns the number of allocated addresses.
func (s *Store) Len() int { return len(s.values) }

// --- Register stack ---

// PushRegister pushes addr onto the register stack.
func (s *Store) PushRegister(addr Address) { s.registerStack = append(s.registerStack, addr) }

// PopRegister pops and returns the register stack's top.
func (s *Store) PopRegister() (Address, error) {
	n := len(s.registerStack)
	if n == 0 {
		return 0, NewError(CategoryStackUnderflow, "pop_register on empty register stack")
	}
	addr := s.registerStack[n-1]
	s.registerStack = s.registerStack[:n-1]
	return addr, nil
}

// PeekRegister returns the register stack's top without popping it.
func (s *Store) PeekRegister() (Address, error) {
	n := len(s.registerStack)
	if n == 0 {
		return 0, NewError(CategoryStackUnderflow, "peek_register on empty register stack")
	}
	return s.registerStack[n-1], nil
}

// GetRegister returns the i-th register from the bottom of the stack.
func (s *Store) GetRegister(i int) (Address, error) {
	if i < 0 || i >= len(s.registerStack) {
		return 0, NewErrorf(CategoryStackUnderflow, "register index %d out of range", i)
	}
	return s.registerStack[i], nil
}

// GetRegisterLen returns the register stack's depth.
func (s *Store) GetRegisterLen() int { return len(s.registerStack) }

// --- Value stack ---

// PushValueStack pushes addr onto the value stack.
func (s *Store) PushValueStack(addr Address) { s.valueStack = append(s.valueStack, addr) }

// PopValueStack pops the value stack's top, returning ok=false if empty.
func (s *Store) PopValueStack() (Address, bool) {
	n := len(s.valueStack)
	if n == 0 {
		return 0, false
	}
	addr := s.valueStack[n-1]
	s.valueStack = s.valueStack[:n-1]
	return addr, true
}

// GetCurrentValue returns the value stack's top, or ok=false if empty.
func (s *Store) GetCurrentValue() (Address, bool) {
	n := len(s.valueStack)
	if n == 0 {
		return 0, false
	}
	return s.valueStack[n-1], true
}

// --- Jump-return stack ---

// PushJumpPath pushes an instruction index to resume at later.
func (s *Store) PushJumpPath(instrIdx int) { s.jumpStack = append(s.jumpStack, instrIdx) }

// PopJumpPath pops the jump-return stack, returning ok=false if empty.
func (s *Store) PopJumpPath() (int, bool) {
	n := len(s.jumpStack)
	if n == 0 {
		return 0, false
	}
	idx := s.jumpStack[n-1]
	s.jumpStack = s.jumpStack[:n-1]
	return idx, true
}

// JumpPathLen returns the jump-return stack's depth.
func (s *Store) JumpPathLen() int { return len(s.jumpStack) }
