package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingletonAddresses(t *testing.T) {
	s := New()
	require.Equal(t, AddrUnit, s.AddUnit())
	require.Equal(t, AddrTrue, s.AddTrue())
	require.Equal(t, AddrFalse, s.AddFalse())

	kind, err := s.GetDataType(AddrUnit)
	require.NoError(t, err)
	require.Equal(t, KindUnit, kind)
}

func TestAddNumber_Interning(t *testing.T) {
	s := New()
	a, err := s.AddNumber(Int32(42))
	require.NoError(t, err)
	b, err := s.AddNumber(Int32(42))
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := s.AddNumber(Int32(43))
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestAddSymbol_Interning(t *testing.T) {
	s := New()
	a, err := s.AddSymbol("foo")
	require.NoError(t, err)
	b, err := s.AddSymbol("foo")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestGetDataType_Stable(t *testing.T) {
	s := New()
	addr, err := s.AddNumber(Int32(1))
	require.NoError(t, err)
	k1, err := s.GetDataType(addr)
	require.NoError(t, err)
	k2, err := s.GetDataType(addr)
	require.NoError(t, err)
	require.Equal(t, k1, k2)
}

func TestGetX_TypeMismatch(t *testing.T) {
	s := New()
	addr, err := s.AddNumber(Int32(1))
	require.NoError(t, err)
	_, err = s.GetCharList(addr)
	require.Error(t, err)
	require.True(t, Is(err, CategoryTypeMismatch))
}

func TestRegisterStack_PushPop(t *testing.T) {
	s := New()
	s.PushRegister(Address(7))
	addr, err := s.PopRegister()
	require.NoError(t, err)
	require.Equal(t, Address(7), addr)
}

func TestRegisterStack_UnderflowOnEmptyPop(t *testing.T) {
	s := New()
	_, err := s.PopRegister()
	require.Error(t, err)
	require.True(t, Is(err, CategoryStackUnderflow))
}

func TestMakePair_StackLaw(t *testing.T) {
	s := New()
	a, err := s.AddNumber(Int32(1))
	require.NoError(t, err)
	b, err := s.AddNumber(Int32(2))
	require.NoError(t, err)

	pairAddr, err := s.AddPair(a, b)
	require.NoError(t, err)

	left, right, err := s.GetPair(pairAddr)
	require.NoError(t, err)
	require.Equal(t, a, left)
	require.Equal(t, b, right)
}

func TestAddList_DuplicateAssociationKeys_LastWins(t *testing.T) {
	s := New()
	keyAddr, err := s.AddSymbol("a")
	require.NoError(t, err)
	v1, err := s.AddNumber(Int32(1))
	require.NoError(t, err)
	v2, err := s.AddNumber(Int32(2))
	require.NoError(t, err)

	pair1, err := s.AddPair(keyAddr, v1)
	require.NoError(t, err)
	pair2, err := s.AddPair(keyAddr, v2)
	require.NoError(t, err)

	listAddr, err := s.AddList([]Address{pair1, pair2})
	require.NoError(t, err)

	elements, associations, err := s.GetList(listAddr)
	require.NoError(t, err)
	require.Len(t, elements, 2)
	require.Len(t, associations, 1)
	require.Equal(t, pair2, associations[0])
}

func TestEqual_CrossKindNumeric(t *testing.T) {
	s := New()
	intAddr, err := s.AddNumber(Int32(5))
	require.NoError(t, err)
	floatAddr, err := s.AddNumber(Float64(5.0))
	require.NoError(t, err)

	eq, err := s.Equal(intAddr, floatAddr)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestEqual_Ranges_NormalizedEndpoints(t *testing.T) {
	s := New()
	one, err := s.AddNumber(Int32(1))
	require.NoError(t, err)
	five, err := s.AddNumber(Int32(5))
	require.NoError(t, err)
	r1, err := s.AddRange(one, five)
	require.NoError(t, err)
	r2, err := s.AddRange(one, five)
	require.NoError(t, err)

	eq, err := s.Equal(r1, r2)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestGetNumber_NonNumber_TypeMismatch(t *testing.T) {
	// The store layer reports a non-Number operand as GetNumber's
	// TypeMismatch; the runtime's MakeRange turns that into a Unit result
	// rather than an error.
	s := New()
	_, err := s.GetNumber(AddrUnit)
	require.Error(t, err)
	require.True(t, Is(err, CategoryTypeMismatch))
}

func TestCompact_PreservesRetainedAndSingletons(t *testing.T) {
	s := New()
	a, err := s.AddNumber(Int32(1))
	require.NoError(t, err)
	b, err := s.AddNumber(Int32(2))
	require.NoError(t, err)
	pairAddr, err := s.AddPair(a, b)
	require.NoError(t, err)
	// garbage, unreferenced by retain
	_, err = s.AddNumber(Int32(99))
	require.NoError(t, err)

	remap, err := s.Compact([]Address{pairAddr})
	require.NoError(t, err)

	newPairAddr, ok := remap[pairAddr]
	require.True(t, ok)
	left, right, err := s.GetPair(newPairAddr)
	require.NoError(t, err)

	leftNum, err := s.GetNumber(left)
	require.NoError(t, err)
	rightNum, err := s.GetNumber(right)
	require.NoError(t, err)
	require.EqualValues(t, 1, leftNum.Int)
	require.EqualValues(t, 2, rightNum.Int)
}

func TestCapacityExceeded(t *testing.T) {
	s := New(WithMaxItems(4)) // 3 singletons + 1 more allowed
	_, err := s.AddNumber(Int32(1))
	require.NoError(t, err)
	_, err = s.AddNumber(Int32(2))
	require.Error(t, err)
	require.True(t, Is(err, CategoryCapacityExceeded))
}
