package hostctx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evlang/evlang/store"
)

func TestEmpty_AlwaysDeclines(t *testing.T) {
	var ctx Context = Empty{}
	s := store.New()

	handled, err := ctx.Resolve(s, 12345)
	require.NoError(t, err)
	require.False(t, handled)

	handled, err = ctx.Apply(s, 1, store.AddrUnit)
	require.NoError(t, err)
	require.False(t, handled)
}
