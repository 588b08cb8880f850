package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/symbol"
)

func TestOperatorRegistryHasArithmeticAndComparison(t *testing.T) {
	mul, ok := Operator(Mul)
	require.True(t, ok)
	require.NotEmpty(t, mul.Signatures())

	eq, ok := Operator(Equal)
	require.True(t, ok)
	require.Len(t, eq.Signatures(), 1)
}

func TestFunctionLookupIsCaseInsensitive(t *testing.T) {
	f, ok := Function("ToLower")
	require.True(t, ok)
	require.Equal(t, "tolower", f.Name())

	_, ok = Function("does_not_exist")
	require.False(t, ok)
}

func TestSumAggregateUsesPromotedReturn(t *testing.T) {
	sum, ok := Function("sum")
	require.True(t, ok)
	require.Equal(t, symbol.ReturnParameter0Promoted, sum.Signatures()[0].ReturnKind())
}
