package typesys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/symbol"
)

func TestAssignableScalarPromotion(t *testing.T) {
	long := symbol.NewScalar("long", symbol.FlagInteger|symbol.FlagNumeric, nil)
	intT := symbol.NewScalar("int", symbol.FlagInteger|symbol.FlagNumeric, long)

	require.True(t, AssignableScalar(intT, long, Promotable))
	require.False(t, AssignableScalar(long, intT, Promotable))
	require.True(t, AssignableScalar(long, intT, Compatible))
	require.False(t, AssignableScalar(intT, long, None))
	require.True(t, AssignableScalar(intT, intT, None))
}

func TestTableAssignableRequiresSubsetColumns(t *testing.T) {
	long := symbol.NewScalar("long", symbol.FlagInteger|symbol.FlagNumeric, nil)
	str := symbol.NewScalar("string", 0, nil)

	wide := symbol.NewTable("wide", []*symbol.Column{
		symbol.NewColumn("a", long),
		symbol.NewColumn("b", str),
	}, false)
	narrow := symbol.NewTable("narrow", []*symbol.Column{
		symbol.NewColumn("a", long),
	}, false)

	require.True(t, TableAssignable(wide, narrow, None))
	require.False(t, TableAssignable(narrow, wide, None))
}

func TestCommonTypePrefersConcreteOverDynamic(t *testing.T) {
	dynamic := symbol.NewScalar("dynamic", symbol.FlagDynamic, nil)
	long := symbol.NewScalar("long", symbol.FlagInteger|symbol.FlagNumeric, nil)
	intT := symbol.NewScalar("int", symbol.FlagInteger|symbol.FlagNumeric, long)

	best, ok := CommonType([]symbol.Type{dynamic, intT, long})
	require.True(t, ok)
	require.Equal(t, symbol.Type(long), best)
}

func TestWidestPicksWidestNumeric(t *testing.T) {
	long := symbol.NewScalar("long", symbol.FlagInteger|symbol.FlagNumeric, nil)
	real := symbol.NewScalar("real", symbol.FlagNumeric, nil)
	_ = real
	intT := symbol.NewScalar("int", symbol.FlagInteger|symbol.FlagNumeric, long)

	best, ok := Widest([]*symbol.ScalarType{intT, long})
	require.True(t, ok)
	require.Equal(t, long, best)
}
