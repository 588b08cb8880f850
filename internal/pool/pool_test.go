package pool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/builtin"
	"kqlbind/internal/symbol"
)

func TestColumnSliceRoundTripsThroughPool(t *testing.T) {
	s := GetColumnSlice()
	require.Len(t, s, 0)
	s = append(s, symbol.NewColumn("a", builtin.Long))
	PutColumnSlice(s)

	s2 := GetColumnSlice()
	require.Len(t, s2, 0, "a reused buffer must be handed back at zero length")
}
