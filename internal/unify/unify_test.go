package unify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/builtin"
	"kqlbind/internal/symbol"
)

func table(name string, cols ...*symbol.Column) *symbol.Table {
	return symbol.NewTable(name, cols, false)
}

func TestUnifyByNameMergesAcrossTablesWidening(t *testing.T) {
	a := table("a", symbol.NewColumn("id", builtin.Int), symbol.NewColumn("name", builtin.String))
	b := table("b", symbol.NewColumn("id", builtin.Long), symbol.NewColumn("extra", builtin.Bool))

	result := UnifyByName(a, b)
	require.Len(t, result.Columns, 3)

	id, ok := find(result.Columns, "id")
	require.True(t, ok)
	require.Equal(t, builtin.Long, id.Type())
}

func TestUnifyByNameAndTypeDropsDisagreement(t *testing.T) {
	a := table("a", symbol.NewColumn("x", builtin.String))
	b := table("b", symbol.NewColumn("x", builtin.Bool))

	result := UnifyByNameAndType(a, b)
	_, ok := find(result.Columns, "x")
	require.False(t, ok)
	require.NotEmpty(t, result.Warnings)
}

func TestCommonColumnsRequiresPresenceEverywhere(t *testing.T) {
	a := table("a", symbol.NewColumn("id", builtin.Long), symbol.NewColumn("only_a", builtin.String))
	b := table("b", symbol.NewColumn("id", builtin.Long))

	result := CommonColumns(a, b)
	require.Len(t, result.Columns, 1)
	require.Equal(t, "id", result.Columns[0].Name())
}

func find(cols []*symbol.Column, name string) (*symbol.Column, bool) {
	for _, c := range cols {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}
