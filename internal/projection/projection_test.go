package projection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/builtin"
	"kqlbind/internal/diag"
	"kqlbind/internal/symbol"
)

func TestBuilderDeclareAddRename(t *testing.T) {
	b := NewBuilder()
	b.Add(symbol.NewColumn("id", builtin.Long), false, true)
	b.Rename("full_name", symbol.NewColumn("name", builtin.String))
	b.Declare(diag.Location{}, symbol.NewColumn("total", builtin.Real), true)

	table, diags := b.Build("result")
	require.True(t, diags.Empty())
	names := columnNames(table)
	require.Equal(t, []string{"id", "full_name", "total"}, names)

	from, ok := b.RenamedFrom("full_name")
	require.True(t, ok)
	require.Equal(t, "name", from)
}

func TestBuilderDoNotAddRemovesEarlierDecision(t *testing.T) {
	b := NewBuilder()
	b.Add(symbol.NewColumn("id", builtin.Long), false, true)
	b.Add(symbol.NewColumn("secret", builtin.String), false, true)
	b.DoNotAdd("secret")

	table, diags := b.Build("result")
	require.True(t, diags.Empty())
	require.Equal(t, []string{"id"}, columnNames(table))
}

func TestBuilderRedeclareMovesColumnToEnd(t *testing.T) {
	b := NewBuilder()
	b.Add(symbol.NewColumn("a", builtin.Long), false, true)
	b.Add(symbol.NewColumn("b", builtin.Long), false, true)
	b.Declare(diag.Location{}, symbol.NewColumn("a", builtin.String), true)

	table, diags := b.Build("result")
	require.True(t, diags.Empty())
	require.Equal(t, []string{"b", "a"}, columnNames(table))
	col, ok := table.Column("a")
	require.True(t, ok)
	require.Equal(t, builtin.String, col.Type())
}

func TestBuilderDeclareWithoutReplaceFlagsDuplicate(t *testing.T) {
	b := NewBuilder()
	b.Declare(diag.Location{}, symbol.NewColumn("a", builtin.Long), false)
	b.Declare(diag.Location{}, symbol.NewColumn("a", builtin.String), false)

	table, diags := b.Build("result")
	require.False(t, diags.Empty())
	require.Equal(t, diag.DuplicateColumnDeclaration, diags.Items()[0].Kind)
	col, ok := table.Column("a")
	require.True(t, ok)
	require.Equal(t, builtin.Long, col.Type())
}

func TestBuilderAddWithoutReplaceUniquifiesName(t *testing.T) {
	b := NewBuilder()
	b.Add(symbol.NewColumn("id", builtin.Long), false, true)
	b.Add(symbol.NewColumn("id", builtin.String), false, false)

	table, diags := b.Build("result")
	require.True(t, diags.Empty())
	require.Equal(t, []string{"id", "id1"}, columnNames(table))
}

func TestBuilderAddDoNotRepeatSkipsLaterColumn(t *testing.T) {
	b := NewBuilder()
	b.Add(symbol.NewColumn("id", builtin.Long), true, true)
	b.Add(symbol.NewColumn("id", builtin.String), true, true)

	table, diags := b.Build("result")
	require.True(t, diags.Empty())
	require.Equal(t, []string{"id"}, columnNames(table))
	col, ok := table.Column("id")
	require.True(t, ok)
	require.Equal(t, builtin.Long, col.Type())
}

func TestRequireUniqueRejectsCaseInsensitiveDuplicate(t *testing.T) {
	err := RequireUnique([]string{"Key", "value", "key"})
	require.Error(t, err)
}

func columnNames(t *symbol.Table) []string {
	var out []string
	for _, c := range t.Columns() {
		out = append(out, c.Name())
	}
	return out
}
