package scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/builtin"
	"kqlbind/internal/catalog"
	"kqlbind/internal/symbol"
)

func TestLookupResolvesLocalBeforeRow(t *testing.T) {
	row := symbol.NewTable("events", []*symbol.Column{symbol.NewColumn("id", builtin.Long)}, false)
	db := symbol.NewDatabase("db", []*symbol.Table{row}, nil, nil, false)
	cluster := symbol.NewCluster("cluster", []*symbol.Database{db}, false)

	ctx := Root(cluster, db, catalog.NewOpenRegistry())
	ctx = ctx.WithRowScope(row)

	_, ok := ctx.Lookup("id")
	require.True(t, ok)

	ctx.DeclareLocal("id", symbol.NewVariable("id", builtin.String))
	resolved, ok := ctx.Lookup("id")
	require.True(t, ok)
	require.Equal(t, LayerLocal, resolved.Layer)
}

func TestLookupColumnGrowsOpenRowScope(t *testing.T) {
	row := symbol.NewTable("events", nil, true)
	registry := catalog.NewOpenRegistry()
	ctx := Root(nil, nil, registry)
	ctx.clusterName, ctx.databaseName = "cluster", "db"
	ctx = ctx.WithRowScope(row)

	col, ok := ctx.LookupColumn("mystery")
	require.True(t, ok)
	require.Equal(t, "mystery", col.Name())

	_, ok = ctx.RowScope().Column("mystery")
	require.True(t, ok, "growth must be visible through the same context's row scope")
}

func TestLookupReturnsGroupWhenDatabaseNameIsAmbiguous(t *testing.T) {
	tbl := symbol.NewTable("Dup", nil, false)
	fn := symbol.NewFunction("Dup", symbol.KindFunction, nil, 0, "", symbol.ResultNameNone)
	db := symbol.NewDatabase("db", []*symbol.Table{tbl}, []*symbol.Function{fn}, nil, false)
	ctx := Root(nil, db, catalog.NewOpenRegistry())

	resolved, ok := ctx.Lookup("Dup")
	require.True(t, ok)
	require.Equal(t, LayerDatabase, resolved.Layer)
	group, isGroup := resolved.Symbol.(*symbol.Group)
	require.True(t, isGroup, "a name matching both a table and a function must resolve to a Group")
	require.Len(t, group.Symbols(), 2)
}

func TestChildScopeLocalsDoNotLeakToParent(t *testing.T) {
	ctx := Root(nil, nil, catalog.NewOpenRegistry())
	child := ctx.Child()
	child.DeclareLocal("x", symbol.NewConstant("x", builtin.Long, int64(1)))

	_, ok := child.Lookup("x")
	require.True(t, ok)

	_, ok = ctx.Lookup("x")
	require.False(t, ok)
}
