package opbind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/builtin"
	"kqlbind/internal/diag"
	"kqlbind/internal/symbol"
)

func table(name string, cols ...*symbol.Column) *symbol.Table {
	return symbol.NewTable(name, cols, false)
}

func names(t *symbol.Table) []string {
	out := make([]string, len(t.Columns()))
	for i, c := range t.Columns() {
		out[i] = c.Name()
	}
	return out
}

func TestFilterAcceptsBoolPredicate(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long))
	res := Filter(in, diag.Location{}, builtin.Bool)
	require.True(t, res.Diags.Empty())
	require.Same(t, in, res.RowScope)
}

func TestFilterRejectsNonBoolPredicate(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long))
	res := Filter(in, diag.Location{}, builtin.Long)
	require.False(t, res.Diags.Empty())
	require.Equal(t, diag.WrongArgumentType, res.Diags.Items()[0].Kind)
}

func TestFilterToleratesErrorPredicate(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long))
	res := Filter(in, diag.Location{}, symbol.ErrorType)
	require.True(t, res.Diags.Empty())
}

func TestExtendAppendsNewColumnAfterExisting(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long))
	res := Extend(in, diag.Location{}, []BoundAssignment{{Name: "b", Column: symbol.NewColumn("b", builtin.String)}})
	require.Equal(t, []string{"a", "b"}, names(res.RowScope))
}

func TestExtendRedeclareMovesColumnToEnd(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long), symbol.NewColumn("b", builtin.String))
	res := Extend(in, diag.Location{}, []BoundAssignment{{Column: symbol.NewColumn("a", builtin.Real)}})
	require.Equal(t, []string{"b", "a"}, names(res.RowScope))
	col, found := res.RowScope.Column("a")
	require.True(t, found)
	require.Same(t, builtin.Real, col.Type())
}

func TestProjectKeepsOnlyNamedColumnsInOrder(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long), symbol.NewColumn("b", builtin.String), symbol.NewColumn("c", builtin.Bool))
	res := Project(in, diag.Location{}, []ProjectSpec{
		{Assign: BoundAssignment{Column: in.Columns()[2]}},
		{Assign: BoundAssignment{Column: in.Columns()[0]}},
	})
	require.Equal(t, []string{"c", "a"}, names(res.RowScope))
}

func TestProjectWildcardReemitsEveryColumn(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long), symbol.NewColumn("b", builtin.String))
	res := Project(in, diag.Location{}, []ProjectSpec{{Wildcard: true}})
	require.Equal(t, []string{"a", "b"}, names(res.RowScope))
}

func TestProjectAwayRemovesNamedColumns(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long), symbol.NewColumn("b", builtin.String), symbol.NewColumn("c", builtin.Bool))
	res := ProjectAway(in, diag.Location{}, []string{"b"})
	require.Equal(t, []string{"a", "c"}, names(res.RowScope))
}

func TestProjectRenameRenamesInPlace(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long), symbol.NewColumn("b", builtin.String))
	res := ProjectRename(in, diag.Location{}, map[string]string{"a": "a2"})
	require.True(t, res.Diags.Empty())
	require.Equal(t, []string{"a2", "b"}, names(res.RowScope))
}

func TestProjectRenameFlagsUnknownColumn(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long))
	res := ProjectRename(in, diag.Location{}, map[string]string{"missing": "x"})
	require.False(t, res.Diags.Empty())
	require.Equal(t, diag.UndefinedName, res.Diags.Items()[0].Kind)
}

func TestProjectReorderMovesNamedColumnsFirst(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long), symbol.NewColumn("b", builtin.String), symbol.NewColumn("c", builtin.Bool))
	res := ProjectReorder(in, diag.Location{}, []string{"c"})
	require.Equal(t, []string{"c", "a", "b"}, names(res.RowScope))
}

func TestSummarizeCombinesByAndAggregateColumns(t *testing.T) {
	res := Summarize("T", diag.Location{},
		[]BoundAssignment{{Column: symbol.NewColumn("country", builtin.String)}},
		[]BoundAssignment{{Name: "total", Column: symbol.NewColumn("sum_x", builtin.Long)}},
	)
	require.True(t, res.Diags.Empty())
	require.Equal(t, []string{"country", "total"}, names(res.RowScope))
}

func TestSummarizeFlagsDuplicateOutputName(t *testing.T) {
	res := Summarize("T", diag.Location{},
		[]BoundAssignment{{Column: symbol.NewColumn("total", builtin.String)}},
		[]BoundAssignment{{Name: "total", Column: symbol.NewColumn("sum_x", builtin.Long)}},
	)
	require.False(t, res.Diags.Empty())
	require.Equal(t, diag.DuplicateColumnDeclaration, res.Diags.Items()[0].Kind)
}

func TestDistinctWithNoColumnsKeepsAll(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long), symbol.NewColumn("b", builtin.String))
	res := Distinct(in, diag.Location{}, nil)
	require.Same(t, in, res.RowScope)
}

func TestDistinctRestrictsToNamedColumns(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long), symbol.NewColumn("b", builtin.String))
	res := Distinct(in, diag.Location{}, []string{"b"})
	require.Equal(t, []string{"b"}, names(res.RowScope))
}

func TestDistinctRejectsRepeatedColumnName(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Long), symbol.NewColumn("b", builtin.String))
	res := Distinct(in, diag.Location{}, []string{"a", "a"})
	require.False(t, res.Diags.Empty())
	require.Equal(t, diag.DuplicateColumnDeclaration, res.Diags.Items()[0].Kind)
}

func TestMakeSeriesCombinesByAndSeriesColumns(t *testing.T) {
	res := MakeSeries("T", diag.Location{},
		[]BoundAssignment{{Name: "avg_x", Column: symbol.NewColumn("avg_x", builtin.Real)}},
		[]BoundAssignment{{Column: symbol.NewColumn("country", builtin.String)}},
	)
	require.True(t, res.Diags.Empty())
	require.Equal(t, []string{"country", "avg_x"}, names(res.RowScope))
}

func TestJoinUniquifiesCollidingColumnNames(t *testing.T) {
	left := table("L", symbol.NewColumn("id", builtin.Long), symbol.NewColumn("name", builtin.String))
	right := table("R", symbol.NewColumn("id", builtin.Long), symbol.NewColumn("amount", builtin.Real))
	res := Join(left, right, JoinInner, diag.Location{})
	require.Equal(t, []string{"id_1", "name", "id_2", "amount"}, names(res.RowScope))
}

func TestJoinLeftSemiProjectsLeftOnly(t *testing.T) {
	left := table("L", symbol.NewColumn("id", builtin.Long))
	right := table("R", symbol.NewColumn("id", builtin.Long), symbol.NewColumn("amount", builtin.Real))
	res := Join(left, right, JoinLeftSemi, diag.Location{})
	require.Same(t, left, res.RowScope)
}

func TestLookupRequiresOnClause(t *testing.T) {
	left := table("L", symbol.NewColumn("id", builtin.Long))
	right := table("R", symbol.NewColumn("id", builtin.Long))
	res := Lookup(left, right, false, diag.Location{})
	require.False(t, res.Diags.Empty())
	require.Equal(t, diag.MissingJoinOn, res.Diags.Items()[0].Kind)
}

func TestLookupWithOnBehavesAsLeftOuterJoin(t *testing.T) {
	left := table("L", symbol.NewColumn("id", builtin.Long))
	right := table("R", symbol.NewColumn("id", builtin.Long), symbol.NewColumn("amount", builtin.Real))
	res := Lookup(left, right, true, diag.Location{})
	require.True(t, res.Diags.Empty())
	require.Equal(t, []string{"id_1", "id_2", "amount"}, names(res.RowScope))
}

func TestUnionOuterWidensAcrossTables(t *testing.T) {
	a := table("A", symbol.NewColumn("x", builtin.Int))
	b := table("B", symbol.NewColumn("x", builtin.Long))
	res := Union("U", "outer", []*symbol.Table{a, b})
	require.Equal(t, []string{"x"}, names(res.RowScope))
}

func TestUnionInnerKeepsOnlyCommonColumns(t *testing.T) {
	a := table("A", symbol.NewColumn("x", builtin.Long), symbol.NewColumn("y", builtin.String))
	b := table("B", symbol.NewColumn("x", builtin.Long))
	res := Union("U", "inner", []*symbol.Table{a, b})
	require.Equal(t, []string{"x"}, names(res.RowScope))
}

func TestRangeProducesSingleColumnTable(t *testing.T) {
	res := Range("r", builtin.Long)
	require.Equal(t, []string{"r"}, names(res.RowScope))
}

func TestMvExpandRetypesExpandedColumnOnly(t *testing.T) {
	in := table("T", symbol.NewColumn("a", builtin.Dynamic), symbol.NewColumn("b", builtin.String))
	res := MvExpand(in, diag.Location{}, map[string]symbol.Type{"a": builtin.Long})
	col, found := res.RowScope.Column("a")
	require.True(t, found)
	require.Same(t, builtin.Long, col.Type())
	other, found := res.RowScope.Column("b")
	require.True(t, found)
	require.Same(t, builtin.String, other.Type())
}

func TestFindSearchUnifiesCandidatesByName(t *testing.T) {
	a := table("A", symbol.NewColumn("x", builtin.Long))
	b := table("B", symbol.NewColumn("x", builtin.Long), symbol.NewColumn("y", builtin.String))
	res := FindSearch("found", []*symbol.Table{a, b})
	require.Equal(t, []string{"x", "y"}, names(res.RowScope))
}

func TestCountProducesLongCountColumn(t *testing.T) {
	res := Count()
	require.Equal(t, []string{"Count"}, names(res.RowScope))
	col, _ := res.RowScope.Column("Count")
	require.Same(t, builtin.Long, col.Type())
}

func TestValidJoinKindRejectsUnknownKind(t *testing.T) {
	_, ok := ValidJoinKind("bogus")
	require.False(t, ok)
}
