package binder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/ast"
	"kqlbind/internal/builtin"
	"kqlbind/internal/catalog"
	"kqlbind/internal/diag"
	"kqlbind/internal/expand"
	"kqlbind/internal/symbol"
)

func testTable(name string, open bool, cols ...*symbol.Column) *symbol.Table {
	return symbol.NewTable(name, cols, open)
}

func singleTableCatalog(t *symbol.Table) catalog.Catalog {
	db := symbol.NewDatabase("Default", []*symbol.Table{t}, nil, nil, false)
	return catalog.SingleDatabase("Default", db, false)
}

func ref(name string) *ast.NameRef { return &ast.NameRef{Name: name} }

func pipeline(source ast.Expr, ops ...*ast.Operator) *ast.Pipeline {
	return &ast.Pipeline{Source: source, Operators: ops}
}

func TestBindPipelineFilterNarrowsNothingButValidatesPredicateType(t *testing.T) {
	events := testTable("Events", false,
		symbol.NewColumn("Name", builtin.String),
		symbol.NewColumn("Count", builtin.Long),
	)
	b := New(singleTableCatalog(events), expand.NewCache())

	p := pipeline(ref("Events"), &ast.Operator{
		Kind:      ast.OpFilter,
		Predicate: &ast.Binary{Op: "==", Left: ref("Name"), Right: &ast.Literal{Value: "x", ScalarName: "string"}},
	})

	res, err := b.Bind(p)
	require.NoError(t, err)
	require.True(t, res.Diags.Empty())
	require.ElementsMatch(t, []string{"Name", "Count"}, columnNames(res.RowScope))
}

func TestBindPipelineFilterRejectsNonBoolPredicate(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Name", builtin.String))
	b := New(singleTableCatalog(events), expand.NewCache())

	p := pipeline(ref("Events"), &ast.Operator{Kind: ast.OpFilter, Predicate: ref("Name")})

	res, err := b.Bind(p)
	require.NoError(t, err)
	require.False(t, res.Diags.Empty())
}

func TestBindPipelineUndefinedSourceTableReportsDiagnostic(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Name", builtin.String))
	b := New(singleTableCatalog(events), expand.NewCache())

	p := pipeline(ref("Missing"))
	res, err := b.Bind(p)
	require.NoError(t, err)
	require.False(t, res.Diags.Empty())
	require.Equal(t, "Missing", res.RowScope.Name())
}

func TestBindPipelineOpenDatabaseSynthesizesUnknownTable(t *testing.T) {
	db := symbol.NewDatabase("Default", nil, nil, nil, true)
	snap := catalog.SingleDatabase("Default", db, false)
	b := New(snap, expand.NewCache())

	p := pipeline(ref("UnknownTable"))
	res, err := b.Bind(p)
	require.NoError(t, err)
	require.True(t, res.Diags.Empty())
	require.True(t, res.RowScope.IsOpen())
}

func TestBindPipelineExtendAddsComputedColumn(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Count", builtin.Long))
	b := New(singleTableCatalog(events), expand.NewCache())

	p := pipeline(ref("Events"), &ast.Operator{
		Kind: ast.OpExtend,
		Assignments: []ast.Assignment{
			{Name: "Doubled", Expr: &ast.Binary{Op: "+", Left: ref("Count"), Right: ref("Count")}},
		},
	})

	res, err := b.Bind(p)
	require.NoError(t, err)
	require.True(t, res.Diags.Empty())
	require.ElementsMatch(t, []string{"Count", "Doubled"}, columnNames(res.RowScope))
}

func TestBindPipelineProjectKeepsNamedColumnsInOrder(t *testing.T) {
	events := testTable("Events", false,
		symbol.NewColumn("Name", builtin.String),
		symbol.NewColumn("Count", builtin.Long),
	)
	b := New(singleTableCatalog(events), expand.NewCache())

	p := pipeline(ref("Events"), &ast.Operator{
		Kind:    ast.OpProject,
		Columns: []ast.ColumnSpec{{Name: "Count"}, {Name: "Name"}},
	})

	res, err := b.Bind(p)
	require.NoError(t, err)
	require.True(t, res.Diags.Empty())
	require.Equal(t, []string{"Count", "Name"}, columnNames(res.RowScope))
}

func TestBindPipelineProjectUndefinedColumnReportsDiagnostic(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Name", builtin.String))
	b := New(singleTableCatalog(events), expand.NewCache())

	p := pipeline(ref("Events"), &ast.Operator{
		Kind:    ast.OpProject,
		Columns: []ast.ColumnSpec{{Name: "Bogus"}},
	})

	res, err := b.Bind(p)
	require.NoError(t, err)
	require.False(t, res.Diags.Empty())
}

func TestBindPipelineSummarizeProducesByAndAggregateColumns(t *testing.T) {
	events := testTable("Events", false,
		symbol.NewColumn("Name", builtin.String),
		symbol.NewColumn("Count", builtin.Long),
	)
	b := New(singleTableCatalog(events), expand.NewCache())

	p := pipeline(ref("Events"), &ast.Operator{
		Kind:        ast.OpSummarize,
		Assignments: []ast.Assignment{{Name: "Total", Expr: ref("Count")}},
		By:          []ast.Assignment{{Name: "", Expr: ref("Name")}},
	})

	res, err := b.Bind(p)
	require.NoError(t, err)
	require.True(t, res.Diags.Empty())
	require.ElementsMatch(t, []string{"Name", "Total"}, columnNames(res.RowScope))
}

func TestBindPipelineJoinUniquifiesCollidingColumns(t *testing.T) {
	left := testTable("Left", false, symbol.NewColumn("Key", builtin.Long), symbol.NewColumn("Value", builtin.String))
	right := testTable("Right", false, symbol.NewColumn("Key", builtin.Long), symbol.NewColumn("Value", builtin.String))

	db := symbol.NewDatabase("Default", []*symbol.Table{left, right}, nil, nil, false)
	snap := catalog.SingleDatabase("Default", db, false)
	b := New(snap, expand.NewCache())

	p := pipeline(ref("Left"), &ast.Operator{
		Kind:     ast.OpJoin,
		JoinKind: "inner",
		Right:    pipeline(ref("Right")),
		On:       []ast.Expr{&ast.Binary{Op: "==", Left: ref("Key"), Right: ref("Key")}},
	})

	res, err := b.Bind(p)
	require.NoError(t, err)
	require.True(t, res.Diags.Empty())
	require.ElementsMatch(t, []string{"Key_1", "Value_1", "Key_2", "Value_2"}, columnNames(res.RowScope))
}

func TestBindPipelineLookupWithoutOnReportsMissingJoinOn(t *testing.T) {
	left := testTable("Left", false, symbol.NewColumn("Key", builtin.Long))
	right := testTable("Right", false, symbol.NewColumn("Key", builtin.Long))

	db := symbol.NewDatabase("Default", []*symbol.Table{left, right}, nil, nil, false)
	snap := catalog.SingleDatabase("Default", db, false)
	b := New(snap, expand.NewCache())

	p := pipeline(ref("Left"), &ast.Operator{
		Kind:  ast.OpLookup,
		Right: pipeline(ref("Right")),
	})

	res, err := b.Bind(p)
	require.NoError(t, err)
	require.False(t, res.Diags.Empty())
}

func TestBindCallResolvesTableFunctionReturnType(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Name", builtin.String))
	b := New(singleTableCatalog(events), expand.NewCache())

	p := pipeline(&ast.Call{Name: "table", Args: []ast.Expr{&ast.Literal{Value: "Events", ScalarName: "string"}}})
	res, err := b.Bind(p)
	require.NoError(t, err)
	require.True(t, res.Diags.Empty())
	require.Equal(t, "Events", res.RowScope.Name())
}

func TestBindCallUnknownFunctionReportsDiagnostic(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Name", builtin.String))
	b := New(singleTableCatalog(events), expand.NewCache())

	p := pipeline(&ast.Call{Name: "totallyNotAFunction", Args: nil})
	res, err := b.Bind(p)
	require.NoError(t, err)
	require.False(t, res.Diags.Empty())
}

func TestBindPipelineCountProducesLongColumn(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Name", builtin.String))
	b := New(singleTableCatalog(events), expand.NewCache())

	p := pipeline(ref("Events"), &ast.Operator{Kind: ast.OpCount})
	res, err := b.Bind(p)
	require.NoError(t, err)
	require.True(t, res.Diags.Empty())
	require.Equal(t, []string{"Count"}, columnNames(res.RowScope))
}

func TestGetRowScopeReturnsSchemaAtGivenNode(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Name", builtin.String))
	b := New(singleTableCatalog(events), expand.NewCache())

	extendOp := &ast.Operator{
		Kind:        ast.OpExtend,
		Assignments: []ast.Assignment{{Name: "Upper", Expr: ref("Name")}},
	}
	p := pipeline(ref("Events"), extendOp)

	_, err := b.Bind(p)
	require.NoError(t, err)

	row, ok := b.GetRowScope(extendOp)
	require.True(t, ok)
	require.ElementsMatch(t, []string{"Name", "Upper"}, columnNames(row))
}

func TestBindPipelineComputedFunctionExpandsBody(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Count", builtin.Long))
	snap := singleTableCatalog(events)
	cache := expand.NewCache()
	b := New(snap, cache)

	sig := symbol.NewComputedSignature([]*symbol.Parameter{symbol.NewParameter("t", symbol.ParamTabular)}, "t | project Count")
	cache.RegisterBody(sig, pipeline(&ast.NameRef{Name: "t"}, &ast.Operator{
		Kind:    ast.OpProject,
		Columns: []ast.ColumnSpec{{Name: "Count"}},
	}))

	result, err := b.GetComputedReturnType(sig, []symbol.Type{events}, nil)
	require.NoError(t, err)
	table, isTable := result.(*symbol.Table)
	require.True(t, isTable)
	require.Equal(t, []string{"Count"}, columnNames(table))
}

func TestBindOperatorAsDeclaresLocalVisibleDownstream(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Name", builtin.String))
	b := New(singleTableCatalog(events), expand.NewCache())

	p := pipeline(ref("Events"),
		&ast.Operator{Kind: ast.OpAs, Name: "Result"},
		&ast.Operator{Kind: ast.OpExtend, Assignments: []ast.Assignment{
			{Name: "Seen", Expr: ref("Result")},
		}},
	)

	res, err := b.Bind(p)
	require.NoError(t, err)
	require.True(t, res.Diags.Empty())
	require.Contains(t, columnNames(res.RowScope), "Seen")
}

func TestBindNameRefReportsAmbiguousNameForTableAndFunctionCollision(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Name", builtin.String))
	fn := symbol.NewFunction("Events", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature(nil, builtin.Long)}, 0, "", symbol.ResultNameNone)
	db := symbol.NewDatabase("Default", []*symbol.Table{events}, []*symbol.Function{fn}, nil, false)
	snap := catalog.SingleDatabase("Default", db, false)
	b := New(snap, expand.NewCache())

	p := pipeline(ref("Events"), &ast.Operator{Kind: ast.OpExtend, Assignments: []ast.Assignment{
		{Name: "X", Expr: ref("Events")},
	}})

	res, err := b.Bind(p)
	require.NoError(t, err)
	require.False(t, res.Diags.Empty())
	require.Equal(t, diag.AmbiguousName, res.Diags.Items()[0].Kind)
}

func TestBindNameRefToFunctionRequiringArgumentsReportsDiagnostic(t *testing.T) {
	events := testTable("Events", false, symbol.NewColumn("Name", builtin.String))
	fn := symbol.NewFunction("NeedsArg", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature([]*symbol.Parameter{symbol.NewParameter("x", symbol.ParamScalar)}, builtin.Long)},
		0, "", symbol.ResultNameNone)
	db := symbol.NewDatabase("Default", []*symbol.Table{events}, []*symbol.Function{fn}, nil, false)
	snap := catalog.SingleDatabase("Default", db, false)
	b := New(snap, expand.NewCache())

	p := pipeline(ref("Events"), &ast.Operator{Kind: ast.OpExtend, Assignments: []ast.Assignment{
		{Name: "X", Expr: ref("NeedsArg")},
	}})

	res, err := b.Bind(p)
	require.NoError(t, err)
	require.False(t, res.Diags.Empty())
	require.Equal(t, diag.FunctionRequiresArguments, res.Diags.Items()[0].Kind)
}

func columnNames(t *symbol.Table) []string {
	var out []string
	for _, c := range t.Columns() {
		out = append(out, c.Name())
	}
	return out
}
