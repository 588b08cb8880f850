package binder

import (
	"kqlbind/internal/ast"
	"kqlbind/internal/builtin"
	"kqlbind/internal/diag"
	"kqlbind/internal/opbind"
	"kqlbind/internal/scope"
	"kqlbind/internal/symbol"
)

// bindOperator binds one pipe stage's operands against ctx and computes
// its new row scope via internal/opbind, the division of labor the
// opbind package's doc comment describes: this file walks the tree and
// binds expressions, opbind computes the resulting schema from already-
// bound pieces.
func (b *Binder) bindOperator(ctx *scope.Context, op *ast.Operator) opbind.Result {
	in := ctx.RowScope()
	var diags diag.Bag

	switch op.Kind {
	case ast.OpFilter:
		info := b.bindExprCollecting(ctx, &diags, op.Predicate)
		return withDiags(opbind.Filter(in, op.Loc, info.ResultType), diags)

	case ast.OpExtend:
		return withDiags(opbind.Extend(in, op.Loc, b.bindAssignments(ctx, &diags, op.Assignments)), diags)

	case ast.OpProject, ast.OpProjectKeep:
		specs := b.bindProjectSpecs(ctx, &diags, op)
		return withDiags(opbind.Project(in, op.Loc, specs), diags)

	case ast.OpProjectAway:
		return opbind.ProjectAway(in, op.Loc, columnSpecNames(op.Columns))

	case ast.OpProjectRename:
		renames := map[string]string{}
		for _, a := range op.Assignments {
			if ref, isRef := a.Expr.(*ast.NameRef); isRef {
				renames[foldKey(ref.Name)] = a.Name
			}
		}
		return opbind.ProjectRename(in, op.Loc, renames)

	case ast.OpProjectReorder:
		return opbind.ProjectReorder(in, op.Loc, columnSpecNames(op.Columns))

	case ast.OpSummarize:
		aggregates := b.bindAssignments(ctx, &diags, op.Assignments)
		by := b.bindAssignments(ctx, &diags, op.By)
		return withDiags(opbind.Summarize(in.Name(), op.Loc, by, aggregates), diags)

	case ast.OpDistinct:
		return opbind.Distinct(in, op.Loc, columnSpecNames(op.Columns))

	case ast.OpTop, ast.OpTake, ast.OpSort, ast.OpSample, ast.OpSampleDistinct,
		ast.OpSerialize, ast.OpTopHitters, ast.OpTopNested:
		for _, a := range op.By {
			b.bindExprCollecting(ctx, &diags, a.Expr)
		}
		for _, a := range op.Assignments {
			b.bindExprCollecting(ctx, &diags, a.Expr)
		}
		return withDiags(opbind.PassThrough(in), diags)

	case ast.OpAs:
		named := symbol.NewTable(op.Name, in.Columns(), in.IsOpen())
		ctx.DeclareLocal(op.Name, named)
		return opbind.Result{RowScope: named}

	case ast.OpJoin:
		kind, valid := opbind.ValidJoinKind(op.JoinKind)
		if !valid {
			diags.Addf(diag.MalformedTypeExpression, op.Loc, "unrecognized join kind %q", op.JoinKind)
			return opbind.Result{RowScope: in, Diags: diags}
		}
		right := b.bindJoinRight(ctx, op)
		b.bindJoinCondition(ctx, &diags, in, right, op.On)
		return withDiags(opbind.Join(in, right, kind, op.Loc), diags)

	case ast.OpLookup:
		right := b.bindJoinRight(ctx, op)
		b.bindJoinCondition(ctx, &diags, in, right, op.On)
		return withDiags(opbind.Lookup(in, right, len(op.On) > 0, op.Loc), diags)

	case ast.OpUnion:
		tables := []*symbol.Table{in}
		for _, src := range op.Sources {
			if t := b.bindUnionSource(ctx, src); t != nil {
				tables = append(tables, t)
			}
		}
		return opbind.Union(in.Name(), op.JoinKind, tables)

	case ast.OpMakeSeries:
		series := b.bindAssignments(ctx, &diags, op.Assignments)
		by := b.bindAssignments(ctx, &diags, op.By)
		return withDiags(opbind.MakeSeries(in.Name(), op.Loc, series, by), diags)

	case ast.OpMvExpand:
		expanded := map[string]symbol.Type{}
		elemType := symbol.Type(builtin.Dynamic)
		if op.ToType != nil {
			if t, ok := builtin.LookupScalar(op.ToType.ScalarName); ok {
				elemType = t
			}
		}
		for _, a := range op.Assignments {
			if ref, isRef := a.Expr.(*ast.NameRef); isRef {
				expanded[foldKey(ref.Name)] = elemType
			}
			b.bindExprCollecting(ctx, &diags, a.Expr)
		}
		return withDiags(opbind.MvExpand(in, op.Loc, expanded), diags)

	case ast.OpMvApply:
		rowScope := in
		if op.Inner != nil {
			row, err := b.bindPipeline(ctx.Child(), op.Inner, &diags)
			if err == nil && row != nil {
				rowScope = row
			}
		}
		return withDiags(opbind.PassThrough(rowScope), diags)

	case ast.OpFork, ast.OpPartition:
		var branches []*symbol.Table
		for _, branch := range op.Branches {
			row, err := b.bindPipeline(ctx.Child(), branch, &diags)
			if err == nil && row != nil {
				branches = append(branches, row)
			}
		}
		if len(branches) == 0 {
			return withDiags(opbind.Result{RowScope: in}, diags)
		}
		return withDiags(opbind.Union(in.Name(), "inner", branches), diags)

	case ast.OpFind, ast.OpSearch:
		var candidates []*symbol.Table
		for _, src := range op.Sources {
			if t := b.bindUnionSource(ctx, src); t != nil {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) == 0 {
			candidates = []*symbol.Table{in}
		}
		if op.Predicate != nil {
			b.bindExprCollecting(ctx, &diags, op.Predicate)
		}
		return withDiags(opbind.FindSearch(in.Name(), candidates), diags)

	case ast.OpRange:
		stepInfo := b.bindExprCollecting(ctx, &diags, op.Step)
		b.bindExprCollecting(ctx, &diags, op.From)
		b.bindExprCollecting(ctx, &diags, op.To)
		return withDiags(opbind.Range(op.Name, stepInfo.ResultType), diags)

	case ast.OpEvaluate, ast.OpInvoke:
		if op.Call != nil {
			info := b.bindExprCollecting(ctx, &diags, op.Call)
			if t, isTable := info.ResultType.(*symbol.Table); isTable {
				return opbind.Result{RowScope: t, Diags: diags}
			}
		}
		return withDiags(opbind.PassThrough(in), diags)

	case ast.OpCount:
		return opbind.Count()

	case ast.OpGetSchema:
		return opbind.FixedSchema("schema", symbol.NewColumn("ColumnName", builtin.String), symbol.NewColumn("ColumnType", builtin.String))

	case ast.OpRender, ast.OpPrint, ast.OpConsume, ast.OpExecuteAndCache, ast.OpParse, ast.OpReduce:
		for _, a := range op.Assignments {
			b.bindExprCollecting(ctx, &diags, a.Expr)
		}
		return withDiags(opbind.PassThrough(in), diags)

	default:
		diags.Addf(diag.MalformedTypeExpression, op.Loc, "unrecognized operator kind")
		return opbind.Result{RowScope: in, Diags: diags}
	}
}

// withDiags appends extra onto res's own diagnostics, letting the
// operator-binding layer in this file accumulate diagnostics raised
// while binding operands alongside whatever opbind itself reports.
func withDiags(res opbind.Result, extra diag.Bag) opbind.Result {
	res.Diags.Extend(&extra)
	return res
}

func (b *Binder) bindExprCollecting(ctx *scope.Context, diags *diag.Bag, expr ast.Expr) SemanticInfo {
	if expr == nil {
		return SemanticInfo{ResultType: symbol.ErrorType}
	}
	return b.bindExpr(ctx, diags, expr)
}

func (b *Binder) bindProjectSpecs(ctx *scope.Context, diags *diag.Bag, op *ast.Operator) []opbind.ProjectSpec {
	in := ctx.RowScope()
	var specs []opbind.ProjectSpec
	for _, c := range op.Columns {
		if c.Wildcard {
			specs = append(specs, opbind.ProjectSpec{Wildcard: true})
			continue
		}
		if col, found := in.Column(c.Name); found {
			specs = append(specs, opbind.ProjectSpec{Assign: opbind.BoundAssignment{Column: col}})
			continue
		}
		diags.Addf(diag.UndefinedName, op.Loc, "project: column %q not in row scope", c.Name)
	}
	for _, a := range op.Assignments {
		specs = append(specs, opbind.ProjectSpec{Assign: b.bindAssignment(ctx, diags, a)})
	}
	return specs
}

func columnSpecNames(cols []ast.ColumnSpec) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if !c.Wildcard {
			out = append(out, c.Name)
		}
	}
	return out
}

func (b *Binder) bindJoinRight(ctx *scope.Context, op *ast.Operator) *symbol.Table {
	if op.Right == nil {
		return symbol.NewTable("right", nil, true)
	}
	var diags diag.Bag
	row, err := b.bindPipeline(ctx.Child(), op.Right, &diags)
	if err != nil || row == nil {
		return symbol.NewTable("right", nil, true)
	}
	return row
}

func (b *Binder) bindJoinCondition(ctx *scope.Context, diags *diag.Bag, left, right *symbol.Table, on []ast.Expr) {
	joinCtx := ctx.WithRowScope(left).WithRightRowScope(right)
	for _, e := range on {
		b.bindExprCollecting(joinCtx, diags, e)
	}
}

func (b *Binder) bindUnionSource(ctx *scope.Context, src ast.Expr) *symbol.Table {
	var diags diag.Bag
	row, err := b.bindSource(ctx, &diags, src)
	if err != nil {
		return nil
	}
	return row
}

func foldKey(s string) string {
	bs := []byte(s)
	for i, c := range bs {
		if c >= 'A' && c <= 'Z' {
			bs[i] = c + ('a' - 'A')
		}
	}
	return string(bs)
}
