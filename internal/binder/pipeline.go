package binder

import (
	"kqlbind/internal/ast"
	"kqlbind/internal/diag"
	"kqlbind/internal/opbind"
	"kqlbind/internal/scope"
	"kqlbind/internal/symbol"
)

// bindPipeline binds pipeline.Source, then threads the resulting row
// scope through every operator left to right (spec §5's ordering
// guarantee), recording the Context in effect after each node so
// GetRowScope/GetSymbolsInScope can answer queries about it later.
func (b *Binder) bindPipeline(ctx *scope.Context, pipeline *ast.Pipeline, diags *diag.Bag) (*symbol.Table, error) {
	row, err := b.bindSource(ctx, diags, pipeline.Source)
	if err != nil {
		return nil, err
	}
	ctx = ctx.WithRowScope(row)
	b.rememberScope(pipeline.Source, ctx)

	for _, op := range pipeline.Operators {
		result := b.bindOperator(ctx, op)
		diags.Extend(&result.Diags)
		if result.RowScope != nil {
			ctx = ctx.WithRowScope(result.RowScope)
		}
		b.rememberScope(op, ctx)
	}
	return ctx.RowScope(), nil
}

// bindSource resolves the table/function-call expression a pipeline
// starts from into its initial row scope.
func (b *Binder) bindSource(ctx *scope.Context, diags *diag.Bag, source ast.Expr) (*symbol.Table, error) {
	switch src := source.(type) {
	case *ast.NameRef:
		if resolved, ok := ctx.Lookup(src.Name); ok {
			switch sym := resolved.Symbol.(type) {
			case *symbol.Table:
				return sym, nil
			case *symbol.Variable:
				if t, isTable := sym.Type().(*symbol.Table); isTable {
					return t, nil
				}
			case *symbol.Group:
				diags.Addf(diag.AmbiguousName, src.Location(), "%q resolves to more than one symbol in this scope", src.Name)
				return symbol.NewTable(src.Name, nil, true), nil
			}
			diags.Addf(diag.NotAFunction, src.Location(), "%q is not a table", src.Name)
			return symbol.NewTable(src.Name, nil, true), nil
		}
		if ctx.Database() != nil && ctx.Database().IsOpen() {
			return ctx.OpenTable(src.Name), nil
		}
		diags.Addf(diag.UndefinedName, src.Location(), "%q is not a recognized table name", src.Name)
		return symbol.NewTable(src.Name, nil, true), nil
	case *ast.Call:
		info := b.bindCall(ctx, diags, src)
		if t, isTable := info.ResultType.(*symbol.Table); isTable {
			return t, nil
		}
		diags.Addf(diag.NotAFunction, src.Location(), "%s does not produce a tabular result", src.Name)
		return symbol.NewTable(src.Name, nil, true), nil
	case *ast.DataTable:
		t, _ := b.bindExpr(ctx, diags, src).ResultType.(*symbol.Table)
		if t == nil {
			t = symbol.NewTable("datatable", nil, false)
		}
		return t, nil
	case *ast.Path:
		info := b.bindExpr(ctx, diags, src)
		if t, isTable := info.ResultType.(*symbol.Table); isTable {
			return t, nil
		}
		diags.Addf(diag.NotAFunction, src.Location(), "path does not resolve to a table")
		return symbol.NewTable("source", nil, true), nil
	default:
		diags.Addf(diag.MalformedTypeExpression, source.Location(), "pipeline source must be a table reference")
		return symbol.NewTable("source", nil, true), nil
	}
}

// bindAssignment binds one `name = expr` clause into a BoundAssignment,
// deriving an output column name when Name is empty the way spec §4.5
// describes: a bare column reference carries its own name through, a
// function call follows its Function.ResultNameKind, anything else
// (a literal, a binary or unary expression, ...) is named "Column1".
func (b *Binder) bindAssignment(ctx *scope.Context, diags *diag.Bag, a ast.Assignment) opbind.BoundAssignment {
	info := b.bindExpr(ctx, diags, a.Expr)
	name := a.Name
	if name == "" {
		name = b.deriveColumnName(a.Expr, info)
	}
	col := symbol.NewColumn(name, info.ResultType)
	return opbind.BoundAssignment{Name: "", Column: col}
}

func (b *Binder) deriveColumnName(expr ast.Expr, info SemanticInfo) string {
	switch e := expr.(type) {
	case *ast.NameRef:
		return e.Name
	case *ast.Call:
		fn, isFunction := info.ReferencedSymbol.(*symbol.Function)
		if !isFunction {
			return e.Name
		}
		switch fn.ResultNameKind() {
		case symbol.ResultNameFixed:
			return fn.ResultNamePrefix()
		case symbol.ResultNameFromCallText:
			if len(e.Args) > 0 {
				return fn.ResultNamePrefix() + "_" + b.deriveColumnName(e.Args[0], SemanticInfo{})
			}
			return fn.ResultNamePrefix()
		case symbol.ResultNameFromFirstArgument:
			if len(e.Args) > 0 {
				return b.deriveColumnName(e.Args[0], SemanticInfo{})
			}
			return e.Name
		default:
			return e.Name
		}
	case *ast.Literal:
		return "Column1"
	default:
		return "Column1"
	}
}

func (b *Binder) bindAssignments(ctx *scope.Context, diags *diag.Bag, assignments []ast.Assignment) []opbind.BoundAssignment {
	out := make([]opbind.BoundAssignment, len(assignments))
	for i, a := range assignments {
		out[i] = b.bindAssignment(ctx, diags, a)
	}
	return out
}
