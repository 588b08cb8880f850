package binder

import (
	"kqlbind/internal/ast"
	"kqlbind/internal/builtin"
	"kqlbind/internal/diag"
	"kqlbind/internal/scope"
	"kqlbind/internal/symbol"
)

// bindExpr binds expr bottom-up against ctx, recording its SemanticInfo
// and returning it. Every case that fails records a diagnostic and
// returns symbol.ErrorType rather than propagating a Go error: per
// spec §7 the binder is total, expressions never fail to produce *a*
// result, only possibly an Error one.
func (b *Binder) bindExpr(ctx *scope.Context, diags *diag.Bag, expr ast.Expr) SemanticInfo {
	var info SemanticInfo
	switch e := expr.(type) {
	case *ast.Literal:
		info = b.bindLiteral(e)
	case *ast.NameRef:
		info = b.bindNameRef(ctx, diags, e)
	case *ast.Star:
		info = SemanticInfo{ResultType: symbol.ErrorType}
	case *ast.LeftRef:
		info = b.bindSideRef(ctx.RowScope(), diags, e)
	case *ast.RightRef:
		info = b.bindSideRef(ctx.RightRowScope(), diags, e)
	case *ast.Path:
		info = b.bindPath(ctx, diags, e)
	case *ast.Unary:
		info = b.bindUnary(ctx, diags, e)
	case *ast.Binary:
		info = b.bindBinary(ctx, diags, e)
	case *ast.Call:
		info = b.bindCall(ctx, diags, e)
	case *ast.NamedArg:
		info = b.bindExpr(ctx, diags, e.Value)
	case *ast.TypeOf:
		t, ok := builtin.LookupScalar(e.ScalarName)
		if !ok {
			diags.Addf(diag.MalformedTypeExpression, e.Location(), "unknown type %q", e.ScalarName)
			info = SemanticInfo{ResultType: symbol.ErrorType}
		} else {
			info = SemanticInfo{ResultType: t, ReferencedSymbol: t}
		}
	case *ast.DataTable:
		info = SemanticInfo{ResultType: b.bindDataTable(ctx, diags, e)}
	default:
		diags.Addf(diag.MalformedTypeExpression, expr.Location(), "unrecognized expression node")
		info = SemanticInfo{ResultType: symbol.ErrorType}
	}
	b.info.Set(expr, info)
	return info
}

func (b *Binder) bindLiteral(e *ast.Literal) SemanticInfo {
	t, ok := builtin.LookupScalar(e.ScalarName)
	if !ok {
		return SemanticInfo{ResultType: symbol.ErrorType}
	}
	return SemanticInfo{ResultType: t, IsConstant: true, ConstantValue: e.Value}
}

func (b *Binder) bindNameRef(ctx *scope.Context, diags *diag.Bag, e *ast.NameRef) SemanticInfo {
	resolved, ok := ctx.Lookup(e.Name)
	if !ok {
		diags.Addf(diag.UndefinedName, e.Location(), "%q is not a recognized column, table, or variable name", e.Name)
		return SemanticInfo{ResultType: symbol.ErrorType}
	}
	switch sym := resolved.Symbol.(type) {
	case *symbol.Column:
		return SemanticInfo{ResultType: sym.Type(), ReferencedSymbol: sym}
	case *symbol.Variable:
		return SemanticInfo{ResultType: sym.Type(), ReferencedSymbol: sym, IsConstant: sym.IsConstant(), ConstantValue: sym.ConstantValue()}
	case *symbol.Group:
		diags.Addf(diag.AmbiguousName, e.Location(), "%q resolves to more than one symbol in this scope", e.Name)
		return SemanticInfo{ReferencedSymbol: sym, ResultType: symbol.ErrorType}
	case *symbol.Function:
		return b.bindBareFunctionRef(diags, e.Location(), sym)
	case *symbol.Pattern:
		return b.bindBarePatternRef(diags, e.Location(), sym)
	case symbol.Type:
		return SemanticInfo{ResultType: sym, ReferencedSymbol: sym}
	default:
		diags.Addf(diag.NotAFunction, e.Location(), "%q cannot be used as a value here", e.Name)
		return SemanticInfo{ReferencedSymbol: resolved.Symbol, ResultType: symbol.ErrorType}
	}
}

// bindBareFunctionRef handles a NameRef resolving to a function/
// aggregate/plug-in/operator with no call syntax (spec §8 scenario: a
// bare name naming a callable). Only legal when at least one overload
// accepts zero arguments; otherwise the invocation is malformed and emitted as
// FunctionRequiresArguments instead of a bare, undiagnosed error (spec
// §8's universal invariant that an Error result always carries a
// diagnostic).
func (b *Binder) bindBareFunctionRef(diags *diag.Bag, loc diag.Location, fn *symbol.Function) SemanticInfo {
	if fn.MinArgumentCount() > 0 {
		diags.Addf(diag.FunctionRequiresArguments, loc, "%s requires arguments and cannot be referenced bare", fn.Name())
		return SemanticInfo{ReferencedSymbol: fn, ResultType: symbol.ErrorType}
	}
	return b.resolveCallAgainstFunction(diags, loc, fn, nil, nil)
}

// bindBarePatternRef resolves a Pattern referenced with no call syntax
// against its zero-argument row, if it has one.
func (b *Binder) bindBarePatternRef(diags *diag.Bag, loc diag.Location, pat *symbol.Pattern) SemanticInfo {
	return b.resolvePatternCall(diags, loc, pat, nil, nil)
}

func (b *Binder) bindSideRef(side *symbol.Table, diags *diag.Bag, node ast.Node) SemanticInfo {
	if side == nil {
		diags.Addf(diag.ColumnRequired, node.Location(), "$left/$right is only valid while binding a join/lookup condition")
		return SemanticInfo{ResultType: symbol.ErrorType}
	}
	tuple := side.AsTuple()
	return SemanticInfo{ResultType: tuple, ReferencedSymbol: tuple}
}

// bindPath resolves Left.Right: cluster->database, database->table, or
// dynamic column -> dynamic member access (spec §4.1's path scope).
// Any other left side is diagnosed as having no such member.
func (b *Binder) bindPath(ctx *scope.Context, diags *diag.Bag, e *ast.Path) SemanticInfo {
	leftInfo := b.bindExpr(ctx, diags, e.Left)
	switch left := leftInfo.ReferencedSymbol.(type) {
	case *symbol.Cluster:
		if d, ok := left.Database(e.Right); ok {
			return SemanticInfo{ResultType: symbol.ErrorType, ReferencedSymbol: d}
		}
		if left.IsOpen() {
			d := ctx.OpenDatabaseIn(left, e.Right)
			return SemanticInfo{ResultType: symbol.ErrorType, ReferencedSymbol: d}
		}
		diags.Addf(diag.UndefinedName, e.Location(), "database %q not found on cluster %q", e.Right, left.Name())
		return SemanticInfo{ResultType: symbol.ErrorType}
	case *symbol.Database:
		if t, ok := left.Table(e.Right); ok {
			return SemanticInfo{ResultType: t, ReferencedSymbol: t}
		}
		if left.IsOpen() {
			t := ctx.OpenTableIn(ctx.Cluster().Name(), left.Name(), e.Right)
			return SemanticInfo{ResultType: t, ReferencedSymbol: t}
		}
		diags.Addf(diag.UndefinedName, e.Location(), "table %q not found in database %q", e.Right, left.Name())
		return SemanticInfo{ResultType: symbol.ErrorType}
	case *symbol.Column:
		if left.Type() == builtin.Dynamic {
			return SemanticInfo{ResultType: builtin.Dynamic}
		}
	}
	if symbol.IsError(leftInfo.ResultType) {
		return SemanticInfo{ResultType: symbol.ErrorType}
	}
	diags.Addf(diag.MalformedTypeExpression, e.Location(), "%q has no member %q", e.Left.Location(), e.Right)
	return SemanticInfo{ResultType: symbol.ErrorType}
}

func (b *Binder) bindUnary(ctx *scope.Context, diags *diag.Bag, e *ast.Unary) SemanticInfo {
	operand := b.bindExpr(ctx, diags, e.Operand)
	kind, ok := builtin.ParseOperatorKind("unary" + e.Op)
	if !ok {
		kind, ok = builtin.ParseOperatorKind(e.Op)
	}
	if !ok {
		diags.Addf(diag.NotAFunction, e.Location(), "unrecognized unary operator %q", e.Op)
		return SemanticInfo{ResultType: symbol.ErrorType}
	}
	return b.resolveOperatorCall(diags, e.Location(), kind, []symbol.Type{operand.ResultType}, []any{operand.ConstantValue})
}

func (b *Binder) bindBinary(ctx *scope.Context, diags *diag.Bag, e *ast.Binary) SemanticInfo {
	left := b.bindExpr(ctx, diags, e.Left)
	right := b.bindExpr(ctx, diags, e.Right)
	kind, ok := builtin.ParseOperatorKind(e.Op)
	if !ok {
		diags.Addf(diag.NotAFunction, e.Location(), "unrecognized operator %q", e.Op)
		return SemanticInfo{ResultType: symbol.ErrorType}
	}
	return b.resolveOperatorCall(diags, e.Location(), kind, []symbol.Type{left.ResultType, right.ResultType}, []any{left.ConstantValue, right.ConstantValue})
}

func (b *Binder) resolveOperatorCall(diags *diag.Bag, loc diag.Location, kind builtin.OperatorKind, argTypes []symbol.Type, constants []any) SemanticInfo {
	fn, ok := builtin.Operator(kind)
	if !ok {
		diags.Addf(diag.NotAFunction, loc, "operator %q is not implemented", kind.String())
		return SemanticInfo{ResultType: symbol.ErrorType}
	}
	return b.resolveCallAgainstFunction(diags, loc, fn, argTypes, constants)
}

func (b *Binder) bindDataTable(ctx *scope.Context, diags *diag.Bag, e *ast.DataTable) symbol.Type {
	cols := make([]*symbol.Column, 0, len(e.Columns))
	for _, decl := range e.Columns {
		t, ok := builtin.LookupScalar(decl.ScalarName)
		if !ok {
			diags.Addf(diag.MalformedTypeExpression, e.Location(), "unknown type %q for datatable column %q", decl.ScalarName, decl.Name)
			t = builtin.Dynamic
		}
		cols = append(cols, symbol.NewColumn(decl.Name, t))
	}
	for _, v := range e.Values {
		b.bindExpr(ctx, diags, v)
	}
	return symbol.NewTable("datatable", cols, false)
}
