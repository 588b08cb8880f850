package binder

import (
	"kqlbind/internal/ast"
	"kqlbind/internal/builtin"
	"kqlbind/internal/diag"
	"kqlbind/internal/scope"
	"kqlbind/internal/signature"
	"kqlbind/internal/symbol"
)

// bindCall resolves a function/aggregate call: locals and database
// functions are tried first (spec §4.1's scope order), falling back to
// the built-in scalar function table. table(...)/database(...)/
// cluster(...) are special-cased because their return type is the
// literal-named catalog entity itself, not a value signature.
// ResolveReturnType can express (spec §4.7's Parameter0Table/Database/
// Cluster kinds describe the shape but the lookup needs the catalog).
func (b *Binder) bindCall(ctx *scope.Context, diags *diag.Bag, call *ast.Call) SemanticInfo {
	argInfos := make([]SemanticInfo, len(call.Args))
	argTypes := make([]symbol.Type, len(call.Args))
	constants := make([]any, len(call.Args))
	for i, a := range call.Args {
		argInfos[i] = b.bindExpr(ctx, diags, a)
		argTypes[i] = argInfos[i].ResultType
		constants[i] = argInfos[i].ConstantValue
	}

	switch normalize(call.Name) {
	case "table":
		return b.bindCatalogRef(ctx, diags, call, constants, tableRef)
	case "database":
		return b.bindCatalogRef(ctx, diags, call, constants, databaseRef)
	case "cluster":
		return b.bindCatalogRef(ctx, diags, call, constants, clusterRef)
	}

	if resolved, ok := ctx.Lookup(call.Name); ok {
		switch sym := resolved.Symbol.(type) {
		case *symbol.Group:
			diags.Addf(diag.AmbiguousName, call.Location(), "%q resolves to more than one symbol in this scope", call.Name)
			return SemanticInfo{ReferencedSymbol: sym, ResultType: symbol.ErrorType}
		case *symbol.Pattern:
			return b.resolvePatternCall(diags, call.Location(), sym, argTypes, constants)
		case *symbol.Function:
			info := b.resolveCallAgainstFunction(diags, call.Location(), sym, argTypes, constants)
			if info.ReferencedSymbol == nil {
				info.ReferencedSymbol = sym
			}
			return info
		}
	}

	fn, ok := builtin.Function(call.Name)
	if !ok {
		diags.Addf(diag.NotAFunction, call.Location(), "%q is not a recognized function", call.Name)
		return SemanticInfo{ResultType: symbol.ErrorType}
	}
	info := b.resolveCallAgainstFunction(diags, call.Location(), fn, argTypes, constants)
	if info.ReferencedSymbol == nil {
		info.ReferencedSymbol = fn
	}
	return info
}

// resolvePatternCall matches call's literal string arguments against
// pat's signature table (spec §3.1's Pattern kind) and, on a match,
// resolves the matched row's Call signature's return type through the
// ordinary Computed-signature path — the same expansion Cache/Expander
// an inline function body uses. No matching row is diag.NoPatternMatch
// (spec §8's universal invariant: an Error result always carries a
// diagnostic).
func (b *Binder) resolvePatternCall(diags *diag.Bag, loc diag.Location, pat *symbol.Pattern, argTypes []symbol.Type, constants []any) SemanticInfo {
	args := make([]string, len(constants))
	for i, c := range constants {
		s, _ := c.(string)
		args[i] = s
	}
	sig, matched := pat.Match(args, "", false)
	if !matched {
		diags.Addf(diag.NoPatternMatch, loc, "%s has no signature matching the given arguments", pat.Name())
		return SemanticInfo{ReferencedSymbol: pat, ResultType: symbol.ErrorType}
	}

	resultType, err := signature.ResolveReturnType(sig.Call, argTypes, constants, b.expander)
	if err != nil {
		diags.Addf(diag.WrongArgumentType, loc, "%s: %v", pat.Name(), err)
		return SemanticInfo{ReferencedSymbol: pat, ResultType: symbol.ErrorType}
	}
	return SemanticInfo{ResultType: resultType, ReferencedSymbol: pat}
}

// resolveCallAgainstFunction runs overload resolution across every
// signature fn carries and resolves the winner's return type.
func (b *Binder) resolveCallAgainstFunction(diags *diag.Bag, loc diag.Location, fn *symbol.Function, argTypes []symbol.Type, constants []any) SemanticInfo {
	best, ambiguous, ok := signature.Resolve(fn.Signatures(), argTypes)
	if !ok {
		diags.Addf(diag.WrongArgumentCount, loc, "no overload of %s accepts %d argument(s) of the given types", fn.Name(), len(argTypes))
		return SemanticInfo{ResultType: symbol.ErrorType, ReferencedSymbol: fn}
	}
	if ambiguous {
		diags.Addf(diag.AmbiguousOverload, loc, "call to %s is ambiguous between multiple equally-good overloads", fn.Name())
		return SemanticInfo{ResultType: symbol.ErrorType, ReferencedSymbol: fn}
	}

	resultType, err := signature.ResolveReturnType(best.Signature, argTypes, constants, b.expander)
	if err != nil {
		diags.Addf(diag.WrongArgumentType, loc, "%s: %v", fn.Name(), err)
		return SemanticInfo{ResultType: symbol.ErrorType, ReferencedSymbol: fn}
	}
	return SemanticInfo{ResultType: resultType, ReferencedSymbol: fn}
}

type catalogRefKind int

const (
	tableRef catalogRefKind = iota
	databaseRef
	clusterRef
)

// bindCatalogRef resolves table("name")/database("name")/cluster("name")
// against the catalog directly, using the call's first constant string
// argument as the name (spec: these names must be literal). The check
// is made here, not through the declared signature: the argument must
// be a non-empty string constant.
func (b *Binder) bindCatalogRef(ctx *scope.Context, diags *diag.Bag, call *ast.Call, constants []any, kind catalogRefKind) SemanticInfo {
	if len(constants) != 1 {
		diags.Addf(diag.WrongArgumentCount, call.Location(), "%s expects exactly one argument", call.Name)
		return SemanticInfo{ResultType: symbol.ErrorType}
	}
	name, isString := constants[0].(string)
	if !isString || name == "" {
		diags.Addf(diag.LiteralRequired, call.Location(), "%s's argument must be a non-empty string literal", call.Name)
		return SemanticInfo{ResultType: symbol.ErrorType}
	}

	switch kind {
	case clusterRef:
		if c, ok := b.snapshot.Cluster(name); ok {
			return SemanticInfo{ResultType: symbol.ErrorType, ReferencedSymbol: c}
		}
		diags.Addf(diag.UndefinedName, call.Location(), "cluster %q not found", name)
		return SemanticInfo{ResultType: symbol.ErrorType}
	case databaseRef:
		cluster := ctx.Cluster()
		if cluster == nil {
			cluster = b.snapshot.DefaultCluster()
		}
		if cluster != nil {
			if d, ok := cluster.Database(name); ok {
				return SemanticInfo{ResultType: symbol.ErrorType, ReferencedSymbol: d}
			}
			if cluster.IsOpen() {
				d := ctx.OpenDatabaseIn(cluster, name)
				return SemanticInfo{ResultType: symbol.ErrorType, ReferencedSymbol: d}
			}
		}
		diags.Addf(diag.UndefinedName, call.Location(), "database %q not found", name)
		return SemanticInfo{ResultType: symbol.ErrorType}
	default: // tableRef
		if ctx.Database() != nil {
			if t, ok := ctx.Database().Table(name); ok {
				return SemanticInfo{ResultType: t, ReferencedSymbol: t}
			}
			if ctx.Database().IsOpen() {
				t := ctx.OpenTable(name)
				return SemanticInfo{ResultType: t, ReferencedSymbol: t}
			}
		}
		diags.Addf(diag.UndefinedName, call.Location(), "table %q not found", name)
		return SemanticInfo{ResultType: symbol.ErrorType}
	}
}

func normalize(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
