package builtin

import "kqlbind/internal/symbol"

// functionRegistry holds every built-in scalar function, keyed by
// lower-case name. Functions are looked up by name (Function), unlike
// operators, which are looked up by kind.
var functionRegistry = map[string]*symbol.Function{}

func registerFunction(f *symbol.Function) *symbol.Function {
	functionRegistry[normalizeName(f.Name())] = f
	return f
}

func normalizeName(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Function looks up a built-in scalar function (or aggregate/plug-in) by
// name, case-insensitively.
func Function(name string) (*symbol.Function, bool) {
	f, ok := functionRegistry[normalizeName(name)]
	return f, ok
}

// AllFunctions returns every registered built-in function/aggregate/
// plug-in, for GetSymbolsInScope's global-function enumeration.
func AllFunctions() []*symbol.Function {
	out := make([]*symbol.Function, 0, len(functionRegistry))
	for _, f := range functionRegistry {
		out = append(out, f)
	}
	return out
}

func decl(name string, t symbol.Type) *symbol.Parameter {
	return symbol.NewDeclaredParameter(name, []symbol.Type{t})
}

func init() {
	registerFunction(symbol.NewFunction("tolower", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature([]*symbol.Parameter{decl("value", String)}, String)},
		symbol.FlagBuiltIn|symbol.FlagConstantFoldable, "tolower", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("toupper", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature([]*symbol.Parameter{decl("value", String)}, String)},
		symbol.FlagBuiltIn|symbol.FlagConstantFoldable, "toupper", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("strlen", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature([]*symbol.Parameter{decl("value", String)}, Long)},
		symbol.FlagBuiltIn|symbol.FlagConstantFoldable, "strlen", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("strcat", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature(
			[]*symbol.Parameter{symbol.NewParameter("parts", symbol.ParamStringOrDynamic, symbol.WithRepeatable())},
			String,
		)},
		symbol.FlagBuiltIn|symbol.FlagConstantFoldable, "strcat", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("tostring", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature([]*symbol.Parameter{decl("value", Dynamic)}, String)},
		symbol.FlagBuiltIn|symbol.FlagConstantFoldable, "tostring", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("todynamic", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature([]*symbol.Parameter{decl("value", String)}, Dynamic)},
		symbol.FlagBuiltIn|symbol.FlagConstantFoldable, "todynamic", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("toint", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature([]*symbol.Parameter{symbol.NewParameter("value", symbol.ParamScalar)}, Int)},
		symbol.FlagBuiltIn|symbol.FlagConstantFoldable, "toint", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("tolong", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature([]*symbol.Parameter{symbol.NewParameter("value", symbol.ParamScalar)}, Long)},
		symbol.FlagBuiltIn|symbol.FlagConstantFoldable, "tolong", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("now", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature(nil, DateTime)},
		symbol.FlagBuiltIn, "now", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("ago", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature([]*symbol.Parameter{decl("offset", Timespan)}, DateTime)},
		symbol.FlagBuiltIn, "ago", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("bin", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewSignature(
			[]*symbol.Parameter{symbol.NewParameter("value", symbol.ParamNumber), symbol.NewParameter("roundTo", symbol.ParamNumber)},
			symbol.ReturnParameter0,
		)},
		symbol.FlagBuiltIn|symbol.FlagConstantFoldable, "bin", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("iif", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewSignature(
			[]*symbol.Parameter{
				decl("predicate", Bool),
				symbol.NewParameter("ifTrue", symbol.ParamCommonScalarOrDynamic),
				symbol.NewParameter("ifFalse", symbol.ParamCommonScalarOrDynamic),
			},
			symbol.ReturnCommon,
		)},
		symbol.FlagBuiltIn, "", symbol.ResultNameNone))

	registerFunction(symbol.NewFunction("coalesce", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewSignature(
			[]*symbol.Parameter{symbol.NewParameter("values", symbol.ParamCommonScalarOrDynamic, symbol.WithRepeatable())},
			symbol.ReturnCommon,
		)},
		symbol.FlagBuiltIn, "", symbol.ResultNameNone))

	registerFunction(symbol.NewFunction("array_length", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature([]*symbol.Parameter{decl("array", Dynamic)}, Long)},
		symbol.FlagBuiltIn|symbol.FlagConstantFoldable, "array_length", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("estimate_data_size", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewDeclaredSignature(
			[]*symbol.Parameter{symbol.NewParameter("columns", symbol.ParamScalar, symbol.WithArgumentKind(symbol.ArgStar), symbol.WithRepeatable())},
			Long,
		)},
		symbol.FlagBuiltIn, "estimate_data_size", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("table", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewSignature(
			[]*symbol.Parameter{symbol.NewParameter("name", symbol.ParamStringOrDynamic, symbol.WithArgumentKind(symbol.ArgLiteralNotEmpty))},
			symbol.ReturnParameter0Table,
		)},
		symbol.FlagBuiltIn, "", symbol.ResultNameNone))

	registerFunction(symbol.NewFunction("database", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewSignature(
			[]*symbol.Parameter{symbol.NewParameter("name", symbol.ParamStringOrDynamic, symbol.WithArgumentKind(symbol.ArgLiteralNotEmpty))},
			symbol.ReturnParameter0Database,
		)},
		symbol.FlagBuiltIn, "", symbol.ResultNameNone))

	registerFunction(symbol.NewFunction("cluster", symbol.KindFunction,
		[]*symbol.Signature{symbol.NewSignature(
			[]*symbol.Parameter{symbol.NewParameter("name", symbol.ParamStringOrDynamic, symbol.WithArgumentKind(symbol.ArgLiteralNotEmpty))},
			symbol.ReturnParameter0Cluster,
		)},
		symbol.FlagBuiltIn, "", symbol.ResultNameNone))
}
