package builtin

import "kqlbind/internal/symbol"

func init() {
	registerFunction(symbol.NewFunction("count", symbol.KindAggregate,
		[]*symbol.Signature{symbol.NewDeclaredSignature(nil, Long)},
		symbol.FlagBuiltIn, "Count", symbol.ResultNameFixed))

	registerFunction(symbol.NewFunction("sum", symbol.KindAggregate,
		[]*symbol.Signature{symbol.NewSignature(
			[]*symbol.Parameter{symbol.NewParameter("value", symbol.ParamSummable)},
			symbol.ReturnParameter0Promoted,
		)},
		symbol.FlagBuiltIn, "sum", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("avg", symbol.KindAggregate,
		[]*symbol.Signature{symbol.NewDeclaredSignature(
			[]*symbol.Parameter{symbol.NewParameter("value", symbol.ParamNumber)}, Real)},
		symbol.FlagBuiltIn, "avg", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("min", symbol.KindAggregate,
		[]*symbol.Signature{symbol.NewSignature(
			[]*symbol.Parameter{symbol.NewParameter("value", symbol.ParamScalar)},
			symbol.ReturnParameter0,
		)},
		symbol.FlagBuiltIn, "min", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("max", symbol.KindAggregate,
		[]*symbol.Signature{symbol.NewSignature(
			[]*symbol.Parameter{symbol.NewParameter("value", symbol.ParamScalar)},
			symbol.ReturnParameter0,
		)},
		symbol.FlagBuiltIn, "max", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("dcount", symbol.KindAggregate,
		[]*symbol.Signature{symbol.NewDeclaredSignature(
			[]*symbol.Parameter{symbol.NewParameter("value", symbol.ParamScalar)}, Long)},
		symbol.FlagBuiltIn, "dcount", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("make_list", symbol.KindAggregate,
		[]*symbol.Signature{symbol.NewDeclaredSignature(
			[]*symbol.Parameter{symbol.NewParameter("value", symbol.ParamScalar)}, Dynamic)},
		symbol.FlagBuiltIn, "make_list", symbol.ResultNameFromCallText))

	registerFunction(symbol.NewFunction("make_set", symbol.KindAggregate,
		[]*symbol.Signature{symbol.NewDeclaredSignature(
			[]*symbol.Parameter{symbol.NewParameter("value", symbol.ParamScalar)}, Dynamic)},
		symbol.FlagBuiltIn, "make_set", symbol.ResultNameFromCallText))
}
