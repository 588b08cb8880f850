package builtin

import "kqlbind/internal/symbol"

// registry maps each built-in OperatorKind to the Function symbol (kind
// KindOperator) carrying its signature set. Expression binding looks
// operators up by kind directly; unlike scalar functions, operators are
// never looked up by name.
var registry = map[OperatorKind]*symbol.Function{}

func register(k OperatorKind, sigs []*symbol.Signature) *symbol.Function {
	f := symbol.NewFunction(k.String(), symbol.KindOperator, sigs, symbol.FlagBuiltIn|symbol.FlagConstantFoldable, "", symbol.ResultNameNone)
	registry[k] = f
	return f
}

// Operator looks up the Function symbol for a built-in operator kind.
func Operator(k OperatorKind) (*symbol.Function, bool) {
	f, ok := registry[k]
	return f, ok
}

func param(name string, t symbol.Type) *symbol.Parameter {
	return symbol.NewDeclaredParameter(name, []symbol.Type{t})
}

func commonScalarParam(name string) *symbol.Parameter {
	return symbol.NewParameter(name, symbol.ParamCommonScalar)
}

func scalarParam(name string) *symbol.Parameter {
	return symbol.NewParameter(name, symbol.ParamScalar)
}

func init() {
	registerArithmetic()
	registerComparison()
	registerRegex()
	registerStringOps()
	registerSetOps()
	registerLogical()
	registerSearch()
}

// registerArithmetic builds one overload per numeric scalar plus the
// string-concatenation overload of Add, and the interval arithmetic of
// datetime +/- timespan.
func registerArithmetic() {
	numeric := []*symbol.ScalarType{Long, Int, Real, Decimal}
	for _, k := range []OperatorKind{Add, Sub, Mul, Div, Mod} {
		var sigs []*symbol.Signature
		for _, t := range numeric {
			sigs = append(sigs, symbol.NewSignature(
				[]*symbol.Parameter{param("left", t), param("right", t)},
				symbol.ReturnParameter0,
			))
		}
		if k == Add {
			sigs = append(sigs, symbol.NewDeclaredSignature(
				[]*symbol.Parameter{param("left", String), param("right", String)}, String))
			sigs = append(sigs, symbol.NewDeclaredSignature(
				[]*symbol.Parameter{param("left", DateTime), param("right", Timespan)}, DateTime))
		}
		if k == Sub {
			sigs = append(sigs, symbol.NewDeclaredSignature(
				[]*symbol.Parameter{param("left", DateTime), param("right", Timespan)}, DateTime))
			sigs = append(sigs, symbol.NewDeclaredSignature(
				[]*symbol.Parameter{param("left", DateTime), param("right", DateTime)}, Timespan))
		}
		register(k, sigs)
	}
	for _, k := range []OperatorKind{UnaryPlus, UnaryMinus} {
		var sigs []*symbol.Signature
		for _, t := range numeric {
			sigs = append(sigs, symbol.NewSignature([]*symbol.Parameter{param("value", t)}, symbol.ReturnParameter0))
		}
		register(k, sigs)
	}
}

func registerComparison() {
	for _, k := range []OperatorKind{Equal, NotEqual, Less, LessOrEqual, Greater, GreaterOrEqual} {
		register(k, []*symbol.Signature{
			symbol.NewDeclaredSignature([]*symbol.Parameter{commonScalarParam("left"), commonScalarParam("right")}, Bool),
		})
	}
}

func registerRegex() {
	for _, k := range []OperatorKind{EqualTilde, BangTilde, MatchRegex} {
		register(k, []*symbol.Signature{
			symbol.NewDeclaredSignature([]*symbol.Parameter{param("left", String), param("right", String)}, Bool),
		})
	}
}

func registerStringOps() {
	bases := []OperatorKind{
		Contains, ContainsCs, NotContains, NotContainsCs,
		StartsWith, StartsWithCs, NotStartsWith, NotStartsWithCs,
		EndsWith, EndsWithCs, NotEndsWith, NotEndsWithCs,
		Has, HasCs, NotHas, NotHasCs,
		HasPrefix, HasPrefixCs, NotHasPrefix, NotHasPrefixCs,
		HasSuffix, HasSuffixCs, NotHasSuffix, NotHasSuffixCs,
		Like, LikeCs, NotLike, NotLikeCs,
	}
	for _, k := range bases {
		register(k, []*symbol.Signature{
			symbol.NewDeclaredSignature([]*symbol.Parameter{param("left", String), param("right", String)}, Bool),
		})
	}
}

func registerSetOps() {
	for _, k := range []OperatorKind{In, InCs, NotIn, NotInCs} {
		register(k, []*symbol.Signature{
			symbol.NewDeclaredSignature(
				[]*symbol.Parameter{scalarParam("needle"), param("haystack", Dynamic)}, Bool),
		})
	}
	for _, k := range []OperatorKind{Between, NotBetween} {
		register(k, []*symbol.Signature{
			symbol.NewDeclaredSignature(
				[]*symbol.Parameter{commonScalarParam("value"), param("range", Dynamic)}, Bool),
		})
	}
	register(HasAny, []*symbol.Signature{
		symbol.NewDeclaredSignature([]*symbol.Parameter{param("left", Dynamic), param("right", Dynamic)}, Bool),
	})
}

func registerLogical() {
	for _, k := range []OperatorKind{And, Or} {
		register(k, []*symbol.Signature{
			symbol.NewDeclaredSignature([]*symbol.Parameter{param("left", Bool), param("right", Bool)}, Bool),
		})
	}
}

func registerSearch() {
	register(Search, []*symbol.Signature{
		symbol.NewDeclaredSignature(
			[]*symbol.Parameter{symbol.NewParameter("term", symbol.ParamStringOrDynamic, symbol.WithArgumentKind(symbol.ArgLiteralNotEmpty))},
			Bool,
		),
	})
}
