package builtin

// OperatorKind enumerates the binder's built-in operator vocabulary
// (spec §6).
type OperatorKind int

const (
	Add OperatorKind = iota
	Sub
	Mul
	Div
	Mod
	UnaryPlus
	UnaryMinus

	Equal
	NotEqual
	Less
	LessOrEqual
	Greater
	GreaterOrEqual

	EqualTilde
	BangTilde
	MatchRegex

	Contains
	ContainsCs
	NotContains
	NotContainsCs
	StartsWith
	StartsWithCs
	NotStartsWith
	NotStartsWithCs
	EndsWith
	EndsWithCs
	NotEndsWith
	NotEndsWithCs
	Has
	HasCs
	NotHas
	NotHasCs
	HasPrefix
	HasPrefixCs
	NotHasPrefix
	NotHasPrefixCs
	HasSuffix
	HasSuffixCs
	NotHasSuffix
	NotHasSuffixCs
	Like
	LikeCs
	NotLike
	NotLikeCs

	In
	InCs
	NotIn
	NotInCs
	Between
	NotBetween
	HasAny

	And
	Or

	Search
)

var operatorKindNames = map[OperatorKind]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	UnaryPlus: "unary+", UnaryMinus: "unary-",
	Equal: "==", NotEqual: "!=", Less: "<", LessOrEqual: "<=", Greater: ">", GreaterOrEqual: ">=",
	EqualTilde: "=~", BangTilde: "!~", MatchRegex: "matches regex",
	Contains: "contains", ContainsCs: "contains_cs", NotContains: "!contains", NotContainsCs: "!contains_cs",
	StartsWith: "startswith", StartsWithCs: "startswith_cs", NotStartsWith: "!startswith", NotStartsWithCs: "!startswith_cs",
	EndsWith: "endswith", EndsWithCs: "endswith_cs", NotEndsWith: "!endswith", NotEndsWithCs: "!endswith_cs",
	Has: "has", HasCs: "has_cs", NotHas: "!has", NotHasCs: "!has_cs",
	HasPrefix: "hasprefix", HasPrefixCs: "hasprefix_cs", NotHasPrefix: "!hasprefix", NotHasPrefixCs: "!hasprefix_cs",
	HasSuffix: "hassuffix", HasSuffixCs: "hassuffix_cs", NotHasSuffix: "!hassuffix", NotHasSuffixCs: "!hassuffix_cs",
	Like: "like", LikeCs: "like_cs", NotLike: "!like", NotLikeCs: "!like_cs",
	In: "in", InCs: "in~", NotIn: "!in", NotInCs: "!in~", Between: "between", NotBetween: "!between", HasAny: "has_any",
	And: "and", Or: "or",
	Search: "search",
}

func (k OperatorKind) String() string {
	if n, ok := operatorKindNames[k]; ok {
		return n
	}
	return "unknown-operator"
}

var operatorKindsByName map[string]OperatorKind

func init() {
	operatorKindsByName = make(map[string]OperatorKind, len(operatorKindNames))
	for k, name := range operatorKindNames {
		operatorKindsByName[name] = k
	}
}

// ParseOperatorKind looks up the OperatorKind whose canonical display
// text (as produced by String) is text, for a front end that hands the
// binder an operator's source spelling rather than a pre-resolved kind.
func ParseOperatorKind(text string) (OperatorKind, bool) {
	k, ok := operatorKindsByName[text]
	return k, ok
}
