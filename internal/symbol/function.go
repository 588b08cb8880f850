package symbol

// FunctionFlag marks cross-cutting function behavior.
type FunctionFlag uint8

const (
	FlagConstantFoldable FunctionFlag = 1 << iota
	FlagBuiltIn
)

// ResultNameKind governs how the output column name is derived when a
// function call appears where a column name is needed (e.g. inside
// summarize or extend without an explicit alias).
type ResultNameKind int

const (
	ResultNameNone ResultNameKind = iota
	// ResultNameFromCallText uses the function name plus "_" plus the
	// first argument's display text, e.g. sum(x) -> "sum_x".
	ResultNameFromCallText
	// ResultNameFromFirstArgument reuses the first argument's own
	// inferred column name, e.g. tolower(Name) -> "Name".
	ResultNameFromFirstArgument
	// ResultNameFixed always uses resultNamePrefix verbatim.
	ResultNameFixed
)

// Function is a named collection of Signatures representing a scalar
// function, aggregate, plug-in, or operator (kind discriminates).
type Function struct {
	baseSymbol
	name             string
	kind             Kind
	signatures       []*Signature
	flags            FunctionFlag
	resultNamePrefix string
	resultNameKind   ResultNameKind
}

// NewFunction constructs a Function/Aggregate/PlugIn/Operator symbol
// (selected by kind, one of KindFunction, KindAggregate, KindPlugIn,
// KindOperator) and wires itself as each signature's parent.
func NewFunction(name string, kind Kind, signatures []*Signature, flags FunctionFlag, resultNamePrefix string, resultNameKind ResultNameKind) *Function {
	f := &Function{
		name:             name,
		kind:             kind,
		signatures:       append([]*Signature(nil), signatures...),
		flags:            flags,
		resultNamePrefix: resultNamePrefix,
		resultNameKind:   resultNameKind,
	}
	for _, s := range f.signatures {
		s.setParent(f)
	}
	return f
}

func (f *Function) Name() string               { return f.name }
func (f *Function) Kind() Kind                 { return f.kind }
func (f *Function) Signatures() []*Signature   { return f.signatures }
func (f *Function) IsBuiltIn() bool            { return f.flags&FlagBuiltIn != 0 }
func (f *Function) IsConstantFoldable() bool   { return f.flags&FlagConstantFoldable != 0 }
func (f *Function) ResultNamePrefix() string   { return f.resultNamePrefix }
func (f *Function) ResultNameKind() ResultNameKind { return f.resultNameKind }

// MinArgumentCount returns the smallest minimum argument count across all
// overloads, used by scope resolution to decide whether a bare name can
// be invoked without an argument list (spec §4.1).
func (f *Function) MinArgumentCount() int {
	min := -1
	for _, s := range f.signatures {
		if min < 0 || s.MinArgumentCount() < min {
			min = s.MinArgumentCount()
		}
	}
	if min < 0 {
		return 0
	}
	return min
}
