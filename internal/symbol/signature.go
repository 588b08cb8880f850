package symbol

// ReturnKind selects how a Signature's result type is computed (spec
// §3.1, §4.7).
type ReturnKind int

const (
	ReturnDeclared ReturnKind = iota
	ReturnParameter0
	ReturnParameter1
	ReturnParameter2
	ReturnParameter0Promoted
	ReturnParameterN
	ReturnParameterNLiteral
	ReturnCommon
	ReturnWidest
	ReturnParameter0Cluster
	ReturnParameter0Database
	ReturnParameter0Table
	ReturnCustom
	ReturnComputed
)

// CustomReturnFunc backs ReturnCustom signatures (bag_unpack, pivot,
// evaluate plug-ins): it receives the bound argument types and any
// compile-time-constant argument values and returns the result type.
type CustomReturnFunc func(args []Type, constants []any) (Type, bool)

// Signature is one overload of a Function/Aggregate/PlugIn/Operator:
// an ordered parameter list (the last of which may be repeatable) plus
// a return-type rule.
//
// Signature is an immutable value; the per-signature caches spec.md
// §3.1 mentions (functionBodyFacts, nonVariableComputedReturnType) are
// NOT stored here. They live in internal/expand's Cache, keyed by
// Signature pointer identity, so this type stays a plain value and the
// locking discipline of spec §5 is concentrated in one place.
type Signature struct {
	baseSymbol
	parent       Symbol
	parameters   []*Parameter
	minArgs      int
	maxArgs      int // -1 means unbounded (last parameter repeats)
	returnKind   ReturnKind
	declaredType Type
	customFn     CustomReturnFunc
	bodyText     string

	namedArgumentsAllowed bool
}

type SignatureOption func(*Signature)

func WithNamedArguments() SignatureOption {
	return func(s *Signature) { s.namedArgumentsAllowed = true }
}

// NewSignature computes min/max argument counts from the parameter list
// automatically: min is the count of leading non-optional parameters,
// max is len(parameters) unless the last parameter is repeatable, in
// which case max is unbounded (-1).
func NewSignature(parameters []*Parameter, returnKind ReturnKind, opts ...SignatureOption) *Signature {
	s := &Signature{
		parameters: append([]*Parameter(nil), parameters...),
		returnKind: returnKind,
	}
	min := 0
	for _, p := range s.parameters {
		if p.IsOptional() {
			break
		}
		min++
	}
	s.minArgs = min
	s.maxArgs = len(s.parameters)
	if len(s.parameters) > 0 && s.parameters[len(s.parameters)-1].IsRepeatable() {
		s.maxArgs = -1
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func NewDeclaredSignature(parameters []*Parameter, declared Type, opts ...SignatureOption) *Signature {
	s := NewSignature(parameters, ReturnDeclared, opts...)
	s.declaredType = declared
	return s
}

func NewCustomSignature(parameters []*Parameter, fn CustomReturnFunc, opts ...SignatureOption) *Signature {
	s := NewSignature(parameters, ReturnCustom, opts...)
	s.customFn = fn
	return s
}

func NewComputedSignature(parameters []*Parameter, bodyText string, opts ...SignatureOption) *Signature {
	s := NewSignature(parameters, ReturnComputed, opts...)
	s.bodyText = bodyText
	return s
}

func (s *Signature) Name() string { return s.parent.Name() + "/signature" }
func (s *Signature) Kind() Kind   { return KindSignature }

func (s *Signature) Parent() Symbol               { return s.parent }
func (s *Signature) Parameters() []*Parameter     { return s.parameters }
func (s *Signature) MinArgumentCount() int        { return s.minArgs }
func (s *Signature) MaxArgumentCount() int        { return s.maxArgs } // -1 == unbounded
func (s *Signature) ReturnKind() ReturnKind       { return s.returnKind }
func (s *Signature) DeclaredType() Type           { return s.declaredType }
func (s *Signature) CustomFn() CustomReturnFunc   { return s.customFn }
func (s *Signature) BodyText() string             { return s.bodyText }
func (s *Signature) NamedArgumentsAllowed() bool  { return s.namedArgumentsAllowed }
func (s *Signature) IsVariadic() bool             { return s.maxArgs < 0 }

// IsUnbounded reports whether count is within [min, max], treating
// max < 0 as unbounded.
func (s *Signature) Accepts(count int) bool {
	if count < s.minArgs {
		return false
	}
	return s.maxArgs < 0 || count <= s.maxArgs
}

func (s *Signature) setParent(parent Symbol) { s.parent = parent }
