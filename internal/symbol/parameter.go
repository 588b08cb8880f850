package symbol

// ParamKind enumerates the ways a parameter constrains the type of its
// bound argument (spec §3.1).
type ParamKind int

const (
	ParamDeclared ParamKind = iota
	ParamScalar
	ParamInteger
	ParamRealOrDecimal
	ParamStringOrDynamic
	ParamIntegerOrDynamic
	ParamNumber
	ParamSummable
	ParamTabular
	ParamSingleColumnTable
	ParamDatabase
	ParamCluster
	ParamNotBool
	ParamNotRealOrBool
	ParamNotDynamic
	ParamParameter0
	ParamParameter1
	ParamParameter2
	ParamCommonScalar
	ParamCommonScalarOrDynamic
	ParamCommonNumber
	ParamCommonSummable
)

// ArgumentKind restricts the syntactic shape an argument expression must
// take, independent of its type (spec §3.1, §6).
type ArgumentKind int

const (
	ArgNormal ArgumentKind = iota
	ArgColumn
	ArgConstant
	ArgLiteral
	ArgLiteralNotEmpty
	ArgStar
)

// Parameter describes one formal parameter of a Signature.
type Parameter struct {
	baseSymbol
	name     string
	typeKind ParamKind
	// declaredTypes holds the accepted types when typeKind == ParamDeclared.
	declaredTypes []Type

	argumentKind ArgumentKind

	allowedLiterals       []string
	literalsCaseSensitive bool

	optional               bool
	repeatable             bool
	hasDefault             bool
	defaultValue           any
	defaultValueIndicator  string
}

type ParameterOption func(*Parameter)

func WithArgumentKind(k ArgumentKind) ParameterOption {
	return func(p *Parameter) { p.argumentKind = k }
}

func WithAllowedLiterals(caseSensitive bool, values ...string) ParameterOption {
	return func(p *Parameter) {
		p.allowedLiterals = values
		p.literalsCaseSensitive = caseSensitive
	}
}

func WithOptional(defaultValue any) ParameterOption {
	return func(p *Parameter) {
		p.optional = true
		p.hasDefault = true
		p.defaultValue = defaultValue
	}
}

func WithOptionalNoDefault() ParameterOption {
	return func(p *Parameter) { p.optional = true }
}

func WithRepeatable() ParameterOption {
	return func(p *Parameter) { p.repeatable = true }
}

func WithDefaultValueIndicator(sentinel string) ParameterOption {
	return func(p *Parameter) { p.defaultValueIndicator = sentinel }
}

func NewParameter(name string, kind ParamKind, opts ...ParameterOption) *Parameter {
	p := &Parameter{name: name, typeKind: kind}
	for _, o := range opts {
		o(p)
	}
	return p
}

// NewDeclaredParameter builds a ParamDeclared parameter accepting any of
// the given concrete types.
func NewDeclaredParameter(name string, types []Type, opts ...ParameterOption) *Parameter {
	p := NewParameter(name, ParamDeclared, opts...)
	p.declaredTypes = append([]Type(nil), types...)
	return p
}

func (p *Parameter) Name() string                 { return p.name }
func (p *Parameter) Kind() Kind                   { return KindParameter }
func (p *Parameter) TypeKind() ParamKind          { return p.typeKind }
func (p *Parameter) DeclaredTypes() []Type        { return p.declaredTypes }
func (p *Parameter) ArgumentKind() ArgumentKind   { return p.argumentKind }
func (p *Parameter) IsOptional() bool             { return p.optional }
func (p *Parameter) IsRepeatable() bool           { return p.repeatable }
func (p *Parameter) HasDefault() bool             { return p.hasDefault }
func (p *Parameter) DefaultValue() any            { return p.defaultValue }
func (p *Parameter) DefaultValueIndicator() string { return p.defaultValueIndicator }

func (p *Parameter) AllowedLiterals() ([]string, bool) {
	return p.allowedLiterals, len(p.allowedLiterals) > 0
}

func (p *Parameter) LiteralsCaseSensitive() bool { return p.literalsCaseSensitive }

// AcceptsLiteral reports whether value is one of the parameter's
// enumerated accepted literal values, honoring case-sensitivity.
func (p *Parameter) AcceptsLiteral(value string) bool {
	if len(p.allowedLiterals) == 0 {
		return true
	}
	for _, v := range p.allowedLiterals {
		if p.literalsCaseSensitive {
			if v == value {
				return true
			}
		} else if EqualName(v, value) {
			return true
		}
	}
	return false
}
