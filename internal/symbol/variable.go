package symbol

// Variable is a local-scope binding: a let-bound name, an as-named
// table, or a function parameter once it is materialized in the callee's
// local scope.
type Variable struct {
	baseSymbol
	name          string
	typ           Type
	isConstant    bool
	constantValue any
}

func NewVariable(name string, typ Type) *Variable {
	return &Variable{name: name, typ: typ}
}

func NewConstant(name string, typ Type, value any) *Variable {
	return &Variable{name: name, typ: typ, isConstant: true, constantValue: value}
}

func (v *Variable) Name() string        { return v.name }
func (v *Variable) Kind() Kind          { return KindVariable }
func (v *Variable) Type() Type          { return v.typ }
func (v *Variable) IsConstant() bool    { return v.isConstant }
func (v *Variable) ConstantValue() any  { return v.constantValue }
