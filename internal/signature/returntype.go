package signature

import (
	"fmt"

	"kqlbind/internal/symbol"
	"kqlbind/internal/typesys"
)

// BodyBinder resolves a Computed signature's body text into a result
// type. internal/expand implements this (binding the body against a
// local scope seeded with the call's arguments); signature takes it as
// an interface to avoid an import cycle (expand depends on signature
// for MatchArgs/Resolve; signature cannot depend back on expand).
type BodyBinder interface {
	BindBody(sig *symbol.Signature, argTypes []symbol.Type, constants []any) (symbol.Type, error)
}

// ResolveReturnType dispatches on sig.ReturnKind() to compute the
// concrete result type of a call whose arguments have already been
// matched (argTypes, in call order; constants holds the compile-time
// value of every ArgConstant/ArgLiteral argument, nil where unknown).
// Grounded on internal/apply/analyzer.go's switch-on-discriminant
// dispatch style.
func ResolveReturnType(sig *symbol.Signature, argTypes []symbol.Type, constants []any, bodies BodyBinder) (symbol.Type, error) {
	switch sig.ReturnKind() {
	case symbol.ReturnDeclared:
		return sig.DeclaredType(), nil

	case symbol.ReturnParameter0, symbol.ReturnParameter0Table, symbol.ReturnParameter0Database, symbol.ReturnParameter0Cluster:
		return nthArgType(argTypes, 0)

	case symbol.ReturnParameter1:
		return nthArgType(argTypes, 1)

	case symbol.ReturnParameter2:
		return nthArgType(argTypes, 2)

	case symbol.ReturnParameter0Promoted:
		return promotedNth(argTypes, 0)

	case symbol.ReturnParameterN:
		return nthArgType(argTypes, len(argTypes)-1)

	case symbol.ReturnParameterNLiteral:
		return resolveParameterNLiteral(argTypes, constants)

	case symbol.ReturnCommon:
		t, ok := typesys.CommonType(argTypes)
		if !ok {
			return symbol.ErrorType, fmt.Errorf("signature: arguments have no common type")
		}
		return t, nil

	case symbol.ReturnWidest:
		return resolveWidest(argTypes)

	case symbol.ReturnCustom:
		if sig.CustomFn() == nil {
			return symbol.ErrorType, fmt.Errorf("signature: ReturnCustom signature has no CustomFn")
		}
		t, ok := sig.CustomFn()(argTypes, constants)
		if !ok {
			return symbol.ErrorType, fmt.Errorf("signature: custom return resolution failed")
		}
		return t, nil

	case symbol.ReturnComputed:
		if bodies == nil {
			return symbol.ErrorType, fmt.Errorf("signature: ReturnComputed signature requires a body binder")
		}
		return bodies.BindBody(sig, argTypes, constants)

	default:
		return symbol.ErrorType, fmt.Errorf("signature: unknown return kind %v", sig.ReturnKind())
	}
}

func nthArgType(argTypes []symbol.Type, n int) (symbol.Type, error) {
	if n < 0 || n >= len(argTypes) {
		return symbol.ErrorType, fmt.Errorf("signature: return type references argument %d, call has %d", n, len(argTypes))
	}
	return argTypes[n], nil
}

// promotedNth returns the nth argument's type widened one step if it is
// a promotable scalar (sum(int) -> long, spec §4.7's promoted form of
// Parameter0).
func promotedNth(argTypes []symbol.Type, n int) (symbol.Type, error) {
	t, err := nthArgType(argTypes, n)
	if err != nil {
		return t, err
	}
	scalar, ok := t.(*symbol.ScalarType)
	if !ok {
		return t, nil
	}
	if wider := scalar.WidensTo(); wider != nil {
		return wider, nil
	}
	return t, nil
}

// resolveParameterNLiteral resolves a return type named by a literal
// string argument naming a built-in scalar (e.g. a hypothetical
// `convert(type_name, value)` where type_name picks the result type).
// The last argument is taken as the type-naming literal, matching
// ReturnParameterN's "last argument" convention.
func resolveParameterNLiteral(argTypes []symbol.Type, constants []any) (symbol.Type, error) {
	if len(constants) == 0 {
		return symbol.ErrorType, fmt.Errorf("signature: ReturnParameterNLiteral requires a constant argument")
	}
	last := constants[len(constants)-1]
	name, ok := last.(string)
	if !ok {
		return symbol.ErrorType, fmt.Errorf("signature: ReturnParameterNLiteral's naming argument is not a string literal")
	}
	return lookupNamedType(name)
}

// lookupNamedType is set by internal/builtin at init time (via
// RegisterTypeLookup) to avoid signature depending on builtin, which
// would invert the intended dependency direction (builtin depends on
// symbol only; signature depends on symbol and typesys).
var lookupNamedType = func(name string) (symbol.Type, error) {
	return symbol.ErrorType, fmt.Errorf("signature: no type lookup registered for %q", name)
}

// RegisterTypeLookup installs the function ResolveReturnType uses to
// resolve a type-naming literal to a concrete Type. Called once from
// internal/builtin's init().
func RegisterTypeLookup(fn func(name string) (symbol.Type, error)) {
	lookupNamedType = fn
}

func resolveWidest(argTypes []symbol.Type) (symbol.Type, error) {
	scalars := make([]*symbol.ScalarType, 0, len(argTypes))
	for _, t := range argTypes {
		if s, ok := t.(*symbol.ScalarType); ok {
			scalars = append(scalars, s)
		}
	}
	widest, ok := typesys.Widest(scalars)
	if !ok {
		return symbol.ErrorType, fmt.Errorf("signature: no numeric argument to widen")
	}
	return widest, nil
}
