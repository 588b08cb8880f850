package builtin

import (
	"fmt"

	"kqlbind/internal/signature"
	"kqlbind/internal/symbol"
)

// init registers this package's scalar name lookup with
// internal/signature, so ResolveReturnType can resolve
// ReturnParameterNLiteral's type-naming literal (e.g. a `dynamic_cast`
// style call that names its result type as a string argument) without
// signature importing builtin directly.
func init() {
	signature.RegisterTypeLookup(func(name string) (symbol.Type, error) {
		t, ok := LookupScalar(name)
		if !ok {
			return symbol.ErrorType, fmt.Errorf("builtin: %q is not a known scalar type", name)
		}
		return t, nil
	})
}
