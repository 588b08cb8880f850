// Package builtin holds the binder's built-in vocabulary: the scalar
// type lattice and the operator/function/aggregate signature tables that
// ship with every catalog regardless of what a particular cluster
// declares. Grounded on the teacher's per-dialect type keyword tables
// (internal/core/raw_types.go) and its operator dispatch tables
// (internal/dialect/mysql/mysql.go), generalized from "is this a
// recognized MySQL type keyword" into a genuine promotion lattice.
package builtin

import "kqlbind/internal/symbol"

// The concrete scalar widening lattice (spec §4.2): int -> long,
// decimal -> real. Every other pair is unrelated.
var (
	Bool     = symbol.NewScalar("bool", 0, nil)
	Long     = symbol.NewScalar("long", symbol.FlagInteger|symbol.FlagNumeric|symbol.FlagSummable, nil)
	Int      = symbol.NewScalar("int", symbol.FlagInteger|symbol.FlagNumeric|symbol.FlagSummable, Long)
	Real     = symbol.NewScalar("real", symbol.FlagNumeric|symbol.FlagSummable, nil)
	Decimal  = symbol.NewScalar("decimal", symbol.FlagNumeric|symbol.FlagSummable, Real)
	String   = symbol.NewScalar("string", 0, nil)
	DateTime = symbol.NewScalar("datetime", symbol.FlagSummable, nil)
	Timespan = symbol.NewScalar("timespan", symbol.FlagSummable, nil)
	Guid     = symbol.NewScalar("guid", 0, nil)
	Dynamic  = symbol.NewScalar("dynamic", symbol.FlagDynamic, nil)
)

// ScalarTypes lists every built-in scalar, used by the catalog's
// type-expression parser (`typeof(long)`, column declarations, ...).
var ScalarTypes = []*symbol.ScalarType{Bool, Long, Int, Real, Decimal, String, DateTime, Timespan, Guid, Dynamic}

// LookupScalar resolves a built-in scalar by name, case-insensitively.
func LookupScalar(name string) (*symbol.ScalarType, bool) {
	for _, s := range ScalarTypes {
		if symbol.EqualName(s.Name(), name) {
			return s, true
		}
	}
	return nil, false
}

// NumericTypes and SummableTypes list the built-in scalars carrying
// FlagNumeric and FlagSummable respectively.
var (
	NumericTypes  = []*symbol.ScalarType{Long, Int, Real, Decimal}
	SummableTypes = []*symbol.ScalarType{Long, Int, Real, Decimal, DateTime, Timespan}
)
