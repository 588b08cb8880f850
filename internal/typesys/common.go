package typesys

import "kqlbind/internal/symbol"

// Widest returns the widest numeric scalar among types, used by
// ReturnWidest (spec §4.7). Non-numeric and dynamic scalars are ignored;
// ok is false if no numeric scalar was present.
func Widest(types []*symbol.ScalarType) (*symbol.ScalarType, bool) {
	var best *symbol.ScalarType
	for _, t := range types {
		if t == nil || !t.Is(symbol.FlagNumeric) || t.Is(symbol.FlagDynamic) {
			continue
		}
		if best == nil || best.WidensToEventually(t) {
			best = t
		}
	}
	return best, best != nil
}

// CommonType implements the "best" type selection spec §4.7 describes
// for ReturnCommon: a non-dynamic scalar beats dynamic, and a candidate
// that the current best promotes to beats the current best. Returns
// false if the inputs disagree in a way with no common type (e.g. two
// incompatible non-widening scalars, or a non-scalar mixed with a
// scalar).
func CommonType(types []symbol.Type) (symbol.Type, bool) {
	var best symbol.Type
	for _, t := range types {
		if t == nil || symbol.IsError(t) {
			continue
		}
		if best == nil {
			best = t
			continue
		}
		if best == t {
			continue
		}
		bestScalar, bestIsScalar := best.(*symbol.ScalarType)
		tScalar, tIsScalar := t.(*symbol.ScalarType)
		if !bestIsScalar || !tIsScalar {
			return symbol.ErrorType, false
		}
		switch {
		case bestScalar.Is(symbol.FlagDynamic):
			best = tScalar
		case tScalar.Is(symbol.FlagDynamic):
			// keep best
		case bestScalar.WidensToEventually(tScalar):
			best = tScalar
		case tScalar.WidensToEventually(bestScalar):
			// keep best, it is already the wider of the two
		default:
			return symbol.ErrorType, false
		}
	}
	if best == nil {
		return symbol.ErrorType, false
	}
	return best, true
}
