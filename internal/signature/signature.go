// Package signature implements overload resolution (spec §4.6): picking
// the best-matching Signature for a call site's argument list, and
// resolving that Signature's ReturnKind into a concrete result Type
// (spec §4.7).
//
// There is no teacher analogue for "pick the best of several candidate
// signatures by scoring each argument" — Pieczasz-smf's SQL dialect
// layer dispatches by a fixed dialect name, not by argument shape — so
// this package is grounded more loosely: the ordered-chain validation
// style of internal/core/validate.go (a sequence of named checks, first
// failure wins) for MatchArgs, and the switch-on-discriminant dispatch
// of internal/apply/analyzer.go for ResolveReturnType's ReturnKind
// switch.
package signature

import (
	"kqlbind/internal/symbol"
	"kqlbind/internal/typesys"
)

// MatchKind ranks how well one argument matched its parameter, best
// first. Overload resolution prefers the candidate whose worst
// per-argument MatchKind is best, breaking ties by preferring fewer
// Promoted/Dynamic matches.
type MatchKind int

const (
	// MatchNone means the argument does not satisfy the parameter at
	// all; the candidate signature is rejected.
	MatchNone MatchKind = iota
	// MatchDynamic means the parameter only accepted because one side
	// is the dynamic type (spec §4.2's "assignable under anything").
	MatchDynamic
	// MatchPromoted means the argument's type widens to the parameter's
	// declared type (e.g. int argument against a long parameter).
	MatchPromoted
	// MatchExact means the argument's type is identical to the
	// parameter's declared type (or the parameter accepts any type and
	// any scalar qualifies, e.g. ParamScalar).
	MatchExact
)

// ArgMatch records the outcome for one argument against one parameter.
type ArgMatch struct {
	Kind      MatchKind
	Parameter *symbol.Parameter
}

// Candidate is one signature's match result against a call's argument
// list.
type Candidate struct {
	Signature *symbol.Signature
	Matches   []ArgMatch
	Score     Score
}

// Score totals a candidate's match quality for ranking; lower is
// better in every field (fewer non-exact matches wins).
type Score struct {
	Dynamic  int
	Promoted int
}

// Less reports whether s is a strictly better score than other.
func (s Score) Less(other Score) bool {
	if s.Promoted != other.Promoted {
		return s.Promoted < other.Promoted
	}
	return s.Dynamic < other.Dynamic
}

// MatchArgs scores sig against argTypes, returning ok=false if arity or
// any single argument fails to match (MatchNone).
func MatchArgs(sig *symbol.Signature, argTypes []symbol.Type) (Candidate, bool) {
	if !sig.Accepts(len(argTypes)) {
		return Candidate{}, false
	}

	params := sig.Parameters()
	matches := make([]ArgMatch, len(argTypes))
	var score Score

	for i, argType := range argTypes {
		param := paramFor(params, i, sig.IsVariadic())
		kind := matchOne(param, argType)
		if kind == MatchNone {
			return Candidate{}, false
		}
		matches[i] = ArgMatch{Kind: kind, Parameter: param}
		switch kind {
		case MatchDynamic:
			score.Dynamic++
		case MatchPromoted:
			score.Promoted++
		}
	}

	return Candidate{Signature: sig, Matches: matches, Score: score}, true
}

// paramFor returns the parameter governing argument index i, clamping
// to the last parameter when it is a repeatable trailing parameter
// (spec §3.1's variadic parameters: strcat(string...)).
func paramFor(params []*symbol.Parameter, i int, repeatableTrailing bool) *symbol.Parameter {
	if i < len(params) {
		return params[i]
	}
	if repeatableTrailing && len(params) > 0 {
		return params[len(params)-1]
	}
	return nil
}

func matchOne(param *symbol.Parameter, argType symbol.Type) MatchKind {
	if param == nil || argType == nil {
		return MatchNone
	}
	if symbol.IsError(argType) {
		return MatchExact
	}

	declared := param.DeclaredTypes()
	if len(declared) == 0 {
		// A parameter with no declared type set (ArgumentKind-only,
		// e.g. ParamScalar/ParamTabular) matches any type in that
		// kind's broad category; the kind check itself is assumed done
		// by the caller building argTypes from already-kind-checked
		// arguments (opbind validates ArgumentKind before calling in).
		return MatchExact
	}

	best := MatchNone
	for _, d := range declared {
		if d == argType {
			return MatchExact
		}
		if isDynamicType(argType) || isDynamicType(d) {
			if best < MatchDynamic {
				best = MatchDynamic
			}
			continue
		}
		if typesys.Assignable(argType, d, typesys.Promotable) {
			if best < MatchPromoted {
				best = MatchPromoted
			}
		}
	}
	return best
}

func isDynamicType(t symbol.Type) bool {
	s, ok := t.(*symbol.ScalarType)
	return ok && s.Is(symbol.FlagDynamic)
}

// Resolve picks the best candidate among sigs for argTypes. Ties (two
// candidates with equal, non-worse scores) resolve to ambiguous=true,
// matching spec §4.6's requirement that ambiguity be reported rather
// than silently broken by declaration order.
func Resolve(sigs []*symbol.Signature, argTypes []symbol.Type) (best Candidate, ambiguous bool, ok bool) {
	for _, sig := range sigs {
		cand, matched := MatchArgs(sig, argTypes)
		if !matched {
			continue
		}
		if !ok {
			best, ok = cand, true
			continue
		}
		switch {
		case cand.Score.Less(best.Score):
			best, ambiguous = cand, false
		case best.Score.Less(cand.Score):
			// keep best
		default:
			ambiguous = true
		}
	}
	return best, ambiguous, ok
}
