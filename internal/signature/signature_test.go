package signature_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kqlbind/internal/builtin"
	. "kqlbind/internal/signature"
	"kqlbind/internal/symbol"
)

func TestMatchArgsRejectsWrongArity(t *testing.T) {
	sig := symbol.NewDeclaredSignature([]*symbol.Parameter{
		symbol.NewDeclaredParameter("a", []symbol.Type{builtin.Long}),
	}, builtin.Long)

	_, ok := MatchArgs(sig, []symbol.Type{builtin.Long, builtin.Long})
	require.False(t, ok)
}

func TestMatchArgsScoresPromotionWorseThanExact(t *testing.T) {
	sig := symbol.NewDeclaredSignature([]*symbol.Parameter{
		symbol.NewDeclaredParameter("a", []symbol.Type{builtin.Long}),
	}, builtin.Long)

	exact, ok := MatchArgs(sig, []symbol.Type{builtin.Long})
	require.True(t, ok)
	require.Equal(t, MatchExact, exact.Matches[0].Kind)

	promoted, ok := MatchArgs(sig, []symbol.Type{builtin.Int})
	require.True(t, ok)
	require.Equal(t, MatchPromoted, promoted.Matches[0].Kind)
}

func TestResolveAmbiguousWhenScoresTie(t *testing.T) {
	sigA := symbol.NewDeclaredSignature([]*symbol.Parameter{
		symbol.NewDeclaredParameter("a", []symbol.Type{builtin.Long}),
	}, builtin.Long)
	sigB := symbol.NewDeclaredSignature([]*symbol.Parameter{
		symbol.NewDeclaredParameter("a", []symbol.Type{builtin.Real}),
	}, builtin.Real)

	best, ambiguous, ok := Resolve([]*symbol.Signature{sigA, sigB}, []symbol.Type{builtin.Dynamic})
	require.True(t, ok)
	require.True(t, ambiguous)
	require.NotNil(t, best.Signature)
}

func TestResolveReturnTypeDeclared(t *testing.T) {
	sig := symbol.NewDeclaredSignature(nil, builtin.String)
	result, err := ResolveReturnType(sig, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, builtin.String, result)
}

func TestResolveReturnTypeParameter0Promoted(t *testing.T) {
	sig := symbol.NewSignature([]*symbol.Parameter{
		symbol.NewParameter("value", symbol.ParamSummable),
	}, symbol.ReturnParameter0Promoted)

	result, err := ResolveReturnType(sig, []symbol.Type{builtin.Int}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, builtin.Long, result)
}

func TestResolveReturnTypeComputedRequiresBodyBinder(t *testing.T) {
	sig := symbol.NewComputedSignature(nil, "x")
	_, err := ResolveReturnType(sig, nil, nil, nil)
	require.Error(t, err)
}
